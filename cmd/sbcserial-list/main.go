// Command sbcserial-list prints candidate serial devices, the tty
// equivalent of the source collection's cm108 inventory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/rohand2412/sbcserial/devicelist"
)

func main() {
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - list candidate serial devices.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	devices, err := devicelist.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sbcserial-list: %v\n", err)
		os.Exit(1)
	}

	if len(devices) == 0 {
		fmt.Println("No tty devices found.")

		return
	}

	for _, d := range devices {
		fmt.Printf("%-20s vendor=%-16s model=%-16s serial=%s\n", d.DevNode, d.Vendor, d.Model, d.Serial)
	}
}
