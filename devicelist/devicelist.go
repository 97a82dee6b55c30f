// Package devicelist enumerates serial-capable device nodes using
// github.com/jochenvg/go-udev, the Go-native binding for the libudev
// enumeration the source collection's cm108.go drives through cgo
// (udev_enumerate_new / udev_enumerate_add_match_subsystem /
// udev_device_get_devnode) to inventory USB sound and HID devices. Here the
// same enumeration walks the "tty" subsystem instead, to find candidate
// microcontroller links.
package devicelist

import (
	"fmt"

	"github.com/jochenvg/go-udev"
)

// Device describes one candidate serial device node.
type Device struct {
	DevNode string
	Vendor  string
	Model   string
	Serial  string
}

// List enumerates tty devices currently attached to the system.
func List() ([]Device, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()

	if err := e.AddMatchSubsystem("tty"); err != nil {
		return nil, fmt.Errorf("devicelist: match subsystem: %w", err)
	}

	entries, err := e.Devices()
	if err != nil {
		return nil, fmt.Errorf("devicelist: enumerate: %w", err)
	}

	var out []Device

	for _, d := range entries {
		node := d.Devnode()
		if node == "" {
			continue
		}

		out = append(out, Device{
			DevNode: node,
			Vendor:  d.PropertyValue("ID_VENDOR"),
			Model:   d.PropertyValue("ID_MODEL"),
			Serial:  d.PropertyValue("ID_SERIAL_SHORT"),
		})
	}

	return out, nil
}
