// Package tracelog writes one CSV row per decoded packet to a daily-rotated
// trace file, the same daily-file strategy the source collection's
// log.go uses for received-packet logging, adapted to this protocol's
// decoded items instead of APRS fields.
package tracelog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// namePattern is the strftime pattern used for daily file names. Unlike the
// teacher's "2006-01-02.log" via time.Format, this goes through strftime;
// the pattern is fixed here, and Open takes no pattern of its own.
const namePattern = "%Y-%m-%d.csv"

// Logger appends one CSV row per packet to a directory of daily-named
// files, opening (and rotating to) a new file whenever the UTC date
// changes. Not safe for concurrent use.
type Logger struct {
	dir      string
	pattern  *strftime.Strftime
	file     *os.File
	openName string
}

// Open prepares a Logger writing under dir, creating it if it does not yet
// exist.
func Open(dir string) (*Logger, error) {
	pattern, err := strftime.New(namePattern)
	if err != nil {
		return nil, fmt.Errorf("tracelog: bad name pattern: %w", err)
	}

	if stat, err := os.Stat(dir); err != nil {
		if err := os.Mkdir(dir, 0755); err != nil {
			return nil, fmt.Errorf("tracelog: create %s: %w", dir, err)
		}
	} else if !stat.IsDir() {
		return nil, fmt.Errorf("tracelog: %s is not a directory", dir)
	}

	return &Logger{dir: dir, pattern: pattern}, nil
}

// Record appends one row: the wall-clock time, the packet's item count, and
// the items themselves (space-joined, since a row has a variable column
// count otherwise). when is taken as a parameter, UTC, rather than read
// from time.Now() internally, so callers (and their tests) control it.
func (l *Logger) Record(when time.Time, items []int64) error {
	when = when.UTC()
	name := l.pattern.FormatString(when)

	if l.file != nil && name != l.openName {
		if err := l.Close(); err != nil {
			return err
		}
	}

	if l.file == nil {
		full := filepath.Join(l.dir, name)

		_, statErr := os.Stat(full)
		alreadyThere := statErr == nil

		f, err := os.OpenFile(full, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return fmt.Errorf("tracelog: open %s: %w", full, err)
		}

		l.file = f
		l.openName = name

		if !alreadyThere {
			if _, err := fmt.Fprintln(l.file, "utctime,count,items"); err != nil {
				return fmt.Errorf("tracelog: write header: %w", err)
			}
		}
	}

	fields := make([]string, len(items))
	for i, v := range items {
		fields[i] = strconv.FormatInt(v, 10)
	}

	w := csv.NewWriter(l.file)

	row := []string{when.Format(time.RFC3339), strconv.Itoa(len(items)), strings.Join(fields, " ")}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("tracelog: write row: %w", err)
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("tracelog: flush: %w", err)
	}

	return nil
}

// Close closes the currently open file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}

	err := l.file.Close()
	l.file = nil
	l.openName = ""

	if err != nil {
		return fmt.Errorf("tracelog: close: %w", err)
	}

	return nil
}
