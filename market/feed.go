package market

import (
	"bufio"
	"bytes"
	"os"
)

// Feed yields market events one at a time in source order.
// Implementations must be deterministic and return (ok=false, err=nil) at EOF.
type Feed interface {
	Next() (Event, bool, error)
	Close() error
}

// NDJSONFeed streams events from an append-only NDJSON market log.
// The file is assumed to already be timestamp-ordered; no re-sorting is
// performed. Lines that fail to parse are skipped so one bad record never
// loses the rest of the log.
type NDJSONFeed struct {
	f       *os.File
	scanner *bufio.Scanner
	skipped int
}

func NewNDJSONFeed(path string) (*NDJSONFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	sc := bufio.NewScanner(f)
	// L2 snapshots can be wide; allow long lines.
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	return &NDJSONFeed{f: f, scanner: sc}, nil
}

func (f *NDJSONFeed) Next() (Event, bool, error) {
	for f.scanner.Scan() {
		line := bytes.TrimSpace(f.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		ev, err := ParseEvent(line)
		if err != nil {
			f.skipped++
			continue
		}
		return ev, true, nil
	}
	if err := f.scanner.Err(); err != nil {
		return Event{}, false, err
	}
	return Event{}, false, nil
}

// Skipped reports how many malformed lines were dropped so far.
func (f *NDJSONFeed) Skipped() int { return f.skipped }

func (f *NDJSONFeed) Close() error {
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}
