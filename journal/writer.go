// Package journal owns the run's audit artifacts: append-only NDJSON
// logs, the run-metadata document, the SQLite trade/equity store and the
// equity CSV hand-off for the external reporting collaborator.
package journal

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

func init() {
	// Fills and orders carry decimal fields; the wire format is NDJSON
	// with plain numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Writer is an append-only NDJSON log with exactly one writer role per
// file (market, signal, order or fill). Records hit the OS on every
// append so a crash between an order and its fill is observable.
type Writer struct {
	f    *os.File
	path string
}

func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return &Writer{f: f, path: path}, nil
}

// Append marshals v as one JSON line.
func (w *Writer) Append(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal journal record: %w", err)
	}
	return w.AppendRaw(b)
}

// AppendRaw writes an already-encoded record verbatim, newline-terminated.
func (w *Writer) AppendRaw(line []byte) error {
	if _, err := w.f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append %s: %w", w.path, err)
	}
	return nil
}

func (w *Writer) Path() string { return w.path }

func (w *Writer) Close() error {
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}
