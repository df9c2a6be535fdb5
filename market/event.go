// Package market defines the wire-level market event model and the
// NDJSON event source that feeds a run.
package market

import (
	"encoding/json"
	"time"
)

// Event message types as they appear on the wire.
const (
	MsgTick = "tick"
	MsgBook = "l2_update"
)

// Level is one price level of an order-book snapshot.
type Level struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// Event is a single market event: a trade print (MsgTick) or an
// order-book snapshot (MsgBook). Ts stays a string so the raw record can
// be re-emitted verbatim to the audit log; use Time() when a parsed
// timestamp is needed.
type Event struct {
	MsgType string  `json:"msg_type"`
	Symbol  string  `json:"symbol"`
	Ts      string  `json:"ts"`
	Price   float64 `json:"price,omitempty"`
	Size    float64 `json:"size,omitempty"`
	Bids    []Level `json:"bids,omitempty"`
	Asks    []Level `json:"asks,omitempty"`

	raw []byte
}

// Raw returns the original encoded record for audit re-emission.
// For events built in memory it lazily encodes the event once.
func (e *Event) Raw() []byte {
	if e.raw == nil {
		b, err := json.Marshal(e)
		if err != nil {
			return nil
		}
		e.raw = b
	}
	return e.raw
}

// Time parses the event timestamp. Accepts RFC3339 or RFC3339Nano.
func (e *Event) Time() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, e.Ts)
	if err != nil {
		return time.Parse(time.RFC3339, e.Ts)
	}
	return t, nil
}

// ParseEvent decodes one NDJSON record and retains the raw bytes.
func ParseEvent(line []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return Event{}, err
	}
	raw := make([]byte, len(line))
	copy(raw, line)
	ev.raw = raw
	return ev, nil
}
