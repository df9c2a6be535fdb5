// Package sandbox generates a deterministic synthetic event stream and
// drives it through the same pipeline a replay run uses, so the two run
// kinds differ only in where their events come from.
package sandbox

import (
	"math"
	"time"

	"github.com/quantlab/marketsim/market"
)

// Symbols is the fixed universe a sandbox run trades.
var Symbols = []string{"SYM_A", "SYM_B", "SYM_C", "SYM_D", "SYM_E"}

// BasePrices anchors the synthetic price paths.
var BasePrices = map[string]float64{
	"SYM_A": 100.0,
	"SYM_B": 98.0,
	"SYM_C": 150.0,
	"SYM_D": 50.0,
	"SYM_E": 200.0,
}

// bookSymbol gets an L2 snapshot every bookEverySec seconds, after its
// tick for that second.
const (
	bookSymbol   = "SYM_E"
	bookEverySec = 5
	bookLevels   = 3
)

// Generator is a market.Feed producing, per one-second step, one tick
// per symbol plus the periodic L2 snapshot. The stream is a pure
// function of (start, duration): no wall clock, no randomness.
type Generator struct {
	start  time.Time
	end    time.Time
	cursor time.Time
	queue  []market.Event
}

// NewGenerator builds a generator covering [start, start+duration).
func NewGenerator(start time.Time, duration time.Duration) *Generator {
	start = start.UTC().Truncate(time.Second)
	return &Generator{
		start:  start,
		end:    start.Add(duration),
		cursor: start,
	}
}

func (g *Generator) Next() (market.Event, bool, error) {
	for len(g.queue) == 0 {
		if !g.cursor.Before(g.end) {
			return market.Event{}, false, nil
		}
		g.queue = stepEvents(g.cursor)
		g.cursor = g.cursor.Add(time.Second)
	}
	ev := g.queue[0]
	g.queue = g.queue[1:]
	return ev, true, nil
}

func (g *Generator) Close() error { return nil }

// stepEvents emits the events for one second: a tick per symbol in
// universe order, then the book snapshot when due.
func stepEvents(ts time.Time) []market.Event {
	events := make([]market.Event, 0, len(Symbols)+1)
	for _, s := range Symbols {
		events = append(events, tickEvent(s, ts))
	}
	if ts.Second()%bookEverySec == 0 {
		events = append(events, bookEvent(bookSymbol, ts))
	}
	return events
}

// tickEvent derives the price from the second-of-minute so the path
// oscillates deterministically around the base.
func tickEvent(symbol string, ts time.Time) market.Event {
	base := BasePrices[symbol]
	price := round4(base * (1 + 0.0001*float64(ts.Second()%30-15)))
	return market.Event{
		MsgType: market.MsgTick,
		Symbol:  symbol,
		Ts:      isoTs(ts),
		Price:   price,
		Size:    1,
	}
}

func bookEvent(symbol string, ts time.Time) market.Event {
	base := BasePrices[symbol]
	bids := make([]market.Level, bookLevels)
	asks := make([]market.Level, bookLevels)
	for i := 0; i < bookLevels; i++ {
		bids[i] = market.Level{Price: round4(base * (1 - 0.0001*float64(i))), Size: float64(10 + i)}
		asks[i] = market.Level{Price: round4(base * (1 + 0.0001*float64(i))), Size: float64(12 + i)}
	}
	return market.Event{
		MsgType: market.MsgBook,
		Symbol:  symbol,
		Ts:      isoTs(ts),
		Bids:    bids,
		Asks:    asks,
	}
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func isoTs(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}
