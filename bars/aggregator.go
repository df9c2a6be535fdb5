// Package bars turns raw ticks into fixed-interval OHLCV bars with a
// per-symbol cache rebuilt on demand.
package bars

import (
	"time"
)

// Bar is an OHLCV aggregate over one left-closed time bucket
// [Start, End). Only bars for fully closed buckets are ever returned.
type Bar struct {
	Symbol    string
	Timeframe time.Duration
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Start     time.Time
	End       time.Time
}

type tick struct {
	ts    time.Time
	price float64
	size  float64
}

type cacheKey struct {
	symbol    string
	timeframe time.Duration
}

// Aggregator owns the per-symbol tick buffers and the bar cache.
// It is the only component that mutates them; callers get value copies.
// Rebuild-on-demand trades CPU for simplicity, but bucket boundaries and
// aggregation are identical to an incremental build.
type Aggregator struct {
	buffers map[string][]tick
	cache   map[cacheKey][]Bar
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		buffers: make(map[string][]tick),
		cache:   make(map[cacheKey][]Bar),
	}
}

// Ingest appends one tick to the symbol's buffer and invalidates any
// cached bars for that symbol.
func (a *Aggregator) Ingest(symbol string, ts time.Time, price, size float64) {
	a.buffers[symbol] = append(a.buffers[symbol], tick{ts: ts.UTC(), price: price, size: size})
	for key := range a.cache {
		if key.symbol == symbol {
			delete(a.cache, key)
		}
	}
}

// TickCount reports how many ticks are buffered for a symbol.
func (a *Aggregator) TickCount(symbol string) int {
	return len(a.buffers[symbol])
}

// LastTickPrice returns the most recent ingested price for a symbol.
func (a *Aggregator) LastTickPrice(symbol string) (float64, bool) {
	buf := a.buffers[symbol]
	if len(buf) == 0 {
		return 0, false
	}
	return buf[len(buf)-1].price, true
}

// LastClosedBar rebuilds the bar series for (symbol, timeframe) if needed
// and returns the most recent fully closed bucket. The bucket containing
// the newest ingested tick is still open and is never returned. Repeated
// calls with no new ticks return the identical bar.
func (a *Aggregator) LastClosedBar(symbol string, timeframe time.Duration) (Bar, bool) {
	if timeframe <= 0 {
		return Bar{}, false
	}

	key := cacheKey{symbol: symbol, timeframe: timeframe}
	series, ok := a.cache[key]
	if !ok {
		series = a.build(symbol, timeframe)
		a.cache[key] = series
	}
	if len(series) == 0 {
		return Bar{}, false
	}

	buf := a.buffers[symbol]
	latest := buf[len(buf)-1].ts
	openStart := latest.Truncate(timeframe)

	// Walk back to the newest bucket that closed before the open one.
	for i := len(series) - 1; i >= 0; i-- {
		if series[i].Start.Before(openStart) {
			return series[i], true
		}
	}
	return Bar{}, false
}

// build buckets the full tick buffer into fixed-width windows, taking
// first/max/min/last price and summed size per bucket. Buffer order is
// source order, which is assumed timestamp-ordered.
func (a *Aggregator) build(symbol string, timeframe time.Duration) []Bar {
	buf := a.buffers[symbol]
	if len(buf) == 0 {
		return nil
	}

	var series []Bar
	for _, t := range buf {
		start := t.ts.Truncate(timeframe)
		if n := len(series); n > 0 && series[n-1].Start.Equal(start) {
			b := &series[n-1]
			if t.price > b.High {
				b.High = t.price
			}
			if t.price < b.Low {
				b.Low = t.price
			}
			b.Close = t.price
			b.Volume += t.size
			continue
		}
		series = append(series, Bar{
			Symbol:    symbol,
			Timeframe: timeframe,
			Open:      t.price,
			High:      t.price,
			Low:       t.price,
			Close:     t.price,
			Volume:    t.size,
			Start:     start,
			End:       start.Add(timeframe),
		})
	}
	return series
}
