package alphas

import (
	"math"
	"math/rand"
)

// Pairs is a mean-reversion alpha on the spread between two legs.
// It tracks closeA - closeB over a fixed lookback window and trades the
// z-score of the current spread against entry/exit thresholds.
type Pairs struct {
	id      string
	SymbolA string
	SymbolB string
	ZEnter  float64
	ZExit   float64

	spread *window
	// rng is seeded at construction and draws nothing on the hot path;
	// two runs with the same seed carry identical random state.
	rng *rand.Rand
}

func NewPairs(id, symbolA, symbolB string, lookback int, zEnter, zExit float64, seed int64) *Pairs {
	return &Pairs{
		id:      id,
		SymbolA: symbolA,
		SymbolB: symbolB,
		ZEnter:  zEnter,
		ZExit:   zExit,
		spread:  newWindow(lookback),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (p *Pairs) ID() string { return p.id }

// Evaluate consumes closed bars for both legs. It emits nothing until
// the window is full, and nothing on a zero-variance window. The entry
// comparison is strict: z exactly at the threshold does not trigger.
func (p *Pairs) Evaluate(ctx Context) *Signal {
	if ctx.BarA == nil || ctx.BarB == nil {
		return nil
	}

	spread := ctx.BarA.Close - ctx.BarB.Close
	p.spread.push(spread)
	if !p.spread.full() {
		return nil
	}

	std := p.spread.std()
	if std == 0 {
		return nil
	}
	z := (spread - p.spread.mean()) / std

	switch {
	case z > p.ZEnter:
		return &Signal{
			Alpha:   p.id,
			Kind:    KindShortALongB,
			Symbols: []string{p.SymbolA, p.SymbolB},
			Size:    1,
			Ts:      ctx.Ts,
		}
	case z < -p.ZEnter:
		return &Signal{
			Alpha:   p.id,
			Kind:    KindLongAShortB,
			Symbols: []string{p.SymbolA, p.SymbolB},
			Size:    1,
			Ts:      ctx.Ts,
		}
	case math.Abs(z) < p.ZExit:
		return &Signal{Alpha: p.id, Kind: KindExit, Ts: ctx.Ts}
	}
	return nil
}
