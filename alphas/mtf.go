package alphas

// MTF compares a fast and a slow exponentially weighted moving average
// over the accumulated minute closes: long when fast > slow, short when
// fast < slow, nothing on exact equality or insufficient history.
type MTF struct {
	id     string
	Symbol string
	Fast   int
	Slow   int

	fast ewma
	slow ewma
	n    int
}

// ewma is a span-parameterized EWMA with adjusted weighting: each value
// x_i carries weight (1-alpha)^(n-i), normalized over the observed
// history. Tracked incrementally as a numerator/denominator pair.
type ewma struct {
	alpha float64
	num   float64
	den   float64
}

func newEWMA(span int) ewma {
	if span < 1 {
		span = 1
	}
	return ewma{alpha: 2.0 / (float64(span) + 1.0)}
}

func (e *ewma) push(x float64) {
	decay := 1.0 - e.alpha
	e.num = x + decay*e.num
	e.den = 1 + decay*e.den
}

func (e *ewma) value() float64 { return e.num / e.den }

func NewMTF(id, symbol string, fast, slow int) *MTF {
	return &MTF{
		id:     id,
		Symbol: symbol,
		Fast:   fast,
		Slow:   slow,
		fast:   newEWMA(fast),
		slow:   newEWMA(slow),
	}
}

func (m *MTF) ID() string { return m.id }

func (m *MTF) Evaluate(ctx Context) *Signal {
	if ctx.Bar == nil {
		return nil
	}

	m.fast.push(ctx.Bar.Close)
	m.slow.push(ctx.Bar.Close)
	m.n++
	if m.n < m.Slow {
		return nil
	}

	fast, slow := m.fast.value(), m.slow.value()
	switch {
	case fast > slow:
		return &Signal{Alpha: m.id, Kind: KindLong, Symbol: m.Symbol, Size: 1, Ts: ctx.Ts}
	case fast < slow:
		return &Signal{Alpha: m.id, Kind: KindShort, Symbol: m.Symbol, Size: 1, Ts: ctx.Ts}
	}
	return nil
}
