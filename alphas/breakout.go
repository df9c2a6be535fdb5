package alphas

// Breakout emits a long signal when the close clears the maximum high of
// the trailing window. The window includes the current bar's high.
type Breakout struct {
	id     string
	Symbol string

	highs *window
}

func NewBreakout(id, symbol string, lookback int) *Breakout {
	return &Breakout{id: id, Symbol: symbol, highs: newWindow(lookback)}
}

func (b *Breakout) ID() string { return b.id }

func (b *Breakout) Evaluate(ctx Context) *Signal {
	if ctx.Bar == nil {
		return nil
	}

	b.highs.push(ctx.Bar.High)
	if !b.highs.full() {
		return nil
	}
	if ctx.Bar.Close > b.highs.max() {
		return &Signal{Alpha: b.id, Kind: KindLong, Symbol: b.Symbol, Size: 1, Ts: ctx.Ts}
	}
	return nil
}
