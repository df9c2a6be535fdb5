package alphas

// Orderbook trades on book imbalance: (bidVol - askVol) / (bidVol + askVol)
// from a snapshot. Above the threshold it buys aggressively, below the
// negative threshold it sells aggressively; inside the band, or when the
// book carries no volume at all, it stays quiet.
type Orderbook struct {
	id        string
	Symbol    string
	Threshold float64
}

func NewOrderbook(id, symbol string, threshold float64) *Orderbook {
	return &Orderbook{id: id, Symbol: symbol, Threshold: threshold}
}

func (o *Orderbook) ID() string { return o.id }

func (o *Orderbook) Evaluate(ctx Context) *Signal {
	var bidVol, askVol float64
	for _, l := range ctx.Bids {
		bidVol += l.Size
	}
	for _, l := range ctx.Asks {
		askVol += l.Size
	}

	total := bidVol + askVol
	if total == 0 {
		return nil
	}

	imb := (bidVol - askVol) / total
	switch {
	case imb > o.Threshold:
		return &Signal{Alpha: o.id, Kind: KindBuyAggressive, Symbol: o.Symbol, Size: 1, Ts: ctx.Ts}
	case imb < -o.Threshold:
		return &Signal{Alpha: o.id, Kind: KindSellAggressive, Symbol: o.Symbol, Size: 1, Ts: ctx.Ts}
	}
	return nil
}
