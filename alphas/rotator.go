package alphas

// Rotator is a deterministic round-robin selector across a fixed symbol
// list. It advances its cursor by one on every invocation and always
// emits a signal.
type Rotator struct {
	id      string
	Symbols []string

	cursor int
}

func NewRotator(id string, symbols []string) *Rotator {
	return &Rotator{id: id, Symbols: symbols}
}

func (r *Rotator) ID() string { return r.id }

func (r *Rotator) Evaluate(ctx Context) *Signal {
	if len(r.Symbols) == 0 {
		return nil
	}

	symbol := r.Symbols[r.cursor%len(r.Symbols)]
	r.cursor++
	return &Signal{Alpha: r.id, Kind: KindLong, Symbol: symbol, Size: 1, Ts: ctx.Ts}
}
