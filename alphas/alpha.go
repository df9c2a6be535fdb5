// Package alphas contains the signal-generating strategies ("alphas")
// and the evaluation contract shared by all of them.
package alphas

import (
	"github.com/quantlab/marketsim/bars"
	"github.com/quantlab/marketsim/market"
)

// Signal kinds emitted by the reference alphas. The orchestrator maps
// unrecognized kinds to a buy-side order.
const (
	KindLong           = "long"
	KindShort          = "short"
	KindShortALongB    = "short_a_long_b"
	KindLongAShortB    = "long_a_short_b"
	KindExit           = "exit"
	KindBuyAggressive  = "buy_aggressive"
	KindSellAggressive = "sell_aggressive"
)

// Signal is a trade intent. It lives for exactly one pipeline pass.
// Pair signals carry Symbols (both legs); all others carry Symbol.
type Signal struct {
	Alpha   string   `json:"alpha"`
	Kind    string   `json:"signal"`
	Symbol  string   `json:"symbol,omitempty"`
	Symbols []string `json:"symbols,omitempty"`
	Size    float64  `json:"size,omitempty"`
	Ts      string   `json:"ts"`
}

// Context carries the market state a single evaluation may consume.
// Each alpha reads only the fields it declares a need for and returns
// nil when they are absent.
type Context struct {
	Ts   string
	Bar  *bars.Bar            // single-symbol bar alphas
	BarA *bars.Bar            // pairs leg A
	BarB *bars.Bar            // pairs leg B
	Bars map[string]*bars.Bar // rotator snapshot across its symbol list
	Bids []market.Level       // order-book alphas
	Asks []market.Level
}

// Alpha is the one capability every strategy implements.
type Alpha interface {
	ID() string
	Evaluate(ctx Context) *Signal
}
