// Package ledger is the portfolio: exact-decimal cash and positions,
// a chronological trade log and an equity history.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/quantlab/marketsim/exec"
)

// EquityPoint is one (timestamp, cash) sample. Equity here tracks cash
// only, not mark-to-market valuation of open positions; the series feeds
// trade-level reconciliation, not risk figures.
type EquityPoint struct {
	Ts   string
	Cash decimal.Decimal
}

// Portfolio is mutated only by ApplyFill, strictly in fill arrival
// order. All arithmetic is exact decimal; binary floating point never
// touches cash or positions.
type Portfolio struct {
	cash      decimal.Decimal
	positions map[string]decimal.Decimal
	trades    []exec.Fill
	equity    []EquityPoint
}

func New(initialCash decimal.Decimal) *Portfolio {
	return &Portfolio{
		cash:      initialCash,
		positions: make(map[string]decimal.Decimal),
	}
}

// buySide reports whether a fill side debits cash. Anything outside the
// recognized set is treated as a sell-equivalent; that default is part
// of the contract, not a fallback to fix.
func buySide(side string) bool {
	switch side {
	case "buy", "long", "buy_aggressive":
		return true
	}
	return false
}

// ApplyFill books one fill: buys add to the position and debit cash by
// price*size+fee, sells subtract and credit price*size-fee. The fill is
// appended to the trade log and a cash snapshot to the equity history.
func (p *Portfolio) ApplyFill(f exec.Fill) {
	notional := f.Price.Mul(f.Size)
	if buySide(f.Side) {
		p.positions[f.Symbol] = p.positions[f.Symbol].Add(f.Size)
		p.cash = p.cash.Sub(notional.Add(f.Fee))
	} else {
		p.positions[f.Symbol] = p.positions[f.Symbol].Sub(f.Size)
		p.cash = p.cash.Add(notional.Sub(f.Fee))
	}
	p.trades = append(p.trades, f)
	p.equity = append(p.equity, EquityPoint{Ts: f.Ts, Cash: p.cash})
}

func (p *Portfolio) Cash() decimal.Decimal { return p.cash }

func (p *Portfolio) Position(symbol string) decimal.Decimal {
	return p.positions[symbol]
}

// Trades returns the chronological trade log.
func (p *Portfolio) Trades() []exec.Fill { return p.trades }

// EquitySeries returns the time-indexed cash series consumed by the
// external reporting collaborator.
func (p *Portfolio) EquitySeries() []EquityPoint { return p.equity }
