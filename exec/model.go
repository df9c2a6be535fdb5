// Package exec implements the deterministic execution model: slippage,
// tick/lot rounding and flat fees, all in exact decimal arithmetic.
package exec

import (
	"github.com/shopspring/decimal"
)

// Fill is the synchronous result of a market order. Exactly one fill is
// produced per order; there is no partial-fill or rejection modeling.
type Fill struct {
	OrderID string          `json:"order_id"`
	Symbol  string          `json:"symbol"`
	Side    string          `json:"side"`
	Size    decimal.Decimal `json:"size"`
	Price   decimal.Decimal `json:"price"`
	Ts      string          `json:"ts"`
	Fee     decimal.Decimal `json:"fee"`
}

// Snapshot is the audit-persisted view of a model's configuration.
// Determinism is checked against this snapshot, not the live model.
type Snapshot struct {
	Seed        int64   `json:"seed"`
	SlippageAbs float64 `json:"slippage_abs"`
	SlippagePct float64 `json:"slippage_pct"`
	TickSize    float64 `json:"tick_size"`
	LotSize     float64 `json:"lot_size"`
}

// Model converts a reference price into a fill price and a requested
// size into an executable size. It is a pure function of its
// configuration and the order parameters; the seed is recorded at
// construction purely so it lands in the audit snapshot.
type Model struct {
	seed        int64
	slippageAbs decimal.Decimal
	slippagePct decimal.Decimal
	tickSize    decimal.Decimal
	lotSize     decimal.Decimal
}

// priceDigits bounds fractional digits after tick rounding, eliminating
// residual representation error from the division.
const priceDigits = 8

func NewModel(slippageAbs, slippagePct, tickSize, lotSize float64, seed int64) *Model {
	return &Model{
		seed:        seed,
		slippageAbs: decimal.NewFromFloat(slippageAbs),
		slippagePct: decimal.NewFromFloat(slippagePct),
		tickSize:    decimal.NewFromFloat(tickSize),
		lotSize:     decimal.NewFromFloat(lotSize),
	}
}

// RoundTick rounds a price to the nearest multiple of the tick size,
// then re-rounds to a fixed number of fractional digits. Idempotent:
// RoundTick(RoundTick(x)) == RoundTick(x).
func (m *Model) RoundTick(price decimal.Decimal) decimal.Decimal {
	return price.Div(m.tickSize).Round(0).Mul(m.tickSize).Round(priceDigits)
}

// FloorLot floors a size to the nearest multiple of the lot size.
// Sizes are never rounded up, so a fill can never exceed the request.
func (m *Model) FloorLot(size decimal.Decimal) decimal.Decimal {
	return size.Div(m.lotSize).Floor().Mul(m.lotSize)
}

// FillPrice applies the deterministic slippage model to a top-of-book
// price: top + slippage_abs + top*slippage_pct, tick-rounded.
func (m *Model) FillPrice(top decimal.Decimal) decimal.Decimal {
	return m.RoundTick(top.Add(m.slippageAbs).Add(top.Mul(m.slippagePct)))
}

// FillMarket produces the single deterministic fill for a market order.
func (m *Model) FillMarket(orderID, symbol, side string, size, top decimal.Decimal, ts string, fee decimal.Decimal) Fill {
	return Fill{
		OrderID: orderID,
		Symbol:  symbol,
		Side:    side,
		Size:    m.FloorLot(size),
		Price:   m.FillPrice(top),
		Ts:      ts,
		Fee:     fee,
	}
}

// Snapshot exposes the model configuration for audit persistence.
func (m *Model) Snapshot() Snapshot {
	return Snapshot{
		Seed:        m.seed,
		SlippageAbs: m.slippageAbs.InexactFloat64(),
		SlippagePct: m.slippagePct.InexactFloat64(),
		TickSize:    m.tickSize.InexactFloat64(),
		LotSize:     m.lotSize.InexactFloat64(),
	}
}
