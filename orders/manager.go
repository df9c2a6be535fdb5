// Package orders turns signals into persisted orders and fills.
package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantlab/marketsim/exec"
	"github.com/quantlab/marketsim/internal/id"
	"github.com/quantlab/marketsim/journal"
)

// Order is immutable after creation and persisted before its fill is
// computed, so a crash between order and fill is always observable.
type Order struct {
	OrderID string          `json:"order_id"`
	Alpha   string          `json:"alpha"`
	Type    string          `json:"type"`
	Symbol  string          `json:"symbol"`
	Side    string          `json:"side"`
	Size    decimal.Decimal `json:"size"`
	Ts      string          `json:"ts"`
}

// Manager assigns order IDs, persists order records, obtains exactly one
// fill per market order from the execution model and persists that too.
// Orders are never retried or mutated after submission.
type Manager struct {
	model    *exec.Model
	ids      *id.Generator
	orderLog *journal.Writer
	fillLog  *journal.Writer
	fee      decimal.Decimal
}

func NewManager(model *exec.Model, ids *id.Generator, orderLog, fillLog *journal.Writer, feePerTrade decimal.Decimal) *Manager {
	return &Manager{
		model:    model,
		ids:      ids,
		orderLog: orderLog,
		fillLog:  fillLog,
		fee:      feePerTrade,
	}
}

// SubmitMarketOrder persists the order, then computes and persists its
// fill. Persistence order is audit-before-effect and must not change.
func (m *Manager) SubmitMarketOrder(alpha, symbol, side string, size, refPrice decimal.Decimal, ts string) (exec.Fill, error) {
	order := Order{
		OrderID: m.ids.Next(orderTime(ts)),
		Alpha:   alpha,
		Type:    "market",
		Symbol:  symbol,
		Side:    side,
		Size:    size,
		Ts:      ts,
	}
	if err := m.orderLog.Append(order); err != nil {
		return exec.Fill{}, err
	}

	fill := m.model.FillMarket(order.OrderID, symbol, side, size, refPrice, ts, m.fee)
	if err := m.fillLog.Append(fill); err != nil {
		return exec.Fill{}, err
	}
	return fill, nil
}

// orderTime feeds the ID generator. An unparsable timestamp maps to the
// epoch so the ID sequence stays reproducible either way.
func orderTime(ts string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, ts); err != nil {
			return time.Unix(0, 0).UTC()
		}
	}
	return t
}
