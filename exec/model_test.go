package exec

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRoundTick(t *testing.T) {
	m := NewModel(0, 0, 0.01, 1, 42)

	assert.True(t, m.RoundTick(dec("100.123")).Equal(dec("100.12")))
	assert.True(t, m.RoundTick(dec("100.126")).Equal(dec("100.13")))
	assert.True(t, m.RoundTick(dec("100.12")).Equal(dec("100.12")))
}

func TestRoundTick_Idempotent(t *testing.T) {
	m := NewModel(0, 0, 0.01, 1, 42)
	once := m.RoundTick(dec("99.987654"))
	assert.True(t, once.Equal(m.RoundTick(once)))
}

func TestFillPrice(t *testing.T) {
	// 100 + 0.05 + 100*0.001 = 100.15
	m := NewModel(0.05, 0.001, 0.01, 1, 42)
	assert.True(t, m.FillPrice(dec("100")).Equal(dec("100.15")))
}

func TestFillPrice_Deterministic(t *testing.T) {
	a := NewModel(0.05, 0.001, 0.01, 1, 1)
	b := NewModel(0.05, 0.001, 0.01, 1, 2)
	// The seed never influences pricing.
	assert.True(t, a.FillPrice(dec("123.4567")).Equal(b.FillPrice(dec("123.4567"))))
}

func TestFloorLot_NeverRoundsUp(t *testing.T) {
	m := NewModel(0, 0, 0.01, 5, 42)

	assert.True(t, m.FloorLot(dec("12")).Equal(dec("10")))
	assert.True(t, m.FloorLot(dec("14.999")).Equal(dec("10")))
	assert.True(t, m.FloorLot(dec("15")).Equal(dec("15")))
	assert.True(t, m.FloorLot(dec("3")).Equal(dec("0")))
}

func TestFillMarket(t *testing.T) {
	m := NewModel(0.05, 0.001, 0.01, 1, 42)
	fill := m.FillMarket("oid-1", "SYM_A", "buy", dec("2.7"), dec("100"), "2024-01-01T00:00:00Z", dec("0.1"))

	assert.Equal(t, "oid-1", fill.OrderID)
	assert.Equal(t, "SYM_A", fill.Symbol)
	assert.Equal(t, "buy", fill.Side)
	assert.True(t, fill.Size.Equal(dec("2")))
	assert.True(t, fill.Price.Equal(dec("100.15")))
	assert.True(t, fill.Fee.Equal(dec("0.1")))
}

func TestSnapshot(t *testing.T) {
	m := NewModel(0.05, 0.001, 0.01, 1, 42)
	snap := m.Snapshot()
	require.Equal(t, int64(42), snap.Seed)
	assert.Equal(t, 0.05, snap.SlippageAbs)
	assert.Equal(t, 0.001, snap.SlippagePct)
	assert.Equal(t, 0.01, snap.TickSize)
	assert.Equal(t, 1.0, snap.LotSize)
}
