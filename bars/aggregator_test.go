package bars

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(sec int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(sec) * time.Second)
}

func TestLastClosedBar_AggregatesOHLCV(t *testing.T) {
	agg := NewAggregator()

	// First bucket [00:00, 01:00): open 10, high 15, low 9, close 12.
	agg.Ingest("SYM_A", at(0), 10, 1)
	agg.Ingest("SYM_A", at(10), 15, 2)
	agg.Ingest("SYM_A", at(20), 9, 3)
	agg.Ingest("SYM_A", at(59), 12, 4)

	// Bucket still open: nothing closed yet.
	_, ok := agg.LastClosedBar("SYM_A", time.Minute)
	assert.False(t, ok)

	// A tick in the next bucket closes the first one.
	agg.Ingest("SYM_A", at(60), 11, 5)

	bar, ok := agg.LastClosedBar("SYM_A", time.Minute)
	require.True(t, ok)
	assert.Equal(t, 10.0, bar.Open)
	assert.Equal(t, 15.0, bar.High)
	assert.Equal(t, 9.0, bar.Low)
	assert.Equal(t, 12.0, bar.Close)
	assert.Equal(t, 10.0, bar.Volume)
	assert.Equal(t, at(0), bar.Start)
	assert.Equal(t, at(60), bar.End)
}

func TestLastClosedBar_NeverReturnsOpenBucket(t *testing.T) {
	agg := NewAggregator()
	agg.Ingest("SYM_A", at(0), 10, 1)
	agg.Ingest("SYM_A", at(61), 20, 1)
	agg.Ingest("SYM_A", at(62), 30, 1)

	bar, ok := agg.LastClosedBar("SYM_A", time.Minute)
	require.True(t, ok)
	// The bucket holding the latest ticks (20, 30) is still open.
	assert.Equal(t, 10.0, bar.Close)
	assert.Equal(t, at(60), bar.End)
}

func TestLastClosedBar_Idempotent(t *testing.T) {
	agg := NewAggregator()
	agg.Ingest("SYM_A", at(5), 10, 1)
	agg.Ingest("SYM_A", at(65), 11, 1)

	first, ok := agg.LastClosedBar("SYM_A", time.Minute)
	require.True(t, ok)
	second, ok := agg.LastClosedBar("SYM_A", time.Minute)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestLastClosedBar_EmptySymbol(t *testing.T) {
	agg := NewAggregator()
	_, ok := agg.LastClosedBar("MISSING", time.Minute)
	assert.False(t, ok)
}

func TestLastClosedBar_RebuildAfterNewTicks(t *testing.T) {
	agg := NewAggregator()
	agg.Ingest("SYM_A", at(0), 10, 1)
	agg.Ingest("SYM_A", at(60), 20, 1)

	bar, ok := agg.LastClosedBar("SYM_A", time.Minute)
	require.True(t, ok)
	assert.Equal(t, 10.0, bar.Close)

	// New tick two buckets later: the second bucket closes too.
	agg.Ingest("SYM_A", at(120), 30, 1)
	bar, ok = agg.LastClosedBar("SYM_A", time.Minute)
	require.True(t, ok)
	assert.Equal(t, 20.0, bar.Close)
	assert.Equal(t, at(120), bar.End)
}

func TestLastTickPrice(t *testing.T) {
	agg := NewAggregator()
	_, ok := agg.LastTickPrice("SYM_A")
	assert.False(t, ok)

	agg.Ingest("SYM_A", at(0), 10, 1)
	agg.Ingest("SYM_A", at(1), 11, 1)
	price, ok := agg.LastTickPrice("SYM_A")
	require.True(t, ok)
	assert.Equal(t, 11.0, price)
	assert.Equal(t, 2, agg.TickCount("SYM_A"))
}

func TestLastClosedBar_TimeframeIndependence(t *testing.T) {
	agg := NewAggregator()
	agg.Ingest("SYM_A", at(0), 10, 1)
	agg.Ingest("SYM_A", at(30), 12, 1)
	agg.Ingest("SYM_A", at(45), 8, 1)

	// 15s buckets: [0,15) closed once the 30s tick arrives.
	bar, ok := agg.LastClosedBar("SYM_A", 15*time.Second)
	require.True(t, ok)
	assert.Equal(t, 12.0, bar.Close)
	assert.Equal(t, at(30), bar.Start)

	// 1m bucket still open.
	_, ok = agg.LastClosedBar("SYM_A", time.Minute)
	assert.False(t, ok)
}
