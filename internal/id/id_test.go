package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_DeterministicAcrossGenerators(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	a, b := New(42), New(42)
	for i := 0; i < 10; i++ {
		at := ts.Add(time.Duration(i) * time.Second)
		assert.Equal(t, a.Next(at), b.Next(at))
	}
}

func TestNext_SeedChangesEntropy(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NotEqual(t, New(1).Next(ts), New(2).Next(ts))
}

func TestNext_TimestampComponent(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	raw := New(42).Next(ts)

	parsed, err := ulid.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(ts), parsed.Time())
}

func TestNext_MonotonicWithinMillisecond(t *testing.T) {
	g := New(42)
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	prev := g.Next(ts)
	for i := 0; i < 5; i++ {
		next := g.Next(ts)
		assert.Less(t, prev, next)
		prev = next
	}
}
