package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/marketsim/exec"
	"github.com/quantlab/marketsim/ledger"
)

func TestWriteRunMeta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, WriteRunMeta(path, RunMeta{
		RunID: "run_local_001",
		Snapshot: exec.Snapshot{
			Seed:        42,
			SlippageAbs: 0,
			SlippagePct: 0.001,
			TickSize:    0.01,
			LotSize:     1,
		},
		StartTs: "2024-01-01T00:00:00Z",
		EndTs:   "2024-01-01T00:01:00Z",
	}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "run_local_001", got["run_id"])
	assert.Equal(t, 42.0, got["seed"])
	assert.Equal(t, 0.001, got["slippage_pct"])
	assert.Equal(t, "2024-01-01T00:01:00Z", got["end_ts"])
}

func TestWriteEquityCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equity.csv")
	series := []ledger.EquityPoint{
		{Ts: "2024-01-01T00:00:00Z", Cash: decimal.RequireFromString("979")},
		{Ts: "2024-01-01T00:00:01Z", Cash: decimal.RequireFromString("1002.5")},
	}
	require.NoError(t, WriteEquityCSV(path, series))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ts,cash\n2024-01-01T00:00:00Z,979\n2024-01-01T00:00:01Z,1002.5\n", string(b))
}
