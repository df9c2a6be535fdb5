package backtest

import "path/filepath"

// Paths names the audit artifacts one run writes.
type Paths struct {
	Market string
	Signal string
	Order  string
	Fill   string
	Meta   string
}

// ReplayPaths lays out artifacts for a replay run inside outDir.
func ReplayPaths(outDir string) Paths {
	return Paths{
		Market: filepath.Join(outDir, "market_replayed.ndjson"),
		Signal: filepath.Join(outDir, "signal_log.ndjson"),
		Order:  filepath.Join(outDir, "order_log.ndjson"),
		Fill:   filepath.Join(outDir, "fill_log.ndjson"),
		Meta:   filepath.Join(outDir, "replay_metadata.json"),
	}
}

// RunPaths lays out artifacts for a sandbox run under base, prefixed by
// the run id.
func RunPaths(base, runID string) Paths {
	return Paths{
		Market: filepath.Join(base, runID+"_market.ndjson"),
		Signal: filepath.Join(base, runID+"_signal.ndjson"),
		Order:  filepath.Join(base, runID+"_order.ndjson"),
		Fill:   filepath.Join(base, runID+"_fill.ndjson"),
		Meta:   filepath.Join(base, runID+"_metadata.json"),
	}
}
