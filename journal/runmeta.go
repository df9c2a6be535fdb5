package journal

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/quantlab/marketsim/exec"
)

// RunMeta is the persisted run-metadata document. Identical RunMeta plus
// an identical ordered event input must always reproduce identical
// order and fill sequences.
type RunMeta struct {
	RunID string `json:"run_id,omitempty"`
	exec.Snapshot
	StartTs string `json:"start_ts,omitempty"`
	EndTs   string `json:"end_ts,omitempty"`
}

// WriteRunMeta persists the metadata document as indented JSON.
func WriteRunMeta(path string, meta RunMeta) error {
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run metadata: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write run metadata: %w", err)
	}
	return nil
}
