package journal

import (
	"encoding/csv"
	"os"

	"github.com/quantlab/marketsim/ledger"
)

// WriteEquityCSV exports the equity history as a two-column CSV, the
// hand-off format for the external report renderer.
func WriteEquityCSV(path string, series []ledger.EquityPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ts", "cash"}); err != nil {
		return err
	}
	for _, p := range series {
		if err := w.Write([]string{p.Ts, p.Cash.String()}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
