package reconcile

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Tolerances for the verdict rules. PnL sums are compared as floats;
// per-fill prices get a tighter bound before a positional diff is
// flagged as a price mismatch.
const (
	pnlTolerance   = 1e-8
	priceTolerance = 1e-9
)

const (
	VerdictPass = "PASS"
	VerdictFail = "FAIL"
)

// Options addresses the two runs' audit logs and the verdict output.
type Options struct {
	SandboxFills  string
	SandboxOrders string
	ReplayFills   string
	ReplayOrders  string
	OutPath       string
}

// AlphaResult is the per-alpha verdict line.
type AlphaResult struct {
	Trades   int     `json:"trades"`
	PnL      float64 `json:"pnl"`
	Match    string  `json:"match"`
	Analysis string  `json:"analysis"`
}

// Result is the final verdict document.
type Result struct {
	Metadata struct {
		CompareTime string `json:"compare_time"`
	} `json:"metadata"`
	PortfolioPnL struct {
		SandboxPnL  float64 `json:"sandbox_pnl"`
		BacktestPnL float64 `json:"backtest_pnl"`
		PnLMatch    string  `json:"pnl_match"`
	} `json:"portfolio_pnl"`
	Alphas          map[string]AlphaResult `json:"alphas"`
	MismatchReports map[string]string      `json:"mismatch_reports"`
}

// Passed reports whether the aggregate and every per-alpha verdict passed.
func (r Result) Passed() bool {
	if r.PortfolioPnL.PnLMatch != VerdictPass {
		return false
	}
	for _, a := range r.Alphas {
		if a.Match != VerdictPass {
			return false
		}
	}
	return true
}

type diffEntry struct {
	Index       int            `json:"index"`
	Sandbox     map[string]any `json:"sandbox"`
	Replay      map[string]any `json:"replay"`
	PriceDiff   *float64       `json:"price_diff,omitempty"`
	LikelyCause string         `json:"likely_cause,omitempty"`
}

type alphaGroup struct {
	trades int
	pnl    float64
	fills  []map[string]any
}

// Reconciler loads two runs' fill and order logs and produces the
// verdict plus mismatch diff artifacts. A mismatch is a result, never
// an error.
type Reconciler struct {
	log zerolog.Logger
}

func New(logger zerolog.Logger) *Reconciler {
	return &Reconciler{log: logger}
}

// Compare runs the full reconciliation and writes the verdict document
// to opts.OutPath.
func (r *Reconciler) Compare(opts Options) (Result, error) {
	sandboxFills, err := LoadNDJSON(opts.SandboxFills)
	if err != nil {
		return Result{}, fmt.Errorf("load sandbox fills: %w", err)
	}
	replayFills, err := LoadNDJSON(opts.ReplayFills)
	if err != nil {
		return Result{}, fmt.Errorf("load replay fills: %w", err)
	}
	sandboxAlpha, err := orderAlphaMap(opts.SandboxOrders)
	if err != nil {
		return Result{}, fmt.Errorf("load sandbox orders: %w", err)
	}
	replayAlpha, err := orderAlphaMap(opts.ReplayOrders)
	if err != nil {
		return Result{}, fmt.Errorf("load replay orders: %w", err)
	}

	var result Result
	result.Metadata.CompareTime = time.Now().UTC().Format(time.RFC3339)
	result.Alphas = make(map[string]AlphaResult)
	result.MismatchReports = make(map[string]string)

	sandboxPnL := aggregatePnL(sandboxFills)
	replayPnL := aggregatePnL(replayFills)
	result.PortfolioPnL.SandboxPnL = round8(sandboxPnL)
	result.PortfolioPnL.BacktestPnL = round8(replayPnL)
	result.PortfolioPnL.PnLMatch = verdict(math.Abs(sandboxPnL-replayPnL) < pnlTolerance)

	sandboxGroups := groupByAlpha(sandboxFills, sandboxAlpha)
	replayGroups := groupByAlpha(replayFills, replayAlpha)

	for _, alpha := range unionKeys(sandboxGroups, replayGroups) {
		s := sandboxGroups[alpha]
		p := replayGroups[alpha]
		if s == nil {
			s = &alphaGroup{}
		}
		if p == nil {
			p = &alphaGroup{}
		}

		match := s.trades == p.trades && math.Abs(s.pnl-p.pnl) < pnlTolerance
		entry := AlphaResult{
			Trades: s.trades,
			PnL:    round8(s.pnl),
			Match:  verdict(match),
		}
		if !match {
			reportPath, err := r.writeMismatchReport(opts.OutPath, alpha, s.fills, p.fills)
			if err != nil {
				return Result{}, err
			}
			result.MismatchReports[alpha] = reportPath
			entry.Analysis = "See " + reportPath
		}
		result.Alphas[alpha] = entry
	}

	if err := writeJSON(opts.OutPath, result); err != nil {
		return Result{}, err
	}

	r.log.Info().
		Str("pnl_match", result.PortfolioPnL.PnLMatch).
		Int("alphas", len(result.Alphas)).
		Int("mismatches", len(result.MismatchReports)).
		Msg("reconcile: verdict written")
	return result, nil
}

// writeMismatchReport pairs fills index-by-index and records a diff per
// position: a missing counterpart or a price delta beyond tolerance.
func (r *Reconciler) writeMismatchReport(outPath, alpha string, sandbox, replay []map[string]any) (string, error) {
	n := len(sandbox)
	if len(replay) > n {
		n = len(replay)
	}

	diffs := make([]diffEntry, 0, n)
	for i := 0; i < n; i++ {
		d := diffEntry{Index: i}
		if i < len(sandbox) {
			d.Sandbox = sandbox[i]
		}
		if i < len(replay) {
			d.Replay = replay[i]
		}
		if d.Sandbox != nil && d.Replay != nil {
			priceDiff := num(d.Sandbox, "price") - num(d.Replay, "price")
			d.PriceDiff = &priceDiff
			if math.Abs(priceDiff) > priceTolerance {
				d.LikelyCause = "price_mismatch"
			}
		} else {
			d.LikelyCause = "missing_fill"
		}
		diffs = append(diffs, d)
	}

	path := filepath.Join(filepath.Dir(outPath), fmt.Sprintf("mismatch_report_%s.json", alpha))
	if err := writeJSON(path, diffs); err != nil {
		return "", err
	}
	return path, nil
}

// orderAlphaMap joins fills back to their alpha through the order log,
// since fill records do not carry the alpha id themselves.
func orderAlphaMap(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	orders, err := LoadNDJSON(path)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(orders))
	for _, o := range orders {
		if id := str(o, "order_id"); id != "" {
			m[id] = str(o, "alpha")
		}
	}
	return m, nil
}

func alphaOf(fill map[string]any, orderAlpha map[string]string) string {
	if a := str(fill, "alpha"); a != "" {
		return a
	}
	if a := orderAlpha[str(fill, "order_id")]; a != "" {
		return a
	}
	return "unknown"
}

// pnlDelta is the signed cash flow of one fill: buys pay out, sells
// collect.
func pnlDelta(fill map[string]any) float64 {
	amount := num(fill, "price") * num(fill, "size")
	switch str(fill, "side") {
	case "buy", "long", "buy_aggressive":
		return -amount
	}
	return amount
}

func aggregatePnL(fills []map[string]any) float64 {
	var total float64
	for _, f := range fills {
		total += pnlDelta(f)
	}
	return total
}

func groupByAlpha(fills []map[string]any, orderAlpha map[string]string) map[string]*alphaGroup {
	groups := make(map[string]*alphaGroup)
	for _, f := range fills {
		alpha := alphaOf(f, orderAlpha)
		g := groups[alpha]
		if g == nil {
			g = &alphaGroup{}
			groups[alpha] = g
		}
		g.trades++
		g.pnl += pnlDelta(f)
		g.fills = append(g.fills, f)
	}
	return groups
}

func unionKeys(a, b map[string]*alphaGroup) []string {
	seen := make(map[string]struct{})
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func verdict(ok bool) string {
	if ok {
		return VerdictPass
	}
	return VerdictFail
}

func round8(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
