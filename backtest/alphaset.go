package backtest

import (
	"github.com/quantlab/marketsim/alphas"
	"github.com/quantlab/marketsim/config"
)

// Alpha ids as they appear in the signal/order logs and the
// reconciliation breakdown.
const (
	AlphaPairs      = "alpha_1_pairs"
	AlphaBreakout   = "alpha_2_breakout"
	AlphaMTF        = "alpha_3_mtf"
	AlphaMultiAsset = "alpha_4_multi_asset"
	AlphaOrderbook  = "alpha_5_orderbook"
)

// AlphaSet is the fixed collection of reference alphas. The set is
// closed: the engine routes bars and book snapshots per member.
type AlphaSet struct {
	Pairs    *alphas.Pairs
	Breakout *alphas.Breakout
	MTF      *alphas.MTF
	Rotator  *alphas.Rotator
	Book     *alphas.Orderbook
}

// BuildAlphas instantiates the alpha set from configuration. The pairs
// alpha receives the run seed; it draws no randomness operationally but
// its random state is part of the reproducibility contract.
func BuildAlphas(cfg *config.Config) AlphaSet {
	a := cfg.Alphas
	return AlphaSet{
		Pairs: alphas.NewPairs(AlphaPairs, a.Pairs.SymbolA, a.Pairs.SymbolB,
			a.Pairs.Lookback, a.Pairs.ZEnter, a.Pairs.ZExit, cfg.Seed),
		Breakout: alphas.NewBreakout(AlphaBreakout, a.Breakout.Symbol, a.Breakout.Lookback),
		MTF:      alphas.NewMTF(AlphaMTF, a.MTF.Symbol, a.MTF.Fast, a.MTF.Slow),
		Rotator:  alphas.NewRotator(AlphaMultiAsset, a.MultiAsset.Symbols),
		Book:     alphas.NewOrderbook(AlphaOrderbook, a.Orderbook.Symbol, a.Orderbook.ImbalanceThreshold),
	}
}
