// Package backtest drives the event pipeline: event source → bar
// aggregation → alpha evaluation → order/fill simulation → ledger.
package backtest

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/quantlab/marketsim/alphas"
	"github.com/quantlab/marketsim/bars"
	"github.com/quantlab/marketsim/config"
	"github.com/quantlab/marketsim/exec"
	"github.com/quantlab/marketsim/internal/id"
	"github.com/quantlab/marketsim/journal"
	"github.com/quantlab/marketsim/ledger"
	"github.com/quantlab/marketsim/market"
	"github.com/quantlab/marketsim/orders"
)

// barTimeframe is the bucket width every bar-driven alpha consumes.
const barTimeframe = time.Minute

// Engine processes one event to completion, including every alpha
// evaluation and all resulting order/fill persistence, before advancing
// to the next. Fill order therefore equals source order.
type Engine struct {
	cfg   *config.Config
	log   zerolog.Logger
	runID string

	model     *exec.Model
	agg       *bars.Aggregator
	portfolio *ledger.Portfolio
	om        *orders.Manager
	set       AlphaSet

	marketLog *journal.Writer
	signalLog *journal.Writer
	orderLog  *journal.Writer
	fillLog   *journal.Writer
	metaPath  string
	store     *journal.SQLite

	events  int
	fills   int
	startTs string
	endTs   string
}

// NewEngine opens the run's audit writers and assembles the pipeline.
// Call Close when done; an engine is good for exactly one run.
func NewEngine(cfg *config.Config, logger zerolog.Logger, runID string, paths Paths) (*Engine, error) {
	model := exec.NewModel(
		cfg.Backtest.SlippageAbs,
		cfg.Backtest.SlippagePct,
		cfg.Backtest.TickSize,
		cfg.Backtest.LotSize,
		cfg.Seed,
	)

	marketLog, err := journal.NewWriter(paths.Market)
	if err != nil {
		return nil, err
	}
	signalLog, err := journal.NewWriter(paths.Signal)
	if err != nil {
		marketLog.Close()
		return nil, err
	}
	orderLog, err := journal.NewWriter(paths.Order)
	if err != nil {
		marketLog.Close()
		signalLog.Close()
		return nil, err
	}
	fillLog, err := journal.NewWriter(paths.Fill)
	if err != nil {
		marketLog.Close()
		signalLog.Close()
		orderLog.Close()
		return nil, err
	}

	return &Engine{
		cfg:       cfg,
		log:       logger,
		runID:     runID,
		model:     model,
		agg:       bars.NewAggregator(),
		portfolio: ledger.New(decimal.NewFromFloat(cfg.Backtest.InitialCash)),
		om: orders.NewManager(model, id.New(cfg.Seed), orderLog, fillLog,
			decimal.NewFromFloat(cfg.Backtest.CommissionPerTrade)),
		set:       BuildAlphas(cfg),
		marketLog: marketLog,
		signalLog: signalLog,
		orderLog:  orderLog,
		fillLog:   fillLog,
		metaPath:  paths.Meta,
	}, nil
}

// AttachStore enables the SQLite fill/equity journal for this run.
func (e *Engine) AttachStore(store *journal.SQLite) { e.store = store }

// Portfolio exposes the ledger, e.g. for equity-curve export.
func (e *Engine) Portfolio() *ledger.Portfolio { return e.portfolio }

// Run consumes the feed to exhaustion and then persists run metadata.
// Every raw event is appended to the market audit log before it is
// processed.
func (e *Engine) Run(feed market.Feed) error {
	e.log.Info().Str("run_id", e.runID).Msg("engine: starting run")

	for {
		ev, ok, err := feed.Next()
		if err != nil {
			return fmt.Errorf("event source: %w", err)
		}
		if !ok {
			break
		}

		if err := e.marketLog.AppendRaw(ev.Raw()); err != nil {
			return err
		}
		e.events++
		e.trackBounds(ev.Ts)

		switch ev.MsgType {
		case market.MsgTick:
			if err := e.onTick(ev); err != nil {
				return err
			}
		case market.MsgBook:
			if err := e.onBook(ev); err != nil {
				return err
			}
		}
	}

	meta := journal.RunMeta{
		RunID:    e.runID,
		Snapshot: e.model.Snapshot(),
		StartTs:  e.startTs,
		EndTs:    e.endTs,
	}
	if err := journal.WriteRunMeta(e.metaPath, meta); err != nil {
		return err
	}

	e.log.Info().
		Int("events", e.events).
		Int("fills", e.fills).
		Str("cash", e.portfolio.Cash().String()).
		Msg("engine: run complete")
	return nil
}

func (e *Engine) Close() error {
	var firstErr error
	for _, c := range []*journal.Writer{e.marketLog, e.signalLog, e.orderLog, e.fillLog} {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// onTick feeds the aggregator and re-evaluates every bar-driven alpha
// whose required bars are now available.
func (e *Engine) onTick(ev market.Event) error {
	ts, err := ev.Time()
	if err != nil {
		// Unparsable tick time: the record stays in the audit log but
		// cannot be bucketed.
		return nil
	}
	e.agg.Ingest(ev.Symbol, ts, ev.Price, ev.Size)

	// Pairs needs closed bars for both legs simultaneously.
	if barA, okA := e.agg.LastClosedBar(e.set.Pairs.SymbolA, barTimeframe); okA {
		if barB, okB := e.agg.LastClosedBar(e.set.Pairs.SymbolB, barTimeframe); okB {
			sig := e.set.Pairs.Evaluate(alphas.Context{Ts: ev.Ts, BarA: &barA, BarB: &barB})
			if err := e.handleSignal(sig, ev); err != nil {
				return err
			}
		}
	}

	if bar, ok := e.agg.LastClosedBar(e.set.Breakout.Symbol, barTimeframe); ok {
		sig := e.set.Breakout.Evaluate(alphas.Context{Ts: ev.Ts, Bar: &bar})
		if err := e.handleSignal(sig, ev); err != nil {
			return err
		}
	}

	if bar, ok := e.agg.LastClosedBar(e.set.MTF.Symbol, barTimeframe); ok {
		sig := e.set.MTF.Evaluate(alphas.Context{Ts: ev.Ts, Bar: &bar})
		if err := e.handleSignal(sig, ev); err != nil {
			return err
		}
	}

	// The rotator sees a snapshot across its whole symbol list and
	// fires as soon as at least one bar exists.
	snapshot := make(map[string]*bars.Bar, len(e.set.Rotator.Symbols))
	any := false
	for _, s := range e.set.Rotator.Symbols {
		if bar, ok := e.agg.LastClosedBar(s, barTimeframe); ok {
			b := bar
			snapshot[s] = &b
			any = true
		} else {
			snapshot[s] = nil
		}
	}
	if any {
		sig := e.set.Rotator.Evaluate(alphas.Context{Ts: ev.Ts, Bars: snapshot})
		if err := e.handleSignal(sig, ev); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) onBook(ev market.Event) error {
	sig := e.set.Book.Evaluate(alphas.Context{Ts: ev.Ts, Bids: ev.Bids, Asks: ev.Asks})
	return e.handleSignal(sig, ev)
}

// handleSignal maps a signal onto market orders. A missing reference
// price drops the signal silently; that is reference-data absence, not
// an error.
func (e *Engine) handleSignal(sig *alphas.Signal, ev market.Event) error {
	if sig == nil {
		return nil
	}
	if err := e.signalLog.Append(sig); err != nil {
		return err
	}

	switch sig.Kind {
	case alphas.KindShortALongB, alphas.KindLongAShortB:
		return e.handlePairSignal(sig)
	case alphas.KindExit:
		// Flattening pair positions on exit is a documented gap; the
		// exit signal is audited and deliberately not traded.
		return nil
	}

	symbol := sig.Symbol
	if symbol == "" {
		symbol = ev.Symbol
	}
	price, ok := e.agg.LastTickPrice(symbol)
	if !ok {
		e.log.Debug().Str("alpha", sig.Alpha).Str("symbol", symbol).Msg("engine: no reference price, signal dropped")
		return nil
	}
	return e.submit(sig.Alpha, symbol, sideFor(sig.Kind), sig.Size, price, sig.Ts)
}

// handlePairSignal issues the two opposite legs of a divergence trade.
// Both legs need a reference price or the whole signal is dropped.
func (e *Engine) handlePairSignal(sig *alphas.Signal) error {
	if len(sig.Symbols) != 2 {
		return nil
	}
	symbolA, symbolB := sig.Symbols[0], sig.Symbols[1]
	priceA, okA := e.agg.LastTickPrice(symbolA)
	priceB, okB := e.agg.LastTickPrice(symbolB)
	if !okA || !okB {
		return nil
	}

	sideA, sideB := "sell", "buy"
	if sig.Kind == alphas.KindLongAShortB {
		sideA, sideB = "buy", "sell"
	}
	if err := e.submit(sig.Alpha, symbolA, sideA, sig.Size, priceA, sig.Ts); err != nil {
		return err
	}
	return e.submit(sig.Alpha, symbolB, sideB, sig.Size, priceB, sig.Ts)
}

func (e *Engine) submit(alpha, symbol, side string, size, refPrice float64, ts string) error {
	fill, err := e.om.SubmitMarketOrder(alpha, symbol, side,
		decimal.NewFromFloat(size), decimal.NewFromFloat(refPrice), ts)
	if err != nil {
		return err
	}
	e.fills++
	e.portfolio.ApplyFill(fill)

	if e.store != nil {
		if err := e.store.RecordFill(alpha, fill); err != nil {
			return fmt.Errorf("journal fill: %w", err)
		}
		series := e.portfolio.EquitySeries()
		if err := e.store.RecordEquity(series[len(series)-1]); err != nil {
			return fmt.Errorf("journal equity: %w", err)
		}
	}
	return nil
}

// sideFor maps signal kinds onto order sides. Unrecognized kinds map to
// buy; that default is part of the contract.
func sideFor(kind string) string {
	switch kind {
	case alphas.KindLong, alphas.KindBuyAggressive:
		return "buy"
	case alphas.KindShort, alphas.KindSellAggressive:
		return "sell"
	}
	return "buy"
}

func (e *Engine) trackBounds(ts string) {
	if e.startTs == "" {
		e.startTs = ts
	}
	e.endTs = ts
}
