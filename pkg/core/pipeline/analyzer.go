// Package pipeline runs the end-to-end scoring flow:
// fetch -> metrics -> rules -> valuation -> scorecard -> storage.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"equityscore/pkg/core/dcf"
	"equityscore/pkg/core/metrics"
	"equityscore/pkg/core/rules"
	"equityscore/pkg/core/scorecard"
	"equityscore/pkg/core/sector"
	"equityscore/pkg/models"
	"equityscore/pkg/provider"
)

// metricPeriods is how many trailing fiscal years of derived metrics each
// analysis carries, matching the moat screen's lookback.
const metricPeriods = 3

// Repository persists completed analyses. The store package provides the
// PostgreSQL implementation; tests inject an in-memory one.
type Repository interface {
	Save(ctx context.Context, a *scorecard.Analysis) error
}

// Analyzer wires the component evaluators behind a single entry point.
type Analyzer struct {
	provider  provider.Provider
	registry  *rules.Registry
	scenarios []dcf.Scenario
	currency  metrics.CurrencyConfig
	repo      Repository // optional; nil disables persistence
	log       zerolog.Logger
}

// NewAnalyzer creates an analyzer with the given data source and tunables.
func NewAnalyzer(p provider.Provider, reg *rules.Registry, scenarios []dcf.Scenario, currency metrics.CurrencyConfig, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		provider:  p,
		registry:  reg,
		scenarios: scenarios,
		currency:  currency,
		log:       log,
	}
}

// SetRepository injects a repository; analyses are saved after scoring.
func (a *Analyzer) SetRepository(repo Repository) {
	a.repo = repo
}

// AnalyzeTicker runs the full flow for one ticker. Fetch failures are the only
// error path; a fetched ticker always produces an analysis, possibly the
// CANNOT ANALYZE short-circuit. The analysis is keyed on the requested ticker,
// not whatever the provider echoes back.
func (a *Analyzer) AnalyzeTicker(ctx context.Context, ticker, runID string) (*scorecard.Analysis, error) {
	start := time.Now()
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	set, snap, err := a.provider.Fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}

	analysis := a.analyze(ticker, runID, set, snap)
	a.log.Info().
		Str("ticker", analysis.Ticker).
		Float64("score", analysis.Scorecard.Total).
		Str("recommendation", analysis.Scorecard.Recommendation).
		Dur("elapsed", time.Since(start)).
		Msg("ticker analyzed")

	if a.repo != nil {
		if err := a.repo.Save(ctx, analysis); err != nil {
			a.log.Warn().Err(err).Str("ticker", analysis.Ticker).Msg("failed to persist analysis")
		}
	}
	return analysis, nil
}

// analyze scores already-fetched data. The engine resolves the currency
// correction once; every evaluator shares the same corrected view.
func (a *Analyzer) analyze(ticker, runID string, set models.FinancialStatementSet, snap models.CompanySnapshot) *scorecard.Analysis {
	engine := metrics.NewEngine(ticker, set, snap, a.currency)
	cat := sector.Classify(snap.Sector, snap.Industry)

	analysis := &scorecard.Analysis{
		Ticker:      ticker,
		RunID:       runID,
		GeneratedAt: time.Now(),
		Snapshot:    snap,
		Category:    cat.String(),
	}

	// Tickers with any empty statement short-circuit: no evaluator runs on
	// data that is known to be unusable.
	if !engine.HasData() {
		a.log.Warn().Str("ticker", ticker).Msg("statements unusable, cannot analyze")
		analysis.Scorecard = scorecard.CannotAnalyze(ticker)
		return analysis
	}

	for p := 0; p < metricPeriods; p++ {
		analysis.Metrics = append(analysis.Metrics, engine.Derived(p))
	}

	analysis.Quality = rules.EvaluateQuality(engine)
	analysis.Moat = rules.EvaluateMoat(engine)
	analysis.Health = rules.EvaluateHealth(engine)
	analysis.Sector = a.registry.Evaluate(cat, engine)
	analysis.Valuation = dcf.Run(engine, cat, a.scenarios)
	analysis.Scorecard = scorecard.Build(ticker, analysis.Quality, analysis.Moat, analysis.Health, analysis.Valuation)
	return analysis
}

// BatchResult is the outcome of a multi-ticker run.
type BatchResult struct {
	RunID    string
	Analyses []*scorecard.Analysis
	Failures map[string]error
}

// RunBatch analyzes every ticker under one run ID. Per-ticker failures are
// collected, never fatal; the batch always completes.
func (a *Analyzer) RunBatch(ctx context.Context, tickers []string) BatchResult {
	runID := uuid.NewString()
	result := BatchResult{RunID: runID, Failures: map[string]error{}}

	a.log.Info().Str("run_id", runID).Int("tickers", len(tickers)).Msg("batch started")
	start := time.Now()

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			result.Failures[ticker] = err
			continue
		}

		analysis, err := a.AnalyzeTicker(ctx, ticker, runID)
		if err != nil {
			a.log.Error().Err(err).Str("ticker", ticker).Msg("ticker failed")
			result.Failures[ticker] = err
			continue
		}
		result.Analyses = append(result.Analyses, analysis)
	}

	a.log.Info().
		Str("run_id", runID).
		Int("analyzed", len(result.Analyses)).
		Int("failed", len(result.Failures)).
		Dur("elapsed", time.Since(start)).
		Msg("batch finished")
	return result
}
