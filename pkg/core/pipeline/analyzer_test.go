package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"equityscore/pkg/core/dcf"
	"equityscore/pkg/core/metrics"
	"equityscore/pkg/core/rules"
	"equityscore/pkg/core/scorecard"
	"equityscore/pkg/models"
)

func floatPtr(f float64) *float64 { return &f }

func row(vals ...float64) models.LineValues {
	out := make(models.LineValues, len(vals))
	for i := range vals {
		out[i] = floatPtr(vals[i])
	}
	return out
}

// fakeProvider serves canned data per ticker and fails unknown ones.
type fakeProvider struct {
	data map[string]models.FinancialStatementSet
	snap map[string]models.CompanySnapshot
}

func (f *fakeProvider) Fetch(_ context.Context, ticker string) (models.FinancialStatementSet, models.CompanySnapshot, error) {
	set, ok := f.data[ticker]
	if !ok {
		return set, models.CompanySnapshot{}, errors.New("fetch failed")
	}
	return set, f.snap[ticker], nil
}

type fakeRepo struct {
	saved []*scorecard.Analysis
}

func (f *fakeRepo) Save(_ context.Context, a *scorecard.Analysis) error {
	f.saved = append(f.saved, a)
	return nil
}

func healthySet(ticker string) models.FinancialStatementSet {
	return models.FinancialStatementSet{
		Ticker: ticker,
		Income: models.Statement{Rows: map[string]models.LineValues{
			metrics.ItemTotalRevenue:    row(1000000, 900000, 800000),
			metrics.ItemOperatingIncome: row(200000, 170000, 150000),
			metrics.ItemNetIncome:       row(150000, 120000, 100000),
			metrics.ItemPretaxIncome:    row(180000, 150000, 130000),
			metrics.ItemTaxProvision:    row(40000, 33000, 29000),
		}},
		Balance: models.Statement{Rows: map[string]models.LineValues{
			metrics.ItemStockholdersEquity: row(800000, 700000, 600000),
			metrics.ItemTotalDebt:          row(100000, 100000, 100000),
			metrics.ItemCash:               row(150000, 120000, 100000),
		}},
		CashFlow: models.Statement{Rows: map[string]models.LineValues{
			metrics.ItemOperatingCashFlow: row(180000, 160000, 140000),
			metrics.ItemCapEx:             row(-30000, -28000, -25000),
		}},
	}
}

func noDataSet(ticker string) models.FinancialStatementSet {
	return models.FinancialStatementSet{
		Ticker: ticker,
		Income: models.Statement{Rows: map[string]models.LineValues{
			metrics.ItemTotalRevenue: row(1000),
		}},
	}
}

func newTestAnalyzer(p *fakeProvider) *Analyzer {
	return NewAnalyzer(p, rules.DefaultRegistry(), dcf.DefaultScenarios(),
		metrics.DefaultCurrencyConfig(), zerolog.Nop())
}

func TestAnalyzeTicker(t *testing.T) {
	p := &fakeProvider{
		data: map[string]models.FinancialStatementSet{"GOOD": healthySet("GOOD")},
		snap: map[string]models.CompanySnapshot{"GOOD": {
			Sector:            "Industrials",
			CurrentPrice:      50,
			SharesOutstanding: 100000,
			TrailingPE:        18,
		}},
	}
	repo := &fakeRepo{}
	a := newTestAnalyzer(p)
	a.SetRepository(repo)

	analysis, err := a.AnalyzeTicker(context.Background(), "GOOD", "run-1")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if !analysis.Scorecard.Analyzable {
		t.Fatal("healthy ticker must be analyzable")
	}
	if analysis.Category != "General" {
		t.Errorf("category = %s, want General", analysis.Category)
	}
	if analysis.Scorecard.Total <= 0 || analysis.Scorecard.Total > 100 {
		t.Errorf("total = %f, want within (0, 100]", analysis.Scorecard.Total)
	}
	if len(analysis.Quality.Verdicts) != 8 {
		t.Errorf("quality verdicts = %d, want 8", len(analysis.Quality.Verdicts))
	}
	if len(analysis.Valuation.Scenarios) != 3 {
		t.Errorf("valuation scenarios = %d, want 3", len(analysis.Valuation.Scenarios))
	}
	if analysis.RunID != "run-1" {
		t.Errorf("run id = %s", analysis.RunID)
	}

	// The record carries the foundational metrics for the moat lookback.
	if len(analysis.Metrics) != metricPeriods {
		t.Fatalf("metric periods = %d, want %d", len(analysis.Metrics), metricPeriods)
	}
	latest := analysis.Metrics[0]
	if latest.Period != 0 {
		t.Errorf("latest metric period = %d, want 0", latest.Period)
	}
	// FCF = 180,000 - 30,000; IC = 800,000 + 100,000 - 150,000.
	if latest.FCF != 150000 {
		t.Errorf("fcf = %f, want 150000", latest.FCF)
	}
	if latest.InvestedCapital != 750000 {
		t.Errorf("invested capital = %f, want 750000", latest.InvestedCapital)
	}
	if latest.ROIC <= 0 || latest.NOPAT <= 0 {
		t.Errorf("roic = %f, nopat = %f, want positive", latest.ROIC, latest.NOPAT)
	}

	if len(repo.saved) != 1 || repo.saved[0].Ticker != "GOOD" {
		t.Errorf("repo saved = %d analyses", len(repo.saved))
	}
}

// The analysis key comes from the request, not from whatever ticker the
// provider echoes back in its payload.
func TestAnalyzeTickerKeyedOnRequest(t *testing.T) {
	p := &fakeProvider{
		data: map[string]models.FinancialStatementSet{"GOOD": healthySet("")},
		snap: map[string]models.CompanySnapshot{"GOOD": {
			Sector:            "Industrials",
			CurrentPrice:      50,
			SharesOutstanding: 100000,
		}},
	}
	a := newTestAnalyzer(p)

	analysis, err := a.AnalyzeTicker(context.Background(), " good ", "run-1")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if analysis.Ticker != "GOOD" {
		t.Errorf("ticker = %q, want GOOD", analysis.Ticker)
	}
	if analysis.Scorecard.Ticker != "GOOD" {
		t.Errorf("scorecard ticker = %q, want GOOD", analysis.Scorecard.Ticker)
	}
}

func TestCannotAnalyzeShortCircuit(t *testing.T) {
	p := &fakeProvider{
		data: map[string]models.FinancialStatementSet{"BARE": noDataSet("BARE")},
		snap: map[string]models.CompanySnapshot{"BARE": {Sector: "Utilities"}},
	}
	a := newTestAnalyzer(p)

	analysis, err := a.AnalyzeTicker(context.Background(), "BARE", "run-1")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if analysis.Scorecard.Recommendation != scorecard.RecCannotAnalyze {
		t.Errorf("recommendation = %s, want %s", analysis.Scorecard.Recommendation, scorecard.RecCannotAnalyze)
	}
	if analysis.Scorecard.Analyzable || analysis.Scorecard.Total != 0 {
		t.Error("short-circuited ticker must carry no score")
	}
	// No evaluator ran: component results stay zero-valued.
	if len(analysis.Quality.Verdicts) != 0 || len(analysis.Valuation.Scenarios) != 0 {
		t.Error("evaluators must not run on unusable data")
	}
	if len(analysis.Metrics) != 0 {
		t.Error("unusable data must not yield derived metrics")
	}
}

func TestRunBatchCollectsFailures(t *testing.T) {
	p := &fakeProvider{
		data: map[string]models.FinancialStatementSet{
			"GOOD": healthySet("GOOD"),
			"BARE": noDataSet("BARE"),
		},
		snap: map[string]models.CompanySnapshot{
			"GOOD": {Sector: "Industrials", CurrentPrice: 50, SharesOutstanding: 100000},
			"BARE": {},
		},
	}
	a := newTestAnalyzer(p)

	result := a.RunBatch(context.Background(), []string{"GOOD", "MISSING", "BARE"})

	if result.RunID == "" {
		t.Error("batch must carry a run id")
	}
	if len(result.Analyses) != 2 {
		t.Fatalf("analyzed = %d, want 2", len(result.Analyses))
	}
	if _, ok := result.Failures["MISSING"]; !ok || len(result.Failures) != 1 {
		t.Errorf("failures = %v, want MISSING only", result.Failures)
	}
	for _, analysis := range result.Analyses {
		if analysis.RunID != result.RunID {
			t.Errorf("analysis run id %s does not match batch %s", analysis.RunID, result.RunID)
		}
	}
}
