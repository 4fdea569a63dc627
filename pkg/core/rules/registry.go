package rules

import (
	"fmt"

	"equityscore/pkg/core/metrics"
	"equityscore/pkg/core/sector"
)

// ThresholdRule is one data-driven sector check: a named metric compared
// against pass/warn thresholds. Sector strategies are structurally identical
// lists of these; there is no per-sector code.
type ThresholdRule struct {
	ID        string  `json:"id"`
	Metric    string  `json:"metric"`
	Op        string  `json:"op"` // "gte" (higher is better) or "lte" (lower is better)
	Pass      float64 `json:"pass"`
	Warn      float64 `json:"warn"`
	Rationale string  `json:"rationale"`
}

// Registry maps a sector category to its rule table.
type Registry struct {
	tables map[sector.Category][]ThresholdRule
}

// metricFuncs resolves rule metric names against the engine. Percentages are
// expressed in points (roic 15 means 15%).
var metricFuncs = map[string]func(*metrics.Engine) float64{
	"roic":             func(e *metrics.Engine) float64 { return e.ROIC(0) },
	"operating_margin": func(e *metrics.Engine) float64 { return e.OperatingMargin(0) * 100 },
	"net_margin":       func(e *metrics.Engine) float64 { return e.NetMargin(0) * 100 },
	"revenue_growth":   func(e *metrics.Engine) float64 { return e.RevenueGrowth(0) * 100 },
	"debt_to_equity":   func(e *metrics.Engine) float64 { return e.DebtToEquity(0) },
	"fcf":              func(e *metrics.Engine) float64 { return e.FCF(0) },
	"dividend_yield":   func(e *metrics.Engine) float64 { return e.Snapshot().DividendYield * 100 },
	"trailing_pe":      func(e *metrics.Engine) float64 { return e.Snapshot().TrailingPE },
	"price_to_book":    func(e *metrics.Engine) float64 { return e.Snapshot().PriceToBook },
}

// DefaultRegistry returns the built-in sector tables. They can be replaced
// wholesale from an HJSON file, see LoadHJSON.
func DefaultRegistry() *Registry {
	return &Registry{tables: map[sector.Category][]ThresholdRule{
		sector.Financial: {
			{ID: "fin_price_to_book", Metric: "price_to_book", Op: "lte", Pass: 1.5, Warn: 3.0,
				Rationale: "Financials are book-value businesses; paying much over book needs superior ROE"},
			{ID: "fin_net_margin", Metric: "net_margin", Op: "gte", Pass: 15, Warn: 8,
				Rationale: "Lending spreads and fee income should convert to wide net margins"},
		},
		sector.Utility: {
			{ID: "util_dividend", Metric: "dividend_yield", Op: "gte", Pass: 3, Warn: 1.5,
				Rationale: "Regulated utilities are owned for their payout"},
			{ID: "util_leverage", Metric: "debt_to_equity", Op: "lte", Pass: 1.5, Warn: 2.5,
				Rationale: "Rate-base financing tolerates leverage, but only to a point"},
		},
		sector.Telecom: {
			{ID: "tel_fcf", Metric: "fcf", Op: "gte", Pass: 0.01, Warn: 0,
				Rationale: "Capex-heavy networks must still throw off cash"},
			{ID: "tel_leverage", Metric: "debt_to_equity", Op: "lte", Pass: 2.0, Warn: 3.0,
				Rationale: "Spectrum and buildout debt piles up fast"},
		},
		sector.General: {
			{ID: "gen_roic", Metric: "roic", Op: "gte", Pass: 12, Warn: 8,
				Rationale: "Capital must earn its keep regardless of sector"},
			{ID: "gen_growth", Metric: "revenue_growth", Op: "gte", Pass: 5, Warn: 0,
				Rationale: "A business that is not growing is usually shrinking"},
		},
	}}
}

// Evaluate runs the category's rule table against the engine.
func (r *Registry) Evaluate(cat sector.Category, e *metrics.Engine) []Verdict {
	table, ok := r.tables[cat]
	if !ok {
		table = r.tables[sector.General]
	}

	verdicts := make([]Verdict, 0, len(table))
	for _, rule := range table {
		fn, known := metricFuncs[rule.Metric]
		if !known {
			verdicts = append(verdicts, Verdict{
				ID:        rule.ID,
				Status:    StatusWarning,
				Value:     "n/a",
				Rationale: fmt.Sprintf("unknown metric %q in rule table", rule.Metric),
			})
			continue
		}
		value := fn(e)

		var status Status
		if rule.Op == "lte" {
			status = statusFor(value <= rule.Pass, value <= rule.Warn)
		} else {
			status = statusFor(value >= rule.Pass, value >= rule.Warn)
		}
		verdicts = append(verdicts, Verdict{
			ID:        rule.ID,
			Status:    status,
			Value:     fmt.Sprintf("%.2f", value),
			Rationale: rule.Rationale,
		})
	}
	return verdicts
}
