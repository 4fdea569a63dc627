package metrics

import "math"

// =============================================================================
// DERIVED METRICS
// Pure functions of normalized lookups, recomputed on demand. No caching, so
// repeated requests for the same period always reflect the current data.
// =============================================================================

const (
	defaultTaxRate = 0.25
	maxTaxRate     = 0.40
)

// DerivedMetricSet holds the four foundational computed values for one
// (ticker, period) pair.
type DerivedMetricSet struct {
	Period          int     `json:"period"`
	InvestedCapital float64 `json:"invested_capital"`
	NOPAT           float64 `json:"nopat"`
	ROIC            float64 `json:"roic"`
	FCF             float64 `json:"fcf"`
}

// Derived computes all four foundational metrics for a period index.
func (e *Engine) Derived(period int) DerivedMetricSet {
	return DerivedMetricSet{
		Period:          period,
		InvestedCapital: e.InvestedCapital(period),
		NOPAT:           e.NOPAT(period),
		ROIC:            e.ROIC(period),
		FCF:             e.FCF(period),
	}
}

// InvestedCapital = Stockholders Equity + Total Debt - Cash & Equivalents.
func (e *Engine) InvestedCapital(period int) float64 {
	equity := e.Get(TableBalance, ItemStockholdersEquity, period)
	cash := e.Get(TableBalance, ItemCash, period)
	return equity + e.TotalDebt(period) - cash
}

// EffectiveTaxRate = Tax Provision / Pretax Income, clamped to [0, 0.40].
// A zero pretax income yields the default 25% assumption rather than a
// division by zero.
func (e *Engine) EffectiveTaxRate(period int) float64 {
	pretax := e.Get(TableIncome, ItemPretaxIncome, period)
	if pretax == 0 {
		return defaultTaxRate
	}
	rate := e.Get(TableIncome, ItemTaxProvision, period) / pretax
	if rate < 0 {
		return 0
	}
	if rate > maxTaxRate {
		return maxTaxRate
	}
	return rate
}

// NOPAT = Operating Income x (1 - effective tax rate).
func (e *Engine) NOPAT(period int) float64 {
	opInc := e.Get(TableIncome, ItemOperatingIncome, period)
	return opInc * (1 - e.EffectiveTaxRate(period))
}

// ROIC = NOPAT / Invested Capital x 100. Zero invested capital yields 0.0
// (explicit guard, never a panic).
func (e *Engine) ROIC(period int) float64 {
	ic := e.InvestedCapital(period)
	if ic == 0 {
		return 0
	}
	return e.NOPAT(period) / ic * 100
}

// FCF = Operating Cash Flow + CapEx, with CapEx forced to be an outflow before
// summation. Providers are inconsistent about the sign of capital expenditure;
// normalizing here makes FCF invariant to the reported convention.
func (e *Engine) FCF(period int) float64 {
	ocf := e.Get(TableCashFlow, ItemOperatingCashFlow, period)
	capex := e.Get(TableCashFlow, ItemCapEx, period)
	if capex > 0 {
		capex = -capex
	}
	return ocf + capex
}

// =============================================================================
// CONVENIENCE RATIOS
// Consumed by the rule evaluators; all share the degrade-to-zero discipline.
// =============================================================================

// RevenueGrowth returns YoY revenue growth for a period vs the one before it
// (period+1), as a fraction. Zero prior revenue yields 0.
func (e *Engine) RevenueGrowth(period int) float64 {
	return GrowthRate(
		e.Get(TableIncome, ItemTotalRevenue, period),
		e.Get(TableIncome, ItemTotalRevenue, period+1),
	)
}

// OperatingMargin = Operating Income / Revenue for a period, as a fraction.
func (e *Engine) OperatingMargin(period int) float64 {
	return safeDiv(
		e.Get(TableIncome, ItemOperatingIncome, period),
		e.Get(TableIncome, ItemTotalRevenue, period),
	)
}

// NetMargin = Net Income / Revenue for a period, as a fraction.
func (e *Engine) NetMargin(period int) float64 {
	return safeDiv(
		e.Get(TableIncome, ItemNetIncome, period),
		e.Get(TableIncome, ItemTotalRevenue, period),
	)
}

// DebtToEquity = Total Debt / Stockholders Equity for a period.
func (e *Engine) DebtToEquity(period int) float64 {
	return safeDiv(e.TotalDebt(period), e.Get(TableBalance, ItemStockholdersEquity, period))
}

// =============================================================================
// HELPERS
// =============================================================================

func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// GrowthRate returns (current - prior) / |prior|, or 0 when prior is zero.
func GrowthRate(current, prior float64) float64 {
	if prior == 0 {
		return 0
	}
	return (current - prior) / math.Abs(prior)
}

// CAGR returns the compound annual growth rate between two values over the
// given number of years. Non-positive inputs or zero years yield 0.
func CAGR(ending, beginning float64, years int) float64 {
	if beginning <= 0 || ending <= 0 || years == 0 {
		return 0
	}
	return math.Pow(ending/beginning, 1.0/float64(years)) - 1
}
