package dcf

import (
	"fmt"
	"math"

	"equityscore/pkg/core/metrics"
	"equityscore/pkg/core/sector"
)

// Base-flow sources, recorded for explainability.
const (
	SourceFCF        = "fcf"
	SourceEquityFlow = "equity_flow"
	SourceNetIncome  = "net_income"
	SourceDividends  = "dividends"
)

// Valuation verdicts derived from the Base scenario.
const (
	VerdictBuy        = "BUY (Undervalued)"
	VerdictHoldFair   = "HOLD (Fair Value)"
	VerdictHoldPrem   = "HOLD (Premium)"
	VerdictSell       = "SELL (Overvalued)"
	VerdictUnknown    = "UNKNOWN (Insufficient Data)"
	minBaseGrowthRate = 0.02
	defaultGrowthRate = 0.06
)

// ScenarioValue is one scenario's resolved parameters and per-share outcome.
type ScenarioValue struct {
	Scenario       string  `json:"scenario"`
	GrowthRate     float64 `json:"growth_rate"`
	DiscountRate   float64 `json:"discount_rate"`
	TerminalGrowth float64 `json:"terminal_growth"`
	PerShareValue  float64 `json:"per_share_value"`
}

// Result is the full valuation output for one ticker.
type Result struct {
	Category       string          `json:"category"`
	BaseFlow       float64         `json:"base_flow"`
	BaseFlowSource string          `json:"base_flow_source"`
	EquityMode     bool            `json:"equity_mode"`
	BaseGrowth     float64         `json:"base_growth"`
	Scenarios      []ScenarioValue `json:"scenarios"`
	BaseValue      float64         `json:"base_value"`
	CurrentPrice   float64         `json:"current_price"`
	MarginOfSafety float64         `json:"margin_of_safety"`
	Verdict        string          `json:"verdict"`
}

// Run values one ticker across the given scenarios. The cash-flow base and
// growth rate are resolved once; each scenario then reprices the same flows.
func Run(e *metrics.Engine, cat sector.Category, scenarios []Scenario) Result {
	flow, source, equityMode := selectBaseFlow(e, cat)
	growth := baseGrowth(e, cat)

	res := Result{
		Category:       cat.String(),
		BaseFlow:       flow,
		BaseFlowSource: source,
		EquityMode:     equityMode,
		BaseGrowth:     growth,
		CurrentPrice:   e.Snapshot().CurrentPrice,
	}

	cap := growthCap(cat)
	for _, scen := range scenarios {
		g := math.Min(growth*scen.GrowthScale, cap*scen.CapScale)
		perShare := perShareValue(e, flow, g, scen.DiscountRate, scen.TerminalGrowth, equityMode)
		res.Scenarios = append(res.Scenarios, ScenarioValue{
			Scenario:       scen.Name,
			GrowthRate:     g,
			DiscountRate:   scen.DiscountRate,
			TerminalGrowth: scen.TerminalGrowth,
			PerShareValue:  perShare,
		})
		if scen.Name == "Base" {
			res.BaseValue = perShare
		}
	}

	res.MarginOfSafety, res.Verdict = verdict(res.BaseValue, res.CurrentPrice)
	return res
}

// selectBaseFlow implements the 4-way sector-conditional decision, evaluated
// once per ticker.
func selectBaseFlow(e *metrics.Engine, cat sector.Category) (float64, string, bool) {
	// 1. Financials: statement FCF is meaningless (lending is the business),
	// use net income plus net capex as an equity-flow proxy. Already
	// post-financing, so the terminal value is not debt-adjusted.
	if cat == sector.Financial {
		capex := e.Get(metrics.TableCashFlow, metrics.ItemCapEx, 0)
		if capex > 0 {
			capex = -capex
		}
		ni := e.Get(metrics.TableIncome, metrics.ItemNetIncome, 0)
		return ni + capex, SourceEquityFlow, true
	}

	fcf := e.FCF(0)
	if cat == sector.Utility || cat == sector.Telecom {
		// 2. Heavy-buildout phase: negative FCF with fast revenue growth
		// means capex is front-running earnings; value the earnings.
		if fcf < 0 && e.RevenueGrowth(0) > 0.15 {
			return e.Get(metrics.TableIncome, metrics.ItemNetIncome, 0), SourceNetIncome, true
		}
		// 3. Payout story: negative FCF but a real dividend; value the
		// dividend stream, imputing it from yield when not reported.
		if fcf < 0 && e.Snapshot().DividendYield > 0.03 {
			div := math.Abs(e.Get(metrics.TableCashFlow, metrics.ItemDividendsPaid, 0))
			if div == 0 {
				div = e.Snapshot().DividendYield * e.Snapshot().MarketCap
			}
			return div, SourceDividends, true
		}
	}

	// 4. Everything else: standard unlevered free cash flow, firm mode.
	return fcf, SourceFCF, false
}

// baseGrowth derives the forecast growth rate from the 2-year operating
// income CAGR, clamped to [2%, category cap], defaulting to 6% when the prior
// figure is unavailable or non-positive.
func baseGrowth(e *metrics.Engine, cat sector.Category) float64 {
	current := e.Get(metrics.TableIncome, metrics.ItemOperatingIncome, 0)
	prior, ok := e.Lookup(metrics.TableIncome, metrics.ItemOperatingIncome, 2)

	g := defaultGrowthRate
	if ok && prior > 0 && current > 0 {
		g = metrics.CAGR(current, prior, 2)
	}

	cap := growthCap(cat)
	if g < minBaseGrowthRate {
		g = minBaseGrowthRate
	}
	if g > cap {
		g = cap
	}
	return g
}

// perShareValue runs the 5-year explicit DCF with Gordon terminal value.
// Firm-mode results bridge from enterprise to equity by subtracting total
// debt and adding back cash.
func perShareValue(e *metrics.Engine, baseFlow, growth, discount, terminal float64, equityMode bool) float64 {
	shares := e.Snapshot().SharesOutstanding
	if shares == 0 {
		return 0
	}

	var pv float64
	flow := baseFlow
	for year := 1; year <= forecastYears; year++ {
		flow *= 1 + growth
		pv += flow / math.Pow(1+discount, float64(year))
	}

	// Gordon growth terminal value; invalid when growth meets the discount
	// rate, in which case the terminal contribution is dropped.
	var tv float64
	if discount > terminal {
		tv = flow * (1 + terminal) / (discount - terminal)
	}
	pv += tv / math.Pow(1+discount, forecastYears)

	equityValue := pv
	if !equityMode {
		equityValue = pv - e.TotalDebt(0) + e.Get(metrics.TableBalance, metrics.ItemCash, 0)
	}
	return equityValue / shares
}

// verdict compares the current price to the Base scenario value.
func verdict(baseValue, price float64) (float64, string) {
	if baseValue <= 0 || price <= 0 {
		return 0, VerdictUnknown
	}
	mos := (baseValue - price) / baseValue * 100
	switch {
	case mos > 30:
		return mos, VerdictBuy
	case price < baseValue:
		return mos, VerdictHoldFair
	}
	premium := (price - baseValue) / baseValue * 100
	if premium <= 50 {
		return mos, VerdictHoldPrem
	}
	return mos, VerdictSell
}

// Table renders the scenario outcomes as aligned rows for reports.
func (r Result) Table() []string {
	rows := make([]string, 0, len(r.Scenarios))
	for _, s := range r.Scenarios {
		rows = append(rows, fmt.Sprintf("%-12s | g %5.1f%% | r %5.1f%% | tg %4.1f%% | %10.2f/share",
			s.Scenario, s.GrowthRate*100, s.DiscountRate*100, s.TerminalGrowth*100, s.PerShareValue))
	}
	return rows
}
