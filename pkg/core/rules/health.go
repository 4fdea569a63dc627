package rules

import (
	"fmt"

	"equityscore/pkg/core/metrics"
)

// HealthResult is the financial-health rating plus every red flag detected.
// Red flags are kept separately from the rating because the scorecard deducts
// points per flag on top of the rating's base contribution.
type HealthResult struct {
	Rating   string    `json:"rating"`
	RedFlags []string  `json:"red_flags"`
	Verdicts []Verdict `json:"verdicts"`
}

// EvaluateHealth rates balance-sheet and cash-generation strength and runs the
// red-flag detectors. Missing data degrades each individual check; it never
// aborts the screen.
func EvaluateHealth(e *metrics.Engine) HealthResult {
	equity := e.Get(metrics.TableBalance, metrics.ItemStockholdersEquity, 0)
	cash := e.Get(metrics.TableBalance, metrics.ItemCash, 0)
	debt := e.TotalDebt(0)
	fcf := e.FCF(0)
	de := e.DebtToEquity(0)
	pretax := e.Get(metrics.TableIncome, metrics.ItemPretaxIncome, 0)

	var flags []string
	if fcf < 0 {
		flags = append(flags, "negative free cash flow")
	}
	if equity < 0 {
		flags = append(flags, "negative stockholders equity")
	}
	if de > 2 {
		flags = append(flags, fmt.Sprintf("debt/equity %.2f exceeds 2.0", de))
	}
	if e.RevenueGrowth(0) < 0 && e.RevenueGrowth(1) < 0 {
		flags = append(flags, "revenue declined two consecutive periods")
	}
	if debt > 0 && cash < 0.10*debt {
		flags = append(flags, "cash covers under 10% of total debt")
	}
	if pretax > 0 && e.EffectiveTaxRate(0) < 0.10 {
		flags = append(flags, "effective tax rate under 10% on positive pretax income")
	}

	verdicts := []Verdict{
		{
			ID:        "leverage",
			Status:    statusFor(de <= 0.5 && equity > 0, de <= 1.5 && equity > 0),
			Value:     fmt.Sprintf("D/E %.2f", de),
			Rationale: "Debt load relative to equity",
		},
		{
			ID:        "cash_generation",
			Status:    statusFor(fcf > 0 && fcf >= 0.05*debt, fcf > 0),
			Value:     fmt.Sprintf("FCF %.0f", fcf),
			Rationale: "Free cash flow versus obligations",
		},
		{
			ID:        "liquidity",
			Status:    statusFor(cash >= debt, debt == 0 || cash >= 0.25*debt),
			Value:     fmt.Sprintf("cash %.0f vs debt %.0f", cash, debt),
			Rationale: "Cash cushion against total debt",
		},
	}

	strong := 0
	for _, v := range verdicts {
		if v.Status == StatusPass {
			strong++
		}
	}

	var rating string
	switch {
	case strong == len(verdicts) && len(flags) == 0:
		rating = HealthRobust
	case strong >= 2 && len(flags) <= 1:
		rating = HealthModerate
	case strong >= 1 && len(flags) <= 3:
		rating = HealthWeak
	default:
		rating = HealthRisky
	}

	return HealthResult{Rating: rating, RedFlags: flags, Verdicts: verdicts}
}
