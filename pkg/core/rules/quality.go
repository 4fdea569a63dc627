package rules

import (
	"fmt"

	"equityscore/pkg/core/metrics"
)

// QualityResult is the quick-quality screen outcome: eight graded checks with
// a raw score out of eight (PASS = 1, WARNING = 0.5).
type QualityResult struct {
	Score    float64   `json:"score"`
	MaxScore float64   `json:"max_score"`
	Verdicts []Verdict `json:"verdicts"`
}

// EvaluateQuality runs the eight-point quick screen over the latest period.
// Every check degrades gracefully: a metric that resolves to 0.0 (unknown)
// simply fails or warns, it never aborts the screen.
func EvaluateQuality(e *metrics.Engine) QualityResult {
	snap := e.Snapshot()

	checks := []Verdict{
		grade("roic", e.ROIC(0), "%.1f%%", 15, 10,
			"Return on invested capital; durable compounders sustain 15%+"),
		grade("revenue_growth", e.RevenueGrowth(0)*100, "%.1f%%", 0.01, -5,
			"Year-over-year revenue change; shrinking sales need a reason"),
		grade("opinc_growth",
			metrics.GrowthRate(
				e.Get(metrics.TableIncome, metrics.ItemOperatingIncome, 0),
				e.Get(metrics.TableIncome, metrics.ItemOperatingIncome, 1),
			)*100, "%.1f%%", 0.01, -5,
			"Operating income trend; margin pressure shows up here first"),
		grade("fcf_positive", e.FCF(0), "%.0f", 0.01, 0.01,
			"Free cash flow after capex; the business must fund itself"),
		gradeInverted("debt_to_equity", e.DebtToEquity(0), "%.2f", 1.0, 2.0,
			"Total debt relative to equity; leverage amplifies everything"),
		grade("operating_margin", e.OperatingMargin(0)*100, "%.1f%%", 15, 8,
			"Operating margin; pricing power leaves a wide gap over costs"),
		grade("net_margin", e.NetMargin(0)*100, "%.1f%%", 8, 4,
			"Net margin after everything; thin margins leave no buffer"),
		peSanity(snap.TrailingPE),
	}

	var score float64
	for _, v := range checks {
		score += v.Status.points()
	}
	return QualityResult{Score: score, MaxScore: float64(len(checks)), Verdicts: checks}
}

// grade passes when value >= passAt, warns when value >= warnAt.
func grade(id string, value float64, format string, passAt, warnAt float64, rationale string) Verdict {
	status := StatusFail
	if value >= passAt {
		status = StatusPass
	} else if value >= warnAt {
		status = StatusWarning
	}
	return Verdict{ID: id, Status: status, Value: fmt.Sprintf(format, value), Rationale: rationale}
}

// gradeInverted passes when value <= passAt, warns when value <= warnAt.
// Lower is better (leverage style metrics).
func gradeInverted(id string, value float64, format string, passAt, warnAt float64, rationale string) Verdict {
	status := StatusFail
	if value <= passAt {
		status = StatusPass
	} else if value <= warnAt {
		status = StatusWarning
	}
	return Verdict{ID: id, Status: status, Value: fmt.Sprintf(format, value), Rationale: rationale}
}

// peSanity checks the trailing multiple is in a payable band. An unknown or
// negative P/E is a warning, not a failure: loss-makers and missing data both
// land here and the valuation layer makes the finer call.
func peSanity(trailingPE float64) Verdict {
	v := Verdict{
		ID:        "pe_band",
		Value:     fmt.Sprintf("%.1f", trailingPE),
		Rationale: "Trailing P/E inside a payable band (0, 40]",
	}
	switch {
	case trailingPE > 0 && trailingPE <= 40:
		v.Status = StatusPass
	case trailingPE > 40 && trailingPE <= 60:
		v.Status = StatusWarning
	case trailingPE <= 0:
		v.Status = StatusWarning
		v.Value = "n/a"
	default:
		v.Status = StatusFail
	}
	return v
}
