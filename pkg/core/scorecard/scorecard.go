// Package scorecard folds the rule, moat, health and valuation outcomes into
// a single 0-100 composite with a recommendation band.
package scorecard

import (
	"equityscore/pkg/core/dcf"
	"equityscore/pkg/core/rules"
)

// Quality carries 25 of the 100 points; moat, health and valuation contribute
// 30, 20 and 25 through their rating maps below.
const (
	qualityWeight  = 25.0
	redFlagPenalty = 5.0
)

// Valuation assessments mapped from the margin of safety.
const (
	AssessUndervalued = "Undervalued"
	AssessFairValue   = "Fairly Valued"
	AssessFullValue   = "Fully Valued"
	AssessOvervalued  = "Overvalued"
	AssessUnknown     = "Unknown"
)

// Recommendation bands.
const (
	RecStrongBuy     = "STRONG BUY"
	RecBuy           = "BUY"
	RecWatchlist     = "HOLD - WATCHLIST"
	RecAvoid         = "AVOID"
	RecStrongAvoid   = "STRONG AVOID"
	RecCannotAnalyze = "CANNOT ANALYZE"
)

// Breakdown holds the four weighted contributions.
type Breakdown struct {
	Quality   float64 `json:"quality"`
	Moat      float64 `json:"moat"`
	Health    float64 `json:"health"`
	Valuation float64 `json:"valuation"`
}

// Scorecard is the composite result for one ticker.
type Scorecard struct {
	Ticker              string    `json:"ticker"`
	Total               float64   `json:"total"`
	Breakdown           Breakdown `json:"breakdown"`
	ValuationAssessment string    `json:"valuation_assessment"`
	Recommendation      string    `json:"recommendation"`
	Confidence          string    `json:"confidence"`
	RedFlags            []string  `json:"red_flags,omitempty"`
	Analyzable          bool      `json:"analyzable"`
}

// CannotAnalyze is the short-circuit scorecard for a ticker with no usable
// statements. No component evaluator runs for such tickers.
func CannotAnalyze(ticker string) Scorecard {
	return Scorecard{
		Ticker:         ticker,
		Recommendation: RecCannotAnalyze,
		Confidence:     "HIGH",
	}
}

// Build aggregates the component results into the weighted composite.
func Build(ticker string, q rules.QualityResult, m rules.MoatResult, h rules.HealthResult, v dcf.Result) Scorecard {
	assessment := assess(v)
	b := Breakdown{
		Quality:   qualityPoints(q),
		Moat:      moatPoints(m.Rating),
		Health:    healthPoints(h),
		Valuation: valuationPoints(assessment),
	}
	total := b.Quality + b.Moat + b.Health + b.Valuation

	rec, conf := recommend(total)
	return Scorecard{
		Ticker:              ticker,
		Total:               total,
		Breakdown:           b,
		ValuationAssessment: assessment,
		Recommendation:      rec,
		Confidence:          conf,
		RedFlags:            h.RedFlags,
		Analyzable:          true,
	}
}

func qualityPoints(q rules.QualityResult) float64 {
	if q.MaxScore == 0 {
		return 0
	}
	return q.Score / q.MaxScore * qualityWeight
}

func moatPoints(rating string) float64 {
	switch rating {
	case rules.MoatWide:
		return 30
	case rules.MoatNarrow:
		return 20
	case rules.MoatPossible:
		return 10
	default:
		return 0
	}
}

// healthPoints starts from the rating's base and docks 5 points per red
// flag, floored at zero.
func healthPoints(h rules.HealthResult) float64 {
	var base float64
	switch h.Rating {
	case rules.HealthRobust:
		base = 20
	case rules.HealthModerate:
		base = 12
	case rules.HealthWeak:
		base = 6
	case rules.HealthRisky:
		base = 0
	default:
		base = 6
	}
	pts := base - redFlagPenalty*float64(len(h.RedFlags))
	if pts < 0 {
		return 0
	}
	return pts
}

func assess(v dcf.Result) string {
	if v.Verdict == dcf.VerdictUnknown {
		return AssessUnknown
	}
	switch mos := v.MarginOfSafety; {
	case mos > 30:
		return AssessUndervalued
	case mos > 10:
		return AssessFairValue
	case mos > -10:
		return AssessFullValue
	default:
		return AssessOvervalued
	}
}

func valuationPoints(assessment string) float64 {
	switch assessment {
	case AssessUndervalued:
		return 25
	case AssessFairValue:
		return 15
	case AssessFullValue:
		return 5
	case AssessOvervalued:
		return 0
	default:
		return 10
	}
}

func recommend(total float64) (string, string) {
	switch {
	case total >= 75:
		return RecStrongBuy, "HIGH"
	case total >= 60:
		return RecBuy, "MODERATE-HIGH"
	case total >= 45:
		return RecWatchlist, "MODERATE"
	case total >= 30:
		return RecAvoid, "MODERATE"
	default:
		return RecStrongAvoid, "HIGH"
	}
}
