package rules

import (
	"fmt"

	"equityscore/pkg/core/metrics"
)

// MoatResult is the qualitative moat rating with its supporting verdicts.
type MoatResult struct {
	Rating   string    `json:"rating"`
	Verdicts []Verdict `json:"verdicts"`
}

// moatPeriods is how many trailing fiscal years the moat screen inspects.
const moatPeriods = 3

// EvaluateMoat rates the durability of returns from multi-period ROIC level
// and consistency plus operating-margin trend. The rating is deliberately
// coarse: Wide / Narrow / Possible / No Moat.
func EvaluateMoat(e *metrics.Engine) MoatResult {
	roics := make([]float64, 0, moatPeriods)
	for p := 0; p < moatPeriods; p++ {
		roics = append(roics, e.ROIC(p))
	}

	minROIC, avgROIC := roics[0], 0.0
	for _, r := range roics {
		if r < minROIC {
			minROIC = r
		}
		avgROIC += r
	}
	avgROIC /= float64(len(roics))

	marginTrend := (e.OperatingMargin(0) - e.OperatingMargin(moatPeriods-1)) * 100

	var rating string
	switch {
	case minROIC >= 15:
		rating = MoatWide
	case minROIC >= 10 && avgROIC >= 12:
		rating = MoatNarrow
	case avgROIC >= 8 || roics[0] >= 12:
		rating = MoatPossible
	default:
		rating = MoatNone
	}

	// A steadily eroding margin caps the rating at Possible: returns without
	// pricing power do not persist.
	if marginTrend < -5 && (rating == MoatWide || rating == MoatNarrow) {
		rating = MoatPossible
	}

	verdicts := []Verdict{
		{
			ID:        "roic_consistency",
			Status:    statusFor(minROIC >= 15, minROIC >= 10),
			Value:     fmt.Sprintf("min %.1f%% / avg %.1f%%", minROIC, avgROIC),
			Rationale: fmt.Sprintf("ROIC held across %d periods; high floors signal structural advantage", moatPeriods),
		},
		{
			ID:        "margin_trend",
			Status:    statusFor(marginTrend >= 0, marginTrend >= -5),
			Value:     fmt.Sprintf("%+.1fpt", marginTrend),
			Rationale: "Operating margin direction over the window; erosion contradicts a moat",
		},
	}

	return MoatResult{Rating: rating, Verdicts: verdicts}
}

func statusFor(pass, warn bool) Status {
	if pass {
		return StatusPass
	}
	if warn {
		return StatusWarning
	}
	return StatusFail
}
