// Package rules contains the independent check sets that consume normalized
// metrics and produce graded verdicts: the quick-quality screen, the moat
// screen, the financial-health screen with red-flag detection, and the
// data-driven sector adjustment tables. Each evaluator reads through a
// metrics.Engine and never caches beyond one analysis call.
package rules

// Status grades one check.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusWarning Status = "WARNING"
	StatusFail    Status = "FAIL"
)

// Verdict is the immutable output of one check: an identifier, a graded
// status, the formatted observed value and a human-readable rationale.
type Verdict struct {
	ID        string `json:"id"`
	Status    Status `json:"status"`
	Value     string `json:"value"`
	Rationale string `json:"rationale"`
}

// points maps a status to its quick-screen contribution.
func (s Status) points() float64 {
	switch s {
	case StatusPass:
		return 1.0
	case StatusWarning:
		return 0.5
	default:
		return 0
	}
}

// Moat ratings, ordered strongest first.
const (
	MoatWide     = "Wide"
	MoatNarrow   = "Narrow"
	MoatPossible = "Possible"
	MoatNone     = "No Moat"
)

// Financial-health ratings, ordered strongest first.
const (
	HealthRobust   = "ROBUST"
	HealthModerate = "MODERATE"
	HealthWeak     = "WEAK"
	HealthRisky    = "RISKY"
)
