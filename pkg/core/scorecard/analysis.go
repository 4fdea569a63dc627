package scorecard

import (
	"time"

	"equityscore/pkg/core/dcf"
	"equityscore/pkg/core/metrics"
	"equityscore/pkg/core/rules"
	"equityscore/pkg/models"
)

// Analysis is the complete per-ticker output: every component result plus the
// composite scorecard. It is what gets persisted, served and reported.
type Analysis struct {
	Ticker      string    `json:"ticker"`
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Snapshot models.CompanySnapshot `json:"snapshot"`
	Category string                 `json:"category"`

	// Metrics holds the foundational computed values per period, most recent
	// first, for as many periods as the moat evaluator looks back.
	Metrics []metrics.DerivedMetricSet `json:"metrics,omitempty"`

	Quality   rules.QualityResult `json:"quality"`
	Moat      rules.MoatResult    `json:"moat"`
	Health    rules.HealthResult  `json:"health"`
	Sector    []rules.Verdict     `json:"sector"`
	Valuation dcf.Result          `json:"valuation"`

	Scorecard Scorecard `json:"scorecard"`
}
