// Package dcf implements the discounted-cash-flow valuation engine: a 5-year
// explicit forecast plus Gordon-growth terminal value, with sector-conditional
// selection of the cash-flow base and three preset scenarios.
package dcf

import "equityscore/pkg/core/sector"

// forecastYears is the explicit projection horizon.
const forecastYears = 5

// Scenario parameterizes one DCF run. GrowthScale multiplies the derived base
// growth rate, CapScale multiplies the category growth cap; growth, discount
// and terminal rate intentionally vary together, so no ordering law holds
// between scenario outputs.
type Scenario struct {
	Name           string  `json:"name" yaml:"name"`
	GrowthScale    float64 `json:"growth_scale" yaml:"growth_scale"`
	CapScale       float64 `json:"cap_scale" yaml:"cap_scale"`
	DiscountRate   float64 `json:"discount_rate" yaml:"discount_rate"`
	TerminalGrowth float64 `json:"terminal_growth" yaml:"terminal_growth"`
}

// DefaultScenarios returns the three preset scenarios.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "Conservative", GrowthScale: 0.8, CapScale: 0.8, DiscountRate: 0.12, TerminalGrowth: 0.02},
		{Name: "Base", GrowthScale: 1.0, CapScale: 1.0, DiscountRate: 0.11, TerminalGrowth: 0.03},
		{Name: "Optimistic", GrowthScale: 1.2, CapScale: 1.2, DiscountRate: 0.10, TerminalGrowth: 0.04},
	}
}

// growthCap returns the category's annual growth ceiling for the explicit
// forecast period.
func growthCap(cat sector.Category) float64 {
	switch cat {
	case sector.Utility:
		return 0.08
	case sector.Telecom:
		return 0.12
	case sector.Financial:
		return 0.10
	default:
		return 0.15
	}
}
