// Package sector classifies companies into the coarse categories the valuation
// and rule layers condition on. Classification is keyword-based on the
// snapshot's sector/industry strings and is evaluated once per ticker.
package sector

import "strings"

// Category is the coarse company classification.
type Category int

const (
	General Category = iota
	Financial
	Utility
	Telecom
)

func (c Category) String() string {
	switch c {
	case Financial:
		return "Financial"
	case Utility:
		return "Utility"
	case Telecom:
		return "Telecom"
	default:
		return "General"
	}
}

// Classify derives the category from sector and industry descriptions. The
// keyword sets mirror the provider's taxonomy; anything unmatched is General.
func Classify(sectorName, industry string) Category {
	text := strings.ToLower(sectorName + " " + industry)

	for _, kw := range []string{"financial", "bank", "insurance"} {
		if strings.Contains(text, kw) {
			return Financial
		}
	}
	for _, kw := range []string{"telecom", "communication"} {
		if strings.Contains(text, kw) {
			return Telecom
		}
	}
	if strings.Contains(text, "utilit") {
		return Utility
	}
	return General
}
