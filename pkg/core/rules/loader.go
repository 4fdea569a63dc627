package rules

import (
	"fmt"
	"os"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"

	"equityscore/pkg/core/sector"
)

// LoadHJSON replaces rule tables from an HJSON file. The file maps category
// names to rule lists and may cover any subset of categories; unlisted ones
// keep their built-in tables. HJSON is used so the tables can carry comments
// next to the thresholds they justify.
//
//	{
//	  Utility: [
//	    {id: util_dividend, metric: dividend_yield, op: gte, pass: 3, warn: 1.5, rationale: "..."}
//	  ]
//	}
func (r *Registry) LoadHJSON(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read rule tables: %w", err)
	}

	var parsed map[string][]ThresholdRule
	if err := hjson.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("failed to parse rule tables: %w", err)
	}

	for name, table := range parsed {
		cat, err := categoryByName(name)
		if err != nil {
			return err
		}
		r.tables[cat] = table
	}
	return nil
}

func categoryByName(name string) (sector.Category, error) {
	switch strings.ToLower(name) {
	case "general":
		return sector.General, nil
	case "financial":
		return sector.Financial, nil
	case "utility":
		return sector.Utility, nil
	case "telecom":
		return sector.Telecom, nil
	default:
		return sector.General, fmt.Errorf("unknown sector category %q in rule tables", name)
	}
}
