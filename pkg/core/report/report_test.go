package report

import (
	"strings"
	"testing"
	"time"

	"equityscore/pkg/core/dcf"
	"equityscore/pkg/core/rules"
	"equityscore/pkg/core/scorecard"
	"equityscore/pkg/models"
)

func sampleAnalysis() *scorecard.Analysis {
	quality := rules.QualityResult{
		Score:    6,
		MaxScore: 8,
		Verdicts: []rules.Verdict{{ID: "roic", Status: rules.StatusPass, Value: "18.3%"}},
	}
	moat := rules.MoatResult{
		Rating:   rules.MoatNarrow,
		Verdicts: []rules.Verdict{{ID: "roic_consistency", Status: rules.StatusWarning, Value: "min 11.0% / avg 13.0%"}},
	}
	health := rules.HealthResult{
		Rating:   rules.HealthModerate,
		RedFlags: []string{"cash covers under 10% of total debt"},
		Verdicts: []rules.Verdict{{ID: "leverage", Status: rules.StatusPass, Value: "D/E 0.40"}},
	}
	valuation := dcf.Result{
		BaseFlow:       90000,
		BaseFlowSource: dcf.SourceFCF,
		BaseGrowth:     0.12,
		Scenarios: []dcf.ScenarioValue{
			{Scenario: "Base", GrowthRate: 0.12, DiscountRate: 0.11, TerminalGrowth: 0.03, PerShareValue: 72.5},
		},
		BaseValue:      72.5,
		CurrentPrice:   50,
		MarginOfSafety: 31.0,
		Verdict:        dcf.VerdictBuy,
	}

	return &scorecard.Analysis{
		Ticker:      "TML",
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Snapshot:    models.CompanySnapshot{Name: "Test Manufacturing Ltd", Sector: "Industrials"},
		Category:    "General",
		Quality:     quality,
		Moat:        moat,
		Health:      health,
		Valuation:   valuation,
		Scorecard:   scorecard.Build("TML", quality, moat, health, valuation),
	}
}

func TestMarkdownReport(t *testing.T) {
	md := Markdown(sampleAnalysis())

	for _, want := range []string{
		"# Test Manufacturing Ltd (TML)",
		"## Verdict: BUY",
		"## Moat: Narrow",
		"## Financial Health: MODERATE",
		"cash covers under 10% of total debt",
		"margin of safety 31.0%",
		"DCF verdict: BUY (Undervalued)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestMarkdownCannotAnalyze(t *testing.T) {
	a := &scorecard.Analysis{
		Ticker:    "BARE",
		Scorecard: scorecard.CannotAnalyze("BARE"),
	}
	md := Markdown(a)

	if !strings.Contains(md, scorecard.RecCannotAnalyze) {
		t.Error("report missing the cannot-analyze verdict")
	}
	if strings.Contains(md, "## Valuation") {
		t.Error("unusable ticker must not render component sections")
	}
}

func TestHTMLRendering(t *testing.T) {
	html, err := HTML(sampleAnalysis())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<table>") {
		t.Error("expected heading and table markup in rendered HTML")
	}
}
