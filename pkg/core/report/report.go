// Package report renders a completed analysis as a Markdown analyst note,
// with optional HTML conversion for serving.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"equityscore/pkg/core/rules"
	"equityscore/pkg/core/scorecard"
)

// Markdown builds the full analyst note for one analysis.
func Markdown(a *scorecard.Analysis) string {
	var b strings.Builder

	name := a.Snapshot.Name
	if name == "" {
		name = a.Ticker
	}
	fmt.Fprintf(&b, "# %s (%s)\n\n", name, a.Ticker)
	fmt.Fprintf(&b, "Sector: %s | Category: %s | Generated: %s\n\n",
		a.Snapshot.Sector, a.Category, a.GeneratedAt.Format("2006-01-02 15:04"))

	if !a.Scorecard.Analyzable {
		fmt.Fprintf(&b, "## Verdict: %s\n\n", a.Scorecard.Recommendation)
		b.WriteString("The provider returned no usable statements for this ticker. ")
		b.WriteString("No metric, rule or valuation was computed.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "## Verdict: %s (confidence %s)\n\n", a.Scorecard.Recommendation, a.Scorecard.Confidence)
	fmt.Fprintf(&b, "Composite score **%.1f / 100**\n\n", a.Scorecard.Total)

	b.WriteString("| Component | Points |\n|---|---|\n")
	fmt.Fprintf(&b, "| Quality | %.2f / 25 |\n", a.Scorecard.Breakdown.Quality)
	fmt.Fprintf(&b, "| Moat | %.0f / 30 |\n", a.Scorecard.Breakdown.Moat)
	fmt.Fprintf(&b, "| Health | %.0f / 20 |\n", a.Scorecard.Breakdown.Health)
	fmt.Fprintf(&b, "| Valuation | %.0f / 25 |\n\n", a.Scorecard.Breakdown.Valuation)

	b.WriteString("## Quality Screen\n\n")
	fmt.Fprintf(&b, "Score %.1f of %.0f.\n\n", a.Quality.Score, a.Quality.MaxScore)
	writeVerdicts(&b, a.Quality.Verdicts)

	fmt.Fprintf(&b, "## Moat: %s\n\n", a.Moat.Rating)
	writeVerdicts(&b, a.Moat.Verdicts)

	fmt.Fprintf(&b, "## Financial Health: %s\n\n", a.Health.Rating)
	if len(a.Health.RedFlags) > 0 {
		b.WriteString("Red flags:\n\n")
		for _, flag := range a.Health.RedFlags {
			fmt.Fprintf(&b, "- %s\n", flag)
		}
		b.WriteString("\n")
	}
	writeVerdicts(&b, a.Health.Verdicts)

	if len(a.Sector) > 0 {
		fmt.Fprintf(&b, "## Sector Checks (%s)\n\n", a.Category)
		writeVerdicts(&b, a.Sector)
	}

	b.WriteString("## Valuation\n\n")
	fmt.Fprintf(&b, "Base flow %.0f (%s), growth %.1f%%. Assessment: **%s**, margin of safety %.1f%%.\n\n",
		a.Valuation.BaseFlow, a.Valuation.BaseFlowSource, a.Valuation.BaseGrowth*100,
		a.Scorecard.ValuationAssessment, a.Valuation.MarginOfSafety)
	b.WriteString("```\n")
	for _, row := range a.Valuation.Table() {
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString("```\n\n")
	fmt.Fprintf(&b, "DCF verdict: %s\n", a.Valuation.Verdict)

	return b.String()
}

func writeVerdicts(b *strings.Builder, verdicts []rules.Verdict) {
	b.WriteString("| Check | Status | Value |\n|---|---|---|\n")
	for _, v := range verdicts {
		fmt.Fprintf(b, "| %s | %s | %s |\n", v.ID, v.Status, v.Value)
	}
	b.WriteString("\n")
}

// HTML converts the Markdown note to HTML. GFM tables are enabled because the
// note leans on them.
func HTML(a *scorecard.Analysis) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var out bytes.Buffer
	if err := md.Convert([]byte(Markdown(a)), &out); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out.String(), nil
}
