package metrics

import (
	"math"
	"testing"

	"equityscore/pkg/models"
)

func TestGoldenDerivedScenario(t *testing.T) {
	// Revenue 1,000,000 / 900,000; OpInc 200,000 / 150,000; Equity 800,000;
	// Total Debt 100,000; Cash 50,000; Tax 40,000; Pretax 180,000.
	//
	// Effective tax = 40,000/180,000 = 0.2222 (inside [0, 0.40])
	// NOPAT = 200,000 * (1 - 0.2222) = 155,555.6
	// Invested Capital = 800,000 + 100,000 - 50,000 = 850,000
	// ROIC = 155,555.6 / 850,000 * 100 = 18.30%
	set := statementSet(
		map[string]models.LineValues{
			ItemTotalRevenue:    row(1000000, 900000),
			ItemOperatingIncome: row(200000, 150000),
			ItemTaxProvision:    row(40000),
			ItemPretaxIncome:    row(180000),
		},
		map[string]models.LineValues{
			ItemStockholdersEquity: row(800000),
			ItemTotalDebt:          row(100000),
			ItemCash:               row(50000),
		},
		map[string]models.LineValues{
			ItemOperatingCashFlow: row(120000),
			ItemCapEx:             row(-30000),
		},
	)
	e := NewEngine("TEST", set, models.CompanySnapshot{}, DefaultCurrencyConfig())

	d := e.Derived(0)
	if d.InvestedCapital != 850000 {
		t.Errorf("invested capital = %f, want 850000", d.InvestedCapital)
	}
	if math.Abs(d.NOPAT-155555.56) > 1.0 {
		t.Errorf("NOPAT = %f, want ~155555.56", d.NOPAT)
	}
	if math.Abs(d.ROIC-18.3) > 0.05 {
		t.Errorf("ROIC = %f, want ~18.3", d.ROIC)
	}
	if d.FCF != 90000 {
		t.Errorf("FCF = %f, want 90000", d.FCF)
	}
}

func TestFCFSignInvariance(t *testing.T) {
	// OCF 500 with CapEx reported either +100 or -100 must both yield 400.
	for _, capex := range []float64{100, -100} {
		set := basicSet()
		set.CashFlow.Rows[ItemCapEx] = row(capex)
		e := NewEngine("TEST", set, models.CompanySnapshot{}, DefaultCurrencyConfig())
		if got := e.FCF(0); got != 400 {
			t.Errorf("FCF with capex %f = %f, want 400", capex, got)
		}
	}
}

func TestROICZeroGuard(t *testing.T) {
	// Equity + debt - cash = 0: ROIC must be 0.0 regardless of NOPAT.
	set := basicSet()
	set.Balance.Rows[ItemStockholdersEquity] = row(50000)
	set.Balance.Rows[ItemTotalDebt] = row(0)
	set.Balance.Rows[ItemCash] = row(50000)
	e := NewEngine("TEST", set, models.CompanySnapshot{}, DefaultCurrencyConfig())

	if ic := e.InvestedCapital(0); ic != 0 {
		t.Fatalf("invested capital = %f, want 0", ic)
	}
	if got := e.ROIC(0); got != 0 {
		t.Errorf("ROIC with zero invested capital = %f, want 0", got)
	}
}

func TestEffectiveTaxRate(t *testing.T) {
	cases := []struct {
		name   string
		tax    float64
		pretax float64
		want   float64
	}{
		{"normal", 40000, 180000, 40000.0 / 180000.0},
		{"clamped high", 90000, 100000, 0.40},
		{"negative clamped", -5000, 100000, 0},
		{"zero pretax default", 40000, 0, 0.25},
	}
	for _, c := range cases {
		set := basicSet()
		set.Income.Rows[ItemTaxProvision] = row(c.tax)
		set.Income.Rows[ItemPretaxIncome] = row(c.pretax)
		e := NewEngine("TEST", set, models.CompanySnapshot{}, DefaultCurrencyConfig())
		if got := e.EffectiveTaxRate(0); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s: tax rate = %f, want %f", c.name, got, c.want)
		}
	}
}

func TestMissingPretaxDefaultsTaxRate(t *testing.T) {
	// Pretax Income absent entirely: Get yields 0, which takes the 25% default.
	e := NewEngine("TEST", basicSet(), models.CompanySnapshot{}, DefaultCurrencyConfig())
	if got := e.EffectiveTaxRate(0); got != 0.25 {
		t.Errorf("tax rate = %f, want 0.25", got)
	}
	// NOPAT = 200,000 * 0.75 = 150,000
	if got := e.NOPAT(0); got != 150000 {
		t.Errorf("NOPAT = %f, want 150000", got)
	}
}

func TestTotalDebtFallback(t *testing.T) {
	set := basicSet()
	delete(set.Balance.Rows, ItemTotalDebt)
	set.Balance.Rows[ItemLongTermDebt] = row(70000)
	set.Balance.Rows[ItemCurrentDebt] = row(20000)
	e := NewEngine("TEST", set, models.CompanySnapshot{}, DefaultCurrencyConfig())

	if got := e.TotalDebt(0); got != 90000 {
		t.Errorf("fallback total debt = %f, want 90000", got)
	}

	// A reported Total Debt of zero is still preferred over the fallback.
	set.Balance.Rows[ItemTotalDebt] = row(0)
	e = NewEngine("TEST", set, models.CompanySnapshot{}, DefaultCurrencyConfig())
	if got := e.TotalDebt(0); got != 0 {
		t.Errorf("reported zero total debt = %f, want 0", got)
	}
}

func TestGrowthHelpers(t *testing.T) {
	if got := GrowthRate(110, 100); math.Abs(got-0.10) > 1e-9 {
		t.Errorf("GrowthRate = %f, want 0.10", got)
	}
	if got := GrowthRate(50, 0); got != 0 {
		t.Errorf("GrowthRate with zero prior = %f, want 0", got)
	}
	// 100 -> 121 over 2 years is 10% CAGR.
	if got := CAGR(121, 100, 2); math.Abs(got-0.10) > 1e-9 {
		t.Errorf("CAGR = %f, want 0.10", got)
	}
	if got := CAGR(121, 0, 2); got != 0 {
		t.Errorf("CAGR with zero beginning = %f, want 0", got)
	}
}
