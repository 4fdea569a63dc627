package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const fixturePage = `<html><body>
<div class="profile">
  <span data-field="name">Test Manufacturing Ltd</span>
  <span data-field="sector">Industrials</span>
  <span data-field="industry">Machinery</span>
  <span data-field="currency">INR</span>
  <span data-field="financial_currency">USD</span>
  <span data-field="market_cap">5,000,000</span>
  <span data-field="shares_outstanding">1,000</span>
  <span data-field="current_price">48.50</span>
  <span data-field="trailing_pe">22.1</span>
  <span data-field="dividend_yield">0.02</span>
</div>
<table data-statement="income"><tbody>
  <tr><td>Total Revenue</td><td>1,200</td><td>1,000</td></tr>
  <tr><td>Operating Income</td><td>(150)</td><td>120</td></tr>
  <tr><td>Net Income</td><td>90</td><td>-</td></tr>
</tbody></table>
<table data-statement="balance"><tbody>
  <tr><td>Stockholders Equity</td><td>800</td></tr>
</tbody></table>
<table data-statement="cashflow"><tbody>
  <tr><td>Operating Cash Flow</td><td>200</td></tr>
  <tr><td>Capital Expenditure</td><td>(60)</td></tr>
</tbody></table>
</body></html>`

func TestHTTPProviderFetch(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/stocks/TML/financials" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(fixturePage))
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	p := NewHTTPProvider(srv.URL, 100, cacheDir)

	set, snap, err := p.Fetch(context.Background(), "tml")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if snap.Name != "Test Manufacturing Ltd" || snap.Currency != "INR" || snap.FinancialCurrency != "USD" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.CurrentPrice != 48.50 || snap.MarketCap != 5000000 {
		t.Errorf("numeric snapshot fields = %f, %f", snap.CurrentPrice, snap.MarketCap)
	}

	if v, ok := set.Income.Cell("Total Revenue", 0); !ok || v != 1200 {
		t.Errorf("revenue p0 = (%f, %v), want (1200, true)", v, ok)
	}
	if v, ok := set.Income.Cell("Operating Income", 0); !ok || v != -150 {
		t.Errorf("parenthesized value = (%f, %v), want (-150, true)", v, ok)
	}
	if _, ok := set.Income.Cell("Net Income", 1); ok {
		t.Error("dash cell must stay missing, not zero")
	}
	if v, ok := set.CashFlow.Cell("Capital Expenditure", 0); !ok || v != -60 {
		t.Errorf("capex = (%f, %v), want (-60, true)", v, ok)
	}
	if !set.Usable() {
		t.Error("fixture set must be usable")
	}

	// Second fetch is served from the cache without another request.
	if _, _, err := p.Fetch(context.Background(), "TML"); err != nil {
		t.Fatalf("cached fetch failed: %v", err)
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}
}

func TestHTTPProviderNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, 100, "")
	_, _, err := p.Fetch(context.Background(), "MISSING")
	if err == nil || !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDirProvider(t *testing.T) {
	dir := t.TempDir()
	doc := `{
		"ticker": "FIX",
		"snapshot": {"name": "Fixture Co", "current_price": 10},
		"income_statement": {"rows": {"Total Revenue": [100, 90]}},
		"balance_sheet": {"rows": {"Stockholders Equity": [50]}},
		"cash_flow": {"rows": {"Operating Cash Flow": [20]}}
	}`
	if err := os.WriteFile(filepath.Join(dir, "FIX.json"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewDirProvider(dir)
	set, snap, err := p.Fetch(context.Background(), "fix")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if set.Ticker != "FIX" || snap.Name != "Fixture Co" {
		t.Errorf("got (%s, %s)", set.Ticker, snap.Name)
	}
	if v, ok := set.Income.Cell("Total Revenue", 1); !ok || v != 90 {
		t.Errorf("revenue p1 = (%f, %v), want (90, true)", v, ok)
	}

	_, _, err = p.Fetch(context.Background(), "NOPE")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing fixture err = %v, want ErrNotFound", err)
	}
}

func TestParseNumber(t *testing.T) {
	if v := parseNumber("1,234.5"); v == nil || *v != 1234.5 {
		t.Errorf("parseNumber(1,234.5) = %v", v)
	}
	if v := parseNumber("(42)"); v == nil || *v != -42 {
		t.Errorf("parseNumber((42)) = %v", v)
	}
	for _, s := range []string{"", "-", "—", "n/a", "junk"} {
		if v := parseNumber(s); v != nil {
			t.Errorf("parseNumber(%q) = %f, want nil", s, *v)
		}
	}
}
