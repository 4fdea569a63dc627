package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"equityscore/pkg/models"
)

const userAgent = "equityscore/1.0 (research use)"

// HTTPProvider scrapes a statements site. The page for a ticker is expected at
// <base>/stocks/<TICKER>/financials and carries three tables tagged with
// data-statement attributes plus a snapshot table of data-field cells.
type HTTPProvider struct {
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	cacheDir string // optional; parsed documents are cached as JSON
}

// NewHTTPProvider creates a scraper limited to rps requests per second.
// If cacheDir is non-empty, fetched tickers are cached there.
func NewHTTPProvider(baseURL string, rps float64, cacheDir string) *HTTPProvider {
	return &HTTPProvider{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		cacheDir: cacheDir,
	}
}

// Fetch downloads and parses the ticker page, consulting the cache first.
func (p *HTTPProvider) Fetch(ctx context.Context, ticker string) (models.FinancialStatementSet, models.CompanySnapshot, error) {
	ticker = strings.ToUpper(ticker)

	if doc, ok := p.readCache(ticker); ok {
		set, snap := doc.toModels()
		return set, snap, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return models.FinancialStatementSet{}, models.CompanySnapshot{}, err
	}

	url := fmt.Sprintf("%s/stocks/%s/financials", p.baseURL, ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.FinancialStatementSet{}, models.CompanySnapshot{}, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := p.client.Do(req)
	if err != nil {
		return models.FinancialStatementSet{}, models.CompanySnapshot{}, fmt.Errorf("failed to fetch %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.FinancialStatementSet{}, models.CompanySnapshot{}, fmt.Errorf("%s: %w", ticker, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return models.FinancialStatementSet{}, models.CompanySnapshot{}, fmt.Errorf("source returned status %d for %s", resp.StatusCode, ticker)
	}

	page, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return models.FinancialStatementSet{}, models.CompanySnapshot{}, fmt.Errorf("failed to parse page for %s: %w", ticker, err)
	}

	set, snap := parsePage(page, ticker)
	p.writeCache(fromModels(ticker, set, snap))
	return set, snap, nil
}

// parsePage extracts the three statement tables and the snapshot fields.
func parsePage(page *goquery.Document, ticker string) (models.FinancialStatementSet, models.CompanySnapshot) {
	set := models.FinancialStatementSet{
		Ticker:   ticker,
		Income:   parseStatement(page, "income"),
		Balance:  parseStatement(page, "balance"),
		CashFlow: parseStatement(page, "cashflow"),
	}
	return set, parseSnapshot(page)
}

// parseStatement reads table[data-statement=<name>]: each row's first cell is
// the line-item name, the rest are period values most recent first. Dashes and
// blanks become nil cells, never zeros.
func parseStatement(page *goquery.Document, name string) models.Statement {
	rows := map[string]models.LineValues{}
	page.Find(fmt.Sprintf("table[data-statement=%q] tbody tr", name)).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		item := strings.TrimSpace(cells.First().Text())
		if item == "" {
			return
		}
		values := make(models.LineValues, 0, cells.Length()-1)
		cells.Slice(1, cells.Length()).Each(func(_ int, td *goquery.Selection) {
			values = append(values, parseNumber(td.Text()))
		})
		rows[item] = values
	})
	return models.Statement{Rows: rows}
}

// parseSnapshot reads [data-field] cells into the flat company view.
func parseSnapshot(page *goquery.Document) models.CompanySnapshot {
	text := func(field string) string {
		return strings.TrimSpace(page.Find(fmt.Sprintf("[data-field=%q]", field)).First().Text())
	}
	num := func(field string) float64 {
		if v := parseNumber(text(field)); v != nil {
			return *v
		}
		return 0
	}

	return models.CompanySnapshot{
		Name:              text("name"),
		Sector:            text("sector"),
		Industry:          text("industry"),
		Currency:          text("currency"),
		FinancialCurrency: text("financial_currency"),
		MarketCap:         num("market_cap"),
		SharesOutstanding: num("shares_outstanding"),
		CurrentPrice:      num("current_price"),
		TrailingPE:        num("trailing_pe"),
		ForwardPE:         num("forward_pe"),
		PriceToBook:       num("price_to_book"),
		DividendYield:     num("dividend_yield"),
		Beta:              num("beta"),
		TrailingEPS:       num("trailing_eps"),
		BookValuePerShare: num("book_value_per_share"),
	}
}

// parseNumber converts a display value to a float. Thousands separators are
// stripped and parenthesized values are negative. Missing markers return nil.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "", "-", "—", "n/a", "N/A":
		return nil
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if neg {
		v = -v
	}
	return &v
}

func (p *HTTPProvider) cachePath(ticker string) string {
	return filepath.Join(p.cacheDir, ticker+".json")
}

func (p *HTTPProvider) readCache(ticker string) (document, bool) {
	if p.cacheDir == "" {
		return document{}, false
	}
	raw, err := os.ReadFile(p.cachePath(ticker))
	if err != nil {
		return document{}, false
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return document{}, false
	}
	return doc, true
}

func (p *HTTPProvider) writeCache(doc document) {
	if p.cacheDir == "" {
		return
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return
	}
	os.MkdirAll(p.cacheDir, 0755)
	os.WriteFile(p.cachePath(doc.Ticker), raw, 0644)
}
