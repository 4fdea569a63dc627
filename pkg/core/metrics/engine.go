// Package metrics wraps one ticker's raw financial statements and snapshot and
// provides unit- and currency-consistent numeric access, plus the derived
// ratios (invested capital, NOPAT, ROIC, FCF) used throughout the rest of the
// system. The engine is constructed once per ticker, holds no mutable state
// beyond the inputs it was given, and never refetches.
package metrics

import (
	"equityscore/pkg/models"
)

// Table selects one of the three statements for a lookup.
type Table int

const (
	TableIncome Table = iota
	TableBalance
	TableCashFlow
)

// Canonical provider line-item names. These are provider-defined and may be
// entirely absent for a given ticker.
const (
	ItemTotalRevenue    = "Total Revenue"
	ItemOperatingIncome = "Operating Income"
	ItemNetIncome       = "Net Income"
	ItemPretaxIncome    = "Pretax Income"
	ItemTaxProvision    = "Tax Provision"

	ItemStockholdersEquity = "Stockholders Equity"
	ItemTotalDebt          = "Total Debt"
	ItemLongTermDebt       = "Long Term Debt"
	ItemCurrentDebt        = "Current Debt"
	ItemCash               = "Cash And Cash Equivalents"

	ItemOperatingCashFlow = "Operating Cash Flow"
	ItemCapEx             = "Capital Expenditure"
	ItemDividendsPaid     = "Cash Dividends Paid"
)

// CurrencyConfig holds the statement/listing currency mismatch correction
// parameters. The defaults encode a point-in-time USD/INR assumption carried
// over from the original screener; they are configuration, not law.
type CurrencyConfig struct {
	ListingCurrency    string  `yaml:"listing_currency"`
	StatementCurrency  string  `yaml:"statement_currency"`
	Multiplier         float64 `yaml:"multiplier"`
	MagnitudeThreshold float64 `yaml:"magnitude_threshold"`
}

// DefaultCurrencyConfig returns the stock USD-statements-on-INR-listing
// correction: multiply by 84 unless revenue magnitude says the figures are
// already local (above 5e11).
func DefaultCurrencyConfig() CurrencyConfig {
	return CurrencyConfig{
		ListingCurrency:    "INR",
		StatementCurrency:  "USD",
		Multiplier:         84.0,
		MagnitudeThreshold: 5e11,
	}
}

// Engine provides safe, currency-normalized access to one ticker's data.
type Engine struct {
	ticker string
	stmts  models.FinancialStatementSet
	snap   models.CompanySnapshot

	fx      float64
	hasData bool
}

// NewEngine wraps a ticker's statement set and snapshot. The currency
// multiplier is resolved exactly once here, before any ratio is computed, so
// every subsequent statement lookup is uniformly corrected.
func NewEngine(ticker string, stmts models.FinancialStatementSet, snap models.CompanySnapshot, cfg CurrencyConfig) *Engine {
	e := &Engine{
		ticker:  ticker,
		stmts:   stmts,
		snap:    snap,
		fx:      1.0,
		hasData: stmts.Usable(),
	}
	if e.hasData {
		e.fx = e.detectMultiplier(cfg)
	}
	return e
}

// detectMultiplier applies the statement-currency mismatch heuristic. When the
// snapshot lists shares in cfg.ListingCurrency but reports statements in
// cfg.StatementCurrency, the most recent Total Revenue decides: a figure
// already above the magnitude threshold is assumed to be local-currency units
// despite the tag (no correction), anything smaller is assumed genuinely
// foreign and scaled by the fixed multiplier.
//
// Known accuracy risk: companies near the threshold, or pairs other than the
// configured one, can be misclassified. There is deliberately no error path
// for "heuristic was wrong".
func (e *Engine) detectMultiplier(cfg CurrencyConfig) float64 {
	if cfg.ListingCurrency == cfg.StatementCurrency {
		return 1.0
	}
	if e.snap.Currency != cfg.ListingCurrency || e.snap.FinancialCurrency != cfg.StatementCurrency {
		return 1.0
	}
	revenue, ok := e.stmts.Income.Cell(ItemTotalRevenue, 0)
	if ok && revenue > cfg.MagnitudeThreshold {
		return 1.0
	}
	return cfg.Multiplier
}

// Ticker returns the ticker this engine was built for.
func (e *Engine) Ticker() string { return e.ticker }

// Snapshot returns the descriptive snapshot. Snapshot fields are already in
// listing currency and are never multiplied.
func (e *Engine) Snapshot() models.CompanySnapshot { return e.snap }

// HasData reports whether the ticker has usable statements. False means the
// whole per-ticker analysis must short-circuit to a terminal "no data" result.
func (e *Engine) HasData() bool { return e.hasData }

// FXMultiplier returns the statement currency correction resolved at
// construction (1.0 when no mismatch was detected).
func (e *Engine) FXMultiplier() float64 { return e.fx }

func (e *Engine) table(t Table) models.Statement {
	switch t {
	case TableBalance:
		return e.stmts.Balance
	case TableCashFlow:
		return e.stmts.CashFlow
	default:
		return e.stmts.Income
	}
}

// Lookup returns the currency-corrected value of a line item for a period
// index, and whether it was actually reported. This is the accessor to use
// when "missing" and "zero" must be told apart.
func (e *Engine) Lookup(t Table, item string, period int) (float64, bool) {
	if !e.hasData {
		return 0, false
	}
	v, ok := e.table(t).Cell(item, period)
	if !ok {
		return 0, false
	}
	return v * e.fx, true
}

// Get is the default-to-zero convenience wrapper around Lookup. It is total:
// empty tables, absent line items, out-of-range periods and missing cells all
// yield 0.0. Call sites that care must treat 0.0 as "unknown", not as a true
// zero; the two are indistinguishable through this accessor.
func (e *Engine) Get(t Table, item string, period int) float64 {
	v, _ := e.Lookup(t, item, period)
	return v
}

// TotalDebt prefers the direct "Total Debt" line item and falls back to
// long-term plus current debt when the provider does not report it.
func (e *Engine) TotalDebt(period int) float64 {
	if v, ok := e.Lookup(TableBalance, ItemTotalDebt, period); ok {
		return v
	}
	return e.Get(TableBalance, ItemLongTermDebt, period) + e.Get(TableBalance, ItemCurrentDebt, period)
}
