// Package models defines the raw per-ticker financial data shapes produced by a
// data provider and consumed by the metric engine. Values are stored exactly as
// reported; all normalization happens downstream.
package models

// LineValues holds the period values of one statement row, most recent period
// first. A nil entry means the provider did not report that period.
type LineValues []*float64

// Statement is one financial statement table: provider-defined line-item name
// to ordered period values. Line items may be entirely absent for a ticker;
// absence means "unknown", never zero.
type Statement struct {
	Rows map[string]LineValues `json:"rows"`
}

// Empty reports whether the statement carries no rows at all.
func (s Statement) Empty() bool {
	return len(s.Rows) == 0
}

// Cell returns the raw reported value for a line item and period index.
// The second return is false when the item is absent, the period index is out
// of range, or the cell was a missing marker.
func (s Statement) Cell(item string, period int) (float64, bool) {
	row, ok := s.Rows[item]
	if !ok {
		return 0, false
	}
	if period < 0 || period >= len(row) {
		return 0, false
	}
	if row[period] == nil {
		return 0, false
	}
	return *row[period], true
}

// Periods returns the longest period count across rows.
func (s Statement) Periods() int {
	max := 0
	for _, row := range s.Rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// FinancialStatementSet bundles the three statements for one ticker.
type FinancialStatementSet struct {
	Ticker   string    `json:"ticker"`
	Income   Statement `json:"income_statement"`
	Balance  Statement `json:"balance_sheet"`
	CashFlow Statement `json:"cash_flow"`
}

// Usable reports whether all three statements carry data. A set with any empty
// statement is treated as a whole-ticker precondition failure by the engine.
func (f FinancialStatementSet) Usable() bool {
	return !f.Income.Empty() && !f.Balance.Empty() && !f.CashFlow.Empty()
}

// CompanySnapshot is the flat point-in-time descriptive view of a company,
// sourced once per ticker and immutable for the duration of an analysis run.
// Currency is the listing currency of the shares; FinancialCurrency is the
// currency the statements are reported in (they can differ, see metrics).
type CompanySnapshot struct {
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`

	Currency          string `json:"currency"`
	FinancialCurrency string `json:"financial_currency"`

	MarketCap         float64 `json:"market_cap"`
	SharesOutstanding float64 `json:"shares_outstanding"`
	CurrentPrice      float64 `json:"current_price"`
	TrailingPE        float64 `json:"trailing_pe"`
	ForwardPE         float64 `json:"forward_pe"`
	PriceToBook       float64 `json:"price_to_book"`
	DividendYield     float64 `json:"dividend_yield"`
	Beta              float64 `json:"beta"`
	TrailingEPS       float64 `json:"trailing_eps"`
	BookValuePerShare float64 `json:"book_value_per_share"`
}
