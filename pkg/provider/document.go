package provider

import "equityscore/pkg/models"

// document is the on-disk form used by both the fixture directory provider and
// the HTTP provider's cache. It mirrors the model shapes directly so cached
// fetches round-trip without loss.
type document struct {
	Ticker   string                 `json:"ticker"`
	Snapshot models.CompanySnapshot `json:"snapshot"`
	Income   models.Statement       `json:"income_statement"`
	Balance  models.Statement       `json:"balance_sheet"`
	CashFlow models.Statement       `json:"cash_flow"`
}

func (d document) toModels() (models.FinancialStatementSet, models.CompanySnapshot) {
	set := models.FinancialStatementSet{
		Ticker:   d.Ticker,
		Income:   d.Income,
		Balance:  d.Balance,
		CashFlow: d.CashFlow,
	}
	return set, d.Snapshot
}

func fromModels(ticker string, set models.FinancialStatementSet, snap models.CompanySnapshot) document {
	return document{
		Ticker:   ticker,
		Snapshot: snap,
		Income:   set.Income,
		Balance:  set.Balance,
		CashFlow: set.CashFlow,
	}
}
