// Package provider fetches per-ticker financial data. Two implementations are
// included: an HTTP scraper for a statements site and a fixture directory
// reader for offline runs and tests.
package provider

import (
	"context"
	"errors"

	"equityscore/pkg/models"
)

// ErrNotFound means the source has no data for the ticker. Callers treat this
// as a per-ticker condition, not a provider failure.
var ErrNotFound = errors.New("ticker not found")

// Provider fetches the statements and snapshot for one ticker.
type Provider interface {
	Fetch(ctx context.Context, ticker string) (models.FinancialStatementSet, models.CompanySnapshot, error)
}
