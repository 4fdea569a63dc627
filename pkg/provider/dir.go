package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"equityscore/pkg/models"
)

// DirProvider serves tickers from JSON fixture files, one file per ticker
// named <TICKER>.json. It backs offline runs and tests.
type DirProvider struct {
	dir string
}

func NewDirProvider(dir string) *DirProvider {
	return &DirProvider{dir: dir}
}

// Fetch reads <dir>/<TICKER>.json. A missing file maps to ErrNotFound.
func (p *DirProvider) Fetch(ctx context.Context, ticker string) (set models.FinancialStatementSet, snap models.CompanySnapshot, err error) {
	path := filepath.Join(p.dir, strings.ToUpper(ticker)+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return set, snap, fmt.Errorf("%s: %w", ticker, ErrNotFound)
		}
		return set, snap, fmt.Errorf("failed to read fixture for %s: %w", ticker, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return set, snap, fmt.Errorf("failed to parse fixture for %s: %w", ticker, err)
	}
	doc.Ticker = strings.ToUpper(ticker)
	set, snap = doc.toModels()
	return set, snap, nil
}
