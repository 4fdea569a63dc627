package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"equityscore/pkg/core/scorecard"
)

// ScorecardRepo stores completed analyses keyed by ticker. The full analysis
// lives in a JSONB blob; score and recommendation are projected into columns
// so rankings never deserialize the blob.
//
// Schema assumption (managed by migrations):
//
//	CREATE TABLE IF NOT EXISTS equity_scorecards (
//	  ticker TEXT PRIMARY KEY,
//	  run_id TEXT,
//	  score DOUBLE PRECISION,
//	  recommendation TEXT,
//	  analysis_json JSONB,
//	  updated_at TIMESTAMPTZ
//	);
type ScorecardRepo struct{}

// NewScorecardRepo creates a new repository instance.
func NewScorecardRepo() *ScorecardRepo {
	return &ScorecardRepo{}
}

// RankedEntry is one row of the score ranking.
type RankedEntry struct {
	Ticker         string    `json:"ticker"`
	Score          float64   `json:"score"`
	Recommendation string    `json:"recommendation"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Save upserts the analysis for its ticker.
func (r *ScorecardRepo) Save(ctx context.Context, a *scorecard.Analysis) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	query := `
		INSERT INTO equity_scorecards (ticker, run_id, score, recommendation, analysis_json, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ticker)
		DO UPDATE SET
			run_id = EXCLUDED.run_id,
			score = EXCLUDED.score,
			recommendation = EXCLUDED.recommendation,
			analysis_json = EXCLUDED.analysis_json,
			updated_at = EXCLUDED.updated_at;
	`

	_, err = pool.Exec(ctx, query,
		a.Ticker, a.RunID, a.Scorecard.Total, a.Scorecard.Recommendation, jsonData, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// Load retrieves the stored analysis for a ticker.
func (r *ScorecardRepo) Load(ctx context.Context, ticker string) (*scorecard.Analysis, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var jsonData []byte
	err := pool.QueryRow(ctx,
		`SELECT analysis_json FROM equity_scorecards WHERE ticker = $1`, ticker).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no analysis found for ticker %s", ticker)
		}
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}

	var a scorecard.Analysis
	if err := json.Unmarshal(jsonData, &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	return &a, nil
}

// Ranking lists stored tickers by score, highest first.
func (r *ScorecardRepo) Ranking(ctx context.Context, limit int) ([]RankedEntry, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := pool.Query(ctx, `
		SELECT ticker, score, recommendation, updated_at
		FROM equity_scorecards
		ORDER BY score DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking: %w", err)
	}
	defer rows.Close()

	var entries []RankedEntry
	for rows.Next() {
		var e RankedEntry
		if err := rows.Scan(&e.Ticker, &e.Score, &e.Recommendation, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
