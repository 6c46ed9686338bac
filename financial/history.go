package financial

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/devskill-org/pvbess-engine/apperr"
)

// HistoryStore persists financial-run summaries for later comparison; it is
// optional and best-effort (§6 "optionally... an 8760-point time series
// block" extends to keeping prior runs for a site). Backed by PostgreSQL via
// database/sql and lib/pq, matching the teacher's Postgres-backed run
// history.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistoryStore connects to a Postgres DSN and ensures the run-history
// table exists.
func OpenHistoryStore(ctx context.Context, dsn string) (*HistoryStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, apperr.NewCache("financial.history.open", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, apperr.NewCache("financial.history.ping", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS financial_runs (
	id SERIAL PRIMARY KEY,
	site_key TEXT NOT NULL,
	ran_at TIMESTAMPTZ NOT NULL,
	npv DOUBLE PRECISION NOT NULL,
	irr DOUBLE PRECISION NOT NULL,
	simple_payback_years DOUBLE PRECISION NOT NULL,
	discounted_payback_years DOUBLE PRECISION NOT NULL,
	lcoe DOUBLE PRECISION NOT NULL
)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, apperr.NewCache("financial.history.migrate", err)
	}
	return &HistoryStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// RunSummary is the subset of a FinancialResult persisted per run.
type RunSummary struct {
	SiteKey                string
	RanAt                  time.Time
	NPV                    float64
	IRR                    float64
	SimplePaybackYears     float64
	DiscountedPaybackYears float64
	LCOE                   float64
}

// Record appends one run's summary. Failures here are a CacheError per §7:
// history recording is never allowed to fail the caller's financial
// calculation.
func (s *HistoryStore) Record(ctx context.Context, summary RunSummary) error {
	const stmt = `
INSERT INTO financial_runs (site_key, ran_at, npv, irr, simple_payback_years, discounted_payback_years, lcoe)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.ExecContext(ctx, stmt,
		summary.SiteKey, summary.RanAt, summary.NPV, summary.IRR,
		summary.SimplePaybackYears, summary.DiscountedPaybackYears, summary.LCOE)
	if err != nil {
		return apperr.NewCache("financial.history.record", err)
	}
	return nil
}

// History returns the most recent runs for a site, newest first.
func (s *HistoryStore) History(ctx context.Context, siteKey string, limit int) ([]RunSummary, error) {
	const q = `
SELECT site_key, ran_at, npv, irr, simple_payback_years, discounted_payback_years, lcoe
FROM financial_runs
WHERE site_key = $1
ORDER BY ran_at DESC
LIMIT $2`
	rows, err := s.db.QueryContext(ctx, q, siteKey, limit)
	if err != nil {
		return nil, apperr.NewCache("financial.history.query", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.SiteKey, &r.RanAt, &r.NPV, &r.IRR, &r.SimplePaybackYears, &r.DiscountedPaybackYears, &r.LCOE); err != nil {
			return nil, apperr.NewCache("financial.history.scan", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
