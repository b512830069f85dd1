// Package postgres provides the optional results archive. When a
// DATABASE_URL is configured, every coefficient record written to the output
// directory is also inserted into the regression_results table.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"specsearch/domain/core"
	"specsearch/domain/result"
	apperrors "specsearch/internal/errors"
	"specsearch/ports"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS regression_results (
	id                     BIGSERIAL PRIMARY KEY,
	run_id                 TEXT NOT NULL,
	model_label            TEXT NOT NULL,
	formula                TEXT NOT NULL,
	dropped_earliest_years INTEGER NOT NULL,
	coefficient            TEXT NOT NULL,
	estimate               DOUBLE PRECISION NOT NULL,
	std_error              DOUBLE PRECISION NOT NULL,
	p_value                DOUBLE PRECISION NOT NULL,
	significant_at_10pct   BOOLEAN NOT NULL,
	significant_at_5pct    BOOLEAN NOT NULL,
	significant_at_1pct    BOOLEAN NOT NULL,
	created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const insertSQL = `
INSERT INTO regression_results (
	run_id, model_label, formula, dropped_earliest_years, coefficient,
	estimate, std_error, p_value,
	significant_at_10pct, significant_at_5pct, significant_at_1pct
) VALUES (
	:run_id, :model_label, :formula, :dropped_earliest_years, :coefficient,
	:estimate, :std_error, :p_value,
	:significant_at_10pct, :significant_at_5pct, :significant_at_1pct
)`

// insertRow pairs a record with the run it belongs to for the named insert.
type insertRow struct {
	RunID string `db:"run_id"`
	result.Record
}

// ResultsRepositoryImpl implements ports.ResultRepository for PostgreSQL.
type ResultsRepositoryImpl struct {
	db *sqlx.DB
}

// NewResultsRepository connects to Postgres and returns the repository.
func NewResultsRepository(databaseURL string) (ports.ResultRepository, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to connect to results database", err)
	}
	return &ResultsRepositoryImpl{db: db}, nil
}

// EnsureSchema creates the results table if it does not exist.
func (r *ResultsRepositoryImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTableSQL); err != nil {
		return apperrors.DatabaseError("failed to ensure regression_results schema", err)
	}
	return nil
}

// SaveRun inserts every record of a run in a single transaction. Failures
// are fatal for the caller; there is no partial archive.
func (r *ResultsRepositoryImpl) SaveRun(ctx context.Context, runID core.RunID, records []result.Record) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.DatabaseError("failed to begin results transaction", err)
	}
	defer tx.Rollback()

	for _, record := range records {
		row := insertRow{RunID: runID.String(), Record: record}
		if _, err := tx.NamedExecContext(ctx, insertSQL, row); err != nil {
			return apperrors.DatabaseError(
				fmt.Sprintf("failed to insert record %s/%s", record.ModelLabel, record.Coefficient), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.DatabaseError("failed to commit results transaction", err)
	}
	return nil
}

// Close releases the database connection.
func (r *ResultsRepositoryImpl) Close() error {
	return r.db.Close()
}
