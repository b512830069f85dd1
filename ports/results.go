package ports

import (
	"context"

	"specsearch/domain/core"
	"specsearch/domain/result"
)

// ResultRepository persists the coefficient records of a completed run.
type ResultRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveRun(ctx context.Context, runID core.RunID, records []result.Record) error
	Close() error
}
