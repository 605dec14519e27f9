package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/killboard/internal/observability"
)

// Executor submits exactly one parameterized statement per call. Arguments
// are always bound by the driver, never spliced into the statement text, and
// the borrowed connection goes back to the pool on every exit path.
type Executor struct {
	pool *pgxpool.Pool
}

// NewExecutor wraps pool.
func NewExecutor(pool *pgxpool.Pool) *Executor {
	return &Executor{pool: pool}
}

// Query runs a row-returning statement. The caller owns rows and must close
// them; rows.Err reports anything that went wrong mid-stream.
func (e *Executor) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	start := time.Now()
	rows, err := e.pool.Query(ctx, sql, args...)
	observability.ObserveStatement(statementVerb(sql), time.Since(start), err)
	return rows, err
}

// Exec runs a statement that returns no rows and reports how many rows it
// affected. Store errors pass through untouched.
func (e *Executor) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	start := time.Now()
	tag, err := e.pool.Exec(ctx, sql, args...)
	observability.ObserveStatement(statementVerb(sql), time.Since(start), err)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// statementVerb extracts the leading SQL keyword for metric labels.
func statementVerb(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
