package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/killboard/internal/domain"
	"example.com/killboard/internal/persistence"
)

const activityColumns = `id, account_id, kills, date`

// ActivityRepository is the PostgreSQL-backed activity store.
type ActivityRepository struct {
	exec *persistence.Executor
}

// NewActivityRepository constructs an ActivityRepository on top of exec.
func NewActivityRepository(exec *persistence.Executor) *ActivityRepository {
	return &ActivityRepository{exec: exec}
}

// Create inserts one activity row. The id is assigned by the store; the
// account reference is checked by the store's foreign key, not here.
func (r *ActivityRepository) Create(ctx context.Context, accountID int64, kills int, date time.Time) error {
	const stmt = `INSERT INTO activities (account_id, kills, date) VALUES ($1, $2, $3)`
	_, err := r.exec.Exec(ctx, stmt, accountID, kills, date)
	return err
}

// Replace overwrites the full row matching id and reports how many rows
// matched. A missing id yields (0, nil), not an error.
func (r *ActivityRepository) Replace(ctx context.Context, id, accountID int64, kills int, date time.Time) (int64, error) {
	const stmt = `UPDATE activities SET account_id = $2, kills = $3, date = $4 WHERE id = $1`
	return r.exec.Exec(ctx, stmt, id, accountID, kills, date)
}

// Remove deletes the row matching id, with the same zero-match semantics as
// Replace.
func (r *ActivityRepository) Remove(ctx context.Context, id int64) (int64, error) {
	const stmt = `DELETE FROM activities WHERE id = $1`
	return r.exec.Exec(ctx, stmt, id)
}

// ListAll returns every activity in store order.
func (r *ActivityRepository) ListAll(ctx context.Context) ([]domain.Activity, error) {
	const query = `SELECT ` + activityColumns + ` FROM activities`
	rows, err := r.exec.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectActivities(rows)
}

// Paginate returns one page of activities, skipping offset rows and
// returning at most limit.
func (r *ActivityRepository) Paginate(ctx context.Context, limit, offset int) ([]domain.Activity, error) {
	const query = `SELECT ` + activityColumns + ` FROM activities LIMIT $1 OFFSET $2`
	rows, err := r.exec.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectActivities(rows)
}

// SearchByDate returns activities recorded on exactly date.
func (r *ActivityRepository) SearchByDate(ctx context.Context, date time.Time) ([]domain.Activity, error) {
	const query = `SELECT ` + activityColumns + ` FROM activities WHERE date = $1`
	rows, err := r.exec.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	return collectActivities(rows)
}

// SearchByDateRange returns activities recorded between start and end, both
// endpoints included.
func (r *ActivityRepository) SearchByDateRange(ctx context.Context, start, end time.Time) ([]domain.Activity, error) {
	const query = `SELECT ` + activityColumns + ` FROM activities WHERE date BETWEEN $1 AND $2`
	rows, err := r.exec.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	return collectActivities(rows)
}

func collectActivities(rows pgx.Rows) ([]domain.Activity, error) {
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.AccountID, &a.Kills, &a.Date); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}
