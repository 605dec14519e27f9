package domain

import (
	"context"
	"time"
)

// Activity is one dated kill tally attributed to an account.
//
// Date carries a calendar date only: the store column is DATE and the time
// portion is midnight UTC on the Go side.
type Activity struct {
	ID        int64
	AccountID int64
	Kills     int
	Date      time.Time
}

// ActivityRepository captures every activity operation the API exposes.
// Write operations share the zero-row-success semantics documented on
// AccountRepository.
type ActivityRepository interface {
	Create(ctx context.Context, accountID int64, kills int, date time.Time) error
	Replace(ctx context.Context, id, accountID int64, kills int, date time.Time) (int64, error)
	Remove(ctx context.Context, id int64) (int64, error)
	ListAll(ctx context.Context) ([]Activity, error)
	Paginate(ctx context.Context, limit, offset int) ([]Activity, error)
	SearchByDate(ctx context.Context, date time.Time) ([]Activity, error)
	SearchByDateRange(ctx context.Context, start, end time.Time) ([]Activity, error)
}
