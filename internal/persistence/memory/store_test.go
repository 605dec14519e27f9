package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestAccountListOrdersByHandle(t *testing.T) {
	ctx := context.Background()
	accounts := NewStore().Accounts()

	for _, handle := range []string{"zara", "mira", "aksel"} {
		require.NoError(t, accounts.Create(ctx, handle, "pw", "Test", "User"))
	}

	got, err := accounts.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "aksel", got[0].Handle)
	require.Equal(t, "mira", got[1].Handle)
	require.Equal(t, "zara", got[2].Handle)
}

func TestSearchByHandleIgnoresCase(t *testing.T) {
	ctx := context.Background()
	accounts := NewStore().Accounts()

	require.NoError(t, accounts.Create(ctx, "gunnar", "pw", "Gunnar", "Holt"))
	require.NoError(t, accounts.Create(ctx, "mira", "pw", "Mira", "Voss"))

	got, err := accounts.SearchByHandle(ctx, "UNN")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "gunnar", got[0].Handle)

	// An empty fragment matches everything.
	got, err = accounts.SearchByHandle(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestSearchByDetailsIsConjunctive(t *testing.T) {
	ctx := context.Background()
	accounts := NewStore().Accounts()

	require.NoError(t, accounts.Create(ctx, "alice", "pw", "Alice", "Smith"))
	require.NoError(t, accounts.Create(ctx, "alicia", "pw", "Alicia", "Smithson"))
	require.NoError(t, accounts.Create(ctx, "bob", "pw", "Robert", "Miller"))

	got, err := accounts.SearchByDetails(ctx, "ali", "ALI", "smith")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "alice", got[0].Handle)
	require.Equal(t, "alicia", got[1].Handle)

	got, err = accounts.SearchByDetails(ctx, "", "", "son")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "alicia", got[0].Handle)

	got, err = accounts.SearchByDetails(ctx, "", "", "")
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestWritesReportZeroRowsForMissingIDs(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	accounts := store.Accounts()
	activities := store.Activities()

	affected, err := accounts.Replace(ctx, 99, "ghost", "pw", "No", "One")
	require.NoError(t, err)
	require.Zero(t, affected)

	affected, err = activities.Remove(ctx, 99)
	require.NoError(t, err)
	require.Zero(t, affected)

	require.NoError(t, accounts.Create(ctx, "mira", "pw", "Mira", "Voss"))

	affected, err = accounts.Remove(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	// Deleting twice is a zero-row success, not an error.
	affected, err = accounts.Remove(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, affected)
}

func TestAccountRemoveCascadesToActivities(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	accounts := store.Accounts()
	activities := store.Activities()

	require.NoError(t, accounts.Create(ctx, "mira", "pw", "Mira", "Voss"))
	require.NoError(t, accounts.Create(ctx, "zara", "pw", "Zara", "Holt"))
	require.NoError(t, activities.Create(ctx, 1, 5, day(1)))
	require.NoError(t, activities.Create(ctx, 2, 7, day(1)))
	require.NoError(t, activities.Create(ctx, 1, 3, day(2)))

	affected, err := accounts.Remove(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	remaining, err := activities.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.EqualValues(t, 2, remaining[0].AccountID)
}

func TestRemoveBelowThresholdSparesZeroActivityAccounts(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	accounts := store.Accounts()
	activities := store.Activities()

	require.NoError(t, accounts.Create(ctx, "casual", "pw", "Cas", "Ual"))   // id 1, sum 5
	require.NoError(t, accounts.Create(ctx, "veteran", "pw", "Vet", "Eran")) // id 2, sum 12
	require.NoError(t, accounts.Create(ctx, "idle", "pw", "Id", "Le"))      // id 3, no rows

	require.NoError(t, activities.Create(ctx, 1, 2, day(1)))
	require.NoError(t, activities.Create(ctx, 1, 3, day(2)))
	require.NoError(t, activities.Create(ctx, 2, 12, day(1)))

	removed, err := accounts.RemoveBelowThreshold(ctx, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	left, err := accounts.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, left, 2)
	require.Equal(t, "idle", left[0].Handle)
	require.Equal(t, "veteran", left[1].Handle)

	// The casual account's activity rows went with it.
	acts, err := activities.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	require.EqualValues(t, 2, acts[0].AccountID)
}

func TestPaginateBounds(t *testing.T) {
	ctx := context.Background()
	activities := NewStore().Activities()

	for i := 1; i <= 5; i++ {
		require.NoError(t, activities.Create(ctx, int64(i), i, day(i)))
	}

	page, err := activities.Paginate(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.EqualValues(t, 3, page[0].ID)
	require.EqualValues(t, 4, page[1].ID)

	page, err = activities.Paginate(ctx, 10, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.EqualValues(t, 5, page[0].ID)

	page, err = activities.Paginate(ctx, 2, 10)
	require.NoError(t, err)
	require.Empty(t, page)

	page, err = activities.Paginate(ctx, 0, 0)
	require.NoError(t, err)
	require.Empty(t, page)
}

func TestSearchByDateRangeIncludesEndpoints(t *testing.T) {
	ctx := context.Background()
	activities := NewStore().Activities()

	for d := 1; d <= 4; d++ {
		require.NoError(t, activities.Create(ctx, 1, d, day(d)))
	}

	got, err := activities.SearchByDateRange(ctx, day(1), day(3))
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.True(t, got[0].Date.Equal(day(1)))
	require.True(t, got[2].Date.Equal(day(3)))

	got, err = activities.SearchByDate(ctx, day(2))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.EqualValues(t, 2, got[0].Kills)
}
