// Package memory provides in-memory repository implementations used by
// handler tests and storeless local runs. Both record types live behind one
// mutex so account removal can cascade to activities the way the relational
// schema does.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"example.com/killboard/internal/domain"
)

var (
	_ domain.AccountRepository  = (*AccountRepository)(nil)
	_ domain.ActivityRepository = (*ActivityRepository)(nil)
)

// Store holds accounts and activities. Activity insertion order stands in
// for the store-default row order of the relational backend.
type Store struct {
	mu             sync.Mutex
	nextAccountID  int64
	nextActivityID int64
	accounts       map[int64]domain.Account
	activities     map[int64]domain.Activity
	activityOrder  []int64
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		nextAccountID:  1,
		nextActivityID: 1,
		accounts:       make(map[int64]domain.Account),
		activities:     make(map[int64]domain.Activity),
	}
}

// Accounts returns the account repository view of the store.
func (s *Store) Accounts() *AccountRepository {
	return &AccountRepository{store: s}
}

// Activities returns the activity repository view of the store.
func (s *Store) Activities() *ActivityRepository {
	return &ActivityRepository{store: s}
}

// removeActivitiesOf drops every activity referencing accountID. Callers
// must hold s.mu.
func (s *Store) removeActivitiesOf(accountID int64) {
	kept := s.activityOrder[:0]
	for _, id := range s.activityOrder {
		if s.activities[id].AccountID == accountID {
			delete(s.activities, id)
			continue
		}
		kept = append(kept, id)
	}
	s.activityOrder = kept
}

// AccountRepository implements domain.AccountRepository over a Store.
type AccountRepository struct {
	store *Store
}

// Create assigns the next id and stores the account.
func (r *AccountRepository) Create(_ context.Context, handle, secret, givenName, familyName string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextAccountID
	s.nextAccountID++
	s.accounts[id] = domain.Account{
		ID:         id,
		Handle:     handle,
		Secret:     secret,
		GivenName:  givenName,
		FamilyName: familyName,
	}
	return nil
}

// Replace overwrites the account matching id. A missing id is a zero-row
// success.
func (r *AccountRepository) Replace(_ context.Context, id int64, handle, secret, givenName, familyName string) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return 0, nil
	}
	s.accounts[id] = domain.Account{
		ID:         id,
		Handle:     handle,
		Secret:     secret,
		GivenName:  givenName,
		FamilyName: familyName,
	}
	return 1, nil
}

// Remove deletes the account matching id along with its activities.
func (r *AccountRepository) Remove(_ context.Context, id int64) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return 0, nil
	}
	delete(s.accounts, id)
	s.removeActivitiesOf(id)
	return 1, nil
}

// ListAll returns every account ordered by handle.
func (r *AccountRepository) ListAll(ctx context.Context) ([]domain.Account, error) {
	return r.SearchByHandle(ctx, "")
}

// SearchByHandle returns accounts whose handle contains fragment, ignoring
// case, ordered by handle. An empty fragment matches every account.
func (r *AccountRepository) SearchByHandle(ctx context.Context, fragment string) ([]domain.Account, error) {
	return r.SearchByDetails(ctx, fragment, "", "")
}

// SearchByDetails returns accounts whose handle, given name and family name
// all contain their respective fragments, ignoring case, ordered by handle.
func (r *AccountRepository) SearchByDetails(_ context.Context, handleFragment, givenFragment, familyFragment string) ([]domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]domain.Account, 0)
	for _, a := range s.accounts {
		if containsFold(a.Handle, handleFragment) &&
			containsFold(a.GivenName, givenFragment) &&
			containsFold(a.FamilyName, familyFragment) {
			matches = append(matches, a)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Handle < matches[j].Handle
	})
	return matches, nil
}

// RemoveBelowThreshold deletes accounts whose summed kills stay under
// threshold, together with their activities. Accounts with no activity rows
// have no sum and are never deleted.
func (r *AccountRepository) RemoveBelowThreshold(_ context.Context, threshold int) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := make(map[int64]int)
	for _, act := range s.activities {
		sums[act.AccountID] += act.Kills
	}

	var removed int64
	for accountID, total := range sums {
		if total >= threshold {
			continue
		}
		if _, ok := s.accounts[accountID]; !ok {
			continue
		}
		delete(s.accounts, accountID)
		s.removeActivitiesOf(accountID)
		removed++
	}
	return removed, nil
}

// ActivityRepository implements domain.ActivityRepository over a Store.
type ActivityRepository struct {
	store *Store
}

// Create assigns the next id and stores the activity. Unlike the relational
// backend there is no foreign key; dangling account references are allowed.
func (r *ActivityRepository) Create(_ context.Context, accountID int64, kills int, date time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextActivityID
	s.nextActivityID++
	s.activities[id] = domain.Activity{
		ID:        id,
		AccountID: accountID,
		Kills:     kills,
		Date:      date,
	}
	s.activityOrder = append(s.activityOrder, id)
	return nil
}

// Replace overwrites the activity matching id, keeping its position in the
// listing order. A missing id is a zero-row success.
func (r *ActivityRepository) Replace(_ context.Context, id, accountID int64, kills int, date time.Time) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[id]; !ok {
		return 0, nil
	}
	s.activities[id] = domain.Activity{
		ID:        id,
		AccountID: accountID,
		Kills:     kills,
		Date:      date,
	}
	return 1, nil
}

// Remove deletes the activity matching id.
func (r *ActivityRepository) Remove(_ context.Context, id int64) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[id]; !ok {
		return 0, nil
	}
	delete(s.activities, id)
	for i, ordered := range s.activityOrder {
		if ordered == id {
			s.activityOrder = append(s.activityOrder[:i], s.activityOrder[i+1:]...)
			break
		}
	}
	return 1, nil
}

// ListAll returns every activity in insertion order.
func (r *ActivityRepository) ListAll(_ context.Context) ([]domain.Activity, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.orderedActivities(func(domain.Activity) bool { return true }), nil
}

// Paginate returns one page of activities in insertion order.
func (r *ActivityRepository) Paginate(_ context.Context, limit, offset int) ([]domain.Activity, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.orderedActivities(func(domain.Activity) bool { return true })
	if offset >= len(all) {
		return []domain.Activity{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// SearchByDate returns activities recorded on exactly date.
func (r *ActivityRepository) SearchByDate(_ context.Context, date time.Time) ([]domain.Activity, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.orderedActivities(func(a domain.Activity) bool {
		return a.Date.Equal(date)
	}), nil
}

// SearchByDateRange returns activities recorded between start and end, both
// endpoints included.
func (r *ActivityRepository) SearchByDateRange(_ context.Context, start, end time.Time) ([]domain.Activity, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.orderedActivities(func(a domain.Activity) bool {
		return !a.Date.Before(start) && !a.Date.After(end)
	}), nil
}

// orderedActivities collects activities matching keep in insertion order.
// Callers must hold s.mu.
func (s *Store) orderedActivities(keep func(domain.Activity) bool) []domain.Activity {
	matches := make([]domain.Activity, 0)
	for _, id := range s.activityOrder {
		if a := s.activities[id]; keep(a) {
			matches = append(matches, a)
		}
	}
	return matches
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
