// Package postgres implements the domain repositories against PostgreSQL.
// Every operation is a single parameterized statement dispatched through the
// shared Executor.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"example.com/killboard/internal/domain"
	"example.com/killboard/internal/persistence"
)

var (
	_ domain.AccountRepository  = (*AccountRepository)(nil)
	_ domain.ActivityRepository = (*ActivityRepository)(nil)
)

const accountColumns = `id, handle, secret, given_name, family_name`

// AccountRepository is the PostgreSQL-backed account store.
type AccountRepository struct {
	exec *persistence.Executor
}

// NewAccountRepository constructs an AccountRepository on top of exec.
func NewAccountRepository(exec *persistence.Executor) *AccountRepository {
	return &AccountRepository{exec: exec}
}

// Create inserts one account row. The id is assigned by the store.
func (r *AccountRepository) Create(ctx context.Context, handle, secret, givenName, familyName string) error {
	const stmt = `INSERT INTO accounts (handle, secret, given_name, family_name) VALUES ($1, $2, $3, $4)`
	_, err := r.exec.Exec(ctx, stmt, handle, secret, givenName, familyName)
	return err
}

// Replace overwrites the full row matching id and reports how many rows
// matched. A missing id yields (0, nil), not an error.
func (r *AccountRepository) Replace(ctx context.Context, id int64, handle, secret, givenName, familyName string) (int64, error) {
	const stmt = `UPDATE accounts SET handle = $2, secret = $3, given_name = $4, family_name = $5 WHERE id = $1`
	return r.exec.Exec(ctx, stmt, id, handle, secret, givenName, familyName)
}

// Remove deletes the row matching id, with the same zero-match semantics as
// Replace. Activity rows referencing the account go with it through the
// schema's cascade rule.
func (r *AccountRepository) Remove(ctx context.Context, id int64) (int64, error) {
	const stmt = `DELETE FROM accounts WHERE id = $1`
	return r.exec.Exec(ctx, stmt, id)
}

// ListAll returns every account ordered by handle.
func (r *AccountRepository) ListAll(ctx context.Context) ([]domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts ORDER BY handle`
	rows, err := r.exec.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectAccounts(rows)
}

// SearchByHandle returns accounts whose handle contains fragment, ignoring
// case. An empty fragment matches every account.
func (r *AccountRepository) SearchByHandle(ctx context.Context, fragment string) ([]domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE handle ILIKE '%' || $1 || '%' ORDER BY handle`
	rows, err := r.exec.Query(ctx, query, fragment)
	if err != nil {
		return nil, err
	}
	return collectAccounts(rows)
}

// SearchByDetails returns accounts whose handle, given name and family name
// all contain their respective fragments, ignoring case. Empty fragments
// match everything.
func (r *AccountRepository) SearchByDetails(ctx context.Context, handleFragment, givenFragment, familyFragment string) ([]domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts
		WHERE handle ILIKE '%' || $1 || '%'
		AND given_name ILIKE '%' || $2 || '%'
		AND family_name ILIKE '%' || $3 || '%'
		ORDER BY handle`
	rows, err := r.exec.Query(ctx, query, handleFragment, givenFragment, familyFragment)
	if err != nil {
		return nil, err
	}
	return collectAccounts(rows)
}

// RemoveBelowThreshold deletes accounts whose kills, summed over all their
// activity rows, stay under threshold. Accounts with no activity rows form
// no group in the subquery and are never deleted.
func (r *AccountRepository) RemoveBelowThreshold(ctx context.Context, threshold int) (int64, error) {
	const stmt = `DELETE FROM accounts WHERE id IN (
		SELECT account_id FROM activities GROUP BY account_id HAVING SUM(kills) < $1
	)`
	return r.exec.Exec(ctx, stmt, threshold)
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Handle, &a.Secret, &a.GivenName, &a.FamilyName); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}
