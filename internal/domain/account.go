// Package domain defines the records stored by the killboard service and the
// persistence contracts the transport layer depends on.
package domain

import "context"

// Account is a player identity row in the accounts table.
type Account struct {
	ID         int64
	Handle     string
	Secret     string
	GivenName  string
	FamilyName string
}

// AccountRepository captures every account operation the API exposes.
//
// Replace, Remove and RemoveBelowThreshold report the number of rows
// affected. Targeting an id that matches no row is not an error; it is a
// zero-row success the caller may inspect.
type AccountRepository interface {
	Create(ctx context.Context, handle, secret, givenName, familyName string) error
	Replace(ctx context.Context, id int64, handle, secret, givenName, familyName string) (int64, error)
	Remove(ctx context.Context, id int64) (int64, error)
	ListAll(ctx context.Context) ([]Account, error)
	SearchByHandle(ctx context.Context, fragment string) ([]Account, error)
	SearchByDetails(ctx context.Context, handleFragment, givenFragment, familyFragment string) ([]Account, error)
	RemoveBelowThreshold(ctx context.Context, threshold int) (int64, error)
}
