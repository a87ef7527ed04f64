// Package storage defines the persistence interfaces the application relies
// on. It abstracts the backing medium so different backends (the JSON file
// store in production, fakes in tests) can provide concrete implementations.
package storage

import (
	"context"

	"domainmon/pkg/domain"
)

// DomainStorage persists per-account domain record collections.
// Implementations serialize individual operations against the backing
// medium; keeping a whole load-mutate-save cycle atomic is the calling
// service's responsibility.
type DomainStorage interface {
	// LoadDomains returns the account's records sorted ascending by domain
	// (case-insensitive). A missing backing unit is created empty. Unparsable
	// content is treated as empty unless the implementation runs in strict
	// mode.
	LoadDomains(ctx context.Context, account string) ([]domain.Record, error)
	// SaveDomains replaces the account's entire collection with the given
	// records, persisted sorted ascending by domain. This is a full replace,
	// not a merge.
	SaveDomains(ctx context.Context, account string, records []domain.Record) error
	// DeleteDomains removes the account's backing unit entirely. Deleting a
	// unit that does not exist is not an error.
	DeleteDomains(ctx context.Context, account string) error
}

// UserStorage persists account credentials.
type UserStorage interface {
	// LoadUsers returns all registered users.
	LoadUsers(ctx context.Context) ([]domain.User, error)
	// SaveUsers replaces the whole credential list.
	SaveUsers(ctx context.Context, users []domain.User) error
}

// AllStorage combines every persistence capability the application needs.
type AllStorage interface {
	DomainStorage
	UserStorage
}
