package monitor

import (
	"context"

	"domainmon/pkg/domain"
)

// Service exposes the domain health-check engine: registration of domains
// for an account and on-demand scanning of the whole collection.
type Service interface {
	// List returns the account's records sorted by domain.
	List(ctx context.Context, account string) ([]domain.Record, error)
	// Add validates and registers one domain, returning the normalized host.
	// Returns serrors.ErrBadRequest for invalid input and serrors.ErrConflict
	// when the host is already registered.
	Add(ctx context.Context, account, rawDomain string) (string, error)
	// BulkAdd registers every valid, not-yet-present line and reports the
	// per-line outcome. Blank lines are ignored. The whole batch is applied
	// against a single loaded snapshot and persisted once.
	BulkAdd(ctx context.Context, account string, lines []string) (domain.BulkSummary, error)
	// Remove deletes the given hosts from the collection, partitioning them
	// into removed and not-found. Removing an absent host is not an error.
	Remove(ctx context.Context, account string, rawHosts []string) (domain.RemoveResult, error)
	// Scan probes every registered domain concurrently and persists the
	// refreshed records, returning them sorted by domain.
	Scan(ctx context.Context, account string) ([]domain.Record, error)
}

// Prober performs a single health check against one normalized host. It
// always returns a well-formed record; transport failures surface as a Down
// status, never as an error.
type Prober interface {
	Probe(ctx context.Context, host string) domain.Record
}
