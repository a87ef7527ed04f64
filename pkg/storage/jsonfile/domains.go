package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"domainmon/pkg/domain"
	"domainmon/pkg/logger"
	"domainmon/pkg/storage"

	"go.uber.org/zap"
)

// Ensure Store implements the full storage surface.
var _ storage.AllStorage = (*Store)(nil)

// sortRecords orders records ascending by domain, case-insensitively. The
// sorted order is part of the durable format, not a presentation detail.
func sortRecords(records []domain.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return strings.ToLower(records[i].Domain) < strings.ToLower(records[j].Domain)
	})
}

// LoadDomains returns the account's record collection sorted by domain. A
// missing document is initialized to an empty list so the backing unit exists
// after the first access. Unparsable or non-list content is treated as empty
// in lenient mode and returns storage.ErrCorruptData in strict mode.
func (s *Store) LoadDomains(ctx context.Context, account string) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadDomainsLocked(ctx, account)
}

func (s *Store) loadDomainsLocked(ctx context.Context, account string) ([]domain.Record, error) {
	path := s.domainsPath(account)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("could not read domains for %q: %w", account, err)
		}
		if err := writeFileAtomic(path, []byte("[]")); err != nil {
			return nil, fmt.Errorf("could not initialize domains for %q: %w", account, err)
		}

		return []domain.Record{}, nil
	}

	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil || records == nil {
		if s.opts.Strict {
			return nil, fmt.Errorf("domains document for %q: %w", account, storage.ErrCorruptData)
		}
		// Best-effort monitoring data: a mangled document is recovered by
		// starting over rather than taking the account down.
		logger.Warn(ctx, "treating unparsable domains document as empty",
			zap.String("account", account), zap.Error(err))
		records = []domain.Record{}
	}

	sortRecords(records)

	return records, nil
}

// SaveDomains atomically replaces the account's collection with the given
// records, sorted by domain.
func (s *Store) SaveDomains(_ context.Context, account string, records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveDomainsLocked(account, records)
}

func (s *Store) saveDomainsLocked(account string, records []domain.Record) error {
	if records == nil {
		records = []domain.Record{}
	}
	sortRecords(records)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal domains for %q: %w", account, err)
	}

	if err := writeFileAtomic(s.domainsPath(account), data); err != nil {
		return fmt.Errorf("could not save domains for %q: %w", account, err)
	}

	return nil
}

// DeleteDomains removes the account's backing document. A document that does
// not exist is not an error.
func (s *Store) DeleteDomains(_ context.Context, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.domainsPath(account)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete domains for %q: %w", account, err)
	}

	return nil
}
