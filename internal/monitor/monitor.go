package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"domainmon/internal/config"
	"domainmon/pkg/domain"
	"domainmon/pkg/logger"
	"domainmon/pkg/metrics"
	"domainmon/pkg/serrors"
	"domainmon/pkg/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Options configure the health-check engine.
type Options struct {
	// ProbeTimeout bounds every blocking network operation inside a probe.
	ProbeTimeout time.Duration
	// MaxConcurrentProbes caps the number of in-flight probes per scan. Each
	// probe holds a live socket, so the ceiling protects file descriptors and
	// keeps a big account from flooding the network.
	MaxConcurrentProbes int
}

// NewOptions constructs an Options value from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		ProbeTimeout:        cfg.Monitor.ProbeTimeout,
		MaxConcurrentProbes: cfg.Monitor.MaxConcurrentProbes,
	}
}

// service is the concrete Service implementation. It owns the business rules
// for the per-account domain collection (validation, uniqueness, batch
// semantics) and orchestrates scans; persistence is delegated to storage.
type service struct {
	options Options
	storage storage.DomainStorage
	prober  Prober

	// mu makes each load-mutate-save cycle atomic. Storage only serializes
	// individual calls, so without this lock two concurrent mutations can load
	// the same snapshot and the later save discards the earlier change. Scan
	// intentionally does not hold it across probes; overlapping scans are
	// last-writer-wins on the saved collection.
	mu sync.Mutex
}

// New creates a Service backed by the given storage and prober.
func New(strg storage.DomainStorage, prober Prober, options Options) Service {
	if options.MaxConcurrentProbes <= 0 {
		options.MaxConcurrentProbes = 50
	}

	return &service{
		options: options,
		storage: strg,
		prober:  prober,
	}
}

// sortByDomain orders records ascending by domain, case-insensitively,
// matching the store's persisted order.
func sortByDomain(records []domain.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return strings.ToLower(records[i].Domain) < strings.ToLower(records[j].Domain)
	})
}

// List returns the account's records.
func (s *service) List(ctx context.Context, account string) ([]domain.Record, error) {
	records, err := s.storage.LoadDomains(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("could not load domains: %w", err)
	}

	return records, nil
}

// Add validates and registers a single domain.
func (s *service) Add(ctx context.Context, account, rawDomain string) (string, error) {
	host, err := ValidateHost(rawDomain)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.storage.LoadDomains(ctx, account)
	if err != nil {
		return "", fmt.Errorf("could not load domains: %w", err)
	}

	for _, rec := range records {
		if rec.Domain == host {
			return "", serrors.With(serrors.ErrConflict, "Domain already exists")
		}
	}

	records = append(records, domain.NewPendingRecord(host))
	if err := s.storage.SaveDomains(ctx, account, records); err != nil {
		return "", fmt.Errorf("could not save domains: %w", err)
	}

	logger.Info(ctx, "domain added", zap.String("account", account), zap.String("host", host))

	return host, nil
}

// BulkAdd processes line-delimited candidates against one loaded snapshot.
// The existing-set is updated as the batch is applied, so a host repeated
// within the input produces one addition and one duplicate entry. The
// collection is persisted once at the end.
func (s *service) BulkAdd(ctx context.Context, account string, lines []string) (domain.BulkSummary, error) {
	summary := domain.BulkSummary{
		Added:      []string{},
		Duplicates: []string{},
		Invalid:    []domain.InvalidInput{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.storage.LoadDomains(ctx, account)
	if err != nil {
		return summary, fmt.Errorf("could not load domains: %w", err)
	}

	existing := make(map[string]struct{}, len(records))
	for _, rec := range records {
		existing[rec.Domain] = struct{}{}
	}

	for _, line := range lines {
		raw := strings.TrimSpace(line)
		if raw == "" {
			continue
		}

		host, err := ValidateHost(raw)
		if err != nil {
			summary.Invalid = append(summary.Invalid, domain.InvalidInput{
				Input:  raw,
				Reason: validationReason(err),
			})

			continue
		}

		if _, ok := existing[host]; ok {
			summary.Duplicates = append(summary.Duplicates, host)

			continue
		}

		records = append(records, domain.NewPendingRecord(host))
		existing[host] = struct{}{}
		summary.Added = append(summary.Added, host)
	}

	if err := s.storage.SaveDomains(ctx, account, records); err != nil {
		return summary, fmt.Errorf("could not save domains: %w", err)
	}

	logger.Info(ctx, "bulk add finished",
		zap.String("account", account),
		zap.Int("added", len(summary.Added)),
		zap.Int("duplicates", len(summary.Duplicates)),
		zap.Int("invalid", len(summary.Invalid)))

	return summary, nil
}

// validationReason extracts the human-readable reason from a ValidateHost
// error.
func validationReason(err error) string {
	var semantic *serrors.Error
	if errors.As(err, &semantic) && semantic.Message() != "" {
		return semantic.Message()
	}

	return err.Error()
}

// Remove deletes the given hosts from the collection. Inputs are normalized
// and deduplicated first; blanks are discarded. The result partitions the
// request into hosts that were present and hosts that were not.
func (s *service) Remove(ctx context.Context, account string, rawHosts []string) (domain.RemoveResult, error) {
	result := domain.RemoveResult{
		Removed:  []string{},
		NotFound: []string{},
	}

	seen := make(map[string]struct{}, len(rawHosts))
	toRemove := make([]string, 0, len(rawHosts))
	for _, raw := range rawHosts {
		host := NormalizeHost(raw)
		if host == "" {
			continue
		}
		if _, ok := seen[host]; ok {
			continue
		}
		seen[host] = struct{}{}
		toRemove = append(toRemove, host)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.storage.LoadDomains(ctx, account)
	if err != nil {
		return result, fmt.Errorf("could not load domains: %w", err)
	}

	current := make(map[string]struct{}, len(records))
	for _, rec := range records {
		current[rec.Domain] = struct{}{}
	}

	kept := records[:0]
	for _, rec := range records {
		if _, ok := seen[rec.Domain]; !ok {
			kept = append(kept, rec)
		}
	}

	for _, host := range toRemove {
		if _, ok := current[host]; ok {
			result.Removed = append(result.Removed, host)
		} else {
			result.NotFound = append(result.NotFound, host)
		}
	}

	if err := s.storage.SaveDomains(ctx, account, kept); err != nil {
		return result, fmt.Errorf("could not save domains: %w", err)
	}

	logger.Info(ctx, "domains removed",
		zap.String("account", account),
		zap.Int("removed", len(result.Removed)),
		zap.Int("notFound", len(result.NotFound)))

	return result, nil
}

// Scan probes every registered domain with bounded parallelism and persists
// the complete result set. An account with no domains returns empty without
// touching storage again.
func (s *service) Scan(ctx context.Context, account string) ([]domain.Record, error) {
	records, err := s.storage.LoadDomains(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("could not load domains: %w", err)
	}
	if len(records) == 0 {
		return records, nil
	}

	metrics.ScansStarted.Inc()

	results := make([]domain.Record, len(records))
	sem := semaphore.NewWeighted(int64(s.options.MaxConcurrentProbes))

	var wg sync.WaitGroup
	for i, rec := range records {
		if err := sem.Acquire(ctx, 1); err != nil {
			// context gone; finalize the remaining hosts as Down placeholders
			results[i] = downPlaceholder(rec.Domain)

			continue
		}

		wg.Add(1)
		go func(i int, host string) {
			defer wg.Done()
			defer sem.Release(1)

			results[i] = s.probeSafely(ctx, host)
		}(i, rec.Domain)
	}
	wg.Wait()

	if err := s.storage.SaveDomains(ctx, account, results); err != nil {
		return nil, fmt.Errorf("could not save scan results: %w", err)
	}

	metrics.ScannedDomains.Add(float64(len(results)))
	logger.Info(ctx, "scan finished", zap.String("account", account), zap.Int("domains", len(results)))

	sortByDomain(results)

	return results, nil
}

// probeSafely isolates a single probe so a panicking probe cannot sink the
// batch. A host whose probe blew up is persisted as Down rather than dropped
// from the collection.
func (s *service) probeSafely(ctx context.Context, host string) (result domain.Record) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "probe panicked", zap.String("host", host), zap.Any("panic", p))
			result = downPlaceholder(host)
		}
	}()

	return s.prober.Probe(ctx, host)
}

func downPlaceholder(host string) domain.Record {
	return domain.Record{
		Domain:        host,
		Status:        domain.StatusDown,
		SSLExpiration: domain.ValueNA,
		SSLIssuer:     domain.ValueNA,
	}
}
