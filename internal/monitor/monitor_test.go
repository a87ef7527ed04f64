package monitor_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"domainmon/internal/monitor"
	"domainmon/pkg/domain"
	"domainmon/pkg/serrors"
	"domainmon/pkg/storage"

	"github.com/stretchr/testify/require"
)

// fakeStorage is an in-memory DomainStorage tracking save calls.
type fakeStorage struct {
	mu        sync.Mutex
	records   map[string][]domain.Record
	saves     int
	loadErr   error
	saveErr   error
	lastSaved []domain.Record
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{records: map[string][]domain.Record{}}
}

func (f *fakeStorage) LoadDomains(_ context.Context, account string) ([]domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}

	out := make([]domain.Record, len(f.records[account]))
	copy(out, f.records[account])

	return out, nil
}

func (f *fakeStorage) SaveDomains(_ context.Context, account string, records []domain.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.records[account] = records
	f.lastSaved = records

	return nil
}

func (f *fakeStorage) DeleteDomains(_ context.Context, account string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, account)

	return nil
}

// fakeProber returns canned results and records its concurrency high-water
// mark.
type fakeProber struct {
	mu        sync.Mutex
	inFlight  int
	highWater int
	delay     time.Duration
	result    func(host string) domain.Record
	panicOn   string
}

func (f *fakeProber) Probe(_ context.Context, host string) domain.Record {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.highWater {
		f.highWater = f.inFlight
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if host == f.panicOn {
		panic("boom")
	}
	if f.result != nil {
		return f.result(host)
	}

	return domain.Record{
		Domain:        host,
		Status:        domain.StatusLive,
		SSLExpiration: "2027-01-01",
		SSLIssuer:     "Test CA",
	}
}

func newTestService(strg storage.DomainStorage, prober monitor.Prober, maxProbes int) monitor.Service {
	return monitor.New(strg, prober, monitor.Options{
		ProbeTimeout:        time.Second,
		MaxConcurrentProbes: maxProbes,
	})
}

func TestAdd(t *testing.T) {
	strg := newFakeStorage()
	svc := newTestService(strg, &fakeProber{}, 10)
	ctx := context.Background()

	host, err := svc.Add(ctx, "alex", "HTTPS://Example.COM/path")
	require.NoError(t, err)
	require.Equal(t, "example.com", host)

	records, err := svc.List(ctx, "alex")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, domain.StatusPending, records[0].Status)
	require.Equal(t, domain.ValueNA, records[0].SSLExpiration)
	require.Equal(t, domain.ValueNA, records[0].SSLIssuer)
}

func TestAddDuplicateConflicts(t *testing.T) {
	strg := newFakeStorage()
	svc := newTestService(strg, &fakeProber{}, 10)
	ctx := context.Background()

	_, err := svc.Add(ctx, "alex", "example.com")
	require.NoError(t, err)

	// same normalized host, different decoration
	_, err = svc.Add(ctx, "alex", "https://EXAMPLE.com/")
	require.ErrorIs(t, err, serrors.ErrConflict)

	records, err := svc.List(ctx, "alex")
	require.NoError(t, err)
	require.Len(t, records, 1, "duplicate add must not grow the collection")
}

func TestAddInvalidDomain(t *testing.T) {
	svc := newTestService(newFakeStorage(), &fakeProber{}, 10)

	_, err := svc.Add(context.Background(), "alex", "not a domain")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestBulkAdd(t *testing.T) {
	strg := newFakeStorage()
	svc := newTestService(strg, &fakeProber{}, 10)
	ctx := context.Background()

	summary, err := svc.BulkAdd(ctx, "alex", []string{
		"a.com",
		"A.COM",
		"not a domain",
		"a.com",
		"",
		"   ",
		"b.com",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"a.com", "b.com"}, summary.Added)
	require.Equal(t, []string{"a.com", "a.com"}, summary.Duplicates)
	require.Len(t, summary.Invalid, 1)
	require.Equal(t, "not a domain", summary.Invalid[0].Input)
	require.Equal(t, "Domain does not match FQDN format", summary.Invalid[0].Reason)

	require.Equal(t, 1, strg.saves, "bulk add must persist once")

	records, err := svc.List(ctx, "alex")
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestBulkAddAgainstExistingRecords(t *testing.T) {
	strg := newFakeStorage()
	strg.records["alex"] = []domain.Record{domain.NewPendingRecord("a.com")}
	svc := newTestService(strg, &fakeProber{}, 10)

	summary, err := svc.BulkAdd(context.Background(), "alex", []string{"a.com", "b.com"})
	require.NoError(t, err)
	require.Equal(t, []string{"b.com"}, summary.Added)
	require.Equal(t, []string{"a.com"}, summary.Duplicates)
}

func TestRemove(t *testing.T) {
	strg := newFakeStorage()
	strg.records["alex"] = []domain.Record{
		domain.NewPendingRecord("x.com"),
		domain.NewPendingRecord("y.com"),
	}
	svc := newTestService(strg, &fakeProber{}, 10)

	result, err := svc.Remove(context.Background(), "alex", []string{"x.com", "z.com", "", "x.com"})
	require.NoError(t, err)
	require.Equal(t, []string{"x.com"}, result.Removed)
	require.Equal(t, []string{"z.com"}, result.NotFound)

	records, err := svc.List(context.Background(), "alex")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "y.com", records[0].Domain)
}

func TestScanEmptyAccountDoesNotSave(t *testing.T) {
	strg := newFakeStorage()
	svc := newTestService(strg, &fakeProber{}, 10)

	records, err := svc.Scan(context.Background(), "alex")
	require.NoError(t, err)
	require.Empty(t, records)
	require.Zero(t, strg.saves, "empty scan must not write to storage")
}

func TestScanProbesEveryDomainAndPersists(t *testing.T) {
	strg := newFakeStorage()
	strg.records["alex"] = []domain.Record{
		domain.NewPendingRecord("b.com"),
		domain.NewPendingRecord("a.com"),
		domain.NewPendingRecord("c.com"),
	}
	svc := newTestService(strg, &fakeProber{}, 10)

	records, err := svc.Scan(context.Background(), "alex")
	require.NoError(t, err)
	require.Len(t, records, 3)

	// returned sorted by domain, every record refreshed
	require.Equal(t, "a.com", records[0].Domain)
	require.Equal(t, "b.com", records[1].Domain)
	require.Equal(t, "c.com", records[2].Domain)
	for _, rec := range records {
		require.Equal(t, domain.StatusLive, rec.Status)
		require.Equal(t, "Test CA", rec.SSLIssuer)
	}

	require.Equal(t, 1, strg.saves)
	require.Len(t, strg.lastSaved, 3)
}

func TestScanBoundsConcurrency(t *testing.T) {
	strg := newFakeStorage()
	for i := 0; i < 20; i++ {
		strg.records["alex"] = append(strg.records["alex"],
			domain.NewPendingRecord(string(rune('a'+i))+"x.com"))
	}

	prober := &fakeProber{delay: 10 * time.Millisecond}
	svc := newTestService(strg, prober, 5)

	records, err := svc.Scan(context.Background(), "alex")
	require.NoError(t, err)
	require.Len(t, records, 20)
	require.LessOrEqual(t, prober.highWater, 5, "probe concurrency exceeded the pool ceiling")
	require.Positive(t, prober.highWater)
}

func TestScanPanickingProbePersistsDownPlaceholder(t *testing.T) {
	strg := newFakeStorage()
	strg.records["alex"] = []domain.Record{
		domain.NewPendingRecord("good.com"),
		domain.NewPendingRecord("bad.com"),
	}
	svc := newTestService(strg, &fakeProber{panicOn: "bad.com"}, 10)

	records, err := svc.Scan(context.Background(), "alex")
	require.NoError(t, err)
	require.Len(t, records, 2, "a failed probe task must not drop the host")

	byDomain := map[string]domain.Record{}
	for _, rec := range records {
		byDomain[rec.Domain] = rec
	}
	require.Equal(t, domain.StatusDown, byDomain["bad.com"].Status)
	require.Equal(t, domain.ValueNA, byDomain["bad.com"].SSLExpiration)
	require.Equal(t, domain.StatusLive, byDomain["good.com"].Status)
}

// slowStorage is an in-memory DomainStorage that detects interleaved
// load-mutate-save cycles. Load marks a cycle open and sleeps, so any second
// mutation entering before the matching save lands is recorded.
type slowStorage struct {
	mu          sync.Mutex
	records     []domain.Record
	cycleOpen   bool
	interleaved bool
}

func (s *slowStorage) LoadDomains(context.Context, string) ([]domain.Record, error) {
	s.mu.Lock()
	if s.cycleOpen {
		s.interleaved = true
	}
	s.cycleOpen = true
	out := make([]domain.Record, len(s.records))
	copy(out, s.records)
	s.mu.Unlock()

	// widen the load-to-save window so unguarded cycles reliably collide
	time.Sleep(time.Millisecond)

	return out, nil
}

func (s *slowStorage) SaveDomains(_ context.Context, _ string, records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.cycleOpen = false

	return nil
}

func (s *slowStorage) DeleteDomains(context.Context, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil

	return nil
}

func TestConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	strg := &slowStorage{}
	svc := newTestService(strg, &fakeProber{}, 10)
	ctx := context.Background()

	hosts := []string{"a.com", "b.com", "c.com", "d.com", "e.com", "f.com", "g.com", "h.com"}

	errs := make(chan error, len(hosts))
	var wg sync.WaitGroup
	for _, host := range hosts {
		wg.Add(1)
		go func(host string) {
			defer wg.Done()
			_, err := svc.Add(ctx, "alex", host)
			errs <- err
		}(host)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.False(t, strg.interleaved, "two mutation cycles overlapped on one account")

	records, err := svc.List(ctx, "alex")
	require.NoError(t, err)
	require.Len(t, records, len(hosts), "a concurrent add was silently discarded")
}

func TestConcurrentMixedMutationsStayAtomic(t *testing.T) {
	strg := &slowStorage{}
	strg.records = []domain.Record{domain.NewPendingRecord("keep.com")}
	svc := newTestService(strg, &fakeProber{}, 10)
	ctx := context.Background()

	errs := make(chan error, 3)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		_, err := svc.Add(ctx, "alex", "added.com")
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := svc.BulkAdd(ctx, "alex", []string{"bulk1.com", "bulk2.com"})
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := svc.Remove(ctx, "alex", []string{"keep.com"})
		errs <- err
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.False(t, strg.interleaved, "two mutation cycles overlapped on one account")

	records, err := svc.List(ctx, "alex")
	require.NoError(t, err)
	require.Len(t, records, 3, "every mutation must survive the concurrent batch")
}

func TestScanSurfacesStorageErrors(t *testing.T) {
	strg := newFakeStorage()
	strg.records["alex"] = []domain.Record{domain.NewPendingRecord("a.com")}
	strg.saveErr = errors.New("disk full")
	svc := newTestService(strg, &fakeProber{}, 10)

	_, err := svc.Scan(context.Background(), "alex")
	require.ErrorContains(t, err, "disk full")
}
