package monitor_test

import (
	"context"
	"testing"
	"time"

	"domainmon/internal/monitor"
	"domainmon/pkg/domain"

	"github.com/stretchr/testify/require"
)

func TestProbeUnresolvableHostIsDown(t *testing.T) {
	// .invalid is reserved and never resolves (RFC 2606), so the probe must
	// terminate at the DNS stage without opening a socket.
	prober := monitor.NewProber(time.Second)

	start := time.Now()
	result := prober.Probe(context.Background(), "host-with-no-dns-record.invalid")

	require.Equal(t, "host-with-no-dns-record.invalid", result.Domain)
	require.Equal(t, domain.StatusDown, result.Status)
	require.Equal(t, domain.ValueNA, result.SSLExpiration)
	require.Equal(t, domain.ValueNA, result.SSLIssuer)
	// a failed resolution must not run into connect attempts on 443 and 80
	require.Less(t, time.Since(start), 3*time.Second)
}

func TestProbeRespectsContextCancellation(t *testing.T) {
	prober := monitor.NewProber(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := prober.Probe(ctx, "example.com")
	require.Equal(t, domain.StatusDown, result.Status)
	require.Equal(t, domain.ValueNA, result.SSLExpiration)
}
