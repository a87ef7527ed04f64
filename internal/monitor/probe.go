package monitor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"strings"
	"time"

	"domainmon/pkg/domain"
	"domainmon/pkg/logger"
	"domainmon/pkg/metrics"

	"go.uber.org/zap"
)

// httpProbeReadLimit caps how much of the plaintext fallback response is read
// when looking for the "HTTP" marker.
const httpProbeReadLimit = 512

// netProber is the production Prober. It checks a host in three stages: DNS
// resolution, a TLS handshake on 443 with certificate extraction, and a
// plaintext HTTP HEAD on 80 as fallback. Every network operation is bounded
// by the configured timeout so a probe can never block indefinitely.
type netProber struct {
	timeout  time.Duration
	resolver *net.Resolver

	// tlsPort and httpPort are overridable so tests can point the probe at
	// local listeners; rootCAs nil means the system trust store.
	tlsPort  string
	httpPort string
	rootCAs  *x509.CertPool
}

// NewProber returns a Prober that performs real network checks with the given
// per-operation timeout.
func NewProber(timeout time.Duration) Prober {
	return &netProber{
		timeout:  timeout,
		resolver: net.DefaultResolver,
		tlsPort:  "443",
		httpPort: "80",
	}
}

// Probe runs the health-check state machine for one host. The returned
// record always carries the host and a definite status; the SSL fields hold
// certificate details only when the TLS stage succeeded.
func (p *netProber) Probe(ctx context.Context, host string) domain.Record {
	start := time.Now()
	result := domain.Record{
		Domain:        host,
		Status:        domain.StatusDown,
		SSLExpiration: domain.ValueNA,
		SSLIssuer:     domain.ValueNA,
	}
	defer func() {
		metrics.ProbeDuration.WithLabelValues(string(result.Status)).Observe(time.Since(start).Seconds())
		metrics.ProbeResults.WithLabelValues(string(result.Status)).Inc()
	}()

	// An unresolvable host is terminal; no sockets are opened.
	dnsCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if _, err := p.resolver.LookupHost(dnsCtx, host); err != nil {
		logger.Warn(ctx, "DNS resolution failed", zap.String("host", host), zap.Error(err))

		return result
	}

	if p.probeTLS(ctx, host, &result) {
		return result
	}

	p.probeHTTP(ctx, host, &result)

	return result
}

// probeTLS attempts a TLS handshake on port 443 and fills in certificate
// details on success. A completed handshake counts as Live even when the
// certificate's validity window has already passed; the expiry date is
// surfaced for the caller to judge.
func (p *netProber) probeTLS(ctx context.Context, host string, result *domain.Record) bool {
	dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: p.timeout},
		Config:    &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12, RootCAs: p.rootCAs},
	}

	conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(host, p.tlsPort))
	if err != nil {
		logger.Warn(ctx, "TLS probe failed", zap.String("host", host), zap.Error(err))

		return false
	}
	defer func() { _ = conn.Close() }()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return false
	}
	certs := tlsConn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return false
	}

	leaf := certs[0]
	result.Status = domain.StatusLive
	result.SSLExpiration = leaf.NotAfter.UTC().Format("2006-01-02")
	if len(leaf.Issuer.Organization) > 0 && leaf.Issuer.Organization[0] != "" {
		result.SSLIssuer = leaf.Issuer.Organization[0]
	} else {
		result.SSLIssuer = domain.IssuerUnknown
	}

	return true
}

// probeHTTP sends a minimal HEAD request on port 80 and marks the host Live
// if anything resembling an HTTP response comes back. The SSL fields are left
// untouched; no certificate exists on this path.
func (p *netProber) probeHTTP(ctx context.Context, host string, result *domain.Record) {
	dialer := &net.Dialer{Timeout: p.timeout}

	dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(host, p.httpPort))
	if err != nil {
		logger.Warn(ctx, "HTTP probe connect failed", zap.String("host", host), zap.Error(err))

		return
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetDeadline(time.Now().Add(p.timeout))

	request := "HEAD / HTTP/1.1\r\nHost: " + host + "\r\nConnection: close\r\n\r\n"
	if _, err := conn.Write([]byte(request)); err != nil {
		logger.Warn(ctx, "HTTP probe write failed", zap.String("host", host), zap.Error(err))

		return
	}

	buf := make([]byte, httpProbeReadLimit)
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		logger.Warn(ctx, "HTTP probe read failed", zap.String("host", host), zap.Error(err))

		return
	}

	if strings.Contains(string(buf[:n]), "HTTP") {
		result.Status = domain.StatusLive
	}
}
