package monitor

import (
	"regexp"
	"strings"

	"domainmon/pkg/serrors"
)

// maxHostLength is the maximum total length of an FQDN.
const maxHostLength = 253

// label matches one non-terminal FQDN label: 1-63 alphanumeric-or-hyphen
// characters with no hyphen at either end. The 63-char cap is enforced in
// code so the pattern stays readable.
var labelPattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?$`)

// tldPattern matches the terminal label: alphabetic, 2-63 characters.
var tldPattern = regexp.MustCompile(`^[A-Za-z]{2,63}$`)

// NormalizeHost returns the canonical host form of arbitrary user input:
// scheme removed, truncated at the first path/query/fragment separator, port
// and one trailing dot stripped, lowercased, whitespace trimmed. It is pure
// and total; empty input yields empty output.
func NormalizeHost(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")

	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, ".")

	return s
}

// ValidateHost normalizes raw input and checks it against the FQDN shape:
// up to 253 characters of dot-separated labels, ending in an alphabetic
// top-level label. On success the normalized host is returned; otherwise a
// serrors.ErrBadRequest error carries the reason.
func ValidateHost(raw string) (string, error) {
	host := NormalizeHost(raw)
	if host == "" {
		return "", serrors.With(serrors.ErrBadRequest, "Empty domain")
	}
	if !isFQDN(host) {
		return "", serrors.With(serrors.ErrBadRequest, "Domain does not match FQDN format")
	}

	return host, nil
}

func isFQDN(host string) bool {
	if len(host) > maxHostLength {
		return false
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}

	for _, label := range labels[:len(labels)-1] {
		if len(label) > 63 || !labelPattern.MatchString(label) {
			return false
		}
	}

	return tldPattern.MatchString(labels[len(labels)-1])
}
