package domain

// ValueNA is the sentinel stored in the SSL fields when no certificate was
// observed for a host (non-TLS reachability or no reachability at all).
const ValueNA = "N/A"

// IssuerUnknown is stored when a certificate was observed but its issuer
// organization field could not be read.
const IssuerUnknown = "Unknown"

// Status represents the reachability state of a monitored domain.
type Status string

const (
	// StatusPending indicates the domain was registered but has not been
	// probed yet.
	StatusPending Status = "Pending"
	// StatusLive indicates the last probe reached the host over TLS or
	// plaintext HTTP.
	StatusLive Status = "Live"
	// StatusDown indicates the last probe could not reach the host.
	StatusDown Status = "Down"
)

// Record is a single monitored domain belonging to one account. The
// normalized Domain string is the record's identity: it is unique within an
// account and there is no surrogate ID.
//
// The JSON tags define the durable per-account storage format; changing them
// changes the on-disk schema.
type Record struct {
	// Domain is the canonical lowercase host string.
	Domain string `json:"domain"`
	// Status is the outcome of the last completed probe, or Pending.
	Status Status `json:"status"`
	// SSLExpiration is the certificate's not-after date as YYYY-MM-DD, or
	// ValueNA when no certificate was observed.
	SSLExpiration string `json:"ssl_expiration"`
	// SSLIssuer is the certificate issuer's organization name, IssuerUnknown
	// when the field was unreadable, or ValueNA when no certificate was
	// observed.
	SSLIssuer string `json:"ssl_issuer"`
}

// NewPendingRecord returns a fresh record for a newly registered host with
// the Pending/N-A defaults.
func NewPendingRecord(host string) Record {
	return Record{
		Domain:        host,
		Status:        StatusPending,
		SSLExpiration: ValueNA,
		SSLIssuer:     ValueNA,
	}
}

// InvalidInput describes one rejected line of a bulk upload together with
// the validation reason.
type InvalidInput struct {
	// Input is the raw line as submitted.
	Input string `json:"input"`
	// Reason is the human-readable validation failure.
	Reason string `json:"reason"`
}

// BulkSummary is the per-item outcome of a bulk add. Every input line ends
// up in exactly one of the three buckets; none of them is an error.
type BulkSummary struct {
	// Added lists the normalized hosts that were appended as new records.
	Added []string `json:"added"`
	// Duplicates lists normalized hosts that already existed (including
	// repeats within the same batch).
	Duplicates []string `json:"duplicates"`
	// Invalid lists rejected inputs with their reasons.
	Invalid []InvalidInput `json:"invalid"`
}

// RemoveResult partitions a removal request into hosts that were present and
// removed versus hosts that were not found. Removing an absent host is not
// an error.
type RemoveResult struct {
	Removed  []string `json:"removed"`
	NotFound []string `json:"not_found"`
}
