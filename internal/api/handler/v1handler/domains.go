package v1handler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"domainmon/pkg/serrors"
)

// maxBulkUploadBytes caps the size of a bulk upload body.
const maxBulkUploadBytes = 1 << 20

// ListDomains returns the account's domain records.
func (h *Handler) ListDomains(w http.ResponseWriter, r *http.Request) {
	records, err := h.deps.Monitor.List(r.Context(), GetAccount(r.Context()))
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"domains": records,
	})
}

type addDomainRequest struct {
	Domain string `json:"domain"`
}

// AddDomain registers a single domain for the account.
func (h *Handler) AddDomain(w http.ResponseWriter, r *http.Request) {
	var req addDomainRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)

		return
	}

	host, err := h.deps.Monitor.Add(r.Context(), GetAccount(r.Context()), req.Domain)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":     true,
		"domain": host,
	})
}

type removeDomainsRequest struct {
	Domains []string `json:"domains"`
}

// RemoveDomains deletes the listed domains from the account.
func (h *Handler) RemoveDomains(w http.ResponseWriter, r *http.Request) {
	var req removeDomainsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)

		return
	}
	if len(req.Domains) == 0 {
		writeError(w, r, serrors.With(serrors.ErrBadRequest, "Request must include a non-empty 'domains' list"))

		return
	}

	result, err := h.deps.Monitor.Remove(r.Context(), GetAccount(r.Context()), req.Domains)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"summary": result,
	})
}

// bulkLines extracts the line-delimited candidate domains from either a
// multipart .txt upload (form field "file") or a plain text body. The cap is
// applied to the request body itself so the multipart parser reads through
// it too.
func bulkLines(w http.ResponseWriter, r *http.Request) ([]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBulkUploadBytes)
	var reader io.Reader = r.Body

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, serrors.Wrap(serrors.ErrBadRequest, err, "File exceeds the upload limit")
			}

			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "File is required")
		}
		defer func(file multipart.File) { _ = file.Close() }(file)

		if !strings.HasSuffix(strings.ToLower(header.Filename), ".txt") {
			return nil, serrors.With(serrors.ErrBadRequest, "Only .txt files allowed")
		}
		reader = file
	}

	var lines []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "File exceeds the upload limit")
		}

		return nil, fmt.Errorf("could not read upload: %w", err)
	}

	return lines, nil
}

// BulkAddDomains registers every valid domain from an uploaded line-delimited
// list and reports the per-line outcome.
func (h *Handler) BulkAddDomains(w http.ResponseWriter, r *http.Request) {
	lines, err := bulkLines(w, r)
	if err != nil {
		writeError(w, r, err)

		return
	}
	if len(lines) == 0 {
		writeError(w, r, serrors.With(serrors.ErrBadRequest, "File is empty or invalid"))

		return
	}

	summary, err := h.deps.Monitor.BulkAdd(r.Context(), GetAccount(r.Context()), lines)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"summary": summary,
	})
}

// ScanDomains probes every domain of the account and returns how many
// records were refreshed.
func (h *Handler) ScanDomains(w http.ResponseWriter, r *http.Request) {
	records, err := h.deps.Monitor.Scan(r.Context(), GetAccount(r.Context()))
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"updated": len(records),
		"domains": records,
	})
}
