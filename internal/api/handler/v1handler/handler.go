// Package v1handler implements the HTTP handlers for the v1 JSON API. The
// handlers translate between the wire format and the monitor/auth services;
// all business rules live in those services.
package v1handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"domainmon/internal/auth"
	"domainmon/internal/monitor"
	"domainmon/pkg/logger"
	"domainmon/pkg/serrors"

	"go.uber.org/zap"
)

// Deps carries the services the handlers delegate to.
type Deps struct {
	Monitor monitor.Service
	Auth    *auth.Service
}

// Handler serves the v1 API routes.
type Handler struct {
	deps Deps
}

// New creates a Handler with the given dependencies.
func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// writeJSON writes a JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// errorBody is the uniform error envelope.
type errorBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// writeError maps semantic error kinds to HTTP status codes and writes the
// error envelope. Unrecognized errors become opaque 500s; their details go to
// the log, not the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, serrors.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, serrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, serrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, serrors.ErrConflict):
		status = http.StatusConflict
	default:
		logger.Error(r.Context(), "request failed", zap.Error(err))
		message = "Internal server error"
	}

	writeJSON(w, status, errorBody{OK: false, Error: message})
}

// decodeJSON decodes the request body into dst, tolerating an empty body the
// way the original API tolerated missing JSON payloads.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid JSON body")
	}

	return nil
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "domain-monitoring-backend",
	})
}
