// Package controller contains HTTP middlewares and helper handlers shared by
// the API server.
//
// Provided middlewares:
//   - WithCORS: permissive CORS headers plus OPTIONS preflight handling.
//   - WithLogger: request-scoped zap logger and request ID in the context,
//     followed by a structured access log line.
//
// Provided helpers:
//   - PprofMux: a ServeMux exposing net/http/pprof handlers.
package controller
