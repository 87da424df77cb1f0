// Package server exposes the pipeline over HTTP using Gin behind an h2c
// handler.
//
// # Routes
//
//   - POST /v1/timeline/assemble: assemble raw inputs or a WhisperX document
//   - POST /v1/timeline/process: run the backends on a server-local audio file
//   - GET /health: service and backend health
//
// Errors are written as the errors.ErrorResponse envelope. A transcript that
// fails the quality gate is returned with status 422 and both "data" and
// "error" set.
//
// # Middleware
//
// Applied at the handler level by New, outermost first (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-Id generation and propagation
//   - CORS: cross-origin headers and preflight
//   - BodySizeLimit: request body limit
//   - RequestLogger: request logging with duration
package server
