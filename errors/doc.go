// Package errors provides the structured error type used by lipsync's
// providers and outer surfaces (CLI, HTTP server).
//
// The timeline core never returns errors; everything here concerns the
// collaborators around it: transcription and alignment backends that fail,
// request payloads that cannot be decoded, and quality gates a caller may
// choose to enforce on an otherwise successful run.
package errors
