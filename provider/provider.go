package provider

import "context"

// Provider is a named backend such as a transcriber or an aligner.
type Provider interface {
	// Name is the key the backend is registered and selected under.
	Name() string
	// IsAvailable probes the backend, e.g. a sidecar health endpoint or
	// the presence of an interpreter on PATH.
	IsAvailable(ctx context.Context) bool
}

// Factory builds a backend from its section of the providers config.
type Factory[T Provider] func(cfg map[string]any) (T, error)
