package alignment

import (
	"context"

	"github.com/kbukum/lipsync/provider"
	"github.com/kbukum/lipsync/transcription"
)

// Provider is the interface that forced-alignment backends must implement.
type Provider interface {
	provider.Provider

	// Align computes word (and optionally character) timings for the given
	// coarse segments.
	Align(ctx context.Context, req Request) (*Response, error)
}

// NewManager creates a provider manager for alignment backends.
func NewManager(selector provider.Selector[Provider]) *provider.Manager[Provider] {
	return provider.NewManager(provider.NewRegistry[Provider](), selector)
}

// Combined is implemented by backends that transcribe and align in a single
// pass over the audio.
type Combined interface {
	Provider

	// TranscribeAndAlign returns both the coarse segments and their alignment.
	TranscribeAndAlign(ctx context.Context, req transcription.Request, characters bool) (*transcription.Response, *Response, error)
}
