package transcription

import (
	"context"

	"github.com/kbukum/lipsync/provider"
)

// Provider is the interface that transcription backends must implement.
type Provider interface {
	provider.Provider

	// Transcribe sends audio for transcription and returns coarse segments.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}
