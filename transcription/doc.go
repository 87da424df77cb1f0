// Package transcription defines the provider interface and types for the
// speech-to-text step that produces coarse, utterance-level segments.
//
// Segment timings coming out of a transcription backend are treated as
// approximate priors; the timeline package validates and repairs them.
//
// # Backends
//
//   - transcription/whisper: faster-whisper HTTP sidecar
//   - alignment/whisperx: WhisperX subprocess (also an alignment provider)
//
// # Usage
//
//	mgr := transcription.NewManager()
//	mgr.Register(whisper.ProviderName, whisper.Factory())
//	_ = mgr.Initialize(whisper.ProviderName, cfg)
//	p, _ := mgr.Get(ctx)
//	resp, err := p.Transcribe(ctx, transcription.Request{AudioPath: "line.wav"})
package transcription
