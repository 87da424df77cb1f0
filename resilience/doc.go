// Package resilience wraps calls to model backends with retry and a circuit
// breaker.
//
// Transcription and alignment backends are slow, GPU bound and occasionally
// unavailable. A Policy retries errors that are marked retryable and stops
// calling a backend after repeated failures until it has had time to recover:
//
//	policy := resilience.NewPolicy("whisperx", cfg)
//	resp, err := resilience.Do(ctx, policy, func(ctx context.Context) (*alignment.Response, error) {
//	    return p.Align(ctx, req)
//	})
package resilience
