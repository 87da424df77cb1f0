package resilience

import (
	"context"

	apperrors "github.com/kbukum/lipsync/errors"
)

// Config is the resilience section of a backend's configuration. A nil
// section disables that mechanism.
type Config struct {
	Retry   *RetryConfig   `yaml:"retry,omitempty" mapstructure:"retry"`
	Breaker *BreakerConfig `yaml:"breaker,omitempty" mapstructure:"breaker"`
}

// Policy combines retry and circuit breaking for one backend. A nil Policy
// calls straight through.
type Policy struct {
	name    string
	retry   *RetryConfig
	breaker *Breaker
}

// NewPolicy builds a Policy from configuration.
func NewPolicy(name string, cfg Config) *Policy {
	p := &Policy{name: name, retry: cfg.Retry}
	if cfg.Breaker != nil {
		p.breaker = NewBreaker(name, *cfg.Breaker)
	}
	return p
}

// Breaker returns the policy's circuit breaker, or nil.
func (p *Policy) Breaker() *Breaker {
	if p == nil {
		return nil
	}
	return p.breaker
}

// Do runs fn under the policy. Each attempt passes through the breaker; an
// open circuit fails with a service-unavailable error and is not retried.
func Do[T any](ctx context.Context, p *Policy, fn func(context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}

	attempt := func(ctx context.Context) (T, error) {
		if p.breaker == nil {
			return fn(ctx)
		}
		if !p.breaker.Allow() {
			var zero T
			err := apperrors.ServiceUnavailable(p.name)
			err.Retryable = false
			return zero, err
		}
		result, err := fn(ctx)
		p.breaker.Record(err)
		return result, err
	}

	if p.retry == nil {
		return attempt(ctx)
	}
	return Retry(ctx, *p.retry, attempt)
}
