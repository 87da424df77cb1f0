package process

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/kbukum/lipsync/errors"
	"github.com/kbukum/lipsync/logger"
	"github.com/kbukum/lipsync/resilience"
)

// Config holds defaults applied by a Runner.
type Config struct {
	// Name identifies the backend in logs and errors.
	Name string `yaml:"name" mapstructure:"name"`
	// GracePeriod is the default SIGTERM to SIGKILL delay.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
	// Timeout bounds each attempt. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Resilience configures retry and circuit breaking across calls.
	Resilience resilience.Config `yaml:"resilience" mapstructure:"resilience"`
}

// Runner executes commands for one backend. Its circuit breaker state
// persists across calls, so repeated crashes stop further launches.
type Runner struct {
	config Config
	policy *resilience.Policy
	log    *logger.Logger
}

// NewRunner creates a Runner.
func NewRunner(cfg Config) *Runner {
	if cfg.Name == "" {
		cfg.Name = "process"
	}
	return &Runner{
		config: cfg,
		policy: resilience.NewPolicy(cfg.Name, cfg.Resilience),
		log:    logger.Get("process").WithFields(logger.Fields(logger.FieldProvider, cfg.Name)),
	}
}

// Run executes cmd with the runner's defaults. Failures are returned as
// application errors: a timeout as TIMEOUT, a crash or non-zero exit as
// EXTERNAL_SERVICE_ERROR carrying the tail of stderr.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.GracePeriod == 0 {
		cmd.GracePeriod = r.config.GracePeriod
	}
	return resilience.Do(ctx, r.policy, func(ctx context.Context) (*Result, error) {
		return r.once(ctx, cmd)
	})
}

func (r *Runner) once(ctx context.Context, cmd Command) (*Result, error) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	r.log.Debug("starting subprocess", logger.Fields("command", cmd.String()))
	result, err := Run(ctx, cmd)
	if err == nil {
		r.log.Debug("subprocess finished", logger.DurationFields("run", result.Duration))
		return result, nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		err = apperrors.Timeout(r.config.Name).WithCause(err)
	case errors.Is(err, context.Canceled):
		return result, err
	default:
		appErr := apperrors.ExternalServiceError(r.config.Name, err)
		if tail := result.StderrTail(5); tail != "" {
			appErr.WithDetail("stderr", tail)
		}
		if result != nil {
			appErr.WithDetail("exit_code", result.ExitCode)
		}
		err = appErr
	}
	r.log.Warn("subprocess failed", logger.ErrorFields("run", err))
	return result, err
}
