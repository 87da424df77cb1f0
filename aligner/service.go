package aligner

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/lipsync/alignment"
	"github.com/kbukum/lipsync/alignment/whisperx"
	apperrors "github.com/kbukum/lipsync/errors"
	"github.com/kbukum/lipsync/logger"
	"github.com/kbukum/lipsync/observability"
	"github.com/kbukum/lipsync/provider"
	"github.com/kbukum/lipsync/resilience"
	"github.com/kbukum/lipsync/timeline"
	"github.com/kbukum/lipsync/transcription"
	"github.com/kbukum/lipsync/util"
	"github.com/kbukum/lipsync/validation"
)

// Job statuses reported to metrics.
const (
	StatusOK     = "ok"
	StatusGated  = "gated"
	StatusFailed = "failed"
)

// Service runs jobs against the configured backends.
type Service struct {
	cfg          Config
	transcribers *provider.Manager[transcription.Provider]
	aligners     *provider.Manager[alignment.Provider]
	transcribe   *resilience.Policy
	align        *resilience.Policy
	metrics      *observability.Metrics
	log          *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records job and backend metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger overrides the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a Service. Either manager may be nil when only
// AssembleDocument is used.
func NewService(
	cfg Config,
	transcribers *provider.Manager[transcription.Provider],
	aligners *provider.Manager[alignment.Provider],
	opts ...Option,
) *Service {
	cfg.ApplyDefaults()
	s := &Service{
		cfg:          cfg,
		transcribers: transcribers,
		aligners:     aligners,
		transcribe:   resilience.NewPolicy("transcribe", cfg.TranscribeResilience),
		align:        resilience.NewPolicy("align", cfg.AlignResilience),
		log:          logger.Get("aligner"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backends returns every initialized backend, for health reporting.
func (s *Service) Backends() map[string][]observability.Availability {
	out := make(map[string][]observability.Availability)
	if s.transcribers != nil {
		for _, name := range s.transcribers.Available() {
			if p, err := s.transcribers.GetByName(name); err == nil {
				out["transcription"] = append(out["transcription"], p)
			}
		}
	}
	if s.aligners != nil {
		for _, name := range s.aligners.Available() {
			if p, err := s.aligners.GetByName(name); err == nil {
				out["alignment"] = append(out["alignment"], p)
			}
		}
	}
	return out
}

// Process transcribes and aligns one audio file and assembles the transcript.
// A result that fails the quality gate is returned together with the error.
func (s *Service) Process(ctx context.Context, job Job) (*Result, error) {
	start := time.Now()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanJob,
		attribute.String(observability.AttrJobID, job.ID),
		attribute.String(observability.AttrAudio, job.AudioPath),
	)
	log := s.log.WithFields(logger.Fields("job_id", job.ID, logger.FieldAudio, job.AudioPath))

	result, err := s.process(ctx, job, log)
	observability.EndSpan(span, err)

	status := jobStatus(err)
	s.metrics.RecordJob(ctx, status, time.Since(start))
	if status == StatusFailed {
		log.Error("job failed", logger.ErrorFields("process", err))
	} else {
		log.Info("job finished", logger.Fields("status", status, "duration_ms", time.Since(start).Milliseconds()))
	}
	return result, err
}

func (s *Service) process(ctx context.Context, job Job, log *logger.Logger) (*Result, error) {
	if err := validation.Validate(job); err != nil {
		return nil, err
	}
	if s.transcribers == nil || s.aligners == nil {
		return nil, apperrors.ServiceUnavailable("pipeline").WithDetail("reason", "no backends configured")
	}

	tp, err := pick(ctx, s.transcribers, s.cfg.Transcriber, "transcription")
	if err != nil {
		return nil, err
	}
	ap, err := pick(ctx, s.aligners, s.cfg.Aligner, "alignment")
	if err != nil {
		return nil, err
	}

	characters := s.cfg.Characters || job.Characters
	req := transcription.Request{AudioPath: job.AudioPath, Language: job.explicitLanguage(), Model: job.Model}

	var (
		tr *transcription.Response
		ar *alignment.Response
	)
	if combined, ok := ap.(alignment.Combined); ok && combined.Name() == tp.Name() {
		log.Debug("using combined backend", logger.Fields(logger.FieldProvider, combined.Name()))
		type pair struct {
			tr *transcription.Response
			ar *alignment.Response
		}
		out, err := call(ctx, s, s.transcribe, observability.SpanTranscribe, "transcribe_align", combined.Name(),
			func(ctx context.Context) (pair, error) {
				tr, ar, err := combined.TranscribeAndAlign(ctx, req, characters)
				return pair{tr, ar}, err
			})
		if err != nil {
			return nil, err
		}
		tr, ar = out.tr, out.ar
	} else {
		tr, err = call(ctx, s, s.transcribe, observability.SpanTranscribe, "transcribe", tp.Name(),
			func(ctx context.Context) (*transcription.Response, error) {
				return tp.Transcribe(ctx, req)
			})
		if err != nil {
			return nil, err
		}
		areq := alignment.Request{
			AudioPath:  job.AudioPath,
			Language:   util.CoalesceString(tr.Language, job.explicitLanguage()),
			Segments:   tr.Segments,
			Characters: characters,
		}
		ar, err = call(ctx, s, s.align, observability.SpanAlign, "align", ap.Name(),
			func(ctx context.Context) (*alignment.Response, error) {
				return ap.Align(ctx, areq)
			})
		if err != nil {
			return nil, err
		}
	}
	if tr == nil {
		tr = &transcription.Response{}
	}
	if ar == nil {
		ar = &alignment.Response{}
	}

	in := timeline.Input{
		Language: util.CoalesceString(tr.Language, ar.Language, job.explicitLanguage()),
		Duration: tr.Duration,
		Segments: tr.Segments,
		Units:    ar.Units,
	}
	result, err := s.assemble(ctx, in, characters, log)
	if result != nil {
		result.JobID = job.ID
		result.Transcriber = tp.Name()
		result.Aligner = ap.Name()
	}
	return result, err
}

// Assemble builds a transcript from inputs already in hand.
func (s *Service) Assemble(ctx context.Context, in timeline.Input, characters bool) (*Result, error) {
	if err := validation.Validate(in); err != nil {
		return nil, err
	}
	return s.assemble(ctx, in, characters || s.cfg.Characters, s.log)
}

// AssembleDocument builds a transcript from a WhisperX document.
func (s *Service) AssembleDocument(ctx context.Context, doc *whisperx.Document, characters bool) (*Result, error) {
	return s.Assemble(ctx, InputFromDocument(doc), characters)
}

func (s *Service) assemble(ctx context.Context, in timeline.Input, characters bool, log *logger.Logger) (*Result, error) {
	_, span := observability.StartSpan(ctx, observability.SpanAssemble,
		attribute.String(observability.AttrLanguage, in.Language),
		attribute.Int(observability.AttrSegments, len(in.Segments)),
		attribute.Int(observability.AttrUnits, len(in.Units)),
	)
	built := timeline.Build(in, timeline.WithCharacters(characters), timeline.WithLogger(log))
	quality := timeline.Summarize(built.Transcript)
	s.metrics.RecordTimeline(ctx, built.Diagnostics, quality.Coverage)

	result := &Result{
		Transcript:  built.Transcript,
		Diagnostics: built.Diagnostics,
		Quality:     quality,
	}
	err := s.cfg.Gate.Err(built.Diagnostics, quality)
	if err != nil {
		log.Warn("quality gate failed", logger.ErrorFields("gate", err))
	}
	observability.EndSpan(span, err)
	return result, err
}

func pick[T provider.Provider](ctx context.Context, m *provider.Manager[T], name, role string) (T, error) {
	var (
		p   T
		err error
	)
	if name != "" {
		p, err = m.GetByName(name)
	} else {
		p, err = m.Get(ctx)
	}
	if err != nil {
		return p, apperrors.ServiceUnavailable(role).WithCause(err)
	}
	return p, nil
}

func call[T any](ctx context.Context, s *Service, policy *resilience.Policy, spanName, stage, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := observability.StartSpan(ctx, spanName, attribute.String(observability.AttrProvider, name))
	start := time.Now()

	out, err := resilience.Do(ctx, policy, fn)
	status := StatusOK
	if err != nil {
		status = StatusFailed
		err = providerError(name, err)
	}
	s.metrics.RecordProviderCall(ctx, name, stage, status, time.Since(start))
	observability.EndSpan(span, err)
	return out, err
}

// providerError keeps classified errors and cancellation as they are and
// wraps everything else as an external service failure.
func providerError(name string, err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout(name).WithCause(err)
	default:
		return apperrors.ExternalServiceError(name, err)
	}
}

func jobStatus(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case apperrors.IsCode(err, apperrors.ErrCodeQualityGate):
		return StatusGated
	default:
		return StatusFailed
	}
}
