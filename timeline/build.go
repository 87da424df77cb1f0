package timeline

import (
	"github.com/kbukum/lipsync/alignment"
	"github.com/kbukum/lipsync/logger"
	"github.com/kbukum/lipsync/transcription"
)

// Input is everything the pipeline consumes for one audio file.
type Input struct {
	// Language is the detected or declared language; empty when unknown.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	// Duration is the audio length in seconds; 0 when unknown.
	Duration float64 `json:"duration,omitempty" yaml:"duration,omitempty" validate:"gte=0"`
	// Segments are the coarse transcription segments.
	Segments []transcription.Segment `json:"segments" yaml:"segments" validate:"dive"`
	// Units are the forced-alignment units in text order.
	Units []alignment.Unit `json:"units,omitempty" yaml:"units,omitempty" validate:"dive"`
}

// Result is the assembled transcript with the diagnostics of every stage.
type Result struct {
	Transcript  Transcript  `json:"transcript" yaml:"transcript"`
	Diagnostics Diagnostics `json:"diagnostics" yaml:"diagnostics"`
}

type options struct {
	characters bool
	log        *logger.Logger
}

// Option configures Build.
type Option func(*options)

// WithCharacters keeps character-level timings in the output.
func WithCharacters(enabled bool) Option {
	return func(o *options) { o.characters = enabled }
}

// WithLogger sets the logger used for stage warnings.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// Build runs Normalize, Merge and Assemble in order.
func Build(in Input, opts ...Option) Result {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get("timeline")
	}

	segments, diag := Normalize(in.Segments, in.Duration, o.log.WithFields(logger.Fields(logger.FieldStage, "normalize")))

	merged, mergeDiag := Merge(segments, in.Units, MergeOptions{
		Duration:   in.Duration,
		Characters: o.characters,
		Logger:     o.log.WithFields(logger.Fields(logger.FieldStage, "merge")),
	})
	diag.merge(mergeDiag)

	transcript, asmDiag := Assemble(in.Language, merged)
	diag.merge(asmDiag)

	if !diag.Clean() {
		o.log.Warn("transcript assembled with losses", logger.Fields(
			"dropped_segments", diag.DroppedSegments,
			"orphan_units", diag.OrphanUnits,
			"degraded_segments", diag.DegradedSegments,
		))
	} else {
		o.log.Debug("transcript assembled", logger.Fields(
			"segments", len(transcript.Segments),
			"repaired_units", diag.RepairedUnits,
			"clipped_segments", diag.ClippedSegments,
		))
	}

	return Result{Transcript: transcript, Diagnostics: diag}
}
