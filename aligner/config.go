package aligner

import (
	"github.com/kbukum/lipsync/resilience"
	"github.com/kbukum/lipsync/validation"
)

// Config is the pipeline section of the application configuration.
type Config struct {
	// Transcriber pins the transcription backend. Empty selects the first
	// available one.
	Transcriber string `yaml:"transcriber" mapstructure:"transcriber"`
	// Aligner pins the alignment backend. Empty selects the first available one.
	Aligner string `yaml:"aligner" mapstructure:"aligner"`
	// Characters keeps character-level timings for every job.
	Characters bool `yaml:"characters" mapstructure:"characters"`
	// Concurrency bounds ProcessBatch.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`

	Gate Gate `yaml:"gate" mapstructure:"gate"`

	TranscribeResilience resilience.Config `yaml:"transcribe_resilience" mapstructure:"transcribe_resilience"`
	AlignResilience      resilience.Config `yaml:"align_resilience" mapstructure:"align_resilience"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Concurrency <= 0 {
		c.Concurrency = 2
	}
}

// Validate checks the section after defaults are applied.
func (c *Config) Validate() error {
	return validation.New("pipeline").
		Min("concurrency", c.Concurrency, 1).
		Min("gate.max_dropped_segments", c.Gate.MaxDroppedSegments, 0).
		Min("gate.max_orphan_units", c.Gate.MaxOrphanUnits, 0).
		Fraction("gate.min_coverage", c.Gate.MinCoverage).
		Validate()
}
