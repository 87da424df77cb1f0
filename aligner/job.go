package aligner

import (
	"strings"

	"github.com/kbukum/lipsync/alignment/whisperx"
	"github.com/kbukum/lipsync/timeline"
)

// Job is one audio file to process.
type Job struct {
	// ID identifies the job in logs and results. A UUID is assigned when empty.
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	AudioPath string `json:"audio_path" yaml:"audio_path" validate:"required"`
	// Language is the expected language. Empty or "auto" lets the
	// transcription backend detect it.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`
	// Characters keeps character-level timings for this job.
	Characters bool `json:"characters,omitempty" yaml:"characters,omitempty"`
}

func (j Job) explicitLanguage() string {
	lang := strings.TrimSpace(j.Language)
	if strings.EqualFold(lang, "auto") {
		return ""
	}
	return lang
}

// Result is a processed job.
type Result struct {
	JobID       string               `json:"job_id,omitempty" yaml:"job_id,omitempty"`
	Transcriber string               `json:"transcriber,omitempty" yaml:"transcriber,omitempty"`
	Aligner     string               `json:"aligner,omitempty" yaml:"aligner,omitempty"`
	Transcript  timeline.Transcript  `json:"transcript" yaml:"transcript"`
	Diagnostics timeline.Diagnostics `json:"diagnostics" yaml:"diagnostics"`
	Quality     timeline.Quality     `json:"quality" yaml:"quality"`
}

// InputFromDocument converts a WhisperX document into pipeline input.
func InputFromDocument(doc *whisperx.Document) timeline.Input {
	tr := doc.Transcription()
	return timeline.Input{
		Language: tr.Language,
		Duration: tr.Duration,
		Segments: tr.Segments,
		Units:    doc.Alignment().Units,
	}
}
