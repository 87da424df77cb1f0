package timeline

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Quality summarizes how much of a transcript carries word timing.
type Quality struct {
	Segments     int `json:"segments" yaml:"segments"`
	Words        int `json:"words" yaml:"words"`
	AlignedWords int `json:"aligned_words" yaml:"aligned_words"`
	// Coverage is AlignedWords / Words, or 0 when there are no words.
	Coverage float64 `json:"coverage" yaml:"coverage"`
	// SpeechSeconds is the summed length of non-silence segments.
	SpeechSeconds float64 `json:"speech_seconds" yaml:"speech_seconds"`
	// AlignedSeconds is the summed length of timed words.
	AlignedSeconds float64 `json:"aligned_seconds" yaml:"aligned_seconds"`
	// MeanScore and ScoreStdDev describe word confidences; nil when no word
	// has a score.
	MeanScore   *float64 `json:"mean_score,omitempty" yaml:"mean_score,omitempty"`
	ScoreStdDev *float64 `json:"score_stddev,omitempty" yaml:"score_stddev,omitempty"`
}

// Summarize computes Quality for a transcript.
func Summarize(t Transcript) Quality {
	q := Quality{Segments: len(t.Segments)}

	speech := make([]float64, 0, len(t.Segments))
	for _, s := range t.Segments {
		if !s.Silence {
			speech = append(speech, s.End-s.Start)
		}
	}
	q.SpeechSeconds = floats.Sum(speech)

	words := t.Words()
	q.Words = len(words)
	spans := make([]float64, 0, len(words))
	scores := make([]float64, 0, len(words))
	for _, w := range words {
		if w.Timed() {
			q.AlignedWords++
			spans = append(spans, *w.End-*w.Start)
		}
		if w.Score != nil {
			scores = append(scores, *w.Score)
		}
	}
	q.AlignedSeconds = floats.Sum(spans)
	if q.Words > 0 {
		q.Coverage = float64(q.AlignedWords) / float64(q.Words)
	}

	switch len(scores) {
	case 0:
	case 1:
		mean, std := scores[0], 0.0
		q.MeanScore, q.ScoreStdDev = &mean, &std
	default:
		mean, std := stat.MeanStdDev(scores, nil)
		q.MeanScore, q.ScoreStdDev = &mean, &std
	}
	return q
}
