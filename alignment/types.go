package alignment

import "github.com/kbukum/lipsync/transcription"

// Request holds parameters for an alignment call.
type Request struct {
	// AudioPath is the path to the audio the segments were transcribed from.
	AudioPath string `json:"audio_path" validate:"required"`
	// Language selects the alignment model.
	Language string `json:"language,omitempty"`
	// Segments are the coarse segments whose text is aligned.
	Segments []transcription.Segment `json:"segments"`
	// Characters requests character-level timings.
	Characters bool `json:"characters,omitempty"`
}

// Response holds the result of an alignment call.
type Response struct {
	// Language is the language the alignment model ran with.
	Language string `json:"language,omitempty"`
	// Units are the aligned tokens in text order. They are not grouped by the
	// caller's segment boundaries.
	Units []Unit `json:"units"`
}

// Unit is one aligned word.
type Unit struct {
	Text  string   `json:"word"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	// Score is the alignment confidence in [0,1], nil if unavailable.
	Score *float64 `json:"score,omitempty" validate:"omitempty,gte=0,lte=1"`
	// Segment is the index of the input segment the aligner grouped this unit
	// under, when it reports one. It is a hint, not a key.
	Segment *int `json:"segment,omitempty"`
	// Characters is the character-level breakdown, when requested.
	Characters []CharUnit `json:"chars,omitempty" validate:"dive"`
}

// CharUnit is one aligned grapheme.
type CharUnit struct {
	Text  string   `json:"char"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	Score *float64 `json:"score,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Timed reports whether the unit has a usable [Start, End] interval.
func (u Unit) Timed() bool {
	return validInterval(u.Start, u.End)
}

// Timed reports whether the character has a usable [Start, End] interval.
func (c CharUnit) Timed() bool {
	return validInterval(c.Start, c.End)
}
