package timeline

import "strings"

// UnknownLanguage is the language tag used when none was detected or declared.
const UnknownLanguage = "unknown"

// Character is a single aligned grapheme.
type Character struct {
	Text  string   `json:"char" yaml:"char"`
	Start *float64 `json:"start,omitempty" yaml:"start,omitempty"`
	End   *float64 `json:"end,omitempty" yaml:"end,omitempty"`
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// Timed reports whether the character carries timing.
func (c Character) Timed() bool { return c.Start != nil && c.End != nil }

// Word is a token within a segment.
type Word struct {
	Text       string      `json:"word" yaml:"word"`
	Start      *float64    `json:"start,omitempty" yaml:"start,omitempty"`
	End        *float64    `json:"end,omitempty" yaml:"end,omitempty"`
	Score      *float64    `json:"score,omitempty" yaml:"score,omitempty"`
	Characters []Character `json:"chars,omitempty" yaml:"chars,omitempty"`
}

// Timed reports whether the word carries timing.
func (w Word) Timed() bool { return w.Start != nil && w.End != nil }

// Segment is a contiguous span of speech and the authoritative envelope of
// its timed words.
type Segment struct {
	Start   float64 `json:"start" yaml:"start"`
	End     float64 `json:"end" yaml:"end"`
	Text    string  `json:"text" yaml:"text"`
	Silence bool    `json:"silence,omitempty" yaml:"silence,omitempty"`
	Words   []Word  `json:"words" yaml:"words"`

	// origin is the 1-based index of the transcription segment this one was
	// normalized from; 0 when unknown.
	origin int
}

// Aligned reports whether at least one word in the segment carries timing.
func (s Segment) Aligned() bool {
	for _, w := range s.Words {
		if w.Timed() {
			return true
		}
	}
	return false
}

// Transcript is the assembled, immutable result. The flattened word list and
// the full text are always derived from Segments.
type Transcript struct {
	Language string
	Segments []Segment
}

// Words returns every word across all segments, in segment order and then
// in-segment order.
func (t Transcript) Words() []Word {
	n := 0
	for _, s := range t.Segments {
		n += len(s.Words)
	}
	words := make([]Word, 0, n)
	for _, s := range t.Segments {
		words = append(words, s.Words...)
	}
	return words
}

// Text joins the non-empty segment texts with single spaces.
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		if txt := strings.TrimSpace(s.Text); txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, " ")
}
