package whisperx

import (
	"encoding/json"
	"io"
	"strings"
	"unicode"

	"github.com/kbukum/lipsync/alignment"
	apperrors "github.com/kbukum/lipsync/errors"
	"github.com/kbukum/lipsync/transcription"
	"github.com/kbukum/lipsync/util"
)

// Document is a WhisperX result file: the runner's output, or the older
// {language, segments, word_segments, text} shape written by other tools.
type Document struct {
	Language string  `json:"language"`
	Duration float64 `json:"duration,omitempty"`
	// Transcribed holds the coarse segments as produced before alignment.
	Transcribed  []RawSegment `json:"transcribed_segments,omitempty"`
	Segments     []RawSegment `json:"segments"`
	WordSegments []RawWord    `json:"word_segments,omitempty"`
	Text         string       `json:"text,omitempty"`
}

// RawSegment is a segment as WhisperX writes it.
type RawSegment struct {
	Start *float64  `json:"start,omitempty"`
	End   *float64  `json:"end,omitempty"`
	Text  string    `json:"text"`
	Words []RawWord `json:"words,omitempty"`
	Chars []RawChar `json:"chars,omitempty"`
}

// RawWord is a word as WhisperX writes it. Words the aligner could not place
// carry no start or end.
type RawWord struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

// RawChar is a character as WhisperX writes it, spaces included.
type RawChar struct {
	Char  string   `json:"char"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

// DecodeDocument reads a WhisperX JSON document.
func DecodeDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperrors.Decode("whisperx document", err)
	}
	return &doc, nil
}

// DetectedLanguage returns the document language, or "" when WhisperX could
// not determine one.
func (d *Document) DetectedLanguage() string {
	lang := strings.TrimSpace(d.Language)
	if strings.EqualFold(lang, "unknown") {
		return ""
	}
	return lang
}

// Transcription returns the coarse segments. Documents without the
// pre-alignment segments fall back to the aligned segment envelopes.
func (d *Document) Transcription() *transcription.Response {
	source := d.Transcribed
	if len(source) == 0 {
		source = d.Segments
	}
	segments := make([]transcription.Segment, 0, len(source))
	var texts []string
	for _, s := range source {
		seg := transcription.Segment{Text: s.Text}
		if s.Start != nil {
			seg.Start = *s.Start
		}
		if s.End != nil {
			seg.End = *s.End
		}
		segments = append(segments, seg)
		if t := strings.TrimSpace(s.Text); t != "" {
			texts = append(texts, t)
		}
	}
	return &transcription.Response{
		Text:     strings.Join(texts, " "),
		Segments: segments,
		Duration: d.Duration,
		Language: d.DetectedLanguage(),
	}
}

// Alignment returns the aligned words in text order. Character timings, when
// present, are split onto words at whitespace.
//
// Each unit carries the index of the segment it was reported under as a hint,
// but only while aligned segments still correspond one to one with the
// segments returned by Transcription. WhisperX may split segments at sentence
// boundaries, in which case no hints are given.
func (d *Document) Alignment() *alignment.Response {
	resp := &alignment.Response{Language: d.DetectedLanguage(), Units: []alignment.Unit{}}
	hinted := len(d.Transcribed) == 0 || len(d.Transcribed) == len(d.Segments)

	grouped := false
	for i, s := range d.Segments {
		if len(s.Words) == 0 {
			continue
		}
		grouped = true
		chars := splitChars(s.Chars, len(s.Words))
		for j, w := range s.Words {
			u := unitFromWord(w)
			if hinted {
				u.Segment = util.Ptr(i)
			}
			u.Characters = chars[j]
			resp.Units = append(resp.Units, u)
		}
	}
	if !grouped {
		for _, w := range d.WordSegments {
			resp.Units = append(resp.Units, unitFromWord(w))
		}
	}
	return resp
}

func unitFromWord(w RawWord) alignment.Unit {
	return alignment.Unit{
		Text:  strings.TrimSpace(w.Word),
		Start: util.Clone(w.Start),
		End:   util.Clone(w.End),
		Score: util.Clone(w.Score),
	}
}

// splitChars distributes a segment's characters onto its n words. WhisperX
// emits one entry per character of the segment text, so a run of whitespace
// marks a word boundary.
func splitChars(chars []RawChar, n int) [][]alignment.CharUnit {
	out := make([][]alignment.CharUnit, n)
	w := 0
	for _, c := range chars {
		if isSpace(c.Char) {
			if len(out[w]) > 0 {
				w++
			}
			if w >= n {
				break
			}
			continue
		}
		out[w] = append(out[w], alignment.CharUnit{
			Text:  c.Char,
			Start: util.Clone(c.Start),
			End:   util.Clone(c.End),
			Score: util.Clone(c.Score),
		})
	}
	return out
}

func isSpace(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}
