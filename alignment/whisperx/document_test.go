package whisperx

import (
	"strings"
	"testing"

	apperrors "github.com/kbukum/lipsync/errors"
)

const fullDocument = `{
  "language": "en",
  "duration": 3.5,
  "transcribed_segments": [
    {"start": 0.0, "end": 1.6, "text": " Hi there."},
    {"start": 1.6, "end": 3.2, "text": " Bye now."}
  ],
  "segments": [
    {"start": 0.1, "end": 1.5, "text": " Hi there.",
     "words": [{"word": "Hi", "start": 0.1, "end": 0.4, "score": 0.91},
               {"word": "there.", "start": 0.5, "end": 1.5, "score": 0.8}],
     "chars": [{"char": " "},
               {"char": "H", "start": 0.1, "end": 0.2, "score": 0.9},
               {"char": "i", "start": 0.2, "end": 0.4, "score": 0.9},
               {"char": " ", "start": 0.4, "end": 0.5},
               {"char": "t", "start": 0.5, "end": 0.6},
               {"char": "h"}, {"char": "e"}, {"char": "r"}, {"char": "e"},
               {"char": ".", "start": 1.4, "end": 1.5}]},
    {"start": 1.7, "end": 3.0, "text": " Bye now.",
     "words": [{"word": "Bye", "start": 1.7, "end": 2.0}, {"word": "now."}]}
  ],
  "word_segments": [],
  "text": "Hi there. Bye now."
}`

func TestDocument_Transcription(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(fullDocument))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	resp := doc.Transcription()
	if len(resp.Segments) != 2 {
		t.Fatalf("len(Segments) = %d, want 2", len(resp.Segments))
	}
	if resp.Segments[0].Start != 0 || resp.Segments[0].End != 1.6 {
		t.Errorf("coarse segment = %+v, want pre-alignment timing", resp.Segments[0])
	}
	if resp.Duration != 3.5 || resp.Language != "en" {
		t.Errorf("duration/language = %v/%q", resp.Duration, resp.Language)
	}
	if resp.Text != "Hi there. Bye now." {
		t.Errorf("Text = %q", resp.Text)
	}
}

func TestDocument_Alignment(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(fullDocument))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	resp := doc.Alignment()
	if len(resp.Units) != 4 {
		t.Fatalf("len(Units) = %d, want 4", len(resp.Units))
	}

	wantSegments := []int{0, 0, 1, 1}
	for i, u := range resp.Units {
		if u.Segment == nil || *u.Segment != wantSegments[i] {
			t.Errorf("unit %d segment hint = %v, want %d", i, u.Segment, wantSegments[i])
		}
	}

	now := resp.Units[3]
	if now.Start != nil || now.End != nil || now.Timed() {
		t.Errorf("unaligned word got timing: %+v", now)
	}

	hi, there := resp.Units[0], resp.Units[1]
	if len(hi.Characters) != 2 || hi.Characters[0].Text != "H" {
		t.Errorf("Hi chars = %+v", hi.Characters)
	}
	if len(there.Characters) != 6 {
		t.Errorf("there. chars = %d, want 6", len(there.Characters))
	}
	if there.Characters[1].Start != nil {
		t.Errorf("untimed char got timing")
	}
	if len(resp.Units[2].Characters) != 0 {
		t.Errorf("Bye has chars without char data")
	}
}

func TestDocument_SplitSegmentsDropHints(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(`{
		"language": "en",
		"transcribed_segments": [{"start": 0, "end": 2, "text": "One. Two."}],
		"segments": [
			{"start": 0, "end": 1, "text": "One.", "words": [{"word": "One.", "start": 0.1, "end": 0.8}]},
			{"start": 1, "end": 2, "text": "Two.", "words": [{"word": "Two.", "start": 1.1, "end": 1.8}]}
		]
	}`))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	for _, u := range doc.Alignment().Units {
		if u.Segment != nil {
			t.Errorf("unit %q has hint %d after sentence split", u.Text, *u.Segment)
		}
	}
}

func TestDocument_LegacyShape(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(`{
		"language": "unknown",
		"segments": [{"start": 0.5, "end": 1.0, "text": "yo"}],
		"word_segments": [{"word": "yo", "start": 0.5, "end": 0.9}],
		"text": "yo"
	}`))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if lang := doc.DetectedLanguage(); lang != "" {
		t.Errorf("DetectedLanguage = %q, want empty", lang)
	}
	tr := doc.Transcription()
	if len(tr.Segments) != 1 || tr.Segments[0].Start != 0.5 {
		t.Errorf("segments = %+v", tr.Segments)
	}
	units := doc.Alignment().Units
	if len(units) != 1 || units[0].Segment != nil {
		t.Errorf("units = %+v", units)
	}
}

func TestDecodeDocument_Invalid(t *testing.T) {
	_, err := DecodeDocument(strings.NewReader(`{"segments": [{"start": NaN}]}`))
	if !apperrors.IsCode(err, apperrors.ErrCodeDecode) {
		t.Errorf("err = %v, want DECODE_ERROR", err)
	}
}
