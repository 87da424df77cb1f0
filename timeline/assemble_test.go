package timeline

import (
	"reflect"
	"testing"

	"github.com/kbukum/lipsync/util"
)

func TestAssemble(t *testing.T) {
	tests := []struct {
		name     string
		language string
		in       []Segment
		wantEnds []float64
		wantLang string
		clipped  int
	}{
		{
			name:     "already clean",
			language: "en",
			in:       []Segment{{Start: 0, End: 1, Text: "a"}, {Start: 1, End: 2, Text: "b"}},
			wantEnds: []float64{1, 2},
			wantLang: "en",
		},
		{
			name:     "unsorted with overlap",
			in:       []Segment{{Start: 1, End: 2, Text: "b"}, {Start: 0, End: 1.5, Text: "a"}},
			wantEnds: []float64{1, 2},
			wantLang: UnknownLanguage,
			clipped:  1,
		},
		{
			name:     "blank language",
			language: "  ",
			in:       []Segment{{Start: 0, End: 1, Text: "a"}},
			wantEnds: []float64{1},
			wantLang: UnknownLanguage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diag := Assemble(tt.language, tt.in)
			if got.Language != tt.wantLang {
				t.Errorf("Language = %q, want %q", got.Language, tt.wantLang)
			}
			for i, e := range tt.wantEnds {
				if got.Segments[i].End != e {
					t.Errorf("segment %d end = %v, want %v", i, got.Segments[i].End, e)
				}
			}
			if diag.ClippedSegments != tt.clipped {
				t.Errorf("ClippedSegments = %d, want %d", diag.ClippedSegments, tt.clipped)
			}
			checkInvariants(t, got)
		})
	}
}

func TestAssemble_ClipsWordsWithSegment(t *testing.T) {
	in := []Segment{
		{Start: 0, End: 2, Text: "a b", Words: []Word{
			{Text: "a", Start: util.Ptr(0.2), End: util.Ptr(0.9)},
			{Text: "b", Start: util.Ptr(1.0), End: util.Ptr(1.9)},
			{Text: "c"},
		}},
		{Start: 0.8, End: 3, Text: "d"},
	}
	got, _ := Assemble("en", in)

	words := got.Segments[0].Words
	if *words[0].End != 0.8 {
		t.Errorf("a end = %v, want 0.8", *words[0].End)
	}
	if *words[1].Start != 0.8 || *words[1].End != 0.8 {
		t.Errorf("b = [%v,%v], want [0.8,0.8]", *words[1].Start, *words[1].End)
	}
	if words[2].Start != nil {
		t.Errorf("untimed word gained timing")
	}
	if *in[0].Words[1].End != 1.9 {
		t.Errorf("input word modified")
	}
	checkInvariants(t, got)
}

func TestAssemble_Idempotent(t *testing.T) {
	first, _ := Assemble("", []Segment{
		{Start: 2, End: 3, Text: "c"},
		{Start: 0, End: 1.2, Text: "a", Words: []Word{{Text: "a", Start: util.Ptr(0.1), End: util.Ptr(1.1)}}},
		{Start: 1, End: 2.5, Text: "b"},
	})
	second, diag := Assemble(first.Language, first.Segments)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass differs:\n%+v\n%+v", first, second)
	}
	if diag.ClippedSegments != 0 {
		t.Errorf("second pass clipped %d segments", diag.ClippedSegments)
	}
}

func TestTranscript_Text(t *testing.T) {
	tr := Transcript{Segments: []Segment{
		{Text: " hello "},
		{Text: ""},
		{Text: "   ", Silence: true},
		{Text: "world"},
	}}
	if got := tr.Text(); got != "hello world" {
		t.Errorf("Text() = %q", got)
	}

	tr.Segments[1].Text = "big"
	if got := tr.Text(); got != "hello big world" {
		t.Errorf("Text() after edit = %q", got)
	}
}
