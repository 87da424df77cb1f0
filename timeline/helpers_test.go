package timeline

import (
	"testing"

	"github.com/kbukum/lipsync/alignment"
	"github.com/kbukum/lipsync/transcription"
	"github.com/kbukum/lipsync/util"
)

func seg(start, end float64, text string) transcription.Segment {
	return transcription.Segment{Start: start, End: end, Text: text}
}

func unit(text string, start, end float64) alignment.Unit {
	return alignment.Unit{Text: text, Start: util.Ptr(start), End: util.Ptr(end), Score: util.Ptr(0.9)}
}

func untimed(text string) alignment.Unit {
	return alignment.Unit{Text: text}
}

func wordTexts(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// checkInvariants asserts ordering, non-overlap, in-segment monotonicity and
// containment on an assembled transcript.
func checkInvariants(t *testing.T, tr Transcript) {
	t.Helper()
	for i := 0; i+1 < len(tr.Segments); i++ {
		a, b := tr.Segments[i], tr.Segments[i+1]
		if a.Start > b.Start {
			t.Errorf("segments %d/%d out of order: %v > %v", i, i+1, a.Start, b.Start)
		}
		if a.End > b.Start {
			t.Errorf("segments %d/%d overlap: end %v > start %v", i, i+1, a.End, b.Start)
		}
	}
	for i, s := range tr.Segments {
		if s.Words == nil {
			t.Errorf("segment %d has nil words", i)
		}
		var prev *Word
		for j, w := range s.Words {
			if (w.Start == nil) != (w.End == nil) {
				t.Errorf("segment %d word %d has partial timing", i, j)
			}
			if !w.Timed() {
				continue
			}
			if *w.Start > *w.End {
				t.Errorf("segment %d word %d inverted: %v > %v", i, j, *w.Start, *w.End)
			}
			if *w.Start < s.Start || *w.End > s.End {
				t.Errorf("segment %d [%v,%v] does not contain word %q [%v,%v]", i, s.Start, s.End, w.Text, *w.Start, *w.End)
			}
			if prev != nil {
				if *prev.Start > *w.Start {
					t.Errorf("segment %d word %d out of order", i, j)
				}
				if *prev.End > *w.Start {
					t.Errorf("segment %d word %d overlaps previous", i, j)
				}
			}
			prev = &s.Words[j]
		}
	}
}
