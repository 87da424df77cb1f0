package timeline

import (
	"math"
	"strings"

	"github.com/kbukum/lipsync/util"
)

// Assemble orders segments by start, removes overlaps between neighbours and
// returns the Transcript.
//
// When a segment ends after the next one starts, its end is clipped to that
// start and its timed words and characters are clipped with it so they stay
// inside the segment. An empty language becomes UnknownLanguage.
//
// Assemble does not modify its input, and assembling an assembled
// transcript's segments again yields the same transcript.
func Assemble(language string, segments []Segment) (Transcript, Diagnostics) {
	var diag Diagnostics

	out := make([]Segment, len(segments))
	for i, s := range segments {
		s.Words = copyWords(s.Words)
		out[i] = s
	}
	sortSegments(out)

	for i := 0; i+1 < len(out); i++ {
		bound := out[i+1].Start
		if out[i].End <= bound {
			continue
		}
		out[i].End = bound
		clipWords(out[i].Words, bound)
		diag.ClippedSegments++
	}

	language = strings.TrimSpace(language)
	if language == "" {
		language = UnknownLanguage
	}
	return Transcript{Language: language, Segments: out}, diag
}

func copyWords(words []Word) []Word {
	out := make([]Word, len(words))
	for i, w := range words {
		if w.Characters != nil {
			w.Characters = append([]Character(nil), w.Characters...)
		}
		out[i] = w
	}
	return out
}

func clipWords(words []Word, bound float64) {
	for i := range words {
		w := &words[i]
		if w.Timed() {
			w.Start, w.End = clipTo(w.Start, w.End, bound)
		}
		for j := range w.Characters {
			c := &w.Characters[j]
			if c.Timed() {
				c.Start, c.End = clipTo(c.Start, c.End, bound)
			}
		}
	}
}

func clipTo(start, end *float64, bound float64) (*float64, *float64) {
	if *end > bound {
		end = util.Ptr(bound)
	}
	if *start > bound {
		start = util.Ptr(bound)
	}
	return start, util.Ptr(math.Max(*start, *end))
}
