package timeline

import (
	"math"

	"github.com/kbukum/lipsync/alignment"
	"github.com/kbukum/lipsync/logger"
	"github.com/kbukum/lipsync/util"
)

const (
	orphan  = -1
	pending = -2
)

// MergeOptions tunes Merge.
type MergeOptions struct {
	// Duration is the audio length in seconds; 0 or less when unknown.
	Duration float64
	// Characters keeps character-level timings on words.
	Characters bool
	// Logger receives warnings for orphaned units. Defaults to a no-op logger.
	Logger *logger.Logger
}

// Merge attaches aligned units to normalized segments and returns new
// segments; the input is not modified.
//
// A timed unit goes to the speech segment it overlaps most. Ties go to the
// segment whose half-open [start, end) contains the unit's start, otherwise
// to the earlier segment. Silence segments never take words, so a unit
// touching no speech segment is an orphan and is dropped.
//
// A unit without a usable interval keeps no timing at all and is placed next
// to its timed neighbours in text order. The aligner's segment hint decides
// between the previous and next neighbour's segment, and is used on its own
// when there are no timed neighbours.
//
// Within each segment, words are ordered by start and overlapping ends are
// clipped. The segment is then widened to contain its timed words, but never
// to start before the previous segment; word timings reaching further back
// are clipped to that start. A speech segment left with no timed word keeps
// its coarse timing and is counted as degraded.
func Merge(segments []Segment, units []alignment.Unit, opts MergeOptions) ([]Segment, Diagnostics) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	var diag Diagnostics

	out := make([]Segment, len(segments))
	for i, s := range segments {
		s.Words = append([]Word{}, s.Words...)
		out[i] = s
	}

	words := make([]Word, len(units))
	placement := make([]int, len(units))
	for i, u := range units {
		words[i] = toWord(u, opts)
		switch {
		case !words[i].Timed():
			diag.UntimedUnits++
			placement[i] = pending
		case outsideAudio(words[i], opts.Duration):
			placement[i] = orphan
		default:
			words[i].Start, words[i].End = clampPtrs(words[i].Start, words[i].End, opts.Duration)
			placement[i] = bestOverlap(out, *words[i].Start, *words[i].End)
		}
	}

	placeUntimed(out, units, placement)

	for i, seg := range placement {
		if seg == orphan {
			diag.OrphanUnits++
			log.Warn("aligned unit orphaned", logger.Fields(
				"unit", i,
				"word", words[i].Text,
			))
			continue
		}
		out[seg].Words = append(out[seg].Words, words[i])
	}

	for i := range out {
		seg := &out[i]
		seg.Words = orderByStart(seg.Words, wordStart)
		diag.RepairedUnits += repairWordOverlaps(seg.Words)
		for j := range seg.Words {
			w := &seg.Words[j]
			if len(w.Characters) == 0 {
				continue
			}
			w.Characters = orderByStart(w.Characters, characterStart)
			diag.RepairedUnits += repairCharacterOverlaps(w.Characters)
		}
		floor := math.Inf(-1)
		if i > 0 {
			floor = out[i-1].Start
		}
		widened, clipped := widen(seg, floor)
		if widened {
			diag.WidenedSegments++
		}
		diag.RepairedUnits += clipped
		if !seg.Silence && !seg.Aligned() {
			diag.DegradedSegments++
			log.Debug("segment has no aligned words", logger.Fields(
				logger.FieldSegment, i,
				"start", seg.Start,
				"end", seg.End,
			))
		}
	}

	return out, diag
}

func toWord(u alignment.Unit, opts MergeOptions) Word {
	w := Word{Text: u.Text, Score: score(u.Score)}
	if u.Timed() {
		w.Start, w.End = util.Clone(u.Start), util.Clone(u.End)
	}
	if opts.Characters && len(u.Characters) > 0 {
		w.Characters = make([]Character, len(u.Characters))
		for i, c := range u.Characters {
			ch := Character{Text: c.Text, Score: score(c.Score)}
			if u.Timed() && c.Timed() {
				ch.Start, ch.End = clampPtrs(c.Start, c.End, opts.Duration)
			}
			w.Characters[i] = ch
		}
	}
	return w
}

func score(s *float64) *float64 {
	if s == nil || math.IsNaN(*s) || *s < 0 || *s > 1 {
		return nil
	}
	return util.Clone(s)
}

func outsideAudio(w Word, duration float64) bool {
	if *w.End < 0 {
		return true
	}
	return duration > 0 && *w.Start > duration
}

func clampPtrs(start, end *float64, duration float64) (*float64, *float64) {
	s, e := clampInterval(*start, *end, duration)
	return util.Ptr(s), util.Ptr(e)
}

// bestOverlap returns the index of the speech segment sharing the longest
// span with [start, end], or orphan when none touches it.
func bestOverlap(segments []Segment, start, end float64) int {
	best, bestSpan := orphan, -1.0
	for i, s := range segments {
		if s.Silence || start > s.End || end < s.Start {
			continue
		}
		span := math.Min(end, s.End) - math.Max(start, s.Start)
		switch {
		case span > bestSpan:
			best, bestSpan = i, span
		case span == bestSpan && containsStart(s, start) && !containsStart(segments[best], start):
			best = i
		}
	}
	return best
}

func containsStart(s Segment, t float64) bool {
	return t >= s.Start && t < s.End
}

// placeUntimed resolves every pending placement from the segments of the
// closest placed units on either side and the aligner's hint.
func placeUntimed(segments []Segment, units []alignment.Unit, placement []int) {
	origins := make(map[int]int, len(segments))
	only, speech := orphan, 0
	for i, s := range segments {
		if s.Silence {
			continue
		}
		if s.origin > 0 {
			origins[s.origin-1] = i
		}
		only = i
		speech++
	}
	if speech != 1 {
		only = orphan
	}

	timed := func(i int) bool { return placement[i] >= 0 }
	for i := range placement {
		if placement[i] != pending {
			continue
		}
		prev, next := orphan, orphan
		for j := i - 1; j >= 0; j-- {
			if timed(j) {
				prev = placement[j]
				break
			}
		}
		for j := i + 1; j < len(placement); j++ {
			if timed(j) {
				next = placement[j]
				break
			}
		}
		hint := orphan
		if h := units[i].Segment; h != nil {
			if idx, ok := origins[*h]; ok {
				hint = idx
			}
		}

		switch {
		case hint != orphan && (hint == prev || hint == next):
			placement[i] = hint
		case prev != orphan:
			placement[i] = prev
		case next != orphan:
			placement[i] = next
		case hint != orphan:
			placement[i] = hint
		default:
			placement[i] = only
		}
	}
}

// widen grows the segment to contain all of its timed words without moving
// its start below floor. Words and characters starting before the widened
// start are clipped to it. It reports whether the segment changed and how
// many units were clipped.
func widen(seg *Segment, floor float64) (bool, int) {
	changed := false
	for _, w := range seg.Words {
		if !w.Timed() {
			continue
		}
		if start := math.Max(*w.Start, floor); start < seg.Start {
			seg.Start = start
			changed = true
		}
		if *w.End > seg.End {
			seg.End = *w.End
			changed = true
		}
	}
	clipped := 0
	for i := range seg.Words {
		w := &seg.Words[i]
		if w.Timed() && *w.Start < seg.Start {
			w.Start, w.End = clipFrom(w.Start, w.End, seg.Start)
			clipped++
		}
		for j := range w.Characters {
			c := &w.Characters[j]
			if c.Timed() && *c.Start < seg.Start {
				c.Start, c.End = clipFrom(c.Start, c.End, seg.Start)
			}
		}
	}
	return changed, clipped
}

// clipFrom moves an interval starting before bound up to bound.
func clipFrom(start, end *float64, bound float64) (*float64, *float64) {
	s := math.Max(*start, bound)
	return util.Ptr(s), util.Ptr(math.Max(*end, s))
}
