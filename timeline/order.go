package timeline

import (
	"cmp"
	"math"
	"slices"

	"github.com/kbukum/lipsync/util"
)

// orderByStart stable-sorts items by start time. An item without timing takes
// the key of the closest preceding item, so it stays next to the neighbour it
// followed in text order; a leading untimed item sorts first.
func orderByStart[T any](items []T, start func(T) *float64) []T {
	type keyed struct {
		key  float64
		item T
	}
	ks := make([]keyed, len(items))
	last := math.Inf(-1)
	for i, it := range items {
		if s := start(it); s != nil {
			last = *s
		}
		ks[i] = keyed{key: last, item: it}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int { return cmp.Compare(a.key, b.key) })

	out := make([]T, len(items))
	for i, k := range ks {
		out[i] = k.item
	}
	return out
}

// repairWordOverlaps clips the end of each timed word to the start of the
// next timed word. Words must already be ordered by start. It returns the
// number of ends clipped.
func repairWordOverlaps(words []Word) int {
	repaired := 0
	prev := -1
	for i, w := range words {
		if !w.Timed() {
			continue
		}
		if prev >= 0 && *words[prev].End > *w.Start {
			words[prev].End = util.Ptr(*w.Start)
			repaired++
		}
		prev = i
	}
	return repaired
}

func repairCharacterOverlaps(chars []Character) int {
	repaired := 0
	prev := -1
	for i, c := range chars {
		if !c.Timed() {
			continue
		}
		if prev >= 0 && *chars[prev].End > *c.Start {
			chars[prev].End = util.Ptr(*c.Start)
			repaired++
		}
		prev = i
	}
	return repaired
}

func wordStart(w Word) *float64           { return w.Start }
func characterStart(c Character) *float64 { return c.Start }
