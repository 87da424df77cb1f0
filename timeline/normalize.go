package timeline

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/kbukum/lipsync/logger"
	"github.com/kbukum/lipsync/transcription"
)

// Normalize validates coarse segments and returns them sorted by start.
//
// A segment is dropped when its end is not after its start, when it lies
// entirely outside [0, duration], or when its trimmed text is empty and it is
// not flagged as silence. Surviving segments are clamped to [0, duration].
// A duration of 0 or less means the audio length is unknown and only the
// lower bound is enforced. Segments with equal starts keep their input order.
func Normalize(raw []transcription.Segment, duration float64, log *logger.Logger) ([]Segment, Diagnostics) {
	if log == nil {
		log = logger.Nop()
	}
	var diag Diagnostics
	out := make([]Segment, 0, len(raw))

	for i, rs := range raw {
		start, end := rs.Start, rs.End
		text := strings.TrimSpace(rs.Text)

		reason := checkSegment(start, end, duration)
		if reason == "" {
			start, end = clampInterval(start, end, duration)
			if end <= start {
				reason = DropOutOfRange
			}
		}
		if reason == "" && text == "" && !rs.Silence {
			reason = DropEmptyText
		}
		if reason != "" {
			diag.drop(reason)
			log.Warn("segment dropped", logger.Fields(
				logger.FieldSegment, i,
				logger.FieldReason, string(reason),
				"start", rs.Start,
				"end", rs.End,
			))
			continue
		}

		out = append(out, Segment{
			Start:   start,
			End:     end,
			Text:    text,
			Silence: rs.Silence,
			Words:   []Word{},
			origin:  i + 1,
		})
	}

	sortSegments(out)
	return out, diag
}

func checkSegment(start, end, duration float64) DropReason {
	if !finite(start) || !finite(end) || end <= start {
		return DropInvalidInterval
	}
	if end <= 0 || (duration > 0 && start >= duration) {
		return DropOutOfRange
	}
	return ""
}

func clampInterval(start, end, duration float64) (float64, float64) {
	start = math.Max(start, 0)
	end = math.Max(end, 0)
	if duration > 0 {
		start = math.Min(start, duration)
		end = math.Min(end, duration)
	}
	return start, end
}

func sortSegments(segments []Segment) {
	slices.SortStableFunc(segments, func(a, b Segment) int {
		return cmp.Compare(a.Start, b.Start)
	})
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
