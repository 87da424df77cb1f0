package timeline

// DropReason explains why the normalizer discarded a segment.
type DropReason string

const (
	// DropInvalidInterval marks a segment whose end is not after its start.
	DropInvalidInterval DropReason = "invalid_interval"
	// DropOutOfRange marks a segment lying entirely outside the audio.
	DropOutOfRange DropReason = "out_of_range"
	// DropEmptyText marks a segment with blank text not flagged as silence.
	DropEmptyText DropReason = "empty_text"
)

// Diagnostics counts everything the pipeline dropped, repaired or degraded.
type Diagnostics struct {
	// DroppedSegments is the number of coarse segments discarded by Normalize.
	DroppedSegments int `json:"dropped_segments" yaml:"dropped_segments"`
	// DropReasons breaks DroppedSegments down by reason.
	DropReasons map[DropReason]int `json:"drop_reasons,omitempty" yaml:"drop_reasons,omitempty"`
	// OrphanUnits is the number of aligned words no segment could take.
	OrphanUnits int `json:"orphan_units" yaml:"orphan_units"`
	// UntimedUnits is the number of aligned words kept without timing.
	UntimedUnits int `json:"untimed_units" yaml:"untimed_units"`
	// DegradedSegments is the number of speech segments left without any
	// timed word.
	DegradedSegments int `json:"degraded_segments" yaml:"degraded_segments"`
	// RepairedUnits is the number of word or character ends clipped to
	// remove overlaps.
	RepairedUnits int `json:"repaired_units" yaml:"repaired_units"`
	// WidenedSegments is the number of segments widened to contain their words.
	WidenedSegments int `json:"widened_segments" yaml:"widened_segments"`
	// ClippedSegments is the number of segment ends clipped to remove
	// overlaps with the following segment.
	ClippedSegments int `json:"clipped_segments" yaml:"clipped_segments"`
}

// Clean reports whether nothing was dropped, orphaned or degraded.
// Repairs alone do not make a run unclean.
func (d Diagnostics) Clean() bool {
	return d.DroppedSegments == 0 && d.OrphanUnits == 0 && d.DegradedSegments == 0
}

func (d *Diagnostics) drop(reason DropReason) {
	if d.DropReasons == nil {
		d.DropReasons = make(map[DropReason]int)
	}
	d.DropReasons[reason]++
	d.DroppedSegments++
}

func (d *Diagnostics) merge(o Diagnostics) {
	d.DroppedSegments += o.DroppedSegments
	for r, n := range o.DropReasons {
		if d.DropReasons == nil {
			d.DropReasons = make(map[DropReason]int)
		}
		d.DropReasons[r] += n
	}
	d.OrphanUnits += o.OrphanUnits
	d.UntimedUnits += o.UntimedUnits
	d.DegradedSegments += o.DegradedSegments
	d.RepairedUnits += o.RepairedUnits
	d.WidenedSegments += o.WidenedSegments
	d.ClippedSegments += o.ClippedSegments
}
