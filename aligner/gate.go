package aligner

import (
	"fmt"

	apperrors "github.com/kbukum/lipsync/errors"
	"github.com/kbukum/lipsync/timeline"
)

// Gate rejects transcripts that lost too much on the way. A rejected result
// is still returned to the caller next to the error.
type Gate struct {
	Enabled            bool    `yaml:"enabled" mapstructure:"enabled"`
	MaxDroppedSegments int     `yaml:"max_dropped_segments" mapstructure:"max_dropped_segments"`
	MaxOrphanUnits     int     `yaml:"max_orphan_units" mapstructure:"max_orphan_units"`
	MinCoverage        float64 `yaml:"min_coverage" mapstructure:"min_coverage"`
}

// Check returns the violated limits, if any.
func (g Gate) Check(d timeline.Diagnostics, q timeline.Quality) []string {
	if !g.Enabled {
		return nil
	}
	var violations []string
	if d.DroppedSegments > g.MaxDroppedSegments {
		violations = append(violations, fmt.Sprintf("dropped segments %d > %d", d.DroppedSegments, g.MaxDroppedSegments))
	}
	if d.OrphanUnits > g.MaxOrphanUnits {
		violations = append(violations, fmt.Sprintf("orphan units %d > %d", d.OrphanUnits, g.MaxOrphanUnits))
	}
	// a transcript of only silence has nothing to cover
	if q.Words > 0 && q.Coverage < g.MinCoverage {
		violations = append(violations, fmt.Sprintf("coverage %.3f < %.3f", q.Coverage, g.MinCoverage))
	}
	return violations
}

// Err returns a QUALITY_GATE error for the violated limits, or nil.
func (g Gate) Err(d timeline.Diagnostics, q timeline.Quality) error {
	if v := g.Check(d, q); len(v) > 0 {
		return apperrors.QualityGate(v)
	}
	return nil
}
