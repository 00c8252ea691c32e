// Package lod implements spec C4: producing a level-of-detail pyramid of
// Douglas-Peucker-simplified polyline strips from a classified line set,
// plus the scale->level lookup table that selects among them at draw time.
package lod

import (
	"log"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/seismic-render/renderer/internal/geo"
	"github.com/seismic-render/renderer/internal/lines"
)

// Step is one (scale_threshold, simplify_tolerance) pair in the fixed
// schedule this package was shipped with.
type Step struct {
	ScaleThreshold float64
	Tolerance      float64
}

// scheduleEntry is the exponent/tolerance pair as authored in the original
// table; ScaleThreshold is derived as 100^exponent.
type scheduleEntry struct {
	exponent  float64
	tolerance float64
}

// scheduleTable is the fixed detail schedule: a first pass across the full
// exponent range 1.00 down to 0.24, followed by two repeats of the
// 0.60-down-to-0.24 sub-range at larger tolerances. The repeats are
// intentional carryover, not a typo — see Schedule.
var scheduleTable = []scheduleEntry{
	{1.00, 0.000}, {0.96, 0.001}, {0.92, 0.002}, {0.88, 0.003}, {0.84, 0.004},
	{0.80, 0.005}, {0.76, 0.006}, {0.72, 0.007}, {0.68, 0.008}, {0.64, 0.009},
	{0.60, 0.010}, {0.56, 0.011}, {0.52, 0.012}, {0.48, 0.013}, {0.44, 0.014},
	{0.40, 0.015}, {0.36, 0.016}, {0.32, 0.017}, {0.28, 0.018}, {0.24, 0.019},
	{0.60, 0.020}, {0.56, 0.021}, {0.52, 0.022}, {0.48, 0.023}, {0.44, 0.024},
	{0.40, 0.025}, {0.36, 0.026}, {0.32, 0.027}, {0.28, 0.028}, {0.24, 0.029},
	{0.60, 0.030}, {0.56, 0.031}, {0.52, 0.032}, {0.48, 0.033}, {0.44, 0.034},
	{0.40, 0.035}, {0.36, 0.036}, {0.32, 0.037}, {0.28, 0.038}, {0.24, 0.039},
}

// Schedule returns the fixed LOD step table, threshold = 100^exponent per
// entry. Thresholds are NOT monotonically decreasing: the 0.60->0.24
// exponent run appears at indices 10-19, 20-29, and 30-39. Under
// ScaleLevelMap.LevelFor's "first entry whose threshold <= S" rule, the
// second and third occurrences of each threshold are shadowed by the
// first and can never be selected. This has shipped behavior for long
// enough that callers depend on it; it is logged, not "fixed".
func Schedule() []Step {
	log.Printf("lod: schedule table has repeated thresholds in the 0.60-0.24 exponent range (indices 10-19, 20-29, 30-39); occurrences past the first are unreachable by design")
	steps := make([]Step, len(scheduleTable))
	for i, e := range scheduleTable {
		steps[i] = Step{ScaleThreshold: math.Pow(100, e.exponent), Tolerance: e.tolerance}
	}
	return steps
}

// ScaleLevelMap answers "which LOD level applies at view scale S" per
// spec: the first entry (in schedule order, not sorted order) whose
// threshold is <= S.
type ScaleLevelMap []Step

func NewScaleLevelMap(schedule []Step) ScaleLevelMap {
	return ScaleLevelMap(schedule)
}

// LevelFor returns the index of the first schedule entry at or below
// scale. ok is false when scale is below every threshold in the table —
// callers must skip the border draw for that level rather than treating
// it as an error.
func (m ScaleLevelMap) LevelFor(scale float64) (level int, ok bool) {
	for i, step := range m {
		if step.ScaleThreshold <= scale {
			return i, true
		}
	}
	return 0, false
}

// toOrb converts a line's points into an orb.LineString for simplification.
// orb's convention is (X=longitude, Y=latitude).
func toOrb(l lines.Line) orb.LineString {
	ls := make(orb.LineString, len(l.Points))
	for i, p := range l.Points {
		ls[i] = orb.Point{p.Lon, p.Lat}
	}
	return ls
}

// Generate simplifies every line at every schedule step, interns the
// simplified vertices, and flattens each level into a sentinel-0-delimited
// packed strip array: each line's indices followed by 0, with the final
// trailing 0 omitted. Vertex 0 is the interner's reserved dummy and is
// never referenced by a real line, so 0 is safe to use purely as a
// delimiter.
func Generate(input []lines.Line, schedule []Step, interner *geo.Interner) [][]uint32 {
	orbLines := make([]orb.LineString, len(input))
	for i, l := range input {
		orbLines[i] = toOrb(l)
	}

	levels := make([][]uint32, len(schedule))
	for levelIdx, step := range schedule {
		reducer := simplify.DouglasPeucker(step.Tolerance)
		var strip []uint32
		for _, ls := range orbLines {
			simplified := reducer.Simplify(ls.Clone()).(orb.LineString)
			for _, pt := range simplified {
				idx := interner.Insert(geo.NewPoint(pt[1], pt[0]))
				strip = append(strip, idx)
			}
			strip = append(strip, 0)
		}
		// Drop the final sentinel: "each line's indices followed by 0, with
		// the trailing 0 omitted."
		if len(strip) > 0 {
			strip = strip[:len(strip)-1]
		}
		levels[levelIdx] = strip
	}
	return levels
}
