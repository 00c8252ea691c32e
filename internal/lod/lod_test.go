package lod

import (
	"math"
	"testing"

	"github.com/seismic-render/renderer/internal/geo"
	"github.com/seismic-render/renderer/internal/lines"
)

func TestSchedule_HasIntentionalDuplicateThresholds(t *testing.T) {
	steps := Schedule()
	if len(steps) != 40 {
		t.Fatalf("len(Schedule()) = %d, want 40", len(steps))
	}

	// The 0.60-exponent threshold appears at indices 10, 20, and 30.
	want := math.Pow(100, 0.60)
	for _, idx := range []int{10, 20, 30} {
		if steps[idx].ScaleThreshold != want {
			t.Fatalf("steps[%d].ScaleThreshold = %v, want %v (100^0.60)", idx, steps[idx].ScaleThreshold, want)
		}
	}
	if steps[10].Tolerance == steps[20].Tolerance {
		t.Fatalf("steps[10] and steps[20] share a tolerance %v, want the repeats to differ in tolerance only", steps[10].Tolerance)
	}
}

func TestScaleLevelMap_ReturnsFirstMatchingEntryNotLargest(t *testing.T) {
	// Mirrors the shipped table's shape: a duplicate threshold later in the
	// list must be unreachable, since LevelFor scans in table order.
	m := NewScaleLevelMap([]Step{
		{ScaleThreshold: 100, Tolerance: 0},
		{ScaleThreshold: 50, Tolerance: 1},
		{ScaleThreshold: 50, Tolerance: 2}, // shadowed: identical to index 1
		{ScaleThreshold: 10, Tolerance: 3},
	})

	level, ok := m.LevelFor(50)
	if !ok {
		t.Fatalf("LevelFor(50) ok = false, want true")
	}
	if level != 1 {
		t.Fatalf("LevelFor(50) = %d, want 1 (the first occurrence, not index 2)", level)
	}
}

func TestScaleLevelMap_BelowAllThresholdsHasNoLevel(t *testing.T) {
	m := NewScaleLevelMap([]Step{{ScaleThreshold: 10, Tolerance: 0}})
	if _, ok := m.LevelFor(1); ok {
		t.Fatalf("LevelFor(scale below every threshold) ok = true, want false")
	}
}

func TestGenerate_ProducesSentinelDelimitedStrips(t *testing.T) {
	input := []lines.Line{
		{Points: []geo.Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}}},
		{Points: []geo.Point{{Lat: 5, Lon: 5}, {Lat: 5, Lon: 6}}},
	}
	schedule := []Step{{ScaleThreshold: 100, Tolerance: 0}}
	interner := geo.NewInterner()

	levels := Generate(input, schedule, interner)
	if len(levels) != 1 {
		t.Fatalf("len(levels) = %d, want 1", len(levels))
	}

	strip := levels[0]
	if len(strip) == 0 {
		t.Fatalf("strip is empty")
	}
	if strip[len(strip)-1] == 0 {
		t.Fatalf("trailing sentinel was not omitted: %v", strip)
	}

	sentinels := 0
	for _, idx := range strip {
		if idx == 0 {
			sentinels++
		}
	}
	if sentinels != len(input)-1 {
		t.Fatalf("strip has %d interior sentinels, want %d (one fewer than line count)", sentinels, len(input)-1)
	}

	for _, idx := range strip {
		if idx == 0 {
			continue
		}
		if int(idx) >= interner.Len() {
			t.Fatalf("strip references vertex index %d, interner only has %d entries", idx, interner.Len())
		}
	}
}
