// Package topology derives per-vertex adjacency and incident-area
// information from a set of rings (spec C2: Topology builder), and answers
// the "which prefectures touch this line's endpoints" query the line
// classifier needs.
package topology

import "github.com/seismic-render/renderer/internal/geo"

// reference is the per-point tally: which areas touch this vertex, and
// which vertices are adjacent to it across every ring that visits it.
type reference struct {
	areas     map[geo.AreaCode]struct{}
	adjacent  map[geo.Point]struct{}
}

// References is the read-only index built by a single tally pass over
// every ring. It never stores a pointer back to the Lines that query it —
// Lines are plain value sequences of Points; References is queried by
// value, keeping the two free of lifetime entanglement (spec §9).
type References struct {
	byPoint      map[geo.Point]*reference
	areaToPref   map[geo.AreaCode]geo.PrefCode
}

// Build performs the single tally pass described in spec §4.2: for every
// ring, for every (prev, cur, next) triple, mark cur's incident area and
// its two ring-adjacent neighbors.
func Build(areas []geo.AreaRings, areaToPref map[geo.AreaCode]geo.PrefCode) *References {
	refs := &References{
		byPoint:    make(map[geo.Point]*reference),
		areaToPref: areaToPref,
	}

	for _, area := range areas {
		for _, ring := range area.Rings {
			ring.Walk(func(t geo.AdjacentTriple) {
				r := refs.entry(t.Current)
				r.areas[area.AreaCode] = struct{}{}
				r.adjacent[t.Previous] = struct{}{}
				r.adjacent[t.Next] = struct{}{}
			})
		}
	}

	return refs
}

func (r *References) entry(p geo.Point) *reference {
	ref, ok := r.byPoint[p]
	if !ok {
		ref = &reference{
			areas:    make(map[geo.AreaCode]struct{}),
			adjacent: make(map[geo.Point]struct{}),
		}
		r.byPoint[p] = ref
	}
	return ref
}

// AdjacentCount returns the number of distinct points adjacent to p across
// every ring, the invariant spec §3 requires to be >= 2 for every point
// that appears in a ring.
func (r *References) AdjacentCount(p geo.Point) int {
	ref, ok := r.byPoint[p]
	if !ok {
		return 0
	}
	return len(ref.adjacent)
}

// CutPoints returns the set of junction vertices: points where 3 or more
// distinct ring edges meet (adjacency-set size >= 3).
func (r *References) CutPoints() map[geo.Point]struct{} {
	cuts := make(map[geo.Point]struct{})
	for p, ref := range r.byPoint {
		if len(ref.adjacent) >= 3 {
			cuts[p] = struct{}{}
		}
	}
	return cuts
}

// prefSet returns the image of p's incident areas under the area->prefecture
// map, excluding UNNUMBERED.
func (r *References) prefSet(p geo.Point) map[geo.PrefCode]struct{} {
	out := make(map[geo.PrefCode]struct{})
	ref, ok := r.byPoint[p]
	if !ok {
		return out
	}
	for area := range ref.areas {
		if area == geo.UNNUMBERED {
			continue
		}
		out[r.areaToPref[area]] = struct{}{}
	}
	return out
}

// PrefRefCount returns |pref_ref(line)|: the intersection size of the
// prefecture sets of a line's two endpoints, per spec §4.2.
func (r *References) PrefRefCount(first, last geo.Point) int {
	a := r.prefSet(first)
	b := r.prefSet(last)
	count := 0
	for p := range a {
		if _, ok := b[p]; ok {
			count++
		}
	}
	return count
}
