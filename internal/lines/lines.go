// Package lines implements spec C3: cutting rings at junctions into
// segments, deduplicating them under directional equivalence, and
// classifying each as area-internal, area-border, or prefecture-border.
package lines

import (
	"fmt"
	"math"
	"strings"

	"github.com/seismic-render/renderer/internal/geo"
	"github.com/seismic-render/renderer/internal/topology"
)

// Line is a polyline of >= 2 points. Two Lines are equivalent if one is the
// reverse of the other; Equal and Key both honor that equivalence, per
// spec §3/§9. Lines are plain value sequences of Points, never pointers
// back into an interner or a References index.
type Line struct {
	Points []geo.Point
}

// canonical returns l's points oriented so the first point is <= the last
// point under Point's total order, avoiding ever materializing both
// orientations at once.
func (l Line) canonical() []geo.Point {
	if len(l.Points) < 2 {
		return l.Points
	}
	first, last := l.Points[0], l.Points[len(l.Points)-1]
	if last.Less(first) {
		rev := make([]geo.Point, len(l.Points))
		for i, p := range l.Points {
			rev[len(l.Points)-1-i] = p
		}
		return rev
	}
	return l.Points
}

// Equal reports whether l and other describe the same polyline, up to
// reversal.
func (l Line) Equal(other Line) bool {
	a, b := l.canonical(), other.canonical()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Key returns a comparable, reversal-invariant key suitable for map/set
// use (Go slices aren't themselves comparable).
func (l Line) Key() string {
	var sb strings.Builder
	for _, p := range l.canonical() {
		fmt.Fprintf(&sb, "%x:%x;", math.Float64bits(p.Lat), math.Float64bits(p.Lon))
	}
	return sb.String()
}

// Endpoints returns l's first and last point.
func (l Line) Endpoints() (first, last geo.Point) {
	return l.Points[0], l.Points[len(l.Points)-1]
}

// CutRing applies the cut procedure (spec §4.3) to a single ring:
//  1. walk from index 1 through the ring's last index, closing a segment
//     (inclusive) at every cut point and starting the next one there;
//  2. close the final segment at the ring's last index; when index 0 is
//     itself a cut point, the final segment also carries the ring's
//     implicit closing edge back to index 0;
//  3. if >= 2 segments resulted and the ring's own starting point is not
//     itself a cut point, splice the last segment in front of the first
//     (the implicit closing edge joins them) — the seam at index 0 is an
//     artifact of where we started walking, not a real junction.
//
// A ring with zero cut points falls out of this walk as a single segment
// equal to the ring itself.
func CutRing(ring geo.Ring, cutPoints map[geo.Point]struct{}) []Line {
	points := ring.Points
	n := len(points)
	if n < 2 {
		return nil
	}
	_, startIsCut := cutPoints[points[0]]

	var segments []Line
	startIndex := 0
	for i := 1; i < n; i++ {
		if _, isCut := cutPoints[points[i]]; !isCut {
			continue
		}
		segments = append(segments, Line{Points: clonePoints(points[startIndex : i+1])})
		startIndex = i
	}
	final := clonePoints(points[startIndex:n])
	if startIsCut {
		final = append(final, points[0])
	}
	segments = append(segments, Line{Points: final})

	if len(segments) >= 2 {
		if !startIsCut {
			last := segments[len(segments)-1]
			segments = segments[:len(segments)-1]
			merged := make([]geo.Point, 0, len(last.Points)+len(segments[0].Points))
			merged = append(merged, last.Points...)
			merged = append(merged, segments[0].Points...)
			segments[0] = Line{Points: merged}
		}
	}

	return segments
}

func clonePoints(p []geo.Point) []geo.Point {
	out := make([]geo.Point, len(p))
	copy(out, p)
	return out
}

// CutRings applies CutRing to every ring, returning the flat segment list.
func CutRings(rings []geo.Ring, cutPoints map[geo.Point]struct{}) []Line {
	var out []Line
	for _, r := range rings {
		out = append(out, CutRing(r, cutPoints)...)
	}
	return out
}

// Dedup discards segments that occur exactly once under reversal
// equivalence (open-edged artefacts of the combined polygon set's outer
// boundary) and keeps one representative of every segment occurring >= 2
// times. Empirically every internal boundary is shared by exactly two
// rings.
func Dedup(segments []Line) []Line {
	counts := make(map[string]int, len(segments))
	first := make(map[string]Line, len(segments))
	for _, l := range segments {
		k := l.Key()
		counts[k]++
		if _, ok := first[k]; !ok {
			first[k] = l
		}
	}

	var out []Line
	for k, c := range counts {
		if c > 1 {
			out = append(out, first[k])
		}
	}
	return out
}

// Classify buckets retained segments by how many prefectures their
// endpoints share: exactly one -> area border (sub-prefectural), two or
// more -> prefecture border, zero -> discarded. A segment is never
// emitted into both buckets.
func Classify(segments []Line, refs *topology.References) (areaBorders, prefBorders []Line) {
	for _, l := range segments {
		first, last := l.Endpoints()
		switch count := refs.PrefRefCount(first, last); {
		case count == 1:
			areaBorders = append(areaBorders, l)
		case count >= 2:
			prefBorders = append(prefBorders, l)
		}
	}
	return areaBorders, prefBorders
}
