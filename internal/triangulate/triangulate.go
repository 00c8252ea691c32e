// Package triangulate fans a simple polygon ring into a triangle index
// list via ear clipping. No pack example or dependency offers polygon
// triangulation (see DESIGN.md); this is the one geometry primitive
// built directly on the standard library rather than an ecosystem
// package, because no suitable one exists in the retrieval pack.
package triangulate

import "github.com/seismic-render/renderer/internal/geo"

// Ring triangulates a single simple ring (no self-intersections, no
// holes) and interns its vertices, returning a flat (a, b, c) index
// triple list suitable for Bundle.MapTriangles/LakeTriangles.
//
// Multi-ring areas (islands, holes) are triangulated ring-by-ring with
// no hole subtraction: an area whose outer boundary encloses an
// unrelated inner ring will have that inner ring filled rather than cut
// out. This is a known simplification, not a bug (see DESIGN.md Open
// Questions) — shapefile hole conventions vary enough between sources
// that guessing at one without a concrete counter-example to test
// against risks being wrong in a different way.
func Ring(ring geo.Ring, interner *geo.Interner) []uint32 {
	n := len(ring.Points)
	if n < 3 {
		return nil
	}

	// indices tracks the remaining polygon in order, by index into
	// ring.Points; ear clipping repeatedly removes entries from it.
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	signedArea := signedArea(ring.Points)
	clockwise := signedArea < 0

	var triangles []uint32
	guard := 0
	for len(indices) > 3 && guard < n*n {
		guard++
		earFound := false
		for i := range indices {
			prev := indices[(i-1+len(indices))%len(indices)]
			cur := indices[i]
			next := indices[(i+1)%len(indices)]

			a, b, c := ring.Points[prev], ring.Points[cur], ring.Points[next]
			if !isConvex(a, b, c, clockwise) {
				continue
			}
			if anyPointInside(ring.Points, indices, prev, cur, next, a, b, c) {
				continue
			}

			triangles = append(triangles,
				interner.Insert(a), interner.Insert(b), interner.Insert(c))

			indices = append(indices[:i], indices[i+1:]...)
			earFound = true
			break
		}
		if !earFound {
			// Degenerate or self-intersecting ring: fall back to a fan
			// from the first remaining vertex rather than looping forever.
			break
		}
	}

	if len(indices) >= 3 {
		anchor := indices[0]
		for i := 1; i+1 < len(indices); i++ {
			triangles = append(triangles,
				interner.Insert(ring.Points[anchor]),
				interner.Insert(ring.Points[indices[i]]),
				interner.Insert(ring.Points[indices[i+1]]),
			)
		}
	}

	return triangles
}

func signedArea(points []geo.Point) float64 {
	var sum float64
	n := len(points)
	for i := 0; i < n; i++ {
		p, q := points[i], points[(i+1)%n]
		sum += p.Lon*q.Lat - q.Lon*p.Lat
	}
	return sum / 2
}

func isConvex(a, b, c geo.Point, clockwise bool) bool {
	cross := (b.Lon-a.Lon)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lon-a.Lon)
	if clockwise {
		return cross < 0
	}
	return cross > 0
}

func anyPointInside(points []geo.Point, indices []int, prev, cur, next int, a, b, c geo.Point) bool {
	for _, idx := range indices {
		if idx == prev || idx == cur || idx == next {
			continue
		}
		if pointInTriangle(points[idx], a, b, c) {
			return true
		}
	}
	return false
}

func pointInTriangle(p, a, b, c geo.Point) bool {
	d1 := sign(p, a, b)
	d2 := sign(p, b, c)
	d3 := sign(p, c, a)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func sign(p, a, b geo.Point) float64 {
	return (p.Lon-b.Lon)*(a.Lat-b.Lat) - (a.Lon-b.Lon)*(p.Lat-b.Lat)
}
