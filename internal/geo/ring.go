package geo

// AreaCode is a 16-bit administrative code naming a sub-prefectural region.
type AreaCode uint16

// PrefCode is the parent prefecture code of an AreaCode.
type PrefCode uint16

// UNNUMBERED is the sentinel AreaCode for foreign/uncoded regions: retained
// for geometry rendering, excluded from topology classification and
// centroid computation.
const UNNUMBERED AreaCode = 0

// Ring is an ordered sequence of Points forming a closed polygon; the
// closing edge is implicit (first and last entries are distinct).
type Ring struct {
	Points []Point
}

// AdjacentTriple is one (previous, current, next) step around a Ring,
// wrapping at both ends.
type AdjacentTriple struct {
	Previous, Current, Next Point
}

// Walk calls fn once per point in the ring with its wrap-around neighbors.
func (r Ring) Walk(fn func(AdjacentTriple)) {
	n := len(r.Points)
	for i, cur := range r.Points {
		prev := r.Points[(i-1+n)%n]
		next := r.Points[(i+1)%n]
		fn(AdjacentTriple{Previous: prev, Current: cur, Next: next})
	}
}

// AreaRings is the geometry of one administrative area: its code, the
// bounding box from the shapefile record, and its constituent rings.
type AreaRings struct {
	AreaCode    AreaCode
	BoundingBox BoundingBox
	Rings       []Ring
}
