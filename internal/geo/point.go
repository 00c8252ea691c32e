package geo

import "math"

// Point is a 2-D coordinate (lat, lon) with a total order over its
// IEEE-754 bit pattern, so bit-equal points hash and compare identically
// regardless of how they were produced (shapefile decode, LOD simplify,
// protobuf decode). Immutable.
type Point struct {
	Lat, Lon float64
}

// NewPoint constructs a Point, panicking on NaN input per the ordered-float
// discipline carried throughout preprocessing (spec: "the preprocessor may
// panic on NaN, but never silently accept it").
func NewPoint(lat, lon float64) Point {
	orderedBits(lat)
	orderedBits(lon)
	return Point{Lat: lat, Lon: lon}
}

// Less defines the total order used to canonicalize Line endpoints and to
// sort cut points deterministically.
func (p Point) Less(other Point) bool {
	pl, ol := orderedBits(p.Lat), orderedBits(other.Lat)
	if pl != ol {
		return pl < ol
	}
	return orderedBits(p.Lon) < orderedBits(other.Lon)
}

// Equal reports coordinate equality under float ==, the same equality Go
// maps keyed by Point use (so +0 and -0 compare equal).
func (p Point) Equal(other Point) bool {
	return p.Lat == other.Lat && p.Lon == other.Lon
}

// BoundingBox is an axis-aligned box in (lat, lon) space.
type BoundingBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// EmptyBoundingBox returns a box that Union-s correctly as the identity
// element (any first real point widens it to match).
func EmptyBoundingBox() BoundingBox {
	return BoundingBox{
		MinLat: math.Inf(1), MinLon: math.Inf(1),
		MaxLat: math.Inf(-1), MaxLon: math.Inf(-1),
	}
}

// ExpandPoint widens the box to include p.
func (b BoundingBox) ExpandPoint(p Point) BoundingBox {
	if p.Lat < b.MinLat {
		b.MinLat = p.Lat
	}
	if p.Lon < b.MinLon {
		b.MinLon = p.Lon
	}
	if p.Lat > b.MaxLat {
		b.MaxLat = p.Lat
	}
	if p.Lon > b.MaxLon {
		b.MaxLon = p.Lon
	}
	return b
}

// Union merges two boxes.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	b = b.ExpandPoint(Point{other.MinLat, other.MinLon})
	b = b.ExpandPoint(Point{other.MaxLat, other.MaxLon})
	return b
}

// Contains reports whether p lies within the box (inclusive).
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Point {
	return Point{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lon: (b.MinLon + b.MaxLon) / 2,
	}
}
