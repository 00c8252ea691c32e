// Package geo holds the coordinate and ring types shared by every stage of
// the offline preprocessor (vertex interning, topology, line extraction,
// LOD generation).
package geo

import "math"

// orderedBits returns a total-order key for f, safe to use as a map/set
// key and in a sort. NaN is never expected to reach this function — the
// shapefile readers panic before a NaN coordinate can be interned.
//
// The transform is the standard IEEE-754 float-to-sortable-uint trick:
// for non-negative floats the bit pattern already sorts correctly: for
// negative floats, flipping all bits (instead of just the sign bit)
// restores the correct order.
func orderedBits(f float64) uint64 {
	if math.IsNaN(f) {
		panic("geo: NaN coordinate")
	}
	bits := math.Float64bits(f)
	if bits&(1<<63) != 0 {
		return ^bits
	}
	return bits | (1 << 63)
}
