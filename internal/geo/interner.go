package geo

// Interner deduplicates Points into a dense index space shared by every
// geometry buffer downstream (triangle indices, LOD strips). Index 0 is
// reserved as a sentinel the rendering pipeline never dereferences, so the
// zero value of Interner is not ready to use — construct with NewInterner.
type Interner struct {
	array []Point
	index map[Point]uint32
}

// dummyVertex occupies slot 0 so real geometry never receives index 0.
var dummyVertex = Point{Lat: 0, Lon: 0}

// NewInterner returns a ready-to-use Interner with the sentinel slot
// pre-inserted. The sentinel is not entered in the lookup map, so a real
// point equal to dummyVertex still receives its own non-zero index.
func NewInterner() *Interner {
	in := &Interner{
		array: make([]Point, 0, 1024),
		index: make(map[Point]uint32, 1024),
	}
	in.array = append(in.array, dummyVertex)
	return in
}

// Insert returns the existing index for p if present, otherwise appends p
// and returns its new index. Insert(p1) == Insert(p2) iff p1 and p2 are
// bit-equal.
func (in *Interner) Insert(p Point) uint32 {
	if idx, ok := in.index[p]; ok {
		return idx
	}
	idx := uint32(len(in.array))
	in.array = append(in.array, p)
	in.index[p] = idx
	return idx
}

// Array drains the interner into its underlying slice, in insertion order.
// The interner must not be used afterward.
func (in *Interner) Array() []Point {
	return in.array
}

// Len reports how many vertices (including the sentinel) have been interned.
func (in *Interner) Len() int {
	return len(in.array)
}
