package geo

import "testing"

func TestInterner_InsertIsIdempotent(t *testing.T) {
	tests := []struct {
		name string
		p    Point
	}{
		{"origin", Point{0, 0}},
		{"negative", Point{-35.6, 139.7}},
		{"positive", Point{43.1, 141.3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewInterner()
			first := in.Insert(tt.p)
			second := in.Insert(tt.p)

			if first != second {
				t.Fatalf("Insert(p) = %d, Insert(p) again = %d, want equal", first, second)
			}
			if first == 0 {
				t.Fatalf("Insert(p) returned sentinel index 0")
			}

			arr := in.Array()
			if !arr[first].Equal(tt.p) {
				t.Fatalf("Array()[%d] = %+v, want %+v", first, arr[first], tt.p)
			}
		})
	}
}

func TestInterner_SentinelNeverReused(t *testing.T) {
	in := NewInterner()
	if in.Len() != 1 {
		t.Fatalf("fresh interner Len() = %d, want 1 (sentinel only)", in.Len())
	}
	idx := in.Insert(Point{1, 2})
	if idx == 0 {
		t.Fatalf("Insert returned reserved sentinel index 0")
	}
}

func TestInterner_DistinctPointsGetDistinctIndices(t *testing.T) {
	in := NewInterner()
	a := in.Insert(Point{0, 0})
	b := in.Insert(Point{0, 1})
	if a == b {
		t.Fatalf("distinct points got the same index %d", a)
	}
}

func TestPoint_TotalOrder(t *testing.T) {
	a := Point{Lat: 1, Lon: 2}
	b := Point{Lat: 1, Lon: 3}
	c := Point{Lat: 2, Lon: 0}

	if !a.Less(b) {
		t.Fatalf("expected a < b")
	}
	if !b.Less(c) {
		t.Fatalf("expected b < c")
	}
	if a.Less(a) {
		t.Fatalf("Less must be irreflexive")
	}
}

func TestBoundingBox_UnionEnclosesBoth(t *testing.T) {
	a := EmptyBoundingBox().ExpandPoint(Point{0, 0}).ExpandPoint(Point{1, 1})
	b := EmptyBoundingBox().ExpandPoint(Point{-1, -1}).ExpandPoint(Point{0.5, 0.5})

	u := a.Union(b)
	for _, p := range []Point{{0, 0}, {1, 1}, {-1, -1}, {0.5, 0.5}} {
		if !u.Contains(p) {
			t.Fatalf("union box does not contain %+v", p)
		}
	}
}
