package lines

import (
	"testing"

	"github.com/seismic-render/renderer/internal/geo"
	"github.com/seismic-render/renderer/internal/topology"
)

func square(ox, oy float64, code geo.AreaCode) geo.AreaRings {
	return geo.AreaRings{
		AreaCode: code,
		Rings: []geo.Ring{{
			Points: []geo.Point{
				{Lat: oy, Lon: ox},
				{Lat: oy, Lon: ox + 1},
				{Lat: oy + 1, Lon: ox + 1},
				{Lat: oy + 1, Lon: ox},
			},
		}},
	}
}

func TestCutRing_NoCutPointsYieldsSingleSegmentEqualToRing(t *testing.T) {
	ring := square(0, 0, 100).Rings[0]
	segments := CutRing(ring, map[geo.Point]struct{}{})

	if len(segments) != 1 {
		t.Fatalf("len(segments) = %d, want 1", len(segments))
	}
	if len(segments[0].Points) != len(ring.Points) {
		t.Fatalf("segment has %d points, want %d", len(segments[0].Points), len(ring.Points))
	}
	for i, p := range ring.Points {
		if !segments[0].Points[i].Equal(p) {
			t.Fatalf("segment point %d = %+v, want %+v", i, segments[0].Points[i], p)
		}
	}
}

func TestCutRings_IsolatedSquareRetainsZeroLines(t *testing.T) {
	areas := []geo.AreaRings{square(0, 0, 100)}
	refs := topology.Build(areas, map[geo.AreaCode]geo.PrefCode{100: 1})

	var rings []geo.Ring
	for _, a := range areas {
		rings = append(rings, a.Rings...)
	}

	segments := Dedup(CutRings(rings, refs.CutPoints()))
	if len(segments) != 0 {
		t.Fatalf("isolated ring should retain 0 lines after dedup, got %d", len(segments))
	}
}

func TestCutRings_SharedEdgeBetweenPrefecturesYieldsOnePrefBorder(t *testing.T) {
	a := square(0, 0, 100)
	b := square(1, 0, 200)
	areas := []geo.AreaRings{a, b}
	refs := topology.Build(areas, map[geo.AreaCode]geo.PrefCode{100: 1, 200: 2})

	var rings []geo.Ring
	for _, ar := range areas {
		rings = append(rings, ar.Rings...)
	}

	segments := Dedup(CutRings(rings, refs.CutPoints()))
	areaBorders, prefBorders := Classify(segments, refs)

	if len(prefBorders) != 1 {
		t.Fatalf("len(prefBorders) = %d, want 1", len(prefBorders))
	}
	if len(areaBorders) != 0 {
		t.Fatalf("len(areaBorders) = %d, want 0", len(areaBorders))
	}

	first, last := prefBorders[0].Endpoints()
	shared1 := geo.Point{Lat: 0, Lon: 1}
	shared2 := geo.Point{Lat: 1, Lon: 1}
	gotShared := (first.Equal(shared1) && last.Equal(shared2)) || (first.Equal(shared2) && last.Equal(shared1))
	if !gotShared {
		t.Fatalf("prefBorder endpoints = (%+v, %+v), want the shared edge (%+v, %+v)", first, last, shared1, shared2)
	}
}

func TestCutRings_SharedEdgeWithinSamePrefectureYieldsOneAreaBorder(t *testing.T) {
	a := square(0, 0, 100)
	b := square(1, 0, 200)
	areas := []geo.AreaRings{a, b}
	refs := topology.Build(areas, map[geo.AreaCode]geo.PrefCode{100: 1, 200: 1})

	var rings []geo.Ring
	for _, ar := range areas {
		rings = append(rings, ar.Rings...)
	}

	segments := Dedup(CutRings(rings, refs.CutPoints()))
	areaBorders, prefBorders := Classify(segments, refs)

	if len(areaBorders) != 1 {
		t.Fatalf("len(areaBorders) = %d, want 1", len(areaBorders))
	}
	if len(prefBorders) != 0 {
		t.Fatalf("len(prefBorders) = %d, want 0", len(prefBorders))
	}
}

func TestLine_EqualIsReversalInvariant(t *testing.T) {
	pts := []geo.Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}}
	reversed := make([]geo.Point, len(pts))
	for i, p := range pts {
		reversed[len(pts)-1-i] = p
	}

	l1 := Line{Points: pts}
	l2 := Line{Points: reversed}

	if !l1.Equal(l2) {
		t.Fatalf("Line and its reverse should be Equal")
	}
	if l1.Key() != l2.Key() {
		t.Fatalf("Line and its reverse should share a Key: %q vs %q", l1.Key(), l2.Key())
	}
}

func TestDedup_DiscardsSingleOccurrences(t *testing.T) {
	a := Line{Points: []geo.Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}}}
	b := Line{Points: []geo.Point{{Lat: 0, Lon: 1}, {Lat: 0, Lon: 0}}} // reverse of a
	c := Line{Points: []geo.Point{{Lat: 5, Lon: 5}, {Lat: 5, Lon: 6}}} // unique, occurs once

	out := Dedup([]Line{a, b, c})
	if len(out) != 1 {
		t.Fatalf("len(Dedup) = %d, want 1 (only the doubly-occurring segment)", len(out))
	}
	if !out[0].Equal(a) {
		t.Fatalf("Dedup kept %+v, want the segment equivalent to %+v", out[0], a)
	}
}
