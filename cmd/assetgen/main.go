// Command assetgen is the offline preprocessing entrypoint: it reads
// administrative-area, lake, and tsunami-zone shapefiles and writes the
// static asset bundle the render server loads at startup (spec §4
// "Lifecycle").
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/seismic-render/renderer/internal/assets"
	"github.com/seismic-render/renderer/internal/geo"
	"github.com/seismic-render/renderer/internal/lines"
	"github.com/seismic-render/renderer/internal/lod"
	"github.com/seismic-render/renderer/internal/shapefile"
	"github.com/seismic-render/renderer/internal/topology"
	"github.com/seismic-render/renderer/internal/triangulate"
)

var (
	areasFlag   = flag.String("areas", "", "path to the administrative-area polygon shapefile (required)")
	lakesFlag   = flag.String("lakes", "", "path to the lake polygon shapefile (optional)")
	tsunamiFlag = flag.String("tsunami", "", "path to the tsunami forecast-zone polygon shapefile (optional)")
	outFlag     = flag.String("out", "assets.bundle", "output path for the asset bundle")
)

func main() {
	flag.Parse()
	if *areasFlag == "" {
		log.Fatal("-areas is required")
	}

	bundle, err := build()
	if err != nil {
		log.Fatalf("assetgen: %v", err)
	}

	if err := bundle.Save(*outFlag); err != nil {
		log.Fatalf("assetgen: saving bundle to %s: %v", *outFlag, err)
	}
	log.Printf("assetgen: wrote %s (%d vertices, %d areas, %d tsunami zones)",
		*outFlag, len(bundle.Vertices), len(bundle.Areas), len(bundle.TsunamiZones))
}

// build runs the full preprocessing pipeline (C1-C4) and returns the
// finished bundle. Shapefile corruption surfaces as a panic deep inside
// internal/shapefile; it is recovered here and turned into a fatal
// error so assetgen always exits cleanly rather than dumping a raw
// stack trace (spec §4.3/§7).
func build() (bundle *assets.Bundle, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("shapefile data is corrupt: %v", r)
		}
	}()

	areaCodeToPref, err := assets.LoadAreaToPrefecture()
	if err != nil {
		return nil, fmt.Errorf("loading area/prefecture table: %w", err)
	}
	areaToPref := make(map[geo.AreaCode]geo.PrefCode, len(areaCodeToPref))
	for area, pref := range areaCodeToPref {
		areaToPref[geo.AreaCode(area)] = geo.PrefCode(pref)
	}

	areas, err := shapefile.ReadAreas(*areasFlag)
	if err != nil {
		return nil, fmt.Errorf("reading area shapefile: %w", err)
	}
	log.Printf("assetgen: read %d administrative areas from %s", len(areas), *areasFlag)

	var lakes []geo.AreaRings
	if *lakesFlag != "" {
		lakes, err = shapefile.ReadLakes(*lakesFlag)
		if err != nil {
			return nil, fmt.Errorf("reading lake shapefile: %w", err)
		}
		log.Printf("assetgen: read %d lakes from %s", len(lakes), *lakesFlag)
	}

	var tsunamiAreas []geo.AreaRings
	if *tsunamiFlag != "" {
		tsunamiAreas, err = shapefile.ReadTsunamiZones(*tsunamiFlag)
		if err != nil {
			return nil, fmt.Errorf("reading tsunami zone shapefile: %w", err)
		}
		log.Printf("assetgen: read %d tsunami zones from %s", len(tsunamiAreas), *tsunamiFlag)
	}

	refs := topology.Build(areas, areaToPref)
	cutPoints := refs.CutPoints()

	var allRings []geo.Ring
	for _, a := range areas {
		allRings = append(allRings, a.Rings...)
	}

	segments := lines.CutRings(allRings, cutPoints)
	deduped := lines.Dedup(segments)
	areaBorders, prefBorders := lines.Classify(deduped, refs)
	log.Printf("assetgen: classified %d area-border and %d prefecture-border lines from %d candidate segments",
		len(areaBorders), len(prefBorders), len(segments))

	interner := geo.NewInterner()
	schedule := lod.Schedule()

	areaLOD := lod.Generate(areaBorders, schedule, interner)
	prefLOD := lod.Generate(prefBorders, schedule, interner)

	scaleLevelMap := make([]assets.ScaleLevel, len(schedule))
	for i, step := range schedule {
		scaleLevelMap[i] = assets.ScaleLevel{Threshold: float32(step.ScaleThreshold), Level: i}
	}

	var mapTriangles []uint32
	for _, a := range areas {
		for _, ring := range a.Rings {
			mapTriangles = append(mapTriangles, triangulate.Ring(ring, interner)...)
		}
	}

	var lakeTriangles []uint32
	for _, a := range lakes {
		for _, ring := range a.Rings {
			lakeTriangles = append(lakeTriangles, triangulate.Ring(ring, interner)...)
		}
	}

	stationPositions, areaEntries, stationCodes := buildStations(areas)

	tsunamiZones := make(map[uint16]assets.TsunamiZoneEntry, len(tsunamiAreas))
	for _, zone := range tsunamiAreas {
		var triangles []uint32
		box := geo.EmptyBoundingBox()
		for _, ring := range zone.Rings {
			triangles = append(triangles, triangulate.Ring(ring, interner)...)
			for _, p := range ring.Points {
				box = box.ExpandPoint(p)
			}
		}
		tsunamiZones[uint16(zone.AreaCode)] = assets.TsunamiZoneEntry{Triangles: triangles, BoundingBox: box}
	}

	vertices := make([]assets.Point32, 0, interner.Len())
	for _, p := range interner.Array() {
		vertices = append(vertices, assets.Point32{X: float32(p.Lon), Y: float32(p.Lat)})
	}

	bundle = &assets.Bundle{
		IntensityStationPositions: stationPositions,
		Areas:                     areaEntries,
		StationCodes:              stationCodes,
		Vertices:                  vertices,
		MapTriangles:              mapTriangles,
		AreaLines:                 areaLOD,
		PrefLines:                 prefLOD,
		ScaleLevelMap:             scaleLevelMap,
		LakeTriangles:             lakeTriangles,
		TsunamiZones:              tsunamiZones,
		AreaToPrefecture:          areaCodeToPref,
	}
	return bundle, nil
}

// buildStations derives one labelled intensity-reporting station per
// numbered administrative area, positioned at its bounding-box center.
// The original ships a curated JMA station registry; this build has no
// such registry in its retrieval pack, so the area's bounding-box center
// stands in for it (see DESIGN.md).
func buildStations(areas []geo.AreaRings) ([]assets.Point32, map[uint16]assets.AreaEntry, map[string]int) {
	positions := make([]assets.Point32, 0, len(areas))
	entries := make(map[uint16]assets.AreaEntry, len(areas))
	codes := make(map[string]int, len(areas))

	for _, a := range areas {
		if a.AreaCode == geo.UNNUMBERED {
			continue
		}
		if _, exists := entries[uint16(a.AreaCode)]; exists {
			continue
		}

		box := geo.EmptyBoundingBox()
		for _, ring := range a.Rings {
			for _, p := range ring.Points {
				box = box.ExpandPoint(p)
			}
		}
		center := box.Center()

		idx := len(positions)
		positions = append(positions, assets.Point32{X: float32(center.Lon), Y: float32(center.Lat)})
		entries[uint16(a.AreaCode)] = assets.AreaEntry{StationIndex: idx, BoundingBox: a.BoundingBox}
		codes[strconv.Itoa(int(a.AreaCode))] = idx
	}

	return positions, entries, codes
}
