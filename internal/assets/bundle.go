// Package assets defines the static asset bundle produced by the offline
// preprocessing pipeline (C1-C4) and consumed, read-only, by the runtime
// server (spec §6 "Asset bundle").
package assets

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/seismic-render/renderer/internal/geo"
)

// Point32 is a vertex in single-precision float pairs, the bundle's
// on-disk/in-memory storage width (the offline pipeline works in
// float64; this is the point where precision is deliberately narrowed,
// since nothing downstream of asset-build needs float64).
type Point32 struct {
	X, Y float32
}

// ScaleLevel is one (threshold, level index) entry of the runtime
// scale->LOD lookup table.
type ScaleLevel struct {
	Threshold float32
	Level     int
}

// AreaEntry is one administrative area's runtime metadata: the index of
// its labelled intensity station (for marker placement) and its
// bounding box (for the worker's view-fit computation).
type AreaEntry struct {
	StationIndex int
	BoundingBox  geo.BoundingBox
}

// TsunamiZoneEntry is one tsunami forecast zone's triangulated fill
// geometry, referenced by area code from a forecast level's code list.
type TsunamiZoneEntry struct {
	Triangles   []uint32
	BoundingBox geo.BoundingBox
}

// Bundle is the complete static asset table: the only artifact that
// survives from the offline preprocessing pipeline into the runtime
// image (spec §4 "Lifecycle"). It is treated as an immutable resource
// once loaded — nothing in the request path mutates it.
type Bundle struct {
	IntensityStationPositions []Point32
	Areas                     map[uint16]AreaEntry
	StationCodes              map[string]int

	Vertices      []Point32
	MapTriangles  []uint32
	AreaLines     [][]uint32
	PrefLines     [][]uint32
	ScaleLevelMap []ScaleLevel

	LakeTriangles []uint32

	TsunamiZones map[uint16]TsunamiZoneEntry

	// AreaToPrefecture is carried in the bundle so the runtime server
	// never needs to re-load the codes table separately.
	AreaToPrefecture map[uint16]uint16
}

// Save gob-encodes the bundle to path (see DESIGN.md for why gob and not
// a third-party codec is used for this one artifact).
func (b *Bundle) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("assets: create %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(b); err != nil {
		return fmt.Errorf("assets: encode bundle: %w", err)
	}
	return nil
}

// Load gob-decodes a Bundle previously written by Save.
func Load(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("assets: open %s: %w", path, err)
	}
	defer f.Close()

	var b Bundle
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("assets: decode bundle: %w", err)
	}
	return &b, nil
}
