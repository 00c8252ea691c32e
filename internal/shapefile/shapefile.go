// Package shapefile parses the administrative-area, lake, and tsunami
// forecast-zone shapefiles into geo.AreaRings, via github.com/jonas-p/go-shp.
package shapefile

import (
	"fmt"
	"log"
	"strconv"

	shp "github.com/jonas-p/go-shp"

	"github.com/seismic-render/renderer/internal/geo"
)

// codeFieldName is the DBF attribute holding an area's administrative
// code, per the original preprocessor's shapefile convention.
const codeFieldName = "code"

// ReadAreas parses a polygon shapefile of administrative area
// boundaries. A record whose code field is absent is kept under
// geo.UNNUMBERED — some foreign/uncoded regions are retained for
// geometry only. A record whose code field is present but unparsable is
// a shapefile-corruption condition this build does not try to recover
// from; it panics, to be caught and logged fatal at the cmd/assetgen
// boundary.
func ReadAreas(shpPath string) ([]geo.AreaRings, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, fmt.Errorf("shapefile: open %s: %w", shpPath, err)
	}
	defer reader.Close()

	codeField := fieldIndex(reader.Fields(), codeFieldName)

	var areas []geo.AreaRings
	for reader.Next() {
		n, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			log.Printf("shapefile: %s record %d: skipping non-polygon shape %T", shpPath, n, shape)
			continue
		}

		code := geo.UNNUMBERED
		if codeField >= 0 {
			if raw := reader.ReadAttribute(n, codeField); raw != "" {
				v, err := strconv.ParseUint(raw, 10, 16)
				if err != nil {
					panic(fmt.Sprintf("shapefile: %s record %d: unparsable code %q: %v", shpPath, n, raw, err))
				}
				code = geo.AreaCode(v)
			}
		}

		areas = append(areas, geo.AreaRings{
			AreaCode:    code,
			BoundingBox: boxToBoundingBox(poly.Box),
			Rings:       splitRings(poly),
		})
	}

	return areas, nil
}

// ReadLakes parses the lake polygon shapefile. Lakes carry no
// administrative code and are retained purely as UNNUMBERED geometry.
func ReadLakes(shpPath string) ([]geo.AreaRings, error) {
	lakes, err := ReadAreas(shpPath)
	if err != nil {
		return nil, err
	}
	for i := range lakes {
		lakes[i].AreaCode = geo.UNNUMBERED
	}
	return lakes, nil
}

// ReadTsunamiZones parses the tsunami forecast zone shapefile. Unlike
// ReadAreas, a missing code here is rejected outright rather than
// defaulted to UNNUMBERED: a tsunami zone with no code can't be joined
// to a forecast level at request time (spec §6 draws this distinction
// explicitly).
func ReadTsunamiZones(shpPath string) ([]geo.AreaRings, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, fmt.Errorf("shapefile: open %s: %w", shpPath, err)
	}
	defer reader.Close()

	codeField := fieldIndex(reader.Fields(), codeFieldName)
	if codeField < 0 {
		return nil, fmt.Errorf("shapefile: %s has no %q field", shpPath, codeFieldName)
	}

	var zones []geo.AreaRings
	for reader.Next() {
		n, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			log.Printf("shapefile: %s record %d: skipping non-polygon shape %T", shpPath, n, shape)
			continue
		}

		raw := reader.ReadAttribute(n, codeField)
		if raw == "" {
			return nil, fmt.Errorf("shapefile: %s record %d: tsunami zone missing required code", shpPath, n)
		}
		v, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("shapefile: %s record %d: unparsable code %q: %w", shpPath, n, raw, err)
		}

		zones = append(zones, geo.AreaRings{
			AreaCode:    geo.AreaCode(v),
			BoundingBox: boxToBoundingBox(poly.Box),
			Rings:       splitRings(poly),
		})
	}

	return zones, nil
}

func fieldIndex(fields []shp.Field, name string) int {
	for i, f := range fields {
		if f.String() == name {
			return i
		}
	}
	return -1
}

func boxToBoundingBox(b shp.Box) geo.BoundingBox {
	return geo.BoundingBox{MinLat: b.MinY, MinLon: b.MinX, MaxLat: b.MaxY, MaxLon: b.MaxX}
}

// splitRings splits a shapefile polygon's flat point array into
// individual rings along Parts, dropping each ring's duplicated closing
// point: geo.Ring's closing edge is implicit, first and last entries
// must be distinct.
func splitRings(poly *shp.Polygon) []geo.Ring {
	parts := poly.Parts
	points := poly.Points

	rings := make([]geo.Ring, 0, len(parts))
	for i := range parts {
		start := int(parts[i])
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		ringPoints := points[start:end]
		if len(ringPoints) > 1 && ringPoints[0] == ringPoints[len(ringPoints)-1] {
			ringPoints = ringPoints[:len(ringPoints)-1]
		}

		pts := make([]geo.Point, len(ringPoints))
		for j, p := range ringPoints {
			pts[j] = geo.NewPoint(p.Y, p.X)
		}
		rings = append(rings, geo.Ring{Points: pts})
	}
	return rings
}
