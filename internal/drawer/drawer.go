// Package drawer defines the seam spec draws at "vertex buffers, index
// buffers, LOD selection": the inputs a draw step consumes, never the
// shader programs, texture binding, or font-rasterizer internals that
// produce pixels from them.
package drawer

import (
	"image"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/seismic-render/renderer/internal/assets"
	"github.com/seismic-render/renderer/internal/render"
)

// Viewport maps WGS84-degree vertices to pixel coordinates through a
// precomputed Web Mercator affine transform (computed once per request
// by the worker, from the request's bounding box — spec §4.6 steps
// 1-2).
type Viewport struct {
	OffsetX, OffsetY float64
	Scale            float64
	Width, Height    int
}

// Project maps a (lon, lat) vertex to pixel coordinates.
func (v Viewport) Project(lon, lat float64) (x, y float64) {
	merc := project.WGS84.ToMercator(orb.Point{lon, lat})
	return (merc[0] - v.OffsetX) * v.Scale, float64(v.Height) - (merc[1]-v.OffsetY)*v.Scale
}

// Params is everything a Drawer needs to produce one frame.
type Params struct {
	Bundle   *assets.Bundle
	Viewport Viewport
	// LODLevel and HasLOD select which AreaLines/PrefLines strip to draw;
	// HasLOD is false when the view scale fell below every threshold in
	// the schedule, in which case the border draw is skipped entirely
	// (spec §4.4 "Runtime lookup").
	LODLevel int
	HasLOD   bool
	Context  render.Context
}

// Drawer is the one seam the offline GPU-rendering code crosses.
// SoftwareDrawer is the sole concrete implementation.
type Drawer interface {
	Draw(p Params) (image.Image, error)
}
