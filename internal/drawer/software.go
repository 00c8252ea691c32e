package drawer

import (
	"image"

	"github.com/gogpu/gg"

	"github.com/seismic-render/renderer/internal/render"
)

// intensityColor mirrors the JMA convention of one fixed color per
// seismic intensity bucket, lowest to highest severity.
var intensityColor = map[render.IntensityLevel][3]float64{
	render.Intensity1:      {0.65, 0.85, 1.00},
	render.Intensity2:      {0.45, 0.75, 1.00},
	render.Intensity3:      {0.55, 0.85, 0.45},
	render.Intensity4:      {1.00, 0.90, 0.30},
	render.Intensity5Minus: {1.00, 0.70, 0.20},
	render.Intensity5Plus:  {1.00, 0.50, 0.15},
	render.Intensity6Minus: {0.95, 0.25, 0.15},
	render.Intensity6Plus:  {0.80, 0.10, 0.10},
	render.Intensity7:      {0.55, 0.05, 0.25},
}

// SoftwareDrawer is the one Drawer this module ships: a CPU rasterizer
// built on gg's default software renderer. There is no GPU backend
// wired up — gogpu/wgpu would need a live device/surface this process
// never opens, so it is left unused (see DESIGN.md).
type SoftwareDrawer struct{}

func NewSoftwareDrawer() *SoftwareDrawer { return &SoftwareDrawer{} }

func (d *SoftwareDrawer) Draw(p Params) (image.Image, error) {
	dc := gg.NewContext(p.Viewport.Width, p.Viewport.Height)

	dc.SetRGB(0.93, 0.95, 0.97)
	dc.Clear()

	d.drawLand(dc, p)
	d.drawBorders(dc, p)
	d.drawLakes(dc, p)

	switch c := p.Context.(type) {
	case render.V0Intensity:
		d.drawIntensity(dc, p, c)
	case render.Tsunami:
		d.drawTsunami(dc, p, c)
	}

	return dc.Image(), nil
}

// drawLand fills every map triangle with a flat land color. Triangles
// are not LOD-indexed — only the border line strips are (spec §4
// "two LOD-indexed line-strip arrays").
func (d *SoftwareDrawer) drawLand(dc *gg.Context, p Params) {
	dc.SetRGB(0.85, 0.86, 0.80)
	tris := p.Bundle.MapTriangles
	for i := 0; i+2 < len(tris); i += 3 {
		d.fillTriangle(dc, p, tris[i], tris[i+1], tris[i+2])
	}
}

func (d *SoftwareDrawer) drawLakes(dc *gg.Context, p Params) {
	dc.SetRGB(0.70, 0.82, 0.92)
	tris := p.Bundle.LakeTriangles
	for i := 0; i+2 < len(tris); i += 3 {
		d.fillTriangle(dc, p, tris[i], tris[i+1], tris[i+2])
	}
}

func (d *SoftwareDrawer) fillTriangle(dc *gg.Context, p Params, a, b, c uint32) {
	verts := p.Bundle.Vertices
	if int(a) >= len(verts) || int(b) >= len(verts) || int(c) >= len(verts) {
		return
	}
	ax, ay := p.Viewport.Project(float64(verts[a].X), float64(verts[a].Y))
	bx, by := p.Viewport.Project(float64(verts[b].X), float64(verts[b].Y))
	cx, cy := p.Viewport.Project(float64(verts[c].X), float64(verts[c].Y))

	dc.MoveTo(ax, ay)
	dc.LineTo(bx, by)
	dc.LineTo(cx, cy)
	dc.ClosePath()
	dc.Fill()
}

// drawBorders strokes the area/prefecture border strips at the level
// the worker selected. A strip is a sentinel(0)-delimited concatenation
// of line-strips packed at asset-build time (spec §4 "packed strip
// array"); vertex 0 is the interner's reserved dummy and never a real
// coordinate, so it safely doubles as the separator.
func (d *SoftwareDrawer) drawBorders(dc *gg.Context, p Params) {
	if !p.HasLOD {
		return
	}

	dc.SetLineWidth(1)
	if p.LODLevel < len(p.Bundle.AreaLines) {
		dc.SetRGB(0.55, 0.55, 0.55)
		d.strokeStrip(dc, p, p.Bundle.AreaLines[p.LODLevel])
	}

	dc.SetLineWidth(1.6)
	if p.LODLevel < len(p.Bundle.PrefLines) {
		dc.SetRGB(0.25, 0.25, 0.30)
		d.strokeStrip(dc, p, p.Bundle.PrefLines[p.LODLevel])
	}
}

func (d *SoftwareDrawer) strokeStrip(dc *gg.Context, p Params, strip []uint32) {
	verts := p.Bundle.Vertices
	started := false
	flush := func() {
		if started {
			dc.Stroke()
		}
		started = false
	}
	for _, idx := range strip {
		if idx == 0 {
			flush()
			continue
		}
		if int(idx) >= len(verts) {
			continue
		}
		x, y := p.Viewport.Project(float64(verts[idx].X), float64(verts[idx].Y))
		if !started {
			dc.MoveTo(x, y)
			started = true
		} else {
			dc.LineTo(x, y)
		}
	}
	flush()
}

// drawIntensity marks each reported area with a filled circle colored by
// its reported intensity level, at the area's labelled station position.
func (d *SoftwareDrawer) drawIntensity(dc *gg.Context, p Params, c render.V0Intensity) {
	for _, level := range render.IntensityLevels {
		codes, ok := c.AreaCodes[level]
		if !ok {
			continue
		}
		col := intensityColor[level]
		dc.SetRGBA(col[0], col[1], col[2], 0.9)
		for _, code := range codes {
			entry, ok := p.Bundle.Areas[code]
			if !ok || entry.StationIndex < 0 || entry.StationIndex >= len(p.Bundle.IntensityStationPositions) {
				continue
			}
			pos := p.Bundle.IntensityStationPositions[entry.StationIndex]
			x, y := p.Viewport.Project(float64(pos.X), float64(pos.Y))
			dc.DrawCircle(x, y, 5)
			dc.Fill()
		}
	}

	if c.Epicenter != nil {
		x, y := p.Viewport.Project(c.Epicenter.Lon, c.Epicenter.Lat)
		dc.SetRGB(0.9, 0.1, 0.1)
		dc.DrawCircle(x, y, 7)
		dc.Fill()
	}

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(c.RequestIdentity(), 8, 8, 0, 1)
}

// drawTsunami fills each forecast zone's triangles in one translucent
// blue; every forecast level is drawn in that same color.
func (d *SoftwareDrawer) drawTsunami(dc *gg.Context, p Params, c render.Tsunami) {
	for levelLabel, codes := range c.Levels {
		dc.SetRGBA(0.10, 0.35, 0.75, 0.55)
		_ = levelLabel
		for _, code := range codes {
			zone, ok := p.Bundle.TsunamiZones[code]
			if !ok {
				continue
			}
			for i := 0; i+2 < len(zone.Triangles); i += 3 {
				d.fillTriangle(dc, p, zone.Triangles[i], zone.Triangles[i+1], zone.Triangles[i+2])
			}
		}
	}
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(c.RequestIdentity(), 8, 8, 0, 1)
}
