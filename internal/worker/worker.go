// Package worker owns the single dedicated rendering goroutine. Every
// draw call is funnelled through one channel and serialized on one
// goroutine, mirroring the original's "GPU thread" design: the
// rendering backend is not expected to be safe for concurrent use from
// arbitrary goroutines, so every request waits its turn (spec §5
// "Rendering worker").
package worker

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/seismic-render/renderer/internal/assets"
	"github.com/seismic-render/renderer/internal/drawer"
	"github.com/seismic-render/renderer/internal/render"
)

const (
	frameWidth   = 1024
	frameHeight  = 1024
	framePadding = 32.0
)

// RenderingRequest is one unit of work handed to the dedicated render
// goroutine: what to draw, and where to deliver the encoded PNG.
type RenderingRequest struct {
	Context render.Context
	Reply   chan []byte
}

// Worker serializes every draw call onto a single goroutine.
type Worker struct {
	bundle   *assets.Bundle
	drawer   drawer.Drawer
	requests chan RenderingRequest
}

// New starts the worker goroutine and returns a handle to it. queueDepth
// bounds how many requests may be buffered ahead of the draw goroutine
// before Submit blocks.
func New(bundle *assets.Bundle, d drawer.Drawer, queueDepth int) *Worker {
	w := &Worker{
		bundle:   bundle,
		drawer:   d,
		requests: make(chan RenderingRequest, queueDepth),
	}
	go w.run()
	return w
}

// Submit enqueues a render and blocks until a result is ready or ctx is
// cancelled. On cancellation, Submit closes the reply channel to signal
// abandonment to the worker goroutine; the in-flight render itself is
// never cancelled (spec §5 "Cancellation").
func (w *Worker) Submit(ctx context.Context, rc render.Context) ([]byte, error) {
	reply := make(chan []byte, 1)
	req := RenderingRequest{Context: rc, Reply: reply}

	select {
	case w.requests <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case data := <-reply:
		return data, nil
	case <-ctx.Done():
		close(reply)
		return nil, ctx.Err()
	}
}

func (w *Worker) run() {
	for req := range w.requests {
		img, err := w.draw(req.Context)
		if err != nil {
			log.Printf("worker: render failed for %q: %v", req.Context.RequestIdentity(), err)
			w.deliver(req.Reply, nil)
			continue
		}

		// PNG encoding runs on its own goroutine so the draw goroutine can
		// move on to the next request.
		go func(req RenderingRequest, img image.Image) {
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				log.Printf("worker: png encode failed for %q: %v", req.Context.RequestIdentity(), err)
				w.deliver(req.Reply, nil)
				return
			}
			w.deliver(req.Reply, buf.Bytes())
		}(req, img)
	}
}

// deliver sends to reply, recovering if the caller already closed it
// after giving up (client disconnect). That case is logged and dropped
// silently rather than treated as an error.
func (w *Worker) deliver(reply chan []byte, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("worker: reply channel closed by caller, dropping result")
		}
	}()
	reply <- data
}

// draw computes the view for rc, selects an LOD level, and delegates
// pixel production to the configured Drawer.
func (w *Worker) draw(rc render.Context) (image.Image, error) {
	box := w.viewBoundingBox(rc)
	vp, scale := w.viewport(box)

	level, hasLevel := levelFor(w.bundle.ScaleLevelMap, scale)

	return w.drawer.Draw(drawer.Params{
		Bundle:   w.bundle,
		Viewport: vp,
		LODLevel: level,
		HasLOD:   hasLevel,
		Context:  rc,
	})
}

// levelFor mirrors lod.ScaleLevelMap.LevelFor against the bundle's
// persisted (threshold, level) table: first entry, in table order, whose
// threshold is at or below scale.
func levelFor(table []assets.ScaleLevel, scale float64) (level int, ok bool) {
	for _, entry := range table {
		if float64(entry.Threshold) <= scale {
			return entry.Level, true
		}
	}
	return 0, false
}

// viewBoundingBox unions the bounding boxes of every area code referenced
// by rc, falling back to the whole-bundle extent when rc names none
// (e.g. a context whose area lists are all empty).
func (w *Worker) viewBoundingBox(rc render.Context) r2.Box {
	var (
		have bool
		box  r2.Box
	)
	grow := func(code uint16) {
		entry, ok := w.bundle.Areas[code]
		if !ok {
			return
		}
		b := entry.BoundingBox
		if !have {
			box = r2.Box{Min: r2.Vec{X: b.MinLon, Y: b.MinLat}, Max: r2.Vec{X: b.MaxLon, Y: b.MaxLat}}
			have = true
			return
		}
		box.Min.X = math.Min(box.Min.X, b.MinLon)
		box.Min.Y = math.Min(box.Min.Y, b.MinLat)
		box.Max.X = math.Max(box.Max.X, b.MaxLon)
		box.Max.Y = math.Max(box.Max.Y, b.MaxLat)
	}

	switch c := rc.(type) {
	case render.V0Intensity:
		for _, codes := range c.AreaCodes {
			for _, code := range codes {
				grow(code)
			}
		}
	case render.Tsunami:
		for _, codes := range c.Levels {
			for _, code := range codes {
				grow(code)
			}
		}
	}

	if !have {
		return w.wholeExtent()
	}
	return box
}

// wholeExtent spans every vertex in the bundle, used when a context
// names no resolvable area codes.
func (w *Worker) wholeExtent() r2.Box {
	var (
		have bool
		box  r2.Box
	)
	for _, v := range w.bundle.Vertices {
		lon, lat := float64(v.X), float64(v.Y)
		if !have {
			box = r2.Box{Min: r2.Vec{X: lon, Y: lat}, Max: r2.Vec{X: lon, Y: lat}}
			have = true
			continue
		}
		box.Min.X = math.Min(box.Min.X, lon)
		box.Min.Y = math.Min(box.Min.Y, lat)
		box.Max.X = math.Max(box.Max.X, lon)
		box.Max.Y = math.Max(box.Max.Y, lat)
	}
	return box
}

// viewport derives a Mercator affine transform that fits box inside the
// frame with padding, preserving aspect ratio (spec §4.6 "reproject the
// box corners to Web Mercator and derive view centre and scale").
func (w *Worker) viewport(box r2.Box) (drawer.Viewport, float64) {
	minM := project.WGS84.ToMercator(orb.Point{box.Min.X, box.Min.Y})
	maxM := project.WGS84.ToMercator(orb.Point{box.Max.X, box.Max.Y})

	width := maxM[0] - minM[0]
	height := maxM[1] - minM[1]
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	available := float64(frameWidth) - 2*framePadding
	scale := available / width
	if alt := (float64(frameHeight) - 2*framePadding) / height; alt < scale {
		scale = alt
	}

	return drawer.Viewport{
		OffsetX: minM[0] - framePadding/scale,
		OffsetY: minM[1] - framePadding/scale,
		Scale:   scale,
		Width:   frameWidth,
		Height:  frameHeight,
	}, scale
}
