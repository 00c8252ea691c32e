package worker

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/seismic-render/renderer/internal/assets"
	"github.com/seismic-render/renderer/internal/drawer"
	"github.com/seismic-render/renderer/internal/render"
)

type fakeDrawer struct {
	calls int
	lod   int
	hasLOD bool
}

func (f *fakeDrawer) Draw(p drawer.Params) (image.Image, error) {
	f.calls++
	f.lod = p.LODLevel
	f.hasLOD = p.HasLOD
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	return img, nil
}

func TestSubmit_DeliversRenderedBytes(t *testing.T) {
	d := &fakeDrawer{}
	w := New(&assets.Bundle{Vertices: []assets.Point32{{X: 139, Y: 35}}}, d, 4)

	ctx := render.V0Intensity{Time: time.Now(), Identity: "test#abc"}
	out, err := w.Submit(context.Background(), ctx)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("Submit() returned empty PNG bytes")
	}
	if d.calls != 1 {
		t.Fatalf("drawer called %d times, want 1", d.calls)
	}
}

func TestSubmit_CancelledContextReturnsError(t *testing.T) {
	d := &fakeDrawer{}
	w := New(&assets.Bundle{}, d, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Submit(ctx, render.V0Intensity{Time: time.Now(), Identity: "x"})
	if err == nil {
		t.Fatalf("Submit() error = nil, want context.Canceled")
	}
}

func TestLevelFor_FirstMatchInTableOrder(t *testing.T) {
	table := []assets.ScaleLevel{{Threshold: 10, Level: 5}, {Threshold: 1, Level: 9}}
	level, ok := levelFor(table, 50)
	if !ok || level != 5 {
		t.Fatalf("levelFor() = (%d, %v), want (5, true)", level, ok)
	}

	_, ok = levelFor(table, 0.1)
	if ok {
		t.Fatalf("levelFor() ok = true for scale below every threshold")
	}
}
