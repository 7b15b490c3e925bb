package canvas

import (
	"math"
	"testing"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

// testEngine returns an engine whose viewport maps device coordinates 1:1
// onto document coordinates (no sizes, scale 1, no pan), so tests can
// click in document space directly.
func testEngine(t *testing.T) (*Engine, *[]measure.Measurement) {
	t.Helper()
	e := NewEngine(Config{DisplayUnit: measure.Feet})
	var emitted []measure.Measurement
	e.OnMeasurement = func(m measure.Measurement) {
		emitted = append(emitted, m)
	}
	return e, &emitted
}

// click simulates a press/release pair with no movement.
func click(e *Engine, p geometry.Point) {
	e.PointerDown(p, 0)
	e.PointerUp(p, 0)
}

func clickMods(e *Engine, p geometry.Point, mods Modifiers) {
	e.PointerDown(p, mods)
	e.PointerUp(p, mods)
}

// drag simulates a press, a path of moves, and a release.
func drag(e *Engine, mods Modifiers, path ...geometry.Point) {
	e.PointerDown(path[0], mods)
	for _, p := range path[1:] {
		e.PointerMove(p, mods)
	}
	e.PointerUp(path[len(path)-1], mods)
}

func TestLinearCaptureAutoFinalizes(t *testing.T) {
	e, emitted := testEngine(t)
	e.SetTool(ToolLinear)

	click(e, geometry.Point{X: 0, Y: 0})
	if len(*emitted) != 0 {
		t.Fatalf("linear finalized after one point")
	}
	if e.Draft() == nil || len(e.Draft().Points) != 1 {
		t.Fatalf("draft missing after first point")
	}

	click(e, geometry.Point{X: 3, Y: 4})
	if len(*emitted) != 1 {
		t.Fatalf("linear did not finalize on second point")
	}
	if e.Draft() != nil {
		t.Fatalf("draft survived finalize")
	}

	m := (*emitted)[0]
	if m.Type != measure.Linear || len(m.Points) != 2 {
		t.Fatalf("measurement = %+v", m)
	}
	if math.Abs(m.Value-5) > 1e-6 || m.Unit != measure.Pixels {
		t.Fatalf("uncalibrated value = %v %s, want 5 px", m.Value, m.Unit)
	}
	if m.Name != "Linear 1" {
		t.Fatalf("name = %q, want Linear 1", m.Name)
	}
}

func TestLinearCaptureCalibrated(t *testing.T) {
	e, emitted := testEngine(t)
	cal, _ := measure.NewCalibration(10, 2, measure.Feet)
	e.SetCalibration(cal)
	e.SetTool(ToolLinear)

	click(e, geometry.Point{X: 0, Y: 0})
	click(e, geometry.Point{X: 3, Y: 4})

	m := (*emitted)[0]
	if math.Abs(m.Value-1) > 1e-6 || m.Unit != measure.Feet {
		t.Fatalf("calibrated value = %v %s, want 1 ft", m.Value, m.Unit)
	}
}

func TestSurfaceCaptureClosesNearFirstPoint(t *testing.T) {
	e, emitted := testEngine(t)
	e.SetTool(ToolSurface)

	click(e, geometry.Point{X: 0, Y: 0})
	click(e, geometry.Point{X: 100, Y: 0})
	click(e, geometry.Point{X: 100, Y: 80})
	click(e, geometry.Point{X: 0, Y: 80})
	if len(*emitted) != 0 {
		t.Fatalf("surface finalized before closing click")
	}

	// Click near, not exactly on, the first vertex.
	click(e, geometry.Point{X: 3, Y: 2})
	if len(*emitted) != 1 {
		t.Fatalf("closing click did not finalize")
	}

	m := (*emitted)[0]
	if m.Type != measure.Surface {
		t.Fatalf("type = %s, want surface", m.Type)
	}
	// The closing click never becomes a vertex.
	if len(m.Points) != 4 {
		t.Fatalf("vertex count = %d, want 4", len(m.Points))
	}
	if math.Abs(m.Value-8000) > 1e-3 {
		t.Fatalf("area = %v, want 8000", m.Value)
	}
}

func TestSurfaceThirdClickNearFirstAddsVertex(t *testing.T) {
	e, emitted := testEngine(t)
	e.SetTool(ToolSurface)

	// Two points down; a third click near the first must NOT close.
	click(e, geometry.Point{X: 0, Y: 0})
	click(e, geometry.Point{X: 100, Y: 0})
	click(e, geometry.Point{X: 2, Y: 2})

	if len(*emitted) != 0 {
		t.Fatalf("two-point draft closed, want vertex appended")
	}
	if got := len(e.Draft().Points); got != 3 {
		t.Fatalf("draft has %d points, want 3", got)
	}
}

func TestSurfaceCloseThresholdScalesWithZoom(t *testing.T) {
	e, emitted := testEngine(t)
	e.SetTool(ToolSurface)
	e.Viewport.Scale = 5

	// At scale 5 the document-space close radius is 10/5 = 2. Draft points
	// are given in document space via a 1:1 offset-free viewport, so scale
	// only affects the radius. Note device positions here are doc*5.
	docClick := func(doc geometry.Point) {
		device := e.Viewport.DocumentToDevice(doc)
		click(e, device)
	}
	docClick(geometry.Point{X: 0, Y: 0})
	docClick(geometry.Point{X: 100, Y: 0})
	docClick(geometry.Point{X: 100, Y: 80})

	// 3 document units from the first vertex: outside the shrunken radius,
	// becomes a vertex.
	docClick(geometry.Point{X: 3, Y: 0})
	if len(*emitted) != 0 {
		t.Fatalf("click outside zoomed radius closed the polygon")
	}
	// 1 document unit away: inside, closes.
	docClick(geometry.Point{X: 1, Y: 0})
	if len(*emitted) != 1 {
		t.Fatalf("click inside zoomed radius did not close")
	}
}

func TestSurfaceEnterForceFinalizes(t *testing.T) {
	e, emitted := testEngine(t)
	e.SetTool(ToolSurface)

	click(e, geometry.Point{X: 0, Y: 0})
	click(e, geometry.Point{X: 4, Y: 0})
	e.KeyEnter()
	if len(*emitted) != 0 {
		t.Fatalf("Enter finalized a two-point surface")
	}
	if e.Draft() == nil {
		t.Fatalf("draft discarded by rejected Enter")
	}

	click(e, geometry.Point{X: 4, Y: 3})
	e.KeyEnter()
	if len(*emitted) != 1 {
		t.Fatalf("Enter did not finalize a three-point surface")
	}
	if math.Abs((*emitted)[0].Value-6) > 1e-6 {
		t.Fatalf("area = %v, want 6", (*emitted)[0].Value)
	}
}

func TestCountCaptureImmediate(t *testing.T) {
	e, emitted := testEngine(t)
	e.SetTool(ToolCount)

	click(e, geometry.Point{X: 7, Y: 9})
	if len(*emitted) != 1 {
		t.Fatalf("count did not finalize on click")
	}
	m := (*emitted)[0]
	if m.Type != measure.Count || len(m.Points) != 1 || m.Value != 1 {
		t.Fatalf("count measurement = %+v", m)
	}
	if e.Draft() != nil {
		t.Fatalf("count left a draft open")
	}
}

func TestEscapeDiscardsDraft(t *testing.T) {
	e, emitted := testEngine(t)
	e.SetTool(ToolLinear)

	click(e, geometry.Point{X: 0, Y: 0})
	e.KeyEscape()
	if e.Draft() != nil {
		t.Fatalf("Escape did not discard the draft")
	}

	// The next capture starts fresh.
	click(e, geometry.Point{X: 10, Y: 0})
	click(e, geometry.Point{X: 20, Y: 0})
	if len(*emitted) != 1 {
		t.Fatalf("capture after Escape emitted %d measurements", len(*emitted))
	}
	if got := (*emitted)[0].Value; math.Abs(got-10) > 1e-6 {
		t.Fatalf("length = %v, want 10 (stale first point leaked in)", got)
	}
}

func TestToolSwitchDiscardsDraft(t *testing.T) {
	e, _ := testEngine(t)
	e.SetTool(ToolSurface)

	click(e, geometry.Point{X: 0, Y: 0})
	click(e, geometry.Point{X: 10, Y: 0})
	e.SetTool(ToolLinear)
	if e.Draft() != nil {
		t.Fatalf("tool switch kept the surface draft")
	}
}

func TestPreviewPointTracksPointer(t *testing.T) {
	e, emitted := testEngine(t)
	e.SetTool(ToolLinear)

	click(e, geometry.Point{X: 0, Y: 0})
	e.PointerMove(geometry.Point{X: 50, Y: 60}, 0)

	d := e.Draft()
	if d.Preview == nil || *d.Preview != (geometry.Point{X: 50, Y: 60}) {
		t.Fatalf("preview = %v, want (50,60)", d.Preview)
	}

	// The preview never joins the finalized geometry.
	click(e, geometry.Point{X: 3, Y: 4})
	if got := len((*emitted)[0].Points); got != 2 {
		t.Fatalf("finalized with %d points, want 2", got)
	}
}

func TestDragWithDrawToolCapturesNothing(t *testing.T) {
	e, emitted := testEngine(t)
	e.SetTool(ToolLinear)

	drag(e, 0, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 30, Y: 0}, geometry.Point{X: 60, Y: 0})
	if e.Draft() != nil || len(*emitted) != 0 {
		t.Fatalf("drag with draw tool captured a point")
	}

	// Sub-threshold jitter still counts as a click.
	e.PointerDown(geometry.Point{X: 0, Y: 0}, 0)
	e.PointerMove(geometry.Point{X: 1, Y: 1}, 0)
	e.PointerUp(geometry.Point{X: 1, Y: 1}, 0)
	if e.Draft() == nil {
		t.Fatalf("jittered click did not capture")
	}
}

func TestPanToolDragsViewport(t *testing.T) {
	e, _ := testEngine(t)
	e.SetTool(ToolPan)

	drag(e, 0, geometry.Point{X: 100, Y: 100}, geometry.Point{X: 150, Y: 120}, geometry.Point{X: 200, Y: 100})
	// Deltas past the threshold accumulate into the pan.
	if e.Viewport.Pan == (geometry.Point{}) {
		t.Fatalf("pan tool drag left pan at zero")
	}

	// A plain click with the pan tool moves nothing and captures nothing.
	e.Viewport.Pan = geometry.Point{}
	click(e, geometry.Point{X: 100, Y: 100})
	if e.Viewport.Pan != (geometry.Point{}) {
		t.Fatalf("pan tool click moved the viewport")
	}
}

func TestDefaultConfigAppliedOnFinalize(t *testing.T) {
	e := NewEngine(Config{
		DefaultColor:    "#ff0000",
		DefaultCategory: "walls",
		DisplayUnit:     measure.Meters,
	})
	var got measure.Measurement
	e.OnMeasurement = func(m measure.Measurement) { got = m }

	cal, _ := measure.NewCalibration(1, 1, measure.Meters)
	e.SetCalibration(cal)
	e.SetTool(ToolLinear)
	click(e, geometry.Point{X: 0, Y: 0})
	click(e, geometry.Point{X: 10, Y: 0})

	if got.Color != "#ff0000" || got.Category != "walls" {
		t.Fatalf("defaults not applied: %+v", got)
	}
	if got.Unit != measure.Meters || math.Abs(got.Value-10) > 1e-6 {
		t.Fatalf("value = %v %s, want 10 m", got.Value, got.Unit)
	}
}

func TestNamerOrdinalsPerType(t *testing.T) {
	e, emitted := testEngine(t)

	e.SetTool(ToolCount)
	click(e, geometry.Point{X: 1, Y: 1})
	click(e, geometry.Point{X: 2, Y: 2})
	e.SetTool(ToolLinear)
	click(e, geometry.Point{X: 0, Y: 0})
	click(e, geometry.Point{X: 5, Y: 0})

	names := []string{(*emitted)[0].Name, (*emitted)[1].Name, (*emitted)[2].Name}
	want := []string{"Count 1", "Count 2", "Linear 1"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}
