package canvas

import (
	"testing"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

func countAt(p geometry.Point) measure.Measurement {
	return measure.Measurement{
		ID:     measure.NewID(),
		Type:   measure.Count,
		Points: []geometry.Point{p},
	}
}

func linearBetween(a, b geometry.Point) measure.Measurement {
	return measure.Measurement{
		ID:     measure.NewID(),
		Type:   measure.Linear,
		Points: []geometry.Point{a, b},
	}
}

func surfaceOf(points ...geometry.Point) measure.Measurement {
	return measure.Measurement{
		ID:     measure.NewID(),
		Type:   measure.Surface,
		Points: points,
	}
}

func selectionIs(t *testing.T, e *Engine, want ...measure.ID) {
	t.Helper()
	if e.SelectionCount() != len(want) {
		t.Fatalf("selection size = %d, want %d", e.SelectionCount(), len(want))
	}
	for _, id := range want {
		if !e.IsSelected(id) {
			t.Fatalf("id %s missing from selection", id)
		}
	}
}

func TestRubberBandSelectsAndExcludes(t *testing.T) {
	e, _ := testEngine(t)
	inside := countAt(geometry.Point{X: 5, Y: 5})
	outside := countAt(geometry.Point{X: 20, Y: 20})
	e.SetMeasurements([]measure.Measurement{inside, outside})

	drag(e, 0, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 6, Y: 6}, geometry.Point{X: 10, Y: 10})
	selectionIs(t, e, inside.ID)
}

func TestRubberBandShiftUnions(t *testing.T) {
	e, _ := testEngine(t)
	a := countAt(geometry.Point{X: 5, Y: 5})
	b := countAt(geometry.Point{X: 100, Y: 100})
	e.SetMeasurements([]measure.Measurement{a, b})

	drag(e, 0, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 10})
	selectionIs(t, e, a.ID)

	// Shift-drag around b keeps a selected.
	drag(e, ModShift, geometry.Point{X: 95, Y: 95}, geometry.Point{X: 105, Y: 105})
	selectionIs(t, e, a.ID, b.ID)

	// Plain drag around b replaces.
	drag(e, 0, geometry.Point{X: 95, Y: 95}, geometry.Point{X: 105, Y: 105})
	selectionIs(t, e, b.ID)
}

func TestRubberBandReversedDragNormalizes(t *testing.T) {
	e, _ := testEngine(t)
	m := countAt(geometry.Point{X: 5, Y: 5})
	e.SetMeasurements([]measure.Measurement{m})

	// Drag up-left: anchor below and right of the release point.
	drag(e, 0, geometry.Point{X: 10, Y: 10}, geometry.Point{X: 0, Y: 0})
	selectionIs(t, e, m.ID)
}

func TestRubberBandLinearRules(t *testing.T) {
	e, _ := testEngine(t)
	endpointIn := linearBetween(geometry.Point{X: 5, Y: 5}, geometry.Point{X: 200, Y: 200})
	crossing := linearBetween(geometry.Point{X: -50, Y: 25}, geometry.Point{X: 100, Y: 25})
	apart := linearBetween(geometry.Point{X: 200, Y: 0}, geometry.Point{X: 300, Y: 0})
	e.SetMeasurements([]measure.Measurement{endpointIn, crossing, apart})

	drag(e, 0, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 50, Y: 50})
	selectionIs(t, e, endpointIn.ID, crossing.ID)
}

func TestRubberBandSurfaceRules(t *testing.T) {
	e, _ := testEngine(t)
	vertexIn := surfaceOf(geometry.Point{X: 5, Y: 5}, geometry.Point{X: 200, Y: 5}, geometry.Point{X: 200, Y: 200})
	// No vertex inside the band, but the bounding box overlaps it.
	bboxOverlap := surfaceOf(geometry.Point{X: -100, Y: -100}, geometry.Point{X: 300, Y: -100}, geometry.Point{X: 300, Y: 300}, geometry.Point{X: -100, Y: 300})
	farAway := surfaceOf(geometry.Point{X: 500, Y: 500}, geometry.Point{X: 600, Y: 500}, geometry.Point{X: 600, Y: 600})
	e.SetMeasurements([]measure.Measurement{vertexIn, bboxOverlap, farAway})

	drag(e, 0, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 50, Y: 50})
	selectionIs(t, e, vertexIn.ID, bboxOverlap.ID)
}

func TestRubberBandCountBoxScalesWithZoom(t *testing.T) {
	e, _ := testEngine(t)
	m := countAt(geometry.Point{X: 14, Y: 5})
	e.SetMeasurements([]measure.Measurement{m})

	// At scale 1 the marker box spans x in [9,19]; a band ending at x=10
	// overlaps it.
	drag(e, 0, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 10})
	selectionIs(t, e, m.ID)

	// At scale 5 the box shrinks to [13,15] and the same band misses.
	e.Viewport.Scale = 5
	docDrag := func(a, b geometry.Point) {
		drag(e, 0, e.Viewport.DocumentToDevice(a), e.Viewport.DocumentToDevice(b))
	}
	docDrag(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 10})
	selectionIs(t, e)
}

func TestClickWithoutDragIsNotARubberBand(t *testing.T) {
	e, _ := testEngine(t)
	m := countAt(geometry.Point{X: 200, Y: 200})
	e.SetMeasurements([]measure.Measurement{m})
	e.UpdateSelection(m.ID, 0)
	selectionIs(t, e, m.ID)

	// Sub-threshold movement: no rectangle, and a plain empty-space click
	// clears the selection.
	e.PointerDown(geometry.Point{X: 0, Y: 0}, 0)
	e.PointerMove(geometry.Point{X: 2, Y: 2}, 0)
	if _, shown := e.RubberBand(); shown {
		t.Fatalf("rubber band visible below drag threshold")
	}
	e.PointerUp(geometry.Point{X: 2, Y: 2}, 0)
	selectionIs(t, e)

	// Same click with Shift held leaves the selection alone.
	e.UpdateSelection(m.ID, 0)
	clickMods(e, geometry.Point{X: 0, Y: 0}, ModShift)
	selectionIs(t, e, m.ID)
}

func TestDirectClickSemantics(t *testing.T) {
	e, _ := testEngine(t)
	a := countAt(geometry.Point{X: 50, Y: 50})
	b := countAt(geometry.Point{X: 300, Y: 300})
	e.SetMeasurements([]measure.Measurement{a, b})

	click(e, geometry.Point{X: 50, Y: 50})
	selectionIs(t, e, a.ID)

	// Ctrl-click toggles b in, then toggles a out.
	clickMods(e, geometry.Point{X: 300, Y: 300}, ModCtrl)
	selectionIs(t, e, a.ID, b.ID)
	clickMods(e, geometry.Point{X: 50, Y: 50}, ModCtrl)
	selectionIs(t, e, b.ID)

	// Plain click replaces.
	click(e, geometry.Point{X: 50, Y: 50})
	selectionIs(t, e, a.ID)
}

func TestDirectClickTopmostWins(t *testing.T) {
	e, _ := testEngine(t)
	under := countAt(geometry.Point{X: 50, Y: 50})
	over := countAt(geometry.Point{X: 51, Y: 50})
	e.SetMeasurements([]measure.Measurement{under, over})

	// The fallback hit-tester walks paint order back to front.
	click(e, geometry.Point{X: 50, Y: 50})
	selectionIs(t, e, over.ID)
}

type fixedHitTester struct {
	id measure.ID
	ok bool
}

func (f fixedHitTester) TopmostMeasurementAt(geometry.Point) (measure.ID, bool) {
	return f.id, f.ok
}

func TestHitTesterCapabilityPreferred(t *testing.T) {
	e, _ := testEngine(t)
	a := countAt(geometry.Point{X: 50, Y: 50})
	b := countAt(geometry.Point{X: 300, Y: 300})
	e.SetMeasurements([]measure.Measurement{a, b})

	// The installed tester decides "topmost", regardless of geometry.
	e.SetHitTester(fixedHitTester{id: b.ID, ok: true})
	click(e, geometry.Point{X: 50, Y: 50})
	selectionIs(t, e, b.ID)
}

func TestSelectAllAndClear(t *testing.T) {
	e, _ := testEngine(t)
	a := countAt(geometry.Point{X: 1, Y: 1})
	b := linearBetween(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 9, Y: 9})
	e.SetMeasurements([]measure.Measurement{a, b})

	e.SelectAll()
	selectionIs(t, e, a.ID, b.ID)

	e.ClearSelection()
	selectionIs(t, e)
}

func TestStaleSelectionPruned(t *testing.T) {
	e, _ := testEngine(t)
	a := countAt(geometry.Point{X: 1, Y: 1})
	b := countAt(geometry.Point{X: 9, Y: 9})
	e.SetMeasurements([]measure.Measurement{a, b})
	e.SelectAll()

	// b deleted externally; the refreshed list prunes it from selection.
	e.SetMeasurements([]measure.Measurement{a})
	selectionIs(t, e, a.ID)

	// Selecting a stale id is a no-op, not an error.
	e.UpdateSelection(b.ID, 0)
	selectionIs(t, e, a.ID)
}

func TestSelectionChangeCallback(t *testing.T) {
	e, _ := testEngine(t)
	m := countAt(geometry.Point{X: 5, Y: 5})
	e.SetMeasurements([]measure.Measurement{m})

	fired := 0
	e.OnSelectionChanged = func() { fired++ }

	e.UpdateSelection(m.ID, 0)
	if fired != 1 {
		t.Fatalf("callback fired %d times after update, want 1", fired)
	}
	e.ClearSelection()
	if fired != 2 {
		t.Fatalf("callback fired %d times after clear, want 2", fired)
	}
	// Clearing an empty selection changes nothing.
	e.ClearSelection()
	if fired != 2 {
		t.Fatalf("callback fired on no-op clear")
	}
}
