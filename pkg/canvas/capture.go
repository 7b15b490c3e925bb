package canvas

import (
	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

// Draft is an in-progress measurement capture. It exists only between the
// first captured point and finalize or cancel, and is never persisted.
// Preview is the live pointer position for feedback rendering; it never
// becomes part of the finalized geometry.
type Draft struct {
	Tool    Tool
	Points  []geometry.Point
	Preview *geometry.Point
}

// Draft returns the open draft, or nil. Callers must treat it as
// read-only; the engine owns its lifecycle.
func (e *Engine) Draft() *Draft {
	return e.draft
}

// captureClick feeds one clicked document-space point into the draw state
// machine of the active tool.
func (e *Engine) captureClick(doc geometry.Point) {
	switch e.tool {
	case ToolCount:
		// No draft state: a count finalizes on the click itself.
		e.emit(measure.Count, []geometry.Point{doc})
		return

	case ToolLinear:
		if e.draft == nil {
			e.draft = &Draft{Tool: ToolLinear, Points: []geometry.Point{doc}}
			return
		}
		// Second point completes the segment immediately.
		e.draft.Points = append(e.draft.Points, doc)
		e.finalizeDraft()

	case ToolSurface:
		if e.draft == nil {
			e.draft = &Draft{Tool: ToolSurface, Points: []geometry.Point{doc}}
			return
		}
		if e.shouldClosePolygon(doc) {
			// The closing click maps back to the first vertex; the closing
			// edge stays implicit.
			e.finalizeDraft()
			return
		}
		e.draft.Points = append(e.draft.Points, doc)
	}
}

// shouldClosePolygon reports whether a click at doc closes the surface
// draft: within the zoom-adjusted pick radius of the first vertex and at
// least three vertices already captured. With only two vertices the click
// must become a vertex instead, or the polygon could never reach a valid
// shape.
func (e *Engine) shouldClosePolygon(doc geometry.Point) bool {
	if len(e.draft.Points) < 3 {
		return false
	}
	scale := e.Viewport.Scale
	if scale <= 0 {
		scale = 1
	}
	return geometry.IsNear(doc, e.draft.Points[0], ClosePolygonThreshold/scale)
}

// finalizeDraft turns the open draft into a committed measurement and
// clears it. Drafts below the per-type point minimum are left open; this
// is the invalid-geometry case of the error taxonomy and is never fatal.
func (e *Engine) finalizeDraft() {
	d := e.draft
	if d == nil {
		return
	}
	switch d.Tool {
	case ToolLinear:
		if len(d.Points) < 2 {
			return
		}
		e.draft = nil
		e.emit(measure.Linear, d.Points)
	case ToolSurface:
		if len(d.Points) < 3 {
			return
		}
		e.draft = nil
		e.emit(measure.Surface, d.Points)
	}
}

// emit builds the finalized measurement record, computing its value from
// the captured geometry and the page calibration, and hands it to the
// caller.
func (e *Engine) emit(t measure.Type, points []geometry.Point) {
	geom := make([]geometry.Point, len(points))
	copy(geom, points)

	var value float64
	var unit measure.Unit
	switch t {
	case measure.Surface:
		value, unit = measure.Area(geom, e.calibration, e.config.DisplayUnit)
	case measure.Linear:
		value, unit = measure.Length(geom, e.calibration, e.config.DisplayUnit)
	case measure.Count:
		value, unit = 1, ""
	}

	m := measure.Measurement{
		ID:        measure.NewID(),
		Type:      t,
		Name:      e.namer.Next(t),
		Value:     value,
		Unit:      unit,
		Points:    geom,
		PageIndex: e.pageIndex,
		Color:     e.config.DefaultColor,
		Category:  e.config.DefaultCategory,
	}
	if e.OnMeasurement != nil {
		e.OnMeasurement(m)
	}
}
