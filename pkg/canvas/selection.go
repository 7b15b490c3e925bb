package canvas

import (
	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

// Selection is an unordered set of measurement ids. External collaborators
// read it but route every mutation through the engine so the modifier-key
// semantics stay in one place.
type Selection map[measure.ID]struct{}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return make(Selection)
}

// Has reports membership.
func (s Selection) Has(id measure.ID) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id.
func (s Selection) Add(id measure.ID) {
	s[id] = struct{}{}
}

// Remove deletes id; absent ids are a no-op.
func (s Selection) Remove(id measure.ID) {
	delete(s, id)
}

// Toggle flips membership of id.
func (s Selection) Toggle(id measure.ID) {
	if s.Has(id) {
		delete(s, id)
	} else {
		s[id] = struct{}{}
	}
}

// IDs returns the members in unspecified order.
func (s Selection) IDs() []measure.ID {
	ids := make([]measure.ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the member count.
func (s Selection) Len() int {
	return len(s)
}

// IsSelected reports whether id is in the current selection.
func (e *Engine) IsSelected(id measure.ID) bool {
	return e.selection.Has(id)
}

// SelectedIDs returns a snapshot of the current selection.
func (e *Engine) SelectedIDs() []measure.ID {
	return e.selection.IDs()
}

// SelectionCount returns the number of selected measurements.
func (e *Engine) SelectionCount() int {
	return e.selection.Len()
}

// SelectAll selects every measurement on the active page.
func (e *Engine) SelectAll() {
	e.selection = NewSelection()
	for _, m := range e.measurements {
		e.selection.Add(m.ID)
	}
	e.selectionChanged()
}

// ClearSelection empties the selection.
func (e *Engine) ClearSelection() {
	if e.selection.Len() == 0 {
		return
	}
	e.selection = NewSelection()
	e.selectionChanged()
}

// UpdateSelection applies the direct-click semantics to an id chosen
// outside the canvas, e.g. a list panel row: no modifier replaces the
// selection with the id, a modifier toggles its membership. Ids that no
// longer exist on the page are ignored.
func (e *Engine) UpdateSelection(id measure.ID, mods Modifiers) {
	if !e.hasMeasurement(id) {
		return
	}
	if mods.Toggle() {
		e.selection.Toggle(id)
	} else {
		e.selection = NewSelection()
		e.selection.Add(id)
	}
	e.selectionChanged()
}

// directClick resolves a click with the select tool: topmost measurement
// under the pointer replaces or toggles; empty space clears unless a
// modifier protects the existing selection.
func (e *Engine) directClick(doc geometry.Point, mods Modifiers) {
	id, ok := e.topmostAt(doc)
	if !ok {
		if !mods.Toggle() {
			e.ClearSelection()
		}
		return
	}
	if mods.Toggle() {
		e.selection.Toggle(id)
	} else {
		e.selection = NewSelection()
		e.selection.Add(id)
	}
	e.selectionChanged()
}

// commitRubberBand hit-tests every measurement on the page against the
// final rectangle. This runs exactly once per drag, at pointer-up; the
// rectangle geometry itself is updated every frame but never re-tested
// mid-drag.
func (e *Engine) commitRubberBand(rect geometry.Rect, mods Modifiers) {
	rect = rect.Normalize()

	hits := NewSelection()
	for _, m := range e.measurements {
		if e.hitInRect(m, rect) {
			hits.Add(m.ID)
		}
	}

	if mods.Additive() {
		for id := range hits {
			e.selection.Add(id)
		}
	} else {
		e.selection = hits
	}
	e.selectionChanged()
}

// hitInRect applies the per-type rectangle selection rules.
func (e *Engine) hitInRect(m measure.Measurement, rect geometry.Rect) bool {
	switch m.Type {
	case measure.Linear:
		for _, p := range m.Points {
			if geometry.PointInRect(p, rect) {
				return true
			}
		}
		for i := 1; i < len(m.Points); i++ {
			if geometry.SegmentIntersectsRect(m.Points[i-1], m.Points[i], rect) {
				return true
			}
		}
		return false

	case measure.Surface:
		for _, p := range m.Points {
			if geometry.PointInRect(p, rect) {
				return true
			}
		}
		return geometry.RectsIntersect(geometry.BoundingBox(m.Points), rect)

	case measure.Count:
		if len(m.Points) == 0 {
			return false
		}
		half := e.countHalfSize()
		box := geometry.Rect{Min: m.Points[0], Max: m.Points[0]}.Expand(half)
		return geometry.RectsIntersect(box, rect)
	}
	return false
}

// countHalfSize returns half the document-space edge of a count marker box
// at the current zoom.
func (e *Engine) countHalfSize() float64 {
	scale := e.Viewport.Scale
	if scale <= 0 {
		scale = 1
	}
	return CountSize / scale / 2
}

// topmostAt resolves the measurement under a document-space point,
// preferring the installed HitTester. The fallback walks the page's
// measurements from last to first, matching paint order, with a pick
// radius scaled by the inverse zoom.
func (e *Engine) topmostAt(doc geometry.Point) (measure.ID, bool) {
	if e.hitTester != nil {
		return e.hitTester.TopmostMeasurementAt(doc)
	}

	scale := e.Viewport.Scale
	if scale <= 0 {
		scale = 1
	}
	radius := ClosePolygonThreshold / scale

	for i := len(e.measurements) - 1; i >= 0; i-- {
		m := e.measurements[i]
		if hitMeasurementAt(m, doc, radius) {
			return m.ID, true
		}
	}
	return measure.ID{}, false
}

// hitMeasurementAt reports whether a point-pick at doc lands on m.
func hitMeasurementAt(m measure.Measurement, doc geometry.Point, radius float64) bool {
	switch m.Type {
	case measure.Count:
		return len(m.Points) == 1 && geometry.IsNear(doc, m.Points[0], radius)

	case measure.Linear:
		probe := geometry.Rect{Min: doc, Max: doc}.Expand(radius)
		for i := 1; i < len(m.Points); i++ {
			if geometry.SegmentIntersectsRect(m.Points[i-1], m.Points[i], probe) {
				return true
			}
		}
		return false

	case measure.Surface:
		probe := geometry.Rect{Min: doc, Max: doc}.Expand(radius)
		n := len(m.Points)
		for i := 0; i < n; i++ {
			// Includes the implicit closing edge.
			if geometry.SegmentIntersectsRect(m.Points[i], m.Points[(i+1)%n], probe) {
				return true
			}
		}
		return false
	}
	return false
}

func (e *Engine) hasMeasurement(id measure.ID) bool {
	for _, m := range e.measurements {
		if m.ID == id {
			return true
		}
	}
	return false
}
