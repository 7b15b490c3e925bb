// Package canvas implements the interactive measurement engine: a
// pannable/zoomable viewport over a fixed document space, per-tool capture
// state machines for linear, surface and count measurements, a two-click
// scale calibration protocol, and rectangle/point hit-testing over the
// measurements of the active page.
//
// The engine is single-threaded and event-driven: every state transition
// happens synchronously inside a pointer or key handler. It performs no
// I/O and holds no locks; the hosting UI owns the event loop and calls in
// from one goroutine.
package canvas

import (
	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

// Gesture and hit-testing thresholds, in device pixels unless noted.
const (
	// DragThreshold is the cumulative pointer movement that separates a
	// click from a drag.
	DragThreshold = 5.0

	// ClosePolygonThreshold is the pick radius around a surface draft's
	// first vertex that closes the polygon. Divided by the current zoom,
	// so the effective document-space radius shrinks as the user zooms in.
	ClosePolygonThreshold = 10.0

	// CountSize is the edge length of the box drawn (and hit-tested)
	// around a count marker, in document units at scale 1.
	CountSize = 10.0
)

// Config carries the caller-supplied defaults applied when a draft
// finalizes. Passing them explicitly keeps the engine a pure function of
// its inputs; there is no ambient color or category state.
type Config struct {
	DefaultColor    string
	DefaultCategory string
	DisplayUnit     measure.Unit
}

// HitTester resolves which measurement is topmost at a document-space
// point. The renderer that owns z-order implements this; the engine ships
// a geometry-based fallback for hosts without a retained scene graph.
type HitTester interface {
	TopmostMeasurementAt(doc geometry.Point) (measure.ID, bool)
}

// Engine owns all interactive state for one document page: viewport,
// active tool, open draft, pending calibration, and selection. Completed
// work leaves the engine through the On* callbacks; the caller owns
// persistence.
type Engine struct {
	Viewport *Viewport

	config Config
	tool   Tool
	namer  *measure.Namer

	pageIndex    int
	measurements []measure.Measurement
	calibration  measure.Calibration

	draft *Draft
	cal   calibrationDraft

	selection Selection
	hitTester HitTester

	// Pointer gesture state. moved accumulates device-pixel travel since
	// pointer-down; dragging latches once it passes DragThreshold.
	pointerDown bool
	downDevice  geometry.Point
	lastDevice  geometry.Point
	moved       float64
	dragging    bool

	// Rubber-band state, document space. The rectangle is only visible
	// (and only commits a hit-test) once the gesture became a real drag.
	rubberAnchor geometry.Point
	rubberRect   geometry.Rect
	rubberShown  bool

	// OnMeasurement receives each finalized measurement.
	OnMeasurement func(measure.Measurement)
	// OnCalibration receives each committed calibration record.
	OnCalibration func(measure.Calibration)
	// OnCalibrationPrompt fires when the second calibration point lands
	// and the engine needs a user-entered real distance.
	OnCalibrationPrompt func(pixelDistance float64)
	// OnSelectionChanged fires after any selection mutation.
	OnSelectionChanged func()
}

// NewEngine returns an engine with an identity viewport, the select tool
// active, and an empty page.
func NewEngine(cfg Config) *Engine {
	if cfg.DisplayUnit == "" {
		cfg.DisplayUnit = measure.Feet
	}
	return &Engine{
		Viewport:  NewViewport(),
		config:    cfg,
		tool:      ToolSelect,
		namer:     measure.NewNamer(),
		selection: NewSelection(),
	}
}

// SetPage points the engine at a new document page. Any open draft,
// pending calibration points, and the selection are discarded; name
// ordinals are re-seeded from the page's existing measurements so default
// names stay unique.
func (e *Engine) SetPage(index int, docSize geometry.Size, ms []measure.Measurement, cal measure.Calibration) {
	e.pageIndex = index
	e.calibration = cal
	e.Viewport.SetDocumentSize(docSize)
	e.draft = nil
	e.cal.reset()
	e.selection = NewSelection()
	e.resetGesture()

	e.namer = measure.NewNamer()
	counts := make(map[measure.Type]int)
	for _, m := range ms {
		counts[m.Type]++
	}
	for t, n := range counts {
		e.namer.Seed(t, n)
	}
	e.SetMeasurements(ms)
}

// SetMeasurements refreshes the engine's view of the page's measurement
// list after the caller added or deleted records. Selected ids that no
// longer exist are pruned silently.
func (e *Engine) SetMeasurements(ms []measure.Measurement) {
	e.measurements = ms

	live := make(map[measure.ID]bool, len(ms))
	for _, m := range ms {
		live[m.ID] = true
	}
	changed := false
	for _, id := range e.selection.IDs() {
		if !live[id] {
			e.selection.Remove(id)
			changed = true
		}
	}
	if changed {
		e.selectionChanged()
	}
}

// SetCalibration replaces the page calibration wholesale, e.g. after the
// caller loaded a project.
func (e *Engine) SetCalibration(cal measure.Calibration) {
	e.calibration = cal
}

// Calibration returns the calibration applied to new measurement values.
func (e *Engine) Calibration() measure.Calibration {
	return e.calibration
}

// DisplayUnit returns the unit applied to newly emitted measurements.
func (e *Engine) DisplayUnit() measure.Unit {
	return e.config.DisplayUnit
}

// SetDisplayUnit changes the unit applied to measurements emitted from now
// on. Already-emitted measurements keep their recorded unit.
func (e *Engine) SetDisplayUnit(u measure.Unit) {
	if !u.Valid() {
		return
	}
	e.config.DisplayUnit = u
}

// SetHitTester installs the renderer's topmost-measurement resolver. With
// no tester installed, direct clicks fall back to a reverse-order geometry
// walk over the page's measurements.
func (e *Engine) SetHitTester(h HitTester) {
	e.hitTester = h
}

// Tool returns the active tool.
func (e *Engine) Tool() Tool {
	return e.tool
}

// SetTool activates a tool. Switching away from the tool that owns an open
// draft discards the draft; switching away from calibration discards its
// pending points without touching the committed record.
func (e *Engine) SetTool(t Tool) {
	if t == e.tool {
		return
	}
	if e.draft != nil && e.draft.Tool != t {
		e.draft = nil
	}
	if e.tool == ToolCalibrate {
		e.cal.reset()
	}
	e.tool = t
	e.resetGesture()
}

// PointerDown begins a pointer gesture at a device position. Whether it
// becomes a click or a drag is decided by cumulative movement against
// DragThreshold.
func (e *Engine) PointerDown(device geometry.Point, mods Modifiers) {
	e.pointerDown = true
	e.downDevice = device
	e.lastDevice = device
	e.moved = 0
	e.dragging = false
	e.rubberShown = false
	if e.tool == ToolSelect {
		e.rubberAnchor = e.Viewport.DeviceToDocument(device)
	}
}

// PointerMove tracks pointer motion. While a draft is open it refreshes
// the live preview point; during a pressed gesture it accumulates travel
// and, past DragThreshold, pans (pan tool) or stretches the rubber band
// (select tool). Draw tools capture nothing from drags.
func (e *Engine) PointerMove(device geometry.Point, mods Modifiers) {
	doc := e.Viewport.DeviceToDocument(device)
	if e.draft != nil {
		e.draft.Preview = &doc
	}

	if !e.pointerDown {
		e.lastDevice = device
		return
	}

	delta := device.Sub(e.lastDevice)
	e.moved += geometry.Distance(e.lastDevice, device)
	if !e.dragging && e.moved > DragThreshold {
		e.dragging = true
	}

	if e.dragging {
		switch e.tool {
		case ToolPan:
			e.Viewport.PanBy(delta)
		case ToolSelect:
			e.rubberShown = true
			e.rubberRect = geometry.RectFromCorners(e.rubberAnchor, doc)
		}
	}
	e.lastDevice = device
}

// PointerUp ends the gesture. A sub-threshold gesture is a click; a drag
// with the select tool commits the rubber-band hit-test exactly once,
// here.
func (e *Engine) PointerUp(device geometry.Point, mods Modifiers) {
	wasDragging := e.dragging
	wasShown := e.rubberShown
	rect := e.rubberRect
	e.resetGesture()

	if !wasDragging {
		e.click(device, mods)
		return
	}
	if e.tool == ToolSelect && wasShown {
		e.commitRubberBand(rect, mods)
	}
}

// click dispatches a completed click to the active tool.
func (e *Engine) click(device geometry.Point, mods Modifiers) {
	doc := e.Viewport.DeviceToDocument(device)
	switch e.tool {
	case ToolSelect:
		e.directClick(doc, mods)
	case ToolLinear, ToolSurface, ToolCount:
		e.captureClick(doc)
	case ToolCalibrate:
		e.calibrationClick(doc)
	}
}

// KeyEscape discards the open draft or the pending calibration points.
func (e *Engine) KeyEscape() {
	if e.draft != nil {
		e.draft = nil
		return
	}
	e.cal.reset()
}

// KeyEnter force-finalizes a surface draft that already has enough
// vertices; with fewer than three points it is a no-op and the draft stays
// open.
func (e *Engine) KeyEnter() {
	if e.draft == nil || e.draft.Tool != ToolSurface {
		return
	}
	if len(e.draft.Points) < 3 {
		return
	}
	e.finalizeDraft()
}

// RubberBand returns the current selection rectangle in document space and
// whether it should be drawn.
func (e *Engine) RubberBand() (geometry.Rect, bool) {
	return e.rubberRect, e.rubberShown
}

func (e *Engine) resetGesture() {
	e.pointerDown = false
	e.moved = 0
	e.dragging = false
	e.rubberShown = false
	e.rubberRect = geometry.Rect{}
}

func (e *Engine) selectionChanged() {
	if e.OnSelectionChanged != nil {
		e.OnSelectionChanged()
	}
}
