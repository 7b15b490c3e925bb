package ui

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/canvas"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

// scrollZoomStep is the zoom factor applied per scroll-wheel notch.
const scrollZoomStep = 1.1

var (
	colorLinear    = color.NRGBA{R: 0x2e, G: 0x7d, B: 0xd1, A: 0xff}
	colorSurface   = color.NRGBA{R: 0x2e, G: 0xb8, B: 0x6b, A: 0xff}
	colorSurfaceBg = color.NRGBA{R: 0x2e, G: 0xb8, B: 0x6b, A: 0x46}
	colorCount     = color.NRGBA{R: 0xd1, G: 0x7d, B: 0x2e, A: 0xff}
	colorSelected  = color.NRGBA{R: 0xe8, G: 0x39, B: 0x3c, A: 0xff}
	colorDraft     = color.NRGBA{R: 0x88, G: 0x88, B: 0xff, A: 0xff}
	colorRubber    = color.NRGBA{R: 0x55, G: 0x99, B: 0xff, A: 0xff}
	colorRubberBg  = color.NRGBA{R: 0x55, G: 0x99, B: 0xff, A: 0x28}
	colorCalibrate = color.NRGBA{R: 0xf0, G: 0x3e, B: 0x8e, A: 0xff}
	colorCanvasBg  = color.NRGBA{R: 0x20, G: 0x22, B: 0x24, A: 0xff}
)

func (a *App) layoutCanvas(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	vp := a.engine.Viewport
	vp.SetViewportSize(geometry.Size{Width: float64(size.X), Height: float64(size.Y)})
	if a.fitPending && !vp.ViewportSize.IsZero() && !vp.DocumentSize.IsZero() {
		vp.FitToView()
		a.fitPending = false
	}

	a.handleCanvasKeys(gtx)

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	paint.FillShape(gtx.Ops, colorCanvasBg, clip.Rect{Max: size}.Op())

	a.handleCanvasPointer(gtx)

	if a.pageLoaded {
		a.drawPageRaster(gtx)
	}
	a.drawMeasurements(gtx)
	a.drawDraft(gtx)
	a.drawCalibration(gtx)
	a.drawRubberBand(gtx)

	if !a.pageLoaded {
		layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			hint := material.Body1(a.gvTheme.Theme, "No page loaded. Open a project or add a page image.")
			hint.Color = color.NRGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}
			return hint.Layout(gtx)
		})
	}

	// Register for pointer events over the whole canvas region.
	event.Op(gtx.Ops, a)

	return layout.Dimensions{Size: size}
}

// handleCanvasPointer drains the frame's pointer events into the engine.
// Primary-button gestures feed Down/Move/Up; the scroll wheel zooms about
// the cursor; a secondary click abandons whatever is in flight.
func (a *App) handleCanvasPointer(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  a,
			Kinds:   pointer.Press | pointer.Release | pointer.Drag | pointer.Move | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -1000, Max: 1000},
		})
		if !ok {
			break
		}
		pev, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		device := geometry.Point{X: float64(pev.Position.X), Y: float64(pev.Position.Y)}
		mods := engineModifiers(pev.Modifiers)

		switch pev.Kind {
		case pointer.Press:
			if pev.Buttons == pointer.ButtonPrimary {
				a.engine.PointerDown(device, mods)
			} else if pev.Buttons == pointer.ButtonSecondary {
				a.engine.KeyEscape()
			}
			gtx.Execute(op.InvalidateCmd{})
		case pointer.Drag, pointer.Move:
			a.engine.PointerMove(device, mods)
			gtx.Execute(op.InvalidateCmd{})
		case pointer.Release:
			a.engine.PointerUp(device, mods)
			gtx.Execute(op.InvalidateCmd{})
		case pointer.Scroll:
			if pev.Scroll.Y != 0 {
				factor := scrollZoomStep
				if pev.Scroll.Y > 0 {
					factor = 1 / scrollZoomStep
				}
				a.engine.Viewport.ZoomBy(device, factor)
				gtx.Execute(op.InvalidateCmd{})
			}
		}
	}
}

func (a *App) handleCanvasKeys(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(key.Filter{Name: key.NameEscape})
		if !ok {
			break
		}
		if kev, ok := ev.(key.Event); ok && kev.State == key.Press {
			a.engine.KeyEscape()
			gtx.Execute(op.InvalidateCmd{})
		}
	}
	for {
		ev, ok := gtx.Event(key.Filter{Name: key.NameReturn})
		if !ok {
			break
		}
		if kev, ok := ev.(key.Event); ok && kev.State == key.Press {
			a.engine.KeyEnter()
			gtx.Execute(op.InvalidateCmd{})
		}
	}
	for {
		ev, ok := gtx.Event(key.Filter{Name: key.NameDeleteBackward}, key.Filter{Name: key.NameDeleteForward})
		if !ok {
			break
		}
		if kev, ok := ev.(key.Event); ok && kev.State == key.Press {
			a.deleteSelected()
			gtx.Execute(op.InvalidateCmd{})
		}
	}
	for {
		ev, ok := gtx.Event(key.Filter{Name: "+", Optional: key.ModShift}, key.Filter{Name: "="})
		if !ok {
			break
		}
		if kev, ok := ev.(key.Event); ok && kev.State == key.Press {
			a.zoomAtCenter(scrollZoomStep)
			gtx.Execute(op.InvalidateCmd{})
		}
	}
	for {
		ev, ok := gtx.Event(key.Filter{Name: "-"})
		if !ok {
			break
		}
		if kev, ok := ev.(key.Event); ok && kev.State == key.Press {
			a.zoomAtCenter(1 / scrollZoomStep)
			gtx.Execute(op.InvalidateCmd{})
		}
	}
	for {
		ev, ok := gtx.Event(key.Filter{Name: "A", Required: key.ModCtrl})
		if !ok {
			break
		}
		if kev, ok := ev.(key.Event); ok && kev.State == key.Press {
			a.engine.SelectAll()
			gtx.Execute(op.InvalidateCmd{})
		}
	}
}

// zoomAtCenter zooms keeping the viewport center fixed, for keyboard zoom
// where there is no cursor anchor.
func (a *App) zoomAtCenter(factor float64) {
	vp := a.engine.Viewport
	center := geometry.Point{X: vp.ViewportSize.Width / 2, Y: vp.ViewportSize.Height / 2}
	vp.ZoomBy(center, factor)
}

// engineModifiers maps Gio's modifier mask onto the engine's.
func engineModifiers(m key.Modifiers) canvas.Modifiers {
	var out canvas.Modifiers
	if m.Contain(key.ModShift) {
		out |= canvas.ModShift
	}
	if m.Contain(key.ModCtrl) {
		out |= canvas.ModCtrl
	}
	if m.Contain(key.ModCommand) {
		out |= canvas.ModCommand
	}
	return out
}

// drawPageRaster paints the page image under the current viewport
// transform. The raster may be a downscaled copy, so its scale factor
// folds in the raster-to-document ratio.
func (a *App) drawPageRaster(gtx layout.Context) {
	vp := a.engine.Viewport
	origin := vp.DocumentToDevice(geometry.Point{})
	rasterW := a.pageRaster.Size().X
	if rasterW == 0 || vp.DocumentSize.Width <= 0 {
		return
	}
	s := float32(vp.Scale * vp.DocumentSize.Width / float64(rasterW))

	defer op.Affine(f32.Affine2D{}.
		Scale(f32.Pt(0, 0), f32.Pt(s, s)).
		Offset(f32.Pt(float32(origin.X), float32(origin.Y)))).Push(gtx.Ops).Pop()
	a.pageRaster.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}

func (a *App) drawMeasurements(gtx layout.Context) {
	pg := a.currentPage()
	if pg == nil {
		return
	}
	for _, m := range pg.Items {
		selected := a.engine.IsSelected(m.ID)
		switch m.Type {
		case measure.Linear:
			a.strokePolyline(gtx, m.Points, false, strokeColor(colorLinear, selected), strokeWidth(selected))
		case measure.Surface:
			a.fillPolygon(gtx, m.Points, colorSurfaceBg)
			a.strokePolyline(gtx, m.Points, true, strokeColor(colorSurface, selected), strokeWidth(selected))
		case measure.Count:
			a.drawCountMarker(gtx, m.Points[0], strokeColor(colorCount, selected))
		}
	}
}

func (a *App) drawDraft(gtx layout.Context) {
	d := a.engine.Draft()
	if d == nil {
		return
	}
	pts := d.Points
	if d.Preview != nil {
		pts = append(append([]geometry.Point{}, pts...), *d.Preview)
	}
	a.strokePolyline(gtx, pts, false, colorDraft, 1.5)
	for _, p := range d.Points {
		a.drawVertexHandle(gtx, p, colorDraft)
	}
}

func (a *App) drawCalibration(gtx layout.Context) {
	pts := a.engine.CalibrationPoints()
	if len(pts) == 0 {
		return
	}
	if len(pts) == 2 {
		a.strokePolyline(gtx, pts, false, colorCalibrate, 2)
	}
	for _, p := range pts {
		a.drawVertexHandle(gtx, p, colorCalibrate)
	}
}

func (a *App) drawRubberBand(gtx layout.Context) {
	rect, ok := a.engine.RubberBand()
	if !ok {
		return
	}
	vp := a.engine.Viewport
	min := vp.DocumentToDevice(rect.Min)
	max := vp.DocumentToDevice(rect.Max)
	r := image.Rect(int(min.X), int(min.Y), int(max.X), int(max.Y))
	paint.FillShape(gtx.Ops, colorRubberBg, clip.Rect(r).Op())
	paint.FillShape(gtx.Ops, colorRubber, clip.Stroke{
		Path:  clip.Rect(r).Path(),
		Width: 1,
	}.Op())
}

// strokePolyline strokes document-space points in device space so line
// width stays constant under zoom.
func (a *App) strokePolyline(gtx layout.Context, pts []geometry.Point, closed bool, col color.NRGBA, width float32) {
	if len(pts) < 2 {
		if len(pts) == 1 {
			a.drawVertexHandle(gtx, pts[0], col)
		}
		return
	}
	vp := a.engine.Viewport
	var path clip.Path
	path.Begin(gtx.Ops)
	first := vp.DocumentToDevice(pts[0])
	path.MoveTo(f32.Pt(float32(first.X), float32(first.Y)))
	for _, p := range pts[1:] {
		d := vp.DocumentToDevice(p)
		path.LineTo(f32.Pt(float32(d.X), float32(d.Y)))
	}
	if closed {
		path.Close()
	}
	paint.FillShape(gtx.Ops, col, clip.Stroke{Path: path.End(), Width: width}.Op())
}

func (a *App) fillPolygon(gtx layout.Context, pts []geometry.Point, col color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	vp := a.engine.Viewport
	var path clip.Path
	path.Begin(gtx.Ops)
	first := vp.DocumentToDevice(pts[0])
	path.MoveTo(f32.Pt(float32(first.X), float32(first.Y)))
	for _, p := range pts[1:] {
		d := vp.DocumentToDevice(p)
		path.LineTo(f32.Pt(float32(d.X), float32(d.Y)))
	}
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

// drawCountMarker draws the fixed document-size count dot. The marker
// scales with zoom like any other document geometry.
func (a *App) drawCountMarker(gtx layout.Context, p geometry.Point, col color.NRGBA) {
	vp := a.engine.Viewport
	c := vp.DocumentToDevice(p)
	r := canvas.CountSize * vp.Scale / 2
	bounds := image.Rect(int(c.X-r), int(c.Y-r), int(c.X+r), int(c.Y+r))
	paint.FillShape(gtx.Ops, col, clip.Ellipse(bounds).Op(gtx.Ops))
}

func (a *App) drawVertexHandle(gtx layout.Context, p geometry.Point, col color.NRGBA) {
	vp := a.engine.Viewport
	c := vp.DocumentToDevice(p)
	const r = 3
	bounds := image.Rect(int(c.X)-r, int(c.Y)-r, int(c.X)+r, int(c.Y)+r)
	paint.FillShape(gtx.Ops, col, clip.Ellipse(bounds).Op(gtx.Ops))
}

func strokeColor(base color.NRGBA, selected bool) color.NRGBA {
	if selected {
		return colorSelected
	}
	return base
}

func strokeWidth(selected bool) float32 {
	if selected {
		return 3
	}
	return 2
}

func zoomLabel(scale float64) string {
	return fmt.Sprintf("%.0f%%", scale*100)
}
