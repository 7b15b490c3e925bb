package canvas

import (
	"math"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
)

// Zoom bounds for the viewport scale.
const (
	MinScale = 0.1
	MaxScale = 10.0
)

// Viewport reconciles the three coordinate spaces of the measurement
// canvas:
//
//   - device space: raw pointer pixels from the input surface
//   - canvas space: device pixels with the current pan and zoom inverted;
//     this is the space the renderer's transform matrix operates in
//   - document space: the fixed logical space of the loaded page, with its
//     origin centered in the canvas by an offset derived from viewport
//     size, document size, and scale
//
// The viewport is owned by the engine and mutated only by zoom/pan
// gestures and fit-to-view requests.
type Viewport struct {
	// Scale is pixels per document unit, clamped to [MinScale, MaxScale].
	Scale float64

	// Pan is the translation applied after scaling, in device pixels.
	Pan geometry.Point

	ViewportSize geometry.Size
	DocumentSize geometry.Size
}

// NewViewport returns a viewport at 1:1 scale with no pan.
func NewViewport() *Viewport {
	return &Viewport{Scale: 1.0}
}

// DocumentOffset returns the top-left corner of the document rectangle in
// canvas-space units, centering the document within the viewport. Already
// scale-divided, so it composes additively with document coordinates.
// Degenerate viewport or document sizes yield a zero offset rather than a
// division by zero.
func (v *Viewport) DocumentOffset() geometry.Point {
	if v.Scale <= 0 || v.ViewportSize.IsZero() || v.DocumentSize.IsZero() {
		return geometry.Point{}
	}
	return geometry.Point{
		X: (v.ViewportSize.Width - v.DocumentSize.Width*v.Scale) / 2 / v.Scale,
		Y: (v.ViewportSize.Height - v.DocumentSize.Height*v.Scale) / 2 / v.Scale,
	}
}

// DeviceToDocument converts a raw pointer position to document space.
func (v *Viewport) DeviceToDocument(device geometry.Point) geometry.Point {
	scale := v.Scale
	if scale <= 0 {
		scale = 1
	}
	canvas := device.Sub(v.Pan).Scale(1 / scale)
	return canvas.Sub(v.DocumentOffset())
}

// DocumentToCanvas converts a document-space point to canvas space. Scale
// and pan are applied by the renderer's transform, not here.
func (v *Viewport) DocumentToCanvas(doc geometry.Point) geometry.Point {
	return doc.Add(v.DocumentOffset())
}

// DocumentToDevice converts a document-space point all the way back to
// device pixels, composing the canvas offset with the renderer transform.
func (v *Viewport) DocumentToDevice(doc geometry.Point) geometry.Point {
	return v.DocumentToCanvas(doc).Scale(v.Scale).Add(v.Pan)
}

// PanBy shifts the view by a device-pixel delta.
func (v *Viewport) PanBy(delta geometry.Point) {
	v.Pan = v.Pan.Add(delta)
}

// ZoomAt sets the scale, keeping the document point under the given device
// position stationary. The anchor is resolved with the old scale and the
// new pan is solved with the document offset of the new scale; mixing the
// two orders breaks the anchor.
func (v *Viewport) ZoomAt(device geometry.Point, scale float64) {
	scale = clampScale(scale)
	if scale == v.Scale {
		return
	}

	anchor := v.DeviceToDocument(device)
	v.Scale = scale

	// device = (anchor + offset(new scale)) * scale + pan
	canvas := anchor.Add(v.DocumentOffset())
	v.Pan = device.Sub(canvas.Scale(v.Scale))
}

// ZoomBy multiplies the current scale by factor, anchored at the given
// device position.
func (v *Viewport) ZoomBy(device geometry.Point, factor float64) {
	v.ZoomAt(device, v.Scale*factor)
}

// FitToView scales the document to fit the viewport and resets the pan.
// A degenerate viewport or document leaves the viewport untouched.
func (v *Viewport) FitToView() {
	if v.ViewportSize.IsZero() || v.DocumentSize.IsZero() {
		return
	}
	v.Scale = clampScale(math.Min(
		v.ViewportSize.Width/v.DocumentSize.Width,
		v.ViewportSize.Height/v.DocumentSize.Height,
	))
	v.Pan = geometry.Point{}
}

// SetViewportSize records a resize of the hosting surface.
func (v *Viewport) SetViewportSize(s geometry.Size) {
	v.ViewportSize = s
}

// SetDocumentSize records the logical size of the loaded page.
func (v *Viewport) SetDocumentSize(s geometry.Size) {
	v.DocumentSize = s
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
