package canvas

import (
	"errors"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

// CalibrationPhase names the states of the two-click calibration protocol.
type CalibrationPhase int

const (
	// CalibrationIdle: the calibration tool is not active.
	CalibrationIdle CalibrationPhase = iota
	// CalibrationAwaitingFirstPoint: tool active, no point captured yet.
	CalibrationAwaitingFirstPoint
	// CalibrationAwaitingSecondPoint: one endpoint captured.
	CalibrationAwaitingSecondPoint
	// CalibrationAwaitingDistance: both endpoints captured; blocked on a
	// user-entered real distance.
	CalibrationAwaitingDistance
)

// ErrNoPendingCalibration is returned when a distance is confirmed without
// two captured calibration points.
var ErrNoPendingCalibration = errors.New("canvas: no calibration awaiting a distance")

// calibrationDraft is the transient state of the calibration protocol.
// Like a measurement draft it is discarded on cancel or tool switch, and
// discarding never touches a previously committed record.
type calibrationDraft struct {
	points        []geometry.Point
	pixelDistance float64
	awaitingInput bool
}

func (c *calibrationDraft) reset() {
	c.points = nil
	c.pixelDistance = 0
	c.awaitingInput = false
}

// CalibrationPhase returns the protocol state for status display.
func (e *Engine) CalibrationPhase() CalibrationPhase {
	switch {
	case e.cal.awaitingInput:
		return CalibrationAwaitingDistance
	case len(e.cal.points) == 1:
		return CalibrationAwaitingSecondPoint
	case e.tool == ToolCalibrate:
		return CalibrationAwaitingFirstPoint
	}
	return CalibrationIdle
}

// CalibrationPoints returns the captured calibration endpoints, in
// document space, for preview rendering.
func (e *Engine) CalibrationPoints() []geometry.Point {
	return e.cal.points
}

// PendingPixelDistance returns the measured pixel distance once both
// calibration points are down.
func (e *Engine) PendingPixelDistance() float64 {
	return e.cal.pixelDistance
}

// calibrationClick captures one calibration endpoint. The second click
// measures the pixel distance and prompts the caller for the real-world
// distance; a second click on top of the first point is ignored, since a
// zero pixel distance can never commit.
func (e *Engine) calibrationClick(doc geometry.Point) {
	if e.cal.awaitingInput {
		return
	}
	if len(e.cal.points) == 0 {
		e.cal.points = []geometry.Point{doc}
		return
	}

	dist := geometry.PolylineLength([]geometry.Point{e.cal.points[0], doc})
	if dist < geometry.Epsilon {
		return
	}
	e.cal.points = append(e.cal.points, doc)
	e.cal.pixelDistance = dist
	e.cal.awaitingInput = true
	if e.OnCalibrationPrompt != nil {
		e.OnCalibrationPrompt(dist)
	}
}

// ConfirmCalibration commits the pending calibration with the user-entered
// real distance. A non-positive distance or invalid unit is rejected at
// this boundary and the protocol stays in the awaiting-distance state; no
// partial record is ever committed.
func (e *Engine) ConfirmCalibration(realDistance float64, unit measure.Unit) error {
	if !e.cal.awaitingInput {
		return ErrNoPendingCalibration
	}
	rec, err := measure.NewCalibration(e.cal.pixelDistance, realDistance, unit)
	if err != nil {
		return err
	}
	e.cal.reset()
	e.calibration = rec
	if e.OnCalibration != nil {
		e.OnCalibration(rec)
	}
	return nil
}

// CancelCalibration discards the captured points and returns the protocol
// to idle, leaving any existing calibration record untouched.
func (e *Engine) CancelCalibration() {
	e.cal.reset()
}
