package canvas

import (
	"math"
	"testing"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

func TestCalibrationProtocol(t *testing.T) {
	e, _ := testEngine(t)

	var committed *measure.Calibration
	var promptedPx float64
	e.OnCalibration = func(c measure.Calibration) { committed = &c }
	e.OnCalibrationPrompt = func(px float64) { promptedPx = px }

	if e.CalibrationPhase() != CalibrationIdle {
		t.Fatalf("phase = %v, want idle", e.CalibrationPhase())
	}

	e.SetTool(ToolCalibrate)
	if e.CalibrationPhase() != CalibrationAwaitingFirstPoint {
		t.Fatalf("phase = %v, want awaiting first point", e.CalibrationPhase())
	}

	click(e, geometry.Point{X: 0, Y: 0})
	if e.CalibrationPhase() != CalibrationAwaitingSecondPoint {
		t.Fatalf("phase = %v, want awaiting second point", e.CalibrationPhase())
	}

	click(e, geometry.Point{X: 6, Y: 8})
	if e.CalibrationPhase() != CalibrationAwaitingDistance {
		t.Fatalf("phase = %v, want awaiting distance", e.CalibrationPhase())
	}
	if math.Abs(promptedPx-10) > 1e-6 {
		t.Fatalf("prompted pixel distance = %v, want 10", promptedPx)
	}

	if err := e.ConfirmCalibration(2, measure.Feet); err != nil {
		t.Fatalf("ConfirmCalibration: %v", err)
	}
	if committed == nil {
		t.Fatalf("no calibration emitted")
	}
	if committed.PixelDistance != 10 || committed.RealDistance != 2 || committed.Unit != measure.Feet {
		t.Fatalf("committed = %+v", committed)
	}
	if !e.Calibration().Calibrated {
		t.Fatalf("engine calibration not updated")
	}
	if e.CalibrationPhase() != CalibrationAwaitingFirstPoint {
		t.Fatalf("protocol did not return to start, phase = %v", e.CalibrationPhase())
	}
}

func TestCalibrationRejectsBadDistance(t *testing.T) {
	e, _ := testEngine(t)
	e.SetTool(ToolCalibrate)
	click(e, geometry.Point{X: 0, Y: 0})
	click(e, geometry.Point{X: 10, Y: 0})

	if err := e.ConfirmCalibration(0, measure.Feet); err == nil {
		t.Fatalf("zero distance accepted")
	}
	if err := e.ConfirmCalibration(-3, measure.Feet); err == nil {
		t.Fatalf("negative distance accepted")
	}
	// Rejection keeps the protocol waiting; a good value still commits.
	if e.CalibrationPhase() != CalibrationAwaitingDistance {
		t.Fatalf("phase after rejection = %v, want awaiting distance", e.CalibrationPhase())
	}
	if err := e.ConfirmCalibration(5, measure.Meters); err != nil {
		t.Fatalf("valid distance rejected after retries: %v", err)
	}
}

func TestCalibrationConfirmWithoutPoints(t *testing.T) {
	e, _ := testEngine(t)
	if err := e.ConfirmCalibration(2, measure.Feet); err != ErrNoPendingCalibration {
		t.Fatalf("err = %v, want ErrNoPendingCalibration", err)
	}
}

func TestCalibrationCancelKeepsExistingRecord(t *testing.T) {
	e, _ := testEngine(t)
	existing, _ := measure.NewCalibration(100, 25, measure.Meters)
	e.SetCalibration(existing)

	e.SetTool(ToolCalibrate)
	click(e, geometry.Point{X: 0, Y: 0})
	click(e, geometry.Point{X: 50, Y: 0})
	e.CancelCalibration()

	if e.Calibration() != existing {
		t.Fatalf("cancel mutated the existing calibration: %+v", e.Calibration())
	}
	if e.CalibrationPhase() != CalibrationAwaitingFirstPoint {
		t.Fatalf("phase after cancel = %v", e.CalibrationPhase())
	}
	if len(e.CalibrationPoints()) != 0 {
		t.Fatalf("points survived cancel")
	}
}

func TestCalibrationToolSwitchDiscardsPoints(t *testing.T) {
	e, _ := testEngine(t)
	e.SetTool(ToolCalibrate)
	click(e, geometry.Point{X: 0, Y: 0})

	e.SetTool(ToolSelect)
	if len(e.CalibrationPoints()) != 0 {
		t.Fatalf("tool switch kept pending calibration points")
	}
	if e.CalibrationPhase() != CalibrationIdle {
		t.Fatalf("phase = %v, want idle", e.CalibrationPhase())
	}
}

func TestCalibrationEscapeDiscardsPoints(t *testing.T) {
	e, _ := testEngine(t)
	e.SetTool(ToolCalibrate)
	click(e, geometry.Point{X: 0, Y: 0})
	e.KeyEscape()
	if len(e.CalibrationPoints()) != 0 {
		t.Fatalf("Escape kept pending calibration points")
	}
}

func TestCalibrationIgnoresZeroLengthPair(t *testing.T) {
	e, _ := testEngine(t)
	e.SetTool(ToolCalibrate)
	click(e, geometry.Point{X: 5, Y: 5})
	click(e, geometry.Point{X: 5, Y: 5})

	// A second click on the first point cannot produce a positive pixel
	// distance, so the protocol keeps waiting for a real second point.
	if e.CalibrationPhase() != CalibrationAwaitingSecondPoint {
		t.Fatalf("phase = %v, want awaiting second point", e.CalibrationPhase())
	}
}
