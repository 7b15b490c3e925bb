package measure

import (
	"errors"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
)

// Calibration relates a measured pixel distance on the page to a known
// real-world distance. One record applies to a whole page; replacing it
// rescales every value computed afterwards but never rewrites stored
// geometry.
type Calibration struct {
	PixelDistance float64 `yaml:"pixel_distance"`
	RealDistance  float64 `yaml:"real_distance"`
	Unit          Unit    `yaml:"unit"`
	Calibrated    bool    `yaml:"calibrated"`
}

var (
	ErrNonPositiveDistance = errors.New("measure: calibration distance must be positive")
	ErrInvalidUnit         = errors.New("measure: calibration unit is not a length unit")
)

// NewCalibration builds a committed calibration record, validating the
// invariants: both distances positive, unit convertible.
func NewCalibration(pixelDistance, realDistance float64, unit Unit) (Calibration, error) {
	if pixelDistance <= 0 || realDistance <= 0 {
		return Calibration{}, ErrNonPositiveDistance
	}
	if !unit.Valid() {
		return Calibration{}, ErrInvalidUnit
	}
	return Calibration{
		PixelDistance: pixelDistance,
		RealDistance:  realDistance,
		Unit:          unit,
		Calibrated:    true,
	}, nil
}

// factor returns real units per document pixel, or 0 when uncalibrated.
func (c Calibration) factor() float64 {
	if !c.Calibrated || c.PixelDistance <= 0 {
		return 0
	}
	return c.RealDistance / c.PixelDistance
}

// Length computes the real-world length of a polyline captured in document
// space, converted to displayUnit. Without a calibration the result is the
// raw pixel length and the returned unit is Pixels.
func Length(points []geometry.Point, c Calibration, displayUnit Unit) (float64, Unit) {
	px := geometry.PolylineLength(points)
	f := c.factor()
	if f == 0 {
		return px, Pixels
	}
	return Convert(px*f, c.Unit, displayUnit), displayUnit
}

// Area computes the real-world enclosed area of a polygon captured in
// document space, converted to the square of displayUnit. Without a
// calibration the result is in squared pixels.
func Area(points []geometry.Point, c Calibration, displayUnit Unit) (float64, Unit) {
	px2 := geometry.PolygonArea(points)
	f := c.factor()
	if f == 0 {
		return px2, Pixels
	}
	return ConvertArea(px2*f*f, c.Unit, displayUnit), displayUnit
}
