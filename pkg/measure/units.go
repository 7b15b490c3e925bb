// Package measure defines the measurement data model: typed measurement
// records, unit conversion, scale calibration, and the value computations
// that turn captured document-space geometry into real-world lengths and
// areas.
package measure

import "fmt"

// Unit identifies a length unit. Feet is the base unit of the conversion
// table; every other unit is expressed as a factor of feet.
type Unit string

const (
	Feet        Unit = "ft"
	Inches      Unit = "in"
	Meters      Unit = "m"
	Centimeters Unit = "cm"
	Millimeters Unit = "mm"

	// Pixels marks an uncalibrated value: raw document pixels for lengths,
	// squared pixels for areas. It never participates in conversion.
	Pixels Unit = "px"
)

// feetFactor maps a unit to its length in feet.
var feetFactor = map[Unit]float64{
	Feet:        1,
	Inches:      1.0 / 12.0,
	Meters:      3.28084,
	Centimeters: 0.0328084,
	Millimeters: 0.00328084,
}

// ParseUnit returns the Unit named by s, accepting the common spellings a
// user might type.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "ft", "feet", "foot", "'":
		return Feet, nil
	case "in", "inch", "inches", `"`:
		return Inches, nil
	case "m", "meter", "meters", "metre", "metres":
		return Meters, nil
	case "cm", "centimeter", "centimeters", "centimetre", "centimetres":
		return Centimeters, nil
	case "mm", "millimeter", "millimeters", "millimetre", "millimetres":
		return Millimeters, nil
	case "px", "pixel", "pixels":
		return Pixels, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// Valid reports whether u is a convertible length unit.
func (u Unit) Valid() bool {
	_, ok := feetFactor[u]
	return ok
}

// Convert converts a length value from one unit to another. Pixel values
// have no real-world scale and pass through unchanged.
func Convert(value float64, from, to Unit) float64 {
	if from == to || from == Pixels || to == Pixels {
		return value
	}
	ff, ok1 := feetFactor[from]
	tf, ok2 := feetFactor[to]
	if !ok1 || !ok2 {
		return value
	}
	return value * ff / tf
}

// ConvertArea converts an area value between the squares of two length
// units.
func ConvertArea(value float64, from, to Unit) float64 {
	if from == to || from == Pixels || to == Pixels {
		return value
	}
	ff, ok1 := feetFactor[from]
	tf, ok2 := feetFactor[to]
	if !ok1 || !ok2 {
		return value
	}
	f := ff / tf
	return value * f * f
}

// AreaLabel returns the display label for an area in unit u, e.g. "sq ft".
func AreaLabel(u Unit) string {
	if u == Pixels {
		return "sq px"
	}
	return "sq " + string(u)
}
