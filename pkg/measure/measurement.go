package measure

import (
	"fmt"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
)

// Type classifies a measurement by the kind of geometry it captures.
type Type string

const (
	// Linear measures the length of a two-point segment.
	Linear Type = "linear"
	// Surface measures the area enclosed by a polygon. The closing edge
	// from the last vertex back to the first is implicit, never stored.
	Surface Type = "surface"
	// Count marks a single point as one counted item.
	Count Type = "count"
)

// String returns the human-readable name used for default measurement
// names and list display.
func (t Type) String() string {
	switch t {
	case Linear:
		return "Linear"
	case Surface:
		return "Surface"
	case Count:
		return "Count"
	}
	return string(t)
}

// Measurement is one committed takeoff record. Geometry lives in document
// space and is immutable after creation; name and category may be edited
// later.
type Measurement struct {
	ID        ID               `yaml:"id"`
	Type      Type             `yaml:"type"`
	Name      string           `yaml:"name"`
	Value     float64          `yaml:"value"`
	Unit      Unit             `yaml:"unit"`
	Points    []geometry.Point `yaml:"points"`
	PageIndex int              `yaml:"page_index"`

	// Color and Category are opaque references owned by the caller; the
	// engine only carries them through from its finalize configuration.
	Color    string `yaml:"color,omitempty"`
	Category string `yaml:"category,omitempty"`
}

// Validate checks the per-type geometry invariants.
func (m Measurement) Validate() error {
	switch m.Type {
	case Linear:
		if len(m.Points) < 2 {
			return fmt.Errorf("measure: linear %q has %d points, need at least 2", m.Name, len(m.Points))
		}
	case Surface:
		if len(m.Points) < 3 {
			return fmt.Errorf("measure: surface %q has %d points, need at least 3", m.Name, len(m.Points))
		}
	case Count:
		if len(m.Points) != 1 {
			return fmt.Errorf("measure: count %q has %d points, need exactly 1", m.Name, len(m.Points))
		}
	default:
		return fmt.Errorf("measure: unknown type %q", m.Type)
	}
	return nil
}

// Namer hands out default names with a per-type ordinal, "Linear 1",
// "Surface 2" and so on. Ordinals only ever grow, so deleting a
// measurement never causes a name to be reused.
type Namer struct {
	counts map[Type]int
}

// NewNamer returns an empty Namer.
func NewNamer() *Namer {
	return &Namer{counts: make(map[Type]int)}
}

// Next returns the next default name for t.
func (n *Namer) Next(t Type) string {
	n.counts[t]++
	return fmt.Sprintf("%s %d", t, n.counts[t])
}

// Seed advances the ordinal for t to at least count, for resuming a loaded
// project without recycling names.
func (n *Namer) Seed(t Type, count int) {
	if n.counts[t] < count {
		n.counts[t] = count
	}
}
