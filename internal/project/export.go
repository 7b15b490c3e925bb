package project

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

// ExportCSV writes one row per measurement across all pages:
// page, name, type, value, unit, category.
func (p *Project) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"page", "name", "type", "value", "unit", "category"}); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	for _, pg := range p.Pages {
		for _, m := range pg.Items {
			row := []string{
				pg.Name,
				m.Name,
				m.Type.String(),
				strconv.FormatFloat(m.Value, 'f', -1, 64),
				unitLabel(m),
				m.Category,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("export csv: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// unitLabel formats a measurement's unit column: area units as their
// square, counts with no unit at all.
func unitLabel(m measure.Measurement) string {
	switch m.Type {
	case measure.Count:
		return ""
	case measure.Surface:
		return measure.AreaLabel(m.Unit)
	}
	return string(m.Unit)
}
