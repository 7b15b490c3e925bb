// Package project holds the application-side collaborators around the
// canvas engine: the project/page model, YAML persistence, page image
// loading, CSV export, and measurement totals. The engine never imports
// this package; data flows in through engine inputs and back out through
// its callbacks.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

// Page is one document page: a raster image measured at a calibration.
// Width and Height are the ORIGINAL pixel size of the image, so stored
// geometry stays valid even when the displayed raster is downscaled.
type Page struct {
	Name        string                `yaml:"name"`
	ImagePath   string                `yaml:"image_path"`
	Width       float64               `yaml:"width"`
	Height      float64               `yaml:"height"`
	Calibration measure.Calibration   `yaml:"calibration"`
	Items       []measure.Measurement `yaml:"measurements"`
}

// Size returns the page's document-space size.
func (p *Page) Size() geometry.Size {
	return geometry.Size{Width: p.Width, Height: p.Height}
}

// Project is a named set of pages.
type Project struct {
	Name  string  `yaml:"name"`
	Pages []*Page `yaml:"pages"`
}

// New returns an empty project.
func New(name string) *Project {
	return &Project{Name: name}
}

// Load reads a project from a YAML file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("load project %s: %w", path, err)
	}
	return &p, nil
}

// Save writes the project as YAML, creating parent directories as needed.
func (p *Project) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("save project: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// AddPage appends a page and returns its index.
func (p *Project) AddPage(page *Page) int {
	p.Pages = append(p.Pages, page)
	return len(p.Pages) - 1
}

// Page returns the page at index, or nil when out of range.
func (p *Project) Page(index int) *Page {
	if index < 0 || index >= len(p.Pages) {
		return nil
	}
	return p.Pages[index]
}

// Add appends a finalized measurement to the page.
func (pg *Page) Add(m measure.Measurement) {
	pg.Items = append(pg.Items, m)
}

// Delete removes every measurement whose id is in ids and reports how many
// were removed. Unknown ids are ignored.
func (pg *Page) Delete(ids []measure.ID) int {
	drop := make(map[measure.ID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := pg.Items[:0]
	removed := 0
	for _, m := range pg.Items {
		if drop[m.ID] {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	pg.Items = kept
	return removed
}

// Rename sets the display name of a measurement without touching its
// geometry. Unknown ids are a no-op.
func (pg *Page) Rename(id measure.ID, name string) {
	for i := range pg.Items {
		if pg.Items[i].ID == id {
			pg.Items[i].Name = name
			return
		}
	}
}

// Recategorize sets the category reference of a measurement. Unknown ids
// are a no-op.
func (pg *Page) Recategorize(id measure.ID, category string) {
	for i := range pg.Items {
		if pg.Items[i].ID == id {
			pg.Items[i].Category = category
			return
		}
	}
}

// Find returns the measurement with the given id.
func (pg *Page) Find(id measure.ID) (measure.Measurement, bool) {
	for _, m := range pg.Items {
		if m.ID == id {
			return m, true
		}
	}
	return measure.Measurement{}, false
}

// Total is an aggregated value for one measurement type and unit.
type Total struct {
	Type  measure.Type
	Unit  measure.Unit
	Value float64
	Count int
}

// Totals sums the page's measurement values grouped by type and unit.
// Counts sum their item count rather than a unit value.
func (pg *Page) Totals() []Total {
	type key struct {
		t measure.Type
		u measure.Unit
	}
	sums := make(map[key]*Total)
	order := []key{}
	for _, m := range pg.Items {
		k := key{m.Type, m.Unit}
		tot, ok := sums[k]
		if !ok {
			tot = &Total{Type: m.Type, Unit: m.Unit}
			sums[k] = tot
			order = append(order, k)
		}
		tot.Value += m.Value
		tot.Count++
	}
	out := make([]Total, 0, len(order))
	for _, k := range order {
		out = append(out, *sums[k])
	}
	return out
}

// CategoryTotal is an aggregated value for one category, type, and unit.
type CategoryTotal struct {
	Category string
	Total
}

// TotalsByCategory sums measurement values grouped by category, then type
// and unit, in first-seen order. Uncategorized measurements group under
// the empty category.
func (pg *Page) TotalsByCategory() []CategoryTotal {
	type key struct {
		c string
		t measure.Type
		u measure.Unit
	}
	sums := make(map[key]*CategoryTotal)
	order := []key{}
	for _, m := range pg.Items {
		k := key{m.Category, m.Type, m.Unit}
		tot, ok := sums[k]
		if !ok {
			tot = &CategoryTotal{Category: m.Category, Total: Total{Type: m.Type, Unit: m.Unit}}
			sums[k] = tot
			order = append(order, k)
		}
		tot.Value += m.Value
		tot.Count++
	}
	out := make([]CategoryTotal, 0, len(order))
	for _, k := range order {
		out = append(out, *sums[k])
	}
	return out
}
