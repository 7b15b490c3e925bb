package project

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

func samplePage() *Page {
	cal, _ := measure.NewCalibration(10, 2, measure.Feet)
	return &Page{
		Name:        "Floor 1",
		ImagePath:   "plans/floor1.png",
		Width:       2400,
		Height:      1800,
		Calibration: cal,
		Items: []measure.Measurement{
			{
				ID:    measure.NewID(),
				Type:  measure.Linear,
				Name:  "Linear 1",
				Value: 12.5,
				Unit:  measure.Feet,
				Points: []geometry.Point{
					{X: 10, Y: 20}, {X: 72.5, Y: 20},
				},
				Category: "walls",
			},
			{
				ID:    measure.NewID(),
				Type:  measure.Surface,
				Name:  "Surface 1",
				Value: 96,
				Unit:  measure.Feet,
				Points: []geometry.Point{
					{X: 0, Y: 0}, {X: 120, Y: 0}, {X: 120, Y: 80}, {X: 0, Y: 80},
				},
				Category: "flooring",
			},
			{
				ID:     measure.NewID(),
				Type:   measure.Count,
				Name:   "Count 1",
				Value:  1,
				Points: []geometry.Point{{X: 55, Y: 66}},
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := New("Office fit-out")
	p.AddPage(samplePage())

	path := filepath.Join(t.TempDir(), "nested", "office.yaml")
	if err := p.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(p, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("Load of missing file succeeded")
	}
}

func TestPageDelete(t *testing.T) {
	pg := samplePage()
	first := pg.Items[0].ID
	third := pg.Items[2].ID

	removed := pg.Delete([]measure.ID{first, third, measure.NewID()})
	if removed != 2 {
		t.Fatalf("Delete removed %d, want 2", removed)
	}
	if len(pg.Items) != 1 || pg.Items[0].Name != "Surface 1" {
		t.Fatalf("remaining items wrong: %+v", pg.Items)
	}
}

func TestPageRenameAndRecategorize(t *testing.T) {
	pg := samplePage()
	id := pg.Items[0].ID
	geomBefore := append([]geometry.Point{}, pg.Items[0].Points...)

	pg.Rename(id, "North wall")
	pg.Recategorize(id, "exterior")

	m, ok := pg.Find(id)
	if !ok {
		t.Fatalf("Find lost the measurement")
	}
	if m.Name != "North wall" || m.Category != "exterior" {
		t.Fatalf("edit not applied: %+v", m)
	}
	if diff := cmp.Diff(geomBefore, m.Points); diff != "" {
		t.Fatalf("edit touched geometry:\n%s", diff)
	}

	// Unknown ids are no-ops.
	pg.Rename(measure.NewID(), "ghost")
}

func TestPageTotals(t *testing.T) {
	pg := samplePage()
	pg.Add(measure.Measurement{
		ID: measure.NewID(), Type: measure.Linear, Name: "Linear 2",
		Value: 7.5, Unit: measure.Feet,
		Points: []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}},
	})

	totals := pg.Totals()
	byType := make(map[measure.Type]Total)
	for _, tot := range totals {
		byType[tot.Type] = tot
	}

	if got := byType[measure.Linear]; got.Value != 20 || got.Count != 2 {
		t.Fatalf("linear total = %+v, want value 20 count 2", got)
	}
	if got := byType[measure.Surface]; got.Value != 96 || got.Count != 1 {
		t.Fatalf("surface total = %+v", got)
	}
	if got := byType[measure.Count]; got.Count != 1 {
		t.Fatalf("count total = %+v", got)
	}
}

func TestPageTotalsByCategory(t *testing.T) {
	pg := samplePage()
	pg.Add(measure.Measurement{
		ID: measure.NewID(), Type: measure.Linear, Name: "Linear 2",
		Value: 7.5, Unit: measure.Feet, Category: "walls",
		Points: []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}},
	})

	byCat := make(map[string]CategoryTotal)
	for _, ct := range pg.TotalsByCategory() {
		byCat[ct.Category+"/"+ct.Type.String()] = ct
	}

	if got := byCat["walls/Linear"]; got.Value != 20 || got.Count != 2 {
		t.Fatalf("walls linear total = %+v, want value 20 count 2", got)
	}
	if got := byCat["flooring/Surface"]; got.Value != 96 {
		t.Fatalf("flooring surface total = %+v", got)
	}
	if got, ok := byCat["/Count"]; !ok || got.Count != 1 {
		t.Fatalf("uncategorized count total = %+v ok=%v", got, ok)
	}
}

func TestExportCSV(t *testing.T) {
	p := New("Office fit-out")
	p.AddPage(samplePage())

	var buf bytes.Buffer
	if err := p.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("exported %d lines, want header + 3 rows:\n%s", len(lines), buf.String())
	}
	if lines[0] != "page,name,type,value,unit,category" {
		t.Fatalf("header = %q", lines[0])
	}
	if want := "Floor 1,Linear 1,Linear,12.5,ft,walls"; lines[1] != want {
		t.Fatalf("row 1 = %q, want %q", lines[1], want)
	}
	if !strings.Contains(lines[2], "sq ft") {
		t.Fatalf("surface row missing area unit: %q", lines[2])
	}
	// Counts carry no unit.
	if !strings.HasSuffix(lines[3], ",1,,") {
		t.Fatalf("count row = %q", lines[3])
	}
}
