package ui

import (
	"os"
	"path/filepath"

	"gioui.org/app"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/oligo/gioview/theme"

	"github.com/OpenTakeLab/OpenTakeoff/internal/project"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/canvas"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

// canvasTools is the toolbar order. The index doubles as the click-array
// index, so keep it in sync with toolIcons in New.
var canvasTools = []canvas.Tool{
	canvas.ToolSelect,
	canvas.ToolPan,
	canvas.ToolLinear,
	canvas.ToolSurface,
	canvas.ToolCount,
	canvas.ToolCalibrate,
}

// App drives the GioView-based takeoff window: one canvas, a measurement
// panel, and a log pane, all fed by a single canvas.Engine.
type App struct {
	window *app.Window
	ops    op.Ops

	gvTheme *theme.Theme

	engine *canvas.Engine
	picker *explorer.Explorer

	proj        *project.Project
	projectPath string
	pageIndex   int
	pageRaster  paint.ImageOp
	pageLoaded  bool
	fitPending  bool

	toolClicks []widget.Clickable
	toolIcons  []*widget.Icon

	fitClick     widget.Clickable
	zoomInClick  widget.Clickable
	zoomOutClick widget.Clickable
	openClick    widget.Clickable
	imageClick   widget.Clickable
	saveClick    widget.Clickable
	exportClick  widget.Clickable
	deleteClick  widget.Clickable
	unitClick    widget.Clickable

	fitIcon     *widget.Icon
	zoomInIcon  *widget.Icon
	zoomOutIcon *widget.Icon
	openIcon    *widget.Icon
	imageIcon   *widget.Icon
	saveIcon    *widget.Icon
	exportIcon  *widget.Icon
	deleteIcon  *widget.Icon

	itemList   widget.List
	itemClicks []widget.Clickable
	pageClicks []widget.Clickable

	calib calibrationDialog

	logs       []string
	logList    widget.List
	statusText string
}

// New builds the window app around an empty untitled project.
func New(w *app.Window) *App {
	a := &App{
		window:  w,
		gvTheme: theme.NewTheme("", nil, true),
		proj:    project.New("Untitled"),
	}

	a.engine = canvas.NewEngine(canvas.Config{
		DisplayUnit:     measure.Feet,
		DefaultCategory: "",
	})
	a.engine.OnMeasurement = a.measurementAdded
	a.engine.OnCalibration = a.calibrationCommitted
	a.engine.OnCalibrationPrompt = a.calib.open
	a.engine.OnSelectionChanged = func() { a.invalidate() }

	a.picker = explorer.NewExplorer(w)

	if icon, err := widget.NewIcon(icons.ActionTouchApp); err == nil {
		a.toolIcons = append(a.toolIcons, icon)
	}
	if icon, err := widget.NewIcon(icons.ActionPanTool); err == nil {
		a.toolIcons = append(a.toolIcons, icon)
	}
	if icon, err := widget.NewIcon(icons.ActionTimeline); err == nil {
		a.toolIcons = append(a.toolIcons, icon)
	}
	if icon, err := widget.NewIcon(icons.ImageCropSquare); err == nil {
		a.toolIcons = append(a.toolIcons, icon)
	}
	if icon, err := widget.NewIcon(icons.SocialPlusOne); err == nil {
		a.toolIcons = append(a.toolIcons, icon)
	}
	if icon, err := widget.NewIcon(icons.ImageStraighten); err == nil {
		a.toolIcons = append(a.toolIcons, icon)
	}
	if icon, err := widget.NewIcon(icons.MapsZoomOutMap); err == nil {
		a.fitIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ActionZoomIn); err == nil {
		a.zoomInIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ActionZoomOut); err == nil {
		a.zoomOutIcon = icon
	}
	if icon, err := widget.NewIcon(icons.FileFolderOpen); err == nil {
		a.openIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ImageAddAPhoto); err == nil {
		a.imageIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ContentSave); err == nil {
		a.saveIcon = icon
	}
	if icon, err := widget.NewIcon(icons.FileFileDownload); err == nil {
		a.exportIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ActionDelete); err == nil {
		a.deleteIcon = icon
	}

	a.toolClicks = make([]widget.Clickable, len(canvasTools))
	a.itemList.Axis = layout.Vertical
	a.logList.Axis = layout.Vertical
	a.logList.ScrollToEnd = true
	a.calib.input.SingleLine = true
	a.calib.input.Submit = true

	if cfg, err := LoadConfig(); err == nil {
		if u, perr := measure.ParseUnit(cfg.DisplayUnit); perr == nil {
			a.engine.SetDisplayUnit(u)
		}
	}

	a.Logf("[BOOT] Takeoff canvas initialized")
	a.Logf("[INFO] Open a project or add a page image to begin")
	a.SetStatus("Ready")
	return a
}

// Run blocks processing window events until the window closes.
func (a *App) Run() error {
	for {
		e := a.window.Event()
		switch ev := e.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, ev)
			a.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

// OpenProject loads a project file and shows its first page.
func (a *App) OpenProject(path string) error {
	p, err := project.Load(path)
	if err != nil {
		return err
	}
	a.proj = p
	a.projectPath = path
	a.showPage(0)
	a.Logf("[INFO] Opened project %s (%d pages)", filepath.Base(path), len(p.Pages))
	return nil
}

// AddPageImage decodes an image file and appends it as a new page.
func (a *App) AddPageImage(path string) error {
	page, _, err := project.NewPageFromImage(path, filepath.Base(path))
	if err != nil {
		return err
	}
	idx := a.proj.AddPage(page)
	a.showPage(idx)
	a.Logf("[INFO] Added page %q (%gx%g px)", page.Name, page.Width, page.Height)
	return nil
}

// showPage points the engine and renderer at a project page. An index
// outside the project clears the canvas.
func (a *App) showPage(index int) {
	a.pageLoaded = false
	pg := a.proj.Page(index)
	if pg == nil {
		a.pageIndex = 0
		a.engine.SetPage(0, geometry.Size{}, nil, measure.Calibration{})
		return
	}
	a.pageIndex = index
	a.engine.SetPage(index, pg.Size(), pg.Items, pg.Calibration)
	if pg.ImagePath != "" {
		img, err := project.LoadImage(pg.ImagePath)
		if err != nil {
			a.Logf("[ERROR] Page image: %v", err)
		} else {
			a.pageRaster = paint.NewImageOp(img.Image)
			a.pageLoaded = true
		}
	}
	// The viewport may not have a size yet on the first frame; the canvas
	// layout performs the fit once it does.
	a.fitPending = true
	a.invalidate()
}

func (a *App) currentPage() *project.Page {
	return a.proj.Page(a.pageIndex)
}

// measurementAdded is the engine's OnMeasurement sink: persist into the
// current page and refresh the engine's hit-test snapshot.
func (a *App) measurementAdded(m measure.Measurement) {
	pg := a.currentPage()
	if pg == nil {
		return
	}
	pg.Add(m)
	a.engine.SetMeasurements(pg.Items)
	if m.Type == measure.Count {
		a.Logf("[MEASURE] %s", m.Name)
	} else {
		a.Logf("[MEASURE] %s: %s", m.Name, formatValue(m.Type, m.Value, m.Unit))
	}
}

func (a *App) calibrationCommitted(c measure.Calibration) {
	pg := a.currentPage()
	if pg == nil {
		return
	}
	pg.Calibration = c
	a.Logf("[CAL] %g px = %g %s", c.PixelDistance, c.RealDistance, c.Unit)
	a.SetStatus("Calibrated: %g px = %g %s", c.PixelDistance, c.RealDistance, c.Unit)
}

func (a *App) deleteSelected() {
	pg := a.currentPage()
	if pg == nil {
		return
	}
	ids := a.engine.SelectedIDs()
	if len(ids) == 0 {
		return
	}
	n := pg.Delete(ids)
	a.engine.SetMeasurements(pg.Items)
	a.Logf("[INFO] Deleted %d measurement(s)", n)
	a.invalidate()
}

func (a *App) saveProject() {
	if a.projectPath == "" {
		a.projectPath = "untitled.takeoff.yaml"
	}
	if err := a.proj.Save(a.projectPath); err != nil {
		a.Logf("[ERROR] Save failed: %v", err)
		return
	}
	a.Logf("[INFO] Saved %s", a.projectPath)
	a.SetStatus("Saved %s", a.projectPath)
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.FillShape(gtx.Ops, a.gvTheme.Palette.Bg, clip.Rect{Max: gtx.Constraints.Max}.Op())

	dims := layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(a.layoutToolbar),
		layout.Flexed(1, a.layoutBody),
		layout.Rigid(a.layoutLogPane),
		layout.Rigid(a.layoutStatusBar),
	)
	if a.calib.visible {
		a.layoutCalibrationDialog(gtx)
	}
	return dims
}

func (a *App) layoutBody(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Flexed(1, a.layoutCanvas),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			width := gtx.Dp(unit.Dp(280))
			gtx.Constraints.Min.X = width
			gtx.Constraints.Max.X = width
			paint.FillShape(gtx.Ops, a.gvTheme.Bg2, clip.Rect{Max: gtx.Constraints.Max}.Op())
			return layout.Inset{Top: unit.Dp(12), Left: unit.Dp(12), Right: unit.Dp(12)}.Layout(gtx, a.layoutPanel)
		}),
	)
}

func (a *App) layoutLogPane(gtx layout.Context) layout.Dimensions {
	height := gtx.Dp(unit.Dp(96))
	gtx.Constraints.Min.Y = height
	gtx.Constraints.Max.Y = height
	paint.FillShape(gtx.Ops, a.gvTheme.Bg2, clip.Rect{Max: gtx.Constraints.Max}.Op())
	return layout.Inset{Top: unit.Dp(4), Left: unit.Dp(8), Right: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return material.List(a.gvTheme.Theme, &a.logList).Layout(gtx, len(a.logs), func(gtx layout.Context, i int) layout.Dimensions {
			line := material.Caption(a.gvTheme.Theme, a.logs[i])
			line.MaxLines = 1
			return line.Layout(gtx)
		})
	})
}

func (a *App) layoutStatusBar(gtx layout.Context) layout.Dimensions {
	height := gtx.Dp(unit.Dp(26))
	gtx.Constraints.Min.Y = height
	gtx.Constraints.Max.Y = height
	paint.FillShape(gtx.Ops, a.gvTheme.Palette.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())

	for a.unitClick.Clicked(gtx) {
		a.cycleDisplayUnit()
	}

	return layout.Inset{Left: unit.Dp(8), Right: unit.Dp(8), Top: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				lbl := material.Caption(a.gvTheme.Theme, a.statusLine())
				lbl.Color = a.gvTheme.Palette.ContrastFg
				lbl.MaxLines = 1
				return lbl.Layout(gtx)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.unitClick.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					lbl := material.Caption(a.gvTheme.Theme, "Unit: "+string(a.engine.DisplayUnit()))
					lbl.Color = a.gvTheme.Palette.ContrastFg
					lbl.Font.Weight = font.Bold
					return lbl.Layout(gtx)
				})
			}),
		)
	})
}

func (a *App) statusLine() string {
	vp := a.engine.Viewport
	tool := a.engine.Tool().String()
	if a.statusText != "" {
		return a.statusText + "  |  " + tool + "  |  " + zoomLabel(vp.Scale)
	}
	return tool + "  |  " + zoomLabel(vp.Scale)
}

// cycleDisplayUnit walks the supported linear units in a fixed order.
func (a *App) cycleDisplayUnit() {
	order := []measure.Unit{measure.Feet, measure.Inches, measure.Meters, measure.Centimeters, measure.Millimeters}
	cur := a.engine.DisplayUnit()
	next := order[0]
	for i, u := range order {
		if u == cur {
			next = order[(i+1)%len(order)]
			break
		}
	}
	a.engine.SetDisplayUnit(next)
	saveDisplayUnit(string(next))
	a.Logf("[INFO] Display unit: %s", next)
}

func (a *App) openProjectPicker() {
	go func() {
		file, err := a.picker.ChooseFile("yaml", "yml")
		if err != nil {
			if err != explorer.ErrUserDecline {
				a.Logf("[ERROR] Project picker failed: %v", err)
			}
			return
		}
		defer file.Close()
		if f, ok := file.(*os.File); ok {
			if err := a.OpenProject(f.Name()); err != nil {
				a.Logf("[ERROR] Open project: %v", err)
			}
		} else {
			a.Logf("[ERROR] Unable to get file path from picker")
		}
	}()
}

func (a *App) openImagePicker() {
	go func() {
		file, err := a.picker.ChooseFile("png", "jpg", "jpeg")
		if err != nil {
			if err != explorer.ErrUserDecline {
				a.Logf("[ERROR] Image picker failed: %v", err)
			}
			return
		}
		defer file.Close()
		if f, ok := file.(*os.File); ok {
			if err := a.AddPageImage(f.Name()); err != nil {
				a.Logf("[ERROR] Add page: %v", err)
			}
		} else {
			a.Logf("[ERROR] Unable to get file path from picker")
		}
	}()
}

func (a *App) exportCSV() {
	path := "takeoff.csv"
	if a.projectPath != "" {
		path = a.projectPath + ".csv"
	}
	f, err := os.Create(path)
	if err != nil {
		a.Logf("[ERROR] Export: %v", err)
		return
	}
	defer f.Close()
	if err := a.proj.ExportCSV(f); err != nil {
		a.Logf("[ERROR] Export: %v", err)
		return
	}
	a.Logf("[INFO] Exported %s", path)
	a.SetStatus("Exported %s", path)
}
