package ui

import (
	"fmt"
	"strconv"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

// layoutPanel renders the right-hand panel: page switcher, measurement
// list, and per-type totals.
func (a *App) layoutPanel(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(a.layoutPageTabs),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			title := material.Subtitle1(a.gvTheme.Theme, "Measurements")
			title.Font.Weight = font.Bold
			return layout.Inset{Bottom: unit.Dp(6)}.Layout(gtx, title.Layout)
		}),
		layout.Flexed(1, a.layoutItemList),
		layout.Rigid(a.layoutTotals),
	)
}

func (a *App) layoutPageTabs(gtx layout.Context) layout.Dimensions {
	if len(a.proj.Pages) < 2 {
		return layout.Dimensions{}
	}
	if len(a.pageClicks) != len(a.proj.Pages) {
		a.pageClicks = make([]widget.Clickable, len(a.proj.Pages))
	}
	for i := range a.pageClicks {
		for a.pageClicks[i].Clicked(gtx) {
			if i != a.pageIndex {
				a.showPage(i)
			}
		}
	}
	children := []layout.FlexChild{}
	for i, pg := range a.proj.Pages {
		idx, name := i, pg.Name
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			btn := material.Button(a.gvTheme.Theme, &a.pageClicks[idx], name)
			btn.Inset = layout.UniformInset(unit.Dp(4))
			if idx != a.pageIndex {
				btn.Background = a.gvTheme.Bg2
				btn.Color = a.gvTheme.Palette.Fg
			}
			return layout.Inset{Right: unit.Dp(4), Bottom: unit.Dp(8)}.Layout(gtx, btn.Layout)
		}))
	}
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, children...)
}

func (a *App) layoutItemList(gtx layout.Context) layout.Dimensions {
	pg := a.currentPage()
	if pg == nil || len(pg.Items) == 0 {
		empty := material.Caption(a.gvTheme.Theme, "No measurements yet")
		return empty.Layout(gtx)
	}
	if len(a.itemClicks) != len(pg.Items) {
		a.itemClicks = make([]widget.Clickable, len(pg.Items))
	}
	return material.List(a.gvTheme.Theme, &a.itemList).Layout(gtx, len(pg.Items), func(gtx layout.Context, i int) layout.Dimensions {
		m := pg.Items[i]
		for {
			click, ok := a.itemClicks[i].Update(gtx)
			if !ok {
				break
			}
			a.engine.UpdateSelection(m.ID, engineModifiers(click.Modifiers))
		}
		return a.itemClicks[i].Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			row := m.Name
			if m.Type != measure.Count {
				row += "  " + formatValue(m.Type, m.Value, m.Unit)
			}
			if m.Category != "" {
				row += "  [" + m.Category + "]"
			}
			lbl := material.Body2(a.gvTheme.Theme, row)
			if a.engine.IsSelected(m.ID) {
				lbl.Font.Weight = font.Bold
				lbl.Color = a.gvTheme.Palette.ContrastBg
			}
			return layout.Inset{Bottom: unit.Dp(4)}.Layout(gtx, lbl.Layout)
		})
	})
}

func (a *App) layoutTotals(gtx layout.Context) layout.Dimensions {
	pg := a.currentPage()
	if pg == nil {
		return layout.Dimensions{}
	}
	totals := pg.Totals()
	if len(totals) == 0 {
		return layout.Dimensions{}
	}
	children := []layout.FlexChild{
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			title := material.Subtitle2(a.gvTheme.Theme, "Totals")
			title.Font.Weight = font.Bold
			return layout.Inset{Top: unit.Dp(8), Bottom: unit.Dp(4)}.Layout(gtx, title.Layout)
		}),
	}
	for _, tot := range totals {
		tot := tot
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			var line string
			if tot.Type == measure.Count {
				line = fmt.Sprintf("%s: %d", tot.Type, tot.Count)
			} else {
				line = fmt.Sprintf("%s: %s", tot.Type, formatValue(tot.Type, tot.Value, tot.Unit))
			}
			return material.Body2(a.gvTheme.Theme, line).Layout(gtx)
		}))
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}

// formatValue renders a measurement value with its display unit. Surface
// values carry the squared-unit label; uncalibrated values show raw
// pixels.
func formatValue(t measure.Type, value float64, unit measure.Unit) string {
	v := strconv.FormatFloat(value, 'f', 2, 64)
	switch {
	case unit == measure.Pixels || unit == "":
		if t == measure.Surface {
			return v + " sq px"
		}
		return v + " px"
	case t == measure.Surface:
		return v + " " + measure.AreaLabel(unit)
	default:
		return v + " " + string(unit)
	}
}
