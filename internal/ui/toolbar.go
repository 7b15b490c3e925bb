package ui

import (
	"image"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"

	"gioui.org/widget/material"
)

func (a *App) layoutToolbar(gtx layout.Context) layout.Dimensions {
	height := gtx.Dp(unit.Dp(44))
	gtx.Constraints.Min.Y = height
	gtx.Constraints.Max.Y = height
	paint.FillShape(gtx.Ops, a.gvTheme.Bg2, clip.Rect{Max: gtx.Constraints.Max}.Op())

	for i := range a.toolClicks {
		for a.toolClicks[i].Clicked(gtx) {
			a.engine.SetTool(canvasTools[i])
			a.Logf("[INFO] Tool: %s", canvasTools[i])
		}
	}
	for a.fitClick.Clicked(gtx) {
		a.engine.Viewport.FitToView()
	}
	for a.zoomInClick.Clicked(gtx) {
		a.zoomAtCenter(scrollZoomStep)
	}
	for a.zoomOutClick.Clicked(gtx) {
		a.zoomAtCenter(1 / scrollZoomStep)
	}
	for a.openClick.Clicked(gtx) {
		a.openProjectPicker()
	}
	for a.imageClick.Clicked(gtx) {
		a.openImagePicker()
	}
	for a.saveClick.Clicked(gtx) {
		a.saveProject()
	}
	for a.exportClick.Clicked(gtx) {
		a.exportCSV()
	}
	for a.deleteClick.Clicked(gtx) {
		a.deleteSelected()
	}

	return layout.Inset{Left: unit.Dp(8), Right: unit.Dp(8), Top: unit.Dp(4), Bottom: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		children := []layout.FlexChild{}
		for i := range canvasTools {
			idx := i
			children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				var icon *widget.Icon
				if idx < len(a.toolIcons) {
					icon = a.toolIcons[idx]
				}
				return a.layoutToolButton(gtx, &a.toolClicks[idx], icon, a.engine.Tool() == canvasTools[idx])
			}))
		}
		children = append(children,
			layout.Rigid(a.toolbarSpacer),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.layoutToolButton(gtx, &a.fitClick, a.fitIcon, false)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.layoutToolButton(gtx, &a.zoomInClick, a.zoomInIcon, false)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.layoutToolButton(gtx, &a.zoomOutClick, a.zoomOutIcon, false)
			}),
			layout.Rigid(a.toolbarSpacer),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.layoutToolButton(gtx, &a.openClick, a.openIcon, false)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.layoutToolButton(gtx, &a.imageClick, a.imageIcon, false)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.layoutToolButton(gtx, &a.saveClick, a.saveIcon, false)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.layoutToolButton(gtx, &a.exportClick, a.exportIcon, false)
			}),
			layout.Rigid(a.toolbarSpacer),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.layoutToolButton(gtx, &a.deleteClick, a.deleteIcon, false)
			}),
		)
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx, children...)
	})
}

func (a *App) toolbarSpacer(gtx layout.Context) layout.Dimensions {
	return layout.Spacer{Width: unit.Dp(16)}.Layout(gtx)
}

func (a *App) layoutToolButton(gtx layout.Context, click *widget.Clickable, icon *widget.Icon, active bool) layout.Dimensions {
	size := gtx.Dp(unit.Dp(36))
	return layout.Inset{Right: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return click.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min = image.Pt(size, size)
			gtx.Constraints.Max = gtx.Constraints.Min
			bg := a.gvTheme.Bg2
			fg := a.gvTheme.Palette.Fg
			if active {
				bg = a.gvTheme.Palette.ContrastBg
				fg = a.gvTheme.Palette.ContrastFg
			}
			card := clip.RRect{
				Rect: image.Rectangle{Max: gtx.Constraints.Max},
				NW:   gtx.Dp(unit.Dp(6)),
				NE:   gtx.Dp(unit.Dp(6)),
				SW:   gtx.Dp(unit.Dp(6)),
				SE:   gtx.Dp(unit.Dp(6)),
			}
			paint.FillShape(gtx.Ops, bg, card.Op(gtx.Ops))
			return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				if icon == nil {
					lbl := material.Caption(a.gvTheme.Theme, "?")
					lbl.Color = fg
					return lbl.Layout(gtx)
				}
				return icon.Layout(gtx, fg)
			})
		})
	})
}
