package ui

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure/distparse"
)

// calibrationDialog is the modal shown once the second calibration point
// lands: the user types the real-world distance for the measured pixel
// span.
type calibrationDialog struct {
	visible bool
	pixels  float64
	input   widget.Editor
	errText string
	ok      widget.Clickable
	cancel  widget.Clickable
}

func (d *calibrationDialog) open(pixelDistance float64) {
	d.visible = true
	d.pixels = pixelDistance
	d.input.SetText("")
	d.errText = ""
}

func (d *calibrationDialog) close() {
	d.visible = false
	d.errText = ""
}

func (a *App) layoutCalibrationDialog(gtx layout.Context) layout.Dimensions {
	// Dim and swallow input behind the modal.
	paint.FillShape(gtx.Ops, color.NRGBA{A: 0x99}, clip.Rect{Max: gtx.Constraints.Max}.Op())

	for a.calib.ok.Clicked(gtx) {
		a.confirmCalibrationInput()
	}
	for a.calib.cancel.Clicked(gtx) {
		a.engine.CancelCalibration()
		a.calib.close()
		a.Logf("[CAL] Calibration cancelled")
	}
	for {
		ev, ok := a.calib.input.Update(gtx)
		if !ok {
			break
		}
		if _, ok := ev.(widget.SubmitEvent); ok {
			a.confirmCalibrationInput()
		}
	}

	return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		width := gtx.Dp(unit.Dp(360))
		gtx.Constraints.Min.X = width
		gtx.Constraints.Max.X = width
		return layout.Stack{}.Layout(gtx,
			layout.Expanded(func(gtx layout.Context) layout.Dimensions {
				card := clip.RRect{
					Rect: image.Rectangle{Max: gtx.Constraints.Min},
					NW:   gtx.Dp(unit.Dp(8)),
					NE:   gtx.Dp(unit.Dp(8)),
					SW:   gtx.Dp(unit.Dp(8)),
					SE:   gtx.Dp(unit.Dp(8)),
				}
				paint.FillShape(gtx.Ops, a.gvTheme.Palette.Bg, card.Op(gtx.Ops))
				return layout.Dimensions{Size: gtx.Constraints.Min}
			}),
			layout.Stacked(func(gtx layout.Context) layout.Dimensions {
				return layout.UniformInset(unit.Dp(16)).Layout(gtx, a.layoutCalibrationForm)
			}),
		)
	})
}

func (a *App) layoutCalibrationForm(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			title := material.Subtitle1(a.gvTheme.Theme, "Set Scale")
			title.Font.Weight = font.Bold
			return layout.Inset{Bottom: unit.Dp(8)}.Layout(gtx, title.Layout)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			sub := material.Body2(a.gvTheme.Theme, fmt.Sprintf("Measured span: %.1f px. Enter the real distance (e.g. 12' 6\", 3.5 m).", a.calib.pixels))
			return layout.Inset{Bottom: unit.Dp(8)}.Layout(gtx, sub.Layout)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			ed := material.Editor(a.gvTheme.Theme, &a.calib.input, "Distance")
			border := widget.Border{Color: a.gvTheme.Palette.ContrastBg, CornerRadius: unit.Dp(4), Width: unit.Dp(1)}
			return border.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.UniformInset(unit.Dp(8)).Layout(gtx, ed.Layout)
			})
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if a.calib.errText == "" {
				return layout.Dimensions{}
			}
			errLbl := material.Caption(a.gvTheme.Theme, a.calib.errText)
			errLbl.Color = color.NRGBA{R: 0xe8, G: 0x39, B: 0x3c, A: 0xff}
			return layout.Inset{Top: unit.Dp(4)}.Layout(gtx, errLbl.Layout)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Top: unit.Dp(12)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween}.Layout(gtx,
					layout.Rigid(material.Button(a.gvTheme.Theme, &a.calib.cancel, "Cancel").Layout),
					layout.Rigid(material.Button(a.gvTheme.Theme, &a.calib.ok, "Apply").Layout),
				)
			})
		}),
	)
}

// confirmCalibrationInput parses the typed distance expression and feeds
// it to the engine. Parse or validation failures keep the dialog open
// with the error shown.
func (a *App) confirmCalibrationInput() {
	value, unit, err := distparse.ParseDefault(a.calib.input.Text(), a.engine.DisplayUnit())
	if err != nil {
		a.calib.errText = err.Error()
		a.invalidate()
		return
	}
	if err := a.engine.ConfirmCalibration(value, unit); err != nil {
		a.calib.errText = err.Error()
		a.invalidate()
		return
	}
	a.calib.close()
}
