package ui

import (
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/unit"
)

// Run launches the Gio UI and blocks until the window closes. Gio owns
// the main thread, so the window loop runs in a goroutine and exits the
// process when it finishes.
func Run(projectPath string) error {
	go func() {
		w := new(app.Window)
		w.Option(app.Title("OpenTakeoff"), app.Size(unit.Dp(1280), unit.Dp(800)))
		a := New(w)
		if projectPath != "" {
			if err := a.OpenProject(projectPath); err != nil {
				a.Logf("[ERROR] Open project: %v", err)
			}
		}
		if err := a.Run(); err != nil {
			log.Printf("ui: %v", err)
		}
		os.Exit(0)
	}()

	app.Main()
	return nil
}
