package ui

import (
	"fmt"
	"time"
)

// maxLogLines bounds the in-memory log pane so long sessions do not grow
// without limit.
const maxLogLines = 500

// Logf appends a timestamped line to the log pane and refreshes the
// window. Safe to call before the first frame.
func (a *App) Logf(format string, args ...interface{}) {
	line := fmt.Sprintf("%s %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	a.logs = append(a.logs, line)
	if len(a.logs) > maxLogLines {
		a.logs = a.logs[len(a.logs)-maxLogLines:]
	}
	a.invalidate()
}

// SetStatus replaces the status bar text.
func (a *App) SetStatus(format string, args ...interface{}) {
	a.statusText = fmt.Sprintf(format, args...)
	a.invalidate()
}

func (a *App) invalidate() {
	if a.window != nil {
		a.window.Invalidate()
	}
}
