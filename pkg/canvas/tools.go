package canvas

// Tool identifies the active canvas tool. Exactly one tool is active at a
// time; activating a tool while another owns an open draft discards that
// draft.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
	ToolLinear
	ToolSurface
	ToolCount
	ToolCalibrate
)

// String returns the tool name for status display.
func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "Select"
	case ToolPan:
		return "Pan"
	case ToolLinear:
		return "Linear"
	case ToolSurface:
		return "Surface"
	case ToolCount:
		return "Count"
	case ToolCalibrate:
		return "Calibrate"
	}
	return "Unknown"
}

// IsDraw reports whether the tool captures measurement points.
func (t Tool) IsDraw() bool {
	return t == ToolLinear || t == ToolSurface || t == ToolCount
}

// Modifiers is the set of modifier keys held during a pointer event. The
// caller disambiguates platform keys (Shift, Ctrl, Cmd) into this mask so
// the engine never inspects raw keyboard state.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModCommand
)

// Toggle reports whether the event should toggle selection membership
// instead of replacing the selection.
func (m Modifiers) Toggle() bool {
	return m != 0
}

// Additive reports whether a rubber-band result should union with the
// existing selection. Only Shift is additive; Ctrl/Cmd are reserved for
// direct-click toggling.
func (m Modifiers) Additive() bool {
	return m&ModShift != 0
}
