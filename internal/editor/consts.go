package editor

// EditorMode is the screen shown on the left of the log panel
type EditorMode int

const (
	ModeTable   EditorMode = iota // grid editing of the live table
	ModeChanges                   // differences from the original and invariant violations
	ModeHelp                      // key reference
)

// EditorModeInfo describes how a mode is shown and selected
type EditorModeInfo struct {
	Mode        EditorMode
	DisplayName string
	KeyBinding  rune
}

// AllEditorModes lists the modes in tab order
var AllEditorModes = []EditorModeInfo{
	{Mode: ModeTable, DisplayName: "Table", KeyBinding: '1'},
	{Mode: ModeChanges, DisplayName: "Changes", KeyBinding: '2'},
	{Mode: ModeHelp, DisplayName: "Help", KeyBinding: '?'},
}

// GetEditorModeByKey returns the mode bound to key
func GetEditorModeByKey(key rune) (EditorMode, bool) {
	for _, info := range AllEditorModes {
		if info.KeyBinding == key {
			return info.Mode, true
		}
	}
	return 0, false
}

// GetEditorModeInfo returns the info for mode
func GetEditorModeInfo(mode EditorMode) (EditorModeInfo, bool) {
	for _, info := range AllEditorModes {
		if info.Mode == mode {
			return info, true
		}
	}
	return EditorModeInfo{}, false
}

// StatusLevel grades a status line message
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusSuccess
	StatusWarning
	StatusError
)

// Status is the one-line banner under the table
type Status struct {
	Level   StatusLevel
	Message string
}

// Nudge steps for keyboard dragging, in in-memory resistance units
const (
	NudgeStepSmall = 10
	NudgeStepLarge = 100
)

// maxLogLines bounds the in-memory log tail shown in the log panel
const maxLogLines = 1000

// maxRecentFiles bounds the recent file list kept in the state file
const maxRecentFiles = 10

// KeyHelp is shown on the help screen, one binding per entry
var KeyHelp = []struct {
	Keys        string
	Description string
}{
	{"Arrows", "Move the cell cursor"},
	{"l", "Make the row under the cursor the active line"},
	{"a", "Add a point to the active line"},
	{"Enter / e", "Edit the point under the cursor"},
	{"x / Delete", "Delete the point under the cursor"},
	{"+ / -", "Drag the point under the cursor (shift for large steps: > / <)"},
	{"Enter", "Finish a drag"},
	{"Esc", "Cancel a drag, otherwise quit"},
	{"f", "Smart fill empty cells"},
	{"r", "Resolve conflicts"},
	{"m", "Smart smooth"},
	{"u / Ctrl-Z", "Undo"},
	{"y / Ctrl-Y", "Redo"},
	{"o", "Toggle the original overlay"},
	{"H", "Set max resistance"},
	{"M", "Set storage multiplier"},
	{"s", "Save"},
	{"c", "Export chart"},
	{"1 / 2 / ?", "Table / Changes / Help"},
	{"q", "Quit"},
}
