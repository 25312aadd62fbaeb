package editor

// EditorViewImpl defines the interface for framework-specific UI implementations
type EditorViewImpl interface {
	// Initialize is called after construction to set up framework-specific widgets
	// controller is used to handle UI events
	Initialize(controller *EditorController)

	// SetupKeyboardHandlers sets up keyboard event handlers
	SetupKeyboardHandlers(controller *EditorController)

	// Run starts the UI framework and blocks until it exits
	Run() error

	// Stop stops the UI framework
	Stop()

	// Draw refreshes/redraws the UI
	Draw() error

	// --- Mode Management ---

	SetMode(mode EditorMode)
	GetCurrentMode() EditorMode

	// --- Log View (shared across modes) ---

	GetLogViewHeight() int
	ClearLogView()
	WriteLogLine(line string) error

	// --- Editing ---

	// UpdateState redraws the table, the changes list and the title from state
	UpdateState(state State)

	// UpdateSession shows the active line, edit target, drag preview and overlay
	UpdateSession(session Session)

	// UpdateStatus shows a status line message
	UpdateStatus(status Status)

	// ShowConfirm asks the user to confirm req and runs req.OnConfirm on yes
	ShowConfirm(req ConfirmRequest)
}
