package editor

import (
	"context"
	"log"
	"sync"

	"github.com/lowaak/smart-trainer/powertable-app/internal/events"
	"github.com/lowaak/smart-trainer/powertable-app/internal/go_func_utils"
)

// UIState holds what views need to know about the screen itself
type UIState struct {
	Mode EditorMode
}

// ConfirmRequest asks the view to confirm an action before it runs
type ConfirmRequest struct {
	Message   string
	OnConfirm func()
}

// EditorModel is the view-facing side of an Editor. It republishes editor
// state on channels, and holds the session, status line, mode and log tail.
type EditorModel struct {
	editor                *Editor
	logEvent              *events.ChannelEvent[string]
	stateEvent            *events.ChannelEvent[State]
	statusEvent           *events.ChannelEvent[Status]
	status                Status
	sessionEvent          *events.ChannelEvent[Session]
	session               Session
	uiStateEvent          *events.ChannelEvent[UIState]
	uiState               UIState
	confirmEvent          *events.ChannelEvent[ConfirmRequest]
	openRequestEvent      *events.ChannelEvent[string]
	closeApplicationEvent *events.ChannelEvent[struct{}]
	unregisterEditor      func()
	path                  string // file the table was loaded from, empty for a new table
	persistence           *editorPersistence
	logLines              []string
	logMu                 sync.RWMutex
	mu                    sync.RWMutex
	ctx                   context.Context
	cancel                context.CancelFunc
	wg                    sync.WaitGroup
	logger                *log.Logger
}

// NewEditorModel wraps editor. statePath locates the persisted UI state;
// empty means ~/.ptab-editor/state.json.
func NewEditorModel(editor *Editor, logger *log.Logger, uiLogChan <-chan string, statePath string) *EditorModel {
	if editor == nil {
		panic("EditorModel: editor cannot be nil")
	}
	if logger == nil {
		panic("EditorModel: logger cannot be nil")
	}
	if uiLogChan == nil {
		panic("EditorModel: uiLogChan cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	model := &EditorModel{
		editor:                editor,
		logEvent:              events.NewChannelEvent[string](false),
		stateEvent:            events.NewChannelEvent[State](true),
		statusEvent:           events.NewChannelEvent[Status](true),
		sessionEvent:          events.NewChannelEvent[Session](true),
		uiStateEvent:          events.NewChannelEvent[UIState](true),
		uiState:               UIState{Mode: ModeTable},
		confirmEvent:          events.NewChannelEvent[ConfirmRequest](false),
		openRequestEvent:      events.NewChannelEvent[string](false),
		closeApplicationEvent: events.NewChannelEvent[struct{}](true),
		persistence:           newEditorPersistence(statePath, logger),
		logLines:              make([]string, 0, maxLogLines),
		ctx:                   ctx,
		cancel:                cancel,
		logger:                logger,
	}

	// The editor calls back on the committing goroutine; views get a channel
	model.unregisterEditor = editor.OnChange(func(state State) {
		model.stateEvent.Notify(state)
	})

	model.wg.Add(1)
	go_func_utils.SafeGo(model.logger, "EditorModel.readFromLogChannel", func() { model.readFromLogChannel(ctx, uiLogChan) })

	return model
}

// Shutdown stops all goroutines and waits for them to finish
func (m *EditorModel) Shutdown() {
	m.logger.Println("EditorModel: Shutting down")
	m.unregisterEditor()
	m.cancel()
	m.wg.Wait()
	m.logger.Println("EditorModel: Shutdown complete")
}

func (m *EditorModel) Editor() *Editor {
	return m.editor
}

// ListenToLog registers a channel to receive log messages
// Returns a deregistration function that can be called to remove the listener
func (m *EditorModel) ListenToLog(ch chan<- string) func() {
	return m.logEvent.Listen(ch)
}

// ListenToState registers a channel to receive the table state after every change
// Returns a deregistration function that can be called to remove the listener
func (m *EditorModel) ListenToState(ch chan<- State) func() {
	return m.stateEvent.Listen(ch)
}

// GetState returns the current editor state
func (m *EditorModel) GetState() State {
	return m.editor.State()
}

// ListenToStatus registers a channel to receive status line changes
// Returns a deregistration function that can be called to remove the listener
func (m *EditorModel) ListenToStatus(ch chan<- Status) func() {
	return m.statusEvent.Listen(ch)
}

func (m *EditorModel) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// SetStatus replaces the status line and notifies listeners
func (m *EditorModel) SetStatus(level StatusLevel, message string) {
	status := Status{Level: level, Message: message}
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()

	m.statusEvent.Notify(status)
}

// ListenToSession registers a channel to receive session changes
// Returns a deregistration function that can be called to remove the listener
func (m *EditorModel) ListenToSession(ch chan<- Session) func() {
	return m.sessionEvent.Listen(ch)
}

// GetSession returns a copy of the current session
func (m *EditorModel) GetSession() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Clone()
}

// UpdateSession runs fn on the session under the model lock and notifies
// listeners with the result. The session is published even when fn fails,
// since fn may have changed it before failing.
func (m *EditorModel) UpdateSession(fn func(s *Session) error) error {
	m.mu.Lock()
	err := fn(&m.session)
	session := m.session.Clone()
	m.mu.Unlock()

	m.sessionEvent.Notify(session)
	return err
}

// ListenToUIState registers a channel to receive UI state changes
// Returns a deregistration function that can be called to remove the listener
func (m *EditorModel) ListenToUIState(ch chan<- UIState) func() {
	return m.uiStateEvent.Listen(ch)
}

// GetUIState returns the current UI state
func (m *EditorModel) GetUIState() UIState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uiState
}

// SetMode updates the current UI mode and notifies listeners
func (m *EditorModel) SetMode(mode EditorMode) {
	m.mu.Lock()
	if m.uiState.Mode == mode {
		m.mu.Unlock()
		return
	}
	m.uiState.Mode = mode
	state := m.uiState
	m.mu.Unlock()

	m.uiStateEvent.Notify(state)
}

// ListenToConfirm registers a channel to receive confirmation requests
// Returns a deregistration function that can be called to remove the listener
func (m *EditorModel) ListenToConfirm(ch chan<- ConfirmRequest) func() {
	return m.confirmEvent.Listen(ch)
}

// RequestConfirm asks listening views to confirm req
func (m *EditorModel) RequestConfirm(req ConfirmRequest) {
	m.confirmEvent.Notify(req)
}

// ListenToOpenRequest registers a channel to receive file open requests
// Returns a deregistration function that can be called to remove the listener
func (m *EditorModel) ListenToOpenRequest(ch chan<- string) func() {
	return m.openRequestEvent.Listen(ch)
}

// RequestOpen asks the controller to open path
func (m *EditorModel) RequestOpen(path string) {
	m.openRequestEvent.Notify(path)
}

// ListenToCloseApplication registers a channel to receive close application signals
// Returns a deregistration function that can be called to remove the listener
func (m *EditorModel) ListenToCloseApplication(ch chan<- struct{}) func() {
	return m.closeApplicationEvent.Listen(ch)
}

// RequestCloseApplication signals that the application should close
func (m *EditorModel) RequestCloseApplication() {
	m.closeApplicationEvent.Notify(struct{}{})
}

// GetPath returns the file the table is saved to, empty when there is none
func (m *EditorModel) GetPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// SetPath records path as the table's file and remembers it as recent
func (m *EditorModel) SetPath(path string) {
	m.mu.Lock()
	m.path = path
	if path != "" {
		m.persistence.addRecentFile(path)
	}
	m.mu.Unlock()
}

// GetRecentFiles returns recently opened files, most recent first
func (m *EditorModel) GetRecentFiles() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.persistence.recentFiles()
}

// readFromLogChannel reads log lines from the channel and populates logLines
func (m *EditorModel) readFromLogChannel(ctx context.Context, logChan <-chan string) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-logChan:
			if !ok {
				return
			}

			m.logMu.Lock()
			m.logLines = append(m.logLines, line)
			if len(m.logLines) > maxLogLines {
				m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
			}
			m.logMu.Unlock()

			m.logEvent.Notify(line)
		}
	}
}

// GetLogTail returns the last n lines of logs
func (m *EditorModel) GetLogTail(n int) []string {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	if n <= 0 {
		return []string{}
	}
	if n >= len(m.logLines) {
		result := make([]string, len(m.logLines))
		copy(result, m.logLines)
		return result
	}
	result := make([]string, n)
	copy(result, m.logLines[len(m.logLines)-n:])
	return result
}
