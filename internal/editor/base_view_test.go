package editor

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/smart-trainer/powertable-app/internal/chart"
)

// fakeViewImpl records what BaseEditorView pushes into it
type fakeViewImpl struct {
	mu       sync.Mutex
	mode     EditorMode
	state    State
	session  Session
	status   Status
	confirms []ConfirmRequest
	log      []string
	stopped  bool
	draws    int
}

func (f *fakeViewImpl) Initialize(*EditorController)            {}
func (f *fakeViewImpl) SetupKeyboardHandlers(*EditorController) {}
func (f *fakeViewImpl) Run() error                              { return nil }

func (f *fakeViewImpl) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeViewImpl) Draw() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draws++
	return nil
}

func (f *fakeViewImpl) SetMode(mode EditorMode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = mode
}

func (f *fakeViewImpl) GetCurrentMode() EditorMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

func (f *fakeViewImpl) GetLogViewHeight() int { return 2 }

func (f *fakeViewImpl) ClearLogView() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log = nil
}

func (f *fakeViewImpl) WriteLogLine(line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log = append(f.log, line)
	return nil
}

func (f *fakeViewImpl) UpdateState(state State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = state
}

func (f *fakeViewImpl) UpdateSession(session Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = session
}

func (f *fakeViewImpl) UpdateStatus(status Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *fakeViewImpl) ShowConfirm(req ConfirmRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirms = append(f.confirms, req)
}

func (f *fakeViewImpl) snapshot(read func(f *fakeViewImpl) bool) func() bool {
	return func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return read(f)
	}
}

func newTestBaseView(t *testing.T) (*BaseEditorView, *fakeViewImpl, *EditorModel, chan string) {
	t.Helper()
	logChan := make(chan string, 8)
	e := New(Options{}, newTestLogger())
	m := NewEditorModel(e, newTestLogger(), logChan, filepath.Join(t.TempDir(), "state.json"))
	c := NewEditorController(m, chart.DefaultOptions(), newTestLogger())
	impl := &fakeViewImpl{mode: ModeHelp}
	base := NewBaseEditorView(NewBaseEditorViewArg{
		ViewImpl:   impl,
		Model:      m,
		Controller: c,
		Logger:     newTestLogger(),
	})
	t.Cleanup(func() {
		base.Shutdown()
		c.Shutdown()
		m.Shutdown()
	})
	return base, impl, m, logChan
}

func TestNewBaseEditorView_PanicsOnMissingDependencies(t *testing.T) {
	assert.Panics(t, func() { NewBaseEditorView(NewBaseEditorViewArg{}) })
	assert.Panics(t, func() {
		NewBaseEditorView(NewBaseEditorViewArg{Logger: newTestLogger()})
	})
}

func TestBaseEditorView_InitialModeAndState(t *testing.T) {
	_, impl, _, _ := newTestBaseView(t)

	assert.Equal(t, ModeTable, impl.GetCurrentMode())
	require.Eventually(t, impl.snapshot(func(f *fakeViewImpl) bool {
		return f.state.Name == "untitled.ptab"
	}), waitFor, 5*time.Millisecond)
}

func TestBaseEditorView_ForwardsModelEvents(t *testing.T) {
	_, impl, m, _ := newTestBaseView(t)

	_, err := m.Editor().Load("calib.ptab", twoLines)
	require.NoError(t, err)
	require.Eventually(t, impl.snapshot(func(f *fakeViewImpl) bool {
		return f.state.Name == "calib.ptab" && f.state.Table.Len() == 4
	}), waitFor, 5*time.Millisecond)

	m.SetStatus(StatusSuccess, "done")
	require.Eventually(t, impl.snapshot(func(f *fakeViewImpl) bool {
		return f.status == Status{Level: StatusSuccess, Message: "done"}
	}), waitFor, 5*time.Millisecond)

	m.UpdateSession(func(s *Session) error {
		s.ActiveCadence = 60
		return nil
	})
	require.Eventually(t, impl.snapshot(func(f *fakeViewImpl) bool {
		return f.session.ActiveCadence == 60
	}), waitFor, 5*time.Millisecond)

	m.SetMode(ModeChanges)
	require.Eventually(t, impl.snapshot(func(f *fakeViewImpl) bool {
		return f.mode == ModeChanges
	}), waitFor, 5*time.Millisecond)

	m.RequestConfirm(ConfirmRequest{Message: "sure?"})
	require.Eventually(t, impl.snapshot(func(f *fakeViewImpl) bool {
		return len(f.confirms) == 1 && f.confirms[0].Message == "sure?"
	}), waitFor, 5*time.Millisecond)
}

func TestBaseEditorView_ShowsLatestAfterBurst(t *testing.T) {
	_, impl, m, _ := newTestBaseView(t)

	for _, name := range []string{"a.ptab", "b.ptab", "calib.ptab"} {
		_, err := m.Editor().Load(name, twoLines)
		require.NoError(t, err)
	}
	for _, msg := range []string{"one", "two", "three"} {
		m.SetStatus(StatusInfo, msg)
	}

	require.Eventually(t, impl.snapshot(func(f *fakeViewImpl) bool {
		return f.state.Name == "calib.ptab" && f.status.Message == "three"
	}), waitFor, 5*time.Millisecond)
}

func TestBaseEditorView_ShowsLogTail(t *testing.T) {
	_, impl, _, logChan := newTestBaseView(t)

	logChan <- "one\n"
	logChan <- "two\n"
	logChan <- "three\n"

	require.Eventually(t, impl.snapshot(func(f *fakeViewImpl) bool {
		return strings.Join(f.log, "") == "two\nthree\n"
	}), waitFor, 5*time.Millisecond)
}

func TestBaseEditorView_StopsOnClose(t *testing.T) {
	_, impl, m, _ := newTestBaseView(t)

	m.RequestCloseApplication()
	require.Eventually(t, impl.snapshot(func(f *fakeViewImpl) bool {
		return f.stopped
	}), waitFor, 5*time.Millisecond)
}
