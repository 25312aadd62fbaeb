package editor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/smart-trainer/powertable-app/internal/chart"
	"github.com/lowaak/smart-trainer/powertable-app/internal/powertable"
)

const sparseTable = `# METADATA:HMax=32029
Cadence/Power,100W,150W,200W
60RPM,50,70,90
90RPM,40,,80
`

type controllerFixture struct {
	dir        string
	path       string
	editor     *Editor
	model      *EditorModel
	controller *EditorController
}

func newControllerFixture(t *testing.T, text string) *controllerFixture {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "calib.ptab")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))

	e := New(Options{Config: powertable.DefaultConfig()}, newTestLogger())
	m := NewEditorModel(e, newTestLogger(), make(chan string), filepath.Join(dir, "state.json"))
	c := NewEditorController(m, chart.DefaultOptions(), newTestLogger())
	t.Cleanup(func() {
		c.Shutdown()
		m.Shutdown()
	})
	return &controllerFixture{dir: dir, path: path, editor: e, model: m, controller: c}
}

func (f *controllerFixture) open(t *testing.T) {
	t.Helper()
	require.NoError(t, f.controller.OpenFile(f.path))
}

func TestNewEditorController_PanicsOnMissingDependencies(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	assert.Panics(t, func() { NewEditorController(nil, chart.DefaultOptions(), newTestLogger()) })
	assert.Panics(t, func() { NewEditorController(f.model, chart.DefaultOptions(), nil) })
}

func TestController_OpenFile(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.model.UpdateSession(func(s *Session) error {
		s.ActiveCadence = 75
		return nil
	})

	f.open(t)

	state := f.model.GetState()
	assert.Equal(t, "calib.ptab", state.Name)
	assert.Equal(t, 4, state.Table.Len())
	assert.Equal(t, f.path, f.model.GetPath())
	assert.Equal(t, []string{f.path}, f.model.GetRecentFiles())
	assert.Equal(t, Status{Level: StatusSuccess, Message: "Loaded calib.ptab: 2 cadence lines, 4 points"}, f.model.GetStatus())
	assert.Zero(t, f.model.GetSession().ActiveCadence)
}

func TestController_OpenFileErrors(t *testing.T) {
	f := newControllerFixture(t, "not a table\n")

	err := f.controller.OpenFile(filepath.Join(f.dir, "missing.ptab"))
	require.Error(t, err)
	assert.Equal(t, StatusError, f.model.GetStatus().Level)

	err = f.controller.OpenFile(f.path)
	assert.ErrorIs(t, err, powertable.ErrParse)
	assert.Equal(t, StatusError, f.model.GetStatus().Level)
	assert.Empty(t, f.model.GetPath())
}

func TestController_OpenRequest(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.model.RequestOpen(f.path)

	require.Eventually(t, func() bool {
		return f.model.GetPath() == f.path
	}, waitFor, 5*time.Millisecond)
	assert.Equal(t, "calib.ptab", f.model.GetState().Name)
}

func TestController_SaveWithoutFile(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	assert.ErrorIs(t, f.controller.Save(), ErrNoFile)
	assert.Equal(t, StatusError, f.model.GetStatus().Level)
}

func TestController_EditAndSave(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	require.NoError(t, f.controller.EditPoint(Cell{Cadence: 60, Power: 100}, " 600 "))
	assert.Equal(t, Status{Level: StatusSuccess, Message: "Point updated successfully"}, f.model.GetStatus())
	assert.True(t, f.model.GetState().Dirty)

	require.NoError(t, f.controller.Save())
	raw, err := os.ReadFile(f.path)
	require.NoError(t, err)
	assert.Equal(t, "# METADATA:HMax=32029\nCadence/Power,100W,200W\n60RPM,60,90\n90RPM,40,80\n", string(raw))
	assert.False(t, f.model.GetState().Dirty)
}

func TestController_SaveAs(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	other := filepath.Join(f.dir, "copy.ptab")
	require.NoError(t, f.controller.SaveAs(other))
	raw, err := os.ReadFile(other)
	require.NoError(t, err)
	assert.Equal(t, twoLines, string(raw))
	assert.Equal(t, other, f.model.GetPath())
	assert.Equal(t, "copy.ptab", f.model.GetState().Name)
	assert.Equal(t, []string{other, f.path}, f.model.GetRecentFiles())

	assert.ErrorIs(t, f.controller.SaveAs("  "), ErrNoFile)
}

func TestController_EditRejectsBadInput(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	err := f.controller.EditPoint(Cell{Cadence: 60, Power: 100}, "lots")
	assert.ErrorIs(t, err, powertable.ErrInvalidValue)
	assert.Equal(t, StatusError, f.model.GetStatus().Level)
	assert.Equal(t, 500, get(t, f.editor, 60, 100))

	err = f.controller.EditPoint(Cell{Cadence: 60, Power: 150}, "700")
	assert.ErrorIs(t, err, ErrNoSuchPoint)
}

func TestController_StartEdit(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	require.NoError(t, f.controller.StartEdit(Cell{Cadence: 60, Power: 100}))
	require.NotNil(t, f.model.GetSession().Editing)
	assert.Equal(t, Cell{Cadence: 60, Power: 100}, *f.model.GetSession().Editing)

	f.controller.OnEscapeKey()
	assert.Nil(t, f.model.GetSession().Editing)

	assert.ErrorIs(t, f.controller.StartEdit(Cell{Cadence: 60, Power: 150}), ErrNoSuchPoint)
}

func TestController_AddPointToActiveLine(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	assert.ErrorIs(t, f.controller.AddPointToActiveLine("150", "700", false), ErrNoActiveLine)

	f.controller.SetActiveLine(60)
	require.NoError(t, f.controller.AddPointToActiveLine("150", "700", false))
	assert.Equal(t, 700, get(t, f.editor, 60, 150))
	assert.Equal(t, StatusSuccess, f.model.GetStatus().Level)
	assert.Equal(t, 60, f.model.GetSession().ActiveCadence)

	err := f.controller.AddPointToActiveLine("150", "710", false)
	assert.ErrorIs(t, err, powertable.ErrPointExists)
}

func TestController_AddPointCreatesLine(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	require.NoError(t, f.controller.AddPoint("120", "100", "300", false))
	assert.Equal(t, 300, get(t, f.editor, 120, 100))
	assert.Equal(t, 120, f.model.GetSession().ActiveCadence)

	assert.ErrorIs(t, f.controller.AddPoint("x", "100", "300", false), powertable.ErrInvalidValue)
	assert.ErrorIs(t, f.controller.AddPoint("120", "", "300", false), powertable.ErrInvalidValue)
}

func TestController_AddPointSnapsToColumn(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	require.NoError(t, f.controller.AddPoint("120", "190", "300", true))
	assert.Equal(t, 300, get(t, f.editor, 120, 200))
}

func TestController_DeleteUndoRedo(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	assert.ErrorIs(t, f.controller.Undo(), ErrNothingToUndo)

	require.NoError(t, f.controller.DeletePoint(Cell{Cadence: 90, Power: 200}))
	_, ok := f.editor.Table().Get(90, 200)
	assert.False(t, ok)

	require.NoError(t, f.controller.Undo())
	assert.Equal(t, 800, get(t, f.editor, 90, 200))

	require.NoError(t, f.controller.Redo())
	_, ok = f.editor.Table().Get(90, 200)
	assert.False(t, ok)
	assert.ErrorIs(t, f.controller.Redo(), ErrNothingToRedo)
}

func TestController_SmartFillNeedsConfirmation(t *testing.T) {
	f := newControllerFixture(t, sparseTable)
	f.open(t)

	ch := make(chan ConfirmRequest, 1)
	defer f.model.ListenToConfirm(ch)()

	f.controller.RequestSmartFill()
	req := receive(t, ch)
	_, ok := f.editor.Table().Get(90, 150)
	assert.False(t, ok, "fill must wait for confirmation")

	req.OnConfirm()
	assert.Equal(t, 600, get(t, f.editor, 90, 150))
	assert.Equal(t, Status{Level: StatusSuccess, Message: "Smart fill complete: added 1 points (6 cells scanned)"}, f.model.GetStatus())
}

func TestController_ResolveWithNothingToDo(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	ch := make(chan ConfirmRequest, 1)
	defer f.model.ListenToConfirm(ch)()

	f.controller.RequestResolveConflicts()
	receive(t, ch).OnConfirm()
	assert.Equal(t, Status{Level: StatusInfo, Message: "No conflicts found"}, f.model.GetStatus())
	assert.False(t, f.model.GetState().CanUndo)
}

func TestController_SmoothNeedsEnoughData(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	ch := make(chan ConfirmRequest, 1)
	defer f.model.ListenToConfirm(ch)()

	f.controller.RequestSmartSmooth()
	receive(t, ch).OnConfirm()
	assert.Equal(t, StatusError, f.model.GetStatus().Level)
	assert.Contains(t, f.model.GetStatus().Message, "4 power levels")
}

func TestController_Drag(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)
	cell := Cell{Cadence: 60, Power: 100}

	require.NoError(t, f.controller.NudgeDrag(cell, NudgeStepSmall))
	session := f.model.GetSession()
	require.NotNil(t, session.Drag)
	assert.Equal(t, 500, session.Drag.Start)
	assert.Equal(t, 510, session.Drag.Preview)
	assert.Equal(t, 60, session.ActiveCadence)
	assert.Equal(t, 500, get(t, f.editor, 60, 100), "drag preview must not write")

	require.NoError(t, f.controller.NudgeDrag(cell, NudgeStepSmall))
	require.NoError(t, f.controller.EndDrag())
	assert.Equal(t, 520, get(t, f.editor, 60, 100))
	assert.Nil(t, f.model.GetSession().Drag)

	require.NoError(t, f.controller.Undo())
	assert.Equal(t, 500, get(t, f.editor, 60, 100))
}

func TestController_DragIsLimited(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	require.NoError(t, f.controller.NudgeDrag(Cell{Cadence: 90, Power: 100}, 2*NudgeStepLarge))
	assert.Equal(t, 499, f.model.GetSession().Drag.Preview)
	assert.Equal(t, StatusWarning, f.model.GetStatus().Level)
}

func TestController_CancelDrag(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	require.NoError(t, f.controller.NudgeDrag(Cell{Cadence: 60, Power: 100}, -NudgeStepLarge))
	f.controller.OnEscapeKey()
	assert.Nil(t, f.model.GetSession().Drag)
	assert.Equal(t, 500, get(t, f.editor, 60, 100))

	assert.ErrorIs(t, f.controller.EndDrag(), ErrNoDrag)
	assert.ErrorIs(t, f.controller.NudgeDrag(Cell{Cadence: 60, Power: 150}, 10), ErrNoSuchPoint)
}

func TestController_ToggleOriginal(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	require.NoError(t, f.controller.ToggleOriginal())
	assert.True(t, f.model.GetSession().ShowOriginal)
	require.NoError(t, f.controller.ToggleOriginal())
	assert.False(t, f.model.GetSession().ShowOriginal)
}

func TestController_ExportChart(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)
	require.NoError(t, f.controller.ToggleOriginal())

	out := filepath.Join(f.dir, "calib.svg")
	require.NoError(t, f.controller.ExportChart(out))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	err = f.controller.ExportChart(filepath.Join(f.dir, "calib.gif"))
	assert.ErrorIs(t, err, chart.ErrUnsupportedFormat)
	assert.Equal(t, StatusError, f.model.GetStatus().Level)
}

func TestController_SetMaxResistance(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	assert.ErrorIs(t, f.controller.SetMaxResistance("100"), powertable.ErrInvalidValue)
	assert.ErrorIs(t, f.controller.SetMaxResistance("high"), powertable.ErrInvalidValue)

	require.NoError(t, f.controller.SetMaxResistance("40000"))
	assert.Equal(t, 40000, f.model.GetState().Table.Config.MaxResistance)
}

func TestController_SetStorageMultiplier(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	assert.ErrorIs(t, f.controller.SetStorageMultiplier("0"), powertable.ErrInvalidValue)
	assert.ErrorIs(t, f.controller.SetStorageMultiplier("ten"), powertable.ErrInvalidValue)
	assert.Equal(t, StatusError, f.model.GetStatus().Level)

	require.NoError(t, f.controller.SetStorageMultiplier(" 5 "))
	state := f.model.GetState()
	assert.Equal(t, 5, state.Table.Config.StorageMultiplier)
	assert.True(t, state.CanUndo)
	assert.Equal(t, StatusSuccess, f.model.GetStatus().Level)
	assert.Equal(t, "# METADATA:HMax=32029\nCadence/Power,100W,200W\n60RPM,100,180\n90RPM,80,160\n", f.model.Editor().Serialize())
}

func TestController_ModeChange(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.controller.OnModeChange(ModeHelp)
	assert.Equal(t, ModeHelp, f.model.GetUIState().Mode)
}

func TestController_QuitWhenClean(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)

	ch := make(chan struct{}, 1)
	defer f.model.ListenToCloseApplication(ch)()

	f.controller.OnEscapeKey()
	receive(t, ch)
}

func TestController_QuitWhenDirtyAsks(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	f.open(t)
	require.NoError(t, f.controller.DeletePoint(Cell{Cadence: 90, Power: 200}))

	confirm := make(chan ConfirmRequest, 1)
	defer f.model.ListenToConfirm(confirm)()
	closed := make(chan struct{}, 1)
	defer f.model.ListenToCloseApplication(closed)()

	f.controller.Quit()
	req := receive(t, confirm)
	select {
	case <-closed:
		t.Fatal("closed without confirmation")
	default:
	}

	req.OnConfirm()
	receive(t, closed)
}

func TestController_RecoversFromPanic(t *testing.T) {
	f := newControllerFixture(t, twoLines)
	err := f.controller.run("boom", func() (Result, error) {
		panic("kaboom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Equal(t, StatusError, f.model.GetStatus().Level)
}
