package editor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/lowaak/smart-trainer/powertable-app/internal/chart"
	"github.com/lowaak/smart-trainer/powertable-app/internal/go_func_utils"
	"github.com/lowaak/smart-trainer/powertable-app/internal/powertable"
)

var (
	ErrNoActiveLine = errors.New("no active line selected")
	ErrNoFile       = errors.New("table has no file name, use save as")
	ErrNoOriginal   = errors.New("no original table to show")
)

// EditorController turns view events into editor commands and reports the
// outcome on the model's status line
type EditorController struct {
	model        *EditorModel
	editor       *Editor
	chartOptions chart.Options
	logger       *log.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewEditorController creates a new EditorController with the given dependencies
func NewEditorController(model *EditorModel, chartOptions chart.Options, logger *log.Logger) *EditorController {
	if model == nil {
		panic("EditorController: model cannot be nil")
	}
	if logger == nil {
		panic("EditorController: logger cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &EditorController{
		model:        model,
		editor:       model.Editor(),
		chartOptions: chartOptions,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}

	// Registered before returning so a request made right after construction is seen
	openChan := make(chan string, 1)
	openUnregister := model.ListenToOpenRequest(openChan)
	c.wg.Add(1)
	go_func_utils.SafeGo(logger, "EditorController.listenToOpenRequests", func() { c.listenToOpenRequests(openChan, openUnregister) })

	return c
}

func (c *EditorController) listenToOpenRequests(ch <-chan string, unregister func()) {
	defer c.wg.Done()
	defer unregister()

	for {
		select {
		case <-c.ctx.Done():
			return
		case path, ok := <-ch:
			if !ok {
				return
			}
			c.logger.Printf("EditorController: open requested for %s", path)
			_ = c.OpenFile(path)
		}
	}
}

// Shutdown stops the controller's goroutines
func (c *EditorController) Shutdown() {
	c.cancel()
	c.wg.Wait()
}

// run executes a command, converting a panic into an error, and reports the
// outcome on the status line
func (c *EditorController) run(name string, cmd func() (Result, error)) error {
	var res Result
	err := go_func_utils.SafeCall(c.logger, name, func() error {
		var err error
		res, err = cmd()
		return err
	})
	c.report(res, err)
	return err
}

func (c *EditorController) report(res Result, err error) {
	switch {
	case err != nil:
		c.model.SetStatus(StatusError, err.Error())
	case len(res.Warnings) > 0:
		c.model.SetStatus(StatusWarning, res.String())
	case !res.Changed:
		c.model.SetStatus(StatusInfo, res.Message)
	default:
		c.model.SetStatus(StatusSuccess, res.Message)
	}
}

func (c *EditorController) fail(err error) error {
	c.logger.Printf("EditorController: %v", err)
	c.model.SetStatus(StatusError, err.Error())
	return err
}

// parseField reads a whole number typed by the user
func parseField(field, text string) (int, error) {
	text = strings.TrimSpace(text)
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, &powertable.InvalidValueError{Field: field, Value: text, Msg: "not a whole number"}
	}
	return v, nil
}

// --- Files ---

// OpenFile loads a .ptab file and makes it the live table
func (c *EditorController) OpenFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return c.fail(fmt.Errorf("failed to open %s: %w", path, err))
	}
	err = c.run("open", func() (Result, error) {
		return c.editor.Load(filepath.Base(path), string(raw))
	})
	if err != nil {
		return err
	}
	c.model.SetPath(path)
	c.model.UpdateSession(func(s *Session) error {
		*s = Session{}
		return nil
	})
	return nil
}

// Save writes the live table back to the file it came from
func (c *EditorController) Save() error {
	path := c.model.GetPath()
	if path == "" {
		return c.fail(ErrNoFile)
	}
	return c.SaveAs(path)
}

// SaveAs writes the live table to path, which becomes the table's file
func (c *EditorController) SaveAs(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return c.fail(ErrNoFile)
	}
	if err := os.WriteFile(path, []byte(c.editor.Serialize()), 0644); err != nil {
		return c.fail(fmt.Errorf("failed to save %s: %w", path, err))
	}
	c.editor.MarkSaved(filepath.Base(path))
	c.model.SetPath(path)
	c.logger.Printf("EditorController: saved %s", path)
	c.model.SetStatus(StatusSuccess, "Saved "+path)
	return nil
}

// ExportChart renders the live table, with the original when the overlay is
// on, to path. The extension picks the format.
func (c *EditorController) ExportChart(path string) error {
	path = strings.TrimSpace(path)
	var original *powertable.Table
	if c.model.GetSession().ShowOriginal {
		original = c.model.GetState().Original.Table()
	}
	opts := c.chartOptions
	if opts.Title == "" {
		opts.Title = c.editor.Name()
	}
	if err := chart.ExportFile(path, c.editor.Table(), original, opts); err != nil {
		return c.fail(fmt.Errorf("chart export: %w", err))
	}
	c.logger.Printf("EditorController: chart written to %s", path)
	c.model.SetStatus(StatusSuccess, "Chart written to "+path)
	return nil
}

// --- Points ---

// AddPoint adds a point from form input. With snap set the power is moved to
// the nearest column already in use. The line becomes the active line.
func (c *EditorController) AddPoint(cadenceText, powerText, resistanceText string, snap bool) error {
	cadence, err := parseField("cadence", cadenceText)
	if err != nil {
		return c.fail(err)
	}
	power, err := parseField("power", powerText)
	if err != nil {
		return c.fail(err)
	}
	resistance, err := parseField("resistance", resistanceText)
	if err != nil {
		return c.fail(err)
	}

	add := c.editor.AddPoint
	if snap {
		add = c.editor.AddPointNearest
	}
	if err := c.run("add point", func() (Result, error) { return add(cadence, power, resistance) }); err != nil {
		return err
	}
	c.model.UpdateSession(func(s *Session) error {
		s.ActiveCadence = cadence
		return nil
	})
	return nil
}

// AddPointToActiveLine is AddPoint on the active line
func (c *EditorController) AddPointToActiveLine(powerText, resistanceText string, snap bool) error {
	session := c.model.GetSession()
	if !session.HasActiveLine() {
		return c.fail(ErrNoActiveLine)
	}
	return c.AddPoint(strconv.Itoa(session.ActiveCadence), powerText, resistanceText, snap)
}

// EditPoint sets the point at cell from form input
func (c *EditorController) EditPoint(cell Cell, resistanceText string) error {
	resistance, err := parseField("resistance", resistanceText)
	if err != nil {
		return c.fail(err)
	}
	err = c.run("edit point", func() (Result, error) {
		return c.editor.EditPoint(cell.Cadence, cell.Power, resistance)
	})
	c.model.UpdateSession(func(s *Session) error {
		s.Editing = nil
		return nil
	})
	return err
}

func (c *EditorController) DeletePoint(cell Cell) error {
	return c.run("delete point", func() (Result, error) {
		return c.editor.DeletePoint(cell.Cadence, cell.Power)
	})
}

// --- Bulk operations ---

// RequestSmartFill asks the view to confirm before SmartFill runs
func (c *EditorController) RequestSmartFill() {
	c.model.RequestConfirm(ConfirmRequest{
		Message:   "Fill every empty cell by interpolation?",
		OnConfirm: func() { _ = c.SmartFill() },
	})
}

func (c *EditorController) SmartFill() error {
	return c.run("smart fill", c.editor.SmartFill)
}

// RequestResolveConflicts asks the view to confirm before ResolveConflicts runs
func (c *EditorController) RequestResolveConflicts() {
	c.model.RequestConfirm(ConfirmRequest{
		Message:   "Adjust values so lines never cross?",
		OnConfirm: func() { _ = c.ResolveConflicts() },
	})
}

func (c *EditorController) ResolveConflicts() error {
	return c.run("resolve conflicts", c.editor.ResolveConflicts)
}

// RequestSmartSmooth asks the view to confirm before SmartSmooth runs
func (c *EditorController) RequestSmartSmooth() {
	c.model.RequestConfirm(ConfirmRequest{
		Message:   "Redistribute line spacing and smooth every curve?",
		OnConfirm: func() { _ = c.SmartSmooth() },
	})
}

func (c *EditorController) SmartSmooth() error {
	return c.run("smart smooth", c.editor.SmartSmooth)
}

func (c *EditorController) Undo() error {
	return c.run("undo", c.editor.Undo)
}

func (c *EditorController) Redo() error {
	return c.run("redo", c.editor.Redo)
}

// SetMaxResistance changes the ceiling from form input
func (c *EditorController) SetMaxResistance(text string) error {
	value, err := parseField("max resistance", text)
	if err != nil {
		return c.fail(err)
	}
	return c.run("set max resistance", func() (Result, error) { return c.editor.SetMaxResistance(value) })
}

// SetStorageMultiplier changes the on-disk scale from form input
func (c *EditorController) SetStorageMultiplier(text string) error {
	value, err := parseField("storage multiplier", text)
	if err != nil {
		return c.fail(err)
	}
	return c.run("set storage multiplier", func() (Result, error) { return c.editor.SetStorageMultiplier(value) })
}

// --- Session ---

// SetActiveLine makes cadence the line new points go to
func (c *EditorController) SetActiveLine(cadence int) {
	c.model.UpdateSession(func(s *Session) error {
		s.ActiveCadence = cadence
		return nil
	})
	c.model.SetStatus(StatusInfo, fmt.Sprintf("Active line: %d RPM", cadence))
}

// StartEdit marks cell as the point under edit. It fails when no point is there.
func (c *EditorController) StartEdit(cell Cell) error {
	if _, ok := c.model.GetState().Table.Get(cell.Cadence, cell.Power); !ok {
		return c.fail(noSuchPoint(cell.Cadence, cell.Power))
	}
	c.model.UpdateSession(func(s *Session) error {
		s.Editing = &cell
		return nil
	})
	return nil
}

func (c *EditorController) CancelEdit() {
	c.model.UpdateSession(func(s *Session) error {
		s.Editing = nil
		return nil
	})
}

// ToggleOriginal shows or hides the table as it was loaded
func (c *EditorController) ToggleOriginal() error {
	if c.model.GetState().Original.IsZero() {
		return c.fail(ErrNoOriginal)
	}
	var show bool
	c.model.UpdateSession(func(s *Session) error {
		s.ShowOriginal = !s.ShowOriginal
		show = s.ShowOriginal
		return nil
	})
	if show {
		c.model.SetStatus(StatusInfo, "Showing original values")
	} else {
		c.model.SetStatus(StatusInfo, "Hiding original values")
	}
	return nil
}

// --- Drag ---

// BeginDrag starts moving the point at cell
func (c *EditorController) BeginDrag(cell Cell) error {
	err := c.model.UpdateSession(func(s *Session) error {
		return c.editor.BeginDrag(s, cell.Cadence, cell.Power)
	})
	if err != nil {
		return c.fail(err)
	}
	c.model.SetStatus(StatusInfo, fmt.Sprintf("Dragging %d RPM @ %dW: +/- to move, Enter to commit, Esc to cancel", cell.Cadence, cell.Power))
	return nil
}

// NudgeDrag moves the drag preview by delta, starting a drag at cell if none
// is in progress
func (c *EditorController) NudgeDrag(cell Cell, delta int) error {
	if c.model.GetSession().Drag == nil {
		if err := c.BeginDrag(cell); err != nil {
			return err
		}
	}
	var preview, requested int
	err := c.model.UpdateSession(func(s *Session) error {
		if s.Drag == nil {
			return ErrNoDrag
		}
		requested = max(0, s.Drag.Preview+delta)
		var err error
		preview, err = c.editor.DragTo(s, requested)
		return err
	})
	if err != nil {
		return c.fail(err)
	}
	if preview != requested {
		c.model.SetStatus(StatusWarning, fmt.Sprintf("Drag limited to %d (requested %d)", preview, requested))
	} else {
		c.model.SetStatus(StatusInfo, fmt.Sprintf("Drag preview %d", preview))
	}
	return nil
}

// EndDrag commits the drag at its preview value
func (c *EditorController) EndDrag() error {
	var res Result
	err := c.model.UpdateSession(func(s *Session) error {
		if s.Drag == nil {
			return ErrNoDrag
		}
		var err error
		res, err = c.editor.EndDrag(s, s.Drag.Preview)
		return err
	})
	c.report(res, err)
	return err
}

func (c *EditorController) CancelDrag() {
	c.model.UpdateSession(func(s *Session) error {
		c.editor.CancelDrag(s)
		return nil
	})
	c.model.SetStatus(StatusInfo, "Drag cancelled")
}

// --- Application ---

// OnModeChange handles when the user requests a mode change
func (c *EditorController) OnModeChange(mode EditorMode) {
	if info, ok := GetEditorModeInfo(mode); ok {
		c.logger.Printf("EditorController: switching to %s mode", info.DisplayName)
	}
	c.model.SetMode(mode)
}

// OnEscapeKey cancels a drag or edit in progress, otherwise quits
func (c *EditorController) OnEscapeKey() {
	session := c.model.GetSession()
	switch {
	case session.Drag != nil:
		c.CancelDrag()
	case session.Editing != nil:
		c.CancelEdit()
	default:
		c.Quit()
	}
}

// Quit closes the application, asking first when there are unsaved changes
func (c *EditorController) Quit() {
	if c.model.GetState().Dirty {
		c.model.RequestConfirm(ConfirmRequest{
			Message:   "There are unsaved changes. Quit anyway?",
			OnConfirm: c.model.RequestCloseApplication,
		})
		return
	}
	c.model.RequestCloseApplication()
}
