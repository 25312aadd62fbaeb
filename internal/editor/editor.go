package editor

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/lowaak/smart-trainer/powertable-app/internal/events"
	"github.com/lowaak/smart-trainer/powertable-app/internal/powertable"
	"github.com/lowaak/smart-trainer/powertable-app/internal/ptab"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrNoSuchPoint   = errors.New("no such point")
	ErrNoDrag        = errors.New("no drag in progress")
)

// State is published after every change. Table is a private copy.
type State struct {
	Name          string
	Table         *powertable.Table
	Original      powertable.Snapshot
	CanUndo       bool
	CanRedo       bool
	HistoryCursor int
	HistoryLen    int
	Dirty         bool
}

// Options configures a new Editor
type Options struct {
	Config          powertable.Config // initial settings; later loads keep the live ones
	HistoryCapacity int
	PitchWatts      int
}

// Editor is the command interface over one live table. Every mutating
// command works on a copy, checks its preconditions there, and only then
// commits: the pre-state is recorded if history does not already hold it,
// the copy becomes the live table, and the post-state is recorded. A command
// is therefore exactly one undo step, and a failed command changes nothing.
//
// Commands are serialized by a mutex so views may call them from any
// goroutine.
type Editor struct {
	mu       sync.Mutex
	name     string
	table    *powertable.Table
	original powertable.Snapshot
	saved    powertable.Snapshot
	history  *powertable.History
	pitch    int
	changed  *events.CallbackEvent[State]
	logger   *log.Logger
}

func New(opts Options, logger *log.Logger) *Editor {
	if logger == nil {
		panic("Editor: logger cannot be nil")
	}
	if opts.Config.MaxResistance <= 0 || opts.Config.StorageMultiplier <= 0 {
		opts.Config = powertable.DefaultConfig()
	}
	if opts.HistoryCapacity > 0 {
		opts.HistoryCapacity = max(opts.HistoryCapacity, powertable.MinHistoryCapacity)
	}
	if opts.PitchWatts <= 0 {
		opts.PitchWatts = powertable.DefaultPitchWatts
	}
	e := &Editor{
		pitch:    opts.PitchWatts,
		history:  powertable.NewHistory(opts.HistoryCapacity),
		changed:  events.NewCallbackEvent[State](true),
		logger:   logger,
	}
	e.reset("untitled.ptab", powertable.NewTable(opts.Config))
	e.changed.Notify(e.stateLocked())
	return e
}

// OnChange registers fn to receive the state after every change. fn is
// called at once with the current state.
func (e *Editor) OnChange(fn func(State)) func() {
	return e.changed.Listen(fn)
}

// reset installs t as a freshly loaded table. Must be called with mu held or
// before e is shared.
func (e *Editor) reset(name string, t *powertable.Table) {
	e.name = name
	e.table = t
	e.original = powertable.TakeSnapshot(t)
	e.saved = e.original
	e.history.Reset()
	e.history.Record(t)
}

// Load replaces the live table with the parsed text, starts a new history and
// keeps the loaded table as the original reference. The current ceiling is
// kept when the text has no HMax, and cells are scaled by the current
// storage multiplier.
func (e *Editor) Load(name, text string) (Result, error) {
	e.mu.Lock()
	cfg := e.table.Config
	e.mu.Unlock()

	table, err := ptab.Parse(text, cfg)
	if err != nil {
		e.logger.Printf("Editor: load %s failed: %v", name, err)
		return Result{}, err
	}
	return e.LoadTable(name, table), nil
}

// LoadTable is Load for an already built table. The editor takes ownership.
func (e *Editor) LoadTable(name string, table *powertable.Table) Result {
	e.mu.Lock()
	e.reset(name, table)
	res := Result{
		Message: fmt.Sprintf("Loaded %s: %d cadence lines, %d points", name, table.LineCount(), table.Len()),
		Changed: true,
	}
	state := e.stateLocked()
	e.mu.Unlock()

	e.logger.Printf("Editor: %s", res.Message)
	e.changed.Notify(state)
	return res
}

// apply runs op against a copy of the live table and commits the copy when
// op succeeds and changed something
func (e *Editor) apply(name string, op func(work *powertable.Table) (Result, error)) (Result, error) {
	e.mu.Lock()
	work := e.table.Clone()
	res, err := op(work)
	if err != nil {
		e.mu.Unlock()
		e.logger.Printf("Editor: %s rejected: %v", name, err)
		return Result{}, err
	}
	if work.Equal(e.table) {
		e.mu.Unlock()
		e.logger.Printf("Editor: %s: %s (no change)", name, res)
		return res, nil
	}

	e.history.RecordIfChanged(e.table)
	e.table = work
	e.history.Record(e.table)
	res.Changed = true
	state := e.stateLocked()
	e.mu.Unlock()

	e.logger.Printf("Editor: %s: %s", name, res)
	e.changed.Notify(state)
	return res, nil
}

func checkPoint(cadence, power int) error {
	if cadence <= 0 {
		return &powertable.InvalidValueError{Field: "cadence", Value: strconv.Itoa(cadence), Msg: "must be positive"}
	}
	if power <= 0 {
		return &powertable.InvalidValueError{Field: "power", Value: strconv.Itoa(power), Msg: "must be positive"}
	}
	return nil
}

func checkResistance(resistance int) error {
	if resistance < 0 {
		return &powertable.InvalidValueError{Field: "resistance", Value: strconv.Itoa(resistance), Msg: "must not be negative"}
	}
	return nil
}

func noSuchPoint(cadence, power int) error {
	return fmt.Errorf("%w at %d RPM / %d W", ErrNoSuchPoint, cadence, power)
}

// AddPoint adds a point to a line, creating the line if needed, together
// with the pitch-spaced points that bridge it to its neighbours
func (e *Editor) AddPoint(cadence, power, resistance int) (Result, error) {
	return e.apply("add point", func(work *powertable.Table) (Result, error) {
		return e.addPoint(work, cadence, power, resistance)
	})
}

func (e *Editor) addPoint(work *powertable.Table, cadence, power, resistance int) (Result, error) {
	if err := checkPoint(cadence, power); err != nil {
		return Result{}, err
	}
	if err := checkResistance(resistance); err != nil {
		return Result{}, err
	}
	if _, exists := work.Get(cadence, power); exists {
		return Result{}, &powertable.PointExistsError{Cadence: cadence, Power: power}
	}
	added, warning := work.InsertWithFill(cadence, power, resistance, e.pitch)
	res := Result{
		Message:     fmt.Sprintf("Added %d point(s) with linear interpolation", len(added)),
		Adjustments: len(added),
	}
	res.warn(warning)
	return res, nil
}

// AddPointNearest adds a point at the power column in use closest to power
func (e *Editor) AddPointNearest(cadence, power, resistance int) (Result, error) {
	return e.apply("add point", func(work *powertable.Table) (Result, error) {
		column, ok := work.NearestPower(power)
		if !ok {
			return Result{}, &powertable.InsufficientDataError{Op: "add point", Reason: "no existing power columns to snap to"}
		}
		return e.addPoint(work, cadence, column, resistance)
	})
}

// EditPoint sets an existing point to the closest value that keeps the table
// consistent
func (e *Editor) EditPoint(cadence, power, resistance int) (Result, error) {
	return e.apply("edit point", func(work *powertable.Table) (Result, error) {
		if err := checkResistance(resistance); err != nil {
			return Result{}, err
		}
		if _, ok := work.Get(cadence, power); !ok {
			return Result{}, noSuchPoint(cadence, power)
		}
		res := Result{Message: "Point updated successfully"}
		if _, warning := work.Write(cadence, power, resistance); warning != nil {
			res.Adjustments = 1
			res.warn(warning)
		}
		return res, nil
	})
}

// DeletePoint removes a point. A line left empty disappears.
func (e *Editor) DeletePoint(cadence, power int) (Result, error) {
	return e.apply("delete point", func(work *powertable.Table) (Result, error) {
		if !work.Remove(cadence, power) {
			return Result{}, noSuchPoint(cadence, power)
		}
		return Result{Message: "Point deleted", Adjustments: 1}, nil
	})
}

func (e *Editor) SmartFill() (Result, error) {
	return e.apply("smart fill", func(work *powertable.Table) (Result, error) {
		report, err := work.SmartFill()
		if err != nil {
			return Result{}, err
		}
		return Result{
			Message:     fmt.Sprintf("Smart fill complete: added %d points (%d cells scanned)", report.PointsAdded, report.CellsScanned),
			Adjustments: report.PointsAdded,
		}, nil
	})
}

func (e *Editor) ResolveConflicts() (Result, error) {
	return e.apply("resolve conflicts", func(work *powertable.Table) (Result, error) {
		n, err := work.ResolveConflicts()
		if err != nil {
			return Result{}, err
		}
		res := Result{Message: "No conflicts found", Adjustments: n}
		if n > 0 {
			res.Message = fmt.Sprintf("Resolved %d conflicts", n)
		}
		if remaining := len(work.Violations()); remaining > 0 {
			res.Message += fmt.Sprintf(", %d violations remain", remaining)
		}
		return res, nil
	})
}

// SmartSmooth evens out cadence spacing and smooths every line. It does not
// repair what smoothing breaks; the message says when ResolveConflicts is
// needed.
func (e *Editor) SmartSmooth() (Result, error) {
	return e.apply("smart smooth", func(work *powertable.Table) (Result, error) {
		report, err := work.SmartSmooth()
		if err != nil {
			return Result{}, err
		}
		res := Result{
			Message: fmt.Sprintf("SmartSmooth completed: made %d adjustments (%d spacing, %d curve)",
				report.Total(), report.SpacingAdjustments, report.CurveAdjustments),
			Adjustments: report.Total(),
		}
		if remaining := len(work.Violations()); remaining > 0 {
			res.Message += fmt.Sprintf(", %d conflicts remain (run resolve)", remaining)
		}
		return res, nil
	})
}

// SetMaxResistance changes the ceiling. It refuses a ceiling that a stored
// value already exceeds.
func (e *Editor) SetMaxResistance(value int) (Result, error) {
	return e.apply("set max resistance", func(work *powertable.Table) (Result, error) {
		if value <= 0 {
			return Result{}, &powertable.InvalidValueError{Field: "max resistance", Value: strconv.Itoa(value), Msg: "must be positive"}
		}
		if highest := work.MaxStored(); value < highest {
			return Result{}, &powertable.InvalidValueError{
				Field: "max resistance",
				Value: strconv.Itoa(value),
				Msg:   fmt.Sprintf("below largest stored value %d", highest),
			}
		}
		work.Config.MaxResistance = value
		return Result{Message: fmt.Sprintf("Max resistance set to %d", value)}, nil
	})
}

func (e *Editor) SetStorageMultiplier(value int) (Result, error) {
	return e.apply("set storage multiplier", func(work *powertable.Table) (Result, error) {
		if value <= 0 {
			return Result{}, &powertable.InvalidValueError{Field: "storage multiplier", Value: strconv.Itoa(value), Msg: "must be positive"}
		}
		work.Config.StorageMultiplier = value
		return Result{Message: fmt.Sprintf("Storage multiplier set to %d", value)}, nil
	})
}

func (e *Editor) Undo() (Result, error) {
	return e.restore("undo", e.history.Undo, ErrNothingToUndo)
}

func (e *Editor) Redo() (Result, error) {
	return e.restore("redo", e.history.Redo, ErrNothingToRedo)
}

func (e *Editor) restore(name string, step func() (powertable.Snapshot, bool), none error) (Result, error) {
	e.mu.Lock()
	snap, ok := step()
	if !ok {
		e.mu.Unlock()
		return Result{}, none
	}
	e.table = snap.Table()
	res := Result{
		Message: fmt.Sprintf("%s: step %d of %d", name, e.history.Cursor()+1, e.history.Len()),
		Changed: true,
	}
	state := e.stateLocked()
	e.mu.Unlock()

	e.logger.Printf("Editor: %s", res.Message)
	e.changed.Notify(state)
	return res, nil
}

// BeginDrag starts moving an existing point and makes its line active
func (e *Editor) BeginDrag(s *Session, cadence, power int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.table.Get(cadence, power)
	if !ok {
		return noSuchPoint(cadence, power)
	}
	s.Drag = &Drag{Cell: Cell{Cadence: cadence, Power: power}, Start: r, Preview: r}
	s.ActiveCadence = cadence
	return nil
}

// DragTo returns the value the dragged point would take for resistance
// without writing it
func (e *Editor) DragTo(s *Session, resistance int) (int, error) {
	if s.Drag == nil {
		return 0, ErrNoDrag
	}
	e.mu.Lock()
	safe := e.table.SafeResistance(s.Drag.Cadence, s.Drag.Power, resistance)
	e.mu.Unlock()
	s.Drag.Preview = safe
	return safe, nil
}

// EndDrag commits the drag at resistance as one undo step
func (e *Editor) EndDrag(s *Session, resistance int) (Result, error) {
	if s.Drag == nil {
		return Result{}, ErrNoDrag
	}
	cell := s.Drag.Cell
	s.Drag = nil
	return e.apply("drag point", func(work *powertable.Table) (Result, error) {
		if _, ok := work.Get(cell.Cadence, cell.Power); !ok {
			return Result{}, noSuchPoint(cell.Cadence, cell.Power)
		}
		safe, warning := work.Write(cell.Cadence, cell.Power, max(0, resistance))
		res := Result{Message: fmt.Sprintf("Point updated: %dW -> %d resistance", cell.Power, safe)}
		res.warn(warning)
		return res, nil
	})
}

// CancelDrag abandons a drag without touching the table
func (e *Editor) CancelDrag(s *Session) {
	s.Drag = nil
}

// Serialize renders the live table in the .ptab format
func (e *Editor) Serialize() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ptab.Serialize(e.table)
}

// MarkSaved records the live table as the saved state under name
func (e *Editor) MarkSaved(name string) {
	e.mu.Lock()
	e.saved = powertable.TakeSnapshot(e.table)
	if name != "" {
		e.name = name
	}
	state := e.stateLocked()
	e.mu.Unlock()
	e.changed.Notify(state)
}

// Diff lists cells that differ from the table as loaded
func (e *Editor) Diff() []powertable.Change {
	e.mu.Lock()
	defer e.mu.Unlock()
	return powertable.Diff(e.original.Table(), e.table)
}

// Validate lists every invariant the live table breaks
func (e *Editor) Validate() []powertable.Violation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.Violations()
}

// Table returns a copy of the live table
func (e *Editor) Table() *powertable.Table {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.Clone()
}

func (e *Editor) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Editor) stateLocked() State {
	return State{
		Name:          e.name,
		Table:         e.table.Clone(),
		Original:      e.original,
		CanUndo:       e.history.CanUndo(),
		CanRedo:       e.history.CanRedo(),
		HistoryCursor: e.history.Cursor(),
		HistoryLen:    e.history.Len(),
		Dirty:         !e.saved.Matches(e.table),
	}
}
