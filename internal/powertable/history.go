package powertable

// Snapshot is an immutable deep copy of a table and its config. The zero
// value holds nothing.
type Snapshot struct {
	table *Table
}

// TakeSnapshot copies t. Later changes to t never reach the snapshot.
func TakeSnapshot(t *Table) Snapshot {
	return Snapshot{table: t.Clone()}
}

// IsZero reports whether the snapshot was never taken
func (s Snapshot) IsZero() bool {
	return s.table == nil
}

// Table returns a fresh mutable copy of the captured table
func (s Snapshot) Table() *Table {
	if s.table == nil {
		return NewTable(DefaultConfig())
	}
	return s.table.Clone()
}

// Config returns the captured configuration
func (s Snapshot) Config() Config {
	if s.table == nil {
		return DefaultConfig()
	}
	return s.table.Config
}

// Get reads one cell of the captured table
func (s Snapshot) Get(cadence, power int) (int, bool) {
	if s.table == nil {
		return 0, false
	}
	return s.table.Get(cadence, power)
}

// Cadences lists the captured cadence lines in ascending order
func (s Snapshot) Cadences() []int {
	if s.table == nil {
		return nil
	}
	return s.table.Cadences()
}

// Points lists the captured points of one line
func (s Snapshot) Points(cadence int) []Point {
	if s.table == nil {
		return nil
	}
	return s.table.Points(cadence)
}

// Matches reports whether t is deep-equal to the captured state
func (s Snapshot) Matches(t *Table) bool {
	return s.table != nil && s.table.Equal(t)
}

// History is a bounded stack of snapshots with an undo/redo cursor.
// Snapshots past the cursor are the redo future and are discarded on the
// next Record.
type History struct {
	snapshots []Snapshot
	cursor    int
	capacity  int
}

// NewHistory creates an empty history. A capacity below 1 falls back to
// DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	return &History{
		snapshots: make([]Snapshot, 0, capacity),
		cursor:    -1,
		capacity:  capacity,
	}
}

// Record captures t, truncating any redo future. When the capacity is
// exceeded the oldest entry is dropped and the cursor stays on the newest.
func (h *History) Record(t *Table) {
	if h.cursor < len(h.snapshots)-1 {
		clear(h.snapshots[h.cursor+1:])
		h.snapshots = h.snapshots[:h.cursor+1]
	}
	h.snapshots = append(h.snapshots, TakeSnapshot(t))
	if len(h.snapshots) > h.capacity {
		h.snapshots[0] = Snapshot{}
		h.snapshots = h.snapshots[1:]
	} else {
		h.cursor++
	}
}

// RecordIfChanged records t only when it differs from the snapshot at the
// cursor, and reports whether it did
func (h *History) RecordIfChanged(t *Table) bool {
	if current, ok := h.Current(); ok && current.Matches(t) {
		return false
	}
	h.Record(t)
	return true
}

// Current returns the snapshot at the cursor
func (h *History) Current() (Snapshot, bool) {
	if h.cursor < 0 || h.cursor >= len(h.snapshots) {
		return Snapshot{}, false
	}
	return h.snapshots[h.cursor], true
}

// Undo moves the cursor back one step and returns the snapshot to restore
func (h *History) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.cursor--
	return h.snapshots[h.cursor], true
}

// Redo moves the cursor forward one step and returns the snapshot to restore
func (h *History) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.cursor++
	return h.snapshots[h.cursor], true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }

func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

// Len returns the number of retained snapshots
func (h *History) Len() int { return len(h.snapshots) }

// Cursor returns the index of the current snapshot, -1 when empty
func (h *History) Cursor() int { return h.cursor }

// Capacity returns the maximum number of retained snapshots
func (h *History) Capacity() int { return h.capacity }

// Reset drops every snapshot
func (h *History) Reset() {
	clear(h.snapshots)
	h.snapshots = h.snapshots[:0]
	h.cursor = -1
}
