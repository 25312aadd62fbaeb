package editor

// Cell addresses one (cadence, power) entry
type Cell struct {
	Cadence int
	Power   int
}

// Drag tracks a point being moved. Preview is the enforced value shown while
// the drag is live; nothing is written until EndDrag.
type Drag struct {
	Cell
	Start   int
	Preview int
}

// Session is per-view interaction state: which line new points go to, which
// point is open for editing, and any drag in progress. The editor never keeps
// it; callers pass it into the commands that need it.
type Session struct {
	ActiveCadence int // 0 when no line is selected
	Editing       *Cell
	Drag          *Drag
	ShowOriginal  bool
}

// HasActiveLine reports whether a cadence line is selected
func (s *Session) HasActiveLine() bool {
	return s.ActiveCadence > 0
}

// Clone returns a copy that shares nothing with s
func (s Session) Clone() Session {
	out := s
	if s.Editing != nil {
		cell := *s.Editing
		out.Editing = &cell
	}
	if s.Drag != nil {
		drag := *s.Drag
		out.Drag = &drag
	}
	return out
}
