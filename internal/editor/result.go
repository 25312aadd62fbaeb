package editor

import (
	"strings"

	"github.com/lowaak/smart-trainer/powertable-app/internal/powertable"
)

// Result describes what a command did. Warnings are informational: the
// command went ahead with the adjusted values.
type Result struct {
	Message     string
	Adjustments int
	Warnings    []*powertable.BoundsAdjustedWarning
	Changed     bool // false when the command left the table as it was
}

func (r Result) String() string {
	if len(r.Warnings) == 0 {
		return r.Message
	}
	parts := make([]string, 0, len(r.Warnings)+1)
	parts = append(parts, r.Message)
	for _, w := range r.Warnings {
		parts = append(parts, w.Error())
	}
	return strings.Join(parts, "; ")
}

func (r *Result) warn(w *powertable.BoundsAdjustedWarning) {
	if w != nil {
		r.Warnings = append(r.Warnings, w)
	}
}
