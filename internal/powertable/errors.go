package powertable

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below
var (
	ErrParse            = errors.New("parse error")
	ErrPointExists      = errors.New("point already exists")
	ErrInvalidValue     = errors.New("invalid value")
	ErrInsufficientData = errors.New("insufficient data")
	ErrBoundsAdjusted   = errors.New("value adjusted to keep table consistent")
)

// ParseError reports a malformed persisted table. Line is 1-based, 0 when
// the problem is not tied to a single line.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, msg)
	}
	return fmt.Sprintf("parse error: %s", msg)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

// PointExistsError is returned when adding a point at an occupied power
type PointExistsError struct {
	Cadence int
	Power   int
}

func (e *PointExistsError) Error() string {
	return fmt.Sprintf("point already exists at %d RPM / %d W", e.Cadence, e.Power)
}

func (e *PointExistsError) Is(target error) bool { return target == ErrPointExists }

// InvalidValueError is returned for non-numeric, negative or otherwise
// unusable user input
type InvalidValueError struct {
	Field string
	Value string
	Msg   string
}

func (e *InvalidValueError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Msg)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *InvalidValueError) Is(target error) bool { return target == ErrInvalidValue }

// InsufficientDataError is returned when a bulk operation's preconditions
// are not met. The table is left untouched.
type InsufficientDataError struct {
	Op     string
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// BoundsAdjustedWarning is informational: the requested value was changed by
// invariant enforcement and the mutation went ahead with Applied.
type BoundsAdjustedWarning struct {
	Cadence   int
	Power     int
	Requested int
	Applied   int
}

func (w *BoundsAdjustedWarning) Error() string {
	return fmt.Sprintf("value at %d RPM / %d W adjusted from %d to %d to maintain constraints",
		w.Cadence, w.Power, w.Requested, w.Applied)
}

func (w *BoundsAdjustedWarning) Is(target error) bool { return target == ErrBoundsAdjusted }
