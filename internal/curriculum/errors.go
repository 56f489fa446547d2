package curriculum

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer. Callers match with errors.Is; the
// richer TransitionError and GradeError types unwrap to their sentinel so
// both styles work.
var (
	ErrNotFound          = errors.New("module not found")
	ErrDuplicateID       = errors.New("duplicate module id")
	ErrUnknownSemester   = errors.New("unknown semester")
	ErrDuplicateSemester = errors.New("duplicate semester label")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidGrade      = errors.New("grade outside grading scale")
)

// TransitionError reports a status event applied to a module whose current
// status does not permit it. It names both so the shell can explain exactly
// what was refused.
type TransitionError struct {
	ID    string
	From  Status
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("module %s: cannot %s while %s", e.ID, e.Event, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// GradeError reports a grade outside the configured grading scale.
type GradeError struct {
	Grade float64
	Scale Scale
}

func (e *GradeError) Error() string {
	return fmt.Sprintf("grade %.2f outside scale %.1f..%.1f", e.Grade, e.Scale.Best, e.Scale.Worst)
}

func (e *GradeError) Unwrap() error { return ErrInvalidGrade }
