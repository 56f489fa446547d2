// internal/curriculum/module.go
//
// Module is one gradable curriculum unit. Status changes go through the
// transition methods below; nothing else may touch Status or Grade, so the
// grade-iff-completed/recognized invariant holds at every mutation boundary.

package curriculum

// Module represents one course of the curriculum. ID is the stable module
// code (e.g. "MAT101"), unique across the whole curriculum. ECTS is fixed
// when the module is created and never changes afterwards. Grade is set only
// for completed modules and for recognized modules that were awarded one.
type Module struct {
	ID     string
	Name   string
	ECTS   float64
	Status Status
	Grade  *float64
}

// ModuleSpec carries the data needed to create a new module. New modules
// always start as planned.
type ModuleSpec struct {
	ID   string
	Name string
	ECTS float64
}

// Graded reports whether a grade has been awarded.
func (m *Module) Graded() bool {
	return m.Grade != nil
}

// Enroll moves a planned module to enrolled.
func (m *Module) Enroll() error {
	if m.Status != StatusPlanned {
		return &TransitionError{ID: m.ID, From: m.Status, Event: "enroll"}
	}
	m.Status = StatusEnrolled
	return nil
}

// Complete finishes an enrolled module with the given grade. The grade must
// lie within the scale; on failure the module is unchanged.
func (m *Module) Complete(grade float64, scale Scale) error {
	if m.Status != StatusEnrolled {
		return &TransitionError{ID: m.ID, From: m.Status, Event: "complete"}
	}
	if !scale.Contains(grade) {
		return &GradeError{Grade: grade, Scale: scale}
	}
	g := grade
	m.Status = StatusCompleted
	m.Grade = &g
	return nil
}

// Recognize marks a planned module as recognized credit. Recognition needs no
// enrollment and no grade; when a grade was awarded it may be passed along
// and is validated against the scale.
func (m *Module) Recognize(grade *float64, scale Scale) error {
	if m.Status != StatusPlanned {
		return &TransitionError{ID: m.ID, From: m.Status, Event: "recognize"}
	}
	if grade != nil && !scale.Contains(*grade) {
		return &GradeError{Grade: *grade, Scale: scale}
	}
	m.Status = StatusRecognized
	if grade != nil {
		g := *grade
		m.Grade = &g
	}
	return nil
}

// Withdraw returns an enrolled module to planned and clears any grade.
func (m *Module) Withdraw() error {
	if m.Status != StatusEnrolled {
		return &TransitionError{ID: m.ID, From: m.Status, Event: "withdraw"}
	}
	m.Status = StatusPlanned
	m.Grade = nil
	return nil
}

// Reset reopens a completed or recognized module. This is an explicit
// administrative action, not a regular transition; it clears the grade and
// returns the module to planned.
func (m *Module) Reset() error {
	if !m.Status.Terminal() {
		return &TransitionError{ID: m.ID, From: m.Status, Event: "reset"}
	}
	m.Status = StatusPlanned
	m.Grade = nil
	return nil
}
