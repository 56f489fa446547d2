// internal/curriculum/curriculum.go
//
// Curriculum is the root aggregate: it exclusively owns the ordered semesters
// and, through them, every module. All repository operations either succeed
// and leave the aggregate valid or fail and leave it untouched.

package curriculum

import (
	"fmt"
	"strings"
)

// Semester is an ordered, labelled grouping of modules. A module belongs to
// exactly one semester.
type Semester struct {
	Label   string
	Modules []*Module
}

// Module returns the semester's module with the given id, if present.
func (s *Semester) Module(id string) (*Module, bool) {
	for _, m := range s.Modules {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// Curriculum is the full ordered collection of semesters for one study
// program. It is the unit of persistence.
type Curriculum struct {
	Name      string
	Semesters []*Semester
}

// New creates an empty curriculum for the named program.
func New(name string) *Curriculum {
	return &Curriculum{Name: strings.TrimSpace(name)}
}

// Semester returns the semester with the given label, if present.
func (c *Curriculum) Semester(label string) (*Semester, bool) {
	for _, s := range c.Semesters {
		if s.Label == label {
			return s, true
		}
	}
	return nil, false
}

// AddSemester appends a new, empty semester. Labels are unique within the
// curriculum.
func (c *Curriculum) AddSemester(label string) (*Semester, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("curriculum: semester label is required")
	}
	if _, exists := c.Semester(label); exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSemester, label)
	}
	sem := &Semester{Label: label}
	c.Semesters = append(c.Semesters, sem)
	return sem, nil
}

// Modules returns every module across all semesters in curriculum order.
func (c *Curriculum) Modules() []*Module {
	var all []*Module
	for _, sem := range c.Semesters {
		all = append(all, sem.Modules...)
	}
	return all
}

// FindModule looks a module up by id anywhere in the curriculum.
func (c *Curriculum) FindModule(id string) (*Module, error) {
	for _, sem := range c.Semesters {
		if m, ok := sem.Module(id); ok {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// AddModule creates a module from spec inside the named semester. The id must
// be unique across the whole curriculum, not just the semester.
func (c *Curriculum) AddModule(semesterLabel string, spec ModuleSpec) (*Module, error) {
	sem, ok := c.Semester(semesterLabel)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSemester, semesterLabel)
	}
	spec.ID = strings.TrimSpace(spec.ID)
	spec.Name = strings.TrimSpace(spec.Name)
	if spec.ID == "" {
		return nil, fmt.Errorf("curriculum: module id is required")
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("curriculum: module name is required")
	}
	if spec.ECTS <= 0 {
		return nil, fmt.Errorf("curriculum: module %s: ects must be positive, got %v", spec.ID, spec.ECTS)
	}
	if _, err := c.FindModule(spec.ID); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, spec.ID)
	}
	mod := &Module{
		ID:     spec.ID,
		Name:   spec.Name,
		ECTS:   spec.ECTS,
		Status: StatusPlanned,
	}
	sem.Modules = append(sem.Modules, mod)
	return mod, nil
}

// RemoveModule deletes the module with the given id. Removing an absent
// module fails; removal is not idempotent.
func (c *Curriculum) RemoveModule(id string) error {
	for _, sem := range c.Semesters {
		for i, m := range sem.Modules {
			if m.ID == id {
				sem.Modules = append(sem.Modules[:i], sem.Modules[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Enroll applies the enroll transition to the module with the given id.
func (c *Curriculum) Enroll(id string) error {
	m, err := c.FindModule(id)
	if err != nil {
		return err
	}
	return m.Enroll()
}

// Complete applies the complete transition with the given grade.
func (c *Curriculum) Complete(id string, grade float64, scale Scale) error {
	m, err := c.FindModule(id)
	if err != nil {
		return err
	}
	return m.Complete(grade, scale)
}

// Recognize applies the recognize transition; grade may be nil.
func (c *Curriculum) Recognize(id string, grade *float64, scale Scale) error {
	m, err := c.FindModule(id)
	if err != nil {
		return err
	}
	return m.Recognize(grade, scale)
}

// Withdraw applies the withdraw transition.
func (c *Curriculum) Withdraw(id string) error {
	m, err := c.FindModule(id)
	if err != nil {
		return err
	}
	return m.Withdraw()
}

// Reset applies the administrative reset to the module with the given id.
func (c *Curriculum) Reset(id string) error {
	m, err := c.FindModule(id)
	if err != nil {
		return err
	}
	return m.Reset()
}

// Validate checks every structural invariant: unique semester labels, unique
// module ids across the curriculum, positive credits, known statuses, and
// grades present exactly where the status allows them. The store runs this on
// every load before handing state to the application.
func (c *Curriculum) Validate() error {
	labels := map[string]struct{}{}
	ids := map[string]struct{}{}
	for _, sem := range c.Semesters {
		if strings.TrimSpace(sem.Label) == "" {
			return fmt.Errorf("curriculum: semester label is required")
		}
		if _, dup := labels[sem.Label]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSemester, sem.Label)
		}
		labels[sem.Label] = struct{}{}
		for _, m := range sem.Modules {
			if strings.TrimSpace(m.ID) == "" {
				return fmt.Errorf("curriculum: semester %s: module id is required", sem.Label)
			}
			if _, dup := ids[m.ID]; dup {
				return fmt.Errorf("%w: %s", ErrDuplicateID, m.ID)
			}
			ids[m.ID] = struct{}{}
			if strings.TrimSpace(m.Name) == "" {
				return fmt.Errorf("curriculum: module %s: name is required", m.ID)
			}
			if m.ECTS <= 0 {
				return fmt.Errorf("curriculum: module %s: ects must be positive, got %v", m.ID, m.ECTS)
			}
			if !m.Status.Valid() {
				return fmt.Errorf("curriculum: module %s: unknown status %q", m.ID, m.Status)
			}
			if m.Grade != nil && !m.Status.Terminal() {
				return fmt.Errorf("curriculum: module %s: grade set while %s", m.ID, m.Status)
			}
			if m.Grade == nil && m.Status == StatusCompleted {
				return fmt.Errorf("curriculum: module %s: completed without grade", m.ID)
			}
		}
	}
	return nil
}
