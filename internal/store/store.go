// internal/store/store.go
//
// Durable round-trip of {Curriculum, StudyGoal} to a versioned JSON file.
// Saves publish the new content atomically (write temp, fsync, rename), so a
// crash mid-write leaves the previous good file in place. Loads distinguish
// an absent file, malformed JSON, a schema version this build cannot read,
// and well-formed data that violates domain invariants.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/lbehrendt/studytrack/internal/curriculum"
)

// SchemaVersion is the version marker written to every file. Load refuses
// any other value rather than guessing at field meanings.
const SchemaVersion = 1

var (
	// ErrFileAbsent signals a missing state file. This is the one load
	// failure that is routine: the caller seeds a fresh state.
	ErrFileAbsent = errors.New("state file absent")

	// ErrParse signals malformed JSON.
	ErrParse = errors.New("state file malformed")

	// ErrValidation signals well-formed JSON that violates a domain
	// invariant (duplicate ids, orphaned grade, bad status, ...).
	ErrValidation = errors.New("state file invalid")

	// ErrUnsupportedVersion signals a version marker this build cannot
	// read.
	ErrUnsupportedVersion = errors.New("unsupported state file version")
)

// State is the persisted application state: the curriculum plus the
// student's goal. It is the unit of save and load.
type State struct {
	Curriculum *curriculum.Curriculum
	Goal       curriculum.StudyGoal
}

// Store reads and writes one state file. One running process owns the file
// exclusively for its session; there is no cross-process locking.
type Store struct {
	path string
}

// New creates a store for the given file path. The file need not exist yet.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file backing this store.
func (s *Store) Path() string {
	return s.path
}

// Save writes the full state atomically. The content is marshalled first,
// written to a temporary file in the target directory, synced, and renamed
// over the old file in one step. Any failure removes the temporary file and
// leaves the previous file untouched.
func (s *Store) Save(state State) error {
	if state.Curriculum == nil {
		return fmt.Errorf("store: nothing to save, curriculum is nil")
	}
	if err := state.Curriculum.Validate(); err != nil {
		return fmt.Errorf("store: refusing to save invalid state: %w", err)
	}
	data, err := json.MarshalIndent(encodeState(state), "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: ensure state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".curriculum-*.json")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: publish state file: %w", err)
	}
	return nil
}

// Load reads, parses, and validates the state file. On any failure the
// returned state is zero and the caller's in-memory state stays whatever it
// was; Load never partially populates.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, fmt.Errorf("%w: %s", ErrFileAbsent, s.path)
		}
		return State{}, fmt.Errorf("store: read %s: %w", s.path, err)
	}
	var payload fileState
	if err := json.Unmarshal(data, &payload); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if payload.Version != SchemaVersion {
		return State{}, fmt.Errorf("%w: file has version %d, this build reads version %d",
			ErrUnsupportedVersion, payload.Version, SchemaVersion)
	}
	state, err := decodeState(payload)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return state, nil
}

// Wire format. Field names are the compatibility contract; additions must be
// ignorable by older readers within the same version.

type fileState struct {
	Version   int            `json:"version"`
	Name      string         `json:"name"`
	Semesters []fileSemester `json:"semesters"`
	StudyGoal *fileGoal      `json:"study_goal,omitempty"`
}

type fileSemester struct {
	Label   string       `json:"label"`
	Modules []fileModule `json:"modules"`
}

type fileModule struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	ECTS   float64  `json:"ects"`
	Status string   `json:"status"`
	Grade  *float64 `json:"grade,omitempty"`
}

type fileGoal struct {
	TargetGPA  *float64        `json:"target_gpa,omitempty"`
	ECTSTarget *fileECTSTarget `json:"ects_target,omitempty"`
}

type fileECTSTarget struct {
	ECTS         float64   `json:"ects"`
	Deadline     time.Time `json:"deadline"`
	SetAt        time.Time `json:"set_at"`
	BaselineECTS float64   `json:"baseline_ects"`
}

func encodeState(state State) fileState {
	out := fileState{
		Version:   SchemaVersion,
		Name:      state.Curriculum.Name,
		Semesters: []fileSemester{},
	}
	for _, sem := range state.Curriculum.Semesters {
		fsem := fileSemester{Label: sem.Label, Modules: []fileModule{}}
		for _, m := range sem.Modules {
			fm := fileModule{
				ID:     m.ID,
				Name:   m.Name,
				ECTS:   m.ECTS,
				Status: string(m.Status),
			}
			if m.Grade != nil {
				g := *m.Grade
				fm.Grade = &g
			}
			fsem.Modules = append(fsem.Modules, fm)
		}
		out.Semesters = append(out.Semesters, fsem)
	}
	if state.Goal.IsSet() {
		goal := &fileGoal{}
		if state.Goal.TargetGPA != nil {
			g := *state.Goal.TargetGPA
			goal.TargetGPA = &g
		}
		if t := state.Goal.ECTSTarget; t != nil {
			goal.ECTSTarget = &fileECTSTarget{
				ECTS:         t.ECTS,
				Deadline:     t.Deadline,
				SetAt:        t.SetAt,
				BaselineECTS: t.BaselineECTS,
			}
		}
		out.StudyGoal = goal
	}
	return out
}

func decodeState(payload fileState) (State, error) {
	c := curriculum.New(payload.Name)
	for _, fsem := range payload.Semesters {
		sem := &curriculum.Semester{Label: fsem.Label}
		for _, fm := range fsem.Modules {
			m := &curriculum.Module{
				ID:     fm.ID,
				Name:   fm.Name,
				ECTS:   fm.ECTS,
				Status: curriculum.Status(fm.Status),
			}
			if fm.Grade != nil {
				g := *fm.Grade
				m.Grade = &g
			}
			sem.Modules = append(sem.Modules, m)
		}
		c.Semesters = append(c.Semesters, sem)
	}
	if err := c.Validate(); err != nil {
		return State{}, err
	}
	state := State{Curriculum: c}
	if payload.StudyGoal != nil {
		if payload.StudyGoal.TargetGPA != nil {
			g := *payload.StudyGoal.TargetGPA
			state.Goal.TargetGPA = &g
		}
		if t := payload.StudyGoal.ECTSTarget; t != nil {
			if t.ECTS <= 0 {
				return State{}, fmt.Errorf("study goal: ects target must be positive, got %v", t.ECTS)
			}
			state.Goal.ECTSTarget = &curriculum.ECTSTarget{
				ECTS:         t.ECTS,
				Deadline:     t.Deadline,
				SetAt:        t.SetAt,
				BaselineECTS: t.BaselineECTS,
			}
		}
	}
	return state, nil
}
