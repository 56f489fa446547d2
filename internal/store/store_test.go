package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/lbehrendt/studytrack/internal/curriculum"
)

func gradePtr(g float64) *float64 { return &g }

func fixtureState(t *testing.T) State {
	t.Helper()
	c := curriculum.New("B.Sc. Informatik")
	scale := curriculum.DefaultScale()
	if _, err := c.AddSemester("1"); err != nil {
		t.Fatalf("add semester: %v", err)
	}
	if _, err := c.AddSemester("2"); err != nil {
		t.Fatalf("add semester: %v", err)
	}
	add := func(sem, id, name string, ects float64) {
		if _, err := c.AddModule(sem, curriculum.ModuleSpec{ID: id, Name: name, ECTS: ects}); err != nil {
			t.Fatalf("add module %s: %v", id, err)
		}
	}
	add("1", "MAT101", "Mathematik I", 6)
	add("1", "PRG101", "Programmierung I", 9)
	add("2", "DBS201", "Datenbanken", 6)
	if err := c.Enroll("MAT101"); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := c.Complete("MAT101", 1.7, scale); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := c.Recognize("PRG101", nil, scale); err != nil {
		t.Fatalf("recognize: %v", err)
	}
	deadline := time.Date(2027, 9, 30, 0, 0, 0, 0, time.UTC)
	return State{
		Curriculum: c,
		Goal: curriculum.StudyGoal{
			TargetGPA: gradePtr(2.0),
			ECTSTarget: &curriculum.ECTSTarget{
				ECTS:         180,
				Deadline:     deadline,
				SetAt:        deadline.AddDate(-3, 0, 0),
				BaselineECTS: 15,
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "curriculum.json")
	st := New(path)
	want := fixtureState(t)
	if err := st.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestSaveLoadRoundTripWithoutGoal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curriculum.json")
	st := New(path)
	want := fixtureState(t)
	want.Goal = curriculum.StudyGoal{}
	if err := st.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestLoadFileAbsent(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing.json"))
	_, err := st.Load()
	if !errors.Is(err, ErrFileAbsent) {
		t.Fatalf("error = %v, want ErrFileAbsent", err)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curriculum.json")
	if err := os.WriteFile(path, []byte(`{"version": 1, "semesters": [`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := New(path).Load()
	if !errors.Is(err, ErrParse) {
		t.Fatalf("error = %v, want ErrParse", err)
	}
}

func TestLoadUnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curriculum.json")
	for _, payload := range []string{
		`{"version": 2, "name": "X", "semesters": []}`,
		`{"name": "X", "semesters": []}`,
	} {
		if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		_, err := New(path).Load()
		if !errors.Is(err, ErrUnsupportedVersion) {
			t.Fatalf("payload %s: error = %v, want ErrUnsupportedVersion", payload, err)
		}
	}
}

func TestLoadValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{
			name: "duplicate module ids",
			payload: `{"version": 1, "name": "X", "semesters": [
				{"label": "1", "modules": [
					{"id": "M1", "name": "A", "ects": 6, "status": "planned"},
					{"id": "M1", "name": "B", "ects": 6, "status": "planned"}]}]}`,
		},
		{
			name: "orphaned grade",
			payload: `{"version": 1, "name": "X", "semesters": [
				{"label": "1", "modules": [
					{"id": "M1", "name": "A", "ects": 6, "status": "planned", "grade": 1.7}]}]}`,
		},
		{
			name: "completed without grade",
			payload: `{"version": 1, "name": "X", "semesters": [
				{"label": "1", "modules": [
					{"id": "M1", "name": "A", "ects": 6, "status": "completed"}]}]}`,
		},
		{
			name: "unknown status",
			payload: `{"version": 1, "name": "X", "semesters": [
				{"label": "1", "modules": [
					{"id": "M1", "name": "A", "ects": 6, "status": "failed"}]}]}`,
		},
		{
			name: "non-positive ects",
			payload: `{"version": 1, "name": "X", "semesters": [
				{"label": "1", "modules": [
					{"id": "M1", "name": "A", "ects": 0, "status": "planned"}]}]}`,
		},
		{
			name: "non-positive ects goal",
			payload: `{"version": 1, "name": "X", "semesters": [],
				"study_goal": {"ects_target": {"ects": 0, "deadline": "2027-09-30T00:00:00Z", "set_at": "2026-09-30T00:00:00Z", "baseline_ects": 0}}}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "curriculum.json")
			if err := os.WriteFile(path, []byte(tc.payload), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			state, err := New(path).Load()
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
			if state.Curriculum != nil {
				t.Fatalf("failed load must not hand out state, got %+v", state)
			}
		})
	}
}

func TestSaveRefusesInvalidState(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "curriculum.json"))
	if err := st.Save(State{}); err == nil {
		t.Fatalf("saving nil curriculum must fail")
	}
	bad := fixtureState(t)
	bad.Curriculum.Semesters[0].Modules[0].ECTS = -1
	if err := st.Save(bad); err == nil {
		t.Fatalf("saving invalid curriculum must fail")
	}
	if _, err := os.Stat(st.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("refused save must not create a file")
	}
}

func TestSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curriculum.json")
	st := New(path)
	first := fixtureState(t)
	if err := st.Save(first); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Simulate a crash mid-write: a leftover temp file with garbage next to
	// the good state file. A subsequent load must see only the good file.
	if err := os.WriteFile(filepath.Join(dir, ".curriculum-crash.json"), []byte("{garb"), 0o644); err != nil {
		t.Fatalf("write junk: %v", err)
	}
	got, err := st.Load()
	if err != nil {
		t.Fatalf("load after simulated crash: %v", err)
	}
	if !reflect.DeepEqual(got, first) {
		t.Fatalf("state changed by crashed write")
	}

	// A full save over the old file leaves exactly one state file and no
	// temp droppings of its own.
	second := fixtureState(t)
	if err := second.Curriculum.Enroll("DBS201"); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := st.Save(second); err != nil {
		t.Fatalf("second save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "curriculum.json" && e.Name() != ".curriculum-crash.json" {
			t.Fatalf("unexpected leftover file %s", e.Name())
		}
	}
	got, err = st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Fatalf("second save not visible")
	}
}

func TestSavedFileCarriesContract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curriculum.json")
	st := New(path)
	if err := st.Save(fixtureState(t)); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, field := range []string{`"version": 1`, `"semesters"`, `"label"`, `"ects"`, `"status"`, `"study_goal"`, `"target_gpa"`} {
		if !strings.Contains(string(raw), field) {
			t.Fatalf("saved file missing %s:\n%s", field, raw)
		}
	}
}
