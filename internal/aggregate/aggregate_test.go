package aggregate

import (
	"reflect"
	"testing"
	"time"

	"github.com/lbehrendt/studytrack/internal/curriculum"
)

func gradePtr(g float64) *float64 { return &g }

func fixture(t *testing.T) *curriculum.Curriculum {
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
	add("2", "THE201", "Theoretische Informatik", 9)

	// Semester 1 fully done: one graded completion, one recognition.
	mustTransition(t, c.Enroll("MAT101"))
	mustTransition(t, c.Complete("MAT101", 1.7, scale))
	mustTransition(t, c.Recognize("PRG101", nil, scale))
	// Semester 2 in flight.
	mustTransition(t, c.Enroll("DBS201"))
	return c
}

func mustTransition(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	c := fixture(t)
	s := Summarize(c)
	if s.ECTSEarned != 15 {
		t.Fatalf("ECTSEarned = %v, want 15", s.ECTSEarned)
	}
	if s.ECTSEnrolled != 6 {
		t.Fatalf("ECTSEnrolled = %v, want 6", s.ECTSEnrolled)
	}
	if s.ECTSTotal != 30 {
		t.Fatalf("ECTSTotal = %v, want 30", s.ECTSTotal)
	}
	if s.Progress != 0.5 {
		t.Fatalf("Progress = %v, want 0.5", s.Progress)
	}
	if s.GPA == nil || *s.GPA != 1.7 {
		t.Fatalf("GPA = %v, want 1.7", s.GPA)
	}
	wantCounts := map[curriculum.Status]int{
		curriculum.StatusCompleted:  1,
		curriculum.StatusRecognized: 1,
		curriculum.StatusEnrolled:   1,
		curriculum.StatusPlanned:    1,
	}
	if !reflect.DeepEqual(s.Counts, wantCounts) {
		t.Fatalf("Counts = %v, want %v", s.Counts, wantCounts)
	}
	if s.CompletedSemesters != 1 || s.TotalSemesters != 2 {
		t.Fatalf("semesters = %d/%d, want 1/2", s.CompletedSemesters, s.TotalSemesters)
	}
	if s.ECTSEarned > s.ECTSTotal || s.Progress < 0 || s.Progress > 1 {
		t.Fatalf("summary out of bounds: %+v", s)
	}
}

func TestSummarizeIsIdempotent(t *testing.T) {
	c := fixture(t)
	first := Summarize(c)
	second := Summarize(c)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("summaries differ:\n%+v\n%+v", first, second)
	}
}

func TestGPAWeightedByCredits(t *testing.T) {
	c := curriculum.New("Test")
	scale := curriculum.DefaultScale()
	if _, err := c.AddSemester("1"); err != nil {
		t.Fatalf("add semester: %v", err)
	}
	for _, m := range []struct {
		id    string
		ects  float64
		grade float64
	}{
		{"A", 6, 1.7},
		{"B", 9, 2.3},
	} {
		if _, err := c.AddModule("1", curriculum.ModuleSpec{ID: m.id, Name: m.id, ECTS: m.ects}); err != nil {
			t.Fatalf("add module: %v", err)
		}
		mustTransition(t, c.Enroll(m.id))
		mustTransition(t, c.Complete(m.id, m.grade, scale))
	}
	s := Summarize(c)
	if s.GPA == nil || *s.GPA != 2.06 {
		t.Fatalf("GPA = %v, want 2.06", s.GPA)
	}
}

func TestGPANilWithoutGrades(t *testing.T) {
	c := curriculum.New("Test")
	scale := curriculum.DefaultScale()
	if _, err := c.AddSemester("1"); err != nil {
		t.Fatalf("add semester: %v", err)
	}
	if _, err := c.AddModule("1", curriculum.ModuleSpec{ID: "A", Name: "A", ECTS: 6}); err != nil {
		t.Fatalf("add module: %v", err)
	}
	// A graded recognition must not create a GPA either.
	mustTransition(t, c.Recognize("A", gradePtr(1.0), scale))
	s := Summarize(c)
	if s.GPA != nil {
		t.Fatalf("GPA = %v, want nil (recognized modules are non-examined)", *s.GPA)
	}
	if s.ECTSEarned != 6 {
		t.Fatalf("recognition must still earn credits, got %v", s.ECTSEarned)
	}
}

func TestSummarizeEmptyCurriculum(t *testing.T) {
	s := Summarize(curriculum.New("Leer"))
	if s.Progress != 0 || s.ECTSTotal != 0 || s.GPA != nil {
		t.Fatalf("empty curriculum summary = %+v", s)
	}
	s = Summarize(nil)
	if s.Progress != 0 {
		t.Fatalf("nil curriculum summary = %+v", s)
	}
}

func TestEvaluateGoal(t *testing.T) {
	scale := curriculum.DefaultScale()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	target := curriculum.ECTSTarget{
		ECTS:         60,
		Deadline:     now.AddDate(1, 0, 0),
		SetAt:        now.AddDate(-1, 0, 0),
		BaselineECTS: 0,
	}
	cases := []struct {
		name    string
		goal    curriculum.StudyGoal
		summary Summary
		want    Report
	}{
		{
			name: "no goal set",
			want: Report{GPA: GoalNone, ECTS: GoalNone, Overall: GoalNone},
		},
		{
			name:    "gpa achieved",
			goal:    curriculum.StudyGoal{TargetGPA: gradePtr(2.5)},
			summary: Summary{GPA: gradePtr(2.0)},
			want:    Report{GPA: GoalAchieved, ECTS: GoalNone, Overall: GoalAchieved},
		},
		{
			name:    "gpa behind",
			goal:    curriculum.StudyGoal{TargetGPA: gradePtr(2.0)},
			summary: Summary{GPA: gradePtr(2.7)},
			want:    Report{GPA: GoalBehind, ECTS: GoalNone, Overall: GoalBehind},
		},
		{
			name: "gpa on track without grades",
			goal: curriculum.StudyGoal{TargetGPA: gradePtr(2.0)},
			want: Report{GPA: GoalOnTrack, ECTS: GoalNone, Overall: GoalOnTrack},
		},
		{
			name:    "ects achieved",
			goal:    curriculum.StudyGoal{ECTSTarget: &target},
			summary: Summary{ECTSEarned: 60},
			want:    Report{GPA: GoalNone, ECTS: GoalAchieved, Overall: GoalAchieved},
		},
		{
			name:    "ects on pace",
			goal:    curriculum.StudyGoal{ECTSTarget: &target},
			summary: Summary{ECTSEarned: 30},
			want:    Report{GPA: GoalNone, ECTS: GoalOnTrack, Overall: GoalOnTrack},
		},
		{
			name:    "ects behind pace",
			goal:    curriculum.StudyGoal{ECTSTarget: &target},
			summary: Summary{ECTSEarned: 12},
			want:    Report{GPA: GoalNone, ECTS: GoalBehind, Overall: GoalBehind},
		},
		{
			name: "worst target wins overall",
			goal: curriculum.StudyGoal{
				TargetGPA:  gradePtr(2.5),
				ECTSTarget: &target,
			},
			summary: Summary{GPA: gradePtr(1.7), ECTSEarned: 12},
			want:    Report{GPA: GoalAchieved, ECTS: GoalBehind, Overall: GoalBehind},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateGoal(tc.goal, tc.summary, scale, now)
			if got != tc.want {
				t.Fatalf("report = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestEvaluateGoalPastDeadline(t *testing.T) {
	scale := curriculum.DefaultScale()
	deadline := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	goal := curriculum.StudyGoal{ECTSTarget: &curriculum.ECTSTarget{
		ECTS:     30,
		Deadline: deadline,
		SetAt:    deadline.AddDate(-1, 0, 0),
	}}
	after := deadline.AddDate(0, 1, 0)
	if got := EvaluateGoal(goal, Summary{ECTSEarned: 24}, scale, after); got.ECTS != GoalBehind {
		t.Fatalf("unmet target past deadline = %s, want behind", got.ECTS)
	}
	if got := EvaluateGoal(goal, Summary{ECTSEarned: 30}, scale, after); got.ECTS != GoalAchieved {
		t.Fatalf("met target past deadline = %s, want achieved", got.ECTS)
	}
}
