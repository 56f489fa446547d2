// internal/aggregate/aggregate.go
//
// Pure computation over a curriculum snapshot. Nothing in this package
// mutates domain state or touches I/O; the same snapshot always yields the
// same summary.

package aggregate

import (
	"math"
	"time"

	"github.com/lbehrendt/studytrack/internal/curriculum"
)

// Summary holds every derived statistic the dashboard renders.
type Summary struct {
	ECTSEarned   float64
	ECTSEnrolled float64
	ECTSTotal    float64

	// Progress is ECTSEarned / ECTSTotal, 0 for an empty curriculum.
	Progress float64

	// GPA is the credit-weighted grade average over completed modules,
	// rounded to two decimals. Nil means no graded modules exist yet.
	// Recognized modules never contribute, even when they carry a grade;
	// transferred credit is non-examined.
	GPA *float64

	Counts map[curriculum.Status]int

	// CompletedSemesters counts semesters whose every module is completed
	// or recognized. Empty semesters do not count.
	CompletedSemesters int
	TotalSemesters     int
}

// Summarize computes the full summary for a curriculum snapshot.
func Summarize(c *curriculum.Curriculum) Summary {
	s := Summary{Counts: map[curriculum.Status]int{}}
	if c == nil {
		return s
	}
	var weightedSum, gradedECTS float64
	for _, m := range c.Modules() {
		s.Counts[m.Status]++
		s.ECTSTotal += m.ECTS
		switch m.Status {
		case curriculum.StatusCompleted, curriculum.StatusRecognized:
			s.ECTSEarned += m.ECTS
		case curriculum.StatusEnrolled:
			s.ECTSEnrolled += m.ECTS
		}
		if m.Status == curriculum.StatusCompleted && m.Grade != nil {
			weightedSum += *m.Grade * m.ECTS
			gradedECTS += m.ECTS
		}
	}
	if s.ECTSTotal > 0 {
		s.Progress = s.ECTSEarned / s.ECTSTotal
	}
	if gradedECTS > 0 {
		gpa := math.Round(weightedSum/gradedECTS*100) / 100
		s.GPA = &gpa
	}
	s.TotalSemesters = len(c.Semesters)
	for _, sem := range c.Semesters {
		if len(sem.Modules) == 0 {
			continue
		}
		done := true
		for _, m := range sem.Modules {
			if !m.Status.Terminal() {
				done = false
				break
			}
		}
		if done {
			s.CompletedSemesters++
		}
	}
	return s
}

// GoalStatus classifies progress against one target.
type GoalStatus string

const (
	GoalNone     GoalStatus = "no goal set"
	GoalOnTrack  GoalStatus = "on track"
	GoalBehind   GoalStatus = "behind"
	GoalAchieved GoalStatus = "achieved"
)

// Report holds the per-target verdicts and the combined one.
type Report struct {
	GPA     GoalStatus
	ECTS    GoalStatus
	Overall GoalStatus
}

// EvaluateGoal compares the study goal against the current summary.
//
// The GPA target is achieved once the GPA is at-or-better than the target on
// the configured scale; with no grades yet it counts as on track. The ECTS
// target is achieved once earned credits reach the target; otherwise earned
// credits are held against the linear pace from (SetAt, BaselineECTS) to
// (Deadline, TargetECTS). Past the deadline an unmet target is behind.
func EvaluateGoal(goal curriculum.StudyGoal, s Summary, scale curriculum.Scale, now time.Time) Report {
	r := Report{GPA: GoalNone, ECTS: GoalNone, Overall: GoalNone}
	if goal.TargetGPA != nil {
		r.GPA = gpaStatus(*goal.TargetGPA, s.GPA, scale)
	}
	if goal.ECTSTarget != nil {
		r.ECTS = ectsStatus(*goal.ECTSTarget, s.ECTSEarned, now)
	}
	r.Overall = combine(r.GPA, r.ECTS)
	return r
}

func gpaStatus(target float64, gpa *float64, scale curriculum.Scale) GoalStatus {
	if gpa == nil {
		return GoalOnTrack
	}
	if scale.BetterOrEqual(*gpa, target) {
		return GoalAchieved
	}
	return GoalBehind
}

func ectsStatus(target curriculum.ECTSTarget, earned float64, now time.Time) GoalStatus {
	if earned >= target.ECTS {
		return GoalAchieved
	}
	if !now.Before(target.Deadline) {
		return GoalBehind
	}
	total := target.Deadline.Sub(target.SetAt)
	if total <= 0 {
		return GoalBehind
	}
	elapsed := now.Sub(target.SetAt)
	if elapsed < 0 {
		elapsed = 0
	}
	expected := target.BaselineECTS + (target.ECTS-target.BaselineECTS)*(float64(elapsed)/float64(total))
	if earned >= expected {
		return GoalOnTrack
	}
	return GoalBehind
}

// combine folds per-target statuses into one verdict: any behind target wins,
// achieved requires every set target achieved, anything else in flight is on
// track.
func combine(statuses ...GoalStatus) GoalStatus {
	overall := GoalNone
	for _, st := range statuses {
		switch st {
		case GoalNone:
			continue
		case GoalBehind:
			return GoalBehind
		case GoalOnTrack:
			overall = GoalOnTrack
		case GoalAchieved:
			if overall == GoalNone {
				overall = GoalAchieved
			}
		}
	}
	return overall
}
