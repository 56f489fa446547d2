package curriculum

import "time"

// ECTSTarget is a credits-by-date target. SetAt and BaselineECTS record when
// the target was set and how many credits were already earned then, so pace
// can be judged against the remaining span instead of the whole program.
type ECTSTarget struct {
	ECTS         float64
	Deadline     time.Time
	SetAt        time.Time
	BaselineECTS float64
}

// StudyGoal holds the user's self-set targets. Both parts are optional and
// independent of curriculum content; the goal lives in application state next
// to the curriculum, not inside it.
type StudyGoal struct {
	TargetGPA  *float64
	ECTSTarget *ECTSTarget
}

// IsSet reports whether any target is configured.
func (g StudyGoal) IsSet() bool {
	return g.TargetGPA != nil || g.ECTSTarget != nil
}
