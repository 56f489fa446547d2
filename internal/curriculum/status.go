package curriculum

// Status is the lifecycle state of a module. The normal path is
// planned -> enrolled -> completed; recognized is a side state for credit
// transfer, reachable directly from planned. Completed and recognized are
// terminal; only the administrative Reset returns a module to planned.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusEnrolled   Status = "enrolled"
	StatusCompleted  Status = "completed"
	StatusRecognized Status = "recognized"
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{StatusCompleted, StatusRecognized, StatusEnrolled, StatusPlanned}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusEnrolled, StatusCompleted, StatusRecognized:
		return true
	}
	return false
}

// Terminal reports whether no regular transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRecognized
}

// Label returns the display name used by the dashboard.
func (s Status) Label() string {
	switch s {
	case StatusPlanned:
		return "Planned"
	case StatusEnrolled:
		return "Enrolled"
	case StatusCompleted:
		return "Completed"
	case StatusRecognized:
		return "Recognized"
	}
	return string(s)
}
