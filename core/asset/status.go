package asset

const (
	StatusUnmarked   Status = "Unmarked"
	StatusFlagged    Status = "Flagged"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// AllSupportedStatuses holds a list of all supported inspection statuses
var AllSupportedStatuses = []Status{
	StatusUnmarked,
	StatusFlagged,
	StatusInProgress,
	StatusResolved,
}

// Status is the inspection state of an asset. It drives the marker
// styling and is the only mutable field after placement.
type Status string

// String cast Status to string
func (s Status) String() string {
	return string(s)
}

// IsValid will validate whether the status is valid or not
func (s Status) IsValid() bool {
	switch s {
	case StatusUnmarked, StatusFlagged, StatusInProgress, StatusResolved:
		return true
	}
	return false
}
