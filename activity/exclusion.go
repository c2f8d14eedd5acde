package activity

import "fmt"

type ExclusionReason string

const (
	ExclusionCorrupt     ExclusionReason = "corrupt"
	ExclusionUnsupported ExclusionReason = "unsupported"
)

// Exclusion reports a remote record that was skipped. It does not fail the
// operation that produced it.
type Exclusion struct {
	ActivityID string          `json:"activity_id"`
	Message    string          `json:"message"`
	Reason     ExclusionReason `json:"reason"`
}

func NewExclusion(activityID string, reason ExclusionReason, format string, args ...interface{}) *Exclusion {
	return &Exclusion{
		ActivityID: activityID,
		Message:    fmt.Sprintf(format, args...),
		Reason:     reason,
	}
}

func (e *Exclusion) Error() string {
	return fmt.Sprintf("activity %s excluded (%s): %s", e.ActivityID, e.Reason, e.Message)
}
