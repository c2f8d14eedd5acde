package activity

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// uidNamespace scopes activity UIDs so they never collide with other
// name-based UUIDs.
var uidNamespace = uuid.MustParse("5b1c2d52-7f0e-4c4b-9a51-6d0f4f2f8c11")

const uidTimeLayout = "2006-01-02T15:04:05"

// CalculateUID sets a.UID from the start time, duration, distance and GPS
// presence. Equal inputs always yield the same UID, independent of the
// service that produced the activity.
func (a *Activity) CalculateUID() string {
	a.UID = uidFor(a).String()
	return a.UID
}

func uidFor(a *Activity) uuid.UUID {
	distance := int64(0)
	if a.Stats.Distance.Value != nil {
		distance = int64(math.Round(*a.Stats.Distance.Value))
	}
	name := fmt.Sprintf("%s|%d|%d|%t",
		a.StartTime.Format(uidTimeLayout),
		int64(a.Duration().Seconds()),
		distance,
		a.GPS,
	)
	return uuid.NewSHA1(uidNamespace, []byte(name))
}
