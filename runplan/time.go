package runplan

import (
	"time"

	"github.com/pkg/errors"
)

const localLayout = "2006-01-02T15:04:05"

var localLayouts = []string{
	localLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseTime reads a Runplan timestamp. Timestamps are normally zone-less
// wall clock times and are read in loc; an explicit offset wins.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("runplan: unrecognised timestamp %q", s)
}

func formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(localLayout)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
