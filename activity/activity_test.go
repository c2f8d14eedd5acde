package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActivity(start time.Time, duration time.Duration, meters float64, gps bool) *Activity {
	a := &Activity{
		StartTime: start,
		EndTime:   start.Add(duration),
		GPS:       gps,
		Stats:     NewStats(),
	}
	a.Stats.Distance.Value = Float(meters)
	return a
}

func TestCalculateUID_Deterministic(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	a := newActivity(start, time.Hour, 10000, true)
	b := newActivity(start, time.Hour, 10000, true)

	require.NotEmpty(t, a.CalculateUID())
	assert.Equal(t, a.UID, b.CalculateUID())
}

func TestCalculateUID_InputsMatter(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	base := newActivity(start, time.Hour, 10000, true).CalculateUID()

	tests := []struct {
		name     string
		activity *Activity
	}{
		{"start", newActivity(start.Add(time.Second), time.Hour, 10000, true)},
		{"duration", newActivity(start, time.Hour+time.Second, 10000, true)},
		{"distance", newActivity(start, time.Hour, 10001, true)},
		{"gps", newActivity(start, time.Hour, 10000, false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.activity.CalculateUID())
		})
	}
}

func TestCalculateUID_SubMeterDistanceIgnored(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	a := newActivity(start, time.Hour, 10000.2, false)
	b := newActivity(start, time.Hour, 9999.9, false)
	assert.Equal(t, a.CalculateUID(), b.CalculateUID())
}

func TestCalculateUID_NotRecomputedOnMutation(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	a := newActivity(start, time.Hour, 10000, true)
	uid := a.CalculateUID()

	a.Stats.Distance.Value = Float(12000)
	a.Laps = append(a.Laps, &Lap{StartTime: a.StartTime, EndTime: a.EndTime})

	assert.Equal(t, uid, a.UID)
}

func TestLapContains(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	lap := &Lap{StartTime: start, EndTime: start.Add(10 * time.Minute)}

	assert.True(t, lap.Contains(start))
	assert.True(t, lap.Contains(start.Add(10*time.Minute)))
	assert.False(t, lap.Contains(start.Add(-time.Second)))
	assert.False(t, lap.Contains(start.Add(10*time.Minute+time.Nanosecond)))
}

func TestWaypoints_LapOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	w1 := &Waypoint{Timestamp: start}
	w2 := &Waypoint{Timestamp: start.Add(time.Minute)}
	w3 := &Waypoint{Timestamp: start.Add(2 * time.Minute)}
	a := &Activity{Laps: []*Lap{
		{Waypoints: []*Waypoint{w1, w2}},
		{},
		{Waypoints: []*Waypoint{w3}},
	}}

	assert.Equal(t, []*Waypoint{w1, w2, w3}, a.Waypoints())
}

func TestExclusionError(t *testing.T) {
	e := NewExclusion("42", ExclusionUnsupported, "unknown activity type %q", "rowing")
	assert.Equal(t, `activity 42 excluded (unsupported): unknown activity type "rowing"`, e.Error())
}
