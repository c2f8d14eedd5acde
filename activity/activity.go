// Package activity is the canonical activity representation shared by all
// service connectors. Connectors read from and write into these types; they
// never own their persistence.
package activity

import (
	"time"
)

type Type string

const (
	TypeRunning  Type = "Running"
	TypeCycling  Type = "Cycling"
	TypeWalking  Type = "Walking"
	TypeSwimming Type = "Swimming"
	TypeOther    Type = "Other"
)

// Activity is a single workout. Optional scalar values live in Stats and are
// nil when the source did not supply them.
type Activity struct {
	UID        string    `json:"uid"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Type       Type      `json:"type"`
	Name       string    `json:"name,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	GPS        bool      `json:"gps"`
	Stationary bool      `json:"stationary"`
	Stats      Stats     `json:"stats"`
	Laps       []*Lap    `json:"laps,omitempty"`

	// ServiceData holds connector specific identifiers, e.g. the remote id.
	ServiceData map[string]string `json:"service_data,omitempty"`
}

// Duration is the wall clock span between start and end.
func (a *Activity) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}

// Waypoints returns every waypoint of every lap, in lap order.
func (a *Activity) Waypoints() []*Waypoint {
	var wps []*Waypoint
	for _, lap := range a.Laps {
		wps = append(wps, lap.Waypoints...)
	}
	return wps
}

type LapIntensity string

const (
	IntensityActive LapIntensity = "active"
	IntensityRest   LapIntensity = "rest"
)

// Lap is a time bounded segment of an activity. An empty Intensity means
// active.
type Lap struct {
	StartTime time.Time    `json:"start_time"`
	EndTime   time.Time    `json:"end_time"`
	Intensity LapIntensity `json:"intensity,omitempty"`
	Stats     Stats        `json:"stats"`
	Waypoints []*Waypoint  `json:"waypoints,omitempty"`
}

// Contains reports whether t falls within the lap's closed [start, end] interval.
func (l *Lap) Contains(t time.Time) bool {
	return !t.Before(l.StartTime) && !t.After(l.EndTime)
}

type WaypointType string

const (
	WaypointRegular WaypointType = "regular"
	WaypointStart   WaypointType = "start"
	WaypointEnd     WaypointType = "end"
)

// Waypoint is one timestamped sample. Distance is cumulative, in meters.
type Waypoint struct {
	Timestamp   time.Time    `json:"timestamp"`
	Type        WaypointType `json:"type,omitempty"`
	Location    *Location    `json:"location,omitempty"`
	HR          *float64     `json:"hr,omitempty"`
	Cadence     *float64     `json:"cadence,omitempty"`
	Temperature *float64     `json:"temperature,omitempty"`
	Distance    *float64     `json:"distance,omitempty"`
}

// Location is a position. Any coordinate may be absent.
type Location struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
}

// HasPosition reports whether both latitude and longitude are known.
func (l *Location) HasPosition() bool {
	return l != nil && l.Latitude != nil && l.Longitude != nil
}

// Float returns a pointer to v, for populating optional fields.
func Float(v float64) *float64 {
	return &v
}
