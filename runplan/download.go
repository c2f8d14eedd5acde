package runplan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/kwoodhouse93/runplan-sync/activity"
)

// lapGap separates one lap's end from the next lap's start. Samples falling
// inside it belong to no lap.
const lapGap = time.Second

// DownloadActivity fetches one activity with its laps and, for recorded
// activities, its waypoints.
func (a *API) DownloadActivity(ctx context.Context, auth Authorization, id string) (*activity.Activity, error) {
	op := "get activity " + id
	resp, err := a.do(ctx, auth, request{
		method: http.MethodGet,
		path:   activityPath + "/" + url.PathEscape(id),
	})
	if err != nil {
		return nil, newDownloadError(op, nil, err)
	}
	if resp.status != http.StatusOK {
		return nil, newDownloadError(op, resp, nil)
	}
	var rec activityRecord
	if err := json.Unmarshal(resp.body, &rec); err != nil {
		return nil, newDownloadError(op, resp, errors.Wrap(err, "failed to decode activity"))
	}
	if rec.ID == "" {
		rec.ID = remoteID(id)
	}

	act, excl := a.populateSummary(&rec)
	if excl != nil {
		return nil, newDownloadError(op, resp, excl)
	}

	if rec.Source == sourceManual || len(rec.RecordingKeys) == 0 {
		act.Stationary = true
		act.Laps = []*activity.Lap{{
			StartTime: act.StartTime,
			EndTime:   act.EndTime,
			Intensity: activity.IntensityActive,
			Stats:     act.Stats,
		}}
		return act, nil
	}

	act.Laps = buildLaps(act.StartTime, act.EndTime, rec.Laps)
	if len(act.Laps) == 1 {
		act.Laps[0].Stats = act.Stats
	}

	waypoints, err := buildWaypoints(act.StartTime, rec.RecordingKeys, rec.RecordingValues)
	if err != nil {
		return nil, newDownloadError(op, resp, err)
	}
	dropped := 0
	for _, wp := range waypoints {
		lap := containingLap(act.Laps, wp.Timestamp)
		if lap == nil {
			dropped++
			continue
		}
		lap.Waypoints = append(lap.Waypoints, wp)
	}
	if dropped > 0 {
		a.logger.Debug("dropped waypoints outside laps", "activity_id", id, "count", dropped)
	}
	return act, nil
}

// buildLaps lays laps out back to back from start, lapGap apart. The last lap
// is stretched to end when the durations fall short of it.
func buildLaps(start, end time.Time, durations []float64) []*activity.Lap {
	if len(durations) == 0 {
		return []*activity.Lap{newLap(start, end)}
	}
	laps := make([]*activity.Lap, 0, len(durations))
	cursor := start
	for _, d := range durations {
		if d < 0 {
			d = 0
		}
		lapEnd := cursor.Add(seconds(d))
		laps = append(laps, newLap(cursor, lapEnd))
		cursor = lapEnd.Add(lapGap)
	}
	last := laps[len(laps)-1]
	if last.EndTime.Before(end) {
		last.EndTime = end
		last.Stats.TimerTime.Value = activity.Float(end.Sub(last.StartTime).Seconds())
	}
	return laps
}

func newLap(start, end time.Time) *activity.Lap {
	lap := &activity.Lap{
		StartTime: start,
		EndTime:   end,
		Intensity: activity.IntensityActive,
		Stats:     activity.NewStats(),
	}
	lap.Stats.TimerTime.Value = activity.Float(end.Sub(start).Seconds())
	return lap
}

// containingLap returns the first lap, in order, whose interval contains t.
func containingLap(laps []*activity.Lap, t time.Time) *activity.Lap {
	for _, lap := range laps {
		if lap.Contains(t) {
			return lap
		}
	}
	return nil
}

// buildWaypoints turns the parallel per-key series into waypoints. Every
// series must be as long as the others.
func buildWaypoints(start time.Time, keys []string, values [][]*float64) ([]*activity.Waypoint, error) {
	if len(values) != len(keys) {
		return nil, errors.Errorf("%d recording keys but %d series", len(keys), len(values))
	}
	series := make(map[string][]*float64, len(keys))
	n := -1
	for i, key := range keys {
		if n >= 0 && len(values[i]) != n {
			return nil, errors.Errorf("series %q has %d samples, want %d", key, len(values[i]), n)
		}
		n = len(values[i])
		series[key] = values[i]
	}
	clock, ok := series[keyClock]
	if !ok {
		return nil, errors.New("recording has no clock series")
	}

	at := func(key string, i int) *float64 {
		s, ok := series[key]
		if !ok {
			return nil
		}
		return s[i]
	}
	_, hasLat := series[keyLatitude]
	_, hasLon := series[keyLongitude]
	_, hasEle := series[keyElevation]
	hasLocation := hasLat || hasLon || hasEle

	waypoints := make([]*activity.Waypoint, 0, n)
	for i := 0; i < n; i++ {
		if clock[i] == nil {
			continue
		}
		wp := &activity.Waypoint{
			Timestamp:   start.Add(seconds(*clock[i])),
			Type:        activity.WaypointRegular,
			HR:          at(keyHeartRate, i),
			Cadence:     at(keyCadence, i),
			Temperature: at(keyTemperature, i),
		}
		if d := at(keyDistance, i); d != nil {
			wp.Distance = activity.Float(*d * 1000)
		}
		if hasLocation {
			wp.Location = &activity.Location{
				Latitude:  coordinate(at(keyLatitude, i)),
				Longitude: coordinate(at(keyLongitude, i)),
				Altitude:  at(keyElevation, i),
			}
		}
		waypoints = append(waypoints, wp)
	}
	if len(waypoints) > 0 {
		waypoints[0].Type = activity.WaypointStart
		waypoints[len(waypoints)-1].Type = activity.WaypointEnd
	}
	return waypoints, nil
}
