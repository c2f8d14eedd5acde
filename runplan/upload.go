package runplan

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/kwoodhouse93/runplan-sync/activity"
)

// uploadSource identifies this connector as the origin of uploaded activities.
const uploadSource = "runplan-sync"

// UploadActivity creates act on Runplan and returns the id Runplan assigned.
func (a *API) UploadActivity(ctx context.Context, auth Authorization, act *activity.Activity) (string, error) {
	payload, err := buildPayload(act, a.config.Location)
	if err != nil {
		return "", newUploadError("build payload", nil, err)
	}
	id, err := a.send(ctx, auth, payload)
	if err != nil {
		return "", err
	}
	a.logger.Info("activity uploaded", "uid", payload.ExternalID, "remote_id", id)
	return id, nil
}

func (a *API) send(ctx context.Context, auth Authorization, payload *uploadPayload) (string, error) {
	if err := checkUniform(payload.RecordingKeys, payload.RecordingValues); err != nil {
		return "", newUploadError("validate payload", nil, err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", newUploadError("encode payload", nil, errors.Wrap(err, "failed to marshal payload"))
	}
	resp, err := a.do(ctx, auth, request{
		method:      http.MethodPost,
		path:        activityPath,
		contentType: "application/json",
		body:        body,
	})
	if err != nil {
		return "", newUploadError("post activity", nil, err)
	}
	if resp.status != http.StatusOK && resp.status != http.StatusCreated {
		return "", newUploadError("post activity", resp, nil)
	}
	var created uploadResponse
	if err := json.Unmarshal(resp.body, &created); err != nil {
		return "", newUploadError("post activity", resp, errors.Wrap(err, "failed to decode response"))
	}
	if created.ID == "" {
		return "", newUploadError("post activity", resp, errors.New("response has no id"))
	}
	return string(created.ID), nil
}

// checkUniform enforces one series per key, all of the same length.
func checkUniform(keys []string, values [][]*float64) error {
	if len(values) != len(keys) {
		return errors.Errorf("%d recording keys but %d series", len(keys), len(values))
	}
	for i := range values {
		if len(values[i]) != len(values[0]) {
			return errors.Errorf("series %q has %d samples, want %d", keys[i], len(values[i]), len(values[0]))
		}
	}
	return nil
}

func buildPayload(act *activity.Activity, loc *time.Location) (*uploadPayload, error) {
	remoteType, ok := mapToRemoteType(act.Type)
	if !ok {
		return nil, errors.Errorf("unsupported activity type %q", act.Type)
	}
	uid := act.UID
	if uid == "" {
		c := *act
		uid = c.CalculateUID()
	}

	stats := act.Stats
	p := &uploadPayload{
		Source:     uploadSource,
		ExternalID: uid,
		Start:      formatTime(act.StartTime, loc),
		Duration:   resolveDuration(act),
		Type:       remoteType,

		Calories:      roundInt(stats.Energy.Value),
		CadenceMin:    roundInt(stats.Cadence.Min),
		CadenceAvg:    roundInt(stats.Cadence.Average),
		CadenceMax:    roundInt(stats.Cadence.Max),
		HeartRateMin:  roundInt(stats.HR.Min),
		HeartRateAvg:  roundInt(stats.HR.Average),
		HeartRateMax:  roundInt(stats.HR.Max),
		ElevationMin:  stats.Elevation.Min,
		ElevationMax:  stats.Elevation.Max,
		ElevationGain: stats.Elevation.Gain,
		ElevationLoss: stats.Elevation.Loss,
		Temperature:   stats.Temperature.Average,
	}
	if stats.Distance.Value != nil {
		p.Distance = *stats.Distance.Value / 1000
	}
	switch {
	case act.Notes != "":
		p.Notes = &act.Notes
	case act.Name != "":
		p.Notes = &act.Name
	}

	if len(act.Laps) == 0 || len(act.Laps[0].Waypoints) == 0 {
		return p, nil
	}
	addRecording(p, act)
	return p, nil
}

// resolveDuration prefers timer time, then moving time, then the wall clock
// span, in whole seconds.
func resolveDuration(act *activity.Activity) int64 {
	switch {
	case act.Stats.TimerTime.Value != nil:
		return int64(math.Round(*act.Stats.TimerTime.Value))
	case act.Stats.MovingTime.Value != nil:
		return int64(math.Round(*act.Stats.MovingTime.Value))
	default:
		return int64(math.Round(act.Duration().Seconds()))
	}
}

// fieldSet records which waypoint fields are present on at least one
// waypoint. Absent fields are left out of the recording entirely.
type fieldSet struct {
	distance    bool
	latitude    bool
	longitude   bool
	elevation   bool
	heartRate   bool
	cadence     bool
	temperature bool
}

func scanFields(wps []*activity.Waypoint) fieldSet {
	var f fieldSet
	for _, wp := range wps {
		f.distance = f.distance || wp.Distance != nil
		f.heartRate = f.heartRate || wp.HR != nil
		f.cadence = f.cadence || wp.Cadence != nil
		f.temperature = f.temperature || wp.Temperature != nil
		if wp.Location != nil {
			f.latitude = f.latitude || wp.Location.Latitude != nil
			f.longitude = f.longitude || wp.Location.Longitude != nil
			f.elevation = f.elevation || wp.Location.Altitude != nil
		}
	}
	return f
}

type series struct {
	key   string
	value func(wp *activity.Waypoint) *float64
}

func (f fieldSet) columns(start time.Time) []series {
	out := []series{{keyClock, func(wp *activity.Waypoint) *float64 {
		return activity.Float(wp.Timestamp.Sub(start).Seconds())
	}}}
	add := func(present bool, key string, value func(wp *activity.Waypoint) *float64) {
		if present {
			out = append(out, series{key, value})
		}
	}
	add(f.distance, keyDistance, func(wp *activity.Waypoint) *float64 {
		if wp.Distance == nil {
			return nil
		}
		return activity.Float(*wp.Distance / 1000)
	})
	add(f.latitude, keyLatitude, func(wp *activity.Waypoint) *float64 {
		if wp.Location == nil {
			return nil
		}
		return wp.Location.Latitude
	})
	add(f.longitude, keyLongitude, func(wp *activity.Waypoint) *float64 {
		if wp.Location == nil {
			return nil
		}
		return wp.Location.Longitude
	})
	add(f.elevation, keyElevation, func(wp *activity.Waypoint) *float64 {
		if wp.Location == nil {
			return nil
		}
		return wp.Location.Altitude
	})
	add(f.heartRate, keyHeartRate, func(wp *activity.Waypoint) *float64 { return wp.HR })
	add(f.cadence, keyCadence, func(wp *activity.Waypoint) *float64 { return wp.Cadence })
	add(f.temperature, keyTemperature, func(wp *activity.Waypoint) *float64 { return wp.Temperature })
	return out
}

func addRecording(p *uploadPayload, act *activity.Activity) {
	columns := scanFields(act.Waypoints()).columns(act.StartTime)
	p.RecordingKeys = make([]string, len(columns))
	p.RecordingValues = make([][]*float64, len(columns))
	for i, c := range columns {
		p.RecordingKeys[i] = c.key
		p.RecordingValues[i] = []*float64{}
	}

	var agg aggregates
	var lastDistance *float64
	lapDistance := 0.0
	for _, lap := range act.Laps {
		for _, wp := range lap.Waypoints {
			for i, c := range columns {
				p.RecordingValues[i] = append(p.RecordingValues[i], c.value(wp))
			}
			agg.observe(wp)
			if wp.Distance != nil {
				lastDistance = wp.Distance
			}
			if p.StartLatitude == nil && wp.Location.HasPosition() {
				p.StartLatitude = wp.Location.Latitude
				p.StartLongitude = wp.Location.Longitude
			}
		}
		if lap.Stats.Distance.Value != nil {
			lapDistance += *lap.Stats.Distance.Value
		}
		endDistance := lapDistance
		if lastDistance != nil {
			endDistance = *lastDistance
		}
		intensity := lap.Intensity
		if intensity == "" {
			intensity = activity.IntensityActive
		}
		p.Laps = append(p.Laps, uploadLap{
			Type:        string(intensity),
			EndDuration: int64(math.Round(lap.EndTime.Sub(act.StartTime).Seconds())),
			EndDistance: endDistance / 1000,
		})
	}
	agg.fill(p)
}

// aggregates tracks the fallbacks sent when the activity carries no
// explicit statistic.
type aggregates struct {
	hrMin, hrMax *float64
	cadenceMin   *float64
	cadenceMax   *float64
	elevationMin *float64
	elevationMax *float64
	cadenceAvg   float64
	cadenceN     int
	cadencePrev  float64
}

func (g *aggregates) observe(wp *activity.Waypoint) {
	if wp.HR != nil {
		g.hrMin = minOf(g.hrMin, *wp.HR)
		g.hrMax = maxOf(g.hrMax, *wp.HR)
	}
	if wp.Cadence != nil {
		g.cadenceMin = minOf(g.cadenceMin, *wp.Cadence)
		g.cadenceMax = maxOf(g.cadenceMax, *wp.Cadence)
		g.observeCadence(*wp.Cadence)
	}
	if wp.Location != nil && wp.Location.Altitude != nil {
		g.elevationMin = minOf(g.elevationMin, *wp.Location.Altitude)
		g.elevationMax = maxOf(g.elevationMax, *wp.Location.Altitude)
	}
}

// observeCadence advances the running cadence mean by one step. The step
// folds in the previous sample, so the newest sample is not yet counted and
// the first step yields 0.
func (g *aggregates) observeCadence(x float64) {
	g.cadenceAvg = cumulativeAverage(g.cadenceAvg, g.cadenceN, g.cadencePrev)
	g.cadencePrev = x
	g.cadenceN++
}

// cumulativeAverage folds x into avg, the mean of n-1 samples. n == 0 yields 0.
func cumulativeAverage(avg float64, n int, x float64) float64 {
	if n == 0 {
		return 0
	}
	return (avg*float64(n-1) + x) / float64(n)
}

func (g *aggregates) fill(p *uploadPayload) {
	if p.HeartRateMin == nil {
		p.HeartRateMin = roundInt(g.hrMin)
	}
	if p.HeartRateMax == nil {
		p.HeartRateMax = roundInt(g.hrMax)
	}
	if p.CadenceMin == nil {
		p.CadenceMin = roundInt(g.cadenceMin)
	}
	if p.CadenceMax == nil {
		p.CadenceMax = roundInt(g.cadenceMax)
	}
	if p.CadenceAvg == nil && g.cadenceN > 0 {
		p.CadenceAvg = roundInt(&g.cadenceAvg)
	}
	if p.ElevationMin == nil {
		p.ElevationMin = g.elevationMin
	}
	if p.ElevationMax == nil {
		p.ElevationMax = g.elevationMax
	}
}

func minOf(cur *float64, v float64) *float64 {
	if cur == nil || v < *cur {
		return activity.Float(v)
	}
	return cur
}

func maxOf(cur *float64, v float64) *float64 {
	if cur == nil || v > *cur {
		return activity.Float(v)
	}
	return cur
}

func roundInt(v *float64) *int {
	if v == nil {
		return nil
	}
	i := int(math.Round(*v))
	return &i
}
