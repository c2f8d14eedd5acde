package runplan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/kwoodhouse93/runplan-sync/activity"
)

const serviceDataID = "id"

// ListActivities returns the account's activities as summaries without laps.
// Records that cannot be mapped are reported as exclusions rather than
// failing the call. Unless exhaustive, only the first page is fetched;
// otherwise pages are fetched in order until one comes back empty.
func (a *API) ListActivities(ctx context.Context, auth Authorization, exhaustive bool) ([]*activity.Activity, []*activity.Exclusion, error) {
	activities := []*activity.Activity{}
	exclusions := []*activity.Exclusion{}

	for page := 1; ; page++ {
		records, err := a.listPage(ctx, auth, page)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("fetched activity page", "page", page, "records", len(records))
		if len(records) == 0 {
			break
		}
		for _, raw := range records {
			act, excl := a.parseSummary(raw)
			if excl != nil {
				a.logger.Debug("excluding activity", "activity_id", excl.ActivityID, "reason", excl.Reason, "message", excl.Message)
				exclusions = append(exclusions, excl)
				continue
			}
			activities = append(activities, act)
		}
		if !exhaustive {
			break
		}
	}
	return activities, exclusions, nil
}

func (a *API) listPage(ctx context.Context, auth Authorization, page int) ([]json.RawMessage, error) {
	op := "list activities page " + strconv.Itoa(page)
	resp, err := a.do(ctx, auth, request{
		method: http.MethodGet,
		path:   activitiesPath,
		query: url.Values{
			"pageSize": {strconv.Itoa(a.config.PageSize)},
			"page":     {strconv.Itoa(page)},
		},
	})
	if err != nil {
		return nil, newDownloadError(op, nil, err)
	}
	if resp.status != http.StatusOK {
		return nil, newDownloadError(op, resp, nil)
	}
	var body activitiesResponse
	if err := json.Unmarshal(resp.body, &body); err != nil {
		return nil, newDownloadError(op, resp, errors.Wrap(err, "failed to decode activity list"))
	}
	return body.Activities, nil
}

func (a *API) parseSummary(raw json.RawMessage) (*activity.Activity, *activity.Exclusion) {
	var rec activityRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		var idOnly struct {
			ID remoteID `json:"activityId"`
		}
		_ = json.Unmarshal(raw, &idOnly)
		return nil, activity.NewExclusion(string(idOnly.ID), activity.ExclusionCorrupt, "malformed activity record: %v", err)
	}
	act, excl := a.populateSummary(&rec)
	if excl != nil {
		return nil, excl
	}
	return act, nil
}

// populateSummary fills everything the UID depends on, plus the coarse
// statistics, and computes the UID.
func (a *API) populateSummary(rec *activityRecord) (*activity.Activity, *activity.Exclusion) {
	id := string(rec.ID)
	if id == "" {
		return nil, activity.NewExclusion(id, activity.ExclusionCorrupt, "missing activityId")
	}
	actType, ok := mapRemoteType(rec.Type)
	if !ok {
		return nil, activity.NewExclusion(id, activity.ExclusionUnsupported, "unsupported activity type %q", rec.Type)
	}
	if rec.Start == "" {
		return nil, activity.NewExclusion(id, activity.ExclusionCorrupt, "missing start")
	}
	start, err := parseTime(rec.Start, a.config.Location)
	if err != nil {
		return nil, activity.NewExclusion(id, activity.ExclusionCorrupt, "%v", err)
	}
	if rec.Duration == nil {
		return nil, activity.NewExclusion(id, activity.ExclusionCorrupt, "missing duration")
	}

	end := start.Add(seconds(*rec.Duration))
	if rec.End != "" {
		end, err = parseTime(rec.End, a.config.Location)
		if err != nil {
			return nil, activity.NewExclusion(id, activity.ExclusionCorrupt, "%v", err)
		}
	}

	act := &activity.Activity{
		StartTime:   start,
		EndTime:     end,
		Type:        actType,
		Name:        rec.Name,
		Notes:       rec.Notes,
		Stats:       activity.NewStats(),
		ServiceData: map[string]string{serviceDataID: id},
	}
	if rec.Distance != nil {
		act.Stats.Distance.Value = activity.Float(*rec.Distance * 1000)
	}
	act.Stats.TimerTime.Value = activity.Float(*rec.Duration)
	act.Stats.Energy.Value = rec.Calories
	act.Stats.HR.Min = rec.HeartRateMin
	act.Stats.HR.Max = rec.HeartRateMax
	act.Stats.HR.Average = rec.HeartRateAvg
	act.Stats.Temperature.Average = rec.Temperature

	act.GPS = coordinate(rec.StartLatitude) != nil
	act.Stationary = !act.GPS

	act.CalculateUID()
	return act, nil
}

// coordinate drops the unknown-coordinate marker.
func coordinate(v *float64) *float64 {
	if v == nil || *v == unknownCoordinate {
		return nil
	}
	return activity.Float(*v)
}
