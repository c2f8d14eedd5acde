package runplan

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// remoteID accepts identifiers sent either as JSON numbers or strings.
type remoteID string

func (id *remoteID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = remoteID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrap(err, "runplan: id is neither string nor number")
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return errors.Wrap(err, "runplan: invalid numeric id")
	}
	*id = remoteID(n.String())
	return nil
}

type userResponse struct {
	ID remoteID `json:"id"`
}

type activitiesResponse struct {
	Activities []json.RawMessage `json:"activities"`
}

// activityRecord is both the list item and the detail body; the detail adds
// source, recording and lap fields.
type activityRecord struct {
	ID             remoteID `json:"activityId"`
	Start          string   `json:"start"`
	End            string   `json:"end"`
	Type           string   `json:"type"`
	Name           string   `json:"name"`
	Notes          string   `json:"notes"`
	Distance       *float64 `json:"distance"` // km
	Duration       *float64 `json:"duration"` // s
	Calories       *float64 `json:"calories"`
	HeartRateMin   *float64 `json:"heartRateMin"`
	HeartRateMax   *float64 `json:"heartRateMax"`
	HeartRateAvg   *float64 `json:"heartRateAvg"`
	Temperature    *float64 `json:"temperature"`
	StartLatitude  *float64 `json:"startLatitude"`
	StartLongitude *float64 `json:"startLongitude"`

	Source          string       `json:"source"`
	RecordingKeys   []string     `json:"recordingKeys"`
	RecordingValues [][]*float64 `json:"recordingValues"`
	Laps            []float64    `json:"laps"` // per-lap durations, s
}

const sourceManual = "manual"

// Time-series keys, in the order uploads emit them.
const (
	keyClock       = "clock"
	keyDistance    = "distance"
	keyLatitude    = "latitude"
	keyLongitude   = "longitude"
	keyElevation   = "elevation"
	keyHeartRate   = "heartRate"
	keyCadence     = "cadence"
	keyTemperature = "temperature"
)

// unknownCoordinate is Runplan's marker for a missing latitude or longitude.
const unknownCoordinate = -1

type uploadPayload struct {
	Source     string  `json:"source"`
	ExternalID string  `json:"externalId"`
	Start      string  `json:"start"`
	Distance   float64 `json:"distance"` // km
	Duration   int64   `json:"duration"` // s
	Type       string  `json:"type"`

	Notes          *string  `json:"notes,omitempty"`
	Calories       *int     `json:"calories,omitempty"`
	CadenceMin     *int     `json:"cadenceMin,omitempty"`
	CadenceAvg     *int     `json:"cadenceAvg,omitempty"`
	CadenceMax     *int     `json:"cadenceMax,omitempty"`
	HeartRateMin   *int     `json:"heartRateMin,omitempty"`
	HeartRateAvg   *int     `json:"heartRateAvg,omitempty"`
	HeartRateMax   *int     `json:"heartRateMax,omitempty"`
	ElevationMin   *float64 `json:"elevationMin,omitempty"`
	ElevationMax   *float64 `json:"elevationMax,omitempty"`
	ElevationGain  *float64 `json:"elevationGain,omitempty"`
	ElevationLoss  *float64 `json:"elevationLoss,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	StartLatitude  *float64 `json:"startLatitude,omitempty"`
	StartLongitude *float64 `json:"startLongitude,omitempty"`

	Laps            []uploadLap  `json:"laps,omitempty"`
	RecordingKeys   []string     `json:"recordingKeys,omitempty"`
	RecordingValues [][]*float64 `json:"recordingValues,omitempty"`
}

type uploadLap struct {
	Type        string  `json:"type"`
	EndDuration int64   `json:"endDuration"` // s since activity start
	EndDistance float64 `json:"endDistance"` // km since activity start
}

type uploadResponse struct {
	ID remoteID `json:"id"`
}
