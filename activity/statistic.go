package activity

type Unit string

const (
	UnitMeters               Unit = "m"
	UnitKilometers           Unit = "km"
	UnitSeconds              Unit = "s"
	UnitKilocalories         Unit = "kcal"
	UnitBeatsPerMinute       Unit = "bpm"
	UnitRevolutionsPerMinute Unit = "rpm"
	UnitDegreesCelcius       Unit = "C"
)

// Statistic is an aggregate value. Each component is optional.
type Statistic struct {
	Unit    Unit     `json:"unit,omitempty"`
	Value   *float64 `json:"value,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Average *float64 `json:"average,omitempty"`
	Gain    *float64 `json:"gain,omitempty"`
	Loss    *float64 `json:"loss,omitempty"`
}

// Stats groups the statistics tracked for an activity or lap.
type Stats struct {
	Distance    Statistic `json:"distance"`
	TimerTime   Statistic `json:"timer_time"`
	MovingTime  Statistic `json:"moving_time"`
	Energy      Statistic `json:"energy"`
	HR          Statistic `json:"hr"`
	Cadence     Statistic `json:"cadence"`
	Elevation   Statistic `json:"elevation"`
	Temperature Statistic `json:"temperature"`
}

// NewStats returns Stats with units set and every value absent.
func NewStats() Stats {
	return Stats{
		Distance:    Statistic{Unit: UnitMeters},
		TimerTime:   Statistic{Unit: UnitSeconds},
		MovingTime:  Statistic{Unit: UnitSeconds},
		Energy:      Statistic{Unit: UnitKilocalories},
		HR:          Statistic{Unit: UnitBeatsPerMinute},
		Cadence:     Statistic{Unit: UnitRevolutionsPerMinute},
		Elevation:   Statistic{Unit: UnitMeters},
		Temperature: Statistic{Unit: UnitDegreesCelcius},
	}
}
