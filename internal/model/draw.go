package model

// DrawProfile matches the JSON shape of a draw profile file.
//
// Example:
// {
//   "name": "Bldg=Single_CZ=1_Prof=5",
//   "start_hour_of_year": 0,
//   "horizon_min": 1440,
//   "events": [ ... ]
// }
type DrawProfile struct {
	Name string `json:"name"`
	// StartHourOfYear anchors minute 0 of the profile in the calendar year,
	// which drives hourly electricity CO2 and mains temperature lookups.
	StartHourOfYear int `json:"start_hour_of_year"`
	// HorizonMinutes is an optional lower bound on the simulated span.
	HorizonMinutes float64     `json:"horizon_min,omitempty"`
	Events         []DrawEvent `json:"events"`
}

// DrawEvent is one hot water draw.
// Units: StartTime and Duration in minutes from the profile origin, FlowRate
// in gal/min, InletTemperature in °F.
type DrawEvent struct {
	StartTime        float64  `json:"start_time"`
	Duration         float64  `json:"duration"`
	FlowRate         float64  `json:"flow_rate"`
	InletTemperature *float64 `json:"inlet_temperature,omitempty"`
}

func (e DrawEvent) EndTime() float64 { return e.StartTime + e.Duration }

// Volume is the total gallons the event withdraws.
func (e DrawEvent) Volume() float64 {
	if e.Duration == 0 || e.FlowRate == 0 {
		return 0
	}
	return e.FlowRate * e.Duration
}

// Validate checks the event in isolation; index is reported in the error.
func (e DrawEvent) Validate(index int) error {
	switch {
	case !finite(e.StartTime) || e.StartTime < 0:
		return invalidf("events.start_time", index, "must be finite and >= 0, got %g", e.StartTime)
	case !finite(e.Duration) || e.Duration < 0:
		return invalidf("events.duration", index, "must be finite and >= 0, got %g", e.Duration)
	case !finite(e.FlowRate) || e.FlowRate < 0:
		return invalidf("events.flow_rate", index, "must be finite and >= 0, got %g", e.FlowRate)
	case e.InletTemperature != nil && !finite(*e.InletTemperature):
		return invalidf("events.inlet_temperature", index, "must be finite")
	}
	return nil
}

// TotalVolume sums the source volume of all events.
func TotalVolume(events []DrawEvent) float64 {
	total := 0.0
	for _, e := range events {
		total += e.Volume()
	}
	return total
}

// Float64 returns a pointer to v, for optional fields.
func Float64(v float64) *float64 { return &v }
