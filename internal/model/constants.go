package model

// PhysicalConstants bundles water properties and unit conversion factors.
// It is passed explicitly to anything that needs it; nothing in this module
// reads these values from package-level state.
type PhysicalConstants struct {
	WaterDensity      float64 // lb_m/gal @ 80 °F
	WaterSpecificHeat float64 // Btu/(lb_m-°F) @ 80 °F

	MinutesPerHour   float64
	SecondsPerMinute float64

	BtuPerHourPerWatt float64 // also Btu per Wh
	FPerK             float64 // temperature magnitudes only
	BtuPerTherm       float64

	PoundsPerMetricTon float64
	PoundsPerShortTon  float64
	KWhPerMWh          float64
}

// DefaultConstants returns the values used by the GTI gas HPWH model.
func DefaultConstants() PhysicalConstants {
	return PhysicalConstants{
		WaterDensity:       8.3176,
		WaterSpecificHeat:  0.998,
		MinutesPerHour:     60,
		SecondsPerMinute:   60,
		BtuPerHourPerWatt:  3.412142,
		FPerK:              1.8,
		BtuPerTherm:        100000,
		PoundsPerMetricTon: 2204.62,
		PoundsPerShortTon:  2000,
		KWhPerMWh:          1000,
	}
}

// BtuPerGallonDegree is the energy needed to move one gallon of water by 1 °F.
func (c PhysicalConstants) BtuPerGallonDegree() float64 {
	return c.WaterDensity * c.WaterSpecificHeat
}
