package model

// DeviceSpec is the nameplate description of a gas HPWH in the units
// manufacturers publish (mostly SI). ToParameterSet converts it into the
// IP, per-hour ParameterSet the integrator works in.
// Units:
// - TankVolume: gal
// - JacketLoss: W/K
// - BackupPower, HeatPumpFiringRate: W
// - temperatures: °F
// - ActiveElectricDemand, IdleElectricDemand: W
// - NOxOutput: ng/J of fuel input
// - CO2Gas: metric tons per therm of fuel
// - CO2Electricity: short tons per MWh (scalar default)
type DeviceSpec struct {
	TankVolume float64
	JacketLoss float64

	BackupPower        float64
	BackupActivation   float64
	BackupDeactivation float64

	HeatPumpFiringRate float64
	Setpoint           float64
	Deadband           float64
	InitialTemperature float64

	ActiveElectricDemand float64
	IdleElectricDemand   float64

	NOxOutput      float64
	CO2Gas         float64
	CO2Electricity float64
}

// ToParameterSet converts the nameplate. hourlyCO2 (short tons/MWh, one value per
// hour of year) replaces the scalar electricity factor when non-empty.
func (d DeviceSpec) ToParameterSet(c PhysicalConstants, hourlyCO2 []float64) ParameterSet {
	firingBtuPerHour := d.HeatPumpFiringRate * c.BtuPerHourPerWatt

	p := ParameterSet{
		// ×FPerK, as in the field-validated GTI model the coefficients come from.
		JacketLossCoefficient: d.JacketLoss * c.BtuPerHourPerWatt * c.FPerK,

		BackupPower:        d.BackupPower * c.BtuPerHourPerWatt,
		BackupActivation:   d.BackupActivation,
		BackupDeactivation: d.BackupDeactivation,

		HeatPumpFiringRate: firingBtuPerHour,
		Setpoint:           d.Setpoint,
		Deadband:           d.Deadband,

		ThermalMass:        d.TankVolume * c.BtuPerGallonDegree(),
		InitialTemperature: d.InitialTemperature,

		ActiveElectricDemand: d.ActiveElectricDemand,
		IdleElectricDemand:   d.IdleElectricDemand,

		// ng/J × J/s × s/min
		NOxRate: d.NOxOutput * d.HeatPumpFiringRate * c.SecondsPerMinute,
		// t/therm × Btu/min / (Btu/therm) × lb/t
		CO2GasRate: d.CO2Gas * firingBtuPerHour / c.MinutesPerHour / c.BtuPerTherm * c.PoundsPerMetricTon,
	}

	p.CO2Electricity.Scalar = d.CO2Electricity * c.PoundsPerShortTon / c.KWhPerMWh
	if len(hourlyCO2) > 0 {
		p.CO2Electricity.Hourly = make([]float64, len(hourlyCO2))
		for i, v := range hourlyCO2 {
			p.CO2Electricity.Hourly[i] = v * c.PoundsPerShortTon / c.KWhPerMWh
		}
	}
	return p
}
