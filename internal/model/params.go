package model

import (
	"math"
)

// ParameterSet defines the physical and control constants of one gas HPWH.
// Everything is in IP units with per-hour rates:
// - JacketLossCoefficient: Btu/(h-°F)
// - BackupPower, HeatPumpFiringRate: Btu/h
// - temperatures and thresholds: °F
// - ThermalMass: Btu/°F
// - ActiveElectricDemand, IdleElectricDemand: W
// - NOxRate: ng/min while the heat pump fires
// - CO2GasRate: lb/min while the heat pump fires
// - CO2Electricity: lb/kWh
//
// A ParameterSet is built once per run and never mutated afterwards.
type ParameterSet struct {
	JacketLossCoefficient float64

	BackupPower        float64
	BackupActivation   float64
	BackupDeactivation float64

	HeatPumpFiringRate float64
	Setpoint           float64
	Deadband           float64

	ThermalMass        float64
	InitialTemperature float64

	ActiveElectricDemand float64
	IdleElectricDemand   float64

	NOxRate        float64
	CO2GasRate     float64
	CO2Electricity ElectricityEmissions
}

// ElectricityEmissions is the CO2 intensity of grid electricity in lb/kWh,
// either one scalar or one value per hour of the year.
type ElectricityEmissions struct {
	Scalar float64
	Hourly []float64
}

// At returns the multiplier for the given hour of year. Hourly series wrap
// modulo their length.
func (e ElectricityEmissions) At(hourOfYear int) float64 {
	if len(e.Hourly) == 0 {
		return e.Scalar
	}
	h := hourOfYear % len(e.Hourly)
	if h < 0 {
		h += len(e.Hourly)
	}
	return e.Hourly[h]
}

// HeatPumpActivation is the temperature below which an idle heat pump fires.
func (p ParameterSet) HeatPumpActivation() float64 { return p.Setpoint - p.Deadband }

// HeatPumpDeactivation is the temperature at which a firing heat pump stops.
func (p ParameterSet) HeatPumpDeactivation() float64 { return p.Setpoint }

func (p ParameterSet) Validate() error {
	if !finite(p.ThermalMass) || p.ThermalMass <= 0 {
		return misconfigf("thermal_mass", "must be finite and > 0, got %g", p.ThermalMass)
	}
	nonNegative := []struct {
		field string
		v     float64
	}{
		{"jacket_loss_coefficient", p.JacketLossCoefficient},
		{"backup_power", p.BackupPower},
		{"heat_pump_firing_rate", p.HeatPumpFiringRate},
		{"active_electric_demand", p.ActiveElectricDemand},
		{"idle_electric_demand", p.IdleElectricDemand},
		{"nox_rate", p.NOxRate},
		{"co2_gas_rate", p.CO2GasRate},
		{"co2_electricity", p.CO2Electricity.Scalar},
	}
	for _, f := range nonNegative {
		if !finite(f.v) || f.v < 0 {
			return misconfigf(f.field, "must be finite and >= 0, got %g", f.v)
		}
	}
	for _, f := range []struct {
		field string
		v     float64
	}{
		{"backup_activation", p.BackupActivation},
		{"backup_deactivation", p.BackupDeactivation},
		{"setpoint", p.Setpoint},
		{"deadband", p.Deadband},
		{"initial_temperature", p.InitialTemperature},
	} {
		if !finite(f.v) {
			return misconfigf(f.field, "must be finite, got %g", f.v)
		}
	}
	// Threshold ordering only matters for a controller that can deliver energy.
	if p.BackupPower > 0 && p.BackupActivation >= p.BackupDeactivation {
		return misconfigf("backup_activation", "must be below backup_deactivation (%g >= %g)",
			p.BackupActivation, p.BackupDeactivation)
	}
	if p.HeatPumpFiringRate > 0 && p.HeatPumpActivation() >= p.HeatPumpDeactivation() {
		return misconfigf("deadband", "must be > 0 so that setpoint-deadband < setpoint, got %g", p.Deadband)
	}
	for i, v := range p.CO2Electricity.Hourly {
		if !finite(v) || v < 0 {
			return misconfigf("co2_electricity", "hourly value %d must be finite and >= 0, got %g", i, v)
		}
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
