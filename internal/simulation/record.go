package simulation

import "gashpwh-sim/internal/model"

// Record is one row of per-timestep output.
// This is the primary artifact for "what happened" in a simulation.
// Energies are in Btu over the step, temperatures in °F.
type Record struct {
	Index      int
	Time       float64 // minutes, start of interval
	HourOfYear int

	TimestepMinutes float64

	DrawVolume         float64 // gal
	InletTemperature   float64
	AmbientTemperature float64
	TankTemperature    float64

	JacketLoss          float64
	EnergyWithdrawn     float64
	EnergyAddedBackup   float64
	EnergyAddedHeatPump float64
	TotalEnergyChange   float64

	Mode model.OperatingMode

	COP                     float64
	ElectricDemand          float64 // W
	ElectricUsage           float64 // Wh
	GasUsage                float64 // Btu
	NOxProduction           float64 // ng
	CO2Gas                  float64 // lb
	ElectricityCO2Factor    float64 // lb/kWh
	CO2Electricity          float64 // lb
	CO2Total                float64 // lb
	EnergyAddedTotal        float64
	HeatPumpOutputPerMinute float64 // Btu/min while firing
}

type Result struct {
	Records []Record

	TimestepMinutes  float64
	FinalTemperature float64
}
