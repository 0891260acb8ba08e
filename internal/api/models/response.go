package models

import (
	"gashpwh-sim/internal/analysis"
	"gashpwh-sim/internal/data"
)

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID      string              `json:"id,omitempty"`
	Status  string              `json:"status"`
	Summary analysis.Summary `json:"summary"`
	Records []RecordRow      `json:"records,omitempty"`
}

// RecordsResponse is a cached run's full trace
type RecordsResponse struct {
	ID      string      `json:"id"`
	Profile string      `json:"profile"`
	Records []RecordRow `json:"records"`
}

// RecordRow represents one timestep of a simulation trace
type RecordRow struct {
	Index               int     `json:"index"`
	Time                float64 `json:"time_min"`
	HourOfYear          int     `json:"hour_of_year"`
	TimestepMinutes     float64 `json:"timestep_min"`
	DrawVolume          float64 `json:"draw_volume_gal"`
	InletTemperature    float64 `json:"inlet_temperature_f"`
	AmbientTemperature  float64 `json:"ambient_temperature_f"`
	TankTemperature     float64 `json:"tank_temperature_f"`
	JacketLoss          float64 `json:"jacket_loss_btu"`
	EnergyWithdrawn     float64 `json:"energy_withdrawn_btu"`
	EnergyAddedBackup   float64 `json:"energy_added_backup_btu"`
	EnergyAddedHeatPump float64 `json:"energy_added_heat_pump_btu"`
	TotalEnergyChange   float64 `json:"total_energy_change_btu"`
	Mode                string  `json:"mode"` // "IDLE", "HEAT_PUMP", "BACKUP", "HEAT_PUMP+BACKUP"
	COP                 float64 `json:"cop"`
	ElectricDemand      float64 `json:"electric_demand_w"`
	ElectricUsage       float64 `json:"electric_usage_wh"`
	GasUsage            float64 `json:"gas_usage_btu"`
	NOxProduction       float64 `json:"nox_production_ng"`
	CO2Gas              float64 `json:"co2_gas_lb"`
	CO2Electricity      float64 `json:"co2_electricity_lb"`
	CO2Total            float64 `json:"co2_total_lb"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation. Error is set
// instead of Summary when the variation failed.
type ComparisonResult struct {
	Name    string            `json:"name"`
	Summary *analysis.Summary `json:"summary,omitempty"`
	Error   *ErrorDetail      `json:"error,omitempty"`
}

// RankResponse represents the response from ranking profiles
type RankResponse struct {
	Device   string               `json:"device"`
	Rankings []analysis.RankedRun `json:"rankings"`
	Skipped  map[string]string    `json:"skipped,omitempty"`
}

// DeviceInfo represents information about a device preset
type DeviceInfo struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	File  string      `json:"file"`
	Specs DeviceSpecs `json:"specs"`
}

// DeviceSpecs contains headline device specifications
type DeviceSpecs struct {
	TankVolumeGal float64 `json:"tank_volume_gal"`
	FiringRateW   float64 `json:"firing_rate_w"`
	BackupPowerW  float64 `json:"backup_power_w"`
	SetpointF     float64 `json:"setpoint_f"`
	DeadbandF     float64 `json:"deadband_f"`
	COPModel      string  `json:"cop_model"`
}

// COPModelInfo describes a supported COP model
type COPModelInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a COP model parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "[]float", "[]point"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// ProfilesResponse lists the draw profile catalog
type ProfilesResponse struct {
	UpdatedAt string              `json:"updated_at"`
	Profiles  []data.ProfileEntry `json:"profiles"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
