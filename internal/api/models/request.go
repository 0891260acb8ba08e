package models

import (
	"gashpwh-sim/internal/config"
	"gashpwh-sim/internal/model"
)

// SimulateRequest represents the request body for running a simulation.
// Exactly one of Profile and ProfileID must be set.
type SimulateRequest struct {
	Profile   *model.DrawProfile `json:"profile,omitempty"`
	ProfileID string             `json:"profile_id,omitempty"` // catalog id
	Config    SimulationConfig   `json:"config"`
	Options   SimulateOptions    `json:"options,omitempty"`
}

// SimulationConfig contains device and simulation settings
type SimulationConfig struct {
	DeviceFile string                  `json:"device_file,omitempty"` // preset id, e.g. "gti_prototype"
	Device     config.DeviceConfig     `json:"device,omitempty"`
	Simulation config.SimulationConfig `json:"simulation,omitempty"`
}

// SimulateOptions contains optional simulation parameters
type SimulateOptions struct {
	LimitSteps     int  `json:"limit_steps,omitempty"`     // 0 = all
	IncludeRecords bool `json:"include_records,omitempty"` // default: false
}

// CompareRequest runs one draw profile against several configurations
type CompareRequest struct {
	Profile    *model.DrawProfile `json:"profile,omitempty"`
	ProfileID  string             `json:"profile_id,omitempty"`
	BaseConfig SimulationConfig   `json:"base_config"`
	Variations []Variation        `json:"variations" binding:"required,min=1,max=20,dive"`
}

// Variation defines a variation to test
type Variation struct {
	Name   string           `json:"name" binding:"required"`
	Config SimulationConfig `json:"config"`
}

// RankRequest represents a request to rank catalog profiles for one device
type RankRequest struct {
	DeviceFile string `form:"device_file" binding:"required"`
	Limit      int    `form:"limit,omitempty"` // default: 10
	LimitSteps int    `form:"limit_steps,omitempty"`
}
