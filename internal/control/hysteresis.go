package control

import "gashpwh-sim/internal/model"

// Context is what a controller sees at one timestep.
type Context struct {
	Index       int
	Temperature float64 // tank temperature at this step, °F
	WasOn       bool    // delivered energy at the previous step
}

type Controller interface {
	Name() string
	Decide(ctx Context) bool
}

// Hysteresis is a two-threshold thermostat. An idle element turns on below
// ActivateBelow; a running element stays on until the tank reaches
// DeactivateAt.
type Hysteresis struct {
	Label         string
	ActivateBelow float64
	DeactivateAt  float64
}

func (h Hysteresis) Name() string { return h.Label }

func (h Hysteresis) Decide(ctx Context) bool {
	if ctx.WasOn {
		return ctx.Temperature < h.DeactivateAt
	}
	return ctx.Temperature < h.ActivateBelow
}

// Backup is the resistance element controller.
func Backup(p model.ParameterSet) Hysteresis {
	return Hysteresis{Label: "backup", ActivateBelow: p.BackupActivation, DeactivateAt: p.BackupDeactivation}
}

// HeatPump fires below setpoint-deadband and runs up to setpoint.
func HeatPump(p model.ParameterSet) Hysteresis {
	return Hysteresis{Label: "heat_pump", ActivateBelow: p.HeatPumpActivation(), DeactivateAt: p.HeatPumpDeactivation()}
}
