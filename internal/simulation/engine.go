package simulation

import (
	"fmt"
	"math"

	"gashpwh-sim/internal/control"
	"gashpwh-sim/internal/drawprofile"
	"gashpwh-sim/internal/model"
)

type Engine struct {
	Constants model.PhysicalConstants
}

func New(c model.PhysicalConstants) *Engine { return &Engine{Constants: c} }

// State is what one step hands to the next: the tank temperature the next
// step starts from and whether each heat source delivered energy.
type State struct {
	Temperature float64
	BackupOn    bool
	HeatPumpOn  bool
}

// Input is the exogenous data for step i.
type Input struct {
	Index           int
	Bin             drawprofile.Bin
	TimestepMinutes float64 // time[i] - time[i-1]
	Last            bool
}

// Plant holds everything that is fixed for the length of a run.
type Plant struct {
	Params    model.ParameterSet
	COP       model.COPFunction
	Backup    control.Controller
	HeatPump  control.Controller
	Constants model.PhysicalConstants
}

func NewPlant(p model.ParameterSet, cop model.COPFunction, c model.PhysicalConstants) *Plant {
	return &Plant{
		Params:    p,
		COP:       cop,
		Backup:    control.Backup(p),
		HeatPump:  control.HeatPump(p),
		Constants: c,
	}
}

// Transition computes the energy flows of step i from the state committed at
// step i-1 and returns the record plus the state for step i+1. It has no
// side effects.
func (pl *Plant) Transition(prev State, in Input) (Record, State, error) {
	p := pl.Params
	T := prev.Temperature
	hours := in.TimestepMinutes / pl.Constants.MinutesPerHour

	rec := newRecord(in.Bin, in.TimestepMinutes, T)
	rec.JacketLoss = -p.JacketLossCoefficient * (T - in.Bin.AmbientTemperature) * hours

	backupOn := p.BackupPower > 0 && pl.Backup.Decide(control.Context{
		Index:       in.Index,
		Temperature: T,
		WasOn:       prev.BackupOn,
	})
	if backupOn {
		rec.EnergyAddedBackup = p.BackupPower * hours
	}

	rec.EnergyWithdrawn = -in.Bin.DrawVolume * pl.Constants.BtuPerGallonDegree() * (T - in.Bin.InletTemperature)

	heatPumpOn := p.HeatPumpFiringRate > 0 && pl.HeatPump.Decide(control.Context{
		Index:       in.Index,
		Temperature: T,
		WasOn:       prev.HeatPumpOn,
	})
	if heatPumpOn {
		cop := pl.COP.COP(T)
		if !(cop > 0) || math.IsInf(cop, 0) {
			return Record{}, prev, &model.ComputationError{
				Index:           in.Index,
				Time:            in.Bin.Time,
				TankTemperature: T,
				COP:             cop,
				Reason:          "heat pump is firing but COP is not a positive finite number",
			}
		}
		rec.EnergyAddedHeatPump = p.HeatPumpFiringRate * cop * hours
	}

	rec.TotalEnergyChange = rec.JacketLoss + rec.EnergyWithdrawn + rec.EnergyAddedBackup + rec.EnergyAddedHeatPump

	next := State{Temperature: T, BackupOn: backupOn, HeatPumpOn: heatPumpOn}
	if !in.Last {
		next.Temperature = T + rec.TotalEnergyChange/p.ThermalMass
		if math.IsNaN(next.Temperature) || math.IsInf(next.Temperature, 0) {
			return Record{}, prev, &model.ComputationError{
				Index:           in.Index,
				Time:            in.Bin.Time,
				TankTemperature: T,
				Reason:          fmt.Sprintf("next tank temperature is not finite (energy change %g Btu)", rec.TotalEnergyChange),
			}
		}
	}
	return rec, next, nil
}

// Run executes one forward pass over a resampled series. It returns either a
// complete Result or an error; never a partial trace.
func (e *Engine) Run(series *drawprofile.Series, params model.ParameterSet, cop model.COPFunction) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if cop == nil {
		return nil, &model.ConfigurationError{Field: "cop", Reason: "COP function is nil"}
	}
	if err := validateSeries(series); err != nil {
		return nil, err
	}

	plant := NewPlant(params, cop, e.Constants)
	bins := series.Bins
	records := make([]Record, len(bins))

	// Steps 0 and 1 both start from the initial temperature; step 0 carries
	// no flux.
	records[0] = newRecord(bins[0], series.TimestepMinutes, params.InitialTemperature)
	state := State{Temperature: params.InitialTemperature}

	for i := 1; i < len(bins); i++ {
		rec, next, err := plant.Transition(state, Input{
			Index:           i,
			Bin:             bins[i],
			TimestepMinutes: bins[i].Time - bins[i-1].Time,
			Last:            i == len(bins)-1,
		})
		if err != nil {
			return nil, err
		}
		records[i] = rec
		state = next
	}

	for i := range records {
		e.derive(&records[i], params, cop)
	}

	return &Result{
		Records:          records,
		TimestepMinutes:  series.TimestepMinutes,
		FinalTemperature: records[len(records)-1].TankTemperature,
	}, nil
}

// derive fills the per-record quantities that need no recurrence.
func (e *Engine) derive(r *Record, p model.ParameterSet, cop model.COPFunction) {
	c := e.Constants
	r.COP = cop.COP(r.TankTemperature)

	r.ElectricDemand = p.IdleElectricDemand
	if r.EnergyAddedHeatPump > 0 {
		r.ElectricDemand = p.ActiveElectricDemand
		r.GasUsage = r.EnergyAddedHeatPump / r.COP
		r.NOxProduction = r.TimestepMinutes * p.NOxRate
		r.CO2Gas = r.TimestepMinutes * p.CO2GasRate
		r.HeatPumpOutputPerMinute = p.HeatPumpFiringRate * r.COP / c.MinutesPerHour
	}
	r.ElectricUsage = r.ElectricDemand*r.TimestepMinutes/c.MinutesPerHour + r.EnergyAddedBackup/c.BtuPerHourPerWatt

	r.ElectricityCO2Factor = p.CO2Electricity.At(r.HourOfYear)
	r.CO2Electricity = r.ElectricUsage / 1000 * r.ElectricityCO2Factor
	r.CO2Total = r.CO2Gas + r.CO2Electricity

	r.EnergyAddedTotal = r.EnergyAddedHeatPump + r.EnergyAddedBackup
	r.Mode = model.ModeFromEnergy(r.EnergyAddedHeatPump, r.EnergyAddedBackup)
}

func newRecord(b drawprofile.Bin, dtMinutes, temperature float64) Record {
	return Record{
		Index:              b.Index,
		Time:               b.Time,
		HourOfYear:         b.HourOfYear,
		TimestepMinutes:    dtMinutes,
		DrawVolume:         b.DrawVolume,
		InletTemperature:   b.InletTemperature,
		AmbientTemperature: b.AmbientTemperature,
		TankTemperature:    temperature,
	}
}

func validateSeries(s *drawprofile.Series) error {
	if s == nil || s.Len() < 2 {
		return &model.ValidationError{Field: "series", Index: -1, Reason: "need at least 2 timesteps"}
	}
	if !(s.TimestepMinutes > 0) || math.IsInf(s.TimestepMinutes, 0) {
		return &model.ValidationError{Field: "series.timestep_minutes", Index: -1,
			Reason: fmt.Sprintf("must be finite and > 0, got %g", s.TimestepMinutes)}
	}
	for i, b := range s.Bins {
		if i > 0 && !(b.Time > s.Bins[i-1].Time) {
			return &model.ValidationError{Field: "series.time", Index: i, Reason: "times must be strictly increasing"}
		}
		if !(b.DrawVolume >= 0) || math.IsInf(b.DrawVolume, 0) {
			return &model.ValidationError{Field: "series.draw_volume", Index: i,
				Reason: fmt.Sprintf("must be finite and >= 0, got %g", b.DrawVolume)}
		}
		for _, v := range []float64{b.Time, b.InletTemperature, b.AmbientTemperature} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &model.ValidationError{Field: "series", Index: i, Reason: "time and temperatures must be finite"}
			}
		}
	}
	return nil
}
