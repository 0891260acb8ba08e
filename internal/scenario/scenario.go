package scenario

import (
	"fmt"

	"gashpwh-sim/internal/analysis"
	"gashpwh-sim/internal/config"
	"gashpwh-sim/internal/data"
	"gashpwh-sim/internal/drawprofile"
	"gashpwh-sim/internal/model"
	"gashpwh-sim/internal/simulation"
	"gashpwh-sim/internal/weather"
)

// Scenario is everything one run needs, resolved from a config and a draw
// profile.
type Scenario struct {
	Name   string
	Params model.ParameterSet
	COP    model.COPFunction
	Series *drawprofile.Series
}

// Outcome is a finished run.
type Outcome struct {
	Name    string
	Result  *simulation.Result
	Summary analysis.Summary
}

// Prepare resolves cfg against profile: it loads the hourly CO2 and weather
// files the config points at, builds the parameter set and COP model, and
// resamples the draw events. limit > 0 truncates the series to that many
// steps. cfg must already have defaults applied.
func Prepare(cfg *config.Config, profile *model.DrawProfile, constants model.PhysicalConstants, limit int) (*Scenario, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if profile == nil {
		return nil, &model.ValidationError{Field: "profile", Index: -1, Reason: "is nil"}
	}

	var hourlyCO2 []float64
	if cfg.Simulation.CO2File != "" {
		v, err := data.LoadHourlyCO2(cfg.Simulation.CO2File, cfg.Simulation.CO2Column, cfg.Simulation.CO2SkipRows)
		if err != nil {
			return nil, fmt.Errorf("load co2 factors: %w", err)
		}
		hourlyCO2 = v
	}

	cop, err := cfg.Device.COP.Build()
	if err != nil {
		return nil, err
	}

	opts := cfg.Simulation.ResampleOptions(profile.StartHourOfYear)
	if opts.HorizonMinutes == 0 {
		opts.HorizonMinutes = profile.HorizonMinutes
	}
	series, err := drawprofile.Resample(profile.Events, opts)
	if err != nil {
		return nil, err
	}

	if cfg.Simulation.InletSource == config.InletWeather {
		hours, err := weather.LoadEPW(cfg.Simulation.WeatherFile)
		if err != nil {
			return nil, fmt.Errorf("load weather: %w", err)
		}
		mains, err := weather.MainsTemperature(hours)
		if err != nil {
			return nil, fmt.Errorf("mains temperature: %w", err)
		}
		if err := series.ApplyHourlyInlet(mains); err != nil {
			return nil, err
		}
	}
	series.Truncate(limit)

	return &Scenario{
		Name:   profile.Name,
		Params: cfg.BuildParameterSet(constants, hourlyCO2),
		COP:    cop,
		Series: series,
	}, nil
}

// Run integrates the scenario and summarizes the trace.
func (s *Scenario) Run(engine *simulation.Engine) (*Outcome, error) {
	res, err := engine.Run(s.Series, s.Params, s.COP)
	if err != nil {
		return nil, err
	}
	sum := analysis.Summarize(res.Records, s.Params)
	sum.Name = s.Name
	return &Outcome{Name: s.Name, Result: res, Summary: sum}, nil
}

// Execute is Prepare followed by Run.
func Execute(cfg *config.Config, profile *model.DrawProfile, engine *simulation.Engine, limit int) (*Outcome, error) {
	s, err := Prepare(cfg, profile, engine.Constants, limit)
	if err != nil {
		return nil, err
	}
	return s.Run(engine)
}
