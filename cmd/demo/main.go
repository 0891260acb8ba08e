package main

import (
	"flag"
	"fmt"

	"gashpwh-sim/internal/config"
	"gashpwh-sim/internal/drawprofile"
	"gashpwh-sim/internal/model"
	"gashpwh-sim/internal/scenario"
	"gashpwh-sim/internal/simulation"

	"github.com/sirupsen/logrus"
)

// Demo:
// - Build one short draw (10 gal/min for 2 minutes at t=12)
// - Instantiate a small tank with a constant-COP heat pump
// - Run the integrator and print each step to show how the pieces fit together
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional; replaces the built-in tank)")
	n := flag.Int("n", 12, "Number of timesteps to simulate")
	outCSV := flag.String("out", "", "Optional path to write trace CSV (e.g. results/demo.csv)")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	profile := &model.DrawProfile{
		Name:           "demo",
		HorizonMinutes: 60,
		Events: []model.DrawEvent{
			{StartTime: 12, Duration: 2, FlowRate: 10},
		},
	}

	engine := simulation.New(model.DefaultConstants())
	var out *scenario.Outcome

	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			log.WithError(err).Fatal("load config")
		}
		out, err = scenario.Execute(cfg, profile, engine, *n)
		if err != nil {
			log.WithError(err).Fatal("simulate")
		}
	} else {
		// Defaults: 600 Btu/°F tank at 135 °F, no jacket loss or backup, COP 1.
		params := model.ParameterSet{
			HeatPumpFiringRate: 10000,
			Setpoint:           135,
			Deadband:           35,
			ThermalMass:        600,
			InitialTemperature: 135,
		}
		series, err := drawprofile.Resample(profile.Events, drawprofile.Options{
			TimestepMinutes:  5,
			HorizonMinutes:   profile.HorizonMinutes,
			InletTemperature: 50,
		})
		if err != nil {
			log.WithError(err).Fatal("resample")
		}
		series.Truncate(*n)
		s := &scenario.Scenario{Name: profile.Name, Params: params, COP: model.ConstantCOP(1), Series: series}
		out, err = s.Run(engine)
		if err != nil {
			log.WithError(err).Fatal("simulate")
		}
	}

	records := out.Result.Records
	fmt.Printf("Simulated %d steps of %.0f min for %s\n\n", len(records), out.Result.TimestepMinutes, out.Name)
	for _, r := range records {
		fmt.Printf(
			"t=%5.0f draw=%6.2f gal  tank=%7.2f F  mode=%-16s  hp=%8.1f Btu  backup=%8.1f Btu  gas=%8.1f Btu\n",
			r.Time,
			r.DrawVolume,
			r.TankTemperature,
			string(r.Mode),
			r.EnergyAddedHeatPump,
			r.EnergyAddedBackup,
			r.GasUsage,
		)
	}

	if *outCSV != "" {
		if err := simulation.WriteRecordsCSV(*outCSV, records); err != nil {
			log.WithError(err).Fatal("write trace")
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	fmt.Printf("\nDone. Final tank=%.2f F  Gas=%.4f therms  Draw=%.1f gal\n",
		out.Result.FinalTemperature, out.Summary.GasTherms, out.Summary.DrawVolume)
}
