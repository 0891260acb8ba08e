package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gashpwh-sim/internal/analysis"
	"gashpwh-sim/internal/config"
	"gashpwh-sim/internal/data"
	"gashpwh-sim/internal/model"
	"gashpwh-sim/internal/scenario"
	"gashpwh-sim/internal/simulation"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func main() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --profile examples/profiles/Bldg=Single_CZ=12_Prof=1.json --config examples/config.yaml --out results/trace.csv")
	fmt.Println("  cli sweep --profiles examples/profiles --config examples/config.yaml --out-dir results/sweep")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate writes one CSV row per timestep with mode=IDLE/HEAT_PUMP/BACKUP/HEAT_PUMP+BACKUP")
	fmt.Println("  - sweep runs every profile in turn and ranks them by gas use")
	fmt.Println("  - profiles may be JSON or CBECC-Res CSV")
}

func fatal(err error, msg string) {
	log.WithError(err).Fatal(msg)
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	profilePath := fs.String("profile", "", "Path to a draw profile (.json or CBECC-Res .csv)")
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", "results/trace.csv", "Output CSV path")
	n := fs.Int("n", 0, "Optional: limit to first N timesteps (0=all)")
	_ = fs.Parse(args)

	if *profilePath == "" || *cfgPath == "" {
		fmt.Println("--profile and --config are required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err, "load config")
	}
	profile, err := data.LoadDrawProfile(*profilePath)
	if err != nil {
		fatal(err, "load profile")
	}

	out, err := scenario.Execute(cfg, profile, simulation.New(model.DefaultConstants()), *n)
	if err != nil {
		fatal(err, "simulate")
	}

	// ensure output dir exists
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fatal(err, "create output dir")
	}
	if err := simulation.WriteRecordsCSV(*outPath, out.Result.Records); err != nil {
		fatal(err, "write trace")
	}

	s := out.Summary
	fmt.Printf("Wrote %d rows to %s\n", len(out.Result.Records), *outPath)
	fmt.Printf("Draw=%.2f gal Gas=%.4f therms Electricity=%.3f kWh CO2=%.3f lb\n",
		s.DrawVolume, s.GasTherms, s.ElectricKWh, s.CO2TotalLb)
	fmt.Printf("Tank min/final=%.2f/%.2f F, heat pump starts=%d, minutes below activation=%.1f\n",
		s.MinTemperature, s.FinalTemperature, s.HeatPumpStarts, s.MinutesBelowActivation)
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	profiles := fs.String("profiles", "examples/profiles", "Comma-separated profile paths or a directory")
	cfgPath := fs.String("config", "", "Path to YAML config")
	outDir := fs.String("out-dir", "results/sweep", "Directory for traces and summary.csv")
	traces := fs.Bool("traces", true, "Write one trace CSV per profile")
	n := fs.Int("n", 0, "Optional: limit each run to first N timesteps (0=all)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err, "load config")
	}

	paths, err := expandProfiles(splitPaths(*profiles))
	if err != nil {
		fatal(err, "list profiles")
	}
	if len(paths) == 0 {
		fatal(fmt.Errorf("no .json or .csv profiles in %s", *profiles), "list profiles")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatal(err, "create output dir")
	}

	engine := simulation.New(model.DefaultConstants())
	summaries := make([]analysis.Summary, 0, len(paths))
	byProfile := map[string]analysis.Summary{}
	attrs := map[string]map[string]string{}

	for _, p := range paths {
		entry := log.WithField("profile", filepath.Base(p))
		profile, err := data.LoadDrawProfile(p)
		if err != nil {
			entry.WithError(err).Warn("skipping profile")
			continue
		}
		out, err := scenario.Execute(cfg, profile, engine, *n)
		if err != nil {
			entry.WithError(err).Warn("simulation failed")
			continue
		}
		if *traces {
			tracePath := filepath.Join(*outDir, "trace_"+out.Name+".csv")
			if err := simulation.WriteRecordsCSV(tracePath, out.Result.Records); err != nil {
				fatal(err, "write trace")
			}
		}
		entry.WithFields(logrus.Fields{
			"steps":  out.Summary.Steps,
			"therms": fmt.Sprintf("%.4f", out.Summary.GasTherms),
			"kwh":    fmt.Sprintf("%.3f", out.Summary.ElectricKWh),
		}).Info("simulated")

		summaries = append(summaries, out.Summary)
		byProfile[out.Name] = out.Summary
		attrs[out.Name] = data.ParseProfileName(out.Name)
	}

	summaryPath := filepath.Join(*outDir, "summary.csv")
	if err := analysis.WriteSummariesCSV(summaryPath, summaries); err != nil {
		fatal(err, "write summary")
	}
	writePivots(*outDir, summaries, attrs)

	ranked := analysis.RankByGasUse(byProfile)
	fmt.Printf("%-4s %-48s %-8s %-10s %-10s %-10s\n", "rank", "profile", "steps", "therms", "kWh", "min F")
	for _, r := range ranked {
		fmt.Printf("%-4d %-48s %-8d %-10.4f %-10.3f %-10.2f\n",
			r.Rank, r.Name, r.Steps, r.GasTherms, r.ElectricKWh, r.MinTemperature)
	}
	fmt.Printf("Wrote %d summaries to %s\n", len(summaries), summaryPath)
}

// writePivots writes kWh and therm grids by climate zone and floor area when
// the profile names carry those attributes.
func writePivots(dir string, summaries []analysis.Summary, attrs map[string]map[string]string) {
	grids := []struct {
		file  string
		value func(analysis.Summary) float64
	}{
		{"kwh_by_cz_cfa.csv", func(s analysis.Summary) float64 { return s.ElectricKWh }},
		{"therms_by_cz_cfa.csv", func(s analysis.Summary) float64 { return s.GasTherms }},
	}
	for _, g := range grids {
		tbl := analysis.Pivot(summaries, attrs, "CZ", "CFA", g.value)
		if len(tbl.Rows) == 0 {
			return
		}
		f, err := os.Create(filepath.Join(dir, g.file))
		if err != nil {
			fatal(err, "write pivot")
		}
		if err := tbl.WriteCSV(f); err != nil {
			f.Close()
			fatal(err, "write pivot")
		}
		f.Close()
	}
}

func expandProfiles(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if e.IsDir() || (ext != ".json" && ext != ".csv") {
				continue
			}
			out = append(out, filepath.Join(p, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func splitPaths(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
