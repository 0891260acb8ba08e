package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"gashpwh-sim/internal/api/models"
	"gashpwh-sim/internal/config"
	"gashpwh-sim/internal/data"
	"gashpwh-sim/internal/model"

	"github.com/gin-gonic/gin"
)

// RunObserver receives one call per simulation run; *middleware.Metrics
// implements it.
type RunObserver interface {
	ObserveRun(outcome string, steps int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveRun(string, int, time.Duration) {}

// ConfigBuilder turns request configs into validated simulation configs.
// Presets and data files named by a request are looked up by bare file
// name inside DeviceDir and DataDir.
type ConfigBuilder struct {
	DeviceDir string
	DataDir   string
}

func (b ConfigBuilder) Build(req models.SimulationConfig) (*config.Config, error) {
	cfg := &config.Config{
		DeviceFile: req.DeviceFile,
		Device:     req.Device,
		Simulation: req.Simulation,
	}

	if cfg.DeviceFile != "" {
		path, err := b.devicePath(cfg.DeviceFile)
		if err != nil {
			return nil, err
		}
		loaded, err := config.LoadDeviceFile(path)
		if err != nil {
			return nil, &model.ConfigurationError{Field: "device_file", Reason: fmt.Sprintf("unknown device preset %q", cfg.DeviceFile)}
		}
		// Device file is the base, request device fields override it.
		cfg.Device = config.MergeDevice(loaded, cfg.Device)
	}

	var err error
	if cfg.Simulation.WeatherFile, err = dataFile(b.DataDir, "simulation.weather_file", cfg.Simulation.WeatherFile); err != nil {
		return nil, err
	}
	if cfg.Simulation.CO2File, err = dataFile(b.DataDir, "simulation.co2_file", cfg.Simulation.CO2File); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (b ConfigBuilder) devicePath(id string) (string, error) {
	name := strings.TrimSuffix(id, ".yaml")
	if name == "" || filepath.Base(name) != name {
		return "", &model.ConfigurationError{Field: "device_file", Reason: fmt.Sprintf("must be a preset id, got %q", id)}
	}
	return filepath.Join(b.DeviceDir, name+".yaml"), nil
}

func dataFile(dir, field, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if filepath.Base(name) != name {
		return "", &model.ConfigurationError{Field: field, Reason: fmt.Sprintf("must be a file name, got %q", name)}
	}
	return filepath.Join(dir, name), nil
}

// mergeConfig overlays a variation onto the base request config.
func mergeConfig(base, override models.SimulationConfig) models.SimulationConfig {
	merged := base
	if override.DeviceFile != "" {
		merged.DeviceFile = override.DeviceFile
	}
	merged.Device = config.MergeDevice(base.Device, override.Device)
	merged.Simulation = config.MergeSimulation(base.Simulation, override.Simulation)
	return merged
}

type notFoundError struct {
	what, id string
}

func (e *notFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.what, e.id) }

// ProfileStore resolves draw profiles named by catalog id.
type ProfileStore struct {
	Dir     string
	Catalog *data.ProfileCatalog
}

func (s *ProfileStore) Entries() []data.ProfileEntry {
	if s == nil || s.Catalog == nil {
		return []data.ProfileEntry{}
	}
	return s.Catalog.Profiles
}

func (s *ProfileStore) Load(id string) (*model.DrawProfile, error) {
	var entry data.ProfileEntry
	ok := false
	if s != nil {
		entry, ok = s.Catalog.Find(id)
	}
	if !ok {
		return nil, &notFoundError{what: "profile", id: id}
	}
	p, err := data.LoadDrawProfile(filepath.Join(s.Dir, entry.File))
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", id, err)
	}
	return p, nil
}

// Resolve returns the inline profile or loads the catalog one. Exactly one
// must be given.
func (s *ProfileStore) Resolve(inline *model.DrawProfile, id string) (*model.DrawProfile, error) {
	switch {
	case inline != nil && id != "":
		return nil, &model.ValidationError{Field: "profile", Index: -1, Reason: "set only one of profile and profile_id"}
	case inline != nil:
		if inline.Name == "" {
			inline.Name = "inline"
		}
		return inline, nil
	case id != "":
		return s.Load(id)
	default:
		return nil, &model.ValidationError{Field: "profile", Index: -1, Reason: "one of profile and profile_id is required"}
	}
}

// errorResponse maps the simulation error taxonomy onto HTTP.
func errorResponse(err error) (int, models.ErrorResponse) {
	var (
		verr  *model.ValidationError
		cerr  *model.ConfigurationError
		xerr  *model.ComputationError
		nferr *notFoundError
	)
	detail := models.ErrorDetail{Message: err.Error()}
	status := http.StatusInternalServerError

	switch {
	case errors.As(err, &nferr):
		status, detail.Code = http.StatusNotFound, "NOT_FOUND"
	case errors.As(err, &verr):
		status, detail.Code = http.StatusBadRequest, "VALIDATION_ERROR"
		detail.Details = map[string]interface{}{"field": verr.Field}
		if verr.Index >= 0 {
			detail.Details["index"] = verr.Index
		}
	case errors.As(err, &cerr):
		status, detail.Code = http.StatusBadRequest, "CONFIGURATION_ERROR"
		detail.Details = map[string]interface{}{"field": cerr.Field}
	case errors.As(err, &xerr):
		status, detail.Code = http.StatusUnprocessableEntity, "COMPUTATION_ERROR"
		detail.Details = map[string]interface{}{
			"index":              xerr.Index,
			"time_min":           jsonFloat(xerr.Time),
			"tank_temperature_f": jsonFloat(xerr.TankTemperature),
			"cop":                jsonFloat(xerr.COP),
		}
	default:
		detail.Code = "SIMULATION_ERROR"
	}
	return status, models.ErrorResponse{Error: detail}
}

// jsonFloat keeps NaN and Inf out of encoding/json, which rejects them.
func jsonFloat(x float64) interface{} {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Sprint(x)
	}
	return x
}

func respondError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	_ = c.Error(err)
	c.JSON(status, body)
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	status, _ := errorResponse(err)
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		return "invalid"
	case http.StatusUnprocessableEntity:
		return "computation_error"
	default:
		return "error"
	}
}
