package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gashpwh-sim/internal/drawprofile"
	"gashpwh-sim/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load device parameters from a separate YAML (e.g. examples/devices/*.yaml).
	// If both DeviceFile and Device are provided, Device overrides DeviceFile.
	DeviceFile string           `yaml:"device_file" json:"device_file,omitempty"`
	Device     DeviceConfig     `yaml:"device" json:"device"`
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`
}

// DeviceConfig is the nameplate of one gas HPWH, in manufacturer units.
type DeviceConfig struct {
	Name                    string    `yaml:"name" json:"name,omitempty"`
	TankVolumeGal           float64   `yaml:"tank_volume_gal" json:"tank_volume_gal"`
	JacketLossWPerK         float64   `yaml:"jacket_loss_w_per_k" json:"jacket_loss_w_per_k"`
	BackupPowerW            float64   `yaml:"backup_power_w" json:"backup_power_w"`
	BackupActivationF       float64   `yaml:"backup_activation_f" json:"backup_activation_f"`
	BackupDeactivationF     float64   `yaml:"backup_deactivation_f" json:"backup_deactivation_f"`
	FiringRateW             float64   `yaml:"firing_rate_w" json:"firing_rate_w"`
	SetpointF               float64   `yaml:"setpoint_f" json:"setpoint_f"`
	DeadbandF               float64   `yaml:"deadband_f" json:"deadband_f"`
	InitialTemperatureF     float64   `yaml:"initial_temperature_f" json:"initial_temperature_f,omitempty"`
	ActiveElectricDemandW   float64   `yaml:"active_electric_demand_w" json:"active_electric_demand_w"`
	IdleElectricDemandW     float64   `yaml:"idle_electric_demand_w" json:"idle_electric_demand_w"`
	NOxNgPerJ               float64   `yaml:"nox_ng_per_j" json:"nox_ng_per_j"`
	CO2GasTonPerTherm       float64   `yaml:"co2_gas_ton_per_therm" json:"co2_gas_ton_per_therm"`
	CO2ElectricityTonPerMWh float64   `yaml:"co2_electricity_ton_per_mwh" json:"co2_electricity_ton_per_mwh"`
	COP                     COPConfig `yaml:"cop" json:"cop"`
}

// COPConfig selects a COP model: "polynomial" (default), "table" or "constant".
type COPConfig struct {
	Model        string           `yaml:"model" json:"model,omitempty"`
	Coefficients []float64        `yaml:"coefficients" json:"coefficients,omitempty"`
	Points       []model.COPPoint `yaml:"points" json:"points,omitempty"`
	Value        float64          `yaml:"value" json:"value,omitempty"`
}

// Inlet temperature sources.
const (
	InletProfile = "profile" // per-event values, falling back to InletTemperatureF
	InletFixed   = "fixed"
	InletWeather = "weather" // mains temperature from an EPW file
)

type SimulationConfig struct {
	TimestepMinutes     float64 `yaml:"timestep_min" json:"timestep_min,omitempty"`
	HorizonMinutes      float64 `yaml:"horizon_min" json:"horizon_min,omitempty"`
	AmbientTemperatureF float64 `yaml:"ambient_temperature_f" json:"ambient_temperature_f,omitempty"`
	InletTemperatureF   float64 `yaml:"inlet_temperature_f" json:"inlet_temperature_f,omitempty"`
	InletSource         string  `yaml:"inlet_source" json:"inlet_source,omitempty"`
	WeatherFile         string  `yaml:"weather_file" json:"weather_file,omitempty"`

	// MaxSteps lowers the resampler's series length cap (0 = default).
	MaxSteps int `yaml:"max_steps" json:"max_steps,omitempty"`

	// Hourly electricity CO2 factors; the scalar device value is used when
	// CO2File is empty.
	CO2File     string `yaml:"co2_file" json:"co2_file,omitempty"`
	CO2Column   string `yaml:"co2_column" json:"co2_column,omitempty"`
	CO2SkipRows int    `yaml:"co2_skip_rows" json:"co2_skip_rows,omitempty"`
}

// DefaultCOPCoefficients is the linear fit of the GTI prototype.
var DefaultCOPCoefficients = []float64{-0.0025, 2.0341}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	baseDir := filepath.Dir(path)
	// If device_file is set, load it and merge in any explicit overrides from c.Device.
	if c.DeviceFile != "" {
		loaded, err := LoadDeviceFile(resolve(baseDir, c.DeviceFile))
		if err != nil {
			return nil, err
		}
		c.Device = MergeDevice(loaded, c.Device)
	}
	c.Simulation.WeatherFile = resolveOptional(baseDir, c.Simulation.WeatherFile)
	c.Simulation.CO2File = resolveOptional(baseDir, c.Simulation.CO2File)
	return &c, nil
}

// resolve prefers interpreting relative paths as relative to the config file
// directory, but falls back to the provided path (relative to cwd).
func resolve(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(baseDir, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

func resolveOptional(baseDir, p string) string {
	if p == "" {
		return ""
	}
	return resolve(baseDir, p)
}

// ApplyDefaults fills the values a config may leave out.
func (c *Config) ApplyDefaults() {
	if c.Device.InitialTemperatureF == 0 {
		c.Device.InitialTemperatureF = c.Device.SetpointF
	}
	if c.Device.COP.Model == "" {
		c.Device.COP.Model = "polynomial"
	}
	if c.Device.COP.Model == "polynomial" && len(c.Device.COP.Coefficients) == 0 {
		c.Device.COP.Coefficients = append([]float64(nil), DefaultCOPCoefficients...)
	}
	s := &c.Simulation
	if s.TimestepMinutes == 0 {
		s.TimestepMinutes = 5
	}
	if s.AmbientTemperatureF == 0 {
		s.AmbientTemperatureF = 68
	}
	if s.InletTemperatureF == 0 {
		s.InletTemperatureF = 40
	}
	if s.InletSource == "" {
		s.InletSource = InletProfile
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	// Validate device params by building a ParameterSet.
	if err := c.BuildParameterSet(model.DefaultConstants(), nil).Validate(); err != nil {
		return fmt.Errorf("device config invalid: %w", err)
	}
	if _, err := c.Device.COP.Build(); err != nil {
		return fmt.Errorf("device config invalid: %w", err)
	}
	s := c.Simulation
	if !(s.TimestepMinutes > 0) {
		return fmt.Errorf("simulation config invalid: %w",
			&model.ConfigurationError{Field: "simulation.timestep_min", Reason: fmt.Sprintf("must be > 0, got %g", s.TimestepMinutes)})
	}
	switch s.InletSource {
	case InletProfile, InletFixed:
	case InletWeather:
		if s.WeatherFile == "" {
			return fmt.Errorf("simulation config invalid: %w",
				&model.ConfigurationError{Field: "simulation.weather_file", Reason: "required when inlet_source is weather"})
		}
	default:
		return fmt.Errorf("simulation config invalid: %w",
			&model.ConfigurationError{Field: "simulation.inlet_source", Reason: fmt.Sprintf("unknown source %q", s.InletSource)})
	}
	if s.CO2File != "" && s.CO2Column == "" {
		return fmt.Errorf("simulation config invalid: %w",
			&model.ConfigurationError{Field: "simulation.co2_column", Reason: "required when co2_file is set"})
	}
	return nil
}

func (d DeviceConfig) ToDeviceSpec() model.DeviceSpec {
	return model.DeviceSpec{
		TankVolume:           d.TankVolumeGal,
		JacketLoss:           d.JacketLossWPerK,
		BackupPower:          d.BackupPowerW,
		BackupActivation:     d.BackupActivationF,
		BackupDeactivation:   d.BackupDeactivationF,
		HeatPumpFiringRate:   d.FiringRateW,
		Setpoint:             d.SetpointF,
		Deadband:             d.DeadbandF,
		InitialTemperature:   d.InitialTemperatureF,
		ActiveElectricDemand: d.ActiveElectricDemandW,
		IdleElectricDemand:   d.IdleElectricDemandW,
		NOxOutput:            d.NOxNgPerJ,
		CO2Gas:               d.CO2GasTonPerTherm,
		CO2Electricity:       d.CO2ElectricityTonPerMWh,
	}
}

// BuildParameterSet converts the device section. hourlyCO2 is in short
// tons/MWh and may be nil.
func (c *Config) BuildParameterSet(constants model.PhysicalConstants, hourlyCO2 []float64) model.ParameterSet {
	return c.Device.ToDeviceSpec().ToParameterSet(constants, hourlyCO2)
}

func (cc COPConfig) Build() (model.COPFunction, error) {
	switch strings.ToLower(cc.Model) {
	case "", "polynomial":
		coef := cc.Coefficients
		if len(coef) == 0 {
			coef = DefaultCOPCoefficients
		}
		return model.Polynomial{Coefficients: append([]float64(nil), coef...)}, nil
	case "table":
		return model.NewPiecewiseLinear(cc.Points)
	case "constant":
		if !(cc.Value > 0) {
			return nil, &model.ConfigurationError{Field: "cop.value", Reason: fmt.Sprintf("must be > 0, got %g", cc.Value)}
		}
		return model.ConstantCOP(cc.Value), nil
	default:
		return nil, &model.ConfigurationError{Field: "cop.model", Reason: fmt.Sprintf("unsupported model %q", cc.Model)}
	}
}

// ResampleOptions maps the simulation section onto the resampler. The start
// hour comes from the draw profile.
func (s SimulationConfig) ResampleOptions(startHourOfYear int) drawprofile.Options {
	return drawprofile.Options{
		TimestepMinutes:    s.TimestepMinutes,
		HorizonMinutes:     s.HorizonMinutes,
		StartHourOfYear:    startHourOfYear,
		InletTemperature:   s.InletTemperatureF,
		IgnoreEventInlet:   s.InletSource != InletProfile,
		AmbientTemperature: s.AmbientTemperatureF,
		MaxBins:            s.MaxSteps,
	}
}

type deviceFileWrapper struct {
	Device DeviceConfig `yaml:"device"`
}

// LoadDeviceFile reads a device preset (a YAML document with a top-level
// "device" key).
func LoadDeviceFile(path string) (DeviceConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return DeviceConfig{}, err
	}
	var w deviceFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return DeviceConfig{}, err
	}
	return w.Device, nil
}

// MergeDevice overlays non-zero fields from override onto base.
// This is used when loading a device file and then applying overrides from the request.
func MergeDevice(base, override DeviceConfig) DeviceConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	overlay := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	overlay(&out.TankVolumeGal, override.TankVolumeGal)
	overlay(&out.JacketLossWPerK, override.JacketLossWPerK)
	overlay(&out.BackupPowerW, override.BackupPowerW)
	overlay(&out.BackupActivationF, override.BackupActivationF)
	overlay(&out.BackupDeactivationF, override.BackupDeactivationF)
	overlay(&out.FiringRateW, override.FiringRateW)
	overlay(&out.SetpointF, override.SetpointF)
	overlay(&out.DeadbandF, override.DeadbandF)
	overlay(&out.InitialTemperatureF, override.InitialTemperatureF)
	overlay(&out.ActiveElectricDemandW, override.ActiveElectricDemandW)
	overlay(&out.IdleElectricDemandW, override.IdleElectricDemandW)
	// Note: emission factors of 0 are meaningful but cannot be expressed as an override.
	overlay(&out.NOxNgPerJ, override.NOxNgPerJ)
	overlay(&out.CO2GasTonPerTherm, override.CO2GasTonPerTherm)
	overlay(&out.CO2ElectricityTonPerMWh, override.CO2ElectricityTonPerMWh)
	if override.COP.Model != "" {
		out.COP = override.COP
	}
	return out
}

// MergeSimulation overlays non-zero fields from override onto base.
func MergeSimulation(base, override SimulationConfig) SimulationConfig {
	out := base
	if override.TimestepMinutes != 0 {
		out.TimestepMinutes = override.TimestepMinutes
	}
	if override.HorizonMinutes != 0 {
		out.HorizonMinutes = override.HorizonMinutes
	}
	if override.AmbientTemperatureF != 0 {
		out.AmbientTemperatureF = override.AmbientTemperatureF
	}
	if override.InletTemperatureF != 0 {
		out.InletTemperatureF = override.InletTemperatureF
	}
	if override.InletSource != "" {
		out.InletSource = override.InletSource
	}
	if override.WeatherFile != "" {
		out.WeatherFile = override.WeatherFile
	}
	if override.MaxSteps != 0 {
		out.MaxSteps = override.MaxSteps
	}
	if override.CO2File != "" {
		out.CO2File = override.CO2File
		out.CO2Column = override.CO2Column
		out.CO2SkipRows = override.CO2SkipRows
	}
	return out
}
