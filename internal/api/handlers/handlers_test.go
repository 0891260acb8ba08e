package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gashpwh-sim/internal/api/models"
	"gashpwh-sim/internal/config"
	"gashpwh-sim/internal/data"
	"gashpwh-sim/internal/model"
)

func TestErrorResponse(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{&model.ValidationError{Field: "events.duration", Index: 3}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("device config invalid: %w", &model.ConfigurationError{Field: "deadband"}), http.StatusBadRequest, "CONFIGURATION_ERROR"},
		{&model.ComputationError{Index: 7, COP: math.NaN()}, http.StatusUnprocessableEntity, "COMPUTATION_ERROR"},
		{&notFoundError{what: "profile", id: "x"}, http.StatusNotFound, "NOT_FOUND"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "SIMULATION_ERROR"},
	}
	for _, tc := range cases {
		status, body := errorResponse(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, body.Error.Code)
		assert.Equal(t, tc.err.Error(), body.Error.Message)
	}

	_, body := errorResponse(&model.ValidationError{Field: "events.duration", Index: 3})
	assert.Equal(t, map[string]interface{}{"field": "events.duration", "index": 3}, body.Error.Details)
	_, body = errorResponse(&model.ValidationError{Field: "profile", Index: -1})
	assert.NotContains(t, body.Error.Details, "index")

	_, body = errorResponse(&model.ComputationError{Index: 7, TankTemperature: math.Inf(1), COP: math.NaN()})
	assert.Equal(t, "NaN", body.Error.Details["cop"])
	assert.Equal(t, "+Inf", body.Error.Details["tank_temperature_f"])
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, "ok", outcomeOf(nil))
	assert.Equal(t, "invalid", outcomeOf(&model.ValidationError{}))
	assert.Equal(t, "invalid", outcomeOf(&model.ConfigurationError{}))
	assert.Equal(t, "computation_error", outcomeOf(&model.ComputationError{}))
	assert.Equal(t, "error", outcomeOf(errors.New("x")))
}

const presetYAML = `
device:
  name: Preset
  tank_volume_gal: 50
  firing_rate_w: 2000
  setpoint_f: 130
  deadband_f: 10
`

func TestConfigBuilder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "preset.yaml"), []byte(presetYAML), 0o644))
	b := ConfigBuilder{DeviceDir: dir, DataDir: "/srv/data"}

	cfg, err := b.Build(models.SimulationConfig{
		DeviceFile: "preset",
		Device:     config.DeviceConfig{TankVolumeGal: 80},
		Simulation: config.SimulationConfig{CO2File: "cz12.csv", CO2Column: "CZ12"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Preset", cfg.Device.Name)
	assert.Equal(t, 80.0, cfg.Device.TankVolumeGal)
	assert.Equal(t, 130.0, cfg.Device.InitialTemperatureF)
	assert.Equal(t, 5.0, cfg.Simulation.TimestepMinutes)
	assert.Equal(t, filepath.Join("/srv/data", "cz12.csv"), cfg.Simulation.CO2File)

	cfg, err = b.Build(models.SimulationConfig{DeviceFile: "preset.yaml"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, cfg.Device.TankVolumeGal)

	var cerr *model.ConfigurationError
	for _, req := range []models.SimulationConfig{
		{DeviceFile: "missing"},
		{DeviceFile: "../preset"},
		{DeviceFile: "preset", Simulation: config.SimulationConfig{WeatherFile: "../../etc/passwd", InletSource: config.InletWeather}},
		{DeviceFile: "preset", Simulation: config.SimulationConfig{InletSource: "river"}},
	} {
		_, err := b.Build(req)
		require.Error(t, err)
		assert.True(t, errors.As(err, &cerr), err.Error())
	}
}

func TestMergeConfig(t *testing.T) {
	base := models.SimulationConfig{
		DeviceFile: "a",
		Device:     config.DeviceConfig{TankVolumeGal: 50, SetpointF: 125},
		Simulation: config.SimulationConfig{TimestepMinutes: 5},
	}
	got := mergeConfig(base, models.SimulationConfig{
		Device:     config.DeviceConfig{SetpointF: 140},
		Simulation: config.SimulationConfig{TimestepMinutes: 1},
	})
	assert.Equal(t, "a", got.DeviceFile)
	assert.Equal(t, 50.0, got.Device.TankVolumeGal)
	assert.Equal(t, 140.0, got.Device.SetpointF)
	assert.Equal(t, 1.0, got.Simulation.TimestepMinutes)
	assert.Equal(t, 125.0, base.Device.SetpointF, "base is not mutated")

	got = mergeConfig(base, models.SimulationConfig{DeviceFile: "b"})
	assert.Equal(t, "b", got.DeviceFile)
}

func TestProfileStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p.json"),
		[]byte(`{"events":[{"start_time":0,"duration":1,"flow_rate":1}]}`), 0o644))
	store := &ProfileStore{Dir: dir, Catalog: &data.ProfileCatalog{Profiles: []data.ProfileEntry{
		{ID: "p", File: "p.json"},
		{ID: "gone", File: "gone.json"},
	}}}

	p, err := store.Resolve(nil, "p")
	require.NoError(t, err)
	assert.Equal(t, "p", p.Name)

	inline := &model.DrawProfile{}
	p, err = store.Resolve(inline, "")
	require.NoError(t, err)
	assert.Equal(t, "inline", p.Name)

	var verr *model.ValidationError
	_, err = store.Resolve(inline, "p")
	assert.True(t, errors.As(err, &verr))
	_, err = store.Resolve(nil, "")
	assert.True(t, errors.As(err, &verr))

	var nf *notFoundError
	_, err = store.Resolve(nil, "other")
	assert.True(t, errors.As(err, &nf))

	_, err = store.Load("gone")
	require.Error(t, err)
	assert.False(t, errors.As(err, &nf), "a catalog entry whose file vanished is a server error")

	var empty *ProfileStore
	assert.Empty(t, empty.Entries())
	_, err = empty.Load("p")
	assert.True(t, errors.As(err, &nf))
}

func TestFiniteOrZero(t *testing.T) {
	assert.Equal(t, 1.5, finiteOrZero(1.5))
	assert.Zero(t, finiteOrZero(math.NaN()))
	assert.Zero(t, finiteOrZero(math.Inf(-1)))
}
