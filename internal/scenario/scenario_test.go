package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gashpwh-sim/internal/config"
	"gashpwh-sim/internal/model"
	"gashpwh-sim/internal/simulation"
)

func testConfig() *config.Config {
	c := &config.Config{
		Device: config.DeviceConfig{
			Name:                  "test",
			TankVolumeGal:         65,
			JacketLossWPerK:       2.638,
			FiringRateW:           2930.72,
			SetpointF:             125,
			DeadbandF:             15,
			ActiveElectricDemandW: 110,
			IdleElectricDemandW:   5,
		},
		Simulation: config.SimulationConfig{TimestepMinutes: 1},
	}
	c.ApplyDefaults()
	return c
}

func testProfile() *model.DrawProfile {
	return &model.DrawProfile{
		Name:           "morning",
		HorizonMinutes: 120,
		Events: []model.DrawEvent{
			{StartTime: 10, Duration: 5, FlowRate: 2, InletTemperature: model.Float64(50)},
			{StartTime: 60, Duration: 10, FlowRate: 1.5},
		},
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestExecute(t *testing.T) {
	out, err := Execute(testConfig(), testProfile(), simulation.New(model.DefaultConstants()), 0)
	require.NoError(t, err)

	assert.Equal(t, "morning", out.Name)
	assert.Equal(t, "morning", out.Summary.Name)
	require.Len(t, out.Result.Records, 120)
	assert.InDelta(t, 25, out.Summary.DrawVolume, 1e-9)
	assert.Equal(t, 120, out.Summary.Steps)
	assert.Equal(t, out.Result.FinalTemperature, out.Summary.FinalTemperature)
}

func TestPrepare_HorizonFromProfileAndConfig(t *testing.T) {
	c := testConfig()
	s, err := Prepare(c, testProfile(), model.DefaultConstants(), 0)
	require.NoError(t, err)
	assert.Equal(t, 120, s.Series.Len())

	c.Simulation.HorizonMinutes = 240
	s, err = Prepare(c, testProfile(), model.DefaultConstants(), 0)
	require.NoError(t, err)
	assert.Equal(t, 240, s.Series.Len(), "config horizon wins over the profile's")
}

func TestPrepare_Limit(t *testing.T) {
	s, err := Prepare(testConfig(), testProfile(), model.DefaultConstants(), 30)
	require.NoError(t, err)
	assert.Equal(t, 30, s.Series.Len())
}

func TestPrepare_InletSources(t *testing.T) {
	c := testConfig()
	s, err := Prepare(c, testProfile(), model.DefaultConstants(), 0)
	require.NoError(t, err)
	assert.Equal(t, 50.0, s.Series.Bins[0].InletTemperature, "event inlet back-fills the start")

	c.Simulation.InletSource = config.InletFixed
	s, err = Prepare(c, testProfile(), model.DefaultConstants(), 0)
	require.NoError(t, err)
	for _, b := range s.Series.Bins {
		assert.Equal(t, 40.0, b.InletTemperature)
	}
}

func epwRow(hour int, dryBulbC float64) string {
	fields := make([]string, 35)
	for i := range fields {
		fields[i] = "0"
	}
	fields[0] = "1999"
	fields[1] = "1"
	fields[2] = "1"
	fields[3] = fmt.Sprint(hour)
	fields[6] = fmt.Sprint(dryBulbC)
	return strings.Join(fields, ",")
}

func TestPrepare_WeatherInlet(t *testing.T) {
	lines := []string{"LOCATION,x", "D", "T", "G", "H", "C1", "C2", "DATA PERIODS"}
	for h := 1; h <= 24; h++ {
		lines = append(lines, epwRow(h, 10))
	}
	c := testConfig()
	c.Simulation.InletSource = config.InletWeather
	c.Simulation.WeatherFile = writeFile(t, "w.epw", strings.Join(lines, "\n")+"\n")

	s, err := Prepare(c, testProfile(), model.DefaultConstants(), 0)
	require.NoError(t, err)
	// 10 °C all year: mains sits at the annual mean plus 6 °F.
	for _, b := range s.Series.Bins {
		assert.InDelta(t, 56, b.InletTemperature, 1e-9)
	}

	c.Simulation.WeatherFile = filepath.Join(t.TempDir(), "missing.epw")
	_, err = Prepare(c, testProfile(), model.DefaultConstants(), 0)
	assert.ErrorContains(t, err, "load weather")
}

func TestPrepare_HourlyCO2(t *testing.T) {
	c := testConfig()
	c.Simulation.CO2File = writeFile(t, "co2.csv", "Hour,CZ12\n1,0.5\n2,0.25\n")
	c.Simulation.CO2Column = "CZ12"

	s, err := Prepare(c, testProfile(), model.DefaultConstants(), 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0.5}, s.Params.CO2Electricity.Hourly, 1e-12)

	c.Simulation.CO2Column = "CZ99"
	_, err = Prepare(c, testProfile(), model.DefaultConstants(), 0)
	assert.ErrorContains(t, err, "load co2 factors")
}

func TestPrepare_Errors(t *testing.T) {
	_, err := Prepare(nil, testProfile(), model.DefaultConstants(), 0)
	assert.Error(t, err)

	_, err = Prepare(testConfig(), nil, model.DefaultConstants(), 0)
	var verr *model.ValidationError
	assert.True(t, errors.As(err, &verr))

	c := testConfig()
	c.Device.COP = config.COPConfig{Model: "neural"}
	_, err = Prepare(c, testProfile(), model.DefaultConstants(), 0)
	var cerr *model.ConfigurationError
	assert.True(t, errors.As(err, &cerr))

	p := testProfile()
	p.Events[0].Duration = -1
	_, err = Prepare(testConfig(), p, model.DefaultConstants(), 0)
	assert.True(t, errors.As(err, &verr))
}

func TestExecute_InvalidParams(t *testing.T) {
	c := testConfig()
	c.Device.TankVolumeGal = 0
	_, err := Execute(c, testProfile(), simulation.New(model.DefaultConstants()), 0)
	var cerr *model.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "thermal_mass", cerr.Field)
}
