package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gashpwh-sim/internal/simulation"
)

const cbeccCSV = `Day of Year (Day),Start time (hr),Duration (min),Hot Water Flow Rate (gpm),Mains Temperature (deg F)
32,6.5,2,1.5,52.1
32,18.25,4,2,52.1
33,0.1,1,1,52.4
`

const profileJSON = `{
  "name": "",
  "start_hour_of_year": 24,
  "horizon_min": 1440,
  "events": [
    {"start_time": 12, "duration": 2, "flow_rate": 10},
    {"start_time": 600, "duration": 5, "flow_rate": 1.5, "inlet_temperature": 55}
  ]
}`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestReadDrawProfileCSV(t *testing.T) {
	p, err := ReadDrawProfileCSV(strings.NewReader(cbeccCSV))
	require.NoError(t, err)

	assert.Equal(t, 31*24, p.StartHourOfYear)
	assert.Equal(t, 2880.0, p.HorizonMinutes)
	require.Len(t, p.Events, 3)
	assert.Equal(t, 390.0, p.Events[0].StartTime)
	assert.Equal(t, 18.25*60, p.Events[1].StartTime)
	assert.InDelta(t, 1440+6, p.Events[2].StartTime, 1e-9)
	assert.Equal(t, 4.0, p.Events[1].Duration)
	assert.Equal(t, 2.0, p.Events[1].FlowRate)
	require.NotNil(t, p.Events[2].InletTemperature)
	assert.Equal(t, 52.4, *p.Events[2].InletTemperature)
}

func TestReadDrawProfileCSV_NoMainsColumn(t *testing.T) {
	in := "Day of Year (Day),Start time (hr),Duration (min),Hot Water Flow Rate (gpm)\n1,0,1,1\n"
	p, err := ReadDrawProfileCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Nil(t, p.Events[0].InletTemperature)
	assert.Equal(t, 0, p.StartHourOfYear)
}

func TestReadDrawProfileCSV_Errors(t *testing.T) {
	_, err := ReadDrawProfileCSV(strings.NewReader("Day of Year (Day),Duration (min)\n1,2\n"))
	assert.ErrorContains(t, err, "missing column")

	_, err = ReadDrawProfileCSV(strings.NewReader("Day of Year (Day),Start time (hr),Duration (min),Hot Water Flow Rate (gpm)\n"))
	assert.ErrorContains(t, err, "no draw events")

	_, err = ReadDrawProfileCSV(strings.NewReader("Day of Year (Day),Start time (hr),Duration (min),Hot Water Flow Rate (gpm)\n1,x,1,1\n"))
	assert.Error(t, err)
}

func TestLoadDrawProfile_Dispatch(t *testing.T) {
	dir := t.TempDir()
	jsonPath := write(t, dir, "Bldg=Single_CZ=12_Prof=1.json", profileJSON)
	csvPath := write(t, dir, "cz3.csv", cbeccCSV)

	p, err := LoadDrawProfile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "Bldg=Single_CZ=12_Prof=1", p.Name)
	assert.Equal(t, 24, p.StartHourOfYear)
	require.Len(t, p.Events, 2)
	require.NotNil(t, p.Events[1].InletTemperature)
	assert.Equal(t, 55.0, *p.Events[1].InletTemperature)

	p, err = LoadDrawProfile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "cz3", p.Name)

	_, err = LoadDrawProfile(write(t, dir, "x.txt", "hi"))
	assert.Error(t, err)
}

func TestParseProfileName(t *testing.T) {
	got := ParseProfileName("Bldg=Single_CZ=12_Wat=Hot_Prof=3_SDLM=Yes_CFA=800_Inc=FSCDB_Ver=2019")
	assert.Equal(t, "12", got["CZ"])
	assert.Equal(t, "800", got["CFA"])
	assert.Len(t, got, 8)
	assert.Empty(t, ParseProfileName("plain"))
}

func TestReadHourlyCO2(t *testing.T) {
	in := "CA 2019 carbon\nunits: ton/MWh\nHour,CZ1 Electricity Long-Run Carbon Emission Factors (ton/MWh),CZ12 Electricity Long-Run Carbon Emission Factors (ton/MWh)\n1,0.2,0.3\n2,0.21,0.31\n3,0.22,\n"
	vals, err := ReadHourlyCO2(strings.NewReader(in), "CZ12 Electricity Long-Run Carbon Emission Factors (ton/MWh)", 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.3, 0.31}, vals)

	_, err = ReadHourlyCO2(strings.NewReader(in), "CZ99", 2)
	assert.Error(t, err)

	p := write(t, t.TempDir(), "co2.csv", in)
	vals, err = LoadHourlyCO2(p, "CZ1 Electricity Long-Run Carbon Emission Factors (ton/MWh)", 2)
	require.NoError(t, err)
	assert.Len(t, vals, 3)
}

func TestCatalog_ScanSaveLoad(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "Bldg=Single_CZ=12_Prof=1.json", profileJSON)
	write(t, dir, "cz3.csv", cbeccCSV)
	write(t, dir, "broken.json", "{")
	write(t, dir, "notes.md", "ignored")

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cat, skipped, err := ScanProfiles(dir, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T12:00:00Z", cat.UpdatedAt)
	require.Len(t, cat.Profiles, 2)
	assert.Contains(t, skipped, "broken.json")

	first := cat.Profiles[0]
	assert.Equal(t, "Bldg=Single_CZ=12_Prof=1", first.ID)
	assert.Equal(t, "json", first.Format)
	assert.Equal(t, 1, first.Days)
	assert.InDelta(t, 27.5, first.VolumeGal, 1e-9)
	assert.Equal(t, "12", first.Attributes["CZ"])

	second, ok := cat.Find("cz3")
	require.True(t, ok)
	assert.Equal(t, 2, second.Days)
	assert.Equal(t, 3, second.Events)

	out := filepath.Join(dir, "out", "catalog.json")
	require.NoError(t, SaveCatalog(cat, out))
	loaded, err := LoadCatalog(out)
	require.NoError(t, err)
	assert.Equal(t, cat, loaded)

	_, ok = loaded.Find("missing")
	assert.False(t, ok)
}

func TestGetDefaultCatalogPath(t *testing.T) {
	t.Setenv("HPWH_CATALOG_PATH", "")
	assert.Equal(t, "./data/profiles.json", GetDefaultCatalogPath())
	t.Setenv("HPWH_CATALOG_PATH", "/tmp/cat.json")
	assert.Equal(t, "/tmp/cat.json", GetDefaultCatalogPath())
}

func TestResultCache(t *testing.T) {
	_, err := NewResultCache(0)
	assert.Error(t, err)

	c, err := NewResultCache(2)
	require.NoError(t, err)
	c.Add("a", &CachedRun{ProfileName: "a", Result: &simulation.Result{}})
	c.Add("b", &CachedRun{ProfileName: "b"})
	evicted := c.Add("c", &CachedRun{ProfileName: "c"})
	assert.True(t, evicted)
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("a")
	assert.False(t, ok)
	run, ok := c.Get("c")
	require.True(t, ok)
	assert.Equal(t, "c", run.ProfileName)

	var nilCache *ResultCache
	_, ok = nilCache.Get("x")
	assert.False(t, ok)
}
