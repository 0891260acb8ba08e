package weather

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func epwRow(month, day, hour int, dryBulbC float64) string {
	fields := make([]string, 35)
	for i := range fields {
		fields[i] = "0"
	}
	fields[0] = "1999"
	fields[1] = fmt.Sprint(month)
	fields[2] = fmt.Sprint(day)
	fields[3] = fmt.Sprint(hour)
	fields[4] = "60"
	fields[5] = "A7A7A7A7*0?9?9?9?9?9?9?9A7A7A7A7A7A7*0E8*0*0"
	fields[6] = fmt.Sprint(dryBulbC)
	fields[7] = "-1.5"
	fields[8] = "65"
	fields[21] = "2.5"
	return strings.Join(fields, ",")
}

func epw(rows []string) string {
	header := []string{
		"LOCATION,Sacramento Exec,CA,USA,CZ2010,724830,38.50,-121.50,-8.0,8.0",
		"DESIGN CONDITIONS,0",
		"TYPICAL/EXTREME PERIODS,0",
		"GROUND TEMPERATURES,0",
		"HOLIDAYS/DAYLIGHT SAVINGS,No,0,0,0",
		"COMMENTS 1,synthetic",
		"COMMENTS 2,synthetic",
		"DATA PERIODS,1,1,Data,Sunday, 1/ 1,12/31",
	}
	return strings.Join(append(header, rows...), "\n") + "\n"
}

func TestReadEPW(t *testing.T) {
	content := epw([]string{epwRow(1, 1, 1, 10), epwRow(1, 1, 2, -40)})
	hours, err := ReadEPW(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, hours, 2)

	assert.Equal(t, 1999, hours[0].Year)
	assert.Equal(t, 1, hours[0].Month)
	assert.Equal(t, 2, hours[1].Hour)
	assert.InDelta(t, 50, hours[0].DryBulbF, 1e-12)
	assert.InDelta(t, -40, hours[1].DryBulbF, 1e-12)
	assert.InDelta(t, 29.3, hours[0].DewPointF, 1e-12)
	assert.Equal(t, 65.0, hours[0].RelativeHumidity)
	assert.InDelta(t, 2.5*3.28084, hours[0].WindSpeedFtPerS, 1e-12)
}

func TestLoadEPW_Errors(t *testing.T) {
	_, err := LoadEPW(filepath.Join(t.TempDir(), "missing.epw"))
	assert.Error(t, err)

	_, err = ReadEPW(strings.NewReader(epw(nil)))
	assert.Error(t, err, "header only")

	_, err = ReadEPW(strings.NewReader(epw([]string{"1999,1,1,1"})))
	assert.Error(t, err, "short row")

	bad := strings.Replace(epwRow(1, 1, 1, 10), ",10,", ",warm,", 1)
	_, err = ReadEPW(strings.NewReader(epw([]string{bad})))
	assert.Error(t, err)

	p := filepath.Join(t.TempDir(), "ok.epw")
	require.NoError(t, os.WriteFile(p, []byte(epw([]string{epwRow(1, 1, 1, 0)})), 0o644))
	hours, err := LoadEPW(p)
	require.NoError(t, err)
	assert.Len(t, hours, 1)
}

func TestMainsTemperature_FlatClimate(t *testing.T) {
	hours := make([]HourlyWeather, 48)
	for i := range hours {
		hours[i] = HourlyWeather{Month: 1 + i/24, DryBulbF: 50}
	}
	mains, err := MainsTemperature(hours)
	require.NoError(t, err)
	for _, v := range mains {
		assert.InDelta(t, 56, v, 1e-9)
	}
}

func TestMainsTemperature_Seasonal(t *testing.T) {
	hours := make([]HourlyWeather, 0, 8760)
	for i := 0; i < 8760; i++ {
		day := i / 24
		month := 1 + day*12/365
		// Cold January, warm July.
		temp := 60 - 20*math.Cos(2*math.Pi*float64(day)/365)
		hours = append(hours, HourlyWeather{Month: month, DryBulbF: temp})
	}
	mains, err := MainsTemperature(hours)
	require.NoError(t, err)
	require.Len(t, mains, 8760)

	// Constant within a day.
	for h := 1; h < 24; h++ {
		assert.Equal(t, mains[0], mains[h])
	}
	// Mains lag the air: coldest in late winter, warmest in late summer.
	assert.Less(t, mains[60*24], mains[240*24])

	_, err = MainsTemperature(nil)
	assert.Error(t, err)
}
