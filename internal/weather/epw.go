// Package weather reads EnergyPlus weather files and derives the mains water
// temperature used as the tank inlet.
package weather

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// epwHeaderLines precede the hourly records in every EPW file.
const epwHeaderLines = 8

// EPW column positions.
const (
	colYear      = 0
	colMonth     = 1
	colDay       = 2
	colHour      = 3
	colDryBulb   = 6
	colDewPoint  = 7
	colRH        = 8
	colWindSpeed = 21
)

// HourlyWeather is one EPW record converted to IP units.
type HourlyWeather struct {
	Year             int
	Month            int
	Day              int
	Hour             int
	DryBulbF         float64
	DewPointF        float64
	RelativeHumidity float64 // %
	WindSpeedFtPerS  float64
}

func LoadEPW(path string) ([]HourlyWeather, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadEPW(f)
}

// ReadEPW parses EPW content, skipping the location/design-condition header.
func ReadEPW(r io.Reader) ([]HourlyWeather, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var out []HourlyWeather
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("epw line %d: %w", line, err)
		}
		if line <= epwHeaderLines {
			continue
		}
		if len(rec) <= colWindSpeed {
			return nil, fmt.Errorf("epw line %d: expected at least %d fields, got %d", line, colWindSpeed+1, len(rec))
		}

		var h HourlyWeather
		ints := []struct {
			dst *int
			col int
		}{{&h.Year, colYear}, {&h.Month, colMonth}, {&h.Day, colDay}, {&h.Hour, colHour}}
		for _, x := range ints {
			v, err := strconv.Atoi(rec[x.col])
			if err != nil {
				return nil, fmt.Errorf("epw line %d column %d: %w", line, x.col, err)
			}
			*x.dst = v
		}
		floats := []struct {
			dst *float64
			col int
		}{{&h.DryBulbF, colDryBulb}, {&h.DewPointF, colDewPoint}, {&h.RelativeHumidity, colRH}, {&h.WindSpeedFtPerS, colWindSpeed}}
		for _, x := range floats {
			v, err := strconv.ParseFloat(rec[x.col], 64)
			if err != nil {
				return nil, fmt.Errorf("epw line %d column %d: %w", line, x.col, err)
			}
			*x.dst = v
		}
		h.DryBulbF = celsiusToF(h.DryBulbF)
		h.DewPointF = celsiusToF(h.DewPointF)
		h.WindSpeedFtPerS *= 3.28084

		out = append(out, h)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("epw: no hourly records")
	}
	return out, nil
}

func celsiusToF(c float64) float64 { return 1.8*c + 32 }
