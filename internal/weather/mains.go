package weather

import (
	"errors"
	"math"
)

// MainsTemperature applies the EnergyPlus mains water correlation to an
// hourly weather year and returns one inlet temperature (°F) per input hour.
// Hour i belongs to day-of-year floor(i/24)+1.
func MainsTemperature(hours []HourlyWeather) ([]float64, error) {
	if len(hours) == 0 {
		return nil, errors.New("mains temperature: no weather data")
	}

	sum := 0.0
	monthSum := map[int]float64{}
	monthN := map[int]int{}
	for _, h := range hours {
		sum += h.DryBulbF
		monthSum[h.Month] += h.DryBulbF
		monthN[h.Month]++
	}
	avg := sum / float64(len(hours))

	lo, hi := math.Inf(1), math.Inf(-1)
	for m, s := range monthSum {
		mean := s / float64(monthN[m])
		lo = math.Min(lo, mean)
		hi = math.Max(hi, mean)
	}
	maxDiff := hi - lo

	ratio := 0.4 + 0.01*(avg-44)
	lag := 35 - (avg - 44)

	out := make([]float64, len(hours))
	for i := range hours {
		day := math.Floor(float64(i)/24 + 1)
		out[i] = (avg + 6) + ratio*(maxDiff/2)*math.Sin((0.986*(day-15-lag)-90)*math.Pi/180)
	}
	return out, nil
}
