// Package drawprofile turns irregular hot water draw events into the fixed
// timestep series the tank integrator consumes.
//
// Bins are half-open: bin k covers [k·Δt, (k+1)·Δt). An event starting
// exactly on a boundary begins in the bin that opens at that instant, and an
// event ending exactly on a boundary does not touch the bin that opens there.
package drawprofile

import (
	"fmt"
	"math"

	"gashpwh-sim/internal/model"
)

// HoursPerYear bounds HourOfYear.
const HoursPerYear = 8760

// DefaultMaxBins caps the series length: two years at one-minute steps.
const DefaultMaxBins = 2 * HoursPerYear * 60

// boundaryEpsilon absorbs floating point residue when dividing a time by Δt,
// so 0.3/0.1 lands on bin 3 rather than 2.999... and bin 2.
const boundaryEpsilon = 1e-9

// Options controls resampling.
type Options struct {
	// TimestepMinutes is the bin width Δt. Required, > 0.
	TimestepMinutes float64
	// HorizonMinutes is an optional lower bound on the covered span
	// (0 = derive from the events). Events must start before it.
	HorizonMinutes float64
	// StartHourOfYear anchors minute 0 for hour-of-year lookups.
	StartHourOfYear int
	// InletTemperature is used for every bin when no event supplies an inlet
	// temperature, or when IgnoreEventInlet is set.
	InletTemperature float64
	IgnoreEventInlet bool
	// AmbientTemperature is copied into every bin.
	AmbientTemperature float64
	// MaxBins lowers the series length cap. 0 or anything above
	// DefaultMaxBins means DefaultMaxBins.
	MaxBins int
}

func (o Options) maxBins() int {
	if o.MaxBins <= 0 || o.MaxBins > DefaultMaxBins {
		return DefaultMaxBins
	}
	return o.MaxBins
}

// Bin is one resampled timestep. Units: minutes, gallons, °F.
type Bin struct {
	Index              int
	Time               float64
	HourOfYear         int
	DrawVolume         float64
	InletTemperature   float64
	AmbientTemperature float64
}

// Series is the regular output of Resample.
type Series struct {
	TimestepMinutes float64
	Bins            []Bin
}

// Len returns the number of bins.
func (s *Series) Len() int { return len(s.Bins) }

// TotalVolume sums DrawVolume over all bins.
func (s *Series) TotalVolume() float64 {
	total := 0.0
	for _, b := range s.Bins {
		total += b.DrawVolume
	}
	return total
}

// ApplyHourlyInlet overrides every bin's inlet temperature with an hourly
// series indexed by hour of year (wrapping modulo its length).
func (s *Series) ApplyHourlyInlet(hourly []float64) error {
	if len(hourly) == 0 {
		return &model.ValidationError{Field: "inlet_temperature", Index: -1, Reason: "hourly series is empty"}
	}
	for i := range s.Bins {
		s.Bins[i].InletTemperature = hourly[s.Bins[i].HourOfYear%len(hourly)]
	}
	return nil
}

// Truncate keeps the first n bins. n <= 0 or n >= Len() is a no-op.
func (s *Series) Truncate(n int) {
	if n > 0 && n < len(s.Bins) {
		s.Bins = s.Bins[:n]
	}
}

// Resample distributes each event's volume across every bin it overlaps, in
// proportion to the overlap, and derives the per-bin inlet temperature.
//
// The horizon is the larger of the events' span and opts.HorizonMinutes,
// rounded up to whole bins. An event starting at or after a non-zero horizon
// hint is rejected; one that starts inside it but runs past it extends the
// horizon so no volume is lost.
func Resample(events []model.DrawEvent, opts Options) (*Series, error) {
	dt := opts.TimestepMinutes
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return nil, &model.ValidationError{Field: "timestep_minutes", Index: -1,
			Reason: fmt.Sprintf("must be finite and > 0, got %g", dt)}
	}
	hint := opts.HorizonMinutes
	if math.IsNaN(hint) || math.IsInf(hint, 0) || hint < 0 {
		return nil, &model.ValidationError{Field: "horizon_minutes", Index: -1,
			Reason: fmt.Sprintf("must be finite and >= 0, got %g", hint)}
	}

	maxEnd := 0.0
	for i, e := range events {
		if err := e.Validate(i); err != nil {
			return nil, err
		}
		if hint > 0 && e.StartTime >= hint {
			return nil, &model.ValidationError{Field: "events.start_time", Index: i,
				Reason: fmt.Sprintf("%g is beyond the horizon of %g minutes", e.StartTime, hint)}
		}
		maxEnd = math.Max(maxEnd, e.EndTime())
	}

	// Checked on the float quotient so huge times cannot overflow the int
	// conversion or reach the allocation.
	limit := opts.maxBins()
	if q := math.Max(maxEnd/dt, hint/dt); q > float64(limit) {
		return nil, &model.ValidationError{Field: "horizon", Index: -1,
			Reason: fmt.Sprintf("%g timesteps of %g minutes exceeds the limit of %d", math.Ceil(q), dt, limit)}
	}

	n := max(ceilBins(maxEnd/dt), ceilBins(hint/dt))
	if n < 2 {
		return nil, &model.ValidationError{Field: "events", Index: -1,
			Reason: fmt.Sprintf("horizon covers %d timestep(s), need at least 2", n)}
	}

	s := &Series{TimestepMinutes: dt, Bins: make([]Bin, n)}
	for k := range s.Bins {
		t := float64(k) * dt
		s.Bins[k] = Bin{
			Index:              k,
			Time:               t,
			HourOfYear:         hourOfYear(opts.StartHourOfYear, t),
			InletTemperature:   opts.InletTemperature,
			AmbientTemperature: opts.AmbientTemperature,
		}
	}

	assigned := make([]bool, n)
	anyInlet := false
	for _, e := range events {
		first, last := span(e, dt, n)
		if e.Volume() > 0 {
			deposit(s.Bins, e, dt, first, last)
		}
		if opts.IgnoreEventInlet || e.InletTemperature == nil || first >= n {
			continue
		}
		for k := first; k <= last; k++ {
			s.Bins[k].InletTemperature = *e.InletTemperature
			assigned[k] = true
		}
		anyInlet = true
	}
	if anyInlet {
		fillInlet(s.Bins, assigned)
	}
	return s, nil
}

// span returns the first and last bin indices an event touches.
func span(e model.DrawEvent, dt float64, n int) (int, int) {
	first := floorBins(e.StartTime / dt)
	last := ceilBins(e.EndTime()/dt) - 1
	if last < first {
		last = first
	}
	if last > n-1 {
		last = n - 1
	}
	return first, last
}

func deposit(bins []Bin, e model.DrawEvent, dt float64, first, last int) {
	if first == last {
		bins[first].DrawVolume += e.Volume()
		return
	}
	head := (float64(first+1)*dt - e.StartTime) * e.FlowRate
	tail := (e.EndTime() - float64(last)*dt) * e.FlowRate
	bins[first].DrawVolume += math.Max(head, 0)
	for k := first + 1; k < last; k++ {
		bins[k].DrawVolume += e.FlowRate * dt
	}
	bins[last].DrawVolume += math.Max(tail, 0)
}

// fillInlet propagates assigned inlet temperatures forward, then backward
// into any leading gap. Values are copied, never interpolated.
func fillInlet(bins []Bin, assigned []bool) {
	first := -1
	var carry float64
	for k := range bins {
		switch {
		case assigned[k]:
			if first < 0 {
				first = k
			}
			carry = bins[k].InletTemperature
		case first >= 0:
			bins[k].InletTemperature = carry
		}
	}
	for k := 0; k < first; k++ {
		bins[k].InletTemperature = bins[first].InletTemperature
	}
}

func hourOfYear(start int, minutes float64) int {
	h := (start + int(math.Floor(minutes/60))) % HoursPerYear
	if h < 0 {
		h += HoursPerYear
	}
	return h
}

func floorBins(q float64) int {
	if r := math.Round(q); math.Abs(q-r) < boundaryEpsilon {
		return int(r)
	}
	return int(math.Floor(q))
}

func ceilBins(q float64) int {
	if r := math.Round(q); math.Abs(q-r) < boundaryEpsilon {
		return int(r)
	}
	return int(math.Ceil(q))
}
