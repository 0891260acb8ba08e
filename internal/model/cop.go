package model

import (
	"fmt"
	"sort"
)

// COPFunction maps tank water temperature (°F) to the heat pump's
// coefficient of performance.
type COPFunction interface {
	COP(temperatureF float64) float64
}

// COPFunc adapts a plain function to COPFunction.
type COPFunc func(temperatureF float64) float64

func (f COPFunc) COP(temperatureF float64) float64 { return f(temperatureF) }

// Polynomial is a regression fit with coefficients ordered highest power
// first, e.g. {-0.0025, 2.0341} is COP = -0.0025*T + 2.0341.
type Polynomial struct {
	Coefficients []float64
}

func (p Polynomial) COP(temperatureF float64) float64 {
	out := 0.0
	for _, c := range p.Coefficients {
		out = out*temperatureF + c
	}
	return out
}

// ConstantCOP ignores temperature.
type ConstantCOP float64

func (c ConstantCOP) COP(float64) float64 { return float64(c) }

// COPPoint is one row of a tabulated COP curve.
type COPPoint struct {
	TemperatureF float64 `yaml:"temperature_f" json:"temperature_f"`
	COP          float64 `yaml:"cop" json:"cop"`
}

// PiecewiseLinear interpolates between tabulated points and holds the end
// values outside the table.
type PiecewiseLinear struct {
	points []COPPoint
}

func NewPiecewiseLinear(points []COPPoint) (*PiecewiseLinear, error) {
	if len(points) == 0 {
		return nil, misconfigf("cop.points", "at least one point is required")
	}
	sorted := make([]COPPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TemperatureF < sorted[j].TemperatureF })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].TemperatureF == sorted[i-1].TemperatureF {
			return nil, misconfigf("cop.points", "duplicate temperature %g", sorted[i].TemperatureF)
		}
	}
	return &PiecewiseLinear{points: sorted}, nil
}

func (pl *PiecewiseLinear) COP(temperatureF float64) float64 {
	pts := pl.points
	if temperatureF <= pts[0].TemperatureF {
		return pts[0].COP
	}
	last := pts[len(pts)-1]
	if temperatureF >= last.TemperatureF {
		return last.COP
	}
	j := sort.Search(len(pts), func(i int) bool { return pts[i].TemperatureF >= temperatureF })
	lo, hi := pts[j-1], pts[j]
	frac := (temperatureF - lo.TemperatureF) / (hi.TemperatureF - lo.TemperatureF)
	return lo.COP + frac*(hi.COP-lo.COP)
}

func (pl *PiecewiseLinear) String() string {
	return fmt.Sprintf("piecewise-linear(%d points)", len(pl.points))
}
