package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolynomial_COP(t *testing.T) {
	linear := Polynomial{Coefficients: []float64{-0.0025, 2.0341}}
	assert.InDelta(t, 2.0341-0.0025*125, linear.COP(125), 1e-12)

	quad := Polynomial{Coefficients: []float64{1, -2, 3}}
	assert.InDelta(t, 4*4-2*4+3, quad.COP(4), 1e-12)

	assert.Equal(t, 0.0, Polynomial{}.COP(100))
}

func TestConstantCOPAndFunc(t *testing.T) {
	assert.Equal(t, 1.0, ConstantCOP(1).COP(40))
	var f COPFunction = COPFunc(func(t float64) float64 { return t / 100 })
	assert.Equal(t, 1.25, f.COP(125))
}

func TestPiecewiseLinear(t *testing.T) {
	pl, err := NewPiecewiseLinear([]COPPoint{
		{TemperatureF: 140, COP: 1.5},
		{TemperatureF: 100, COP: 1.8},
		{TemperatureF: 120, COP: 1.7},
	})
	require.NoError(t, err)

	assert.Equal(t, 1.8, pl.COP(60), "clamped below the table")
	assert.Equal(t, 1.5, pl.COP(200), "clamped above the table")
	assert.Equal(t, 1.7, pl.COP(120))
	assert.InDelta(t, 1.75, pl.COP(110), 1e-12)
	assert.InDelta(t, 1.6, pl.COP(130), 1e-12)
}

func TestPiecewiseLinear_Invalid(t *testing.T) {
	_, err := NewPiecewiseLinear(nil)
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	_, err = NewPiecewiseLinear([]COPPoint{{TemperatureF: 100, COP: 1}, {TemperatureF: 100, COP: 2}})
	assert.True(t, errors.As(err, &cfgErr))
}

func TestDrawEvent_Validate(t *testing.T) {
	assert.NoError(t, DrawEvent{StartTime: 0, Duration: 0, FlowRate: 0}.Validate(0))

	err := DrawEvent{StartTime: 1, Duration: -1, FlowRate: 1}.Validate(3)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, 3, vErr.Index)
	assert.Equal(t, "events.duration", vErr.Field)

	err = DrawEvent{StartTime: 1, Duration: 1, FlowRate: -2}.Validate(0)
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "events.flow_rate", vErr.Field)

	err = DrawEvent{StartTime: -0.5, Duration: 1, FlowRate: 2}.Validate(0)
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "events.start_time", vErr.Field)
}

func TestModeFromEnergy(t *testing.T) {
	assert.Equal(t, ModeIdle, ModeFromEnergy(0, 0))
	assert.Equal(t, ModeHeatPump, ModeFromEnergy(10, 0))
	assert.Equal(t, ModeBackup, ModeFromEnergy(0, 10))
	assert.Equal(t, ModeHeatPumpBackup, ModeFromEnergy(10, 10))
}
