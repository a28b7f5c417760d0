package ode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDopri5ExponentialDecay(t *testing.T) {
	// y' = -y, y(0) = 1, exact y = exp(-x)
	fcn := func(x float64, y []float64) []float64 {
		return []float64{-y[0]}
	}
	cfg := &Config{AbsoluteTolerance: 1e-10, RelativeTolerance: 1e-10}
	samples := []float64{0.5, 1.0, 1.5}
	sol, err := Dopri5(fcn, 0, 2, []float64{1}, samples, nil, cfg)
	require.NoError(t, err)
	require.Equal(t, 4, len(sol.X)) // three samples plus the end point
	for i, x := range sol.X {
		assert.InDelta(t, math.Exp(-x), sol.Y[i][0], 1e-8)
	}
	assert.Equal(t, 2.0, sol.X[len(sol.X)-1])
	assert.True(t, sol.Stats.StepCount > 0)
	assert.True(t, sol.Stats.EvaluationCount > sol.Stats.StepCount)
	assert.False(t, sol.Stats.EventTriggered)
}

func TestDopri5SampleAtStart(t *testing.T) {
	// a sample coinciding with x0 records the initial condition
	fcn := func(x float64, y []float64) []float64 {
		return []float64{-y[0]}
	}
	cfg := &Config{AbsoluteTolerance: 1e-10, RelativeTolerance: 1e-10}
	samples := []float64{0, 0.5, 1.0}
	sol, err := Dopri5(fcn, 0, 1, []float64{1}, samples, nil, cfg)
	require.NoError(t, err)
	require.Equal(t, 3, len(sol.X))
	assert.Equal(t, 0.0, sol.X[0])
	assert.Equal(t, 1.0, sol.Y[0][0])
	for i, x := range sol.X {
		assert.InDelta(t, math.Exp(-x), sol.Y[i][0], 1e-8)
	}
}

func TestDopri5Harmonic(t *testing.T) {
	// y'' = -y as a system; exact (cos x, -sin x)
	fcn := func(x float64, y []float64) []float64 {
		return []float64{y[1], -y[0]}
	}
	cfg := &Config{AbsoluteTolerance: 1e-11, RelativeTolerance: 1e-11}
	sol, err := Dopri5(fcn, 0, 2*math.Pi, []float64{1, 0}, nil, nil, cfg)
	require.NoError(t, err)
	last := sol.Y[len(sol.Y)-1]
	assert.InDelta(t, 1, last[0], 1e-8)
	assert.InDelta(t, 0, last[1], 1e-8)
}

func TestDopri5Event(t *testing.T) {
	// Decay terminated when y crosses 0.5; exact location ln 2
	fcn := func(x float64, y []float64) []float64 {
		return []float64{-y[0]}
	}
	event := func(x float64, y []float64) float64 {
		return y[0] - 0.5
	}
	cfg := &Config{AbsoluteTolerance: 1e-10, RelativeTolerance: 1e-10}
	sol, err := Dopri5(fcn, 0, 10, []float64{1}, nil, event, cfg)
	require.NoError(t, err)
	assert.True(t, sol.Stats.EventTriggered)
	xFinal := sol.X[len(sol.X)-1]
	assert.InDelta(t, math.Ln2, xFinal, 1e-6)
	assert.InDelta(t, 0.5, sol.Y[len(sol.Y)-1][0], 1e-6)
}

func TestDopri5BadInterval(t *testing.T) {
	fcn := func(x float64, y []float64) []float64 { return []float64{0} }
	_, err := Dopri5(fcn, 1, 0, []float64{1}, nil, nil, &Config{})
	assert.Error(t, err)
}
