// Package ode provides explicit adaptive marching integration for
// initial value problems, with terminal event conditions and sampled
// output.
package ode

import (
	"fmt"
	"math"
)

type Func func(x float64, y []float64) []float64

// EventFunc is a scalar condition; integration terminates at its first
// zero crossing.
type EventFunc func(x float64, y []float64) float64

type Config struct {
	// InitialStepSize, if > 0, is used for the first integration step;
	// otherwise a starting step is estimated from the RHS magnitude.
	InitialStepSize float64
	// MinStepSize, if > 0, aborts processing when the controller would
	// shrink the step below it.
	MinStepSize float64
	MaxStepSize float64

	AbsoluteTolerance float64
	RelativeTolerance float64

	// MaxStepCount bounds the number of accepted steps; 0 selects the
	// default of 10000.
	MaxStepCount int
}

type Statistics struct {
	StepCount       int
	RejectedCount   int
	EvaluationCount int
	LastStepSize    float64
	CurrentTime     float64
	EventTriggered  bool
}

type Solution struct {
	X     []float64
	Y     [][]float64
	Stats Statistics
}

// Dormand-Prince 5(4) tableau
var (
	dpA = [7][6]float64{
		{},
		{1. / 5.},
		{3. / 40., 9. / 40.},
		{44. / 45., -56. / 15., 32. / 9.},
		{19372. / 6561., -25360. / 2187., 64448. / 6561., -212. / 729.},
		{9017. / 3168., -355. / 33., 46732. / 5247., 49. / 176., -5103. / 18656.},
		{35. / 384., 0., 500. / 1113., 125. / 192., -2187. / 6784., 11. / 84.},
	}
	dpC = [7]float64{0, 1. / 5., 3. / 10., 4. / 5., 8. / 9., 1., 1.}
	dpB5 = [7]float64{35. / 384., 0., 500. / 1113., 125. / 192., -2187. / 6784., 11. / 84., 0.}
	dpB4 = [7]float64{5179. / 57600., 0., 7571. / 16695., 393. / 640., -92097. / 339200., 187. / 2100., 1. / 40.}
)

// Dopri5 integrates y' = fcn(x, y) from x0 to xEnd with adaptive step
// control, recording the state at each of the (ascending) sample
// coordinates and at the terminal point. When event is non-nil the
// integration stops at the first sign change of the event condition,
// refined by bisection over the final step.
func Dopri5(fcn Func, x0, xEnd float64, y0 []float64, samples []float64, event EventFunc, cfg *Config) (sol Solution, err error) {
	var (
		x     = x0
		y     = append([]float64{}, y0...)
		atol  = cfg.AbsoluteTolerance
		rtol  = cfg.RelativeTolerance
		hMax  = cfg.MaxStepSize
		limit = cfg.MaxStepCount
	)
	if xEnd <= x0 {
		err = fmt.Errorf("invalid interval: [%v, %v]", x0, xEnd)
		return
	}
	if atol == 0 {
		atol = 1.e-6
	}
	if rtol == 0 {
		rtol = 1.e-6
	}
	if hMax <= 0 {
		hMax = xEnd - x0
	}
	if limit == 0 {
		limit = 10000
	}

	record := func(xx float64, yy []float64) {
		sol.X = append(sol.X, xx)
		sol.Y = append(sol.Y, append([]float64{}, yy...))
	}

	var iSample int
	for iSample < len(samples) && samples[iSample] <= x0 {
		if samples[iSample] == x0 {
			record(x0, y)
		}
		iSample++
	}

	h := cfg.InitialStepSize
	if h <= 0 {
		h = estimateInitialStep(fcn, x, y, atol, rtol, hMax, &sol.Stats)
	}
	var g0 float64
	if event != nil {
		g0 = event(x, y)
	}

	for x < xEnd {
		if sol.Stats.StepCount >= limit {
			err = fmt.Errorf("step limit reached: %d steps at x = %v", limit, x)
			break
		}
		// Land exactly on the next sample point and the interval end
		h = math.Min(h, hMax)
		if iSample < len(samples) && x+h > samples[iSample] {
			h = samples[iSample] - x
		}
		if x+h > xEnd {
			h = xEnd - x
		}
		if cfg.MinStepSize > 0 && h < cfg.MinStepSize {
			err = fmt.Errorf("step size underflow: h = %v at x = %v", h, x)
			break
		}

		yNew, errVec := dopri5Step(fcn, x, y, h, &sol.Stats)
		errNorm := errorNorm(y, yNew, errVec, atol, rtol)
		if errNorm > 1 {
			sol.Stats.RejectedCount++
			h *= math.Max(0.2, 0.9*math.Pow(errNorm, -0.2))
			continue
		}

		if event != nil {
			g1 := event(x+h, yNew)
			if g0*g1 < 0 {
				xEvent, yEvent := locateEvent(fcn, event, x, y, h, &sol.Stats)
				sol.Stats.StepCount++
				sol.Stats.LastStepSize = xEvent - x
				sol.Stats.CurrentTime = xEvent
				sol.Stats.EventTriggered = true
				record(xEvent, yEvent)
				return
			}
			g0 = g1
		}

		x += h
		y = yNew
		sol.Stats.StepCount++
		sol.Stats.LastStepSize = h
		sol.Stats.CurrentTime = x

		if iSample < len(samples) && x >= samples[iSample] {
			record(x, y)
			iSample++
		}

		if errNorm > 0 {
			h *= math.Min(5, math.Max(0.2, 0.9*math.Pow(errNorm, -0.2)))
		} else {
			h *= 5
		}
	}
	if len(sol.X) == 0 || sol.X[len(sol.X)-1] != x {
		record(x, y)
	}
	sol.Stats.CurrentTime = x
	return
}
