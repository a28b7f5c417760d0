package ode

import (
	"math"
)

// dopri5Step advances one Dormand-Prince step of size h, returning the
// fifth-order solution and the embedded error estimate vector.
func dopri5Step(fcn Func, x float64, y []float64, h float64, stats *Statistics) (yNew, errVec []float64) {
	var (
		n = len(y)
		k [7][]float64
	)
	k[0] = fcn(x, y)
	stats.EvaluationCount++
	yStage := make([]float64, n)
	for s := 1; s < 7; s++ {
		for i := 0; i < n; i++ {
			acc := y[i]
			for j := 0; j < s; j++ {
				if dpA[s][j] != 0 {
					acc += h * dpA[s][j] * k[j][i]
				}
			}
			yStage[i] = acc
		}
		k[s] = fcn(x+dpC[s]*h, yStage)
		stats.EvaluationCount++
	}
	yNew = make([]float64, n)
	errVec = make([]float64, n)
	for i := 0; i < n; i++ {
		var acc5, acc4 float64
		for s := 0; s < 7; s++ {
			acc5 += dpB5[s] * k[s][i]
			acc4 += dpB4[s] * k[s][i]
		}
		yNew[i] = y[i] + h*acc5
		errVec[i] = h * (acc5 - acc4)
	}
	return
}

func errorNorm(y, yNew, errVec []float64, atol, rtol float64) (norm float64) {
	for i := range errVec {
		sc := atol + rtol*math.Max(math.Abs(y[i]), math.Abs(yNew[i]))
		norm += (errVec[i] / sc) * (errVec[i] / sc)
	}
	norm = math.Sqrt(norm / float64(len(errVec)))
	return
}

// locateEvent bisects the step fraction theta in (0, 1] until the event
// condition sign flip is bracketed to machine-level resolution, taking a
// trial step of size theta*h from (x, y) at each evaluation.
func locateEvent(fcn Func, event EventFunc, x float64, y []float64, h float64, stats *Statistics) (xEvent float64, yEvent []float64) {
	var (
		lo, hi = 0.0, 1.0
	)
	yEvent, _ = dopri5Step(fcn, x, y, h, stats)
	g0 := event(x, y)
	for iter := 0; iter < 60; iter++ {
		mid := 0.5 * (lo + hi)
		yMid, _ := dopri5Step(fcn, x, y, mid*h, stats)
		if g0*event(x+mid*h, yMid) < 0 {
			hi = mid
			yEvent = yMid
		} else {
			lo = mid
		}
	}
	xEvent = x + hi*h
	yEvent, _ = dopri5Step(fcn, x, y, hi*h, stats)
	return
}

// estimateInitialStep picks a starting step from the local RHS
// magnitude and a trial Euler step for the second derivative.
func estimateInitialStep(fcn Func, x float64, y []float64, atol, rtol, hMax float64, stats *Statistics) (h float64) {
	var (
		n        = len(y)
		f        = fcn(x, y)
		dnf, dny float64
	)
	stats.EvaluationCount++
	for i := 0; i < n; i++ {
		sc := atol + rtol*math.Abs(y[i])
		dnf += (f[i] / sc) * (f[i] / sc)
		dny += (y[i] / sc) * (y[i] / sc)
	}
	if math.Min(dnf, dny) < 1e-10 {
		h = 1.e-6
	} else {
		h = 1.e-2 * math.Sqrt(dny/dnf)
	}
	h = math.Min(h, hMax)

	// Explicit Euler trial step for the second derivative scale
	y2 := make([]float64, n)
	for i := 0; i < n; i++ {
		y2[i] = y[i] + h*f[i]
	}
	f2 := fcn(x+h, y2)
	stats.EvaluationCount++
	var der2 float64
	for i := 0; i < n; i++ {
		sc := atol + rtol*math.Abs(y[i])
		der2 += ((f2[i] - f[i]) / sc) * ((f2[i] - f[i]) / sc)
	}
	der2 = math.Sqrt(der2) / h
	der12 := math.Max(der2, math.Sqrt(dnf))

	var h1 float64
	if der12 <= 1.e-15 {
		h1 = math.Max(1.e-6, h*1.e-3)
	} else {
		h1 = math.Pow(1.e-2/der12, 1./5.)
	}
	h = math.Min(1.e+2*h, math.Min(h1, hMax))
	return
}
