package nlsq

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

type RootSettings struct {
	RTol, ATol float64
	MaxSteps   int
	Throw      bool
	// Deriv supplies f'. When nil, a central finite difference of f is used.
	Deriv func(float64) float64
}

type RootResult struct {
	X        float64
	Status   Status
	Steps    int
	Residual float64
}

// RootFind locates a zero of the scalar function f by Newton iteration
// from x0.
func RootFind(f func(float64) float64, x0 float64, set RootSettings) (res RootResult, err error) {
	var (
		x  = x0
		df = set.Deriv
	)
	if df == nil {
		df = func(xx float64) float64 {
			return fd.Derivative(f, xx, &fd.Settings{Formula: fd.Central})
		}
	}
	fx := f(x)
	res.Status = MaxStepsReached
	for step := 0; step < set.MaxSteps; step++ {
		res.Steps = step + 1
		if math.IsNaN(fx) || math.IsInf(fx, 0) {
			res.Status = NonFinite
			break
		}
		if math.Abs(fx) <= set.ATol {
			res.Status = Success
			break
		}
		d := df(x)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			res.Status = SingularMatrix
			break
		}
		dx := fx / d
		x -= dx
		fx = f(x)
		if math.Abs(dx) <= set.ATol+set.RTol*math.Abs(x) {
			res.Status = Success
			break
		}
	}
	res.X = x
	res.Residual = fx
	if set.Throw && res.Status != Success {
		err = fmt.Errorf("root find did not converge: %s after %d steps, f = %v",
			res.Status, res.Steps, res.Residual)
	}
	return
}
