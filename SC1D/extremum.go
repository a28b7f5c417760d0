package SC1D

import (
	"math"

	"github.com/notargets/gonozzle/nlsq"
	"github.com/notargets/gonozzle/utils"
)

const (
	// Softmax temperature for the smooth arg-max initial guess; higher
	// concentrates the weights closer to the discrete arg-max.
	softArgMaxAlpha = 50.0

	maxNewtonSteps = 50
	newtonTol      = 1.e-10
)

// FindMaximum locates the single interior maximum of the interpolant of
// (X, Y). A softmax-weighted average of the node coordinates seeds a
// Newton search for the zero of the interpolant derivative; the result
// is clipped into the domain and falls back to the seed when the
// iteration produces a non-finite value.
func FindMaximum(X, Y utils.Vector) (xStar, yStar float64) {
	var (
		x      = X.RawVector().Data
		y      = Y.RawVector().Data
		x1, x2 = x[0], x[len(x)-1]
		yMax   = Y.Max()
	)
	// Smooth arg-max over node values
	var wSum, x0 float64
	for i := range x {
		w := math.Exp(softArgMaxAlpha * (y[i] - yMax))
		wSum += w
		x0 += w * x[i]
	}
	x0 /= wSum

	deriv := func(xx float64) float64 {
		_, dp := InterpolateAndDerivative(X, Y, xx)
		return dp
	}
	res, _ := nlsq.RootFind(deriv, x0, nlsq.RootSettings{
		RTol:     newtonTol,
		ATol:     newtonTol,
		MaxSteps: maxNewtonSteps,
	})
	xStar = res.X
	if math.IsNaN(xStar) || math.IsInf(xStar, 0) {
		xStar = x0
	}
	xStar = utils.Clip(xStar, x1, x2)
	yStar, _ = InterpolateAndDerivative(X, Y, xStar)
	return
}
