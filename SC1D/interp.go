package SC1D

import (
	"github.com/notargets/gonozzle/utils"
)

// InterpolateAndDerivative evaluates the barycentric interpolant of the
// nodal data (X, Y) and its first derivative at xEval. Evaluation points
// that coincide with a node are handled by the limiting finite-sum
// formula; the generic rational form has a removable 0/0 there.
func InterpolateAndDerivative(X, Y utils.Vector, xEval float64) (p, dp float64) {
	var (
		Np = X.Len()
		x  = X.RawVector().Data
		y  = Y.RawVector().Data
		w  = barycentricWeights(Np)
	)
	for idx := 0; idx < Np; idx++ {
		if xEval == x[idx] {
			p = y[idx]
			for j := 0; j < Np; j++ {
				if j == idx {
					continue
				}
				dp += (w[j] / w[idx]) * (y[j] - y[idx]) / (x[idx] - x[j])
			}
			return
		}
	}
	// Generic two-pass barycentric form: value, then the derivative of
	// the rational interpolant
	var (
		S, Num, S1, Num1 float64
	)
	for j := 0; j < Np; j++ {
		diff := xEval - x[j]
		r := w[j] / diff
		S += r
		Num += r * y[j]
		rp := -w[j] / (diff * diff)
		S1 += rp
		Num1 += rp * y[j]
	}
	p = Num / S
	dp = (Num1 - p*S1) / S
	return
}

// Interpolate returns only the interpolant value at xEval.
func Interpolate(X, Y utils.Vector, xEval float64) (p float64) {
	p, _ = InterpolateAndDerivative(X, Y, xEval)
	return
}

// InterpolateVec applies the interpolant elementwise over XEval.
func InterpolateVec(X, Y, XEval utils.Vector) (P utils.Vector) {
	P, _ = InterpolateAndDerivativeVec(X, Y, XEval)
	return
}

// InterpolateAndDerivativeVec applies InterpolateAndDerivative
// elementwise over XEval.
func InterpolateAndDerivativeVec(X, Y, XEval utils.Vector) (P, DP utils.Vector) {
	var (
		n  = XEval.Len()
		xe = XEval.RawVector().Data
	)
	P, DP = utils.NewVector(n), utils.NewVector(n)
	pD, dpD := P.RawVector().Data, DP.RawVector().Data
	for i, xx := range xe {
		pD[i], dpD[i] = InterpolateAndDerivative(X, Y, xx)
	}
	return
}
