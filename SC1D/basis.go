package SC1D

import (
	"fmt"
	"math"

	"github.com/notargets/gonozzle/utils"
)

// ChebyshevLobatto returns the N+1 collocation nodes in [x1, x2] and the
// (N+1)x(N+1) differentiation matrix D such that (D u)_i approximates
// u'(x_i) for nodal values u. Nodes are ordered so X[0] = x1 and
// X[N] = x2, the reverse of the natural Chebyshev ordering.
func ChebyshevLobatto(N int, x1, x2 float64) (X utils.Vector, D utils.Matrix, err error) {
	if N < 1 {
		err = fmt.Errorf("invalid polynomial order for Chebyshev-Lobatto basis: N = %d", N)
		return
	}
	var (
		Np   = N + 1
		xHat = make([]float64, Np)
		c    = make([]float64, Np)
	)
	for k := 0; k < Np; k++ {
		xHat[k] = math.Cos(math.Pi * float64(k) / float64(N))
		c[k] = math.Pow(-1, float64(k))
		if k == 0 || k == N {
			c[k] *= 2
		}
	}
	DHat := utils.NewMatrix(Np, Np)
	for i := 0; i < Np; i++ {
		var rowSum float64
		for j := 0; j < Np; j++ {
			if i == j {
				continue
			}
			val := c[i] / (c[j] * (xHat[i] - xHat[j]))
			DHat.Set(i, j, val)
			rowSum += val
		}
		// Negative row sum on the diagonal differentiates constants exactly
		DHat.Set(i, i, -rowSum)
	}

	// Map to [x1, x2] and reverse so index 0 is the left boundary
	x := make([]float64, Np)
	for k := 0; k < Np; k++ {
		x[N-k] = 0.5*(xHat[k]+1)*(x2-x1) + x1
	}
	X = utils.NewVector(Np, x)
	D = utils.NewMatrix(Np, Np)
	// Reversing rows and columns together keeps the operator's sign;
	// only the affine map to [x1, x2] rescales it.
	scale := 2. / (x2 - x1)
	for i := 0; i < Np; i++ {
		for j := 0; j < Np; j++ {
			D.Set(N-i, N-j, scale*DHat.At(i, j))
		}
	}
	return
}

// barycentricWeights are the Chebyshev-Lobatto closed-form weights,
// uniform scaling omitted since the formula is scale invariant.
func barycentricWeights(Np int) (w []float64) {
	w = make([]float64, Np)
	for k := 0; k < Np; k++ {
		w[k] = math.Pow(-1, float64(k))
		if k == 0 || k == Np-1 {
			w[k] *= 0.5
		}
	}
	return
}
