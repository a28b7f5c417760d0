package nlsq

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Residuals with root at (1, 2): r1 = x-1, r2 = y-2, r3 = (x-1)*(y-2)
func crossResidual(z []float64) []float64 {
	return []float64{z[0] - 1, z[1] - 2, (z[0] - 1) * (z[1] - 2)}
}

// Rosenbrock in least-squares form, minimum (not zero residual) at (1,1)
func rosenbrock(z []float64) []float64 {
	return []float64{10 * (z[1] - z[0]*z[0]), 1 - z[0]}
}

func TestLeastSquaresMethods(t *testing.T) {
	set := Settings{RTol: 1e-10, ATol: 1e-10, MaxSteps: 200}
	for _, method := range []MethodType{GaussNewton, LevenbergMarquardt, Dogleg} {
		res, err := LeastSquares(crossResidual, []float64{-3, 7}, method, set)
		require.NoError(t, err, method.String())
		assert.Equal(t, Success, res.Status, method.String())
		assert.InDelta(t, 1, res.Y[0], 1e-8, method.String())
		assert.InDelta(t, 2, res.Y[1], 1e-8, method.String())
	}
}

func TestLeastSquaresRosenbrock(t *testing.T) {
	set := Settings{RTol: 1e-12, ATol: 1e-12, MaxSteps: 500}
	res, err := LeastSquares(rosenbrock, []float64{-1.2, 1}, LevenbergMarquardt, set)
	require.NoError(t, err)
	assert.Equal(t, Success, res.Status)
	assert.InDelta(t, 1, res.Y[0], 1e-6)
	assert.InDelta(t, 1, res.Y[1], 1e-6)
}

func TestNonConvergenceReported(t *testing.T) {
	// Residual with no zero and a max-step limit too small to converge
	fn := func(z []float64) []float64 {
		return []float64{math.Exp(z[0]) + 1}
	}
	set := Settings{RTol: 1e-14, ATol: 1e-14, MaxSteps: 3}
	res, err := LeastSquares(fn, []float64{0}, GaussNewton, set)
	assert.NoError(t, err) // Throw is false: status only
	assert.NotEqual(t, Success, res.Status)

	set.Throw = true
	_, err = LeastSquares(fn, []float64{0}, GaussNewton, set)
	assert.Error(t, err)
}

func TestMethodFromName(t *testing.T) {
	m, err := MethodFromName("Dogleg")
	require.NoError(t, err)
	assert.Equal(t, Dogleg, m)
	_, err = MethodFromName("SteepestDescent")
	assert.Error(t, err)
}

func TestRootFind(t *testing.T) {
	// sqrt(2) via x^2 - 2, with and without an analytic derivative
	f := func(x float64) float64 { return x*x - 2 }
	res, err := RootFind(f, 1, RootSettings{RTol: 1e-12, ATol: 1e-12, MaxSteps: 50})
	require.NoError(t, err)
	assert.Equal(t, Success, res.Status)
	assert.InDelta(t, math.Sqrt2, res.X, 1e-10)

	res, err = RootFind(f, 1, RootSettings{
		RTol: 1e-12, ATol: 1e-12, MaxSteps: 50,
		Deriv: func(x float64) float64 { return 2 * x },
	})
	require.NoError(t, err)
	assert.Equal(t, Success, res.Status)
	assert.InDelta(t, math.Sqrt2, res.X, 1e-12)
}

func TestRootFindNonConvergence(t *testing.T) {
	// No real root; status reported, no error unless Throw
	f := func(x float64) float64 { return x*x + 1 }
	res, err := RootFind(f, 3, RootSettings{RTol: 1e-14, ATol: 1e-14, MaxSteps: 8})
	assert.NoError(t, err)
	assert.NotEqual(t, Success, res.Status)
}
