package nlsq

import (
	"fmt"
	"math"

	"github.com/notargets/gonozzle/utils"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

type Status uint

const (
	Success Status = iota
	MaxStepsReached
	SingularMatrix
	NonFinite
)

var statusNames = []string{
	"success",
	"maximum steps reached",
	"singular matrix",
	"non-finite residual",
}

func (s Status) String() string { return statusNames[s] }

type MethodType uint

const (
	GaussNewton MethodType = iota
	LevenbergMarquardt
	Dogleg
)

var methodNames = []string{
	"GaussNewton",
	"LevenbergMarquardt",
	"Dogleg",
}

func (m MethodType) String() string { return methodNames[m] }

func MethodFromName(name string) (m MethodType, err error) {
	for i, n := range methodNames {
		if n == name {
			m = MethodType(i)
			return
		}
	}
	err = fmt.Errorf("unknown solver method: %s", name)
	return
}

type JacMode uint

const (
	JacForward JacMode = iota
	JacCentral
)

func (j JacMode) formula() fd.Formula {
	if j == JacCentral {
		return fd.Central
	}
	return fd.Forward
}

// Verbosity selects the per-step diagnostic fields printed during a solve.
type Verbosity struct {
	Step, Loss, Accepted, StepSize bool
}

func (v Verbosity) any() bool { return v.Step || v.Loss || v.Accepted || v.StepSize }

type Settings struct {
	RTol, ATol float64
	MaxSteps   int
	Jac        JacMode
	// Throw controls whether non-convergence is returned as an error or
	// only reported in Result.Status.
	Throw   bool
	Verbose Verbosity
}

type Result struct {
	Y            []float64
	Status       Status
	Steps        int
	ResidualNorm float64
}

// LeastSquares drives fn(y) toward the zero vector in the least-squares
// sense, starting from y0. The returned error is nil unless the settings
// are invalid or Throw is set and the solve did not converge.
func LeastSquares(fn func([]float64) []float64, y0 []float64, method MethodType, set Settings) (res Result, err error) {
	if set.MaxSteps < 0 {
		err = fmt.Errorf("negative MaxSteps: %d", set.MaxSteps)
		return
	}
	switch method {
	case GaussNewton:
		res = gaussNewton(fn, y0, set)
	case LevenbergMarquardt:
		res = levenbergMarquardt(fn, y0, set)
	case Dogleg:
		res = dogleg(fn, y0, set)
	default:
		err = fmt.Errorf("unknown solver method: %d", method)
		return
	}
	if set.Throw && res.Status != Success {
		err = fmt.Errorf("solver did not converge: %s after %d steps, |r| = %v",
			res.Status, res.Steps, res.ResidualNorm)
	}
	return
}

func jacobian(fn func([]float64) []float64, y []float64, m int, mode JacMode) (J utils.Matrix) {
	var (
		n   = len(y)
		dst = mat.NewDense(m, n, nil)
	)
	fd.Jacobian(dst, func(r, yy []float64) {
		copy(r, fn(yy))
	}, y, &fd.JacobianSettings{Formula: mode.formula()})
	J = utils.Matrix{M: dst}
	return
}

func logStep(v Verbosity, step int, cost, stepSize float64, accepted bool) {
	if !v.any() {
		return
	}
	if v.Step {
		fmt.Printf("step %4d", step)
	}
	if v.Loss {
		fmt.Printf(" loss %12.5e", cost)
	}
	if v.Accepted {
		fmt.Printf(" accepted %v", accepted)
	}
	if v.StepSize {
		fmt.Printf(" step_size %12.5e", stepSize)
	}
	fmt.Printf("\n")
}

func stepConverged(delta, y []float64, set Settings) bool {
	return utils.L2Norm(delta) <= set.ATol+set.RTol*utils.L2Norm(y)
}

func dot(a, b []float64) (d float64) {
	for i := range a {
		d += a[i] * b[i]
	}
	return
}

func gaussNewton(fn func([]float64) []float64, y0 []float64, set Settings) (res Result) {
	var (
		n = len(y0)
		y = make([]float64, n)
	)
	copy(y, y0)
	r := fn(y)
	m := len(r)
	res.Status = MaxStepsReached
	for step := 0; step < set.MaxSteps; step++ {
		res.Steps = step + 1
		if math.IsNaN(utils.L2Norm(r)) {
			res.Status = NonFinite
			break
		}
		if utils.MaxAbs(r) <= set.ATol {
			res.Status = Success
			break
		}
		J := jacobian(fn, y, m, set.Jac)
		JT := J.Transpose()
		A := JT.Mul(J)
		g := JT.MulVec(utils.NewVector(m, r))
		Ainv, errInv := A.Inverse()
		if errInv != nil {
			res.Status = SingularMatrix
			break
		}
		delta := Ainv.MulVec(g).Scale(-1)
		dd := delta.RawVector().Data
		for i := range y {
			y[i] += dd[i]
		}
		r = fn(y)
		cost := 0.5 * utils.POW(utils.L2Norm(r), 2)
		logStep(set.Verbose, step, cost, utils.L2Norm(dd), true)
		if stepConverged(dd, y, set) {
			res.Status = Success
			break
		}
	}
	res.Y = y
	res.ResidualNorm = utils.L2Norm(r)
	return
}

func levenbergMarquardt(fn func([]float64) []float64, y0 []float64, set Settings) (res Result) {
	var (
		n      = len(y0)
		y      = make([]float64, n)
		lambda = 1.e-3
		nu     = 2.0
	)
	copy(y, y0)
	r := fn(y)
	m := len(r)
	cost := 0.5 * utils.POW(utils.L2Norm(r), 2)
	res.Status = MaxStepsReached
	for step := 0; step < set.MaxSteps; step++ {
		res.Steps = step + 1
		if math.IsNaN(cost) {
			res.Status = NonFinite
			break
		}
		if utils.MaxAbs(r) <= set.ATol {
			res.Status = Success
			break
		}
		J := jacobian(fn, y, m, set.Jac)
		JT := J.Transpose()
		A := JT.Mul(J)
		g := JT.MulVec(utils.NewVector(m, r))
		// Damped normal equations: (JtJ + lambda*diag(JtJ)) delta = -Jt r
		Ad := A.Copy()
		for i := 0; i < n; i++ {
			d := A.At(i, i)
			if d == 0 {
				d = 1
			}
			Ad.Set(i, i, A.At(i, i)+lambda*d)
		}
		AdInv, errInv := Ad.Inverse()
		if errInv != nil {
			lambda = math.Min(lambda*nu, 1.e+12)
			nu *= 2
			continue
		}
		delta := AdInv.MulVec(g).Scale(-1)
		dd := delta.RawVector().Data
		yTrial := make([]float64, n)
		for i := range y {
			yTrial[i] = y[i] + dd[i]
		}
		rTrial := fn(yTrial)
		costTrial := 0.5 * utils.POW(utils.L2Norm(rTrial), 2)
		var (
			gd        = g.RawVector().Data
			Add       = A.MulVec(utils.NewVector(n, dd))
			predicted = -(dot(gd, dd) + 0.5*dot(dd, Add.RawVector().Data))
			rho       = (cost - costTrial) / predicted
		)
		accepted := !math.IsNaN(costTrial) && costTrial < cost
		logStep(set.Verbose, step, costTrial, utils.L2Norm(dd), accepted)
		if accepted {
			y, r, cost = yTrial, rTrial, costTrial
			// gain-ratio damping update (Nielsen)
			lambda = math.Max(lambda*math.Max(1./3., 1.-utils.POW(2.*rho-1., 3)), 1.e-12)
			nu = 2
			if stepConverged(dd, y, set) {
				res.Status = Success
				break
			}
		} else {
			// a rejected step this small means the iterate cannot improve
			if stepConverged(dd, y, set) {
				res.Status = Success
				break
			}
			lambda = math.Min(lambda*nu, 1.e+12)
			nu *= 2
		}
	}
	res.Y = y
	res.ResidualNorm = utils.L2Norm(r)
	return
}

func dogleg(fn func([]float64) []float64, y0 []float64, set Settings) (res Result) {
	var (
		n      = len(y0)
		y      = make([]float64, n)
		radius = 1.0
		radMax = 1.e+3
	)
	copy(y, y0)
	r := fn(y)
	m := len(r)
	cost := 0.5 * utils.POW(utils.L2Norm(r), 2)
	res.Status = MaxStepsReached
	for step := 0; step < set.MaxSteps; step++ {
		res.Steps = step + 1
		if math.IsNaN(cost) {
			res.Status = NonFinite
			break
		}
		if utils.MaxAbs(r) <= set.ATol {
			res.Status = Success
			break
		}
		J := jacobian(fn, y, m, set.Jac)
		JT := J.Transpose()
		A := JT.Mul(J)
		g := JT.MulVec(utils.NewVector(m, r))
		gd := g.RawVector().Data
		Ag := A.MulVec(g)
		gAg := dot(gd, Ag.RawVector().Data)
		gg := dot(gd, gd)
		if gg == 0 {
			res.Status = Success
			break
		}
		// Cauchy (steepest descent) step
		pU := make([]float64, n)
		alpha := gg / gAg
		for i := range pU {
			pU[i] = -alpha * gd[i]
		}
		// Gauss-Newton step
		var pB []float64
		if Ainv, errInv := A.Inverse(); errInv == nil {
			pBv := Ainv.MulVec(g).Scale(-1)
			pB = pBv.RawVector().Data
		}
		p := make([]float64, n)
		switch {
		case pB != nil && utils.L2Norm(pB) <= radius:
			copy(p, pB)
		case utils.L2Norm(pU) >= radius:
			scale := radius / utils.L2Norm(pU)
			for i := range p {
				p[i] = scale * pU[i]
			}
		case pB != nil:
			// Blend along the dogleg path so that |p| = radius
			d := make([]float64, n)
			for i := range d {
				d[i] = pB[i] - pU[i]
			}
			a := dot(d, d)
			b := 2 * dot(pU, d)
			c := dot(pU, pU) - radius*radius
			tau := (-b + math.Sqrt(b*b-4*a*c)) / (2 * a)
			for i := range p {
				p[i] = pU[i] + tau*d[i]
			}
		default:
			copy(p, pU)
		}
		Ap := A.MulVec(utils.NewVector(n, p))
		predicted := -(dot(gd, p) + 0.5*dot(p, Ap.RawVector().Data))
		yTrial := make([]float64, n)
		for i := range y {
			yTrial[i] = y[i] + p[i]
		}
		rTrial := fn(yTrial)
		costTrial := 0.5 * utils.POW(utils.L2Norm(rTrial), 2)
		rho := (cost - costTrial) / predicted
		accepted := !math.IsNaN(costTrial) && costTrial < cost
		logStep(set.Verbose, step, costTrial, utils.L2Norm(p), accepted)
		if rho < 0.25 || !accepted {
			radius *= 0.25
		} else if rho > 0.75 && utils.L2Norm(p) > 0.99*radius {
			radius = math.Min(2*radius, radMax)
		}
		if accepted {
			y, r, cost = yTrial, rTrial, costTrial
			if stepConverged(p, y, set) {
				res.Status = Success
				break
			}
		} else if stepConverged(p, y, set) {
			res.Status = Success
			break
		}
	}
	res.Y = y
	res.ResidualNorm = utils.L2Norm(r)
	return
}
