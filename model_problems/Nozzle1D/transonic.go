package Nozzle1D

import (
	"fmt"
	"math"

	"github.com/notargets/gonozzle/nlsq"
	"github.com/notargets/gonozzle/ode"
	"github.com/notargets/gonozzle/utils"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// maBlendStart is the Mach number at which the blend starts returning
// weight to the exact equations on the supersonic side of the throat.
const maBlendStart = 1.001

// inletOffset keeps the marching start strictly inside the domain so
// the geometry derivative and the friction terms are well defined.
const inletOffset = 1.e-9

// TransonicResult bundles the choked collocation solve with the
// marched transonic profile.
type TransonicResult struct {
	Collocation SolveResult
	Field       FlowField
	XCritical   float64
	Stats       ode.Statistics
}

// smoothstep is the cubic Hermite ramp on [0, 1].
func smoothstep(x float64) float64 {
	x = utils.Clip(x, 0, 1)
	return x * x * (3. - 2.*x)
}

// SolveTransonic computes the supersonic (choked) nozzle flow. The
// collocation solve pins the peak Mach number just below unity, its
// inlet state seeds a marching integration, and the singular sonic
// region is crossed on a linearization of the right-hand side taken at
// the point where the Mach number first reaches MaLow. The linear and
// exact equations are blended back together over the window
// [maBlendStart, MaHigh]. A continuation stage that does not converge
// is returned as an error.
func SolveTransonic(par NozzleParams, bvp BVPSettings, ivp IVPSettings) (res TransonicResult, err error) {
	bvp.Mode = MachCrit
	z0, err := InitializeFlowfield(bvp.NumPoints, par)
	if err != nil {
		return
	}
	// continuation in the target Mach number toward the choked state
	for _, target := range continuationTargets(par.MaTarget) {
		var stage NozzleParams
		if stage, err = par.Replace("MaTarget", target); err != nil {
			return
		}
		if res.Collocation, err = SolveCollocation(z0, stage, bvp); err != nil {
			return
		}
		if res.Collocation.Status != nlsq.Success {
			err = fmt.Errorf("continuation stage MaTarget = %v did not converge: %s after %d steps, |r| = %v",
				target, res.Collocation.Status, res.Collocation.Steps, res.Collocation.ResidualNorm)
			return
		}
		z0 = res.Collocation.Z
	}
	var (
		ff     = res.Collocation.Field
		yInlet = []float64{ff.V[0], ff.D[0], ff.P[0]}
		rhs    = func(x float64, y []float64) (dy []float64) {
			fp, ferr := SinglePhaseCore(x, y[0], y[1], y[2], par)
			if ferr != nil {
				return []float64{math.NaN(), math.NaN(), math.NaN()}
			}
			return []float64{fp.RhsV, fp.RhsD, fp.RhsP}
		}
		machOf = func(x float64, y []float64) float64 {
			fp, ferr := SinglePhaseCore(x, y[0], y[1], y[2], par)
			if ferr != nil {
				return math.NaN()
			}
			return fp.Ma
		}
		cfg = &ode.Config{
			AbsoluteTolerance: ivp.ATol,
			RelativeTolerance: ivp.RTol,
			MaxStepCount:      ivp.MaxSteps,
		}
	)
	// pass 1: march the exact equations until Ma reaches MaLow
	sonicEvent := func(x float64, y []float64) float64 {
		ma := machOf(x, y)
		return ma*ma - par.MaLow*par.MaLow
	}
	pass1, err := ode.Dopri5(rhs, inletOffset, par.Length, yInlet, nil, sonicEvent, cfg)
	if err != nil {
		return
	}
	if !pass1.Stats.EventTriggered {
		err = fmt.Errorf("flow never reached Ma = %v: not choked", par.MaLow)
		return
	}
	var (
		last  = len(pass1.X) - 1
		xCrit = pass1.X[last]
		yCrit = pass1.Y[last]
	)
	res.XCritical = xCrit

	// linearize the right-hand side at the near-sonic point
	var (
		fStar = rhs(xCrit, yCrit)
		jacY  = mat.NewDense(3, 3, nil)
		jacX  = make([]float64, 3)
	)
	fd.Jacobian(jacY, func(dst, y []float64) {
		copy(dst, rhs(xCrit, y))
	}, yCrit, &fd.JacobianSettings{Formula: fd.Central})
	for i := 0; i < 3; i++ {
		i := i
		jacX[i] = fd.Derivative(func(x float64) float64 {
			return rhs(x, yCrit)[i]
		}, xCrit, &fd.Settings{Formula: fd.Central})
	}
	rhsLinear := func(x float64, y []float64) (dy []float64) {
		dy = make([]float64, 3)
		for i := 0; i < 3; i++ {
			dy[i] = fStar[i] + jacX[i]*(x-xCrit)
			for j := 0; j < 3; j++ {
				dy[i] += jacY.At(i, j) * (y[j] - yCrit[j])
			}
		}
		return
	}

	// pass 2: exact equations outside the sonic window, linearized
	// equations inside it, ramping back to exact above maBlendStart
	rhsBlended := func(x float64, y []float64) (dy []float64) {
		ma := machOf(x, y)
		if math.IsNaN(ma) || ma < par.MaLow || ma > par.MaHigh {
			return rhs(x, y)
		}
		var (
			lin = rhsLinear(x, y)
			w   = smoothstep((ma - maBlendStart) / (par.MaHigh - maBlendStart))
		)
		if w == 0 {
			return lin
		}
		var (
			exact = rhs(x, y)
		)
		dy = make([]float64, 3)
		for i := 0; i < 3; i++ {
			dy[i] = (1.-w)*lin[i] + w*exact[i]
		}
		return
	}
	samples := utils.Linspace(inletOffset, par.Length, ivp.NumberOfPoints)
	pass2, err := ode.Dopri5(rhsBlended, inletOffset, par.Length, yInlet, samples, nil, cfg)
	if err != nil {
		return
	}
	res.Stats = pass2.Stats

	var (
		pts = make([]FlowPoint, len(pass2.X))
	)
	for i, x := range pass2.X {
		var (
			y  = pass2.Y[i]
			fp FlowPoint
		)
		if fp, err = SinglePhaseCore(x, y[0], y[1], y[2], par); err != nil {
			return
		}
		pts[i] = fp
	}
	res.Field = fieldFromPoints(pts)
	return
}

// continuationTargets builds the ladder of intermediate critical Mach
// targets used to walk the collocation solve up to the final target.
// The rungs tighten toward unity so each stage starts close to the
// previous converged state.
func continuationTargets(target float64) (targets []float64) {
	ladder := []float64{0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.85,
		0.9, 0.95, 0.98, 0.99, 0.995}
	for _, t := range ladder {
		if t < target {
			targets = append(targets, t)
		}
	}
	targets = append(targets, target)
	return
}
