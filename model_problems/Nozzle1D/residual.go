package Nozzle1D

import (
	"math"

	"github.com/notargets/gonozzle/SC1D"
	"github.com/notargets/gonozzle/utils"
)

// The solution vector z stacks the three unknowns over the Np grid
// nodes as [v | ln(rho) | ln(p)]. Working in the logs of density and
// pressure keeps both positive through aggressive solver iterates.

// SplitZ returns views of the three unknown blocks of z.
func SplitZ(z []float64, np int) (u, lnD, lnP []float64) {
	u = z[0:np]
	lnD = z[np : 2*np]
	lnP = z[2*np : 3*np]
	return
}

// PackZ stacks the three unknown blocks into a fresh solution vector.
func PackZ(u, lnD, lnP []float64) (z []float64) {
	var (
		np = len(u)
	)
	z = make([]float64, 3*np)
	copy(z[0:np], u)
	copy(z[np:2*np], lnD)
	copy(z[2*np:3*np], lnP)
	return
}

// ResidualParams bundles the grid, the differentiation matrix and the
// model for the residual closures handed to the nonlinear solver.
type ResidualParams struct {
	X     utils.Vector
	Dx    utils.Matrix
	Model NozzleParams
}

// EvaluateRHS evaluates the flow state and governing equation split at
// every node of the grid for the stacked solution vector z.
func EvaluateRHS(X utils.Vector, z []float64, par NozzleParams) (pts []FlowPoint, err error) {
	var (
		np          = X.Len()
		u, lnD, lnP = SplitZ(z, np)
		fp          FlowPoint
	)
	pts = make([]FlowPoint, np)
	for i := 0; i < np; i++ {
		if fp, err = SinglePhaseCore(X.AtVec(i), u[i],
			math.Exp(lnD[i]), math.Exp(lnP[i]), par); err != nil {
			return
		}
		pts[i] = fp
	}
	return
}

// interiorResidual fills r with the collocation residual of the three
// governing equations at every node, leaving the node 0 entries to be
// overwritten by the boundary residuals. It also returns the evaluated
// flow points for the boundary closures.
func interiorResidual(z []float64, rp ResidualParams, r []float64) (pts []FlowPoint) {
	var (
		np          = rp.X.Len()
		u, lnD, lnP = SplitZ(z, np)
		err         error
	)
	if pts, err = EvaluateRHS(rp.X, z, rp.Model); err != nil {
		// a non-finite residual makes the solver reject the iterate
		for i := range r {
			r[i] = math.NaN()
		}
		pts = nil
		return
	}
	var (
		dU   = rp.Dx.MulVec(utils.NewVector(np, u))
		dLnD = rp.Dx.MulVec(utils.NewVector(np, lnD))
		dLnP = rp.Dx.MulVec(utils.NewVector(np, lnP))
	)
	for i := 0; i < np; i++ {
		var (
			fp = pts[i]
		)
		r[i] = dU.AtVec(i) - fp.NU/fp.Denom
		r[np+i] = dLnD.AtVec(i) - fp.ND/(fp.Denom*fp.D)
		r[2*np+i] = dLnP.AtVec(i) - fp.NP/(fp.Denom*fp.P)
	}
	return
}

// ResidualMachInlet closes the system with inlet boundary conditions:
// prescribed inlet Mach number, stagnation density and stagnation
// pressure, all imposed at node 0.
func ResidualMachInlet(z []float64, rp ResidualParams) (r []float64) {
	var (
		np  = rp.X.Len()
		par = rp.Model
	)
	r = make([]float64, 3*np)
	pts := interiorResidual(z, rp, r)
	if pts == nil {
		return
	}
	var (
		in = pts[0]
	)
	r[0] = par.MaIn - in.Ma
	r[np] = math.Log(par.D0In / in.D0)
	r[2*np] = math.Log(par.P0In / in.P0)
	return
}

// ResidualMachCritical replaces the inlet Mach condition with a
// constraint on the maximum Mach number over the domain, located by
// differentiating the spectral interpolant of the Mach profile. The
// stagnation conditions remain pinned at the inlet.
func ResidualMachCritical(z []float64, rp ResidualParams) (r []float64) {
	var (
		np  = rp.X.Len()
		par = rp.Model
	)
	r = make([]float64, 3*np)
	pts := interiorResidual(z, rp, r)
	if pts == nil {
		return
	}
	var (
		maData = make([]float64, np)
		in     = pts[0]
	)
	for i, fp := range pts {
		maData[i] = fp.Ma
	}
	_, maMax := SC1D.FindMaximum(rp.X, utils.NewVector(np, maData))
	r[0] = par.MaTarget - maMax
	r[np] = math.Log(par.D0In / in.D0)
	r[2*np] = math.Log(par.P0In / in.P0)
	return
}
