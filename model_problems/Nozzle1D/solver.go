package Nozzle1D

import (
	"fmt"
	"math"

	"github.com/notargets/gonozzle/SC1D"
	"github.com/notargets/gonozzle/nlsq"
)

// FlowField holds the converged solution sampled at the grid nodes,
// one slice per quantity, node 0 at the inlet.
type FlowField struct {
	X, V, D, P            []float64
	T, A, H, S            []float64
	H0, P0, D0            []float64
	Ma, Mdot, Diameter    []float64
	RhsV, RhsD, RhsP      []float64
	TauWall, QWall, Denom []float64
}

func fieldFromPoints(pts []FlowPoint) (ff FlowField) {
	var (
		np = len(pts)
	)
	ff = FlowField{
		X: make([]float64, np), V: make([]float64, np),
		D: make([]float64, np), P: make([]float64, np),
		T: make([]float64, np), A: make([]float64, np),
		H: make([]float64, np), S: make([]float64, np),
		H0: make([]float64, np), P0: make([]float64, np),
		D0: make([]float64, np), Ma: make([]float64, np),
		Mdot: make([]float64, np), Diameter: make([]float64, np),
		RhsV: make([]float64, np), RhsD: make([]float64, np),
		RhsP: make([]float64, np), TauWall: make([]float64, np),
		QWall: make([]float64, np), Denom: make([]float64, np),
	}
	for i, fp := range pts {
		ff.X[i], ff.V[i], ff.D[i], ff.P[i] = fp.X, fp.V, fp.D, fp.P
		ff.T[i], ff.A[i], ff.H[i], ff.S[i] = fp.T, fp.A, fp.H, fp.S
		ff.H0[i], ff.P0[i], ff.D0[i], ff.Ma[i] = fp.H0, fp.P0, fp.D0, fp.Ma
		ff.Mdot[i], ff.Diameter[i] = fp.Mdot, fp.Diameter
		ff.RhsV[i], ff.RhsD[i], ff.RhsP[i] = fp.RhsV, fp.RhsD, fp.RhsP
		ff.TauWall[i], ff.QWall[i], ff.Denom[i] = fp.TauWall, fp.QWall, fp.Denom
	}
	return
}

// SolveResult is the outcome of one collocation solve. Status reports
// convergence of the main stage; a failed solve is returned with its
// best iterate rather than as an error.
type SolveResult struct {
	Z            []float64
	Field        FlowField
	Status       nlsq.Status
	Steps        int
	ResidualNorm float64
}

// SolveCollocation runs the two stage boundary value solve: a bounded
// warmup pass whose failures are swallowed, then the main pass whose
// status is surfaced in the result. The initial guess is the stacked
// vector produced by InitializeFlowfield, or the Z of a previous
// result for continuation.
func SolveCollocation(initialGuess []float64, par NozzleParams, set BVPSettings) (res SolveResult, err error) {
	if set.NumPoints < 1 {
		err = fmt.Errorf("NumPoints must be at least 1, got %d", set.NumPoints)
		return
	}
	X, Dx, err := SC1D.ChebyshevLobatto(set.NumPoints, 0, par.Length)
	if err != nil {
		return
	}
	var (
		np = X.Len()
	)
	if len(initialGuess) != 3*np {
		err = fmt.Errorf("initial guess length %d, want %d", len(initialGuess), 3*np)
		return
	}
	var (
		rp      = ResidualParams{X: X, Dx: Dx, Model: par}
		residFn func([]float64, ResidualParams) []float64
	)
	switch set.Mode {
	case MachIn:
		residFn = ResidualMachInlet
	case MachCrit:
		residFn = ResidualMachCritical
	default:
		err = fmt.Errorf("unknown solve mode: %d", set.Mode)
		return
	}
	var (
		fn = func(z []float64) []float64 {
			return residFn(z, rp)
		}
		guess = initialGuess
	)
	if set.WarmupSteps > 0 {
		warm, _ := nlsq.LeastSquares(fn, guess, set.WarmupMethod, nlsq.Settings{
			RTol: set.RTol, ATol: set.ATol,
			MaxSteps: set.WarmupSteps,
			Jac:      set.Jac,
			Verbose:  set.Verbose,
		})
		if allFinite(warm.Y) {
			guess = warm.Y
		}
	}
	sol, err := nlsq.LeastSquares(fn, guess, set.Method, nlsq.Settings{
		RTol: set.RTol, ATol: set.ATol,
		MaxSteps: set.MaxSteps,
		Jac:      set.Jac,
		Verbose:  set.Verbose,
	})
	if err != nil {
		return
	}
	res.Z = sol.Y
	res.Status = sol.Status
	res.Steps = sol.Steps
	res.ResidualNorm = sol.ResidualNorm
	pts, err := EvaluateRHS(X, sol.Y, par)
	if err != nil {
		return
	}
	res.Field = fieldFromPoints(pts)
	return
}

func allFinite(y []float64) bool {
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return len(y) > 0
}
