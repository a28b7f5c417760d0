package Nozzle1D

import (
	"fmt"
	"math"

	"github.com/notargets/gonozzle/SC1D"
	"github.com/notargets/gonozzle/fluid"
)

const stateFloor = 1.e-12

// InitializeFlowfield builds the stacked initial guess [v | ln(rho) |
// ln(p)] on the NumPoints+1 Chebyshev-Lobatto nodes from a parabolic
// subsonic Mach profile between maMin and maMax, thermodynamically
// consistent with the inlet stagnation state at constant entropy.
// maBounds optionally overrides the default (0.1, 0.2) profile bounds.
func InitializeFlowfield(numPoints int, par NozzleParams, maBounds ...float64) (z []float64, err error) {
	var (
		maMin, maMax = 0.1, 0.2
		st0, st      fluid.Props
	)
	switch len(maBounds) {
	case 0:
	case 2:
		maMin, maMax = maBounds[0], maBounds[1]
	default:
		err = fmt.Errorf("maBounds must be empty or (min, max), got %d values", len(maBounds))
		return
	}
	if st0, err = par.Fluid.GetProps(fluid.DmassP, par.D0In, par.P0In); err != nil {
		return
	}
	X, _, err := SC1D.ChebyshevLobatto(numPoints, 0, par.Length)
	if err != nil {
		return
	}
	var (
		np       = X.Len()
		u        = make([]float64, np)
		lnD      = make([]float64, np)
		lnP      = make([]float64, np)
		h0, s0   = st0.H, st0.S
		aStagnat = st0.A
	)
	for i := 0; i < np; i++ {
		var (
			xi = X.AtVec(i) / par.Length // [0, 1]
			ma = maMin + (maMax-maMin)*(1.-4.*(xi-0.5)*(xi-0.5))
			v  = ma * aStagnat
			h  = h0 - 0.5*v*v
		)
		if st, err = par.Fluid.GetProps(fluid.HmassSmass, h, s0); err != nil {
			return
		}
		u[i] = v
		lnD[i] = math.Log(math.Max(st.D, stateFloor))
		lnP[i] = math.Log(math.Max(st.P, stateFloor))
	}
	z = PackZ(u, lnD, lnP)
	return
}
