package Nozzle1D

import (
	"math"

	"github.com/notargets/gonozzle/fluid"
)

// FlowPoint carries the full local state of the flow at one axial
// station plus the split right-hand side of the governing equations.
// NU, ND, NP are the source numerators and Denom = a^2 - v^2 is the
// shared singular denominator, so that
//
//	dv/dx    = NU / Denom
//	drho/dx  = ND / Denom
//	dp/dx    = NP / Denom
type FlowPoint struct {
	X float64
	// primary unknowns
	V, D, P float64
	// thermodynamic state
	T, A, H, S, Cp, Mu float64
	// stagnation state recovered from (h0, s)
	H0, P0, D0 float64
	// derived
	Ma, Diameter, Area, Mdot float64
	// wall source terms
	TauWall, QWall float64
	// governing equation split
	NU, ND, NP, Denom float64
	RhsV, RhsD, RhsP  float64
}

// frictionFactor returns the Darcy friction factor from the Haaland
// correlation, with the laminar 64/Re branch below transition.
func frictionFactor(reynolds, relRoughness float64) (f float64) {
	if reynolds < 1. {
		return 0.
	}
	if reynolds < 2300. {
		return 64. / reynolds
	}
	var (
		root = -1.8 * math.Log10(math.Pow(relRoughness/3.7, 1.11)+6.9/reynolds)
	)
	f = 1. / (root * root)
	return
}

// SinglePhaseCore evaluates the quasi-1D compressible flow equations
// with area change, wall friction and wall heat transfer at a single
// station, given velocity v, density d and pressure p.
func SinglePhaseCore(x, v, d, p float64, par NozzleParams) (fp FlowPoint, err error) {
	var (
		st, st0 fluid.Props
	)
	if st, err = par.Fluid.GetProps(fluid.DmassP, d, p); err != nil {
		return
	}
	fp.X, fp.V, fp.D, fp.P = x, v, d, p
	fp.T, fp.A, fp.H, fp.S = st.T, st.A, st.H, st.S
	fp.Cp, fp.Mu = st.Cp, st.Mu
	fp.Ma = v / st.A

	var dDiam float64
	fp.Diameter, dDiam = SymmetricNozzleGeometry(x, par.Length, par.DIn)
	fp.Area = FlowArea(fp.Diameter)
	fp.Mdot = d * v * fp.Area

	// stagnation state by isentropic deceleration
	fp.H0 = st.H + 0.5*v*v
	if st0, err = par.Fluid.GetProps(fluid.HmassSmass, fp.H0, st.S); err != nil {
		return
	}
	fp.P0, fp.D0 = st0.P, st0.D

	var (
		alpha    = 2. * dDiam / fp.Diameter // d(ln A)/dx
		perim    = 4. / fp.Diameter         // wetted perimeter over area
		reynolds = d * math.Abs(v) * fp.Diameter / st.Mu
		fD       = frictionFactor(reynolds, par.Roughness/fp.Diameter)
	)
	fp.TauWall = par.WallFriction * fD / 8. * d * v * v
	fp.QWall = par.HeatTransfer * fD / 8. * d * math.Abs(v) * st.Cp * (par.TWall - st.T)

	// entropy gradient from the wall fluxes, sigma = ds/dx
	var sigma float64
	if math.Abs(v) > 1.e-12 {
		sigma = perim * (fp.QWall + fp.TauWall*v) / (d * v * st.T)
	}
	var (
		force = fp.TauWall * perim // friction force per unit volume
		a2    = st.A * st.A
		// common source group: G*sigma + F - a^2*rho*alpha,
		// with G = (dp/ds) at constant rho
		src = st.DpDs*sigma + force - a2*d*alpha
	)
	fp.Denom = a2 - v*v
	fp.NU = v * src / d
	fp.ND = -src - d*alpha*fp.Denom
	fp.NP = a2*fp.ND + st.DpDs*sigma*fp.Denom
	fp.RhsV = fp.NU / fp.Denom
	fp.RhsD = fp.ND / fp.Denom
	fp.RhsP = fp.NP / fp.Denom
	return
}
