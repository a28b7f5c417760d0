package Nozzle1D

import (
	"fmt"

	"github.com/notargets/gonozzle/fluid"
	"github.com/notargets/gonozzle/nlsq"
)

// ComputeStaticState recovers the static thermodynamic state reached
// by isentropic expansion from the stagnation state (d0, p0) to the
// given Mach number, by solving the energy balance
//
//	h0 - h(p, s0) - 0.5 * (Ma * a(p, s0))^2 = 0
//
// for the static pressure.
func ComputeStaticState(fl fluid.Backend, d0, p0, ma float64) (st fluid.Props, err error) {
	var (
		st0 fluid.Props
	)
	if st0, err = fl.GetProps(fluid.DmassP, d0, p0); err != nil {
		return
	}
	var (
		h0, s0 = st0.H, st0.S
		fn     = func(p float64) float64 {
			sp, perr := fl.GetProps(fluid.PSmass, p, s0)
			if perr != nil {
				return 1. // push the iterate back toward valid pressures
			}
			return h0 - sp.H - 0.5*ma*ma*sp.A*sp.A
		}
	)
	res, err := nlsq.RootFind(fn, p0, nlsq.RootSettings{
		RTol: 1.e-12, ATol: 1.e-12, MaxSteps: 100,
	})
	if err != nil {
		return
	}
	if res.Status != nlsq.Success {
		err = fmt.Errorf("static state root find failed: %v", res.Status)
		return
	}
	st, err = fl.GetProps(fluid.PSmass, res.X, s0)
	return
}
