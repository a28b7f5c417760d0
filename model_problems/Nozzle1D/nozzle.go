// Package Nozzle1D solves steady quasi-1D compressible flow through a
// converging-diverging nozzle with a Chebyshev-Lobatto collocation
// method, including the choked (sonic) condition, and marches the
// transonic branch with a blended right-hand side near the singular
// sonic point.
package Nozzle1D

import (
	"fmt"

	"github.com/notargets/gonozzle/fluid"
	"github.com/notargets/gonozzle/nlsq"
)

type SolveMode uint

const (
	MachIn SolveMode = iota
	MachCrit
)

var solveModeNames = []string{"mach_in", "mach_crit"}

func (m SolveMode) String() string { return solveModeNames[m] }

func SolveModeFromName(name string) (m SolveMode, err error) {
	for i, n := range solveModeNames {
		if n == name {
			m = SolveMode(i)
			return
		}
	}
	err = fmt.Errorf("unknown solve mode: %s", name)
	return
}

// NozzleParams is the immutable model description. Sibling
// configurations for sweeps are produced with Replace, never by
// in-place mutation.
type NozzleParams struct {
	Fluid fluid.Backend

	P0In      float64 // inlet stagnation pressure (Pa)
	D0In      float64 // inlet stagnation density (kg/m^3)
	DIn       float64 // inlet diameter (m)
	Length    float64 // nozzle length (m)
	Roughness float64 // wall roughness (m)
	TWall     float64 // wall temperature (K)

	MaIn     float64 // target inlet Mach number (mach_in mode)
	MaLow    float64 // lower edge of the sonic blending window
	MaHigh   float64 // upper edge of the sonic blending window
	MaTarget float64 // target critical Mach number (mach_crit mode)

	// 0/1 multipliers on the wall heat flux and wall shear source terms
	HeatTransfer float64
	WallFriction float64
}

func DefaultParams(fl fluid.Backend) NozzleParams {
	return NozzleParams{
		Fluid:     fl,
		P0In:      1.0e5,
		D0In:      1.20,
		DIn:       0.050,
		Length:    5.00,
		Roughness: 1.e-6,
		TWall:     300.0,
		MaIn:      0.1,
		MaLow:     0.95,
		MaHigh:    1.05,
		MaTarget:  1.0,
	}
}

// Replace returns a copy of the parameters with the single named field
// set to val.
func (np NozzleParams) Replace(field string, val float64) (out NozzleParams, err error) {
	out = np
	switch field {
	case "P0In":
		out.P0In = val
	case "D0In":
		out.D0In = val
	case "DIn":
		out.DIn = val
	case "Length":
		out.Length = val
	case "Roughness":
		out.Roughness = val
	case "TWall":
		out.TWall = val
	case "MaIn":
		out.MaIn = val
	case "MaLow":
		out.MaLow = val
	case "MaHigh":
		out.MaHigh = val
	case "MaTarget":
		out.MaTarget = val
	case "HeatTransfer":
		out.HeatTransfer = val
	case "WallFriction":
		out.WallFriction = val
	default:
		err = fmt.Errorf("unknown parameter field: %s", field)
	}
	return
}

// BVPSettings configures the collocation boundary value solve.
type BVPSettings struct {
	NumPoints    int // polynomial order; the grid holds NumPoints+1 nodes
	RTol, ATol   float64
	MaxSteps     int
	WarmupSteps  int
	Method       nlsq.MethodType
	WarmupMethod nlsq.MethodType
	Jac          nlsq.JacMode
	Verbose      nlsq.Verbosity
	Mode         SolveMode
}

func DefaultBVPSettings() BVPSettings {
	return BVPSettings{
		NumPoints:    30,
		RTol:         1.e-10,
		ATol:         1.e-10,
		MaxSteps:     200,
		WarmupSteps:  20,
		Method:       nlsq.GaussNewton,
		WarmupMethod: nlsq.Dogleg,
		Jac:          nlsq.JacForward,
		Mode:         MachCrit,
	}
}

// IVPSettings configures the marching (initial value) integration.
type IVPSettings struct {
	NumberOfPoints int
	RTol, ATol     float64
	MaxSteps       int
}

func DefaultIVPSettings() IVPSettings {
	return IVPSettings{
		NumberOfPoints: 50,
		RTol:           1.e-8,
		ATol:           1.e-8,
		MaxSteps:       20000,
	}
}
