package fluid

import (
	"fmt"
	"math"
)

// floor keeps degenerate solver iterates (negative enthalpy, vanishing
// pressure) from producing NaN properties; the nonlinear solver rejects
// the offending step through the residual instead.
const stateFloor = 1.e-12

// PerfectGas is a calorically perfect gas with Sutherland viscosity.
// Entropy is referenced to (TRef, PRef).
type PerfectGas struct {
	Name         string
	R, Gamma     float64
	TRef, PRef   float64
	MuRef        float64 // viscosity at TMuRef
	TMuRef, SMuC float64 // Sutherland reference temperature and constant
}

var gasConstants = map[string]PerfectGas{
	"air": {
		Name:   "air",
		R:      287.05,
		Gamma:  1.4,
		MuRef:  1.716e-5,
		TMuRef: 273.15,
		SMuC:   110.4,
	},
	"nitrogen": {
		Name:   "nitrogen",
		R:      296.80,
		Gamma:  1.4,
		MuRef:  1.663e-5,
		TMuRef: 273.15,
		SMuC:   107.0,
	},
}

func NewPerfectGas(name string, TRef, PRef float64) (pg PerfectGas, err error) {
	var ok bool
	if pg, ok = gasConstants[name]; !ok {
		err = fmt.Errorf("unknown fluid: %s", name)
		return
	}
	pg.TRef, pg.PRef = TRef, PRef
	return
}

func (pg PerfectGas) cp() float64 { return pg.Gamma * pg.R / (pg.Gamma - 1) }
func (pg PerfectGas) cv() float64 { return pg.R / (pg.Gamma - 1) }

func (pg PerfectGas) viscosity(T float64) float64 {
	return pg.MuRef * math.Pow(T/pg.TMuRef, 1.5) * (pg.TMuRef + pg.SMuC) / (T + pg.SMuC)
}

func (pg PerfectGas) fromPT(p, T float64) (pr Props) {
	var (
		cp = pg.cp()
		cv = pg.cv()
	)
	pr.T = T
	pr.P = p
	pr.D = p / (pg.R * T)
	pr.H = cp * T
	pr.S = cp*math.Log(T/pg.TRef) - pg.R*math.Log(p/pg.PRef)
	pr.A = math.Sqrt(pg.Gamma * pg.R * T)
	pr.Cp = cp
	pr.Cv = cv
	pr.Gamma = pg.Gamma
	pr.Mu = pg.viscosity(T)
	pr.DpDs = p / cv
	return
}

func (pg PerfectGas) GetProps(pair InputPair, in1, in2 float64) (pr Props, err error) {
	var (
		cp = pg.cp()
	)
	switch pair {
	case DmassP:
		d := math.Max(in1, stateFloor)
		p := math.Max(in2, stateFloor)
		pr = pg.fromPT(p, p/(pg.R*d))
	case PT:
		p := math.Max(in1, stateFloor)
		T := math.Max(in2, stateFloor)
		pr = pg.fromPT(p, T)
	case HmassSmass:
		h := math.Max(in1, stateFloor)
		s := in2
		T := h / cp
		p := pg.PRef * math.Exp((cp*math.Log(T/pg.TRef)-s)/pg.R)
		pr = pg.fromPT(p, T)
	case PSmass:
		p := math.Max(in1, stateFloor)
		s := in2
		T := pg.TRef * math.Exp((s+pg.R*math.Log(p/pg.PRef))/cp)
		pr = pg.fromPT(p, T)
	default:
		err = fmt.Errorf("unsupported input pair: %s", pair)
	}
	return
}
