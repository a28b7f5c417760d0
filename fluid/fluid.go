// Package fluid supplies thermodynamic state queries for the flow
// solver. A state is fixed by one of several input pairs; the returned
// property set always includes pressure, density, enthalpy, entropy and
// speed of sound. Backends must be pure: identical inputs produce
// identical outputs.
package fluid

import (
	"fmt"

	"github.com/notargets/gonozzle/utils"
)

type InputPair uint

const (
	DmassP InputPair = iota // density, pressure
	PT                      // pressure, temperature
	HmassSmass              // enthalpy, entropy
	PSmass                  // pressure, entropy
)

var pairNames = []string{"DmassP", "PT", "HmassSmass", "PSmass"}

func (p InputPair) String() string {
	if int(p) < len(pairNames) {
		return pairNames[p]
	}
	return fmt.Sprintf("InputPair(%d)", uint(p))
}

// Props is the property set returned by a state query.
type Props struct {
	T     float64 // temperature
	P     float64 // pressure
	D     float64 // density
	H     float64 // specific enthalpy
	S     float64 // specific entropy
	A     float64 // speed of sound
	Cp    float64
	Cv    float64
	Gamma float64
	Mu    float64 // dynamic viscosity
	DpDs  float64 // (dp/ds) at constant density
}

type Backend interface {
	GetProps(pair InputPair, in1, in2 float64) (Props, error)
}

// GetPropsVec applies a state query elementwise over two input vectors.
func GetPropsVec(b Backend, pair InputPair, in1, in2 utils.Vector) (props []Props, err error) {
	if in1.Len() != in2.Len() {
		err = fmt.Errorf("input length mismatch: %d vs %d", in1.Len(), in2.Len())
		return
	}
	props = make([]Props, in1.Len())
	for i := range props {
		if props[i], err = b.GetProps(pair, in1.AtVec(i), in2.AtVec(i)); err != nil {
			return
		}
	}
	return
}
