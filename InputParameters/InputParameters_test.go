package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAML(t *testing.T) {
	var (
		data = `
Title: choked air nozzle
Fluid: air
P0In: 5.0e5
D0In: 1.2
DIn: 0.05
Length: 5.0
MaTarget: 0.999
SolveMode: mach_crit
Method: LevenbergMarquardt
PolynomialOrder: 40
MaxIterations: 200
RTol: 1.0e-10
`
		np NozzleParameters
	)
	require.NoError(t, np.Parse([]byte(data)))
	assert.Equal(t, "choked air nozzle", np.Title)
	assert.Equal(t, "air", np.Fluid)
	assert.Equal(t, 5.e5, np.P0In)
	assert.Equal(t, 0.999, np.MaTarget)
	assert.Equal(t, "mach_crit", np.SolveMode)
	assert.Equal(t, 40, np.PolynomialOrder)
	assert.Equal(t, 1.e-10, np.RTol)
	// absent keys keep zero values
	assert.Equal(t, 0., np.WallFriction)

	assert.Error(t, np.Parse([]byte(":::not yaml")))
}
