package fluid

import (
	"math"
	"testing"

	"github.com/notargets/gonozzle/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerfectGasBasics(t *testing.T) {
	pg, err := NewPerfectGas("air", 300, 101325)
	require.NoError(t, err)

	pr, err := pg.GetProps(PT, 101325, 300)
	require.NoError(t, err)
	assert.InDelta(t, 101325/(287.05*300), pr.D, 1e-10)
	assert.InDelta(t, math.Sqrt(1.4*287.05*300), pr.A, 1e-10)
	assert.InDelta(t, 0, pr.S, 1e-12) // reference state
	assert.True(t, pr.Mu > 1e-5 && pr.Mu < 2.5e-5)
	assert.InDelta(t, pr.P/pr.Cv, pr.DpDs, 1e-10)

	_, err = NewPerfectGas("unobtainium", 300, 101325)
	assert.Error(t, err)
}

func TestPerfectGasPairConsistency(t *testing.T) {
	pg, err := NewPerfectGas("air", 300, 101325)
	require.NoError(t, err)

	base, err := pg.GetProps(PT, 2.4e5, 410)
	require.NoError(t, err)

	// Every supported pair must reproduce the same state
	fromDP, err := pg.GetProps(DmassP, base.D, base.P)
	require.NoError(t, err)
	fromHS, err := pg.GetProps(HmassSmass, base.H, base.S)
	require.NoError(t, err)
	fromPS, err := pg.GetProps(PSmass, base.P, base.S)
	require.NoError(t, err)
	for _, pr := range []Props{fromDP, fromHS, fromPS} {
		assert.InDelta(t, base.T, pr.T, 1e-8*base.T)
		assert.InDelta(t, base.P, pr.P, 1e-8*base.P)
		assert.InDelta(t, base.D, pr.D, 1e-8*base.D)
		assert.InDelta(t, base.H, pr.H, 1e-8*base.H)
		assert.InDelta(t, base.S, pr.S, 1e-6)
	}
}

func TestGetPropsVec(t *testing.T) {
	pg, err := NewPerfectGas("air", 300, 101325)
	require.NoError(t, err)
	p := utils.NewVector(3, []float64{1e5, 2e5, 3e5})
	T := utils.NewVector(3, []float64{300, 350, 400})
	props, err := GetPropsVec(pg, PT, p, T)
	require.NoError(t, err)
	require.Equal(t, 3, len(props))
	for i, pr := range props {
		scalar, errS := pg.GetProps(PT, p.AtVec(i), T.AtVec(i))
		require.NoError(t, errS)
		assert.Equal(t, scalar, pr)
	}

	_, err = GetPropsVec(pg, PT, p, utils.NewVector(2, []float64{300, 350}))
	assert.Error(t, err)
}
