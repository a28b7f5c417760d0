package Nozzle1D

import (
	"math"
	"testing"

	"github.com/notargets/gonozzle/SC1D"
	"github.com/notargets/gonozzle/fluid"
	"github.com/notargets/gonozzle/nlsq"
	"github.com/notargets/gonozzle/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGas(t *testing.T) fluid.PerfectGas {
	pg, err := fluid.NewPerfectGas("air", 300, 1.e5)
	require.NoError(t, err)
	return pg
}

func testParams(t *testing.T) NozzleParams {
	par := DefaultParams(testGas(t))
	par.P0In = 5.e5
	par.D0In = 1.2
	par.MaIn = 0.1
	return par
}

func relSpread(v []float64) (spread float64) {
	var (
		lo, hi = v[0], v[0]
	)
	for _, x := range v {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return (hi - lo) / math.Max(math.Abs(hi), 1.e-300)
}

func TestReplaceAndSolveModeNames(t *testing.T) {
	par := testParams(t)
	par2, err := par.Replace("MaTarget", 0.95)
	require.NoError(t, err)
	assert.Equal(t, 0.95, par2.MaTarget)
	// the receiver is untouched
	assert.Equal(t, par.MaTarget, DefaultParams(nil).MaTarget)
	_, err = par.Replace("NoSuchField", 1)
	assert.Error(t, err)

	m, err := SolveModeFromName("mach_crit")
	require.NoError(t, err)
	assert.Equal(t, MachCrit, m)
	assert.Equal(t, "mach_in", MachIn.String())
	_, err = SolveModeFromName("bogus")
	assert.Error(t, err)
}

func TestPackSplitRoundTrip(t *testing.T) {
	var (
		u   = []float64{1, 2, 3}
		lnD = []float64{4, 5, 6}
		lnP = []float64{7, 8, 9}
	)
	z := PackZ(u, lnD, lnP)
	u2, lnD2, lnP2 := SplitZ(z, 3)
	assert.Equal(t, u, u2)
	assert.Equal(t, lnD, lnD2)
	assert.Equal(t, lnP, lnP2)
}

func TestSymmetricNozzleGeometry(t *testing.T) {
	var (
		length, dIn = 5., 0.05
	)
	dInlet, slopeIn := SymmetricNozzleGeometry(0, length, dIn)
	dThroat, slopeThroat := SymmetricNozzleGeometry(0.5*length, length, dIn)
	dExit, slopeExit := SymmetricNozzleGeometry(length, length, dIn)
	assert.InDelta(t, dIn, dInlet, 1.e-14)
	assert.InDelta(t, 0.5*dIn, dThroat, 1.e-14)
	assert.InDelta(t, dIn, dExit, 1.e-14)
	assert.True(t, slopeIn < 0 && slopeExit > 0)
	assert.InDelta(t, 0, slopeThroat, 1.e-14)
	// derivative consistency by central difference
	var (
		x  = 1.3
		dx = 1.e-7
	)
	dm, _ := SymmetricNozzleGeometry(x-dx, length, dIn)
	dp, _ := SymmetricNozzleGeometry(x+dx, length, dIn)
	_, slope := SymmetricNozzleGeometry(x, length, dIn)
	assert.InDelta(t, (dp-dm)/(2*dx), slope, 1.e-6)
}

func TestComputeStaticState(t *testing.T) {
	var (
		pg       = testGas(t)
		d0, p0   = 1.2, 5.e5
		ma       = 0.5
		gamma    = 1.4
		st0, err = pg.GetProps(fluid.DmassP, d0, p0)
	)
	require.NoError(t, err)
	st, err := ComputeStaticState(pg, d0, p0, ma)
	require.NoError(t, err)
	// isentropic relations for a perfect gas
	ratioT := 1. + 0.5*(gamma-1.)*ma*ma
	assert.InDelta(t, st0.T/ratioT, st.T, 1.e-8*st0.T)
	assert.InDelta(t, p0*math.Pow(ratioT, -gamma/(gamma-1.)), st.P, 1.e-6)
	assert.InDelta(t, st0.S, st.S, 1.e-10)
}

func TestInitializeFlowfield(t *testing.T) {
	var (
		par    = testParams(t)
		z, err = InitializeFlowfield(20, par)
	)
	require.NoError(t, err)
	require.Len(t, z, 3*21)
	var (
		u, lnD, lnP = SplitZ(z, 21)
		st0, _      = par.Fluid.GetProps(fluid.DmassP, par.D0In, par.P0In)
	)
	// endpoints at Ma = 0.1, midpoint at Ma = 0.2
	assert.InDelta(t, 0.1*st0.A, u[0], 1.e-10)
	assert.InDelta(t, 0.1*st0.A, u[20], 1.e-10)
	assert.InDelta(t, 0.2*st0.A, u[10], 1.e-10)
	for i := range u {
		assert.True(t, lnD[i] < math.Log(par.D0In))
		assert.True(t, lnP[i] < math.Log(par.P0In))
	}

	_, err = InitializeFlowfield(20, par, 0.3)
	assert.Error(t, err)
}

func solveSubsonicInlet(t *testing.T) (SolveResult, BVPSettings, NozzleParams) {
	var (
		par = testParams(t)
		set = DefaultBVPSettings()
	)
	set.Mode = MachIn
	z0, err := InitializeFlowfield(set.NumPoints, par)
	require.NoError(t, err)
	res, err := SolveCollocation(z0, par, set)
	require.NoError(t, err)
	require.Equal(t, nlsq.Success, res.Status)
	return res, set, par
}

func TestSubsonicInletSolve(t *testing.T) {
	res, _, par := solveSubsonicInlet(t)
	var (
		ff = res.Field
	)
	// boundary conditions hold at the inlet node
	assert.InDelta(t, par.MaIn, ff.Ma[0], 1.e-6)
	assert.InDelta(t, par.P0In, ff.P0[0], 1.e-6*par.P0In)
	assert.InDelta(t, par.D0In, ff.D0[0], 1.e-6*par.D0In)
	// adiabatic frictionless flow conserves mass flux, total enthalpy
	// and entropy along the nozzle
	assert.True(t, relSpread(ff.Mdot) < 1.e-6, "mdot spread %v", relSpread(ff.Mdot))
	assert.True(t, relSpread(ff.H0) < 1.e-6, "h0 spread %v", relSpread(ff.H0))
	var (
		sSpan = 0.
	)
	for _, s := range ff.S {
		sSpan = math.Max(sSpan, math.Abs(s-ff.S[0]))
	}
	assert.True(t, sSpan < 1.e-6*math.Abs(ff.H0[0]/ff.T[0]), "entropy span %v", sSpan)
	// subsonic flow accelerates into the throat
	iMid := len(ff.Ma) / 2
	assert.True(t, ff.Ma[iMid] > ff.Ma[0])
	assert.True(t, ff.P[iMid] < ff.P[0])
}

func TestSubsonicResolveIdempotent(t *testing.T) {
	res, set, par := solveSubsonicInlet(t)
	set.WarmupSteps = 0
	res2, err := SolveCollocation(res.Z, par, set)
	require.NoError(t, err)
	assert.Equal(t, nlsq.Success, res2.Status)
	assert.True(t, res2.Steps <= 2, "steps from converged state: %d", res2.Steps)
	// restarting from the solution must not degrade the residual
	assert.True(t, res2.ResidualNorm <= res.ResidualNorm*(1.+1.e-12)+1.e-300)
}

func solveCritical(t *testing.T, target float64, numPoints int) (SolveResult, NozzleParams) {
	var (
		par = testParams(t)
		set = DefaultBVPSettings()
	)
	set.Mode = MachCrit
	set.NumPoints = numPoints
	z0, err := InitializeFlowfield(set.NumPoints, par)
	require.NoError(t, err)
	var res SolveResult
	for _, ma := range continuationTargets(target) {
		stage, err := par.Replace("MaTarget", ma)
		require.NoError(t, err)
		res, err = SolveCollocation(z0, stage, set)
		require.NoError(t, err)
		require.Equal(t, nlsq.Success, res.Status, "target %v", ma)
		z0 = res.Z
	}
	par.MaTarget = target
	return res, par
}

func TestBoundaryResidualRows(t *testing.T) {
	var (
		par = testParams(t)
		np  = 12
	)
	X, Dx, err := SC1D.ChebyshevLobatto(np, 0, par.Length)
	require.NoError(t, err)
	z, err := InitializeFlowfield(np, par)
	require.NoError(t, err)
	var (
		rp = ResidualParams{X: X, Dx: Dx, Model: par}
		r  = ResidualMachInlet(z, rp)
		nn = X.Len()
	)
	pts, err := EvaluateRHS(X, z, par)
	require.NoError(t, err)
	in := pts[0]
	// node 0 rows carry the inlet conditions in log form
	assert.InDelta(t, par.MaIn-in.Ma, r[0], 1e-14)
	assert.InDelta(t, math.Log(par.D0In/in.D0), r[nn], 1e-14)
	assert.InDelta(t, math.Log(par.P0In/in.P0), r[2*nn], 1e-14)
	rc := ResidualMachCritical(z, rp)
	assert.InDelta(t, math.Log(par.D0In/in.D0), rc[nn], 1e-14)
	assert.InDelta(t, math.Log(par.P0In/in.P0), rc[2*nn], 1e-14)
}

func TestCriticalMachSolve(t *testing.T) {
	res, par := solveCritical(t, 0.999, 40)
	var (
		ff = res.Field
		np = len(ff.X)
		X  = utils.NewVector(np, ff.X)
		Ma = utils.NewVector(np, ff.Ma)
	)
	xStar, maMax := SC1D.FindMaximum(X, Ma)
	assert.InDelta(t, par.MaTarget, maMax, 1.e-6)
	// the peak sits strictly inside the domain, near the throat
	assert.True(t, xStar > 0 && xStar < par.Length)
	assert.InDelta(t, 0.5*par.Length, xStar, 0.1*par.Length)
	// entropy stays uniform through the near-sonic peak
	var sSpan float64
	for _, s := range ff.S {
		sSpan = math.Max(sSpan, math.Abs(s-ff.S[0]))
	}
	assert.True(t, sSpan < 1.e-6*math.Abs(ff.H0[0]/ff.T[0]))
}

func TestCriticalConservation(t *testing.T) {
	// a moderate peak Mach keeps the profile fully resolved
	res, _ := solveCritical(t, 0.9, 40)
	var (
		ff = res.Field
	)
	assert.True(t, relSpread(ff.Mdot) < 1.e-6, "mdot spread %v", relSpread(ff.Mdot))
	assert.True(t, relSpread(ff.H0) < 1.e-6, "h0 spread %v", relSpread(ff.H0))
}

func TestThroatPressureRatioMonotonic(t *testing.T) {
	var (
		ratios []float64
	)
	for _, target := range []float64{0.9, 0.99, 0.999} {
		res, _ := solveCritical(t, target, 40)
		var (
			ff   = res.Field
			pMin = ff.P[0]
		)
		for _, p := range ff.P {
			pMin = math.Min(pMin, p)
		}
		ratios = append(ratios, ff.P0[0]/pMin)
	}
	assert.True(t, ratios[0] < ratios[1] && ratios[1] < ratios[2],
		"pressure ratios not monotonic: %v", ratios)
}

func TestSolveTransonic(t *testing.T) {
	var (
		par = testParams(t)
		bvp = DefaultBVPSettings()
		ivp = DefaultIVPSettings()
	)
	par.MaTarget = 0.999
	par.MaLow = 0.975
	par.MaHigh = 1.025
	bvp.NumPoints = 40
	res, err := SolveTransonic(par, bvp, ivp)
	require.NoError(t, err)
	require.Equal(t, nlsq.Success, res.Collocation.Status)
	// the marching pass locates the near-sonic point upstream of the throat
	assert.True(t, res.XCritical > 0 && res.XCritical < 0.5*par.Length)
	var (
		ff   = res.Field
		last = len(ff.Ma) - 1
	)
	// the flow accelerates through the throat to a supersonic exit
	assert.True(t, ff.Ma[last] > 1, "exit Mach %v", ff.Ma[last])
	assert.True(t, ff.P[last] < ff.P[0])
	// mass flux through the blended sonic crossing holds to the first
	// order accuracy of the linearized window
	assert.True(t, relSpread(ff.Mdot) < 5.e-3, "mdot spread %v", relSpread(ff.Mdot))
}

func TestTransonicReportsStageFailure(t *testing.T) {
	var (
		par = testParams(t)
		bvp = DefaultBVPSettings()
		ivp = DefaultIVPSettings()
	)
	par.MaTarget = 0.999
	bvp.NumPoints = 20
	bvp.WarmupSteps = 0
	bvp.MaxSteps = 1 // no continuation stage can converge in one step
	_, err := SolveTransonic(par, bvp, ivp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not converge")
}
