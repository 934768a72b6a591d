package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonwp/dycore/advection"
	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/forcing"
	"github.com/gonwp/dycore/mesh"
	"github.com/gonwp/dycore/params"
	"github.com/gonwp/dycore/solver"
	"github.com/gonwp/dycore/state"
	"github.com/gonwp/dycore/thermo"
	"github.com/gonwp/dycore/timestepper"
)

func stratifiedColumn(zmin, zmax float64, K, N int) (*fem.Space, thermo.Constants, *fem.Function) {
	msh := mesh.NewColumn(zmin, zmax, K)
	sp := fem.NewSpace(msh, N)
	c := thermo.NewConstants()
	thetab := fem.NewFunction("theta", sp)
	thetab.Project(func(z float64) float64 {
		return thetaSurface * math.Exp(c.N*c.N*(z-zmin)/c.G)
	})
	return sp, c, thetab
}

func TestHydrostaticExnerBalancesGravity(t *testing.T) {
	sp, c, thetab := stratifiedColumn(0, 1.e4, 10, 3)
	exner := HydrostaticExner(sp, c, thetab, 1)

	assert.InDelta(t, 1., exner.Data().DataP[sp.GlobalIndex(0, 0)], 1.e-14)

	Gz := sp.DerivativeOperator()
	grad := sp.ApplyOperator(Gz, exner.Data())
	bottom := sp.GlobalIndex(0, 0)
	for i := range grad.DataP {
		if i == bottom {
			continue // anchored, balance not enforced there
		}
		res := c.Cp*thetab.Data().DataP[i]*grad.DataP[i] + c.G
		assert.InDelta(t, 0, res, 1.e-8)
	}
}

func TestBalancedDensityReproducesExner(t *testing.T) {
	sp, c, thetab := stratifiedColumn(0, 1.e4, 8, 2)
	exner := HydrostaticExner(sp, c, thetab, 1)
	rho := BalancedDensity(c, exner, thetab)
	for i := range exner.Data().DataP {
		back := c.Exner(rho.Data().DataP[i], thetab.Data().DataP[i])
		assert.InDelta(t, exner.Data().DataP[i], back, 1.e-14)
	}
}

func TestBalancedColumnStaysAtRest(t *testing.T) {
	sp, c, thetab := stratifiedColumn(0, 1.e4, 10, 3)
	exner := HydrostaticExner(sp, c, thetab, 1)
	rhob := BalancedDensity(c, exner, thetab)

	u := fem.NewFunction("u", sp)
	rho := fem.NewFunction("rho", sp)
	theta := fem.NewFunction("theta", sp)
	rho.AssignFrom(rhob)
	theta.AssignFrom(thetab)
	s := state.NewState(state.NewMixedState(u, rho, theta))

	dt := 6.
	uEq := advection.NewEquation(sp, advection.Options{Form: advection.Advective, IBP: advection.IBPTwice})
	rhoEq := advection.NewEquation(sp, advection.Options{Form: advection.Continuity, IBP: advection.IBPOnce})
	thetaEq := advection.NewEquation(sp, advection.Options{Form: advection.Advective, IBP: advection.IBPTwice})
	ts := timestepper.NewCrankNicolson(s,
		forcing.NewCompressible(sp, c, forcing.Options{}),
		solver.NewCompressible(sp, c, 0.5*dt, rhob, thetab),
		map[string]advection.Scheme{
			"u":     advection.NewSSPRK3(uEq, nil),
			"rho":   advection.NewSSPRK3(rhoEq, nil),
			"theta": advection.NewSSPRK3(thetaEq, nil),
		}, nil, nil, timestepper.Config{Dt: dt})

	for n := 0; n < 5; n++ {
		ts.Step()
	}
	uf := s.Xn.MustField("u")
	assert.Less(t, math.Max(math.Abs(uf.Min()), math.Abs(uf.Max())), 1.e-7)
	for i, v := range s.Xn.MustField("theta").Data().DataP {
		assert.InDelta(t, thetab.Data().DataP[i], v, 1.e-7)
	}
}

func TestIncompressibleColumnStaysAtRest(t *testing.T) {
	var (
		msh = mesh.NewColumn(0, 1.e4, 10)
		sp  = fem.NewSpace(msh, 3)
		c   = thermo.NewConstants()
	)
	bb := fem.NewFunction("b", sp)
	bb.Project(func(z float64) float64 { return c.N * c.N * z })
	pb := HydrostaticPressure(sp, bb)

	// the solved pressure satisfies dp/dz = b away from the anchor
	Gz := sp.DerivativeOperator()
	grad := sp.ApplyOperator(Gz, pb.Data())
	bottom := sp.GlobalIndex(0, 0)
	for i := range grad.DataP {
		if i == bottom {
			continue
		}
		assert.InDelta(t, bb.Data().DataP[i], grad.DataP[i], 1.e-9)
	}

	u := fem.NewFunction("u", sp)
	pr := fem.NewFunction("p", sp)
	b := fem.NewFunction("b", sp)
	pr.AssignFrom(pb)
	b.AssignFrom(bb)
	s := state.NewState(state.NewMixedState(u, pr, b))

	dt := 6.
	uEq := advection.NewEquation(sp, advection.Options{Form: advection.Advective, IBP: advection.IBPTwice})
	bEq := advection.NewEquation(sp, advection.Options{Form: advection.Advective, IBP: advection.IBPTwice})
	ts := timestepper.NewCrankNicolson(s,
		forcing.NewIncompressible(sp, forcing.Options{}),
		solver.NewBoussinesq(sp, 0.5*dt, c.N),
		map[string]advection.Scheme{
			"u": advection.NewSSPRK3(uEq, nil),
			"b": advection.NewSSPRK3(bEq, nil),
		}, nil, nil, timestepper.Config{Dt: dt, Incompressible: true})

	for n := 0; n < 5; n++ {
		ts.Step()
	}
	uf := s.Xn.MustField("u")
	assert.Less(t, math.Max(math.Abs(uf.Min()), math.Abs(uf.Max())), 1.e-7)
}

func TestBalancedJetIsSteady(t *testing.T) {
	p := &params.SimulationParameters{
		Case:            "balanced_jet",
		Dt:              200,
		FinalTime:       1000,
		PolynomialOrder: 3,
		ElementCount:    12,
		DomainMin:       0,
		DomainMax:       1.e6,
		DumpDirectory:   t.TempDir(),
	}
	require.NoError(t, p.Validate())
	ts, err := NewBalancedJet(p, nil)
	require.NoError(t, err)

	s := ts.State
	uDrift := state.NewSteadyStateError(s, "u")
	dDrift := state.NewSteadyStateError(s, "D")
	for n := 0; n < 5; n++ {
		ts.Step()
	}
	assert.Less(t, uDrift.LInf(s), 1.e-8)
	assert.Less(t, dDrift.LInf(s), 1.e-8)
}

func TestAdvectionBubbleRoundTrip(t *testing.T) {
	p := &params.SimulationParameters{
		Case:            "advection_bubble",
		Dt:              1.e-3,
		FinalTime:       1,
		PolynomialOrder: 3,
		ElementCount:    24,
		DomainMin:       0,
		DomainMax:       1,
		Limiter:         "vertex",
		DumpDirectory:   t.TempDir(),
	}
	require.NoError(t, p.Validate())
	ts, err := NewAdvectionBubble(p, nil)
	require.NoError(t, err)

	q0 := ts.State.Xn.MustField("q")
	before := q0.Integral()
	require.NoError(t, ts.Run(p.FinalTime))

	q := ts.State.Xn.MustField("q")
	assert.InDelta(t, before, q.Integral(), 1.e-10)
	assert.GreaterOrEqual(t, q.Min(), -1.e-8)
	assert.LessOrEqual(t, q.Max(), 1.+1.e-8)
}

func TestBuildSelectsCases(t *testing.T) {
	p := &params.SimulationParameters{
		Case:            "nonexistent",
		Dt:              1,
		FinalTime:       10,
		PolynomialOrder: 2,
		ElementCount:    4,
		DomainMin:       0,
		DomainMax:       1,
	}
	require.NoError(t, p.Validate())
	_, err := Build(p, nil)
	assert.Error(t, err)

	p.Case = "gravity_wave"
	p.DomainMax = 1.e4
	p.DumpDirectory = t.TempDir()
	m, err := Build(p, nil)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestGravityWaveCaseRunsAndStaysBounded(t *testing.T) {
	p := &params.SimulationParameters{
		Case:            "gravity_wave",
		Dt:              6,
		FinalTime:       60,
		PolynomialOrder: 2,
		ElementCount:    10,
		DomainMin:       0,
		DomainMax:       1.e4,
		SpongeLayer:     true,
		SpongeBase:      8.e3,
		SpongeStrength:  0.05,
		DumpDirectory:   t.TempDir(),
	}
	require.NoError(t, p.Validate())
	ts, err := NewGravityWaveColumn(p, nil)
	require.NoError(t, err)
	require.NoError(t, ts.Run(p.FinalTime))

	theta := ts.State.Xn.MustField("theta")
	assert.Greater(t, theta.Min(), 299.)
	assert.Less(t, theta.Max(), 335.)
	u := ts.State.Xn.MustField("u")
	assert.Less(t, math.Max(math.Abs(u.Min()), math.Abs(u.Max())), 1.)
}
