package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/mesh"
	"github.com/gonwp/dycore/state"
	"github.com/gonwp/dycore/thermo"
)

func swState(sp *fem.Space) *state.State {
	uv := fem.NewVectorFunction("u", sp, 2)
	D := fem.NewFunction("D", sp)
	return state.NewState(state.NewMixedState(uv, D))
}

func TestShallowWaterSolverSatisfiesEquations(t *testing.T) {
	var (
		L    = 1.e6
		g    = 9.80616
		H    = 1000.
		beta = 0.5 * 300. // alpha*dt
	)
	msh := mesh.NewPeriodicInterval(0, L, 12)
	sp := fem.NewSpace(msh, 3)
	s := swState(sp)

	rhs := s.Xrhs
	rhs.MustField("u").Project(
		func(x float64) float64 { return math.Sin(2 * math.Pi * x / L) },
		func(x float64) float64 { return math.Cos(2 * math.Pi * x / L) },
	)
	rhs.MustField("D").Project(func(x float64) float64 { return math.Cos(4 * math.Pi * x / L) })

	sol := NewShallowWater(sp, beta, g, H)
	sol.Solve(rhs, s.Dy)

	Gx := sp.DerivativeOperator()
	du := s.Dy.MustField("u")
	dD := s.Dy.MustField("D").Data()

	// u' + beta g dD'/dx = r_u
	res := du.Val[0].Copy().AddScaled(sp.ApplyOperator(Gx, dD), beta*g)
	for i, v := range res.DataP {
		assert.InDelta(t, rhs.MustField("u").Val[0].DataP[i], v, 1.e-9)
	}
	// D' + beta H du'/dx = r_D
	res = dD.Copy().AddScaled(sp.ApplyOperator(Gx, du.Val[0]), beta*H)
	for i, v := range res.DataP {
		assert.InDelta(t, rhs.MustField("D").Data().DataP[i], v, 1.e-9)
	}
	// v' passes straight through
	for i, v := range du.Val[1].DataP {
		assert.InDelta(t, rhs.MustField("u").Val[1].DataP[i], v, 1.e-14)
	}
}

func TestCompressibleSolverSatisfiesEquations(t *testing.T) {
	var (
		c    = thermo.NewConstants()
		beta = 0.5 * 6.
	)
	msh := mesh.NewColumn(0, 1.e4, 8)
	sp := fem.NewSpace(msh, 2)
	u := fem.NewFunction("u", sp)
	rho := fem.NewFunction("rho", sp)
	theta := fem.NewFunction("theta", sp)
	st := state.NewState(state.NewMixedState(u, rho, theta))

	rhob := rho.Clone("rhob")
	thetab := theta.Clone("thetab")
	thetab.Project(func(z float64) float64 { return 300 * math.Exp(c.N * c.N * z / c.G) })
	rhob.Project(func(z float64) float64 { return 1.1 * math.Exp(-z/8000.) })

	rhs := st.Xrhs
	rhs.MustField("u").Project(func(z float64) float64 { return math.Sin(math.Pi * z / 1.e4) })
	rhs.MustField("rho").Project(func(z float64) float64 { return 1.e-3 * math.Cos(math.Pi * z / 1.e4) })
	rhs.MustField("theta").Project(func(z float64) float64 { return 0.1 })

	sol := NewCompressible(sp, c, beta, rhob, thetab)
	sol.Solve(rhs, st.Dy)

	var (
		Gz = sp.DerivativeOperator()
		du = st.Dy.MustField("u").Data()
		dr = st.Dy.MustField("rho").Data()
		dh = st.Dy.MustField("theta").Data()
		n  = sp.Np * sp.K
	)
	wall := map[int]bool{}
	for _, id := range sp.BoundaryNodes() {
		wall[id] = true
	}

	// momentum: u' + beta cp thetab d/dz(pi_rho rho' + pi_theta theta') = r_u
	pip := sp.NewStorage()
	for i := 0; i < n; i++ {
		rb := rhob.Data().DataP[i]
		tb := thetab.Data().DataP[i]
		pip.DataP[i] = c.ExnerRho(rb, tb)*dr.DataP[i] + c.ExnerTheta(rb, tb)*dh.DataP[i]
	}
	grad := sp.ApplyOperator(Gz, pip)
	for i := 0; i < n; i++ {
		if wall[i] {
			assert.Equal(t, 0., du.DataP[i])
			continue
		}
		lhs := du.DataP[i] + beta*c.Cp*thetab.Data().DataP[i]*grad.DataP[i]
		assert.InDelta(t, rhs.MustField("u").Data().DataP[i], lhs, 1.e-8)
	}
	// continuity: rho' + beta d/dz(rhob u') = r_rho
	flux := rhob.Data().Copy().ElMul(du)
	dflux := sp.ApplyOperator(Gz, flux)
	for i := 0; i < n; i++ {
		lhs := dr.DataP[i] + beta*dflux.DataP[i]
		assert.InDelta(t, rhs.MustField("rho").Data().DataP[i], lhs, 1.e-8)
	}
	// theta: theta' + beta u' dthetab/dz = r_theta
	dthetab := sp.ApplyOperator(Gz, thetab.Data())
	for i := 0; i < n; i++ {
		lhs := dh.DataP[i] + beta*du.DataP[i]*dthetab.DataP[i]
		assert.InDelta(t, rhs.MustField("theta").Data().DataP[i], lhs, 1.e-8)
	}
}

func TestBoussinesqSolver(t *testing.T) {
	var (
		beta = 0.5 * 10.
		bv   = 0.01
	)
	msh := mesh.NewColumn(0, 1.e3, 10)
	sp := fem.NewSpace(msh, 3)
	u := fem.NewFunction("u", sp)
	p := fem.NewFunction("p", sp)
	b := fem.NewFunction("b", sp)
	st := state.NewState(state.NewMixedState(u, p, b))

	// the linear-in-z part would sit in the nullspace of the pressure
	// operator if only one boundary row were imposed
	rhs := st.Xrhs
	rhs.MustField("u").Project(func(z float64) float64 {
		return math.Sin(math.Pi*z/1.e3) + 2.e-4*z
	})
	rhs.MustField("b").Project(func(z float64) float64 { return 1.e-2 * math.Cos(math.Pi * z / 1.e3) })

	sol := NewBoussinesq(sp, beta, bv)
	sol.Solve(rhs, st.Dy)

	du := st.Dy.MustField("u").Data()
	dp := st.Dy.MustField("p").Data()
	db := st.Dy.MustField("b").Data()

	// buoyancy update is exact
	for i := range db.DataP {
		want := rhs.MustField("b").Data().DataP[i] - beta*bv*bv*du.DataP[i]
		assert.InDelta(t, want, db.DataP[i], 1.e-12)
	}
	// momentum: (1 + beta^2 N^2) u' + beta dp'/dz = r_u + beta r_b away from
	// the walls, where the increment is clamped instead
	var (
		Gzp   = sp.ApplyOperator(sp.DerivativeOperator(), dp)
		gamma = 1 + beta*beta*bv*bv
		rt    = rhs.MustField("u").Data().Copy().
			AddScaled(rhs.MustField("b").Data(), beta)
	)
	wall := map[int]bool{}
	for _, id := range sp.BoundaryNodes() {
		wall[id] = true
	}
	for i := range du.DataP {
		if wall[i] {
			assert.Equal(t, 0., du.DataP[i])
			continue
		}
		assert.InDelta(t, rt.DataP[i], gamma*du.DataP[i]+beta*Gzp.DataP[i], 1.e-8)
	}
	// the velocity increment is divergence free away from the wall elements,
	// where the boundary clamp perturbs it
	Gz := sp.DerivativeOperator()
	div := sp.ApplyOperator(Gz, du)
	for k := 1; k < sp.K-1; k++ {
		for i := 0; i < sp.Np; i++ {
			assert.InDelta(t, 0, div.DataP[i*sp.K+k], 1.e-8)
		}
	}
}
