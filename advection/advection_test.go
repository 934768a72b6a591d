package advection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/limiter"
	"github.com/gonwp/dycore/mesh"
	"github.com/gonwp/dycore/utils"
)

func near(t *testing.T, a, b, tol float64) {
	t.Helper()
	assert.InDelta(t, b, a, tol)
}

func gaussian(x float64) float64 {
	return math.Exp(-utils.POW((x-0.5)/0.1, 2))
}

func constVelocity(sp *fem.Space, val float64) utils.Matrix {
	u := sp.NewStorage()
	return u.AddScalar(val)
}

func TestSolidBodyTransportReturnsToStart(t *testing.T) {
	msh := mesh.NewPeriodicInterval(0, 1, 20)
	sp := fem.NewSpace(msh, 4)
	eq := NewEquation(sp, Options{Form: Advective, IBP: IBPTwice})
	s := NewSSPRK3(eq, nil)
	s.SetVelocity(constVelocity(sp, 1))

	q := sp.NewStorage()
	q0 := sp.NewStorage()
	for i, x := range sp.X.DataP {
		q.DataP[i] = gaussian(x)
		q0.DataP[i] = gaussian(x)
	}

	dt := 1.e-3
	for n := 0; n < 1000; n++ { // one full period
		s.Advect(q, dt)
	}
	diff := q.Copy().Subtract(q0)
	var l2 float64
	for _, v := range diff.DataP {
		l2 += v * v
	}
	l2 = math.Sqrt(l2 / float64(len(diff.DataP)))
	assert.Less(t, l2, 1.e-3)
}

func TestContinuityFormConservesMass(t *testing.T) {
	msh := mesh.NewPeriodicInterval(0, 1, 16)
	sp := fem.NewSpace(msh, 3)
	for _, ibp := range []IBP{IBPTwice, IBPOnce} {
		eq := NewEquation(sp, Options{Form: Continuity, IBP: ibp})
		s := NewSSPRK3(eq, nil)

		// non-uniform velocity
		u := sp.NewStorage()
		for i, x := range sp.X.DataP {
			u.DataP[i] = 1 + 0.3*math.Sin(2*math.Pi*x)
		}
		s.SetVelocity(u)

		q := sp.NewStorage()
		for i, x := range sp.X.DataP {
			q.DataP[i] = gaussian(x)
		}
		before := sp.Integral(q)
		for n := 0; n < 200; n++ {
			s.Advect(q, 5.e-4)
		}
		near(t, sp.Integral(q), before, 1.e-10)
	}
}

func TestWeakAndStrongFormsAgree(t *testing.T) {
	msh := mesh.NewPeriodicInterval(0, 1, 8)
	sp := fem.NewSpace(msh, 3)
	u := sp.NewStorage()
	q := sp.NewStorage()
	for i, x := range sp.X.DataP {
		u.DataP[i] = 1 + 0.5*math.Cos(2*math.Pi*x)
		q.DataP[i] = math.Sin(2 * math.Pi * x)
	}

	strong := NewEquation(sp, Options{Form: Continuity, IBP: IBPTwice})
	weak := NewEquation(sp, Options{Form: Continuity, IBP: IBPOnce})
	strong.SetVelocity(u)
	weak.SetVelocity(u)

	rs := strong.RHS(q)
	rw := weak.RHS(q)
	for i := range rs.DataP {
		near(t, rs.DataP[i], rw.DataP[i], 1.e-9)
	}
}

func TestLimitedTransportStaysBounded(t *testing.T) {
	msh := mesh.NewPeriodicInterval(0, 1, 40)
	sp := fem.NewSpace(msh, 3)
	eq := NewEquation(sp, Options{Form: Advective, IBP: IBPTwice})
	s := NewSSPRK3(eq, limiter.NewVertexBased(sp))
	s.SetVelocity(constVelocity(sp, 1))

	// a step profile, the classic overshoot generator
	q := sp.NewStorage()
	for i, x := range sp.X.DataP {
		if x > 0.25 && x < 0.75 {
			q.DataP[i] = 1
		}
	}
	for n := 0; n < 400; n++ {
		s.Advect(q, 5.e-4)
	}
	assert.GreaterOrEqual(t, q.Min(), -1.e-8)
	assert.LessOrEqual(t, q.Max(), 1+1.e-8)
}

func TestThetaMethodPreservesConstants(t *testing.T) {
	msh := mesh.NewPeriodicInterval(0, 1, 10)
	sp := fem.NewSpace(msh, 2)
	eq := NewEquation(sp, Options{Form: Advective, IBP: IBPTwice})
	s := NewThetaMethod(eq, 0.5)
	s.SetVelocity(constVelocity(sp, 1))

	q := sp.NewStorage().AddScalar(3)
	for n := 0; n < 20; n++ {
		s.Advect(q, 0.01)
	}
	near(t, q.Min(), 3, 1.e-10)
	near(t, q.Max(), 3, 1.e-10)
}

func TestThetaMethodTransportsSmoothData(t *testing.T) {
	msh := mesh.NewPeriodicInterval(0, 1, 20)
	sp := fem.NewSpace(msh, 3)
	eq := NewEquation(sp, Options{Form: Advective, IBP: IBPTwice})
	s := NewThetaMethod(eq, 0.5)
	s.SetVelocity(constVelocity(sp, 1))

	q := sp.NewStorage()
	for i, x := range sp.X.DataP {
		q.DataP[i] = math.Sin(2 * math.Pi * x)
	}
	T := 0.1
	dt := 1.e-3
	for n := 0; n < int(T/dt+0.5); n++ {
		s.Advect(q, dt)
	}
	for i, x := range sp.X.DataP {
		near(t, q.DataP[i], math.Sin(2*math.Pi*(x-T)), 1.e-3)
	}
}

func TestEmbeddedTransportRecoversContinuity(t *testing.T) {
	msh := mesh.NewPeriodicInterval(0, 1, 12)
	host := fem.NewContinuousSpace(msh, 3)
	emb := fem.NewSpace(msh, 3)
	eq := NewEquation(emb, Options{Form: Advective, IBP: IBPTwice})
	inner := NewSSPRK3(eq, limiter.NewVertexBased(emb))
	e := NewEmbeddedDG(host, inner, true)
	e.SetVelocity(constVelocity(emb, 1))

	q := host.NewStorage()
	for i, x := range host.X.DataP {
		q.DataP[i] = gaussian(x)
	}
	for n := 0; n < 50; n++ {
		e.Advect(q, 1.e-3)
	}
	// interface values are single valued after recovery
	var (
		Np, K = host.Np, host.K
	)
	for k := 0; k < K; k++ {
		nb, _ := msh.RightNeighbour(k)
		near(t, q.DataP[(Np-1)*K+k], q.DataP[nb], 1.e-13)
	}
}

func TestPointwiseFormNeedsContinuousSpace(t *testing.T) {
	msh := mesh.NewPeriodicInterval(0, 1, 4)
	dg := fem.NewSpace(msh, 2)
	assert.Panics(t, func() {
		NewEquation(dg, Options{Form: Advective, IBP: IBPNever})
	})
	cg := fem.NewContinuousSpace(msh, 2)
	assert.NotPanics(t, func() {
		NewEquation(cg, Options{Form: Advective, IBP: IBPNever})
	})
}

func TestOutflowDrainsTheDomain(t *testing.T) {
	msh := mesh.NewColumn(0, 1, 10)
	sp := fem.NewSpace(msh, 2)
	eq := NewEquation(sp, Options{Form: Continuity, IBP: IBPTwice, Outflow: true})
	s := NewSSPRK3(eq, limiter.NewVertexBased(sp))
	s.SetVelocity(constVelocity(sp, -1)) // falls out through the bottom

	q := sp.NewStorage()
	for i, x := range sp.X.DataP {
		q.DataP[i] = gaussian(x)
	}
	before := sp.Integral(q)
	for n := 0; n < 2000; n++ {
		s.Advect(q, 1.e-3)
	}
	after := sp.Integral(q)
	assert.Less(t, after, 1.e-6*before)
}
