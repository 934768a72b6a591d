package advection

import (
	"fmt"

	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/limiter"
	"github.com/gonwp/dycore/utils"
)

// Scheme advances a field through one transport step for a previously set
// advecting velocity.
type Scheme interface {
	Space() *fem.Space
	SetVelocity(u utils.Matrix)
	Advect(q utils.Matrix, dt float64)
}

// SSPRK3 is the three stage strong stability preserving Runge-Kutta scheme
// in Shu-Osher form. The limiter, when present, is applied after every stage
// so each stage output stays bounded.
type SSPRK3 struct {
	Eq     *Equation
	Lim    limiter.Limiter
	q1, q2 utils.Matrix
}

func NewSSPRK3(eq *Equation, lim limiter.Limiter) (s *SSPRK3) {
	s = &SSPRK3{
		Eq:  eq,
		Lim: lim,
		q1:  eq.Sp.NewStorage(),
		q2:  eq.Sp.NewStorage(),
	}
	return
}

func (s *SSPRK3) Space() *fem.Space          { return s.Eq.Sp }
func (s *SSPRK3) SetVelocity(u utils.Matrix) { s.Eq.SetVelocity(u) }

func (s *SSPRK3) limit(q utils.Matrix) {
	if s.Lim != nil {
		s.Lim.Apply(q)
	}
}

func (s *SSPRK3) Advect(q utils.Matrix, dt float64) {
	s.q1.AssignFrom(q).AddScaled(s.Eq.RHS(q), dt)
	s.limit(s.q1)

	s.q2.AssignFrom(q).Scale(3. / 4.).
		AddScaled(s.q1, 1./4.).
		AddScaled(s.Eq.RHS(s.q1), dt/4.)
	s.limit(s.q2)

	q.Scale(1. / 3.).
		AddScaled(s.q2, 2./3.).
		AddScaled(s.Eq.RHS(s.q2), 2.*dt/3.)
	s.limit(q)
}

// OperatorMatrix assembles the dense matrix of a linear map over the
// flattened nodal storage by applying it to unit vectors.
func OperatorMatrix(sp *fem.Space, L func(q utils.Matrix) utils.Matrix) (A utils.Matrix) {
	var (
		n = sp.Np * sp.K
		e = sp.NewStorage()
	)
	A = utils.NewMatrix(n, n)
	for j := 0; j < n; j++ {
		e.Zero()
		e.DataP[j] = 1
		col := L(e)
		for i := 0; i < n; i++ {
			A.DataP[i*n+j] = col.DataP[i]
		}
	}
	return
}

// ThetaMethod integrates transport implicitly: the tendency is evaluated as
// a theta weighted blend of the old and new time levels, requiring one
// factorized solve per step. The operator is rebuilt whenever the velocity
// or the step size changes.
type ThetaMethod struct {
	Eq    *Equation
	Theta float64
	dt    float64
	A     utils.Matrix // dense transport operator
	rhs   utils.Matrix // I + (1-theta) dt A
	lhs   *utils.LUSolver
	stale bool
}

func NewThetaMethod(eq *Equation, theta float64) (s *ThetaMethod) {
	if theta < 0 || theta > 1 {
		panic(fmt.Errorf("implicit weight must lie in [0,1], have %g", theta))
	}
	s = &ThetaMethod{
		Eq:    eq,
		Theta: theta,
		stale: true,
	}
	return
}

func (s *ThetaMethod) Space() *fem.Space { return s.Eq.Sp }

func (s *ThetaMethod) SetVelocity(u utils.Matrix) {
	s.Eq.SetVelocity(u)
	s.stale = true
}

func (s *ThetaMethod) factorize(dt float64) {
	var (
		sp = s.Eq.Sp
		n  = sp.Np * sp.K
	)
	s.A = OperatorMatrix(sp, s.Eq.RHS)
	lhs := utils.NewMatrix(n, n).AddScaled(s.A, -s.Theta*dt)
	s.rhs = utils.NewMatrix(n, n).AddScaled(s.A, (1-s.Theta)*dt)
	for i := 0; i < n; i++ {
		lhs.DataP[i*n+i] += 1
		s.rhs.DataP[i*n+i] += 1
	}
	s.lhs = utils.NewLUSolver(lhs)
	s.dt = dt
	s.stale = false
}

func (s *ThetaMethod) Advect(q utils.Matrix, dt float64) {
	if s.stale || dt != s.dt {
		s.factorize(dt)
	}
	b := s.Eq.Sp.ApplyOperator(s.rhs, q)
	x, err := s.lhs.Solve(utils.NewVector(len(b.DataP), b.DataP))
	if err != nil {
		panic(fmt.Errorf("implicit transport step failed: %w", err))
	}
	copy(q.DataP, x.DataP)
}
