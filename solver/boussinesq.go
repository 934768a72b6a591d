package solver

import (
	"fmt"

	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/state"
	"github.com/gonwp/dycore/utils"
)

// Boussinesq solves the incompressible Euler-Boussinesq set by eliminating
// buoyancy and velocity into a pressure Helmholtz problem:
//
//	(1 + beta^2 N^2) u' + beta dp'/dz = r_u + beta r_b
//	b' = r_b - beta N^2 u'
//	div u' = 0
//
// The 1D pressure operator d/dz(d/dz p') annihilates both constants and
// linear profiles, so it carries two boundary rows: the bottom value is
// pinned and the top row imposes the rigid lid condition
// beta dp'/dz = r_u + beta r_b, which makes the eliminated velocity
// increment vanish at the top wall.
type Boussinesq struct {
	Sp          *fem.Space
	Beta        float64
	NSq         float64
	Gz          utils.Matrix
	lu          *utils.LUSolver
	gamma       float64
	n           int
	bottom, top int
}

func NewBoussinesq(sp *fem.Space, beta, bruntVaisala float64) (s *Boussinesq) {
	var (
		n  = sp.Np * sp.K
		Gz = sp.DerivativeOperator()
	)
	s = &Boussinesq{
		Sp:     sp,
		Beta:   beta,
		NSq:    bruntVaisala * bruntVaisala,
		Gz:     Gz,
		gamma:  1 + beta*beta*bruntVaisala*bruntVaisala,
		n:      n,
		bottom: sp.GlobalIndex(0, 0),
		top:    sp.GlobalIndex(sp.Np-1, sp.K-1),
	}
	L := Gz.Mul(Gz)
	// pin the constant mode at the bottom, rigid lid Neumann row at the top
	for j := 0; j < n; j++ {
		L.DataP[s.bottom*n+j] = 0
		L.DataP[s.top*n+j] = Gz.DataP[s.top*n+j]
	}
	L.DataP[s.bottom*n+s.bottom] = 1
	s.lu = utils.NewLUSolver(L)
	return
}

func (s *Boussinesq) Solve(xRHS, dy *state.MixedState) {
	var (
		sp = s.Sp
		ru = xRHS.MustField("u").Data()
		rb = xRHS.MustField("b").Data()
	)
	// r~ = r_u + beta r_b, then div u' = 0 gives div(Gz p') = div(r~)/beta
	rt := ru.Copy().AddScaled(rb, s.Beta)
	c := sp.ApplyOperator(s.Gz, rt).Scale(1 / s.Beta)
	c.DataP[s.bottom] = 0                    // pinned value
	c.DataP[s.top] = rt.DataP[s.top] / s.Beta // rigid lid
	p, err := s.lu.Solve(utils.NewVector(s.n, c.DataP))
	if err != nil {
		panic(fmt.Errorf("pressure solve: %w", err))
	}
	pm := utils.NewMatrix(sp.Np, sp.K, p.DataP)

	u := rt.Copy().Subtract(sp.ApplyOperator(s.Gz, pm).Scale(s.Beta)).Scale(1 / s.gamma)
	for _, id := range sp.BoundaryNodes() {
		u.DataP[id] = 0
	}
	b := rb.Copy().AddScaled(u, -s.Beta*s.NSq)

	dy.MustField("u").Data().AssignFrom(u)
	dy.MustField("p").Data().AssignFrom(pm)
	dy.MustField("b").Data().AssignFrom(b)
}
