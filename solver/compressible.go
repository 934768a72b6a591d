package solver

import (
	"fmt"

	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/state"
	"github.com/gonwp/dycore/thermo"
	"github.com/gonwp/dycore/utils"
)

// Compressible solves the compressible Euler set linearised about the
// hydrostatic reference profiles rhobar, thetabar:
//
//	u' + beta cp thetab d/dz(pi_rho rho' + pi_theta theta') = r_u
//	rho' + beta d/dz(rhob u')                               = r_rho
//	theta' + beta u' dthetab/dz                             = r_theta
//
// with u' = 0 at the column walls. beta is the off-centred implicit weight
// alpha*dt.
type Compressible struct {
	Sp   *fem.Space
	Beta float64
	lu   *utils.LUSolver
	wall map[int]bool
	n    int
}

func NewCompressible(sp *fem.Space, c thermo.Constants, beta float64, rhob, thetab *fem.Function) (s *Compressible) {
	var (
		n  = sp.Np * sp.K
		Gz = sp.DerivativeOperator()
		A  = utils.NewDOK(3*n, 3*n)
	)
	s = &Compressible{
		Sp:   sp,
		Beta: beta,
		wall: make(map[int]bool),
		n:    n,
	}
	for _, id := range sp.BoundaryNodes() {
		s.wall[id] = true
	}

	rb := rhob.Data().DataP
	tb := thetab.Data().DataP
	dthetab := sp.ApplyOperator(Gz, thetab.Data())

	// momentum rows, walls pinned to zero increment
	for i := 0; i < n; i++ {
		if s.wall[i] {
			A.Set(i, i, 1)
			continue
		}
		A.Set(i, i, 1)
		for j := 0; j < n; j++ {
			g := Gz.DataP[i*n+j]
			if g == 0 {
				continue
			}
			coeff := beta * c.Cp * tb[i] * g
			A.Accumulate(i, n+j, coeff*c.ExnerRho(rb[j], tb[j]))
			A.Accumulate(i, 2*n+j, coeff*c.ExnerTheta(rb[j], tb[j]))
		}
	}
	// continuity rows
	for i := 0; i < n; i++ {
		A.Set(n+i, n+i, 1)
		for j := 0; j < n; j++ {
			g := Gz.DataP[i*n+j]
			if g != 0 {
				A.Accumulate(n+i, j, beta*g*rb[j])
			}
		}
	}
	// potential temperature rows
	for i := 0; i < n; i++ {
		A.Set(2*n+i, 2*n+i, 1)
		A.Accumulate(2*n+i, i, beta*dthetab.DataP[i])
	}

	s.lu = utils.NewLUSolver(A.ToDense())
	return
}

func (s *Compressible) Solve(xRHS, dy *state.MixedState) {
	var (
		n = s.n
		b = utils.NewVector(3 * n)
	)
	copy(b.DataP[:n], xRHS.MustField("u").Data().DataP)
	copy(b.DataP[n:2*n], xRHS.MustField("rho").Data().DataP)
	copy(b.DataP[2*n:], xRHS.MustField("theta").Data().DataP)
	for id := range s.wall {
		b.DataP[id] = 0
	}
	x, err := s.lu.Solve(b)
	if err != nil {
		panic(fmt.Errorf("compressible linear solve: %w", err))
	}
	copy(dy.MustField("u").Data().DataP, x.DataP[:n])
	copy(dy.MustField("rho").Data().DataP, x.DataP[n:2*n])
	copy(dy.MustField("theta").Data().DataP, x.DataP[2*n:])
}
