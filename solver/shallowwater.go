package solver

import (
	"fmt"

	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/state"
	"github.com/gonwp/dycore/utils"
)

// ShallowWater solves the rotating shallow water set linearised about a
// resting depth H:
//
//	u' + beta g dD'/dx = r_u
//	D' + beta H du'/dx = r_D
//	v' = r_v
//
// The transverse component carries no fast wave and decouples.
type ShallowWater struct {
	Sp   *fem.Space
	Beta float64
	lu   *utils.LUSolver
	n    int
}

func NewShallowWater(sp *fem.Space, beta, g, H float64) (s *ShallowWater) {
	var (
		n  = sp.Np * sp.K
		Gx = sp.DerivativeOperator()
		A  = utils.NewDOK(2*n, 2*n)
	)
	s = &ShallowWater{Sp: sp, Beta: beta, n: n}
	for i := 0; i < n; i++ {
		A.Set(i, i, 1)
		A.Set(n+i, n+i, 1)
		for j := 0; j < n; j++ {
			if gij := Gx.DataP[i*n+j]; gij != 0 {
				A.Accumulate(i, n+j, beta*g*gij)
				A.Accumulate(n+i, j, beta*H*gij)
			}
		}
	}
	s.lu = utils.NewLUSolver(A.ToDense())
	return
}

func (s *ShallowWater) Solve(xRHS, dy *state.MixedState) {
	var (
		n  = s.n
		b  = utils.NewVector(2 * n)
		ru = xRHS.MustField("u")
	)
	copy(b.DataP[:n], ru.Val[0].DataP)
	copy(b.DataP[n:], xRHS.MustField("D").Data().DataP)
	x, err := s.lu.Solve(b)
	if err != nil {
		panic(fmt.Errorf("shallow water linear solve: %w", err))
	}
	out := dy.MustField("u")
	copy(out.Val[0].DataP, x.DataP[:n])
	out.Val[1].AssignFrom(ru.Val[1]) // v' = r_v
	copy(dy.MustField("D").Data().DataP, x.DataP[n:])
}
