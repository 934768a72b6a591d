package fem

import (
	"fmt"

	"github.com/gonwp/dycore/utils"
)

// Recover maps discontinuous nodal data onto a continuous space sharing the
// same nodes by Jacobian-weighted averaging of the duplicated interface
// values. Data that is already continuous passes through unchanged.
func Recover(dg, cg *Space, q utils.Matrix) (r utils.Matrix) {
	if !dg.SameShape(cg) || !cg.Continuous {
		panic(fmt.Errorf("recovery requires a continuous space on the same nodes"))
	}
	var (
		Np, K = dg.Np, dg.K
	)
	r = cg.NewStorage()
	r.AssignFrom(q)
	for k := 0; k < K; k++ {
		nb, interior := dg.Mesh.RightNeighbour(k)
		if !interior {
			continue
		}
		jL := dg.J.DataP[(Np-1)*K+k]
		jR := dg.J.DataP[nb]
		qL := q.DataP[(Np-1)*K+k]
		qR := q.DataP[nb]
		avg := (jL*qL + jR*qR) / (jL + jR)
		r.DataP[(Np-1)*K+k] = avg
		r.DataP[nb] = avg
	}
	return
}

// Quadrature evaluates pointwise expressions at an over-integrated set of
// Gauss points and L2-projects the result back onto the space, avoiding the
// aliasing of plain nodal evaluation for nonlinear expressions.
type Quadrature struct {
	Sp *Space
	Iq utils.Matrix // interpolation from nodes to quadrature points
	W  utils.Vector // quadrature weights
	lu *utils.LUSolver
	Nq int
}

func NewQuadrature(sp *Space, extra int) (q *Quadrature) {
	rq, wq := JacobiGQ(0, 0, sp.N+extra)
	Iq := Vandermonde1D(sp.N, rq).Mul(sp.Vinv)
	var (
		Nq = rq.Len()
		Np = sp.Np
	)
	// quadrature mass matrix Iq' W Iq
	Mq := utils.NewMatrix(Np, Np)
	for a := 0; a < Np; a++ {
		for b := 0; b < Np; b++ {
			var sum float64
			for m := 0; m < Nq; m++ {
				sum += Iq.DataP[m*Np+a] * wq.DataP[m] * Iq.DataP[m*Np+b]
			}
			Mq.DataP[a*Np+b] = sum
		}
	}
	q = &Quadrature{
		Sp: sp,
		Iq: Iq,
		W:  wq,
		lu: utils.NewLUSolver(Mq),
		Nq: Nq,
	}
	return
}

// ProjectPointwise evaluates fn at the quadrature points of every element,
// interpolating each input field there first, and projects the result back
// onto the nodal space.
func (q *Quadrature) ProjectPointwise(fn func(args []float64) float64, inputs ...utils.Matrix) (r utils.Matrix) {
	var (
		sp    = q.Sp
		Np, K = sp.Np, sp.K
		Nq    = q.Nq
		args  = make([]float64, len(inputs))
		fq    = utils.NewVector(Nq)
		rhs   = utils.NewVector(Np)
	)
	r = sp.NewStorage()
	qvals := make([][]float64, len(inputs))
	for a := range inputs {
		qvals[a] = make([]float64, Nq)
	}
	for k := 0; k < K; k++ {
		for a, in := range inputs {
			for m := 0; m < Nq; m++ {
				var sum float64
				for i := 0; i < Np; i++ {
					sum += q.Iq.DataP[m*Np+i] * in.DataP[i*K+k]
				}
				qvals[a][m] = sum
			}
		}
		for m := 0; m < Nq; m++ {
			for a := range inputs {
				args[a] = qvals[a][m]
			}
			fq.DataP[m] = fn(args) * q.W.DataP[m]
		}
		for i := 0; i < Np; i++ {
			var sum float64
			for m := 0; m < Nq; m++ {
				sum += q.Iq.DataP[m*Np+i] * fq.DataP[m]
			}
			rhs.DataP[i] = sum
		}
		sol, err := q.lu.Solve(rhs)
		if err != nil {
			panic(fmt.Errorf("quadrature projection failed: %w", err))
		}
		for i := 0; i < Np; i++ {
			r.DataP[i*K+k] = sol.DataP[i]
		}
	}
	return
}

// Inject copies continuous nodal data into a discontinuous space on the same
// nodes.
func Inject(cg, dg *Space, q utils.Matrix) (r utils.Matrix) {
	if !cg.SameShape(dg) {
		panic(fmt.Errorf("injection requires spaces on the same nodes"))
	}
	r = dg.NewStorage()
	r.AssignFrom(q)
	return
}
