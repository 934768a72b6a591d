// Package advection provides the transport operators of the model: upwinded
// discontinuous Galerkin forms of the advective and continuity equations,
// explicit and implicit time integrators for them, and the embedded space
// wrapper used to transport fields living on continuous spaces.
package advection

import (
	"fmt"
	"math"

	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/utils"
)

// Form selects between the advective form u.grad(q) and the conservative
// continuity form div(u q).
type Form uint8

const (
	Advective Form = iota
	Continuity
)

// IBP is the number of integrations by parts applied when the form was
// derived: twice gives the strong form, once the weak form, and never is
// only admissible on continuous spaces.
type IBP uint8

const (
	IBPTwice IBP = iota
	IBPOnce
	IBPNever
)

// Options configure a transport equation. Outflow opens the domain walls so
// material leaves freely and nothing comes in.
type Options struct {
	Form    Form
	IBP     IBP
	Outflow bool
}

// Equation evaluates the right hand side dq/dt = L(q; u) of a transport
// equation for the current advecting velocity.
type Equation struct {
	Sp  *fem.Space
	Opt Options
	U   utils.Matrix // advecting velocity nodal values
}

func NewEquation(sp *fem.Space, opt Options) (eq *Equation) {
	if opt.IBP == IBPNever && !sp.Continuous {
		panic(fmt.Errorf("transport without integration by parts needs a continuous space"))
	}
	eq = &Equation{
		Sp:  sp,
		Opt: opt,
		U:   sp.NewStorage(),
	}
	return
}

func (eq *Equation) Space() *fem.Space { return eq.Sp }

// SetVelocity fixes the advecting velocity used by subsequent RHS calls.
func (eq *Equation) SetVelocity(u utils.Matrix) {
	eq.U.AssignFrom(u)
}

// faceState gathers the two-sided trace values at face f (0 left, 1 right)
// of element k. At a closed wall the exterior state mirrors the interior;
// with Outflow it is empty upstream air.
func (eq *Equation) faceState(q utils.Matrix, k, f int) (qM, qP, uM, uf, n float64, wall bool) {
	var (
		Np, K = eq.Sp.Np, eq.Sp.K
		nb    int
		inter bool
	)
	if f == 0 {
		n = -1
		qM = q.DataP[k]
		uM = eq.U.DataP[k]
		nb, inter = eq.Sp.Mesh.LeftNeighbour(k)
		if inter {
			qP = q.DataP[(Np-1)*K+nb]
			uf = 0.5 * (uM + eq.U.DataP[(Np-1)*K+nb])
			return
		}
	} else {
		n = 1
		qM = q.DataP[(Np-1)*K+k]
		uM = eq.U.DataP[(Np-1)*K+k]
		nb, inter = eq.Sp.Mesh.RightNeighbour(k)
		if inter {
			qP = q.DataP[nb]
			uf = 0.5 * (uM + eq.U.DataP[nb])
			return
		}
	}
	wall = true
	uf = uM
	if eq.Opt.Outflow {
		qP = 0
	} else {
		qP = qM
	}
	return
}

// RHS evaluates the transport tendency of q for the current velocity into a
// new matrix.
func (eq *Equation) RHS(q utils.Matrix) (rhs utils.Matrix) {
	switch eq.Opt.IBP {
	case IBPTwice:
		rhs = eq.rhsStrong(q)
	case IBPOnce:
		rhs = eq.rhsWeak(q)
	default:
		rhs = eq.rhsPointwise(q)
	}
	return
}

func (eq *Equation) rhsStrong(q utils.Matrix) (rhs utils.Matrix) {
	var (
		sp = eq.Sp
		K  = sp.K
		du = utils.NewMatrix(2, K)
	)
	if eq.Opt.Form == Advective {
		// -u dq/dx plus the upwind face correction
		rhs = sp.Dr.Mul(q).ElMul(sp.Rx).ElMul(eq.U).Scale(-1)
		for k := 0; k < K; k++ {
			for f := 0; f < 2; f++ {
				qM, qP, _, uf, n, wall := eq.faceState(q, k, f)
				if wall && !eq.Opt.Outflow {
					continue
				}
				un := n * uf
				du.DataP[f*K+k] = (qM - qP) * (un - math.Abs(un)) / 2
			}
		}
		rhs.Add(sp.LIFT.Mul(du.ElMul(sp.FScale)))
		return
	}
	// -d(uq)/dx plus the jump between the owned and upwind face fluxes
	F := eq.U.Copy().ElMul(q)
	rhs = sp.Dr.Mul(F).ElMul(sp.Rx).Scale(-1)
	for k := 0; k < K; k++ {
		for f := 0; f < 2; f++ {
			qM, qP, uM, uf, n, wall := eq.faceState(q, k, f)
			nFM := n * uM * qM
			du.DataP[f*K+k] = nFM - eq.upwindFlux(qM, qP, uf, n, wall)
		}
	}
	rhs.Add(sp.LIFT.Mul(du.ElMul(sp.FScale)))
	return
}

func (eq *Equation) rhsWeak(q utils.Matrix) (rhs utils.Matrix) {
	var (
		sp = eq.Sp
		K  = sp.K
		nF = utils.NewMatrix(2, K)
	)
	// continuity in weak form: Dweak moves the derivative onto the test
	// function, the boundary keeps the upwind flux
	F := eq.U.Copy().ElMul(q)
	rhs = sp.Dweak.Mul(F).ElMul(sp.Rx)
	for k := 0; k < K; k++ {
		for f := 0; f < 2; f++ {
			qM, qP, _, uf, n, wall := eq.faceState(q, k, f)
			nF.DataP[f*K+k] = eq.upwindFlux(qM, qP, uf, n, wall)
		}
	}
	rhs.Subtract(sp.LIFT.Mul(nF.ElMul(sp.FScale)))
	if eq.Opt.Form == Continuity {
		return
	}
	// advective form: u dq/dx = d(uq)/dx - q du/dx
	rhs.Add(eq.divergence().ElMul(q))
	return
}

// rhsPointwise differentiates directly; admissible only when q and u are
// continuous so the face jumps vanish.
func (eq *Equation) rhsPointwise(q utils.Matrix) (rhs utils.Matrix) {
	var (
		sp = eq.Sp
	)
	if eq.Opt.Form == Advective {
		rhs = sp.Dr.Mul(q).ElMul(sp.Rx).ElMul(eq.U).Scale(-1)
		return
	}
	F := eq.U.Copy().ElMul(q)
	rhs = sp.Dr.Mul(F).ElMul(sp.Rx).Scale(-1)
	return
}

// upwindFlux is the normal flux n.F* through a face, taking the upstream
// trace of q.
func (eq *Equation) upwindFlux(qM, qP, uf, n float64, wall bool) float64 {
	if wall && !eq.Opt.Outflow {
		return 0
	}
	un := n * uf
	if un > 0 {
		return un * qM
	}
	return un * qP
}

// divergence computes du/dx with a centred face closure.
func (eq *Equation) divergence() (div utils.Matrix) {
	var (
		sp = eq.Sp
		K  = sp.K
		du = utils.NewMatrix(2, K)
	)
	div = sp.Dr.Mul(eq.U).ElMul(sp.Rx)
	for k := 0; k < K; k++ {
		for f := 0; f < 2; f++ {
			_, _, uM, uf, n, wall := eq.faceState(eq.U, k, f)
			if wall {
				continue
			}
			du.DataP[f*K+k] = n * (uf - uM)
		}
	}
	div.Add(sp.LIFT.Mul(du.ElMul(sp.FScale)))
	return
}
