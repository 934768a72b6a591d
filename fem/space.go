// Package fem provides the nodal finite element substrate: Jacobi-Gauss-Lobatto
// reference elements, modal/nodal transforms, differentiation and lifting
// operators, and discrete fields defined on interval meshes.
package fem

import (
	"fmt"

	"github.com/gonwp/dycore/mesh"
	"github.com/gonwp/dycore/utils"
)

// Space is a piecewise polynomial function space of order N on a mesh: Np
// Gauss-Lobatto nodes per element across K elements. Continuous spaces share
// their interface node values; discontinuous spaces duplicate them.
type Space struct {
	Mesh       *mesh.Mesh
	N, Np, K   int
	Continuous bool
	R          utils.Vector // reference element nodes on [-1,1]
	X          utils.Matrix // physical node coordinates, Np x K
	V, Vinv    utils.Matrix // nodal to modal transforms
	Dr, Dweak  utils.Matrix // strong and weak differentiation on the reference element
	LIFT       utils.Matrix // surface lifting, Np x 2
	J, Rx      utils.Matrix // metric terms, Np x K
	FScale     utils.Matrix // inverse face Jacobians, 2 x K
	MassE      utils.Matrix // reference element mass matrix inv(V V')
	MassInvE   utils.Matrix // its inverse V V'
}

func NewSpace(msh *mesh.Mesh, N int) (sp *Space) {
	sp = newSpace(msh, N, false)
	return
}

// NewContinuousSpace builds a space on the same nodes whose fields are
// required to match at element interfaces.
func NewContinuousSpace(msh *mesh.Mesh, N int) (sp *Space) {
	sp = newSpace(msh, N, true)
	return
}

func newSpace(msh *mesh.Mesh, N int, continuous bool) (sp *Space) {
	if N < 1 {
		panic(fmt.Errorf("polynomial order must be at least 1, have %d", N))
	}
	var (
		Np = N + 1
		K  = msh.K
	)
	sp = &Space{
		Mesh:       msh,
		N:          N,
		Np:         Np,
		K:          K,
		Continuous: continuous,
	}
	sp.R, _ = JacobiGL(0, 0, N)
	sp.V = Vandermonde1D(N, sp.R)
	sp.Vinv = sp.V.InverseWithCheck()
	Vr := GradVandermonde1D(sp.R, N)
	sp.Dr = Vr.Mul(sp.Vinv)
	sp.LIFT = Lift1D(sp.V, Np, 2, 1)

	sp.X = utils.NewMatrix(Np, K)
	for k := 0; k < K; k++ {
		xl := msh.VX.DataP[msh.EToV[k][0]]
		h := msh.ElementSize(k)
		for i := 0; i < Np; i++ {
			sp.X.DataP[i*K+k] = xl + 0.5*(sp.R.DataP[i]+1)*h
		}
	}
	sp.J, sp.Rx = GeometricFactors1D(sp.Dr, sp.X)

	sp.FScale = utils.NewMatrix(2, K)
	for k := 0; k < K; k++ {
		sp.FScale.DataP[k] = 1. / sp.J.DataP[k]
		sp.FScale.DataP[K+k] = 1. / sp.J.DataP[(Np-1)*K+k]
	}

	sp.MassInvE = sp.V.Mul(sp.V.Transpose())
	sp.MassE = sp.MassInvE.InverseWithCheck()
	// weak form differentiation: integrate by parts once on the reference element
	sp.Dweak = sp.MassInvE.Mul(sp.Dr.Transpose()).Mul(sp.MassE)
	return
}

// SameShape reports whether two spaces carry fields of identical layout.
func (sp *Space) SameShape(other *Space) bool {
	return sp.Np == other.Np && sp.K == other.K
}

// NewStorage allocates an Np x K nodal value matrix.
func (sp *Space) NewStorage() utils.Matrix {
	return utils.NewMatrix(sp.Np, sp.K)
}

// ElementMean returns the Jacobian-weighted mean of each element's nodal
// values.
func (sp *Space) ElementMean(q utils.Matrix) (mean utils.Vector) {
	var (
		Np, K = sp.Np, sp.K
	)
	mean = utils.NewVector(K)
	qe := utils.NewVector(Np)
	for k := 0; k < K; k++ {
		for i := 0; i < Np; i++ {
			qe.DataP[i] = q.DataP[i*K+k]
		}
		mq := sp.MassE.MulVec(qe)
		var num float64
		for i := 0; i < Np; i++ {
			num += mq.DataP[i]
		}
		// affine elements: J constant per element, volume = 2*J
		mean.DataP[k] = num / 2.
	}
	return
}

// Integral computes the domain integral of the nodal values q.
func (sp *Space) Integral(q utils.Matrix) (total float64) {
	var (
		Np, K = sp.Np, sp.K
	)
	qe := utils.NewVector(Np)
	for k := 0; k < K; k++ {
		for i := 0; i < Np; i++ {
			qe.DataP[i] = q.DataP[i*K+k]
		}
		mq := sp.MassE.MulVec(qe)
		var num float64
		for i := 0; i < Np; i++ {
			num += mq.DataP[i]
		}
		total += num * sp.J.DataP[k]
	}
	return
}
