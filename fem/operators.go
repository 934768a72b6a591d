package fem

import (
	"github.com/gonwp/dycore/utils"
)

// Global operators act on the flattened nodal storage of a field: node (i,k)
// of an Np x K value matrix sits at flat index i*K+k, matching the row-major
// layout of utils.Matrix.

// GlobalIndex maps a (node, element) pair to its flat storage index.
func (sp *Space) GlobalIndex(i, k int) int { return i*sp.K + k }

// DerivativeOperator assembles the global first derivative as a dense matrix:
// per-element differentiation plus a centred face closure coupling each
// element to its neighbours. Wall faces get no closure, leaving the one-sided
// element derivative.
func (sp *Space) DerivativeOperator() (D utils.Matrix) {
	var (
		Np, K = sp.Np, sp.K
		n     = Np * K
		dok   = utils.NewDOK(n, n)
	)
	for k := 0; k < K; k++ {
		for i := 0; i < Np; i++ {
			rx := sp.Rx.DataP[i*K+k]
			for j := 0; j < Np; j++ {
				dok.Accumulate(sp.GlobalIndex(i, k), sp.GlobalIndex(j, k), rx*sp.Dr.DataP[i*Np+j])
			}
		}
		// centred closure: n*(q* - qM) with q* the face average, interior only
		if nb, interior := sp.Mesh.LeftNeighbour(k); interior {
			fs := sp.FScale.DataP[k]
			for i := 0; i < Np; i++ {
				coeff := 0.5 * sp.LIFT.DataP[i*2] * fs
				dok.Accumulate(sp.GlobalIndex(i, k), sp.GlobalIndex(0, k), coeff)
				dok.Accumulate(sp.GlobalIndex(i, k), sp.GlobalIndex(Np-1, nb), -coeff)
			}
		}
		if nb, interior := sp.Mesh.RightNeighbour(k); interior {
			fs := sp.FScale.DataP[K+k]
			for i := 0; i < Np; i++ {
				coeff := -0.5 * sp.LIFT.DataP[i*2+1] * fs
				dok.Accumulate(sp.GlobalIndex(i, k), sp.GlobalIndex(Np-1, k), coeff)
				dok.Accumulate(sp.GlobalIndex(i, k), sp.GlobalIndex(0, nb), -coeff)
			}
		}
	}
	D = dok.ToDense()
	return
}

// ApplyOperator computes y = A q over the flattened nodal storage.
func (sp *Space) ApplyOperator(A, q utils.Matrix) (y utils.Matrix) {
	y = sp.NewStorage()
	qv := utils.NewVector(len(q.DataP), q.DataP)
	yv := utils.NewVector(len(y.DataP), y.DataP)
	yv.V.MulVec(A.M, qv.V)
	return
}

// BoundaryNodes returns the flat indices of the nodes on the domain walls.
// Periodic meshes have none.
func (sp *Space) BoundaryNodes() (ids []int) {
	var (
		Np, K = sp.Np, sp.K
	)
	for k := 0; k < K; k++ {
		if _, interior := sp.Mesh.LeftNeighbour(k); !interior {
			ids = append(ids, sp.GlobalIndex(0, k))
		}
		if _, interior := sp.Mesh.RightNeighbour(k); !interior {
			ids = append(ids, sp.GlobalIndex(Np-1, k))
		}
	}
	return
}
