// Package limiter provides slope limiters applied after each transport stage
// to keep nodal values inside the bounds set by neighbouring element means.
package limiter

import (
	"math"

	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/utils"
)

// Limiter rescales nodal values in place. Implementations preserve each
// element's mean.
type Limiter interface {
	Apply(q utils.Matrix)
}

// VertexBased is the Barth-Jespersen limiter: each element's nodal deviations
// from its mean are scaled so no node exceeds the range of the means of the
// element and its face neighbours.
type VertexBased struct {
	Sp *fem.Space
}

func NewVertexBased(sp *fem.Space) *VertexBased {
	return &VertexBased{Sp: sp}
}

func (l *VertexBased) Apply(q utils.Matrix) {
	limitElements(l.Sp, q, 0, l.Sp.K)
}

// ThetaLimiter is the limiter used for transported thermodynamic fields on a
// column: the interior is limited vertex-based while the wall elements are
// left alone so boundary layer structure is not flattened.
type ThetaLimiter struct {
	Sp *fem.Space
}

func NewThetaLimiter(sp *fem.Space) *ThetaLimiter {
	return &ThetaLimiter{Sp: sp}
}

func (l *ThetaLimiter) Apply(q utils.Matrix) {
	var (
		lo, hi = 0, l.Sp.K
	)
	if _, interior := l.Sp.Mesh.LeftNeighbour(0); !interior {
		lo++
	}
	if _, interior := l.Sp.Mesh.RightNeighbour(l.Sp.K - 1); !interior {
		hi--
	}
	limitElements(l.Sp, q, lo, hi)
}

func limitElements(sp *fem.Space, q utils.Matrix, lo, hi int) {
	var (
		Np, K = sp.Np, sp.K
		mean  = sp.ElementMean(q)
	)
	for k := lo; k < hi; k++ {
		qmin, qmax := mean.DataP[k], mean.DataP[k]
		if nb, interior := sp.Mesh.LeftNeighbour(k); interior {
			qmin = math.Min(qmin, mean.DataP[nb])
			qmax = math.Max(qmax, mean.DataP[nb])
		}
		if nb, interior := sp.Mesh.RightNeighbour(k); interior {
			qmin = math.Min(qmin, mean.DataP[nb])
			qmax = math.Max(qmax, mean.DataP[nb])
		}
		alpha := 1.
		for i := 0; i < Np; i++ {
			dev := q.DataP[i*K+k] - mean.DataP[k]
			switch {
			case dev > 0 && mean.DataP[k]+dev > qmax:
				alpha = math.Min(alpha, (qmax-mean.DataP[k])/dev)
			case dev < 0 && mean.DataP[k]+dev < qmin:
				alpha = math.Min(alpha, (qmin-mean.DataP[k])/dev)
			}
		}
		if alpha < 1 {
			for i := 0; i < Np; i++ {
				q.DataP[i*K+k] = mean.DataP[k] + alpha*(q.DataP[i*K+k]-mean.DataP[k])
			}
		}
	}
}
