package forcing

import (
	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/state"
	"github.com/gonwp/dycore/utils"
)

// ShallowWater forces the rotating shallow water set on a periodic interval:
// the Coriolis term couples the two velocity components and the depth
// gradient, upwinded at element faces, drives the along-domain component.
type ShallowWater struct {
	Sp  *fem.Space
	G   float64
	F   *fem.Function // Coriolis parameter profile
	Opt Options
	Gx  utils.Matrix
}

func NewShallowWater(sp *fem.Space, g float64, coriolis *fem.Function, opt Options) (f *ShallowWater) {
	f = &ShallowWater{
		Sp:  sp,
		G:   g,
		F:   coriolis,
		Opt: opt,
		Gx:  sp.DerivativeOperator(),
	}
	return
}

// UpwindGradient differentiates D in weak form, taking the upstream trace at
// element faces as selected by the advecting velocity u.
func (f *ShallowWater) UpwindGradient(D, u utils.Matrix) (grad utils.Matrix) {
	var (
		sp    = f.Sp
		Np, K = sp.Np, sp.K
		dHat  = utils.NewMatrix(2, K)
	)
	grad = sp.Dweak.Mul(D).ElMul(sp.Rx).Scale(-1)
	for k := 0; k < K; k++ {
		// left face
		nb, _ := sp.Mesh.LeftNeighbour(k)
		dM, dP := D.DataP[k], D.DataP[(Np-1)*K+nb]
		uf := 0.5 * (u.DataP[k] + u.DataP[(Np-1)*K+nb])
		if -uf > 0 {
			dHat.DataP[k] = -dM
		} else {
			dHat.DataP[k] = -dP
		}
		// right face
		nb, _ = sp.Mesh.RightNeighbour(k)
		dM, dP = D.DataP[(Np-1)*K+k], D.DataP[nb]
		uf = 0.5 * (u.DataP[(Np-1)*K+k] + u.DataP[nb])
		if uf > 0 {
			dHat.DataP[K+k] = dM
		} else {
			dHat.DataP[K+k] = dP
		}
	}
	grad.Add(sp.LIFT.Mul(dHat.ElMul(sp.FScale)))
	return
}

func (f *ShallowWater) Apply(scaling float64, xIn, xNL, xOut *state.MixedState, kw Kwargs) {
	var (
		sp = f.Sp
		uv = xNL.MustField("u")
		u0 = uv.Val[0]
		v0 = uv.Val[1]
		D0 = xNL.MustField("D").Data()
	)
	uF := f.UpwindGradient(D0, u0).Scale(-f.G)
	uF.Add(f.F.Data().Copy().ElMul(v0))
	if f.Opt.EulerPoincare {
		uF.Add(kineticEnergyGradient(sp, f.Gx, uv.Val))
	}
	vF := f.F.Data().Copy().ElMul(u0).Scale(-1)

	// the whole forcing is scaled after assembly
	uF.Scale(scaling)
	vF.Scale(scaling)

	xOut.AssignFrom(xIn)
	out := xOut.MustField("u")
	out.Val[0].Add(uF)
	out.Val[1].Add(vF)
}
