package forcing

import (
	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/state"
	"github.com/gonwp/dycore/utils"
)

// Incompressible forces the Euler-Boussinesq set: pressure gradient and
// buoyancy act on the velocity, and on request the pressure field is
// re-diagnosed as the velocity divergence residual.
type Incompressible struct {
	Sp  *fem.Space
	Gz  utils.Matrix
	Opt Options
}

func NewIncompressible(sp *fem.Space, opt Options) (f *Incompressible) {
	f = &Incompressible{
		Sp:  sp,
		Gz:  sp.DerivativeOperator(),
		Opt: opt,
	}
	return
}

func (f *Incompressible) Apply(scaling float64, xIn, xNL, xOut *state.MixedState, kw Kwargs) {
	var (
		sp = f.Sp
		u0 = xNL.MustField("u").Data()
		p0 = xNL.MustField("p").Data()
		b0 = xNL.MustField("b").Data()
	)
	uF := sp.ApplyOperator(f.Gz, p0).Scale(-scaling)
	uF.AddScaled(b0, scaling)
	if f.Opt.EulerPoincare {
		uF.AddScaled(kineticEnergyGradient(sp, f.Gz, xNL.MustField("u").Val), scaling)
	}
	if f.Opt.SpongeMu != nil && kw.MuAlpha != 0 {
		uF.AddScaled(f.Opt.SpongeMu.Data().Copy().ElMul(u0), -kw.MuAlpha)
	}
	zeroWalls(sp, uF)

	var divu utils.Matrix
	if kw.Incompressible {
		divu = sp.ApplyOperator(f.Gz, u0)
	}

	xOut.AssignFrom(xIn)
	xOut.MustField("u").Data().Add(uF)
	if kw.Incompressible {
		xOut.MustField("p").Data().AssignFrom(divu)
	}
}
