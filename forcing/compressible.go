package forcing

import (
	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/state"
	"github.com/gonwp/dycore/thermo"
	"github.com/gonwp/dycore/utils"
)

// Compressible forces the vertical velocity of the compressible Euler set
// with the Exner pressure gradient and gravity. Only the u equation gets
// forcing terms.
type Compressible struct {
	Sp  *fem.Space
	C   thermo.Constants
	Gz  utils.Matrix
	Opt Options
}

func NewCompressible(sp *fem.Space, c thermo.Constants, opt Options) (f *Compressible) {
	f = &Compressible{
		Sp:  sp,
		C:   c,
		Gz:  sp.DerivativeOperator(),
		Opt: opt,
	}
	return
}

func (f *Compressible) Apply(scaling float64, xIn, xNL, xOut *state.MixedState, kw Kwargs) {
	var (
		sp     = f.Sp
		u0     = xNL.MustField("u").Data()
		rho0   = xNL.MustField("rho").Data()
		theta0 = xNL.MustField("theta").Data()
		exner  = sp.NewStorage()
	)
	for i := range exner.DataP {
		exner.DataP[i] = f.C.Exner(rho0.DataP[i], theta0.DataP[i])
	}
	uF := sp.ApplyOperator(f.Gz, exner).ElMul(theta0).Scale(-f.C.Cp * scaling)
	uF.AddScalar(-f.C.G * scaling)
	if f.Opt.EulerPoincare {
		uF.AddScaled(kineticEnergyGradient(sp, f.Gz, xNL.MustField("u").Val), scaling)
	}
	if f.Opt.SpongeMu != nil && kw.MuAlpha != 0 {
		uF.AddScaled(f.Opt.SpongeMu.Data().Copy().ElMul(u0), -kw.MuAlpha)
	}
	zeroWalls(sp, uF)

	xOut.AssignFrom(xIn)
	xOut.MustField("u").Data().Add(uF)
}
