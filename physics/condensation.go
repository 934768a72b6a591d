package physics

import (
	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/state"
	"github.com/gonwp/dycore/thermo"
	"github.com/gonwp/dycore/utils"
)

// Condensation converts water vapour to cloud water and back, adjusting
// potential temperature for the latent heat release. The rate drives the
// vapour towards saturation within one step and is clipped so neither
// species goes negative. With Weak set the rate is computed by an
// over-integrated projection instead of nodal evaluation.
type Condensation struct {
	Sp   *fem.Space
	C    thermo.Constants
	Dt   float64
	Weak bool
	quad *fem.Quadrature
}

func NewCondensation(sp *fem.Space, c thermo.Constants, dt float64, weak bool) (p *Condensation) {
	p = &Condensation{
		Sp:   sp,
		C:    c,
		Dt:   dt,
		Weak: weak,
	}
	if weak {
		p.quad = fem.NewQuadrature(sp, 4)
	}
	return
}

func (p *Condensation) rate(rho, theta, rv float64) float64 {
	var (
		c     = p.C
		exner = c.Exner(rho, theta)
		T     = c.Temperature(theta, exner, rv)
		pr    = c.Pressure(exner)
		L     = c.LatentHeat(T)
		wSat  = c.RSat(T, pr)
	)
	return (rv - wSat) / (p.Dt * (1.0 + L*L*wSat/(c.Cp*c.Rv*T*T)))
}

func (p *Condensation) Apply(x *state.MixedState) {
	var (
		c      = p.C
		dt     = p.Dt
		rho    = x.MustField("rho").Data()
		theta  = x.MustField("theta").Data()
		waterV = x.MustField("water_v").Data()
		waterC = x.MustField("water_c").Data()
	)

	var rate utils.Matrix
	if p.Weak {
		rate = p.quad.ProjectPointwise(func(args []float64) float64 {
			return p.rate(args[0], args[1], args[2])
		}, rho, theta, waterV)
	} else {
		rate = p.Sp.NewStorage()
		for i := range rate.DataP {
			rate.DataP[i] = p.rate(rho.DataP[i], theta.DataP[i], waterV.DataP[i])
		}
	}

	for i := range rate.DataP {
		// clip so negative concentrations don't occur
		r := rate.DataP[i]
		if r < 0 {
			if lim := -waterC.DataP[i] / dt; r < lim {
				r = lim
			}
		} else if lim := waterV.DataP[i] / dt; r > lim {
			r = lim
		}

		var (
			rv    = waterV.DataP[i]
			rc    = waterC.DataP[i]
			exner = c.Exner(rho.DataP[i], theta.DataP[i])
			T     = c.Temperature(theta.DataP[i], exner, rv)
			L     = c.LatentHeat(T)
			rm    = c.Rd + c.Rv*rv
			cpml  = c.Cp + c.Cpv*rv + c.Cpl*rc
			cvml  = c.Cv + c.Cvv*rv + c.Cpl*rc
		)
		theta.DataP[i] *= 1.0 + dt*r*(c.Cv*L/(cvml*c.Cp*T)-c.Rv*c.Cv*cpml/(rm*c.Cp*cvml))
		waterV.DataP[i] = rv - dt*r
		waterC.DataP[i] = rc + dt*r
	}
}
