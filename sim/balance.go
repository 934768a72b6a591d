// Package sim assembles ready to run model configurations: discretely
// balanced initial states and the named cases selected from the input
// parameters.
package sim

import (
	"fmt"

	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/forcing"
	"github.com/gonwp/dycore/thermo"
	"github.com/gonwp/dycore/utils"
)

// HydrostaticExner solves the discrete hydrostatic balance
//
//	cp thetab dPi/dz = -g
//
// for the Exner pressure, using the same derivative operator the compressible
// forcing applies, so the forced velocity tendency of the returned profile
// vanishes to solver accuracy. The profile is anchored by the Exner value at
// the bottom of the column.
func HydrostaticExner(sp *fem.Space, c thermo.Constants, thetab *fem.Function, exnerBottom float64) (exner *fem.Function) {
	var (
		n      = sp.Np * sp.K
		Gz     = sp.DerivativeOperator()
		A      = utils.NewMatrix(n, n)
		b      = utils.NewVector(n)
		tb     = thetab.Data().DataP
		bottom = sp.GlobalIndex(0, 0)
	)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			A.DataP[i*n+j] = c.Cp * tb[i] * Gz.DataP[i*n+j]
		}
		b.DataP[i] = -c.G
	}
	for j := 0; j < n; j++ {
		A.DataP[bottom*n+j] = 0
	}
	A.DataP[bottom*n+bottom] = 1
	b.DataP[bottom] = exnerBottom

	x, err := utils.NewLUSolver(A).Solve(b)
	if err != nil {
		panic(fmt.Errorf("hydrostatic balance solve: %w", err))
	}
	exner = fem.NewFunction("exner", sp)
	copy(exner.Data().DataP, x.DataP)
	return
}

// BalancedDensity inverts the Exner relation pointwise, so the density
// recovered here reproduces the balanced Exner profile exactly when the
// forcing recomputes it.
func BalancedDensity(c thermo.Constants, exner, thetab *fem.Function) (rho *fem.Function) {
	rho = fem.NewFunction("rho", thetab.Sp)
	e := exner.Data().DataP
	tb := thetab.Data().DataP
	for i := range rho.Data().DataP {
		rho.Data().DataP[i] = c.RhoFromExner(e[i], tb[i])
	}
	return
}

// HydrostaticPressure solves dp/dz = b for the Boussinesq pressure, anchored
// at zero at the bottom of the column.
func HydrostaticPressure(sp *fem.Space, b *fem.Function) (p *fem.Function) {
	var (
		n      = sp.Np * sp.K
		Gz     = sp.DerivativeOperator()
		rhs    = utils.NewVector(n, b.Data().DataP).Copy()
		bottom = sp.GlobalIndex(0, 0)
	)
	A := Gz.Copy()
	for j := 0; j < n; j++ {
		A.DataP[bottom*n+j] = 0
	}
	A.DataP[bottom*n+bottom] = 1
	rhs.DataP[bottom] = 0

	x, err := utils.NewLUSolver(A).Solve(rhs)
	if err != nil {
		panic(fmt.Errorf("hydrostatic pressure solve: %w", err))
	}
	p = fem.NewFunction("p", sp)
	copy(p.Data().DataP, x.DataP)
	return
}

// GeostrophicTransverse returns the transverse wind balancing the depth
// gradient, v = (g/f) dD/dx, evaluated with the same upwinded gradient the
// shallow water forcing uses so the balance holds discretely.
func GeostrophicTransverse(sw *forcing.ShallowWater, D, u utils.Matrix, coriolis *fem.Function) (v utils.Matrix) {
	v = sw.UpwindGradient(D, u).Scale(sw.G)
	f := coriolis.Data().DataP
	for i := range v.DataP {
		v.DataP[i] /= f[i]
	}
	return
}
