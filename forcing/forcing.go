// Package forcing computes the non-transport tendencies of each equation
// set: pressure gradient, gravity, buoyancy, Coriolis and sponge terms.
// A Forcing takes xIn, evaluates F at the nonlinear state xNL, and writes
// xOut = xIn + scaling*F(xNL), touching only the velocity field (and, for
// the incompressible set, the diagnosed pressure).
package forcing

import (
	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/state"
	"github.com/gonwp/dycore/utils"
)

// Kwargs are the per-call switches of Apply. MuAlpha scales the sponge term
// independently of the main scaling; Incompressible asks the incompressible
// forcing to refresh the diagnosed pressure.
type Kwargs struct {
	MuAlpha        float64
	Incompressible bool
}

type Forcing interface {
	Apply(scaling float64, xIn, xNL, xOut *state.MixedState, kw Kwargs)
}

// Options are shared construction switches. EulerPoincare adds the kinetic
// energy gradient that pairs with transporting velocity in vector invariant
// form. SpongeMu, when set, is the damping coefficient profile of an upper
// boundary absorbing layer.
type Options struct {
	EulerPoincare bool
	SpongeMu      *fem.Function
}

// zeroWalls enforces the homogeneous Dirichlet condition on a velocity
// increment at the domain walls.
func zeroWalls(sp *fem.Space, uF utils.Matrix) {
	for _, id := range sp.BoundaryNodes() {
		uF.DataP[id] = 0
	}
}

// kineticEnergyGradient is 0.5 d/dx(|u|^2) after integration by parts, the
// Euler-Poincare correction term.
func kineticEnergyGradient(sp *fem.Space, Gz utils.Matrix, uVals []utils.Matrix) (ke utils.Matrix) {
	ke = sp.NewStorage()
	for _, u := range uVals {
		ke.AddScaled(u.Copy().ElMul(u), 0.5)
	}
	ke = sp.ApplyOperator(Gz, ke)
	return
}
