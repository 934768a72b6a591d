// Package solver provides the linear solvers of the semi-implicit step: each
// solves the equation set linearised about its reference profiles for the
// increment dy given the iteration residual xrhs. The operators are
// assembled sparse, densified, and LU factorized once at construction.
package solver

import (
	"github.com/gonwp/dycore/state"
)

// TimesteppingSolver computes dy from the residual state xRHS.
type TimesteppingSolver interface {
	Solve(xRHS, dy *state.MixedState)
}
