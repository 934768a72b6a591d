// Package physics holds the moist microphysics processes applied at the end
// of each timestep: phase changes between vapour, cloud water and rain, and
// rain sedimentation. Every process clips its rate so no species goes
// negative regardless of the step size.
package physics

import (
	"github.com/gonwp/dycore/state"
)

// Physics updates prognostic fields in place at the end of a step.
type Physics interface {
	Apply(x *state.MixedState)
}
