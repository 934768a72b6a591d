package physics

import (
	"fmt"

	"github.com/gonwp/dycore/advection"
	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/limiter"
	"github.com/gonwp/dycore/state"
	"github.com/gonwp/dycore/utils"
)

// rainTerminalVelocity is the constant fall speed of the zeroth moment
// parametrisation, in m/s.
const rainTerminalVelocity = 10.

// Fallout sediments rain at its terminal velocity using a full transport
// step through an embedded space with outflow at the domain walls, so rain
// leaves through the bottom.
type Fallout struct {
	Sp     *fem.Space
	Dt     float64
	scheme advection.Scheme
	v      utils.Matrix
}

// NewFallout builds the sedimentation process for the given moment of the
// droplet size distribution. Only the zeroth moment, constant terminal
// velocity, is implemented.
func NewFallout(sp *fem.Space, dt float64, moments int) (p *Fallout) {
	if moments != 0 {
		panic(fmt.Errorf("rain fallout only implements the zeroth distribution moment, got %d", moments))
	}
	emb := fem.NewSpace(sp.Mesh, sp.N)
	eq := advection.NewEquation(emb, advection.Options{
		Form:    advection.Advective,
		IBP:     advection.IBPTwice,
		Outflow: true,
	})
	inner := advection.NewSSPRK3(eq, limiter.NewThetaLimiter(emb))
	p = &Fallout{
		Sp:     sp,
		Dt:     dt,
		scheme: advection.NewEmbeddedDG(sp, inner, false),
		v:      sp.NewStorage(),
	}
	p.v.AddScalar(-rainTerminalVelocity)
	p.scheme.SetVelocity(p.v)
	return
}

func (p *Fallout) Apply(x *state.MixedState) {
	p.scheme.Advect(x.MustField("rain").Data(), p.Dt)
}
