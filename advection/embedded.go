package advection

import (
	"fmt"

	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/utils"
)

// EmbeddedDG transports a field through a discontinuous embedding space
// sharing the host space's nodes: values are copied in, advected there, and
// brought back. With Recovered set, or when the host space is continuous,
// the result passes through a Jacobian weighted recovery so interface values
// are single valued again.
type EmbeddedDG struct {
	Host      *fem.Space
	Inner     Scheme
	Recovered bool
	cg        *fem.Space
	work      utils.Matrix
}

func NewEmbeddedDG(host *fem.Space, inner Scheme, recovered bool) (e *EmbeddedDG) {
	if !host.SameShape(inner.Space()) {
		panic(fmt.Errorf("embedding space must share the host space's nodes"))
	}
	e = &EmbeddedDG{
		Host:      host,
		Inner:     inner,
		Recovered: recovered,
		work:      inner.Space().NewStorage(),
	}
	if recovered || host.Continuous {
		if host.Continuous {
			e.cg = host
		} else {
			e.cg = fem.NewContinuousSpace(host.Mesh, host.N)
		}
	}
	return
}

func (e *EmbeddedDG) Space() *fem.Space          { return e.Host }
func (e *EmbeddedDG) SetVelocity(u utils.Matrix) { e.Inner.SetVelocity(u) }

func (e *EmbeddedDG) Advect(q utils.Matrix, dt float64) {
	e.work.AssignFrom(q)
	e.Inner.Advect(e.work, dt)
	if e.cg != nil {
		q.AssignFrom(fem.Recover(e.Inner.Space(), e.cg, e.work))
		return
	}
	q.AssignFrom(e.work)
}
