package timestepper

import (
	"github.com/gonwp/dycore/advection"
	"github.com/gonwp/dycore/state"
	"github.com/gonwp/dycore/utils"
)

// PrescribedTransport advances passive fields along a given velocity, used
// for pure advection experiments. The velocity callback, when set, refreshes
// the advecting field each step for time varying flows.
type PrescribedTransport struct {
	State    *state.State
	Schemes  map[string]advection.Scheme
	Output   *state.Output
	Dt       float64
	Velocity func(t float64, u utils.Matrix)
}

func NewPrescribedTransport(s *state.State, schemes map[string]advection.Scheme,
	out *state.Output, dt float64, vel func(t float64, u utils.Matrix)) (ts *PrescribedTransport) {
	for name := range schemes {
		s.Xn.MustField(name)
	}
	ts = &PrescribedTransport{
		State:    s,
		Schemes:  schemes,
		Output:   out,
		Dt:       dt,
		Velocity: vel,
	}
	return
}

func (ts *PrescribedTransport) Step() {
	s := ts.State
	u := s.Xn.MustField("u").Val[0]
	if ts.Velocity != nil {
		ts.Velocity(s.Time, u)
	}
	s.Xnp1.AssignFrom(s.Xn)
	for name, scheme := range ts.Schemes {
		scheme.SetVelocity(u)
		f := s.Xnp1.MustField(name)
		for d := 0; d < f.Dim; d++ {
			scheme.Advect(f.Val[d], ts.Dt)
		}
	}
	s.Advance(ts.Dt)
}

func (ts *PrescribedTransport) Run(tmax float64) error {
	if ts.Output != nil {
		if err := ts.Output.Dump(ts.State); err != nil {
			return err
		}
	}
	for ts.State.Time < tmax-0.5*ts.Dt {
		ts.Step()
		if ts.Output != nil {
			if err := ts.Output.Dump(ts.State); err != nil {
				return err
			}
		}
	}
	return nil
}
