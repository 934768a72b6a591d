package state

import "github.com/gonwp/dycore/fem"

// SteadyStateError tracks how far a field has drifted from its initial
// values, for runs expected to hold a balanced state.
type SteadyStateError struct {
	name    string
	initial *fem.Function
	drift   *fem.Function
}

// NewSteadyStateError captures the current values of the named field as the
// reference the drift is measured against.
func NewSteadyStateError(s *State, name string) (d *SteadyStateError) {
	f := s.Xn.MustField(name)
	d = &SteadyStateError{
		name:    name,
		initial: f.Clone(name + "_init"),
		drift:   f.Clone(name + "_error"),
	}
	d.initial.AssignFrom(f)
	return
}

// Field recomputes and returns the drift field.
func (d *SteadyStateError) Field(s *State) *fem.Function {
	d.drift.AssignFrom(s.Xn.MustField(d.name)).Subtract(d.initial)
	return d.drift
}

// LInf is the maximum absolute drift over all components and nodes.
func (d *SteadyStateError) LInf(s *State) (m float64) {
	f := d.Field(s)
	for _, v := range f.Val {
		if lo := -v.Min(); lo > m {
			m = lo
		}
		if hi := v.Max(); hi > m {
			m = hi
		}
	}
	return
}
