// Package state holds the prognostic model state: the named field container,
// the working copies used by the semi-implicit timestepping loop, reference
// profiles, and the output and restart machinery.
package state

import (
	"fmt"

	"github.com/gonwp/dycore/fem"
)

// MixedState is an ordered, named collection of prognostic fields. All
// working copies of the state share one structure: same names, same order,
// same shapes.
type MixedState struct {
	Fields []*fem.Function
	byName map[string]int
}

func NewMixedState(fields ...*fem.Function) (ms *MixedState) {
	ms = &MixedState{
		Fields: fields,
		byName: make(map[string]int),
	}
	for i, f := range fields {
		if _, dup := ms.byName[f.Name]; dup {
			panic(fmt.Errorf("duplicate field name %q", f.Name))
		}
		ms.byName[f.Name] = i
	}
	return
}

// Field looks a field up by name.
func (ms *MixedState) Field(name string) (*fem.Function, error) {
	i, ok := ms.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown field %q", name)
	}
	return ms.Fields[i], nil
}

// MustField is Field for names the caller registered itself.
func (ms *MixedState) MustField(name string) *fem.Function {
	f, err := ms.Field(name)
	if err != nil {
		panic(err)
	}
	return f
}

func (ms *MixedState) Has(name string) bool {
	_, ok := ms.byName[name]
	return ok
}

func (ms *MixedState) Names() (names []string) {
	names = make([]string, len(ms.Fields))
	for i, f := range ms.Fields {
		names[i] = f.Name
	}
	return
}

// Clone allocates a structurally identical state with zeroed values.
func (ms *MixedState) Clone() (r *MixedState) {
	fields := make([]*fem.Function, len(ms.Fields))
	for i, f := range ms.Fields {
		fields[i] = f.Clone(f.Name)
	}
	r = NewMixedState(fields...)
	return
}

// SameStructure reports whether two states can be combined field by field.
func (ms *MixedState) SameStructure(other *MixedState) bool {
	if len(ms.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range ms.Fields {
		g := other.Fields[i]
		if f.Name != g.Name || f.Dim != g.Dim || !f.Sp.SameShape(g.Sp) {
			return false
		}
	}
	return true
}

func (ms *MixedState) mustMatch(other *MixedState) {
	if !ms.SameStructure(other) {
		panic(fmt.Errorf("mixed states have different structures"))
	}
}

func (ms *MixedState) AssignFrom(other *MixedState) *MixedState {
	ms.mustMatch(other)
	for i, f := range ms.Fields {
		f.AssignFrom(other.Fields[i])
	}
	return ms
}

func (ms *MixedState) Zero() *MixedState {
	for _, f := range ms.Fields {
		f.Zero()
	}
	return ms
}

func (ms *MixedState) Add(other *MixedState) *MixedState {
	ms.mustMatch(other)
	for i, f := range ms.Fields {
		f.Add(other.Fields[i])
	}
	return ms
}

func (ms *MixedState) Subtract(other *MixedState) *MixedState {
	ms.mustMatch(other)
	for i, f := range ms.Fields {
		f.Subtract(other.Fields[i])
	}
	return ms
}

func (ms *MixedState) AddScaled(other *MixedState, a float64) *MixedState {
	ms.mustMatch(other)
	for i, f := range ms.Fields {
		f.AddScaled(other.Fields[i], a)
	}
	return ms
}

// State carries the full prognostic state through a run: Xn is the solution
// at the current time level, Xnp1 at the next, and Xstar, Xp, Xrhs, Dy are
// the working copies of the semi-implicit iteration.
type State struct {
	Xn, Xstar, Xp, Xnp1, Xrhs, Dy *MixedState
	References                    map[string]*fem.Function
	Time                          float64
	Step                          int
}

// NewState builds the working copies around the initialised fields in xn.
func NewState(xn *MixedState) (s *State) {
	s = &State{
		Xn:         xn,
		Xstar:      xn.Clone(),
		Xp:         xn.Clone(),
		Xnp1:       xn.Clone(),
		Xrhs:       xn.Clone(),
		Dy:         xn.Clone(),
		References: make(map[string]*fem.Function),
	}
	return
}

// SetReferenceProfile registers the background profile a prognostic field is
// linearised about. The stored copy is named with a "bar" suffix so it can be
// dumped alongside the field itself.
func (s *State) SetReferenceProfile(name string, profile *fem.Function) *fem.Function {
	f := s.Xn.MustField(name)
	bar := f.Clone(name + "bar")
	bar.AssignFrom(profile)
	s.References[name] = bar
	return bar
}

// Reference returns the profile registered for a field.
func (s *State) Reference(name string) (*fem.Function, error) {
	bar, ok := s.References[name]
	if !ok {
		return nil, fmt.Errorf("no reference profile for field %q", name)
	}
	return bar, nil
}

// Advance promotes the next time level to the current one.
func (s *State) Advance(dt float64) {
	s.Xn.AssignFrom(s.Xnp1)
	s.Time += dt
	s.Step++
}
