// Package timestepper drives the model forward in time. The main scheme is
// the off-centred semi-implicit Crank-Nicolson iteration: explicit forcing,
// advection along a blended velocity, then a fixed number of outer and inner
// iterations each ending in a linear solve for the implicit increment.
package timestepper

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gonwp/dycore/advection"
	"github.com/gonwp/dycore/forcing"
	"github.com/gonwp/dycore/physics"
	"github.com/gonwp/dycore/solver"
	"github.com/gonwp/dycore/state"
	"github.com/gonwp/dycore/utils"
)

// CrankNicolson advances the prognostic state with the semi-implicit scheme.
// The outer and inner iteration counts are fixed configuration, never
// convergence tested.
type CrankNicolson struct {
	State    *state.State
	Forcing  forcing.Forcing
	Solver   solver.TimesteppingSolver
	Schemes  map[string]advection.Scheme
	Physics  []physics.Physics
	Output   *state.Output
	Dt       float64
	Alpha    float64 // off-centering weight of the implicit side
	MaxOuter int
	MaxInner int

	incompressible bool
	ubar           utils.Matrix
}

// Config collects the constructor arguments that have defaults.
type Config struct {
	Dt             float64
	Alpha          float64
	MaxOuter       int
	MaxInner       int
	Incompressible bool
}

func NewCrankNicolson(s *state.State, f forcing.Forcing, sol solver.TimesteppingSolver,
	schemes map[string]advection.Scheme, phys []physics.Physics, out *state.Output, cfg Config) (ts *CrankNicolson) {
	if cfg.Dt <= 0 {
		panic(fmt.Errorf("timestep must be positive, have %g", cfg.Dt))
	}
	if cfg.Alpha == 0 {
		cfg.Alpha = 0.5
	}
	if cfg.MaxOuter == 0 {
		cfg.MaxOuter = 2
	}
	if cfg.MaxInner == 0 {
		cfg.MaxInner = 2
	}
	for name := range schemes {
		s.Xn.MustField(name)
	}
	ts = &CrankNicolson{
		State:          s,
		Forcing:        f,
		Solver:         sol,
		Schemes:        schemes,
		Physics:        phys,
		Output:         out,
		Dt:             cfg.Dt,
		Alpha:          cfg.Alpha,
		MaxOuter:       cfg.MaxOuter,
		MaxInner:       cfg.MaxInner,
		incompressible: cfg.Incompressible,
		ubar:           s.Xn.MustField("u").Sp.NewStorage(),
	}
	return
}

// advect transports every registered field from xstar into xp along ubar.
func (ts *CrankNicolson) advect() {
	s := ts.State
	s.Xp.AssignFrom(s.Xstar)
	for name, scheme := range ts.Schemes {
		scheme.SetVelocity(ts.ubar)
		f := s.Xp.MustField(name)
		for d := 0; d < f.Dim; d++ {
			scheme.Advect(f.Val[d], ts.Dt)
		}
	}
}

// Step advances the state by one timestep.
func (ts *CrankNicolson) Step() {
	var (
		s     = ts.State
		alpha = ts.Alpha
		dt    = ts.Dt
	)
	// explicit forcing: xstar = xn + (1-alpha) dt F(xn)
	ts.Forcing.Apply((1-alpha)*dt, s.Xn, s.Xn, s.Xstar, forcing.Kwargs{})

	s.Xnp1.AssignFrom(s.Xn)
	un := s.Xn.MustField("u").Val[0]
	for outer := 0; outer < ts.MaxOuter; outer++ {
		// advecting velocity blends the two time levels
		ts.ubar.AssignFrom(un).Scale(1 - alpha).
			AddScaled(s.Xnp1.MustField("u").Val[0], alpha)
		ts.advect()

		for inner := 0; inner < ts.MaxInner; inner++ {
			ts.Forcing.Apply(alpha*dt, s.Xp, s.Xnp1, s.Xrhs,
				forcing.Kwargs{MuAlpha: dt, Incompressible: ts.incompressible})
			s.Xrhs.Subtract(s.Xnp1)
			ts.Solver.Solve(s.Xrhs, s.Dy)
			s.Xnp1.Add(s.Dy)
		}
	}
	for _, p := range ts.Physics {
		p.Apply(s.Xnp1)
	}
	s.Advance(dt)
}

// Run steps until tmax, dumping on the output cadence.
func (ts *CrankNicolson) Run(tmax float64) error {
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
	logrus.WithFields(logrus.Fields{
		"time":  ts.State.Time,
		"steps": ts.State.Step,
	}).Info("run finished")
	return nil
}
