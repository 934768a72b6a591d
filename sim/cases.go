package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/gonwp/dycore/advection"
	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/forcing"
	"github.com/gonwp/dycore/limiter"
	"github.com/gonwp/dycore/mesh"
	"github.com/gonwp/dycore/params"
	"github.com/gonwp/dycore/solver"
	"github.com/gonwp/dycore/state"
	"github.com/gonwp/dycore/thermo"
	"github.com/gonwp/dycore/timestepper"
)

// case constants shared by the balanced initial states
const (
	thetaSurface     = 300.   // surface potential temperature, K
	gravityWaveDelta = 0.01   // gravity wave theta perturbation, K
	jetGravity       = 9.80616
	jetDepth         = 1000.  // resting depth of the balanced jet, m
	jetCoriolis      = 1.e-4
	jetAmplitude     = 20.    // depth anomaly of the jet, m
)

// Model is a configured run, ready to step to its final time.
type Model interface {
	Run(tmax float64) error
}

// Build assembles the model named by the Case input parameter.
func Build(p *params.SimulationParameters, log *logrus.Logger) (Model, error) {
	switch p.Case {
	case "gravity_wave":
		return NewGravityWaveColumn(p, log)
	case "incompressible_wave":
		return NewIncompressibleWaveColumn(p, log)
	case "balanced_jet":
		return NewBalancedJet(p, log)
	case "advection_bubble":
		return NewAdvectionBubble(p, log)
	}
	return nil, fmt.Errorf("unknown case %q, have gravity_wave, incompressible_wave, balanced_jet, advection_bubble", p.Case)
}

func newLimiter(sp *fem.Space, name string) (limiter.Limiter, error) {
	switch name {
	case "":
		return nil, nil
	case "vertex":
		return limiter.NewVertexBased(sp), nil
	case "theta":
		return limiter.NewThetaLimiter(sp), nil
	}
	return nil, fmt.Errorf("unknown limiter %q, have vertex, theta", name)
}

func newOutput(p *params.SimulationParameters, log *logrus.Logger) (*state.Output, error) {
	return state.NewOutput(p.DumpDirectory, p.DumpFrequency, log)
}

// spongeProfile is the damping coefficient of the absorbing layer: zero below
// the base height, rising as sin^2 to full strength at the top wall.
func spongeProfile(p *params.SimulationParameters) func(z float64) float64 {
	return func(z float64) float64 {
		if z < p.SpongeBase {
			return 0
		}
		s := math.Sin(0.5 * math.Pi * (z - p.SpongeBase) / (p.DomainMax - p.SpongeBase))
		return p.SpongeStrength * s * s
	}
}

// NewGravityWaveColumn builds the non-hydrostatic gravity wave column: a
// uniformly stratified atmosphere in discrete hydrostatic balance with a
// small potential temperature perturbation.
func NewGravityWaveColumn(p *params.SimulationParameters, log *logrus.Logger) (*timestepper.CrankNicolson, error) {
	var (
		msh = mesh.NewColumn(p.DomainMin, p.DomainMax, p.ElementCount)
		sp  = fem.NewSpace(msh, p.PolynomialOrder)
		c   = thermo.NewConstants()
		L   = p.DomainMax - p.DomainMin
	)
	thetab := fem.NewFunction("theta", sp)
	thetab.Project(func(z float64) float64 {
		return thetaSurface * math.Exp(c.N*c.N*(z-p.DomainMin)/c.G)
	})
	exner := HydrostaticExner(sp, c, thetab, 1)
	rhob := BalancedDensity(c, exner, thetab)

	u := fem.NewFunction("u", sp)
	rho := fem.NewFunction("rho", sp)
	theta := fem.NewFunction("theta", sp)
	rho.AssignFrom(rhob)
	theta.AssignFrom(thetab)
	for i := range theta.Data().DataP {
		z := sp.X.DataP[i]
		theta.Data().DataP[i] += gravityWaveDelta * math.Sin(math.Pi*(z-p.DomainMin)/L)
	}

	s := state.NewState(state.NewMixedState(u, rho, theta))
	s.SetReferenceProfile("rho", rhob)
	s.SetReferenceProfile("theta", thetab)

	opt := forcing.Options{}
	if p.SpongeLayer {
		mu := fem.NewFunction("mu", sp)
		mu.Project(spongeProfile(p))
		opt.SpongeMu = mu
	}

	lim, err := newLimiter(sp, p.Limiter)
	if err != nil {
		return nil, err
	}
	uEq := advection.NewEquation(sp, advection.Options{Form: advection.Advective, IBP: advection.IBPTwice})
	rhoEq := advection.NewEquation(sp, advection.Options{Form: advection.Continuity, IBP: advection.IBPOnce})
	thetaEq := advection.NewEquation(sp, advection.Options{Form: advection.Advective, IBP: advection.IBPTwice})
	schemes := map[string]advection.Scheme{
		"u":     advection.NewSSPRK3(uEq, nil),
		"rho":   advection.NewSSPRK3(rhoEq, nil),
		"theta": advection.NewSSPRK3(thetaEq, lim),
	}

	out, err := newOutput(p, log)
	if err != nil {
		return nil, err
	}
	return timestepper.NewCrankNicolson(s,
		forcing.NewCompressible(sp, c, opt),
		solver.NewCompressible(sp, c, p.Alpha*p.Dt, rhob, thetab),
		schemes, nil, out, timestepper.Config{
			Dt:       p.Dt,
			Alpha:    p.Alpha,
			MaxOuter: p.MaxOuterIterations,
			MaxInner: p.MaxInnerIterations,
		}), nil
}

// NewIncompressibleWaveColumn is the Boussinesq counterpart of the gravity
// wave column: a uniformly stratified buoyancy profile in discrete
// hydrostatic balance with its pressure.
func NewIncompressibleWaveColumn(p *params.SimulationParameters, log *logrus.Logger) (*timestepper.CrankNicolson, error) {
	var (
		msh = mesh.NewColumn(p.DomainMin, p.DomainMax, p.ElementCount)
		sp  = fem.NewSpace(msh, p.PolynomialOrder)
		c   = thermo.NewConstants()
		L   = p.DomainMax - p.DomainMin
	)
	bb := fem.NewFunction("b", sp)
	bb.Project(func(z float64) float64 {
		return c.N * c.N * (z - p.DomainMin)
	})
	pb := HydrostaticPressure(sp, bb)

	u := fem.NewFunction("u", sp)
	pr := fem.NewFunction("p", sp)
	b := fem.NewFunction("b", sp)
	pr.AssignFrom(pb)
	b.AssignFrom(bb)
	for i := range b.Data().DataP {
		z := sp.X.DataP[i]
		b.Data().DataP[i] += gravityWaveDelta * math.Sin(math.Pi*(z-p.DomainMin)/L)
	}

	s := state.NewState(state.NewMixedState(u, pr, b))
	s.SetReferenceProfile("b", bb)
	s.SetReferenceProfile("p", pb)

	opt := forcing.Options{}
	if p.SpongeLayer {
		mu := fem.NewFunction("mu", sp)
		mu.Project(spongeProfile(p))
		opt.SpongeMu = mu
	}

	uEq := advection.NewEquation(sp, advection.Options{Form: advection.Advective, IBP: advection.IBPTwice})
	bEq := advection.NewEquation(sp, advection.Options{Form: advection.Advective, IBP: advection.IBPTwice})
	schemes := map[string]advection.Scheme{
		"u": advection.NewSSPRK3(uEq, nil),
		"b": advection.NewSSPRK3(bEq, nil),
	}

	out, err := newOutput(p, log)
	if err != nil {
		return nil, err
	}
	return timestepper.NewCrankNicolson(s,
		forcing.NewIncompressible(sp, opt),
		solver.NewBoussinesq(sp, p.Alpha*p.Dt, c.N),
		schemes, nil, out, timestepper.Config{
			Dt:             p.Dt,
			Alpha:          p.Alpha,
			MaxOuter:       p.MaxOuterIterations,
			MaxInner:       p.MaxInnerIterations,
			Incompressible: true,
		}), nil
}

// NewBalancedJet builds the rotating shallow water jet: a depth anomaly on a
// periodic interval with the transverse wind set into discrete geostrophic
// balance, so the configuration is steady until perturbed.
func NewBalancedJet(p *params.SimulationParameters, log *logrus.Logger) (*timestepper.CrankNicolson, error) {
	var (
		msh = mesh.NewPeriodicInterval(p.DomainMin, p.DomainMax, p.ElementCount)
		sp  = fem.NewSpace(msh, p.PolynomialOrder)
		L   = p.DomainMax - p.DomainMin
		xc  = 0.5 * (p.DomainMin + p.DomainMax)
	)
	cor := fem.NewFunction("coriolis", sp)
	cor.Project(func(x float64) float64 { return jetCoriolis })

	u := fem.NewVectorFunction("u", sp, 2)
	D := fem.NewFunction("D", sp)
	D.Project(func(x float64) float64 {
		return jetDepth + jetAmplitude*math.Exp(-math.Pow((x-xc)/(L/20), 2))
	})
	sw := forcing.NewShallowWater(sp, jetGravity, cor, forcing.Options{})
	u.Val[1].AssignFrom(GeostrophicTransverse(sw, D.Data(), u.Val[0], cor))

	Dbar := fem.NewFunction("D", sp)
	Dbar.Project(func(x float64) float64 { return jetDepth })

	s := state.NewState(state.NewMixedState(u, D))
	s.SetReferenceProfile("D", Dbar)

	uEq := advection.NewEquation(sp, advection.Options{Form: advection.Advective, IBP: advection.IBPTwice})
	dEq := advection.NewEquation(sp, advection.Options{Form: advection.Continuity, IBP: advection.IBPOnce})
	schemes := map[string]advection.Scheme{
		"u": advection.NewSSPRK3(uEq, nil),
		"D": advection.NewSSPRK3(dEq, nil),
	}

	out, err := newOutput(p, log)
	if err != nil {
		return nil, err
	}
	return timestepper.NewCrankNicolson(s, sw,
		solver.NewShallowWater(sp, p.Alpha*p.Dt, jetGravity, jetDepth),
		schemes, nil, out, timestepper.Config{
			Dt:       p.Dt,
			Alpha:    p.Alpha,
			MaxOuter: p.MaxOuterIterations,
			MaxInner: p.MaxInnerIterations,
		}), nil
}

// NewAdvectionBubble builds the pure transport case: a sharp tracer bubble
// carried once around a periodic interval, arriving back at the final time.
func NewAdvectionBubble(p *params.SimulationParameters, log *logrus.Logger) (*timestepper.PrescribedTransport, error) {
	var (
		msh = mesh.NewPeriodicInterval(p.DomainMin, p.DomainMax, p.ElementCount)
		sp  = fem.NewSpace(msh, p.PolynomialOrder)
		L   = p.DomainMax - p.DomainMin
		xc  = 0.5 * (p.DomainMin + p.DomainMax)
	)
	u := fem.NewFunction("u", sp)
	u.Project(func(x float64) float64 { return L / p.FinalTime })
	q := fem.NewFunction("q", sp)
	q.Project(func(x float64) float64 {
		if math.Abs(x-xc) < L/8 {
			return 1
		}
		return 0
	})

	lim, err := newLimiter(sp, p.Limiter)
	if err != nil {
		return nil, err
	}
	eq := advection.NewEquation(sp, advection.Options{Form: advection.Continuity, IBP: advection.IBPOnce})
	schemes := map[string]advection.Scheme{
		"q": advection.NewSSPRK3(eq, lim),
	}

	s := state.NewState(state.NewMixedState(u, q))
	out, err := newOutput(p, log)
	if err != nil {
		return nil, err
	}
	return timestepper.NewPrescribedTransport(s, schemes, out, p.Dt, nil), nil
}
