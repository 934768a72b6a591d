package thermo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExnerInversions(t *testing.T) {
	c := NewConstants()
	rho, theta := 1.1, 300.

	exner := c.Exner(rho, theta)
	assert.InDelta(t, rho, c.RhoFromExner(exner, theta), 1.e-12)

	// p = p0 at the reference state rho*Rd*theta = p0
	rho0 := c.P0 / (c.Rd * theta)
	assert.InDelta(t, c.P0, c.Pressure(c.Exner(rho0, theta)), 1.e-6)
}

func TestExnerDerivatives(t *testing.T) {
	c := NewConstants()
	rho, theta := 1.1, 300.
	h := 1.e-6

	dRho := (c.Exner(rho+h, theta) - c.Exner(rho-h, theta)) / (2 * h)
	assert.InDelta(t, dRho, c.ExnerRho(rho, theta), 1.e-8*dRho)

	dTheta := (c.Exner(rho, theta+h) - c.Exner(rho, theta-h)) / (2 * h)
	assert.InDelta(t, dTheta, c.ExnerTheta(rho, theta), 1.e-6*dTheta)
}

func TestTemperature(t *testing.T) {
	c := NewConstants()
	theta, exner := 300., 0.9
	assert.InDelta(t, 270., c.DryTemperature(theta, exner), 1.e-12)
	// moisture lowers the temperature implied by virtual potential temperature
	assert.Less(t, c.Temperature(theta, exner, 0.02), 270.)
	assert.InDelta(t, 270., c.Temperature(theta, exner, 0), 1.e-12)
}

func TestSaturationCurve(t *testing.T) {
	c := NewConstants()
	p := 1.e5
	// warmer air holds more vapour
	assert.Greater(t, c.RSat(300, p), c.RSat(280, p))
	// lower pressure holds more vapour at fixed temperature
	assert.Greater(t, c.RSat(290, 0.8e5), c.RSat(290, 1.e5))
	assert.Greater(t, c.RSat(290, 1.e5), 0.)
	// about 3.8 g/kg at the freezing point and standard pressure
	assert.InDelta(t, 0.00383, c.RSat(c.T0, 1.e5), 1.e-5)
}

func TestLatentHeat(t *testing.T) {
	c := NewConstants()
	assert.InDelta(t, c.Lv0, c.LatentHeat(c.T0), 1.e-12)
	// latent heat decreases with temperature
	assert.Less(t, c.LatentHeat(c.T0+30), c.Lv0)
}
