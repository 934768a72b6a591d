// Package thermo holds the physical constants and pointwise thermodynamic
// expressions of the compressible moist atmosphere.
package thermo

import "math"

// Constants collects the physical parameters of the dry and moist
// compressible equations. Zero values are never valid; use NewConstants.
type Constants struct {
	G     float64 // gravitational acceleration
	N     float64 // Brunt-Vaisala frequency
	Cp    float64 // specific heat of dry air at constant pressure
	Cv    float64 // specific heat of dry air at constant volume
	Rd    float64 // gas constant of dry air
	Rv    float64 // gas constant of water vapour
	Kappa float64 // Rd/cp
	P0    float64 // reference pressure
	Cpl   float64 // specific heat of liquid water
	Cpv   float64 // specific heat of water vapour at constant pressure
	Cvv   float64 // specific heat of water vapour at constant volume
	Lv0   float64 // latent heat of vaporisation at T0
	T0    float64 // reference temperature
	WSat1 float64 // saturation curve fit coefficients
	WSat2 float64
	WSat3 float64
	WSat4 float64
}

func NewConstants() Constants {
	return Constants{
		G:     9.810616,
		N:     0.01,
		Cp:    1004.5,
		Cv:    717.5,
		Rd:    287.,
		Rv:    461.,
		Kappa: 2.0 / 7.0,
		P0:    1000.0 * 100.0,
		Cpl:   4186.,
		Cpv:   1885.,
		Cvv:   1424.,
		Lv0:   2.5e6,
		T0:    273.15,
		WSat1: 380.3,
		WSat2: -17.27,
		WSat3: 35.86,
		WSat4: 610.9,
	}
}

// Exner returns the Exner pressure for density rho and virtual potential
// temperature thetaV.
func (c Constants) Exner(rho, thetaV float64) float64 {
	return math.Pow(rho*c.Rd*thetaV/c.P0, c.Kappa/(1-c.Kappa))
}

// ExnerRho is the partial derivative of the Exner pressure with respect to
// density.
func (c Constants) ExnerRho(rho, thetaV float64) float64 {
	return c.Kappa / (1 - c.Kappa) * c.Exner(rho, thetaV) / rho
}

// ExnerTheta is the partial derivative of the Exner pressure with respect to
// potential temperature.
func (c Constants) ExnerTheta(rho, thetaV float64) float64 {
	return c.Kappa / (1 - c.Kappa) * c.Exner(rho, thetaV) / thetaV
}

// Pressure recovers pressure from the Exner function.
func (c Constants) Pressure(exner float64) float64 {
	return c.P0 * math.Pow(exner, 1/c.Kappa)
}

// RhoFromExner inverts the Exner relation for density at a given potential
// temperature.
func (c Constants) RhoFromExner(exner, thetaV float64) float64 {
	return c.P0 * math.Pow(exner, (1-c.Kappa)/c.Kappa) / (c.Rd * thetaV)
}

// Temperature computes absolute temperature from virtual potential
// temperature, Exner pressure and the water vapour mixing ratio.
func (c Constants) Temperature(thetaV, exner, rV float64) float64 {
	return thetaV * exner / (1 + rV*c.Rv/c.Rd)
}

// DryTemperature is the dry limit of Temperature.
func (c Constants) DryTemperature(theta, exner float64) float64 {
	return theta * exner
}

// RSat is the saturation mixing ratio at temperature T and pressure p,
// using the Tetens fit.
func (c Constants) RSat(T, p float64) float64 {
	return c.WSat1 / (p*math.Exp(c.WSat2*(T-c.T0)/(T-c.WSat3)) - c.WSat4)
}

// LatentHeat is the temperature dependent latent heat of vaporisation.
func (c Constants) LatentHeat(T float64) float64 {
	return c.Lv0 - (c.Cpl-c.Cpv)*(T-c.T0)
}
