// Package params defines the YAML input parameters of a simulation run.
package params

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// SimulationParameters are obtained from the YAML input file.
type SimulationParameters struct {
	Title              string  `yaml:"Title"`
	Case               string  `yaml:"Case"`
	Dt                 float64 `yaml:"Dt"`
	FinalTime          float64 `yaml:"FinalTime"`
	PolynomialOrder    int     `yaml:"PolynomialOrder"`
	ElementCount       int     `yaml:"ElementCount"`
	DomainMin          float64 `yaml:"DomainMin"`
	DomainMax          float64 `yaml:"DomainMax"`
	Alpha              float64 `yaml:"Alpha"` // semi-implicit off-centering
	MaxOuterIterations int     `yaml:"MaxOuterIterations"`
	MaxInnerIterations int     `yaml:"MaxInnerIterations"`
	DumpFrequency      int     `yaml:"DumpFrequency"` // steps between output dumps, 0 disables
	DumpDirectory      string  `yaml:"DumpDirectory"`
	Limiter            string  `yaml:"Limiter"`
	SpongeLayer        bool    `yaml:"SpongeLayer"`
	SpongeBase         float64 `yaml:"SpongeBase"`   // height where the damping layer starts
	SpongeStrength     float64 `yaml:"SpongeStrength"`
}

func (sp *SimulationParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, sp); err != nil {
		return fmt.Errorf("unable to parse input parameters: %w", err)
	}
	return sp.Validate()
}

// Validate applies defaults and rejects inconsistent inputs.
func (sp *SimulationParameters) Validate() error {
	if sp.Dt <= 0 {
		return fmt.Errorf("timestep must be positive, have %g", sp.Dt)
	}
	if sp.FinalTime < sp.Dt {
		return fmt.Errorf("final time %g is shorter than one step %g", sp.FinalTime, sp.Dt)
	}
	if sp.PolynomialOrder < 1 {
		return fmt.Errorf("polynomial order must be at least 1, have %d", sp.PolynomialOrder)
	}
	if sp.ElementCount < 2 {
		return fmt.Errorf("need at least 2 elements, have %d", sp.ElementCount)
	}
	if sp.DomainMax <= sp.DomainMin {
		return fmt.Errorf("degenerate domain [%g,%g]", sp.DomainMin, sp.DomainMax)
	}
	if sp.Alpha == 0 {
		sp.Alpha = 0.5
	}
	if sp.Alpha < 0 || sp.Alpha > 1 {
		return fmt.Errorf("off-centering parameter must lie in [0,1], have %g", sp.Alpha)
	}
	if sp.MaxOuterIterations == 0 {
		sp.MaxOuterIterations = 2
	}
	if sp.MaxInnerIterations == 0 {
		sp.MaxInnerIterations = 2
	}
	if sp.DumpFrequency < 0 {
		return fmt.Errorf("dump frequency must be non-negative, have %d", sp.DumpFrequency)
	}
	if sp.DumpDirectory == "" {
		sp.DumpDirectory = "results"
	}
	return nil
}

func (sp *SimulationParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", sp.Title)
	fmt.Printf("[%s]\t\t\t= Case\n", sp.Case)
	fmt.Printf("%8.5f\t\t= Dt\n", sp.Dt)
	fmt.Printf("%8.5f\t\t= FinalTime\n", sp.FinalTime)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", sp.PolynomialOrder)
	fmt.Printf("[%d]\t\t\t\t= Element Count\n", sp.ElementCount)
	fmt.Printf("%8.5f\t\t= Alpha\n", sp.Alpha)
	fmt.Printf("[%d,%d]\t\t\t= Outer/Inner Iterations\n", sp.MaxOuterIterations, sp.MaxInnerIterations)
}
