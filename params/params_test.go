package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	var p SimulationParameters
	require.NoError(t, p.Parse([]byte(`
Title: gravity wave test
Case: gravity_wave
Dt: 6.0
FinalTime: 3600.0
PolynomialOrder: 3
ElementCount: 10
DomainMin: 0.0
DomainMax: 10000.0
`)))
	assert.Equal(t, "gravity_wave", p.Case)
	assert.Equal(t, 0.5, p.Alpha)
	assert.Equal(t, 2, p.MaxOuterIterations)
	assert.Equal(t, 2, p.MaxInnerIterations)
	assert.Equal(t, "results", p.DumpDirectory)
}

func TestValidateRejectsBadInputs(t *testing.T) {
	base := SimulationParameters{
		Dt:              1,
		FinalTime:       10,
		PolynomialOrder: 2,
		ElementCount:    4,
		DomainMin:       0,
		DomainMax:       1,
	}
	require.NoError(t, base.Validate())

	cases := []struct {
		name   string
		mutate func(*SimulationParameters)
	}{
		{"zero timestep", func(p *SimulationParameters) { p.Dt = 0 }},
		{"final time before first step", func(p *SimulationParameters) { p.FinalTime = 0.5 }},
		{"order zero", func(p *SimulationParameters) { p.PolynomialOrder = 0 }},
		{"single element", func(p *SimulationParameters) { p.ElementCount = 1 }},
		{"degenerate domain", func(p *SimulationParameters) { p.DomainMax = p.DomainMin }},
		{"alpha out of range", func(p *SimulationParameters) { p.Alpha = 1.5 }},
		{"negative dump frequency", func(p *SimulationParameters) { p.DumpFrequency = -1 }},
	}
	for _, tc := range cases {
		p := base
		tc.mutate(&p)
		assert.Error(t, p.Validate(), tc.name)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	var p SimulationParameters
	assert.Error(t, p.Parse([]byte("Dt: [not a number")))
}
