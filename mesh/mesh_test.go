package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodicInterval(t *testing.T) {
	m := NewPeriodicInterval(0, 2, 10)
	assert.Equal(t, 10, m.K)
	assert.Equal(t, 11, m.VX.Len())
	assert.InDelta(t, 0.2, m.ElementSize(3), 1e-14)
	// interior adjacency
	nb, interior := m.LeftNeighbour(5)
	assert.True(t, interior)
	assert.Equal(t, 4, nb)
	nb, interior = m.RightNeighbour(5)
	assert.True(t, interior)
	assert.Equal(t, 6, nb)
	// periodic wrap
	nb, interior = m.LeftNeighbour(0)
	assert.True(t, interior)
	assert.Equal(t, 9, nb)
	nb, interior = m.RightNeighbour(9)
	assert.True(t, interior)
	assert.Equal(t, 0, nb)
}

func TestColumn(t *testing.T) {
	m := NewColumn(0, 10000, 8)
	assert.Equal(t, Column, m.Kind)
	assert.InDelta(t, 10000, m.Length(), 1e-14)
	// walls connect elements to themselves
	nb, interior := m.LeftNeighbour(0)
	assert.False(t, interior)
	assert.Equal(t, 0, nb)
	nb, interior = m.RightNeighbour(7)
	assert.False(t, interior)
	assert.Equal(t, 7, nb)
	// interior faces match up
	nb, interior = m.RightNeighbour(3)
	assert.True(t, interior)
	assert.Equal(t, 4, nb)
}

func TestDegenerateMeshPanics(t *testing.T) {
	assert.Panics(t, func() { NewColumn(0, 1, 1) })
	assert.Panics(t, func() { NewPeriodicInterval(1, 1, 4) })
}
