// Package mesh builds the structured interval meshes the dynamical core runs
// on: a periodic interval for horizontal transport and a bounded column for
// vertically extruded domains.
package mesh

import (
	"fmt"

	"github.com/james-bowman/sparse"

	"github.com/gonwp/dycore/utils"
)

type Kind uint8

const (
	PeriodicInterval Kind = iota
	Column
)

func (k Kind) String() string {
	switch k {
	case PeriodicInterval:
		return "periodic interval"
	case Column:
		return "column"
	}
	return "unknown"
}

// Mesh is a 1D element mesh: K elements spanning [XMin,XMax], with vertex
// coordinates VX and element-to-vertex / element-to-element connectivity.
// A Column mesh is the extruded-domain analogue: bounded, with the "bottom"
// boundary at XMin and the "top" at XMax.
type Mesh struct {
	Kind       Kind
	K          int
	XMin, XMax float64
	VX         utils.Vector
	EToV       [][2]int
	EToE       [][2]int // per element: left and right neighbour; own index at a wall
}

func NewPeriodicInterval(xmin, xmax float64, K int) (m *Mesh) {
	m = newInterval(PeriodicInterval, xmin, xmax, K)
	// close the interval into a ring
	m.EToE[0][0] = K - 1
	m.EToE[K-1][1] = 0
	return
}

func NewColumn(zmin, zmax float64, K int) (m *Mesh) {
	m = newInterval(Column, zmin, zmax, K)
	return
}

func newInterval(kind Kind, xmin, xmax float64, K int) (m *Mesh) {
	if K < 2 {
		panic(fmt.Errorf("interval mesh needs at least 2 elements, have %d", K))
	}
	if xmax <= xmin {
		panic(fmt.Errorf("degenerate interval [%g,%g]", xmin, xmax))
	}
	m = &Mesh{
		Kind: kind,
		K:    K,
		XMin: xmin,
		XMax: xmax,
		VX:   utils.NewVector(K + 1),
		EToV: make([][2]int, K),
	}
	for i := 0; i <= K; i++ {
		m.VX.DataP[i] = xmin + (xmax-xmin)*float64(i)/float64(K)
	}
	for k := 0; k < K; k++ {
		m.EToV[k] = [2]int{k, k + 1}
	}
	m.connect()
	return
}

// connect derives element-to-element adjacency from the face-to-vertex
// incidence product. Unmatched faces (walls) connect an element to itself.
func (m *Mesh) connect() {
	var (
		NFaces     = 2
		K          = m.K
		Nv         = K + 1
		TotalFaces = NFaces * K
	)
	SpFToV := sparse.NewDOK(TotalFaces, Nv)
	var sk int
	for k := 0; k < K; k++ {
		for face := 0; face < NFaces; face++ {
			SpFToV.Set(sk, m.EToV[k][face], 1)
			sk++
		}
	}
	SpFToF := sparse.NewCSR(TotalFaces, TotalFaces, nil, nil, nil)
	csr := SpFToV.ToCSR()
	SpFToF.Mul(csr, csr.T())

	m.EToE = make([][2]int, K)
	for k := 0; k < K; k++ {
		m.EToE[k] = [2]int{k, k}
	}
	for i := 0; i < TotalFaces; i++ {
		for j := 0; j < TotalFaces; j++ {
			if i != j && SpFToF.At(i, j) == 1 {
				k1, f1 := i/NFaces, i%NFaces
				k2 := j / NFaces
				m.EToE[k1][f1] = k2
			}
		}
	}
}

// LeftNeighbour returns the element sharing element k's left face, and
// whether that face is interior (shared).
func (m *Mesh) LeftNeighbour(k int) (nb int, interior bool) {
	nb = m.EToE[k][0]
	interior = nb != k
	return
}

func (m *Mesh) RightNeighbour(k int) (nb int, interior bool) {
	nb = m.EToE[k][1]
	interior = nb != k
	return
}

// Length is the domain extent.
func (m *Mesh) Length() float64 { return m.XMax - m.XMin }

// ElementSize returns the extent of element k.
func (m *Mesh) ElementSize(k int) float64 {
	return m.VX.DataP[m.EToV[k][1]] - m.VX.DataP[m.EToV[k][0]]
}
