package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// Matrix wraps a gonum dense matrix with chainable operations. DataP exposes
// the raw row-major storage for pointwise kernels.
type Matrix struct {
	M     *mat.Dense
	DataP []float64
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v",
				nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{m, m.RawMatrix().Data}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }

func (m Matrix) IsEmpty() bool { return m.M == nil }

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, m.DataP)
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nc, nr)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			R.DataP[j*nr+i] = m.DataP[i*nc+j]
		}
	}
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, _ = m.M.Dims()
		_, ncA = A.M.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return
}

// MulVec multiplies m by the column vector b into a new vector.
func (m Matrix) MulVec(b Vector) (r Vector) {
	var (
		nr, _ = m.Dims()
	)
	r = NewVector(nr)
	r.V.MulVec(m.M, b.V)
	return
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) SetCol(j int, data []float64) Matrix { // Changes receiver
	m.M.SetCol(j, data)
	return m
}

func (m Matrix) Add(A Matrix) Matrix { // Changes receiver
	for i, val := range A.DataP {
		m.DataP[i] += val
	}
	return m
}

func (m Matrix) Subtract(A Matrix) Matrix { // Changes receiver
	for i, val := range A.DataP {
		m.DataP[i] -= val
	}
	return m
}

func (m Matrix) AddScaled(A Matrix, a float64) Matrix { // Changes receiver
	for i, val := range A.DataP {
		m.DataP[i] += a * val
	}
	return m
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	for i := range m.DataP {
		m.DataP[i] *= a
	}
	return m
}

func (m Matrix) AddScalar(a float64) Matrix { // Changes receiver
	for i := range m.DataP {
		m.DataP[i] += a
	}
	return m
}

func (m Matrix) Apply(f func(float64) float64) Matrix { // Changes receiver
	for i, val := range m.DataP {
		m.DataP[i] = f(val)
	}
	return m
}

func (m Matrix) Apply2(f func(float64, float64) float64, A Matrix) Matrix { // Changes receiver
	for i, val := range m.DataP {
		m.DataP[i] = f(val, A.DataP[i])
	}
	return m
}

func (m Matrix) ElMul(A Matrix) Matrix { // Changes receiver
	for i, val := range A.DataP {
		m.DataP[i] *= val
	}
	return m
}

func (m Matrix) ElDiv(A Matrix) Matrix { // Changes receiver
	for i, val := range A.DataP {
		m.DataP[i] /= val
	}
	return m
}

func (m Matrix) Zero() Matrix { // Changes receiver
	for i := range m.DataP {
		m.DataP[i] = 0
	}
	return m
}

func (m Matrix) AssignFrom(A Matrix) Matrix { // Changes receiver
	copy(m.DataP, A.DataP)
	return m
}

func (m Matrix) POW(p int) Matrix { // Changes receiver
	for i, val := range m.DataP {
		m.DataP[i] = POW(val, p)
	}
	return m
}

// Col returns a copy of column j.
func (m Matrix) Col(j int) (v Vector) {
	var (
		nr, nc = m.Dims()
	)
	v = NewVector(nr)
	for i := 0; i < nr; i++ {
		v.DataP[i] = m.DataP[i*nc+j]
	}
	return
}

// Row returns a view of row i.
func (m Matrix) Row(i int) (v Vector) {
	var (
		_, nc = m.Dims()
	)
	v = NewVector(nc, m.DataP[i*nc:(i+1)*nc])
	return
}

func (m Matrix) Min() (min float64) {
	min = math.Inf(1)
	for _, val := range m.DataP {
		if val < min {
			min = val
		}
	}
	return
}

func (m Matrix) Max() (max float64) {
	max = math.Inf(-1)
	for _, val := range m.DataP {
		if val > max {
			max = val
		}
	}
	return
}

func (m Matrix) Inverse() (R Matrix, err error) {
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nr, nc)
	err = R.M.Inverse(m.M)
	return
}

func (m Matrix) InverseWithCheck() (R Matrix) {
	var err error
	if R, err = m.Inverse(); err != nil {
		panic(fmt.Errorf("matrix inversion failed: %w", err))
	}
	return
}

func NewDiagMatrix(n int, data []float64) (R Matrix) {
	R = NewMatrix(n, n)
	for i := 0; i < n; i++ {
		R.DataP[i*n+i] = data[i]
	}
	return
}

func POW(x float64, p int) (y float64) {
	y = 1
	if p < 0 {
		x, p = 1/x, -p
	}
	for i := 0; i < p; i++ {
		y *= x
	}
	return
}
