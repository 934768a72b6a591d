package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LUSolver holds a one-time LU factorization for repeated solves against the
// same operator. Factorization failure is a construction-time configuration
// error and panics; per-solve failures propagate as errors.
type LUSolver struct {
	lu *mat.LU
	n  int
}

func NewLUSolver(A Matrix) (s *LUSolver) {
	var (
		nr, nc = A.Dims()
	)
	if nr != nc {
		panic(fmt.Errorf("LU factorization requires a square matrix, have %dx%d", nr, nc))
	}
	s = &LUSolver{lu: &mat.LU{}, n: nr}
	s.lu.Factorize(A.M)
	return
}

func (s *LUSolver) Solve(b Vector) (x Vector, err error) {
	x = NewVector(s.n)
	if err = s.lu.SolveVecTo(x.V, false, b.V); err != nil {
		err = fmt.Errorf("linear solve failed: %w", err)
	}
	return
}

// SolveMatrix back-substitutes all columns of B.
func (s *LUSolver) SolveMatrix(B Matrix) (X Matrix, err error) {
	var (
		nr, nc = B.Dims()
	)
	X = NewMatrix(nr, nc)
	if err = s.lu.SolveTo(X.M, false, B.M); err != nil {
		err = fmt.Errorf("linear solve failed: %w", err)
	}
	return
}
