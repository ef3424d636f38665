package matmul

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/blas/blas32"
)

const float32Epsilon = 1.1920929e-07

// Mismatch reports the first element of C that disagrees with the exact
// product of two rank-one matrices.
type Mismatch struct {
	Row, Col int
	Expected float32
	Got      float32
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("numerical error: expected C(%d, %d) = %g, found %g", m.Row, m.Col, m.Expected, m.Got)
}

// expected returns C(i,j) of (uA·vAᵀ)(uB·vBᵀ) = uA[i]·(vA·uB)·vB[j].
func expected(a, b Tensor, scal float32, i, j int) float32 {
	return a.U[i] * scal * b.V[j]
}

func checkShape(a, b Tensor, c []float32) error {
	n := len(a.U)
	if len(a.V) != n || len(b.U) != n || len(b.V) != n {
		return errors.New("tensor factors differ in length")
	}
	if len(c) != n*n {
		return errors.Newf("product has %d elements, want %d", len(c), n*n)
	}
	return nil
}

// VerifyRankOne checks every element of the row-major product c against
// the closed form, within 100 ulp of |C(i,j)|. It returns a *Mismatch for the
// first element outside that bound.
func VerifyRankOne(a, b Tensor, c []float32) error {
	if err := checkShape(a, b, c); err != nil {
		return err
	}

	n := len(a.U)
	scal := Dot(a.V, b.U)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := expected(a, b, scal, i, j)
			got := c[i*n+j]
			if math.Abs(float64(want-got)) > 100*math.Abs(float64(got*float32Epsilon)) {
				return &Mismatch{Row: i, Col: j, Expected: want, Got: got}
			}
		}
	}
	return nil
}

// RelativeError is the Frobenius norm of c minus the closed form, relative
// to the norm of the closed form. An element whose squared error exceeds
// 1e-6 is reported as a *Mismatch instead.
func RelativeError(a, b Tensor, c []float32) (float32, error) {
	if err := checkShape(a, b, c); err != nil {
		return 0, err
	}

	n := len(a.U)
	scal := Dot(a.V, b.U)
	exact := make([]float32, n*n)
	diff := make([]float32, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := expected(a, b, scal, i, j)
			delta := c[i*n+j] - want
			if delta*delta > 1e-6 {
				return 0, &Mismatch{Row: i, Col: j, Expected: want, Got: c[i*n+j]}
			}
			exact[i*n+j] = want
			diff[i*n+j] = delta
		}
	}

	norm := blas32.Nrm2(vector(exact))
	if norm == 0 {
		return blas32.Nrm2(vector(diff)), nil
	}
	return blas32.Nrm2(vector(diff)) / norm, nil
}
