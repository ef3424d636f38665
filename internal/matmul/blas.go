package matmul

import (
	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

func general(n int, data []float32) blas32.General {
	return blas32.General{Rows: n, Cols: n, Stride: n, Data: data}
}

func vector(data []float32) blas32.Vector {
	return blas32.Vector{N: len(data), Inc: 1, Data: data}
}

// MultiplyBLAS returns the row-major product A·B of two n x n matrices.
func MultiplyBLAS(a, b []float32, n int) ([]float32, error) {
	if n <= 0 {
		return nil, errors.Newf("invalid dimension %d", n)
	}
	if len(a) != n*n || len(b) != n*n {
		return nil, errors.Newf("matrices of %d and %d elements are not %dx%d", len(a), len(b), n, n)
	}

	c := make([]float32, n*n)
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, general(n, a), general(n, b), 0, general(n, c))
	return c, nil
}

// Dot is the BLAS inner product of two equal length vectors.
func Dot(x, y []float32) float32 {
	return blas32.Dot(vector(x), vector(y))
}
