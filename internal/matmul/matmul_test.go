package matmul

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOuterProduct(t *testing.T) {
	m := OuterProduct([]float32{1, 2}, []float32{3, 4, 5})
	require.Equal(t, []float32{3, 4, 5, 6, 8, 10}, m)
}

func TestTensorVectors(t *testing.T) {
	tv := TensorVectors(8, 8, 0)
	require.Len(t, tv.U, 8)
	require.InDelta(t, 1, tv.U[0], 1e-6)
	require.InDelta(t, 0, tv.V[0], 1e-6)
	require.InDelta(t, 0, tv.U[2], 1e-6)
	require.InDelta(t, 1, tv.V[2], 1e-6)

	for i := range tv.U {
		require.InDelta(t, 1, tv.U[i]*tv.U[i]+tv.V[i]*tv.V[i], 1e-5)
	}
}

func TestBenchmarkVectors(t *testing.T) {
	a, b := BenchmarkVectors(64)
	require.Len(t, a.U, 64)
	require.InDelta(t, 1, a.U[0], 1e-6)
	require.InDelta(t, math.Sin(0.25), a.V[0], 1e-6)
	require.InDelta(t, 1, b.U[0], 1e-6)
	require.InDelta(t, 0, b.V[0], 1e-6)
	require.InDelta(t, math.Cos(1.67*10*math.Pi/64), a.U[10], 1e-6)
}

// positiveTensor keeps every product term positive, so float32 summation
// stays well inside the verification bound.
func positiveTensor(n int, scale float32) Tensor {
	tv := Tensor{U: make([]float32, n), V: make([]float32, n)}
	for i := 0; i < n; i++ {
		tv.U[i] = scale * float32(i+1) / float32(n)
		tv.V[i] = 1
	}
	return tv
}

func TestMultiplyBLAS(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{5, 6, 7, 8}

	c, err := MultiplyBLAS(a, b, 2)
	require.NoError(t, err)
	require.Equal(t, []float32{19, 22, 43, 50}, c)

	_, err = MultiplyBLAS(a, b[:3], 2)
	require.Error(t, err)
	_, err = MultiplyBLAS(nil, nil, 0)
	require.Error(t, err)
}

func TestVerifyRankOne(t *testing.T) {
	const n = 16
	a := positiveTensor(n, 1)
	b := Tensor{U: make([]float32, n), V: make([]float32, n)}
	for i := range b.U {
		b.U[i] = 0.5
		b.V[i] = float32(i+1) / 4
	}

	c, err := MultiplyBLAS(a.Matrix(), b.Matrix(), n)
	require.NoError(t, err)
	require.NoError(t, VerifyRankOne(a, b, c))

	c[5*n+7] *= 1.01
	err = VerifyRankOne(a, b, c)
	var mismatch *Mismatch
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, 5, mismatch.Row)
	require.Equal(t, 7, mismatch.Col)
}

func TestVerifyRankOneShape(t *testing.T) {
	a := positiveTensor(4, 1)
	require.Error(t, VerifyRankOne(a, a, make([]float32, 15)))
	require.Error(t, VerifyRankOne(a, positiveTensor(3, 1), make([]float32, 16)))
}

func TestRelativeError(t *testing.T) {
	const n = 8
	a := positiveTensor(n, 1)
	b := positiveTensor(n, 0.5)

	c, err := MultiplyBLAS(a.Matrix(), b.Matrix(), n)
	require.NoError(t, err)

	rel, err := RelativeError(a, b, c)
	require.NoError(t, err)
	require.Less(t, rel, float32(1e-6))

	c[3] += 0.0005
	rel, err = RelativeError(a, b, c)
	require.NoError(t, err)
	require.Greater(t, rel, float32(1e-5))

	c[3] += 1
	_, err = RelativeError(a, b, c)
	var mismatch *Mismatch
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, 0, mismatch.Row)
	require.Equal(t, 3, mismatch.Col)
}

func TestGrid(t *testing.T) {
	require.Equal(t, [3]int{64, 64, 1}, Grid(1024))
	require.Equal(t, [3]int{7, 7, 1}, Grid(100))
	require.Equal(t, [3]int{1, 1, 1}, Grid(1))
}

func TestGFlops(t *testing.T) {
	require.InDelta(t, 1.0, GFlops(1024, time.Second), 1e-9)
	require.InDelta(t, 2.0, GFlops(1024, 500*time.Millisecond), 1e-9)
	require.Zero(t, GFlops(1024, 0))
}

func TestWriteReport(t *testing.T) {
	buf := &bytes.Buffer{}
	WriteReport(buf, []Result{
		{Backend: "blas", Dim: 256, Elapsed: 20 * time.Millisecond, Verified: true},
		{Backend: "vulkan", Dim: 256, Elapsed: 5 * time.Millisecond, RelError: 1e-7, Verified: false},
	})

	out := buf.String()
	require.Contains(t, out, "blas")
	require.Contains(t, out, "vulkan")
	require.Contains(t, out, "passed")
	require.Contains(t, out, "FAILED")
}
