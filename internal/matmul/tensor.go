// Package matmul benchmarks the product of two rank-one square matrices, once
// through BLAS on the CPU and once through a Vulkan compute kernel. The
// inputs are outer products u·vᵀ so the exact result is known in closed form.
package matmul

import (
	"math"
)

// Tensor holds the two factors of the rank-one matrix U·Vᵀ.
type Tensor struct {
	U []float32
	V []float32
}

// Matrix returns the row-major n x n outer product.
func (t Tensor) Matrix() []float32 {
	return OuterProduct(t.U, t.V)
}

// TensorVectors builds u[i] = cos(2πi/frequency + phase) and
// v[i] = sin(2πi/frequency + phase).
func TensorVectors(n int, frequency, phase float32) Tensor {
	const twoPi = float32(6.283185307179586)
	t := Tensor{U: make([]float32, n), V: make([]float32, n)}
	for i := 0; i < n; i++ {
		arg := float64(twoPi*float32(i)/frequency + phase)
		t.U[i] = float32(math.Cos(arg))
		t.V[i] = float32(math.Sin(arg))
	}
	return t
}

// BenchmarkVectors returns the A and B factors used by the BLAS benchmark.
func BenchmarkVectors(n int) (a, b Tensor) {
	a = Tensor{U: make([]float32, n), V: make([]float32, n)}
	b = Tensor{U: make([]float32, n), V: make([]float32, n)}

	dim := float64(n)
	for i := 0; i < n; i++ {
		x := float64(i)
		a.U[i] = float32(math.Cos(1.67 * x * math.Pi / dim))
		a.V[i] = float32(math.Sin(2.03*x*math.Pi/dim + 0.25))
		b.U[i] = float32(math.Cos(1.23 * x * x * math.Pi / (7.5 * dim)))
		b.V[i] = float32(math.Sin(0.675 * x / (3.1 * dim)))
	}
	return a, b
}

// GPUVectors returns the A and B factors used by the GPU benchmark.
func GPUVectors(n int) (a, b Tensor) {
	return TensorVectors(n, float32(n)+1, 0.5), TensorVectors(n, 341, 0.25)
}

// OuterProduct returns M with M[i*len(v)+j] = u[i]*v[j].
func OuterProduct(u, v []float32) []float32 {
	m := make([]float32, len(u)*len(v))
	for i, ui := range u {
		row := m[i*len(v) : (i+1)*len(v)]
		for j, vj := range v {
			row[j] = ui * vj
		}
	}
	return m
}
