package matmul

import (
	"bytes"
	"encoding/binary"
	"time"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"

	"github.com/vkngwrapper/compute-tutorial/internal/vkcompute"
)

// WorkgroupSize is the local size of the matmul shader in x and y.
const WorkgroupSize = 16

// Grid returns the workgroup counts covering an n x n product.
func Grid(n int) [3]int {
	g := (n + WorkgroupSize - 1) / WorkgroupSize
	return [3]int{g, g, 1}
}

// GPUMultiplier runs C = A·B through the matmul compute kernel. The shader
// reads A and B from bindings 0 and 1, writes C to binding 2 and takes n as
// its only push constant.
type GPUMultiplier struct {
	VK         *vkcompute.Context
	ShaderPath string
}

func floatBytes(f []float32) []byte {
	if len(f) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), 4*len(f))
}

// Multiply returns the row-major product and the time from submission to
// completion of the dispatch.
func (m *GPUMultiplier) Multiply(a, b []float32, n int) ([]float32, time.Duration, error) {
	if n <= 0 {
		return nil, 0, errors.Newf("invalid dimension %d", n)
	}
	if len(a) != n*n || len(b) != n*n {
		return nil, 0, errors.Newf("matrices of %d and %d elements are not %dx%d", len(a), len(b), n, n)
	}

	size := 4 * n * n
	input := core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent
	output := core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCached

	bufA, err := m.VK.CreateStorageBuffer("matrix A", size, input)
	if err != nil {
		return nil, 0, err
	}
	bufB, err := m.VK.CreateStorageBuffer("matrix B", size, input)
	if err != nil {
		return nil, 0, err
	}
	bufC, err := m.VK.CreateStorageBuffer("matrix C", size, output)
	if err != nil {
		return nil, 0, err
	}

	for _, upload := range []struct {
		buf  *vkcompute.Buffer
		data []float32
	}{{bufA, a}, {bufB, b}} {
		if err = upload.buf.Write(floatBytes(upload.data)); err != nil {
			return nil, 0, errors.Wrapf(err, "upload %s", upload.buf.Name())
		}
	}

	push := &bytes.Buffer{}
	if err = binary.Write(push, common.ByteOrder, uint32(n)); err != nil {
		return nil, 0, errors.Wrap(err, "encode push constants")
	}

	elapsed, err := m.VK.Dispatch(vkcompute.KernelSpec{
		Name:          "matmul",
		ShaderPath:    m.ShaderPath,
		Buffers:       []*vkcompute.Buffer{bufA, bufB, bufC},
		PushConstants: push.Bytes(),
		Groups:        Grid(n),
	})
	if err != nil {
		return nil, elapsed, err
	}

	c := make([]float32, n*n)
	err = bufC.Read(func(data []byte) error {
		copy(floatBytes(c), data)
		return nil
	})
	if err != nil {
		return nil, elapsed, errors.Wrapf(err, "read %s", bufC.Name())
	}

	return c, elapsed, nil
}
