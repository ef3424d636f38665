package mandelbrot

import (
	"bytes"
	"encoding/binary"
	"time"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"

	"github.com/vkngwrapper/compute-tutorial/internal/vkcompute"
)

const pixelSize = int(unsafe.Sizeof(mgl32.Vec4{}))

// GPUTimings splits a GPU render into its dispatch and readback phases.
type GPUTimings struct {
	Dispatch time.Duration
	Readback time.Duration
}

// RenderGPU runs the Mandelbrot kernel at shaderPath over a single storage
// buffer and copies the result out of device memory.
func RenderGPU(vk *vkcompute.Context, shaderPath string, width, height int, log *logrus.Logger) ([]mgl32.Vec4, GPUTimings, error) {
	var timings GPUTimings
	if width <= 0 || height <= 0 {
		return nil, timings, errors.Newf("invalid image size %dx%d", width, height)
	}

	size := width * height * pixelSize
	buffer, err := vk.CreateStorageBuffer("mandelbrot", size, core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCached)
	if err != nil {
		return nil, timings, err
	}

	push := &bytes.Buffer{}
	if err = binary.Write(push, common.ByteOrder, [2]uint32{uint32(width), uint32(height)}); err != nil {
		return nil, timings, errors.Wrap(err, "encode push constants")
	}

	grid := Grid(width, height)
	log.WithFields(logrus.Fields{
		"width":  width,
		"height": height,
		"grid":   grid,
		"buffer": buffer.Name(),
	}).Debug("dispatching mandelbrot kernel")

	timings.Dispatch, err = vk.Dispatch(vkcompute.KernelSpec{
		Name:          "mandelbrot",
		ShaderPath:    shaderPath,
		Buffers:       []*vkcompute.Buffer{buffer},
		PushConstants: push.Bytes(),
		Groups:        grid,
	})
	if err != nil {
		return nil, timings, err
	}

	start := hrtime.Now()
	pixels := make([]mgl32.Vec4, width*height)
	err = buffer.Read(func(data []byte) error {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&pixels[0])), size), data)
		return nil
	})
	timings.Readback = hrtime.Since(start)
	if err != nil {
		return nil, timings, err
	}

	return pixels, timings, nil
}
