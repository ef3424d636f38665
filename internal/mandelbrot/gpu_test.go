package mandelbrot

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/compute-tutorial/internal/vkcompute"
)

const testShader = "../../shaders/comp.spv"

func TestRenderGPUMatchesCPU(t *testing.T) {
	if _, err := os.Stat(testShader); err != nil {
		t.Skipf("shader not built: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	vk, err := vkcompute.Open(vkcompute.Options{Logger: log, StrictSync: true})
	if err != nil {
		t.Skipf("no usable Vulkan device: %v", err)
	}
	defer vk.Close()

	const width, height = 96, 64
	gpu, _, err := RenderGPU(vk, testShader, width, height, log)
	require.NoError(t, err)
	require.Len(t, gpu, width*height)

	cpu, err := NewRenderer(width, height, 0).Render(context.Background())
	require.NoError(t, err)

	// Drivers may fuse or reorder float ops, so a handful of boundary pixels
	// can land on a neighbouring iteration count.
	differ := 0
	for i := range cpu {
		for k := 0; k < 4; k++ {
			if d := cpu[i][k] - gpu[i][k]; d > 0.05 || d < -0.05 {
				differ++
				break
			}
		}
	}
	require.Less(t, differ, len(cpu)/50)
}
