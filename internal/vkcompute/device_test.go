package vkcompute

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/core1_0"
)

func memoryTypes(flags ...core1_0.MemoryPropertyFlags) []core1_0.MemoryType {
	types := make([]core1_0.MemoryType, 0, len(flags))
	for _, f := range flags {
		types = append(types, core1_0.MemoryType{PropertyFlags: f})
	}
	return types
}

func TestDeviceScore(t *testing.T) {
	discrete := DeviceInfo{
		Type: core1_0.PhysicalDeviceTypeDiscreteGPU,
		MemoryTypes: memoryTypes(
			core1_0.MemoryPropertyDeviceLocal,
			core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent,
			core1_0.MemoryPropertyDeviceLocal|core1_0.MemoryPropertyHostVisible,
		),
	}
	require.Equal(t, 1024+16+2+16+2, discrete.Score())

	integrated := DeviceInfo{Type: core1_0.PhysicalDeviceTypeIntegratedGPU}
	require.Equal(t, 512, integrated.Score())

	other := DeviceInfo{MemoryTypes: memoryTypes(core1_0.MemoryPropertyHostVisible)}
	require.Equal(t, 2, other.Score())
}

func TestSelectDevice(t *testing.T) {
	devices := []DeviceInfo{
		{Name: "llvmpipe", MemoryTypes: memoryTypes(core1_0.MemoryPropertyHostVisible)},
		{Name: "igpu", Type: core1_0.PhysicalDeviceTypeIntegratedGPU, MemoryTypes: memoryTypes(core1_0.MemoryPropertyDeviceLocal)},
		{Name: "dgpu", Type: core1_0.PhysicalDeviceTypeDiscreteGPU},
	}

	idx, err := SelectDevice(devices)
	require.NoError(t, err)
	require.Equal(t, 2, idx)
}

func TestSelectDeviceTieKeepsFirst(t *testing.T) {
	devices := []DeviceInfo{
		{Name: "first", Type: core1_0.PhysicalDeviceTypeIntegratedGPU},
		{Name: "second", Type: core1_0.PhysicalDeviceTypeIntegratedGPU},
	}

	idx, err := SelectDevice(devices)
	require.NoError(t, err)
	require.Equal(t, 0, idx)
}

func TestSelectDeviceEmpty(t *testing.T) {
	_, err := SelectDevice(nil)
	require.True(t, errors.Is(err, ErrNoDevice))
}

func TestComputeQueueFamily(t *testing.T) {
	families := []QueueFamily{
		{Flags: core1_0.QueueGraphics, Count: 1},
		{Flags: core1_0.QueueCompute, Count: 0},
		{Flags: core1_0.QueueCompute | core1_0.QueueTransfer, Count: 2},
		{Flags: core1_0.QueueCompute, Count: 4},
	}

	idx, err := ComputeQueueFamily(families)
	require.NoError(t, err)
	require.Equal(t, 2, idx)

	_, err = ComputeQueueFamily(families[:2])
	require.True(t, errors.Is(err, ErrNoComputeQueue))
}

func TestFindMemoryType(t *testing.T) {
	types := memoryTypes(
		core1_0.MemoryPropertyDeviceLocal,
		core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent,
		core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent|core1_0.MemoryPropertyHostCached,
	)

	idx, err := FindMemoryType(0b111, core1_0.MemoryPropertyHostVisible, types)
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	idx, err = FindMemoryType(0b111, core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCached, types)
	require.NoError(t, err)
	require.Equal(t, 2, idx)

	// Type 1 matches the flags but is excluded by the type bits.
	idx, err = FindMemoryType(0b101, core1_0.MemoryPropertyHostVisible, types)
	require.NoError(t, err)
	require.Equal(t, 2, idx)

	_, err = FindMemoryType(0b001, core1_0.MemoryPropertyHostVisible, types)
	require.True(t, errors.Is(err, ErrNoMemoryType))
}
