package vkcompute

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/core1_0"
)

// Buffer is a storage buffer bound to its own host-visible allocation.
type Buffer struct {
	name           string
	size           int
	allocationSize int
	coherent       bool

	device core1_0.Device
	buffer core1_0.Buffer
	memory core1_0.DeviceMemory
}

// CreateStorageBuffer allocates a buffer of size bytes usable as a compute
// storage buffer, backed by memory carrying at least props. The buffer lives
// until the Context is closed.
func (c *Context) CreateStorageBuffer(name string, size int, props core1_0.MemoryPropertyFlags) (*Buffer, error) {
	buffer, _, err := c.device.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       core1_0.BufferUsageStorageBuffer,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "createBuffer %s", name)
	}
	c.releases.push(name+" buffer", func() { buffer.Destroy(nil) })

	memRequirements := buffer.MemoryRequirements()
	memoryTypes := c.devices[c.selected].MemoryTypes
	memoryTypeIndex, err := FindMemoryType(memRequirements.MemoryTypeBits, props, memoryTypes)
	if err != nil {
		return nil, errors.Wrapf(err, "createBuffer %s", name)
	}

	memory, _, err := c.device.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  memRequirements.Size,
		MemoryTypeIndex: memoryTypeIndex,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "allocateMemory %s", name)
	}
	c.releases.push(name+" memory", func() { memory.Free(nil) })

	if _, err = buffer.BindBufferMemory(memory, 0); err != nil {
		return nil, errors.Wrapf(err, "bindBufferMemory %s", name)
	}

	c.log.WithFields(logrus.Fields{
		"buffer":      name,
		"size":        size,
		"allocation":  memRequirements.Size,
		"memory_type": memoryTypeIndex,
	}).Debug("storage buffer created")

	return &Buffer{
		name:           name,
		size:           size,
		allocationSize: memRequirements.Size,
		coherent:       memoryTypes[memoryTypeIndex].PropertyFlags&core1_0.MemoryPropertyHostCoherent != 0,
		device:         c.device,
		buffer:         buffer,
		memory:         memory,
	}, nil
}

func (b *Buffer) Name() string { return b.name }

func (b *Buffer) Size() int { return b.size }

func (b *Buffer) mappedRange() []core1_0.MappedMemoryRange {
	return []core1_0.MappedMemoryRange{
		{
			Memory: b.memory,
			Offset: 0,
			Size:   b.allocationSize,
		},
	}
}

func (b *Buffer) mapMemory() ([]byte, error) {
	memoryPtr, _, err := b.memory.Map(0, b.allocationSize, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "map %s", b.name)
	}

	return unsafe.Slice((*byte)(memoryPtr), b.size), nil
}

// Read maps the buffer and hands fn a view of its contents. The view is only
// valid until fn returns.
func (b *Buffer) Read(fn func(data []byte) error) error {
	data, err := b.mapMemory()
	if err != nil {
		return err
	}
	defer b.memory.Unmap()

	if !b.coherent {
		if _, err = b.device.InvalidateMappedMemoryRanges(b.mappedRange()); err != nil {
			return errors.Wrapf(err, "invalidate %s", b.name)
		}
	}

	return fn(data)
}

// Write copies data to the start of the buffer.
func (b *Buffer) Write(data []byte) error {
	if len(data) > b.size {
		return errors.Newf("write %s: %d bytes do not fit in %d", b.name, len(data), b.size)
	}

	mapped, err := b.mapMemory()
	if err != nil {
		return err
	}
	defer b.memory.Unmap()

	copy(mapped, data)

	if !b.coherent {
		if _, err = b.device.FlushMappedMemoryRanges(b.mappedRange()); err != nil {
			return errors.Wrapf(err, "flush %s", b.name)
		}
	}

	return nil
}
