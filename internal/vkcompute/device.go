package vkcompute

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_portability_subset"
)

// DeviceInfo is the part of a physical device's properties that device
// selection looks at.
type DeviceInfo struct {
	Name          string
	Type          core1_0.PhysicalDeviceType
	MemoryTypes   []core1_0.MemoryType
	QueueFamilies []QueueFamily
}

type QueueFamily struct {
	Flags core1_0.QueueFlags
	Count int
}

func describeDevice(device core1_0.PhysicalDevice) (DeviceInfo, error) {
	properties, err := device.Properties()
	if err != nil {
		return DeviceInfo{}, errors.Wrap(err, "describeDevice: properties")
	}

	info := DeviceInfo{
		Name: properties.DriverName,
		Type: properties.DriverType,
	}
	info.MemoryTypes = append(info.MemoryTypes, device.MemoryProperties().MemoryTypes...)

	for _, family := range device.QueueFamilyProperties() {
		info.QueueFamilies = append(info.QueueFamilies, QueueFamily{
			Flags: family.QueueFlags,
			Count: family.QueueCount,
		})
	}

	return info, nil
}

// Score ranks a device: discrete beats integrated, and every device-local or
// host-visible memory type adds a little.
func (d DeviceInfo) Score() int {
	score := 0
	switch d.Type {
	case core1_0.PhysicalDeviceTypeDiscreteGPU:
		score += 1024
	case core1_0.PhysicalDeviceTypeIntegratedGPU:
		score += 512
	}

	for _, memoryType := range d.MemoryTypes {
		if memoryType.PropertyFlags&core1_0.MemoryPropertyDeviceLocal != 0 {
			score += 16
		}
		if memoryType.PropertyFlags&core1_0.MemoryPropertyHostVisible != 0 {
			score += 2
		}
	}

	return score
}

// SelectDevice returns the index of the highest scoring device. Ties go to
// the device enumerated first.
func SelectDevice(devices []DeviceInfo) (int, error) {
	if len(devices) == 0 {
		return -1, ErrNoDevice
	}

	best, bestScore := 0, devices[0].Score()
	for i := 1; i < len(devices); i++ {
		if score := devices[i].Score(); score > bestScore {
			best, bestScore = i, score
		}
	}

	return best, nil
}

// ComputeQueueFamily returns the first family that exposes at least one
// queue with compute support.
func ComputeQueueFamily(families []QueueFamily) (int, error) {
	for i, family := range families {
		if family.Count > 0 && family.Flags&core1_0.QueueCompute != 0 {
			return i, nil
		}
	}

	return -1, ErrNoComputeQueue
}

// FindMemoryType scans memoryTypes for the first type allowed by typeBits
// that carries every flag in properties.
func FindMemoryType(typeBits uint32, properties core1_0.MemoryPropertyFlags, memoryTypes []core1_0.MemoryType) (int, error) {
	for i, memoryType := range memoryTypes {
		typeBit := uint32(1 << i)

		if typeBits&typeBit != 0 && memoryType.PropertyFlags&properties == properties {
			return i, nil
		}
	}

	return -1, errors.Wrapf(ErrNoMemoryType, "type bits %#x, properties %v", typeBits, properties)
}

func createLogicalDevice(physicalDevice core1_0.PhysicalDevice, queueFamily int) (core1_0.Device, core1_0.Queue, error) {
	var extensionNames []string

	extensions, _, err := physicalDevice.EnumerateDeviceExtensionProperties()
	if err != nil {
		return nil, nil, errors.Wrap(err, "createLogicalDevice: enumerate extensions")
	}

	if _, supported := extensions[khr_portability_subset.ExtensionName]; supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	device, _, err := physicalDevice.CreateDevice(nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos: []core1_0.DeviceQueueCreateInfo{
			{
				QueueFamilyIndex: queueFamily,
				QueuePriorities:  []float32{1.0},
			},
		},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "createLogicalDevice")
	}

	return device, device.GetQueue(queueFamily, 0), nil
}
