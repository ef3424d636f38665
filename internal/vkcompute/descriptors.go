package vkcompute

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
)

// bindBuffers builds a set layout with one storage buffer binding per buffer,
// a pool sized for exactly one set, and that set written with whole-buffer
// ranges. Binding i refers to buffers[i].
func (c *Context) bindBuffers(buffers []*Buffer) (core1_0.DescriptorSetLayout, core1_0.DescriptorSet, error) {
	if len(buffers) == 0 {
		return nil, nil, errors.New("bindBuffers: no buffers to bind")
	}

	bindings := make([]core1_0.DescriptorSetLayoutBinding, 0, len(buffers))
	for i := range buffers {
		bindings = append(bindings, core1_0.DescriptorSetLayoutBinding{
			Binding:         i,
			DescriptorType:  core1_0.DescriptorTypeStorageBuffer,
			DescriptorCount: 1,
			StageFlags:      core1_0.StageCompute,
		})
	}

	layout, _, err := c.device.CreateDescriptorSetLayout(nil, core1_0.DescriptorSetLayoutCreateInfo{
		Bindings: bindings,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "createDescriptorSetLayout")
	}
	c.releases.push("descriptor set layout", func() { layout.Destroy(nil) })

	pool, _, err := c.device.CreateDescriptorPool(nil, core1_0.DescriptorPoolCreateInfo{
		MaxSets: 1,
		PoolSizes: []core1_0.DescriptorPoolSize{
			{
				Type:            core1_0.DescriptorTypeStorageBuffer,
				DescriptorCount: len(buffers),
			},
		},
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "createDescriptorPool")
	}
	c.releases.push("descriptor pool", func() { pool.Destroy(nil) })

	sets, _, err := c.device.AllocateDescriptorSets(core1_0.DescriptorSetAllocateInfo{
		DescriptorPool: pool,
		SetLayouts:     []core1_0.DescriptorSetLayout{layout},
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "allocateDescriptorSets")
	}
	set := sets[0]

	writes := make([]core1_0.WriteDescriptorSet, 0, len(buffers))
	for i, buffer := range buffers {
		writes = append(writes, core1_0.WriteDescriptorSet{
			DstSet:          set,
			DstBinding:      i,
			DstArrayElement: 0,

			DescriptorType: core1_0.DescriptorTypeStorageBuffer,

			BufferInfo: []core1_0.DescriptorBufferInfo{
				{
					Buffer: buffer.buffer,
					Offset: 0,
					Range:  buffer.size,
				},
			},
		})
	}

	if err = c.device.UpdateDescriptorSets(writes, nil); err != nil {
		return nil, nil, errors.Wrap(err, "updateDescriptorSets")
	}

	return layout, set, nil
}
