package vkcompute

import (
	"fmt"
	"image/color"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
)

var (
	dispatchLabelColor = color.RGBA{R: 51, G: 153, B: 255, A: 255}
	readbackLabelColor = color.RGBA{R: 255, G: 170, B: 0, A: 255}
)

type dispatch struct {
	label         string
	pipeline      core1_0.Pipeline
	layout        core1_0.PipelineLayout
	set           core1_0.DescriptorSet
	pushConstants []byte
	groups        [3]int
}

// recordDispatch allocates a one-time-submit command buffer holding a single
// dispatch. The buffer is freed with its pool.
func (c *Context) recordDispatch(d dispatch) (core1_0.CommandBuffer, error) {
	buffers, _, err := c.device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        c.commandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "allocateCommandBuffers")
	}

	buffer := buffers[0]
	_, err = buffer.Begin(core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "begin command buffer")
	}

	if c.debug != nil {
		if err = c.debug.CmdBeginLabel(buffer, d.label, dispatchLabelColor); err != nil {
			return nil, err
		}
	}

	buffer.CmdBindPipeline(core1_0.PipelineBindPointCompute, d.pipeline)
	buffer.CmdBindDescriptorSets(core1_0.PipelineBindPointCompute, d.layout, []core1_0.DescriptorSet{
		d.set,
	}, nil)
	if len(d.pushConstants) > 0 {
		buffer.CmdPushConstants(d.layout, core1_0.StageCompute, 0, d.pushConstants)
	}
	if c.debug != nil {
		groups := fmt.Sprintf("dispatch %dx%dx%d", d.groups[0], d.groups[1], d.groups[2])
		if err = c.debug.CmdInsertLabel(buffer, groups, dispatchLabelColor); err != nil {
			return nil, err
		}
	}
	buffer.CmdDispatch(d.groups[0], d.groups[1], d.groups[2])

	if c.debug != nil {
		c.debug.CmdEndLabel(buffer)
	}

	if _, err = buffer.End(); err != nil {
		return nil, errors.Wrap(err, "end command buffer")
	}

	return buffer, nil
}
