package vkcompute

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
)

// submitAndWait submits buffer with a fresh fence and blocks until the fence
// signals or the configured timeout passes. The fence never outlives the call.
func (c *Context) submitAndWait(buffer core1_0.CommandBuffer) error {
	fence, _, err := c.device.CreateFence(nil, core1_0.FenceCreateInfo{})
	if err != nil {
		return errors.Wrap(err, "createFence")
	}
	defer fence.Destroy(nil)

	_, err = c.queue.Submit(fence, []core1_0.SubmitInfo{
		{
			CommandBuffers: []core1_0.CommandBuffer{buffer},
		},
	})
	if err != nil {
		return errors.Wrapf(ErrSubmit, "%v", err)
	}

	res, err := c.device.WaitForFences(true, c.opts.FenceTimeout, []core1_0.Fence{fence})
	if err != nil {
		return errors.Wrapf(ErrFenceTimeout, "%v", err)
	}
	if res != core1_0.VKSuccess {
		return errors.Wrapf(ErrFenceTimeout, "waited %s, result %v", c.opts.FenceTimeout, res)
	}

	return nil
}
