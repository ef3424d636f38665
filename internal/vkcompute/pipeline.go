package vkcompute

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
)

func (c *Context) createComputePipeline(code []uint32, setLayout core1_0.DescriptorSetLayout, pushConstantSize int) (core1_0.PipelineLayout, core1_0.Pipeline, error) {
	shader, _, err := c.device.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: code,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "createShaderModule")
	}
	defer shader.Destroy(nil)

	layoutInfo := core1_0.PipelineLayoutCreateInfo{
		SetLayouts: []core1_0.DescriptorSetLayout{setLayout},
	}
	if pushConstantSize > 0 {
		layoutInfo.PushConstantRanges = []core1_0.PushConstantRange{
			{
				StageFlags: core1_0.StageCompute,
				Offset:     0,
				Size:       pushConstantSize,
			},
		}
	}

	layout, _, err := c.device.CreatePipelineLayout(nil, layoutInfo)
	if err != nil {
		return nil, nil, errors.Wrap(err, "createPipelineLayout")
	}
	c.releases.push("pipeline layout", func() { layout.Destroy(nil) })

	pipelines, _, err := c.device.CreateComputePipelines(nil, nil, []core1_0.ComputePipelineCreateInfo{
		{
			Stage: core1_0.PipelineShaderStageCreateInfo{
				Stage:  core1_0.StageCompute,
				Module: shader,
				Name:   "main",
			},
			Layout:            layout,
			BasePipelineIndex: -1,
		},
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "createComputePipelines")
	}
	pipeline := pipelines[0]
	c.releases.push("compute pipeline", func() { pipeline.Destroy(nil) })

	return layout, pipeline, nil
}
