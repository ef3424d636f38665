package vkcompute

import "github.com/cockroachdb/errors"

var (
	ErrNoDevice               = errors.New("no Vulkan device capable of compute was found")
	ErrNoComputeQueue         = errors.New("device lacks a compute queue family")
	ErrNoMemoryType           = errors.New("no memory type satisfies the requested properties")
	ErrValidationLayerMissing = errors.New("validation layer not available - install the LunarG Vulkan SDK")
	ErrDebugUtilsUnavailable  = errors.New("debug utils extension entry points are unavailable")
	ErrShaderEmpty            = errors.New("shader binary is empty")
	ErrSubmit                 = errors.New("command buffer submission failed")
	ErrFenceTimeout           = errors.New("fence wait did not succeed")
)
