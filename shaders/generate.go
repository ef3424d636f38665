// Package shaders holds the GLSL sources of the compute kernels. The SPIR-V
// binaries are built with glslc from the Vulkan SDK.
package shaders

//go:generate glslc -fshader-stage=compute mandelbrot.comp -o comp.spv
//go:generate glslc -fshader-stage=compute matmul.comp -o matmul.spv
