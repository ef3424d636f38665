package mandelbrot

// WorkgroupSize is the local size of the compute shader in x and y.
const WorkgroupSize = 32

// Grid returns the workgroup counts that cover a width x height image.
func Grid(width, height int) [3]int {
	return [3]int{
		(width + WorkgroupSize - 1) / WorkgroupSize,
		(height + WorkgroupSize - 1) / WorkgroupSize,
		1,
	}
}
