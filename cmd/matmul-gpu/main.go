package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/spf13/cobra"

	"github.com/vkngwrapper/compute-tutorial/internal/cli"
	"github.com/vkngwrapper/compute-tutorial/internal/matmul"
	"github.com/vkngwrapper/compute-tutorial/internal/vkcompute"
)

var app *cli.App

var rootCmd = &cobra.Command{
	Use:   "matmul-gpu [dim]",
	Short: "Compare a BLAS matrix product against a Vulkan compute kernel",
	Args:  cli.DimensionArgs,
	RunE:  run,
}

func init() {
	app = cli.New(rootCmd)

	rootCmd.Flags().String("shader", "", "compiled matmul compute shader")
	app.BindFlag("matmul.shader", "shader")
}

func check(backend string, a, b matmul.Tensor, c []float32, result *matmul.Result) error {
	rel, err := matmul.RelativeError(a, b, c)
	if err != nil {
		result.Verified = false
		return errors.Wrap(err, backend)
	}
	result.RelError = rel
	result.Verified = true
	app.Log.WithField("backend", backend).WithField("relative_error", rel).Info("product checked")
	return nil
}

func run(_ *cobra.Command, args []string) error {
	dim := app.Config.Matmul.Dim
	if len(args) == 1 {
		dim, _ = cli.ParseDimension(args[0])
	}

	a, b := matmul.GPUVectors(dim)
	matA, matB := a.Matrix(), b.Matrix()
	var results []matmul.Result

	start := hrtime.Now()
	c, err := matmul.MultiplyBLAS(matA, matB, dim)
	blas := matmul.Result{Backend: "blas", Dim: dim, Elapsed: hrtime.Since(start)}
	if err != nil {
		return err
	}
	blasErr := check("blas", a, b, c, &blas)
	results = append(results, blas)

	vk, err := vkcompute.Open(app.VulkanOptions())
	if err != nil {
		return err
	}
	defer vk.Close()

	gpu := &matmul.GPUMultiplier{VK: vk, ShaderPath: app.Config.Matmul.Shader}
	c, elapsed, err := gpu.Multiply(matA, matB, dim)
	if err != nil {
		return err
	}
	vulkan := matmul.Result{Backend: "vulkan", Dim: dim, Elapsed: elapsed}
	gpuErr := check("vulkan", a, b, c, &vulkan)
	results = append(results, vulkan)

	matmul.WriteReport(os.Stdout, results)

	if blasErr != nil {
		return blasErr
	}
	return gpuErr
}

func main() {
	app.Execute()
}
