package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/loov/hrtime"
	"github.com/spf13/cobra"

	"github.com/vkngwrapper/compute-tutorial/internal/cli"
	"github.com/vkngwrapper/compute-tutorial/internal/imageio"
	"github.com/vkngwrapper/compute-tutorial/internal/mandelbrot"
	"github.com/vkngwrapper/compute-tutorial/internal/vkcompute"
)

var app *cli.App

var rootCmd = &cobra.Command{
	Use:   "mandelbrot",
	Short: "Render the Mandelbrot set on the CPU and with a Vulkan compute shader",
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	app = cli.New(rootCmd)

	flags := rootCmd.Flags()
	flags.Int("width", 0, "image width in pixels")
	flags.Int("height", 0, "image height in pixels")
	flags.String("shader", "", "compiled compute shader")
	flags.String("cpu-output", "", "PNG written by the CPU renderer")
	flags.String("gpu-output", "", "PNG written by the GPU renderer")
	flags.Int("workers", 0, "CPU render workers (0 uses every core)")
	flags.Bool("skip-cpu", false, "skip the CPU reference render")

	app.BindFlag("mandelbrot.width", "width")
	app.BindFlag("mandelbrot.height", "height")
	app.BindFlag("mandelbrot.shader", "shader")
	app.BindFlag("mandelbrot.cpu_output", "cpu-output")
	app.BindFlag("mandelbrot.gpu_output", "gpu-output")
	app.BindFlag("mandelbrot.workers", "workers")
	app.BindFlag("mandelbrot.skip_cpu", "skip-cpu")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg := app.Config.Mandelbrot

	if !cfg.SkipCPU {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		err := runCPU(ctx, cfg.Width, cfg.Height, cfg.Workers, cfg.CPUOutput)
		stop()
		if err != nil {
			return err
		}
	}

	return runGPU(cfg.Shader, cfg.Width, cfg.Height, cfg.GPUOutput)
}

func runGPU(shader string, width, height int, output string) error {
	vk, err := vkcompute.Open(app.VulkanOptions())
	if err != nil {
		return err
	}
	defer vk.Close()

	selected := vk.Devices()[vk.Selected()]
	app.Log.WithField("device", selected.Name).Info("rendering on the GPU")

	pixels, timings, err := mandelbrot.RenderGPU(vk, shader, width, height, app.Log)
	if err != nil {
		return err
	}
	app.Log.WithField("elapsed", timings.Dispatch).Info("GPU mandelbrot computed")
	app.Log.WithField("elapsed", timings.Readback).Info("GPU result copied to host")

	return save(output, width, height, pixels)
}

func runCPU(ctx context.Context, width, height, workers int, output string) error {
	renderer := mandelbrot.NewRenderer(width, height, workers)

	start := hrtime.Now()
	pixels, err := renderer.Render(ctx)
	if err != nil {
		return err
	}
	app.Log.WithField("elapsed", hrtime.Since(start)).Info("CPU mandelbrot computed")

	return save(output, width, height, pixels)
}

func save(path string, width, height int, pixels []mgl32.Vec4) error {
	start := hrtime.Now()
	if err := imageio.SavePNG(path, width, height, pixels); err != nil {
		return err
	}
	app.Log.WithField("file", path).WithField("elapsed", hrtime.Since(start)).Info("image saved")
	return nil
}

func main() {
	app.Execute()
}
