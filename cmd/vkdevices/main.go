package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/vkngwrapper/core/core1_0"

	"github.com/vkngwrapper/compute-tutorial/internal/cli"
	"github.com/vkngwrapper/compute-tutorial/internal/vkcompute"
)

var app *cli.App

var rootCmd = &cobra.Command{
	Use:   "vkdevices",
	Short: "List the Vulkan devices and the one the compute programs would use",
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	app = cli.New(rootCmd)
}

func memorySummary(types []core1_0.MemoryType) string {
	local, visible := 0, 0
	for _, t := range types {
		if t.PropertyFlags&core1_0.MemoryPropertyDeviceLocal != 0 {
			local++
		}
		if t.PropertyFlags&core1_0.MemoryPropertyHostVisible != 0 {
			visible++
		}
	}
	return fmt.Sprintf("%d types, %d device-local, %d host-visible", len(types), local, visible)
}

func computeFamily(families []vkcompute.QueueFamily) string {
	idx, err := vkcompute.ComputeQueueFamily(families)
	if err != nil {
		return "none"
	}
	return fmt.Sprintf("%d (%d queues)", idx, families[idx].Count)
}

func run(*cobra.Command, []string) error {
	vk, err := vkcompute.Open(app.VulkanOptions())
	if err != nil {
		return err
	}
	defer vk.Close()

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Device", "Type", "Memory", "Compute family", "Score", ""})

	for i, d := range vk.Devices() {
		mark := ""
		if i == vk.Selected() {
			mark = "selected"
		}
		tw.AppendRow(table.Row{
			i,
			d.Name,
			fmt.Sprintf("%v", d.Type),
			memorySummary(d.MemoryTypes),
			computeFamily(d.QueueFamilies),
			d.Score(),
			mark,
		})
	}

	tw.Render()
	return nil
}

func main() {
	app.Execute()
}
