package vkcompute

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core"
)

// loadVulkan uses SDL to locate the system Vulkan library and builds a
// loader from its vkGetInstanceProcAddr. No window is created.
func loadVulkan(videoDriver string) (core.Loader, func(), error) {
	if videoDriver != "" {
		if err := os.Setenv("SDL_VIDEODRIVER", videoDriver); err != nil {
			return nil, nil, errors.Wrap(err, "loader: set SDL_VIDEODRIVER")
		}
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, nil, errors.Wrap(err, "loader: initialize sdl (on a host without a display, pass --video-driver offscreen or set VKCOMPUTE_VULKAN_VIDEO_DRIVER)")
	}

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		sdl.Quit()
		return nil, nil, errors.Wrap(err, "loader: load the Vulkan library")
	}

	unload := func() {
		sdl.VulkanUnloadLibrary()
		sdl.Quit()
	}

	loader, err := core.CreateLoaderFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		unload()
		return nil, nil, errors.Wrap(err, "loader: create from proc addr")
	}

	return loader, unload, nil
}
