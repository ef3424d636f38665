package vkcompute

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_portability_enumeration"
)

type instanceOptions struct {
	applicationName string
	validation      bool
	log             *logrus.Logger
}

func createInstance(loader core.Loader, opts instanceOptions) (core1_0.Instance, error) {
	createInfo := core1_0.InstanceCreateInfo{
		ApplicationName:    opts.applicationName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	extensions, _, err := loader.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "createInstance: enumerate extensions")
	}

	if opts.validation {
		if _, ok := extensions[ext_debug_utils.ExtensionName]; !ok {
			return nil, errors.Wrapf(ErrDebugUtilsUnavailable, "createInstance: missing extension %s", ext_debug_utils.ExtensionName)
		}
		createInfo.EnabledExtensionNames = append(createInfo.EnabledExtensionNames, ext_debug_utils.ExtensionName)
	}

	// Required for MoltenVK and other portability drivers to be enumerated.
	if _, ok := extensions[khr_portability_enumeration.ExtensionName]; ok {
		createInfo.EnabledExtensionNames = append(createInfo.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		createInfo.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if opts.validation {
		layers, _, err := loader.AvailableLayers()
		if err != nil {
			return nil, errors.Wrap(err, "createInstance: enumerate layers")
		}

		if _, ok := layers[validationLayerName]; !ok {
			return nil, errors.Wrapf(ErrValidationLayerMissing, "createInstance: layer %s", validationLayerName)
		}
		createInfo.EnabledLayerNames = append(createInfo.EnabledLayerNames, validationLayerName)

		// Covers instance creation and destruction, which the messenger cannot see.
		createInfo.Next = debugMessengerCreateInfo(opts.log)
	}

	instance, _, err := loader.CreateInstance(nil, createInfo)
	if err != nil {
		return nil, errors.Wrap(err, "createInstance")
	}

	return instance, nil
}
