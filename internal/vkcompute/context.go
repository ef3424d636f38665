package vkcompute

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/core1_0"
)

type Options struct {
	ApplicationName string
	// Validation enables the Khronos validation layer and the debug messenger.
	Validation   bool
	FenceTimeout time.Duration
	// StrictSync makes a failed submit or fence wait abort the run. When off
	// the failure is logged and the caller may still read its buffers.
	StrictSync  bool
	VideoDriver string
	Logger      *logrus.Logger
}

// Context owns every Vulkan object of a compute run, from the loader down to
// the buffers and pipelines created through it. Close releases them in the
// reverse order of creation.
type Context struct {
	opts Options
	log  *logrus.Logger

	instance       core1_0.Instance
	debug          *DebugUtils
	devices        []DeviceInfo
	selected       int
	physicalDevice core1_0.PhysicalDevice
	queueFamily    int
	device         core1_0.Device
	queue          core1_0.Queue
	commandPool    core1_0.CommandPool

	releases releaseList
	closed   bool
}

// Open loads Vulkan and brings up an instance, the best scoring device, its
// compute queue and a command pool. Anything created before a failure is
// released before Open returns.
func Open(opts Options) (*Context, error) {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.FenceTimeout <= 0 {
		opts.FenceTimeout = 100 * time.Second
	}
	if opts.ApplicationName == "" {
		opts.ApplicationName = "Computing shader"
	}

	ctx := &Context{opts: opts, log: opts.Logger}
	if err := ctx.init(); err != nil {
		ctx.Close()
		return nil, err
	}

	return ctx, nil
}

func (c *Context) init() error {
	loader, unload, err := loadVulkan(c.opts.VideoDriver)
	if err != nil {
		return err
	}
	c.releases.push("vulkan library", unload)
	c.log.Debug("vulkan loader ready")

	c.instance, err = createInstance(loader, instanceOptions{
		applicationName: c.opts.ApplicationName,
		validation:      c.opts.Validation,
		log:             c.log,
	})
	if err != nil {
		return err
	}
	c.releases.push("instance", func() { c.instance.Destroy(nil) })

	if c.opts.Validation {
		c.debug, err = NewDebugUtils(c.instance, c.log)
		if err != nil {
			return err
		}
		if err = c.debug.CreateMessenger(); err != nil {
			return err
		}
		c.releases.push("debug messenger", c.debug.DestroyMessenger)
	}

	if err = c.pickPhysicalDevice(); err != nil {
		return err
	}

	c.device, c.queue, err = createLogicalDevice(c.physicalDevice, c.queueFamily)
	if err != nil {
		return err
	}
	c.releases.push("device", func() { c.device.Destroy(nil) })

	c.commandPool, _, err = c.device.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: c.queueFamily,
	})
	if err != nil {
		return errors.Wrap(err, "createCommandPool")
	}
	c.releases.push("command pool", func() { c.commandPool.Destroy(nil) })

	return nil
}

func (c *Context) pickPhysicalDevice() error {
	physicalDevices, _, err := c.instance.EnumeratePhysicalDevices()
	if err != nil {
		return errors.Wrap(err, "pickPhysicalDevice: enumerate")
	}

	for _, device := range physicalDevices {
		info, err := describeDevice(device)
		if err != nil {
			return err
		}
		c.devices = append(c.devices, info)
	}

	c.selected, err = SelectDevice(c.devices)
	if err != nil {
		return err
	}
	c.physicalDevice = physicalDevices[c.selected]

	selected := c.devices[c.selected]
	c.queueFamily, err = ComputeQueueFamily(selected.QueueFamilies)
	if err != nil {
		return errors.Wrapf(err, "device %s", selected.Name)
	}

	c.log.WithFields(logrus.Fields{
		"device":       selected.Name,
		"score":        selected.Score(),
		"queue_family": c.queueFamily,
	}).Debug("selected physical device")
	return nil
}

// Devices lists every physical device seen during Open.
func (c *Context) Devices() []DeviceInfo {
	return c.devices
}

// Selected is the index into Devices of the device in use.
func (c *Context) Selected() int {
	return c.selected
}

func (c *Context) QueueFamily() int {
	return c.queueFamily
}

// Close is safe to call more than once.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true

	if c.device != nil {
		if _, err := c.device.WaitIdle(); err != nil {
			c.log.WithError(err).Warn("device did not go idle before teardown")
		}
	}

	released := c.releases.releaseAll()
	c.log.WithField("objects", released).Debug("vulkan objects released")
}
