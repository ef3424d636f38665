package vkcompute

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
)

// KernelSpec describes one compute dispatch: the shader, the storage buffers
// bound at bindings 0..n-1 of set 0, optional push constants and the number
// of workgroups in each dimension.
type KernelSpec struct {
	Name          string
	ShaderPath    string
	Buffers       []*Buffer
	PushConstants []byte
	Groups        [3]int
}

func (k KernelSpec) validate() error {
	if k.ShaderPath == "" {
		return errors.Newf("kernel %s: no shader", k.Name)
	}
	if len(k.Buffers) == 0 {
		return errors.Newf("kernel %s: no buffers", k.Name)
	}
	for i, g := range k.Groups {
		if g <= 0 {
			return errors.Newf("kernel %s: group count %d in dimension %d", k.Name, g, i)
		}
	}
	if len(k.PushConstants)%4 != 0 {
		return errors.Newf("kernel %s: push constants must be a multiple of 4 bytes, got %d", k.Name, len(k.PushConstants))
	}
	return nil
}

// Dispatch builds the pipeline for k, records and submits a single dispatch
// and waits for it. The returned duration covers submission to fence signal.
//
// A failed submit or wait is returned unless StrictSync is off, in which case
// it is logged and Dispatch reports success so the caller can still read back
// whatever the device wrote.
func (c *Context) Dispatch(k KernelSpec) (time.Duration, error) {
	if err := k.validate(); err != nil {
		return 0, err
	}

	code, err := LoadShaderCode(k.ShaderPath)
	if err != nil {
		return 0, err
	}

	setLayout, set, err := c.bindBuffers(k.Buffers)
	if err != nil {
		return 0, errors.Wrapf(err, "kernel %s", k.Name)
	}

	layout, pipeline, err := c.createComputePipeline(code, setLayout, len(k.PushConstants))
	if err != nil {
		return 0, errors.Wrapf(err, "kernel %s", k.Name)
	}

	buffer, err := c.recordDispatch(dispatch{
		label:         k.Name,
		pipeline:      pipeline,
		layout:        layout,
		set:           set,
		pushConstants: k.PushConstants,
		groups:        k.Groups,
	})
	if err != nil {
		return 0, errors.Wrapf(err, "kernel %s", k.Name)
	}

	log := c.log.WithFields(logrus.Fields{
		"kernel": k.Name,
		"groups": k.Groups,
	})
	log.Debug("submitting dispatch")

	labelled := c.beginQueueLabel(k.Name)
	start := hrtime.Now()
	err = c.submitAndWait(buffer)
	elapsed := hrtime.Since(start)
	if labelled {
		c.debug.QueueEndLabel(c.queue)
	}

	if err = c.syncOutcome(k.Name, err); err != nil {
		return elapsed, err
	}
	c.insertQueueLabel(k.Name + " readback")

	log.WithField("elapsed", elapsed).Debug("dispatch finished")
	return elapsed, nil
}

// syncOutcome decides what a failed submit or fence wait means for the
// caller. With StrictSync the failure is returned; otherwise it is logged and
// swallowed so the results can still be read back.
func (c *Context) syncOutcome(kernel string, err error) error {
	if err == nil {
		return nil
	}
	if c.opts.StrictSync {
		return errors.Wrapf(err, "kernel %s", kernel)
	}
	c.log.WithField("kernel", kernel).WithError(err).Error("dispatch did not complete, reading results anyway")
	return nil
}

// Queue labels only annotate captures, so a failure is logged and the
// dispatch goes ahead without them.
func (c *Context) beginQueueLabel(name string) bool {
	if c.debug == nil {
		return false
	}
	if err := c.debug.QueueBeginLabel(c.queue, name, dispatchLabelColor); err != nil {
		c.log.WithError(err).Warn("queue label skipped")
		return false
	}
	return true
}

func (c *Context) insertQueueLabel(name string) {
	if c.debug == nil {
		return
	}
	if err := c.debug.QueueInsertLabel(c.queue, name, readbackLabelColor); err != nil {
		c.log.WithError(err).Warn("queue label skipped")
	}
}
