package vkcompute

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/core1_0"
)

func TestKernelSpecValidate(t *testing.T) {
	buffers := []*Buffer{{name: "out", size: 16}}

	valid := KernelSpec{Name: "k", ShaderPath: "k.spv", Buffers: buffers, Groups: [3]int{4, 2, 1}}
	require.NoError(t, valid.validate())

	noShader := valid
	noShader.ShaderPath = ""
	require.Error(t, noShader.validate())

	noBuffers := valid
	noBuffers.Buffers = nil
	require.Error(t, noBuffers.validate())

	zeroGroups := valid
	zeroGroups.Groups = [3]int{4, 0, 1}
	require.Error(t, zeroGroups.validate())

	oddPush := valid
	oddPush.PushConstants = []byte{1, 2, 3}
	require.Error(t, oddPush.validate())
}

func openOrSkip(t *testing.T) *Context {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	ctx, err := Open(Options{Logger: log, StrictSync: true})
	if err != nil {
		t.Skipf("no usable Vulkan device: %v", err)
	}
	t.Cleanup(ctx.Close)
	return ctx
}

func TestContextBufferRoundTrip(t *testing.T) {
	ctx := openOrSkip(t)

	require.NotEmpty(t, ctx.Devices())
	require.GreaterOrEqual(t, ctx.QueueFamily(), 0)

	buffer, err := ctx.CreateStorageBuffer("scratch", 64, core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
	require.NoError(t, err)
	require.Equal(t, 64, buffer.Size())

	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i * 3)
	}
	require.NoError(t, buffer.Write(data))

	require.NoError(t, buffer.Read(func(got []byte) error {
		require.Equal(t, data, got)
		return nil
	}))

	require.Error(t, buffer.Write(make([]byte, 65)))
}

func TestContextCloseTwice(t *testing.T) {
	ctx := openOrSkip(t)
	ctx.Close()
	ctx.Close()
}

func TestSyncOutcomeStrict(t *testing.T) {
	logger, hook := test.NewNullLogger()
	c := &Context{opts: Options{StrictSync: true}, log: logger}

	require.NoError(t, c.syncOutcome("mandelbrot", nil))

	err := c.syncOutcome("mandelbrot", errors.Wrap(ErrFenceTimeout, "waitForFences"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrFenceTimeout))
	require.Contains(t, err.Error(), "kernel mandelbrot")
	require.Empty(t, hook.Entries)
}

func TestSyncOutcomeLenient(t *testing.T) {
	logger, hook := test.NewNullLogger()
	c := &Context{opts: Options{StrictSync: false}, log: logger}

	require.NoError(t, c.syncOutcome("matmul", errors.Wrap(ErrFenceTimeout, "waitForFences")))

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	require.Equal(t, logrus.ErrorLevel, entry.Level)
	require.Equal(t, "matmul", entry.Data["kernel"])
	logged, ok := entry.Data[logrus.ErrorKey].(error)
	require.True(t, ok)
	require.True(t, errors.Is(logged, ErrFenceTimeout))
}

func TestQueueLabelsWithoutDebug(t *testing.T) {
	logger, hook := test.NewNullLogger()
	c := &Context{log: logger}

	require.False(t, c.beginQueueLabel("mandelbrot"))
	c.insertQueueLabel("mandelbrot readback")
	require.Empty(t, hook.Entries)
}

func TestBufferName(t *testing.T) {
	b := &Buffer{name: "matrix C", size: 64}
	require.Equal(t, "matrix C", b.Name())
	require.Equal(t, 64, b.Size())
}
