package vkcompute

import (
	"image/color"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
)

func TestSeverityLevel(t *testing.T) {
	cases := []struct {
		severity ext_debug_utils.DebugUtilsMessageSeverityFlags
		want     logrus.Level
	}{
		{ext_debug_utils.SeverityError, logrus.ErrorLevel},
		{ext_debug_utils.SeverityWarning, logrus.WarnLevel},
		{ext_debug_utils.SeverityInfo, logrus.InfoLevel},
		{ext_debug_utils.SeverityVerbose, logrus.DebugLevel},
		{ext_debug_utils.SeverityWarning | ext_debug_utils.SeverityError, logrus.ErrorLevel},
	}

	for _, c := range cases {
		require.Equal(t, c.want, severityLevel(c.severity))
	}
}

func TestFormatDebugMessage(t *testing.T) {
	msg := formatDebugMessage(ext_debug_utils.SeverityError, ext_debug_utils.TypeValidation, "vkCreateBuffer: size is zero")
	require.Contains(t, msg, "] - vkCreateBuffer: size is zero")
	require.Regexp(t, `^\[.+ .+\] - `, msg)
}

func TestLabelColors(t *testing.T) {
	l := label("mandelbrot", dispatchLabelColor)
	require.Equal(t, "mandelbrot", l.LabelName)

	var c color.Color = dispatchLabelColor
	r, g, b, a := c.RGBA()
	require.Equal(t, []uint32{51 * 0x101, 153 * 0x101, 255 * 0x101, 0xffff}, []uint32{r, g, b, a})

	_, _, _, a = l.Color.RGBA()
	require.Equal(t, uint32(0xffff), a)

	r, g, b, a = label("readback", readbackLabelColor).Color.RGBA()
	require.Equal(t, []uint32{0xffff, 170 * 0x101, 0, 0xffff}, []uint32{r, g, b, a})
}
