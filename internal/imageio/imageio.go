// Package imageio turns float RGBA pixel buffers into 8-bit images on disk.
package imageio

import (
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

// ChannelByte converts a channel value in [0,1] to a byte by scaling with 255
// and truncating. Out of range values saturate and NaN maps to 0.
func ChannelByte(v float32) byte {
	scaled := 255 * v
	switch {
	case math.IsNaN(float64(scaled)), scaled <= 0:
		return 0
	case scaled >= 255:
		return 255
	}
	return byte(scaled)
}

// ToRGBA8 packs pixels into 4 bytes each, in r, g, b, a order.
func ToRGBA8(pixels []mgl32.Vec4) []byte {
	out := make([]byte, 4*len(pixels))
	for i, p := range pixels {
		for k := 0; k < 4; k++ {
			out[4*i+k] = ChannelByte(p[k])
		}
	}
	return out
}

// Image wraps the converted pixels of a width x height buffer. The bytes keep
// straight alpha, so the image is non-premultiplied.
func Image(width, height int, pixels []mgl32.Vec4) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Newf("invalid image size %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return nil, errors.Newf("have %d pixels for a %dx%d image", len(pixels), width, height)
	}

	return &image.NRGBA{
		Pix:    ToRGBA8(pixels),
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// SavePNG writes pixels to path as a lossless PNG.
func SavePNG(path string, width, height int, pixels []mgl32.Vec4) error {
	img, err := Image(width, height, pixels)
	if err != nil {
		return errors.Wrapf(err, "save %s", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "save %s", path)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "save %s", path)
	}

	if err = png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}

	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
