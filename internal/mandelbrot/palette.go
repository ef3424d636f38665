package mandelbrot

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Palette is a cosine gradient: channel k of t is
// Offset[k] + Amplitude[k]*cos(2π(Frequency[k]*t + Phase[k])).
type Palette struct {
	Offset    mgl32.Vec3
	Amplitude mgl32.Vec3
	Frequency mgl32.Vec3
	Phase     mgl32.Vec3
}

// DefaultPalette matches the colours produced by the compute shader.
var DefaultPalette = Palette{
	Offset:    mgl32.Vec3{0.3, 0.3, 0.5},
	Amplitude: mgl32.Vec3{-0.2, -0.3, -0.5},
	Frequency: mgl32.Vec3{2.1, 2.0, 3.0},
	Phase:     mgl32.Vec3{0.0, 0.1, 0.0},
}

const twoPi = float32(6.28318)

// Color maps t in [0,1] to an opaque colour.
func (p Palette) Color(t float32) mgl32.Vec4 {
	var c mgl32.Vec4
	for k := 0; k < 3; k++ {
		c[k] = p.Offset[k] + p.Amplitude[k]*float32(math.Cos(float64(twoPi*(p.Frequency[k]*t+p.Phase[k]))))
	}
	c[3] = 1
	return c
}
