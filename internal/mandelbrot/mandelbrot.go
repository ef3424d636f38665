// Package mandelbrot renders the Mandelbrot set on the CPU and through a
// Vulkan compute kernel. Both paths produce one RGBA float pixel per image
// point, stored row-major.
package mandelbrot

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MaxIterations caps the escape-time loop.
const MaxIterations = 512

// View maps normalised image coordinates in [0,1)² onto the complex plane.
type View struct {
	Center mgl32.Vec2
	Extent float32
}

var DefaultView = View{
	Center: mgl32.Vec2{-0.445, 0},
	Extent: 2 + 1.7*0.2,
}

// Point returns c for the normalised coordinate (x, y).
func (v View) Point(x, y float32) mgl32.Vec2 {
	return mgl32.Vec2{
		v.Center.X() + (x-0.5)*v.Extent,
		v.Center.Y() + (y-0.5)*v.Extent,
	}
}

// Escape counts the iterations of z = z² + c, starting at zero, that stay
// within |z|² <= 2. The result is in [0, MaxIterations].
func Escape(c mgl32.Vec2) int {
	var zr, zi float32
	n := 0
	for iter := 0; iter < MaxIterations; iter++ {
		temp := zr*zr - zi*zi + c.X()
		zi = 2*zr*zi + c.Y()
		zr = temp
		if zr*zr+zi*zi > 2 {
			break
		}
		n++
	}
	return n
}

// Shade colours the point at row i, column j of a width x height image.
func Shade(view View, palette Palette, i, j, width, height int) mgl32.Vec4 {
	x := float32(j) / float32(width)
	y := float32(i) / float32(height)
	n := Escape(view.Point(x, y))
	return palette.Color(float32(n) / MaxIterations)
}
