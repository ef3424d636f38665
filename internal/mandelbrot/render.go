package mandelbrot

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// Renderer computes the image on the CPU. Workers claim whole rows from a
// shared counter, so slow rows near the set do not stall the others.
type Renderer struct {
	Width, Height int
	// Workers defaults to GOMAXPROCS when zero or negative.
	Workers int
	View    View
	Palette Palette
}

func NewRenderer(width, height, workers int) *Renderer {
	return &Renderer{
		Width:   width,
		Height:  height,
		Workers: workers,
		View:    DefaultView,
		Palette: DefaultPalette,
	}
}

func (r *Renderer) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Render fills a new width*height pixel slice. It stops early and returns the
// context error if ctx is cancelled.
func (r *Renderer) Render(ctx context.Context) ([]mgl32.Vec4, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, errors.Newf("invalid image size %dx%d", r.Width, r.Height)
	}

	pixels := make([]mgl32.Vec4, r.Width*r.Height)
	var next atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < r.workers(); w++ {
		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}

				i := int(next.Add(1) - 1)
				if i >= r.Height {
					return nil
				}

				row := pixels[i*r.Width : (i+1)*r.Width]
				for j := range row {
					row[j] = Shade(r.View, r.Palette, i, j, r.Width, r.Height)
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pixels, nil
}
