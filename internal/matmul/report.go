package matmul

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Result is one timed product.
type Result struct {
	Backend  string
	Dim      int
	Elapsed  time.Duration
	RelError float32
	// Verified is false when the product failed its accuracy check.
	Verified bool
}

// GFlops counts n³ operations per second, in units of 1024³.
func GFlops(n int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	ops := float64(n) * float64(n) * float64(n)
	return ops / elapsed.Seconds() / 1024 / 1024 / 1024
}

func WriteReport(w io.Writer, results []Result) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Backend", "Dim", "Time (s)", "GFlops", "Relative L2 error", "Check"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	for _, r := range results {
		check := "passed"
		if !r.Verified {
			check = "FAILED"
		}
		tw.AppendRow(table.Row{
			r.Backend,
			r.Dim,
			fmt.Sprintf("%.6f", r.Elapsed.Seconds()),
			fmt.Sprintf("%.3f", GFlops(r.Dim, r.Elapsed)),
			fmt.Sprintf("%.3e", r.RelError),
			check,
		})
	}

	tw.Render()
}
