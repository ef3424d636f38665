package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vkngwrapper/compute-tutorial/internal/cli"
	"github.com/vkngwrapper/compute-tutorial/internal/matmul"
)

var app *cli.App

var rootCmd = &cobra.Command{
	Use:   "matmul-blas [dim]",
	Short: "Time a BLAS product of two rank-one matrices and check the result",
	Args:  cli.DimensionArgs,
	RunE:  run,
}

func init() {
	app = cli.New(rootCmd)
}

func run(_ *cobra.Command, args []string) error {
	dim := app.Config.Matmul.Dim
	if len(args) == 1 {
		dim, _ = cli.ParseDimension(args[0])
	}

	a, b := matmul.BenchmarkVectors(dim)
	matA, matB := a.Matrix(), b.Matrix()

	start := hrtime.Now()
	c, err := matmul.MultiplyBLAS(matA, matB, dim)
	elapsed := hrtime.Since(start)
	if err != nil {
		return err
	}

	result := matmul.Result{Backend: "blas", Dim: dim, Elapsed: elapsed, Verified: true}
	verifyErr := matmul.VerifyRankOne(a, b, c)
	if verifyErr != nil {
		result.Verified = false
		app.Log.WithError(verifyErr).Error("test failed")
	} else {
		app.Log.Info("test passed")
	}

	if rel, err := matmul.RelativeError(a, b, c); err != nil {
		app.Log.WithError(err).Warn("relative error not computed")
	} else {
		result.RelError = rel
	}

	app.Log.WithFields(logrus.Fields{
		"dim":     dim,
		"elapsed": elapsed,
		"gflops":  matmul.GFlops(dim, elapsed),
	}).Debug("blas product done")
	matmul.WriteReport(os.Stdout, []matmul.Result{result})

	if verifyErr != nil {
		return errors.Wrap(verifyErr, "blas product")
	}
	return nil
}

func main() {
	app.Execute()
}
