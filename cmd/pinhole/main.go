// pinhole renders triangle meshes and analytic scenes through a pinhole
// camera, to image files or straight into the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/pinhole/pkg/models"
)

var version = "dev"

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pinhole",
	})
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "pinhole",
		Short: "Software rasterizer and ray caster",
		Long: `pinhole projects triangle meshes through a physically described pinhole
camera and rasterizes them with a depth buffer, or casts one ray per pixel
against spheres, planes, disks and boxes.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
			models.SetLogger(logger)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug details")

	root.AddCommand(
		newRasterCmd(logger),
		newTraceCmd(logger),
		newViewCmd(logger),
		newCameraCmd(logger),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger()
	if err := fang.Execute(ctx, newRootCmd(logger), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}
