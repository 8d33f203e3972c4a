package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/pinhole/pkg/caption"
	"github.com/taigrr/pinhole/pkg/export"
	"github.com/taigrr/pinhole/pkg/render"
	"github.com/taigrr/pinhole/pkg/trace"
)

func newTraceCmd(logger *log.Logger) *cobra.Command {
	var (
		scenePath string
		out       string
		label     bool
	)
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Ray cast a JSON scene",
		Long: `trace casts one primary ray per pixel into the spheres, planes, disks
and boxes of a JSON scene and shades the closest hit.`,
		Example: `  pinhole trace -s scene.json -o scene.png`,
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			scene, tr, err := trace.LoadScene(scenePath)
			if err != nil {
				return err
			}
			cam := tr.Camera
			logger.Debug("scene", "primitives", scene.Len(),
				"size", fmt.Sprintf("%dx%d", cam.Width(), cam.Height()), "origin", cam.Origin())

			fb := render.NewFramebuffer(cam.Width(), cam.Height())
			tr.Render(scene, fb)
			if label {
				caption.Draw(fb.Displayer(), 2, 2, fmt.Sprintf("%d PRIMITIVES", scene.Len()), render.ColorWhite)
			}
			if err := export.SaveImage(out, fb); err != nil {
				return err
			}
			logger.Info("wrote image", "path", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&scenePath, "scene", "s", "", "scene `file` (JSON)")
	cmd.Flags().StringVarP(&out, "out", "o", "trace.ppm", "output image (.ppm or .png)")
	cmd.Flags().BoolVar(&label, "caption", false, "stamp the primitive count into the image")
	_ = cmd.MarkFlagRequired("scene")
	return cmd
}
