package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/pinhole/pkg/config"
	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
)

func newCameraCmd(logger *log.Logger) *cobra.Command {
	var (
		path     string
		from, to []float64
		width    int
		height   int
		focal    float64
		fill     bool
	)
	cmd := &cobra.Command{
		Use:   "camera",
		Short: "Write a camera settings file",
		Long: `camera prints the default camera settings, or writes them to --write.
--from and --to bake a look-at transform into the matrix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := render.DefaultCameraSettings()
			if width > 0 {
				s.Width = width
			}
			if height > 0 {
				s.Height = height
			}
			if focal > 0 {
				s.FocalLength = focal
			}
			if fill {
				s.Fit = render.Fill
			}

			cam, err := render.NewCamera(s)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
				f, err := vec3Flag("from", from)
				if err != nil {
					return err
				}
				t, err := vec3Flag("to", to)
				if err != nil {
					return err
				}
				if err := cam.LookAt(f, t); err != nil {
					return err
				}
				if !cam.Frustum().ContainsPoint(t) {
					logger.Warn("look-at target lies outside the clip range", "near", cam.Near(), "far", cam.Far())
				}
			}

			if path == "" {
				return config.Write(cmd.OutOrStdout(), cam.Settings())
			}
			if err := config.Save(path, cam.Settings()); err != nil {
				return err
			}
			logger.Info("wrote camera settings", "path", path, "fov", fmt.Sprintf("%.1f°", cam.FOV()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "write", "w", "", "output `file` (default stdout)")
	cmd.Flags().Float64SliceVar(&from, "from", []float64{0, 0, 10}, "camera position x,y,z")
	cmd.Flags().Float64SliceVar(&to, "to", []float64{0, 0, 0}, "look-at target x,y,z")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "image height in pixels")
	cmd.Flags().Float64Var(&focal, "focal", 0, "focal length in mm")
	cmd.Flags().BoolVar(&fill, "fill", false, "crop the film gate instead of overscanning")
	return cmd
}

func vec3Flag(name string, v []float64) (math3d.Vec3, error) {
	if len(v) != 3 {
		return math3d.Vec3{}, fmt.Errorf("--%s needs 3 values, got %d", name, len(v))
	}
	return math3d.V3(v[0], v[1], v[2]), nil
}
