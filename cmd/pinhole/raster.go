package main

import (
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/pinhole/pkg/caption"
	"github.com/taigrr/pinhole/pkg/config"
	"github.com/taigrr/pinhole/pkg/export"
	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/models"
	"github.com/taigrr/pinhole/pkg/render"
)

type rasterOptions struct {
	mesh        string
	camera      string
	out         string
	svg         string
	depth       string
	shader      string
	checker     int
	aa          bool
	yUp         bool
	columnMajor bool
	hidden      bool
	stream      bool
	caption     bool
}

func newRasterCmd(logger *log.Logger) *cobra.Command {
	var o rasterOptions
	cmd := &cobra.Command{
		Use:   "raster",
		Short: "Rasterize a mesh to an image",
		Long: `raster projects a .raw or glTF mesh through a camera settings file and
writes the shaded image. --svg additionally exports the projected edges.`,
		Example: `  pinhole raster -m cow.raw -c camera.cfg -o cow.ppm --aa
  pinhole raster -m teapot.glb -o teapot.png --svg teapot.svg --hidden`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runRaster(logger, o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.mesh, "mesh", "m", "", "mesh `file` (.raw, .txt, .gltf, .glb)")
	f.StringVarP(&o.camera, "camera", "c", "", "camera settings `file` (default camera when empty)")
	f.StringVarP(&o.out, "out", "o", "out.ppm", "output image (.ppm or .png)")
	f.StringVar(&o.svg, "svg", "", "also write projected edges to this SVG `file`")
	f.StringVar(&o.depth, "depth", "", "also write the depth buffer to this PPM `file`")
	f.StringVar(&o.shader, "shader", "checker", "fragment shader: checker or depth")
	f.IntVar(&o.checker, "checker", 10, "checkerboard squares per triangle (0 for flat black)")
	f.BoolVar(&o.aa, "aa", false, "16x super-sampling")
	f.BoolVarP(&o.yUp, "y-up", "b", false, "raw vertices are stored x z y")
	f.BoolVarP(&o.columnMajor, "column-major", "t", false, "camera matrix is column major")
	f.BoolVarP(&o.hidden, "hidden", "z", false, "SVG shows only triangles that pass culling and the depth test")
	f.BoolVar(&o.stream, "stream", false, "feed triangles through the streaming reader")
	f.BoolVar(&o.caption, "caption", false, "stamp render statistics into the image")
	_ = cmd.MarkFlagRequired("mesh")
	return cmd
}

func loadSettings(path string, columnMajor bool) (render.CameraSettings, error) {
	if path == "" {
		return render.DefaultCameraSettings(), nil
	}
	return config.Load(path, columnMajor)
}

func runRaster(logger *log.Logger, o rasterOptions) error {
	s, err := loadSettings(o.camera, o.columnMajor)
	if err != nil {
		return err
	}
	cam, err := render.NewCamera(s)
	if err != nil {
		return err
	}
	mesh, err := models.Load(o.mesh, o.yUp)
	if err != nil {
		return err
	}
	logger.Debug("loaded mesh", "path", o.mesh, "triangles", mesh.TriangleCount(), "vertices", mesh.VertexCount())
	logger.Debug("camera", "size", fmt.Sprintf("%dx%d", cam.Width(), cam.Height()),
		"fov", cam.FOV(), "fit", cam.Settings().Fit, "origin", cam.Origin())

	if !cam.Frustum().IntersectsSphere(mesh.Center(), mesh.Radius()) {
		logger.Warn("mesh is entirely outside the view frustum")
	}
	if o.hidden && o.svg == "" {
		logger.Warn("--hidden only affects --svg output; ignoring it")
	}
	if o.hidden && o.svg != "" && o.stream {
		logger.Warn("--hidden draws face by face; ignoring --stream")
	}

	fb := render.NewFramebuffer(cam.Width(), cam.Height())
	rast := render.NewRasterizer(cam, fb)
	rast.SetAA(o.aa)
	switch o.shader {
	case "checker":
		if o.checker > 0 {
			rast.SetShader(render.CheckerShader(o.checker))
		}
	case "depth":
		rast.SetShader(depthShader(cam, mesh))
	default:
		return fmt.Errorf("unknown shader %q (want checker or depth)", o.shader)
	}
	rast.Clear(render.ColorWhite)

	var svg *export.SVG
	if o.svg != "" {
		f, err := os.Create(o.svg)
		if err != nil {
			return err
		}
		defer f.Close()
		svg = export.NewSVG(f, cam.Width(), cam.Height())
	}

	var drawn int
	switch {
	case o.hidden && svg != nil:
		drawn = drawOutlined(rast, render.NewWireframe(cam, svg), mesh)
	case o.stream:
		if drawn, err = rast.DrawFrom(models.NewTriangleReader(mesh)); err != nil {
			return err
		}
	default:
		drawn = rast.DrawMesh(mesh, math3d.Identity())
	}
	if svg != nil && !o.hidden {
		render.NewWireframe(cam, svg).DrawMesh(mesh, math3d.Identity())
	}

	st := rast.Stats
	logger.Info("rasterized", "triangles", st.Triangles, "drawn", drawn,
		"culled", st.Culled, "fragments", st.Fragments)

	if o.caption {
		text := fmt.Sprintf("%d/%d TRIS", drawn, mesh.TriangleCount())
		if o.aa {
			text += " AA16"
		}
		caption.Draw(fb.Displayer(), 2, 2, text, render.ColorRed)
	}

	if err := export.SaveImage(o.out, fb); err != nil {
		return err
	}
	logger.Info("wrote image", "path", o.out)

	if o.depth != "" {
		if err := export.SaveDepthPPM(o.depth, rast.Depth()); err != nil {
			return err
		}
		logger.Info("wrote depth", "path", o.depth)
	}
	if svg != nil {
		if err := svg.Close(); err != nil {
			return fmt.Errorf("write %s: %w", o.svg, err)
		}
		logger.Info("wrote svg", "path", o.svg)
	}
	return nil
}

// depthShader spreads the gray ramp over the depth range the mesh's
// bounding sphere can occupy, clamped to the clip planes.
func depthShader(cam *render.Camera, mesh *models.Mesh) render.Shader {
	d := -cam.ToCamera(mesh.Center()).Z
	r := mesh.Radius()
	near := math.Max(cam.Near(), d-r)
	far := math.Min(cam.Far(), d+r)
	if !(far > near) {
		near, far = cam.Near(), cam.Far()
	}
	return render.DepthShader(near, far)
}

// drawOutlined rasterizes each face and outlines only those that produced
// at least one visible fragment at the time they were drawn.
func drawOutlined(rast *render.Rasterizer, wf *render.Wireframe, mesh *models.Mesh) int {
	drawn := 0
	for i := range mesh.TriangleCount() {
		var t render.Triangle
		for j, idx := range mesh.GetFace(i) {
			t.V[j], _, t.UV[j] = mesh.GetVertex(idx)
		}
		before := rast.Stats.Fragments
		var ok bool
		if rast.AA() {
			ok = rast.DrawTriangleAA16(t)
		} else {
			ok = rast.DrawTriangle(t)
		}
		if !ok {
			continue
		}
		drawn++
		if rast.Stats.Fragments > before {
			wf.DrawTriangle(t)
		}
	}
	return drawn
}
