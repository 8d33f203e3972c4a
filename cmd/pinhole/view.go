package main

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/pinhole/pkg/caption"
	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/models"
	"github.com/taigrr/pinhole/pkg/render"
)

const (
	viewFPS     = 30
	spinImpulse = 0.04
	maxPitch    = 1.4 // keep clear of the up axis so LookAt stays defined
	minDistance = 1.5
	maxDistance = 20.0
)

// orbitAxis is one orbit angle whose velocity decays to zero on a
// critically damped spring.
type orbitAxis struct {
	Position float64
	Velocity float64
	spring   harmonica.Spring
	accel    float64
}

func newOrbitAxis() orbitAxis {
	return orbitAxis{spring: harmonica.NewSpring(harmonica.FPS(viewFPS), 4.0, 1.0)}
}

func (a *orbitAxis) update() {
	a.Position += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// orbit places the eye on a sphere around the origin.
type orbit struct {
	yaw, pitch orbitAxis

	distance, distVel, distTarget float64
	zoom                          harmonica.Spring
}

func newOrbit(distance float64) *orbit {
	return &orbit{
		yaw:        newOrbitAxis(),
		pitch:      newOrbitAxis(),
		distance:   distance,
		distTarget: distance,
		zoom:       harmonica.NewSpring(harmonica.FPS(viewFPS), 6.0, 1.0),
	}
}

func (o *orbit) update() {
	o.yaw.update()
	o.pitch.update()
	o.pitch.Position = math.Max(-maxPitch, math.Min(maxPitch, o.pitch.Position))
	o.distance, o.distVel = o.zoom.Update(o.distance, o.distVel, o.distTarget)
}

func (o *orbit) zoomBy(d float64) {
	o.distTarget = math.Max(minDistance, math.Min(maxDistance, o.distTarget+d))
}

func (o *orbit) eye() math3d.Vec3 {
	y, p := o.yaw.Position, o.pitch.Position
	return math3d.V3(math.Cos(p)*math.Sin(y), math.Sin(p), math.Cos(p)*math.Cos(y)).Scale(o.distance)
}

// viewport owns the buffers sized to the terminal. Each cell shows two
// pixels stacked vertically.
type viewport struct {
	cols, rows int
	cam        *render.Camera
	fb         *render.Framebuffer
	rast       *render.Rasterizer
}

func newViewport(cols, rows int) (*viewport, error) {
	s := render.DefaultCameraSettings()
	s.Width, s.Height = cols, 2*rows
	s.FilmHeight = s.FilmWidth * float64(s.Height) / float64(s.Width)
	s.Near, s.Far = 0.1, 100
	cam, err := render.NewCamera(s)
	if err != nil {
		return nil, err
	}
	fb := render.NewFramebuffer(s.Width, s.Height)
	rast := render.NewRasterizer(cam, fb)
	rast.SetShader(render.CheckerShader(10))
	return &viewport{cols: cols, rows: rows, cam: cam, fb: fb, rast: rast}, nil
}

// overlay selects what frame draws on top of the shaded mesh.
type overlay struct {
	xray   bool // mesh edges, including hidden ones
	guides bool // floor grid, fit cube and axes
}

var (
	viewBG  = render.RGB(30, 30, 40)
	hudBG   = render.ColorBlack
	wireFG  = render.ColorGreen
	guideFG = render.ColorGray
	axisFG  = render.ColorRed
)

// frame renders one view of mesh from eye and returns the number of
// triangles drawn.
func (vp *viewport) frame(mesh *models.Mesh, name string, eye math3d.Vec3, ov overlay) (int, error) {
	if err := vp.cam.LookAt(eye, math3d.Vec3{}); err != nil {
		return 0, err
	}
	vp.rast.Clear(viewBG)
	vp.rast.ResetStats()

	// Guides go first so the mesh hides them.
	if ov.guides {
		g := render.NewWireframe(vp.cam, vp.fb.Lines(guideFG))
		g.DrawGrid(3, 0.5)
		g.DrawCube(math3d.Vec3{}, 2)
		render.NewWireframe(vp.cam, vp.fb.Lines(axisFG)).DrawAxes(math3d.Vec3{}, 1.5)
	}
	drawn := vp.rast.DrawMesh(mesh, math3d.Identity())
	if ov.xray {
		render.NewWireframe(vp.cam, vp.fb.Lines(wireFG)).DrawMesh(mesh, math3d.Identity())
	}

	hud := fmt.Sprintf("%s %d/%d", name, drawn, mesh.TriangleCount())
	if vp.rast.AA() {
		hud += " AA"
	}
	if ov.xray {
		hud += " X"
	}
	vp.fb.DrawRect(0, 0, caption.Width(hud)+2, caption.Height+2, hudBG)
	caption.Draw(vp.fb.Displayer(), 1, 1, hud, render.ColorWhite)
	return drawn, nil
}

func newViewCmd(logger *log.Logger) *cobra.Command {
	var (
		meshPath string
		yUp      bool
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Orbit a mesh in the terminal",
		Long: `view rasterizes a mesh into the terminal using half-block cells.

Keys:
  arrows, h j k l   orbit
  + -               zoom
  a                 toggle 16x anti-aliasing
  x                 toggle the x-ray wireframe
  g                 toggle the grid and axes
  r                 reset the orbit
  q, esc            quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mesh, err := models.Load(meshPath, yUp)
			if err != nil {
				return err
			}
			fitMesh(mesh)
			logger.Debug("loaded mesh", "path", meshPath, "triangles", mesh.TriangleCount())
			return runView(cmd.Context(), logger, mesh, filepath.Base(meshPath))
		},
	}
	cmd.Flags().StringVarP(&meshPath, "mesh", "m", "", "mesh `file` (.raw, .txt, .gltf, .glb)")
	cmd.Flags().BoolVarP(&yUp, "y-up", "b", false, "raw vertices are stored x z y")
	_ = cmd.MarkFlagRequired("mesh")
	return cmd
}

// fitMesh centres the mesh on the origin and scales it into a unit sphere.
func fitMesh(mesh *models.Mesh) {
	r := mesh.Radius()
	if r == 0 {
		return
	}
	mesh.Transform(math3d.ScaleUniform(1 / r).Mul(math3d.Translate(mesh.Center().Negate())))
}

func runView(ctx context.Context, logger *log.Logger, mesh *models.Mesh, name string) error {
	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	vp, err := newViewport(cols, rows)
	if err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	var ov overlay
	orb := newOrbit(3)
	ticker := time.NewTicker(time.Second / viewFPS)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-term.Events():
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				term.Erase()
				term.Resize(ev.Width, ev.Height)
				next, err := newViewport(ev.Width, ev.Height)
				if err != nil {
					// Too small to draw; keep the last viewport.
					continue
				}
				next.rast.SetAA(vp.rast.AA())
				vp = next

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("q", "esc", "ctrl+c"):
					return nil
				case ev.MatchString("left", "h"):
					orb.yaw.Velocity -= spinImpulse
				case ev.MatchString("right", "l"):
					orb.yaw.Velocity += spinImpulse
				case ev.MatchString("up", "k"):
					orb.pitch.Velocity += spinImpulse
				case ev.MatchString("down", "j"):
					orb.pitch.Velocity -= spinImpulse
				case ev.MatchString("+", "="):
					orb.zoomBy(-0.5)
				case ev.MatchString("-", "_"):
					orb.zoomBy(0.5)
				case ev.MatchString("a"):
					vp.rast.SetAA(!vp.rast.AA())
				case ev.MatchString("x"):
					ov.xray = !ov.xray
				case ev.MatchString("g"):
					ov.guides = !ov.guides
				case ev.MatchString("r"):
					orb = newOrbit(3)
				}
			}

		case <-ticker.C:
			orb.update()
			if _, err := vp.frame(mesh, name, orb.eye(), ov); err != nil {
				logger.Debug("orbit", "err", err)
				continue
			}

			vp.fb.Draw(term, uv.Rect(0, 0, vp.cols, vp.rows))
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
