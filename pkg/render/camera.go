package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// inchToMM converts film aperture inches to millimetres.
const inchToMM = 25.4

var (
	// ErrInvalidSettings is returned when camera settings cannot describe a
	// valid pinhole camera.
	ErrInvalidSettings = errors.New("invalid camera settings")

	// ErrDegenerateLookAt is returned by LookAt when the eye and target
	// coincide or the view direction is parallel to the world up axis.
	ErrDegenerateLookAt = errors.New("degenerate look-at")
)

// FitGate selects how the film gate is reconciled with the image aspect
// ratio when the two differ.
type FitGate int

const (
	// Overscan keeps the whole film frame visible and pads the image.
	Overscan FitGate = iota
	// Fill crops the film frame so the image is completely covered.
	Fill
)

func (f FitGate) String() string {
	switch f {
	case Fill:
		return "fill"
	case Overscan:
		return "overscan"
	}
	return fmt.Sprintf("FitGate(%d)", int(f))
}

// CameraSettings are the physical parameters of a pinhole camera.
type CameraSettings struct {
	Width, Height int // image size in pixels

	FilmWidth, FilmHeight float64 // film aperture in inches
	FocalLength           float64 // millimetres

	Near, Far float64 // clipping distances

	WorldToCam math3d.Mat4
	Fit        FitGate
}

// DefaultCameraSettings describes a 640x480 image on a 35mm full aperture
// with a 20mm lens, looking down -Z from the origin.
func DefaultCameraSettings() CameraSettings {
	return CameraSettings{
		Width:       640,
		Height:      480,
		FilmWidth:   0.980,
		FilmHeight:  0.735,
		FocalLength: 20,
		Near:        1,
		Far:         1000,
		WorldToCam:  math3d.Identity(),
		Fit:         Overscan,
	}
}

// Validate reports the first problem with s, wrapped in ErrInvalidSettings.
func (s CameraSettings) Validate() error {
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidSettings, s.Width, s.Height)
	case !(s.FilmWidth > 0) || !(s.FilmHeight > 0):
		return fmt.Errorf("%w: film aperture %vx%v", ErrInvalidSettings, s.FilmWidth, s.FilmHeight)
	case !(s.FocalLength > 0):
		return fmt.Errorf("%w: focal length %v", ErrInvalidSettings, s.FocalLength)
	case !(s.Near > 0) || !(s.Far > s.Near):
		return fmt.Errorf("%w: clip planes near=%v far=%v", ErrInvalidSettings, s.Near, s.Far)
	case s.Fit != Fill && s.Fit != Overscan:
		return fmt.Errorf("%w: fit gate %v", ErrInvalidSettings, s.Fit)
	}
	return nil
}

// ScreenWindow is the image rectangle on the near plane, in camera space.
type ScreenWindow struct {
	Top, Bottom, Left, Right float64
}

// Camera is a pinhole camera looking down its local -Z axis.
//
// Every mutation recomputes the inverse transform, the world-space origin
// and the screen window together, so derived values are never stale.
type Camera struct {
	s          CameraSettings
	camToWorld math3d.Mat4
	origin     math3d.Vec3
	window     ScreenWindow
	fov        float64 // horizontal, degrees
}

// NewCamera creates a camera from s.
func NewCamera(s CameraSettings) (*Camera, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	c := &Camera{s: s}
	c.setWorldToCam(s.WorldToCam)
	return c, nil
}

// Settings returns the camera's current parameters.
func (c *Camera) Settings() CameraSettings { return c.s }

// Width returns the image width in pixels.
func (c *Camera) Width() int { return c.s.Width }

// Height returns the image height in pixels.
func (c *Camera) Height() int { return c.s.Height }

// Near returns the near clipping distance.
func (c *Camera) Near() float64 { return c.s.Near }

// Far returns the far clipping distance.
func (c *Camera) Far() float64 { return c.s.Far }

// FOV returns the horizontal field of view in degrees.
func (c *Camera) FOV() float64 { return c.fov }

// ScreenWindow returns the screen window on the near plane.
func (c *Camera) ScreenWindow() ScreenWindow { return c.window }

// Origin returns the camera position in world space.
func (c *Camera) Origin() math3d.Vec3 { return c.origin }

// WorldToCam returns the world-to-camera transform.
func (c *Camera) WorldToCam() math3d.Mat4 { return c.s.WorldToCam }

// CamToWorld returns the camera-to-world transform.
func (c *Camera) CamToWorld() math3d.Mat4 { return c.camToWorld }

// AspectRatio returns width / height of the image.
func (c *Camera) AspectRatio() float64 {
	return float64(c.s.Width) / float64(c.s.Height)
}

// SetImageSize changes the output resolution.
func (c *Camera) SetImageSize(width, height int) error {
	s := c.s
	s.Width, s.Height = width, height
	return c.apply(s)
}

// SetFilmAperture changes the film gate size, in inches.
func (c *Camera) SetFilmAperture(width, height float64) error {
	s := c.s
	s.FilmWidth, s.FilmHeight = width, height
	return c.apply(s)
}

// SetFocalLength changes the focal length, in millimetres.
func (c *Camera) SetFocalLength(mm float64) error {
	s := c.s
	s.FocalLength = mm
	return c.apply(s)
}

// SetClipPlanes changes the near and far clipping distances.
func (c *Camera) SetClipPlanes(near, far float64) error {
	s := c.s
	s.Near, s.Far = near, far
	return c.apply(s)
}

// SetFit changes the resolution gate policy.
func (c *Camera) SetFit(fit FitGate) error {
	s := c.s
	s.Fit = fit
	return c.apply(s)
}

func (c *Camera) apply(s CameraSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.s = s
	c.updateWindow()
	return nil
}

// SetWorldToCam replaces the world-to-camera transform.
func (c *Camera) SetWorldToCam(m math3d.Mat4) {
	c.setWorldToCam(m)
}

// SetCamToWorld replaces the camera-to-world transform.
func (c *Camera) SetCamToWorld(m math3d.Mat4) {
	c.s.WorldToCam = m.Inverse()
	c.camToWorld = m
	c.origin = m.MulVec3(math3d.Vec3{})
	c.updateWindow()
}

// ApplyTransform composes m onto the world-to-camera transform, so m is
// applied to world points before the current view.
func (c *Camera) ApplyTransform(m math3d.Mat4) {
	c.setWorldToCam(c.s.WorldToCam.Mul(m))
}

// LookAt places the camera at from, aimed at to, with world +Y as up.
// On degenerate input the camera is left unchanged.
func (c *Camera) LookAt(from, to math3d.Vec3) error {
	d := from.Sub(to)
	if d.LenSq() == 0 {
		return fmt.Errorf("%w: eye and target are both %v", ErrDegenerateLookAt, from)
	}
	forward := d.Normalize()
	right := math3d.Up().Cross(forward)
	if right.LenSq() < 1e-12 {
		return fmt.Errorf("%w: view direction %v is parallel to up", ErrDegenerateLookAt, forward.Negate())
	}
	right = right.Normalize()
	up := forward.Cross(right)

	c.SetCamToWorld(math3d.FromBasis(right, up, forward, from))
	return nil
}

func (c *Camera) setWorldToCam(m math3d.Mat4) {
	c.s.WorldToCam = m
	c.camToWorld = m.Inverse()
	c.origin = c.camToWorld.MulVec3(math3d.Vec3{})
	c.updateWindow()
}

// updateWindow recomputes the screen window and field of view.
func (c *Camera) updateWindow() {
	s := c.s
	top := (s.FilmHeight * inchToMM / 2 / s.FocalLength) * s.Near
	right := (s.FilmWidth * inchToMM / 2 / s.FocalLength) * s.Near

	filmAspect := s.FilmWidth / s.FilmHeight
	deviceAspect := float64(s.Width) / float64(s.Height)

	xs, ys := 1.0, 1.0
	switch s.Fit {
	case Fill:
		if deviceAspect < filmAspect {
			xs = deviceAspect / filmAspect
		} else {
			ys = filmAspect / deviceAspect
		}
	case Overscan:
		if deviceAspect < filmAspect {
			ys = filmAspect / deviceAspect
		} else {
			xs = deviceAspect / filmAspect
		}
	}
	right *= xs
	top *= ys

	c.window = ScreenWindow{Top: top, Bottom: -top, Left: -right, Right: right}
	c.fov = 2 * math.Atan(right/s.Near) * 180 / math.Pi
}

// ToCamera transforms a world-space point into camera space.
func (c *Camera) ToCamera(p math3d.Vec3) math3d.Vec3 {
	return c.s.WorldToCam.MulVec3(p)
}

// ProjectToRaster maps a world-space point to raster coordinates. X grows
// right and Y grows down from the top-left corner; Z is the positive
// view-space depth. Points at or behind the camera plane produce a
// non-positive Z and meaningless X and Y.
func (c *Camera) ProjectToRaster(p math3d.Vec3) math3d.Vec3 {
	pc := c.ToCamera(p)
	return c.cameraToRaster(pc)
}

func (c *Camera) cameraToRaster(pc math3d.Vec3) math3d.Vec3 {
	w := c.window
	sx := c.s.Near * pc.X / -pc.Z
	sy := c.s.Near * pc.Y / -pc.Z

	ndcX := 2*sx/(w.Right-w.Left) - (w.Right+w.Left)/(w.Right-w.Left)
	ndcY := 2*sy/(w.Top-w.Bottom) - (w.Top+w.Bottom)/(w.Top-w.Bottom)

	return math3d.Vec3{
		X: (ndcX + 1) / 2 * float64(c.s.Width),
		Y: (1 - ndcY) / 2 * float64(c.s.Height),
		Z: -pc.Z,
	}
}

// CameraRay returns the world-space primary ray through the centre of
// pixel (x, y). It panics if the pixel lies outside the image.
func (c *Camera) CameraRay(x, y int) math3d.Ray {
	if x < 0 || x >= c.s.Width || y < 0 || y >= c.s.Height {
		panic(fmt.Sprintf("render: camera ray for pixel (%d, %d) outside %dx%d image", x, y, c.s.Width, c.s.Height))
	}
	scale := math.Tan(c.fov / 2 * math.Pi / 180)
	ndcX := 2*(float64(x)+0.5)/float64(c.s.Width) - 1
	ndcY := 1 - 2*(float64(y)+0.5)/float64(c.s.Height)

	dir := math3d.V3(ndcX*scale, ndcY*scale/c.AspectRatio(), -1)
	return math3d.NewRay(c.origin, c.camToWorld.MulVec3Dir(dir))
}

// Frustum returns the world-space clipping volume of the camera.
func (c *Camera) Frustum() Frustum {
	n, w := c.s.Near, c.window
	cam := [6]Plane{
		FrustumLeft:   {Normal: math3d.V3(n, 0, w.Left)},
		FrustumRight:  {Normal: math3d.V3(-n, 0, -w.Right)},
		FrustumBottom: {Normal: math3d.V3(0, n, w.Bottom)},
		FrustumTop:    {Normal: math3d.V3(0, -n, -w.Top)},
		FrustumNear:   {Normal: math3d.V3(0, 0, -1), D: -n},
		FrustumFar:    {Normal: math3d.V3(0, 0, 1), D: c.s.Far},
	}

	// n·(R p + T) + D = (Rᵀ n)·p + (n·T + D)
	rt := c.s.WorldToCam.Transpose()
	t := c.s.WorldToCam.Translation()
	var f Frustum
	for i, p := range cam {
		f.Planes[i] = Plane{
			Normal: rt.MulVec3Dir(p.Normal),
			D:      p.Normal.Dot(t) + p.D,
		}
		f.Planes[i].Normalize()
	}
	return f
}
