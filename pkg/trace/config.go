package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
)

// ErrInvalidScene is returned for scene files that cannot be decoded or
// describe impossible geometry.
var ErrInvalidScene = errors.New("invalid scene")

// Vec3Cfg is a point or direction written as [x, y, z].
type Vec3Cfg [3]float64

func (v Vec3Cfg) vec() math3d.Vec3 { return math3d.V3(v[0], v[1], v[2]) }

// MaterialCfg is a material in a scene file.
type MaterialCfg struct {
	Color   [3]uint8 `json:"color"`
	Checker int      `json:"checker,omitempty"`
}

func (m MaterialCfg) material() Material {
	return Material{Color: render.RGB(m.Color[0], m.Color[1], m.Color[2]), Checker: m.Checker}
}

// CameraCfg overrides the default camera. Zero fields keep the defaults.
type CameraCfg struct {
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	FocalLength float64 `json:"focalLength,omitempty"`
	Near        float64 `json:"near,omitempty"`
	Far         float64 `json:"far,omitempty"`
	Fill        bool    `json:"fill,omitempty"`
	From        Vec3Cfg `json:"from"`
	To          Vec3Cfg `json:"to"`
}

// SphereCfg is a sphere in a scene file.
type SphereCfg struct {
	Center   Vec3Cfg     `json:"center"`
	Radius   float64     `json:"radius"`
	Material MaterialCfg `json:"material"`
}

// Build validates the radius and creates the sphere.
func (c SphereCfg) Build() (*Sphere, error) {
	if !(c.Radius > 0) {
		return nil, fmt.Errorf("sphere radius must be > 0, got %g", c.Radius)
	}
	return NewSphere(c.Center.vec(), c.Radius, c.Material.material()), nil
}

// PlaneCfg is an infinite plane through Point, visible from the side
// Normal points away from.
type PlaneCfg struct {
	Normal   Vec3Cfg     `json:"normal"`
	Point    Vec3Cfg     `json:"point"`
	Material MaterialCfg `json:"material"`
}

// Build rejects a zero normal and creates the plane.
func (c PlaneCfg) Build() (*Plane, error) {
	if c.Normal.vec().LenSq() == 0 {
		return nil, errors.New("plane normal must be non-zero")
	}
	return NewPlane(c.Normal.vec(), c.Point.vec(), c.Material.material()), nil
}

// DiskCfg is a disk of Radius around Center, oriented like PlaneCfg.
type DiskCfg struct {
	Normal   Vec3Cfg     `json:"normal"`
	Center   Vec3Cfg     `json:"center"`
	Radius   float64     `json:"radius"`
	Material MaterialCfg `json:"material"`
}

// Build validates the normal and radius and creates the disk.
func (c DiskCfg) Build() (*Disk, error) {
	if c.Normal.vec().LenSq() == 0 {
		return nil, errors.New("disk normal must be non-zero")
	}
	if !(c.Radius > 0) {
		return nil, fmt.Errorf("disk radius must be > 0, got %g", c.Radius)
	}
	return NewDisk(c.Normal.vec(), c.Center.vec(), c.Radius, c.Material.material()), nil
}

// BoxCfg is an axis-aligned box given by two opposite corners.
type BoxCfg struct {
	Min      Vec3Cfg     `json:"min"`
	Max      Vec3Cfg     `json:"max"`
	Material MaterialCfg `json:"material"`
}

// Build creates the box. The corners may be given in either order.
func (c BoxCfg) Build() (*Box, error) {
	return NewBox(c.Min.vec(), c.Max.vec(), c.Material.material()), nil
}

// SceneCfg is the JSON form of a scene.
type SceneCfg struct {
	Camera     CameraCfg   `json:"camera"`
	Background [3]uint8    `json:"background,omitempty"`
	Spheres    []SphereCfg `json:"spheres,omitempty"`
	Planes     []PlaneCfg  `json:"planes,omitempty"`
	Disks      []DiskCfg   `json:"disks,omitempty"`
	Boxes      []BoxCfg    `json:"boxes,omitempty"`
}

// Build creates the scene and a tracer whose camera looks from Camera.From
// to Camera.To.
func (c SceneCfg) Build() (*Scene, *Tracer, error) {
	s := render.DefaultCameraSettings()
	if c.Camera.Width > 0 {
		s.Width = c.Camera.Width
	}
	if c.Camera.Height > 0 {
		s.Height = c.Camera.Height
	}
	if c.Camera.FocalLength > 0 {
		s.FocalLength = c.Camera.FocalLength
	}
	if c.Camera.Near > 0 {
		s.Near = c.Camera.Near
	}
	if c.Camera.Far > 0 {
		s.Far = c.Camera.Far
	}
	if c.Camera.Fill {
		s.Fit = render.Fill
	}
	cam, err := render.NewCamera(s)
	if err != nil {
		return nil, nil, err
	}
	if c.Camera.From != c.Camera.To {
		if err := cam.LookAt(c.Camera.From.vec(), c.Camera.To.vec()); err != nil {
			return nil, nil, err
		}
	}

	scene := NewScene()
	for i, sc := range c.Spheres {
		p, err := sc.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("spheres[%d]: %w", i, err)
		}
		scene.Add(p)
	}
	for i, pc := range c.Planes {
		p, err := pc.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("planes[%d]: %w", i, err)
		}
		scene.Add(p)
	}
	for i, dc := range c.Disks {
		p, err := dc.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("disks[%d]: %w", i, err)
		}
		scene.Add(p)
	}
	for i, bc := range c.Boxes {
		p, err := bc.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("boxes[%d]: %w", i, err)
		}
		scene.Add(p)
	}

	tr := NewTracer(cam)
	tr.Background = render.RGB(c.Background[0], c.Background[1], c.Background[2])
	return scene, tr, nil
}

// DecodeScene reads a JSON scene from r.
func DecodeScene(r io.Reader) (*Scene, *Tracer, error) {
	var cfg SceneCfg
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	scene, tr, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	return scene, tr, nil
}

// LoadScene reads a JSON scene file.
func LoadScene(path string) (*Scene, *Tracer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	scene, tr, err := DecodeScene(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, tr, nil
}
