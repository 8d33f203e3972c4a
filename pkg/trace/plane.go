package trace

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// Plane is an infinite one-sided plane through Point. Rays hit it only
// when travelling along Normal, so Normal points away from the viewer.
type Plane struct {
	Normal math3d.Vec3
	Point  math3d.Vec3
	Mat    Material
}

// NewPlane creates a plane. The normal is normalized.
func NewPlane(normal, point math3d.Vec3, m Material) *Plane {
	return &Plane{Normal: normal.Normalize(), Point: point, Mat: m}
}

// Intersect returns the distance to the plane. Rays nearly parallel to
// the plane, or travelling against the normal, miss.
func (p *Plane) Intersect(r math3d.Ray) (float64, bool) {
	return intersectPlane(r, p.Normal, p.Point)
}

func intersectPlane(r math3d.Ray, n, point math3d.Vec3) (float64, bool) {
	denom := r.Dir.Dot(n)
	if denom <= planeEps {
		return 0, false
	}
	t := point.Sub(r.Origin).Dot(n) / denom
	return t, t >= 0
}

// SurfaceData returns the viewer-facing normal and a tiling UV taken from
// the hit's X and Y offset from Point.
func (p *Plane) SurfaceData(hit math3d.Vec3) (math3d.Vec3, math3d.Vec2) {
	return p.Normal.Negate(), planeUV(hit, p.Point)
}

func planeUV(hit, origin math3d.Vec3) math3d.Vec2 {
	return math3d.V2(
		math3d.Frac(math.Abs(hit.X-origin.X)),
		math3d.Frac(math.Abs(hit.Y-origin.Y)),
	)
}

// Material returns the plane's material.
func (p *Plane) Material() Material { return p.Mat }

func (*Plane) primitive() {}

// Disk is the part of a one-sided plane within Radius of Center.
type Disk struct {
	Normal math3d.Vec3
	Center math3d.Vec3
	Radius float64
	Mat    Material
}

// NewDisk creates a disk. The normal is normalized.
func NewDisk(normal, center math3d.Vec3, radius float64, m Material) *Disk {
	return &Disk{Normal: normal.Normalize(), Center: center, Radius: radius, Mat: m}
}

// Intersect hits the disk's plane, then rejects points outside the radius.
func (d *Disk) Intersect(r math3d.Ray) (float64, bool) {
	t, ok := intersectPlane(r, d.Normal, d.Center)
	if !ok {
		return 0, false
	}
	if r.At(t).Sub(d.Center).LenSq() > d.Radius*d.Radius {
		return 0, false
	}
	return t, true
}

// SurfaceData returns the viewer-facing normal and the plane's tiling UV.
func (d *Disk) SurfaceData(hit math3d.Vec3) (math3d.Vec3, math3d.Vec2) {
	return d.Normal.Negate(), planeUV(hit, d.Center)
}

// Material returns the disk's material.
func (d *Disk) Material() Material { return d.Mat }

func (*Disk) primitive() {}
