package trace

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// Sphere is a sphere given by its centre and radius.
type Sphere struct {
	Center math3d.Vec3
	Radius float64
	Mat    Material
}

// NewSphere creates a sphere.
func NewSphere(center math3d.Vec3, radius float64, m Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Mat: m}
}

// Intersect solves |o + t·d - c|² = r² and returns the nearest root that
// is not behind the ray origin.
func (s *Sphere) Intersect(r math3d.Ray) (float64, bool) {
	oc := r.Origin.Sub(s.Center)
	a := r.Dir.Dot(r.Dir)
	b := 2 * oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	t0, t1, ok := math3d.SolveQuadratic(a, b, c)
	if !ok {
		return 0, false
	}
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	if t0 < 0 {
		// Origin inside the sphere: use the exit point.
		t0 = t1
		if t0 < 0 {
			return 0, false
		}
	}
	return t0, true
}

// SurfaceData returns the outward normal and spherical UV coordinates:
// longitude in u and latitude from the north pole in v.
func (s *Sphere) SurfaceData(p math3d.Vec3) (math3d.Vec3, math3d.Vec2) {
	n := p.Sub(s.Center).Normalize()
	u := (1 + math.Atan2(n.Z, n.X)/math.Pi) * 0.5
	v := math.Acos(math.Max(-1, math.Min(1, n.Y))) / math.Pi
	return n, math3d.V2(u, v)
}

// Material returns the sphere's material.
func (s *Sphere) Material() Material { return s.Mat }

func (*Sphere) primitive() {}
