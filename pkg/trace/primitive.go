// Package trace renders analytic primitives by casting one primary ray per
// pixel and shading the closest hit.
package trace

import (
	"image/color"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// planeEps is the smallest ray/normal cosine a plane or disk accepts.
const planeEps = 1e-6

// Material describes how a primitive is colored.
type Material struct {
	Color color.RGBA

	// Checker is the number of checkerboard squares per UV unit. Zero
	// means a solid color.
	Checker int
}

// Primitive is a surface a ray can hit. The set of implementations is
// closed: Sphere, Plane, Disk and Box.
type Primitive interface {
	// Intersect returns the distance along r to the nearest hit at or
	// in front of the ray origin.
	Intersect(r math3d.Ray) (t float64, ok bool)

	// SurfaceData returns the shading normal and texture coordinates at
	// a point on the surface.
	SurfaceData(p math3d.Vec3) (n math3d.Vec3, uv math3d.Vec2)

	// Material returns the surface material.
	Material() Material

	primitive()
}
