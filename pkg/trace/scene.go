package trace

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// Hit records the closest intersection found along a ray.
type Hit struct {
	T         float64
	Point     math3d.Vec3
	Primitive Primitive
}

// Scene is an ordered list of primitives.
type Scene struct {
	prims []Primitive
}

// NewScene creates a scene holding prims.
func NewScene(prims ...Primitive) *Scene {
	return &Scene{prims: prims}
}

// Add appends primitives to the scene.
func (s *Scene) Add(p ...Primitive) {
	s.prims = append(s.prims, p...)
}

// Len returns the number of primitives.
func (s *Scene) Len() int { return len(s.prims) }

// Intersect returns the closest hit nearer than far. Ties keep the
// primitive added first.
func (s *Scene) Intersect(r math3d.Ray, far float64) (Hit, bool) {
	if far <= 0 {
		far = math.Inf(1)
	}
	best := Hit{T: far}
	found := false
	for _, p := range s.prims {
		t, ok := p.Intersect(r)
		if !ok || t >= best.T {
			continue
		}
		best.T, best.Primitive = t, p
		found = true
	}
	if found {
		best.Point = r.At(best.T)
	}
	return best, found
}
