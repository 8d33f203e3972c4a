package trace

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// Box is an axis-aligned box.
type Box struct {
	Min, Max math3d.Vec3
	Mat      Material
}

// NewBox creates a box from two opposite corners in any order.
func NewBox(a, b math3d.Vec3, m Material) *Box {
	return &Box{Min: a.Min(b), Max: a.Max(b), Mat: m}
}

// Intersect clips the ray against the three slabs of the box and returns
// the entry distance, or the exit distance when the origin is inside.
func (b *Box) Intersect(r math3d.Ray) (float64, bool) {
	var tmin, tmax [3]float64
	for i := range 3 {
		inv := 1 / r.Dir.At(i)
		t0 := (b.Min.At(i) - r.Origin.At(i)) * inv
		t1 := (b.Max.At(i) - r.Origin.At(i)) * inv
		if inv < 0 {
			t0, t1 = t1, t0
		}
		tmin[i], tmax[i] = t0, t1
	}

	near := math3d.Max3(tmin[0], tmin[1], tmin[2])
	far := math3d.Min3(tmax[0], tmax[1], tmax[2])
	// NaN from a zero direction component with the origin on a slab
	// face fails both comparisons and counts as a miss.
	if !(near <= far) || far < 0 {
		return 0, false
	}
	if near < 0 {
		return far, true
	}
	return near, true
}

// SurfaceData returns the outward normal of the face nearest to p and UV
// coordinates spanning that face.
func (b *Box) SurfaceData(p math3d.Vec3) (math3d.Vec3, math3d.Vec2) {
	axis, sign := 0, -1.0
	best := math.Inf(1)
	for i := range 3 {
		if d := math.Abs(p.At(i) - b.Min.At(i)); d < best {
			best, axis, sign = d, i, -1
		}
		if d := math.Abs(p.At(i) - b.Max.At(i)); d < best {
			best, axis, sign = d, i, 1
		}
	}
	n := math3d.Vec3{}.With(axis, sign)

	u, v := (axis+1)%3, (axis+2)%3
	size := b.Max.Sub(b.Min)
	uv := math3d.V2(
		ratio(p.At(u)-b.Min.At(u), size.At(u)),
		ratio(p.At(v)-b.Min.At(v), size.At(v)),
	)
	return n, uv
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Material returns the box's material.
func (b *Box) Material() Material { return b.Mat }

func (*Box) primitive() {}
