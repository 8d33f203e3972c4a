package render

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// Checker returns the checkerboard mix factor for texture coordinates
// (s, t) with m squares per unit: 0.7 on one color, 0.3 on the other.
func Checker(s, t float64, m int) float64 {
	fm := float64(m)
	var c float64
	if (math3d.Frac(s*fm) > 0.5) != (math3d.Frac(t*fm) < 0.5) {
		c = 1
	}
	return 0.3*(1-c) + 0.7*c
}

// CheckerShader shades fragments with an m×m checkerboard over each
// triangle's texture coordinates, scaled by how directly the surface faces
// the viewer. Fragments on surfaces facing away are black.
func CheckerShader(m int) Shader {
	return func(f *Fragment) Color {
		c0, c1, c2 := f.Cam[0], f.Cam[1], f.Cam[2]

		// Texture coordinates and position are affine in 1/z, so divide by
		// each vertex depth, interpolate, then multiply back.
		iz0, iz1, iz2 := -1/c0.Z, -1/c1.Z, -1/c2.Z
		st := f.UV[0].Scale(iz0 * f.B0).
			Add(f.UV[1].Scale(iz1 * f.B1)).
			Add(f.UV[2].Scale(iz2 * f.B2)).
			Scale(f.Depth)
		px := (c0.X*iz0*f.B0 + c1.X*iz1*f.B1 + c2.X*iz2*f.B2) * f.Depth
		py := (c0.Y*iz0*f.B0 + c1.Y*iz1*f.B1 + c2.Y*iz2*f.B2) * f.Depth
		pt := math3d.V3(px, py, -f.Depth)

		n := c1.Sub(c0).Cross(c2.Sub(c0)).Normalize()
		facing := n.Dot(pt.Negate().Normalize())
		if facing <= 0 {
			return ColorBlack
		}

		v := uint8(math.Min(255, 255*Checker(st.X, st.Y, m)*facing))
		return RGB(v, v, v)
	}
}

// DepthShader maps fragment depth to gray, white at near and black at far.
func DepthShader(near, far float64) Shader {
	return func(f *Fragment) Color {
		t := (far - f.Depth) / (far - near)
		t = math.Max(0, math.Min(1, t))
		v := uint8(255 * t)
		return RGB(v, v, v)
	}
}
