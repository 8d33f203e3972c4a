package math3d

import "math"

// Vec4 is a homogeneous point or direction.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// V4FromV3 extends v with the given w: 1 for points, 0 for directions.
func V4FromV3(v Vec3, w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// Vec3 drops W without dividing.
func (a Vec4) Vec3() Vec3 {
	return Vec3{a.X, a.Y, a.Z}
}

// PerspectiveDivide returns xyz / w. A zero w is treated as 1.
func (a Vec4) PerspectiveDivide() Vec3 {
	if a.W == 0 {
		return a.Vec3()
	}
	return Vec3{a.X / a.W, a.Y / a.W, a.Z / a.W}
}

// Add returns a + b.
func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W}
}

// Sub returns a - b.
func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W}
}

// Mul returns the component-wise product.
func (a Vec4) Mul(b Vec4) Vec4 {
	return Vec4{a.X * b.X, a.Y * b.Y, a.Z * b.Z, a.W * b.W}
}

// Scale returns a * s.
func (a Vec4) Scale(s float64) Vec4 {
	return Vec4{a.X * s, a.Y * s, a.Z * s, a.W * s}
}

// Dot returns a · b.
func (a Vec4) Dot(b Vec4) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// LenSq returns the squared norm.
func (a Vec4) LenSq() float64 {
	return a.Dot(a)
}

// Len returns the Euclidean length.
func (a Vec4) Len() float64 {
	return math.Sqrt(a.LenSq())
}

// Normalize returns the unit vector in the same direction, or a unchanged
// when its norm is not positive.
func (a Vec4) Normalize() Vec4 {
	n := a.LenSq()
	if !(n > 0) {
		return a
	}
	return a.Scale(1 / math.Sqrt(n))
}

// Negate returns -a.
func (a Vec4) Negate() Vec4 {
	return Vec4{-a.X, -a.Y, -a.Z, -a.W}
}

// Lerp interpolates linearly from a to b.
func (a Vec4) Lerp(b Vec4, t float64) Vec4 {
	return a.Add(b.Sub(a).Scale(t))
}

// At returns component i (0 = X through 3 = W).
func (a Vec4) At(i int) float64 {
	switch i {
	case 0:
		return a.X
	case 1:
		return a.Y
	case 2:
		return a.Z
	case 3:
		return a.W
	}
	panic("math3d: Vec4 index out of range")
}

// Min returns the component-wise minimum.
func (a Vec4) Min(b Vec4) Vec4 {
	return Vec4{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z), math.Min(a.W, b.W)}
}

// Max returns the component-wise maximum.
func (a Vec4) Max(b Vec4) Vec4 {
	return Vec4{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z), math.Max(a.W, b.W)}
}

// Abs returns the component-wise absolute value.
func (a Vec4) Abs() Vec4 {
	return Vec4{math.Abs(a.X), math.Abs(a.Y), math.Abs(a.Z), math.Abs(a.W)}
}
