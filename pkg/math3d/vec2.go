package math3d

import "math"

// Vec2 is a 2-D vector, used for raster positions and texture coordinates.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns a * s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Dot returns a · b.
func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// LenSq returns the squared norm.
func (a Vec2) LenSq() float64 {
	return a.X*a.X + a.Y*a.Y
}

// Len returns the Euclidean length.
func (a Vec2) Len() float64 {
	return math.Sqrt(a.LenSq())
}

// Normalize returns the unit vector in the same direction, or a unchanged
// when its norm is not positive.
func (a Vec2) Normalize() Vec2 {
	n := a.LenSq()
	if !(n > 0) {
		return a
	}
	inv := 1 / math.Sqrt(n)
	return Vec2{a.X * inv, a.Y * inv}
}

// At returns component i (0 = X, 1 = Y).
func (a Vec2) At(i int) float64 {
	switch i {
	case 0:
		return a.X
	case 1:
		return a.Y
	}
	panic("math3d: Vec2 index out of range")
}

// Mul returns the component-wise product.
func (a Vec2) Mul(b Vec2) Vec2 {
	return Vec2{a.X * b.X, a.Y * b.Y}
}

// Negate returns -a.
func (a Vec2) Negate() Vec2 {
	return Vec2{-a.X, -a.Y}
}

// Lerp interpolates linearly from a to b.
func (a Vec2) Lerp(b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Min returns the component-wise minimum.
func (a Vec2) Min(b Vec2) Vec2 {
	return Vec2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)}
}

// Max returns the component-wise maximum.
func (a Vec2) Max(b Vec2) Vec2 {
	return Vec2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)}
}

// Abs returns the component-wise absolute value.
func (a Vec2) Abs() Vec2 {
	return Vec2{math.Abs(a.X), math.Abs(a.Y)}
}
