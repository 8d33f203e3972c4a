package math3d

import "math"

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// NewRay creates a ray from origin along dir. The direction is normalized.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// SolveQuadratic returns the real roots of a*x² + b*x + c = 0. It reports
// false when the discriminant is negative. The roots are not ordered.
func SolveQuadratic(a, b, c float64) (x0, x1 float64, ok bool) {
	disc := b*b - 4*a*c
	switch {
	case disc < 0:
		return 0, 0, false
	case disc == 0:
		x := -0.5 * b / a
		return x, x, true
	}

	// Stable form: avoid subtracting nearly equal quantities.
	var q float64
	if b > 0 {
		q = -0.5 * (b + math.Sqrt(disc))
	} else {
		q = -0.5 * (b - math.Sqrt(disc))
	}
	return q / a, c / q, true
}

// Min3 returns the smallest of three values.
func Min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

// Max3 returns the largest of three values.
func Max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// Frac returns the fractional part of x, in [0, 1) for x ≥ 0.
func Frac(x float64) float64 {
	return x - math.Floor(x)
}
