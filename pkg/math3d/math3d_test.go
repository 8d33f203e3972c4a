package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func TestVec3Normalize(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
	}{
		{"axis", V3(3, 0, 0)},
		{"diagonal", V3(1, 2, 3)},
		{"negative", V3(-4, 0.5, -7)},
		{"tiny", V3(1e-150, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.v.Normalize()
			if !approxEqual(n.Len(), 1) {
				t.Errorf("Normalize(%v).Len() = %v, want 1", tt.v, n.Len())
			}
			if n.Dot(tt.v) <= 0 {
				t.Errorf("Normalize(%v) = %v flips direction", tt.v, n)
			}
		})
	}

	t.Run("zero", func(t *testing.T) {
		if got := (Vec3{}).Normalize(); got != (Vec3{}) {
			t.Errorf("Normalize(0) = %v, want zero vector", got)
		}
	})
}

func TestVec3Products(t *testing.T) {
	a, b := V3(1, -2, 3), V3(-4, 5, 0.5)

	if a.Dot(b) != b.Dot(a) {
		t.Errorf("dot not symmetric: %v vs %v", a.Dot(b), b.Dot(a))
	}
	if a.Cross(b) != b.Cross(a).Negate() {
		t.Errorf("cross not anti-symmetric: %v vs %v", a.Cross(b), b.Cross(a))
	}
	c := a.Cross(b)
	if !approxEqual(c.Dot(a), 0) || !approxEqual(c.Dot(b), 0) {
		t.Errorf("cross %v not orthogonal to inputs", c)
	}
	if got := V3(1, 0, 0).Cross(V3(0, 1, 0)); got != V3(0, 0, 1) {
		t.Errorf("x × y = %v, want z", got)
	}
}

func TestVec3At(t *testing.T) {
	v := V3(7, 8, 9)
	for i, want := range []float64{7, 8, 9} {
		if got := v.At(i); got != want {
			t.Errorf("At(%d) = %v, want %v", i, got, want)
		}
	}
	if got := v.With(1, -1); got != V3(7, -1, 9) {
		t.Errorf("With(1, -1) = %v", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("At(3) did not panic")
		}
	}()
	_ = v.At(3)
}

func TestVec2(t *testing.T) {
	v := V2(3, 4)
	if v.Len() != 5 {
		t.Errorf("Len() = %v, want 5", v.Len())
	}
	if got := v.Normalize(); !approxEqual(got.X, 0.6) || !approxEqual(got.Y, 0.8) {
		t.Errorf("Normalize() = %v", got)
	}
	if got := (Vec2{}).Normalize(); got != (Vec2{}) {
		t.Errorf("Normalize(0) = %v", got)
	}
	if got := v.Add(V2(1, 1)).Sub(V2(0, 2)).Scale(2); got != V2(8, 6) {
		t.Errorf("chained ops = %v", got)
	}
}

func TestVec2ComponentOps(t *testing.T) {
	a, b := V2(1, -4), V2(-3, 2)
	tests := []struct {
		name string
		got  Vec2
		want Vec2
	}{
		{"mul", a.Mul(b), V2(-3, -8)},
		{"negate", a.Negate(), V2(-1, 4)},
		{"lerp", a.Lerp(b, 0.25), V2(0, -2.5)},
		{"min", a.Min(b), V2(-3, -4)},
		{"max", a.Max(b), V2(1, 2)},
		{"abs", a.Abs(), V2(1, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestVec4(t *testing.T) {
	a, b := V4(1, -2, 3, 2), V4(-1, 4, 1, 0)
	tests := []struct {
		name string
		got  Vec4
		want Vec4
	}{
		{"add", a.Add(b), V4(0, 2, 4, 2)},
		{"sub", a.Sub(b), V4(2, -6, 2, 2)},
		{"mul", a.Mul(b), V4(-1, -8, 3, 0)},
		{"scale", a.Scale(2), V4(2, -4, 6, 4)},
		{"negate", a.Negate(), V4(-1, 2, -3, -2)},
		{"lerp", a.Lerp(b, 0.5), V4(0, 1, 2, 1)},
		{"min", a.Min(b), V4(-1, -2, 1, 0)},
		{"max", a.Max(b), V4(1, 4, 3, 2)},
		{"abs", b.Abs(), V4(1, 4, 1, 0)},
		{"zero normalize", Vec4{}.Normalize(), Vec4{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if got := a.Dot(b); got != -6 {
		t.Errorf("Dot = %v, want -6", got)
	}
	if got := V4(2, 0, 0, 0).Normalize(); got != V4(1, 0, 0, 0) || !approxEqual(a.Normalize().Len(), 1) {
		t.Errorf("Normalize = %v", got)
	}
	if got := a.PerspectiveDivide(); got != V3(0.5, -1, 1.5) {
		t.Errorf("PerspectiveDivide = %v", got)
	}
	if got := b.PerspectiveDivide(); got != V3(-1, 4, 1) {
		t.Errorf("PerspectiveDivide(w=0) = %v, want xyz unchanged", got)
	}
	if got := V4FromV3(V3(1, 2, 3), 1); got.Vec3() != V3(1, 2, 3) || got.At(3) != 1 {
		t.Errorf("V4FromV3 = %v", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("At(4) did not panic")
		}
	}()
	_ = a.At(4)
}

func TestMat4Projective(t *testing.T) {
	// Copies -z into w, the shape of a perspective projection.
	var m Mat4
	m.Set(0, 0, 1)
	m.Set(1, 1, 1)
	m.Set(2, 2, 1)
	m.Set(3, 2, -1)

	v := V3(2, 4, -2)
	if got := m.MulVec4(V4FromV3(v, 1)); got != V4(2, 4, -2, 2) {
		t.Errorf("MulVec4 = %v", got)
	}
	if got := m.MulVec3(v); got != V3(1, 2, -1) {
		t.Errorf("MulVec3 = %v, want divided by w", got)
	}
	if got := m.MulVec3(V3(1, 1, 0)); got != V3(1, 1, 0) {
		t.Errorf("MulVec3 with w=0 = %v, want w treated as 1", got)
	}
	if got := Translate(V3(1, 2, 3)).MulVec4(V4(1, 1, 1, 0)); got != V4(1, 1, 1, 0) {
		t.Errorf("direction picked up translation: %v", got)
	}
}

func TestMat4Inverse(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"identity", Identity()},
		{"translate", Translate(V3(1, -2, 3))},
		{"rotate scale translate", Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 3, 4)))},
		{"arbitrary axis", Rotate(V3(1, 1, 0), 1.2).Mul(Translate(V3(0, 0, -5)))},
		{"needs pivoting", Mat4{0, 1, 0, 0, 1, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.m.Invertible() {
				t.Fatal("matrix reported singular")
			}
			if got := tt.m.Mul(tt.m.Inverse()); !got.ApproxEqual(Identity(), 1e-9) {
				t.Errorf("M * M^-1 = %v, want identity", got)
			}
		})
	}
}

func TestMat4InverseSingular(t *testing.T) {
	singular := Scale(V3(1, 0, 1))
	if singular.Invertible() {
		t.Fatal("zero-scale matrix reported invertible")
	}
	if got := singular.Inverse(); got != Identity() {
		t.Errorf("Inverse(singular) = %v, want identity fallback", got)
	}
}

func TestMat4Identities(t *testing.T) {
	m := Translate(V3(4, 5, 6)).Mul(RotateX(0.3)).Mul(Scale(V3(1, 2, 3)))

	if m.Transpose().Transpose() != m {
		t.Error("transpose is not an involution")
	}
	if m.Mul(Identity()) != m || Identity().Mul(m) != m {
		t.Error("identity is not neutral")
	}
}

func TestMat4Transform(t *testing.T) {
	m := Translate(V3(10, 0, 0)).Mul(RotateZ(math.Pi / 2))

	if got := m.MulVec3(V3(1, 0, 0)); !got.ApproxEqual(V3(10, 1, 0), eps) {
		t.Errorf("point = %v, want (10, 1, 0)", got)
	}
	if got := m.MulVec3Dir(V3(1, 0, 0)); !got.ApproxEqual(V3(0, 1, 0), eps) {
		t.Errorf("direction = %v, want (0, 1, 0)", got)
	}

	// Row-major, row-vector layout reads straight into Mat4.
	rowMajor := Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		1, 2, 3, 1,
	}
	if got := rowMajor.MulVec3(Vec3{}); got != V3(1, 2, 3) {
		t.Errorf("row-major translation = %v", got)
	}
}

func TestFromBasis(t *testing.T) {
	m := FromBasis(V3(0, 0, -1), V3(0, 1, 0), V3(1, 0, 0), V3(1, 2, 3))
	if got := m.MulVec3(V3(1, 0, 0)); !got.ApproxEqual(V3(1, 2, 2), eps) {
		t.Errorf("MulVec3 = %v", got)
	}
	if got := m.Get(0, 2); got != 1 {
		t.Errorf("Get(0, 2) = %v, want 1", got)
	}
}

func TestSolveQuadratic(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		roots   []float64
		ok      bool
	}{
		{"double root", 1, -2, 1, []float64{1, 1}, true},
		{"two roots", 1, -5, 6, []float64{2, 3}, true},
		{"negative b", 2, 4, -6, []float64{-3, 1}, true},
		{"no real roots", 1, -8, 25, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0, x1, ok := SolveQuadratic(tt.a, tt.b, tt.c)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			lo, hi := math.Min(x0, x1), math.Max(x0, x1)
			if !approxEqual(lo, tt.roots[0]) || !approxEqual(hi, tt.roots[1]) {
				t.Errorf("roots = {%v, %v}, want %v", x0, x1, tt.roots)
			}
		})
	}
}

func TestRay(t *testing.T) {
	r := NewRay(V3(1, 1, 1), V3(0, 0, -10))
	if r.Dir != V3(0, 0, -1) {
		t.Errorf("Dir = %v, want normalized", r.Dir)
	}
	if got := r.At(2); got != V3(1, 1, -1) {
		t.Errorf("At(2) = %v", got)
	}
}

func TestFrac(t *testing.T) {
	for _, tt := range []struct{ in, want float64 }{
		{0, 0}, {1.25, 0.25}, {3, 0}, {-0.25, 0.75},
	} {
		if got := Frac(tt.in); !approxEqual(got, tt.want) {
			t.Errorf("Frac(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
