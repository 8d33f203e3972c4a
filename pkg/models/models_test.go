package models

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/taigrr/pinhole/pkg/math3d"
)

const quad = `
0 0 0   1 0 0   0 1 0
1 0 0   1 1 0   0 1 0
`

func TestParseRaw(t *testing.T) {
	m, err := ParseRaw(strings.NewReader(quad), false)
	if err != nil {
		t.Fatalf("ParseRaw() error = %v", err)
	}
	if m.TriangleCount() != 2 || m.VertexCount() != 6 {
		t.Fatalf("got %d triangles, %d vertices", m.TriangleCount(), m.VertexCount())
	}

	pos, n, uv := m.GetVertex(1)
	if pos != math3d.V3(1, 0, 0) {
		t.Errorf("vertex 1 = %v", pos)
	}
	if !n.ApproxEqual(math3d.V3(0, 0, 1), 1e-9) {
		t.Errorf("normal = %v, want +Z", n)
	}
	if uv != math3d.V2(1, 0) {
		t.Errorf("uv = %v, want (1, 0)", uv)
	}

	lo, hi := m.GetBounds()
	if lo != math3d.V3(0, 0, 0) || hi != math3d.V3(1, 1, 0) {
		t.Errorf("bounds = %v %v", lo, hi)
	}
}

func TestParseRawYUp(t *testing.T) {
	m, err := ParseRaw(strings.NewReader("1 2 3  4 5 6  7 8 9"), true)
	if err != nil {
		t.Fatalf("ParseRaw() error = %v", err)
	}
	if got := m.Vertices[0].Position; got != math3d.V3(1, 3, 2) {
		t.Errorf("vertex 0 = %v, want (1, 3, 2)", got)
	}
}

func TestParseRawTrailingVertices(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(log.New(&buf))
	defer SetLogger(nil)

	m, err := ParseRaw(strings.NewReader(quad+" 5 5 5"), false)
	if err != nil {
		t.Fatalf("ParseRaw() error = %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("TriangleCount() = %d, want 2", m.TriangleCount())
	}
	if !strings.Contains(buf.String(), "multiple of 3") {
		t.Errorf("expected a warning, log = %q", buf.String())
	}
}

func TestParseRawErrors(t *testing.T) {
	tests := []struct {
		name, in string
	}{
		{"not a number", "0 0 zero"},
		{"partial vertex", "0 0 0 1 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRaw(strings.NewReader(tt.in), false)
			if !errors.Is(err, ErrInvalidMesh) {
				t.Errorf("ParseRaw() error = %v, want ErrInvalidMesh", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.raw")
	if err := os.WriteFile(path, []byte(quad), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Name != "quad.raw" {
		t.Errorf("Name = %q", m.Name)
	}

	if _, err := Load(filepath.Join(dir, "mesh.obj"), false); !errors.Is(err, ErrInvalidMesh) {
		t.Errorf("Load(.obj) error = %v, want ErrInvalidMesh", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.glb"), false); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestMeshTransform(t *testing.T) {
	m, err := ParseRaw(strings.NewReader(quad), false)
	if err != nil {
		t.Fatal(err)
	}
	c := m.Clone()
	c.Transform(math3d.Translate(math3d.V3(0, 0, -5)).Mul(math3d.Scale(math3d.V3(2, 1, 1))))

	if m.Vertices[1].Position != math3d.V3(1, 0, 0) {
		t.Error("Transform() modified the original through Clone()")
	}
	if got := c.Vertices[1].Position; !got.ApproxEqual(math3d.V3(2, 0, -5), 1e-9) {
		t.Errorf("transformed vertex = %v", got)
	}
	if got := c.Vertices[1].Normal; !got.ApproxEqual(math3d.V3(0, 0, 1), 1e-9) {
		t.Errorf("transformed normal = %v", got)
	}
	if got := c.Size(); !got.ApproxEqual(math3d.V3(2, 1, 0), 1e-9) {
		t.Errorf("Size() = %v", got)
	}
	if got := c.Center(); !got.ApproxEqual(math3d.V3(1, 0.5, -5), 1e-9) {
		t.Errorf("Center() = %v", got)
	}
	if got, want := c.Radius(), math.Sqrt(5)/2; math.Abs(got-want) > 1e-9 {
		t.Errorf("Radius() = %v, want %v", got, want)
	}
}

func TestTriangleReader(t *testing.T) {
	m, err := ParseRaw(strings.NewReader(quad), false)
	if err != nil {
		t.Fatal(err)
	}
	tr := NewTriangleReader(m)

	buf := make([]r3.Triangle, 1)
	var got []r3.Triangle
	for {
		n, err := tr.ReadTriangles(buf)
		got = append(got, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadTriangles() error = %v", err)
		}
	}
	if len(got) != 2 {
		t.Fatalf("read %d triangles, want 2", len(got))
	}
	if got[1][1] != (r3.Vec{X: 1, Y: 1}) {
		t.Errorf("triangle 1 vertex 1 = %v", got[1][1])
	}

	tr.Reset()
	if n, _ := tr.ReadTriangles(make([]r3.Triangle, 8)); n != 2 {
		t.Errorf("after Reset read %d, want 2", n)
	}
}

func TestMeshFromDocument(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}

	m, err := meshFromDocument(doc, "quad.glb")
	if err != nil {
		t.Fatalf("meshFromDocument() error = %v", err)
	}
	if m.TriangleCount() != 2 || m.VertexCount() != 4 {
		t.Fatalf("got %d triangles, %d vertices", m.TriangleCount(), m.VertexCount())
	}
	// File winding is kept.
	if got := m.GetFace(1); got != [3]int{0, 2, 3} {
		t.Errorf("face 1 = %v, want [0 2 3]", got)
	}
	if got := m.Vertices[2].Normal; !got.ApproxEqual(math3d.V3(0, 0, 1), 1e-6) {
		t.Errorf("computed normal = %v, want +Z", got)
	}
	if _, hi := m.GetBounds(); hi != math3d.V3(1, 1, 0) {
		t.Errorf("bounds max = %v", hi)
	}
}

func TestMeshFromDocumentEmpty(t *testing.T) {
	if _, err := meshFromDocument(gltf.NewDocument(), "empty.glb"); err == nil {
		t.Error("meshFromDocument() of an empty document should fail")
	}
}

func BenchmarkParseRaw(b *testing.B) {
	var sb strings.Builder
	for range 1000 {
		sb.WriteString(quad)
	}
	src := sb.String()
	SetLogger(log.New(io.Discard))
	defer SetLogger(nil)
	for b.Loop() {
		if _, err := ParseRaw(strings.NewReader(src), false); err != nil {
			b.Fatal(err)
		}
	}
}
