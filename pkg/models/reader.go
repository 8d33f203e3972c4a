package models

import (
	"io"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/taigrr/pinhole/pkg/render"
)

var (
	_ render.BoundedMeshSource = (*Mesh)(nil)
	_ render.TriangleReader    = (*TriangleReader)(nil)
)

// TriangleReader streams the faces of a mesh as r3 triangles.
type TriangleReader struct {
	mesh *Mesh
	next int
}

// NewTriangleReader returns a reader positioned at the first face of m.
func NewTriangleReader(m *Mesh) *TriangleReader {
	return &TriangleReader{mesh: m}
}

// ReadTriangles fills t with the next faces. It returns io.EOF once every
// face has been read.
func (tr *TriangleReader) ReadTriangles(t []r3.Triangle) (int, error) {
	if tr.next >= len(tr.mesh.Faces) {
		return 0, io.EOF
	}
	n := 0
	for n < len(t) && tr.next < len(tr.mesh.Faces) {
		f := tr.mesh.Faces[tr.next]
		for k, vi := range f.V {
			p := tr.mesh.Vertices[vi].Position
			t[n][k] = r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
		}
		n++
		tr.next++
	}
	return n, nil
}

// Reset rewinds the reader to the first face.
func (tr *TriangleReader) Reset() { tr.next = 0 }
