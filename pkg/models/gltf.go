package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// LoadGLTF loads every triangle primitive of a .gltf or .glb file into one
// mesh. Winding is kept as stored: glTF front faces are counter-clockwise.
// Missing normals are computed from the faces and missing texture
// coordinates fall back to the per-triangle default.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open gltf %s: %w", ErrInvalidMesh, path, err)
	}

	mesh, err := meshFromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidMesh, path, err)
	}
	return mesh, nil
}

func meshFromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	hasUV := true
	for _, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			ok, err := appendPrimitive(doc, prim, mesh)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
			}
			hasUV = hasUV && ok
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("no triangles")
	}

	if !mesh.hasNormals() {
		mesh.CalculateNormals()
	}
	if !hasUV {
		logger.Debug("gltf mesh has no texture coordinates, using defaults", "mesh", name)
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// appendPrimitive adds one primitive's triangles to mesh and reports whether
// it carried texture coordinates.
func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) (bool, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		logger.Warn("skipping non-triangle primitive", "mode", prim.Mode)
		return true, nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return true, nil
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return false, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return false, fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return false, fmt.Errorf("read uvs: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return false, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		logger.Warn("index count is not a multiple of 3, dropping the tail", "indices", len(indices))
	}

	base := len(mesh.Vertices)
	for i, p := range positions {
		v := MeshVertex{Position: vec3f(p)}
		if i < len(normals) {
			v.Normal = vec3f(normals[i])
		}
		if i < len(uvs) {
			// glTF puts v=0 at the top of the image.
			v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	for i := 0; i+2 < len(indices); i += 3 {
		var f Face
		for k := range 3 {
			idx := int(indices[i+k])
			if idx >= len(positions) {
				return false, fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
			}
			f.V[k] = base + idx
		}
		mesh.Faces = append(mesh.Faces, f)
	}

	if len(uvs) == 0 {
		assignDefaultUV(mesh, base)
		return false, nil
	}
	return true, nil
}

// assignDefaultUV gives the vertices of faces added from base onwards the
// per-triangle default coordinates. Shared vertices end up with the last
// face's value.
func assignDefaultUV(mesh *Mesh, base int) {
	for _, f := range mesh.Faces {
		for k, vi := range f.V {
			if vi >= base {
				mesh.Vertices[vi].UV = defaultUV[k]
			}
		}
	}
}

func vec3f(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}
