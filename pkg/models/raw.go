package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
)

var (
	logger    = log.Default()
	defaultUV = render.DefaultUV
)

// SetLogger replaces the logger used to report data problems while
// loading. A nil logger restores the default.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	logger = l
}

// Load reads a mesh, choosing the format from the file extension: .raw and
// .txt are raw vertex lists, .gltf and .glb are glTF. yUp only applies to
// raw files.
func Load(path string, yUp bool) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".raw", ".txt":
		return LoadRaw(path, yUp)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %s: unknown extension %q", ErrInvalidMesh, path, ext)
	}
}

// LoadRaw reads a raw mesh file. See ParseRaw.
func LoadRaw(path string, yUp bool) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mesh: %w", err)
	}
	defer f.Close()

	m, err := ParseRaw(f, yUp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Name = filepath.Base(path)
	return m, nil
}

// ParseRaw reads whitespace separated vertex coordinates, three per vertex
// and three vertices per triangle. When yUp is set each vertex is read as
// x z y, which swaps the second and third values.
//
// Trailing vertices that do not complete a triangle are dropped with a
// warning. A trailing partial vertex is an error.
func ParseRaw(r io.Reader, yUp bool) (*Mesh, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var coords []float64
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %w", ErrInvalidMesh, len(coords), err)
		}
		coords = append(coords, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMesh, err)
	}
	if len(coords)%3 != 0 {
		return nil, fmt.Errorf("%w: %d values do not form whole vertices", ErrInvalidMesh, len(coords))
	}

	verts := make([]math3d.Vec3, 0, len(coords)/3)
	for i := 0; i < len(coords); i += 3 {
		x, y, z := coords[i], coords[i+1], coords[i+2]
		if yUp {
			y, z = z, y
		}
		verts = append(verts, math3d.V3(x, y, z))
	}
	if extra := len(verts) % 3; extra != 0 {
		logger.Warn("vertex count is not a multiple of 3, dropping the tail",
			"vertices", len(verts), "dropped", extra)
		verts = verts[:len(verts)-extra]
	}

	m := NewMesh("raw")
	for i := 0; i < len(verts); i += 3 {
		m.AddTriangle(
			MeshVertex{Position: verts[i], UV: defaultUV[0]},
			MeshVertex{Position: verts[i+1], UV: defaultUV[1]},
			MeshVertex{Position: verts[i+2], UV: defaultUV[2]},
		)
	}
	m.CalculateNormals()
	m.CalculateBounds()
	logger.Debug("parsed raw mesh", "triangles", m.TriangleCount())
	return m, nil
}
