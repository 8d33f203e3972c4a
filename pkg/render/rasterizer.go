package render

import (
	"errors"
	"io"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// minArea is the smallest doubled raster area a triangle may have and
// still be drawn.
const minArea = 1e-12

// aaGrid is the side of the anti-aliasing sample grid.
const aaGrid = 4

// Triangle is a world-space triangle with per-vertex texture coordinates.
type Triangle struct {
	V  [3]math3d.Vec3
	UV [3]math3d.Vec2
}

// DefaultUV is assigned to triangles whose source carries no texture
// coordinates.
var DefaultUV = [3]math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}

// Fragment is everything a shader learns about one sample of a triangle.
type Fragment struct {
	X, Y int // pixel

	// Barycentric weights of the sample in raster space. They sum to 1.
	B0, B1, B2 float64

	// Depth is the perspective-correct view-space depth of the sample.
	Depth float64

	// Cam holds the triangle's vertices in camera space.
	Cam [3]math3d.Vec3
	UV  [3]math3d.Vec2
}

// Shader computes the color of a fragment.
type Shader func(f *Fragment) Color

// FlatShader paints every fragment black.
func FlatShader(*Fragment) Color { return ColorBlack }

// MeshSource is the indexed triangle mesh the rasterizer can draw. It is
// declared here so the models package does not need to be imported.
type MeshSource interface {
	TriangleCount() int
	GetFace(i int) [3]int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
}

// BoundedMeshSource is a MeshSource that knows its bounding box, which
// allows it to be frustum culled.
type BoundedMeshSource interface {
	MeshSource
	GetBounds() (min, max math3d.Vec3)
}

// TriangleReader streams world-space triangles. ReadTriangles fills t and
// returns the number written; io.EOF marks the end of the stream.
type TriangleReader interface {
	ReadTriangles(t []r3.Triangle) (int, error)
}

// Stats counts the work done since the last ResetStats.
type Stats struct {
	Triangles    int // triangles submitted
	Culled       int // rejected during setup (behind, off-screen, back-facing, degenerate)
	Fragments    int // fragments that passed the depth test
	MeshesTested int
	MeshesCulled int
}

// Rasterizer scan-converts triangles into a framebuffer with depth
// testing. It is not safe for concurrent use.
type Rasterizer struct {
	camera *Camera
	fb     *Framebuffer
	depth  *DepthBuffer
	shader Shader
	aa     bool

	// DisableBackfaceCulling draws triangles of either winding.
	DisableBackfaceCulling bool

	Stats Stats
}

// NewRasterizer creates a rasterizer that draws into fb as seen from
// camera. The framebuffer and the camera image should have the same size.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	return &Rasterizer{
		camera: camera,
		fb:     fb,
		depth:  NewDepthBuffer(fb.Width, fb.Height, camera.Far()),
		shader: FlatShader,
	}
}

// Camera returns the rasterizer's camera.
func (r *Rasterizer) Camera() *Camera { return r.camera }

// Framebuffer returns the color buffer.
func (r *Rasterizer) Framebuffer() *Framebuffer { return r.fb }

// Depth returns the depth buffer.
func (r *Rasterizer) Depth() *DepthBuffer { return r.depth }

// SetShader replaces the fragment shader. A nil shader restores FlatShader.
func (r *Rasterizer) SetShader(s Shader) {
	if s == nil {
		s = FlatShader
	}
	r.shader = s
}

// SetAA selects 16x super-sampling for mesh and stream drawing.
func (r *Rasterizer) SetAA(on bool) { r.aa = on }

// AA reports whether super-sampling is enabled.
func (r *Rasterizer) AA() bool { return r.aa }

// Clear resets the color buffer to bg and the depth buffer to the far
// plane. A far plane changed on the camera since the last Clear takes
// effect here.
func (r *Rasterizer) Clear(bg Color) {
	r.fb.Clear(bg)
	if r.depth.Far() != r.camera.Far() || r.depth.Width() != r.fb.Width || r.depth.Height() != r.fb.Height {
		r.depth = NewDepthBuffer(r.fb.Width, r.fb.Height, r.camera.Far())
		return
	}
	r.depth.Clear()
}

// ResetStats zeroes the work counters.
func (r *Rasterizer) ResetStats() { r.Stats = Stats{} }

// edge is the signed doubled area of triangle (a, b, c). It is positive
// when c lies to the right of a→b in raster space (Y down).
func edge(a, b, c math3d.Vec3) float64 {
	return (c.X-a.X)*(b.Y-a.Y) - (c.Y-a.Y)*(b.X-a.X)
}

// setup is a triangle prepared for scan conversion.
type setup struct {
	v   [3]math3d.Vec3 // raster x, y and 1/z
	cam [3]math3d.Vec3
	uv  [3]math3d.Vec2

	x0, x1, y0, y1 int
	invArea        float64

	// Edge i is the edge opposite vertex i. w0 holds their values at the
	// first pixel centre, dx and dy their change per pixel step.
	w0, dx, dy [3]float64
}

// prepare projects t and computes its edge equations. It reports false
// for triangles that cannot produce fragments.
func (r *Rasterizer) prepare(t Triangle) (setup, bool) {
	var s setup
	s.uv = t.UV
	for i := range 3 {
		s.cam[i] = r.camera.ToCamera(t.V[i])
		s.v[i] = r.camera.cameraToRaster(s.cam[i])
		if !(s.v[i].Z > 0) {
			return s, false
		}
		s.v[i].Z = 1 / s.v[i].Z
	}

	w, h := float64(r.fb.Width), float64(r.fb.Height)
	xmin := math3d.Min3(s.v[0].X, s.v[1].X, s.v[2].X)
	xmax := math3d.Max3(s.v[0].X, s.v[1].X, s.v[2].X)
	ymin := math3d.Min3(s.v[0].Y, s.v[1].Y, s.v[2].Y)
	ymax := math3d.Max3(s.v[0].Y, s.v[1].Y, s.v[2].Y)
	if xmin > w-1 || xmax < 0 || ymin > h-1 || ymax < 0 {
		return s, false
	}
	s.x0 = int(math.Max(0, math.Floor(xmin)))
	s.x1 = int(math.Min(w-1, math.Floor(xmax)))
	s.y0 = int(math.Max(0, math.Floor(ymin)))
	s.y1 = int(math.Min(h-1, math.Floor(ymax)))

	area := edge(s.v[0], s.v[1], s.v[2])
	if area < -minArea && r.DisableBackfaceCulling {
		s.v[1], s.v[2] = s.v[2], s.v[1]
		s.cam[1], s.cam[2] = s.cam[2], s.cam[1]
		s.uv[1], s.uv[2] = s.uv[2], s.uv[1]
		area = -area
	}
	if area <= minArea {
		return s, false
	}
	s.invArea = 1 / area

	p := math3d.V3(float64(s.x0)+0.5, float64(s.y0)+0.5, 0)
	for i := range 3 {
		a, b := s.v[(i+1)%3], s.v[(i+2)%3]
		s.w0[i] = edge(a, b, p)
		s.dx[i] = b.Y - a.Y
		s.dy[i] = -(b.X - a.X)
	}
	return s, true
}

// fragment fills f for edge values w.
func (s *setup) fragment(f *Fragment, x, y int, w [3]float64) {
	f.X, f.Y = x, y
	f.B0 = w[0] * s.invArea
	f.B1 = w[1] * s.invArea
	f.B2 = w[2] * s.invArea
	f.Depth = 1 / (f.B0*s.v[0].Z + f.B1*s.v[1].Z + f.B2*s.v[2].Z)
	f.Cam = s.cam
	f.UV = s.uv
}

// DrawTriangle rasterizes t with one sample per pixel and reports whether
// it survived setup. A visible triangle may still be fully occluded.
//
// Triangles are rejected when a vertex is at or behind the camera plane,
// when they miss the image, or when their raster winding is clockwise
// (back-facing) or degenerate.
func (r *Rasterizer) DrawTriangle(t Triangle) bool {
	r.Stats.Triangles++
	s, ok := r.prepare(t)
	if !ok {
		r.Stats.Culled++
		return false
	}

	var f Fragment
	row := s.w0
	for y := s.y0; y <= s.y1; y++ {
		w := row
		for x := s.x0; x <= s.x1; x++ {
			if w[0] >= 0 && w[1] >= 0 && w[2] >= 0 {
				s.fragment(&f, x, y, w)
				if r.depth.TestAndSet(x, y, f.Depth) {
					r.Stats.Fragments++
					r.fb.SetPixel(x, y, r.shader(&f))
				}
			}
			w[0] += s.dx[0]
			w[1] += s.dx[1]
			w[2] += s.dx[2]
		}
		row[0] += s.dy[0]
		row[1] += s.dy[1]
		row[2] += s.dy[2]
	}
	return true
}

// DrawTriangleAA16 rasterizes t like DrawTriangle but shades each visible
// pixel at a regular 4x4 grid of sub-pixel positions and writes the mean
// color.
//
// Coverage and the depth test are decided once at the pixel centre; the
// samples only refine the color. Samples may fall outside the triangle
// along its edges, where the shader sees barycentrics slightly below zero.
func (r *Rasterizer) DrawTriangleAA16(t Triangle) bool {
	r.Stats.Triangles++
	s, ok := r.prepare(t)
	if !ok {
		r.Stats.Culled++
		return false
	}

	const (
		first = -3.0 / 8 // offset of the first sample from the centre
		step  = 1.0 / aaGrid
		n     = aaGrid * aaGrid
	)

	var f Fragment
	row := s.w0
	for y := s.y0; y <= s.y1; y++ {
		w := row
		for x := s.x0; x <= s.x1; x++ {
			if w[0] >= 0 && w[1] >= 0 && w[2] >= 0 {
				s.fragment(&f, x, y, w)
				if r.depth.TestAndSet(x, y, f.Depth) {
					r.Stats.Fragments++
					var sum [3]float64
					var sr [3]float64
					for i := range 3 {
						sr[i] = w[i] + s.dx[i]*first + s.dy[i]*first
					}
					for range aaGrid {
						sw := sr
						for range aaGrid {
							s.fragment(&f, x, y, sw)
							c := r.shader(&f)
							sum[0] += float64(c.R)
							sum[1] += float64(c.G)
							sum[2] += float64(c.B)
							for i := range 3 {
								sw[i] += s.dx[i] * step
							}
						}
						for i := range 3 {
							sr[i] += s.dy[i] * step
						}
					}
					r.fb.SetPixel(x, y, RGB(
						uint8(sum[0]/n+0.5),
						uint8(sum[1]/n+0.5),
						uint8(sum[2]/n+0.5),
					))
				}
			}
			w[0] += s.dx[0]
			w[1] += s.dx[1]
			w[2] += s.dx[2]
		}
		row[0] += s.dy[0]
		row[1] += s.dy[1]
		row[2] += s.dy[2]
	}
	return true
}

func (r *Rasterizer) draw(t Triangle) bool {
	if r.aa {
		return r.DrawTriangleAA16(t)
	}
	return r.DrawTriangle(t)
}

// IsVisible reports whether a world-space box may be inside the view.
func (r *Rasterizer) IsVisible(bounds AABB) bool {
	return r.camera.Frustum().IntersectAABB(bounds)
}

// DrawMesh draws every face of mesh after applying transform to its
// vertex positions, and returns the number of triangles that survived
// setup. Meshes with bounds entirely outside the view are skipped.
func (r *Rasterizer) DrawMesh(mesh MeshSource, transform math3d.Mat4) int {
	if bm, ok := mesh.(BoundedMeshSource); ok {
		r.Stats.MeshesTested++
		lo, hi := bm.GetBounds()
		if !r.IsVisible(NewAABB(lo, hi).Transform(transform)) {
			r.Stats.MeshesCulled++
			return 0
		}
	}

	drawn := 0
	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var t Triangle
		for j, idx := range face {
			pos, _, uv := mesh.GetVertex(idx)
			t.V[j] = transform.MulVec3(pos)
			t.UV[j] = uv
		}
		if r.draw(t) {
			drawn++
		}
	}
	return drawn
}

// DrawFrom drains src and draws every triangle it yields with DefaultUV
// texture coordinates. It returns the number of triangles that survived
// setup.
func (r *Rasterizer) DrawFrom(src TriangleReader) (int, error) {
	buf := make([]r3.Triangle, 256)
	drawn := 0
	for {
		n, err := src.ReadTriangles(buf)
		for _, tri := range buf[:n] {
			t := Triangle{UV: DefaultUV}
			for j, v := range tri {
				t.V[j] = math3d.V3(v.X, v.Y, v.Z)
			}
			if r.draw(t) {
				drawn++
			}
		}
		if errors.Is(err, io.EOF) {
			return drawn, nil
		}
		if err != nil {
			return drawn, err
		}
	}
}
