package render

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// LineSink receives projected line segments. Endpoints are raster
// coordinates with the view depth in Z.
type LineSink interface {
	Line(a, b math3d.Vec3)
}

// Wireframe projects 3-D segments through a camera into a LineSink,
// bypassing the rasterizer.
type Wireframe struct {
	camera *Camera
	sink   LineSink
}

// NewWireframe creates a wireframe renderer.
func NewWireframe(camera *Camera, sink LineSink) *Wireframe {
	return &Wireframe{
		camera: camera,
		sink:   sink,
	}
}

// DrawLine3D projects the world-space segment p1-p2. The part of the
// segment in front of the near plane is kept; a segment entirely behind
// it is dropped. It reports whether anything was emitted.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3) bool {
	a, b := w.camera.ToCamera(p1), w.camera.ToCamera(p2)
	zn := -w.camera.Near()

	// Camera looks down -Z: visible points have z <= -near.
	aIn, bIn := a.Z <= zn, b.Z <= zn
	switch {
	case !aIn && !bIn:
		return false
	case !aIn:
		a = a.Lerp(b, (zn-a.Z)/(b.Z-a.Z))
	case !bIn:
		b = b.Lerp(a, (zn-b.Z)/(a.Z-b.Z))
	}
	w.sink.Line(w.camera.cameraToRaster(a), w.camera.cameraToRaster(b))
	return true
}

// DrawTriangle outlines a world-space triangle.
func (w *Wireframe) DrawTriangle(t Triangle) {
	w.DrawLine3D(t.V[0], t.V[1])
	w.DrawLine3D(t.V[1], t.V[2])
	w.DrawLine3D(t.V[2], t.V[0])
}

// DrawMesh outlines every face of mesh after transform.
func (w *Wireframe) DrawMesh(mesh MeshSource, transform math3d.Mat4) {
	for i := range mesh.TriangleCount() {
		var t Triangle
		for j, idx := range mesh.GetFace(i) {
			pos, _, _ := mesh.GetVertex(idx)
			t.V[j] = transform.MulVec3(pos)
		}
		w.DrawTriangle(t)
	}
}

// DrawCube outlines an axis-aligned cube.
func (w *Wireframe) DrawCube(center math3d.Vec3, size float64) {
	h := size / 2
	var v [8]math3d.Vec3
	for i := range v {
		v[i] = center.Add(math3d.V3(
			selectComponent(i&1 != 0, h, -h),
			selectComponent(i&2 != 0, h, -h),
			selectComponent(i&4 != 0, h, -h),
		))
	}
	// Corners differ by one bit along each edge.
	for i := range v {
		for _, bit := range []int{1, 2, 4} {
			if i&bit == 0 {
				w.DrawLine3D(v[i], v[i|bit])
			}
		}
	}
}

// DrawGrid draws a square grid on the XZ plane at y=0, centred on the
// origin. Lines are step apart and the outermost lines are at ±size/2.
func (w *Wireframe) DrawGrid(size, step float64) {
	if !(step > 0) || !(size > 0) {
		return
	}
	half := size / 2
	n := int(math.Floor(size/step + 1e-9))
	for i := 0; i <= n; i++ {
		c := -half + float64(i)*step
		w.DrawLine3D(math3d.V3(c, 0, -half), math3d.V3(c, 0, half))
		w.DrawLine3D(math3d.V3(-half, 0, c), math3d.V3(half, 0, c))
	}
}

// DrawAxes draws the X, Y and Z axes from origin, each length long, in
// that order.
func (w *Wireframe) DrawAxes(origin math3d.Vec3, length float64) {
	w.DrawLine3D(origin, origin.Add(math3d.V3(length, 0, 0)))
	w.DrawLine3D(origin, origin.Add(math3d.V3(0, length, 0)))
	w.DrawLine3D(origin, origin.Add(math3d.V3(0, 0, length)))
}
