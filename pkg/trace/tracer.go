package trace

import (
	"image/color"
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
)

// Tracer casts one primary ray per pixel through Camera.
type Tracer struct {
	Camera     *render.Camera
	Background color.RGBA
}

// NewTracer creates a tracer with a black background.
func NewTracer(camera *render.Camera) *Tracer {
	return &Tracer{Camera: camera, Background: render.ColorBlack}
}

// Trace returns the color seen along r. Surfaces are lit by a headlight at
// the ray origin; a miss returns the background.
func (tr *Tracer) Trace(scene *Scene, r math3d.Ray) color.RGBA {
	far := math.Inf(1)
	if tr.Camera != nil {
		far = tr.Camera.Far()
	}
	hit, ok := scene.Intersect(r, far)
	if !ok {
		return tr.Background
	}
	return shade(hit, r)
}

func shade(hit Hit, r math3d.Ray) color.RGBA {
	n, uv := hit.Primitive.SurfaceData(hit.Point)
	facing := math.Max(0, n.Dot(r.Dir.Negate()))
	m := hit.Primitive.Material()

	k := facing
	if m.Checker > 0 {
		k *= render.Checker(uv.X, uv.Y, m.Checker)
	}
	return color.RGBA{
		R: scale8(m.Color.R, k),
		G: scale8(m.Color.G, k),
		B: scale8(m.Color.B, k),
		A: 255,
	}
}

func scale8(c uint8, k float64) uint8 {
	return uint8(math.Min(255, float64(c)*k))
}

// Render traces every pixel of the camera's image into fb. The framebuffer
// must match the camera's image size.
func (tr *Tracer) Render(scene *Scene, fb *render.Framebuffer) {
	w, h := tr.Camera.Width(), tr.Camera.Height()
	for y := range h {
		for x := range w {
			fb.SetPixel(x, y, tr.Trace(scene, tr.Camera.CameraRay(x, y)))
		}
	}
}
