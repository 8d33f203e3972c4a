// Package render implements the pinhole camera, the triangle rasterizer and
// the pixel buffers both render paths write into.
package render

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"tinygo.org/x/drivers"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// Framebuffer is the color buffer written by the rasterizer and the ray
// tracer. Pixel (0, 0) is the top-left corner.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // row-major
}

// NewFramebuffer creates a framebuffer cleared to transparent black.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills the framebuffer with c.
func (fb *Framebuffer) Clear(c color.RGBA) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	fb.Pixels[0] = c
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel sets pixel (x, y). Out-of-range writes are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns pixel (x, y), or transparent black when out of range.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect fills a rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c color.RGBA) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			fb.SetPixel(px, py, c)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Lines returns a LineSink that draws raster-space segments into fb in c.
func (fb *Framebuffer) Lines(c color.RGBA) LineSink {
	return fbLines{fb: fb, c: c}
}

type fbLines struct {
	fb *Framebuffer
	c  color.RGBA
}

func (l fbLines) Line(a, b math3d.Vec3) {
	l.fb.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), l.c)
}

// Displayer adapts fb to the tinygo display interface so bitmap fonts can
// draw into it.
func (fb *Framebuffer) Displayer() drivers.Displayer {
	return &fbDisplay{fb: fb}
}

type fbDisplay struct {
	fb *Framebuffer
}

func (d *fbDisplay) Size() (x, y int16) {
	return int16(d.fb.Width), int16(d.fb.Height)
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.fb.SetPixel(int(x), int(y), c)
}

func (d *fbDisplay) Display() error { return nil }

// ToImage converts the framebuffer to an image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG writes the framebuffer to path as a PNG.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
