// Package export writes rendered buffers to image and vector files.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/pinhole/pkg/render"
)

func ppmHeader(w io.Writer, width, height int) error {
	_, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", width, height)
	return err
}

// WritePPM writes fb as a binary PPM. Alpha is discarded.
func WritePPM(w io.Writer, fb *render.Framebuffer) error {
	bw := bufio.NewWriter(w)
	if err := ppmHeader(bw, fb.Width, fb.Height); err != nil {
		return err
	}
	row := make([]byte, 3*fb.Width)
	for y := range fb.Height {
		for x := range fb.Width {
			c := fb.Pixels[y*fb.Width+x]
			row[3*x], row[3*x+1], row[3*x+2] = c.R, c.G, c.B
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteDepthPPM writes the depth buffer as a gray PPM. The nearest stored
// depth is white and the far plane is black, so untouched pixels are
// black.
func WriteDepthPPM(w io.Writer, d *render.DepthBuffer) error {
	near, _ := d.Range()
	span := d.Far() - near

	bw := bufio.NewWriter(w)
	if err := ppmHeader(bw, d.Width(), d.Height()); err != nil {
		return err
	}
	row := make([]byte, 3*d.Width())
	for y := range d.Height() {
		for x := range d.Width() {
			var v byte
			if span > 0 {
				t := (d.Far() - d.At(x, y)) / span
				v = byte(255*min(1, max(0, t)) + 0.5)
			}
			row[3*x], row[3*x+1], row[3*x+2] = v, v, v
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func save(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// SavePPM writes fb to path as a PPM.
func SavePPM(path string, fb *render.Framebuffer) error {
	return save(path, func(w io.Writer) error { return WritePPM(w, fb) })
}

// SaveDepthPPM writes d to path as a gray PPM.
func SaveDepthPPM(path string, d *render.DepthBuffer) error {
	return save(path, func(w io.Writer) error { return WriteDepthPPM(w, d) })
}

// SaveImage writes fb as PNG when path ends in .png and as PPM otherwise.
func SaveImage(path string, fb *render.Framebuffer) error {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return fb.SavePNG(path)
	}
	return SavePPM(path, fb)
}
