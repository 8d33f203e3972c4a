package export

import (
	"fmt"
	"io"

	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
)

var _ render.LineSink = (*SVG)(nil)

// SVG writes raster-space line segments as an SVG document. Write errors
// are sticky and reported by Close.
type SVG struct {
	w   io.Writer
	err error
}

// NewSVG writes the document header for a width×height image.
func NewSVG(w io.Writer, width, height int) *SVG {
	s := &SVG{w: w}
	s.printf(`<svg version="1.1" xmlns:xlink="http://www.w3.org/1999/xlink" xmlns="http://www.w3.org/2000/svg" height="%d" width="%d">`+"\n", height, width)
	s.printf("<style> line{stroke:rgb(0, 0, 0); stroke-width:0.2;} </style>\n")
	return s
}

func (s *SVG) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

// Line writes a segment between two raster positions. Coordinates are
// truncated to integers and z is ignored.
func (s *SVG) Line(a, b math3d.Vec3) {
	s.printf("<line x1='%d' y1 = '%d' x2 = '%d' y2 ='%d'/>\n", int(a.X), int(a.Y), int(b.X), int(b.Y))
}

// Close ends the document and returns the first write error. It does not
// close the underlying writer.
func (s *SVG) Close() error {
	s.printf("</svg>\n")
	return s.err
}
