// Package config reads and writes camera settings files.
//
// A settings file is whitespace separated text:
//
//	width height
//	film_width film_height
//	near far
//	focal_length
//	m00 m01 m02 m03 ... m33   (world to camera, 16 values)
//	fit                       (0 overscan, anything else fill)
//
// Film sizes are in inches and the focal length in millimetres.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
)

// Load reads a settings file. When columnMajor is set the matrix is read
// transposed.
func Load(path string, columnMajor bool) (render.CameraSettings, error) {
	f, err := os.Open(path)
	if err != nil {
		return render.CameraSettings{}, fmt.Errorf("open camera settings: %w", err)
	}
	defer f.Close()

	s, err := Parse(f, columnMajor)
	if err != nil {
		return render.CameraSettings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

type tokens struct {
	sc *bufio.Scanner
	n  int
}

func (t *tokens) next(what string) (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("missing %s (value %d)", what, t.n)
	}
	t.n++
	return t.sc.Text(), nil
}

func (t *tokens) int(what string) (int, error) {
	s, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	return v, nil
}

func (t *tokens) float(what string) (float64, error) {
	s, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	return v, nil
}

// Parse reads camera settings from r and validates them. Errors wrap
// render.ErrInvalidSettings.
func Parse(r io.Reader, columnMajor bool) (render.CameraSettings, error) {
	s, err := parse(r, columnMajor)
	if err != nil {
		return render.CameraSettings{}, fmt.Errorf("%w: %w", render.ErrInvalidSettings, err)
	}
	if err := s.Validate(); err != nil {
		return render.CameraSettings{}, err
	}
	return s, nil
}

func parse(r io.Reader, columnMajor bool) (render.CameraSettings, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	t := &tokens{sc: sc}

	var s render.CameraSettings
	var err error
	if s.Width, err = t.int("width"); err != nil {
		return s, err
	}
	if s.Height, err = t.int("height"); err != nil {
		return s, err
	}

	floats := []struct {
		dst  *float64
		name string
	}{
		{&s.FilmWidth, "film width"},
		{&s.FilmHeight, "film height"},
		{&s.Near, "near"},
		{&s.Far, "far"},
		{&s.FocalLength, "focal length"},
	}
	for _, f := range floats {
		if *f.dst, err = t.float(f.name); err != nil {
			return s, err
		}
	}

	var m math3d.Mat4
	for i := range m {
		if m[i], err = t.float("matrix"); err != nil {
			return s, err
		}
	}
	if columnMajor {
		m = m.Transpose()
	}
	s.WorldToCam = m

	fit, err := t.int("fit")
	if err != nil {
		return s, err
	}
	if fit != 0 {
		s.Fit = render.Fill
	}
	return s, nil
}

// Write stores s in the settings file format. The matrix is written in
// the order Parse reads it without columnMajor.
func Write(w io.Writer, s render.CameraSettings) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", s.Width, s.Height)
	fmt.Fprintf(bw, "%g %g\n", s.FilmWidth, s.FilmHeight)
	fmt.Fprintf(bw, "%g %g\n", s.Near, s.Far)
	fmt.Fprintf(bw, "%g\n", s.FocalLength)
	for row := range 4 {
		for col := range 4 {
			sep := " "
			if col == 3 {
				sep = "\n"
			}
			fmt.Fprintf(bw, "%g%s", s.WorldToCam[row*4+col], sep)
		}
	}
	fit := 0
	if s.Fit == render.Fill {
		fit = 1
	}
	fmt.Fprintf(bw, "%d\n", fit)
	return bw.Flush()
}

// Save writes s to path.
func Save(path string, s render.CameraSettings) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create camera settings: %w", err)
	}
	if err := Write(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
