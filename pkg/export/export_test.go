package export

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
)

func TestWritePPM(t *testing.T) {
	fb := render.NewFramebuffer(2, 1)
	fb.SetPixel(0, 0, render.RGB(1, 2, 3))
	fb.SetPixel(1, 0, render.RGB(250, 251, 252))

	var buf bytes.Buffer
	if err := WritePPM(&buf, fb); err != nil {
		t.Fatalf("WritePPM() error = %v", err)
	}
	want := append([]byte("P6\n2 1\n255\n"), 1, 2, 3, 250, 251, 252)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("WritePPM() = %q, want %q", buf.Bytes(), want)
	}
}

func TestWriteDepthPPM(t *testing.T) {
	d := render.NewDepthBuffer(3, 1, 100)
	d.Set(0, 0, 10)
	d.Set(1, 0, 55)

	var buf bytes.Buffer
	if err := WriteDepthPPM(&buf, d); err != nil {
		t.Fatalf("WriteDepthPPM() error = %v", err)
	}
	header := "P6\n3 1\n255\n"
	body := buf.Bytes()[len(header):]
	if got := string(buf.Bytes()[:len(header)]); got != header {
		t.Fatalf("header = %q", got)
	}
	// nearest white, halfway mid gray, untouched black
	wantGray := []byte{255, 128, 0}
	for x, want := range wantGray {
		if body[3*x] != want || body[3*x+1] != want || body[3*x+2] != want {
			t.Errorf("pixel %d = %v, want gray %d", x, body[3*x:3*x+3], want)
		}
	}
}

func TestWriteDepthPPMEmpty(t *testing.T) {
	d := render.NewDepthBuffer(2, 2, 100)
	var buf bytes.Buffer
	if err := WriteDepthPPM(&buf, d); err != nil {
		t.Fatalf("WriteDepthPPM() error = %v", err)
	}
	for i, b := range buf.Bytes()[len("P6\n2 2\n255\n"):] {
		if b != 0 {
			t.Fatalf("byte %d = %d, want black", i, b)
		}
	}
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	fb := render.NewFramebuffer(4, 3)
	fb.Clear(render.ColorRed)

	ppm := filepath.Join(dir, "out.ppm")
	if err := SaveImage(ppm, fb); err != nil {
		t.Fatalf("SaveImage(.ppm) error = %v", err)
	}
	data, err := os.ReadFile(ppm)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("P6\n4 3\n255\n")) || len(data) != len("P6\n4 3\n255\n")+36 {
		t.Errorf("ppm file has %d bytes, prefix %q", len(data), data[:min(len(data), 11)])
	}

	pngPath := filepath.Join(dir, "out.PNG")
	if err := SaveImage(pngPath, fb); err != nil {
		t.Fatalf("SaveImage(.png) error = %v", err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if r, _, _, _ := img.At(2, 1).RGBA(); r>>8 != 255 {
		t.Errorf("png pixel red = %d, want 255", r>>8)
	}

	if err := SavePPM(filepath.Join(dir, "missing", "out.ppm"), fb); err == nil {
		t.Error("SavePPM() into a missing directory should fail")
	}
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVG(&buf, 640, 480)
	s.Line(math3d.V3(1.9, 2.2, 0.5), math3d.V3(300.7, 400, 0))
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := `<svg version="1.1" xmlns:xlink="http://www.w3.org/1999/xlink" xmlns="http://www.w3.org/2000/svg" height="480" width="640">
<style> line{stroke:rgb(0, 0, 0); stroke-width:0.2;} </style>
<line x1='1' y1 = '2' x2 = '300' y2 ='400'/>
</svg>
`
	if got := buf.String(); got != want {
		t.Errorf("SVG output:\n%s\nwant:\n%s", got, want)
	}
}

type failWriter struct{ n int }

var errFull = errors.New("disk full")

func (f *failWriter) Write(p []byte) (int, error) {
	if f.n <= 0 {
		return 0, errFull
	}
	f.n--
	return len(p), nil
}

func TestSVGStickyError(t *testing.T) {
	s := NewSVG(&failWriter{n: 2}, 10, 10)
	s.Line(math3d.V3(0, 0, 0), math3d.V3(1, 1, 0))
	s.Line(math3d.V3(0, 0, 0), math3d.V3(2, 2, 0))
	if err := s.Close(); !errors.Is(err, errFull) {
		t.Errorf("Close() error = %v, want %v", err, errFull)
	}
}

func TestWireframeToSVG(t *testing.T) {
	s := render.DefaultCameraSettings()
	s.Width, s.Height = 64, 48
	cam, err := render.NewCamera(s)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	svg := NewSVG(&buf, 64, 48)
	wf := render.NewWireframe(cam, svg)
	wf.DrawCube(math3d.V3(0, 0, -5), 1)
	if err := svg.Close(); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "<line "); n != 12 {
		t.Errorf("cube produced %d lines, want 12", n)
	}
}
