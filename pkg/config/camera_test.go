package config

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
)

const sample = `
320 240
0.98 0.735
0.5 200
35
1 0 0 0
0 1 0 0
0 0 1 0
0 0 -10 1
1
`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(sample), false)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Width != 320 || s.Height != 240 {
		t.Errorf("size = %dx%d", s.Width, s.Height)
	}
	if s.Near != 0.5 || s.Far != 200 || s.FocalLength != 35 {
		t.Errorf("near/far/focal = %v/%v/%v", s.Near, s.Far, s.FocalLength)
	}
	if s.Fit != render.Fill {
		t.Errorf("Fit = %v, want Fill", s.Fit)
	}
	// The last row of the file is the translation.
	if got := s.WorldToCam.Translation(); got != math3d.V3(0, 0, -10) {
		t.Errorf("translation = %v, want (0, 0, -10)", got)
	}

	cam, err := render.NewCamera(s)
	if err != nil {
		t.Fatalf("NewCamera() error = %v", err)
	}
	if got := cam.Origin(); !got.ApproxEqual(math3d.V3(0, 0, 10), 1e-9) {
		t.Errorf("camera origin = %v, want (0, 0, 10)", got)
	}
}

func TestParseColumnMajor(t *testing.T) {
	row, err := Parse(strings.NewReader(sample), false)
	if err != nil {
		t.Fatal(err)
	}
	col, err := Parse(strings.NewReader(sample), true)
	if err != nil {
		t.Fatal(err)
	}
	if col.WorldToCam != row.WorldToCam.Transpose() {
		t.Errorf("column-major matrix = %v, want transpose of %v", col.WorldToCam, row.WorldToCam)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, in string
	}{
		{"empty", ""},
		{"bad width", "wide 240"},
		{"truncated matrix", "320 240 0.98 0.735 1 100 35 1 0 0 0"},
		{"missing fit", "320 240 0.98 0.735 1 100 35 1 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1"},
		{"near beyond far", "320 240 0.98 0.735 100 1 35 1 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in), false)
			if !errors.Is(err, render.ErrInvalidSettings) {
				t.Errorf("Parse() error = %v, want ErrInvalidSettings", err)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	want := render.DefaultCameraSettings()
	want.WorldToCam = math3d.Translate(math3d.V3(1.5, -2, -7.25)).Mul(math3d.RotateY(0.3))
	want.Fit = render.Fill

	var buf bytes.Buffer
	if err := Write(&buf, want); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Parse(&buf, false)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camera.cfg")
	want := render.DefaultCameraSettings()
	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.cfg"), false); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}
