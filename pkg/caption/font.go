// Package caption draws short ASCII labels onto a drivers.Displayer with a
// built-in 5x7 bitmap font.
package caption

import (
	"image/color"
	"unicode"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

const (
	glyphW  = 5
	glyphH  = 7
	advance = glyphW + 1
	lineH   = glyphH + 2
)

// Font is a 5x7 monospace font covering space through underscore.
// Lowercase letters render as uppercase and anything else as '?'.
var Font tinyfont.Fonter = font5x7{}

type font5x7 struct{}

func (font5x7) GetYAdvance() uint8 { return lineH }

func (font5x7) GetGlyph(r rune) tinyfont.Glypher {
	return glyph{r: r}
}

type glyph struct {
	r rune
}

// Draw plots the glyph with its baseline at y.
func (g glyph) Draw(d drivers.Displayer, x, y int16, c color.RGBA) {
	cols := glyphColumns(g.r)
	for col, bits := range cols {
		// bit 0 is the top row
		for row := range glyphH {
			if bits&(1<<row) == 0 {
				continue
			}
			d.SetPixel(x+int16(col), y-int16(glyphH-1-row), c)
		}
	}
}

func (g glyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    glyphW,
		Height:   glyphH,
		XAdvance: advance,
		XOffset:  0,
		YOffset:  -(glyphH - 1),
	}
}

func glyphColumns(r rune) []byte {
	r = unicode.ToUpper(r)
	if r < ' ' || r > '_' {
		r = '?'
	}
	i := int(r-' ') * glyphW
	return glyphData[i : i+glyphW]
}

// Draw writes text with its top-left corner at (x, y).
func Draw(d drivers.Displayer, x, y int, text string, c color.RGBA) {
	tinyfont.WriteLine(d, Font, int16(x), int16(y+glyphH-1), text, c)
}

// Width returns the width in pixels that Draw uses for text.
func Width(text string) int {
	_, w := tinyfont.LineWidth(Font, text)
	return int(w)
}

// Height is the pixel height of one line of text.
const Height = glyphH

// Column bitmaps for ' ' through '_'.
var glyphData = []byte{
	0x00, 0x00, 0x00, 0x00, 0x00, // ' '
	0x00, 0x00, 0x5f, 0x00, 0x00, // !
	0x00, 0x07, 0x00, 0x07, 0x00, // "
	0x14, 0x7f, 0x14, 0x7f, 0x14, // #
	0x24, 0x2a, 0x7f, 0x2a, 0x12, // $
	0x23, 0x13, 0x08, 0x64, 0x62, // %
	0x36, 0x49, 0x55, 0x22, 0x50, // &
	0x00, 0x05, 0x03, 0x00, 0x00, // '
	0x00, 0x1c, 0x22, 0x41, 0x00, // (
	0x00, 0x41, 0x22, 0x1c, 0x00, // )
	0x08, 0x2a, 0x1c, 0x2a, 0x08, // *
	0x08, 0x08, 0x3e, 0x08, 0x08, // +
	0x00, 0x50, 0x30, 0x00, 0x00, // ,
	0x08, 0x08, 0x08, 0x08, 0x08, // -
	0x00, 0x60, 0x60, 0x00, 0x00, // .
	0x20, 0x10, 0x08, 0x04, 0x02, // /
	0x3e, 0x51, 0x49, 0x45, 0x3e, // 0
	0x00, 0x42, 0x7f, 0x40, 0x00, // 1
	0x42, 0x61, 0x51, 0x49, 0x46, // 2
	0x21, 0x41, 0x45, 0x4b, 0x31, // 3
	0x18, 0x14, 0x12, 0x7f, 0x10, // 4
	0x27, 0x45, 0x45, 0x45, 0x39, // 5
	0x3c, 0x4a, 0x49, 0x49, 0x30, // 6
	0x01, 0x71, 0x09, 0x05, 0x03, // 7
	0x36, 0x49, 0x49, 0x49, 0x36, // 8
	0x06, 0x49, 0x49, 0x29, 0x1e, // 9
	0x00, 0x36, 0x36, 0x00, 0x00, // :
	0x00, 0x56, 0x36, 0x00, 0x00, // ;
	0x08, 0x14, 0x22, 0x41, 0x00, // <
	0x14, 0x14, 0x14, 0x14, 0x14, // =
	0x00, 0x41, 0x22, 0x14, 0x08, // >
	0x02, 0x01, 0x51, 0x09, 0x06, // ?
	0x32, 0x49, 0x79, 0x41, 0x3e, // @
	0x7e, 0x11, 0x11, 0x11, 0x7e, // A
	0x7f, 0x49, 0x49, 0x49, 0x36, // B
	0x3e, 0x41, 0x41, 0x41, 0x22, // C
	0x7f, 0x41, 0x41, 0x22, 0x1c, // D
	0x7f, 0x49, 0x49, 0x49, 0x41, // E
	0x7f, 0x09, 0x09, 0x01, 0x01, // F
	0x3e, 0x41, 0x41, 0x51, 0x32, // G
	0x7f, 0x08, 0x08, 0x08, 0x7f, // H
	0x00, 0x41, 0x7f, 0x41, 0x00, // I
	0x20, 0x40, 0x41, 0x3f, 0x01, // J
	0x7f, 0x08, 0x14, 0x22, 0x41, // K
	0x7f, 0x40, 0x40, 0x40, 0x40, // L
	0x7f, 0x02, 0x04, 0x02, 0x7f, // M
	0x7f, 0x04, 0x08, 0x10, 0x7f, // N
	0x3e, 0x41, 0x41, 0x41, 0x3e, // O
	0x7f, 0x09, 0x09, 0x09, 0x06, // P
	0x3e, 0x41, 0x51, 0x21, 0x5e, // Q
	0x7f, 0x09, 0x19, 0x29, 0x46, // R
	0x46, 0x49, 0x49, 0x49, 0x31, // S
	0x01, 0x01, 0x7f, 0x01, 0x01, // T
	0x3f, 0x40, 0x40, 0x40, 0x3f, // U
	0x1f, 0x20, 0x40, 0x20, 0x1f, // V
	0x7f, 0x20, 0x18, 0x20, 0x7f, // W
	0x63, 0x14, 0x08, 0x14, 0x63, // X
	0x03, 0x04, 0x78, 0x04, 0x03, // Y
	0x61, 0x51, 0x49, 0x45, 0x43, // Z
	0x00, 0x7f, 0x41, 0x41, 0x00, // [
	0x02, 0x04, 0x08, 0x10, 0x20, // \
	0x00, 0x41, 0x41, 0x7f, 0x00, // ]
	0x04, 0x02, 0x01, 0x02, 0x04, // ^
	0x40, 0x40, 0x40, 0x40, 0x40, // _
}
