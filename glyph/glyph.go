// Package glyph renders single characters into fixed-size cells using
// golang.org/x/image/font faces.
package glyph

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultSize is the point size used when Load is given a non-positive size.
const DefaultSize = 12

// ErrNoCell is returned for faces whose reference glyph has an empty bounding box.
var ErrNoCell = errors.New("glyph: font has an empty cell")

// Face draws glyphs so that the ink box of "A" fills the cell.
type Face struct {
	face font.Face
	cell image.Point
	// origin is the pen position relative to the cell's top-left corner.
	origin image.Point
}

// Default returns the built-in 7x13 bitmap face.
func Default() *Face {
	f, _ := New(basicfont.Face7x13)
	return f
}

// New wraps face. The cell is the ink bounding box of "A".
func New(face font.Face) (*Face, error) {
	ink := inkBounds(face, 'A')
	if ink.Empty() {
		return nil, ErrNoCell
	}
	return &Face{
		face:   face,
		cell:   ink.Size(),
		origin: image.Point{}.Sub(ink.Min),
	}, nil
}

// inkBounds renders r and returns the box of its non-transparent pixels,
// relative to the pen position. Bitmap faces report the full advance cell as
// their glyph bounds, so the pixels are scanned.
func inkBounds(face font.Face, r rune) image.Rectangle {
	b, _, ok := face.GlyphBounds(r)
	if !ok {
		return image.Rectangle{}
	}
	box := image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
	if box.Empty() {
		return image.Rectangle{}
	}
	dst := image.NewAlpha(box)
	d := &font.Drawer{Dst: dst, Src: image.Opaque, Face: face}
	d.DrawString(string(r))

	ink := image.Rectangle{}
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if dst.AlphaAt(x, y).A == 0 {
				continue
			}
			ink = ink.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return ink
}

// Load reads a TrueType (.ttf) or OpenType (.otf) font file at size points,
// 72 DPI.
func Load(path string, size float64) (*Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultSize
	}
	if strings.EqualFold(filepath.Ext(path), ".otf") {
		return parseOpenType(data, size)
	}
	return parseTrueType(data, size)
}

func parseTrueType(data []byte, size float64) (*Face, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse truetype: %w", err)
	}
	return New(truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}))
}

func parseOpenType(data []byte, size float64) (*Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse opentype: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("opentype face: %w", err)
	}
	return New(face)
}

// CellSize returns the pixel size of one character cell.
func (f *Face) CellSize() image.Point {
	return f.cell
}

// DrawGlyph draws r with the cell's top-left corner at at. Whitespace draws
// nothing. Glyphs taller or wider than "A" spill into neighboring cells.
func (f *Face) DrawGlyph(dst draw.Image, r rune, at image.Point, fill color.Color) {
	if unicode.IsSpace(r) {
		return
	}
	pen := at.Add(f.origin)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fill),
		Face: f.face,
		Dot:  fixed.P(pen.X, pen.Y),
	}
	d.DrawString(string(r))
}

// TextImage renders lines top to bottom on a bg-filled canvas with padding
// pixels on every side. Columns advance by the width of "M" and rows by the
// face's line height.
func (f *Face) TextImage(lines []string, padding int, fg, bg color.Color) *image.RGBA {
	adv, ok := f.face.GlyphAdvance('M')
	if !ok || adv <= 0 {
		adv = fixed.I(f.cell.X)
	}
	m := f.face.Metrics()
	lineHeight := m.Height.Ceil()
	if lineHeight <= 0 {
		lineHeight = f.cell.Y
	}
	cols := 0
	for _, l := range lines {
		cols = max(cols, utf8.RuneCountInString(l))
	}
	w := max(1, (adv*fixed.Int26_6(cols)).Ceil()+2*padding)
	h := max(1, lineHeight*len(lines)+2*padding)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, image.NewUniform(bg), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: img, Src: image.NewUniform(fg), Face: f.face}
	for i, l := range lines {
		d.Dot = fixed.P(padding, padding+i*lineHeight+m.Ascent.Ceil())
		d.DrawString(l)
	}
	return img
}

// Close releases the underlying face.
func (f *Face) Close() error {
	return f.face.Close()
}
