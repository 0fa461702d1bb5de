package asciiframe

import (
	"image"
	"image/color"
	"image/draw"
)

// GlyphRenderer draws single characters into cell-sized slots.
type GlyphRenderer interface {
	// CellSize is the pixel size of one character cell.
	CellSize() image.Point
	// DrawGlyph draws r with its cell's top-left corner at at.
	DrawGlyph(dst draw.Image, r rune, at image.Point, fill color.Color)
}

// Quantizer reduces an image to at most colors palette entries. The result
// has the same dimensions as img.
type Quantizer interface {
	Quantize(img image.Image, colors int, dither bool) (image.Image, error)
}

// BrightnessSampler returns a cols×rows grayscale thumbnail of img, one
// brightness sample per cell.
type BrightnessSampler interface {
	Sample(img image.Image, cols, rows int) *image.Gray
}

// Renderers bundles the collaborators a FrameBuilder draws canvases with.
type Renderers struct {
	Glyphs    GlyphRenderer
	Quantizer Quantizer
	Sampler   BrightnessSampler
}

// ASCIIStyle controls how the ASCII canvas is drawn.
type ASCIIStyle struct {
	// Chars is the ramp ordered dark to light.
	Chars string
	// Color draws each glyph in the source color at its cell origin instead of black.
	Color      bool
	Background color.Color
}

// RenderASCII draws src as ASCII art on a background-filled canvas of the
// same size, one glyph per grid cell.
func RenderASCII(src image.Image, g Grid, glyphs GlyphRenderer, sampler BrightnessSampler, style ASCIIStyle) (*image.RGBA, error) {
	ramp := []rune(style.Chars)
	if len(ramp) == 0 {
		return nil, &ParameterError{Name: "chars", Value: style.Chars, Reason: "empty character ramp"}
	}
	img := rgbaView(src)
	gs := sampler.Sample(img, g.Cols, g.Rows)
	if got := gs.Rect.Size(); got != g.Dims() {
		return nil, &CompositingError{Stage: "brightness sample", Want: g.Dims(), Got: got}
	}

	canvas := Fill(g.Size, style.Background)
	ink := color.Color(color.Black)
	w, h := g.Size.X, g.Size.Y
	for y := range g.Rows {
		for x := range g.Cols {
			ch := rampRune(ramp, gs.Pix[y*gs.Stride+x])
			at := image.Pt(x*g.Cell.X, y*g.Cell.Y)
			fill := ink
			if style.Color {
				fill = img.RGBAAt(min(at.X, w-1), min(at.Y, h-1))
			}
			glyphs.DrawGlyph(canvas, ch, at, fill)
		}
	}
	return canvas, nil
}

// ASCIILines maps every pixel of a brightness thumbnail to a rune of chars,
// one string per row.
func ASCIILines(gs *image.Gray, chars string) ([]string, error) {
	ramp := []rune(chars)
	if len(ramp) == 0 {
		return nil, &ParameterError{Name: "chars", Value: chars, Reason: "empty character ramp"}
	}
	w, h := gs.Rect.Dx(), gs.Rect.Dy()
	lines := make([]string, h)
	row := make([]rune, w)
	for y := range h {
		for x := range w {
			row[x] = rampRune(ramp, gs.GrayAt(gs.Rect.Min.X+x, gs.Rect.Min.Y+y).Y)
		}
		lines[y] = string(row)
	}
	return lines, nil
}

func rampRune(ramp []rune, p uint8) rune {
	return ramp[int(p)*(len(ramp)-1)/255]
}
