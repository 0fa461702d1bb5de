package utils

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Quantizer reduces images to a small palette, optionally with
// Floyd-Steinberg dithering.
type Quantizer struct {
	Method PaletteMethod
}

func NewQuantizer(method PaletteMethod) *Quantizer {
	return &Quantizer{Method: method}
}

// Quantize returns an RGB copy of img restricted to at most colors palette
// entries. An image that already has no more than colors distinct colors is
// returned unchanged (as a copy).
func (q *Quantizer) Quantize(img image.Image, colors int, dither bool) (image.Image, error) {
	if colors < 1 || colors > 256 {
		return nil, fmt.Errorf("quantize: colors must be between 1 and 256, got %d", colors)
	}
	b := img.Bounds()
	pal, exact := DistinctColors(img, colors)
	if !exact {
		pal = ToColorPalette(ExtractPalette(img, colors, q.Method))
	}
	if len(pal) == 0 {
		return nil, fmt.Errorf("quantize: empty %s palette", q.Method)
	}

	paletted := image.NewPaletted(b, pal)
	if dither {
		draw.FloydSteinberg.Draw(paletted, b, img, b.Min)
	} else {
		draw.Draw(paletted, b, img, b.Min, draw.Src)
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, paletted, b.Min, draw.Src)
	return out, nil
}

// DistinctColors returns the opaque colors of img when there are at most
// limit of them. ok is false as soon as the limit is exceeded.
func DistinctColors(img image.Image, limit int) (pal color.Palette, ok bool) {
	b := img.Bounds()
	seen := make(map[color.RGBA]struct{}, limit+1)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			key := color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
			if _, dup := seen[key]; dup {
				continue
			}
			if len(seen) == limit {
				return nil, false
			}
			seen[key] = struct{}{}
			pal = append(pal, key)
		}
	}
	return pal, true
}
