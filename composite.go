package asciiframe

import (
	"image"
	"image/color"
	"math"
)

// Layer is one full-resolution canvas and the mask it is blended through.
type Layer struct {
	Name   string
	Canvas image.Image
	Mask   *image.Gray
}

// Composite blends layers over base, bottom to top, and returns a new image.
// Neither base nor any layer is modified.
func Composite(base image.Image, layers ...Layer) (*image.RGBA, error) {
	out := Normalize(base)
	for _, l := range layers {
		var err error
		if out, err = blend(l.Name, out, l.Canvas, l.Mask); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Blend returns lerp(below, above, mask/255) per pixel and channel.
func Blend(below, above image.Image, mask *image.Gray) (*image.RGBA, error) {
	return blend("blend", below, above, mask)
}

func blend(stage string, below, above image.Image, mask *image.Gray) (*image.RGBA, error) {
	size := below.Bounds().Size()
	if got := above.Bounds().Size(); got != size {
		return nil, &CompositingError{Stage: stage + " canvas", Want: size, Got: got}
	}
	if got := mask.Rect.Size(); got != size {
		return nil, &CompositingError{Stage: stage + " mask", Want: size, Got: got}
	}
	bg, fg := rgbaView(below), rgbaView(above)
	out := image.NewRGBA(image.Rectangle{Max: size})
	w, h := size.X, size.Y
	for y := range h {
		mrow := mask.Pix[y*mask.Stride:]
		for x := range w {
			off := y*out.Stride + x*4
			bgOff := y*bg.Stride + x*4
			fgOff := y*fg.Stride + x*4
			switch m := mrow[x]; m {
			case 0:
				copy(out.Pix[off:off+3], bg.Pix[bgOff:bgOff+3])
			case 255:
				copy(out.Pix[off:off+3], fg.Pix[fgOff:fgOff+3])
			default:
				a := float64(m) / 255.0
				oneMinusA := 1 - a
				for c := range 3 {
					v := a*float64(fg.Pix[fgOff+c]) + oneMinusA*float64(bg.Pix[bgOff+c])
					out.Pix[off+c] = uint8(max(0, min(255, math.Round(v))))
				}
			}
			out.Pix[off+3] = 255
		}
	}
	return out, nil
}

// Fill returns an opaque image of the given size painted with c.
func Fill(size image.Point, c color.Color) *image.RGBA {
	out := image.NewRGBA(image.Rectangle{Max: size})
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = nc.R
		out.Pix[i+1] = nc.G
		out.Pix[i+2] = nc.B
		out.Pix[i+3] = 255
	}
	return out
}

// Normalize returns an opaque RGB copy of img anchored at the origin. Alpha
// is dropped, not composited.
func Normalize(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			off := y*out.Stride + x*4
			out.Pix[off] = c.R
			out.Pix[off+1] = c.G
			out.Pix[off+2] = c.B
			out.Pix[off+3] = 255
		}
	}
	return out
}

// rgbaView returns img itself when it is already an origin-anchored RGBA
// buffer, else a normalized copy.
func rgbaView(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	return Normalize(img)
}
