package asciiframe

import (
	"image"
	"math"
)

// BandSpec describes one concentric band before layout.
type BandSpec struct {
	Name string
	// Thickness in rings (cells).
	Thickness int
	// Fade is the width in rings of the transition toward the next band
	// inward (or the interior, for the last band).
	Fade int
}

// Band is a laid-out band occupying rings [Lo, Hi).
type Band struct {
	Name    string
	Lo, Hi  int
	FadeOut int // ramp up from Lo, shared with the outer neighbor
	FadeIn  int // ramp down toward Hi
}

// Thickness returns Hi - Lo.
func (b Band) Thickness() int {
	return b.Hi - b.Lo
}

// LayoutBands stacks specs from the grid edge inward. Each band's inward fade
// is its own Fade, its outward fade is the previous band's Fade, and both are
// clamped to the band's thickness.
func LayoutBands(specs []BandSpec) []Band {
	bands := make([]Band, len(specs))
	lo, prevFade := 0, 0
	for i, s := range specs {
		t := max(s.Thickness, 0)
		b := Band{
			Name:    s.Name,
			Lo:      lo,
			Hi:      lo + t,
			FadeIn:  clampInt(s.Fade, 0, t),
			FadeOut: clampInt(prevFade, 0, t),
		}
		bands[i] = b
		lo = b.Hi
		// A band's own clamp bounds the fade it hands inward.
		prevFade = b.FadeIn
	}
	return bands
}

// Weight returns the blend weight of ring d for this band.
func (b Band) Weight(d int) uint8 {
	if d < b.Lo || d >= b.Hi {
		return 0
	}
	if b.FadeOut > 0 && d < b.Lo+b.FadeOut {
		return ramp(d-b.Lo, b.FadeOut)
	}
	if b.FadeIn > 0 && d > b.Hi-b.FadeIn {
		return ramp(b.Hi-d, b.FadeIn)
	}
	return 255
}

func ramp(n, width int) uint8 {
	v := math.Round(float64(n) * 255.0 / float64(width))
	return uint8(max(0, min(255, v)))
}

// BandMask builds the per-cell mask of b over the distance field.
func BandMask(f *DistanceField, b Band) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, f.Cols, f.Rows))
	// One weight per ring; every cell on the same ring shares it.
	lut := make([]uint8, f.Max()+1)
	for d := range lut {
		lut[d] = b.Weight(d)
	}
	for y := range f.Rows {
		row := y * m.Stride
		for x := range f.Cols {
			m.Pix[row+x] = lut[f.At(x, y)]
		}
	}
	return m
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
