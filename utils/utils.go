package utils

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

type PaletteMethod int

const (
	PaletteMethodKMeans PaletteMethod = iota
	PaletteMethodDominantColor
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodDominantColor:
		return "dominantcolor"
	default:
		return "kmeans"
	}
}

// ParsePaletteMethod accepts the names returned by PaletteMethod.String.
func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch strings.ToLower(s) {
	case "", "kmeans":
		return PaletteMethodKMeans, nil
	case "dominantcolor", "dominant":
		return PaletteMethodDominantColor, nil
	}
	return 0, fmt.Errorf("unknown palette method %q", s)
}

// WeightedColor is a palette candidate and its pixel share.
type WeightedColor struct {
	Col    colorful.Color
	Weight float64
}

// SortPaletteByBrightness orders colors from darkest to brightest by
// relative luminance.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ya, yb := luminance(a), luminance(b)
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		}
		return 0
	})
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ExtractPalette picks k representative colors of img. The kmeans method
// falls back to dominantcolor when clustering yields nothing.
func ExtractPalette(img image.Image, k int, method PaletteMethod) []colorful.Color {
	switch method {
	case PaletteMethodDominantColor:
		return ExtractDominantPalette(img, k)
	default:
		p := ExtractKMeansPalette(img, k)
		if len(p) != 0 {
			return p
		}
		slog.Warn("palette: kmeans returned empty palette, falling back to dominantcolor", "k", k)
		return ExtractDominantPalette(img, k)
	}
}

func ExtractDominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	candidates := dominantcolor.FindWeight(img, max(24, k*2))
	if len(candidates) == 0 {
		// Keep the palette non-empty so the quantizer always has a target.
		candidates = append(candidates, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1.0,
		})
	}
	weighted := make([]WeightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		weighted = append(weighted, WeightedColor{Col: col.Clamped(), Weight: max(c.Weight, 1e-6)})
	}
	return PickDiverse(weighted, k)
}

// ExtractKMeansPalette clusters a subsample of the opaque pixels into k
// groups and returns their centers, most populated first.
func ExtractKMeansPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	obs := observations(img, 12000)
	if len(obs) == 0 {
		return nil
	}
	cc, err := kmeans.New().Partition(obs, min(k, len(obs)))
	if err != nil {
		return nil
	}
	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})
	palette := make([]colorful.Color, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 {
			continue
		}
		palette = append(palette, colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped())
	}
	return palette
}

// observations walks img on a square stride so that at most about limit
// opaque pixels become RGB coordinates in [0,1].
func observations(img image.Image, limit int) clusters.Observations {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return nil
	}
	step := 1
	if n > limit {
		step = int(math.Sqrt(float64(n)/float64(limit))) + 1
	}
	obs := make(clusters.Observations, 0, min(n, limit))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			obs = append(obs, clusters.Coordinates{float64(r) / 0xffff, float64(g) / 0xffff, float64(bl) / 0xffff})
		}
	}
	return obs
}

// PickDiverse returns up to k candidates. The heaviest comes first; each next
// pick maximizes its Lab distance to the nearest earlier pick, damped for
// light candidates.
func PickDiverse(cands []WeightedColor, k int) []colorful.Color {
	k = min(k, len(cands))
	if k <= 0 {
		return nil
	}
	heaviest := slices.MaxFunc(cands, func(a, b WeightedColor) int {
		return cmp.Compare(a.Weight, b.Weight)
	}).Weight
	heaviest = max(heaviest, 1e-6)

	picked := make([]colorful.Color, 0, k)
	used := make([]bool, len(cands))
	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if used[i] {
				continue
			}
			w := max(c.Weight, 1e-6)
			score := w
			if len(picked) > 0 {
				nearest := math.Inf(1)
				for _, p := range picked {
					nearest = min(nearest, c.Col.Clamped().DistanceLab(p))
				}
				score = nearest * (0.55 + 0.45*math.Sqrt(w/heaviest))
			}
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		used[best] = true
		picked = append(picked, cands[best].Col.Clamped())
	}
	return picked
}

// ToColorPalette converts a colorful palette to an opaque color.Palette.
func ToColorPalette(p []colorful.Color) color.Palette {
	out := make(color.Palette, 0, len(p))
	for _, c := range p {
		r, g, b := c.Clamped().RGB255()
		out = append(out, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return out
}
