package utils

import (
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/disintegration/gift"
	xdraw "golang.org/x/image/draw"
)

// Resampling selects how a brightness sampler shrinks an image to the grid.
type Resampling int

const (
	ResampleBilinear Resampling = iota
	ResampleArea
)

func (r Resampling) String() string {
	if r == ResampleArea {
		return "area"
	}
	return "bilinear"
}

func ParseResampling(s string) (Resampling, error) {
	switch strings.ToLower(s) {
	case "", "bilinear":
		return ResampleBilinear, nil
	case "area", "box":
		return ResampleArea, nil
	}
	return 0, fmt.Errorf("unknown resampling %q", s)
}

// Sampler produces one luma sample per grid cell.
type Sampler struct {
	Resampling Resampling
}

// Sample returns a cols×rows grayscale thumbnail of img.
func (s Sampler) Sample(img image.Image, cols, rows int) *image.Gray {
	if s.Resampling == ResampleArea {
		g := gift.New(
			gift.Grayscale(),
			gift.Resize(cols, rows, gift.BoxResampling),
		)
		dst := image.NewGray(g.Bounds(img.Bounds()))
		g.Draw(dst, img)
		return dst
	}

	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Rect, img, b.Min, draw.Src)
	dst := image.NewGray(image.Rect(0, 0, cols, rows))
	xdraw.BiLinear.Scale(dst, dst.Rect, gray, gray.Rect, xdraw.Src, nil)
	return dst
}
