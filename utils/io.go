package utils

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// ReadImage decodes the image at path, applying EXIF orientation.
func ReadImage(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// SaveImage encodes img in the format implied by the file extension.
func SaveImage(img image.Image, path string) error {
	return imaging.Save(img, path)
}

// SaveGrayImages writes each mask as dir/<prefix>_<i>.png.
func SaveGrayImages(images []*image.Gray, dir, prefix string) error {
	for i, m := range images {
		if err := SaveImage(m, filepath.Join(dir, fmt.Sprintf("%s_%02d.png", prefix, i))); err != nil {
			return err
		}
	}
	return nil
}

// SavePalette writes the palette as a row of tileSize square swatches.
func SavePalette(palette []colorful.Color, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}
	out := imaging.New(tileSize*len(palette), tileSize, color.Black)
	for i, c := range palette {
		r, g, b := c.Clamped().RGB255()
		tile := imaging.New(tileSize, tileSize, color.NRGBA{R: r, G: g, B: b, A: 255})
		out = imaging.Paste(out, tile, image.Pt(i*tileSize, 0))
	}
	return SaveImage(out, filename)
}
