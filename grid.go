package asciiframe

import (
	"image"

	"gonum.org/v1/gonum/mat"
)

// Grid is the coarse character-cell grid laid over an image.
type Grid struct {
	Cols, Rows int
	// Cell is the cell size in pixels.
	Cell image.Point
	// Size is the image size in pixels.
	Size image.Point
}

// NewGrid maps an image size onto cells of the given size. Trailing pixels
// that do not fill a whole cell are not counted.
func NewGrid(size, cell image.Point) (Grid, error) {
	if cell.X < 1 || cell.Y < 1 {
		return Grid{}, &SizeError{Reason: "invalid cell size " + cell.String()}
	}
	g := Grid{
		Cols: size.X / cell.X,
		Rows: size.Y / cell.Y,
		Cell: cell,
		Size: size,
	}
	if g.Cols < 1 || g.Rows < 1 {
		return Grid{}, &SizeError{Reason: "image too small for cell size", Grid: g.Dims()}
	}
	return g, nil
}

// Dims returns (cols, rows).
func (g Grid) Dims() image.Point {
	return image.Pt(g.Cols, g.Rows)
}

// MaxRings is the number of rings bands may cover while the innermost ring,
// and with it the center cell, stays original.
func (g Grid) MaxRings() int {
	return (min(g.Cols, g.Rows) - 1) / 2
}

// DistanceField holds the Chebyshev distance of every cell to the nearest
// grid edge: 0 on the outer ring, increasing by one per ring inward.
type DistanceField struct {
	Cols, Rows int
	D          *mat.Dense // rows x cols
}

func NewDistanceField(cols, rows int) *DistanceField {
	d := mat.NewDense(rows, cols, nil)
	raw := d.RawMatrix()
	for y := range rows {
		row := y * raw.Stride
		dy := min(y, rows-1-y)
		for x := range cols {
			raw.Data[row+x] = float64(min(x, cols-1-x, dy))
		}
	}
	return &DistanceField{Cols: cols, Rows: rows, D: d}
}

// At returns the ring index of cell (x, y).
func (f *DistanceField) At(x, y int) int {
	return int(f.D.At(y, x))
}

// Max returns the innermost ring index present in the field.
func (f *DistanceField) Max() int {
	return int(mat.Max(f.D))
}
