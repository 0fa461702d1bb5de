package asciiframe

import "image"

// Upsample expands a per-cell mask to full pixel resolution by nearest
// neighbor: pixel (px, py) takes cell (px/cw, py/ch). Pixels in the partial
// cells past the last full column or row reuse the last cell.
func Upsample(m *image.Gray, g Grid) (*image.Gray, error) {
	if got := m.Rect.Size(); got != g.Dims() {
		return nil, &CompositingError{Stage: "upsample", Want: g.Dims(), Got: got}
	}
	out := image.NewGray(image.Rectangle{Max: g.Size})

	// Column lookup is shared by every row.
	cols := make([]int, g.Size.X)
	for px := range cols {
		cols[px] = min(px/g.Cell.X, g.Cols-1)
	}
	for py := range g.Size.Y {
		src := m.Pix[min(py/g.Cell.Y, g.Rows-1)*m.Stride:]
		dst := out.Pix[py*out.Stride : py*out.Stride+g.Size.X]
		for px := range dst {
			dst[px] = src[cols[px]]
		}
	}
	return out, nil
}
