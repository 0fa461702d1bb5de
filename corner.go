package asciiframe

import "image"

// RoundCorners returns a copy of m with the four corners of the boundary at
// ring offset k carved along a circular arc of radius r. Cells in the r×r
// corner squares that fall outside the inscribed circle take the value
// outside. A radius of 0 returns an unchanged copy.
func RoundCorners(m *image.Gray, k, r int, outside uint8) *image.Gray {
	out := cloneGray(m)
	if r <= 0 {
		return out
	}
	w, h := m.Rect.Dx(), m.Rect.Dy()
	for y := range h {
		row := y * out.Stride
		for x := range w {
			if outsideArc(x, y, w, h, k, r) {
				out.Pix[row+x] = outside
			}
		}
	}
	return out
}

// RoundedRectMask returns a size.X×size.Y mask that is 255 inside a rectangle
// with corners rounded at radius r (pixels) and 0 outside it.
func RoundedRectMask(size image.Point, r int) *image.Gray {
	m := image.NewGray(image.Rectangle{Max: size})
	for y := range size.Y {
		row := y * m.Stride
		for x := range size.X {
			if r > 0 && outsideArc(x, y, size.X, size.Y, 0, r) {
				continue
			}
			m.Pix[row+x] = 255
		}
	}
	return m
}

// outsideArc reports whether (x, y) sits in one of the four r×r corner
// squares of the boundary at offset k of a w×h grid and outside the circle
// inscribed in that square. Coordinates are tested at cell centers.
func outsideArc(x, y, w, h, k, r int) bool {
	dx, ok := arcDelta(x, w, k, r)
	if !ok {
		return false
	}
	dy, ok := arcDelta(y, h, k, r)
	if !ok {
		return false
	}
	return dx*dx+dy*dy > float64(r*r)
}

// arcDelta returns the distance along one axis from coordinate v to the arc
// center, if v lies in the leading or trailing corner span. The leading span
// wins when the two overlap.
func arcDelta(v, n, k, r int) (float64, bool) {
	switch {
	case v >= k && v < k+r:
		return float64(k+r-v) - 0.5, true
	case v >= n-k-r && v < n-k:
		return float64(v-(n-k-r)) + 0.5, true
	}
	return 0, false
}

func cloneGray(m *image.Gray) *image.Gray {
	out := image.NewGray(m.Rect)
	copy(out.Pix, m.Pix)
	return out
}
