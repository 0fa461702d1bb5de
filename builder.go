package asciiframe

import (
	"fmt"
	"image"
	"image/color"
	"time"
)

// Band names used by FrameBuilder.
const (
	BandASCII = "ascii"
	BandQuant = "quant"
)

type Options struct {
	// ASCII band thickness in cells, counted from the image edge.
	Border int
	// Quantized band thickness in cells, inside the ASCII band.
	// Zero leaves only the ASCII band over the original.
	Quant int
	// Fade width in cells from the ASCII band into the next band inward.
	// Clamped to Border.
	FadeASCII int
	// Fade width in cells from the quantized band into the original.
	// Clamped to Quant.
	FadeQuant int
	// Corner radius in cells. Clamped to Border; zero keeps square corners.
	Radius int
	// Glyph ramp ordered dark to light.
	Chars string
	// Color glyphs with the source pixel at each cell origin instead of black.
	Color bool
	// Palette size of the quantized band, 1-256.
	Colors int
	// Floyd-Steinberg dithering in the quantized band.
	Dither bool
	// Shown behind glyphs and in rounded-off corners. Nil means white.
	Background color.Color
}

func DefaultOptions() Options {
	return Options{
		Border:     10,
		Quant:      10,
		FadeASCII:  10,
		FadeQuant:  10,
		Radius:     0,
		Chars:      "@%#*+=-:. ",
		Colors:     256,
		Background: color.White,
	}
}

// Validate checks option ranges. Whether the bands fit the grid is only
// known to FrameBuilder.Build.
func (o Options) Validate() error {
	nonNeg := []struct {
		name string
		v    int
	}{
		{"border", o.Border},
		{"quant", o.Quant},
		{"fade_ascii", o.FadeASCII},
		{"fade_quant", o.FadeQuant},
		{"radius", o.Radius},
	}
	for _, p := range nonNeg {
		if p.v < 0 {
			return &ParameterError{Name: p.name, Value: p.v, Reason: "must be non-negative"}
		}
	}
	if o.Colors < 1 || o.Colors > 256 {
		return &ParameterError{Name: "colors", Value: o.Colors, Reason: "must be between 1 and 256"}
	}
	if o.Chars == "" {
		return &ParameterError{Name: "chars", Value: o.Chars, Reason: "empty character ramp"}
	}
	return nil
}

// CornerRadius returns the radius actually applied, in cells.
func (o Options) CornerRadius() int {
	return clampInt(o.Radius, 0, max(o.Border, 0))
}

// BandSpecs returns the bands these options configure, outermost first.
func (o Options) BandSpecs() []BandSpec {
	specs := []BandSpec{{Name: BandASCII, Thickness: o.Border, Fade: o.FadeASCII}}
	if o.Quant > 0 {
		specs = append(specs, BandSpec{Name: BandQuant, Thickness: o.Quant, Fade: o.FadeQuant})
	}
	return specs
}

func (o Options) background() color.Color {
	if o.Background == nil {
		return color.White
	}
	return o.Background
}

// FrameBuilder runs the border pipeline for one image and keeps every
// intermediate product.
type FrameBuilder struct {
	InputImage image.Image
	Renderers  Renderers

	Source    *image.RGBA
	Grid      Grid
	Distances *DistanceField
	Bands     []Band
	// Radius is the clamped corner radius in cells.
	Radius int
	// CellMasks and PixelMasks are parallel to Bands.
	CellMasks  []*image.Gray
	PixelMasks []*image.Gray
	// Canvases are parallel to Bands once Render has run.
	Canvases []image.Image

	opt Options
}

func NewFrameBuilder(input image.Image, r Renderers) *FrameBuilder {
	return &FrameBuilder{
		InputImage: input,
		Renderers:  r,
	}
}

// Build validates opt and computes the grid, distance field, band layout
// and the cell and pixel masks. No canvas is rendered.
func (fb *FrameBuilder) Build(opt Options) error {
	if err := opt.Validate(); err != nil {
		return err
	}
	if fb.Renderers.Glyphs == nil {
		return &ParameterError{Name: "renderers", Value: "Glyphs", Reason: "no glyph renderer"}
	}
	fb.opt = opt
	fb.Source = Normalize(fb.InputImage)
	if err := fb.mapGrid(); err != nil {
		return err
	}
	fb.Distances = NewDistanceField(fb.Grid.Cols, fb.Grid.Rows)
	fb.Bands = LayoutBands(opt.BandSpecs())
	fb.Radius = opt.CornerRadius()
	fb.buildCellMasks()
	return fb.upsampleMasks()
}

// Render draws one canvas per band and composites them over the source.
// Build must have succeeded first.
func (fb *FrameBuilder) Render() (*image.RGBA, error) {
	if fb.Source == nil || len(fb.PixelMasks) != len(fb.Bands) {
		return nil, ErrNotBuilt
	}
	if err := fb.renderCanvases(); err != nil {
		return nil, err
	}
	return fb.Reconstruct()
}

// Reconstruct composites the rendered canvases over the source, innermost
// band first, then rounds the outer corners over the background.
func (fb *FrameBuilder) Reconstruct() (*image.RGBA, error) {
	if len(fb.Canvases) != len(fb.Bands) {
		return nil, ErrNotRendered
	}
	layers := make([]Layer, 0, len(fb.Bands))
	for i := len(fb.Bands) - 1; i >= 0; i-- {
		layers = append(layers, Layer{
			Name:   fb.Bands[i].Name,
			Canvas: fb.Canvases[i],
			Mask:   fb.PixelMasks[i],
		})
	}
	out, err := Composite(fb.Source, layers...)
	if err != nil {
		return nil, err
	}
	if fb.Radius == 0 {
		return out, nil
	}
	rpx := fb.Radius * fb.Grid.Cell.X
	Logger().Debug("outer rounding", "radius_px", rpx)
	return blend("outer rounding", Fill(fb.Grid.Size, fb.opt.background()), out, RoundedRectMask(fb.Grid.Size, rpx))
}

// Frame builds and renders input in one call.
func Frame(input image.Image, opt Options, r Renderers) (*image.RGBA, error) {
	fb := NewFrameBuilder(input, r)
	if err := fb.Build(opt); err != nil {
		return nil, err
	}
	return fb.Render()
}

// ============ GRID ============

func (fb *FrameBuilder) mapGrid() error {
	g, err := NewGrid(fb.Source.Rect.Size(), fb.Renderers.Glyphs.CellSize())
	if err != nil {
		return err
	}
	need := 0
	for _, s := range fb.opt.BandSpecs() {
		need += s.Thickness
	}
	if need > g.MaxRings() {
		return &SizeError{
			Reason: "combined bands leave no original center",
			Grid:   g.Dims(),
			Need:   need,
			Have:   g.MaxRings(),
		}
	}
	fb.Grid = g
	Logger().Debug("grid", "cols", g.Cols, "rows", g.Rows, "cell", g.Cell.String())
	return nil
}

// ============ MASKS ============

func (fb *FrameBuilder) buildCellMasks() {
	fb.CellMasks = make([]*image.Gray, len(fb.Bands))
	for i, b := range fb.Bands {
		m := BandMask(fb.Distances, b)
		if fb.Radius > 0 {
			// The outermost band keeps its own canvas in the cut corner; the
			// final outer rounding covers it with background. Inner bands
			// expose the layer beneath.
			var outside uint8
			if i == 0 {
				outside = 255
			}
			m = RoundCorners(m, b.Lo, fb.Radius, outside)
		}
		fb.CellMasks[i] = m
		Logger().Debug("band", "name", b.Name, "lo", b.Lo, "hi", b.Hi,
			"fade_out", b.FadeOut, "fade_in", b.FadeIn)
	}
}

func (fb *FrameBuilder) upsampleMasks() error {
	fb.PixelMasks = make([]*image.Gray, len(fb.CellMasks))
	for i, m := range fb.CellMasks {
		pm, err := Upsample(m, fb.Grid)
		if err != nil {
			return err
		}
		fb.PixelMasks[i] = pm
	}
	return nil
}

// ============ CANVASES ============

func (fb *FrameBuilder) renderCanvases() error {
	fb.Canvases = make([]image.Image, len(fb.Bands))
	for i, b := range fb.Bands {
		if b.Thickness() == 0 {
			// Empty band, its mask is all zero.
			fb.Canvases[i] = fb.Source
			continue
		}
		start := time.Now()
		c, err := fb.renderCanvas(b)
		if err != nil {
			return fmt.Errorf("render %s canvas: %w", b.Name, err)
		}
		Logger().Debug("canvas", "band", b.Name, "elapsed", time.Since(start))
		if got := c.Bounds().Size(); got != fb.Grid.Size {
			return &CompositingError{Stage: b.Name + " canvas", Want: fb.Grid.Size, Got: got}
		}
		fb.Canvases[i] = c
	}
	return nil
}

func (fb *FrameBuilder) renderCanvas(b Band) (image.Image, error) {
	switch b.Name {
	case BandASCII:
		if fb.Renderers.Sampler == nil {
			return nil, &ParameterError{Name: "renderers", Value: "Sampler", Reason: "no brightness sampler"}
		}
		return RenderASCII(fb.Source, fb.Grid, fb.Renderers.Glyphs, fb.Renderers.Sampler, ASCIIStyle{
			Chars:      fb.opt.Chars,
			Color:      fb.opt.Color,
			Background: fb.opt.background(),
		})
	case BandQuant:
		if fb.Renderers.Quantizer == nil {
			return nil, &ParameterError{Name: "renderers", Value: "Quantizer", Reason: "no quantizer"}
		}
		return fb.Renderers.Quantizer.Quantize(fb.Source, fb.opt.Colors, fb.opt.Dither)
	}
	return nil, fmt.Errorf("unknown band %q", b.Name)
}
