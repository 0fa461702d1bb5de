package asciiframe

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"strings"
	"testing"
	"unicode"

	"github.com/setanarut/asciiframe/glyph"
	"github.com/setanarut/asciiframe/utils"
)

// blockGlyphs paints every non-space rune as a solid cell.
type blockGlyphs struct {
	cell image.Point
}

func (g blockGlyphs) CellSize() image.Point { return g.cell }

func (g blockGlyphs) DrawGlyph(dst draw.Image, r rune, at image.Point, fill color.Color) {
	if unicode.IsSpace(r) {
		return
	}
	rect := image.Rectangle{Min: at, Max: at.Add(g.cell)}.Intersect(dst.Bounds())
	draw.Draw(dst, rect, image.NewUniform(fill), image.Point{}, draw.Src)
}

// posterQuantizer maps every channel to one of four levels and records the
// arguments it was called with.
type posterQuantizer struct {
	calls  int
	colors int
	dither bool
}

func (q *posterQuantizer) Quantize(img image.Image, colors int, dither bool) (image.Image, error) {
	q.calls++
	q.colors, q.dither = colors, dither
	src := Normalize(img)
	for i := range src.Pix {
		if i%4 != 3 {
			src.Pix[i] = posterize(src.Pix[i])
		}
	}
	return src, nil
}

func posterize(v uint8) uint8 { return v/64*64 + 32 }

var (
	navy  = color.RGBA{40, 40, 120, 255}
	red   = color.RGBA{220, 30, 30, 255}
	green = color.RGBA{30, 200, 60, 255}
)

// circlesImage draws two overlapping filled circles on bg.
func circlesImage(bg color.RGBA) *image.RGBA {
	img := Fill(image.Pt(200, 200), bg)
	disc := func(cx, cy, r float64, c color.RGBA) {
		for y := range 200 {
			for x := range 200 {
				dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
				if dx*dx+dy*dy <= r*r {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}
	disc(100, 100, 50, red)
	disc(130, 130, 50, green)
	return img
}

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 255 / w), uint8(y * 255 / h), 90, 255})
		}
	}
	return img
}

func testRenderers() Renderers {
	return Renderers{
		Glyphs:    blockGlyphs{cell: image.Pt(8, 8)},
		Quantizer: utils.NewQuantizer(utils.PaletteMethodKMeans),
		Sampler:   utils.Sampler{},
	}
}

func TestOptionsValidate(t *testing.T) {
	testCases := []struct {
		name  string
		edit  func(*Options)
		param string
	}{
		{"default", func(*Options) {}, ""},
		{"negative border", func(o *Options) { o.Border = -1 }, "border"},
		{"negative quant", func(o *Options) { o.Quant = -2 }, "quant"},
		{"negative ascii fade", func(o *Options) { o.FadeASCII = -1 }, "fade_ascii"},
		{"negative quant fade", func(o *Options) { o.FadeQuant = -1 }, "fade_quant"},
		{"negative radius", func(o *Options) { o.Radius = -3 }, "radius"},
		{"no colors", func(o *Options) { o.Colors = 0 }, "colors"},
		{"too many colors", func(o *Options) { o.Colors = 257 }, "colors"},
		{"empty chars", func(o *Options) { o.Chars = "" }, "chars"},
		{"fade wider than band", func(o *Options) { o.FadeASCII = 40 }, ""},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			opt := DefaultOptions()
			test.edit(&opt)
			err := opt.Validate()
			if test.param == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var pErr *ParameterError
			if !errors.As(err, &pErr) {
				t.Fatalf("expected ParameterError, got %v", err)
			}
			if pErr.Name != test.param {
				t.Errorf("expected parameter %q, got %q", test.param, pErr.Name)
			}
		})
	}
}

func TestCornerRadiusClamp(t *testing.T) {
	testCases := []struct{ border, radius, want int }{
		{4, 0, 0},
		{4, 3, 3},
		{4, 4, 4},
		{4, 8, 4},
		{0, 5, 0},
	}
	for _, test := range testCases {
		opt := Options{Border: test.border, Radius: test.radius}
		if v := opt.CornerRadius(); v != test.want {
			t.Errorf("border=%d radius=%d: expected %d, got %d", test.border, test.radius, test.want, v)
		}
	}
}

func TestBuildRingCapacity(t *testing.T) {
	// 200x200 with 8x8 cells is a 25x25 grid with 12 rings available.
	testCases := []struct {
		border, quant int
		fail          bool
	}{
		{6, 6, false},
		{12, 0, false},
		{8, 5, true},
		{13, 0, true},
	}
	for _, test := range testCases {
		opt := DefaultOptions()
		opt.Border, opt.Quant = test.border, test.quant
		err := NewFrameBuilder(gradientImage(200, 200), testRenderers()).Build(opt)
		var sErr *SizeError
		if got := errors.As(err, &sErr); got != test.fail {
			t.Errorf("border=%d quant=%d: expected SizeError=%v, got %v", test.border, test.quant, test.fail, err)
		}
		if test.fail && sErr != nil && (sErr.Need != test.border+test.quant || sErr.Have != 12) {
			t.Errorf("expected need %d have 12, got %d %d", test.border+test.quant, sErr.Need, sErr.Have)
		}
	}
}

func TestBuildImageSmallerThanCell(t *testing.T) {
	_, err := Frame(gradientImage(7, 30), DefaultOptions(), testRenderers())
	var sErr *SizeError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected SizeError, got %v", err)
	}
}

func TestFrameCircles(t *testing.T) {
	src := circlesImage(navy)
	frames := map[int]*image.RGBA{}
	for _, radius := range []int{0, 4, 8} {
		opt := Options{
			Border: 4, Quant: 4,
			FadeASCII: 1, FadeQuant: 1,
			Radius: radius,
			Chars:  "@%#*+=-:. ",
			Color:  true,
			Colors: 8, Dither: true,
		}
		fb := NewFrameBuilder(src, testRenderers())
		if err := fb.Build(opt); err != nil {
			t.Fatal(err)
		}
		if fb.Radius != min(radius, 4) {
			t.Errorf("radius %d: expected clamped radius %d, got %d", radius, min(radius, 4), fb.Radius)
		}
		out, err := fb.Render()
		if err != nil {
			t.Fatal(err)
		}
		if out.Rect.Size() != src.Rect.Size() {
			t.Fatalf("expected %s output, got %s", src.Rect.Size(), out.Rect.Size())
		}
		frames[radius] = out
	}

	for radius, out := range frames {
		if v, want := out.RGBAAt(100, 100), src.RGBAAt(100, 100); v != want {
			t.Errorf("radius %d: expected center %v, got %v", radius, want, v)
		}
	}
	if !bytes.Equal(frames[4].Pix, frames[8].Pix) {
		t.Error("expected radius 8 to clamp to radius 4")
	}
	for _, p := range []image.Point{{0, 0}, {199, 0}, {0, 199}, {199, 199}} {
		square, round := frames[0].RGBAAt(p.X, p.Y), frames[4].RGBAAt(p.X, p.Y)
		if square != navy {
			t.Errorf("corner %s: expected glyph color %v without rounding, got %v", p, navy, square)
		}
		if round != (color.RGBA{255, 255, 255, 255}) {
			t.Errorf("corner %s: expected background after rounding, got %v", p, round)
		}
	}
}

func TestFrameBandRegions(t *testing.T) {
	src := gradientImage(200, 200)
	q := &posterQuantizer{}
	r := testRenderers()
	r.Quantizer = q
	opt := Options{Border: 2, Quant: 3, Chars: "@", Colors: 16, Dither: true}
	out, err := Frame(src, opt, r)
	if err != nil {
		t.Fatal(err)
	}
	if q.calls != 1 || q.colors != 16 || !q.dither {
		t.Errorf("expected one quantizer call with 16 colors and dithering, got %+v", *q)
	}

	black := color.RGBA{0, 0, 0, 255}
	for _, p := range []image.Point{{4, 4}, {100, 12}, {195, 100}} {
		if v := out.RGBAAt(p.X, p.Y); v != black {
			t.Errorf("ascii pixel %s: expected %v, got %v", p, black, v)
		}
	}
	for _, p := range []image.Point{{100, 20}, {20, 100}, {100, 175}} {
		c := src.RGBAAt(p.X, p.Y)
		want := color.RGBA{posterize(c.R), posterize(c.G), posterize(c.B), 255}
		if v := out.RGBAAt(p.X, p.Y); v != want {
			t.Errorf("quant pixel %s: expected %v, got %v", p, want, v)
		}
	}
	for _, p := range []image.Point{{100, 100}, {40, 40}, {159, 159}} {
		if v, want := out.RGBAAt(p.X, p.Y), src.RGBAAt(p.X, p.Y); v != want {
			t.Errorf("original pixel %s: expected %v, got %v", p, want, v)
		}
	}
}

func TestFrameBlankRamp(t *testing.T) {
	// A ramp of spaces leaves the ASCII band as bare background.
	src := circlesImage(color.RGBA{255, 255, 255, 255})
	opt := Options{Border: 2, Quant: 3, Chars: " ", Colors: 256}
	out, err := Frame(src, opt, testRenderers())
	if err != nil {
		t.Fatal(err)
	}
	if v := out.RGBAAt(4, 4); v != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("expected white ascii band, got %v", v)
	}
	for _, p := range []image.Point{{100, 2*8 + 4}, {100, 100}} {
		if v, want := out.RGBAAt(p.X, p.Y), src.RGBAAt(p.X, p.Y); v != want {
			t.Errorf("pixel %s: expected %v, got %v", p, want, v)
		}
	}
}

func TestFrameTwoBands(t *testing.T) {
	src := gradientImage(96, 64)
	r := testRenderers()
	r.Quantizer = nil
	fb := NewFrameBuilder(src, r)
	if err := fb.Build(Options{Border: 2, FadeASCII: 1, Chars: "@", Colors: 1}); err != nil {
		t.Fatal(err)
	}
	if len(fb.Bands) != 1 || len(fb.PixelMasks) != 1 {
		t.Fatalf("expected a single band, got %d", len(fb.Bands))
	}
	out, err := fb.Render()
	if err != nil {
		t.Fatal(err)
	}
	if v := out.RGBAAt(0, 0); v != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("expected glyph at the edge, got %v", v)
	}
	if v, want := out.RGBAAt(48, 32), src.RGBAAt(48, 32); v != want {
		t.Errorf("expected original center %v, got %v", want, v)
	}
}

func TestFrameBuilderMasks(t *testing.T) {
	fb := NewFrameBuilder(circlesImage(navy), testRenderers())
	opt := Options{Border: 4, Quant: 4, FadeASCII: 1, FadeQuant: 1, Radius: 4, Chars: "@", Colors: 8}
	if err := fb.Build(opt); err != nil {
		t.Fatal(err)
	}
	ascii, quant := fb.CellMasks[0], fb.CellMasks[1]
	// Outer corner cells keep the ASCII canvas, inner corner cells show
	// the original through the quantized band.
	if v := ascii.GrayAt(0, 0).Y; v != 255 {
		t.Errorf("expected outer corner 255, got %d", v)
	}
	if v := quant.GrayAt(4, 4).Y; v != 0 {
		t.Errorf("expected inner corner 0, got %d", v)
	}
	if v := quant.GrayAt(6, 12).Y; v != 255 {
		t.Errorf("expected quant band 255, got %d", v)
	}
	for i, m := range fb.PixelMasks {
		if m.Rect.Size() != fb.Grid.Size {
			t.Errorf("mask %d: expected %s, got %s", i, fb.Grid.Size, m.Rect.Size())
		}
		if v := m.GrayAt(100, 100).Y; v != 0 {
			t.Errorf("mask %d: expected 0 at the center, got %d", i, v)
		}
	}
}

func TestFrameLogsStages(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	if _, err := Frame(gradientImage(64, 64), Options{Border: 1, Quant: 1, Chars: "@", Colors: 4}, testRenderers()); err != nil {
		t.Fatal(err)
	}
	for _, msg := range []string{"msg=grid", "msg=band", "msg=canvas"} {
		if !strings.Contains(buf.String(), msg) {
			t.Errorf("expected %q in log output", msg)
		}
	}
}

func TestBuildEvenGridKeepsCenter(t *testing.T) {
	// 128x128 with 8x8 cells is a 16x16 grid; its innermost ring is 7.
	src := gradientImage(128, 128)
	opt := Options{Border: 4, Quant: 4, FadeASCII: 1, FadeQuant: 1, Chars: "@", Colors: 8}
	_, err := Frame(src, opt, testRenderers())
	var sErr *SizeError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected SizeError, got %v", err)
	}
	if sErr.Need != 8 || sErr.Have != 7 {
		t.Errorf("expected need 8 have 7, got %d %d", sErr.Need, sErr.Have)
	}

	opt.Quant = 3
	out, err := Frame(src, opt, testRenderers())
	if err != nil {
		t.Fatal(err)
	}
	// The four cells of ring 7 cover pixels 56..71 on both axes.
	for y := 56; y < 72; y++ {
		for x := 56; x < 72; x++ {
			if v, want := out.RGBAAt(x, y), src.RGBAAt(x, y); v != want {
				t.Fatalf("center pixel (%d,%d): expected %v, got %v", x, y, want, v)
			}
		}
	}
}

func TestMissingRenderers(t *testing.T) {
	testCases := []struct {
		name  string
		edit  func(*Renderers)
		value string
	}{
		{"glyphs", func(r *Renderers) { r.Glyphs = nil }, "Glyphs"},
		{"sampler", func(r *Renderers) { r.Sampler = nil }, "Sampler"},
		{"quantizer", func(r *Renderers) { r.Quantizer = nil }, "Quantizer"},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			r := testRenderers()
			test.edit(&r)
			_, err := Frame(gradientImage(64, 64), Options{Border: 1, Quant: 1, Chars: "@", Colors: 4}, r)
			var pErr *ParameterError
			if !errors.As(err, &pErr) {
				t.Fatalf("expected ParameterError, got %v", err)
			}
			if pErr.Name != "renderers" || pErr.Value != test.value {
				t.Errorf("expected renderers=%s, got %s=%v", test.value, pErr.Name, pErr.Value)
			}
		})
	}
}

func TestCallOrder(t *testing.T) {
	fb := NewFrameBuilder(gradientImage(64, 64), testRenderers())
	if _, err := fb.Render(); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("expected ErrNotBuilt, got %v", err)
	}
	if err := fb.Build(Options{Border: 1, Chars: "@", Colors: 4}); err != nil {
		t.Fatal(err)
	}
	if _, err := fb.Reconstruct(); !errors.Is(err, ErrNotRendered) {
		t.Errorf("expected ErrNotRendered, got %v", err)
	}
}

func TestFrameCirclesDefaultFont(t *testing.T) {
	src := circlesImage(navy)
	r := testRenderers()
	r.Glyphs = glyph.Default()
	frames := map[int]*image.RGBA{}
	var cell image.Point
	for _, radius := range []int{0, 4, 8} {
		opt := Options{
			Border: 4, Quant: 4,
			FadeASCII: 1, FadeQuant: 1,
			Radius: radius,
			Chars:  "@%#*+=-:. ",
			Color:  true,
			Colors: 8, Dither: true,
		}
		fb := NewFrameBuilder(src, r)
		if err := fb.Build(opt); err != nil {
			t.Fatalf("radius %d: %v", radius, err)
		}
		out, err := fb.Render()
		if err != nil {
			t.Fatal(err)
		}
		frames[radius] = out
		cell = fb.Grid.Cell
	}
	for radius, out := range frames {
		if v, want := out.RGBAAt(100, 100), src.RGBAAt(100, 100); v != want {
			t.Errorf("radius %d: expected center %v, got %v", radius, want, v)
		}
	}
	if !bytes.Equal(frames[4].Pix, frames[8].Pix) {
		t.Error("expected radius 8 to clamp to radius 4")
	}
	// Glyphs in the top-left corner cells are cut away by the rounding.
	differ := false
	for y := range 2 * cell.Y {
		for x := range 2 * cell.X {
			if frames[0].RGBAAt(x, y) != frames[4].RGBAAt(x, y) {
				differ = true
			}
		}
	}
	if !differ {
		t.Error("expected rounding to change the corner")
	}
}
