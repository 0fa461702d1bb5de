package main

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/setanarut/asciiframe"
	"github.com/setanarut/asciiframe/glyph"
	"github.com/setanarut/asciiframe/utils"
)

const envPrefix = "ASCIIFRAME"

// loadConfig returns a viper instance layered as flags > env > config file >
// flag defaults, scoped to the running command's flags.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &asciiframe.InputError{Path: path, Err: err}
		}
	}
	return v, nil
}

// intOr returns key when it was set by a flag, env or config file, else def.
func intOr(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return def
}

func addFontFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("font", "", "Path to a .ttf or .otf font (default: built-in 7x13 bitmap font)")
	f.Float64("font-size", glyph.DefaultSize, "Font size in points")
}

func addGlyphFlags(cmd *cobra.Command) {
	addFontFlags(cmd)
	f := cmd.Flags()
	f.String("chars", asciiframe.DefaultOptions().Chars, "Characters ordered dark to light")
	f.Bool("color", false, "Color glyphs from the source image")
	f.String("background", "#ffffff", "Background color behind glyphs and rounded corners")
	f.String("sampling", "bilinear", "Brightness sampling: bilinear or area")
	f.Int("radius", 0, "Corner radius in characters (clamped to the border)")
	f.String("dump-masks", "", "Directory to write the per-band pixel masks to")
}

func addQuantFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("colors", asciiframe.DefaultOptions().Colors, "Palette size for quantization (1-256)")
	f.Bool("dither", false, "Floyd-Steinberg dithering")
	f.String("palette", "kmeans", "Palette extraction: kmeans or dominantcolor")
}

func loadGlyphs(v *viper.Viper) (*glyph.Face, error) {
	path := v.GetString("font")
	if path == "" {
		return glyph.Default(), nil
	}
	face, err := glyph.Load(path, v.GetFloat64("font-size"))
	if err != nil {
		return nil, &asciiframe.InputError{Path: path, Err: err}
	}
	return face, nil
}

func parseColor(name, s string) (color.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, &asciiframe.ParameterError{Name: name, Value: s, Reason: "not a #rrggbb color"}
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func styleOptions(v *viper.Viper, opt *asciiframe.Options) error {
	bg, err := parseColor("background", v.GetString("background"))
	if err != nil {
		return err
	}
	opt.Background = bg
	opt.Chars = v.GetString("chars")
	opt.Color = v.GetBool("color")
	opt.Radius = v.GetInt("radius")
	return nil
}

func samplerFrom(v *viper.Viper) (utils.Sampler, error) {
	sampling, err := utils.ParseResampling(v.GetString("sampling"))
	if err != nil {
		return utils.Sampler{}, &asciiframe.ParameterError{Name: "sampling", Value: v.GetString("sampling"), Reason: err.Error()}
	}
	return utils.Sampler{Resampling: sampling}, nil
}

func renderers(v *viper.Viper, method utils.PaletteMethod) (asciiframe.Renderers, func(), error) {
	sampler, err := samplerFrom(v)
	if err != nil {
		return asciiframe.Renderers{}, nil, err
	}
	face, err := loadGlyphs(v)
	if err != nil {
		return asciiframe.Renderers{}, nil, err
	}
	return asciiframe.Renderers{
		Glyphs:    face,
		Quantizer: utils.NewQuantizer(method),
		Sampler:   sampler,
	}, func() { _ = face.Close() }, nil
}

func paletteMethod(v *viper.Viper) (utils.PaletteMethod, error) {
	m, err := utils.ParsePaletteMethod(v.GetString("palette"))
	if err != nil {
		return 0, &asciiframe.ParameterError{Name: "palette", Value: v.GetString("palette"), Reason: err.Error()}
	}
	return m, nil
}

func readInput(path string) (image.Image, error) {
	img, err := utils.ReadImage(path)
	if err != nil {
		return nil, &asciiframe.InputError{Path: path, Err: err}
	}
	return img, nil
}

func writeOutput(cmd *cobra.Command, v *viper.Viper, fb *asciiframe.FrameBuilder, out string) error {
	result, err := fb.Render()
	if err != nil {
		return err
	}
	if dir := v.GetString("dump-masks"); dir != "" {
		if err := utils.SaveGrayImages(fb.PixelMasks, dir, "mask"); err != nil {
			return fmt.Errorf("dump masks: %w", err)
		}
	}
	if err := utils.SaveImage(result, out); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved composite image to %s\n", out)
	return nil
}
