package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/setanarut/asciiframe"
	"github.com/setanarut/asciiframe/utils"
)

func newBorderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "border <input> <output>",
		Short: "Wrap an image in an ASCII-art border, keeping the original center",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			opt := asciiframe.DefaultOptions()
			opt.Border = v.GetInt("border")
			opt.Quant = 0
			opt.FadeASCII = intOr(v, "fade", opt.Border)
			return run(cmd, v, args, opt, utils.PaletteMethodKMeans)
		},
	}
	f := cmd.Flags()
	f.Int("border", asciiframe.DefaultOptions().Border, "Border thickness in characters")
	f.Int("fade", 0, "Fade width in characters (default: same as --border)")
	addGlyphFlags(cmd)
	return cmd
}

func newFrameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frame <input> <output>",
		Short: "Wrap an image with an ASCII border, an 8-bit mid band and the original center",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			method, err := paletteMethod(v)
			if err != nil {
				return err
			}
			opt := asciiframe.DefaultOptions()
			opt.Border = v.GetInt("border")
			opt.Quant = intOr(v, "quant", opt.Border)
			opt.FadeASCII = intOr(v, "fade-ascii", opt.Border)
			opt.FadeQuant = intOr(v, "fade-quant", opt.Quant)
			opt.Colors = v.GetInt("colors")
			opt.Dither = v.GetBool("dither")
			return run(cmd, v, args, opt, method)
		},
	}
	f := cmd.Flags()
	f.Int("border", asciiframe.DefaultOptions().Border, "ASCII border thickness in characters")
	f.Int("quant", 0, "8-bit band thickness in characters (default: same as --border)")
	f.Int("fade-ascii", 0, "Fade width between the ASCII and 8-bit bands (default: same as --border)")
	f.Int("fade-quant", 0, "Fade width between the 8-bit band and the original (default: same as --quant)")
	addGlyphFlags(cmd)
	addQuantFlags(cmd)
	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper, args []string, opt asciiframe.Options, method utils.PaletteMethod) error {
	if err := styleOptions(v, &opt); err != nil {
		return err
	}
	if err := opt.Validate(); err != nil {
		return err
	}
	r, closeFace, err := renderers(v, method)
	if err != nil {
		return err
	}
	defer closeFace()

	img, err := readInput(args[0])
	if err != nil {
		return err
	}
	fb := asciiframe.NewFrameBuilder(img, r)
	if err := fb.Build(opt); err != nil {
		return err
	}
	return writeOutput(cmd, v, fb, args[1])
}
