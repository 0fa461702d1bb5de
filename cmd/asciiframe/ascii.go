package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/setanarut/asciiframe"
	"github.com/setanarut/asciiframe/utils"
)

func newASCIICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ascii <input> [width]",
		Short: "Print an image as ASCII art",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			width := v.GetInt("width")
			if len(args) == 2 {
				if width, err = strconv.Atoi(args[1]); err != nil {
					return &asciiframe.ParameterError{Name: "width", Value: args[1], Reason: "not an integer"}
				}
			}
			if width < 1 {
				return &asciiframe.ParameterError{Name: "width", Value: width, Reason: "must be positive"}
			}
			aspect := v.GetFloat64("aspect")
			if aspect <= 0 {
				return &asciiframe.ParameterError{Name: "aspect", Value: aspect, Reason: "must be positive"}
			}
			sampler, err := samplerFrom(v)
			if err != nil {
				return err
			}
			img, err := readInput(args[0])
			if err != nil {
				return err
			}

			// Rows shrink by the character aspect so the art keeps the image's proportions.
			b := img.Bounds()
			rows := max(1, int(math.Round(float64(b.Dy())*float64(width)/float64(b.Dx())*aspect)))
			lines, err := asciiframe.ASCIILines(sampler.Sample(img, width, rows), v.GetString("chars"))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, l := range lines {
				fmt.Fprintln(out, l)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Int("width", 80, "Output width in characters (overridden by the width argument)")
	f.Float64("aspect", 0.5, "Character width to height ratio")
	f.String("chars", asciiframe.DefaultOptions().Chars, "Characters ordered dark to light")
	f.String("sampling", "bilinear", "Brightness sampling: bilinear or area")
	return cmd
}

func newASCII2ImgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ascii2img <input.txt> <output>",
		Short: "Render a text file to an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			padding := v.GetInt("padding")
			if padding < 0 {
				return &asciiframe.ParameterError{Name: "padding", Value: padding, Reason: "must be non-negative"}
			}
			fg, err := parseColor("foreground", v.GetString("foreground"))
			if err != nil {
				return err
			}
			bg, err := parseColor("background", v.GetString("background"))
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return &asciiframe.InputError{Path: args[0], Err: err}
			}
			face, err := loadGlyphs(v)
			if err != nil {
				return err
			}
			defer func() { _ = face.Close() }()

			lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
			img := face.TextImage(lines, padding, fg, bg)
			if err := utils.SaveImage(img, args[1]); err != nil {
				return fmt.Errorf("save %s: %w", args[1], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved image to %s\n", args[1])
			return nil
		},
	}
	addFontFlags(cmd)
	f := cmd.Flags()
	f.Int("padding", 10, "Blank margin around the text in pixels")
	f.String("foreground", "#000000", "Text color")
	f.String("background", "#ffffff", "Background color")
	return cmd
}
