package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/setanarut/asciiframe"
	"github.com/setanarut/asciiframe/utils"
)

func newQuantizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quantize <input> <output>",
		Short: "Reduce an image to an 8-bit palette",
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
			colors := v.GetInt("colors")
			if colors < 1 || colors > 256 {
				return &asciiframe.ParameterError{Name: "colors", Value: colors, Reason: "must be between 1 and 256"}
			}
			img, err := readInput(args[0])
			if err != nil {
				return err
			}
			out, err := utils.NewQuantizer(method).Quantize(img, colors, v.GetBool("dither"))
			if err != nil {
				return err
			}
			if path := v.GetString("palette-out"); path != "" {
				palette := utils.ExtractPalette(img, colors, method)
				utils.SortPaletteByBrightness(palette)
				if err := utils.SavePalette(palette, 64, path); err != nil {
					return fmt.Errorf("save palette: %w", err)
				}
			}
			if err := utils.SaveImage(out, args[1]); err != nil {
				return fmt.Errorf("save %s: %w", args[1], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved 8-bit filtered image to %s\n", args[1])
			return nil
		},
	}
	addQuantFlags(cmd)
	cmd.Flags().String("palette-out", "", "Also write the extracted palette as swatches to this file")
	return cmd
}
