// Command asciiframe wraps images in ASCII-art and color-quantized borders.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/setanarut/asciiframe"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "asciiframe",
		Short:         "Frame images with ASCII-art and 8-bit borders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			setupLogging(verbose)
		},
	}
	root.PersistentFlags().String("config", "", "Config file (yaml, toml or json) providing flag values")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log pipeline stages")

	root.AddCommand(newBorderCmd(), newFrameCmd(), newQuantizeCmd(), newASCIICmd(), newASCII2ImgCmd())
	return root
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	asciiframe.SetLogger(logger)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error: "+err.Error())
	os.Exit(1)
}
