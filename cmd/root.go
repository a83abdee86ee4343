package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "atlaspack",
	Short: "Pack transparent sprites into a single texture atlas",
	Long: `atlaspack — merges many small transparent-background images into one
power-of-two texture atlas for efficient loading.

Sprites are trimmed to their visible content, packed largest-first, and
written as a lossless atlas plus atlas_coordinates.json mapping every
sprite name to its x, y, width and height.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError("%v", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: <input_dir>/atlaspack.toml)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"atlaspack %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// newLogger creates a timestamped logger writing to w at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "atlaspack",
	})
}

// commandLogger returns the stderr logger honoring --verbose.
func commandLogger() *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return newLogger(os.Stderr, level)
}
