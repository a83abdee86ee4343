package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AnyUserName/atlaspack-cli/internal/config"
	"github.com/AnyUserName/atlaspack-cli/internal/pipeline"
	"github.com/AnyUserName/atlaspack-cli/internal/profile"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	packOutDir     string
	packProfile    string
	packMaxSize    int
	packFormat     string
	packWorkers    int
	packName       string
	packBundle     bool
	packAllowEmpty bool
	packKeepExt    bool
	packExclude    []string
)

var packCmd = &cobra.Command{
	Use:   "pack <input_dir>",
	Short: "Pack every image in a directory into one atlas",
	Long: `Scans input directory for images (png, jpg, jpeg, webp, gif, bmp, tiff),
trims each to its visible content, packs them into a square power-of-two
atlas and writes:

  <name>.<hash>.png         the atlas (lossless; webp/avif when available)
  atlas_coordinates.json    sprite name → {x, y, width, height}
  atlaspack.manifest.json   placements plus trim offsets and stats
  <name>_pack.zip           all of the above, with --bundle

Images that do not fit the maximum atlas size are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runPack,
}

func init() {
	f := packCmd.Flags()
	f.StringVarP(&packOutDir, "out", "o", "./atlas_out", "output directory")
	f.StringVarP(&packProfile, "profile", "p", profile.DefaultName, "size profile (4k, 8k, 16k, web)")
	f.IntVar(&packMaxSize, "max-size", 0, "max atlas side in pixels (overrides profile)")
	f.StringVarP(&packFormat, "format", "f", "", "atlas format: png, webp, avif (overrides profile)")
	f.IntVarP(&packWorkers, "workers", "w", 0, "parallel decoders (0 = NumCPU)")
	f.StringVar(&packName, "name", "", "atlas base file name (default texture_atlas)")
	f.BoolVar(&packBundle, "bundle", false, "also write a ZIP with atlas, coordinates and manifest")
	f.BoolVar(&packAllowEmpty, "allow-empty", false, "write output even when no image fits")
	f.BoolVar(&packKeepExt, "keep-ext", false, "keep file extensions in sprite names")
	f.StringSliceVar(&packExclude, "exclude", nil, "glob patterns to skip (matched on path and base name)")
	rootCmd.AddCommand(packCmd)
}

func runPack(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()
	logger := commandLogger()

	// Resolve absolute paths.
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(packOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	settings, err := resolveSettings(cmd, absInput, logger)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger.Debug("input", "dir", absInput)
	logger.Debug("output", "dir", absOutput)
	logger.Debug("profile", "name", settings.Profile.Name, "max_size", settings.Profile.MaxSize,
		"format", settings.Profile.Format, "bundle", settings.Profile.Bundle)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Settings:  settings,
		Logger:    logger,
	})
	out, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	printPackReport(out, time.Since(start))
	return nil
}

// resolveSettings layers profile, config file and explicitly set flags.
func resolveSettings(cmd *cobra.Command, inputDir string, logger *log.Logger) (config.Settings, error) {
	var file config.File
	path := configPath
	if path == "" {
		path, _ = config.Find(inputDir)
	}
	if path != "" {
		f, unknown, err := config.Load(path)
		if err != nil {
			return config.Settings{}, err
		}
		for _, k := range unknown {
			logger.Warn("unknown config key", "key", k, "file", path)
		}
		logger.Debug("loaded config", "file", path)
		file = f
	}

	flags := cmd.Flags()
	name := profile.DefaultName
	if file.Profile != "" {
		name = file.Profile
	}
	if flags.Changed("profile") {
		name = packProfile
	}
	if _, ok := profile.Lookup(name); !ok {
		logger.Warn("unknown profile, using defaults", "profile", name, "known", profile.Names())
	}

	s := config.Default(name)
	s.Apply(file)

	if flags.Changed("max-size") {
		s.Profile.MaxSize = packMaxSize
	}
	if flags.Changed("format") {
		s.Profile.Format = packFormat
	}
	if flags.Changed("workers") {
		s.Workers = packWorkers
	}
	if flags.Changed("name") {
		s.Name = packName
	}
	if flags.Changed("bundle") {
		s.Profile.Bundle = packBundle
	}
	if flags.Changed("allow-empty") {
		s.AllowEmpty = packAllowEmpty
	}
	if flags.Changed("keep-ext") {
		s.KeepExt = packKeepExt
	}
	s.Exclude = append(s.Exclude, packExclude...)

	return s, s.Validate()
}

func printPackReport(out *pipeline.Output, elapsed time.Duration) {
	m := out.Manifest
	res := out.Result
	s := m.Stats

	printTitle("atlaspack pack complete")

	printKeyValue("Images", number("%d", s.TotalImages))
	printKeyValue("Packed", number("%d of %d", res.Packed, res.Total))
	if s.Rejected > 0 {
		printKeyValue("Rejected", number("%d", s.Rejected))
	}
	printKeyValue("Atlas", number("%dx%d", m.Atlas.Width, m.Atlas.Height)+" "+m.Atlas.Format)
	printKeyValue("Fill", number("%.1f%%", s.FillRatio*100))
	printKeyValue("Input size", formatBytes(s.TotalInputBytes))
	printKeyValue("Atlas size", formatBytes(m.Atlas.Size))
	printKeyValue("Time", elapsed.Round(time.Millisecond).String())
	fmt.Println()

	if len(m.Sprites) > 0 {
		type spriteArea struct {
			name string
			w, h int
		}
		var items []spriteArea
		for name, sp := range m.Sprites {
			items = append(items, spriteArea{name, sp.Width, sp.Height})
		}
		sort.Slice(items, func(i, j int) bool {
			ai, aj := items[i].w*items[i].h, items[j].w*items[j].h
			if ai != aj {
				return ai > aj
			}
			return items[i].name < items[j].name
		})
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Printf("  Top %d largest sprites:\n", n)
		for _, it := range items[:n] {
			sp := m.Sprites[it.name]
			printDetail("%-40s %5dx%-5d at %d,%d", truncKey(it.name, 40), sp.Width, sp.Height, sp.X, sp.Y)
		}
		fmt.Println()
	}

	if len(res.Unplaced) > 0 {
		printWarning("%d images did not fit in %dx%d; try a larger --max-size", len(res.Unplaced), res.Width, res.Height)
	}
	if len(res.Duplicates) > 0 {
		printWarning("%d duplicate sprite names (last one wins)", len(res.Duplicates))
	}
	if out.FellBack {
		printWarning("requested format unavailable, wrote png")
	}

	printSuccess("%s", res.Status())
	printFile(out.AtlasPath)
	printFile(out.CoordinatesPath)
	printFile(out.ManifestPath)
	if out.BundlePath != "" {
		printFile(out.BundlePath)
	}
	fmt.Println()
}
