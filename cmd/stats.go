package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AnyUserName/atlaspack-cli/internal/manifest"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a packed atlas",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// manifestPath accepts either a manifest file or the directory holding it.
func manifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return filepath.Join(path, manifest.ManifestFile), nil
	}
	return path, nil
}

func runStats(_ *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	printStats(m)
	return nil
}

func printStats(m *manifest.Manifest) {
	printTitle("atlaspack stats")

	printKeyValue("Manifest", number("v%d", m.Version))
	printKeyValue("Generated", m.GeneratedAt)
	printKeyValue("Profile", m.Profile)
	if m.BuildInfo != nil {
		printKeyValue("Run", m.BuildInfo.RunID)
		printKeyValue("Max size", number("%d", m.BuildInfo.MaxSize))
		printKeyValue("Workers", number("%d", m.BuildInfo.Workers))
	}
	fmt.Println()

	s := m.Stats
	printKeyValue("Atlas", number("%dx%d", m.Atlas.Width, m.Atlas.Height)+" "+m.Atlas.Format)
	printKeyValue("File", m.Atlas.File+" ("+formatBytes(m.Atlas.Size)+")")
	printKeyValue("Images", number("%d", s.TotalImages))
	printKeyValue("Packed", number("%d", s.Packed))
	printKeyValue("Unplaced", number("%d", s.Unplaced))
	printKeyValue("Rejected", number("%d", s.Rejected))
	printKeyValue("Fill", number("%.1f%%", s.FillRatio*100))
	fmt.Println()

	// Trim savings.
	var trimmed int
	var sourceArea, packedArea int64
	for _, sp := range m.Sprites {
		if sp.Trimmed() {
			trimmed++
		}
		sourceArea += int64(sp.SourceWidth) * int64(sp.SourceHeight)
		packedArea += int64(sp.Width) * int64(sp.Height)
	}
	if sourceArea > 0 {
		fmt.Printf("  Trimmed: %d / %d sprites, %.1f%% of source pixels kept\n",
			trimmed, len(m.Sprites), float64(packedArea)/float64(sourceArea)*100)
		fmt.Println()
	}

	// Size breakdown by longest side.
	buckets := map[int]int{}
	for _, sp := range m.Sprites {
		side := sp.Width
		if sp.Height > side {
			side = sp.Height
		}
		b := 1
		for b < side {
			b <<= 1
		}
		buckets[b]++
	}
	var sides []int
	for b := range buckets {
		sides = append(sides, b)
	}
	sort.Ints(sides)
	if len(sides) > 0 {
		fmt.Println("  Longest side breakdown:")
		for _, b := range sides {
			printDetail("<= %5dpx  %4d sprites", b, buckets[b])
		}
		fmt.Println()
	}

	// Identical sprites share a pixel hash.
	groups := identicalSprites(m)
	if len(groups) > 0 {
		fmt.Printf("  Identical content (%d groups):\n", len(groups))
		for _, g := range groups {
			printDetail("%s", strings.Join(g, ", "))
		}
		fmt.Println()
	}

	var warnings []string
	for _, name := range m.Unplaced {
		warnings = append(warnings, fmt.Sprintf("%q did not fit in the atlas", name))
	}
	for _, r := range m.Rejected {
		warnings = append(warnings, fmt.Sprintf("%q rejected: %s", r.Name, r.Reason))
	}
	if len(warnings) > 0 {
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			printWarning("%s", w)
		}
		fmt.Println()
	}
}

// identicalSprites groups sprite names whose pixels are byte-identical.
func identicalSprites(m *manifest.Manifest) [][]string {
	byHash := map[string][]string{}
	for name, sp := range m.Sprites {
		if sp.Hash == "" {
			continue
		}
		key := fmt.Sprintf("%s/%dx%d", sp.Hash, sp.Width, sp.Height)
		byHash[key] = append(byHash[key], name)
	}
	var groups [][]string
	for _, names := range byHash {
		if len(names) < 2 {
			continue
		}
		sort.Strings(names)
		groups = append(groups, names)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}
