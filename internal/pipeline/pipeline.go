package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/AnyUserName/atlaspack-cli/internal/atlas"
	"github.com/AnyUserName/atlaspack-cli/internal/config"
	"github.com/AnyUserName/atlaspack-cli/internal/encoder"
	"github.com/AnyUserName/atlaspack-cli/internal/hasher"
	"github.com/AnyUserName/atlaspack-cli/internal/manifest"
	"github.com/charmbracelet/log"
)

// ErrNothingPacked is returned when images were loaded but none fit the
// atlas and Settings.AllowEmpty is off.
var ErrNothingPacked = errors.New("no image could be packed")

// Config holds all parameters for a pack pipeline run.
type Config struct {
	InputDir  string
	OutputDir string
	Settings  config.Settings
	Logger    *log.Logger
}

// Output lists what a run produced.
type Output struct {
	Manifest        *manifest.Manifest
	Result          *atlas.Result
	AtlasPath       string
	ManifestPath    string
	CoordinatesPath string
	BundlePath      string // empty unless bundling is enabled
	FellBack        bool   // requested format unavailable, PNG used
}

// Pipeline scans, normalizes, packs and writes one atlas.
type Pipeline struct {
	cfg      Config
	log      *log.Logger
	registry *encoder.Registry
}

// New creates a configured pipeline. Settings must already be validated.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	compression, _ := encoder.ParseCompression(cfg.Settings.Profile.Compression)
	return &Pipeline{
		cfg:      cfg,
		log:      logger,
		registry: encoder.NewRegistry(compression),
	}
}

// Run executes the full pipeline.
func (p *Pipeline) Run() (*Output, error) {
	s := p.cfg.Settings
	workers := s.EffectiveWorkers()
	p.log.Debug(p.registry.String())

	enc, fellBack := p.registry.Resolve(s.Profile.Format)
	if fellBack {
		p.log.Warn("encoder unavailable, falling back to png", "format", s.Profile.Format)
	}

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir, ScanOptions{
		KeepExt: s.KeepExt,
		Exclude: s.Exclude,
		SkipDir: p.cfg.OutputDir,
	})
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	p.log.Debug("scanned input", "images", len(sources), "workers", workers)

	// Step 2: Decode and trim in parallel; normalization is pure.
	results := make([]loadResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, src Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release
			results[idx] = loadImage(src)
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect into the batch in scan order.
	m := manifest.New(s.Profile.Name)
	m.BuildInfo.Workers = workers
	m.BuildInfo.MaxSize = s.Profile.MaxSize

	var batch atlas.Batch
	for _, r := range results {
		m.Stats.TotalInputBytes += r.src.Size
		oc := batch.Submit(r.src.Key, r.img, r.err)
		if !oc.OK {
			p.log.Warn("rejected", "image", r.src.RelPath, "reason", oc.Message)
			m.Rejected = append(m.Rejected, manifest.Rejection{Name: r.src.Key, Reason: oc.Message})
			continue
		}
		p.log.Debug(oc.Message)
	}
	m.Stats.TotalImages = len(sources)

	// Step 4: Pack.
	res, err := batch.Pack(atlas.Options{MaxSize: s.Profile.MaxSize})
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	for _, name := range res.Duplicates {
		p.log.Warn("duplicate sprite name, last one wins", "name", name)
	}
	for _, name := range res.Unplaced {
		p.log.Warn("no room in atlas", "image", name, "size", fmt.Sprintf("%dx%d", res.Width, res.Height))
	}
	if res.ZeroPacked() && !s.AllowEmpty {
		return nil, fmt.Errorf("%w: %d images, atlas %dx%d", ErrNothingPacked, res.Total, res.Width, res.Height)
	}
	p.log.Info(res.Status())

	// Step 5: Describe sprites.
	for _, name := range res.Order {
		pl := res.Placements[name]
		img := res.Images[name]
		m.Sprites[name] = manifest.Sprite{
			X:            pl.X,
			Y:            pl.Y,
			Width:        pl.Width,
			Height:       pl.Height,
			SourceWidth:  img.SourceWidth,
			SourceHeight: img.SourceHeight,
			OffsetX:      img.Offset.X,
			OffsetY:      img.Offset.Y,
			Hash:         hasher.PixelHash(img.Pixels, 16),
			AvgColor:     computeAvgColor(img.Pixels),
		}
	}
	m.Unplaced = res.Unplaced

	// Step 6: Encode and write.
	data, err := enc.Encode(res.Atlas)
	if err != nil {
		return nil, fmt.Errorf("encode atlas as %s: %w", enc.Format(), err)
	}
	hash := hasher.ContentHash(data, 16)
	atlasFile := fmt.Sprintf("%s.%s.%s", s.Name, hash[:8], enc.Extension())
	m.Atlas = manifest.AtlasInfo{
		File:   atlasFile,
		Format: enc.Format(),
		Width:  res.Width,
		Height: res.Height,
		Size:   int64(len(data)),
		Hash:   hash,
	}

	out := &Output{
		Manifest:        m,
		Result:          res,
		AtlasPath:       filepath.Join(p.cfg.OutputDir, atlasFile),
		ManifestPath:    filepath.Join(p.cfg.OutputDir, manifest.ManifestFile),
		CoordinatesPath: filepath.Join(p.cfg.OutputDir, manifest.CoordinatesFile),
		FellBack:        fellBack,
	}

	if err := os.WriteFile(out.AtlasPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write atlas: %w", err)
	}
	manifestData, err := manifest.EncodeManifest(m)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(out.ManifestPath, manifestData, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	coords, err := manifest.EncodeCoordinates(m)
	if err != nil {
		return nil, fmt.Errorf("encode coordinates: %w", err)
	}
	if err := os.WriteFile(out.CoordinatesPath, coords, 0o644); err != nil {
		return nil, fmt.Errorf("write coordinates: %w", err)
	}

	if s.Profile.Bundle {
		out.BundlePath = filepath.Join(p.cfg.OutputDir, s.Name+"_pack.zip")
		err := manifest.WriteBundle(out.BundlePath, []manifest.BundleFile{
			{Name: atlasFile, Data: data, Store: true},
			{Name: manifest.CoordinatesFile, Data: coords},
			{Name: manifest.ManifestFile, Data: manifestData},
		})
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}
