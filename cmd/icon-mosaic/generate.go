package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/icon-mosaic/internal/imaging"
	"github.com/ironsheep/icon-mosaic/internal/mosaic"
)

type generateOptions struct {
	Assets string
	Input  string
	Output string
	Scale  float64
	Usage  bool
	Params mosaic.Params
}

func parseGenerateFlags(args []string, cfg *config, output io.Writer) (*generateOptions, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		opts     generateOptions
		strategy string
		random   bool
	)
	fs.StringVar(&opts.Assets, "assets", cfg.AssetsDir, "directory holding the icon images (default $"+envAssets+")")
	fs.StringVar(&opts.Input, "input", "", "input image")
	fs.StringVar(&opts.Output, "output", "", "mosaic output file, format by extension")
	fs.IntVar(&opts.Params.ChunkSize, "chunk", mosaic.DefaultChunkSize, "chunk edge in pixels")
	fs.StringVar(&strategy, "strategy", mosaic.ColorMatch.String(), "ColorMatch, HistogramMatch, PatternMatch or RotateMatch")
	fs.IntVar(&opts.Params.Overlap, "overlap", 0, fmt.Sprintf("PatternMatch tile shift in percent (0-%d)", mosaic.MaxOverlap))
	fs.Int64Var(&opts.Params.Seed, "seed", 0, "RotateMatch seed")
	fs.BoolVar(&random, "random", false, "seed RotateMatch from the clock")
	fs.Float64Var(&opts.Scale, "scale", 1.0, "scale factor applied to the input")
	fs.BoolVar(&opts.Usage, "usage", false, "print how often each icon was used")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	var err error
	if opts.Params.Strategy, err = mosaic.ParseStrategy(strategy); err != nil {
		return nil, err
	}
	if random {
		opts.Params.Seed = time.Now().UnixNano()
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}

	for _, p := range []struct {
		name string
		val  *string
	}{
		{"assets", &opts.Assets},
		{"input", &opts.Input},
		{"output", &opts.Output},
	} {
		if *p.val == "" {
			return nil, fmt.Errorf("-%s is required", p.name)
		}
		if *p.val, err = expandPath(*p.val); err != nil {
			return nil, err
		}
	}
	return &opts, nil
}

func runGenerate(ctx context.Context, opts *generateOptions, stdout io.Writer) error {
	cache := imaging.NewImageCache()

	lib, err := mosaic.LoadLibraryDir(ctx, cache, opts.Assets)
	if err != nil {
		return err
	}
	if lib.Len() == 0 {
		log.WithField("dir", opts.Assets).Warn("No usable icons, chunks will be filled with their average color")
	}

	img, err := cache.Load(opts.Input)
	if err != nil {
		return err
	}
	input, err := imaging.ScaleInput(img, opts.Scale)
	if err != nil {
		return err
	}
	b := input.Bounds()
	if pixels := b.Dx() * b.Dy(); pixels > imaging.LargeImagePixels {
		log.WithField("pixels", pixels).Warn("Large input, generation may take a while; consider -scale")
	}

	res, err := mosaic.NewEngine(lib).Generate(ctx, input, opts.Params, mosaic.LogProgress("Generating mosaic", 10))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("generation interrupted: %w", err)
		}
		return err
	}

	if err := imaging.SaveImage(res.Image, opts.Output); err != nil {
		return err
	}

	fields := log.Fields{
		"run":      res.RunID,
		"output":   opts.Output,
		"chunks":   res.Chunks,
		"strategy": opts.Params.Strategy,
		"elapsed":  res.Elapsed,
	}
	if fidelity, err := imaging.CompareImages(res.Image, input); err == nil {
		fields["similarity"] = fidelity.SimilarityScore
		fields["avg_diff"] = fidelity.AverageColorDiff
	}
	log.WithFields(fields).Info("Mosaic written")

	if opts.Usage {
		return printUsage(stdout, res.Used())
	}
	return nil
}

func printUsage(w io.Writer, used []mosaic.UsageEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, e := range used {
		fmt.Fprintf(tw, "%d\t%s\t\n", e.Count, e.Name)
	}
	return tw.Flush()
}
