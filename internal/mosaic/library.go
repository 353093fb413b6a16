package mosaic

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/icon-mosaic/internal/imaging"
)

const (
	// ReferenceSize is the edge of the square render assets are analyzed at.
	ReferenceSize = 128

	// PartitionGrid is the number of partitions per reference render edge.
	PartitionGrid = 3

	// PartitionEdge is the edge of a partition. The last row and column are
	// clipped to the render, which makes them one pixel narrower.
	PartitionEdge = (ReferenceSize + PartitionGrid - 1) / PartitionGrid

	// PartitionCount is the number of colors stored per asset: one per
	// partition in row-major order followed by the overall average.
	PartitionCount = PartitionGrid*PartitionGrid + 1

	// OverallPartition indexes the overall average in Asset.Partitions.
	OverallPartition = PartitionCount - 1
)

var (
	errEmptyBitmap      = errors.New("asset bitmap is empty")
	errDuplicateAssetID = errors.New("duplicate asset id")
)

// AssetSource names an asset and where its pixels come from. Bitmap takes
// precedence; otherwise the image at Path is decoded.
type AssetSource struct {
	ID     string
	Path   string
	Bitmap image.Image
}

// Asset is a library icon with its precomputed features.
type Asset struct {
	ID string

	// Partitions holds the average colors of the 3x3 partitions of the
	// reference render, row-major, followed by the overall average color.
	Partitions [PartitionCount]imaging.RGBColor

	// Histogram is the luminance histogram of the whole reference render.
	Histogram imaging.LuminanceHistogram

	// Bitmap is the decoded asset. It is only read when composing.
	Bitmap image.Image
}

// AverageColor returns the asset's overall average color.
func (a *Asset) AverageColor() imaging.RGBColor {
	return a.Partitions[OverallPartition]
}

// SkippedAsset records an asset that could not be analyzed.
type SkippedAsset struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Library is an ordered, read-only collection of assets. Library order is
// the order of the sources it was built from and decides ties in matching.
type Library struct {
	Assets  []*Asset
	Skipped []SkippedAsset
}

// Len returns the number of usable assets. A nil library is empty.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Assets)
}

// IDs returns the asset ids in library order.
func (l *Library) IDs() []string {
	ids := make([]string, l.Len())
	for i := range ids {
		ids[i] = l.Assets[i].ID
	}
	return ids
}

// Lookup returns the asset with the given id.
func (l *Library) Lookup(id string) (*Asset, bool) {
	for i := 0; i < l.Len(); i++ {
		if l.Assets[i].ID == id {
			return l.Assets[i], true
		}
	}
	return nil, false
}

// PartitionRects returns the partition rectangles of the reference render in
// row-major order.
func PartitionRects() [PartitionGrid * PartitionGrid]image.Rectangle {
	var rects [PartitionGrid * PartitionGrid]image.Rectangle
	for row := 0; row < PartitionGrid; row++ {
		for col := 0; col < PartitionGrid; col++ {
			r := image.Rect(col*PartitionEdge, row*PartitionEdge, (col+1)*PartitionEdge, (row+1)*PartitionEdge)
			rects[row*PartitionGrid+col] = r.Intersect(image.Rect(0, 0, ReferenceSize, ReferenceSize))
		}
	}
	return rects
}

// AnalyzeAsset computes the features of a single bitmap.
func AnalyzeAsset(id string, bitmap image.Image) (*Asset, error) {
	if bitmap == nil || bitmap.Bounds().Empty() {
		return nil, errEmptyBitmap
	}

	ref := imaging.ToNRGBA(transform.Resize(imaging.ToNRGBA(bitmap), ReferenceSize, ReferenceSize, transform.NearestNeighbor))

	asset := &Asset{ID: id, Bitmap: bitmap}
	for i, r := range PartitionRects() {
		asset.Partitions[i] = imaging.AverageColor(ref, r)
	}
	full := imaging.ExtractFeatures(ref, ref.Bounds())
	asset.Partitions[OverallPartition] = full.Color
	asset.Histogram = full.Histogram
	return asset, nil
}

// BuildLibrary analyzes every source and returns the library in source
// order.
//
// Sources that cannot be decoded or analyzed are logged and left out; they
// are listed in Library.Skipped, as is every source repeating an earlier id. BuildLibrary only fails when ctx is done.
func BuildLibrary(ctx context.Context, sources []AssetSource) (*Library, error) {
	return buildLibrary(ctx, imaging.NewImageCache(), sources)
}

// LoadLibraryDir builds a library from the supported image files directly
// inside dir, ordered by file name. The asset id is the file name without
// its extension.
func LoadLibraryDir(ctx context.Context, cache *imaging.ImageCache, dir string) (*Library, error) {
	paths, err := imaging.ListImages(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	sources := make([]AssetSource, len(paths))
	for i, id := range assetIDs(paths) {
		sources[i] = AssetSource{ID: id, Path: paths[i]}
	}

	lib, err := buildLibrary(ctx, cache, sources)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"dir":     dir,
		"assets":  lib.Len(),
		"skipped": len(lib.Skipped),
	}).Info("Asset library loaded")
	return lib, nil
}

// AssetID derives an asset id from a file path.
func AssetID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// assetIDs derives one id per path. Files that share a base name, such as
// star.png and star.jpg, keep their extension so their ids stay distinct.
func assetIDs(paths []string) []string {
	counts := make(map[string]int, len(paths))
	for _, p := range paths {
		counts[AssetID(p)]++
	}
	ids := make([]string, len(paths))
	for i, p := range paths {
		ids[i] = AssetID(p)
		if counts[ids[i]] > 1 {
			ids[i] = filepath.Base(p)
		}
	}
	return ids
}

func buildLibrary(ctx context.Context, cache *imaging.ImageCache, sources []AssetSource) (*Library, error) {
	assets := make([]*Asset, len(sources))
	failures := make([]error, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	seen := make(map[string]bool, len(sources))
	for i, src := range sources {
		// usage is reported per id, so the first source of an id wins
		if seen[src.ID] {
			failures[i] = fmt.Errorf("%w %q", errDuplicateAssetID, src.ID)
			continue
		}
		seen[src.ID] = true

		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bitmap := src.Bitmap
			if bitmap == nil && src.Path != "" {
				img, err := cache.Load(src.Path)
				if err != nil {
					failures[i] = err
					return nil
				}
				bitmap = img
			}
			assets[i], failures[i] = AnalyzeAsset(src.ID, bitmap)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lib := &Library{Assets: make([]*Asset, 0, len(sources))}
	for i, src := range sources {
		if failures[i] != nil {
			log.WithFields(log.Fields{
				"asset":      src.ID,
				log.ErrorKey: failures[i],
			}).Warn("Skipping asset")
			lib.Skipped = append(lib.Skipped, SkippedAsset{ID: src.ID, Reason: failures[i].Error()})
			continue
		}
		lib.Assets = append(lib.Assets, assets[i])
	}
	return lib, nil
}
