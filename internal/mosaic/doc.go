// Package mosaic turns a raster image into a mosaic of library icons.
//
// The input image is partitioned into a grid of square chunks. For every chunk
// the average color and luminance histogram are extracted, the library asset
// with the lowest score under the selected Strategy is chosen, and the asset
// is pasted over the chunk. A usage penalty added to every asset's score
// discourages the same asset from being chosen over and over.
//
// # Components
//
//   - Library: assets with precomputed features (BuildLibrary, LoadLibraryDir)
//   - SelectBest: scores every asset against a chunk and records the winner
//   - Chunks / PlacementFor: chunk geometry and where a tile lands
//   - Engine / Run: one background worker per mosaic run, reporting progress
//     and honoring cancellation at every chunk boundary
//
// # Example
//
//	lib, err := mosaic.LoadLibraryDir(ctx, imaging.NewImageCache(), "/path/to/icons")
//	if err != nil {
//	    return err
//	}
//	engine := mosaic.NewEngine(lib)
//	res, err := engine.Generate(ctx, img, mosaic.Params{
//	    ChunkSize: 32,
//	    Strategy:  mosaic.ColorMatch,
//	}, nil)
//
// A Library is read-only once built and may be shared by concurrent runs.
// Everything a run mutates (usage counts, output raster, scaled tile cache)
// belongs to that run alone.
package mosaic
