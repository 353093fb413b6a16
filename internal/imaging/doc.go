// Package imaging provides the raster primitives of the mosaic engine.
//
// It covers loading and caching decoded images, extracting the features the
// matcher compares (average color and luminance histogram of a region), the
// distances between those features, input scaling, image comparison and the
// chunk grid preview.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
// X increases rightward and Y increases downward. Regions are half-open,
// (X1,Y1) inclusive and (X2,Y2) exclusive, matching image.Rectangle.
//
// # Rasters
//
// Feature extraction works on *image.NRGBA, i.e. interleaved non-premultiplied
// 8-bit RGBA samples, and reads the Pix slice directly. Use ToNRGBA to convert
// arbitrary decoded images. Alpha is ignored by all features.
//
// # Features
//
//   - AverageColor: rounded per-channel mean over a region.
//   - ComputeHistogram: 256-bucket normalized histogram of rounded BT.601 luma
//     (0.299*R + 0.587*G + 0.114*B).
//   - ExtractFeatures: both of the above in one pass.
//   - ColorDistance: Euclidean distance in RGB.
//   - HistogramDistance: chi-squared distance, zero bucket pairs skipped.
//
// Feature functions require a non-empty region inside the image and panic
// otherwise. Callers construct regions so that this cannot happen.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless and
// may be called concurrently as long as the images they read are not mutated.
package imaging
