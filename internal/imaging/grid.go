package imaging

import (
	"image"
	"image/color"
	"image/draw"
)

// ChunkGridOverlay draws the chunk boundaries a mosaic run with the given
// chunk size would use on top of a copy of img.
//
// A line is drawn at every multiple of chunkSize, which marks the left or top
// edge of each chunk but the first. The source image is not modified.
func ChunkGridOverlay(img image.Image, chunkSize int, gridColor RGBColor) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)
	if chunkSize <= 0 || chunkSize >= max(bounds.Dx(), bounds.Dy()) {
		return result
	}

	line := image.NewUniform(color.RGBA{R: gridColor.R, G: gridColor.G, B: gridColor.B, A: 255})

	for x := bounds.Min.X + chunkSize; x < bounds.Max.X; x += chunkSize {
		draw.Draw(result, image.Rect(x, bounds.Min.Y, x+1, bounds.Max.Y), line, image.Point{}, draw.Src)
	}
	for y := bounds.Min.Y + chunkSize; y < bounds.Max.Y; y += chunkSize {
		draw.Draw(result, image.Rect(bounds.Min.X, y, bounds.Max.X, y+1), line, image.Point{}, draw.Src)
	}

	return result
}
