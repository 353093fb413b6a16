package mosaic

import (
	"image"
	"image/draw"
	"math"

	dimaging "github.com/disintegration/imaging"

	"github.com/ironsheep/icon-mosaic/internal/imaging"
)

// Angles are the clockwise rotations RotateMatch chooses from.
var Angles = [...]int{0, 90, 180, 270}

// Placement describes where a tile lands on the output. The tile is scaled to
// Width x Height, rotated clockwise by Angle degrees and centered on
// (CenterX, CenterY).
type Placement struct {
	CenterX, CenterY float64
	Width, Height    int
	Angle            int
}

// Footprint returns the size of the tile after rotation.
func (p Placement) Footprint() (w, h int) {
	if p.Angle == 90 || p.Angle == 270 {
		return p.Height, p.Width
	}
	return p.Width, p.Height
}

// Bounds returns the output rectangle the tile covers, with its top-left
// corner snapped to the nearest pixel. It may extend past the output.
func (p Placement) Bounds() image.Rectangle {
	w, h := p.Footprint()
	x := int(math.Round(p.CenterX - float64(w)/2))
	y := int(math.Round(p.CenterY - float64(h)/2))
	return image.Rect(x, y, x+w, y+h)
}

// PlacementFor returns where the tile for chunk goes. overlap is only used by
// PatternMatch and angle only by RotateMatch.
func PlacementFor(chunk image.Rectangle, strategy Strategy, overlap, angle int) Placement {
	w, h := chunk.Dx(), chunk.Dy()
	p := Placement{
		CenterX: float64(chunk.Min.X) + float64(w)/2,
		CenterY: float64(chunk.Min.Y) + float64(h)/2,
		Width:   w,
		Height:  h,
	}

	switch strategy {
	case PatternMatch:
		p.CenterX -= float64(overlap) / 100 * float64(w) / 2
		p.CenterY -= float64(overlap) / 100 * float64(h) / 2
	case RotateMatch:
		p.Angle = angle
	}
	return p
}

type tileKey struct {
	asset, width, height, angle int
}

// compositor draws tiles onto a run's output raster. Scaled and rotated
// tiles are cached, since neighboring chunks mostly share one size.
type compositor struct {
	dst   *image.RGBA
	lib   *Library
	tiles map[tileKey]*image.NRGBA
}

func newCompositor(input *image.NRGBA, lib *Library) *compositor {
	dst := image.NewRGBA(input.Bounds())
	draw.Draw(dst, dst.Bounds(), input, input.Bounds().Min, draw.Src)
	return &compositor{
		dst:   dst,
		lib:   lib,
		tiles: make(map[tileKey]*image.NRGBA),
	}
}

func (c *compositor) tile(asset int, p Placement) *image.NRGBA {
	key := tileKey{asset: asset, width: p.Width, height: p.Height, angle: p.Angle}
	if t, ok := c.tiles[key]; ok {
		return t
	}

	t := dimaging.Resize(c.lib.Assets[asset].Bitmap, p.Width, p.Height, dimaging.Linear)
	switch p.Angle {
	case 90:
		t = dimaging.Rotate270(t)
	case 180:
		t = dimaging.Rotate180(t)
	case 270:
		t = dimaging.Rotate90(t)
	}
	c.tiles[key] = t
	return t
}

// paste composites the asset's tile over the output at p.
func (c *compositor) paste(asset int, p Placement) {
	t := c.tile(asset, p)
	draw.Draw(c.dst, p.Bounds(), t, image.Point{}, draw.Over)
}

// fill paints chunk with a flat color.
func (c *compositor) fill(chunk image.Rectangle, col imaging.RGBColor) {
	draw.Draw(c.dst, chunk, image.NewUniform(col.RGBA()), image.Point{}, draw.Src)
}
