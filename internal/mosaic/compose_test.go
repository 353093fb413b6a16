package mosaic

import (
	"image"
	"image/color"
	"testing"
)

func TestPlacementFor_Centered(t *testing.T) {
	chunk := image.Rect(20, 10, 30, 16)
	for _, s := range []Strategy{ColorMatch, HistogramMatch} {
		p := PlacementFor(chunk, s, 50, 90)
		if p.CenterX != 25 || p.CenterY != 13 {
			t.Errorf("%v center: got (%v,%v), want (25,13)", s, p.CenterX, p.CenterY)
		}
		if p.Angle != 0 {
			t.Errorf("%v angle: got %d, want 0", s, p.Angle)
		}
		if p.Bounds() != chunk {
			t.Errorf("%v bounds: got %v, want %v", s, p.Bounds(), chunk)
		}
	}
}

func TestPlacementFor_PatternOverlap(t *testing.T) {
	left := image.Rect(0, 0, 10, 10)
	right := image.Rect(10, 0, 20, 10)

	for _, chunk := range []image.Rectangle{left, right} {
		plain := PlacementFor(chunk, ColorMatch, 0, 0)
		shifted := PlacementFor(chunk, PatternMatch, 50, 0)

		if dx := plain.CenterX - shifted.CenterX; dx != 2.5 {
			t.Errorf("chunk %v: x offset got %v, want 2.5", chunk, dx)
		}
		if dy := plain.CenterY - shifted.CenterY; dy != 2.5 {
			t.Errorf("chunk %v: y offset got %v, want 2.5", chunk, dy)
		}
		if shifted.Width != 10 || shifted.Height != 10 {
			t.Errorf("chunk %v: size got %dx%d, want 10x10", chunk, shifted.Width, shifted.Height)
		}
	}

	if p := PlacementFor(right, PatternMatch, 0, 0); p.CenterX != 15 || p.CenterY != 5 {
		t.Errorf("zero overlap should not shift: got (%v,%v)", p.CenterX, p.CenterY)
	}
}

func TestPlacementFor_RotateFootprint(t *testing.T) {
	chunk := image.Rect(0, 0, 10, 4)

	tests := []struct {
		angle      int
		wantBounds image.Rectangle
	}{
		{0, image.Rect(0, 0, 10, 4)},
		{90, image.Rect(3, -3, 7, 7)},
		{180, image.Rect(0, 0, 10, 4)},
		{270, image.Rect(3, -3, 7, 7)},
	}
	for _, tt := range tests {
		p := PlacementFor(chunk, RotateMatch, 0, tt.angle)
		if p.Angle != tt.angle {
			t.Errorf("angle: got %d, want %d", p.Angle, tt.angle)
		}
		if got := p.Bounds(); got != tt.wantBounds {
			t.Errorf("angle %d bounds: got %v, want %v", tt.angle, got, tt.wantBounds)
		}
	}
}

// cornerAsset is a 2x2 black asset with a red top-left pixel.
func cornerAsset() *image.NRGBA {
	img := solidImage(2, 2, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	return img
}

func TestCompositor_RotatesClockwise(t *testing.T) {
	lib := mustLibrary(t, AssetSource{ID: "corner", Bitmap: cornerAsset()})
	c := newCompositor(solidImage(2, 2, color.NRGBA{}), lib)

	red := color.NRGBA{255, 0, 0, 255}
	tests := []struct {
		angle int
		at    image.Point
	}{
		{0, image.Pt(0, 0)},
		{90, image.Pt(1, 0)},
		{180, image.Pt(1, 1)},
		{270, image.Pt(0, 1)},
	}
	for _, tt := range tests {
		tile := c.tile(0, Placement{Width: 2, Height: 2, Angle: tt.angle})
		if got := tile.NRGBAAt(tt.at.X, tt.at.Y); got != red {
			t.Errorf("angle %d: pixel %v got %v, want red", tt.angle, tt.at, got)
		}
	}
}

func TestCompositor_CachesTiles(t *testing.T) {
	lib := mustLibrary(t, solidSource("a", color.NRGBA{9, 9, 9, 255}))
	c := newCompositor(solidImage(4, 4, color.NRGBA{}), lib)

	p := Placement{Width: 3, Height: 2, Angle: 90}
	first := c.tile(0, p)
	if first.Bounds().Dx() != 2 || first.Bounds().Dy() != 3 {
		t.Errorf("rotated tile size: got %v, want 2x3", first.Bounds())
	}
	if c.tile(0, p) != first {
		t.Error("second lookup should return the cached tile")
	}
	c.tile(0, Placement{Width: 3, Height: 2})
	if len(c.tiles) != 2 {
		t.Errorf("cache size: got %d, want 2", len(c.tiles))
	}
}

func TestCompositor_StartsFromInput(t *testing.T) {
	input := noiseImage(5, 3, 1)
	c := newCompositor(input, &Library{})

	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			want := input.NRGBAAt(x, y)
			got := c.dst.RGBAAt(x, y)
			if got.R != want.R || got.G != want.G || got.B != want.B || got.A != 255 {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}
