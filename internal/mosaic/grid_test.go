package mosaic

import (
	"image"
	"math"
	"testing"
)

func TestChunks(t *testing.T) {
	tests := []struct {
		name      string
		bounds    image.Rectangle
		size      int
		wantCount int
		wantLast  image.Rectangle
	}{
		{"exact fit", image.Rect(0, 0, 64, 32), 16, 8, image.Rect(48, 16, 64, 32)},
		{"clipped edges", image.Rect(0, 0, 100, 70), 32, 12, image.Rect(96, 64, 100, 70)},
		{"chunk larger than image", image.Rect(0, 0, 10, 6), 64, 1, image.Rect(0, 0, 10, 6)},
		{"near max int chunk", image.Rect(0, 0, 10, 6), math.MaxInt - 5, 1, image.Rect(0, 0, 10, 6)},
		{"max int chunk", image.Rect(0, 0, 10, 6), math.MaxInt, 1, image.Rect(0, 0, 10, 6)},
		{"chunk equal to longer edge", image.Rect(0, 0, 10, 6), 10, 1, image.Rect(0, 0, 10, 6)},
		{"single pixel chunks", image.Rect(0, 0, 3, 2), 1, 6, image.Rect(2, 1, 3, 2)},
		{"offset bounds", image.Rect(5, 5, 15, 12), 4, 6, image.Rect(13, 9, 15, 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Chunks(tt.bounds, tt.size)
			if len(chunks) != tt.wantCount {
				t.Fatalf("count: got %d, want %d", len(chunks), tt.wantCount)
			}
			if n := ChunkCount(tt.bounds, tt.size); n != tt.wantCount {
				t.Errorf("ChunkCount: got %d, want %d", n, tt.wantCount)
			}
			if last := chunks[len(chunks)-1]; last != tt.wantLast {
				t.Errorf("last chunk: got %v, want %v", last, tt.wantLast)
			}

			area := 0
			for i, c := range chunks {
				if c.Empty() {
					t.Fatalf("chunk %d is empty", i)
				}
				if !c.In(tt.bounds) {
					t.Fatalf("chunk %d %v outside %v", i, c, tt.bounds)
				}
				if c.Dx() > tt.size || c.Dy() > tt.size {
					t.Fatalf("chunk %d %v larger than %d", i, c, tt.size)
				}
				area += c.Dx() * c.Dy()
			}
			if area != tt.bounds.Dx()*tt.bounds.Dy() {
				t.Errorf("chunks cover %d pixels, want %d", area, tt.bounds.Dx()*tt.bounds.Dy())
			}
		})
	}
}

func TestChunks_RowMajor(t *testing.T) {
	chunks := Chunks(image.Rect(0, 0, 20, 20), 10)
	want := []image.Rectangle{
		image.Rect(0, 0, 10, 10),
		image.Rect(10, 0, 20, 10),
		image.Rect(0, 10, 10, 20),
		image.Rect(10, 10, 20, 20),
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d: got %v, want %v", i, chunks[i], want[i])
		}
	}
}

func TestChunks_Degenerate(t *testing.T) {
	if c := Chunks(image.Rect(0, 0, 10, 10), 0); c != nil {
		t.Errorf("size 0: got %v", c)
	}
	if c := Chunks(image.Rect(0, 0, 0, 10), 4); c != nil {
		t.Errorf("empty bounds: got %v", c)
	}
	if n := ChunkCount(image.Rect(0, 0, 10, 10), -1); n != 0 {
		t.Errorf("ChunkCount with negative size: got %d", n)
	}
}

func TestGridSize(t *testing.T) {
	tests := []struct {
		bounds     image.Rectangle
		size       int
		cols, rows int
	}{
		{image.Rect(0, 0, 100, 60), 32, 4, 2},
		{image.Rect(0, 0, 100, 60), 1, 100, 60},
		{image.Rect(0, 0, 100, 60), math.MaxInt, 1, 1},
		{image.Rect(0, 0, 100, 60), 0, 0, 0},
		{image.Rect(0, 0, 0, 0), 8, 0, 0},
	}

	for _, tt := range tests {
		cols, rows := GridSize(tt.bounds, tt.size)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("GridSize(%v, %d): got %dx%d, want %dx%d", tt.bounds, tt.size, cols, rows, tt.cols, tt.rows)
		}
	}
}

func TestEachChunk_IndicesAndStop(t *testing.T) {
	bounds := image.Rect(0, 0, 30, 20)

	var seen []int
	EachChunk(bounds, 10, func(i int, c image.Rectangle) bool {
		seen = append(seen, i)
		if want := Chunks(bounds, 10)[i]; c != want {
			t.Errorf("chunk %d: got %v, want %v", i, c, want)
		}
		return i < 3
	})

	if len(seen) != 4 {
		t.Fatalf("visited %v, want indices 0-3", seen)
	}
	for i, v := range seen {
		if v != i {
			t.Errorf("index %d: got %d", i, v)
		}
	}
}

func TestEachChunk_LargeGridIsNotMaterialized(t *testing.T) {
	bounds := image.Rect(0, 0, 4096, 4096)

	allocs := testing.AllocsPerRun(1, func() {
		EachChunk(bounds, 1, func(i int, _ image.Rectangle) bool {
			return i < 1000
		})
	})
	if allocs > 1 {
		t.Errorf("EachChunk allocated %v times, want the grid walked in place", allocs)
	}
}
