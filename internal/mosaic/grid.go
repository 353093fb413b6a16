package mosaic

import "image"

// GridSize returns the number of chunk columns and rows covering bounds,
// ceil(W/size) and ceil(H/size). Any size larger than the longer edge gives a
// single chunk.
func GridSize(bounds image.Rectangle, size int) (cols, rows int) {
	if size < 1 || bounds.Empty() {
		return 0, 0
	}
	size = clampChunkSize(bounds, size)
	return (bounds.Dx() + size - 1) / size, (bounds.Dy() + size - 1) / size
}

// ChunkCount returns the number of chunks EachChunk visits.
func ChunkCount(bounds image.Rectangle, size int) int {
	cols, rows := GridSize(bounds, size)
	return cols * rows
}

// EachChunk calls fn with the index and rectangle of every size x size chunk
// of bounds, in row-major order, until fn returns false. Chunks in the last
// row and column are clipped to bounds, so none is empty.
func EachChunk(bounds image.Rectangle, size int, fn func(i int, chunk image.Rectangle) bool) {
	if size < 1 || bounds.Empty() {
		return
	}
	size = clampChunkSize(bounds, size)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y += size {
		for x := bounds.Min.X; x < bounds.Max.X; x += size {
			if !fn(i, image.Rect(x, y, x+size, y+size).Intersect(bounds)) {
				return
			}
			i++
		}
	}
}

// Chunks returns the whole grid EachChunk walks.
func Chunks(bounds image.Rectangle, size int) []image.Rectangle {
	n := ChunkCount(bounds, size)
	if n == 0 {
		return nil
	}
	chunks := make([]image.Rectangle, 0, n)
	EachChunk(bounds, size, func(_ int, c image.Rectangle) bool {
		chunks = append(chunks, c)
		return true
	})
	return chunks
}

// clampChunkSize keeps the grid arithmetic from overflowing.
func clampChunkSize(bounds image.Rectangle, size int) int {
	if edge := max(bounds.Dx(), bounds.Dy()); size > edge {
		return edge
	}
	return size
}
