package renderer

import (
	"image"
	"math"
)

// Chunk is a rectangular region of the image handed to one worker at a time
type Chunk struct {
	ID     int             // Index in the grid, row-major
	Bounds image.Rectangle // Pixel bounds, Max exclusive
}

// NumPixels returns the number of pixels covered by the chunk
func (c Chunk) NumPixels() int {
	return c.Bounds.Dx() * c.Bounds.Dy()
}

// Pixel returns the coordinates of the i-th pixel of the chunk in row-major order
func (c Chunk) Pixel(i int) (x, y int) {
	w := c.Bounds.Dx()
	return c.Bounds.Min.X + i%w, c.Bounds.Min.Y + i/w
}

// ChunkGridSize returns the columns and rows of a near-square grid with about
// chunksPerWorker chunks for every worker
func ChunkGridSize(workers, chunksPerWorker int) (cols, rows int) {
	target := max(1, workers*chunksPerWorker)
	cols = max(1, int(math.Sqrt(float64(target))))
	rows = max(1, target/cols)
	return cols, rows
}

// NewChunkGrid divides a width x height image into a cols x rows grid of equally sized chunks.
// Chunks on the right and bottom edges are clipped to the image; chunks that fall entirely
// outside it are dropped, so every pixel belongs to exactly one chunk.
func NewChunkGrid(width, height, cols, rows int) []Chunk {
	if width <= 0 || height <= 0 {
		return nil
	}
	cols = max(1, cols)
	rows = max(1, rows)

	chunkWidth := (width + cols - 1) / cols // Ceiling division
	chunkHeight := (height + rows - 1) / rows

	var chunks []Chunk
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x0 := col * chunkWidth
			y0 := row * chunkHeight
			if x0 >= width || y0 >= height {
				continue
			}
			x1 := min(x0+chunkWidth, width)
			y1 := min(y0+chunkHeight, height)

			chunks = append(chunks, Chunk{
				ID:     len(chunks),
				Bounds: image.Rect(x0, y0, x1, y1),
			})
		}
	}

	return chunks
}
