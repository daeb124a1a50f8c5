package renderer

import (
	"testing"
)

func TestChunkGridSize(t *testing.T) {
	tests := []struct {
		workers, perWorker int
		cols, rows         int
	}{
		{1, 4, 2, 2},
		{4, 4, 4, 4},
		{3, 4, 3, 4},
		{8, 4, 5, 6},
		{16, 4, 8, 8},
		{0, 4, 1, 1},
	}

	for _, tt := range tests {
		cols, rows := ChunkGridSize(tt.workers, tt.perWorker)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("ChunkGridSize(%d, %d) = %dx%d, want %dx%d", tt.workers, tt.perWorker, cols, rows, tt.cols, tt.rows)
		}
	}
}

func TestNewChunkGrid_CoversEveryPixelOnce(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		cols, rows    int
	}{
		{"even split", 400, 200, 4, 4},
		{"uneven split", 400, 225, 5, 6},
		{"more columns than pixels", 3, 2, 4, 4},
		{"clipped edge chunks", 7, 3, 4, 4},
		{"single pixel", 1, 1, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := NewChunkGrid(tt.width, tt.height, tt.cols, tt.rows)
			if len(chunks) == 0 {
				t.Fatal("Expected at least one chunk")
			}

			covered := make([]int, tt.width*tt.height)
			for i, chunk := range chunks {
				if chunk.ID != i {
					t.Errorf("Chunk %d has ID %d", i, chunk.ID)
				}
				if chunk.NumPixels() == 0 {
					t.Errorf("Chunk %d is empty: %v", i, chunk.Bounds)
				}
				for p := 0; p < chunk.NumPixels(); p++ {
					x, y := chunk.Pixel(p)
					if x < 0 || x >= tt.width || y < 0 || y >= tt.height {
						t.Fatalf("Chunk %d pixel (%d, %d) outside image", i, x, y)
					}
					covered[y*tt.width+x]++
				}
			}

			for i, n := range covered {
				if n != 1 {
					t.Fatalf("Pixel (%d, %d) covered %d times", i%tt.width, i/tt.width, n)
				}
			}
		})
	}
}

func TestChunk_PixelOrder(t *testing.T) {
	chunks := NewChunkGrid(4, 4, 2, 2)
	last := chunks[len(chunks)-1]

	expected := [][2]int{{2, 2}, {3, 2}, {2, 3}, {3, 3}}
	for i, want := range expected {
		x, y := last.Pixel(i)
		if x != want[0] || y != want[1] {
			t.Errorf("Pixel %d: expected (%d, %d), got (%d, %d)", i, want[0], want[1], x, y)
		}
	}
}

func TestNewChunkGrid_EmptyImage(t *testing.T) {
	if chunks := NewChunkGrid(0, 10, 2, 2); chunks != nil {
		t.Errorf("Expected no chunks for an empty image, got %d", len(chunks))
	}
}
