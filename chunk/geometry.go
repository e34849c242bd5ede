package chunk

import "fmt"

// Geometry describes the pixel extent of one chunk and, for deep chunks,
// the per-line sample counts.
type Geometry struct {
	// Width is the number of pixels per line. For flat chunks it is also
	// the number of samples each channel contributes per line.
	Width int

	// Height is the number of lines in the chunk.
	Height int

	// SampleCounts, when non-nil, gives the total number of samples each
	// line contributes (deep chunks). Its length must equal Height; entries
	// may be zero.
	SampleCounts []int
}

// Deep reports whether the geometry carries per-line sample counts.
func (g Geometry) Deep() bool {
	return g.SampleCounts != nil
}

// Validate checks the geometry invariants. Violations are reported as
// geometry errors and abort the encode or decode call that hit them.
func (g Geometry) Validate() error {
	if g.Width < 0 || g.Height < 0 {
		return fmt.Errorf("%w: negative extent %dx%d", ErrGeometry, g.Width, g.Height)
	}
	if g.SampleCounts != nil {
		if len(g.SampleCounts) != g.Height {
			return fmt.Errorf("%w: %d sample counts for %d lines", ErrGeometry, len(g.SampleCounts), g.Height)
		}
		for i, n := range g.SampleCounts {
			if n < 0 {
				return fmt.Errorf("%w: negative sample count %d at line %d", ErrGeometry, n, i)
			}
		}
	}
	return nil
}

// Cumulative returns the running per-line sample totals. The table has
// Height+1 entries: entry 0 is always 0 and entry i is the number of
// samples contributed by lines [0, i). The final entry is the chunk total.
func (g Geometry) Cumulative() []int {
	if g.Height < 0 {
		return []int{0}
	}
	cum := make([]int, g.Height+1)
	for i := 0; i < g.Height; i++ {
		n := g.Width
		if g.SampleCounts != nil {
			n = g.SampleCounts[i]
		}
		cum[i+1] = cum[i] + n
	}
	return cum
}

// TotalSamples returns the number of samples each channel contributes to
// the whole chunk.
func (g Geometry) TotalSamples() int {
	if g.SampleCounts == nil {
		if g.Width < 0 || g.Height < 0 {
			return 0
		}
		return g.Width * g.Height
	}
	total := 0
	for _, n := range g.SampleCounts {
		total += n
	}
	return total
}

// LineSampleCounts folds a per-pixel sample-count table (width*height
// entries, line-major) into the per-line totals Geometry.SampleCounts
// wants. Deep pipelines track counts per pixel; this codec accounts per
// line.
func LineSampleCounts(perPixel []uint32, width, height int) ([]int, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative extent %dx%d", ErrGeometry, width, height)
	}
	if len(perPixel) != width*height {
		return nil, fmt.Errorf("%w: %d pixel counts for %dx%d chunk", ErrGeometry, len(perPixel), width, height)
	}
	lines := make([]int, height)
	for y := 0; y < height; y++ {
		total := 0
		for _, n := range perPixel[y*width : (y+1)*width] {
			total += int(n)
		}
		lines[y] = total
	}
	return lines, nil
}
