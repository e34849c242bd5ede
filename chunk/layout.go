package chunk

import "fmt"

// Element widths of the two planar region classes.
const (
	halfSize = 2
	fullSize = 4
)

// Layout maps each channel to its byte offset in the planar buffer and
// records the boundary between the half-width and full-width regions.
//
// All half-width channels occupy [0, Split()) in their declared order; all
// full-width channels occupy [Split(), Size()). Grouping by element width
// rather than channel order is what the entropy coder feeds on: adjacent
// planes share byte structure.
type Layout struct {
	offsets []int
	split   int
	size    int
}

// PlanLayout computes the planar layout for the given channels and the
// total per-channel sample count of the chunk. The layout depends on both
// and must be recomputed whenever either changes.
func PlanLayout(channels []Channel, totalSamples int) (Layout, error) {
	if totalSamples < 0 {
		return Layout{}, fmt.Errorf("%w: negative total sample count %d", ErrGeometry, totalSamples)
	}

	nHalf := 0
	for i, ch := range channels {
		switch ch.Type.Size() {
		case halfSize:
			nHalf++
		case fullSize:
		default:
			return Layout{}, fmt.Errorf("%w: channel %d has unsupported pixel type %v", ErrGeometry, i, ch.Type)
		}
	}

	unitHalf := totalSamples * halfSize
	unitFull := totalSamples * fullSize
	split := nHalf * unitHalf

	offsets := make([]int, len(channels))
	kHalf, kFull := 0, 0
	for i, ch := range channels {
		if ch.Type.Size() == halfSize {
			offsets[i] = unitHalf * kHalf
			kHalf++
		} else {
			offsets[i] = split + unitFull*kFull
			kFull++
		}
	}

	return Layout{
		offsets: offsets,
		split:   split,
		size:    split + (len(channels)-nHalf)*unitFull,
	}, nil
}

// Offset returns the planar byte offset of channel i.
func (l Layout) Offset(i int) int {
	return l.offsets[i]
}

// Split returns the byte offset where the full-width region starts. The
// half-width region is [0, Split()).
func (l Layout) Split() int {
	return l.split
}

// Size returns the total planar buffer size in bytes.
func (l Layout) Size() int {
	return l.size
}
