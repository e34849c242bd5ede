package chunk

import "fmt"

// toPlanar relocates a packed chunk buffer into planar form. The packed
// layout is channel-interleaved within each line with lines consecutive;
// the planar position of a line's run for channel c is
// Offset(c) + cumulative[line]*size. The packed cursor advances
// sequentially across all channels regardless of width, which makes the
// transform a pure permutation. Every copy validates both ranges first;
// a violation means the caller's buffers and geometry disagree.
func toPlanar(dst, packed []byte, channels []Channel, lay Layout, cum []int) error {
	pos := 0
	for line := 0; line < len(cum)-1; line++ {
		lineSamples := cum[line+1] - cum[line]
		for i, ch := range channels {
			size := ch.Type.Size()
			n := lineSamples * size
			if n == 0 {
				continue
			}
			off := lay.Offset(i) + cum[line]*size
			if pos+n > len(packed) {
				return fmt.Errorf("%w: packed read of %d bytes at %d overruns %d-byte buffer",
					ErrGeometry, n, pos, len(packed))
			}
			if off+n > len(dst) {
				return fmt.Errorf("%w: planar write of %d bytes at %d overruns %d-byte buffer",
					ErrGeometry, n, off, len(dst))
			}
			copy(dst[off:off+n], packed[pos:pos+n])
			pos += n
		}
	}
	return nil
}

// fromPlanar is the exact inverse of toPlanar: it walks lines and channels
// in the same order and copies each run from its planar position back to
// the sequential packed cursor.
func fromPlanar(dst, planar []byte, channels []Channel, lay Layout, cum []int) error {
	pos := 0
	for line := 0; line < len(cum)-1; line++ {
		lineSamples := cum[line+1] - cum[line]
		for i, ch := range channels {
			size := ch.Type.Size()
			n := lineSamples * size
			if n == 0 {
				continue
			}
			off := lay.Offset(i) + cum[line]*size
			if off+n > len(planar) {
				return fmt.Errorf("%w: planar read of %d bytes at %d overruns %d-byte buffer",
					ErrGeometry, n, off, len(planar))
			}
			if pos+n > len(dst) {
				return fmt.Errorf("%w: packed write of %d bytes at %d overruns %d-byte buffer",
					ErrGeometry, n, pos, len(dst))
			}
			copy(dst[pos:pos+n], planar[off:off+n])
			pos += n
		}
	}
	return nil
}

// ToPlanar reorganizes a packed chunk buffer into its planar form: one
// contiguous run per channel, half-width channels first. The packed buffer
// must be exactly the size the geometry and channels imply.
func ToPlanar(packed []byte, g Geometry, channels []Channel) ([]byte, error) {
	lay, cum, err := planFor(packed, g, channels)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, lay.Size())
	if err := toPlanar(dst, packed, channels, lay, cum); err != nil {
		return nil, err
	}
	return dst, nil
}

// FromPlanar is the inverse of ToPlanar.
func FromPlanar(planar []byte, g Geometry, channels []Channel) ([]byte, error) {
	lay, cum, err := planFor(planar, g, channels)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, lay.Size())
	if err := fromPlanar(dst, planar, channels, lay, cum); err != nil {
		return nil, err
	}
	return dst, nil
}

// planFor validates geometry, derives the cumulative table and layout, and
// checks the supplied buffer against the layout size.
func planFor(buf []byte, g Geometry, channels []Channel) (Layout, []int, error) {
	if err := g.Validate(); err != nil {
		return Layout{}, nil, err
	}
	cum := g.Cumulative()
	lay, err := PlanLayout(channels, cum[len(cum)-1])
	if err != nil {
		return Layout{}, nil, err
	}
	if lay.Size() != len(buf) {
		return Layout{}, nil, fmt.Errorf("%w: layout wants %d bytes, buffer has %d",
			ErrGeometry, lay.Size(), len(buf))
	}
	return lay, cum, nil
}
