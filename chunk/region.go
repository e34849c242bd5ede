package chunk

import (
	"errors"
	"fmt"

	"github.com/mrjoshuak/go-exrzstd/block"
)

// compressRegion funnels one planar region through the block compressor,
// storing the region verbatim whenever compression fails or does not
// shrink it. It never fails: the worst case degrades to raw storage. The
// returned payload never aliases region.
func (c *Codec) compressRegion(region []byte, typesize int) (payload []byte, raw bool) {
	if len(region) == 0 {
		return nil, false
	}
	out, err := c.compressor().Compress(region, typesize, c.level())
	if err != nil || len(out) >= len(region) {
		cp := make([]byte, len(region))
		copy(cp, region)
		return cp, true
	}
	return out, false
}

// decompressRegion reverses compressRegion for a payload whose decoded
// size must be want. The wire does not say whether a payload was stored
// raw; the backend's stream recognition decides. A payload the backend
// rejects counts as raw only when its length equals want exactly,
// otherwise the rejection propagates. The returned bytes may alias
// payload when raw is true.
func (c *Codec) decompressRegion(payload []byte, want int) (out []byte, raw bool, err error) {
	out, err = c.compressor().Decompress(payload)
	if err != nil {
		if errors.Is(err, block.ErrNotCompressed) && len(payload) == want {
			return payload, true, nil
		}
		return nil, false, err
	}
	if len(out) != want {
		return nil, false, fmt.Errorf("%w: region decoded to %d bytes, want %d",
			ErrSizeMismatch, len(out), want)
	}
	return out, false, nil
}
