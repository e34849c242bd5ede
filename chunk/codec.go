// Package chunk implements a channel-aware split compressor for HDR image
// chunk data.
//
// A chunk (one scanline block or tile) carries interleaved per-channel
// pixel samples of two element widths: 2-byte half floats and 4-byte
// integer or float values. Encoding reorganizes the packed buffer into a
// planar layout grouped by element width, compresses the two width-class
// regions independently through a block compressor backend, and frames the
// results:
//
//	[0:8]    half-region payload length n (little-endian)
//	[8:8+n]  half-region payload
//	[...:+8] full-region payload length m (little-endian)
//	[...:+m] full-region payload
//
// A payload is either a backend stream or, when compression would not
// shrink the region, the raw region bytes; a zero length marks an empty
// region. Decoding reverses every step losslessly.
//
// Deep-image sample-count tables are handled as a degenerate case: the
// table bypasses the planar transform and is compressed as one unframed
// full-width region (see EncodeSampleTable).
package chunk

import (
	"errors"
	"fmt"

	"github.com/mrjoshuak/go-exrzstd/block"
	"github.com/mrjoshuak/go-exrzstd/internal/xdr"
)

// Codec errors
var (
	ErrSizeMismatch = errors.New("chunk: decoded size does not match expected size")
	ErrGeometry     = errors.New("chunk: geometry inconsistent with channels or buffer")
	ErrTruncated    = errors.New("chunk: truncated frame")
	ErrCorruptFrame = errors.New("chunk: malformed frame")
)

const (
	// DefaultLevel is the compression level used when a Codec does not set
	// one. It follows the primary backend's (zstd) scale.
	DefaultLevel = 5

	// DefaultLinesPerChunk is the recommended number of scanlines the
	// surrounding layer should batch into one chunk.
	DefaultLinesPerChunk = 1

	// frameOverhead is the fixed framing cost: two 8-byte section lengths.
	frameOverhead = 16
)

// defaultCompressor backs codecs that do not inject their own.
var defaultCompressor block.Compressor = block.NewZstd()

// Codec encodes and decodes chunks. The zero value is ready to use with
// the shared zstd backend, DefaultLevel and the shared scratch pool; any
// field may be overridden before first use. A Codec is safe for concurrent
// use, one call per chunk.
type Codec struct {
	// Compressor is the injected block backend; nil selects the shared
	// zstd backend.
	Compressor block.Compressor

	// Level is the compression level passed to the backend, on the
	// backend's own scale; 0 selects DefaultLevel.
	Level int

	// Lines overrides the recommended lines-per-chunk batching; 0 selects
	// DefaultLinesPerChunk.
	Lines int

	// Pool supplies planar scratch buffers; nil selects the shared pool.
	Pool *BufferPool
}

// New returns a Codec with all defaults.
func New() *Codec {
	return &Codec{}
}

func (c *Codec) compressor() block.Compressor {
	if c.Compressor != nil {
		return c.Compressor
	}
	return defaultCompressor
}

func (c *Codec) level() int {
	if c.Level != 0 {
		return c.Level
	}
	return DefaultLevel
}

func (c *Codec) scratch() *BufferPool {
	if c.Pool != nil {
		return c.Pool
	}
	return defaultPool
}

// LinesPerChunk returns the recommended maximum number of scanlines to
// batch into one chunk. The surrounding layer reads this when sizing
// scanline blocks.
func (c *Codec) LinesPerChunk() int {
	if c.Lines > 0 {
		return c.Lines
	}
	return DefaultLinesPerChunk
}

// MaxFrameSize returns an upper bound on the encoded frame size for a
// chunk of the given shape. The bound holds for every input because a
// section's payload never exceeds its region (raw fallback).
func MaxFrameSize(g Geometry, channels []Channel) (int, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}
	lay, err := PlanLayout(channels, g.TotalSamples())
	if err != nil {
		return 0, err
	}
	return frameOverhead + lay.Size(), nil
}

// Encode compresses one packed pixel chunk into a wire frame. The packed
// buffer must be exactly the size the geometry and channels imply, for
// deep chunks included.
func (c *Codec) Encode(packed []byte, g Geometry, channels []Channel) ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	cum := g.Cumulative()
	lay, err := PlanLayout(channels, cum[len(cum)-1])
	if err != nil {
		return nil, err
	}
	if lay.Size() != len(packed) {
		return nil, fmt.Errorf("%w: planar layout wants %d bytes, packed buffer has %d",
			ErrGeometry, lay.Size(), len(packed))
	}

	planar, err := c.scratch().Get(lay.Size())
	if err != nil {
		return nil, err
	}
	defer c.scratch().Put(planar)

	if err := toPlanar(planar, packed, channels, lay, cum); err != nil {
		return nil, err
	}

	halfPayload, _ := c.compressRegion(planar[:lay.Split()], halfSize)
	fullPayload, _ := c.compressRegion(planar[lay.Split():], fullSize)

	w := xdr.NewBufferWriter(frameOverhead + len(halfPayload) + len(fullPayload))
	w.WriteUint64(uint64(len(halfPayload)))
	w.WriteBytes(halfPayload)
	w.WriteUint64(uint64(len(fullPayload)))
	w.WriteBytes(fullPayload)
	return w.Bytes(), nil
}

// Decode expands a wire frame back into a packed pixel buffer. The
// geometry and channels must match the encode side exactly; the codec can
// detect most but not all disagreements, and a frame decoded under a
// different geometry that happens to fit is garbage the caller owns.
func (c *Codec) Decode(frame []byte, g Geometry, channels []Channel) ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	cum := g.Cumulative()
	lay, err := PlanLayout(channels, cum[len(cum)-1])
	if err != nil {
		return nil, err
	}

	planar, err := c.scratch().Get(lay.Size())
	if err != nil {
		return nil, err
	}
	defer c.scratch().Put(planar)

	regions := [2]struct{ off, size int }{
		{0, lay.Split()},
		{lay.Split(), lay.Size() - lay.Split()},
	}

	r := xdr.NewReader(frame)
	for _, reg := range regions {
		n, err := r.ReadUint64()
		if err != nil {
			return nil, ErrTruncated
		}
		if n > uint64(r.Len()) {
			return nil, ErrTruncated
		}
		if n == 0 {
			if reg.size != 0 {
				return nil, fmt.Errorf("%w: empty section for %d-byte region",
					ErrSizeMismatch, reg.size)
			}
			continue
		}
		if reg.size == 0 {
			return nil, fmt.Errorf("%w: %d-byte section for empty region", ErrCorruptFrame, n)
		}
		payload, err := r.Next(int(n))
		if err != nil {
			return nil, ErrTruncated
		}
		out, _, err := c.decompressRegion(payload, reg.size)
		if err != nil {
			return nil, err
		}
		copy(planar[reg.off:reg.off+reg.size], out)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after second section", ErrCorruptFrame, r.Len())
	}

	packed := make([]byte, lay.Size())
	if err := fromPlanar(packed, planar, channels, lay, cum); err != nil {
		return nil, err
	}
	return packed, nil
}

// EncodeSampleTable compresses a deep-image sample-count table. The table
// bypasses planar reorganization and two-section framing: the result is a
// single payload whose length the caller tracks, stored raw when
// compression does not shrink it.
func (c *Codec) EncodeSampleTable(table []byte) ([]byte, error) {
	payload, _ := c.compressRegion(table, fullSize)
	return payload, nil
}

// DecodeSampleTable reverses EncodeSampleTable. expectedSize is the
// decoded table size the caller recorded when encoding.
func (c *Codec) DecodeSampleTable(frame []byte, expectedSize int) ([]byte, error) {
	if expectedSize < 0 {
		return nil, fmt.Errorf("%w: negative expected size %d", ErrSizeMismatch, expectedSize)
	}
	if len(frame) == 0 {
		if expectedSize != 0 {
			return nil, fmt.Errorf("%w: empty frame for %d-byte table", ErrSizeMismatch, expectedSize)
		}
		return nil, nil
	}
	out, raw, err := c.decompressRegion(frame, expectedSize)
	if err != nil {
		return nil, err
	}
	if raw {
		cp := make([]byte, len(out))
		copy(cp, out)
		return cp, nil
	}
	return out, nil
}

// defaultCodec backs the package-level convenience functions.
var defaultCodec = New()

// Encode compresses packed with the default codec.
func Encode(packed []byte, g Geometry, channels []Channel) ([]byte, error) {
	return defaultCodec.Encode(packed, g, channels)
}

// Decode expands frame with the default codec.
func Decode(frame []byte, g Geometry, channels []Channel) ([]byte, error) {
	return defaultCodec.Decode(frame, g, channels)
}

// EncodeSampleTable compresses a sample-count table with the default codec.
func EncodeSampleTable(table []byte) ([]byte, error) {
	return defaultCodec.EncodeSampleTable(table)
}

// DecodeSampleTable expands a sample-count table with the default codec.
func DecodeSampleTable(frame []byte, expectedSize int) ([]byte, error) {
	return defaultCodec.DecodeSampleTable(frame, expectedSize)
}
