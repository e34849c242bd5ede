package block

import (
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/mrjoshuak/go-exrzstd/internal/shuffle"
)

// Zstd compresses block streams with zstandard. Level follows the zstd
// scale (1..22); out-of-range levels are clamped by the level mapping.
// Encoding and decoding run single-threaded per call.
type Zstd struct{}

// NewZstd returns the zstd backend.
func NewZstd() *Zstd {
	return &Zstd{}
}

// Encoder pools, one per mapped speed class. Encoders are configured once
// and reused; their options never change after creation.
var (
	zstdFastestEnc = newZstdEncPool(zstd.SpeedFastest)
	zstdDefaultEnc = newZstdEncPool(zstd.SpeedDefault)
	zstdBetterEnc  = newZstdEncPool(zstd.SpeedBetterCompression)
	zstdBestEnc    = newZstdEncPool(zstd.SpeedBestCompression)

	zstdDecPool = sync.Pool{
		New: func() any {
			dec, _ := zstd.NewReader(nil,
				zstd.WithDecoderConcurrency(1),
				zstd.WithDecoderLowmem(true))
			return dec
		},
	}
)

func newZstdEncPool(level zstd.EncoderLevel) *sync.Pool {
	return &sync.Pool{
		New: func() any {
			enc, _ := zstd.NewWriter(nil,
				zstd.WithEncoderConcurrency(1),
				zstd.WithEncoderLevel(level),
				zstd.WithLowerEncoderMem(true))
			return enc
		},
	}
}

func zstdEncPool(level int) *sync.Pool {
	switch zstd.EncoderLevelFromZstd(level) {
	case zstd.SpeedFastest:
		return zstdFastestEnc
	case zstd.SpeedBetterCompression:
		return zstdBetterEnc
	case zstd.SpeedBestCompression:
		return zstdBestEnc
	default:
		return zstdDefaultEnc
	}
}

// Compress implements Compressor.
func (*Zstd) Compress(src []byte, typesize, level int) ([]byte, error) {
	if err := checkTypesize(typesize); err != nil {
		return nil, err
	}

	work := src
	if typesize > 1 {
		work = shuffle.Shuffle(src, typesize, nil)
	}

	pool := zstdEncPool(level)
	enc := pool.Get().(*zstd.Encoder)
	out := enc.EncodeAll(work, streamHeader(methodZstd, typesize, len(work)/2+64))
	pool.Put(enc)
	return out, nil
}

// Decompress implements Compressor.
func (*Zstd) Decompress(src []byte) ([]byte, error) {
	typesize, payload, err := parseStream(src, methodZstd)
	if err != nil {
		return nil, err
	}

	dec := zstdDecPool.Get().(*zstd.Decoder)
	out, err := dec.DecodeAll(payload, nil)
	zstdDecPool.Put(dec)
	if err != nil {
		return nil, ErrCorrupted
	}

	if typesize > 1 {
		out = shuffle.Unshuffle(out, typesize, nil)
	}
	return out, nil
}
