// Package block provides the byte-stream compressor backends used by the
// chunk codec.
//
// A backend consumes an arbitrary byte region together with an element
// typesize hint and produces a self-describing stream:
//
//	[0:2]  magic (little-endian)
//	[2]    method (1 = zstd, 2 = deflate)
//	[3]    typesize
//	[4:]   backend payload
//
// Typesizes greater than 1 mean the region was shuffle-filtered before
// entropy coding; Decompress undoes the filter after decoding. A backend
// recognizes only its own streams: anything without its header is reported
// as ErrNotCompressed, which is what lets callers distinguish "stored raw"
// from "stored compressed" without an explicit flag on the wire.
package block

import (
	"errors"

	"github.com/mrjoshuak/go-exrzstd/internal/xdr"
)

// Block stream errors
var (
	ErrNotCompressed = errors.New("block: input is not a block-compressed stream")
	ErrCorrupted     = errors.New("block: corrupted compressed stream")
	ErrTypesize      = errors.New("block: typesize out of range")
)

// Compressor is the capability the chunk codec consumes. Implementations
// must be safe for concurrent use and must perform each call on the calling
// goroutine only.
type Compressor interface {
	// Compress encodes src into a self-describing stream. The typesize hint
	// (1..255) declares the element width of src for the shuffle filter;
	// level selects the effort on the backend's own scale.
	Compress(src []byte, typesize, level int) ([]byte, error)

	// Decompress decodes a stream produced by this backend's Compress.
	// It returns ErrNotCompressed when src does not carry this backend's
	// stream header and ErrCorrupted when the header is present but the
	// payload does not decode.
	Decompress(src []byte) ([]byte, error)
}

const (
	streamMagic = 0x5A43 // "CZ" little-endian
	headerSize  = 4

	methodZstd    = 1
	methodDeflate = 2
)

// streamHeader returns a buffer holding the 4-byte stream header, with
// capacity reserved for a payload of the given estimated size. Backends
// append the encoded payload directly to the returned slice.
func streamHeader(method byte, typesize, payloadEstimate int) []byte {
	w := xdr.NewBufferWriter(headerSize + payloadEstimate)
	w.WriteUint16(streamMagic)
	w.WriteByte(method)
	w.WriteByte(byte(typesize))
	return w.Bytes()
}

// parseStream validates the stream header for the given method and returns
// the typesize and a view of the backend payload.
func parseStream(src []byte, method byte) (typesize int, payload []byte, err error) {
	r := xdr.NewReader(src)
	magic, err := r.ReadUint16()
	if err != nil || magic != streamMagic {
		return 0, nil, ErrNotCompressed
	}
	m, err := r.ReadByte()
	if err != nil || m != method {
		return 0, nil, ErrNotCompressed
	}
	ts, err := r.ReadByte()
	if err != nil {
		return 0, nil, ErrNotCompressed
	}
	if ts == 0 {
		return 0, nil, ErrCorrupted
	}
	payload, err = r.Next(r.Len())
	if err != nil {
		return 0, nil, ErrCorrupted
	}
	return int(ts), payload, nil
}

// checkTypesize validates the typesize hint passed to Compress.
func checkTypesize(typesize int) error {
	if typesize < 1 || typesize > 255 {
		return ErrTypesize
	}
	return nil
}
