// Package shuffle implements the typesize byte-regrouping filter applied by
// the block compressor backends before entropy coding.
//
// The input is treated as an array of typesize-byte elements. Shuffling
// gathers all bytes at the same offset within each element into one
// contiguous run, which groups high bytes with high bytes and low bytes with
// low bytes and markedly improves the entropy coder's ratio on pixel data.
//
// With typesize=2 (half-width elements):
//
//	Input:  [a0,a1, b0,b1, c0,c1]
//	Output: [a0,b0,c0, a1,b1,c1]
//
// Bytes past the last whole element are copied through unchanged at the tail.
package shuffle

// Shuffle regroups src by byte offset within typesize-byte elements and
// returns the result. If dst is non-nil it must be the same length as src
// and is used as the output buffer; otherwise a new buffer is allocated.
// A typesize of 1 or less degenerates to a plain copy.
func Shuffle(src []byte, typesize int, dst []byte) []byte {
	if dst == nil {
		dst = make([]byte, len(src))
	}
	if len(src) == 0 || typesize <= 1 {
		copy(dst, src)
		return dst
	}

	elems := len(src) / typesize
	switch typesize {
	case 2:
		for i := 0; i < elems; i++ {
			dst[i] = src[2*i]
			dst[elems+i] = src[2*i+1]
		}
	case 4:
		for i := 0; i < elems; i++ {
			dst[i] = src[4*i]
			dst[elems+i] = src[4*i+1]
			dst[2*elems+i] = src[4*i+2]
			dst[3*elems+i] = src[4*i+3]
		}
	default:
		for off := 0; off < typesize; off++ {
			base := off * elems
			for i := 0; i < elems; i++ {
				dst[base+i] = src[i*typesize+off]
			}
		}
	}

	if tail := elems * typesize; tail < len(src) {
		copy(dst[tail:], src[tail:])
	}
	return dst
}

// Unshuffle reverses Shuffle, restoring the original element byte order.
// The dst handling matches Shuffle.
func Unshuffle(src []byte, typesize int, dst []byte) []byte {
	if dst == nil {
		dst = make([]byte, len(src))
	}
	if len(src) == 0 || typesize <= 1 {
		copy(dst, src)
		return dst
	}

	elems := len(src) / typesize
	switch typesize {
	case 2:
		for i := 0; i < elems; i++ {
			dst[2*i] = src[i]
			dst[2*i+1] = src[elems+i]
		}
	case 4:
		for i := 0; i < elems; i++ {
			dst[4*i] = src[i]
			dst[4*i+1] = src[elems+i]
			dst[4*i+2] = src[2*elems+i]
			dst[4*i+3] = src[3*elems+i]
		}
	default:
		for off := 0; off < typesize; off++ {
			base := off * elems
			for i := 0; i < elems; i++ {
				dst[i*typesize+off] = src[base+i]
			}
		}
	}

	if tail := elems * typesize; tail < len(src) {
		copy(dst[tail:], src[tail:])
	}
	return dst
}
