package chunk

import "fmt"

// PixelType identifies the element type of a channel's samples.
type PixelType uint32

// Channel pixel types.
const (
	PixelTypeUint  PixelType = 0 // 32-bit unsigned integer
	PixelTypeHalf  PixelType = 1 // 16-bit half-precision float
	PixelTypeFloat PixelType = 2 // 32-bit IEEE 754 float
)

// Size returns the size of one sample in bytes, or 0 for unknown types.
func (t PixelType) Size() int {
	switch t {
	case PixelTypeHalf:
		return 2
	case PixelTypeUint, PixelTypeFloat:
		return 4
	}
	return 0
}

// String returns a human-readable name for the pixel type.
func (t PixelType) String() string {
	switch t {
	case PixelTypeUint:
		return "uint"
	case PixelTypeHalf:
		return "half"
	case PixelTypeFloat:
		return "float"
	}
	return fmt.Sprintf("PixelType(%d)", uint32(t))
}

// Channel describes one pixel channel of a chunk. A channel's identity is
// its position in the slice handed to the codec; that order defines the
// packed interleave order within each line. The codec only cares about the
// element width the type implies, never the sample values.
type Channel struct {
	Type PixelType
}
