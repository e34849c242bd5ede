package block

import (
	"bytes"
	"errors"
	"testing"

	"github.com/klauspost/compress/zlib"
)

func TestDeflateRoundTrip(t *testing.T) {
	d := NewDeflate()

	tests := []struct {
		name     string
		data     []byte
		typesize int
		level    int
	}{
		{"empty", nil, 4, zlib.DefaultCompression},
		{"half gradient", gradientData(4096, 2), 2, 5},
		{"full gradient", gradientData(4096, 4), 4, 5},
		{"huffman only", gradientData(2048, 2), 2, zlib.HuffmanOnly},
		{"best compression", gradientData(2048, 2), 2, zlib.BestCompression},
		{"clamped level", gradientData(2048, 2), 2, 42},
		{"store level", gradientData(512, 2), 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream, err := d.Compress(tt.data, tt.typesize, tt.level)
			if err != nil {
				t.Fatalf("Compress error = %v", err)
			}
			got, err := d.Decompress(stream)
			if err != nil {
				t.Fatalf("Decompress error = %v", err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(tt.data))
			}
		})
	}
}

func TestDeflateLevelSwitchReusesPool(t *testing.T) {
	// Alternate levels so pooled writers must be rebuilt; every stream must
	// still round-trip.
	d := NewDeflate()
	data := gradientData(1024, 2)

	for i := 0; i < 6; i++ {
		level := 1 + (i%2)*8 // 1, 9, 1, 9, ...
		stream, err := d.Compress(data, 2, level)
		if err != nil {
			t.Fatalf("Compress(level=%d) error = %v", level, err)
		}
		got, err := d.Decompress(stream)
		if err != nil {
			t.Fatalf("Decompress(level=%d) error = %v", level, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("round trip mismatch at level %d", level)
		}
	}
}

func TestDeflateCorruptedPayload(t *testing.T) {
	d := NewDeflate()
	stream, err := d.Compress(gradientData(1024, 2), 2, 5)
	if err != nil {
		t.Fatalf("Compress error = %v", err)
	}

	// Break the zlib header checksum right after the block header.
	corrupt := make([]byte, len(stream))
	copy(corrupt, stream)
	corrupt[headerSize] ^= 0xFF
	corrupt[headerSize+1] ^= 0xFF
	if _, err := d.Decompress(corrupt); !errors.Is(err, ErrCorrupted) {
		t.Errorf("Decompress(corrupt zlib header) error = %v, want ErrCorrupted", err)
	}

	// Flip a byte inside the deflate body so the checksum fails.
	copy(corrupt, stream)
	corrupt[len(corrupt)-3] ^= 0x55
	if _, err := d.Decompress(corrupt); !errors.Is(err, ErrCorrupted) {
		t.Errorf("Decompress(corrupt body) error = %v, want ErrCorrupted", err)
	}
}

func BenchmarkDeflateCompress(b *testing.B) {
	data := gradientData(256<<10, 2)
	d := NewDeflate()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.Compress(data, 2, 5); err != nil {
			b.Fatal(err)
		}
	}
}
