package shuffle

import (
	"bytes"
	"testing"
)

func TestShuffleEmpty(t *testing.T) {
	out := Shuffle(nil, 2, nil)
	if len(out) != 0 {
		t.Error("empty input should produce empty output")
	}
}

func TestShuffleTypesize1(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	out := Shuffle(data, 1, nil)
	if !bytes.Equal(out, data) {
		t.Errorf("typesize 1 should copy: got %v, want %v", out, data)
	}
}

func TestShuffleTypesize2(t *testing.T) {
	// 4 half-width elements: [a0,a1, b0,b1, c0,c1, d0,d1]
	data := []byte{0x10, 0x11, 0x20, 0x21, 0x30, 0x31, 0x40, 0x41}
	expected := []byte{0x10, 0x20, 0x30, 0x40, 0x11, 0x21, 0x31, 0x41}
	out := Shuffle(data, 2, nil)
	if !bytes.Equal(out, expected) {
		t.Errorf("Shuffle typesize 2:\ngot  %v\nwant %v", out, expected)
	}
}

func TestUnshuffleTypesize2(t *testing.T) {
	data := []byte{0x10, 0x20, 0x30, 0x40, 0x11, 0x21, 0x31, 0x41}
	expected := []byte{0x10, 0x11, 0x20, 0x21, 0x30, 0x31, 0x40, 0x41}
	out := Unshuffle(data, 2, nil)
	if !bytes.Equal(out, expected) {
		t.Errorf("Unshuffle typesize 2:\ngot  %v\nwant %v", out, expected)
	}
}

func TestShuffleTypesize4(t *testing.T) {
	// 2 full-width elements: [a0,a1,a2,a3, b0,b1,b2,b3]
	data := []byte{0x10, 0x11, 0x12, 0x13, 0x20, 0x21, 0x22, 0x23}
	expected := []byte{0x10, 0x20, 0x11, 0x21, 0x12, 0x22, 0x13, 0x23}
	out := Shuffle(data, 4, nil)
	if !bytes.Equal(out, expected) {
		t.Errorf("Shuffle typesize 4:\ngot  %v\nwant %v", out, expected)
	}
}

func TestShuffleWithRemainder(t *testing.T) {
	// 5 bytes with typesize 2: 2 whole elements + 1 tail byte
	data := []byte{1, 2, 3, 4, 5}
	expected := []byte{1, 3, 2, 4, 5}
	out := Shuffle(data, 2, nil)
	if !bytes.Equal(out, expected) {
		t.Errorf("Shuffle with remainder:\ngot  %v\nwant %v", out, expected)
	}

	back := Unshuffle(out, 2, nil)
	if !bytes.Equal(back, data) {
		t.Errorf("Unshuffle with remainder:\ngot  %v\nwant %v", back, data)
	}
}

func TestRoundTrip(t *testing.T) {
	original := make([]byte, 257)
	for i := range original {
		original[i] = byte(i * 31)
	}

	for _, typesize := range []int{1, 2, 3, 4, 8} {
		shuffled := Shuffle(original, typesize, nil)
		restored := Unshuffle(shuffled, typesize, nil)
		if !bytes.Equal(restored, original) {
			t.Errorf("round trip failed for typesize %d", typesize)
		}
	}
}

func TestShuffleProvidedDst(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	dst := make([]byte, len(data))
	out := Shuffle(data, 4, dst)
	if &out[0] != &dst[0] {
		t.Error("Shuffle did not use the provided destination buffer")
	}
}

func BenchmarkShuffleTypesize2(b *testing.B) {
	data := make([]byte, 64<<10)
	for i := range data {
		data[i] = byte(i)
	}
	dst := make([]byte, len(data))
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Shuffle(data, 2, dst)
	}
}

func BenchmarkShuffleTypesize4(b *testing.B) {
	data := make([]byte, 64<<10)
	for i := range data {
		data[i] = byte(i)
	}
	dst := make([]byte, len(data))
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Shuffle(data, 4, dst)
	}
}
