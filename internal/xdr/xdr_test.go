package xdr

import (
	"bytes"
	"testing"
)

func TestReaderIntegers(t *testing.T) {
	// Little-endian test data
	data := []byte{
		0x34, 0x12, // uint16: 0x1234
		0x78, 0x56, 0x34, 0x12, // uint32: 0x12345678
		0xEF, 0xCD, 0xAB, 0x89, 0x67, 0x45, 0x23, 0x01, // uint64: 0x0123456789ABCDEF
	}
	r := NewReader(data)

	if r.Len() != 14 {
		t.Errorf("Len() = %d, want 14", r.Len())
	}

	u16, err := r.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16() error = %v", err)
	}
	if u16 != 0x1234 {
		t.Errorf("ReadUint16() = 0x%04X, want 0x1234", u16)
	}

	u32, err := r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32() error = %v", err)
	}
	if u32 != 0x12345678 {
		t.Errorf("ReadUint32() = 0x%08X, want 0x12345678", u32)
	}

	u64, err := r.ReadUint64()
	if err != nil {
		t.Fatalf("ReadUint64() error = %v", err)
	}
	if u64 != 0x0123456789ABCDEF {
		t.Errorf("ReadUint64() = 0x%016X, want 0x0123456789ABCDEF", u64)
	}

	if r.Len() != 0 {
		t.Errorf("Len() after reads = %d, want 0", r.Len())
	}
}

func TestReaderBounds(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03})

	if _, err := r.ReadUint32(); err != ErrShortBuffer {
		t.Errorf("ReadUint32() on 3 bytes: error = %v, want ErrShortBuffer", err)
	}
	if _, err := r.ReadUint64(); err != ErrShortBuffer {
		t.Errorf("ReadUint64() on 3 bytes: error = %v, want ErrShortBuffer", err)
	}

	// Failed reads must not advance the position.
	b, err := r.ReadByte()
	if err != nil {
		t.Fatalf("ReadByte() error = %v", err)
	}
	if b != 0x01 {
		t.Errorf("ReadByte() = %d, want 1", b)
	}
}

func TestReaderNext(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	r := NewReader(data)

	view, err := r.Next(3)
	if err != nil {
		t.Fatalf("Next(3) error = %v", err)
	}
	if !bytes.Equal(view, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("Next(3) = %v, want [1 2 3]", view)
	}
	if r.Len() != 2 {
		t.Errorf("Len() after Next(3) = %d, want 2", r.Len())
	}

	if _, err := r.Next(3); err != ErrShortBuffer {
		t.Errorf("Next(3) past end: error = %v, want ErrShortBuffer", err)
	}
	if _, err := r.Next(-1); err != ErrNegativeSize {
		t.Errorf("Next(-1): error = %v, want ErrNegativeSize", err)
	}

	// A zero-length view at the end of the buffer is valid.
	if _, err := r.Next(2); err != nil {
		t.Fatalf("Next(2) error = %v", err)
	}
	empty, err := r.Next(0)
	if err != nil {
		t.Errorf("Next(0) at end: error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Next(0) = %d bytes, want 0", len(empty))
	}
}

func TestBufferWriter(t *testing.T) {
	w := NewBufferWriter(16)

	w.WriteByte(0xAB)
	w.WriteUint16(0x1234)
	w.WriteUint32(0x12345678)
	w.WriteUint64(0x0123456789ABCDEF)
	w.WriteBytes([]byte{0xDE, 0xAD})

	want := []byte{
		0xAB,
		0x34, 0x12,
		0x78, 0x56, 0x34, 0x12,
		0xEF, 0xCD, 0xAB, 0x89, 0x67, 0x45, 0x23, 0x01,
		0xDE, 0xAD,
	}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Bytes() = %v, want %v", w.Bytes(), want)
	}
	if w.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", w.Len(), len(want))
	}

	w.Reset()
	if w.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", w.Len())
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	// Length-prefixed section shape used by the chunk frame.
	w := NewBufferWriter(0)
	w.WriteUint64(3)
	w.WriteBytes([]byte{1, 2, 3})
	w.WriteUint64(0)

	r := NewReader(w.Bytes())
	n, err := r.ReadUint64()
	if err != nil || n != 3 {
		t.Fatalf("ReadUint64() = %d, %v, want 3, nil", n, err)
	}
	payload, err := r.Next(int(n))
	if err != nil || !bytes.Equal(payload, []byte{1, 2, 3}) {
		t.Fatalf("Next() = %v, %v, want [1 2 3], nil", payload, err)
	}
	z, err := r.ReadUint64()
	if err != nil || z != 0 {
		t.Fatalf("ReadUint64() = %d, %v, want 0, nil", z, err)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}
