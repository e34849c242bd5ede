package block

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/mrjoshuak/go-exrzstd/internal/shuffle"
)

// Deflate compresses block streams with zlib deflate. Level follows the
// zlib scale (-2..9, where -2 is Huffman-only and -1 the library default);
// out-of-range levels fall back to the default.
type Deflate struct{}

// NewDeflate returns the deflate backend.
func NewDeflate() *Deflate {
	return &Deflate{}
}

// Pooled writers remember their level. A Get at a different level replaces
// the writer, since a zlib writer cannot change level on Reset.
type deflateWriterItem struct {
	writer *zlib.Writer
	buf    *bytes.Buffer
	level  int
}

var deflateWriterPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		w, _ := zlib.NewWriterLevel(buf, zlib.DefaultCompression)
		return &deflateWriterItem{writer: w, buf: buf, level: zlib.DefaultCompression}
	},
}

type deflateReaderItem struct {
	reader io.ReadCloser
	srcBuf *bytes.Reader
}

var deflateReaderPool = sync.Pool{
	New: func() any {
		return &deflateReaderItem{srcBuf: bytes.NewReader(nil)}
	},
}

func clampDeflateLevel(level int) int {
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		return zlib.DefaultCompression
	}
	return level
}

// Compress implements Compressor.
func (*Deflate) Compress(src []byte, typesize, level int) ([]byte, error) {
	if err := checkTypesize(typesize); err != nil {
		return nil, err
	}

	work := src
	if typesize > 1 {
		work = shuffle.Shuffle(src, typesize, nil)
	}

	level = clampDeflateLevel(level)
	item := deflateWriterPool.Get().(*deflateWriterItem)
	if item.level != level {
		w, err := zlib.NewWriterLevel(item.buf, level)
		if err != nil {
			deflateWriterPool.Put(item)
			return nil, err
		}
		item.writer = w
		item.level = level
	}
	item.buf.Reset()
	item.writer.Reset(item.buf)

	if _, err := item.writer.Write(work); err != nil {
		item.writer.Close()
		deflateWriterPool.Put(item)
		return nil, err
	}
	if err := item.writer.Close(); err != nil {
		deflateWriterPool.Put(item)
		return nil, err
	}

	out := streamHeader(methodDeflate, typesize, item.buf.Len())
	out = append(out, item.buf.Bytes()...)
	deflateWriterPool.Put(item)
	return out, nil
}

// Decompress implements Compressor.
func (*Deflate) Decompress(src []byte) ([]byte, error) {
	typesize, payload, err := parseStream(src, methodDeflate)
	if err != nil {
		return nil, err
	}

	item := deflateReaderPool.Get().(*deflateReaderItem)
	item.srcBuf.Reset(payload)

	if item.reader == nil {
		item.reader, err = zlib.NewReader(item.srcBuf)
	} else if resetter, ok := item.reader.(zlib.Resetter); ok {
		err = resetter.Reset(item.srcBuf, nil)
	} else {
		item.reader.Close()
		item.reader, err = zlib.NewReader(item.srcBuf)
	}
	if err != nil {
		if item.reader != nil {
			item.reader.Close()
			item.reader = nil
		}
		deflateReaderPool.Put(item)
		return nil, ErrCorrupted
	}

	out, err := io.ReadAll(item.reader)
	deflateReaderPool.Put(item)
	if err != nil {
		return nil, ErrCorrupted
	}

	if typesize > 1 {
		out = shuffle.Unshuffle(out, typesize, nil)
	}
	return out, nil
}
