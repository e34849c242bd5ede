package chunk

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// AllocationError is returned when a scratch buffer cannot be obtained
// because the pool's memory limit would be exceeded.
type AllocationError struct {
	Requested int64
	Current   int64
	Limit     int64
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("chunk: scratch allocation of %d bytes exceeds memory limit %d (%d in use)",
		e.Requested, e.Limit, e.Current)
}

// scratchSizes are the discrete capacities of pooled scratch buffers,
// covering one-line scanline chunks up through large deep tiles.
var scratchSizes = []int{
	1 << 10,   // 1 KB
	4 << 10,   // 4 KB
	16 << 10,  // 16 KB
	64 << 10,  // 64 KB
	256 << 10, // 256 KB
	1 << 20,   // 1 MB
	4 << 20,   // 4 MB
}

// BufferPool hands out reusable scratch buffers for planar staging. Every
// buffer obtained from Get is owned by exactly one encode or decode call
// and must go back via Put on every exit path. An optional memory limit
// bounds the bytes simultaneously checked out.
type BufferPool struct {
	pools       []*sync.Pool
	memoryUsed  int64 // atomic: bytes currently checked out
	memoryLimit int64 // atomic: 0 = unlimited
}

// defaultPool backs codecs that do not supply their own pool.
var defaultPool = NewBufferPool(0)

// NewBufferPool creates a pool. A limit of 0 means unlimited.
func NewBufferPool(limit int64) *BufferPool {
	p := &BufferPool{
		pools:       make([]*sync.Pool, len(scratchSizes)),
		memoryLimit: limit,
	}
	for i, size := range scratchSizes {
		size := size
		p.pools[i] = &sync.Pool{
			New: func() any {
				return make([]byte, size)
			},
		}
	}
	return p
}

// SetMemoryLimit sets the maximum bytes that may be checked out at once.
// A limit of 0 removes the bound. Returns the previous limit.
func (p *BufferPool) SetMemoryLimit(limit int64) int64 {
	return atomic.SwapInt64(&p.memoryLimit, limit)
}

// MemoryLimit returns the current limit (0 = unlimited).
func (p *BufferPool) MemoryLimit() int64 {
	return atomic.LoadInt64(&p.memoryLimit)
}

// MemoryUsed returns the bytes currently checked out of the pool.
func (p *BufferPool) MemoryUsed() int64 {
	return atomic.LoadInt64(&p.memoryUsed)
}

// poolIndex returns the smallest size class holding size, or -1 when the
// request is larger than any class.
func poolIndex(size int) int {
	for i, s := range scratchSizes {
		if size <= s {
			return i
		}
	}
	return -1
}

// Get returns a buffer of exactly the requested length whose contents are
// unspecified. It fails with *AllocationError when the checkout would
// exceed the memory limit.
func (p *BufferPool) Get(size int) ([]byte, error) {
	idx := poolIndex(size)
	charge := int64(size)
	if idx >= 0 {
		charge = int64(scratchSizes[idx])
	}

	if limit := atomic.LoadInt64(&p.memoryLimit); limit > 0 {
		used := atomic.AddInt64(&p.memoryUsed, charge)
		if used > limit {
			atomic.AddInt64(&p.memoryUsed, -charge)
			return nil, &AllocationError{Requested: charge, Current: used - charge, Limit: limit}
		}
	} else {
		atomic.AddInt64(&p.memoryUsed, charge)
	}

	if idx < 0 {
		return make([]byte, size), nil
	}
	buf := p.pools[idx].Get().([]byte)
	return buf[:size], nil
}

// Put returns a buffer obtained from Get. Buffers larger than the biggest
// size class are released to the garbage collector.
func (p *BufferPool) Put(buf []byte) {
	if buf == nil {
		return
	}
	c := cap(buf)
	atomic.AddInt64(&p.memoryUsed, -int64(c))

	idx := poolIndex(c)
	if idx >= 0 && c == scratchSizes[idx] {
		p.pools[idx].Put(buf[:c])
	}
}
