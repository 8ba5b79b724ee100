package ppm

import (
	"bufio"
	"io"
	"sync"
)

const (
	// writerBufferSize is large enough for a few hundred P3 pixels per flush
	writerBufferSize = 32 * 1024
	// maxRetainScratch releases scratch buffers grown by unusually wide rows
	maxRetainScratch = 64 * 1024
)

// writerPool reuses buffered writers across encodes
var writerPool = sync.Pool{
	New: func() interface{} {
		return bufio.NewWriterSize(nil, writerBufferSize)
	},
}

// scratchPool holds byte slices for formatting one row at a time
var scratchPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 0, 1024)
		return &buf
	},
}

func acquireWriter(w io.Writer) *bufio.Writer {
	bw := writerPool.Get().(*bufio.Writer)
	bw.Reset(w)
	return bw
}

// releaseWriter drops the reference to the destination before pooling
func releaseWriter(bw *bufio.Writer) {
	bw.Reset(nil)
	writerPool.Put(bw)
}

func acquireScratch() []byte {
	return (*scratchPool.Get().(*[]byte))[:0]
}

func releaseScratch(buf []byte) {
	if cap(buf) > maxRetainScratch {
		return
	}
	buf = buf[:0]
	scratchPool.Put(&buf)
}

// countingWriter tracks bytes that reach the destination
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
