package parser

import (
	"bufio"
	"io"
	"sync"
)

const (
	// readerBufferSize is large enough to hold most scene files in one fill
	readerBufferSize = 16 * 1024
	// scratchSize covers the longest string literal plus slack for numbers
	scratchSize = 256
	// maxRetainScratch keeps the pool from holding on to oversized buffers
	maxRetainScratch = 4 * 1024
)

// readerPool manages buffered readers so repeated parses (the scene cache,
// golden generation, tests) do not allocate a fresh 16KB buffer each time.
var readerPool = sync.Pool{
	New: func() interface{} {
		return bufio.NewReaderSize(nil, readerBufferSize)
	},
}

// scratchPool manages the byte buffers used to accumulate tokens
var scratchPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 0, scratchSize)
		return &buf
	},
}

// acquireReader gets a buffered reader from the pool and points it at r.
func acquireReader(r io.Reader) *bufio.Reader {
	br, ok := readerPool.Get().(*bufio.Reader)
	if !ok {
		return bufio.NewReaderSize(r, readerBufferSize)
	}
	br.Reset(r)
	return br
}

// releaseReader detaches the reader from its source and returns it to the pool.
func releaseReader(br *bufio.Reader) {
	if br == nil {
		return
	}
	br.Reset(nil)
	readerPool.Put(br)
}

// acquireScratch gets an empty token buffer from the pool
func acquireScratch() []byte {
	bufPtr, ok := scratchPool.Get().(*[]byte)
	if !ok {
		return make([]byte, 0, scratchSize)
	}
	return (*bufPtr)[:0]
}

// releaseScratch returns a token buffer to the pool unless it grew too large
func releaseScratch(buf []byte) {
	if buf == nil || cap(buf) > maxRetainScratch {
		return
	}
	buf = buf[:0]
	scratchPool.Put(&buf)
}
