// Package bufpool pools the scratch buffers events are formatted into, so
// the append path does not allocate per call.
package bufpool

import (
	"bytes"
	"sync"
)

// Buffers larger than this are not returned to the pool; one oversized
// message must not pin its buffer for the process lifetime.
const maxPooled = 64 * 1024

var pool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// Get returns an empty buffer from the pool.
func Get() *bytes.Buffer {
	buf := pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Put returns a buffer to the pool.
func Put(buf *bytes.Buffer) {
	if buf.Cap() > maxPooled {
		return
	}
	pool.Put(buf)
}
