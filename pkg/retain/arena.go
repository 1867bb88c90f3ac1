// Package retain pins byte buffers for the lifetime of the process.
//
// Buffers handed to an Arena are never released: every Retain permanently grows the
// arena by the size of the buffer. There is no eviction and no deduplication.
package retain

import (
	"sync"
	"sync/atomic"
)

// Default is the process-wide arena.
var Default = &Arena{}

// Arena keeps every buffer it is given reachable until the process exits.
type Arena struct {
	mu     sync.Mutex // protects chunks
	chunks [][]byte

	count atomic.Int64
	size  atomic.Int64
}

// Retain pins buf and returns a view of it whose capacity equals its length, so appends
// by the caller reallocate instead of writing into the retained memory.
func (a *Arena) Retain(buf []byte) []byte {
	view := buf[:len(buf):len(buf)]

	a.mu.Lock()
	a.chunks = append(a.chunks, view)
	a.mu.Unlock()

	a.count.Add(1)
	a.size.Add(int64(len(view)))

	return view
}

// Len returns the number of buffers retained so far.
func (a *Arena) Len() int64 {
	return a.count.Load()
}

// Size returns the total number of bytes retained so far.
func (a *Arena) Size() int64 {
	return a.size.Load()
}
