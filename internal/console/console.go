// Package console holds the process-wide console serialization lock shared
// by the console appender and the diagnostic channel, so their lines never
// interleave mid-write.
package console

import "sync"

var mu sync.Mutex

// Lock acquires the console lock.
func Lock() { mu.Lock() }

// Unlock releases the console lock.
func Unlock() { mu.Unlock() }
