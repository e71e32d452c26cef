// Package timebase records the layout time base: the process start
// timestamp that relative-time renderings are measured from.
package timebase

import (
	"sync/atomic"
	"time"
)

var base atomic.Int64

func init() {
	base.Store(time.Now().UnixNano())
}

// Get returns the layout time base.
func Get() time.Time {
	return time.Unix(0, base.Load())
}

// Set replaces the layout time base. Called when the process context is
// (re)initialized.
func Set(t time.Time) {
	base.Store(t.UnixNano())
}
