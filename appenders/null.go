package appenders

import "github.com/canopylog/canopy/core"

// NullAppender accepts and discards every event.
type NullAppender struct {
	base
}

// NewNullAppender creates a NullAppender.
func NewNullAppender() *NullAppender {
	a := &NullAppender{base: newBase()}
	a.emit = func(*core.LogEvent) {}
	return a
}
