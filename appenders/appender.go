// Package appenders provides the built-in sinks: console, null, callback,
// plain file, size-rolling file and schedule-rolling file. Every appender
// shares the same dispatch pipeline: threshold check, filter chain, then
// the sink-specific write, all under the appender's own mutex.
package appenders

import (
	"bytes"
	"sync"

	"github.com/canopylog/canopy/core"
	"github.com/canopylog/canopy/internal/bufpool"
	"github.com/canopylog/canopy/layouts"
	"github.com/canopylog/canopy/selflog"
)

// base carries the state and pipeline shared by every appender. Concrete
// appenders embed it and wire their sink write into emit and their
// resource teardown into closeSink.
type base struct {
	mu           sync.Mutex
	name         string
	layout       core.Layout
	threshold    core.LogLevel
	filters      []core.Filter
	errorHandler core.ErrorHandler
	closed       bool

	// emit writes one event to the sink. Called with mu held, after the
	// event has passed the threshold and filter chain.
	emit func(ev *core.LogEvent)

	// closeSink releases the sink's resources. Called with mu held, at
	// most once over the appender's lifetime.
	closeSink func() error
}

func newBase() base {
	return base{
		layout:       layouts.NewSimpleLayout(),
		threshold:    core.NotSet,
		errorHandler: NewOnlyOnceErrorHandler(),
	}
}

// Name implements core.Appender.
func (b *base) Name() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.name
}

// SetName implements core.Appender.
func (b *base) SetName(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.name = name
}

// Layout implements core.Appender.
func (b *base) Layout() core.Layout {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.layout
}

// SetLayout implements core.Appender.
func (b *base) SetLayout(layout core.Layout) {
	if layout == nil {
		selflog.Warnf("tried to set a nil layout")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.layout = layout
}

// Threshold implements core.Appender.
func (b *base) Threshold() core.LogLevel {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.threshold
}

// SetThreshold implements core.Appender.
func (b *base) SetThreshold(threshold core.LogLevel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.threshold = threshold
}

// AddFilter implements core.Appender.
func (b *base) AddFilter(f core.Filter) {
	if f == nil {
		selflog.Warnf("tried to add a nil filter")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filters = append(b.filters, f)
}

// ErrorHandler implements core.Appender.
func (b *base) ErrorHandler() core.ErrorHandler {
	return b.errorHandler
}

// SetErrorHandler implements core.Appender.
func (b *base) SetErrorHandler(eh core.ErrorHandler) {
	if eh == nil {
		selflog.Warnf("tried to set a nil error handler")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errorHandler = eh
}

// IsClosed implements core.Appender.
func (b *base) IsClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Close implements core.Appender. The sink teardown runs exactly once no
// matter how many times Close is called.
func (b *base) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	if b.closeSink != nil {
		return b.closeSink()
	}
	return nil
}

// DoAppend implements core.Appender.
func (b *base) DoAppend(ev *core.LogEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		b.errorHandler.Error("attempted to append to closed appender named [" + b.name + "]")
		return
	}

	if ev.Level < b.threshold {
		return
	}

	if core.CheckFilters(b.filters, ev) == core.Deny {
		return
	}

	b.emit(ev)
}

// format renders the event through the appender's layout into a pooled
// buffer. The caller returns the buffer with bufpool.Put.
func (b *base) format(ev *core.LogEvent) *bytes.Buffer {
	buf := bufpool.Get()
	b.layout.FormatAndAppend(buf, ev)
	return buf
}
