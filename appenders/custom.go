package appenders

import (
	"sync/atomic"

	"github.com/canopylog/canopy/core"
	"github.com/canopylog/canopy/internal/bufpool"
)

// customFunc is the process-wide callback shared by every CustomAppender.
var customFunc atomic.Pointer[func(string)]

// SetCustomFunc installs the callback CustomAppender instances deliver
// formatted lines to. Passing nil uninstalls it.
func SetCustomFunc(fn func(line string)) {
	if fn == nil {
		customFunc.Store(nil)
		return
	}
	customFunc.Store(&fn)
}

// CustomAppender formats events and hands the rendered line to the
// callback installed with SetCustomFunc. Events are dropped silently while
// no callback is installed.
type CustomAppender struct {
	base
}

// NewCustomAppender creates a CustomAppender.
func NewCustomAppender() *CustomAppender {
	a := &CustomAppender{base: newBase()}
	a.emit = a.appendEvent
	return a
}

func (a *CustomAppender) appendEvent(ev *core.LogEvent) {
	fn := customFunc.Load()
	if fn == nil {
		return
	}

	buf := a.format(ev)
	defer bufpool.Put(buf)
	(*fn)(buf.String())
}
