package appenders

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/canopylog/canopy/core"
	"github.com/canopylog/canopy/internal/bufpool"
	"github.com/canopylog/canopy/internal/console"
)

// ConsoleAppender writes events to stdout or stderr. Output is serialized
// with the process-wide console lock shared with the diagnostic channel.
// On Windows the stream is routed through a colorable wrapper when the
// destination is a terminal, so ANSI sequences in layouts survive.
type ConsoleAppender struct {
	base
	toStderr       bool
	immediateFlush bool
	out            io.Writer
}

// NewConsoleAppender creates a console appender. Writes are unbuffered, so
// immediateFlush is satisfied by construction; the flag is retained for
// configuration parity with the file appenders.
func NewConsoleAppender(toStderr, immediateFlush bool) *ConsoleAppender {
	a := &ConsoleAppender{
		base:           newBase(),
		toStderr:       toStderr,
		immediateFlush: immediateFlush,
	}

	f := os.Stdout
	if toStderr {
		f = os.Stderr
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		a.out = colorable.NewColorable(f)
	} else {
		a.out = f
	}

	a.emit = a.appendEvent
	return a
}

func (a *ConsoleAppender) appendEvent(ev *core.LogEvent) {
	buf := a.format(ev)
	defer bufpool.Put(buf)

	console.Lock()
	defer console.Unlock()
	if _, err := a.out.Write(buf.Bytes()); err != nil {
		a.errorHandler.Error("console write failed: " + err.Error())
	}
}
