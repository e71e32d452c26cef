// Package layouts renders log events into text lines.
package layouts

import (
	"bytes"
	"fmt"
	"time"

	"github.com/canopylog/canopy/core"
	"github.com/canopylog/canopy/internal/timebase"
)

// SimpleLayout renders events as
//
//	<milliseconds since process start> - <LEVEL> - <message>
//
// and is the default layout of every appender.
type SimpleLayout struct{}

// NewSimpleLayout creates a SimpleLayout.
func NewSimpleLayout() *SimpleLayout {
	return &SimpleLayout{}
}

// FormatAndAppend implements core.Layout.
func (l *SimpleLayout) FormatAndAppend(buf *bytes.Buffer, ev *core.LogEvent) {
	appendRelativeTimestamp(buf, ev.Timestamp)
	buf.WriteString(" - ")
	buf.WriteString(ev.Level.String())
	buf.WriteString(" - ")
	buf.WriteString(ev.Message)
	buf.WriteByte('\n')
}

// appendRelativeTimestamp writes the time elapsed since the layout time
// base: bare milliseconds under one second, otherwise whole seconds
// followed by a zero-padded millisecond remainder.
func appendRelativeTimestamp(buf *bytes.Buffer, t time.Time) {
	rel := t.Sub(timebase.Get())
	if rel < 0 {
		rel = 0
	}
	sec := int64(rel / time.Second)
	msec := int64(rel%time.Second) / int64(time.Millisecond)
	if sec != 0 {
		fmt.Fprintf(buf, "%d%03d", sec, msec)
	} else {
		fmt.Fprintf(buf, "%d", msec)
	}
}
