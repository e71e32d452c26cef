package core

import "bytes"

// Layout renders an event into a text line.
type Layout interface {
	// FormatAndAppend appends one rendered line for the event to buf.
	FormatAndAppend(buf *bytes.Buffer, ev *LogEvent)
}
