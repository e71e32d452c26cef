package core

// Appender commits events to an output: a file, the console, or a user
// callback. Implementations are safe for concurrent use; DoAppend applies
// the appender's own threshold and filter chain before the sink write.
type Appender interface {
	// Name returns the appender's configuration name.
	Name() string

	// SetName sets the appender's configuration name.
	SetName(name string)

	// DoAppend runs the event through the appender's threshold check and
	// filter chain and, if it survives, writes it to the sink.
	DoAppend(ev *LogEvent)

	// Close releases the appender's resources. Events appended after Close
	// are reported through the error handler and dropped.
	Close() error

	// IsClosed reports whether Close has run.
	IsClosed() bool

	// Layout returns the appender's layout.
	Layout() Layout

	// SetLayout replaces the appender's layout. The appender takes sole
	// ownership of the layout.
	SetLayout(layout Layout)

	// Threshold returns the appender's minimum level; NotSet passes all.
	Threshold() LogLevel

	// SetThreshold sets the appender's minimum level.
	SetThreshold(threshold LogLevel)

	// AddFilter appends a filter to the appender's filter chain.
	AddFilter(f Filter)

	// ErrorHandler returns the appender's error handler.
	ErrorHandler() ErrorHandler

	// SetErrorHandler replaces the appender's error handler. A nil handler
	// is reported and ignored.
	SetErrorHandler(eh ErrorHandler)
}
