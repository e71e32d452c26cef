// Package core provides the fundamental interfaces and types for canopy.
package core

// LogLevel specifies the severity of a log event. Higher values are more
// severe. A logger whose own level is NotSet inherits its effective level
// from the nearest ancestor with a set level.
type LogLevel int32

const (
	// Off turns logging off when used as a threshold.
	Off LogLevel = 60000

	// Fatal is for errors the application cannot recover from.
	Fatal LogLevel = 50000

	// Error is for errors.
	Error LogLevel = 40000

	// Warn is for warnings.
	Warn LogLevel = 30000

	// Info is for informational messages.
	Info LogLevel = 20000

	// Debug is for debugging information.
	Debug LogLevel = 10000

	// Trace is the most detailed logging level.
	Trace LogLevel = 0

	// NotSet marks an unset level; loggers with NotSet inherit from their
	// parent and appender thresholds of NotSet pass every event.
	NotSet LogLevel = -1

	// DisableOverride pins the hierarchy's disable watermark so that later
	// Disable calls cannot move it.
	DisableOverride LogLevel = NotSet - 1
)

// String returns the canonical name of the level, or "UNKNOWN" for values
// outside the canonical set.
func (l LogLevel) String() string {
	switch l {
	case Off:
		return "OFF"
	case Fatal:
		return "FATAL"
	case Error:
		return "ERROR"
	case Warn:
		return "WARN"
	case Info:
		return "INFO"
	case Debug:
		return "DEBUG"
	case Trace:
		return "TRACE"
	case NotSet:
		return "NOTSET"
	}
	return "UNKNOWN"
}

// LevelFromString maps a canonical level name to its level. Names are
// case-sensitive; "ALL" is an alias for Trace. Unknown names map to NotSet.
func LevelFromString(name string) LogLevel {
	switch name {
	case "OFF":
		return Off
	case "FATAL":
		return Fatal
	case "ERROR":
		return Error
	case "WARN":
		return Warn
	case "INFO":
		return Info
	case "DEBUG":
		return Debug
	case "TRACE", "ALL":
		return Trace
	case "NOTSET":
		return NotSet
	}
	return NotSet
}
