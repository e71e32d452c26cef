package canopy

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/canopylog/canopy/core"
	"github.com/canopylog/canopy/selflog"
)

// Logger is a named dispatch point in a hierarchy. Its effective level is
// its own level or, when that is NotSet, the nearest ancestor's; events
// that pass the level gate are delivered to the appenders attached to the
// logger and to every ancestor up to the root.
type Logger struct {
	name   string
	h      *Hierarchy
	isRoot bool

	// level holds the logger's own level, NotSet when inherited. parent is
	// atomic because provision-node materialization rewires it while other
	// goroutines dispatch.
	level  atomic.Int32
	parent atomic.Pointer[Logger]

	amu       sync.Mutex
	appenders []core.Appender
}

func newLogger(name string, h *Hierarchy, isRoot bool, level core.LogLevel) *Logger {
	l := &Logger{name: name, h: h, isRoot: isRoot}
	l.level.Store(int32(level))
	return l
}

// Name returns the logger's fully-qualified dotted name; the root logger's
// name is empty.
func (l *Logger) Name() string {
	return l.name
}

// Parent returns the logger's parent, or nil for the root.
func (l *Logger) Parent() *Logger {
	return l.parent.Load()
}

// Hierarchy returns the hierarchy the logger belongs to.
func (l *Logger) Hierarchy() *Hierarchy {
	return l.h
}

// Level returns the logger's own level; NotSet means the level is
// inherited.
func (l *Logger) Level() core.LogLevel {
	return core.LogLevel(l.level.Load())
}

// SetLevel sets the logger's own level. The root logger rejects NotSet:
// it is the end of every inheritance walk and must always hold a level.
func (l *Logger) SetLevel(level core.LogLevel) {
	if l.isRoot && level == core.NotSet {
		selflog.Errorf("tried to set NOTSET on the root logger")
		return
	}
	l.level.Store(int32(level))
}

// EffectiveLevel walks from the logger toward the root and returns the
// first level that is not NotSet.
func (l *Logger) EffectiveLevel() core.LogLevel {
	for c := l; c != nil; c = c.parent.Load() {
		if level := c.Level(); level != core.NotSet {
			return level
		}
	}
	selflog.Errorf("no valid level found for logger (%s)", l.name)
	return core.NotSet
}

// IsEnabledFor reports whether an event at the given level would be
// dispatched from this logger.
func (l *Logger) IsEnabledFor(level core.LogLevel) bool {
	if l.h.isDisabled(level) {
		return false
	}
	return level >= l.EffectiveLevel()
}

// Log emits msg at the given level.
func (l *Logger) Log(level core.LogLevel, msg string) {
	if !l.IsEnabledFor(level) {
		return
	}
	l.write(level, msg)
}

// Logf emits a formatted message at the given level. The arguments are
// formatted only when the level is enabled.
func (l *Logger) Logf(level core.LogLevel, format string, args ...any) {
	if !l.IsEnabledFor(level) {
		return
	}
	l.write(level, fmt.Sprintf(format, args...))
}

// LogIf emits the message produced by fn at the given level; fn runs only
// when the level is enabled.
func (l *Logger) LogIf(level core.LogLevel, fn func() string) {
	if !l.IsEnabledFor(level) {
		return
	}
	l.write(level, fn())
}

// Trace emits msg at Trace level.
func (l *Logger) Trace(msg string) {
	if !l.IsEnabledFor(core.Trace) {
		return
	}
	l.write(core.Trace, msg)
}

// Tracef emits a formatted message at Trace level.
func (l *Logger) Tracef(format string, args ...any) {
	if !l.IsEnabledFor(core.Trace) {
		return
	}
	l.write(core.Trace, fmt.Sprintf(format, args...))
}

// Debug emits msg at Debug level.
func (l *Logger) Debug(msg string) {
	if !l.IsEnabledFor(core.Debug) {
		return
	}
	l.write(core.Debug, msg)
}

// Debugf emits a formatted message at Debug level.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.IsEnabledFor(core.Debug) {
		return
	}
	l.write(core.Debug, fmt.Sprintf(format, args...))
}

// Info emits msg at Info level.
func (l *Logger) Info(msg string) {
	if !l.IsEnabledFor(core.Info) {
		return
	}
	l.write(core.Info, msg)
}

// Infof emits a formatted message at Info level.
func (l *Logger) Infof(format string, args ...any) {
	if !l.IsEnabledFor(core.Info) {
		return
	}
	l.write(core.Info, fmt.Sprintf(format, args...))
}

// Warn emits msg at Warn level.
func (l *Logger) Warn(msg string) {
	if !l.IsEnabledFor(core.Warn) {
		return
	}
	l.write(core.Warn, msg)
}

// Warnf emits a formatted message at Warn level.
func (l *Logger) Warnf(format string, args ...any) {
	if !l.IsEnabledFor(core.Warn) {
		return
	}
	l.write(core.Warn, fmt.Sprintf(format, args...))
}

// Error emits msg at Error level.
func (l *Logger) Error(msg string) {
	if !l.IsEnabledFor(core.Error) {
		return
	}
	l.write(core.Error, msg)
}

// Errorf emits a formatted message at Error level.
func (l *Logger) Errorf(format string, args ...any) {
	if !l.IsEnabledFor(core.Error) {
		return
	}
	l.write(core.Error, fmt.Sprintf(format, args...))
}

// Fatal emits msg at Fatal level.
func (l *Logger) Fatal(msg string) {
	if !l.IsEnabledFor(core.Fatal) {
		return
	}
	l.write(core.Fatal, msg)
}

// Fatalf emits a formatted message at Fatal level.
func (l *Logger) Fatalf(format string, args ...any) {
	if !l.IsEnabledFor(core.Fatal) {
		return
	}
	l.write(core.Fatal, fmt.Sprintf(format, args...))
}

// Assert emits msg at Fatal level when cond is false.
func (l *Logger) Assert(cond bool, msg string) {
	if cond || !l.IsEnabledFor(core.Fatal) {
		return
	}
	l.write(core.Fatal, msg)
}

// LogEvent dispatches a caller-constructed event, preserving its timestamp
// and source location.
func (l *Logger) LogEvent(ev *core.LogEvent) {
	if !l.IsEnabledFor(ev.Level) {
		return
	}
	l.callAppenders(ev)
}

// ForcedLog dispatches an event bypassing the level gate.
func (l *Logger) ForcedLog(ev *core.LogEvent) {
	l.callAppenders(ev)
}

// write stages the event in a pooled scratch record, stamps it with the
// call site two frames up, and dispatches it.
func (l *Logger) write(level core.LogLevel, msg string) {
	file, line, function := callSite()
	ev := getEvent()
	ev.Set(l.name, level, msg, file, line, function)
	l.callAppenders(ev)
	putEvent(ev)
}

// callSite captures the user's frame: three frames up from here, above
// write and the public logging method that called it.
func callSite() (file string, line int, function string) {
	pc, file, line, ok := runtime.Caller(3)
	if !ok {
		return "", -1, ""
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
	}
	return file, line, function
}

// callAppenders walks from the logger to the root and hands the event to
// every attached appender. The first dispatch that finds no appender at
// all anywhere on the walk raises a one-shot diagnostic.
func (l *Logger) callAppenders(ev *core.LogEvent) {
	writes := 0
	for c := l; c != nil; c = c.parent.Load() {
		writes += c.appendToAttached(ev)
	}

	if writes == 0 && l.h.noAppenderWarned.CompareAndSwap(false, true) {
		selflog.Errorf("No appenders could be found for logger (%s).", l.name)
		selflog.Errorf("Please initialize the logging system properly.")
	}
}

func (l *Logger) appendToAttached(ev *core.LogEvent) int {
	l.amu.Lock()
	defer l.amu.Unlock()
	for _, a := range l.appenders {
		a.DoAppend(ev)
	}
	return len(l.appenders)
}

// AddAppender attaches an appender; attaching the same appender twice is a
// no-op.
func (l *Logger) AddAppender(a core.Appender) {
	if a == nil {
		selflog.Warnf("tried to add a nil appender")
		return
	}
	l.amu.Lock()
	defer l.amu.Unlock()
	for _, existing := range l.appenders {
		if existing == a {
			return
		}
	}
	l.appenders = append(l.appenders, a)
}

// Appenders returns a snapshot of the attached appenders.
func (l *Logger) Appenders() []core.Appender {
	l.amu.Lock()
	defer l.amu.Unlock()
	out := make([]core.Appender, len(l.appenders))
	copy(out, l.appenders)
	return out
}

// GetAppender returns the attached appender with the given name, or nil.
func (l *Logger) GetAppender(name string) core.Appender {
	l.amu.Lock()
	defer l.amu.Unlock()
	for _, a := range l.appenders {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// RemoveAppender detaches an appender.
func (l *Logger) RemoveAppender(a core.Appender) {
	if a == nil {
		selflog.Warnf("tried to remove a nil appender")
		return
	}
	l.amu.Lock()
	defer l.amu.Unlock()
	for i, existing := range l.appenders {
		if existing == a {
			l.appenders = append(l.appenders[:i], l.appenders[i+1:]...)
			return
		}
	}
}

// RemoveAppenderNamed detaches the appender with the given name.
func (l *Logger) RemoveAppenderNamed(name string) {
	if a := l.GetAppender(name); a != nil {
		l.RemoveAppender(a)
	}
}

// RemoveAllAppenders detaches every appender.
func (l *Logger) RemoveAllAppenders() {
	l.amu.Lock()
	defer l.amu.Unlock()
	l.appenders = nil
}

// CloseNestedAppenders closes every attached appender that is not already
// closed.
func (l *Logger) CloseNestedAppenders() {
	for _, a := range l.Appenders() {
		if !a.IsClosed() {
			a.Close()
		}
	}
}
