// Package selflog is canopy's internal diagnostic channel. Configuration
// mistakes and appender failures that would otherwise be silently discarded
// are reported here instead of panicking through the user's log call.
//
// By default messages go to stderr. Quiet mode silences everything; debug
// messages are additionally gated behind SetInternalDebugging. Both modes
// can be preset through the environment before first use:
//
//	LOG4CPLUS_LOGLOG_QUIETMODE=true
//	LOG4CPLUS_LOGLOG_DEBUGENABLED=true
//
// A custom writer or handler can be installed for tests or log capture:
//
//	selflog.Enable(selflog.Sync(f))
//	selflog.EnableFunc(func(msg string) { ... })
package selflog

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/canopylog/canopy/internal/console"
)

const (
	debugPrefix = "log4cplus: "
	warnPrefix  = "log4cplus:WARN "
	errorPrefix = "log4cplus:ERROR "
)

var (
	// outputWriter holds the current io.Writer (atomic pointer).
	outputWriter atomic.Pointer[io.Writer]
	// outputFunc holds the current handler function (atomic pointer).
	outputFunc atomic.Pointer[func(string)]

	quietMode    atomic.Bool
	debugEnabled atomic.Bool

	envOnce sync.Once
)

// Enable routes diagnostics to w instead of stderr. The writer should be
// thread-safe or wrapped with Sync.
func Enable(w io.Writer) {
	if w == nil {
		return
	}
	outputFunc.Store(nil)
	outputWriter.Store(&w)
}

// EnableFunc routes diagnostics to a handler function.
func EnableFunc(fn func(string)) {
	if fn == nil {
		return
	}
	outputWriter.Store(nil)
	outputFunc.Store(&fn)
}

// Disable restores the default stderr destination.
func Disable() {
	outputWriter.Store(nil)
	outputFunc.Store(nil)
}

// SetQuietMode silences (or un-silences) the diagnostic channel.
func SetQuietMode(quiet bool) {
	readEnv()
	quietMode.Store(quiet)
}

// SetInternalDebugging toggles debug-level diagnostics.
func SetInternalDebugging(enabled bool) {
	readEnv()
	debugEnabled.Store(enabled)
}

// IsEnabled reports whether diagnostics are currently emitted at all. Use
// it to avoid formatting costs on hot paths.
func IsEnabled() bool {
	readEnv()
	return !quietMode.Load()
}

// Debugf reports a debug diagnostic. Emitted only when internal debugging
// is enabled and quiet mode is off.
func Debugf(format string, args ...any) {
	readEnv()
	if !debugEnabled.Load() {
		return
	}
	write(debugPrefix, format, args)
}

// Warnf reports a warning diagnostic.
func Warnf(format string, args ...any) {
	write(warnPrefix, format, args)
}

// Errorf reports an error diagnostic.
func Errorf(format string, args ...any) {
	write(errorPrefix, format, args)
}

// ErrorfPanic reports an error diagnostic and then panics. Used for
// internal invariant violations.
func ErrorfPanic(format string, args ...any) {
	write(errorPrefix, format, args)
	panic(fmt.Sprintf(format, args...))
}

func write(prefix, format string, args []any) {
	readEnv()
	if quietMode.Load() {
		return
	}

	line := prefix + fmt.Sprintf(format, args...)

	if fn := outputFunc.Load(); fn != nil {
		(*fn)(line)
		return
	}
	if w := outputWriter.Load(); w != nil {
		fmt.Fprintln(*w, line)
		return
	}

	console.Lock()
	defer console.Unlock()
	fmt.Fprintln(os.Stderr, line)
}

// readEnv applies the environment presets on first use.
func readEnv() {
	envOnce.Do(func() {
		if v, ok := parseBoolEnv("LOG4CPLUS_LOGLOG_QUIETMODE"); ok {
			quietMode.Store(v)
		}
		if v, ok := parseBoolEnv("LOG4CPLUS_LOGLOG_DEBUGENABLED"); ok {
			debugEnabled.Store(v)
		}
	})
}

func parseBoolEnv(name string) (value, ok bool) {
	raw, found := os.LookupEnv(name)
	if !found {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
		return n != 0, true
	}
	return false, false
}

// syncWriter wraps an io.Writer to make it thread-safe.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Sync wraps a writer to make it thread-safe. Use it when enabling file
// output or another non-synchronized writer.
func Sync(w io.Writer) io.Writer {
	return &syncWriter{w: w}
}
