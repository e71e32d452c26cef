package canopy

import (
	"sync"
	"time"

	"github.com/canopylog/canopy/internal/timebase"
	"github.com/canopylog/canopy/selflog"
)

// The process context moves monotonically through these states; Shutdown
// is final, and initializing again afterwards leaks the destroyed context.
type contextState int

const (
	ctxUninitialized contextState = iota
	ctxInitialized
	ctxDestroyed
)

var (
	ctxMu            sync.Mutex
	ctxState         contextState
	defaultHierarchy *Hierarchy
)

// Initialize sets up the process context: the default hierarchy and the
// layout time base. It is idempotent and runs implicitly on first use of
// DefaultHierarchy or GetLogger.
func Initialize() {
	ctxMu.Lock()
	defer ctxMu.Unlock()
	initializeLocked()
}

func initializeLocked() {
	if ctxState == ctxInitialized {
		return
	}
	if ctxState == ctxDestroyed {
		selflog.Errorf("re-initializing the default context after it has already been destroyed; the old context is leaked")
	}

	defaultHierarchy = NewHierarchy()
	timebase.Set(time.Now())
	ctxState = ctxInitialized
}

// Shutdown closes every appender attached in the default hierarchy and
// destroys the process context.
func Shutdown() {
	ctxMu.Lock()
	defer ctxMu.Unlock()

	if ctxState != ctxInitialized {
		return
	}

	defaultHierarchy.Root().CloseNestedAppenders()
	for _, l := range defaultHierarchy.CurrentLoggers() {
		l.CloseNestedAppenders()
	}

	defaultHierarchy = nil
	ctxState = ctxDestroyed
}

// DefaultHierarchy returns the process-wide hierarchy, initializing the
// context if needed.
func DefaultHierarchy() *Hierarchy {
	ctxMu.Lock()
	defer ctxMu.Unlock()
	initializeLocked()
	return defaultHierarchy
}
