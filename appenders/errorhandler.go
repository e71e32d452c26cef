package appenders

import (
	"sync"

	"github.com/canopylog/canopy/selflog"
)

// OnlyOnceErrorHandler reports the first error to selflog and swallows the
// rest until Reset. It is the default error handler of every appender, so
// a sink that fails repeatedly does not flood the diagnostic channel.
type OnlyOnceErrorHandler struct {
	mu    sync.Mutex
	fired bool
}

// NewOnlyOnceErrorHandler creates an armed OnlyOnceErrorHandler.
func NewOnlyOnceErrorHandler() *OnlyOnceErrorHandler {
	return &OnlyOnceErrorHandler{}
}

// Error implements core.ErrorHandler.
func (h *OnlyOnceErrorHandler) Error(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fired {
		return
	}
	h.fired = true
	selflog.Errorf("%s", msg)
}

// Reset implements core.ErrorHandler.
func (h *OnlyOnceErrorHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fired = false
}
