package appenders

import (
	"sync"
	"testing"

	"github.com/canopylog/canopy/selflog"
)

// captureSelflog routes diagnostics into dst for the duration of a test.
func captureSelflog(t *testing.T, dst *[]string) func() {
	t.Helper()
	var mu sync.Mutex
	selflog.EnableFunc(func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		*dst = append(*dst, msg)
	})
	return selflog.Disable
}
