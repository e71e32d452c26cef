package canopy

import (
	"sync/atomic"

	"github.com/canopylog/canopy/core"
)

// LevelSwitch is a thread-safe level cell. The hierarchy uses one for its
// disable watermark; readers tolerate concurrent updates because the value
// is only a coarse early-exit.
type LevelSwitch struct {
	level atomic.Int32
}

// NewLevelSwitch creates a switch holding the given level.
func NewLevelSwitch(initial core.LogLevel) *LevelSwitch {
	ls := &LevelSwitch{}
	ls.Set(initial)
	return ls
}

// Level returns the current level.
func (ls *LevelSwitch) Level() core.LogLevel {
	return core.LogLevel(ls.level.Load())
}

// Set updates the level. Takes effect immediately.
func (ls *LevelSwitch) Set(level core.LogLevel) {
	ls.level.Store(int32(level))
}
