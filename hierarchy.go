package canopy

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/canopylog/canopy/core"
	"github.com/canopylog/canopy/selflog"
)

// Hierarchy is the forest of loggers rooted at the empty-name logger.
// Loggers may be created in any order: a logger whose dotted-name ancestors
// do not exist yet is parked in provision nodes, and materializing the
// missing ancestor later re-parents the waiting descendants.
type Hierarchy struct {
	mu        sync.Mutex
	loggers   map[string]*Logger
	provision map[string][]*Logger
	root      *Logger

	// watermark is the process-wide disable floor: events at or below it
	// are dropped before the parent walk. Pinned while it holds
	// DisableOverride.
	watermark LevelSwitch

	noAppenderWarned atomic.Bool
}

// NewHierarchy creates a hierarchy whose root logger is at Debug with no
// level disabled.
func NewHierarchy() *Hierarchy {
	h := &Hierarchy{
		loggers:   make(map[string]*Logger),
		provision: make(map[string][]*Logger),
	}
	h.root = newLogger("", h, true, core.Debug)
	h.watermark.Set(core.NotSet)
	return h
}

// Root returns the root logger.
func (h *Hierarchy) Root() *Logger {
	return h.root
}

// Exists reports whether a logger with the given name has been created.
// The root logger always exists.
func (h *Hierarchy) Exists(name string) bool {
	if name == "" {
		return true
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.loggers[name]
	return ok
}

// GetLogger returns the logger with the given name, creating it (and its
// provision bookkeeping) if needed. The empty name returns the root.
func (h *Hierarchy) GetLogger(name string) *Logger {
	if name == "" {
		return h.root
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if l, ok := h.loggers[name]; ok {
		return l
	}

	l := newLogger(name, h, false, core.NotSet)
	h.loggers[name] = l

	if children, ok := h.provision[name]; ok {
		h.updateChildren(children, l)
		delete(h.provision, name)
	}
	h.updateParents(l)

	return l
}

// CurrentLoggers returns a snapshot of every logger except the root.
func (h *Hierarchy) CurrentLoggers() []*Logger {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Logger, 0, len(h.loggers))
	for _, l := range h.loggers {
		out = append(out, l)
	}
	return out
}

// ResetConfiguration detaches every appender, resets every non-root logger
// to NotSet, puts the root back at Debug and clears the disable watermark.
func (h *Hierarchy) ResetConfiguration() {
	h.root.SetLevel(core.Debug)
	h.root.RemoveAllAppenders()
	h.watermark.Set(core.NotSet)

	for _, l := range h.CurrentLoggers() {
		l.SetLevel(core.NotSet)
		l.RemoveAllAppenders()
	}

	h.noAppenderWarned.Store(false)
}

// Disable sets the watermark: events at or below level are dropped before
// the parent walk. A watermark pinned with DisableOverride no longer moves.
func (h *Hierarchy) Disable(level core.LogLevel) {
	if h.watermark.Level() != core.DisableOverride {
		h.watermark.Set(level)
	}
}

// DisableAll drops every event.
func (h *Hierarchy) DisableAll() {
	h.Disable(core.LogLevel(int32(^uint32(0) >> 1)))
}

// DisableDebug drops events at Debug and below.
func (h *Hierarchy) DisableDebug() {
	h.Disable(core.Debug)
}

// DisableInfo drops events at Info and below.
func (h *Hierarchy) DisableInfo() {
	h.Disable(core.Info)
}

// EnableAll clears the watermark, restoring normal level gating.
func (h *Hierarchy) EnableAll() {
	h.Disable(core.NotSet)
}

func (h *Hierarchy) isDisabled(level core.LogLevel) bool {
	return h.watermark.Level() >= level
}

// updateParents links a new logger to its closest materialized ancestor.
// For name "w.x.y.z" the strict prefixes "w.x.y", "w.x" and "w" are tried
// longest first: a real logger becomes the parent; otherwise the new
// logger joins (or starts) that prefix's provision node and the walk
// continues. With no real ancestor the parent is the root.
func (h *Hierarchy) updateParents(l *Logger) {
	name := l.name

	for i := strings.LastIndexByte(name, '.'); i > 0; i = strings.LastIndexByte(name[:i], '.') {
		prefix := name[:i]

		if parent, ok := h.loggers[prefix]; ok {
			// No need to update the ancestors of the closest ancestor.
			l.parent.Store(parent)
			return
		}
		h.provision[prefix] = append(h.provision[prefix], l)
	}

	l.parent.Store(h.root)
}

// updateChildren re-parents the loggers that were waiting for this name.
// A child already pointing below the new logger keeps its parent; any
// other child is spliced in: the new logger inherits the child's old
// parent and the child hangs off the new logger.
func (h *Hierarchy) updateChildren(children []*Logger, l *Logger) {
	for _, c := range children {
		parent := c.parent.Load()
		if parent == nil {
			selflog.ErrorfPanic("provision node child (%s) has no parent", c.name)
		}
		if !strictPrefix(parent.name, l.name) {
			l.parent.Store(parent)
			c.parent.Store(l)
		}
	}
}

// strictPrefix reports whether s begins with prefix and is longer than it.
func strictPrefix(s, prefix string) bool {
	return len(s) > len(prefix) && strings.HasPrefix(s, prefix)
}
