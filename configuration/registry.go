// Package configuration wires appenders, layouts and filters out of
// property files through name-indexed factory registries. The property
// surface is wire-compatible with log4cplus: keys carry the "log4cplus."
// prefix and the built-in factories register under "log4cplus::" type
// names.
package configuration

import (
	"sort"
	"sync"

	"github.com/canopylog/canopy/core"
	"github.com/canopylog/canopy/properties"
)

// AppenderFactory builds an appender from its property subset.
type AppenderFactory func(props *properties.Store) (core.Appender, error)

// LayoutFactory builds a layout from its property subset.
type LayoutFactory func(props *properties.Store) (core.Layout, error)

// FilterFactory builds a filter from its property subset.
type FilterFactory func(props *properties.Store) (core.Filter, error)

// Registry is a name-indexed factory table.
type Registry[T any] struct {
	mu        sync.RWMutex
	factories map[string]T
}

func newRegistry[T any]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]T)}
}

// Register binds a factory to a type name, replacing any previous binding.
func (r *Registry[T]) Register(name string, factory T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get looks up the factory for a type name.
func (r *Registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered type names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// The process-wide factory registries the configurator resolves type
// names against. User code may register additional factories before
// configuration runs.
var (
	AppenderFactories = newRegistry[AppenderFactory]()
	LayoutFactories   = newRegistry[LayoutFactory]()
	FilterFactories   = newRegistry[FilterFactory]()
)

func init() {
	AppenderFactories.Register("log4cplus::ConsoleAppender", consoleAppenderFactory)
	AppenderFactories.Register("log4cplus::NullAppender", nullAppenderFactory)
	AppenderFactories.Register("log4cplus::CustomAppender", customAppenderFactory)
	AppenderFactories.Register("log4cplus::FileAppender", fileAppenderFactory)
	AppenderFactories.Register("log4cplus::RollingFileAppender", rollingFileAppenderFactory)
	AppenderFactories.Register("log4cplus::DailyRollingFileAppender", dailyRollingFileAppenderFactory)

	LayoutFactories.Register("log4cplus::SimpleLayout", simpleLayoutFactory)
	LayoutFactories.Register("log4cplus::PatternLayout", patternLayoutFactory)

	FilterFactories.Register("log4cplus::DenyAllFilter", denyAllFilterFactory)
	FilterFactories.Register("log4cplus::LogLevelMatchFilter", levelMatchFilterFactory)
	FilterFactories.Register("log4cplus::LogLevelRangeFilter", levelRangeFilterFactory)
}
