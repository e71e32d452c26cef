// Package filters provides the built-in per-event filters. Filters return
// a ternary verdict; an appender's chain is decided by the first filter
// that does not return Neutral.
package filters

import (
	"github.com/canopylog/canopy/core"
)

// DenyAllFilter denies every event. Placed at the end of a chain it turns
// the default accept into a default deny.
type DenyAllFilter struct{}

// NewDenyAllFilter creates a DenyAllFilter.
func NewDenyAllFilter() *DenyAllFilter {
	return &DenyAllFilter{}
}

// Decide implements core.Filter.
func (f *DenyAllFilter) Decide(*core.LogEvent) core.FilterResult {
	return core.Deny
}

// LevelMatchFilter matches events of exactly one level.
type LevelMatchFilter struct {
	levelToMatch  core.LogLevel
	acceptOnMatch bool
}

// NewLevelMatchFilter creates a filter that accepts (or denies, when
// acceptOnMatch is false) events whose level equals levelToMatch and stays
// neutral for everything else. A levelToMatch of NotSet is always neutral.
func NewLevelMatchFilter(levelToMatch core.LogLevel, acceptOnMatch bool) *LevelMatchFilter {
	return &LevelMatchFilter{levelToMatch: levelToMatch, acceptOnMatch: acceptOnMatch}
}

// Decide implements core.Filter.
func (f *LevelMatchFilter) Decide(ev *core.LogEvent) core.FilterResult {
	if f.levelToMatch == core.NotSet {
		return core.Neutral
	}
	if ev.Level != f.levelToMatch {
		return core.Neutral
	}
	if f.acceptOnMatch {
		return core.Accept
	}
	return core.Deny
}

// LevelRangeFilter denies events outside a closed level range. An unset
// bound (NotSet) disables that side of the range.
type LevelRangeFilter struct {
	min           core.LogLevel
	max           core.LogLevel
	acceptOnMatch bool
}

// NewLevelRangeFilter creates a filter that denies events below min or
// above max. In-range events are accepted when acceptOnMatch is true and
// passed on to the rest of the chain otherwise.
func NewLevelRangeFilter(min, max core.LogLevel, acceptOnMatch bool) *LevelRangeFilter {
	return &LevelRangeFilter{min: min, max: max, acceptOnMatch: acceptOnMatch}
}

// Decide implements core.Filter.
func (f *LevelRangeFilter) Decide(ev *core.LogEvent) core.FilterResult {
	if f.min != core.NotSet && ev.Level < f.min {
		return core.Deny
	}
	if f.max != core.NotSet && ev.Level > f.max {
		return core.Deny
	}
	if f.acceptOnMatch {
		return core.Accept
	}
	return core.Neutral
}
