package filters

import (
	"testing"

	"github.com/canopylog/canopy/core"
)

func eventAt(level core.LogLevel) *core.LogEvent {
	return &core.LogEvent{LoggerName: "a", Level: level, Message: "m", Line: -1}
}

func TestDenyAllFilter(t *testing.T) {
	f := NewDenyAllFilter()
	for _, level := range []core.LogLevel{core.Trace, core.Info, core.Fatal} {
		if got := f.Decide(eventAt(level)); got != core.Deny {
			t.Errorf("DenyAll at %v = %d, want Deny", level, got)
		}
	}
}

func TestLevelMatchFilter(t *testing.T) {
	accept := NewLevelMatchFilter(core.Warn, true)
	if got := accept.Decide(eventAt(core.Warn)); got != core.Accept {
		t.Errorf("matching level = %d, want Accept", got)
	}
	if got := accept.Decide(eventAt(core.Info)); got != core.Neutral {
		t.Errorf("non-matching level = %d, want Neutral", got)
	}

	deny := NewLevelMatchFilter(core.Warn, false)
	if got := deny.Decide(eventAt(core.Warn)); got != core.Deny {
		t.Errorf("matching level with acceptOnMatch=false = %d, want Deny", got)
	}

	unset := NewLevelMatchFilter(core.NotSet, true)
	if got := unset.Decide(eventAt(core.Warn)); got != core.Neutral {
		t.Errorf("unset level to match = %d, want Neutral", got)
	}
}

func TestLevelRangeFilter(t *testing.T) {
	f := NewLevelRangeFilter(core.Info, core.Error, true)

	if got := f.Decide(eventAt(core.Debug)); got != core.Deny {
		t.Errorf("below min = %d, want Deny", got)
	}
	if got := f.Decide(eventAt(core.Fatal)); got != core.Deny {
		t.Errorf("above max = %d, want Deny", got)
	}
	for _, level := range []core.LogLevel{core.Info, core.Warn, core.Error} {
		if got := f.Decide(eventAt(level)); got != core.Accept {
			t.Errorf("in range at %v = %d, want Accept", level, got)
		}
	}
}

func TestLevelRangeFilterUnsetBounds(t *testing.T) {
	noMin := NewLevelRangeFilter(core.NotSet, core.Warn, true)
	if got := noMin.Decide(eventAt(core.Trace)); got != core.Accept {
		t.Errorf("unset min should not deny low levels: %d", got)
	}

	noMax := NewLevelRangeFilter(core.Warn, core.NotSet, true)
	if got := noMax.Decide(eventAt(core.Fatal)); got != core.Accept {
		t.Errorf("unset max should not deny high levels: %d", got)
	}
}

func TestLevelRangeFilterNeutralInRange(t *testing.T) {
	f := NewLevelRangeFilter(core.Info, core.Error, false)
	if got := f.Decide(eventAt(core.Warn)); got != core.Neutral {
		t.Errorf("in range with acceptOnMatch=false = %d, want Neutral", got)
	}
	if got := f.Decide(eventAt(core.Debug)); got != core.Deny {
		t.Errorf("out of range = %d, want Deny", got)
	}
}
