package canopy

import (
	"testing"

	"github.com/canopylog/canopy/core"
)

func TestGetLoggerReturnsSameInstance(t *testing.T) {
	h := NewHierarchy()
	if h.GetLogger("a.b") != h.GetLogger("a.b") {
		t.Error("two lookups produced different loggers")
	}
	if h.GetLogger("") != h.Root() {
		t.Error("empty name did not return the root")
	}
}

func TestExists(t *testing.T) {
	h := NewHierarchy()
	if !h.Exists("") {
		t.Error("root does not exist")
	}
	if h.Exists("ghost") {
		t.Error("uncreated logger exists")
	}
	h.GetLogger("ghost")
	if !h.Exists("ghost") {
		t.Error("created logger does not exist")
	}
}

func TestCurrentLoggersExcludesRoot(t *testing.T) {
	h := NewHierarchy()
	h.GetLogger("a")
	h.GetLogger("a.b")

	loggers := h.CurrentLoggers()
	if len(loggers) != 2 {
		t.Fatalf("CurrentLoggers = %d entries, want 2", len(loggers))
	}
	for _, l := range loggers {
		if l.Name() == "" {
			t.Error("root included in CurrentLoggers")
		}
	}
}

func TestParentLinksInOrderCreation(t *testing.T) {
	h := NewHierarchy()
	a := h.GetLogger("a")
	ab := h.GetLogger("a.b")
	abc := h.GetLogger("a.b.c")

	if ab.Parent() != a || abc.Parent() != ab {
		t.Error("in-order creation produced wrong parents")
	}
	if a.Parent() != h.Root() {
		t.Error("top-level logger's parent is not the root")
	}
}

func TestProvisionNodeRewire(t *testing.T) {
	h := NewHierarchy()

	// Created before any ancestor exists: parent falls back to the root.
	xyz := h.GetLogger("x.y.z")
	if xyz.Parent() != h.Root() {
		t.Fatalf("x.y.z parent = %q, want root", xyz.Parent().Name())
	}

	// Materializing "x" splices it between the root and x.y.z.
	x := h.GetLogger("x")
	if xyz.Parent() != x {
		t.Errorf("x.y.z parent = %q, want x", xyz.Parent().Name())
	}
	if x.Parent() != h.Root() {
		t.Errorf("x parent = %q, want root", x.Parent().Name())
	}

	// Materializing "x.y" splices again, keeping the chain ordered.
	xy := h.GetLogger("x.y")
	if xyz.Parent() != xy {
		t.Errorf("x.y.z parent = %q, want x.y", xyz.Parent().Name())
	}
	if xy.Parent() != x {
		t.Errorf("x.y parent = %q, want x", xy.Parent().Name())
	}
}

func TestProvisionNodeDoesNotRewireDeeperChildren(t *testing.T) {
	h := NewHierarchy()
	wxyz := h.GetLogger("w.x.y.z")
	wxy := h.GetLogger("w.x.y")

	if wxyz.Parent() != wxy {
		t.Fatalf("w.x.y.z parent = %q", wxyz.Parent().Name())
	}

	// w.x.y.z already points below w.x, so only w.x.y gets re-parented.
	wx := h.GetLogger("w.x")
	if wxy.Parent() != wx {
		t.Errorf("w.x.y parent = %q, want w.x", wxy.Parent().Name())
	}
	if wxyz.Parent() != wxy {
		t.Errorf("w.x.y.z parent changed to %q", wxyz.Parent().Name())
	}
}

func TestEffectiveLevelInheritance(t *testing.T) {
	h := NewHierarchy()
	h.Root().SetLevel(core.Warn)

	abc := h.GetLogger("a.b.c")
	if got := abc.EffectiveLevel(); got != core.Warn {
		t.Errorf("effective = %v, want inherited Warn", got)
	}

	ab := h.GetLogger("a.b")
	ab.SetLevel(core.Trace)
	if got := abc.EffectiveLevel(); got != core.Trace {
		t.Errorf("effective = %v, want Trace from a.b", got)
	}
}

func TestHierarchyInheritanceScenario(t *testing.T) {
	h := NewHierarchy()
	app := newMemoryAppender()
	h.Root().AddAppender(app)
	h.Root().SetLevel(core.Warn)
	h.GetLogger("a.b").SetLevel(core.NotSet)

	abc := h.GetLogger("a.b.c")
	abc.Info("dropped while root is WARN")
	if got := app.messages(); len(got) != 0 {
		t.Fatalf("messages = %v, want none", got)
	}

	// Materializing "a" at Debug changes the effective level of a.b.c.
	h.GetLogger("a").SetLevel(core.Debug)
	abc.Info("accepted via a")
	if got := app.messages(); len(got) != 1 || got[0] != "accepted via a" {
		t.Errorf("messages = %v", got)
	}
}

func TestRootRejectsNotSet(t *testing.T) {
	h := NewHierarchy()
	h.Root().SetLevel(core.NotSet)
	if got := h.Root().Level(); got != core.Debug {
		t.Errorf("root level = %v, want Debug preserved", got)
	}
}

func TestDisableWatermark(t *testing.T) {
	h := NewHierarchy()
	app := newMemoryAppender()
	h.Root().AddAppender(app)
	l := h.GetLogger("wm")

	h.Disable(core.Info)
	l.Info("at the watermark")
	l.Debug("below the watermark")
	l.Warn("above the watermark")

	if got := app.messages(); len(got) != 1 || got[0] != "above the watermark" {
		t.Errorf("messages = %v, want only the Warn event", got)
	}

	h.EnableAll()
	l.Debug("after enable")
	if got := app.messages(); len(got) != 2 {
		t.Errorf("messages after EnableAll = %v", got)
	}
}

func TestDisableAllSilencesEverything(t *testing.T) {
	h := NewHierarchy()
	app := newMemoryAppender()
	h.Root().AddAppender(app)
	l := h.GetLogger("silent")

	h.DisableAll()
	l.Fatal("nothing gets through")
	if got := app.messages(); len(got) != 0 {
		t.Errorf("messages = %v", got)
	}

	h.EnableAll()
	l.Fatal("restored")
	if got := app.messages(); len(got) != 1 {
		t.Errorf("messages after EnableAll = %v", got)
	}
}

func TestDisableOverridePinsWatermark(t *testing.T) {
	h := NewHierarchy()
	h.Disable(core.DisableOverride)
	h.Disable(core.Off)

	app := newMemoryAppender()
	h.Root().AddAppender(app)
	h.GetLogger("pinned").Error("still flows")

	if got := app.messages(); len(got) != 1 {
		t.Errorf("messages = %v, want the event despite Disable(Off)", got)
	}
}

func TestResetConfiguration(t *testing.T) {
	h := NewHierarchy()
	app := newMemoryAppender()
	h.Root().AddAppender(app)
	h.Root().SetLevel(core.Error)

	l := h.GetLogger("reset.me")
	l.SetLevel(core.Trace)
	l.AddAppender(newMemoryAppender())
	h.Disable(core.Off)

	h.ResetConfiguration()

	if got := h.Root().Level(); got != core.Debug {
		t.Errorf("root level = %v, want Debug", got)
	}
	if got := l.Level(); got != core.NotSet {
		t.Errorf("logger level = %v, want NotSet", got)
	}
	if got := len(l.Appenders()); got != 0 {
		t.Errorf("logger still has %d appenders", got)
	}
	if got := len(h.Root().Appenders()); got != 0 {
		t.Errorf("root still has %d appenders", got)
	}

	// Gating works normally again after the reset.
	app2 := newMemoryAppender()
	h.Root().AddAppender(app2)
	l.Debug("flows at root Debug")
	if got := app2.messages(); len(got) != 1 {
		t.Errorf("messages = %v", got)
	}
}

func TestLevelSwitch(t *testing.T) {
	ls := NewLevelSwitch(core.Info)
	if got := ls.Level(); got != core.Info {
		t.Errorf("Level = %v", got)
	}
	ls.Set(core.Error)
	if got := ls.Level(); got != core.Error {
		t.Errorf("Level after Set = %v", got)
	}
}
