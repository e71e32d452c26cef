package selflog

import (
	"strings"
	"sync"
	"testing"
)

func capture(t *testing.T) (*[]string, func()) {
	t.Helper()
	var mu sync.Mutex
	lines := &[]string{}
	EnableFunc(func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		*lines = append(*lines, msg)
	})
	return lines, func() {
		Disable()
		SetQuietMode(false)
		SetInternalDebugging(false)
	}
}

func TestPrefixes(t *testing.T) {
	lines, restore := capture(t)
	defer restore()

	SetInternalDebugging(true)
	Debugf("d %d", 1)
	Warnf("w %d", 2)
	Errorf("e %d", 3)

	want := []string{"log4cplus: d 1", "log4cplus:WARN w 2", "log4cplus:ERROR e 3"}
	if len(*lines) != len(want) {
		t.Fatalf("lines = %v", *lines)
	}
	for i, w := range want {
		if (*lines)[i] != w {
			t.Errorf("line %d = %q, want %q", i, (*lines)[i], w)
		}
	}
}

func TestDebugGate(t *testing.T) {
	lines, restore := capture(t)
	defer restore()

	SetInternalDebugging(false)
	Debugf("hidden")
	if len(*lines) != 0 {
		t.Errorf("debug emitted while disabled: %v", *lines)
	}

	SetInternalDebugging(true)
	Debugf("visible")
	if len(*lines) != 1 {
		t.Errorf("debug not emitted while enabled: %v", *lines)
	}
}

func TestQuietModeSilencesEverything(t *testing.T) {
	lines, restore := capture(t)
	defer restore()

	SetQuietMode(true)
	Warnf("w")
	Errorf("e")
	if len(*lines) != 0 {
		t.Errorf("quiet mode leaked: %v", *lines)
	}

	SetQuietMode(false)
	Errorf("after")
	if len(*lines) != 1 {
		t.Errorf("output not restored: %v", *lines)
	}
}

func TestErrorfPanic(t *testing.T) {
	_, restore := capture(t)
	defer restore()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("ErrorfPanic did not panic")
		}
		if !strings.Contains(r.(string), "invariant") {
			t.Errorf("panic value = %v", r)
		}
	}()
	ErrorfPanic("broken invariant: %s", "detail")
}
