package core

import (
	"testing"
	"time"
)

func TestNewLogEventCapturesTimestamp(t *testing.T) {
	before := time.Now()
	ev := NewLogEvent("app", Info, "hello", "app.go", 42, "main.run")
	after := time.Now()

	if ev.Timestamp.Before(before) || ev.Timestamp.After(after) {
		t.Errorf("timestamp %v not captured at construction", ev.Timestamp)
	}
	if ev.LoggerName != "app" || ev.Level != Info || ev.Message != "hello" {
		t.Errorf("unexpected event contents: %+v", ev)
	}
	if ev.File != "app.go" || ev.Line != 42 || ev.Function != "main.run" {
		t.Errorf("unexpected source location: %+v", ev)
	}
}

func TestSetOverwritesEveryField(t *testing.T) {
	ev := NewLogEvent("old.logger", Error, "old message", "old.go", 7, "old.fn")
	ev.Set("fresh", Debug, "fresh message", "", -1, "")

	if ev.LoggerName != "fresh" || ev.Level != Debug || ev.Message != "fresh message" {
		t.Errorf("stale fields after Set: %+v", ev)
	}
	if ev.File != "" || ev.Line != -1 || ev.Function != "" {
		t.Errorf("stale source location after Set: %+v", ev)
	}
}
