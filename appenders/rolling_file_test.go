package appenders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/canopylog/canopy/core"
	"github.com/canopylog/canopy/layouts"
)

func TestRollingFileSizeClamp(t *testing.T) {
	var captured []string
	restore := captureSelflog(t, &captured)
	defer restore()

	path := filepath.Join(t.TempDir(), "app.log")
	a, err := NewRollingFileAppender(RollingFileOptions{
		FileOptions: FileOptions{File: path, ImmediateFlush: true},
		MaxFileSize: 1024,
	})
	if err != nil {
		t.Fatalf("NewRollingFileAppender: %v", err)
	}
	defer a.Close()

	if a.MaxFileSize() != MinMaxFileSize {
		t.Errorf("MaxFileSize = %d, want clamp to %d", a.MaxFileSize(), MinMaxFileSize)
	}
	if len(captured) == 0 || !strings.Contains(captured[0], "too small") {
		t.Errorf("captured = %v, want a clamp warning", captured)
	}
}

func TestRollingFileRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	a, err := NewRollingFileAppender(RollingFileOptions{
		FileOptions:    FileOptions{File: path, ImmediateFlush: true},
		MaxFileSize:    MinMaxFileSize,
		MaxBackupIndex: 3,
	})
	if err != nil {
		t.Fatalf("NewRollingFileAppender: %v", err)
	}
	a.SetLayout(layouts.NewPatternLayout("%m%n"))
	defer a.Close()

	// ~900 KB of events against a 200 KiB limit.
	line := strings.Repeat("x", 99)
	for i := 0; i < 9000; i++ {
		a.DoAppend(core.NewLogEvent("roll", core.Info, line, "", -1, ""))
	}
	a.Close()

	// The active file plus backups .1 through .3 exist; nothing beyond
	// the retention bound survives.
	for _, name := range []string{path, path + ".1", path + ".2", path + ".3"} {
		info, err := os.Stat(name)
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if name == path && info.Size() > MinMaxFileSize+200 {
			t.Errorf("active file too large after rolling: %d", info.Size())
		}
	}
	if _, err := os.Stat(path + ".4"); err == nil {
		t.Errorf("%s.4 exists beyond MaxBackupIndex", path)
	}
}

func TestRollingFilePreExistingOversize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	// Leave behind a file already past the limit.
	big := strings.Repeat("y", MinMaxFileSize+1024)
	if err := os.WriteFile(path, []byte(big), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := NewRollingFileAppender(RollingFileOptions{
		FileOptions:    FileOptions{File: path, ImmediateFlush: true},
		MaxFileSize:    MinMaxFileSize,
		MaxBackupIndex: 2,
	})
	if err != nil {
		t.Fatalf("NewRollingFileAppender: %v", err)
	}
	a.SetLayout(layouts.NewPatternLayout("%m%n"))
	defer a.Close()

	a.DoAppend(core.NewLogEvent("roll", core.Info, "after rollover", "", -1, ""))
	a.Close()

	content, _ := os.ReadFile(path)
	if string(content) != "after rollover\n" {
		t.Errorf("active file = %q, want only the new event", content)
	}
	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("oversize file was not rotated to .1: %v", err)
	}
}

func TestRotateBackupsShiftsAndDropsOldest(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "app.log")

	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("%s.%d", base, i)
		if err := os.WriteFile(name, []byte(fmt.Sprintf("backup %d", i)), 0644); err != nil {
			t.Fatal(err)
		}
	}

	rotateBackups(base, 3)

	// .1 and .2 moved up, the old .3 was removed to make room.
	if _, err := os.Stat(base + ".1"); err == nil {
		t.Error("app.log.1 still exists after rotation")
	}
	for i := 2; i <= 3; i++ {
		content, err := os.ReadFile(fmt.Sprintf("%s.%d", base, i))
		if err != nil {
			t.Fatalf("backup .%d missing: %v", i, err)
		}
		if want := fmt.Sprintf("backup %d", i-1); string(content) != want {
			t.Errorf("backup .%d = %q, want %q", i, content, want)
		}
	}
}
