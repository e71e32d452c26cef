package properties

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/canopylog/canopy/selflog"
)

func TestLoadBasics(t *testing.T) {
	input := strings.Join([]string{
		"# a comment",
		"",
		"  key1=value1",
		"key2 = spaced value ",
		"key3=windows line\r",
		"key1=overwritten",
		"not a property line",
	}, "\n")

	s, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := s.Get("key1"); got != "overwritten" {
		t.Errorf("key1 = %q, want the later value", got)
	}
	if got := s.Get("key2"); got != "spaced value" {
		t.Errorf("key2 = %q", got)
	}
	if got := s.Get("key3"); got != "windows line" {
		t.Errorf("key3 = %q, want the \\r stripped", got)
	}
	if s.Exists("not a property line") {
		t.Error("line without '=' was stored")
	}
}

func TestLoadInclude(t *testing.T) {
	dir := t.TempDir()

	included := filepath.Join(dir, "included.properties")
	if err := os.WriteFile(included, []byte("inner=from include\nshared=inner\n"), 0644); err != nil {
		t.Fatal(err)
	}

	main := filepath.Join(dir, "main.properties")
	content := "outer=1\ninclude " + included + "\nshared=outer\n"
	if err := os.WriteFile(main, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFile(main)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if got := s.Get("inner"); got != "from include" {
		t.Errorf("inner = %q", got)
	}
	// The include is processed in place, so the later entry wins.
	if got := s.Get("shared"); got != "outer" {
		t.Errorf("shared = %q, want the entry after the include", got)
	}
}

func TestMissingIncludeIsReportedAndSkipped(t *testing.T) {
	var captured []string
	selflog.EnableFunc(func(msg string) {
		captured = append(captured, msg)
	})
	defer selflog.Disable()

	input := strings.Join([]string{
		"before=1",
		"include /no/such/file.properties",
		"after=2",
	}, "\n")

	s, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load returned a hard error for a bad include: %v", err)
	}

	// The enclosing file keeps parsing past the failed include.
	if got := s.Get("before"); got != "1" {
		t.Errorf("before = %q", got)
	}
	if got := s.Get("after"); got != "2" {
		t.Errorf("after = %q, want parsing to continue past the include", got)
	}

	reported := false
	for _, msg := range captured {
		if strings.Contains(msg, "/no/such/file.properties") {
			reported = true
		}
	}
	if !reported {
		t.Errorf("no diagnostic for the unreadable include: %v", captured)
	}
}

func TestIncludeRequiresWhitespace(t *testing.T) {
	s, err := Load(strings.NewReader("includex=value\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.Get("includex"); got != "value" {
		t.Errorf("includex = %q, want it parsed as a plain key", got)
	}
}

func TestSubset(t *testing.T) {
	s := New()
	s.Set("appender.A", "TypeA")
	s.Set("appender.A.layout", "LayoutA")
	s.Set("appender.B", "TypeB")
	s.Set("logger.x", "DEBUG")

	sub := s.Subset("appender.")
	want := []string{"A", "A.layout", "B"}
	if diff := cmp.Diff(want, sub.Names()); diff != "" {
		t.Errorf("subset names mismatch (-want +got):\n%s", diff)
	}
	if got := sub.Get("A.layout"); got != "LayoutA" {
		t.Errorf("A.layout = %q", got)
	}
}

func TestTypedGetters(t *testing.T) {
	s := New()
	s.Set("int", "42")
	s.Set("negative", "-7")
	s.Set("trailing", "42x")
	s.Set("long", "5000000000")

	n := -1
	if !s.GetInt(&n, "int") || n != 42 {
		t.Errorf("GetInt = %d", n)
	}
	if !s.GetInt(&n, "negative") || n != -7 {
		t.Errorf("GetInt negative = %d", n)
	}

	n = 99
	if s.GetInt(&n, "trailing") {
		t.Error("GetInt accepted a value with trailing characters")
	}
	if n != 99 {
		t.Errorf("failed GetInt modified the destination: %d", n)
	}
	if s.GetInt(&n, "missing") {
		t.Error("GetInt reported success for a missing key")
	}

	var l int64
	if !s.GetLong(&l, "long") || l != 5_000_000_000 {
		t.Errorf("GetLong = %d", l)
	}

	var u uint
	if s.GetUint(&u, "negative") {
		t.Error("GetUint accepted a negative value")
	}
}

func TestGetBool(t *testing.T) {
	s := New()
	s.Set("t1", "true")
	s.Set("t2", "TRUE")
	s.Set("t3", "1")
	s.Set("t4", "7")
	s.Set("f1", "false")
	s.Set("f2", "0")
	s.Set("bad", "yes")

	for _, key := range []string{"t1", "t2", "t3", "t4"} {
		v := false
		if !s.GetBool(&v, key) || !v {
			t.Errorf("GetBool(%s) = %v", key, v)
		}
	}
	for _, key := range []string{"f1", "f2"} {
		v := true
		if !s.GetBool(&v, key) || v {
			t.Errorf("GetBool(%s) = %v", key, v)
		}
	}

	v := true
	if s.GetBool(&v, "bad") {
		t.Error("GetBool accepted \"yes\"")
	}
	if !v {
		t.Error("failed GetBool modified the destination")
	}
}

func TestRemoveAndDefault(t *testing.T) {
	s := New()
	s.Set("key", "value")

	if got := s.GetDefault("absent", "fallback"); got != "fallback" {
		t.Errorf("GetDefault = %q", got)
	}
	if !s.Remove("key") {
		t.Error("Remove returned false for a present key")
	}
	if s.Remove("key") {
		t.Error("Remove returned true for an absent key")
	}
}
