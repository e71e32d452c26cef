// Package properties implements the line-oriented key=value configuration
// format: '#' comments, an include directive, last-wins duplicate keys and
// prefix-stripped subset views.
package properties

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/canopylog/canopy/selflog"
)

const commentChar = '#'

// Store is a string-keyed property map.
type Store struct {
	m map[string]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{m: make(map[string]string)}
}

// LoadFile reads a property file.
func LoadFile(path string) (*Store, error) {
	s := New()
	if err := s.loadFile(path); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads properties from r.
func Load(r io.Reader) (*Store, error) {
	s := New()
	if err := s.load(r); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open file %s: %w", path, err)
	}
	defer f.Close()
	return s.load(f)
}

// load parses r line by line. A line of the form "include <path>" loads
// another file at that point; later entries overwrite earlier ones.
func (s *Store) load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimLeft(scanner.Text(), " \t")
		if line == "" || line[0] == commentChar {
			continue
		}
		// Property files produced on Windows carry a trailing \r.
		line = strings.TrimSuffix(line, "\r")

		if idx := strings.IndexByte(line, '='); idx >= 0 {
			key := strings.TrimRight(line[:idx], " \t")
			value := strings.TrimSpace(line[idx+1:])
			s.m[key] = value
			continue
		}

		if rest, found := strings.CutPrefix(line, "include"); found &&
			rest != "" && (rest[0] == ' ' || rest[0] == '\t') {
			// An unreadable include is reported and skipped; the rest of
			// the enclosing file keeps parsing.
			if err := s.loadFile(strings.TrimSpace(rest)); err != nil {
				selflog.Errorf("%v", err)
			}
		}
	}
	return scanner.Err()
}

// Exists reports whether key is present.
func (s *Store) Exists(key string) bool {
	_, ok := s.m[key]
	return ok
}

// Get returns the value for key, or the empty string when absent.
func (s *Store) Get(key string) string {
	return s.m[key]
}

// GetDefault returns the value for key, or def when absent.
func (s *Store) GetDefault(key, def string) string {
	if v, ok := s.m[key]; ok {
		return v
	}
	return def
}

// Set stores a value, overwriting any previous one.
func (s *Store) Set(key, value string) {
	s.m[key] = value
}

// Remove deletes key and reports whether it was present.
func (s *Store) Remove(key string) bool {
	_, ok := s.m[key]
	delete(s.m, key)
	return ok
}

// Names returns all keys in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.m))
	for k := range s.m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Subset returns a new store holding the entries whose key starts with
// prefix, with the prefix stripped.
func (s *Store) Subset(prefix string) *Store {
	sub := New()
	for k, v := range s.m {
		if rest, ok := strings.CutPrefix(k, prefix); ok {
			sub.m[rest] = v
		}
	}
	return sub
}

// GetInt parses the value of key into dst. The value must parse in full;
// otherwise dst is left untouched and false is returned.
func (s *Store) GetInt(dst *int, key string) bool {
	v, ok := s.m[key]
	if !ok {
		return false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, strconv.IntSize)
	if err != nil {
		return false
	}
	*dst = int(n)
	return true
}

// GetUint is GetInt for unsigned values.
func (s *Store) GetUint(dst *uint, key string) bool {
	v, ok := s.m[key]
	if !ok {
		return false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, strconv.IntSize)
	if err != nil {
		return false
	}
	*dst = uint(n)
	return true
}

// GetLong is GetInt for 64-bit values.
func (s *Store) GetLong(dst *int64, key string) bool {
	v, ok := s.m[key]
	if !ok {
		return false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return false
	}
	*dst = n
	return true
}

// GetULong is GetUint for 64-bit values.
func (s *Store) GetULong(dst *uint64, key string) bool {
	v, ok := s.m[key]
	if !ok {
		return false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return false
	}
	*dst = n
	return true
}

// GetBool parses the value of key as "true"/"false" (case-insensitive) or
// as an integer, where nonzero means true.
func (s *Store) GetBool(dst *bool, key string) bool {
	v, ok := s.m[key]
	if !ok {
		return false
	}
	return ParseBool(dst, v)
}

// ParseBool parses str as a boolean the way GetBool does, leaving dst
// untouched on failure.
func ParseBool(dst *bool, str string) bool {
	word := strings.TrimSpace(str)
	switch strings.ToLower(word) {
	case "true":
		*dst = true
		return true
	case "false":
		*dst = false
		return true
	}
	n, err := strconv.ParseInt(word, 10, 64)
	if err != nil {
		return false
	}
	*dst = n != 0
	return true
}
