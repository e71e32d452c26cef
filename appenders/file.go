package appenders

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/canopylog/canopy/core"
	"github.com/canopylog/canopy/internal/bufpool"
	"github.com/canopylog/canopy/selflog"
)

// FileOptions configures a FileAppender.
type FileOptions struct {
	// File is the path of the log file. Required.
	File string

	// Append opens the file in append mode instead of truncating it.
	Append bool

	// ImmediateFlush flushes the stream after every event.
	ImmediateFlush bool

	// ReopenDelay is the wait before a failed stream is reopened.
	// Zero reopens immediately; the property configurator sets one second
	// when the ReopenDelay property is absent.
	ReopenDelay time.Duration

	// BufferSize is the size of the user-space write buffer; zero writes
	// straight through to the file.
	BufferSize int

	// CreateDirs creates missing parent directories before opening.
	CreateDirs bool
}

// FileAppender writes events to a single file. A failed stream engages a
// reopen-delay state machine: the first failure schedules the earliest
// reopen attempt, writes before that point report through the error
// handler without touching the disk, and a successful reopen re-arms the
// handler.
type FileAppender struct {
	base
	path           string
	file           *os.File
	w              *bufio.Writer
	immediateFlush bool
	createDirs     bool
	bufferSize     int
	reopenDelay    time.Duration
	nextReopen     time.Time
	healthy        bool
	size           int64

	// now is replaced in tests that drive the reopen and rollover clocks.
	now func() time.Time
}

// NewFileAppender opens opts.File and returns the appender.
func NewFileAppender(opts FileOptions) (*FileAppender, error) {
	a := &FileAppender{}
	if err := a.initFile(opts); err != nil {
		return nil, err
	}
	a.emit = a.appendEvent
	return a, nil
}

func (a *FileAppender) initFile(opts FileOptions) error {
	if opts.File == "" {
		return errors.New("file appender requires a file path")
	}

	a.base = newBase()
	a.path = opts.File
	a.immediateFlush = opts.ImmediateFlush
	a.createDirs = opts.CreateDirs
	a.bufferSize = opts.BufferSize
	a.reopenDelay = opts.ReopenDelay
	a.now = time.Now
	a.closeSink = a.closeFile

	if err := a.open(!opts.Append); err != nil {
		return fmt.Errorf("unable to open file %s: %w", a.path, err)
	}
	selflog.Debugf("just opened file %s", a.path)
	return nil
}

// open opens the target file and primes the size counter from its current
// length. Called with the appender mutex held (or before the appender is
// shared).
func (a *FileAppender) open(truncate bool) error {
	if a.createDirs {
		makeDirs(a.path)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	file, err := os.OpenFile(a.path, flags, 0644)
	if err != nil {
		return err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}

	a.file = file
	a.size = info.Size()
	if a.bufferSize > 0 {
		a.w = bufio.NewWriterSize(file, a.bufferSize)
	} else {
		a.w = nil
	}
	a.healthy = true
	return nil
}

func (a *FileAppender) closeFile() error {
	if a.file == nil {
		return nil
	}
	if a.w != nil {
		a.w.Flush()
		a.w = nil
	}
	err := a.file.Close()
	a.file = nil
	a.healthy = false
	if err != nil {
		return fmt.Errorf("failed to close log file %s: %w", a.path, err)
	}
	return nil
}

// appendEvent is the sink write for the plain file appender; the rolling
// appenders route through it after their rollover checks.
func (a *FileAppender) appendEvent(ev *core.LogEvent) {
	if !a.healthy {
		if !a.reopen() {
			a.errorHandler.Error("file is not open: " + a.path)
			return
		}
		// The stream is good again; make the handler ready for a future
		// append error.
		a.errorHandler.Reset()
	}

	buf := a.format(ev)
	defer bufpool.Put(buf)

	n, err := a.write(buf.Bytes())
	a.size += int64(n)
	if err != nil {
		a.healthy = false
		a.errorHandler.Error("failed to write to " + a.path + ": " + err.Error())
		return
	}

	if a.immediateFlush {
		a.flush()
	}
}

func (a *FileAppender) write(p []byte) (int, error) {
	if a.w != nil {
		return a.w.Write(p)
	}
	return a.file.Write(p)
}

func (a *FileAppender) flush() {
	if a.w != nil {
		if err := a.w.Flush(); err != nil {
			a.healthy = false
			a.errorHandler.Error("failed to flush " + a.path + ": " + err.Error())
		}
	}
}

// reopen tries to bring an unhealthy stream back. The first unhealthy
// observation only schedules the earliest reopen attempt; until that time
// arrives reopen returns false without touching the file.
func (a *FileAppender) reopen() bool {
	now := a.now()

	if a.nextReopen.IsZero() && a.reopenDelay != 0 {
		a.nextReopen = now.Add(a.reopenDelay)
		return false
	}

	if a.reopenDelay != 0 && now.Before(a.nextReopen) {
		return false
	}

	if a.file != nil {
		a.file.Close()
		a.file = nil
		a.w = nil
	}
	if err := a.open(false); err != nil {
		return false
	}
	a.nextReopen = time.Time{}
	return true
}

// fileRename renames src to dst. On Windows the target is removed first
// because renaming over an existing file is not allowed there.
func fileRename(src, dst string) error {
	removeRenameTarget(dst)
	return os.Rename(src, dst)
}

func logRenameResult(src, dst string, err error) {
	if err == nil {
		selflog.Debugf("renamed file %s to %s", src, dst)
	} else if !errors.Is(err, fs.ErrNotExist) {
		selflog.Errorf("failed to rename file from %s to %s: %v", src, dst, err)
	}
}
