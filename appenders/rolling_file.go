package appenders

import (
	"fmt"
	"os"

	"github.com/canopylog/canopy/core"
	"github.com/canopylog/canopy/selflog"
)

const (
	// DefaultMaxFileSize is the rolling size limit when none is configured.
	DefaultMaxFileSize = 10 * 1024 * 1024

	// MinMaxFileSize is the smallest allowed rolling size limit; smaller
	// configurations clamp to it with a warning.
	MinMaxFileSize = 200 * 1024
)

// RollingFileOptions configures a RollingFileAppender.
type RollingFileOptions struct {
	FileOptions

	// MaxFileSize is the size in bytes past which the file rolls over.
	MaxFileSize int64

	// MaxBackupIndex is how many rolled files are retained.
	MaxBackupIndex int
}

// RollingFileAppender writes to a file and rotates it through numbered
// backups once it grows past MaxFileSize: file.1 is the newest backup and
// file.MaxBackupIndex the oldest. The size check uses a byte counter
// maintained by the appender and primed from the file's length at open, so
// a pre-existing oversize file rolls on the first append.
type RollingFileAppender struct {
	FileAppender
	maxFileSize    int64
	maxBackupIndex int
}

// NewRollingFileAppender opens opts.File in append mode and returns the
// appender.
func NewRollingFileAppender(opts RollingFileOptions) (*RollingFileAppender, error) {
	if opts.MaxFileSize == 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.MaxFileSize < MinMaxFileSize {
		selflog.Warnf("RollingFileAppender: MaxFileSize property value is too small, resetting to %d", MinMaxFileSize)
		opts.MaxFileSize = MinMaxFileSize
	}
	if opts.MaxBackupIndex < 1 {
		opts.MaxBackupIndex = 1
	}
	opts.Append = true

	a := &RollingFileAppender{
		maxFileSize:    opts.MaxFileSize,
		maxBackupIndex: opts.MaxBackupIndex,
	}
	if err := a.initFile(opts.FileOptions); err != nil {
		return nil, err
	}
	a.emit = a.appendRolling
	return a, nil
}

// MaxFileSize returns the effective (possibly clamped) size limit.
func (a *RollingFileAppender) MaxFileSize() int64 {
	return a.maxFileSize
}

func (a *RollingFileAppender) appendRolling(ev *core.LogEvent) {
	// Rotate if a previous run left the file oversize.
	if a.size > a.maxFileSize {
		a.rollover()
	}

	a.appendEvent(ev)

	if a.size > a.maxFileSize {
		a.rollover()
	}
}

func (a *RollingFileAppender) rollover() {
	a.closeFile()

	rotateBackups(a.path, a.maxBackupIndex)

	target := fmt.Sprintf("%s.1", a.path)
	selflog.Debugf("renaming file %s to %s", a.path, target)
	err := fileRename(a.path, target)
	logRenameResult(a.path, target, err)

	if err := a.open(true); err != nil {
		selflog.Errorf("failed to open file %s: %v", a.path, err)
	}
}

// rotateBackups shifts the numbered backups of filename up by one:
// filename.maxIndex is removed, then filename.i becomes filename.(i+1)
// for i from maxIndex-1 down to 1.
func rotateBackups(filename string, maxIndex int) {
	os.Remove(fmt.Sprintf("%s.%d", filename, maxIndex))

	for i := maxIndex - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", filename, i)
		dst := fmt.Sprintf("%s.%d", filename, i+1)
		err := fileRename(src, dst)
		logRenameResult(src, dst, err)
	}
}
