package appenders

import (
	"strings"
	"time"

	"github.com/canopylog/canopy/core"
	"github.com/canopylog/canopy/layouts"
	"github.com/canopylog/canopy/selflog"
)

// Schedule selects the rollover period of a DailyRollingFileAppender.
type Schedule int

const (
	// Monthly rolls at the first of each calendar month.
	Monthly Schedule = iota
	// Weekly rolls every seven days at the start of the week.
	Weekly
	// Daily rolls at midnight.
	Daily
	// TwiceDaily rolls at 00:00 and 12:00.
	TwiceDaily
	// Hourly rolls at the top of each hour.
	Hourly
	// Minutely rolls at the top of each minute.
	Minutely
)

// ScheduleFromString parses a schedule name. Unknown names fall back to
// Daily with a warning.
func ScheduleFromString(name string) Schedule {
	switch strings.ToUpper(name) {
	case "MONTHLY":
		return Monthly
	case "WEEKLY":
		return Weekly
	case "DAILY":
		return Daily
	case "TWICE_DAILY":
		return TwiceDaily
	case "HOURLY":
		return Hourly
	case "MINUTELY":
		return Minutely
	}
	selflog.Warnf("DailyRollingFileAppender: schedule not valid: %s", name)
	return Daily
}

// periodFormat is the strftime format the schedule stamps backup names with.
func (s Schedule) periodFormat() string {
	switch s {
	case Monthly:
		return "%Y-%m"
	case Weekly:
		return "%Y-%W"
	case TwiceDaily:
		return "%Y-%m-%d-%p"
	case Hourly:
		return "%Y-%m-%d-%H"
	case Minutely:
		return "%Y-%m-%d-%H-%M"
	default:
		return "%Y-%m-%d"
	}
}

// DailyRollingFileOptions configures a DailyRollingFileAppender.
type DailyRollingFileOptions struct {
	FileOptions

	// Schedule is the rollover period.
	Schedule Schedule

	// MaxBackupIndex is how many backups are retained per period.
	// Defaults to 10.
	MaxBackupIndex int
}

// DailyRollingFileAppender writes to a file and rotates it on a time
// schedule. The just-finished period's contents move to
// <path>.<period-stamp>; older same-period backups shift through
// <path>.<period-stamp>.1 ... .MaxBackupIndex.
type DailyRollingFileAppender struct {
	FileAppender
	schedule          Schedule
	maxBackupIndex    int
	scheduledFilename string
	nextRollover      time.Time
}

// NewDailyRollingFileAppender opens opts.File in append mode and returns
// the appender.
func NewDailyRollingFileAppender(opts DailyRollingFileOptions) (*DailyRollingFileAppender, error) {
	if opts.MaxBackupIndex == 0 {
		opts.MaxBackupIndex = 10
	}
	if opts.MaxBackupIndex < 1 {
		opts.MaxBackupIndex = 1
	}
	opts.Append = true

	a := &DailyRollingFileAppender{
		schedule:       opts.Schedule,
		maxBackupIndex: opts.MaxBackupIndex,
	}
	if err := a.initFile(opts.FileOptions); err != nil {
		return nil, err
	}

	a.computeSchedule(a.now())
	a.emit = a.appendScheduled
	a.closeSink = a.closeWithRollover
	return a, nil
}

// ScheduledFilename returns the backup name the current period will roll
// into.
func (a *DailyRollingFileAppender) ScheduledFilename() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scheduledFilename
}

// computeSchedule derives the current period's backup name and the next
// rollover instant from t: the period containing t starts at its boundary
// and ends one period later.
func (a *DailyRollingFileAppender) computeSchedule(t time.Time) {
	start := a.periodStart(t.Local())
	a.scheduledFilename = a.path + "." + layouts.Strftime(a.schedule.periodFormat(), start)
	a.nextRollover = a.advancePeriod(start)
}

func (a *DailyRollingFileAppender) periodStart(t time.Time) time.Time {
	year, month, day := t.Date()
	switch a.schedule {
	case Monthly:
		return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	case Weekly:
		return time.Date(year, month, day-int(t.Weekday()), 0, 0, 0, 0, t.Location())
	case Daily:
		return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	case TwiceDaily:
		hour := 0
		if t.Hour() >= 12 {
			hour = 12
		}
		return time.Date(year, month, day, hour, 0, 0, 0, t.Location())
	case Hourly:
		return time.Date(year, month, day, t.Hour(), 0, 0, 0, t.Location())
	default: // Minutely
		return time.Date(year, month, day, t.Hour(), t.Minute(), 0, 0, t.Location())
	}
}

func (a *DailyRollingFileAppender) advancePeriod(start time.Time) time.Time {
	switch a.schedule {
	case Monthly:
		return start.AddDate(0, 1, 0)
	case Weekly:
		return start.AddDate(0, 0, 7)
	case Daily:
		return start.Add(24 * time.Hour)
	case TwiceDaily:
		return start.Add(12 * time.Hour)
	case Hourly:
		return start.Add(time.Hour)
	default: // Minutely
		return start.Add(time.Minute)
	}
}

func (a *DailyRollingFileAppender) appendScheduled(ev *core.LogEvent) {
	if !ev.Timestamp.Before(a.nextRollover) {
		a.rollover()
	}
	a.appendEvent(ev)
}

// rollover moves the finished period aside and reopens a fresh file.
// Rename failures are reported but never fatal: whatever file ends up open
// still receives the event.
func (a *DailyRollingFileAppender) rollover() {
	a.closeFile()

	// If this period already rolled, shift its earlier backups so they are
	// not overwritten.
	rotateBackups(a.scheduledFilename, a.maxBackupIndex)

	backupTarget := a.scheduledFilename + ".1"
	err := fileRename(a.scheduledFilename, backupTarget)
	logRenameResult(a.scheduledFilename, backupTarget, err)

	selflog.Debugf("renaming file %s to %s", a.path, a.scheduledFilename)
	err = fileRename(a.path, a.scheduledFilename)
	logRenameResult(a.path, a.scheduledFilename, err)

	if err := a.open(true); err != nil {
		selflog.Errorf("failed to open file %s: %v", a.path, err)
	}

	if now := a.now(); !now.Before(a.nextRollover) {
		a.computeSchedule(now)
	}
}

// closeWithRollover performs a final rollover so the period that was open
// at shutdown is preserved under its scheduled name.
func (a *DailyRollingFileAppender) closeWithRollover() error {
	a.rollover()
	return a.closeFile()
}
