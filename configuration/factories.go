package configuration

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/canopylog/canopy/appenders"
	"github.com/canopylog/canopy/core"
	"github.com/canopylog/canopy/filters"
	"github.com/canopylog/canopy/layouts"
	"github.com/canopylog/canopy/properties"
	"github.com/canopylog/canopy/selflog"
)

// applyAppenderProps wires the properties every appender understands:
// layout, Threshold and the numbered filter chain. Filter numbering must
// be consecutive from 1; a gap terminates the chain.
func applyAppenderProps(a core.Appender, props *properties.Store) {
	if props.Exists("layout") {
		factoryName := props.Get("layout")
		if factory, ok := LayoutFactories.Get(factoryName); !ok {
			selflog.Errorf("cannot find LayoutFactory: %s", factoryName)
		} else if layout, err := factory(props.Subset("layout.")); err != nil {
			selflog.Errorf("error while creating layout: %v", err)
		} else {
			a.SetLayout(layout)
		}
	}

	if props.Exists("Threshold") {
		a.SetThreshold(core.LevelFromString(strings.ToUpper(props.Get("Threshold"))))
	}

	filterProps := props.Subset("filters.")
	for i := 1; ; i++ {
		key := strconv.Itoa(i)
		if !filterProps.Exists(key) {
			break
		}
		factoryName := filterProps.Get(key)
		factory, ok := FilterFactories.Get(factoryName)
		if !ok {
			selflog.Errorf("cannot find FilterFactory: %s", factoryName)
			continue
		}
		f, err := factory(filterProps.Subset(key + "."))
		if err != nil {
			selflog.Errorf("failed to create filter %s: %v", key, err)
			continue
		}
		a.AddFilter(f)
	}
}

func consoleAppenderFactory(props *properties.Store) (core.Appender, error) {
	var toStderr, immediateFlush bool
	props.GetBool(&toStderr, "logToStdErr")
	props.GetBool(&immediateFlush, "ImmediateFlush")

	a := appenders.NewConsoleAppender(toStderr, immediateFlush)
	applyAppenderProps(a, props)
	return a, nil
}

func nullAppenderFactory(props *properties.Store) (core.Appender, error) {
	a := appenders.NewNullAppender()
	applyAppenderProps(a, props)
	return a, nil
}

func customAppenderFactory(props *properties.Store) (core.Appender, error) {
	a := appenders.NewCustomAppender()
	applyAppenderProps(a, props)
	return a, nil
}

// fileOptionsFromProps reads the options shared by the file appender
// family.
func fileOptionsFromProps(props *properties.Store, appendDefault bool) appenders.FileOptions {
	opts := appenders.FileOptions{
		File:           props.Get("File"),
		Append:         appendDefault,
		ImmediateFlush: true,
		ReopenDelay:    time.Second,
	}
	props.GetBool(&opts.ImmediateFlush, "ImmediateFlush")
	props.GetBool(&opts.Append, "Append")
	props.GetBool(&opts.CreateDirs, "CreateDirs")
	props.GetInt(&opts.BufferSize, "BufferSize")

	var reopenDelay int
	if props.GetInt(&reopenDelay, "ReopenDelay") {
		opts.ReopenDelay = time.Duration(reopenDelay) * time.Second
	}
	return opts
}

func fileAppenderFactory(props *properties.Store) (core.Appender, error) {
	a, err := appenders.NewFileAppender(fileOptionsFromProps(props, false))
	if err != nil {
		return nil, err
	}
	applyAppenderProps(a, props)
	return a, nil
}

// parseMaxFileSize understands the optional KB and MB suffixes.
func parseMaxFileSize(raw string) (int64, bool) {
	tmp := strings.ToUpper(strings.TrimSpace(raw))
	if tmp == "" {
		return 0, false
	}

	multiplier := int64(1)
	if rest, ok := strings.CutSuffix(tmp, "MB"); ok {
		multiplier = 1024 * 1024
		tmp = rest
	} else if rest, ok := strings.CutSuffix(tmp, "KB"); ok {
		multiplier = 1024
		tmp = rest
	}

	n, err := strconv.ParseInt(strings.TrimSpace(tmp), 10, 64)
	if err != nil {
		selflog.Errorf("unable to parse MaxFileSize: %s", raw)
		return 0, false
	}
	return n * multiplier, true
}

func rollingFileAppenderFactory(props *properties.Store) (core.Appender, error) {
	opts := appenders.RollingFileOptions{
		FileOptions:    fileOptionsFromProps(props, true),
		MaxBackupIndex: 1,
	}
	if size, ok := parseMaxFileSize(props.Get("MaxFileSize")); ok {
		opts.MaxFileSize = size
	}
	props.GetInt(&opts.MaxBackupIndex, "MaxBackupIndex")

	a, err := appenders.NewRollingFileAppender(opts)
	if err != nil {
		return nil, err
	}
	applyAppenderProps(a, props)
	return a, nil
}

func dailyRollingFileAppenderFactory(props *properties.Store) (core.Appender, error) {
	opts := appenders.DailyRollingFileOptions{
		FileOptions:    fileOptionsFromProps(props, true),
		Schedule:       appenders.ScheduleFromString(props.Get("Schedule")),
		MaxBackupIndex: 10,
	}
	props.GetInt(&opts.MaxBackupIndex, "MaxBackupIndex")

	a, err := appenders.NewDailyRollingFileAppender(opts)
	if err != nil {
		return nil, err
	}
	applyAppenderProps(a, props)
	return a, nil
}

func simpleLayoutFactory(*properties.Store) (core.Layout, error) {
	return layouts.NewSimpleLayout(), nil
}

func patternLayoutFactory(props *properties.Store) (core.Layout, error) {
	hasPattern := props.Exists("Pattern")
	hasConversionPattern := props.Exists("ConversionPattern")

	if hasPattern {
		selflog.Warnf("PatternLayout: the Pattern property has been deprecated, use ConversionPattern instead")
	}

	switch {
	case hasConversionPattern:
		return layouts.NewPatternLayout(props.Get("ConversionPattern")), nil
	case hasPattern:
		return layouts.NewPatternLayout(props.Get("Pattern")), nil
	default:
		return nil, errors.New("ConversionPattern not specified in properties")
	}
}

func denyAllFilterFactory(*properties.Store) (core.Filter, error) {
	return filters.NewDenyAllFilter(), nil
}

func levelMatchFilterFactory(props *properties.Store) (core.Filter, error) {
	level := core.LevelFromString(props.Get("LogLevelToMatch"))
	acceptOnMatch := true
	props.GetBool(&acceptOnMatch, "AcceptOnMatch")
	return filters.NewLevelMatchFilter(level, acceptOnMatch), nil
}

func levelRangeFilterFactory(props *properties.Store) (core.Filter, error) {
	min := core.LevelFromString(props.Get("LogLevelMin"))
	max := core.LevelFromString(props.Get("LogLevelMax"))
	acceptOnMatch := true
	props.GetBool(&acceptOnMatch, "AcceptOnMatch")
	return filters.NewLevelRangeFilter(min, max, acceptOnMatch), nil
}
