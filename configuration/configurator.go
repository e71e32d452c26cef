package configuration

import (
	"io"
	"strings"

	"github.com/canopylog/canopy"
	"github.com/canopylog/canopy/core"
	"github.com/canopylog/canopy/properties"
	"github.com/canopylog/canopy/selflog"
)

// propertyPrefix is stripped from every key before the configurator
// interprets it.
const propertyPrefix = "log4cplus."

// PropertyConfigurator applies a property file to a hierarchy: it
// instantiates the configured appenders through the factory registries,
// then wires levels and appender lists onto the loggers. Errors are
// reported through selflog and the pass continues best-effort, so a
// partially valid file still yields a usable setup.
type PropertyConfigurator struct {
	h     *canopy.Hierarchy
	props *properties.Store

	// staged appenders by configuration name, shared among the loggers
	// that reference them. Cleared when the pass finishes.
	appenders map[string]core.Appender
}

// NewPropertyConfigurator creates a configurator over the given
// properties; keys without the "log4cplus." prefix are ignored.
func NewPropertyConfigurator(props *properties.Store, h *canopy.Hierarchy) *PropertyConfigurator {
	return &PropertyConfigurator{
		h:         h,
		props:     props.Subset(propertyPrefix),
		appenders: make(map[string]core.Appender),
	}
}

// ConfigureFile loads a property file and applies it to the default
// hierarchy.
func ConfigureFile(path string) error {
	props, err := properties.LoadFile(path)
	if err != nil {
		return err
	}
	Configure(props)
	return nil
}

// ConfigureReader loads properties from r and applies them to the default
// hierarchy.
func ConfigureReader(r io.Reader) error {
	props, err := properties.Load(r)
	if err != nil {
		return err
	}
	Configure(props)
	return nil
}

// Configure applies already-loaded properties to the default hierarchy.
func Configure(props *properties.Store) {
	NewPropertyConfigurator(props, canopy.DefaultHierarchy()).Configure()
}

// Configure runs the configuration pass.
func (pc *PropertyConfigurator) Configure() {
	var internalDebugging bool
	if pc.props.GetBool(&internalDebugging, "configDebug") {
		selflog.SetInternalDebugging(internalDebugging)
	}

	var quietMode bool
	if pc.props.GetBool(&quietMode, "quietMode") {
		selflog.SetQuietMode(quietMode)
	}

	var disableOverride bool
	pc.props.GetBool(&disableOverride, "disableOverride")

	canopy.Initialize()
	pc.configureAppenders()
	pc.configureLoggers()

	if disableOverride {
		pc.h.Disable(core.DisableOverride)
	}

	// Drop the staging map so unreferenced appenders are not artificially
	// kept alive.
	pc.appenders = make(map[string]core.Appender)
}

// configureAppenders instantiates every "appender.<name> = <type>" entry
// with its "appender.<name>." property subset.
func (pc *PropertyConfigurator) configureAppenders() {
	appenderProps := pc.props.Subset("appender.")
	for _, name := range appenderProps.Names() {
		if strings.ContainsRune(name, '.') {
			continue
		}

		factoryName := appenderProps.Get(name)
		factory, ok := AppenderFactories.Get(factoryName)
		if !ok {
			selflog.Errorf("cannot find AppenderFactory: %s", factoryName)
			continue
		}

		a, err := factory(appenderProps.Subset(name + "."))
		if err != nil {
			selflog.Errorf("failed to create appender %s: %v", name, err)
			continue
		}
		a.SetName(name)
		pc.appenders[name] = a
	}
}

func (pc *PropertyConfigurator) configureLoggers() {
	if pc.props.Exists("rootLogger") {
		pc.configureLogger(pc.h.Root(), pc.props.Get("rootLogger"))
	}

	loggerProps := pc.props.Subset("logger.")
	for _, name := range loggerProps.Names() {
		pc.configureLogger(pc.h.GetLogger(name), loggerProps.Get(name))
	}
}

// configureLogger applies a "LEVEL[,APPENDER]*" config string: the level
// (INHERITED means NotSet), then a replacement appender list resolved
// against the staged appenders.
func (pc *PropertyConfigurator) configureLogger(l *canopy.Logger, config string) {
	tokens := strings.Split(strings.ReplaceAll(config, " ", ""), ",")
	if len(tokens) == 0 || tokens[0] == "" {
		selflog.Errorf("invalid config string for logger (%s): %q", l.Name(), config)
		return
	}

	if level := tokens[0]; level == "INHERITED" {
		l.SetLevel(core.NotSet)
	} else {
		l.SetLevel(core.LevelFromString(level))
	}

	// Replace the appender list wholesale so repeated configuration does
	// not duplicate output.
	l.RemoveAllAppenders()

	for _, name := range tokens[1:] {
		if name == "" {
			continue
		}
		a, ok := pc.appenders[name]
		if !ok {
			selflog.Errorf("invalid appender: %s", name)
			continue
		}
		l.AddAppender(a)
	}
}

// BasicConfigure attaches a single console appender to the root logger at
// Debug, via the same property path as a file-driven configuration.
func BasicConfigure(logToStdErr bool) {
	props := properties.New()
	props.Set("log4cplus.rootLogger", "DEBUG, STDOUT")
	props.Set("log4cplus.appender.STDOUT", "log4cplus::ConsoleAppender")
	if logToStdErr {
		props.Set("log4cplus.appender.STDOUT.logToStdErr", "1")
	} else {
		props.Set("log4cplus.appender.STDOUT.logToStdErr", "0")
	}
	Configure(props)
}
