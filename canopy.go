// Package canopy is a hierarchical, property-configured logging framework.
// Application code logs through named loggers arranged in a dotted-name
// tree; levels and appender attachments are inherited down the tree, and
// an external property file wires appenders, layouts and filters without
// recompilation. The configuration surface is wire-compatible with
// log4cplus property files.
//
// Basic use:
//
//	configuration.BasicConfigure(false)
//	log := canopy.GetLogger("app.server")
//	log.Infof("listening on %s", addr)
package canopy

// GetLogger returns the named logger from the default hierarchy, creating
// it on first use.
func GetLogger(name string) *Logger {
	return DefaultHierarchy().GetLogger(name)
}

// Root returns the default hierarchy's root logger.
func Root() *Logger {
	return DefaultHierarchy().Root()
}

// Exists reports whether the named logger has been created in the default
// hierarchy.
func Exists(name string) bool {
	return DefaultHierarchy().Exists(name)
}

// CurrentLoggers returns a snapshot of the default hierarchy's loggers,
// excluding the root.
func CurrentLoggers() []*Logger {
	return DefaultHierarchy().CurrentLoggers()
}
