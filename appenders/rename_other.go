//go:build !windows

package appenders

func removeRenameTarget(string) {}
