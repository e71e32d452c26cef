//go:build windows

package appenders

import "os"

// Rename-over is not allowed on Windows; the target has to go first.
func removeRenameTarget(dst string) {
	os.Remove(dst)
}
