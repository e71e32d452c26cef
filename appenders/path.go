package appenders

import (
	"errors"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"github.com/canopylog/canopy/selflog"
)

// makeDirs creates the missing parent directories of filePath before the
// file sink opens it.
func makeDirs(filePath string) {
	components, special, ok := splitPath(filePath, runtime.GOOS == "windows", cwdComponents)
	if !ok || len(components) <= 1 {
		return
	}

	// The last component is the file itself.
	components = components[:len(components)-1]

	sep := "/"
	if runtime.GOOS == "windows" {
		sep = "\\"
	}

	// Components inside the special prefix (drive, UNC host and share,
	// device designator) are never candidates for mkdir.
	path := strings.Join(components[:min(special, len(components))], sep)
	for i := special; i < len(components); i++ {
		if i > 0 {
			path += sep
		}
		path += components[i]
		err := os.Mkdir(path, 0777)
		if err != nil && !errors.Is(err, fs.ErrExist) {
			selflog.Errorf("failed to create directory %s: %v", path, err)
			return
		}
	}
}

// cwdComponents returns the process working directory split into path
// components, for expanding relative paths.
func cwdComponents(windows bool) ([]string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		selflog.Errorf("getwd: %v", err)
		return nil, false
	}
	return splitComponents(cwd, windows), true
}

// splitComponents splits path at separators; on Windows both separators
// are recognized.
func splitComponents(path string, windows bool) []string {
	isSep := func(c byte) bool {
		if windows {
			return c == '\\' || c == '/'
		}
		return c == '/'
	}

	var components []string
	start := 0
	for i := 0; i < len(path); i++ {
		if isSep(path[i]) {
			components = append(components, path[start:i])
			start = i + 1
		}
	}
	components = append(components, path[start:])
	return components
}

// removeEmpty drops empty components at index >= keep; the leading special
// components that encode the path kind stay in place.
func removeEmpty(components []string, keep int) []string {
	out := components[:keep]
	for _, c := range components[keep:] {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func isDriveLetter(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	}
	return false
}

// splitPath splits path into components and reports how many leading
// components form a special prefix that must not be handed to mkdir.
// Recognized Windows forms: \\?\UNC\host\share, \\?\C: (including
// drive-relative \\?\C:rel), \\host\share, \\.\device, \path (current
// drive), C: and C:rel. Relative paths are expanded against the working
// directory supplied by cwd and re-recognized.
func splitPath(path string, windows bool, cwd func(bool) ([]string, bool)) (components []string, special int, ok bool) {
	components = splitComponents(path, windows)

	for {
		n := len(components)

		if windows {
			switch {
			// "" "" "?" "UNC" "host" "share" "file or dir"
			case n >= 7 && components[0] == "" && components[1] == "" &&
				components[2] == "?" && strings.EqualFold(components[3], "UNC"):
				components = removeEmpty(components, 2)
				return components, 6, len(components) >= 7

			// "" "" "?" "C:" ... or "" "" "?" "host" "share" ...
			case n >= 5 && components[0] == "" && components[1] == "" && components[2] == "?":
				components = removeEmpty(components, 2)
				if c := components[3]; len(c) >= 2 && isDriveLetter(c[0]) && c[1] == ':' {
					if len(c) > 2 {
						var done bool
						components, done = expandDriveRelative(components, 3, windows, cwd)
						if !done {
							return nil, 0, false
						}
					}
					return components, 4, len(components) >= 5
				}
				return components, 5, len(components) >= 6

			// "" "" "." "device"
			case n >= 4 && components[0] == "" && components[1] == "" && components[2] == ".":
				components = removeEmpty(components, 3)
				return components, 3, len(components) >= 4

			// "" "" "host" "share" "file or dir"
			case n >= 5 && components[0] == "" && components[1] == "":
				components = removeEmpty(components, 2)
				return components, 4, len(components) >= 5

			// "\path\to\file" is relative to the current drive.
			case n >= 2 && components[0] == "" && components[1] != "":
				components = removeEmpty(components, 1)
				drive, found := currentDrive(cwd, windows)
				if !found {
					return nil, 0, false
				}
				components[0] = drive
				return components, 1, true

			// "C:\file", "C:relpath\file"
			case n >= 1 && len(components[0]) >= 2 && isDriveLetter(components[0][0]) && components[0][1] == ':':
				first := components[0]
				components = removeEmpty(components, 1)
				if len(first) > 2 {
					var done bool
					components, done = expandDriveRelative(components, 0, windows, cwd)
					if !done {
						return nil, 0, false
					}
				}
				return components, 1, len(components) >= 2
			}
		} else if n >= 2 && components[0] == "" {
			// "/var/log/foo.0"
			components = removeEmpty(components, 1)
			return components, 1, len(components) >= 2
		}

		// A relative path: expand against the working directory and try
		// the recognition again.
		components = removeEmpty(components, 0)
		cwdParts, found := cwd(windows)
		if !found {
			return nil, 0, false
		}
		components = append(append([]string{}, cwdParts...), components...)
	}
}

// expandDriveRelative turns the "C:relpath" component at index into the
// drive's working directory followed by relpath. Only the process working
// directory is available, so expansion succeeds only when it lives on the
// same drive.
func expandDriveRelative(components []string, index int, windows bool, cwd func(bool) ([]string, bool)) ([]string, bool) {
	rel := components[index][2:]
	drive := components[index][:2]

	cwdParts, found := cwd(windows)
	if !found || len(cwdParts) == 0 || !strings.EqualFold(cwdParts[0], drive) {
		selflog.Errorf("cannot resolve drive-relative path %s", components[index])
		return nil, false
	}

	out := append([]string{}, components[:index]...)
	out = append(out, cwdParts...)
	out = append(out, rel)
	out = append(out, components[index+1:]...)
	return out, true
}

func currentDrive(cwd func(bool) ([]string, bool), windows bool) (string, bool) {
	cwdParts, found := cwd(windows)
	if !found || len(cwdParts) == 0 {
		return "", false
	}
	c := cwdParts[0]
	if len(c) >= 2 && isDriveLetter(c[0]) && c[1] == ':' {
		return c[:2], true
	}
	// The working directory is not on a drive; it is likely on a share.
	return "", false
}
