// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"os"
	"path/filepath"
)

// Locator finds a configuration file in a project root, given the
// accepted filenames in priority order. It reports the first existing
// match, or false when none of the candidates exist.
type Locator interface {
	Locate(dir string, filenames []string) (string, bool)
}

// LocatorFunc is a functional implementation of the Locator interface.
type LocatorFunc func(dir string, filenames []string) (string, bool)

// Locate implements the Locator interface.
func (f LocatorFunc) Locate(dir string, filenames []string) (string, bool) {
	return f(dir, filenames)
}

// defaultLocator probes the root directory for each candidate filename
// in priority order.
var defaultLocator = LocatorFunc(func(dir string, filenames []string) (string, bool) {
	for _, name := range filenames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
})
