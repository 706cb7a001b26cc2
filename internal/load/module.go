// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package load

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"golang.org/x/mod/modfile"
)

// FindModule returns the module path and root directory of the module
// containing dir, located through the nearest go.mod at or above it.
func FindModule(dir string) (modulePath, moduleDir string, err error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", "", errors.Wrapf(err, "resolving %s", dir)
	}

	for d := abs; ; d = filepath.Dir(d) {
		data, err := os.ReadFile(filepath.Join(d, "go.mod"))
		if err == nil {
			p := modfile.ModulePath(data)
			if p == "" {
				return "", "", errors.Wrapf(ErrNoModule, "%s has no module directive", filepath.Join(d, "go.mod"))
			}
			return p, d, nil
		}
		if !os.IsNotExist(err) {
			return "", "", errors.Wrapf(err, "reading go.mod in %s", d)
		}
		if filepath.Dir(d) == d {
			return "", "", errors.Wrapf(ErrNoModule, "no go.mod at or above %s", abs)
		}
	}
}
