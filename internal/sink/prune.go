// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package sink

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/petar-djukic/rawaccess/internal/emit"
)

// Stale returns the generated Go files below outDir that keep does not
// list. outDir and the returned paths are slash-separated and relative to
// moduleDir. Hand-written files are never reported.
func Stale(moduleDir, outDir string, keep map[string]bool) ([]string, error) {
	base := filepath.Join(moduleDir, filepath.FromSlash(outDir))
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil, nil
	}

	var stale []string
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".go") {
			return nil
		}
		rel, err := filepath.Rel(moduleDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if keep[rel] {
			return nil
		}
		src, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if emit.IsGenerated(src) {
			stale = append(stale, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", outDir)
	}

	sort.Strings(stale)
	return stale, nil
}

// Prune removes the stale files below outDir and any directory they leave
// empty. It returns the removed paths.
func Prune(ctx context.Context, moduleDir, outDir string, keep map[string]bool, logger *zap.SugaredLogger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	stale, err := Stale(moduleDir, outDir, keep)
	if err != nil {
		return nil, err
	}

	top := path.Clean(outDir)
	for _, rel := range stale {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := os.Remove(filepath.Join(moduleDir, filepath.FromSlash(rel))); err != nil {
			return nil, errors.Wrapf(err, "removing %s", rel)
		}
		logger.Infow("pruned stale file", "path", rel)

		for dir := path.Dir(rel); dir != top && strings.HasPrefix(dir, top+"/"); dir = path.Dir(dir) {
			// Fails, and stops the climb, once a directory still has entries.
			if os.Remove(filepath.Join(moduleDir, filepath.FromSlash(dir))) != nil {
				break
			}
		}
	}
	return stale, nil
}
