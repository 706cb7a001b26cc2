// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package sink delivers rendered companion files: to disk, to memory, or
// as a diff against what is on disk.
package sink

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/petar-djukic/rawaccess/pkg/types"
)

// ErrDuplicatePath is returned when two units of one run map to the same
// file.
var ErrDuplicatePath = errors.New("path written twice in one run")

// Verify interface compliance at compile time.
var (
	_ types.Sink = (*FilesystemSink)(nil)
	_ types.Sink = (*MemorySink)(nil)
	_ types.Sink = (*DiffSink)(nil)
)

// FilesystemSink writes files below a module directory. Files whose
// content already matches are left untouched so their modification times
// survive regeneration.
type FilesystemSink struct {
	root   string
	logger *zap.SugaredLogger

	mu      sync.Mutex
	status  map[string]types.FileStatus
	ordered []string
}

// NewFilesystemSink returns a sink rooted at dir. A nil logger disables
// logging.
func NewFilesystemSink(dir string, logger *zap.SugaredLogger) *FilesystemSink {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &FilesystemSink{
		root:   dir,
		logger: logger,
		status: make(map[string]types.FileStatus),
	}
}

// Write stores src at the slash-separated path rel.
func (s *FilesystemSink) Write(ctx context.Context, rel string, src []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel = path.Clean(rel)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.status[rel]; dup {
		return errors.Wrapf(ErrDuplicatePath, "%s", rel)
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	st := types.Added
	if old, err := os.ReadFile(full); err == nil {
		if bytes.Equal(old, src) {
			st = types.Unchanged
		} else {
			st = types.Modified
		}
	}

	if st != types.Unchanged {
		if err := atomicWrite(full, src); err != nil {
			return errors.Wrapf(err, "writing %s", rel)
		}
		s.logger.Debugw("wrote file", "path", rel, "status", st.String())
	}

	s.status[rel] = st
	s.ordered = append(s.ordered, rel)
	return nil
}

// Written returns every path written in this run, in write order.
func (s *FilesystemSink) Written() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ordered...)
}

// Changed returns the sorted paths whose on-disk content changed.
func (s *FilesystemSink) Changed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for p, st := range s.status {
		if st != types.Unchanged {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Status returns the status recorded for rel and whether it was written.
func (s *FilesystemSink) Status(rel string) (types.FileStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.status[path.Clean(rel)]
	return st, ok
}

// atomicWrite writes data to a temp file in the target directory and
// renames it into place. Existing permissions are kept; new files get
// 0644.
func atomicWrite(p string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(p); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".rawaccess-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return errors.Wrap(err, "setting permissions")
	}
	if err := os.Rename(tmpName, p); err != nil {
		return errors.Wrapf(err, "renaming temp file to %s", p)
	}

	success = true
	return nil
}
