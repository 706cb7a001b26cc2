// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package sink

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/petar-djukic/rawaccess/pkg/types"
)

// FileDiff is the difference between a rendered file and its on-disk copy.
type FileDiff struct {
	Path       string
	Status     types.FileStatus
	Diff       string  // Line diff; each line prefixed with "+", "-" or " "
	Similarity float64 // 1.0 when identical, 0.0 when nothing is shared
}

// DiffSink compares rendered files with the module on disk and writes
// nothing. It backs the check command.
type DiffSink struct {
	root string

	mu    sync.Mutex
	diffs map[string]FileDiff
}

// NewDiffSink returns a sink comparing against files below dir.
func NewDiffSink(dir string) *DiffSink {
	return &DiffSink{root: dir, diffs: make(map[string]FileDiff)}
}

// Write records how src differs from the file at rel.
func (d *DiffSink) Write(ctx context.Context, rel string, src []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel = path.Clean(rel)

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.diffs[rel]; dup {
		return errors.Wrapf(ErrDuplicatePath, "%s", rel)
	}

	old, err := os.ReadFile(filepath.Join(d.root, filepath.FromSlash(rel)))
	switch {
	case os.IsNotExist(err):
		d.diffs[rel] = FileDiff{Path: rel, Status: types.Added, Diff: lineDiff("", string(src))}
	case err != nil:
		return errors.Wrapf(err, "reading %s", rel)
	case string(old) == string(src):
		d.diffs[rel] = FileDiff{Path: rel, Status: types.Unchanged, Similarity: 1}
	default:
		d.diffs[rel] = FileDiff{
			Path:       rel,
			Status:     types.Modified,
			Diff:       lineDiff(string(old), string(src)),
			Similarity: similarity(string(old), string(src)),
		}
	}
	return nil
}

// MarkStale records generated files that would be pruned.
func (d *DiffSink) MarkStale(paths []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, rel := range paths {
		old, err := os.ReadFile(filepath.Join(d.root, filepath.FromSlash(rel)))
		if err != nil {
			return errors.Wrapf(err, "reading %s", rel)
		}
		d.diffs[rel] = FileDiff{Path: rel, Status: types.Stale, Diff: lineDiff(string(old), "")}
	}
	return nil
}

// Diffs returns every recorded file sorted by path.
func (d *DiffSink) Diffs() []FileDiff {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]FileDiff, 0, len(d.diffs))
	for _, fd := range d.diffs {
		out = append(out, fd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Dirty reports whether any file would change.
func (d *DiffSink) Dirty() bool {
	for _, fd := range d.Diffs() {
		if fd.Status != types.Unchanged {
			return true
		}
	}
	return false
}

// Report renders every change, one section per file.
func (d *DiffSink) Report() string {
	var b strings.Builder
	for _, fd := range d.Diffs() {
		if fd.Status == types.Unchanged {
			continue
		}
		b.WriteString("--- " + fd.Path + " (" + fd.Status.String() + ")\n")
		b.WriteString(fd.Diff)
	}
	return b.String()
}

// lineDiff renders a line-oriented diff of a and b.
func lineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var out strings.Builder
	for _, df := range diffs {
		prefix := " "
		switch df.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.SplitAfter(df.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}
	return out.String()
}

// similarity is the Levenshtein similarity ratio of a and b.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	distance := dmp.DiffLevenshtein(dmp.DiffMain(a, b, false))
	maxLen := max(len(a), len(b))
	return 1.0 - float64(distance)/float64(maxLen)
}
