// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git commits regenerated companion files and undoes such commits.
package git

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const generatedTrailer = "Generated-By: rawaccess"

// ErrNotGeneratedCommit is returned when undo targets a commit that
// rawaccess did not make.
var ErrNotGeneratedCommit = errors.New("not a rawaccess commit")

// ErrDirtyOutput is returned when the output tree has uncommitted changes
// that a commit would sweep up.
var ErrDirtyOutput = errors.New("uncommitted changes in generated output")

// ErrNoGit is returned when the module is not inside a git repository.
var ErrNoGit = errors.New("not a git repository")

// Config configures git integration.
type Config struct {
	WorkDir     string // Module directory; the repository may be an ancestor
	AuthorName  string // Default "rawaccess"
	AuthorEmail string // Default "noreply@rawaccess"
}

// Repo wraps a go-git repository for the operations we need.
type Repo struct {
	repo   *gogit.Repository
	cfg    Config
	prefix string // Module directory relative to the worktree root, slash-separated
}

// Open opens the repository containing cfg.WorkDir.
func Open(cfg Config) (*Repo, error) {
	if cfg.AuthorName == "" {
		cfg.AuthorName = "rawaccess"
	}
	if cfg.AuthorEmail == "" {
		cfg.AuthorEmail = "noreply@rawaccess"
	}

	r, err := gogit.PlainOpenWithOptions(cfg.WorkDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrapf(ErrNoGit, "%s: %v", cfg.WorkDir, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, "getting worktree")
	}

	abs, err := filepath.Abs(cfg.WorkDir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", cfg.WorkDir)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", cfg.WorkDir)
	}
	root, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		return nil, errors.Wrap(err, "resolving worktree root")
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return nil, errors.Wrap(err, "locating module in worktree")
	}
	prefix := filepath.ToSlash(rel)
	if prefix == "." {
		prefix = ""
	}

	return &Repo{repo: r, cfg: cfg, prefix: prefix}, nil
}

// repoPath maps a module-relative slash path to a worktree path.
func (r *Repo) repoPath(p string) string {
	if r.prefix == "" {
		return path.Clean(p)
	}
	return path.Join(r.prefix, p)
}

// IsDirty reports whether anything below the module-relative directory
// dir has uncommitted changes. An empty dir checks the whole worktree.
func (r *Repo) IsDirty(dir string) (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, errors.Wrap(err, "getting worktree")
	}
	status, err := wt.Status()
	if err != nil {
		return false, errors.Wrap(err, "getting status")
	}

	if dir == "" && r.prefix == "" {
		return !status.IsClean(), nil
	}
	within := r.repoPath(dir) + "/"
	for file, st := range status {
		if st.Staging == gogit.Unmodified && st.Worktree == gogit.Unmodified {
			continue
		}
		if strings.HasPrefix(file, within) {
			return true, nil
		}
	}
	return false, nil
}

// IsGeneratedCommit reports whether HEAD carries the rawaccess trailer.
func (r *Repo) IsGeneratedCommit() (bool, error) {
	msg, err := r.lastCommitMessage()
	if err != nil {
		return false, err
	}
	return strings.Contains(msg, generatedTrailer), nil
}

func (r *Repo) lastCommitMessage() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", errors.Wrap(err, "getting HEAD")
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", errors.Wrap(err, "getting commit")
	}
	return commit.Message, nil
}

// commitCount returns the total number of commits reachable from HEAD.
func (r *Repo) commitCount() (int, error) {
	iter, err := r.repo.Log(&gogit.LogOptions{})
	if err != nil {
		return 0, err
	}
	count := 0
	err = iter.ForEach(func(c *object.Commit) error {
		count++
		return nil
	})
	return count, err
}
