// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"time"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Change is the set of files one generation run touched. Paths are
// slash-separated and relative to the module directory.
type Change struct {
	Types   []string // Qualified names of the types that produced output
	Written []string // Added or modified files
	Removed []string // Pruned files
}

// Empty reports whether the change touches no file.
func (c Change) Empty() bool {
	return len(c.Written) == 0 && len(c.Removed) == 0
}

// Commit stages exactly the files of c and commits them with a generated
// message carrying the rawaccess trailer. It returns the commit hash, or ""
// when there is nothing to commit.
func (r *Repo) Commit(c Change) (string, error) {
	if c.Empty() {
		return "", nil
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return "", errors.Wrap(err, "getting worktree")
	}

	for _, f := range c.Written {
		if _, err := wt.Add(r.repoPath(f)); err != nil {
			return "", errors.Wrapf(err, "staging %s", f)
		}
	}
	for _, f := range c.Removed {
		// Untracked files have nothing to stage.
		if _, err := wt.Remove(r.repoPath(f)); err != nil && !errors.Is(err, index.ErrEntryNotFound) {
			return "", errors.Wrapf(err, "staging removal of %s", f)
		}
	}

	hash, err := wt.Commit(GenerateMessage(c), &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  r.cfg.AuthorName,
			Email: r.cfg.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "committing")
	}
	return hash.String(), nil
}

// Undo reverts the last commit if rawaccess made it. It resets softly to
// the parent so the regenerated files stay in the working tree.
func (r *Repo) Undo() error {
	generated, err := r.IsGeneratedCommit()
	if err != nil {
		return err
	}
	if !generated {
		return ErrNotGeneratedCommit
	}

	head, err := r.repo.Head()
	if err != nil {
		return errors.Wrap(err, "getting HEAD")
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return errors.Wrap(err, "getting commit")
	}
	if commit.NumParents() == 0 {
		return errors.New("cannot undo: HEAD is the initial commit")
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return errors.Wrap(err, "getting parent commit")
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return errors.Wrap(err, "getting worktree")
	}
	if err := wt.Reset(&gogit.ResetOptions{Commit: parent.Hash, Mode: gogit.SoftReset}); err != nil {
		return errors.Wrap(err, "resetting to parent")
	}
	return nil
}
