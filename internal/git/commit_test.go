// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommit_StagesOnlyChangedFiles(t *testing.T) {
	dir := initTestRepo(t)
	writeFile(t, dir, "rawaccess/doc.go", "package rawaccess\n")
	writeFile(t, dir, "rawaccess/model/holderrawaccess/holder_rawaccess.go", "package holderrawaccess\n")
	writeFile(t, dir, "scratch.txt", "not generated\n")

	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	hash, err := repo.Commit(Change{
		Types:   []string{"example.com/app/model.Holder"},
		Written: []string{"rawaccess/doc.go", "rawaccess/model/holderrawaccess/holder_rawaccess.go"},
	})
	require.NoError(t, err)
	assert.Len(t, hash, 40)

	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	ok, err := repo.IsGeneratedCommit()
	require.NoError(t, err)
	assert.True(t, ok)

	r, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)
	status, err := wt.Status()
	require.NoError(t, err)
	assert.Equal(t, gogit.Untracked, status.File("scratch.txt").Worktree)
	_, pending := status["rawaccess/doc.go"]
	assert.False(t, pending, "committed file has no pending change")
}

func TestCommit_Removals(t *testing.T) {
	dir := initTestRepo(t)
	addFileAndCommit(t, dir, "rawaccess/old/oldrawaccess/old_rawaccess.go", "package oldrawaccess\n", "add old")
	require.NoError(t, os.Remove(filepath.Join(dir, "rawaccess", "old", "oldrawaccess", "old_rawaccess.go")))

	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	_, err = repo.Commit(Change{Removed: []string{
		"rawaccess/old/oldrawaccess/old_rawaccess.go",
		"rawaccess/never/tracked.go",
	}})
	require.NoError(t, err)

	dirty, err := repo.IsDirty("")
	require.NoError(t, err)
	assert.False(t, dirty)

	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCommit_EmptyChange(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	hash, err := repo.Commit(Change{Types: []string{"a.A"}})
	require.NoError(t, err)
	assert.Empty(t, hash)

	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUndo_RevertsGeneratedCommit(t *testing.T) {
	dir := initTestRepo(t)
	writeFile(t, dir, "rawaccess/doc.go", "package rawaccess\n")

	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)
	_, err = repo.Commit(Change{Written: []string{"rawaccess/doc.go"}})
	require.NoError(t, err)

	require.NoError(t, repo.Undo())

	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = os.Stat(filepath.Join(dir, "rawaccess", "doc.go"))
	assert.NoError(t, err, "soft reset keeps the files")
}

func TestUndo_RefusesOtherCommits(t *testing.T) {
	dir := initTestRepo(t)
	addFileAndCommit(t, dir, "main.go", "package main\n", "feat: hand-written")

	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	err = repo.Undo()
	assert.True(t, errors.Is(err, ErrNotGeneratedCommit))

	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUndo_InitialCommit(t *testing.T) {
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	writeFile(t, dir, "rawaccess/doc.go", "package rawaccess\n")

	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)
	_, err = repo.Commit(Change{Written: []string{"rawaccess/doc.go"}})
	require.NoError(t, err)

	err = repo.Undo()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial commit")
}
