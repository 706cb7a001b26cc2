// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package rawaccess is the public interface of the rawaccess generator. For
// every type declaration selected by the //rawaccess:generate marker (or a
// host supplied predicate) it writes a companion package of free
// functions: Get<Type> factories forwarding to the type's constructors,
// Get<Member> readers and With<Member> updaters.
package rawaccess

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/petar-djukic/rawaccess/pkg/types"
)

// Error types for the Generator API.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrStale         = errors.New("generated files are out of date")
	ErrVerifyFailed  = errors.New("generated packages failed verification")
)

// Declaration describes a type declaration offered to an Eligible
// predicate.
type Declaration struct {
	PkgPath  string // Import path of the declaring package
	Name     string // Declared type name
	Exported bool
	Marked   bool   // Carries the //rawaccess:generate directive
	Position string // file:line:column of the declared name
}

// Config configures a Generator.
type Config struct {
	Dir         string   // Directory inside the module to generate for (required)
	Patterns    []string // Package patterns; empty means every package holding a marker
	SkipDirs    []string // Directories, relative to Dir, the marker scan skips
	BuildFlags  []string // Passed through to the go tool
	Concurrency int      // Worker count (default runtime.NumCPU())

	OutputRoot string // Module-relative directory of the companion tree (default "rawaccess")
	Suffix     string // Companion package name suffix (default "RawAccess")

	// Eligible replaces the marker test when set. Every type declaration of
	// the loaded packages is offered to it.
	Eligible func(Declaration) bool

	Prune   bool   // Remove generated files no type produces any more
	Verify  bool   // Build and vet the companion packages after writing
	TestCmd string // Run after a clean verification (empty = skip)
	Commit  bool   // Commit the written files with a generated message

	Logger *zap.SugaredLogger // nil disables logging
}

// Result holds the outcome of a Generator call.
type Result struct {
	ModulePath  string
	Files       []string           // Every produced file, bootstrap first, module-relative
	Changed     []string           // Files added or modified on disk, or that would be
	Pruned      []string           // Stale generated files removed, or that would be
	Diagnostics []types.Diagnostic // Types skipped, in discovery order
	Diff        string             // Check only: line diff of every out-of-date file
	Commit      string             // Hash of the commit, when one was made
}

// Generator runs rawaccess against a module.
type Generator interface {
	// Generate writes every companion file to disk and applies the
	// configured prune, verify and commit steps.
	Generate(ctx context.Context) (*Result, error)

	// Check compares what Generate would write with the files on disk
	// without touching them. It returns ErrStale when anything differs.
	Check(ctx context.Context) (*Result, error)

	// Render returns the companion files in memory, keyed by
	// module-relative path.
	Render(ctx context.Context) (map[string][]byte, *Result, error)

	// Undo reverts the last commit when rawaccess made it.
	Undo(ctx context.Context) error
}
