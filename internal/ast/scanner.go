// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ast finds type declarations carrying the rawaccess marker
// directive. It parses source files without type information, so it is
// cheap enough to run over a whole module before any package is loaded.
package ast

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// alwaysSkipped are directory names the scan never enters, in addition to
// the ones the go tool ignores ("." and "_" prefixes).
var alwaysSkipped = map[string]bool{
	"vendor":       true,
	"testdata":     true,
	"node_modules": true,
}

// ScanOptions configures ScanDir.
type ScanOptions struct {
	// Concurrency is the number of parser goroutines; <= 0 means
	// runtime.NumCPU().
	Concurrency int

	// SkipDirs lists extra slash-separated directories, relative to the
	// scanned root, that are not descended into (e.g. the companion output
	// root).
	SkipDirs []string
}

// ScanResult holds the output of a directory scan.
type ScanResult struct {
	FileSet *token.FileSet
	Files   map[string]*ast.File // Keyed by slash-separated path relative to the root
	Errors  []ScanError
}

// ScanError records a parse failure for a single file.
type ScanError struct {
	FilePath string
	Err      error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%s: %v", e.FilePath, e.Err)
}

// ScanDir parses every non-test .go file below dir with comments.
//
// Directories the go tool ignores, vendor/, testdata/, opts.SkipDirs and
// anything matched by a .gitignore file of the tree are skipped. Parse
// errors for individual files are collected in ScanResult.Errors but do
// not abort the scan.
func ScanDir(dir string, opts ScanOptions) (*ScanResult, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", dir)
	}
	if err := requireDir(root); err != nil {
		return nil, err
	}

	rels, err := collect(root, opts.SkipDirs)
	if err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	fset := token.NewFileSet()
	files, errs := parseAll(fset, root, rels, concurrency)

	result := &ScanResult{FileSet: fset, Files: make(map[string]*ast.File, len(rels))}
	for i, rel := range rels {
		if errs[i] != nil {
			result.Errors = append(result.Errors, ScanError{FilePath: rel, Err: errs[i]})
		}
		// go/parser may return a partial AST alongside the error.
		if files[i] != nil {
			result.Files[rel] = files[i]
		}
	}
	return result, nil
}

func requireDir(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return errors.Wrapf(err, "stat %s", p)
	}
	if !info.IsDir() {
		return errors.Newf("%s is not a directory", p)
	}
	return nil
}

// collect returns the slash-separated paths, relative to root, of the
// files to parse, in walk order.
func collect(root string, skipDirs []string) ([]string, error) {
	skip := make(map[string]bool, len(skipDirs))
	for _, d := range skipDirs {
		skip[strings.Trim(path.Clean(filepath.ToSlash(d)), "/")] = true
	}

	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil, errors.Wrap(err, "reading .gitignore files")
	}
	ignored := gitignore.NewMatcher(patterns)

	var rels []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || p == root {
			return nil // inaccessible entries are skipped
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.IsDir() {
			if alwaysSkipped[name] || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
				skip[rel] || ignored.Match(strings.Split(rel, "/"), true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			return nil
		}
		if ignored.Match(strings.Split(rel, "/"), false) {
			return nil
		}
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}
	return rels, nil
}

// parseAll parses rels on a bounded pool of goroutines. Results are
// returned by index so callers see them in walk order.
func parseAll(fset *token.FileSet, root string, rels []string, concurrency int) ([]*ast.File, []error) {
	files := make([]*ast.File, len(rels))
	errs := make([]error, len(rels))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(concurrency, len(rels)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				abs := filepath.Join(root, filepath.FromSlash(rels[i]))
				files[i], errs[i] = parser.ParseFile(fset, abs, nil, parser.ParseComments|parser.SkipObjectResolution)
			}
		}()
	}
	for i := range rels {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return files, errs
}
