// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	"go/ast"
	"go/token"
	"sort"
)

// MarkTable holds every marked declaration found in a set of parsed files
// and provides lookups by directory and name.
type MarkTable struct {
	marked []Marked
	byName map[string][]int
	byDir  map[string][]int
}

// BuildMarkTable extracts marked declarations from every parsed file.
// Files are visited in path order so the table is deterministic.
func BuildMarkTable(fset *token.FileSet, files map[string]*ast.File) *MarkTable {
	mt := &MarkTable{
		byName: make(map[string][]int),
		byDir:  make(map[string][]int),
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, filePath := range paths {
		for _, m := range ExtractMarked(fset, filePath, files[filePath]) {
			idx := len(mt.marked)
			mt.marked = append(mt.marked, m)
			mt.byName[m.Name] = append(mt.byName[m.Name], idx)
			mt.byDir[m.Dir] = append(mt.byDir[m.Dir], idx)
		}
	}

	return mt
}

// All returns every marked declaration.
func (mt *MarkTable) All() []Marked {
	result := make([]Marked, len(mt.marked))
	copy(result, mt.marked)
	return result
}

// ByName returns all marked declarations with the given type name.
func (mt *MarkTable) ByName(name string) []Marked {
	return mt.lookup(mt.byName[name])
}

// ByDir returns the marked declarations of one package directory.
func (mt *MarkTable) ByDir(dir string) []Marked {
	return mt.lookup(mt.byDir[dir])
}

// Dirs returns the sorted package directories holding marked declarations.
func (mt *MarkTable) Dirs() []string {
	dirs := make([]string, 0, len(mt.byDir))
	for d := range mt.byDir {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// Len returns the total number of marked declarations.
func (mt *MarkTable) Len() int {
	return len(mt.marked)
}

func (mt *MarkTable) lookup(indices []int) []Marked {
	if len(indices) == 0 {
		return nil
	}
	result := make([]Marked, len(indices))
	for i, idx := range indices {
		result[i] = mt.marked[idx]
	}
	return result
}
