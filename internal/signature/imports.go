// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package signature

import (
	gotypes "go/types"
	"sort"

	"github.com/petar-djukic/rawaccess/pkg/types"
)

// Imports collects the packages referenced by one generated file and
// assigns each a unique alias. Aliases are handed out in first-use order,
// so the same sequence of calls always yields the same aliases.
type Imports struct {
	taken  map[string]bool
	byPath map[string]string
}

// NewImports returns an empty set. Reserved names are never used as
// aliases; callers pass identifiers that share scope with package names
// in the generated code, such as type parameters and factory parameters.
func NewImports(reserved ...string) *Imports {
	im := &Imports{
		taken:  make(map[string]bool),
		byPath: make(map[string]string),
	}
	im.Reserve(reserved...)
	return im
}

// Reserve marks names as unavailable for aliases.
func (im *Imports) Reserve(names ...string) {
	for _, n := range names {
		im.taken[n] = true
	}
}

// Add records pkg and returns its alias.
func (im *Imports) Add(pkg *gotypes.Package) string {
	if alias, ok := im.byPath[pkg.Path()]; ok {
		return alias
	}
	alias := Unique(pkg.Name(), im.taken)
	im.taken[alias] = true
	im.byPath[pkg.Path()] = alias
	return alias
}

// Qualifier is a go/types qualifier that records every package it is
// asked about.
func (im *Imports) Qualifier() gotypes.Qualifier {
	return func(pkg *gotypes.Package) string {
		if pkg == nil {
			return ""
		}
		return im.Add(pkg)
	}
}

// TypeString renders t qualified for the generated file.
func (im *Imports) TypeString(t gotypes.Type) string {
	return gotypes.TypeString(t, im.Qualifier())
}

// List returns the imports sorted by path.
func (im *Imports) List() []types.Import {
	out := make([]types.Import, 0, len(im.byPath))
	for path, alias := range im.byPath {
		out = append(out, types.Import{Alias: alias, Path: path})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
