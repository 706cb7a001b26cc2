// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signature renders the generic parameter list shared by every
// function synthesized for one type, and the identifier helpers used to
// name generated parameters and imports.
package signature

import (
	"sort"
	"strings"

	"github.com/petar-djukic/rawaccess/pkg/types"
)

// Signature is the rendered generic surface of one type. The zero value
// describes a non-generic type.
type Signature struct {
	Decl    string   // Type parameter list for a func declaration, e.g. "[S ~[]E, E comparable]"
	Args    string   // Instantiation list, e.g. "[S, E]"
	Clauses []string // One "Name constraint" clause per parameter
}

// Build renders the type parameter list of params. Parameter names are
// reused unchanged.
func Build(params []types.GenericParameter) Signature {
	if len(params) == 0 {
		return Signature{}
	}

	names := make([]string, len(params))
	clauses := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
		clauses[i] = p.Name + " " + Constraint(p.Constraints)
	}

	return Signature{
		Decl:    "[" + strings.Join(clauses, ", ") + "]",
		Args:    "[" + strings.Join(names, ", ") + "]",
		Clauses: clauses,
	}
}

// Constraint renders a constraint set. Elements are ordered by kind
// (comparable, type sets, methods, embedded interfaces); within a kind the
// discovery order is kept.
func Constraint(cs []types.Constraint) string {
	if len(cs) == 0 {
		return "any"
	}

	ordered := make([]types.Constraint, len(cs))
	copy(ordered, cs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Kind < ordered[j].Kind })

	if len(ordered) == 1 && ordered[0].Kind != types.Method {
		return ordered[0].Expr
	}

	elems := make([]string, len(ordered))
	for i, c := range ordered {
		elems[i] = c.Expr
	}
	return "interface{ " + strings.Join(elems, "; ") + " }"
}

// Instantiate appends the instantiation list to a qualified type name.
func (s Signature) Instantiate(name string) string {
	return name + s.Args
}
