// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	"go/ast"
	"go/token"
	"path"
	"strings"
)

// Directive is the marker comment that selects a type declaration for
// generation. It takes no arguments.
const Directive = "//rawaccess:generate"

// Marked is a type declaration carrying the marker directive.
type Marked struct {
	Name     string // Declared type name
	FilePath string // Slash-separated path of the declaring file
	Dir      string // Directory of FilePath, "." for the root
	Line     int
	Column   int
}

// HasDirective reports whether any of the comment groups contains the
// marker directive on a line of its own.
func HasDirective(groups ...*ast.CommentGroup) bool {
	for _, cg := range groups {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			if strings.TrimRight(c.Text, " \t") == Directive {
				return true
			}
		}
	}
	return false
}

// SpecMarked reports whether a type spec is marked, either on the spec
// itself or, for a single-spec declaration, on the enclosing type decl.
func SpecMarked(gd *ast.GenDecl, ts *ast.TypeSpec) bool {
	if HasDirective(ts.Doc) {
		return true
	}
	return !gd.Lparen.IsValid() && HasDirective(gd.Doc)
}

// ExtractMarked returns the marked type declarations of a parsed file in
// source order.
func ExtractMarked(fset *token.FileSet, filePath string, file *ast.File) []Marked {
	var marked []Marked

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || !SpecMarked(gd, ts) {
				continue
			}
			pos := fset.Position(ts.Pos())
			marked = append(marked, Marked{
				Name:     ts.Name.Name,
				FilePath: filePath,
				Dir:      path.Dir(filePath),
				Line:     pos.Line,
				Column:   pos.Column,
			})
		}
	}

	return marked
}
