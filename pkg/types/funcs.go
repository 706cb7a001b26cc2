// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"strings"
)

// FuncRole identifies what a synthesized function does.
type FuncRole int

const (
	Factory FuncRole = iota // Forwards to a constructor
	Reader                  // Returns a member's current value
	Updater                 // Replaces a member's value
)

func (r FuncRole) String() string {
	switch r {
	case Factory:
		return "Factory"
	case Reader:
		return "Reader"
	case Updater:
		return "Updater"
	default:
		return "Unknown"
	}
}

// FuncDescriptor is one synthesized function, ready to render.
type FuncDescriptor struct {
	Name       string
	Role       FuncRole
	Source     string // Constructor or member the function was derived from
	Doc        string // Doc comment text without the leading slashes
	TypeParams string // e.g. "[S ~[]E, E comparable]"; empty when not generic
	Params     []Parameter
	Results    []string
	Body       []string // Statements, one per line
}

// ResultList renders the result types as they appear after the parameter list.
func (f FuncDescriptor) ResultList() string {
	switch len(f.Results) {
	case 0:
		return ""
	case 1:
		return " " + f.Results[0]
	default:
		return " (" + strings.Join(f.Results, ", ") + ")"
	}
}

// Import is one import of a generated file.
type Import struct {
	Alias string
	Path  string
}

// UnitDescriptor is the companion output unit of one annotated type.
type UnitDescriptor struct {
	Type    string // Qualified name of the original type
	Package string // Companion package name
	Dir     string // Slash-separated directory relative to the module root
	File    string // File name inside Dir
	Imports []Import
	Funcs   []FuncDescriptor
}

// Path returns the slash-separated file path relative to the module root.
func (u UnitDescriptor) Path() string {
	if u.Dir == "" {
		return u.File
	}
	return u.Dir + "/" + u.File
}

// DiagnosticCode classifies a per-type generation outcome.
type DiagnosticCode string

const (
	CodeUnresolvedSymbol DiagnosticCode = "UnresolvedSymbol"
	CodeNameCollision    DiagnosticCode = "NameCollision"
	CodeUnimportable     DiagnosticCode = "Unimportable"
	CodeNoPublicSurface  DiagnosticCode = "NoPublicSurface"
)

// Diagnostic reports why a type produced no output.
type Diagnostic struct {
	Type    string // Qualified name
	Code    DiagnosticCode
	Message string
	Pos     string // file:line of the declaration, if known
}

func (d Diagnostic) String() string {
	if d.Pos != "" {
		return fmt.Sprintf("%s: %s: %s: %s", d.Pos, d.Type, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Type, d.Code, d.Message)
}
