// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the metadata records shared by the rawaccess
// packages: the normalized description of an annotated type and the
// function descriptors synthesized from it.
package types

// ValueSemanticsKind classifies how updates to an instance are observed.
// It is fixed when the descriptor is built.
type ValueSemanticsKind int

const (
	MutableReference        ValueSemanticsKind = iota // Pointer instance; updates are shared by every alias
	MutableValue                                      // Value instance; updates touch only the local copy
	ImmutableNonDestructive                           // Updates clone the instance and replace one member
)

// String returns the human-readable name of the kind.
func (k ValueSemanticsKind) String() string {
	switch k {
	case MutableReference:
		return "MutableReference"
	case MutableValue:
		return "MutableValue"
	case ImmutableNonDestructive:
		return "ImmutableNonDestructive"
	default:
		return "Unknown"
	}
}

// ConstraintKind identifies one element of a type parameter constraint.
// The numeric order is the render order.
type ConstraintKind int

const (
	Comparable ConstraintKind = iota // The predeclared comparable
	TypeSet                          // A union of type terms, e.g. ~[]E | ~string
	Method                           // An explicit method element
	Embedded                         // An embedded or named interface
)

func (k ConstraintKind) String() string {
	switch k {
	case Comparable:
		return "Comparable"
	case TypeSet:
		return "TypeSet"
	case Method:
		return "Method"
	case Embedded:
		return "Embedded"
	default:
		return "Unknown"
	}
}

// Constraint is one rendered constraint element. Expr holds the Go
// source text of the element, already qualified for the companion package.
type Constraint struct {
	Kind ConstraintKind
	Expr string
}

// GenericParameter is a type parameter of the annotated type.
type GenericParameter struct {
	Name        string
	Constraints []Constraint // Discovery order
}

// Parameter is a named, rendered function parameter.
type Parameter struct {
	Name string
	Type string
}

// Constructor is an exported New<TypeName>... function of the original package.
type Constructor struct {
	Name     string      // e.g. NewHolder, NewHolderFromFile
	Suffix   string      // Name with the New<TypeName> prefix removed
	Params   []Parameter // Variadic parameter, if any, is last with Type "...T"
	Variadic bool
	Results  []string // The constructed type, optionally followed by "error"
}

// MemberOrigin records whether a member is backed by accessor methods or
// by a struct field.
type MemberOrigin int

const (
	PropertyLike MemberOrigin = iota // Getter/setter methods
	FieldLike                        // Exported struct field
)

func (o MemberOrigin) String() string {
	switch o {
	case PropertyLike:
		return "PropertyLike"
	case FieldLike:
		return "FieldLike"
	default:
		return "Unknown"
	}
}

// Member is an exposed piece of state of the annotated type. At least one
// of Readable and Writable is always true.
type Member struct {
	Name     string
	Type     string
	Origin   MemberOrigin
	Readable bool
	Writable bool
}

// TypeDescriptor is the normalized metadata of one annotated type.
type TypeDescriptor struct {
	QualifiedName string // import/path.Name
	Name          string
	PkgPath       string
	PkgName       string
	PkgAlias      string // Name the companion file imports the package under
	Namespace     string // Package path relative to the module root; "" for the root package
	Kind          ValueSemanticsKind
	Instance      string // Rendered instance type, e.g. "pkg.Holder" or "*pkg.Bag[S, E]"
	TypeParams    []GenericParameter
	Constructors  []Constructor
	Members       []Member
	Imports       []Import // Packages the rendered types refer to
}

// IsGeneric reports whether the type declares type parameters.
func (td *TypeDescriptor) IsGeneric() bool {
	return len(td.TypeParams) > 0
}
