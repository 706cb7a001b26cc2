// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package descriptor

import (
	"go/types"
	"strings"
)

// visibleFrom reports whether importer may import pkgPath under the go
// tool's internal-package rule: a path containing an internal element is
// importable only from the tree rooted at that element's parent. An empty
// importer disables the check.
func visibleFrom(pkgPath, importer string) bool {
	if importer == "" {
		return true
	}
	var parent string
	switch {
	case pkgPath == "internal" || strings.HasPrefix(pkgPath, "internal/"):
		return false
	case strings.HasSuffix(pkgPath, "/internal"):
		parent = strings.TrimSuffix(pkgPath, "/internal")
	default:
		i := strings.LastIndex(pkgPath, "/internal/")
		if i < 0 {
			return true
		}
		parent = pkgPath[:i]
	}
	return importer == parent || strings.HasPrefix(importer, parent+"/")
}

// nameable reports whether t can be spelled in the package importer: every
// named type it mentions is exported (or predeclared) and visible from
// importer, and struct and interface literals carry only exported names.
func nameable(t types.Type, importer string) bool {
	switch t := t.(type) {
	case *types.Basic, *types.TypeParam:
		return true
	case *types.Alias:
		obj := t.Obj()
		if obj.Pkg() != nil && (!obj.Exported() || !visibleFrom(obj.Pkg().Path(), importer)) {
			return false
		}
		return typeArgsNameable(t.TypeArgs(), importer)
	case *types.Named:
		obj := t.Obj()
		if obj.Pkg() != nil && (!obj.Exported() || !visibleFrom(obj.Pkg().Path(), importer)) {
			return false
		}
		if obj.Pkg() != nil && obj.Pkg().Name() == "main" {
			return false
		}
		return typeArgsNameable(t.TypeArgs(), importer)
	case *types.Pointer:
		return nameable(t.Elem(), importer)
	case *types.Slice:
		return nameable(t.Elem(), importer)
	case *types.Array:
		return nameable(t.Elem(), importer)
	case *types.Chan:
		return nameable(t.Elem(), importer)
	case *types.Map:
		return nameable(t.Key(), importer) && nameable(t.Elem(), importer)
	case *types.Signature:
		return tupleNameable(t.Params(), importer) && tupleNameable(t.Results(), importer)
	case *types.Struct:
		for i := 0; i < t.NumFields(); i++ {
			f := t.Field(i)
			if !f.Exported() || !nameable(f.Type(), importer) {
				return false
			}
		}
		return true
	case *types.Interface:
		for i := 0; i < t.NumExplicitMethods(); i++ {
			m := t.ExplicitMethod(i)
			if !m.Exported() || !nameable(m.Type(), importer) {
				return false
			}
		}
		for i := 0; i < t.NumEmbeddeds(); i++ {
			if !nameable(t.EmbeddedType(i), importer) {
				return false
			}
		}
		return true
	case *types.Union:
		for i := 0; i < t.Len(); i++ {
			if !nameable(t.Term(i).Type(), importer) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func typeArgsNameable(list *types.TypeList, importer string) bool {
	for i := 0; i < list.Len(); i++ {
		if !nameable(list.At(i), importer) {
			return false
		}
	}
	return true
}

func tupleNameable(tup *types.Tuple, importer string) bool {
	for i := 0; i < tup.Len(); i++ {
		if !nameable(tup.At(i).Type(), importer) {
			return false
		}
	}
	return true
}

// invalid reports whether t mentions a type the checker could not resolve.
func invalid(t types.Type) bool {
	switch t := t.(type) {
	case nil:
		return true
	case *types.Basic:
		return t.Kind() == types.Invalid
	case *types.Pointer:
		return invalid(t.Elem())
	case *types.Slice:
		return invalid(t.Elem())
	case *types.Array:
		return invalid(t.Elem())
	case *types.Chan:
		return invalid(t.Elem())
	case *types.Map:
		return invalid(t.Key()) || invalid(t.Elem())
	case *types.Signature:
		for _, tup := range []*types.Tuple{t.Params(), t.Results()} {
			for i := 0; i < tup.Len(); i++ {
				if invalid(tup.At(i).Type()) {
					return true
				}
			}
		}
		return false
	case *types.Struct:
		for i := 0; i < t.NumFields(); i++ {
			if invalid(t.Field(i).Type()) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// isError reports whether t is the predeclared error type.
func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

// ownInstance reports whether t is origin or a pointer to it, instantiated
// with exactly args (in order) when origin is generic. It returns whether t
// is a pointer.
func ownInstance(t types.Type, origin *types.Named, args []types.Type) (pointer, ok bool) {
	if p, isPtr := t.(*types.Pointer); isPtr {
		pointer = true
		t = p.Elem()
	}
	named, isNamed := types.Unalias(t).(*types.Named)
	if !isNamed || named.Origin() != origin {
		return false, false
	}
	targs := named.TypeArgs()
	if targs.Len() != len(args) {
		return false, false
	}
	for i, a := range args {
		if targs.At(i) != a {
			return false, false
		}
	}
	return pointer, true
}
