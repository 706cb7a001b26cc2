// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package descriptor

import (
	"bytes"
	"go/types"

	"github.com/petar-djukic/rawaccess/internal/signature"
	rtypes "github.com/petar-djukic/rawaccess/pkg/types"
)

// constraints decomposes a type parameter constraint into its elements in
// discovery order. The predeclared any yields no elements.
func constraints(c types.Type, im *signature.Imports) []rtypes.Constraint {
	switch t := c.(type) {
	case *types.Alias:
		if t.Obj().Pkg() == nil {
			return constraints(types.Unalias(t), im)
		}
		return []rtypes.Constraint{{Kind: rtypes.Embedded, Expr: im.TypeString(t)}}
	case *types.Named:
		if isComparable(t) {
			return []rtypes.Constraint{{Kind: rtypes.Comparable, Expr: "comparable"}}
		}
		return []rtypes.Constraint{{Kind: rtypes.Embedded, Expr: im.TypeString(t)}}
	case *types.Interface:
		return interfaceElements(t, im)
	default:
		return []rtypes.Constraint{{Kind: rtypes.TypeSet, Expr: im.TypeString(t)}}
	}
}

func interfaceElements(iface *types.Interface, im *signature.Imports) []rtypes.Constraint {
	var out []rtypes.Constraint

	for i := 0; i < iface.NumEmbeddeds(); i++ {
		e := iface.EmbeddedType(i)
		switch et := e.(type) {
		case *types.Union:
			out = append(out, rtypes.Constraint{Kind: rtypes.TypeSet, Expr: im.TypeString(et)})
		case *types.Named:
			if isComparable(et) {
				out = append(out, rtypes.Constraint{Kind: rtypes.Comparable, Expr: "comparable"})
				continue
			}
			if types.IsInterface(et) {
				out = append(out, rtypes.Constraint{Kind: rtypes.Embedded, Expr: im.TypeString(et)})
				continue
			}
			out = append(out, rtypes.Constraint{Kind: rtypes.TypeSet, Expr: im.TypeString(et)})
		case *types.Alias:
			if types.IsInterface(et) {
				out = append(out, rtypes.Constraint{Kind: rtypes.Embedded, Expr: im.TypeString(et)})
				continue
			}
			out = append(out, rtypes.Constraint{Kind: rtypes.TypeSet, Expr: im.TypeString(et)})
		case *types.Interface:
			out = append(out, interfaceElements(et, im)...)
		default:
			out = append(out, rtypes.Constraint{Kind: rtypes.TypeSet, Expr: im.TypeString(et)})
		}
	}

	for i := 0; i < iface.NumExplicitMethods(); i++ {
		m := iface.ExplicitMethod(i)
		var buf bytes.Buffer
		buf.WriteString(m.Name())
		types.WriteSignature(&buf, m.Type().(*types.Signature), im.Qualifier())
		out = append(out, rtypes.Constraint{Kind: rtypes.Method, Expr: buf.String()})
	}

	return out
}

func isComparable(n *types.Named) bool {
	return n.Obj().Pkg() == nil && n.Obj().Name() == "comparable"
}
