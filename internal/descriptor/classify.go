// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package descriptor

import (
	"go/token"
	"go/types"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/petar-djukic/rawaccess/internal/signature"
	rtypes "github.com/petar-djukic/rawaccess/pkg/types"
)

// member is a classified member before its type is rendered.
type member struct {
	name     string
	typ      types.Type
	origin   rtypes.MemberOrigin
	readable bool
	writable bool
	pos      token.Pos
}

// accessor is a getter or setter method found on the type.
type accessor struct {
	typ     types.Type
	pos     token.Pos
	pointer bool // Pointer receiver
}

// classify projects the members of a struct type onto the exposed
// surface: exported fields, and accessor methods (X() T / SetX(T)) of the
// method carrier. carrier is the type whose method set is inspected; for a
// generic type it is the type instantiated with its own type parameters so
// method signatures use the declared parameter names.
//
// A setter only makes a member writable when it has a pointer receiver;
// a value-receiver setter changes a copy. Members whose type cannot be
// spelled in the importer package are dropped. The result is in
// declaration order.
func classify(st *types.Struct, carrier *types.Named, importer string) ([]member, error) {
	var members []member
	fields := make(map[string]bool)
	backing := make(map[string]bool)

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if invalid(f.Type()) {
			return nil, errors.Wrapf(ErrUnresolvedSymbol, "field %s has an invalid type", f.Name())
		}
		if !f.Exported() {
			backing[f.Name()] = true
			continue
		}
		fields[f.Name()] = true
		if !nameable(f.Type(), importer) {
			continue
		}
		members = append(members, member{
			name:     f.Name(),
			typ:      f.Type(),
			origin:   rtypes.FieldLike,
			readable: true,
			writable: true,
			pos:      f.Pos(),
		})
	}

	getters := make(map[string]accessor)
	setters := make(map[string]accessor)
	for i := 0; i < carrier.NumMethods(); i++ {
		m := carrier.Method(i)
		if !m.Exported() {
			continue
		}
		sig, ok := m.Type().(*types.Signature)
		if !ok {
			continue
		}
		if invalid(sig) {
			return nil, errors.Wrapf(ErrUnresolvedSymbol, "method %s has an invalid signature", m.Name())
		}
		switch {
		case sig.Params().Len() == 0 && sig.Results().Len() == 1:
			getters[m.Name()] = accessor{typ: sig.Results().At(0).Type(), pos: m.Pos()}
		case sig.Params().Len() == 1 && sig.Results().Len() == 0 && !sig.Variadic():
			if name, ok := setterName(m.Name()); ok {
				_, pointer := sig.Recv().Type().(*types.Pointer)
				setters[name] = accessor{typ: sig.Params().At(0).Type(), pos: m.Pos(), pointer: pointer}
			}
		}
	}

	names := make(map[string]bool)
	for name := range getters {
		names[name] = true
	}
	for name := range setters {
		names[name] = true
	}

	for name := range names {
		// A field and a SetX method may share a name; the field wins.
		if fields[name] {
			continue
		}
		get, hasGet := getters[name]
		set, hasSet := setters[name]
		readable := hasGet && (hasSet || backing[signature.LowerFirst(name)])
		writable := hasSet && set.pointer
		if readable && writable && !types.Identical(get.typ, set.typ) {
			writable = false
		}
		if !readable && !writable {
			continue
		}

		m := member{name: name, origin: rtypes.PropertyLike, readable: readable, writable: writable}
		if readable {
			m.typ, m.pos = get.typ, get.pos
		} else {
			m.typ, m.pos = set.typ, set.pos
		}
		if writable && hasSet && set.pos < m.pos {
			m.pos = set.pos
		}
		if !nameable(m.typ, importer) {
			continue
		}
		members = append(members, m)
	}

	sort.SliceStable(members, func(i, j int) bool { return members[i].pos < members[j].pos })
	return members, nil
}

// setterName returns X for a method named SetX with an exported X.
func setterName(method string) (string, bool) {
	rest, ok := strings.CutPrefix(method, "Set")
	if !ok || rest == "" {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", false
	}
	return rest, true
}
