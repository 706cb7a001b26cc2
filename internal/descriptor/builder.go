// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package descriptor builds the normalized metadata record of an annotated
// type: its generic parameters, constructors, exposed members and
// value-semantics kind. Every type name in the record is rendered as it
// must be spelled inside the type's companion package.
package descriptor

import (
	"go/token"
	"go/types"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/petar-djukic/rawaccess/internal/load"
	"github.com/petar-djukic/rawaccess/internal/signature"
	rtypes "github.com/petar-djukic/rawaccess/pkg/types"
)

// ctor is an accepted constructor before rendering. sig is expressed in
// the type's own type parameters.
type ctor struct {
	fn      *types.Func
	sig     *types.Signature
	pointer bool
	params  []string
}

// Build produces the descriptor of one declaration. eligible is the host's
// eligibility predicate; nil means load.HasMarker. importer is the import
// path of the companion package the descriptor is rendered for; members
// and constructors mentioning types it cannot import are dropped. An empty
// importer skips the internal-package check.
//
// It fails with ErrNotAnnotated when the predicate rejects the
// declaration, ErrUnimportable when a companion package could not refer to
// the type, and ErrUnresolvedSymbol when type information is missing or
// invalid.
func Build(d load.Decl, eligible load.Predicate, importer string) (*rtypes.TypeDescriptor, error) {
	if eligible == nil {
		eligible = load.HasMarker
	}
	qn := d.QualifiedName()
	if !eligible(d) {
		return nil, errors.Wrapf(ErrNotAnnotated, "%s", qn)
	}
	if d.Pkg.Name == "main" || strings.HasSuffix(d.Pkg.Name, "_test") {
		return nil, errors.Wrapf(ErrUnimportable, "%s: package %s cannot be imported", qn, d.Pkg.Name)
	}
	if !token.IsExported(d.Spec.Name.Name) {
		return nil, errors.Wrapf(ErrUnimportable, "%s: type is not exported", qn)
	}
	if !visibleFrom(d.Pkg.PkgPath, importer) {
		return nil, errors.Wrapf(ErrUnimportable, "%s: internal package is not visible from %s", qn, importer)
	}
	obj := d.Object()
	if obj == nil {
		return nil, errors.Wrapf(ErrUnresolvedSymbol, "%s: no type information", qn)
	}

	td, err := describe(obj, d.Namespace(), importer)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", qn)
	}
	return td, nil
}

// describe builds the descriptor of a type-checked named type.
func describe(obj *types.TypeName, namespace, importer string) (*rtypes.TypeDescriptor, error) {
	if obj.IsAlias() {
		return nil, errors.Wrap(ErrUnimportable, "alias declarations have no members of their own")
	}
	named, ok := obj.Type().(*types.Named)
	if !ok || invalid(named.Underlying()) {
		return nil, errors.Wrap(ErrUnresolvedSymbol, "declared type is invalid")
	}
	pkg := obj.Pkg()

	tparams := named.TypeParams()
	args := make([]types.Type, tparams.Len())
	tpNames := make([]string, tparams.Len())
	for i := 0; i < tparams.Len(); i++ {
		args[i] = tparams.At(i)
		tpNames[i] = tparams.At(i).Obj().Name()
		if !nameable(tparams.At(i).Constraint(), importer) {
			return nil, errors.Wrapf(ErrUnimportable, "constraint of %s cannot be named by a companion package", tpNames[i])
		}
	}

	carrier := named
	if len(args) > 0 {
		inst, err := types.Instantiate(nil, named, args, false)
		if err != nil {
			return nil, errors.Wrapf(ErrUnresolvedSymbol, "instantiating with own parameters: %v", err)
		}
		carrier = inst.(*types.Named)
	}

	ctors, err := constructors(pkg, named, args, tpNames, importer)
	if err != nil {
		return nil, err
	}

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		st = types.NewStruct(nil, nil)
	}
	members, err := classify(st, carrier, importer)
	if err != nil {
		return nil, err
	}

	kind, pointer := valueSemantics(carrier, args, ctors)

	reserved := append([]string{}, tpNames...)
	for _, c := range ctors {
		reserved = append(reserved, c.params...)
	}
	im := signature.NewImports(reserved...)
	alias := im.Add(pkg)

	td := &rtypes.TypeDescriptor{
		QualifiedName: pkg.Path() + "." + obj.Name(),
		Name:          obj.Name(),
		PkgPath:       pkg.Path(),
		PkgName:       pkg.Name(),
		PkgAlias:      alias,
		Namespace:     namespace,
		Kind:          kind,
	}

	for i := 0; i < tparams.Len(); i++ {
		td.TypeParams = append(td.TypeParams, rtypes.GenericParameter{
			Name:        tpNames[i],
			Constraints: constraints(tparams.At(i).Constraint(), im),
		})
	}

	base := signature.Build(td.TypeParams).Instantiate(alias + "." + obj.Name())
	td.Instance = base
	if pointer {
		td.Instance = "*" + base
	}

	for _, c := range ctors {
		td.Constructors = append(td.Constructors, renderCtor(c, obj.Name(), base, im))
	}

	for _, m := range members {
		td.Members = append(td.Members, rtypes.Member{
			Name:     m.name,
			Type:     im.TypeString(m.typ),
			Origin:   m.origin,
			Readable: m.readable,
			Writable: m.writable,
		})
	}

	td.Imports = im.List()
	return td, nil
}

// constructors returns the exported New<TypeName>... functions of pkg that
// build the type, in source order. A generic constructor whose constraints
// the type's own parameters do not satisfy is skipped.
func constructors(pkg *types.Package, named *types.Named, args []types.Type, tpNames []string, importer string) ([]ctor, error) {
	prefix := "New" + named.Obj().Name()
	scope := pkg.Scope()

	var ctors []ctor
	for _, name := range scope.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok {
			continue
		}
		sig := fn.Type().(*types.Signature)
		if invalid(sig) {
			return nil, errors.Wrapf(ErrUnresolvedSymbol, "constructor %s has an invalid signature", name)
		}

		res := sig.Results()
		if res.Len() == 0 || res.Len() > 2 || (res.Len() == 2 && !isError(res.At(1).Type())) {
			continue
		}
		if sig.TypeParams().Len() != len(args) {
			continue
		}
		own := make([]types.Type, sig.TypeParams().Len())
		for i := range own {
			own[i] = sig.TypeParams().At(i)
		}
		pointer, ok := ownInstance(res.At(0).Type(), named, own)
		if !ok {
			continue
		}

		if len(args) > 0 {
			inst, err := types.Instantiate(nil, sig, args, true)
			if err != nil {
				continue
			}
			sig = inst.(*types.Signature)
		}
		if !tupleNameable(sig.Params(), importer) {
			continue
		}

		ctors = append(ctors, ctor{
			fn:      fn,
			sig:     sig,
			pointer: pointer,
			params:  paramNames(sig.Params(), tpNames),
		})
	}

	sort.SliceStable(ctors, func(i, j int) bool { return ctors[i].fn.Pos() < ctors[j].fn.Pos() })
	return ctors, nil
}

// paramNames names every parameter of a constructor, filling in blank and
// unnamed ones and avoiding the type parameter names.
func paramNames(params *types.Tuple, tpNames []string) []string {
	taken := make(map[string]bool, len(tpNames)+params.Len())
	for _, n := range tpNames {
		taken[n] = true
	}
	for i := 0; i < params.Len(); i++ {
		if n := params.At(i).Name(); n != "" && n != "_" {
			taken[n] = true
		}
	}

	names := make([]string, params.Len())
	for i := 0; i < params.Len(); i++ {
		n := params.At(i).Name()
		switch {
		case n == "" || n == "_":
			n = signature.Unique("p"+strconv.Itoa(i), taken)
		case slices.Contains(tpNames, n):
			n = signature.Unique(n, taken)
		}
		taken[n] = true
		names[i] = n
	}
	return names
}

func renderCtor(c ctor, typeName, base string, im *signature.Imports) rtypes.Constructor {
	out := rtypes.Constructor{
		Name:     c.fn.Name(),
		Suffix:   strings.TrimPrefix(c.fn.Name(), "New"+typeName),
		Variadic: c.sig.Variadic(),
	}

	params := c.sig.Params()
	for i := 0; i < params.Len(); i++ {
		t := params.At(i).Type()
		var spelled string
		if c.sig.Variadic() && i == params.Len()-1 {
			spelled = "..." + im.TypeString(t.(*types.Slice).Elem())
		} else {
			spelled = im.TypeString(t)
		}
		out.Params = append(out.Params, rtypes.Parameter{Name: c.params[i], Type: spelled})
	}

	if c.pointer {
		out.Results = append(out.Results, "*"+base)
	} else {
		out.Results = append(out.Results, base)
	}
	if c.sig.Results().Len() == 2 {
		out.Results = append(out.Results, "error")
	}
	return out
}

// valueSemantics decides the kind once, from the declaration: a Clone
// method returning the type makes it ImmutableNonDestructive, pointer
// receivers or pointer constructors make it MutableReference, anything
// else is MutableValue. The second result reports a pointer instance.
func valueSemantics(carrier *types.Named, args []types.Type, ctors []ctor) (rtypes.ValueSemanticsKind, bool) {
	for i := 0; i < carrier.NumMethods(); i++ {
		m := carrier.Method(i)
		if m.Name() != "Clone" {
			continue
		}
		sig := m.Type().(*types.Signature)
		if sig.Params().Len() != 0 || sig.Results().Len() != 1 {
			continue
		}
		if pointer, ok := ownInstance(sig.Results().At(0).Type(), carrier.Origin(), args); ok {
			return rtypes.ImmutableNonDestructive, pointer
		}
	}

	for i := 0; i < carrier.NumMethods(); i++ {
		recv := carrier.Method(i).Type().(*types.Signature).Recv()
		if recv == nil {
			continue
		}
		if _, ok := recv.Type().(*types.Pointer); ok {
			return rtypes.MutableReference, true
		}
	}
	for _, c := range ctors {
		if c.pointer {
			return rtypes.MutableReference, true
		}
	}
	return rtypes.MutableValue, false
}
