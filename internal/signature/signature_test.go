// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package signature

import (
	gotypes "go/types"
	"testing"

	"github.com/petar-djukic/rawaccess/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowerFirst(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Holder", "holder"},
		{"T", "t"},
		{"x", "x"},
		{"URL", "uRL"},
		{"", ""},
		{"Été", "été"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LowerFirst(tt.in))
		})
	}
}

func TestParamName_EscapesKeywords(t *testing.T) {
	assert.Equal(t, "type_", ParamName("Type"))
	assert.Equal(t, "map_", ParamName("Map"))
	assert.Equal(t, "range_", ParamName("Range"))
	assert.Equal(t, "str", ParamName("Str"))
}

func TestUnique(t *testing.T) {
	taken := map[string]bool{"fmt": true, "fmt2": true}
	assert.Equal(t, "fmt3", Unique("fmt", taken))
	assert.Equal(t, "io", Unique("io", taken))
}

func TestBuild_NonGeneric(t *testing.T) {
	sig := Build(nil)
	assert.Empty(t, sig.Decl)
	assert.Empty(t, sig.Args)
	assert.Empty(t, sig.Clauses)
	assert.Equal(t, "pkg.Holder", sig.Instantiate("pkg.Holder"))
}

func TestBuild_Generic(t *testing.T) {
	sig := Build([]types.GenericParameter{
		{Name: "S", Constraints: []types.Constraint{{Kind: types.TypeSet, Expr: "~[]E"}}},
		{Name: "E", Constraints: []types.Constraint{{Kind: types.Comparable, Expr: "comparable"}}},
		{Name: "V"},
	})

	assert.Equal(t, "[S ~[]E, E comparable, V any]", sig.Decl)
	assert.Equal(t, "[S, E, V]", sig.Args)
	assert.Equal(t, []string{"S ~[]E", "E comparable", "V any"}, sig.Clauses)
	assert.Equal(t, "*pkg.Bag[S, E, V]", sig.Instantiate("*pkg.Bag"))
}

func TestConstraint_FixedKindOrder(t *testing.T) {
	cs := []types.Constraint{
		{Kind: types.Embedded, Expr: "fmt.Stringer"},
		{Kind: types.Method, Expr: "Len() int"},
		{Kind: types.Embedded, Expr: "io.Reader"},
		{Kind: types.TypeSet, Expr: "~int | ~string"},
		{Kind: types.Comparable, Expr: "comparable"},
	}

	got := Constraint(cs)
	assert.Equal(t, "interface{ comparable; ~int | ~string; Len() int; fmt.Stringer; io.Reader }", got)

	// Input is not reordered in place.
	assert.Equal(t, types.Embedded, cs[0].Kind)
}

func TestConstraint_SingleElements(t *testing.T) {
	tests := []struct {
		name string
		cs   []types.Constraint
		want string
	}{
		{"empty", nil, "any"},
		{"comparable", []types.Constraint{{Kind: types.Comparable, Expr: "comparable"}}, "comparable"},
		{"embedded", []types.Constraint{{Kind: types.Embedded, Expr: "fmt.Stringer"}}, "fmt.Stringer"},
		{"type set", []types.Constraint{{Kind: types.TypeSet, Expr: "~[]E"}}, "~[]E"},
		{"method", []types.Constraint{{Kind: types.Method, Expr: "String() string"}}, "interface{ String() string }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Constraint(tt.cs))
		})
	}
}

func TestImports_AliasesAreUniqueAndDeterministic(t *testing.T) {
	im := NewImports("model")
	a := gotypes.NewPackage("example.com/app/model", "model")
	b := gotypes.NewPackage("example.com/other/model", "model")
	c := gotypes.NewPackage("time", "time")

	assert.Equal(t, "model2", im.Add(a))
	assert.Equal(t, "model3", im.Add(b))
	assert.Equal(t, "time", im.Add(c))
	assert.Equal(t, "model2", im.Add(a), "repeat lookups reuse the alias")

	list := im.List()
	require.Len(t, list, 3)
	assert.Equal(t, types.Import{Alias: "model2", Path: "example.com/app/model"}, list[0])
	assert.Equal(t, types.Import{Alias: "model3", Path: "example.com/other/model"}, list[1])
	assert.Equal(t, types.Import{Alias: "time", Path: "time"}, list[2])
}

func TestImports_TypeString(t *testing.T) {
	im := NewImports()
	pkg := gotypes.NewPackage("example.com/app/model", "model")
	obj := gotypes.NewTypeName(0, pkg, "Holder", nil)
	named := gotypes.NewNamed(obj, gotypes.NewStruct(nil, nil), nil)

	assert.Equal(t, "*model.Holder", im.TypeString(gotypes.NewPointer(named)))
	assert.Equal(t, "[]string", im.TypeString(gotypes.NewSlice(gotypes.Typ[gotypes.String])))
	assert.Len(t, im.List(), 1)
}
