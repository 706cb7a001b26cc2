// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package emit

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/rawaccess/internal/synth"
	"github.com/petar-djukic/rawaccess/pkg/types"
)

func holder() *types.TypeDescriptor {
	return &types.TypeDescriptor{
		QualifiedName: "example.com/app/model.Holder",
		Name:          "Holder",
		PkgPath:       "example.com/app/model",
		PkgName:       "model",
		PkgAlias:      "model",
		Namespace:     "model",
		Kind:          types.MutableValue,
		Instance:      "model.Holder",
		Constructors: []types.Constructor{
			{Name: "NewHolder", Params: []types.Parameter{{Name: "str", Type: "string"}}, Results: []string{"model.Holder"}},
		},
		Members: []types.Member{
			{Name: "Str", Type: "string", Origin: types.FieldLike, Readable: true, Writable: true},
		},
		Imports: []types.Import{{Alias: "model", Path: "example.com/app/model"}},
	}
}

func TestUnit_Naming(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		opts      Options
		dir       string
		pkg       string
	}{
		{name: "defaults", namespace: "model", dir: "rawaccess/model/holderrawaccess", pkg: "holderrawaccess"},
		{name: "module root package", namespace: "", dir: "rawaccess/holderrawaccess", pkg: "holderrawaccess"},
		{name: "custom root and suffix", namespace: "internal/model", opts: Options{Root: "gen/access/", Suffix: "Access"}, dir: "gen/access/internal/model/holderaccess", pkg: "holderaccess"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			td := holder()
			td.Namespace = tc.namespace
			funcs, err := synth.Synthesize(td)
			require.NoError(t, err)

			u, ok := Unit(td, funcs, tc.opts)
			require.True(t, ok)
			assert.Equal(t, tc.dir, u.Dir)
			assert.Equal(t, tc.pkg, u.Package)
			assert.Equal(t, "holder_rawaccess.go", u.File)
			assert.Equal(t, tc.dir+"/holder_rawaccess.go", u.Path())
			assert.Equal(t, "example.com/app/model.Holder", u.Type)
		})
	}
}

func TestUnit_NoPublicSurface(t *testing.T) {
	td := holder()
	td.Constructors = nil
	td.Members = nil
	funcs, err := synth.Synthesize(td)
	require.NoError(t, err)

	_, ok := Unit(td, funcs, Options{})
	assert.False(t, ok)
}

func TestRender_ValueType(t *testing.T) {
	td := holder()
	funcs, err := synth.Synthesize(td)
	require.NoError(t, err)
	u, ok := Unit(td, funcs, Options{})
	require.True(t, ok)

	src, err := Render(u)
	require.NoError(t, err)
	out := string(src)

	assert.True(t, IsGenerated(src))
	assert.Contains(t, out, "package holderrawaccess")
	assert.Contains(t, out, `import "example.com/app/model"`)
	assert.Contains(t, out, "func GetHolder(str string) model.Holder {\n\treturn model.NewHolder(str)\n}")
	assert.Contains(t, out, "func GetStr(holder model.Holder) string {\n\treturn holder.Str\n}")
	assert.Contains(t, out, "func WithStr(holder model.Holder, str string) model.Holder {\n\tholder.Str = str\n\treturn holder\n}")
	assert.Contains(t, out, "// GetHolder forwards to model.NewHolder.")

	// Output order: factory, reader, updater.
	assert.Less(t, strings.Index(out, "func GetHolder"), strings.Index(out, "func GetStr"))
	assert.Less(t, strings.Index(out, "func GetStr"), strings.Index(out, "func WithStr"))

	_, err = parser.ParseFile(token.NewFileSet(), u.File, src, parser.ParseComments)
	assert.NoError(t, err)
}

func TestRender_GenericType(t *testing.T) {
	td := &types.TypeDescriptor{
		QualifiedName: "example.com/app/coll.Bag",
		Name:          "Bag",
		PkgAlias:      "coll",
		Namespace:     "coll",
		Kind:          types.MutableReference,
		Instance:      "*coll.Bag[S, E]",
		TypeParams: []types.GenericParameter{
			{Name: "S", Constraints: []types.Constraint{{Kind: types.TypeSet, Expr: "~[]E"}}},
			{Name: "E", Constraints: []types.Constraint{{Kind: types.Comparable, Expr: "comparable"}}},
		},
		Constructors: []types.Constructor{
			{Name: "NewBag", Params: []types.Parameter{{Name: "items", Type: "...E"}}, Variadic: true, Results: []string{"*coll.Bag[S, E]"}},
		},
		Members: []types.Member{
			{Name: "Items", Type: "S", Origin: types.FieldLike, Readable: true, Writable: true},
		},
		Imports: []types.Import{{Alias: "coll", Path: "example.com/app/coll"}},
	}
	funcs, err := synth.Synthesize(td)
	require.NoError(t, err)
	u, ok := Unit(td, funcs, Options{})
	require.True(t, ok)

	src, err := Render(u)
	require.NoError(t, err)
	out := string(src)

	assert.Contains(t, out, "func GetBag[S ~[]E, E comparable](items ...E) *coll.Bag[S, E] {\n\treturn coll.NewBag[S, E](items...)\n}")
	assert.Contains(t, out, "func GetItems[S ~[]E, E comparable](bag *coll.Bag[S, E]) S {")
	assert.Contains(t, out, "func WithItems[S ~[]E, E comparable](bag *coll.Bag[S, E], items S) *coll.Bag[S, E] {")
}

func TestRender_AliasedImports(t *testing.T) {
	td := holder()
	td.Members = append(td.Members, types.Member{Name: "Other", Type: "model2.Holder", Origin: types.FieldLike, Readable: true})
	td.Imports = append(td.Imports, types.Import{Alias: "model2", Path: "example.com/lib/model"})
	funcs, err := synth.Synthesize(td)
	require.NoError(t, err)
	u, _ := Unit(td, funcs, Options{})

	src, err := Render(u)
	require.NoError(t, err)
	assert.Contains(t, string(src), `model2 "example.com/lib/model"`)
	assert.Contains(t, string(src), `"example.com/app/model"`)
	assert.NotContains(t, string(src), `model "example.com/app/model"`)
}

func TestBootstrap(t *testing.T) {
	p, src, err := Bootstrap(Options{})
	require.NoError(t, err)
	assert.Equal(t, "rawaccess/doc.go", p)
	assert.True(t, IsGenerated(src))
	assert.Contains(t, string(src), "package rawaccess")
	assert.Contains(t, string(src), "//rawaccess:generate directive")

	p, src, err = Bootstrap(Options{Root: "internal/gen-access"})
	require.NoError(t, err)
	assert.Equal(t, "internal/gen-access/doc.go", p)
	assert.Contains(t, string(src), "package genaccess")
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "holderrawaccess", PackageName("Holder", Options{}))
	assert.Equal(t, "type_", PackageName("Type", Options{Suffix: "-"}))
	assert.Equal(t, "pairaccess", PackageName("Pair", Options{Suffix: "Access"}))
}

func TestImportPath(t *testing.T) {
	assert.Equal(t, "example.com/app/rawaccess/model/holderrawaccess",
		ImportPath("example.com/app", "model", "Holder", Options{}))
	assert.Equal(t, "example.com/app/rawaccess/holderrawaccess",
		ImportPath("example.com/app", "", "Holder", Options{}))
	assert.Equal(t, "example.com/app/internal/access/a/internal/b/thingaccess",
		ImportPath("example.com/app", "a/internal/b", "Thing", Options{Root: "internal/access/", Suffix: "Access"}))
}

func TestIsGenerated(t *testing.T) {
	assert.True(t, IsGenerated([]byte(Header+"\n\npackage x\n")))
	assert.False(t, IsGenerated([]byte("package x\n")))
}
