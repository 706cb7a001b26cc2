// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package emit groups the synthesized functions of one type into its
// companion unit and renders that unit as formatted Go source.
package emit

import (
	"bytes"
	"embed"
	"go/token"
	"path"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/imports"

	"github.com/petar-djukic/rawaccess/internal/ast"
	"github.com/petar-djukic/rawaccess/pkg/types"
)

// Header is the first line of every emitted file. Files starting with it
// are owned by rawaccess and may be overwritten or pruned.
const Header = "// Code generated by rawaccess. DO NOT EDIT."

// Defaults for Options.
const (
	DefaultRoot   = "rawaccess"
	DefaultSuffix = "RawAccess"
	FileSuffix    = "_rawaccess.go"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.New("emit").Funcs(template.FuncMap{
	"header":     func() string { return Header },
	"params":     renderParams,
	"importSpec": renderImport,
}).ParseFS(templateFS, "templates/*.tmpl"))

// Options controls where companion units are placed.
type Options struct {
	Root   string // Slash-separated directory, relative to the module root, holding every companion package
	Suffix string // Appended to the type name to form the companion package name
}

func (o Options) withDefaults() Options {
	if o.Root == "" {
		o.Root = DefaultRoot
	}
	if o.Suffix == "" {
		o.Suffix = DefaultSuffix
	}
	o.Root = strings.Trim(path.Clean(o.Root), "/")
	return o
}

// PackageName returns the companion package name of a type.
func PackageName(typeName string, opts Options) string {
	opts = opts.withDefaults()
	return identifier(strings.ToLower(typeName + opts.Suffix))
}

// ImportPath returns the import path of the companion package of the type
// typeName declared in namespace, for a module at modulePath.
func ImportPath(modulePath, namespace, typeName string, opts Options) string {
	opts = opts.withDefaults()
	return path.Join(modulePath, opts.Root, namespace, PackageName(typeName, opts))
}

// Unit groups funcs into the companion unit of td. It reports false when
// there is nothing to emit; such a type has no public surface.
func Unit(td *types.TypeDescriptor, funcs []types.FuncDescriptor, opts Options) (types.UnitDescriptor, bool) {
	if len(funcs) == 0 {
		return types.UnitDescriptor{}, false
	}
	opts = opts.withDefaults()
	pkg := PackageName(td.Name, opts)

	return types.UnitDescriptor{
		Type:    td.QualifiedName,
		Package: pkg,
		Dir:     path.Join(opts.Root, td.Namespace, pkg),
		File:    strings.ToLower(td.Name) + FileSuffix,
		Imports: append([]types.Import(nil), td.Imports...),
		Funcs:   append([]types.FuncDescriptor(nil), funcs...),
	}, true
}

// Render returns the formatted source of u.
func Render(u types.UnitDescriptor) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "unit.tmpl", u); err != nil {
		return nil, errors.Wrapf(err, "executing unit template for %s", u.Type)
	}
	return format(u.Path(), buf.Bytes())
}

// Bootstrap returns the path and source of the doc.go file placed at the
// root of the companion tree. It is written on every run, whether or not
// any type was discovered.
func Bootstrap(opts Options) (string, []byte, error) {
	opts = opts.withDefaults()
	data := struct {
		Package   string
		Directive string
	}{
		Package:   identifier(strings.ToLower(path.Base(opts.Root))),
		Directive: ast.Directive,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "doc.tmpl", data); err != nil {
		return "", nil, errors.Wrap(err, "executing doc template")
	}
	p := path.Join(opts.Root, "doc.go")
	src, err := format(p, buf.Bytes())
	if err != nil {
		return "", nil, err
	}
	return p, src, nil
}

// IsGenerated reports whether src starts with Header.
func IsGenerated(src []byte) bool {
	return bytes.HasPrefix(src, []byte(Header))
}

func format(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "formatting %s", filename)
	}
	return out, nil
}

func renderParams(params []types.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + p.Type
	}
	return strings.Join(parts, ", ")
}

func renderImport(im types.Import) string {
	if im.Alias == "" || im.Alias == path.Base(im.Path) {
		return strconv.Quote(im.Path)
	}
	return im.Alias + " " + strconv.Quote(im.Path)
}

// identifier turns s into a valid package name.
func identifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	id := b.String()
	if id == "" {
		return DefaultRoot
	}
	if r := rune(id[0]); unicode.IsDigit(r) {
		id = "_" + id
	}
	if token.IsKeyword(id) {
		id += "_"
	}
	return id
}
