// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package load turns source packages into the ordered list of type
// declarations eligible for generation. It runs a cheap marker scan over
// the module, loads only the packages that need type information through
// golang.org/x/tools/go/packages, and applies the eligibility predicate.
package load

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	rast "github.com/petar-djukic/rawaccess/internal/ast"
)

// ErrNoModule is returned when the directory is not inside a Go module, so
// companion import paths cannot be derived.
var ErrNoModule = errors.New("packages are not part of a module")

// Decl is one type declaration of a loaded package.
type Decl struct {
	Pkg  *packages.Package
	File *ast.File
	Gen  *ast.GenDecl
	Spec *ast.TypeSpec
}

// Object returns the type-checked object of the declaration, or nil when
// type information could not be resolved.
func (d Decl) Object() *types.TypeName {
	if d.Pkg == nil || d.Pkg.TypesInfo == nil {
		return nil
	}
	tn, _ := d.Pkg.TypesInfo.Defs[d.Spec.Name].(*types.TypeName)
	return tn
}

// QualifiedName returns the import path qualified type name.
func (d Decl) QualifiedName() string {
	return d.Pkg.PkgPath + "." + d.Spec.Name.Name
}

// Position returns the source position of the declared name.
func (d Decl) Position() token.Position {
	if d.Pkg == nil || d.Pkg.Fset == nil {
		return token.Position{}
	}
	return d.Pkg.Fset.Position(d.Spec.Name.Pos())
}

// Namespace returns the package path relative to its module, or "" for
// the module's root package.
func (d Decl) Namespace() string {
	if d.Pkg.Module == nil {
		return d.Pkg.PkgPath
	}
	rel := strings.TrimPrefix(d.Pkg.PkgPath, d.Pkg.Module.Path)
	return strings.Trim(rel, "/")
}

// Predicate decides whether a declaration takes part in generation.
type Predicate func(Decl) bool

// HasMarker is the default predicate: the declaration carries the
// rawaccess marker directive.
func HasMarker(d Decl) bool {
	return rast.SpecMarked(d.Gen, d.Spec)
}

// Config configures Load.
type Config struct {
	Dir         string    // Directory packages are resolved from (default ".")
	Patterns    []string  // Package patterns; empty means "packages holding markers"
	SkipDirs    []string  // Directories the marker scan does not enter
	BuildFlags  []string  // Passed through to the go tool
	Concurrency int       // Marker scan parallelism
	Predicate   Predicate // Default HasMarker
	Logger      *zap.SugaredLogger
}

// Result holds the eligible declarations in discovery order: packages by
// import path, declarations by source position.
type Result struct {
	Decls      []Decl
	ModulePath string
	ModuleDir  string
	ScanErrors []rast.ScanError
}

// Load resolves the configured packages and returns their eligible
// declarations. Packages with type errors are still returned; the
// declarations whose metadata cannot be resolved are reported later by the
// descriptor builder.
func Load(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	predicate := cfg.Predicate
	if predicate == nil {
		predicate = HasMarker
	}

	modPath, modDir, err := FindModule(cfg.Dir)
	if err != nil {
		return nil, err
	}
	result := &Result{ModulePath: modPath, ModuleDir: modDir}

	patterns := cfg.Patterns
	if len(patterns) == 0 {
		if cfg.Predicate != nil {
			patterns = []string{"./..."}
		} else {
			scanned, scanErrs, err := markedPatterns(cfg)
			if err != nil {
				return nil, err
			}
			result.ScanErrors = scanErrs
			patterns = scanned
		}
	}
	if len(patterns) == 0 {
		cfg.Logger.Infow("no marked declarations found", "dir", cfg.Dir)
		return result, nil
	}

	pcfg := &packages.Config{
		Context:    ctx,
		Dir:        cfg.Dir,
		BuildFlags: cfg.BuildFlags,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo |
			packages.NeedModule,
	}

	pkgs, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "loading packages %v", patterns)
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			cfg.Logger.Warnw("package has errors", "package", pkg.PkgPath, "error", e.Error())
		}
		result.Decls = append(result.Decls, packageDecls(pkg, predicate)...)
	}

	cfg.Logger.Debugw("loaded packages", "packages", len(pkgs), "declarations", len(result.Decls))
	return result, nil
}

// packageDecls returns the eligible type declarations of pkg in source order.
func packageDecls(pkg *packages.Package, predicate Predicate) []Decl {
	files := make([]*ast.File, len(pkg.Syntax))
	copy(files, pkg.Syntax)
	sort.SliceStable(files, func(i, j int) bool {
		return fileName(pkg.Fset, files[i]) < fileName(pkg.Fset, files[j])
	})

	var decls []Decl
	for _, file := range files {
		for _, d := range file.Decls {
			gd, ok := d.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				decl := Decl{Pkg: pkg, File: file, Gen: gd, Spec: ts}
				if predicate(decl) {
					decls = append(decls, decl)
				}
			}
		}
	}
	return decls
}

func fileName(fset *token.FileSet, f *ast.File) string {
	if fset == nil {
		return ""
	}
	return fset.Position(f.Package).Filename
}

// markedPatterns scans cfg.Dir for marker directives and returns one
// relative package pattern per directory that has any.
func markedPatterns(cfg Config) ([]string, []rast.ScanError, error) {
	scan, err := rast.ScanDir(cfg.Dir, rast.ScanOptions{
		Concurrency: cfg.Concurrency,
		SkipDirs:    cfg.SkipDirs,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "scanning for markers")
	}
	for _, e := range scan.Errors {
		cfg.Logger.Warnw("cannot parse file", "file", e.FilePath, "error", e.Err)
	}

	table := rast.BuildMarkTable(scan.FileSet, scan.Files)
	var patterns []string
	for _, dir := range table.Dirs() {
		if dir == "." {
			patterns = append(patterns, ".")
			continue
		}
		patterns = append(patterns, "./"+filepath.ToSlash(dir))
	}
	cfg.Logger.Debugw("marker scan complete", "files", len(scan.Files), "marked", table.Len(), "packages", len(patterns))
	return patterns, scan.Errors, nil
}
