// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package rawaccess

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/petar-djukic/rawaccess/internal/ast"
	"github.com/petar-djukic/rawaccess/internal/emit"
	"github.com/petar-djukic/rawaccess/internal/generator"
	"github.com/petar-djukic/rawaccess/internal/git"
	"github.com/petar-djukic/rawaccess/internal/load"
	"github.com/petar-djukic/rawaccess/internal/sink"
	"github.com/petar-djukic/rawaccess/pkg/types"
)

// New validates the config and returns a ready-to-use Generator. It does
// not load any package; that happens on each call.
func New(cfg Config) (Generator, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "invalid config"), ErrInvalidConfig)
	}
	applyDefaults(&cfg)

	modPath, modDir, err := load.FindModule(cfg.Dir)
	if err != nil {
		return nil, errors.Mark(err, ErrInvalidConfig)
	}
	cfg.Logger.Debugw("generator ready", "module", modPath, "dir", modDir, "output", cfg.OutputRoot)

	return &generatorAdapter{cfg: cfg, moduleDir: modDir}, nil
}

// generatorAdapter adapts internal/generator.Runner to the public
// Generator interface.
type generatorAdapter struct {
	cfg       Config
	moduleDir string
}

func (g *generatorAdapter) Generate(ctx context.Context) (*Result, error) {
	fs := sink.NewFilesystemSink(g.moduleDir, g.cfg.Logger)
	ir, err := generator.NewRunner(g.runnerConfig(true), fs).Run(ctx)
	res := g.result(ir)
	res.Changed = fs.Changed()
	if errors.Is(err, generator.ErrVerifyFailed) {
		return res, errors.Mark(err, ErrVerifyFailed)
	}
	return res, err
}

func (g *generatorAdapter) Check(ctx context.Context) (*Result, error) {
	ds := sink.NewDiffSink(g.moduleDir)
	ir, err := generator.NewRunner(g.runnerConfig(false), ds).Run(ctx)
	res := g.result(ir)
	if err != nil {
		return res, err
	}
	for _, fd := range ds.Diffs() {
		if fd.Status == types.Added || fd.Status == types.Modified {
			res.Changed = append(res.Changed, fd.Path)
		}
	}
	res.Diff = ds.Report()
	if ds.Dirty() {
		return res, errors.Wrapf(ErrStale, "%d files differ", len(res.Changed)+len(res.Pruned))
	}
	return res, nil
}

func (g *generatorAdapter) Render(ctx context.Context) (map[string][]byte, *Result, error) {
	mem := sink.NewMemorySink()
	ir, err := generator.NewRunner(g.runnerConfig(false), mem).Run(ctx)
	return mem.Files(), g.result(ir), err
}

func (g *generatorAdapter) Undo(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo, err := git.Open(git.Config{WorkDir: g.moduleDir})
	if err != nil {
		return err
	}
	dirty, err := repo.IsDirty(g.cfg.OutputRoot)
	if err != nil {
		return err
	}
	if dirty {
		return errors.Wrapf(git.ErrDirtyOutput, "%s has uncommitted changes", g.cfg.OutputRoot)
	}
	if err := repo.Undo(); err != nil {
		return err
	}
	g.cfg.Logger.Infow("reverted last generated commit")
	return nil
}

// runnerConfig maps the public config onto the runner. Only Generate
// writes, so only Generate prunes, verifies and commits.
func (g *generatorAdapter) runnerConfig(write bool) generator.Config {
	rc := generator.Config{
		Dir:         g.cfg.Dir,
		Patterns:    g.cfg.Patterns,
		SkipDirs:    g.cfg.SkipDirs,
		BuildFlags:  g.cfg.BuildFlags,
		Concurrency: g.cfg.Concurrency,
		Output:      emit.Options{Root: g.cfg.OutputRoot, Suffix: g.cfg.Suffix},
		Logger:      g.cfg.Logger,
	}
	if g.cfg.Eligible != nil {
		rc.Predicate = predicate(g.cfg.Eligible)
	}
	if write {
		rc.Prune = g.cfg.Prune
		rc.Verify = g.cfg.Verify
		rc.TestCmd = g.cfg.TestCmd
		rc.Commit = g.cfg.Commit
	}
	return rc
}

func (g *generatorAdapter) result(ir *generator.Result) *Result {
	if ir == nil {
		return &Result{}
	}
	return &Result{
		ModulePath:  ir.ModulePath,
		Files:       ir.Files,
		Pruned:      ir.Pruned,
		Diagnostics: ir.Diagnostics,
		Commit:      ir.Commit,
	}
}

// predicate adapts a public Eligible func to the loader.
func predicate(eligible func(Declaration) bool) load.Predicate {
	return func(d load.Decl) bool {
		pos := d.Position()
		decl := Declaration{
			PkgPath:  d.Pkg.PkgPath,
			Name:     d.Spec.Name.Name,
			Exported: d.Spec.Name.IsExported(),
			Marked:   ast.SpecMarked(d.Gen, d.Spec),
		}
		if pos.IsValid() {
			decl.Position = pos.String()
		}
		return eligible(decl)
	}
}

// validateConfig checks that required fields are present.
func validateConfig(cfg Config) error {
	if cfg.Dir == "" {
		return errors.New("Dir is required")
	}
	if info, err := os.Stat(cfg.Dir); err != nil || !info.IsDir() {
		return errors.Newf("Dir %q does not exist or is not a directory", cfg.Dir)
	}
	if cfg.OutputRoot != "" {
		if path.IsAbs(cfg.OutputRoot) || strings.HasPrefix(path.Clean(cfg.OutputRoot), "..") {
			return errors.Newf("OutputRoot %q must be relative to the module and stay inside it", cfg.OutputRoot)
		}
	}
	if cfg.Concurrency < 0 {
		return errors.Newf("Concurrency must not be negative, got %d", cfg.Concurrency)
	}
	if cfg.TestCmd != "" && !cfg.Verify {
		return errors.New("TestCmd requires Verify")
	}
	return nil
}

// applyDefaults fills zero-valued optional fields.
func applyDefaults(cfg *Config) {
	if cfg.OutputRoot == "" {
		cfg.OutputRoot = emit.DefaultRoot
	}
	cfg.OutputRoot = path.Clean(cfg.OutputRoot)
	if cfg.Suffix == "" {
		cfg.Suffix = emit.DefaultSuffix
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
}
