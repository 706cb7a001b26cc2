// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package generator runs one generation pass: it loads the eligible
// declarations, derives every companion unit in parallel, delivers the
// units to a sink in discovery order, and optionally prunes, verifies and
// commits the result.
package generator

import (
	"context"
	"path"
	"runtime"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/rawaccess/internal/descriptor"
	"github.com/petar-djukic/rawaccess/internal/emit"
	gitpkg "github.com/petar-djukic/rawaccess/internal/git"
	"github.com/petar-djukic/rawaccess/internal/load"
	"github.com/petar-djukic/rawaccess/internal/sink"
	"github.com/petar-djukic/rawaccess/internal/synth"
	"github.com/petar-djukic/rawaccess/internal/verify"
	"github.com/petar-djukic/rawaccess/pkg/types"
)

// ErrVerifyFailed is returned when the generated packages do not compile
// or vet cleanly.
var ErrVerifyFailed = errors.New("generated packages failed verification")

// Config configures a Runner.
type Config struct {
	Dir         string   // Directory packages are resolved from
	Patterns    []string // Package patterns; empty means packages holding markers
	SkipDirs    []string
	BuildFlags  []string
	Concurrency int // Worker count; <= 0 means runtime.NumCPU()
	Predicate   load.Predicate
	Output      emit.Options

	Prune   bool   // Remove generated files no type produces any more
	Verify  bool   // Build and vet the generated packages
	TestCmd string // Run after a clean verify
	Commit  bool   // Commit the changed files with go-git

	Logger *zap.SugaredLogger
}

// Result is the outcome of one pass.
type Result struct {
	ModulePath  string
	ModuleDir   string
	Units       []types.UnitDescriptor // Discovery order
	Files       []string               // Every path handed to the sink, bootstrap first
	Pruned      []string               // Removed, or in check mode reported as stale
	Diagnostics []types.Diagnostic
	Verify      *verify.Result
	Commit      string // Hash of the commit, when one was made
}

// Runner executes generation passes against one sink.
type Runner struct {
	cfg    Config
	sink   types.Sink
	logger *zap.SugaredLogger
}

// NewRunner returns a Runner writing to s.
func NewRunner(cfg Config, s types.Sink) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	return &Runner{cfg: cfg, sink: s, logger: logger}
}

// outcome is the result of processing one declaration.
type outcome struct {
	unit types.UnitDescriptor
	src  []byte
	ok   bool
	diag *types.Diagnostic
}

// Run executes one generation pass. Per-type failures become diagnostics;
// the returned error reports host failures only (loading, writing,
// verification, committing).
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	out := r.cfg.Output
	root := outputRoot(out)

	loaded, err := load.Load(ctx, load.Config{
		Dir:         r.cfg.Dir,
		Patterns:    r.cfg.Patterns,
		SkipDirs:    append(append([]string(nil), r.cfg.SkipDirs...), root),
		BuildFlags:  r.cfg.BuildFlags,
		Concurrency: r.cfg.Concurrency,
		Predicate:   r.cfg.Predicate,
		Logger:      r.logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "loading packages")
	}

	result := &Result{ModulePath: loaded.ModulePath, ModuleDir: loaded.ModuleDir}
	outcomes, err := r.process(ctx, loaded.Decls, loaded.ModulePath)
	if err != nil {
		return result, err
	}

	bootPath, bootSrc, err := emit.Bootstrap(out)
	if err != nil {
		return result, err
	}
	if err := r.write(ctx, result, bootPath, bootSrc); err != nil {
		return result, err
	}

	seen := map[string]string{bootPath: "bootstrap"}
	for _, o := range outcomes {
		if o.diag != nil {
			result.Diagnostics = append(result.Diagnostics, *o.diag)
			continue
		}
		if !o.ok {
			continue
		}
		p := o.unit.Path()
		if prev, dup := seen[p]; dup {
			result.Diagnostics = append(result.Diagnostics, types.Diagnostic{
				Type:    o.unit.Type,
				Code:    types.CodeNameCollision,
				Message: "companion file " + p + " is already produced by " + prev,
			})
			continue
		}
		seen[p] = o.unit.Type
		if err := r.write(ctx, result, p, o.src); err != nil {
			return result, err
		}
		result.Units = append(result.Units, o.unit)
	}

	for _, d := range result.Diagnostics {
		if d.Code == types.CodeNoPublicSurface {
			r.logger.Infow("type skipped", "type", d.Type, "code", string(d.Code), "reason", d.Message)
		} else {
			r.logger.Warnw("type skipped", "type", d.Type, "code", string(d.Code), "reason", d.Message, "pos", d.Pos)
		}
	}

	if err := r.finish(ctx, result, root); err != nil {
		return result, err
	}

	r.logger.Infow("generation complete",
		"units", len(result.Units),
		"diagnostics", len(result.Diagnostics),
		"pruned", len(result.Pruned),
	)
	return result, nil
}

// process derives every declaration's unit on a bounded worker pool.
// Results land at the declaration's discovery index so the output does not
// depend on completion order.
func (r *Runner) process(ctx context.Context, decls []load.Decl, modulePath string) ([]outcome, error) {
	outcomes := make([]outcome, len(decls))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(r.cfg.Concurrency)
	for i, d := range decls {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.processDecl(d, modulePath)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// processDecl runs the core pipeline for one declaration: descriptor,
// synthesized functions, unit, rendered source.
func (r *Runner) processDecl(d load.Decl, modulePath string) outcome {
	qn := d.QualifiedName()
	pos := d.Position().String()
	if pos == "-" {
		pos = ""
	}
	fail := func(code types.DiagnosticCode, err error) outcome {
		return outcome{diag: &types.Diagnostic{Type: qn, Code: code, Message: err.Error(), Pos: pos}}
	}

	importer := emit.ImportPath(modulePath, d.Namespace(), d.Spec.Name.Name, r.cfg.Output)
	td, err := descriptor.Build(d, r.cfg.Predicate, importer)
	switch {
	case errors.Is(err, descriptor.ErrNotAnnotated):
		return outcome{}
	case errors.Is(err, descriptor.ErrUnimportable):
		return fail(types.CodeUnimportable, err)
	case err != nil:
		return fail(types.CodeUnresolvedSymbol, err)
	}

	funcs, err := synth.Synthesize(td)
	if err != nil {
		return fail(types.CodeNameCollision, err)
	}

	unit, ok := emit.Unit(td, funcs, r.cfg.Output)
	if !ok {
		return fail(types.CodeNoPublicSurface, errors.New("no exported constructors or members"))
	}

	src, err := emit.Render(unit)
	if err != nil {
		return fail(types.CodeUnresolvedSymbol, err)
	}
	r.logger.Debugw("derived unit", "type", qn, "path", unit.Path(), "funcs", len(unit.Funcs), "kind", td.Kind.String())
	return outcome{unit: unit, src: src, ok: true}
}

func (r *Runner) write(ctx context.Context, result *Result, p string, src []byte) error {
	if err := r.sink.Write(ctx, p, src); err != nil {
		return errors.Wrapf(err, "writing %s", p)
	}
	result.Files = append(result.Files, p)
	return nil
}

// finish applies the sink-specific follow-up steps: stale file handling,
// verification and committing.
func (r *Runner) finish(ctx context.Context, result *Result, root string) error {
	keep := make(map[string]bool, len(result.Files))
	for _, f := range result.Files {
		keep[f] = true
	}

	switch s := r.sink.(type) {
	case *sink.DiffSink:
		stale, err := sink.Stale(result.ModuleDir, root, keep)
		if err != nil {
			return err
		}
		result.Pruned = stale
		return s.MarkStale(stale)

	case *sink.FilesystemSink:
		if r.cfg.Prune {
			pruned, err := sink.Prune(ctx, result.ModuleDir, root, keep, r.logger)
			if err != nil {
				return err
			}
			result.Pruned = pruned
		}
		if r.cfg.Verify {
			if err := r.verify(ctx, result, root); err != nil {
				return err
			}
		}
		if r.cfg.Commit {
			return r.commit(result, s.Changed())
		}
	}
	return nil
}

func (r *Runner) verify(ctx context.Context, result *Result, root string) error {
	vr := verify.Verify(ctx, verify.Config{
		WorkDir:  result.ModuleDir,
		Packages: []string{"./" + root + "/..."},
		TestCmd:  r.cfg.TestCmd,
		Logger:   r.logger,
	})
	result.Verify = vr
	if vr.Success() {
		return nil
	}
	report := verify.Report(vr, result.Files, verify.FormatConfig{WorkDir: result.ModuleDir})
	r.logger.Errorw("verification failed", "errors", len(vr.Errors))
	return errors.Wrapf(ErrVerifyFailed, "%s", report)
}

func (r *Runner) commit(result *Result, changed []string) error {
	change := gitpkg.Change{Written: changed, Removed: result.Pruned}
	for _, u := range result.Units {
		change.Types = append(change.Types, u.Type)
	}
	if change.Empty() {
		r.logger.Debugw("nothing to commit")
		return nil
	}

	repo, err := gitpkg.Open(gitpkg.Config{WorkDir: result.ModuleDir})
	if err != nil {
		return err
	}
	hash, err := repo.Commit(change)
	if err != nil {
		return errors.Wrap(err, "committing generated files")
	}
	result.Commit = hash
	r.logger.Infow("committed generated files", "commit", hash, "files", len(changed)+len(result.Pruned))
	return nil
}

func outputRoot(o emit.Options) string {
	if o.Root == "" {
		return emit.DefaultRoot
	}
	return path.Clean(o.Root)
}
