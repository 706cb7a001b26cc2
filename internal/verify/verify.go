// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package verify compiles and vets freshly generated companion packages
// and formats the errors it finds.
package verify

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultCmdTimeout  = 60 * time.Second
	defaultTestTimeout = 120 * time.Second
)

// CompileError is one positioned diagnostic printed by go build or go vet.
type CompileError struct {
	Step     string // "build" or "vet"
	FilePath string // As printed by the go command, usually relative to the module root
	Line     int
	Column   int // 0 when the tool printed none
	Message  string
}

func (e CompileError) String() string {
	if e.Column > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s:%d: %s", e.FilePath, e.Line, e.Message)
}

// Result holds the outcome of the build, vet and test steps.
type Result struct {
	BuildOK    bool
	VetOK      bool // false when vet was skipped after a failed build
	TestOK     bool // true when no test command is configured
	Errors     []CompileError
	BuildOut   string
	VetOut     string
	TestOutput string
}

// Success reports whether every step passed.
func (r *Result) Success() bool {
	return r.BuildOK && r.VetOK && r.TestOK
}

// Config configures Verify.
type Config struct {
	WorkDir     string   // Module root
	Packages    []string // Package patterns to check; default ./...
	TestCmd     string   // Run after a clean vet; empty skips tests
	CmdTimeout  time.Duration
	TestTimeout time.Duration
	Logger      *zap.SugaredLogger
}

// runner executes the verification steps of one Verify call.
type runner struct {
	ctx    context.Context
	dir    string
	logger *zap.SugaredLogger
}

// run executes argv with a timeout and reports its combined output and
// whether it exited cleanly.
func (r runner) run(step string, timeout time.Duration, argv []string) (string, bool) {
	ctx, cancel := context.WithTimeout(r.ctx, timeout)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.dir
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	r.logger.Debugw("verification step finished",
		"step", step,
		"ok", err == nil,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	if err != nil && out.Len() == 0 {
		// The command never ran (missing binary, cancelled context).
		out.WriteString(err.Error() + "\n")
	}
	return out.String(), err == nil
}

// Verify runs go build and go vet over the configured packages, then the
// test command. Each step runs only when the previous one passed.
func Verify(ctx context.Context, cfg Config) *Result {
	applyDefaults(&cfg)
	r := runner{ctx: ctx, dir: cfg.WorkDir, logger: cfg.Logger}
	result := &Result{TestOK: true}

	r.logger.Debugw("verifying generated packages", "dir", cfg.WorkDir, "packages", cfg.Packages)

	result.BuildOut, result.BuildOK = r.run("build", cfg.CmdTimeout, append([]string{"go", "build"}, cfg.Packages...))
	if !result.BuildOK {
		result.Errors = parseCompileErrors("build", result.BuildOut)
		return result
	}

	result.VetOut, result.VetOK = r.run("vet", cfg.CmdTimeout, append([]string{"go", "vet"}, cfg.Packages...))
	if !result.VetOK {
		result.Errors = parseCompileErrors("vet", result.VetOut)
	}

	if cfg.TestCmd == "" {
		return result
	}
	if !result.VetOK {
		result.TestOK = false
		return result
	}
	result.TestOutput, result.TestOK = r.run("test", cfg.TestTimeout, strings.Fields(cfg.TestCmd))
	return result
}

func applyDefaults(cfg *Config) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.CmdTimeout == 0 {
		cfg.CmdTimeout = defaultCmdTimeout
	}
	if cfg.TestTimeout == 0 {
		cfg.TestTimeout = defaultTestTimeout
	}
	if len(cfg.Packages) == 0 {
		cfg.Packages = []string{"./..."}
	}
}

// diagnosticLine matches "file.go:10:5: message" and "file.go:10: message",
// with the "vet: " prefix go vet sometimes adds.
var diagnosticLine = regexp.MustCompile(`^(?:vet: )?(.+?\.go):(\d+)(?::(\d+))?: (.+)$`)

func parseCompileErrors(step, output string) []CompileError {
	var errs []CompileError
	for _, line := range strings.Split(output, "\n") {
		m := diagnosticLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		ce := CompileError{Step: step, FilePath: strings.TrimPrefix(m[1], "./"), Message: m[4]}
		ce.Line, _ = strconv.Atoi(m[2])
		if m[3] != "" {
			ce.Column, _ = strconv.Atoi(m[3])
		}
		errs = append(errs, ce)
	}
	return errs
}
