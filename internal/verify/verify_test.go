// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package verify

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGo(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
}

// module writes a throwaway module named testmod holding files.
func module(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files["go.mod"] = "module testmod\n\ngo 1.22\n"
	for rel, src := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
	}
	return dir
}

const holderModel = `package model

type Holder struct {
	Str string
}

func NewHolder(str string) Holder { return Holder{Str: str} }
`

const holderCompanion = `// Code generated by rawaccess. DO NOT EDIT.

package holderrawaccess

import "testmod/model"

func GetHolder(str string) model.Holder {
	return model.NewHolder(str)
}

func GetStr(holder model.Holder) string {
	return holder.Str
}
`

const brokenCompanion = `package holderrawaccess

import "testmod/model"

func GetMissing(holder model.Holder) string {
	return holder.Missing
}
`

const companionPath = "rawaccess/model/holderrawaccess/holder_rawaccess.go"

func TestVerify(t *testing.T) {
	requireGo(t)

	tests := []struct {
		name  string
		files map[string]string
		cfg   Config
		check func(t *testing.T, r *Result)
	}{
		{
			name:  "companion compiles",
			files: map[string]string{"model/holder.go": holderModel, companionPath: holderCompanion},
			cfg:   Config{Packages: []string{"./rawaccess/..."}},
			check: func(t *testing.T, r *Result) {
				assert.True(t, r.Success(), "build: %s\nvet: %s", r.BuildOut, r.VetOut)
				assert.Empty(t, r.Errors)
				assert.Empty(t, r.TestOutput, "no test command configured")
			},
		},
		{
			name:  "build failure stops before vet",
			files: map[string]string{"model/holder.go": holderModel, companionPath: brokenCompanion},
			cfg:   Config{Packages: []string{"./rawaccess/..."}, TestCmd: "go test ./..."},
			check: func(t *testing.T, r *Result) {
				assert.False(t, r.BuildOK)
				assert.False(t, r.VetOK)
				assert.Empty(t, r.VetOut)
				assert.Empty(t, r.TestOutput)

				var got *CompileError
				for i := range r.Errors {
					if filepath.Base(r.Errors[i].FilePath) == "holder_rawaccess.go" {
						got = &r.Errors[i]
					}
				}
				require.NotNil(t, got, "errors: %v", r.Errors)
				assert.Equal(t, "build", got.Step)
				assert.Equal(t, 6, got.Line)
				assert.Contains(t, got.Message, "Missing")
			},
		},
		{
			name: "vet findings fail a clean build",
			files: map[string]string{"main.go": `package main

import "fmt"

func main() {
	return
	fmt.Println("never")
}
`},
			check: func(t *testing.T, r *Result) {
				assert.True(t, r.BuildOK, r.BuildOut)
				assert.False(t, r.VetOK)
				assert.Contains(t, r.VetOut, "unreachable")
			},
		},
		{
			name: "failing test command",
			files: map[string]string{
				"sum.go": "package sum\n\nfunc Sum(a, b int) int { return a * b }\n",
				"sum_test.go": `package sum

import "testing"

func TestSum(t *testing.T) {
	if Sum(1, 4) != 5 {
		t.Fatal("want 5")
	}
}
`,
			},
			cfg: Config{TestCmd: "go test ./..."},
			check: func(t *testing.T, r *Result) {
				assert.True(t, r.BuildOK)
				assert.True(t, r.VetOK)
				assert.False(t, r.TestOK)
				assert.Contains(t, r.TestOutput, "FAIL")
				assert.False(t, r.Success())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.WorkDir = module(t, tt.files)
			tt.check(t, Verify(context.Background(), cfg))
		})
	}
}

func TestVerify_CancelledContext(t *testing.T) {
	requireGo(t)
	dir := module(t, map[string]string{"main.go": "package main\n\nfunc main() {}\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := Verify(ctx, Config{WorkDir: dir})
	assert.False(t, r.BuildOK)
	assert.NotEmpty(t, r.BuildOut)
}

func TestParseCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		step   string
		output string
		want   []CompileError
	}{
		{
			name:   "line and column",
			step:   "build",
			output: "rawaccess/model/holderrawaccess/holder_rawaccess.go:6:16: holder.Missing undefined",
			want: []CompileError{{
				Step: "build", FilePath: "rawaccess/model/holderrawaccess/holder_rawaccess.go",
				Line: 6, Column: 16, Message: "holder.Missing undefined",
			}},
		},
		{
			name:   "line only",
			step:   "build",
			output: "main.go:10: undefined: foo",
			want:   []CompileError{{Step: "build", FilePath: "main.go", Line: 10, Message: "undefined: foo"}},
		},
		{
			name:   "package headers and dot prefixes",
			step:   "build",
			output: "# testmod/rawaccess/x\n./x.go:4:5: expected operand\n\n",
			want:   []CompileError{{Step: "build", FilePath: "x.go", Line: 4, Column: 5, Message: "expected operand"}},
		},
		{
			name:   "vet prefix",
			step:   "vet",
			output: "# testmod\nvet: ./main.go:7:2: unreachable code\n",
			want:   []CompileError{{Step: "vet", FilePath: "main.go", Line: 7, Column: 2, Message: "unreachable code"}},
		},
		{
			name:   "several",
			step:   "build",
			output: "a.go:1:1: syntax error\nb.go:2:3: undefined: x\n",
			want: []CompileError{
				{Step: "build", FilePath: "a.go", Line: 1, Column: 1, Message: "syntax error"},
				{Step: "build", FilePath: "b.go", Line: 2, Column: 3, Message: "undefined: x"},
			},
		},
		{name: "nothing positioned", step: "build", output: "go: cannot find main module\n"},
		{name: "empty", step: "vet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCompileErrors(tt.step, tt.output))
		})
	}
}

func TestCompileError_String(t *testing.T) {
	withColumn := CompileError{FilePath: "x.go", Line: 4, Column: 5, Message: "expected operand"}
	assert.Equal(t, "x.go:4:5: expected operand", withColumn.String())

	lineOnly := CompileError{FilePath: "x.go", Line: 4, Message: "expected operand"}
	assert.Equal(t, "x.go:4: expected operand", lineOnly.String())
}

func TestResult_Success(t *testing.T) {
	all := Result{BuildOK: true, VetOK: true, TestOK: true}
	assert.True(t, all.Success())

	for name, flip := range map[string]func(*Result){
		"build": func(r *Result) { r.BuildOK = false },
		"vet":   func(r *Result) { r.VetOK = false },
		"test":  func(r *Result) { r.TestOK = false },
	} {
		t.Run(name, func(t *testing.T) {
			r := all
			flip(&r)
			assert.False(t, r.Success())
		})
	}
}
