// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_CompilerErrorsWithContext(t *testing.T) {
	dir := t.TempDir()
	rel := "rawaccess/model/holderrawaccess/holder_rawaccess.go"
	content := `// Code generated by rawaccess. DO NOT EDIT.

package holderrawaccess

import "testmod/model"

func GetMissing(holder model.Holder) string {
	return holder.Missing
}
`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, filepath.Dir(rel)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, rel), []byte(content), 0o644))

	result := &Result{
		Errors: []CompileError{{FilePath: rel, Line: 8, Column: 16, Message: "holder.Missing undefined"}},
	}

	report := Report(result, []string{rel}, FormatConfig{WorkDir: dir})

	assert.Contains(t, report, "failed verification")
	assert.Contains(t, report, "## Generated Files")
	assert.Contains(t, report, "- "+rel)
	assert.Contains(t, report, "## Compiler Errors")
	assert.Contains(t, report, "func GetMissing")
	assert.Contains(t, report, ">    8 | \treturn holder.Missing")
}

func TestReport_RawBuildOutput(t *testing.T) {
	report := Report(&Result{BuildOut: "some raw output\n"}, nil, FormatConfig{})

	assert.Contains(t, report, "## Build Output")
	assert.Contains(t, report, "some raw output")
	assert.NotContains(t, report, "## Generated Files")
}

func TestReport_VetOutput(t *testing.T) {
	report := Report(&Result{BuildOK: true, TestOK: true, VetOut: "x.go:7:2: unreachable code\n"}, nil, FormatConfig{})

	assert.Contains(t, report, "## Vet Output")
	assert.Contains(t, report, "unreachable")
}

func TestReport_TestOutputTruncated(t *testing.T) {
	long := strings.Repeat("x", 5000)
	report := Report(&Result{BuildOK: true, VetOK: true, TestOutput: long}, nil, FormatConfig{MaxTestOutput: 100})

	assert.Contains(t, report, "## Test Output")
	assert.Contains(t, report, "truncated")
	assert.Less(t, len(report), len(long))
}

func TestCodeContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.go")
	var lines []string
	for i := 1; i <= 20; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))

	t.Run("middle of file", func(t *testing.T) {
		c := codeContext(path, 10, 3)
		assert.Contains(t, c, "line 7")
		assert.Contains(t, c, ">   10 | line 10")
		assert.Contains(t, c, "line 13")
		assert.NotContains(t, c, "line 6\n")
		assert.NotContains(t, c, "line 14")
	})

	t.Run("start of file", func(t *testing.T) {
		c := codeContext(path, 1, 3)
		assert.Contains(t, c, ">    1 | line 1")
		assert.Contains(t, c, "line 4")
	})

	t.Run("end of file", func(t *testing.T) {
		c := codeContext(path, 20, 3)
		assert.Contains(t, c, ">   20 | line 20")
		assert.Contains(t, c, "line 17")
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Empty(t, codeContext(filepath.Join(dir, "nope.go"), 1, 3))
	})
}
