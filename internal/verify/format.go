// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultContextLines  = 3
	defaultMaxTestOutput = 4096
)

// FormatConfig configures Report.
type FormatConfig struct {
	WorkDir       string // Relative error paths are resolved against it
	ContextLines  int    // Lines shown on each side of an error line; default 3
	MaxTestOutput int    // Test output is cut after this many bytes; default 4096
}

// report accumulates markdown sections.
type report struct {
	strings.Builder
}

func (r *report) section(title string) {
	fmt.Fprintf(r, "## %s\n\n", title)
}

func (r *report) fenced(body string) {
	r.WriteString("```\n")
	r.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		r.WriteByte('\n')
	}
	r.WriteString("```\n\n")
}

// Report renders a failed Result for the terminal: the generated files
// involved, each compiler error with the generated code around it, and
// any raw output that could not be attributed to a position.
func Report(result *Result, generated []string, cfg FormatConfig) string {
	if cfg.ContextLines == 0 {
		cfg.ContextLines = defaultContextLines
	}
	if cfg.MaxTestOutput == 0 {
		cfg.MaxTestOutput = defaultMaxTestOutput
	}

	var r report
	r.WriteString("Generated companion packages failed verification.\n\n")

	if len(generated) > 0 {
		r.section("Generated Files")
		for _, f := range generated {
			fmt.Fprintf(&r, "- %s\n", f)
		}
		r.WriteByte('\n')
	}

	if len(result.Errors) > 0 {
		r.section("Compiler Errors")
		for _, e := range result.Errors {
			fmt.Fprintf(&r, "### %s\n\n", e)
			if snippet := codeContext(resolve(cfg.WorkDir, e.FilePath), e.Line, cfg.ContextLines); snippet != "" {
				r.fenced(snippet)
			}
		}
	}

	// Raw build output only helps when nothing in it could be parsed.
	if !result.BuildOK && len(result.Errors) == 0 && result.BuildOut != "" {
		r.section("Build Output")
		r.fenced(result.BuildOut)
	}
	if !result.VetOK && result.VetOut != "" {
		r.section("Vet Output")
		r.fenced(result.VetOut)
	}
	if !result.TestOK && result.TestOutput != "" {
		r.section("Test Output")
		r.fenced(truncate(result.TestOutput, cfg.MaxTestOutput))
	}

	return r.String()
}

func resolve(workDir, p string) string {
	if filepath.IsAbs(p) || workDir == "" {
		return p
	}
	return filepath.Join(workDir, filepath.FromSlash(p))
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "\n... (truncated)"
}

// codeContext returns the numbered lines around line, with "> " marking
// line itself. It returns "" when the file cannot be read.
func codeContext(filePath string, line, radius int) string {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return ""
	}
	lines := strings.Split(string(data), "\n")

	first := max(line-radius, 1)
	last := min(line+radius, len(lines))

	var b strings.Builder
	for n := first; n <= last; n++ {
		marker := "  "
		if n == line {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%4d | %s\n", marker, n, lines[n-1])
	}
	return b.String()
}
