// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"strings"
)

const maxSubjectLength = 72

// GenerateMessage builds a conventional commit message for c: a subject
// counting the types, a body listing types and files, and the trailer that
// marks the commit as undoable.
func GenerateMessage(c Change) string {
	msg := buildSubject(c)
	if body := buildBody(c); body != "" {
		msg += "\n\n" + body
	}
	return msg + "\n\n" + generatedTrailer
}

func buildSubject(c Change) string {
	var subject string
	switch {
	case len(c.Types) == 0:
		subject = "chore(rawaccess): prune companion files"
	case len(c.Types) == 1:
		subject = "chore(rawaccess): regenerate accessors for " + shortName(c.Types[0])
	default:
		subject = fmt.Sprintf("chore(rawaccess): regenerate accessors for %d types", len(c.Types))
	}
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength-3] + "..."
	}
	return subject
}

func buildBody(c Change) string {
	var buf strings.Builder
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(title + ":\n")
		for _, it := range items {
			buf.WriteString(fmt.Sprintf("- %s\n", it))
		}
	}
	section("Types", c.Types)
	section("Written", c.Written)
	section("Removed", c.Removed)
	return strings.TrimRight(buf.String(), "\n")
}

// shortName strips the import path from a qualified type name.
func shortName(qualified string) string {
	if i := strings.LastIndex(qualified, "/"); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
