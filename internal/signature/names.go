// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package signature

import (
	"go/token"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// LowerFirst returns name with its first letter lowered. A single-character
// name becomes its lowercase form; an empty name stays empty.
func LowerFirst(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}

// ParamName derives a parameter identifier from a type or member name.
// Keywords get a trailing underscore so the result is always a valid
// identifier.
func ParamName(name string) string {
	p := LowerFirst(name)
	if token.IsKeyword(p) {
		return p + "_"
	}
	return p
}

// Unique returns name, or name with the smallest numeric suffix that is not
// in taken.
func Unique(name string, taken map[string]bool) string {
	if !taken[name] {
		return name
	}
	for i := 2; ; i++ {
		candidate := name + strconv.Itoa(i)
		if !taken[candidate] {
			return candidate
		}
	}
}
