// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const markedSource = `package model

// Holder wraps a string.
//
//rawaccess:generate
type Holder struct {
	Str string
}

// Plain is not marked.
type Plain struct{}

type (
	// Grouped is marked on its own spec.
	//rawaccess:generate
	Grouped struct{}

	Other struct{}
)

//rawaccess:generate
type (
	GroupA struct{}
	GroupB struct{}
)

//rawaccess:generate extra
type WithArgs struct{}

//rawaccess:generate
func NotAType() {}
`

func parseMarked(t *testing.T) []Marked {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "model/model.go", markedSource, parser.ParseComments)
	require.NoError(t, err)
	return ExtractMarked(fset, "model/model.go", file)
}

func TestExtractMarked(t *testing.T) {
	marked := parseMarked(t)

	names := make([]string, len(marked))
	for i, m := range marked {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"Holder", "Grouped"}, names)

	require.NotEmpty(t, marked)
	assert.Equal(t, "model/model.go", marked[0].FilePath)
	assert.Equal(t, "model", marked[0].Dir)
	assert.Equal(t, 6, marked[0].Line)
	assert.Greater(t, marked[0].Column, 0)
}

func TestHasDirective(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "x.go", "package x\n\n// Doc.\n//rawaccess:generate  \ntype X struct{}\n", parser.ParseComments)
	require.NoError(t, err)

	assert.True(t, HasDirective(file.Comments...), "trailing whitespace is tolerated")
	assert.False(t, HasDirective(nil))
}
