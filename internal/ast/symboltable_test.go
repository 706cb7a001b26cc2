// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	goast "go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pairSource = `package model

//rawaccess:generate
type Pair struct{ Number int }
`

const rootSource = `package app

//rawaccess:generate
type Config struct{ Name string }

//rawaccess:generate
type Pair struct{}
`

func buildTestMarkTable(t *testing.T) *MarkTable {
	t.Helper()
	fset := token.NewFileSet()

	pairFile, err := parser.ParseFile(fset, "model/pair.go", pairSource, parser.ParseComments)
	require.NoError(t, err)
	rootFile, err := parser.ParseFile(fset, "app.go", rootSource, parser.ParseComments)
	require.NoError(t, err)

	files := map[string]*goast.File{
		"model/pair.go": pairFile,
		"app.go":        rootFile,
	}

	return BuildMarkTable(fset, files)
}

func TestMarkTable_All(t *testing.T) {
	mt := buildTestMarkTable(t)

	all := mt.All()
	require.Len(t, all, 3)
	assert.Equal(t, 3, mt.Len())

	// Path order: app.go before model/pair.go.
	assert.Equal(t, "Config", all[0].Name)
	assert.Equal(t, "Pair", all[1].Name)
	assert.Equal(t, "app.go", all[1].FilePath)
	assert.Equal(t, "model/pair.go", all[2].FilePath)
}

func TestMarkTable_Lookups(t *testing.T) {
	mt := buildTestMarkTable(t)

	tests := []struct {
		name      string
		got       []Marked
		wantCount int
	}{
		{"by name with two packages", mt.ByName("Pair"), 2},
		{"by name single", mt.ByName("Config"), 1},
		{"by name missing", mt.ByName("Missing"), 0},
		{"by root dir", mt.ByDir("."), 2},
		{"by nested dir", mt.ByDir("model"), 1},
		{"by missing dir", mt.ByDir("nope"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.got, tt.wantCount)
		})
	}

	assert.Equal(t, []string{".", "model"}, mt.Dirs())
}

func TestMarkTable_Empty(t *testing.T) {
	mt := BuildMarkTable(token.NewFileSet(), nil)
	assert.Equal(t, 0, mt.Len())
	assert.Empty(t, mt.All())
	assert.Empty(t, mt.Dirs())
	assert.Nil(t, mt.ByName("X"))
}
