// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package synth derives the companion functions of one type from its
// descriptor: factories and readers (accessors) and updaters (mutators).
package synth

import (
	"github.com/cockroachdb/errors"

	"github.com/petar-djukic/rawaccess/internal/signature"
	"github.com/petar-djukic/rawaccess/pkg/types"
)

// ErrNameCollision is returned when two synthesized functions of the same
// type would share a name. Nothing is produced for that type.
var ErrNameCollision = errors.New("synthesized function names collide")

// Synthesize returns every function for td in output order: factories in
// constructor order, then for each member its reader followed by its
// updater. The result is empty when the type has no public surface.
func Synthesize(td *types.TypeDescriptor) ([]types.FuncDescriptor, error) {
	sig := signature.Build(td.TypeParams)
	p := newParams(td)

	funcs := Factories(td, sig)
	for _, m := range td.Members {
		if m.Readable {
			funcs = append(funcs, reader(td, sig, p, m))
		}
		if m.Writable {
			funcs = append(funcs, updater(td, sig, p, m))
		}
	}

	if err := checkCollisions(funcs); err != nil {
		return nil, errors.Wrapf(err, "%s", td.QualifiedName)
	}
	return funcs, nil
}

func checkCollisions(funcs []types.FuncDescriptor) error {
	seen := make(map[string]types.FuncDescriptor, len(funcs))
	for _, f := range funcs {
		if prev, ok := seen[f.Name]; ok {
			return errors.Wrapf(ErrNameCollision, "%s is produced by %s %s and %s %s",
				f.Name, prev.Role, prev.Source, f.Role, f.Source)
		}
		seen[f.Name] = f
	}
	return nil
}

// params hands out the parameter names used by readers and updaters. Names
// never shadow a type parameter.
type params struct {
	taken    map[string]bool
	instance string
}

func newParams(td *types.TypeDescriptor) params {
	taken := make(map[string]bool, len(td.TypeParams)+1)
	for _, tp := range td.TypeParams {
		taken[tp.Name] = true
	}
	instance := signature.Unique(signature.ParamName(td.Name), taken)
	taken[instance] = true
	return params{taken: taken, instance: instance}
}

// value names the new-value parameter of an updater for member.
func (p params) value(member string) string {
	v := signature.ParamName(member)
	if v == p.instance {
		v = "new" + member
	}
	return signature.Unique(v, p.taken)
}

// local names a temporary that differs from the instance, the value and
// every type parameter.
func (p params) local(value string) string {
	taken := make(map[string]bool, len(p.taken)+1)
	for k := range p.taken {
		taken[k] = true
	}
	taken[value] = true
	return signature.Unique("c", taken)
}
