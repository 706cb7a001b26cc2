// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package synth

import (
	"strings"

	"github.com/petar-djukic/rawaccess/internal/signature"
	"github.com/petar-djukic/rawaccess/pkg/types"
)

// Factories returns one forwarding factory per constructor, in constructor
// order. The primary constructor New<T> becomes Get<T>; New<T><Suffix>
// becomes Get<T><Suffix>.
func Factories(td *types.TypeDescriptor, sig signature.Signature) []types.FuncDescriptor {
	funcs := make([]types.FuncDescriptor, 0, len(td.Constructors))
	for _, c := range td.Constructors {
		args := make([]string, len(c.Params))
		for i, p := range c.Params {
			args[i] = p.Name
			if strings.HasPrefix(p.Type, "...") {
				args[i] += "..."
			}
		}
		call := td.PkgAlias + "." + c.Name + sig.Args + "(" + strings.Join(args, ", ") + ")"

		funcs = append(funcs, types.FuncDescriptor{
			Name:       "Get" + td.Name + c.Suffix,
			Role:       types.Factory,
			Source:     c.Name,
			Doc:        "Get" + td.Name + c.Suffix + " forwards to " + td.PkgAlias + "." + c.Name + ".",
			TypeParams: sig.Decl,
			Params:     append([]types.Parameter(nil), c.Params...),
			Results:    append([]string(nil), c.Results...),
			Body:       []string{"return " + call},
		})
	}
	return funcs
}

// reader returns the Get<Member> function for a readable member.
func reader(td *types.TypeDescriptor, sig signature.Signature, p params, m types.Member) types.FuncDescriptor {
	return types.FuncDescriptor{
		Name:       "Get" + m.Name,
		Role:       types.Reader,
		Source:     m.Name,
		Doc:        "Get" + m.Name + " returns the " + m.Name + " member of " + p.instance + ".",
		TypeParams: sig.Decl,
		Params:     []types.Parameter{{Name: p.instance, Type: td.Instance}},
		Results:    []string{m.Type},
		Body:       []string{"return " + read(p.instance, m)},
	}
}

func read(recv string, m types.Member) string {
	if m.Origin == types.PropertyLike {
		return recv + "." + m.Name + "()"
	}
	return recv + "." + m.Name
}
