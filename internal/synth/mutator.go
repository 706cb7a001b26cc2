// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package synth

import (
	"github.com/petar-djukic/rawaccess/internal/signature"
	"github.com/petar-djukic/rawaccess/pkg/types"
)

// updater returns the With<Member> function for a writable member.
//
// Mutable kinds assign on the instance that was passed in and return it;
// with a pointer instance every alias observes the change, with a value
// instance only the callee's copy does. ImmutableNonDestructive clones the
// instance, assigns on the clone and returns it, leaving the input as it
// was.
func updater(td *types.TypeDescriptor, sig signature.Signature, p params, m types.Member) types.FuncDescriptor {
	v := p.value(m.Name)

	var body []string
	doc := "With" + m.Name + " sets the " + m.Name + " member of " + p.instance + " and returns it."
	switch td.Kind {
	case types.ImmutableNonDestructive:
		doc = "With" + m.Name + " returns a copy of " + p.instance + " with " + m.Name + " replaced."
		c := p.local(v)
		body = []string{
			c + " := " + p.instance + ".Clone()",
			write(c, m, v),
			"return " + c,
		}
	default:
		body = []string{
			write(p.instance, m, v),
			"return " + p.instance,
		}
	}

	return types.FuncDescriptor{
		Name:       "With" + m.Name,
		Role:       types.Updater,
		Source:     m.Name,
		Doc:        doc,
		TypeParams: sig.Decl,
		Params: []types.Parameter{
			{Name: p.instance, Type: td.Instance},
			{Name: v, Type: m.Type},
		},
		Results: []string{td.Instance},
		Body:    body,
	}
}

func write(recv string, m types.Member, value string) string {
	if m.Origin == types.PropertyLike {
		return recv + ".Set" + m.Name + "(" + value + ")"
	}
	return recv + "." + m.Name + " = " + value
}
