// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package descriptor

import "github.com/cockroachdb/errors"

// Errors returned by Build. Each one is scoped to a single declaration;
// callers skip the declaration and continue with the others.
var (
	ErrNotAnnotated     = errors.New("declaration is not annotated")
	ErrUnresolvedSymbol = errors.New("unresolved symbol")
	ErrUnimportable     = errors.New("declaration cannot be imported by a companion package")
)
