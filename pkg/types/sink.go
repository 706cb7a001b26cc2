// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import "context"

// Sink receives rendered files. Paths are slash-separated and relative to
// the module root. The filesystem, in-memory and diff sinks implement it.
type Sink interface {
	Write(ctx context.Context, path string, src []byte) error
}

// FileStatus classifies a file against what is on disk.
type FileStatus int

const (
	Unchanged FileStatus = iota // On-disk content already matches
	Added                       // File does not exist yet
	Modified                    // File exists with different content
	Stale                       // Generated file that no type produces any more
)

func (s FileStatus) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}
