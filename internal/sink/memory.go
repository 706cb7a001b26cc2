// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package sink

import (
	"context"
	"path"
	"sync"

	"github.com/cockroachdb/errors"
)

// MemorySink keeps rendered files in memory. Library hosts use it to
// inspect output without touching disk.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
	order []string
}

// NewMemorySink returns an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// Write stores a copy of src under rel.
func (m *MemorySink) Write(ctx context.Context, rel string, src []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel = path.Clean(rel)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.files[rel]; dup {
		return errors.Wrapf(ErrDuplicatePath, "%s", rel)
	}
	m.files[rel] = append([]byte(nil), src...)
	m.order = append(m.order, rel)
	return nil
}

// Paths returns the stored paths in write order.
func (m *MemorySink) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// File returns the content stored under rel.
func (m *MemorySink) File(rel string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, ok := m.files[path.Clean(rel)]
	return src, ok
}

// Files returns a copy of every stored file keyed by path.
func (m *MemorySink) Files() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte, len(m.files))
	for k, v := range m.files {
		out[k] = v
	}
	return out
}
