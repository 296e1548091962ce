package storage

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
)

// Memory is a Storage kept in process memory. Its zero value is ready to use.
type Memory struct {
	mu      sync.Mutex
	content map[string][]byte
	puts    int
}

// Get returns a copy of the content of key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.content[key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, fs.ErrNotExist)
	}
	return append([]byte(nil), v...), nil
}

// Put replaces the content of key.
func (m *Memory) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.content == nil {
		m.content = make(map[string][]byte)
	}
	m.content[key] = append([]byte(nil), data...)
	m.puts++
	return nil
}

// Puts returns the number of writes so far.
func (m *Memory) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}
