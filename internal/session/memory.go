package session

import (
	"context"
	"sync"
)

// MemoryJar keeps entries in process memory.
type MemoryJar struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemoryJar returns an empty in-memory jar.
func NewMemoryJar() *MemoryJar {
	return &MemoryJar{entries: make(map[string]Entry)}
}

func (j *MemoryJar) Put(_ context.Context, entries ...Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, e := range entries {
		j.entries[e.Name] = e
	}
	return nil
}

func (j *MemoryJar) Get(_ context.Context, name string) (Entry, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	e, ok := j.entries[name]
	return e, ok, nil
}

func (j *MemoryJar) Delete(_ context.Context, names ...string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, n := range names {
		delete(j.entries, n)
	}
	return nil
}

func (j *MemoryJar) Close() error { return nil }
