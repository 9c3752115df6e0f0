package store

import (
	"errors"
	"sync"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate id")
)

// Memory is a process-local repository. Values are kept until the process
// exits; List returns them in insertion order.
type Memory[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{items: map[string]T{}}
}

func (m *Memory[T]) Put(id string, v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; ok {
		return ErrDuplicate
	}
	m.items[id] = v
	m.order = append(m.order, id)
	return nil
}

func (m *Memory[T]) Get(id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return v, nil
}

func (m *Memory[T]) List() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out
}

func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
