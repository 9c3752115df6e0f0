package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCRUD(t *testing.T) {
	m := NewMemory[int]()
	if err := m.Put("a", 1); err != nil {
		t.Fatalf("put a: %v", err)
	}
	if err := m.Put("b", 2); err != nil {
		t.Fatalf("put b: %v", err)
	}
	if err := m.Put("a", 3); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if v, err := m.Get("b"); err != nil || v != 2 {
		t.Fatalf("get b = %d, %v", v, err)
	}
	if _, err := m.Get("zz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if got := m.List(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("list = %v", got)
	}
}

func TestMemoryKeepsInsertionOrder(t *testing.T) {
	m := NewMemory[string]()
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("id-%02d", 49-i)
		if err := m.Put(id, id); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	got := m.List()
	for i, v := range got {
		if want := fmt.Sprintf("id-%02d", 49-i); v != want {
			t.Fatalf("position %d = %s, want %s", i, v, want)
		}
	}
}

func TestMemoryConcurrentPuts(t *testing.T) {
	m := NewMemory[int]()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Put(fmt.Sprint(i), i)
			_ = m.List()
		}(i)
	}
	wg.Wait()
	if m.Len() != 64 {
		t.Fatalf("len = %d, want 64", m.Len())
	}
}

func TestIDsAreMonotonicWithinMillisecond(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewIDGenerator(1, func() time.Time { return fixed })
	prev := g.New()
	for i := 0; i < 1000; i++ {
		id := g.New()
		if len(id) != 26 {
			t.Fatalf("unexpected id length %d", len(id))
		}
		if id <= prev {
			t.Fatalf("id %s not after %s", id, prev)
		}
		prev = id
	}
}
