package fakeservice

import (
	"slices"
	"sync"
)

// table stores resources per configuration scope in insertion order.
type table[T any] struct {
	mu    sync.Mutex
	items map[string][]T
}

func newTable[T any]() *table[T] {
	return &table[T]{items: map[string][]T{}}
}

func (t *table[T]) list(scope string) []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.items[scope])
}

func (t *table[T]) find(scope string, match func(*T) bool) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.items[scope] {
		if match(&t.items[scope][i]) {
			return t.items[scope][i], true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T]) add(scope string, items ...T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items[scope] = append(t.items[scope], items...)
}

// replace swaps every stored item matched by key; it reports the keys that
// were not found and changes nothing in that case.
func (t *table[T]) replace(scope string, key func(*T) string, items []T) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := t.items[scope]
	index := make(map[string]int, len(stored))
	for i := range stored {
		index[key(&stored[i])] = i
	}
	var missing []string
	for i := range items {
		if _, ok := index[key(&items[i])]; !ok {
			missing = append(missing, key(&items[i]))
		}
	}
	if len(missing) > 0 {
		return missing
	}
	for i := range items {
		stored[index[key(&items[i])]] = items[i]
	}
	return nil
}

// remove deletes items whose key is in ids and returns how many were removed.
func (t *table[T]) remove(scope string, key func(*T) string, ids []string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	before := len(t.items[scope])
	t.items[scope] = slices.DeleteFunc(t.items[scope], func(item T) bool {
		return slices.Contains(ids, key(&item))
	})
	return before - len(t.items[scope])
}

func (t *table[T]) drop(scope string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.items, scope)
}
