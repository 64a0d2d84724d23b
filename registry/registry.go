package registry

import (
	"sync"
)

// Maps a natural key to a single canonical instance. Instances are
// created on first reference and never removed, so a registry holds
// everything generated during the run it belongs to.
//
// Safe for concurrent use: lookup-or-create is atomic per key.
type Registry[K comparable, V any] struct {
	mutex sync.Mutex
	index map[K]int
	items []V
}

func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		index: map[K]int{},
	}
}

// Returns the instance stored under key. If there is none, build is
// called with the next sequence number (0 for the first instance) and
// its result is stored.
//
// build is not called for keys already present, so any arguments it
// closes over are ignored on lookup. If build fails, nothing is stored
// and the sequence number is reused by the next successful build.
func (r *Registry[K, V]) Generate(key K, build func(seq int) (V, error)) (V, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if i, found := r.index[key]; found {
		return r.items[i], nil
	}

	item, err := build(len(r.items))
	if err != nil {
		var zero V
		return zero, err
	}

	r.index[key] = len(r.items)
	r.items = append(r.items, item)

	return item, nil
}

func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	i, found := r.index[key]
	if !found {
		var zero V
		return zero, false
	}
	return r.items[i], true
}

// All instances, in order of creation.
func (r *Registry[K, V]) All() []V {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	all := make([]V, len(r.items))
	copy(all, r.items)
	return all
}

func (r *Registry[K, V]) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return len(r.items)
}
