// Package lock provides per-key serialization. Every mutation of a character
// (combat actions, purchases, quest updates) runs under that character's
// lock so concurrent double-submissions cannot interleave.
package lock

import "sync"

// Keyed hands out one mutex per key. Mutexes are never evicted; the key
// space is bounded by the number of live characters.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyed creates an empty keyed lock set.
func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns the unlock function.
//
//	defer locks.Lock(characterID)()
func (k *Keyed) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
