package dispatch

import (
	"slices"
	"sync"
)

// keyedLocks hands out one mutex per identity. Entries are dropped once
// nobody holds or waits for them.
type keyedLocks struct {
	mu      sync.Mutex
	entries map[uint64]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{entries: make(map[uint64]*keyedLock)}
}

// lock acquires every identity in ascending order and returns the release
// function. Repeated identities are locked once.
func (k *keyedLocks) lock(ids ...uint64) func() {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	held := make([]*keyedLock, 0, len(ids))
	for _, id := range ids {
		k.mu.Lock()
		e := k.entries[id]
		if e == nil {
			e = &keyedLock{}
			k.entries[id] = e
		}
		e.refs++
		k.mu.Unlock()

		e.mu.Lock()
		held = append(held, e)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			k.mu.Lock()
			held[i].refs--
			if held[i].refs == 0 {
				delete(k.entries, ids[i])
			}
			k.mu.Unlock()
		}
	}
}

func (k *keyedLocks) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
