package workflow

import "sync"

// nameLocks serializes mutating operations per specification name within a
// single process. Operations on different names proceed fully in parallel,
// and no operation ever holds two name locks at once, so no cross-name lock
// ordering cycle is possible.
//
// Cross-process exclusion is handled separately by the store's file locks;
// this registry exists so a writer's read-modify-write cycle is atomic with
// respect to other writers in the same process.
type nameLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// newNameLocks creates an empty lock registry.
func newNameLocks() *nameLocks {
	return &nameLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given name, creating it on first use.
// The returned function releases the lock:
//
//	unlock := locks.Lock(name)
//	defer unlock()
//
// Lock entries are never removed. The set of specification names in one
// store is small and bounded by what callers create.
func (n *nameLocks) Lock(name string) func() {
	n.mu.Lock()
	l, ok := n.locks[name]
	if !ok {
		l = &sync.Mutex{}
		n.locks[name] = l
	}
	n.mu.Unlock()

	l.Lock()
	return l.Unlock
}
