package workflow

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameLocksSerializesSameName(t *testing.T) {
	locks := newNameLocks()

	const goroutines = 50
	counter := 0
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			unlock := locks.Lock("payments")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
}

func TestNameLocksIndependentNames(t *testing.T) {
	locks := newNameLocks()

	// Hold one name's lock; a different name must still be acquirable.
	unlockA := locks.Lock("spec-a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("spec-b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on a different name blocked behind an unrelated holder")
	}
}

func TestNameLocksUnlockReleases(t *testing.T) {
	locks := newNameLocks()

	unlock := locks.Lock("spec-a")
	unlock()

	// No deadlock: re-acquiring after release succeeds.
	unlock = locks.Lock("spec-a")
	unlock()
}

func TestNameLocksReusesMutexPerName(t *testing.T) {
	locks := newNameLocks()

	unlock := locks.Lock("spec-a")
	unlock()
	unlock = locks.Lock("spec-a")
	unlock()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	require.Len(t, locks.locks, 1)
}
