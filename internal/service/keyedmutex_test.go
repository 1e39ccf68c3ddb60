package service

import (
	"sync"
	"testing"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	t.Parallel()

	km := newKeyedMutex()
	const workers = 32

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("guild-1/role-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Errorf("expected %d increments, got %d", workers, counter)
	}
	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.locks) != 0 {
		t.Errorf("lock map not cleaned up: %d entries", len(km.locks))
	}
}

func TestKeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	t.Parallel()

	km := newKeyedMutex()

	unlockA := km.Lock("guild-1/role-a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("guild-1/role-b")
		unlockB()
		close(done)
	}()

	<-done
}
