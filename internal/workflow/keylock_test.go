package workflow

import (
	"sync"
	"testing"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock(7)
			defer km.Unlock(7)
			counter++
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestKeyedMutex_IndependentKeysDoNotBlock(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock(1)
	done := make(chan struct{})
	go func() {
		km.Lock(2)
		km.Unlock(2)
		close(done)
	}()

	<-done // would deadlock if key 2 waited on key 1
	km.Unlock(1)
}

func TestKeyedMutex_ReleasedEntriesAreDropped(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock(5)
	km.Unlock(5)

	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.locks) != 0 {
		t.Errorf("len(locks) = %d, want 0 after release", len(km.locks))
	}
}
