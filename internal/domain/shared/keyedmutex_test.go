package shared

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("u1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestKeyedMutex_IndependentKeysDoNotBlock(t *testing.T) {
	km := NewKeyedMutex()

	unlockA := km.Lock("a")

	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("b")
		unlockB()
		close(done)
	}()

	<-done // would deadlock if "b" waited on "a"
	unlockA()
}

func TestKeyedMutex_EntriesAreReclaimed(t *testing.T) {
	km := NewKeyedMutex()

	unlock := km.Lock("u1")
	unlock()

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks, "unused entries are removed")
}

func TestKeyedMutex_Reentry(t *testing.T) {
	km := NewKeyedMutex()

	for i := 0; i < 3; i++ {
		unlock := km.Lock("u1")
		unlock()
	}
}
