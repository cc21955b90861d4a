package application

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := newKeyedMutex()

	const n = 50
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.lock("actividad-1|p1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, n, counter)
	km.mu.Lock()
	assert.Empty(t, km.locks, "released keys must not leak entries")
	km.mu.Unlock()
}

func TestKeyedMutexDistinctKeysDoNotBlock(t *testing.T) {
	km := newKeyedMutex()

	unlockA := km.lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := km.lock("b")
		unlockB()
		close(done)
	}()
	<-done
}
