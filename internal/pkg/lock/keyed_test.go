package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("emp-1")
			defer km.Unlock("emp-1")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyedMutex_IndependentKeysDoNotBlock(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock("emp-1")
	done := make(chan struct{})
	go func() {
		km.Lock("emp-2")
		km.Unlock("emp-2")
		close(done)
	}()
	<-done
	km.Unlock("emp-1")
}
