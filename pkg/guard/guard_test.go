package guard_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kelsin/heapsim/pkg/guard"
	"github.com/kelsin/heapsim/pkg/heap"
)

func newGuarded(t *testing.T) *guard.Guarded {
	t.Helper()
	return guard.New(heap.New(heap.WithCapacity(64_000), heap.WithAlignment(16)))
}

func TestAllocateFreeRoundTrip(t *testing.T) {
	g := newGuarded(t)

	p := g.Allocate(64)
	assert.NotNil(t, p)
	assert.Equal(t, heap.SUCCESS, g.LastStatus())
	assert.Equal(t, 1, g.AllocCount())

	g.Free(p)
	assert.Equal(t, heap.SUCCESS, g.LastStatus())
	assert.Equal(t, 0, g.AllocCount())
}

func TestConcurrentAllocateFreeStaysConsistent(t *testing.T) {
	g := newGuarded(t)

	const goroutines = 16
	const perGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				p := g.Allocate(32)
				if p != nil {
					g.Free(p)
				}
			}
		}()
	}
	wg.Wait()

	assert.True(t, g.CheckIntegrity())
	assert.Equal(t, 0, g.AllocCount())
}

func TestLastStatusReflectsMostRecentOperation(t *testing.T) {
	g := newGuarded(t)

	g.Free(nil)
	assert.Equal(t, heap.INVALID_FREE, g.LastStatus())

	p := g.Allocate(16)
	assert.Equal(t, heap.SUCCESS, g.LastStatus())
	assert.NotNil(t, p)
}
