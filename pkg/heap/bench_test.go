package heap_test

import (
	"testing"

	"github.com/kelsin/heapsim/pkg/heap"
	"github.com/kelsin/heapsim/pkg/heap/heaptest"
)

const (
	smallAllocCount = 1000
	largeAllocCount = 500
	mixedAllocCount = 750
)

var strategies = []heap.Strategy{heap.FIRST, heap.BEST, heap.WORST}

// BenchmarkComparison_SmallAllocations allocates smallAllocCount 64-byte
// blocks with no frees, under each placement policy in turn.
func BenchmarkComparison_SmallAllocations(b *testing.B) {
	for _, s := range strategies {
		b.Run(s.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				h := heaptest.Small(heap.WithCapacity(4 * 1024 * 1024))
				h.SetStrategy(s)
				for j := 0; j < smallAllocCount; j++ {
					h.Allocate(64)
				}
			}
		})
	}
}

// BenchmarkComparison_LargeAllocations allocates largeAllocCount 4 KiB
// blocks under each placement policy.
func BenchmarkComparison_LargeAllocations(b *testing.B) {
	for _, s := range strategies {
		b.Run(s.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				h := heaptest.Small(heap.WithCapacity(8 * 1024 * 1024))
				h.SetStrategy(s)
				for j := 0; j < largeAllocCount; j++ {
					h.Allocate(4096)
				}
			}
		})
	}
}

// BenchmarkComparison_MixedAllocateFree interleaves allocation, freeing
// every third block, and resizing the survivors, under each policy.
func BenchmarkComparison_MixedAllocateFree(b *testing.B) {
	for _, s := range strategies {
		b.Run(s.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				h := heaptest.Small(heap.WithCapacity(4 * 1024 * 1024))
				h.SetStrategy(s)

				ptrs := make([]*byte, 0, mixedAllocCount)
				for j := 0; j < mixedAllocCount; j++ {
					p := h.Allocate(32 + (j % 7 * 16))
					ptrs = append(ptrs, p)
				}
				for j, p := range ptrs {
					if j%3 == 0 {
						h.Free(p)
					}
				}
				for j, p := range ptrs {
					if j%3 != 0 {
						h.Resize(p, 64)
					}
				}
			}
		})
	}
}

// BenchmarkCheckIntegrity measures the audit walk's cost as the chain grows.
func BenchmarkCheckIntegrity(b *testing.B) {
	h := heaptest.Small(heap.WithCapacity(4 * 1024 * 1024))
	for j := 0; j < smallAllocCount; j++ {
		h.Allocate(64)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.CheckIntegrity()
	}
}
