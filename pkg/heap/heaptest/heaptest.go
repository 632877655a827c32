// Package heaptest holds fixtures shared by pkg/heap's test and benchmark
// files, so each _test.go doesn't redefine its own small-capacity heap
// constructor.
package heaptest

import "github.com/kelsin/heapsim/pkg/heap"

// Small builds a Heap sized for scenario and property tests: big enough to
// host hundreds of small blocks, small enough that tests run fast and any
// integrity violation shows up quickly under -race.
func Small(opts ...heap.Option) *heap.Heap {
	base := []heap.Option{heap.WithCapacity(256 * 1024), heap.WithAlignment(16)}
	return heap.New(append(base, opts...)...)
}

// Fill allocates n blocks of size bytes each from h, failing the caller's
// assumption only by returning a short slice if an allocation fails midway.
func Fill(h *heap.Heap, n, size int) []*byte {
	ptrs := make([]*byte, 0, n)
	for i := 0; i < n; i++ {
		p := h.Allocate(size)
		if p == nil {
			break
		}
		ptrs = append(ptrs, p)
	}
	return ptrs
}
