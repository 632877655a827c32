// Command heapdemo exercises allocate/free/resize against the
// package-level default heap, the same sequence of phases as the original
// allocator's realloc demonstration: fresh allocation, free-via-resize,
// shrink-with-split, expand into a freed neighbour, and expand by
// relocation.
package main

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/kelsin/heapsim/pkg/heap"
)

func putInts(p *byte, vals []int32) {
	dst := unsafe.Slice((*int32)(unsafe.Pointer(p)), len(vals))
	copy(dst, vals)
}

func getInts(p *byte, n int) []int32 {
	return unsafe.Slice((*int32)(unsafe.Pointer(p)), n)
}

func main() {
	h := heap.Default

	fmt.Println("=== TEST: realloc(NULL, size) ===")
	p1 := h.Resize(nil, 10*4)
	vals := make([]int32, 10)
	for i := range vals {
		vals[i] = int32(i * 2)
	}
	putInts(p1, vals)
	for i, v := range getInts(p1, 10) {
		fmt.Printf("p1[%d] = %d\n", i, v)
	}
	h.PrintHeap()

	fmt.Println("\n=== TEST: realloc(ptr, 0) ===")
	p2 := h.Resize(p1, 0)
	fmt.Printf("Returned from resize(ptr, 0): %v\n", p2)
	h.PrintHeap()

	fmt.Println("\n=== TEST: shrink block ===")
	p3 := h.Allocate(20 * 4)
	shrinkVals := make([]int32, 20)
	for i := range shrinkVals {
		shrinkVals[i] = int32(i + 100)
	}
	putInts(p3, shrinkVals)
	p3 = h.Resize(p3, 10*4)
	for i, v := range getInts(p3, 10) {
		fmt.Printf("p3[%d] = %d\n", i, v)
	}
	h.PrintHeap()

	fmt.Println("\n=== TEST: expand into next free block ===")
	p4 := h.Allocate(5 * 4)
	h.Free(p4)
	p3 = h.Resize(p3, 20*4)
	for i, v := range getInts(p3, 10) {
		fmt.Printf("p3[%d] = %d\n", i, v)
	}
	h.PrintHeap()

	fmt.Println("\n=== TEST: expand into new block ===")
	p5 := h.Allocate(8 * 4)
	expandVals := make([]int32, 8)
	for i := range expandVals {
		expandVals[i] = int32(i + 200)
	}
	putInts(p5, expandVals)
	p6 := h.Resize(p5, 40*4)
	for i, v := range getInts(p6, 8) {
		fmt.Printf("p6[%d] = %d\n", i, v)
	}
	h.PrintHeap()

	h.Free(p3)
	h.Free(p6)

	if !h.CheckIntegrity() {
		fmt.Fprintln(os.Stderr, "heap integrity check failed after demo")
		os.Exit(1)
	}
}
