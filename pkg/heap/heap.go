// Package heap implements a fixed-capacity, single-region heap allocator
// over a contiguous, statically sized byte arena.
//
// A Heap owns one arena: a byte buffer whose capacity is fixed for the
// lifetime of the value. Allocate, Free and Resize satisfy client requests
// by walking an intrusive singly-linked chain of block headers threaded
// through the arena, splitting oversized free blocks on allocation and
// eagerly coalescing neighbouring free blocks on release. There is no
// growth beyond the configured capacity and no return of memory to the
// operating system: this is an educational allocator over a simulated
// heap, not a general-purpose one.
//
// A zero value is not usable; construct a Heap with New. A package-level
// Default instance is provided for callers that want the original's
// single-global-heap shape.
package heap

import (
	"fmt"
	"unsafe"
)

const (
	// DefaultAlign is the alignment boundary, in bytes, used by Default and
	// by New when no WithAlignment option is given.
	DefaultAlign = 16

	// DefaultCapacity is the arena size, in bytes, used by Default and by
	// New when no WithCapacity option is given.
	DefaultCapacity = 640_000
)

// header is the metadata prefix of every block. It is placed directly in
// the arena and addressed with unsafe.Pointer arithmetic; next is a weak
// reference in the sense that it never keeps the referent's bytes alive by
// itself — the whole arena slice, reachable from the owning Heap, already
// does that.
type header struct {
	size uint64  // total block size including this header
	next *header // next header in address order, nil for the last
	free bool    // true if the payload is currently released
}

// headerSize is sizeof(header) for the current architecture: 24 bytes on
// amd64/arm64 (8 for size, 8 for next, 1 for free padded up to 8).
const headerSize = uint64(unsafe.Sizeof(header{}))

// Heap is a fixed-capacity arena allocator. The zero Heap is not usable;
// use New. A Heap must not be copied after first use, since its chain
// contains raw pointers into its own arena slice.
type Heap struct {
	raw      []byte // over-sized backing storage, for alignment headroom
	arena    []byte // capacity-sized aligned view into raw
	capacity uint64
	align    uint64
	used     uint64
	first    *header
	strategy Strategy
	status   Status
}

// config collects Option values for New.
type config struct {
	capacity uint64
	align    uint64
	strategy Strategy
}

// Option configures a Heap constructed by New.
type Option func(*config)

// WithCapacity sets the fixed arena capacity, in bytes. Default: DefaultCapacity.
func WithCapacity(n int) Option {
	return func(c *config) { c.capacity = uint64(n) }
}

// WithAlignment sets the alignment boundary, in bytes. Must be a power of
// two. Default: DefaultAlign.
func WithAlignment(a int) Option {
	return func(c *config) { c.align = uint64(a) }
}

// WithStrategy sets the initial placement policy. Default: FIRST.
func WithStrategy(s Strategy) Option {
	return func(c *config) { c.strategy = s }
}

// New constructs a Heap with a fresh, zeroed arena.
//
// Panics if the alignment is not a power of two or the capacity cannot hold
// even a single minimum-sized block; both are programming errors, not
// client-reportable failures, so they are not routed through Status.
func New(opts ...Option) *Heap {
	cfg := config{capacity: DefaultCapacity, align: DefaultAlign, strategy: FIRST}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.align == 0 || cfg.align&(cfg.align-1) != 0 {
		panic(fmt.Sprintf("heap: alignment %d is not a power of two", cfg.align))
	}
	if cfg.capacity < headerSize+cfg.align {
		panic(fmt.Sprintf("heap: capacity %d cannot hold a single block", cfg.capacity))
	}

	h := &Heap{
		capacity: cfg.capacity,
		align:    cfg.align,
		strategy: cfg.strategy,
		status:   SUCCESS,
	}
	h.initArena()

	return h
}

// Default is a package-level Heap instance, analogous to the original's
// global heap/heap_size/first_block/current_strategy state, kept for API
// parity with code that wants a single shared heap.
var Default = New()

// initArena allocates raw storage and carves out an Align-aligned,
// capacity-sized window. Go does not guarantee slice-backing-array
// alignment beyond the platform word size, so the extra align bytes of
// headroom let us fix up the base the way the original's
// __attribute__((aligned(16))) does at the language level.
func (h *Heap) initArena() {
	raw := make([]byte, h.capacity+h.align)
	base := uintptr(unsafe.Pointer(&raw[0]))
	aligned := (base + uintptr(h.align) - 1) &^ (uintptr(h.align) - 1)
	offset := uint64(aligned - base)

	h.raw = raw
	h.arena = raw[offset : offset+h.capacity : offset+h.capacity]
}

// Reset restores the heap to its initial empty state: the arena is
// zeroed, used drops to zero, the chain is emptied, and the strategy and
// status return to their defaults. Exists for test-harness style reuse of
// a single Heap across scenarios.
func (h *Heap) Reset() {
	clear(h.arena)
	h.used = 0
	h.first = nil
	h.strategy = FIRST
	h.status = SUCCESS
}

// Capacity reports the fixed arena capacity, in bytes.
func (h *Heap) Capacity() int { return int(h.capacity) }

// Align reports the alignment boundary, in bytes, used by this heap.
func (h *Heap) Align() int { return int(h.align) }

// Used reports the water-mark: the offset of the first arena byte not yet
// claimed by any block.
func (h *Heap) Used() int { return int(h.used) }

// alignUp rounds n up to the next multiple of the heap's alignment.
func (h *Heap) alignUp(n uint64) uint64 {
	a := h.align
	return (n + a - 1) &^ (a - 1)
}

func (h *Heap) setStatus(s Status) { h.status = s }

// headerAt returns the header whose bytes start at the given arena offset.
func (h *Heap) headerAt(offset uint64) *header {
	return (*header)(unsafe.Pointer(&h.arena[offset]))
}

// arenaBase returns the address of the first arena byte.
func (h *Heap) arenaBase() uintptr {
	return uintptr(unsafe.Pointer(&h.arena[0]))
}

// byteAdd returns the header at n bytes past hd, without bounds checking;
// callers must know the result lies within the arena.
func byteAdd(hd *header, n uint64) *header {
	return (*header)(unsafe.Pointer(uintptr(unsafe.Pointer(hd)) + uintptr(n)))
}

// payloadOf returns the payload address for a header.
func payloadOf(hd *header) *byte {
	return (*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(hd)) + uintptr(headerSize)))
}

// headerOf returns the header owning a payload address.
func headerOf(p *byte) *header {
	return (*header)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) - uintptr(headerSize)))
}

// addr returns the address of a header as a plain uintptr, for range checks
// and ordering comparisons.
func addr(hd *header) uintptr {
	return uintptr(unsafe.Pointer(hd))
}
