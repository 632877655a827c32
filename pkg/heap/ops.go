package heap

import (
	"unsafe"

	"github.com/kelsin/heapsim/internal/debug"
)

// Allocate reserves n bytes and returns a payload address within the
// arena, or nil on failure. Check LastStatus for the reason: ERROR for a
// zero-size request or an unknown strategy, OUT_OF_MEMORY if no fit exists and extension would
// exceed capacity, or the rare defensive ALIGNMENT_ERROR.
func (h *Heap) Allocate(n int) *byte {
	if n <= 0 {
		h.setStatus(ERROR)
		return nil
	}
	switch h.strategy {
	case FIRST, BEST, WORST:
	default:
		h.setStatus(ERROR)
		return nil
	}

	total := h.alignUp(uint64(n) + headerSize)

	if candidate := h.findFit(total); candidate != nil {
		candidate.free = false
		if candidate.size >= total+headerSize+h.align {
			h.split(candidate, total)
		}
		h.setStatus(SUCCESS)
		debug.Log(nil, "alloc", "reused %p (%d bytes)", candidate, candidate.size)
		return payloadOf(candidate)
	}

	return h.extend(total)
}

// extend places a new header at the water-mark, growing used by total.
// Never called when a fit already exists: Allocate only reaches here after
// findFit has failed, so there is no anti-starvation of the free list.
func (h *Heap) extend(total uint64) *byte {
	if h.used+total > h.capacity {
		h.setStatus(OUT_OF_MEMORY)
		return nil
	}

	if (h.arenaBase()+uintptr(h.used))%uintptr(h.align) != 0 {
		// Unreachable: initArena aligns the arena base and every block
		// total is a multiple of align, so used always is; checked
		// defensively anyway.
		h.setStatus(ALIGNMENT_ERROR)
		return nil
	}

	hd := h.headerAt(h.used)
	hd.size = total
	hd.free = false
	hd.next = nil

	if h.first == nil {
		h.first = hd
	} else {
		tail := h.first
		for tail.next != nil {
			tail = tail.next
		}
		tail.next = hd
	}

	h.used += total
	h.setStatus(SUCCESS)
	debug.Log(nil, "extend", "new block %p (%d bytes), used=%d", hd, total, h.used)

	return payloadOf(hd)
}

// Free releases a previously allocated payload address, coalescing it with
// any free neighbours. An absent pointer or a pointer to an already-free
// block is rejected as INVALID_FREE; a pointer outside [arena, arena+used)
// is rejected as HEAP_ERROR.
func (h *Heap) Free(p *byte) {
	if p == nil {
		h.setStatus(INVALID_FREE)
		return
	}
	if !h.ValidatePointer(p) {
		h.setStatus(HEAP_ERROR)
		return
	}

	hd := headerOf(p)
	if hd.free {
		h.setStatus(INVALID_FREE)
		return
	}

	hd.free = true
	h.coalesce(hd)
	h.setStatus(SUCCESS)
	debug.Log(nil, "free", "%p", hd)
}

// Resize changes the size of a previously allocated block, in place when
// possible, falling back to allocate-copy-free otherwise.
//
//   - A nil p delegates to Allocate(n).
//   - n == 0 delegates to Free(p) and returns nil.
//   - Otherwise p is validated, then resized in place if it is already big
//     enough (splitting off any large-enough remainder), or by absorbing a
//     free next neighbour if that suffices, or finally by relocating to a
//     freshly allocated block and copying the overlapping payload prefix.
func (h *Heap) Resize(p *byte, n int) *byte {
	if p == nil {
		return h.Allocate(n)
	}
	if n == 0 {
		h.Free(p)
		return nil
	}
	if !h.ValidatePointer(p) {
		h.setStatus(HEAP_ERROR)
		return nil
	}

	cur := headerOf(p)
	totalNew := h.alignUp(uint64(n) + headerSize)

	// Case A: current block already large enough.
	if cur.size >= totalNew {
		if cur.size >= totalNew+headerSize+h.align {
			h.split(cur, totalNew)
			// The freed remainder may sit next to a free block.
			h.coalesce(cur.next)
		}
		h.setStatus(SUCCESS)
		return p
	}

	// Case B: absorb a free next neighbour. The combined size is the pure
	// sum of both blocks' sizes: next's header bytes are already counted
	// inside next.size, the same accounting coalesce uses, so no extra
	// headerSize term belongs in either the threshold or the result.
	if cur.next != nil && cur.next.free && cur.size+cur.next.size >= totalNew {
		cur.size += cur.next.size
		cur.next = cur.next.next
		if cur.size >= totalNew+headerSize+h.align {
			h.split(cur, totalNew)
		}
		h.setStatus(SUCCESS)
		debug.Log(nil, "resize", "%p absorbed forward to %d bytes", cur, cur.size)
		return p
	}

	// Case C: relocate.
	newPtr := h.Allocate(n)
	if newPtr == nil {
		h.setStatus(OUT_OF_MEMORY)
		return nil
	}

	oldPayload := cur.size - headerSize
	copySize := uint64(n)
	if oldPayload < copySize {
		copySize = oldPayload
	}
	copy(unsafe.Slice(newPtr, copySize), unsafe.Slice(p, copySize))

	h.Free(p)
	h.setStatus(SUCCESS)
	debug.Log(nil, "resize", "relocated %p -> %p (%d bytes copied)", p, newPtr, copySize)

	return newPtr
}
