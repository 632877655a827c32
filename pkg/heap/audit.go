package heap

import "unsafe"

// CheckIntegrity walks the chain from the first header, verifying its
// structural invariants: no header revisited (acyclicity), every size
// positive and alignment-sized, every header and its end address within
// the arena, and no two consecutive entries both free (the eager
// coalescing invariant). It returns true and sets HEAP_OK on success, or
// false and sets HEAP_ERROR (ALIGNMENT_ERROR specifically for the size
// check) on the first violation.
func (h *Heap) CheckIntegrity() bool {
	maxHeaders := h.capacity/headerSize + 1
	visited := newAddrSet(maxHeaders)

	base := h.arenaBase()
	end := base + uintptr(h.capacity)

	for cur := h.first; cur != nil; cur = cur.next {
		inserted, full := visited.addIfAbsent(addr(cur))
		if full || !inserted {
			h.setStatus(HEAP_ERROR)
			return false
		}

		if cur.size == 0 || cur.size%h.align != 0 {
			h.setStatus(ALIGNMENT_ERROR)
			return false
		}

		curEnd := addr(cur) + uintptr(cur.size)
		if addr(cur) < base || curEnd > end {
			h.setStatus(HEAP_ERROR)
			return false
		}

		// Guarded: cur.next may be nil, in which case there is nothing
		// adjacent to check. One source revision of the original
		// dereferences curr->next without this guard.
		if cur.free && cur.next != nil && cur.next.free {
			h.setStatus(HEAP_ERROR)
			return false
		}
	}

	h.setStatus(HEAP_OK)
	return true
}

// ValidatePointer reports whether p falls within [arena, arena+used). This
// is the same weak range check the original performs — not a full header
// revalidation — so it only rejects pointers that could not possibly be
// payload addresses this heap has handed out.
func (h *Heap) ValidatePointer(p *byte) bool {
	if p == nil {
		return false
	}
	a := uintptr(unsafe.Pointer(p))
	base := h.arenaBase()
	return a >= base && a < base+uintptr(h.used)
}

// Defragment walks the chain once forward, coalescing each header while its
// successor is free. It is idempotent: a chain with no adjacent free pair
// is left untouched, so calling Defragment twice in a row is a no-op.
func (h *Heap) Defragment() {
	cur := h.first
	for cur != nil && cur.next != nil {
		if cur.free && cur.next.free {
			h.coalesce(cur)
			continue
		}
		cur = cur.next
	}
}
