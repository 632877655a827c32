package heap

import "github.com/kelsin/heapsim/internal/debug"

// split carves a total-byte-sized head out of candidate and threads a new
// free header through the remainder, when the remainder is big enough to
// host at least a minimum payload (headerSize + one alignment unit).
//
// Preconditions enforced here: candidate must be non-nil and must have
// room for a valid remainder; violating either sets status and returns
// without mutating the chain. Callers that already checked the size
// (Allocate, Resize) only ever hit the success path.
func (h *Heap) split(candidate *header, total uint64) {
	if candidate == nil {
		h.setStatus(INVALID_OPERATION)
		return
	}
	if candidate.size < total+headerSize+h.align {
		h.setStatus(ERROR)
		return
	}

	rest := byteAdd(candidate, total)
	rest.size = candidate.size - total
	rest.free = true
	rest.next = candidate.next

	candidate.size = total
	candidate.next = rest
	candidate.free = false

	debug.Log(nil, "split", "%p:%d -> %p:%d", candidate, candidate.size, rest, rest.size)
	h.setStatus(SUCCESS)
}

// coalesce merges hd with its free neighbours, forward first and then
// backward, matching the original's own coalesce ordering.
//
// Forward absorption is a loop as a safety net: in quiescent operation a
// single step suffices, since coalescing is eager and two adjacent free
// blocks never persist, but recovery paths (defragment after a batch of
// frees) may present a longer run.
func (h *Heap) coalesce(hd *header) {
	for hd.next != nil && hd.next.free {
		absorbed := hd.next
		hd.size += absorbed.size
		hd.next = absorbed.next
		debug.Log(nil, "coalesce", "forward into %p, new size %d", hd, hd.size)
	}

	var prev *header
	for cur := h.first; cur != nil && cur != hd; cur = cur.next {
		prev = cur
	}
	if prev != nil && prev.free {
		prev.size += hd.size
		prev.next = hd.next
		debug.Log(nil, "coalesce", "backward into %p, new size %d", prev, prev.size)
	}
}
