package heap

// AllocCount returns the number of non-free headers currently in the chain.
func (h *Heap) AllocCount() int {
	n := 0
	for cur := h.first; cur != nil; cur = cur.next {
		if !cur.free {
			n++
		}
	}
	return n
}

// FreeBlockCount returns the number of free headers currently in the chain.
func (h *Heap) FreeBlockCount() int {
	n := 0
	for cur := h.first; cur != nil; cur = cur.next {
		if cur.free {
			n++
		}
	}
	return n
}

// UsedHeapSize returns the sum of every header's size field. Equal to Used().
func (h *Heap) UsedHeapSize() int {
	var total uint64
	for cur := h.first; cur != nil; cur = cur.next {
		total += cur.size
	}
	return int(total)
}

// FreeHeapSize returns the sum of size over free headers.
func (h *Heap) FreeHeapSize() int {
	var total uint64
	for cur := h.first; cur != nil; cur = cur.next {
		if cur.free {
			total += cur.size
		}
	}
	return int(total)
}

// FragmentationRatio reproduces the original's formula verbatim:
// (total_free / free_block_count) / total_free, which reduces to
// 1/free_block_count whenever any free block exists, else 0. This is not a
// fragmentation measure in any standard sense, but callers compare it
// against the original's own output, so the quirky formula is kept as-is.
func (h *Heap) FragmentationRatio() float64 {
	var count int
	var totalFree uint64
	for cur := h.first; cur != nil; cur = cur.next {
		if cur.free {
			count++
			totalFree += cur.size
		}
	}
	if count == 0 || totalFree == 0 {
		return 0.0
	}
	avg := float64(totalFree) / float64(count)
	return avg / float64(totalFree)
}
