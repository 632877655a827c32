package heap

import "github.com/dolthub/maphash"

// addrset is a small open-addressing set of header addresses. It backs
// CheckIntegrity's visited-block tracking: a cycle in the chain is detected
// using a set bounded by capacity/sizeof(header), the same bound the
// original enforces with a fixed-size C array. addrset is sized once to
// that bound (rounded up, with headroom) rather than growing, and uses
// maphash.Hasher for the probe sequence the same way a swiss-table style
// map hashes arbitrary comparable keys for its open-addressed groups.
type addrset struct {
	hash maphash.Hasher[uintptr]
	keys []uintptr
	used []bool
}

// newAddrSet sizes the set to comfortably hold maxEntries distinct
// addresses at a load factor of at most 0.5.
func newAddrSet(maxEntries uint64) *addrset {
	n := nextPow2(maxEntries*2 + 1)
	if n < 8 {
		n = 8
	}
	return &addrset{
		hash: maphash.NewHasher[uintptr](),
		keys: make([]uintptr, n),
		used: make([]bool, n),
	}
}

func nextPow2(n uint64) uint64 {
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

// addIfAbsent inserts a and reports true, or reports false if a was
// already present (the caller's signal that it has found a cycle). full
// reports that every slot was probed without finding a or an empty slot;
// this cannot happen given newAddrSet's sizing, but is checked defensively,
// mirroring the original's own "visited_count < bound" guard.
func (s *addrset) addIfAbsent(a uintptr) (inserted, full bool) {
	mask := uint64(len(s.keys) - 1)
	i := s.hash.Hash(a) & mask

	for probes := uint64(0); probes < uint64(len(s.keys)); probes++ {
		if !s.used[i] {
			s.used[i] = true
			s.keys[i] = a
			return true, false
		}
		if s.keys[i] == a {
			return false, false
		}
		i = (i + 1) & mask
	}

	return false, true
}
