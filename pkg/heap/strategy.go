package heap

import "fmt"

// Strategy selects among the placement policies of policy.go.
type Strategy int

const (
	// FIRST returns the first free block encountered that fits.
	FIRST Strategy = iota
	// BEST returns the smallest free block that fits, ties broken by lowest address.
	BEST
	// WORST returns the largest free block that fits, ties broken by lowest address.
	WORST
)

func (s Strategy) String() string {
	switch s {
	case FIRST:
		return "FIRST"
	case BEST:
		return "BEST"
	case WORST:
		return "WORST"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// SetStrategy changes the placement policy used by subsequent Allocate calls.
func (h *Heap) SetStrategy(s Strategy) { h.strategy = s }

// CurrentStrategy returns the placement policy currently in effect.
func (h *Heap) CurrentStrategy() Strategy { return h.strategy }
