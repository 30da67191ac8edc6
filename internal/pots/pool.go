// Package pots models the counter's shared set of cooking vessels.
package pots

// DefaultSize is the number of pots at a standard counter.
const DefaultSize = 6

// Pool tracks occupancy of a fixed set of numbered cooking vessels.
// Vessel numbers are 1-based; index i in the occupancy vector is
// vessel i+1. The pool is not safe for concurrent use on its own --
// the board serializes all access behind its command lock.
type Pool struct {
	occupied []bool
}

// NewPool creates a pool of n vessels, all free. n must be at least 1;
// anything smaller falls back to DefaultSize.
func NewPool(n int) *Pool {
	if n < 1 {
		n = DefaultSize
	}
	return &Pool{occupied: make([]bool, n)}
}

// Size returns the number of vessels in the pool.
func (p *Pool) Size() int {
	return len(p.occupied)
}

// FreeCount returns the number of currently free vessels.
func (p *Pool) FreeCount() int {
	free := 0
	for _, used := range p.occupied {
		if !used {
			free++
		}
	}
	return free
}

// Lease allocates count vessel numbers and marks them occupied. It
// never fails: free vessels are handed out lowest number first, and if
// demand exceeds supply the remainder is filled by reassigning occupied
// vessels (lowest number first, skipping any already chosen in this
// call). That reassignment models an operator reusing a busy pot under
// pressure; oversub reports whether it happened so callers can record
// the degradation.
func (p *Pool) Lease(count int) (vessels []int, oversub bool) {
	if count < 1 {
		return nil, false
	}

	chosen := make(map[int]bool, count)

	// Free vessels first.
	for i := 0; i < len(p.occupied) && len(vessels) < count; i++ {
		if !p.occupied[i] {
			n := i + 1
			vessels = append(vessels, n)
			chosen[n] = true
		}
	}

	// Fallback: reuse occupied vessels not already taken this call.
	for i := 0; i < len(p.occupied) && len(vessels) < count; i++ {
		n := i + 1
		if !chosen[n] {
			vessels = append(vessels, n)
			chosen[n] = true
			oversub = true
		}
	}

	// Demand beyond pool size: cycle through the numbers again. This
	// only happens when count > Size.
	for len(vessels) < count {
		n := len(vessels)%len(p.occupied) + 1
		vessels = append(vessels, n)
		oversub = true
	}

	for _, n := range vessels {
		p.occupied[n-1] = true
	}
	return vessels, oversub
}

// Release marks each given vessel free. Releasing an already-free or
// out-of-range vessel is a no-op.
func (p *Pool) Release(vessels []int) {
	for _, n := range vessels {
		if n >= 1 && n <= len(p.occupied) {
			p.occupied[n-1] = false
		}
	}
}

// Snapshot returns a copy of the occupancy vector for display.
func (p *Pool) Snapshot() []bool {
	out := make([]bool, len(p.occupied))
	copy(out, p.occupied)
	return out
}
