package pots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeasePrefersLowestFree(t *testing.T) {
	p := NewPool(6)

	vessels, oversub := p.Lease(2)

	assert.Equal(t, []int{1, 2}, vessels)
	assert.False(t, oversub)
	assert.Equal(t, 4, p.FreeCount())
}

func TestLeaseSkipsOccupied(t *testing.T) {
	p := NewPool(6)
	p.Lease(2)

	vessels, oversub := p.Lease(2)

	assert.Equal(t, []int{3, 4}, vessels)
	assert.False(t, oversub)
}

func TestLeaseOversubscribes(t *testing.T) {
	p := NewPool(2)
	first, oversub := p.Lease(2)
	require.False(t, oversub)
	require.Equal(t, []int{1, 2}, first)

	second, oversub := p.Lease(2)

	assert.True(t, oversub)
	assert.Equal(t, []int{1, 2}, second)
	assert.Equal(t, 0, p.FreeCount())
}

func TestLeaseNeverRepeatsVesselWithinCall(t *testing.T) {
	p := NewPool(4)
	p.Lease(3)

	// 1 free vessel left, 3 requested: one free + two reassigned,
	// all distinct.
	vessels, oversub := p.Lease(3)

	assert.True(t, oversub)
	seen := map[int]bool{}
	for _, n := range vessels {
		assert.False(t, seen[n], "vessel %d handed out twice in one lease", n)
		seen[n] = true
	}
	assert.Len(t, vessels, 3)
}

func TestLeaseBeyondPoolSize(t *testing.T) {
	p := NewPool(2)

	vessels, oversub := p.Lease(5)

	assert.True(t, oversub)
	assert.Len(t, vessels, 5)
	for _, n := range vessels {
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 2)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	p := NewPool(6)
	vessels, _ := p.Lease(3)

	p.Release(vessels)
	assert.Equal(t, 6, p.FreeCount())

	// Releasing again, plus garbage numbers, changes nothing.
	p.Release(vessels)
	p.Release([]int{0, -1, 99})
	assert.Equal(t, 6, p.FreeCount())
}

func TestSnapshotIsACopy(t *testing.T) {
	p := NewPool(3)
	p.Lease(1)

	snap := p.Snapshot()
	assert.Equal(t, []bool{true, false, false}, snap)

	snap[1] = true
	assert.Equal(t, 2, p.FreeCount(), "mutating a snapshot must not affect the pool")
}

func TestLeaseZeroCount(t *testing.T) {
	p := NewPool(6)

	vessels, oversub := p.Lease(0)

	assert.Nil(t, vessels)
	assert.False(t, oversub)
	assert.Equal(t, 6, p.FreeCount())
}
