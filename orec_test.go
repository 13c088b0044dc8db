package stm

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrecTableAliasing(t *testing.T) {
	table := newOrecTable(4) // deliberately tiny, to force aliasing
	addrs := []uintptr{0, 8, 16, 24, 32}
	seen := map[*atomic.Int64]int{}
	for _, a := range addrs {
		seen[table.get(a)]++
	}
	require.Less(t, len(seen), len(addrs), "expected at least one alias with only 4 stripes")
}

func TestLockedOrNewer(t *testing.T) {
	require.False(t, lockedOrNewer(0, 0))
	require.False(t, lockedOrNewer(4, 10))
	require.True(t, lockedOrNewer(11, 10))
	require.True(t, lockedOrNewer(-1, ^uint64(0)>>1), "a negative (locked) value must always compare as newer")
}

func TestIsLocked(t *testing.T) {
	require.True(t, isLocked(-1))
	require.True(t, isLocked(-42))
	require.False(t, isLocked(0))
	require.False(t, isLocked(42))
}
