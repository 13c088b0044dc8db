package stm

import "sync/atomic"

// globalClock is the single shared timestamp. Its LSB is the inevitable
// flag (1 = an inevitable transaction is running); the remaining bits are
// an even-valued logical timestamp. Go's atomic.Uint64 operations are
// sequentially consistent, a strictly stronger guarantee than the
// acquire/release TL2 requires of this word, so no extra fence is needed
// here beyond what the atomic load/store/CAS already provide.
type globalClock struct {
	v atomic.Uint64
}

func newGlobalClock(start uint64) *globalClock {
	c := &globalClock{}
	c.v.Store(start)
	return c
}

// read loads the clock and refreshes the caller's cached snapshot.
func (c *globalClock) read(d *Descriptor) uint64 {
	v := c.v.Load()
	d.lastKnownGlobalTimestamp = v
	return v
}

// cas attempts to move the clock from old to new, refreshing the cached
// snapshot on success.
func (c *globalClock) cas(d *Descriptor, old, new uint64) bool {
	if c.v.CompareAndSwap(old, new) {
		d.lastKnownGlobalTimestamp = new
		return true
	}
	return false
}

// store unconditionally sets the clock. Only legal while the caller holds
// inevitability, i.e. is the sole permitted writer.
func (c *globalClock) store(d *Descriptor, new uint64) {
	c.v.Store(new)
	d.lastKnownGlobalTimestamp = new
}
