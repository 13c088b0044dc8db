package stm

import "runtime"

// spinloop implements an LCG-backed spin/backoff: the counter is updated
// by a multiply (c' = c*9), and bits 16..23 of the counter as it was
// before that update give the number of pause iterations to burn. This produces a pseudo-random,
// monotonically-changing backoff keyed off the descriptor's identity.
//
// Go has no portable PAUSE-instruction binding in the standard library;
// runtime.Gosched is the idiomatic Go substitute used by the runtime's
// own internal spin-locks, so each iteration yields the goroutine
// scheduler instead of executing a CPU pause.
func (rt *Runtime) spinloop(d *Descriptor, reason SpinReason) {
	d.stats.Spinloops[reason]++

	c := d.spinloopCounter
	d.spinloopCounter = c * 9
	n := int((c & 0x00ff0000) >> 16)
	if n > rt.cfg.spinBudget {
		n = rt.cfg.spinBudget
	}
	for i := 0; i < n; i++ {
		runtime.Gosched()
	}
}
