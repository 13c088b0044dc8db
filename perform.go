package stm

import "context"

// beginTransaction marks the descriptor active, clears buffers, and
// snapshots the clock. The snapshot is taken from the descriptor's
// cached last-known timestamp rather than a fresh clock read; the cache
// holds whatever this descriptor last read or wrote to the clock (0 for a
// fresh descriptor, and not refreshed by a read-only commit), and a stale
// cache only costs an extra scale-forward on the first read that actually
// needs it, never a correctness gap.
func (rt *Runtime) beginTransaction(d *Descriptor) {
	assertf(!d.active, "begin_transaction on an already-active descriptor")
	d.resetBuffers()
	d.active = true
	d.inevitable = false
	d.startTime = d.lastKnownGlobalTimestamp &^ 1
}

// runOnce runs body once inside a fresh transaction and commits it,
// recovering a restartSignal panic (from an abort anywhere in body or in
// commitTransaction itself) into a plain "please retry" signal instead of
// letting it escape as a panic.
func (rt *Runtime) runOnce(d *Descriptor, retry int, body func(d *Descriptor, retry int) (any, error)) (result any, err error, restarted bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(restartSignal); ok {
				restarted = true
				return
			}
			panic(r)
		}
	}()

	rt.beginTransaction(d)
	result, err = body(d, retry)
	rt.commitTransaction(d)
	return result, err, false
}

// PerformTransaction runs body in a retry loop, each attempt starting a
// fresh transaction (beginTransaction), and commits unconditionally once
// body returns control (body's own error, if any, does not by itself
// cause a rollback: only AbortAndRetry, or a commit-time conflict,
// restarts the loop). retry starts at 0 and increments once per restart.
//
// ctx is checked once per restart iteration, never from inside a running
// body: a cancelled context surfaces as ctx.Err() without touching abort
// statistics, since cancellation is not one of the conflict-and-retry
// reasons.
func (rt *Runtime) PerformTransaction(ctx context.Context, d *Descriptor, body func(d *Descriptor, retry int) (any, error)) (any, error) {
	assertf(d != nil, "perform_transaction requires a descriptor from SetTLS")
	assertf(!d.active, "perform_transaction called while a transaction is already active")

	for retry := 0; ; retry++ {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		result, err, restarted := rt.runOnce(d, retry, body)
		if restarted {
			continue
		}
		return result, err
	}
}
