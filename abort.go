package stm

// restartSignal is the "tagged return" used in place of setjmp/longjmp:
// tx_abort unwinds to PerformTransaction's retry loop by panicking with
// this sentinel, which runOnce recovers and turns into a plain restart
// rather than a propagated panic.
type restartSignal struct {
	reason AbortReason
}

// txAbort implements tx_abort: release any locks taken so far, revert the
// orecs they guarded to their pre-lock version, clear the transaction's
// buffers, back off once, and restart. Aborting an inevitable transaction
// is a contract violation: an inevitable transaction has declared it will
// not roll back.
func (rt *Runtime) txAbort(d *Descriptor, reason AbortReason) {
	assertf(!d.inevitable, "tx_abort called on an inevitable transaction")

	d.stats.Aborts[reason]++
	rt.logger.Debug().
		Int64("thread_id", d.myLockWord).
		Stringer("reason", reason).
		Uint64("start_time", d.startTime).
		Msg("stm: transaction abort")

	rt.releaseAndRevertLocks(d)
	d.resetBuffers()
	d.active = false

	rt.spinloop(d, SpinRestartBackoff)
	panic(restartSignal{reason: reason})
}

// AbortAndRetry forces an immediate restart of the current transaction.
// It never returns normally.
func (rt *Runtime) AbortAndRetry(d *Descriptor) {
	rt.txAbort(d, ReasonManualRetry)
}
