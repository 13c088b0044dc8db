package stm

// TryInevitable promotes the current transaction to inevitable: it will
// not be aborted, is serialized against any other inevitable transaction
// by a process-wide mutex, and commits without validation. It is a no-op
// if the descriptor has no active transaction, or is already inevitable.
func (rt *Runtime) TryInevitable(d *Descriptor) {
	if !d.active || d.inevitable {
		return
	}

	for {
		curtime := rt.clock.read(d)
		if d.startTime != curtime&^1 {
			rt.validateFast(d, ReasonValidateFastInevitable, SpinValidateFastInevitable)
			d.startTime = curtime &^ 1
		}

		rt.inevMu.Lock()
		if curtime&1 == 1 {
			// Another inevitable transaction is, or was just, running.
			rt.inevMu.Unlock()
			rt.spinloop(d, SpinTryInevitableContended)
			continue
		}
		if rt.clock.cas(d, curtime, curtime+1) {
			break
		}
		rt.inevMu.Unlock()
	}

	// Mutex stays held until this transaction commits or (never, by
	// contract) aborts.
	d.inevitable = true
	rt.logger.Debug().
		Int64("thread_id", d.myLockWord).
		Uint64("start_time", d.startTime).
		Msg("stm: transaction became inevitable")
}
