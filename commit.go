package stm

// acquireLocks locks every orec covering a pending write: backward
// iteration over the redo log so that, when two entries alias the same
// orec, the first one visited (the last one inserted) is the one that
// takes and keeps the lock.
func (rt *Runtime) acquireLocks(d *Descriptor) {
	d.redo.iterBackward(func(e *redoEntry) bool {
		o := rt.table.get(e.addr)
		for {
			v := o.Load()
			switch {
			case !lockedOrNewer(v, d.startTime):
				if !o.CompareAndSwap(v, d.myLockWord) {
					continue
				}
				e.savedVersion = v
				return true

			case !isLocked(v):
				// Unlocked but newer than our start time: taking this
				// lock could make us read an inconsistent state we
				// already observed. Abort rather than risk that.
				rt.txAbort(d, ReasonAcquireNewer)

			case v != d.myLockWord:
				if d.inevitable {
					rt.spinloop(d, SpinAcquireLockedInevitable)
					continue
				}
				rt.txAbort(d, ReasonAcquireLockedByOther)

			default:
				// Locked by us already: a duplicate orec, an earlier
				// (later in forward order) entry holds the lock.
				return true
			}
		}
	})
}

// validate implements the full validation pass at commit: every read-set
// orec must be unchanged since start_time, or locked by us.
func (rt *Runtime) validate(d *Descriptor) {
	for _, o := range d.reads {
		v := o.Load()
		if !lockedOrNewer(v, d.startTime) {
			continue
		}
		if !isLocked(v) {
			rt.txAbort(d, ReasonValidateUnlockedNewer)
		} else if v != d.myLockWord {
			rt.txAbort(d, ReasonValidateLockedByOther)
		}
	}
}

// txRedo is the write-back pass: forward iteration over the redo log,
// storing each new value and then, for entries that hold the lock
// (saved version is not the sentinel), stamping end_time into the
// covering orec to publish the new version and release it in one store.
func (rt *Runtime) txRedo(d *Descriptor) {
	d.redo.iterForward(func(e *redoEntry) {
		*wordAt(e.addr) = e.newValue
		if e.savedVersion != notLastSentinel {
			o := rt.table.get(e.addr)
			o.Store(int64(d.endTime))
		}
	})
}

// releaseAndRevertLocks restores each held orec to its pre-lock version,
// used when aborting.
func (rt *Runtime) releaseAndRevertLocks(d *Descriptor) {
	d.redo.iterForward(func(e *redoEntry) {
		if e.savedVersion != notLastSentinel {
			rt.table.get(e.addr).Store(e.savedVersion)
		}
	})
}

// releaseLocksForRetry restores each held orec's version like
// releaseAndRevertLocks, but also clears savedVersion back to the
// sentinel so the locks can be legitimately re-acquired on the next
// acquireLocks pass. Used by waitEndInevitability.
func (rt *Runtime) releaseLocksForRetry(d *Descriptor) {
	d.redo.iterForward(func(e *redoEntry) {
		if e.savedVersion != notLastSentinel {
			rt.table.get(e.addr).Store(e.savedVersion)
			e.savedVersion = notLastSentinel
		}
	})
}

// commitTransaction runs the full lock/validate/write-back/advance-clock
// sequence and returns the transaction's logical commit timestamp.
func (rt *Runtime) commitTransaction(d *Descriptor) uint64 {
	assertf(d.active, "commit_transaction without an active transaction")
	wasInevitable := d.inevitable

	if !d.redo.anyEntries() {
		if d.inevitable {
			ts := rt.clock.read(d)
			assertf(ts&1 == 1, "inevitable commit without clock LSB set")
			rt.clock.store(d, ts-1)
			rt.inevMu.Unlock()
			d.inevitable = false
		}
		d.stats.Commits++
		ts := d.startTime
		rt.logCommit(d, ts, wasInevitable)
		d.resetBuffers()
		d.active = false
		return ts
	}

	rt.acquireLocks(d)

	if d.inevitable {
		rt.commitInevitableTransaction(d)
	} else {
		for {
			expected := rt.clock.read(d)
			if expected&1 == 1 {
				rt.waitEndInevitability(d)
				continue
			}
			if rt.clock.cas(d, expected, expected+2) {
				d.endTime = expected + 2
				break
			}
		}

		if d.endTime != d.startTime+2 {
			rt.validate(d)
		}

		rt.txRedo(d)
	}

	d.stats.Commits++
	ts := d.endTime
	rt.logCommit(d, ts, wasInevitable)
	d.resetBuffers()
	d.active = false
	return ts
}

// logCommit emits the debug-level commit event promised by WithLogger's doc.
func (rt *Runtime) logCommit(d *Descriptor, ts uint64, inevitable bool) {
	rt.logger.Debug().
		Int64("thread_id", d.myLockWord).
		Bool("inevitable", inevitable).
		Uint64("commit_time", ts).
		Msg("stm: transaction commit")
}

// commitInevitableTransaction is the validation-free commit path for the
// sole inevitable writer: no concurrent committer could have slipped in,
// since they'd have observed the clock's LSB and blocked on the
// inevitability mutex, which this transaction still holds.
func (rt *Runtime) commitInevitableTransaction(d *Descriptor) {
	ts := rt.clock.read(d)
	assertf(ts&1 == 1, "commitInevitableTransaction without clock LSB set")
	rt.clock.store(d, ts+1)
	d.endTime = ts + 1
	assertf(d.endTime == d.startTime+2, "inevitable end_time does not follow start_time+2")

	rt.txRedo(d)

	rt.inevMu.Unlock()
	d.inevitable = false
}

// waitEndInevitability is called by a non-inevitable committer that
// observed the clock's LSB set: it releases its provisional locks (for
// retry, not reverting the redo log's pending values), spins until the
// inevitable writer finishes, opportunistically scaling its snapshot
// forward, then re-acquires locks to try again.
func (rt *Runtime) waitEndInevitability(d *Descriptor) {
	rt.releaseLocksForRetry(d)

	for {
		curts := rt.clock.read(d)
		if curts&1 == 0 {
			break
		}
		if d.startTime < curts-1 {
			rt.validateFast(d, ReasonValidateFastWaitInevitable, SpinValidateFastWaitInevitable)
			d.startTime = curts - 1
		}
		rt.spinloop(d, SpinWaitInevitability)
		rt.inevMu.Lock()
		rt.inevMu.Unlock()
	}

	rt.acquireLocks(d)
}
