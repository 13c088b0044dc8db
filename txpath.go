package stm

// ReadWord is the transactional read path. A read performed outside an
// active transaction passes straight through to memory: non-transactional
// accesses are not given memory barriers, so this path is a bare
// dereference.
func (rt *Runtime) ReadWord(d *Descriptor, addr uintptr) uint64 {
	if !d.active {
		return *wordAt(addr)
	}

	if v, ok := d.redo.lookup(addr); ok {
		return v
	}

	o := rt.table.get(addr)
	for {
		v := o.Load()
		if lockedOrNewer(v, d.startTime) {
			if isLocked(v) {
				rt.spinloop(d, SpinReadLocked)
				continue
			}
			// Unlocked but newer than our snapshot: scale forward and
			// re-validate everything already in the read set before
			// continuing with the new, later snapshot.
			rt.validateFast(d, ReasonValidateFastRead, SpinValidateFastRead)
			d.startTime = rt.clock.read(d) &^ 1
			continue
		}

		value := *wordAt(addr)

		if o.Load() != v {
			continue
		}

		d.reads = append(d.reads, o)
		return value
	}
}

// WriteWord is the transactional write path. Outside a transaction it
// stores directly; inside one it only buffers the value in the redo log,
// never touching the orec.
func (rt *Runtime) WriteWord(d *Descriptor, addr uintptr, val uint64) {
	if !d.active {
		*wordAt(addr) = val
		return
	}
	d.redo.insert(addr, val)
}

// validateFast checks that every orec already in the read set is still
// unlocked and no newer than start_time, spinning on locked orecs and
// aborting with reason otherwise. Called from the read path, from
// TryInevitable's catch-up, and from waitEndInevitability.
func (rt *Runtime) validateFast(d *Descriptor, reason AbortReason, spin SpinReason) {
	for _, o := range d.reads {
		for {
			v := o.Load()
			if !lockedOrNewer(v, d.startTime) {
				break
			}
			if isLocked(v) {
				rt.spinloop(d, spin)
				continue
			}
			rt.txAbort(d, reason)
		}
	}
}
