package stm

import "sync/atomic"

// Stats is a snapshot of a descriptor's lifetime counters.
type Stats struct {
	Commits    uint64
	Aborts     [numAbortReasons]uint64
	Spinloops  [numSpinReasons]uint64
}

// Descriptor is per-thread (in Go: per-goroutine-that-owns-it) state: the
// clock snapshot, read set, redo log, abort handle and stats. Go has no
// implicit thread-local storage, so callers carry the descriptor returned
// by Runtime.SetTLS explicitly instead of it living behind a hidden
// per-thread global.
type Descriptor struct {
	tls any

	startTime                uint64
	endTime                  uint64
	lastKnownGlobalTimestamp uint64

	reads []*atomic.Int64
	redo  *redoLog

	active     bool
	inevitable bool

	myLockWord     int64
	spinloopCounter uint32

	stats Stats
}

func newDescriptor(tls any) *Descriptor {
	d := &Descriptor{tls: tls, redo: newRedoLog()}
	// The lock word must be a unique negative integer; derive it from the
	// descriptor's own address, bit-flipping if it doesn't already have
	// the sign bit set. Any scheme yielding a unique negative integer per
	// live descriptor works, since it only ever serves as a lock owner tag.
	word := int64(uintptr(ptrOf(d)))
	if !isLocked(word) {
		word = ^word
	}
	d.myLockWord = word
	d.spinloopCounter = uint32(word) | 1
	return d
}

// resetBuffers clears the read set and redo log, used at both commit and
// abort, and when a reused descriptor starts a fresh transaction
// (beginTransaction).
func (d *Descriptor) resetBuffers() {
	d.reads = d.reads[:0]
	d.redo.clear()
}

// Stats returns a copy of the descriptor's lifetime counters.
func (d *Descriptor) Stats() Stats {
	return d.stats
}

// ThreadID returns my_lock_word, a value unique among live descriptors.
// It is derived from the descriptor's address, so a descriptor allocated
// after another has been freed may get the same value.
func (d *Descriptor) ThreadID() int64 {
	return d.myLockWord
}

// DebugState implements debug_get_state: -1 no descriptor (a nil
// *Descriptor receiver), 0 inactive, 1 active non-inevitable, 2
// inevitable.
func (d *Descriptor) DebugState() int {
	if d == nil {
		return -1
	}
	if !d.active {
		return 0
	}
	if d.inevitable {
		return 2
	}
	return 1
}
