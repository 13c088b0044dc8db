package stm

import (
	"sync"

	"github.com/rs/zerolog"
)

// Runtime owns the process-wide shared state: the orec table, the global
// clock and the inevitability mutex. Descriptors are owned by whichever
// caller registered them via SetTLS.
type Runtime struct {
	cfg    Config
	table  *orecTable
	clock  *globalClock
	inevMu sync.Mutex
	logger zerolog.Logger

	regMu       sync.Mutex
	descriptors map[int64]*Descriptor
}

// New builds a Runtime. The orec table is allocated dynamically rather
// than as a fixed static array, but is still fixed-size, power-of-two
// and zero-initialized before any transaction runs.
func New(opts ...Option) *Runtime {
	cfg := newConfig(opts...)
	return &Runtime{
		cfg:         cfg,
		table:       newOrecTable(cfg.numStripes),
		clock:       newGlobalClock(cfg.clockStart),
		logger:      cfg.logger,
		descriptors: make(map[int64]*Descriptor),
	}
}

// NewArena allocates n transactional words for use with this Runtime.
// Arenas are not otherwise tied to a Runtime; any Runtime can operate on
// any Arena's addresses.
func (rt *Runtime) NewArena(n int) *Arena {
	return NewArena(n)
}

// SetTLS allocates a descriptor, registers it, and stores the caller's
// opaque host object. It is the Go rendition of set_tls: since goroutines
// have no implicit thread-local storage, the returned *Descriptor is what
// the caller threads through every subsequent call instead of it being
// looked up from an ambient per-thread global.
func (rt *Runtime) SetTLS(tls any) *Descriptor {
	d := newDescriptor(tls)
	rt.regMu.Lock()
	rt.descriptors[d.myLockWord] = d
	rt.regMu.Unlock()
	return d
}

// GetTLS returns the opaque host object stored by SetTLS.
func (rt *Runtime) GetTLS(d *Descriptor) any {
	return d.tls
}

// DelTLS deregisters a descriptor. The descriptor must not have an active
// transaction.
func (rt *Runtime) DelTLS(d *Descriptor) {
	assertf(!d.active, "del_tls on a descriptor with an active transaction")
	rt.regMu.Lock()
	delete(rt.descriptors, d.myLockWord)
	rt.regMu.Unlock()
}

// Stats returns a snapshot of the given thread's counters, or the zero
// Stats if tid is unknown (e.g. already deregistered).
func (rt *Runtime) Stats(tid int64) Stats {
	rt.regMu.Lock()
	d, ok := rt.descriptors[tid]
	rt.regMu.Unlock()
	if !ok {
		return Stats{}
	}
	return d.Stats()
}

// AggregateStats sums counters across all currently-registered
// descriptors.
func (rt *Runtime) AggregateStats() Stats {
	var total Stats
	rt.regMu.Lock()
	defer rt.regMu.Unlock()
	for _, d := range rt.descriptors {
		total.Commits += d.stats.Commits
		for i := range total.Aborts {
			total.Aborts[i] += d.stats.Aborts[i]
		}
		for i := range total.Spinloops {
			total.Spinloops[i] += d.stats.Spinloops[i]
		}
	}
	return total
}
