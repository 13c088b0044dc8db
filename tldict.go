package stm

// TLDictLookup and TLDictAdd implement tldict_lookup/tldict_add: a
// thread-local dictionary overlaid directly on the transaction's redo
// log, so host code can stash rollback-aware keyed state (e.g. a pending
// side effect to perform after commit) that disappears on abort exactly
// like an ordinary transactional write, and is visible to later reads
// within the same transaction via the same lookup path as ReadWord.
//
// Keys share the redo log's address space with ordinary transactional
// words; callers are responsible for not colliding a dictionary key with
// a real memory address, same as a raw void* key would require.

// TLDictLookup returns the value stored under key in the current
// transaction, if any.
func (rt *Runtime) TLDictLookup(d *Descriptor, key uintptr) (uint64, bool) {
	return d.redo.lookup(key)
}

// TLDictAdd records val under key for the current transaction.
func (rt *Runtime) TLDictAdd(d *Descriptor, key uintptr, val uint64) {
	d.redo.insert(key, val)
}
