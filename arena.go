package stm

import "unsafe"

// ptrOf returns the address of d as a uintptr, used only to derive a
// unique per-descriptor lock word (descriptor.go). It never dereferences
// the result.
func ptrOf(d *Descriptor) uintptr {
	return uintptr(unsafe.Pointer(d))
}

// Arena is a block of word-aligned transactional storage. Go has no
// general notion of "the address of arbitrary memory" outside of a slice
// or struct field, so transactional words live in an Arena's backing
// array and are addressed by Arena.Addr, giving the engine a raw
// word-address model (read_word(addr)/write_word(addr, val)) instead of
// an object-handle model like a *Var-style TVar.
type Arena struct {
	words []uint64
}

// NewArena allocates n transactional words, zero-initialized.
func NewArena(n int) *Arena {
	return &Arena{words: make([]uint64, n)}
}

// Addr returns the word-aligned address of the i'th word in the arena.
func (a *Arena) Addr(i int) uintptr {
	return uintptr(unsafe.Pointer(&a.words[i]))
}

// Peek reads the i'th word directly, bypassing any transaction. Intended
// for test assertions against final memory state, not for production use.
func (a *Arena) Peek(i int) uint64 {
	return a.words[i]
}

// wordAt returns a pointer to the word at addr. addr must have originated
// from this arena (or another Arena/allocation covered by the same
// Runtime); the engine only asserts alignment, not provenance.
func wordAt(addr uintptr) *uint64 {
	assertf(addr&(1<<wordShift-1) == 0, "misaligned transactional address")
	return (*uint64)(unsafe.Pointer(addr))
}
