// Package stm implements a lazy-lazy Transactional Locking II (TL2) software
// transactional memory runtime: ownership records (orecs) guard word-sized
// memory stripes, a global logical clock timestamps commits, and writes are
// buffered in a per-transaction redo log until commit time.
//
// Transactions are driven through PerformTransaction, which retries the
// supplied body until it commits cleanly or an irrecoverable error occurs.
// A transaction may additionally be promoted to inevitable (TryInevitable)
// when it has performed an irreversible action and must not roll back.
package stm
