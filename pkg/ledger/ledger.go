// Package ledger tracks which addresses are currently live allocations, so
// debug builds can reject a double free or a pointer the allocator never
// handed out instead of silently corrupting a free list.
//
// The upstream C++ allocator relies entirely on assert() over pointer-range
// and alignment checks and leaves double-free as undefined behavior. This
// port instead builds a small sharded hash table: hash the key to pick a
// shard so the table scales under concurrent access, using
// github.com/dolthub/maphash for the hash and a plain Go map per shard
// rather than a hand-rolled open-addressing table — the ledger only ever
// stores one size class per live pointer, not arbitrary values, so a more
// elaborate probing scheme buys nothing here.
package ledger

import (
	"sync"

	"github.com/dolthub/maphash"
)

const shardCount = 64

// Ledger records which addresses are live, and which size class each one
// belongs to.
type Ledger struct {
	hasher maphash.Hasher[uintptr]
	shards [shardCount]shard
}

type shard struct {
	mu   sync.Mutex
	live map[uintptr]int
}

// New returns an empty ledger.
func New() *Ledger {
	l := &Ledger{hasher: maphash.NewHasher[uintptr]()}
	for i := range l.shards {
		l.shards[i].live = make(map[uintptr]int)
	}
	return l
}

func (l *Ledger) shardFor(ptr uintptr) *shard {
	return &l.shards[l.hasher.Hash(ptr)%shardCount]
}

// Add records ptr as a live allocation of the given size class. It panics
// if ptr was already live (a double allocation of the same address, which
// can only mean the free list handed out a slot twice).
func (l *Ledger) Add(ptr uintptr, sizeClass int) {
	s := l.shardFor(ptr)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.live[ptr]; exists {
		panic("ledger: address already live")
	}
	s.live[ptr] = sizeClass
}

// Remove marks ptr as no longer live and returns the size class it was
// recorded under. It panics if ptr was not live, which is what a double
// free or a foreign pointer passed to Deallocate looks like.
func (l *Ledger) Remove(ptr uintptr) int {
	s := l.shardFor(ptr)
	s.mu.Lock()
	defer s.mu.Unlock()
	sizeClass, exists := s.live[ptr]
	if !exists {
		panic("ledger: address not live (double free or foreign pointer)")
	}
	delete(s.live, ptr)
	return sizeClass
}

// Contains reports whether ptr is currently recorded as live.
func (l *Ledger) Contains(ptr uintptr) bool {
	s := l.shardFor(ptr)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.live[ptr]
	return exists
}

// Len returns the number of live allocations currently tracked.
func (l *Ledger) Len() int {
	n := 0
	for i := range l.shards {
		l.shards[i].mu.Lock()
		n += len(l.shards[i].live)
		l.shards[i].mu.Unlock()
	}
	return n
}
