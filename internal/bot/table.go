package bot

import (
	"sync"
	"sync/atomic"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
)

// Bound says how a stored score relates to the true minimax value
type Bound uint8

const (
	BoundExact Bound = iota
	// BoundLower: the search failed high, the true value is at least Score
	BoundLower
	// BoundUpper: the search failed low, the true value is at most Score
	BoundUpper
)

// TableEntry is one transposition table record
type TableEntry struct {
	Key      uint64
	Depth    int
	Score    float64
	Bound    Bound
	BestMove core.Move
	HasMove  bool
	valid    bool
}

const tableStripes = 64

// TranspositionTable is a fixed-size, lock-striped cache of search results
// shared by every search an Engine runs. Entries are replaced when the new
// result was searched at least as deep.
type TranspositionTable struct {
	mask    uint64
	entries []TableEntry
	locks   [tableStripes]sync.RWMutex
	stored  atomic.Int64
}

// NewTranspositionTable allocates a table with size slots, rounded up to a power of two
func NewTranspositionTable(size int) *TranspositionTable {
	if size < 1 {
		size = 1
	}
	n := uint64(1)
	for n < uint64(size) {
		n <<= 1
	}
	return &TranspositionTable{
		mask:    n - 1,
		entries: make([]TableEntry, n),
	}
}

func (t *TranspositionTable) stripe(key uint64) *sync.RWMutex {
	return &t.locks[(key&t.mask)%tableStripes]
}

// Probe returns the entry stored for key
func (t *TranspositionTable) Probe(key uint64) (TableEntry, bool) {
	l := t.stripe(key)
	l.RLock()
	defer l.RUnlock()
	e := t.entries[key&t.mask]
	if !e.valid || e.Key != key {
		return TableEntry{}, false
	}
	return e, true
}

// Store records a result unless a deeper result for the same key is already present
func (t *TranspositionTable) Store(key uint64, depth int, score float64, bound Bound, best core.Move, hasMove bool) {
	l := t.stripe(key)
	l.Lock()
	defer l.Unlock()
	slot := &t.entries[key&t.mask]
	if slot.valid && slot.Key == key && slot.Depth > depth {
		return
	}
	if !slot.valid {
		t.stored.Add(1)
	}
	*slot = TableEntry{Key: key, Depth: depth, Score: score, Bound: bound, BestMove: best, HasMove: hasMove, valid: true}
}

// Len returns the number of occupied slots
func (t *TranspositionTable) Len() int {
	return int(t.stored.Load())
}

// Clear drops every entry
func (t *TranspositionTable) Clear() {
	for i := range t.locks {
		t.locks[i].Lock()
	}
	defer func() {
		for i := range t.locks {
			t.locks[i].Unlock()
		}
	}()
	for i := range t.entries {
		t.entries[i] = TableEntry{}
	}
	t.stored.Store(0)
}
