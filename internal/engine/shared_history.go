package engine

import "sync/atomic"

// SharedHistory is a from/to move history table blended into each worker's
// local history score. It is safe for concurrent access so that a future
// multi-worker search could update it from several goroutines at once,
// even though today's single-Worker search only ever touches it from one.
type SharedHistory struct {
	table [64][64]int32
}

// NewSharedHistory creates an empty shared history table.
func NewSharedHistory() *SharedHistory {
	return &SharedHistory{}
}

// Get returns the current history score for a from/to square pair.
func (h *SharedHistory) Get(from, to int) int {
	return int(atomic.LoadInt32(&h.table[from][to]))
}

// Update adds bonus to the from/to entry, halving the whole table if any
// entry would overflow the scaling range used by the local history tables.
func (h *SharedHistory) Update(from, to, bonus int) {
	newVal := atomic.AddInt32(&h.table[from][to], int32(bonus))
	if newVal > 400000 || newVal < -400000 {
		h.scaleDown()
	}
}

func (h *SharedHistory) scaleDown() {
	for i := range h.table {
		for j := range h.table[i] {
			v := atomic.LoadInt32(&h.table[i][j])
			atomic.StoreInt32(&h.table[i][j], v/2)
		}
	}
}
