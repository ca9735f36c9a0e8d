package engine

import (
	"github.com/chessplay/luna/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// TTEntry represents an entry in the transposition table.
// Key is the full 64-bit Zobrist signature, never a truncated fragment:
// a probe never mistakes a colliding-index different position for a hit.
type TTEntry struct {
	Key      uint64     // Full Zobrist hash
	BestMove board.Move // Best move found
	Score    int16      // Score (bounded by flag)
	Depth    int8       // Search depth
	Flag     TTFlag     // Type of bound
	IsPV     bool       // Entry was written from a PV node
}

// TranspositionTable is a hash table for storing search results.
// One bucket per index; each bucket holds a single entry plus a valid flag.
type TranspositionTable struct {
	entries []TTEntry
	valid   []bool
	size    uint64
	mask    uint64

	// Statistics
	hits   uint64
	probes uint64
}

// NewTranspositionTable creates a transposition table with the given size in MB.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	entrySize := uint64(24) // approximate size of TTEntry
	numEntries := (uint64(sizeMB) * 1024 * 1024) / entrySize
	numEntries = roundDownToPowerOf2(numEntries)
	if numEntries == 0 {
		numEntries = 1
	}

	return &TranspositionTable{
		entries: make([]TTEntry, numEntries),
		valid:   make([]bool, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up a position in the transposition table.
// Returns the entry and true if found, otherwise returns empty entry and false.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++

	idx := hash & tt.mask
	if tt.valid[idx] && tt.entries[idx].Key == hash {
		tt.hits++
		return tt.entries[idx], true
	}

	return TTEntry{}, false
}

// Store saves a position in the transposition table, applying the
// replacement policy (maybeAdd): empty bucket accepts unconditionally;
// equal depth accepts when the incoming entry is EXACT and the stored
// one is not; strictly greater depth always accepts; otherwise the
// stored entry is kept.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move, isPV bool) {
	idx := hash & tt.mask
	entry := &tt.entries[idx]

	accept := !tt.valid[idx]
	if !accept {
		if entry.Key == hash {
			if depth > int(entry.Depth) {
				accept = true
			} else if depth == int(entry.Depth) && flag == TTExact && entry.Flag != TTExact {
				accept = true
			}
		} else {
			// Different position sharing the bucket: the depth comparison
			// still governs whether it displaces the incumbent.
			accept = depth > int(entry.Depth)
		}
	}

	if accept {
		entry.Key = hash
		entry.BestMove = bestMove
		entry.Score = int16(score)
		entry.Depth = int8(depth)
		entry.Flag = flag
		entry.IsPV = isPV
		tt.valid[idx] = true
	}
}

// NewSearch prepares the table for a new search. The replacement policy
// is depth/bound driven rather than generation driven, so entries are
// simply left in place between searches; ucinewgame calls Clear explicitly.
func (tt *TranspositionTable) NewSearch() {}

// Clear clears the transposition table, preserving its capacity.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
		tt.valid[i] = false
	}
	tt.hits = 0
	tt.probes = 0
}

// Resize reallocates the table to the given size in MB, losing all entries.
func (tt *TranspositionTable) Resize(sizeMB int) {
	entrySize := uint64(24)
	numEntries := (uint64(sizeMB) * 1024 * 1024) / entrySize
	numEntries = roundDownToPowerOf2(numEntries)
	if numEntries == 0 {
		numEntries = 1
	}
	tt.entries = make([]TTEntry, numEntries)
	tt.valid = make([]bool, numEntries)
	tt.size = numEntries
	tt.mask = numEntries - 1
	tt.hits = 0
	tt.probes = 0
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (tt *TranspositionTable) HashFull() int {
	used := 0
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}

	for i := 0; i < sampleSize; i++ {
		if tt.valid[i] {
			used++
		}
	}

	return (used * 1000) / sampleSize
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() uint64 {
	return tt.size
}

// AdjustScoreFromTT adjusts a score from the transposition table.
// Mate scores need to be adjusted based on ply distance.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT adjusts a score for storage in the transposition table.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
