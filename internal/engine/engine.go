package engine

import (
	"sync/atomic"
	"time"

	"github.com/chessplay/luna/internal/board"
	"github.com/chessplay/luna/internal/book"
)

// SearchInfo contains information about the current search.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // Permille of hash table used
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = no limit)
	Nodes    uint64        // Maximum nodes (0 = no limit)
	MoveTime time.Duration // Time for this move (0 = no limit)
	Infinite bool          // Search until stopped
	MultiPV  int           // Number of principal variations to find (0 or 1 = single best move)
}

// SearchResult contains the result of a single PV search.
type SearchResult struct {
	Move  board.Move
	Score int
	PV    []board.Move
	Depth int
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // ~2-3 ply, 500ms
	Medium                   // depth 7, 1s
	Hard                     // Maximum strength, depth 40, 3s
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 3, MoveTime: 500 * time.Millisecond},
	Medium: {Depth: 7, MoveTime: 1 * time.Second},
	Hard:   {Depth: 40, MoveTime: 3 * time.Second}, // Max strength (time-limited)
}

// Engine is the chess AI engine. Exactly one search runs at a time, driven
// by a single Worker on whichever goroutine calls Search* - there is no
// worker pool and no parallel (Lazy-SMP) search.
type Engine struct {
	worker        *Worker
	pawnTable     *PawnTable
	tt            *TranspositionTable
	sharedHistory *SharedHistory
	stopFlag      atomic.Bool

	difficulty Difficulty
	book       *book.Book

	multiPV    int
	useOwnBook bool

	// Position history for repetition detection
	rootPosHashes []uint64

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine with the given transposition table size in MB.
func NewEngine(ttSizeMB int) *Engine {
	tt := NewTranspositionTable(ttSizeMB)
	sharedHistory := NewSharedHistory()
	pawnTable := NewPawnTable(1)

	e := &Engine{
		tt:            tt,
		pawnTable:     pawnTable,
		sharedHistory: sharedHistory,
		difficulty:    Medium,
		multiPV:       1,
	}
	e.worker = NewWorker(0, tt, pawnTable, sharedHistory, &e.stopFlag)

	return e
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// LoadBook loads an opening book from a Polyglot file.
func (e *Engine) LoadBook(filename string) error {
	b, err := book.LoadPolyglot(filename)
	if err != nil {
		return err
	}
	e.book = b
	return nil
}

// SetBook sets the opening book.
func (e *Engine) SetBook(b *book.Book) {
	e.book = b
}

// HasBook returns true if an opening book is loaded.
func (e *Engine) HasBook() bool {
	return e.book != nil
}

// SetUseOwnBook enables or disables book probing (the UCI UseOwnBook option).
func (e *Engine) SetUseOwnBook(use bool) {
	e.useOwnBook = use
}

// UseOwnBook returns whether book probing is enabled.
func (e *Engine) UseOwnBook() bool {
	return e.useOwnBook
}

// SetMultiPV sets the number of principal variations SearchMultiPV reports.
func (e *Engine) SetMultiPV(n int) {
	if n < 1 {
		n = 1
	}
	e.multiPV = n
}

// MultiPV returns the configured number of principal variations.
func (e *Engine) MultiPV() int {
	return e.multiPV
}

// SetHashSize resizes the transposition table, in MB.
func (e *Engine) SetHashSize(sizeMB int) {
	e.tt.Resize(sizeMB)
}

// SetPositionHistory sets the position history for repetition detection.
// This should be called before Search() with hashes from the game's move history.
func (e *Engine) SetPositionHistory(hashes []uint64) {
	e.rootPosHashes = make([]uint64, len(hashes))
	copy(e.rootPosHashes, hashes)
	e.worker.SetRootHistory(hashes)
}

// Search finds the best move for the given position.
func (e *Engine) Search(pos *board.Position) board.Move {
	limits := DifficultySettings[e.difficulty]
	return e.SearchWithLimits(pos, limits)
}

// SearchWithLimits finds the best move with specific search limits, running
// a single iterative-deepening search to completion on the calling goroutine.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) board.Move {
	if e.useOwnBook && e.book != nil {
		if move, ok := e.book.Probe(pos); ok {
			return move
		}
	}

	e.stopFlag.Store(false)
	e.tt.NewSearch()
	e.worker.Reset()
	e.worker.InitSearch(pos)

	startTime := time.Now()
	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = startTime.Add(limits.MoveTime)
	}

	var bestMove board.Move
	var bestScore int
	var bestDepth int

	for depth := 1; depth <= maxDepth; depth++ {
		if e.stopFlag.Load() {
			break
		}

		e.worker.UpdateOptimism()
		move, score := e.searchOneDepth(depth)
		if e.stopFlag.Load() {
			break
		}

		e.worker.UpdateAvgScore(score)

		if move != board.NoMove {
			bestMove = move
			bestScore = score
			bestDepth = depth

			if e.OnInfo != nil {
				e.OnInfo(SearchInfo{
					Depth:    bestDepth,
					Score:    bestScore,
					Nodes:    e.worker.Nodes(),
					Time:     time.Since(startTime),
					PV:       e.worker.GetPV(),
					HashFull: e.tt.HashFull(),
				})
			}
		}

		if bestScore > MateScore-100 || bestScore < -MateScore+100 {
			break
		}

		if limits.Nodes > 0 && e.worker.Nodes() >= limits.Nodes {
			break
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
	}

	e.stopFlag.Store(true)
	return bestMove
}

// SearchWithUCILimits finds the best move using UCI time controls.
// Supports wtime/btime/winc/binc for proper tournament time management.
func (e *Engine) SearchWithUCILimits(pos *board.Position, limits UCILimits, ply int) board.Move {
	if e.useOwnBook && e.book != nil {
		if move, ok := e.book.Probe(pos); ok {
			return move
		}
	}

	tm := NewTimeManager()
	tm.Init(limits, pos.SideToMove, ply)

	e.stopFlag.Store(false)
	e.tt.NewSearch()
	e.worker.Reset()
	e.worker.InitSearch(pos)

	startTime := time.Now()
	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	var bestMove, lastBestMove board.Move
	var bestScore, bestDepth int
	var stabilityCount, instabilityCount int

	for depth := 1; depth <= maxDepth; depth++ {
		if tm.ShouldStop() {
			break
		}

		depthStart := time.Now()
		e.worker.UpdateOptimism()
		move, score := e.searchOneDepth(depth)
		depthElapsed := time.Since(depthStart)

		if e.stopFlag.Load() {
			break
		}

		e.worker.UpdateAvgScore(score)

		if move != board.NoMove {
			if move == lastBestMove {
				stabilityCount++
				instabilityCount = 0
			} else {
				instabilityCount++
				stabilityCount = 0
			}
			lastBestMove = move

			bestMove = move
			bestScore = score
			bestDepth = depth

			if e.OnInfo != nil {
				e.OnInfo(SearchInfo{
					Depth:    bestDepth,
					Score:    bestScore,
					Nodes:    e.worker.Nodes(),
					Time:     time.Since(startTime),
					PV:       e.worker.GetPV(),
					HashFull: e.tt.HashFull(),
				})
			}

			if bestScore > MateScore-100 || bestScore < -MateScore+100 {
				break
			}

			if stabilityCount >= 6 {
				tm.AdjustForStability(stabilityCount)
			} else if instabilityCount >= 2 {
				tm.AdjustForInstability(instabilityCount)
			}

			if tm.PastOptimum() && stabilityCount >= 4 {
				break
			}
		}

		if limits.Nodes > 0 && e.worker.Nodes() >= limits.Nodes {
			break
		}

		if tm.ShouldStop() {
			break
		}

		if !limits.Infinite && tm.ExpectedNextDepthExceeds(depthElapsed) {
			break
		}
	}

	e.stopFlag.Store(true)
	return bestMove
}

// searchOneDepth runs a single iterative-deepening iteration with an
// aspiration window derived from the previous score, widening on fail
// high/low until the true score is bracketed.
func (e *Engine) searchOneDepth(depth int) (board.Move, int) {
	if depth < 5 {
		return e.worker.SearchDepth(depth, -Infinity, Infinity)
	}

	prevScore := e.worker.avgScore
	if prevScore == -Infinity {
		return e.worker.SearchDepth(depth, -Infinity, Infinity)
	}

	window := 50
	alpha := prevScore - window
	beta := prevScore + window

	for {
		move, score := e.worker.SearchDepth(depth, alpha, beta)
		if e.stopFlag.Load() {
			return move, score
		}

		if score <= alpha && alpha != -Infinity {
			alpha -= window * 2
			if alpha < -Infinity {
				alpha = -Infinity
			}
			continue
		}
		if score >= beta && beta != Infinity {
			beta += window * 2
			if beta > Infinity {
				beta = Infinity
			}
			continue
		}
		return move, score
	}
}

// SearchMultiPV finds multiple best moves (principal variations) for analysis,
// reusing the single Worker's root-move exclusion support for each PV line.
func (e *Engine) SearchMultiPV(pos *board.Position, limits SearchLimits) []SearchResult {
	numPV := limits.MultiPV
	if numPV <= 0 {
		numPV = e.multiPV
	}
	if numPV <= 0 {
		numPV = 1
	}

	results := make([]SearchResult, 0, numPV)
	excludedMoves := make([]board.Move, 0, numPV)

	for i := 0; i < numPV; i++ {
		move, score, pv, depth := e.searchWithExclusions(pos, limits, excludedMoves)
		if move == board.NoMove {
			break
		}

		results = append(results, SearchResult{
			Move:  move,
			Score: score,
			PV:    pv,
			Depth: depth,
		})
		excludedMoves = append(excludedMoves, move)
	}

	for i := 0; i < len(results)-1; i++ {
		maxIdx := i
		for j := i + 1; j < len(results); j++ {
			if results[j].Score > results[maxIdx].Score {
				maxIdx = j
			}
		}
		if maxIdx != i {
			results[i], results[maxIdx] = results[maxIdx], results[i]
		}
	}

	return results
}

// searchWithExclusions searches for the best move excluding certain moves at
// the root, using the engine's single Worker with its root-exclusion list set.
func (e *Engine) searchWithExclusions(pos *board.Position, limits SearchLimits, excluded []board.Move) (board.Move, int, []board.Move, int) {
	e.stopFlag.Store(false)
	e.tt.NewSearch()
	e.worker.Reset()
	e.worker.SetExcludedMoves(excluded)
	e.worker.InitSearch(pos)

	startTime := time.Now()
	var bestMove board.Move
	var bestScore, bestDepth int

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = startTime.Add(limits.MoveTime)
	}

	for depth := 1; depth <= maxDepth; depth++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		move, score := e.worker.SearchDepth(depth, -Infinity, Infinity)
		if e.stopFlag.Load() {
			break
		}

		if move != board.NoMove {
			bestMove = move
			bestScore = score
			bestDepth = depth
		}

		if score > MateScore-100 || score < -MateScore+100 {
			break
		}

		if !deadline.IsZero() {
			elapsed := time.Since(startTime)
			remaining := limits.MoveTime - elapsed
			if remaining < elapsed {
				break
			}
		}
	}

	pv := e.worker.GetPV()
	e.worker.SetExcludedMoves(nil)

	return bestMove, bestScore, pv, bestDepth
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
}

// Clear clears the transposition table and other caches.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.worker.orderer.Clear()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		nodes += e.Perft(pos, depth-1)
		pos.UnmakeMove(move, undo)
	}

	return nodes
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-100 {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + itoa(mateIn)
	}
	if score < -MateScore+100 {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + itoa(mateIn)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	return sign + itoa(pawns) + "." + itoa(centipawns)
}

// Simple integer to string (avoid fmt import)
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string('0'+byte(n%10)) + s
		n /= 10
	}
	return s
}
