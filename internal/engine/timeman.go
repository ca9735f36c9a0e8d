package engine

import (
	"time"

	"github.com/chessplay/luna/internal/board"
)

// UCILimits contains UCI time control parameters.
type UCILimits struct {
	Time      [2]time.Duration // wtime, btime (remaining time for each color)
	Inc       [2]time.Duration // winc, binc (increment per move)
	MovesToGo int              // moves until next time control (0 = sudden death)
	MoveTime  time.Duration    // fixed time per move (overrides other time controls)
	Depth     int              // maximum search depth
	Nodes     uint64           // maximum nodes to search
	Infinite  bool             // search until stopped
	Ponder    bool             // ponder mode
}

// TimeManager handles time allocation for searches.
type TimeManager struct {
	optimumTime time.Duration // Target time for this move
	maximumTime time.Duration // Maximum time allowed
	startTime   time.Time     // When search started
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// safetyMargin is reserved off the clock so a move is never lost to
// communication/GUI overhead; applied in both MoveTime and Tournament modes.
const safetyMargin = 80 * time.Millisecond

// Init initializes the time manager for a new search.
// ply is the current game ply (half-move number).
func (tm *TimeManager) Init(limits UCILimits, us board.Color, ply int) {
	tm.startTime = time.Now()

	// Fixed move time mode: spend time-safety, nothing more, nothing less.
	if limits.MoveTime > 0 {
		budget := limits.MoveTime - safetyMargin
		if budget < 10*time.Millisecond {
			budget = 10 * time.Millisecond
		}
		tm.optimumTime = budget
		tm.maximumTime = budget
		return
	}

	// Infinite or depth-limited mode: never stop on time.
	if limits.Infinite || (limits.Time[us] == 0 && limits.MoveTime == 0) {
		tm.optimumTime = time.Hour
		tm.maximumTime = time.Hour
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	// Tournament budget: min(time-safety, time/19 + increment*2). The /19
	// divisor assumes roughly that many moves remain; the increment term
	// lets fast increments fund deeper searches without risking the clock.
	available := timeLeft - safetyMargin
	if available < 0 {
		available = 0
	}
	budget := timeLeft/19 + inc*2
	if budget > available {
		budget = available
	}
	tm.optimumTime = budget

	// Maximum time: 5x optimum or 80% of remaining, whichever is smaller.
	maxFromOptimum := tm.optimumTime * 5
	maxFromRemaining := timeLeft * 8 / 10

	if maxFromOptimum < maxFromRemaining {
		tm.maximumTime = maxFromOptimum
	} else {
		tm.maximumTime = maxFromRemaining
	}

	// Never use more than 95% of remaining time.
	safetyCeiling := timeLeft * 95 / 100
	if tm.maximumTime > safetyCeiling {
		tm.maximumTime = safetyCeiling
	}

	if tm.optimumTime < 10*time.Millisecond {
		tm.optimumTime = 10 * time.Millisecond
	}
	if tm.maximumTime < 50*time.Millisecond {
		tm.maximumTime = 50 * time.Millisecond
	}

	_ = ply // moves-to-go heuristic folded into the /19 constant, not ply-scaled
}

// ExpectedNextDepthExceeds reports whether, assuming the next iterative
// deepening depth costs about branchingFactor times as long as the depth
// that just finished, starting it would blow through the optimum budget.
// Call between depths to bail out before committing to an iteration that
// cannot complete.
func (tm *TimeManager) ExpectedNextDepthExceeds(lastDepthElapsed time.Duration) bool {
	const branchingFactor = 4
	projected := tm.Elapsed() + lastDepthElapsed*branchingFactor
	return projected > tm.optimumTime
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// OptimumTime returns the target time for this move.
func (tm *TimeManager) OptimumTime() time.Duration {
	return tm.optimumTime
}

// MaximumTime returns the maximum time allowed.
func (tm *TimeManager) MaximumTime() time.Duration {
	return tm.maximumTime
}

// ShouldStop returns true if we should stop searching.
func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.maximumTime
}

// PastOptimum returns true if we've exceeded the optimum time.
func (tm *TimeManager) PastOptimum() bool {
	return tm.Elapsed() >= tm.optimumTime
}

// AdjustForStability adjusts time allocation based on best move stability.
// If the best move hasn't changed for several depths, we can stop earlier.
// stability: number of consecutive depths with same best move
func (tm *TimeManager) AdjustForStability(stability int) {
	if stability >= 6 {
		// Very stable: halve the optimum
		tm.optimumTime = tm.optimumTime * 50 / 100
	} else if stability >= 4 {
		// Stable: use only 60% of optimum
		tm.optimumTime = tm.optimumTime * 60 / 100
	} else if stability >= 2 {
		// Somewhat stable: use 80% of optimum
		tm.optimumTime = tm.optimumTime * 80 / 100
	}
}

// AdjustForInstability increases time when best move keeps changing.
// changes: number of best move changes in recent depths
func (tm *TimeManager) AdjustForInstability(changes int) {
	if changes >= 4 {
		// Very unstable: use 200% of optimum (up to maximum)
		tm.optimumTime = tm.optimumTime * 200 / 100
		if tm.optimumTime > tm.maximumTime {
			tm.optimumTime = tm.maximumTime
		}
	} else if changes >= 2 {
		// Unstable: use 150% of optimum
		tm.optimumTime = tm.optimumTime * 150 / 100
		if tm.optimumTime > tm.maximumTime {
			tm.optimumTime = tm.maximumTime
		}
	}
}
