package engine

// Search pruning toggles and their tuned thresholds. These gate the
// pruning techniques applied in the main search move loop (futility,
// SEE, late move pruning, history pruning); all are enabled by default
// the way Stockfish-derived engines ship them turned on, with the
// thresholds below sized for the depths they are actually probed at
// (0..7).
const (
	EnableFutilityPruning = true
	EnableSEEPruning      = true
	EnableLMP             = true
	EnableHistoryPruning  = true
	EnableThreatExt       = true
	EnableHindsightDepth  = true
	EnableRFP             = true
	EnableRazoring        = true
	EnableNMP             = true
	EnableProbcut         = true
	EnableMulticut        = true
	EnableSingularExt     = true
)

// lmpThreshold[depth] is the number of quiet moves tried before Late
// Move Pruning skips the rest at that depth. Index 0 is unused since
// LMP only fires for depth >= 1.
var lmpThreshold = [8]int{0, 5, 8, 13, 20, 28, 38, 50}

// historyPruningThreshold is the history score floor below which a
// quiet move is skipped outright at shallow depth.
const historyPruningThreshold = -2000

// threatExtensionMinDepth is the minimum depth at which a serious-threat
// check extension is considered.
const threatExtensionMinDepth = 6

// threatExtensionThreshold is the minimum piece value (see pieceValues)
// a hanging piece must have to count as a serious threat worth extending.
const threatExtensionThreshold = 300

// probcutDepth and multicutDepth/multicutMoves/multicutRequired gate the
// Probcut and Multi-Cut pruning passes: the minimum depth each applies
// at, how many moves Multi-Cut samples, and how many beta cutoffs among
// those it needs before pruning the node outright.
const (
	probcutDepth     = 5
	multicutDepth    = 8
	multicutMoves    = 6
	multicutRequired = 3
)

// lazyEvalMargin bounds the lazy material-only evaluation used to skip a
// full static evaluation in quiescence search when the position is
// clearly won or lost on material alone.
const lazyEvalMargin = 600
