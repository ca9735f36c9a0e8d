package engine

import "github.com/chessplay/luna/internal/board"

// EndgameType identifies a recognized specialized endgame material signature.
type EndgameType int

const (
	EndgameNone EndgameType = iota
	EndgameKPK              // King and pawn vs king
	EndgameKBNK             // King, bishop and knight vs king
	EndgameKBPK             // King, bishop and pawn vs king
	EndgameKRMinor          // King and rook vs king and minor piece
	EndgameKQMinor          // King and queen vs king and minor piece
	EndgameKRRook           // King and rook vs king and rook
)

// endgameWinBase offsets a recognized endgame's score so it always dominates
// the classical positional terms for the side that is known to be ahead.
const endgameWinBase = 10000

// materialSignature summarizes one side's non-king material for classification.
type materialSignature struct {
	pawns, knights, bishops, rooks, queens int
}

func signatureOf(pos *board.Position, c board.Color) materialSignature {
	return materialSignature{
		pawns:   pos.Pieces[c][board.Pawn].PopCount(),
		knights: pos.Pieces[c][board.Knight].PopCount(),
		bishops: pos.Pieces[c][board.Bishop].PopCount(),
		rooks:   pos.Pieces[c][board.Rook].PopCount(),
		queens:  pos.Pieces[c][board.Queen].PopCount(),
	}
}

func (m materialSignature) isBare() bool {
	return m.pawns == 0 && m.knights == 0 && m.bishops == 0 && m.rooks == 0 && m.queens == 0
}

func (m materialSignature) nonPawnPieceCount() int {
	return m.knights + m.bishops + m.rooks + m.queens
}

// ClassifyEndgame inspects the position's material signature and returns a
// recognized endgame type plus the color that holds the winning/stronger
// side, when one of the specialized patterns applies. Returns EndgameNone
// otherwise, so classical tapered evaluation takes over.
func ClassifyEndgame(pos *board.Position) (EndgameType, board.Color) {
	white := signatureOf(pos, board.White)
	black := signatureOf(pos, board.Black)

	// KPK: one side has a single pawn and nothing else, the other side is bare.
	if white.pawns == 1 && white.nonPawnPieceCount() == 0 && black.isBare() {
		return EndgameKPK, board.White
	}
	if black.pawns == 1 && black.nonPawnPieceCount() == 0 && white.isBare() {
		return EndgameKPK, board.Black
	}

	// KBNK: bishop + knight vs bare king (classic "tricky" mate).
	if white.bishops == 1 && white.knights == 1 && white.pawns == 0 && white.rooks == 0 && white.queens == 0 && black.isBare() {
		return EndgameKBNK, board.White
	}
	if black.bishops == 1 && black.knights == 1 && black.pawns == 0 && black.rooks == 0 && black.queens == 0 && white.isBare() {
		return EndgameKBNK, board.Black
	}

	// KBPK: bishop + pawn vs bare king (wrong-bishop-color draws are common).
	if white.bishops == 1 && white.pawns == 1 && white.knights == 0 && white.rooks == 0 && white.queens == 0 && black.isBare() {
		return EndgameKBPK, board.White
	}
	if black.bishops == 1 && black.pawns == 1 && black.knights == 0 && black.rooks == 0 && black.queens == 0 && white.isBare() {
		return EndgameKBPK, board.Black
	}

	// KR vs K+minor, no pawns either side.
	if white.rooks == 1 && white.pawns == 0 && white.queens == 0 && white.knights == 0 && white.bishops == 0 &&
		black.pawns == 0 && black.rooks == 0 && black.queens == 0 && black.nonPawnPieceCount() == 1 {
		return EndgameKRMinor, board.White
	}
	if black.rooks == 1 && black.pawns == 0 && black.queens == 0 && black.knights == 0 && black.bishops == 0 &&
		white.pawns == 0 && white.rooks == 0 && white.queens == 0 && white.nonPawnPieceCount() == 1 {
		return EndgameKRMinor, board.Black
	}

	// KQ vs K+minor, no pawns either side.
	if white.queens == 1 && white.pawns == 0 && white.rooks == 0 && white.knights == 0 && white.bishops == 0 &&
		black.pawns == 0 && black.queens == 0 && black.rooks == 0 && black.nonPawnPieceCount() == 1 {
		return EndgameKQMinor, board.White
	}
	if black.queens == 1 && black.pawns == 0 && black.rooks == 0 && black.knights == 0 && black.bishops == 0 &&
		white.pawns == 0 && white.queens == 0 && white.rooks == 0 && white.nonPawnPieceCount() == 1 {
		return EndgameKQMinor, board.Black
	}

	// KR vs KR with no other material: usually a draw, flag it so the
	// classical evaluator can damp the score rather than overstate an edge.
	if white.rooks == 1 && black.rooks == 1 && white.pawns == 0 && black.pawns == 0 &&
		white.nonPawnPieceCount() == 1 && black.nonPawnPieceCount() == 1 {
		return EndgameKRRook, board.White
	}

	return EndgameNone, board.White
}

// EvaluateEndgame returns a score (from White's perspective, in the
// classical centipawn scale) for a recognized specialized endgame. For
// KBNK, KR-vs-minor, KQ-vs-minor and KBPK the strong side's score is
// endgameWinBase plus corner and king-proximity terms, so the search can
// make progress towards mate. KPK scores a quarter of endgameWinBase plus
// king proximity, and KR-vs-KR scores half the king-proximity term only.
func EvaluateEndgame(pos *board.Position, kind EndgameType, strongSide board.Color) int {
	weakSide := strongSide.Other()
	strongKing := pos.KingSquare[strongSide]
	weakKing := pos.KingSquare[weakSide]

	// Drive the weak king to the edge/corner and the kings together -
	// the standard "box the king in" technique used by KBNK/KQK/KRK mates.
	cornerPenalty := cornerDistancePenalty(weakKing)
	kingDistBonus := (14 - squareDistance(strongKing, weakKing)) * 10

	score := endgameWinBase + cornerPenalty + kingDistBonus

	switch kind {
	case EndgameKPK:
		// Material is already implied by the signature match; score a
		// quarter of the win base plus king proximity. The pawn's
		// advancement is not scored.
		score = endgameWinBase/4 + kingDistBonus
	case EndgameKRRook:
		// Materially level rook endgame: treat as near-draw, just nudge by
		// king activity rather than asserting a large advantage.
		score = kingDistBonus / 2
	case EndgameKBNK, EndgameKRMinor, EndgameKQMinor, EndgameKBPK:
		// Bishop-and-knight mate needs the weak king forced to the bishop's
		// corner color, not just any corner; bias towards it.
		if kind == EndgameKBNK {
			score += bishopCornerBias(pos, strongSide, weakKing)
		}
	}

	if strongSide == board.Black {
		score = -score
	}
	return score
}

func squareDistance(a, b board.Square) int {
	fileDist := int(a.File()) - int(b.File())
	if fileDist < 0 {
		fileDist = -fileDist
	}
	rankDist := int(a.Rank()) - int(b.Rank())
	if rankDist < 0 {
		rankDist = -rankDist
	}
	if fileDist > rankDist {
		return fileDist
	}
	return rankDist
}

func cornerDistancePenalty(sq board.Square) int {
	file := int(sq.File())
	rank := int(sq.Rank())
	distToEdge := file
	if 7-file < distToEdge {
		distToEdge = 7 - file
	}
	if rank < distToEdge {
		distToEdge = rank
	}
	if 7-rank < distToEdge {
		distToEdge = 7 - rank
	}
	return -distToEdge * 15
}

// bishopCornerBias rewards driving the weak king towards the corner that
// matches the strong side's bishop color, the only mating corner in KBNK.
func bishopCornerBias(pos *board.Position, strongSide board.Color, weakKing board.Square) int {
	bishops := pos.Pieces[strongSide][board.Bishop]
	if bishops == 0 {
		return 0
	}
	sq := bishops.LSB()
	lightSquared := (int(sq.File())+int(sq.Rank()))%2 == 0

	file := int(weakKing.File())
	rank := int(weakKing.Rank())
	distA1H8 := abs(file - rank)
	distA8H1 := abs(file + rank - 7)

	if lightSquared {
		return (7 - distA1H8) * 4
	}
	return (7 - distA8H1) * 4
}
