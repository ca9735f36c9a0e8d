package engine

import (
	"sort"

	"github.com/chessplay/luna/internal/board"
)

// cursorStage names the ordering stages MoveCursor walks in order.
type cursorStage int

const (
	stageHash cursorStage = iota
	stagePromotionCaptures
	stagePromotions
	stageGoodCaptures
	stageEnPassant
	stageKillers
	stageBadCaptures
	stageQuiet
	stageDone
)

// scoredMove pairs a move with its ordering score within a stage's bucket.
type scoredMove struct {
	move  board.Move
	score int
}

// MoveCursor lazily walks the move-ordering stages of the search: the hash
// move, promotion captures, plain promotions, good captures, en passant
// captures, killers, bad captures, and finally quiet moves. Captures and
// promotions are partitioned from a single GenerateCaptures() call; the
// hash move and already-emitted killers are never yielded twice.
type MoveCursor struct {
	pos      *board.Position
	orderer  *MoveOrderer
	ply      int
	ttMove   board.Move
	prevMove board.Move

	stage cursorStage

	promoCaptures []scoredMove
	promotions    []scoredMove
	goodCaptures  []scoredMove
	epCaptures    []scoredMove
	badCaptures   []scoredMove
	quiets        []scoredMove

	idx int

	capturesGenerated bool
	quietsGenerated   bool

	killerIdx int

	hashYielded bool
}

// NewMoveCursor creates a cursor over the legal moves available at pos.
func NewMoveCursor(pos *board.Position, orderer *MoveOrderer, ply int, ttMove, prevMove board.Move) *MoveCursor {
	c := &MoveCursor{
		pos:      pos,
		orderer:  orderer,
		ply:      ply,
		ttMove:   ttMove,
		prevMove: prevMove,
		stage:    stageHash,
	}
	if ttMove == board.NoMove || !pos.PseudoLegal(ttMove) {
		c.hashYielded = true
		c.stage = stagePromotionCaptures
	}
	return c
}

// Next returns the next move in stage order, or (NoMove, false) when exhausted.
func (c *MoveCursor) Next() (board.Move, bool) {
	for c.stage != stageDone {
		switch c.stage {
		case stageHash:
			c.hashYielded = true
			c.stage = stagePromotionCaptures
			return c.ttMove, true

		case stagePromotionCaptures:
			c.generateCaptures()
			if c.idx < len(c.promoCaptures) {
				m := c.promoCaptures[c.idx].move
				c.idx++
				return m, true
			}
			c.idx = 0
			c.stage = stagePromotions

		case stagePromotions:
			if c.idx < len(c.promotions) {
				m := c.promotions[c.idx].move
				c.idx++
				return m, true
			}
			c.idx = 0
			c.stage = stageGoodCaptures

		case stageGoodCaptures:
			if c.idx < len(c.goodCaptures) {
				m := c.goodCaptures[c.idx].move
				c.idx++
				return m, true
			}
			c.idx = 0
			c.stage = stageEnPassant

		case stageEnPassant:
			if c.idx < len(c.epCaptures) {
				m := c.epCaptures[c.idx].move
				c.idx++
				return m, true
			}
			c.idx = 0
			c.stage = stageKillers

		case stageKillers:
			for c.killerIdx < 2 {
				k := c.orderer.killers[c.ply][c.killerIdx]
				c.killerIdx++
				if k == board.NoMove || k == c.ttMove {
					continue
				}
				if !c.pos.PseudoLegal(k) || k.IsCapture() || k.IsPromotion() {
					continue
				}
				return k, true
			}
			c.stage = stageBadCaptures

		case stageBadCaptures:
			if c.idx < len(c.badCaptures) {
				m := c.badCaptures[c.idx].move
				c.idx++
				return m, true
			}
			c.idx = 0
			c.stage = stageQuiet

		case stageQuiet:
			c.generateQuiets()
			if c.idx < len(c.quiets) {
				m := c.quiets[c.idx].move
				c.idx++
				return m, true
			}
			c.stage = stageDone
		}
	}
	return board.NoMove, false
}

// generateCaptures splits GenerateCaptures() (which also yields promotions)
// into the PromotionCaptures, Promotions, GoodCaptures and EnPassant buckets.
func (c *MoveCursor) generateCaptures() {
	if c.capturesGenerated {
		return
	}
	c.capturesGenerated = true

	caps := c.pos.GenerateCaptures()
	for i := 0; i < caps.Len(); i++ {
		m := caps.Get(i)
		if m == c.ttMove {
			continue
		}

		switch {
		case m.IsEnPassant():
			c.epCaptures = append(c.epCaptures, scoredMove{m, 0})
		case m.IsPromotion() && m.IsCapture():
			c.promoCaptures = append(c.promoCaptures, scoredMove{m, mvvLvaScore(c.pos, m) + int(m.Promotion())*10})
		case m.IsPromotion():
			c.promotions = append(c.promotions, scoredMove{m, int(m.Promotion())})
		default:
			if SEE(c.pos, m) >= 0 {
				c.goodCaptures = append(c.goodCaptures, scoredMove{m, mvvLvaScore(c.pos, m)})
			} else {
				c.badCaptures = append(c.badCaptures, scoredMove{m, mvvLvaScore(c.pos, m)})
			}
		}
	}

	sortDescending(c.promoCaptures)
	sortDescending(c.promotions)
	sortDescending(c.goodCaptures)
	sortDescending(c.badCaptures)
}

// generateQuiets builds and scores the Quiet stage: history, counter-move
// bonus, half the countermove history, and low-ply history, descending. The
// TT move and both killers, already emitted in their own stages, are skipped
// here.
func (c *MoveCursor) generateQuiets() {
	if c.quietsGenerated {
		return
	}
	c.quietsGenerated = true

	moves := c.pos.GenerateQuiets()
	counterMove := c.orderer.GetCounterMove(c.prevMove, c.pos)

	var prevPiece board.Piece = board.NoPiece
	if c.prevMove != board.NoMove {
		prevPiece = c.pos.PieceAt(c.prevMove.To())
	}

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m == c.ttMove {
			continue
		}
		if m == c.orderer.killers[c.ply][0] || m == c.orderer.killers[c.ply][1] {
			continue
		}

		movePiece := c.pos.PieceAt(m.From())
		score := c.orderer.GetHistoryScore(m)

		if m == counterMove {
			score += 5000
		}

		cmh := c.orderer.GetCountermoveHistoryScore(c.prevMove, prevPiece, movePiece, m.To())
		score += cmh / 2
		score += c.orderer.GetLowPlyHistoryScore(m, c.ply)

		c.quiets = append(c.quiets, scoredMove{m, score})
	}

	sortDescending(c.quiets)
}

// mvvLvaScore returns the MVV-LVA score for a capture; capture history is not used.
func mvvLvaScore(pos *board.Position, m board.Move) int {
	attackerPiece := pos.PieceAt(m.From())
	if attackerPiece == board.NoPiece {
		return 0
	}
	attacker := attackerPiece.Type()

	var victim board.PieceType
	if m.IsEnPassant() {
		victim = board.Pawn
	} else {
		captured := pos.PieceAt(m.To())
		if captured == board.NoPiece {
			return 0
		}
		victim = captured.Type()
	}
	if victim >= board.King || attacker > board.King {
		return 0
	}

	return mvvLva[victim][attacker] * 1000
}

func sortDescending(s []scoredMove) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].score > s[j].score })
}
