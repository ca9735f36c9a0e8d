package board

import "fmt"

// Move encodes a chess move in a single 32-bit word:
//
//	bits  0-5:  from square (0-63)
//	bits  6-11: to square (0-63)
//	bits 12-15: moving piece (Piece, NoPiece if unset)
//	bits 16-19: captured piece (Piece, NoPiece if this move is not a capture)
//	bits 20-22: promotion piece type (Knight..Queen, meaningless unless IsPromotion)
//	bits 23-28: move-type tag, one of the Tag* constants below
//
// The packing keeps From/To/Tag cheap to extract on the hot move-ordering
// path while still letting callers recover moving/captured piece without a
// position lookup.
type Move uint32

// Tag identifies the kind of a move. Exactly one tag applies to any Move.
type Tag uint8

const (
	TagNormal Tag = iota
	TagSimpleCapture
	TagPromotionCapture
	TagEnPassantCapture
	TagDoublePush
	TagCastlesShort
	TagCastlesLong
	TagSimplePromotion
)

const (
	shiftFrom      = 0
	shiftTo        = 6
	shiftPiece     = 12
	shiftCaptured  = 16
	shiftPromotion = 20
	shiftTag       = 23

	maskSquare = 0x3F
	maskPiece  = 0xF
	maskPT     = 0x7
	maskTag    = 0x3F
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

// Tag group bitmasks, indexed by (1 << Tag).
const (
	tagBitCaptures  = (1 << TagSimpleCapture) | (1 << TagPromotionCapture) | (1 << TagEnPassantCapture)
	tagBitPromos    = (1 << TagPromotionCapture) | (1 << TagSimplePromotion)
	tagBitCastles   = (1 << TagCastlesShort) | (1 << TagCastlesLong)
	tagBitQuiet     = (1 << TagNormal) | tagBitCastles | (1 << TagDoublePush)
	tagBitNoisy     = tagBitCaptures | (1 << TagSimplePromotion)
)

func newMove(from, to Square, moving, captured Piece, promo PieceType, tag Tag) Move {
	return Move(from&maskSquare) |
		Move(to&maskSquare)<<shiftTo |
		Move(moving&maskPiece)<<shiftPiece |
		Move(captured&maskPiece)<<shiftCaptured |
		Move(promo&maskPT)<<shiftPromotion |
		Move(tag&maskTag)<<shiftTag
}

// NewMove creates a quiet, non-special move.
func NewMove(from, to Square, moving Piece) Move {
	return newMove(from, to, moving, NoPiece, NoPieceType, TagNormal)
}

// NewCapture creates a simple (non-EP, non-promotion) capture.
func NewCapture(from, to Square, moving, captured Piece) Move {
	return newMove(from, to, moving, captured, NoPieceType, TagSimpleCapture)
}

// NewDoublePush creates a pawn double-push move.
func NewDoublePush(from, to Square, moving Piece) Move {
	return newMove(from, to, moving, NoPiece, NoPieceType, TagDoublePush)
}

// NewPromotion creates a non-capturing promotion move.
func NewPromotion(from, to Square, moving Piece, promo PieceType) Move {
	return newMove(from, to, moving, NoPiece, promo, TagSimplePromotion)
}

// NewPromotionCapture creates a promotion that also captures.
func NewPromotionCapture(from, to Square, moving, captured Piece, promo PieceType) Move {
	return newMove(from, to, moving, captured, promo, TagPromotionCapture)
}

// NewEnPassant creates an en passant capture move. captured is always the
// opposing pawn, which sits beside (not on) the destination square.
func NewEnPassant(from, to Square, moving, captured Piece) Move {
	return newMove(from, to, moving, captured, NoPieceType, TagEnPassantCapture)
}

// NewCastling creates a castling move (encodes the king's own movement).
func NewCastling(from, to Square, moving Piece, kingSide bool) Move {
	tag := TagCastlesLong
	if kingSide {
		tag = TagCastlesShort
	}
	return newMove(from, to, moving, NoPiece, NoPieceType, tag)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m>>shiftFrom) & maskSquare
}

// To returns the destination square.
func (m Move) To() Square {
	return Square(m>>shiftTo) & maskSquare
}

// MovingPiece returns the piece that was moved.
func (m Move) MovingPiece() Piece {
	return Piece(m>>shiftPiece) & maskPiece
}

// CapturedPiece returns the captured piece, or NoPiece if this is not a capture.
func (m Move) CapturedPiece() Piece {
	return Piece(m>>shiftCaptured) & maskPiece
}

// Promotion returns the promotion piece type (only meaningful if IsPromotion()).
func (m Move) Promotion() PieceType {
	return PieceType(m>>shiftPromotion) & maskPT
}

// Tag returns the move's type tag.
func (m Move) Tag() Tag {
	return Tag(m>>shiftTag) & maskTag
}

// IsPromotion returns true if this move promotes a pawn.
func (m Move) IsPromotion() bool {
	return (1<<m.Tag())&tagBitPromos != 0
}

// IsCastling returns true if this move is a castle (either side).
func (m Move) IsCastling() bool {
	return (1<<m.Tag())&tagBitCastles != 0
}

// IsEnPassant returns true if this move is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Tag() == TagEnPassantCapture
}

// IsDoublePush returns true if this move is a pawn double push.
func (m Move) IsDoublePush() bool {
	return m.Tag() == TagDoublePush
}

// IsCapture returns true if this move captures a piece (including en passant).
func (m Move) IsCapture() bool {
	return (1<<m.Tag())&tagBitCaptures != 0
}

// IsQuiet returns true if this move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return (1<<m.Tag())&tagBitQuiet != 0
}

// IsNoisy returns true if this move is a capture or promotion; the complement of IsQuiet.
func (m Move) IsNoisy() bool {
	return (1<<m.Tag())&tagBitNoisy != 0
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		promoChars := []byte{'p', 'n', 'b', 'r', 'q', 'k'}
		s += string(promoChars[m.Promotion()])
	}

	return s
}

// ParseMove parses a UCI format move string against the given position,
// reconstructing the full tagged encoding.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	moving := pos.PieceAt(from)
	if moving == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}
	pt := moving.Type()
	captured := pos.PieceAt(to)

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		if captured != NoPiece {
			return NewPromotionCapture(from, to, moving, captured, promo), nil
		}
		return NewPromotion(from, to, moving, promo), nil
	}

	if pt == King && abs(int(to)-int(from)) == 2 {
		kingSide := to.File() > from.File()
		return NewCastling(from, to, moving, kingSide), nil
	}

	if pt == Pawn && to == pos.EnPassant && captured == NoPiece {
		epCaptured := NewPiece(Pawn, pos.SideToMove.Other())
		return NewEnPassant(from, to, moving, epCaptured), nil
	}

	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		return NewDoublePush(from, to, moving), nil
	}

	if captured != NoPiece {
		return NewCapture(from, to, moving, captured), nil
	}

	return NewMove(from, to, moving), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo stores information needed to undo a move.
type UndoInfo struct {
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	PawnKey        uint64
	Checkers       Bitboard
	KingSquare     [2]Square
	Pieces         [2][6]Bitboard
	Occupied       [2]Bitboard
	AllOccupied    Bitboard
	PrevIrreversible int
	Valid          bool
}
