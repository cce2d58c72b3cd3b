package core

import "github.com/mitchelldurbincs/QuoridorEngine/internal/common"

// MaxBoardSize bounds the fixed-size arrays used by the edge mask and path searches.
const MaxBoardSize = 11

const maxCells = MaxBoardSize * MaxBoardSize

// SupportedBoardSizes lists the board sizes a game may be created with
var SupportedBoardSizes = []int{7, 9, 11}

// IsSupportedBoardSize reports whether size is one of SupportedBoardSizes
func IsSupportedBoardSize(size int) bool {
	for _, s := range SupportedBoardSizes {
		if s == size {
			return true
		}
	}
	return false
}

// InBounds reports whether pos lies on a size x size board
func InBounds(pos Position, size int) bool {
	return pos.InBounds(size)
}

// IsAdjacentStep reports whether from and to differ by exactly one orthogonal step
func IsAdjacentStep(from, to Position) bool {
	return from.IsAdjacentTo(to)
}

// WallInBounds checks the anchor against the board edges for the wall's orientation
func WallInBounds(w Wall, size int) bool {
	r, c := w.Pos.Row, w.Pos.Col
	switch w.Orientation {
	case Horizontal:
		return r >= 1 && r <= size-1 && c >= 0 && c <= size-2
	case Vertical:
		return r >= 0 && r <= size-2 && c >= 1 && c <= size-1
	default:
		return false
	}
}

// WallBlocksStep reports whether w blocks a single orthogonal step between two cells
func WallBlocksStep(w Wall, from, to Position) bool {
	if !IsAdjacentStep(from, to) {
		return false
	}
	switch w.Orientation {
	case Horizontal:
		if from.Col != to.Col {
			return false
		}
		lower := max(from.Row, to.Row)
		return w.Pos.Row == lower && (from.Col == w.Pos.Col || from.Col == w.Pos.Col+1)
	case Vertical:
		if from.Row != to.Row {
			return false
		}
		right := max(from.Col, to.Col)
		return w.Pos.Col == right && (from.Row == w.Pos.Row || from.Row == w.Pos.Row+1)
	default:
		return false
	}
}

// WallsConflict reports whether two walls overlap or cross
func WallsConflict(a, b Wall) bool {
	if a == b {
		return true
	}
	if a.Orientation == b.Orientation {
		if a.Orientation == Horizontal {
			return a.Pos.Row == b.Pos.Row && common.Abs(a.Pos.Col-b.Pos.Col) <= 1
		}
		return a.Pos.Col == b.Pos.Col && common.Abs(a.Pos.Row-b.Pos.Row) <= 1
	}

	h, v := a, b
	if a.Orientation == Vertical {
		h, v = b, a
	}
	// Both walls pivot on the same corner point.
	return v.Pos.Row == h.Pos.Row-1 && v.Pos.Col == h.Pos.Col+1
}

// ConflictsWithAny reports whether w conflicts with any wall in walls
func ConflictsWithAny(w Wall, walls []Wall) bool {
	for _, other := range walls {
		if WallsConflict(w, other) {
			return true
		}
	}
	return false
}

// EdgeMask is a blocked-edge bitmap for one board. south[i] blocks the step
// from cell i to the cell below it; east[i] blocks the step to the right.
type EdgeMask struct {
	size  int
	south [maxCells]bool
	east  [maxCells]bool
}

// NewEdgeMask builds the mask for a set of walls
func NewEdgeMask(size int, walls []Wall) EdgeMask {
	m := EdgeMask{size: size}
	for _, w := range walls {
		m.Add(w)
	}
	return m
}

// Size returns the board size the mask was built for
func (m *EdgeMask) Size() int {
	return m.size
}

// Add marks the two edges covered by w as blocked. Out-of-bounds walls are ignored.
func (m *EdgeMask) Add(w Wall) {
	if !WallInBounds(w, m.size) {
		return
	}
	r, c := w.Pos.Row, w.Pos.Col
	switch w.Orientation {
	case Horizontal:
		m.south[(r-1)*m.size+c] = true
		m.south[(r-1)*m.size+c+1] = true
	case Vertical:
		m.east[r*m.size+c-1] = true
		m.east[(r+1)*m.size+c-1] = true
	}
}

// Blocked reports whether the step between two adjacent cells is walled off.
// Non-adjacent or off-board pairs are reported as blocked.
func (m *EdgeMask) Blocked(from, to Position) bool {
	if !from.InBounds(m.size) || !to.InBounds(m.size) {
		return true
	}
	switch {
	case to.Row == from.Row+1 && to.Col == from.Col:
		return m.south[from.Index(m.size)]
	case to.Row == from.Row-1 && to.Col == from.Col:
		return m.south[to.Index(m.size)]
	case to.Col == from.Col+1 && to.Row == from.Row:
		return m.east[from.Index(m.size)]
	case to.Col == from.Col-1 && to.Row == from.Row:
		return m.east[to.Index(m.size)]
	default:
		return true
	}
}

// CanStep returns the neighbour in direction d when it is on the board and not walled off
func (m *EdgeMask) CanStep(from Position, d Direction) (Position, bool) {
	to := from.Step(d)
	if !to.InBounds(m.size) || m.Blocked(from, to) {
		return to, false
	}
	return to, true
}
