package core

import (
	"fmt"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/common"
)

// Position is a cell on the board. Row 0 is the top edge, col 0 the left edge.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NewPosition creates a position from a row and column
func NewPosition(row, col int) Position {
	return Position{Row: row, Col: col}
}

// PositionFromIndex converts a row-major cell index back to a position
func PositionFromIndex(idx, size int) Position {
	return Position{Row: idx / size, Col: idx % size}
}

// InBounds reports whether the position lies on a size x size board
func (p Position) InBounds(size int) bool {
	return p.Row >= 0 && p.Row < size && p.Col >= 0 && p.Col < size
}

// Index converts the position to a row-major cell index
func (p Position) Index(size int) int {
	return p.Row*size + p.Col
}

// DistanceTo calculates the Manhattan distance to another position
func (p Position) DistanceTo(other Position) int {
	return common.Abs(p.Row-other.Row) + common.Abs(p.Col-other.Col)
}

// IsAdjacentTo checks if this position is orthogonally adjacent to another
func (p Position) IsAdjacentTo(other Position) bool {
	return p.DistanceTo(other) == 1
}

// Add returns the position offset by the given deltas
func (p Position) Add(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// Step returns the neighbouring position in the given direction
func (p Position) Step(d Direction) Position {
	dr, dc := d.Delta()
	return p.Add(dr, dc)
}

// Neighbors returns the four orthogonal neighbours in Directions order
func (p Position) Neighbors() [4]Position {
	var out [4]Position
	for i, d := range Directions {
		out[i] = p.Step(d)
	}
	return out
}

// Equal checks if two positions are equal
func (p Position) Equal(other Position) bool {
	return p == other
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Direction is one of the four orthogonal step directions
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in the fixed order used by path searches
var Directions = [4]Direction{Up, Down, Left, Right}

var directionDeltas = [4][2]int{
	Up:    {-1, 0},
	Down:  {1, 0},
	Left:  {0, -1},
	Right: {0, 1},
}

// Delta returns the row and column offset of one step in this direction
func (d Direction) Delta() (int, int) {
	if d < Up || d > Right {
		return 0, 0
	}
	v := directionDeltas[d]
	return v[0], v[1]
}

// Opposite returns the reverse direction
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// DirectionBetween returns the direction of a single orthogonal step from a to b
func DirectionBetween(a, b Position) (Direction, bool) {
	if !a.IsAdjacentTo(b) {
		return 0, false
	}
	switch {
	case b.Row < a.Row:
		return Up, true
	case b.Row > a.Row:
		return Down, true
	case b.Col < a.Col:
		return Left, true
	default:
		return Right, true
	}
}
