package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Algebraic notation: file letter 'a'+col, rank row+1. Walls append "h" or "v".

// Notation returns the algebraic name of the cell, e.g. "e9"
func (p Position) Notation() string {
	return fmt.Sprintf("%c%d", 'a'+p.Col, p.Row+1)
}

// ParsePosition parses a cell name such as "e9"
func ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) < 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}
	file := s[0]
	if file < 'a' || file >= 'a'+MaxBoardSize {
		return Position{}, fmt.Errorf("%w: bad file in %q", ErrInvalidNotation, s)
	}
	rank, err := strconv.Atoi(s[1:])
	if err != nil || rank < 1 || rank > MaxBoardSize {
		return Position{}, fmt.Errorf("%w: bad rank in %q", ErrInvalidNotation, s)
	}
	return Position{Row: rank - 1, Col: int(file - 'a')}, nil
}

// Notation returns the wall id, e.g. "e3h"
func (w Wall) Notation() string {
	suffix := "h"
	if w.Orientation == Vertical {
		suffix = "v"
	}
	return w.Pos.Notation() + suffix
}

// ParseWall parses a wall id such as "e3h" or "c5v"
func ParseWall(s string) (Wall, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) < 3 {
		return Wall{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}
	var o Orientation
	switch s[len(s)-1] {
	case 'h':
		o = Horizontal
	case 'v':
		o = Vertical
	default:
		return Wall{}, fmt.Errorf("%w: wall %q needs an h or v suffix", ErrInvalidNotation, s)
	}
	pos, err := ParsePosition(s[:len(s)-1])
	if err != nil {
		return Wall{}, err
	}
	return Wall{Pos: pos, Orientation: o}, nil
}

// Notation returns the destination cell for pawn moves and the wall id for walls
func (m Move) Notation() string {
	if m.Kind == WallMove {
		return m.Wall.Notation()
	}
	return m.To.Notation()
}

// ParseMove interprets a notation string as a move for the given player.
// Strings ending in h or v are walls; anything else is a pawn destination.
func ParseMove(gs *GameState, playerID int, s string) (Move, error) {
	p := gs.PlayerByID(playerID)
	if p == nil {
		return Move{}, fmt.Errorf("%w: %d", ErrInvalidPlayer, playerID)
	}
	s = strings.TrimSpace(strings.ToLower(s))
	if strings.HasSuffix(s, "h") || strings.HasSuffix(s, "v") {
		w, err := ParseWall(s)
		if err != nil {
			return Move{}, err
		}
		return NewWallMove(playerID, w), nil
	}
	to, err := ParsePosition(s)
	if err != nil {
		return Move{}, err
	}
	return NewPawnMove(playerID, p.Pos, to), nil
}
