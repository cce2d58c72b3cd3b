package core

import (
	"fmt"
	"time"
)

// MoveKind tags which half of the Move union is populated
type MoveKind int

const (
	PawnMove MoveKind = iota
	WallMove
)

func (k MoveKind) String() string {
	if k == WallMove {
		return "wall"
	}
	return "pawn"
}

// Move is either a pawn step/jump (From, To) or a wall placement (Wall).
type Move struct {
	Kind      MoveKind  `json:"kind"`
	PlayerID  int       `json:"player_id"`
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Wall      Wall      `json:"wall"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPawnMove creates a timestamped pawn move
func NewPawnMove(playerID int, from, to Position) Move {
	return Move{Kind: PawnMove, PlayerID: playerID, From: from, To: to, Timestamp: time.Now()}
}

// NewWallMove creates a timestamped wall placement
func NewWallMove(playerID int, w Wall) Move {
	return Move{Kind: WallMove, PlayerID: playerID, Wall: w, Timestamp: time.Now()}
}

// IsPawn reports whether this is a pawn move
func (m Move) IsPawn() bool { return m.Kind == PawnMove }

// IsWall reports whether this is a wall placement
func (m Move) IsWall() bool { return m.Kind == WallMove }

// SameAction compares two moves ignoring their timestamps
func (m Move) SameAction(other Move) bool {
	if m.Kind != other.Kind || m.PlayerID != other.PlayerID {
		return false
	}
	if m.Kind == WallMove {
		return m.Wall == other.Wall
	}
	return m.From == other.From && m.To == other.To
}

func (m Move) String() string {
	if m.Kind == WallMove {
		return fmt.Sprintf("wall %s", m.Wall)
	}
	return fmt.Sprintf("pawn %s -> %s", m.From, m.To)
}
