package core

import (
	"fmt"
)

// GameStatus is the lifecycle status of a game
type GameStatus int

const (
	StatusPlaying GameStatus = iota
	StatusFinished
)

func (s GameStatus) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusFinished:
		return "finished"
	default:
		return fmt.Sprintf("GameStatus(%d)", int(s))
	}
}

// GameState is the full position of a game plus its move history.
// History[:HistoryIndex] is the applied prefix; entries past HistoryIndex are redoable.
type GameState struct {
	BoardSize          int        `json:"board_size"`
	Players            []Player   `json:"players"`
	CurrentPlayerIndex int        `json:"current_player_index"`
	Walls              []Wall     `json:"walls"`
	Status             GameStatus `json:"status"`
	Winner             *int       `json:"winner,omitempty"`
	History            []Move     `json:"history"`
	HistoryIndex       int        `json:"history_index"`
}

// CurrentPlayer returns the player whose turn it is
func (gs *GameState) CurrentPlayer() *Player {
	if gs.CurrentPlayerIndex < 0 || gs.CurrentPlayerIndex >= len(gs.Players) {
		return nil
	}
	return &gs.Players[gs.CurrentPlayerIndex]
}

// PlayerIndex returns the seat index of the player with the given ID, or -1
func (gs *GameState) PlayerIndex(id int) int {
	for i := range gs.Players {
		if gs.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// PlayerByID returns a pointer into Players, or nil if id is unknown
func (gs *GameState) PlayerByID(id int) *Player {
	if i := gs.PlayerIndex(id); i >= 0 {
		return &gs.Players[i]
	}
	return nil
}

// IsOccupied reports whether any pawn stands on pos
func (gs *GameState) IsOccupied(pos Position) bool {
	for i := range gs.Players {
		if gs.Players[i].Pos == pos {
			return true
		}
	}
	return false
}

// EdgeMask builds the blocked-edge mask for the placed walls
func (gs *GameState) EdgeMask() EdgeMask {
	return NewEdgeMask(gs.BoardSize, gs.Walls)
}

// IsFinished reports whether a winner has been decided
func (gs *GameState) IsFinished() bool {
	return gs.Status == StatusFinished
}

// WinnerID returns the winner and whether one is set
func (gs *GameState) WinnerID() (int, bool) {
	if gs.Winner == nil {
		return -1, false
	}
	return *gs.Winner, true
}

// AdvanceTurn passes the turn to the next seat
func (gs *GameState) AdvanceTurn() {
	if len(gs.Players) == 0 {
		return
	}
	gs.CurrentPlayerIndex = (gs.CurrentPlayerIndex + 1) % len(gs.Players)
}

// CanUndo reports whether an applied move can be reverted
func (gs *GameState) CanUndo() bool {
	return gs.HistoryIndex > 0 && gs.Status == StatusPlaying
}

// CanRedo reports whether an undone move can be re-applied
func (gs *GameState) CanRedo() bool {
	return gs.HistoryIndex < len(gs.History) && gs.Status == StatusPlaying
}

// Clone returns a deep copy, history included
func (gs *GameState) Clone() *GameState {
	c := gs.CloneForSearch()
	if gs.History != nil {
		c.History = make([]Move, len(gs.History))
		copy(c.History, gs.History)
	}
	c.HistoryIndex = gs.HistoryIndex
	return c
}

// CloneForSearch copies everything search needs and leaves history empty
func (gs *GameState) CloneForSearch() *GameState {
	c := &GameState{
		BoardSize:          gs.BoardSize,
		CurrentPlayerIndex: gs.CurrentPlayerIndex,
		Status:             gs.Status,
		Players:            make([]Player, len(gs.Players)),
		Walls:              make([]Wall, len(gs.Walls), len(gs.Walls)+1),
	}
	copy(c.Players, gs.Players)
	copy(c.Walls, gs.Walls)
	if gs.Winner != nil {
		w := *gs.Winner
		c.Winner = &w
	}
	return c
}

// Validate checks the structural invariants of a state received from outside
func (gs *GameState) Validate() error {
	if !IsSupportedBoardSize(gs.BoardSize) {
		return fmt.Errorf("%w: board size %d not supported", ErrMalformedState, gs.BoardSize)
	}
	if n := len(gs.Players); n < 2 || n > 4 {
		return fmt.Errorf("%w: %d players, need 2 to 4", ErrMalformedState, n)
	}
	if gs.CurrentPlayerIndex < 0 || gs.CurrentPlayerIndex >= len(gs.Players) {
		return fmt.Errorf("%w: current player index %d out of range", ErrMalformedState, gs.CurrentPlayerIndex)
	}

	ids := make(map[int]bool, len(gs.Players))
	cells := make(map[Position]int, len(gs.Players))
	for _, p := range gs.Players {
		if ids[p.ID] {
			return fmt.Errorf("%w: duplicate player id %d", ErrMalformedState, p.ID)
		}
		ids[p.ID] = true
		if !p.Pos.InBounds(gs.BoardSize) {
			return fmt.Errorf("%w: player %d at %s is off the board", ErrMalformedState, p.ID, p.Pos)
		}
		if other, taken := cells[p.Pos]; taken {
			return fmt.Errorf("%w: players %d and %d share %s", ErrMalformedState, other, p.ID, p.Pos)
		}
		cells[p.Pos] = p.ID
		if p.WallsRemaining < 0 {
			return fmt.Errorf("%w: player %d has negative walls", ErrMalformedState, p.ID)
		}
		if p.GoalRow >= gs.BoardSize || p.GoalCol >= gs.BoardSize || p.GoalRow < SideGoal || p.GoalCol < AnyEdge {
			return fmt.Errorf("%w: player %d goal out of range", ErrMalformedState, p.ID)
		}
	}

	for i, w := range gs.Walls {
		if !WallInBounds(w, gs.BoardSize) {
			return fmt.Errorf("%w: wall %s out of bounds", ErrMalformedState, w)
		}
		for _, other := range gs.Walls[i+1:] {
			if WallsConflict(w, other) {
				return fmt.Errorf("%w: walls %s and %s conflict", ErrMalformedState, w, other)
			}
		}
	}

	switch gs.Status {
	case StatusPlaying:
	case StatusFinished:
		if gs.Winner == nil {
			return fmt.Errorf("%w: finished game without a winner", ErrMalformedState)
		}
	default:
		return fmt.Errorf("%w: unknown status %d", ErrMalformedState, int(gs.Status))
	}
	if gs.Winner != nil && !ids[*gs.Winner] {
		return fmt.Errorf("%w: winner %d is not a player", ErrMalformedState, *gs.Winner)
	}
	if gs.HistoryIndex < 0 || gs.HistoryIndex > len(gs.History) {
		return fmt.Errorf("%w: history index %d out of range", ErrMalformedState, gs.HistoryIndex)
	}
	return nil
}
