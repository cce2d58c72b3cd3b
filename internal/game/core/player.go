package core

import (
	"fmt"
	"strings"
)

// SideGoal as a GoalRow marks a player whose goal is a side column.
const SideGoal = -1

// AnyEdge as a GoalCol lets a side-seated player finish on either side edge.
const AnyEdge = -1

// Controller says who chooses a player's moves
type Controller int

const (
	Human Controller = iota
	Bot
)

func (c Controller) String() string {
	if c == Bot {
		return "bot"
	}
	return "human"
}

// Difficulty selects the search depth and behaviour of a bot seat
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// ParseDifficulty converts a case-insensitive name to a Difficulty
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium", "":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return Medium, fmt.Errorf("unknown difficulty %q", s)
	}
}

// Player is one seat at the board
type Player struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Color          string     `json:"color"`
	Pos            Position   `json:"pos"`
	WallsRemaining int        `json:"walls_remaining"`
	GoalRow        int        `json:"goal_row"`
	GoalCol        int        `json:"goal_col"`
	Controller     Controller `json:"controller"`
	Difficulty     Difficulty `json:"difficulty"`
}

// HasSideGoal reports whether the player races to a side column rather than a row
func (p *Player) HasSideGoal() bool {
	return p.GoalRow < 0
}

// IsGoal reports whether pos is a goal cell for this player
func (p *Player) IsGoal(pos Position, size int) bool {
	if p.GoalRow >= 0 {
		return pos.Row == p.GoalRow
	}
	if p.GoalCol >= 0 {
		return pos.Col == p.GoalCol
	}
	return pos.Col == 0 || pos.Col == size-1
}

// AtGoal reports whether the player's pawn stands on a goal cell
func (p *Player) AtGoal(size int) bool {
	return p.IsGoal(p.Pos, size)
}

// IsBot reports whether the seat is played by the search engine
func (p *Player) IsBot() bool {
	return p.Controller == Bot
}
