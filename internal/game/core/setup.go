package core

import "fmt"

// DefaultBoardSize is the classic 9x9 board
const DefaultBoardSize = 9

// PlayerColors are assigned by seat
var PlayerColors = [4]string{"Red", "Blue", "Green", "Yellow"}

// SeatConfig describes who sits in one seat
type SeatConfig struct {
	Name       string
	Controller Controller
	Difficulty Difficulty
}

// Settings configures a new game
type Settings struct {
	BoardSize int
	Seats     []SeatConfig
	// WallsPerPlayer overrides DefaultWallsPerPlayer when positive
	WallsPerPlayer int
}

// DefaultWallsPerPlayer returns the wall allowance for a player count
func DefaultWallsPerPlayer(players int) int {
	switch players {
	case 2:
		return 10
	case 3:
		return 7
	default:
		return 5
	}
}

// NewGameState seats the players and returns a fresh game in the Playing status
func NewGameState(s Settings) (*GameState, error) {
	if s.BoardSize == 0 {
		s.BoardSize = DefaultBoardSize
	}
	if !IsSupportedBoardSize(s.BoardSize) {
		return nil, fmt.Errorf("%w: board size %d not in %v", ErrInvalidSettings, s.BoardSize, SupportedBoardSizes)
	}
	n := len(s.Seats)
	if n < 2 || n > 4 {
		return nil, fmt.Errorf("%w: %d players, need 2 to 4", ErrInvalidSettings, n)
	}
	walls := s.WallsPerPlayer
	if walls <= 0 {
		walls = DefaultWallsPerPlayer(n)
	}

	layout := seatLayout(s.BoardSize, n)
	gs := &GameState{
		BoardSize: s.BoardSize,
		Players:   make([]Player, n),
		Walls:     make([]Wall, 0, n*walls),
		Status:    StatusPlaying,
	}
	for i, seat := range s.Seats {
		name := seat.Name
		if name == "" {
			if seat.Controller == Bot {
				name = fmt.Sprintf("Bot (%s)", seat.Difficulty)
			} else {
				name = fmt.Sprintf("Player %d", i+1)
			}
		}
		gs.Players[i] = Player{
			ID:             i,
			Name:           name,
			Color:          PlayerColors[i],
			Pos:            layout[i].start,
			WallsRemaining: walls,
			GoalRow:        layout[i].goalRow,
			GoalCol:        layout[i].goalCol,
			Controller:     seat.Controller,
			Difficulty:     seat.Difficulty,
		}
	}
	return gs, nil
}

type seat struct {
	start   Position
	goalRow int
	goalCol int
}

// seatLayout places pawns on the board edges. Side seats race to the opposite edge.
func seatLayout(size, players int) []seat {
	mid := size / 2
	last := size - 1
	bottom := seat{start: Position{Row: last, Col: mid}, goalRow: 0, goalCol: AnyEdge}
	top := seat{start: Position{Row: 0, Col: mid}, goalRow: last, goalCol: AnyEdge}

	switch players {
	case 2:
		return []seat{bottom, top}
	case 3:
		return []seat{
			bottom,
			{start: Position{Row: 0, Col: 0}, goalRow: last, goalCol: AnyEdge},
			{start: Position{Row: 0, Col: last}, goalRow: last, goalCol: AnyEdge},
		}
	default:
		return []seat{
			bottom,
			top,
			{start: Position{Row: mid, Col: 0}, goalRow: SideGoal, goalCol: last},
			{start: Position{Row: mid, Col: last}, goalRow: SideGoal, goalCol: 0},
		}
	}
}

// TwoPlayerGame is a convenience for the common human-vs-bot setup
func TwoPlayerGame(size int, bot bool, difficulty Difficulty) (*GameState, error) {
	second := SeatConfig{Controller: Human}
	if bot {
		second = SeatConfig{Controller: Bot, Difficulty: difficulty}
	}
	return NewGameState(Settings{
		BoardSize: size,
		Seats:     []SeatConfig{{Controller: Human}, second},
	})
}
