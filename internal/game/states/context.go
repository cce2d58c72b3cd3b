package states

import (
	"time"

	"github.com/rs/zerolog"
)

// GameContext provides game-specific information to states for making decisions
type GameContext struct {
	// GameID uniquely identifies this game instance
	GameID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// PlayerCount is the number of seats in the game
	PlayerCount int

	BoardSize int

	// StartTime is when PhasePlaying was entered
	StartTime time.Time

	// EndTime is when PhaseFinished was entered
	EndTime time.Time

	// Winner is the player ID of the winner, -1 while undecided
	Winner int

	// Error holds any error that caused transition to PhaseError
	Error error
}

// NewGameContext creates a new game context
func NewGameContext(gameID string, playerCount, boardSize int, logger zerolog.Logger) *GameContext {
	return &GameContext{
		GameID:      gameID,
		PlayerCount: playerCount,
		BoardSize:   boardSize,
		Logger:      logger.With().Str("game_id", gameID).Logger(),
		Winner:      -1,
	}
}

// GetElapsedTime returns the playing time so far, or the full game length once finished
func (gc *GameContext) GetElapsedTime() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	if !gc.EndTime.IsZero() {
		return gc.EndTime.Sub(gc.StartTime)
	}
	return time.Since(gc.StartTime)
}
