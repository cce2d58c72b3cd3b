package rules

import (
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/rs/zerolog"
)

// IsGameWon reports whether the player's pawn stands on one of their goal cells
func IsGameWon(gs *core.GameState, playerID int) bool {
	p := gs.PlayerByID(playerID)
	return p != nil && p.AtGoal(gs.BoardSize)
}

// WinConditionChecker handles game over detection and winner determination
type WinConditionChecker struct {
	logger zerolog.Logger
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger) *WinConditionChecker {
	return &WinConditionChecker{
		logger: logger.With().Str("component", "WinConditionChecker").Logger(),
	}
}

// CheckGameOver returns (isGameOver, winnerID). A recorded winner takes
// precedence; otherwise the first seat standing on its goal wins.
func (wc *WinConditionChecker) CheckGameOver(gs *core.GameState) (bool, int) {
	if id, ok := gs.WinnerID(); ok {
		return true, id
	}
	for i := range gs.Players {
		p := &gs.Players[i]
		if p.AtGoal(gs.BoardSize) {
			wc.logger.Info().
				Int("winner_player_id", p.ID).
				Str("position", p.Pos.String()).
				Msg("Winner determined")
			return true, p.ID
		}
	}
	wc.logger.Debug().Int("players", len(gs.Players)).Msg("No player at goal")
	return false, -1
}
