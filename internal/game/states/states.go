package states

import (
	"fmt"
	"time"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
)

// InitializingState represents the game initialization phase
type InitializingState struct{}

func NewInitializingState() State {
	return &InitializingState{}
}

func (s *InitializingState) Phase() GamePhase {
	return PhaseInitializing
}

func (s *InitializingState) Enter(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Entering Initializing state")
	return nil
}

func (s *InitializingState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Exiting Initializing state")
	return nil
}

func (s *InitializingState) Validate(ctx *GameContext) error {
	return nil
}

// PlayingState represents active gameplay
type PlayingState struct{}

func NewPlayingState() State {
	return &PlayingState{}
}

func (s *PlayingState) Phase() GamePhase {
	return PhasePlaying
}

func (s *PlayingState) Enter(ctx *GameContext) error {
	ctx.StartTime = time.Now()
	ctx.Logger.Info().
		Time("start_time", ctx.StartTime).
		Int("players", ctx.PlayerCount).
		Int("board_size", ctx.BoardSize).
		Msg("Game started")
	return nil
}

func (s *PlayingState) Exit(ctx *GameContext) error {
	ctx.Logger.Info().
		Dur("elapsed", ctx.GetElapsedTime()).
		Msg("Exiting playing state")
	return nil
}

func (s *PlayingState) Validate(ctx *GameContext) error {
	if ctx.PlayerCount < 2 || ctx.PlayerCount > 4 {
		return fmt.Errorf("cannot play with %d players, need 2 to 4", ctx.PlayerCount)
	}
	if !core.IsSupportedBoardSize(ctx.BoardSize) {
		return fmt.Errorf("unsupported board size %d", ctx.BoardSize)
	}
	return nil
}

// FinishedState is the final state after a pawn reaches its goal
type FinishedState struct{}

func NewFinishedState() State {
	return &FinishedState{}
}

func (s *FinishedState) Phase() GamePhase {
	return PhaseFinished
}

func (s *FinishedState) Enter(ctx *GameContext) error {
	ctx.EndTime = time.Now()
	ctx.Logger.Info().
		Int("winner", ctx.Winner).
		Dur("duration", ctx.GetElapsedTime()).
		Msg("Game finished")
	return nil
}

func (s *FinishedState) Exit(ctx *GameContext) error {
	return nil
}

func (s *FinishedState) Validate(ctx *GameContext) error {
	if ctx.Winner < 0 {
		return fmt.Errorf("cannot finish without a winner")
	}
	return nil
}

// ErrorState represents an error condition
type ErrorState struct{}

func NewErrorState() State {
	return &ErrorState{}
}

func (s *ErrorState) Phase() GamePhase {
	return PhaseError
}

func (s *ErrorState) Enter(ctx *GameContext) error {
	ctx.Logger.Error().
		Err(ctx.Error).
		Msg("Game entered error state")
	return nil
}

func (s *ErrorState) Exit(ctx *GameContext) error {
	ctx.Logger.Info().Msg("Recovering from error state")
	return nil
}

func (s *ErrorState) Validate(ctx *GameContext) error {
	return nil
}

// ResetState clears per-game data so the context can be reused
type ResetState struct{}

func NewResetState() State {
	return &ResetState{}
}

func (s *ResetState) Phase() GamePhase {
	return PhaseReset
}

func (s *ResetState) Enter(ctx *GameContext) error {
	ctx.Logger.Info().Msg("Resetting game")
	ctx.StartTime = time.Time{}
	ctx.EndTime = time.Time{}
	ctx.Winner = -1
	ctx.Error = nil
	return nil
}

func (s *ResetState) Exit(ctx *GameContext) error {
	return nil
}

func (s *ResetState) Validate(ctx *GameContext) error {
	return nil
}
