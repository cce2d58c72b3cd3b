package game

import (
	"fmt"
	"time"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/events"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/rules"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/states"
	"github.com/rs/zerolog"
)

// TurnProcessor applies a single move to the engine's game. Callers hold the
// engine's write lock.
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger,
	}
}

// Process validates move, applies it and settles the outcome
func (tp *TurnProcessor) Process(move core.Move) error {
	if err := tp.validateGameState(); err != nil {
		return err
	}
	if move.Timestamp.IsZero() {
		move.Timestamp = time.Now()
	}

	e := tp.engine
	turn := e.gs.HistoryIndex
	e.eventBus.Publish(events.NewMoveSubmittedEvent(e.gameID, move, turn))

	next, err := rules.ApplyMove(e.gs, move)
	if err != nil {
		reason := core.Reason(err)
		tp.logger.Debug().
			Int("player_id", move.PlayerID).
			Str("move", move.String()).
			Str("reason", reason).
			Msg("Move rejected")
		e.eventBus.Publish(events.NewMoveRejectedEvent(e.gameID, move, reason, turn))
		return err
	}

	e.commit(next)
	e.eventBus.Publish(events.NewMoveAppliedEvent(e.gameID, move, e.gs.HistoryIndex))
	tp.settle()
	return nil
}

// validateGameState ensures the game can receive moves
func (tp *TurnProcessor) validateGameState() error {
	e := tp.engine
	if e.gs.IsFinished() {
		return core.ErrGameOver
	}
	currentPhase := e.stateMachine.CurrentPhase()
	if currentPhase == states.PhaseError {
		return fmt.Errorf("%w: %v", ErrGameHalted, e.stateMachine.GetContext().Error)
	}
	if !currentPhase.CanReceiveMoves() {
		tp.logger.Warn().
			Str("current_phase", currentPhase.String()).
			Msg("Attempted to move in phase that cannot receive moves")
		return fmt.Errorf("game is in %s phase and cannot receive moves", currentPhase)
	}
	return nil
}

// settle finishes the game when a pawn is on its goal, otherwise announces the next turn
func (tp *TurnProcessor) settle() {
	e := tp.engine
	over, winner := e.winCondition.CheckGameOver(e.gs)
	if !over {
		e.publishTurnStarted()
		return
	}

	gctx := e.stateMachine.GetContext()
	gctx.Winner = winner
	if err := e.stateMachine.TransitionTo(states.PhaseFinished, "pawn reached goal"); err != nil {
		tp.logger.Error().Err(err).Msg("Failed to transition to Finished state")
		e.halt(err, "finish transition failed")
		return
	}
	e.eventBus.Publish(events.NewGameEndedEvent(e.gameID, winner, gctx.GetElapsedTime(), e.gs.HistoryIndex))
	tp.logger.Info().
		Int("winner", winner).
		Int("moves", e.gs.HistoryIndex).
		Msg("Game over")
}
