package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/bot"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/events"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/rules"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/states"
	"github.com/rs/zerolog"
)

// ErrStateChanged is returned when a bot's search finished against a state
// that another call has since modified.
var ErrStateChanged = errors.New("game state changed during bot search")

// ErrNotBotTurn is returned by PlayBotTurn when a human seat is to move
var ErrNotBotTurn = errors.New("current player is not a bot")

// ErrGameHalted is returned for moves on a game stuck in PhaseError
var ErrGameHalted = errors.New("game halted")

// ErrGameInProgress is returned by Reset while the game is still being played
var ErrGameInProgress = errors.New("game still in progress")

// GameConfig holds configuration for creating a new game engine
type GameConfig struct {
	GameID   string
	Settings core.Settings
	Logger   zerolog.Logger
	// Bot is shared between games when set; otherwise one is built from bot.DefaultSettings
	Bot *bot.Engine
	// EventBus is created when nil
	EventBus *events.EventBus
	// SearchTimeout bounds each bot move; zero means no limit
	SearchTimeout time.Duration
}

// Engine owns one game: it routes moves through the validator, plays bot
// seats, publishes events and keeps the undo/redo history. Events are
// published while the game lock is held, so subscribers must not call back
// into the Engine.
type Engine struct {
	mu            sync.RWMutex
	gs            *core.GameState
	settings      core.Settings
	version       uint64
	gameID        string
	logger        zerolog.Logger
	bot           *bot.Engine
	eventBus      *events.EventBus
	stateMachine  *states.StateMachine
	winCondition  *rules.WinConditionChecker
	turnProcessor *TurnProcessor
	searchTimeout time.Duration
}

// NewEngine creates a game engine with the given configuration
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// GameID returns the game's unique id
func (e *Engine) GameID() string { return e.gameID }

// EventBus returns the bus this game publishes on
func (e *Engine) EventBus() *events.EventBus { return e.eventBus }

// Bot returns the search engine used for bot seats
func (e *Engine) Bot() *bot.Engine { return e.bot }

// State returns a deep copy of the current game state
func (e *Engine) State() *core.GameState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.gs.Clone()
}

// Phase returns the lifecycle phase of the game
func (e *Engine) Phase() states.GamePhase {
	return e.stateMachine.CurrentPhase()
}

// CurrentPlayer returns a copy of the player to move
func (e *Engine) CurrentPlayer() core.Player {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return *e.gs.CurrentPlayer()
}

// IsGameOver reports whether a pawn has reached its goal
func (e *Engine) IsGameOver() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.gs.IsFinished()
}

// GetWinner returns the winning player ID, or -1 if game isn't over
func (e *Engine) GetWinner() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if id, ok := e.gs.WinnerID(); ok {
		return id
	}
	return -1
}

// LegalMoves lists the player's legal moves; empty unless it is their turn
func (e *Engine) LegalMoves(playerID int) []core.Move {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return rules.LegalMoves(e.gs, playerID)
}

// AvailableMoves lists the player's legal moves in algebraic notation
func (e *Engine) AvailableMoves(playerID int) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return rules.LegalMoveNotations(e.gs, playerID)
}

// SubmitMove validates and applies a move for the player to move
func (e *Engine) SubmitMove(move core.Move) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.turnProcessor.Process(move)
}

// SubmitNotation parses an algebraic move such as "e8" or "e4h" and submits it
func (e *Engine) SubmitNotation(playerID int, notation string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	move, err := core.ParseMove(e.gs, playerID, notation)
	if err != nil {
		return err
	}
	return e.turnProcessor.Process(move)
}

// PlayBotTurn searches and applies one move for the bot seat to move. The
// search runs without holding the game lock; if the game changed meanwhile
// ErrStateChanged is returned and nothing is applied.
func (e *Engine) PlayBotTurn(ctx context.Context) (core.Move, error) {
	e.mu.RLock()
	if err := e.turnProcessor.validateGameState(); err != nil {
		e.mu.RUnlock()
		return core.Move{}, err
	}
	player := *e.gs.CurrentPlayer()
	if !player.IsBot() {
		e.mu.RUnlock()
		return core.Move{}, fmt.Errorf("%w: %s", ErrNotBotTurn, player.Name)
	}
	snapshot := e.gs.Clone()
	version := e.version
	e.mu.RUnlock()

	if e.searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.searchTimeout)
		defer cancel()
	}

	res, err := e.bot.Search(ctx, snapshot, player.ID, player.Difficulty)
	if errors.Is(err, core.ErrNoLegalMoves) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.version == version {
			e.halt(err, fmt.Sprintf("%s has no legal moves", player.Name))
		}
		return core.Move{}, err
	}
	if err != nil {
		e.logger.Warn().Err(err).Int("player_id", player.ID).Msg("Bot search failed")
		return core.Move{}, err
	}
	e.eventBus.Publish(events.NewBotSearchedEvent(e.gameID, snapshot.HistoryIndex, player.ID, res.SearchID, player.Difficulty,
		res.Move, res.Depth, res.Score, res.Stats.Nodes, res.Elapsed, res.Interrupted))

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.version != version {
		return core.Move{}, ErrStateChanged
	}
	if err := e.turnProcessor.Process(res.Move); err != nil {
		return core.Move{}, err
	}
	return res.Move, nil
}

// PlayBotTurns plays bot moves until a human is to move or the game ends.
// It returns the moves played.
func (e *Engine) PlayBotTurns(ctx context.Context) ([]core.Move, error) {
	var played []core.Move
	for {
		if err := ctx.Err(); err != nil {
			return played, err
		}
		e.mu.RLock()
		done := e.gs.IsFinished() || !e.gs.CurrentPlayer().IsBot()
		e.mu.RUnlock()
		if done {
			return played, nil
		}
		move, err := e.PlayBotTurn(ctx)
		if err != nil {
			return played, err
		}
		played = append(played, move)
	}
}

// Reset reseats a finished or halted game with the settings it was created
// with. The bot engine and event bus are kept.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if phase := e.stateMachine.CurrentPhase(); !phase.IsTerminal() {
		return fmt.Errorf("%w: cannot reset in %s phase", ErrGameInProgress, phase)
	}
	gs, err := core.NewGameState(e.settings)
	if err != nil {
		return fmt.Errorf("game setup failed: %w", err)
	}
	if err := e.stateMachine.Reset(); err != nil {
		return err
	}
	if err := e.stateMachine.TransitionTo(states.PhasePlaying, "Seats ready"); err != nil {
		return err
	}

	e.commit(gs)
	e.eventBus.Publish(events.NewGameStartedEvent(e.gameID, len(gs.Players), gs.BoardSize, gs.Players[0].WallsRemaining))
	e.publishTurnStarted()
	e.logger.Info().Msg("Game reset")
	return nil
}

// Undo takes back the most recent move
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	move, next, err := e.step(rules.Undo, -1)
	if err != nil {
		return err
	}
	e.commit(next)
	e.eventBus.Publish(events.NewMoveUndoneEvent(e.gameID, move, e.gs.HistoryIndex))
	e.publishTurnStarted()
	return nil
}

// Redo replays the most recently undone move
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	move, next, err := e.step(rules.Redo, 0)
	if err != nil {
		return err
	}
	e.commit(next)
	e.eventBus.Publish(events.NewMoveRedoneEvent(e.gameID, move, e.gs.HistoryIndex))
	e.turnProcessor.settle()
	return nil
}

// step runs an undo or redo transition; offset picks the history entry it affects
func (e *Engine) step(fn func(*core.GameState) (*core.GameState, error), offset int) (core.Move, *core.GameState, error) {
	if err := e.turnProcessor.validateGameState(); err != nil {
		return core.Move{}, nil, err
	}
	next, err := fn(e.gs)
	if err != nil {
		return core.Move{}, nil, err
	}
	return e.gs.History[e.gs.HistoryIndex+offset], next, nil
}

// halt parks the game in PhaseError until Reset. Callers hold the write lock.
func (e *Engine) halt(cause error, reason string) {
	gctx := e.stateMachine.GetContext()
	gctx.Error = cause
	if err := e.stateMachine.TransitionTo(states.PhaseError, reason); err != nil {
		e.logger.Error().Err(err).Str("reason", reason).Msg("Failed to transition to Error state")
	}
}

func (e *Engine) commit(next *core.GameState) {
	e.gs = next
	e.version++
}

func (e *Engine) publishTurnStarted() {
	if e.gs.IsFinished() {
		return
	}
	e.eventBus.Publish(events.NewTurnStartedEvent(e.gameID, e.gs.HistoryIndex, e.gs.CurrentPlayer().ID))
}
