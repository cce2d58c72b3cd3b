package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/bot"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/events"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/rules"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/states"
	"github.com/rs/zerolog"
)

// EngineInitializer handles the initialization of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	return &EngineInitializer{
		config: cfg,
		logger: cfg.Logger.With().Str("component", "GameEngine").Logger(),
	}
}

// Initialize creates and initializes a new game engine
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out during initial phase")
		return nil, ctx.Err()
	default:
	}

	if err := ei.setupDefaults(); err != nil {
		return nil, err
	}

	gs, err := core.NewGameState(ei.config.Settings)
	if err != nil {
		return nil, fmt.Errorf("game setup failed: %w", err)
	}

	engine := ei.createEngine(gs)

	if err := ei.initializeStateMachine(engine); err != nil {
		return nil, fmt.Errorf("state machine initialization failed: %w", err)
	}

	engine.eventBus.Publish(events.NewGameStartedEvent(
		engine.gameID,
		len(gs.Players),
		gs.BoardSize,
		gs.Players[0].WallsRemaining,
	))
	engine.publishTurnStarted()

	engine.logger.Info().
		Int("board_size", gs.BoardSize).
		Int("players", len(gs.Players)).
		Int("walls_per_player", gs.Players[0].WallsRemaining).
		Msg("Engine created successfully")

	return engine, nil
}

// setupDefaults fills in the game id, bot engine and event bus when missing
func (ei *EngineInitializer) setupDefaults() error {
	if ei.config.GameID == "" {
		ei.config.GameID = uuid.NewString()
	}
	if ei.config.Bot == nil {
		b, err := bot.NewEngine(bot.DefaultSettings(), bot.WithLogger(ei.config.Logger))
		if err != nil {
			return fmt.Errorf("bot setup failed: %w", err)
		}
		ei.config.Bot = b
	}
	if ei.config.EventBus == nil {
		ei.config.EventBus = events.NewEventBusWithLogger(ei.config.Logger)
	}
	return nil
}

// createEngine creates the engine with all its components
func (ei *EngineInitializer) createEngine(gs *core.GameState) *Engine {
	logger := ei.logger.With().Str("game_id", ei.config.GameID).Logger()
	gameContext := states.NewGameContext(ei.config.GameID, len(gs.Players), gs.BoardSize, logger)

	engine := &Engine{
		gs:            gs,
		settings:      ei.config.Settings,
		gameID:        ei.config.GameID,
		logger:        logger,
		bot:           ei.config.Bot,
		eventBus:      ei.config.EventBus,
		stateMachine:  states.NewStateMachine(gameContext, ei.config.EventBus),
		winCondition:  rules.NewWinConditionChecker(logger),
		searchTimeout: ei.config.SearchTimeout,
	}
	engine.turnProcessor = NewTurnProcessor(engine)
	return engine
}

// initializeStateMachine moves the new game into PhasePlaying
func (ei *EngineInitializer) initializeStateMachine(engine *Engine) error {
	if err := engine.stateMachine.TransitionTo(states.PhasePlaying, "Seats ready"); err != nil {
		ei.logger.Error().Err(err).Msg("Failed to transition to Playing state")
		return err
	}
	return nil
}
