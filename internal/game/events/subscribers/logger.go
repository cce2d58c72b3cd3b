package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/events"
	"github.com/rs/zerolog"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Int("moves", event.MoveCount()).
		Time("timestamp", event.Timestamp()).
		Logger()

	var logEvent *zerolog.Event
	switch ls.logLevel {
	case zerolog.DebugLevel:
		logEvent = eventLogger.Debug()
	case zerolog.InfoLevel:
		logEvent = eventLogger.Info()
	case zerolog.WarnLevel:
		logEvent = eventLogger.Warn()
	case zerolog.ErrorLevel:
		logEvent = eventLogger.Error()
	default:
		logEvent = eventLogger.Info()
	}

	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Int("num_players", e.NumPlayers).
			Int("board_size", e.BoardSize).
			Int("walls_per_player", e.WallsPerPlayer)

	case *events.GameEndedEvent:
		logEvent.
			Int("winner", e.Winner).
			Dur("duration", e.Duration)

	case *events.TurnStartedEvent:
		logEvent.Int("player_id", e.PlayerID)

	case *events.MoveSubmittedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Str("move", e.Move.String())

	case *events.MoveAppliedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Str("move", e.Move.String()).
			Str("notation", e.Notation)

	case *events.MoveRejectedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Str("move", e.Move.String()).
			Str("reason", e.Reason)

	case *events.MoveUndoneEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Str("move", e.Move.String())

	case *events.MoveRedoneEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Str("move", e.Move.String())

	case *events.BotSearchedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Str("search_id", e.SearchID).
			Str("difficulty", e.Difficulty.String()).
			Str("move", e.Move.String()).
			Int("depth", e.Depth).
			Float64("score", e.Score).
			Int64("nodes", e.Nodes).
			Dur("elapsed", e.Elapsed).
			Bool("interrupted", e.Interrupted)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from", e.FromPhase).
			Str("to", e.ToPhase).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Game event")
}
