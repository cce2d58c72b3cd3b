package subscribers_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/events"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/events/subscribers"
)

func TestLoggerSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Timestamp().Logger()

	logSub := subscribers.NewLoggerSubscriber("test-logger", logger, zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())

	// Interested in all events by default
	assert.True(t, logSub.InterestedIn(events.TypeGameStarted))
	assert.True(t, logSub.InterestedIn(events.TypeTurnStarted))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func base(eventType string) events.BaseEvent {
	return events.BaseEvent{EventType: eventType, Time: time.Now(), Game: "test-game-1"}
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("event-logger", logger, zerolog.InfoLevel)

	wall := core.NewWallMove(1, core.VerticalWall(3, 5))

	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name: "GameStartedEvent",
			event: &events.GameStartedEvent{
				BaseEvent:      base(events.TypeGameStarted),
				NumPlayers:     4,
				BoardSize:      9,
				WallsPerPlayer: 5,
			},
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(4), logLine["num_players"])
				assert.Equal(t, float64(9), logLine["board_size"])
				assert.Equal(t, float64(5), logLine["walls_per_player"])
			},
		},
		{
			name: "TurnStartedEvent",
			event: &events.TurnStartedEvent{
				BaseEvent: events.BaseEvent{EventType: events.TypeTurnStarted, Time: time.Now(), Game: "test-game-1", Moves: 5},
				PlayerID:  1,
			},
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(5), logLine["moves"])
				assert.Equal(t, float64(1), logLine["player_id"])
			},
		},
		{
			name: "MoveRejectedEvent",
			event: &events.MoveRejectedEvent{
				BaseEvent: base(events.TypeMoveRejected),
				PlayerID:  1,
				Move:      wall,
				Reason:    "wall overlaps an existing wall",
			},
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(1), logLine["player_id"])
				assert.Equal(t, "wall V(3,5)", logLine["move"])
				assert.Equal(t, "wall overlaps an existing wall", logLine["reason"])
			},
		},
		{
			name: "BotSearchedEvent",
			event: &events.BotSearchedEvent{
				BaseEvent:  base(events.TypeBotSearched),
				PlayerID:   1,
				SearchID:   "abc",
				Difficulty: core.Hard,
				Move:       wall,
				Depth:      5,
				Score:      12.5,
				Nodes:      4096,
			},
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "abc", logLine["search_id"])
				assert.Equal(t, "hard", logLine["difficulty"])
				assert.Equal(t, float64(5), logLine["depth"])
				assert.Equal(t, 12.5, logLine["score"])
				assert.Equal(t, float64(4096), logLine["nodes"])
				assert.Equal(t, false, logLine["interrupted"])
			},
		},
		{
			name: "GameEndedEvent",
			event: &events.GameEndedEvent{
				BaseEvent: base(events.TypeGameEnded),
				Winner:    0,
				Duration:  time.Minute * 5,
			},
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(0), logLine["winner"])
				assert.Equal(t, float64(300000), logLine["duration"]) // 5 minutes in ms
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			logSub.HandleEvent(tc.event)

			logOutput := buf.String()
			require.NotEmpty(t, logOutput, "Log output should not be empty")

			var logLine map[string]interface{}
			err := json.Unmarshal([]byte(logOutput), &logLine)
			require.NoError(t, err, "Should be able to parse log output as JSON")

			assert.Equal(t, "info", logLine["level"])
			assert.Equal(t, "Game event", logLine["message"])
			assert.Equal(t, tc.event.Type(), logLine["event_type"])
			assert.Equal(t, "test-game-1", logLine["game_id"])

			tc.check(t, logLine)
		})
	}
}

func TestLoggerSubscriberWithFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("filtered-logger", logger, zerolog.InfoLevel)
	logSub.SetEventFilter([]string{events.TypeGameStarted, events.TypeGameEnded})

	assert.True(t, logSub.InterestedIn(events.TypeGameStarted))
	assert.True(t, logSub.InterestedIn(events.TypeGameEnded))
	assert.False(t, logSub.InterestedIn(events.TypeTurnStarted))
	assert.False(t, logSub.InterestedIn(events.TypeMoveApplied))

	bus := events.NewEventBusWithLogger(zerolog.Nop())
	bus.Subscribe(logSub)
	bus.Publish(events.NewTurnStartedEvent("game1", 1, 0))
	assert.Empty(t, buf.String())
	bus.Publish(events.NewGameStartedEvent("game1", 2, 9, 10))
	assert.NotEmpty(t, buf.String())

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeMoveApplied))
}

func TestLoggerSubscriberLogLevels(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel zerolog.Level
		expected string
	}{
		{"Debug", zerolog.DebugLevel, "debug"},
		{"Info", zerolog.InfoLevel, "info"},
		{"Warn", zerolog.WarnLevel, "warn"},
		{"Error", zerolog.ErrorLevel, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Level(tc.logLevel)

			logSub := subscribers.NewLoggerSubscriber("level-logger", logger, tc.logLevel)
			logSub.HandleEvent(events.NewGameStartedEvent("game1", 2, 9, 10))

			var logLine map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))
			assert.Equal(t, tc.expected, logLine["level"])
		})
	}
}

func TestLoggerSubscriberDevelopmentMode(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("dev-logger", logger, zerolog.InfoLevel)
	logSub.SetDevMode(true)

	move := core.NewPawnMove(0, core.NewPosition(8, 4), core.NewPosition(7, 4))
	logSub.HandleEvent(events.NewMoveAppliedEvent("dev-game", move, 1))

	var logLine map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))

	eventData, ok := logLine["event_data"]
	require.True(t, ok, "event_data should be present")

	eventDataBytes, err := json.Marshal(eventData)
	require.NoError(t, err)
	eventDataStr := string(eventDataBytes)

	assert.Contains(t, eventDataStr, "move.applied")
	assert.Contains(t, eventDataStr, "PlayerID")
	assert.Contains(t, eventDataStr, `"Notation":"e8"`)
}
