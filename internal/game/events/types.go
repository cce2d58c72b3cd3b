package events

import "time"

// Event is anything published on a game's bus
type Event interface {
	Type() string
	Timestamp() time.Time
	GameID() string
	// MoveCount is the game's history index when the event fired
	MoveCount() int
}

// BaseEvent holds the fields every game event carries. Moves is only set by
// events tied to a turn or a move.
type BaseEvent struct {
	EventType string    `json:"type"`
	Time      time.Time `json:"timestamp"`
	Game      string    `json:"game_id"`
	Moves     int       `json:"moves"`
}

func (e BaseEvent) Type() string         { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }
func (e BaseEvent) GameID() string       { return e.Game }
func (e BaseEvent) MoveCount() int       { return e.Moves }

func newBase(eventType, gameID string, moves int) BaseEvent {
	return BaseEvent{EventType: eventType, Time: time.Now(), Game: gameID, Moves: moves}
}

// EventHandler is a function that processes events
type EventHandler func(Event)

// Subscriber receives the event types it declares interest in
type Subscriber interface {
	ID() string
	HandleEvent(Event)
	InterestedIn(eventType string) bool
}

// Publisher is what the state machine needs from a bus
type Publisher interface {
	Publish(Event)
}
