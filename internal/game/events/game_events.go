package events

import (
	"time"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted     = "game.started"
	TypeGameEnded       = "game.ended"
	TypeTurnStarted     = "turn.started"
	TypeMoveSubmitted   = "move.submitted"
	TypeMoveApplied     = "move.applied"
	TypeMoveRejected    = "move.rejected"
	TypeMoveUndone      = "move.undone"
	TypeMoveRedone      = "move.redone"
	TypeBotSearched     = "bot.searched"
	TypeStateTransition = "state.transition"
)

// GameStartedEvent is published when a new game begins
type GameStartedEvent struct {
	BaseEvent
	NumPlayers     int
	BoardSize      int
	WallsPerPlayer int
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, numPlayers, boardSize, wallsPerPlayer int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent:      newBase(TypeGameStarted, gameID, 0),
		NumPlayers:     numPlayers,
		BoardSize:      boardSize,
		WallsPerPlayer: wallsPerPlayer,
	}
}

// GameEndedEvent is published when a pawn reaches its goal
type GameEndedEvent struct {
	BaseEvent
	Winner   int
	Duration time.Duration
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(gameID string, winner int, duration time.Duration, finalTurn int) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: newBase(TypeGameEnded, gameID, finalTurn),
		Winner:    winner,
		Duration:  duration,
	}
}

// TurnStartedEvent is published whenever a seat becomes the side to move
type TurnStartedEvent struct {
	BaseEvent
	PlayerID int
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(gameID string, turn, playerID int) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent: newBase(TypeTurnStarted, gameID, turn),
		PlayerID:  playerID,
	}
}

// MoveSubmittedEvent is published before a move is validated
type MoveSubmittedEvent struct {
	BaseEvent
	PlayerID int
	Move     core.Move
}

// NewMoveSubmittedEvent creates a new MoveSubmittedEvent
func NewMoveSubmittedEvent(gameID string, move core.Move, turn int) *MoveSubmittedEvent {
	return &MoveSubmittedEvent{
		BaseEvent: newBase(TypeMoveSubmitted, gameID, turn),
		PlayerID:  move.PlayerID,
		Move:      move,
	}
}

// MoveAppliedEvent is published after a move changed the game state
type MoveAppliedEvent struct {
	BaseEvent
	PlayerID int
	Move     core.Move
	Notation string
}

// NewMoveAppliedEvent creates a new MoveAppliedEvent
func NewMoveAppliedEvent(gameID string, move core.Move, turn int) *MoveAppliedEvent {
	return &MoveAppliedEvent{
		BaseEvent: newBase(TypeMoveApplied, gameID, turn),
		PlayerID:  move.PlayerID,
		Move:      move,
		Notation:  move.Notation(),
	}
}

// MoveRejectedEvent is published when validation refuses a move
type MoveRejectedEvent struct {
	BaseEvent
	PlayerID int
	Move     core.Move
	Reason   string
}

// NewMoveRejectedEvent creates a new MoveRejectedEvent
func NewMoveRejectedEvent(gameID string, move core.Move, reason string, turn int) *MoveRejectedEvent {
	return &MoveRejectedEvent{
		BaseEvent: newBase(TypeMoveRejected, gameID, turn),
		PlayerID:  move.PlayerID,
		Move:      move,
		Reason:    reason,
	}
}

// MoveUndoneEvent is published when a move is taken back
type MoveUndoneEvent struct {
	BaseEvent
	PlayerID int
	Move     core.Move
}

// NewMoveUndoneEvent creates a new MoveUndoneEvent
func NewMoveUndoneEvent(gameID string, move core.Move, moves int) *MoveUndoneEvent {
	return &MoveUndoneEvent{
		BaseEvent: newBase(TypeMoveUndone, gameID, moves),
		PlayerID:  move.PlayerID,
		Move:      move,
	}
}

// MoveRedoneEvent is published when an undone move is replayed
type MoveRedoneEvent struct {
	BaseEvent
	PlayerID int
	Move     core.Move
}

// NewMoveRedoneEvent creates a new MoveRedoneEvent
func NewMoveRedoneEvent(gameID string, move core.Move, moves int) *MoveRedoneEvent {
	return &MoveRedoneEvent{
		BaseEvent: newBase(TypeMoveRedone, gameID, moves),
		PlayerID:  move.PlayerID,
		Move:      move,
	}
}

// BotSearchedEvent summarises one bot search
type BotSearchedEvent struct {
	BaseEvent
	PlayerID    int
	SearchID    string
	Difficulty  core.Difficulty
	Move        core.Move
	Depth       int
	Score       float64
	Nodes       int64
	Elapsed     time.Duration
	Interrupted bool
}

// NewBotSearchedEvent creates a new BotSearchedEvent
func NewBotSearchedEvent(gameID string, moves, playerID int, searchID string, difficulty core.Difficulty, move core.Move, depth int, score float64, nodes int64, elapsed time.Duration, interrupted bool) *BotSearchedEvent {
	return &BotSearchedEvent{
		BaseEvent:   newBase(TypeBotSearched, gameID, moves),
		PlayerID:    playerID,
		SearchID:    searchID,
		Difficulty:  difficulty,
		Move:        move,
		Depth:       depth,
		Score:       score,
		Nodes:       nodes,
		Elapsed:     elapsed,
		Interrupted: interrupted,
	}
}

// StateTransitionEvent is published when the game state machine transitions between phases
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(gameID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, gameID, 0),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
