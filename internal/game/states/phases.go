package states

import "fmt"

// GamePhase represents the current phase of a game
type GamePhase int

const (
	// PhaseInitializing - seats and board being set up
	PhaseInitializing GamePhase = iota

	// PhasePlaying - moves are being accepted
	PhasePlaying

	// PhaseFinished - a pawn reached its goal
	PhaseFinished

	// PhaseError - the game cannot continue until it is reset
	PhaseError

	// PhaseReset - clearing a finished or failed game before reseating it
	PhaseReset
)

// String returns the string representation of a GamePhase
func (p GamePhase) String() string {
	switch p {
	case PhaseInitializing:
		return "Initializing"
	case PhasePlaying:
		return "Playing"
	case PhaseFinished:
		return "Finished"
	case PhaseError:
		return "Error"
	case PhaseReset:
		return "Reset"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p GamePhase) IsTerminal() bool {
	return p == PhaseFinished || p == PhaseError
}

// CanReceiveMoves returns true if the game accepts moves, undo and redo in this phase
func (p GamePhase) CanReceiveMoves() bool {
	return p == PhasePlaying
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseInitializing:
		return []GamePhase{PhasePlaying, PhaseError}
	case PhasePlaying:
		return []GamePhase{PhaseFinished, PhaseError}
	case PhaseFinished:
		return []GamePhase{PhaseReset}
	case PhaseError:
		return []GamePhase{PhaseReset}
	case PhaseReset:
		return []GamePhase{PhaseInitializing}
	default:
		return []GamePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}
