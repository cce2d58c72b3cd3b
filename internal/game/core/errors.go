package core

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove     = errors.New("illegal move")
	ErrNoLegalMoves    = errors.New("no legal moves")
	ErrMalformedState  = errors.New("malformed game state")
	ErrGameOver        = errors.New("game is over")
	ErrNotPlayersTurn  = errors.New("not player's turn")
	ErrInvalidPlayer   = errors.New("invalid player ID")
	ErrInvalidSettings = errors.New("invalid game settings")
	ErrInvalidNotation = errors.New("invalid notation")
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrNothingToRedo   = errors.New("nothing to redo")
)

// MoveError describes why a move was refused. It unwraps to one of the
// sentinel errors above, usually ErrIllegalMove.
type MoveError struct {
	Move   Move
	Reason string
	Err    error
}

func (e *MoveError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("player %d: %s: %v", e.Move.PlayerID, e.Move, e.Err)
	}
	return fmt.Sprintf("player %d: %s: %s", e.Move.PlayerID, e.Move, e.Reason)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// NewMoveError builds a MoveError for move with a human-readable reason
func NewMoveError(move Move, err error, reason string) *MoveError {
	return &MoveError{Move: move, Reason: reason, Err: err}
}

// IllegalMove is shorthand for a MoveError wrapping ErrIllegalMove
func IllegalMove(move Move, reason string) *MoveError {
	return NewMoveError(move, ErrIllegalMove, reason)
}

// WrapMoveError attaches move context to err. A nil err stays nil.
func WrapMoveError(move Move, err error) error {
	if err == nil {
		return nil
	}
	var me *MoveError
	if errors.As(err, &me) {
		return err
	}
	return &MoveError{Move: move, Err: err}
}

// Reason extracts the human-readable reason from a MoveError chain, falling
// back to the error text.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var me *MoveError
	if errors.As(err, &me) && me.Reason != "" {
		return me.Reason
	}
	return err.Error()
}
