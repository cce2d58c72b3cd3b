package rules

import (
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
)

// ApplyMove validates move and returns the successor state. gs is never
// modified; on error the returned state is nil.
func ApplyMove(gs *core.GameState, move core.Move) (*core.GameState, error) {
	if err := ValidateMove(gs, move); err != nil {
		return nil, err
	}
	next := gs.Clone()
	play(next, move)
	// A new move discards anything that was undone.
	next.History = append(next.History[:next.HistoryIndex], move)
	next.HistoryIndex++
	return next, nil
}

// ApplySearchMove plays a move produced by the move generator on a history-free
// clone. The move is assumed legal.
func ApplySearchMove(gs *core.GameState, move core.Move) *core.GameState {
	next := gs.CloneForSearch()
	play(next, move)
	return next
}

// play mutates gs: moves the pawn or places the wall, settles the winner and
// passes the turn while the game is still running.
func play(gs *core.GameState, move core.Move) {
	p := gs.PlayerByID(move.PlayerID)
	if p == nil {
		return
	}
	switch move.Kind {
	case core.PawnMove:
		p.Pos = move.To
		if gs.Winner == nil && p.AtGoal(gs.BoardSize) {
			id := p.ID
			gs.Winner = &id
			gs.Status = core.StatusFinished
		}
	case core.WallMove:
		gs.Walls = append(gs.Walls, move.Wall)
		p.WallsRemaining--
	}
	if gs.Status == core.StatusPlaying {
		gs.AdvanceTurn()
	}
}

// Undo reverts the most recent applied move. Finished games cannot be undone.
func Undo(gs *core.GameState) (*core.GameState, error) {
	if gs.Status == core.StatusFinished {
		return nil, core.ErrGameOver
	}
	if gs.HistoryIndex <= 0 || gs.HistoryIndex > len(gs.History) {
		return nil, core.ErrNothingToUndo
	}
	move := gs.History[gs.HistoryIndex-1]
	next := gs.Clone()
	p := next.PlayerByID(move.PlayerID)
	if p == nil {
		return nil, core.ErrMalformedState
	}
	switch move.Kind {
	case core.PawnMove:
		p.Pos = move.From
	case core.WallMove:
		for i := len(next.Walls) - 1; i >= 0; i-- {
			if next.Walls[i] == move.Wall {
				next.Walls = append(next.Walls[:i], next.Walls[i+1:]...)
				break
			}
		}
		p.WallsRemaining++
	}
	next.CurrentPlayerIndex = next.PlayerIndex(move.PlayerID)
	next.HistoryIndex--
	return next, nil
}

// Redo re-applies the next undone move
func Redo(gs *core.GameState) (*core.GameState, error) {
	if gs.Status == core.StatusFinished {
		return nil, core.ErrGameOver
	}
	if gs.HistoryIndex >= len(gs.History) {
		return nil, core.ErrNothingToRedo
	}
	move := gs.History[gs.HistoryIndex]
	if err := ValidateMove(gs, move); err != nil {
		return nil, err
	}
	next := gs.Clone()
	play(next, move)
	next.HistoryIndex++
	return next, nil
}
