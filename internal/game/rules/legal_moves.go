package rules

import "github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"

// LegalMoves lists every legal move for the player: pawn moves first, then walls.
// It is empty when the game is over or it is not the player's turn.
func LegalMoves(gs *core.GameState, playerID int) []core.Move {
	if gs.Status != core.StatusPlaying {
		return nil
	}
	cur := gs.CurrentPlayer()
	if cur == nil || cur.ID != playerID {
		return nil
	}

	pawns := ValidPawnMoves(gs, playerID)
	walls := ValidWallPlacements(gs, playerID)
	moves := make([]core.Move, 0, len(pawns)+len(walls))
	for _, to := range pawns {
		moves = append(moves, core.Move{Kind: core.PawnMove, PlayerID: playerID, From: cur.Pos, To: to})
	}
	for _, w := range walls {
		moves = append(moves, core.Move{Kind: core.WallMove, PlayerID: playerID, Wall: w})
	}
	return moves
}

// LegalMoveNotations renders LegalMoves in algebraic notation
func LegalMoveNotations(gs *core.GameState, playerID int) []string {
	moves := LegalMoves(gs, playerID)
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.Notation()
	}
	return out
}
