package rules

import (
	"fmt"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
)

// Refusal reasons reported through core.MoveError
const (
	ReasonNotPlaying      = "game is not in playing state"
	ReasonNotYourTurn     = "not your turn"
	ReasonWrongOrigin     = "pawn move does not start from the player's position"
	ReasonOffBoard        = "destination is off the board"
	ReasonOccupied        = "destination is occupied"
	ReasonPawnNotAllowed  = "pawn move not allowed"
	ReasonNoWallsLeft     = "no walls remaining"
	ReasonWallOutOfBounds = "wall is out of bounds"
	ReasonWallConflict    = "wall overlaps or crosses an existing wall"
	ReasonWallBlocksPath  = "wall blocks a player's path to goal"
	ReasonUnknownKind     = "unknown move kind"
)

// ValidPawnMoves lists every cell the player's pawn may move to
func ValidPawnMoves(gs *core.GameState, playerID int) []core.Position {
	p := gs.PlayerByID(playerID)
	if p == nil {
		return nil
	}
	mask := gs.EdgeMask()
	return PawnMoves(gs, &mask, p.Pos)
}

// PawnMoves generates pawn destinations from a cell over a prebuilt edge mask.
// Steps come first, then straight jumps, then diagonal side-steps, each in
// core.Directions order.
func PawnMoves(gs *core.GameState, mask *core.EdgeMask, from core.Position) []core.Position {
	out := make([]core.Position, 0, 5)
	add := func(p core.Position) {
		for _, q := range out {
			if q == p {
				return
			}
		}
		out = append(out, p)
	}

	for _, d := range core.Directions {
		next, ok := mask.CanStep(from, d)
		if !ok {
			continue
		}
		if !gs.IsOccupied(next) {
			add(next)
			continue
		}
		// Adjacent pawn: jump straight over it when possible.
		if jump, ok := mask.CanStep(next, d); ok && !gs.IsOccupied(jump) {
			add(jump)
			continue
		}
		// Straight jump blocked by a wall, the edge or another pawn: side-step.
		for _, side := range perpendicular(d) {
			if diag, ok := mask.CanStep(next, side); ok && !gs.IsOccupied(diag) {
				add(diag)
			}
		}
	}
	return out
}

func perpendicular(d core.Direction) [2]core.Direction {
	if d == core.Up || d == core.Down {
		return [2]core.Direction{core.Left, core.Right}
	}
	return [2]core.Direction{core.Up, core.Down}
}

// IsValidPawnMove reports whether the player may move to `to`
func IsValidPawnMove(gs *core.GameState, playerID int, to core.Position) bool {
	return ValidatePawnMove(gs, playerID, to) == nil
}

// ValidatePawnMove explains why a pawn move to `to` is refused, or returns nil
func ValidatePawnMove(gs *core.GameState, playerID int, to core.Position) error {
	p := gs.PlayerByID(playerID)
	if p == nil {
		return fmt.Errorf("%w: %d", core.ErrInvalidPlayer, playerID)
	}
	move := core.Move{Kind: core.PawnMove, PlayerID: playerID, From: p.Pos, To: to}
	if !to.InBounds(gs.BoardSize) {
		return core.IllegalMove(move, ReasonOffBoard)
	}
	if gs.IsOccupied(to) {
		return core.IllegalMove(move, ReasonOccupied)
	}
	for _, dest := range ValidPawnMoves(gs, playerID) {
		if dest == to {
			return nil
		}
	}
	return core.IllegalMove(move, ReasonPawnNotAllowed)
}

// IsValidWallPlacement reports whether the player may place w
func IsValidWallPlacement(gs *core.GameState, playerID int, w core.Wall) bool {
	return ValidateWallPlacement(gs, playerID, w) == nil
}

// ValidateWallPlacement checks the wall budget, bounds, conflicts and that
// every player keeps a path to goal. The state is never modified.
func ValidateWallPlacement(gs *core.GameState, playerID int, w core.Wall) error {
	p := gs.PlayerByID(playerID)
	if p == nil {
		return fmt.Errorf("%w: %d", core.ErrInvalidPlayer, playerID)
	}
	move := core.Move{Kind: core.WallMove, PlayerID: playerID, Wall: w}
	if p.WallsRemaining <= 0 {
		return core.IllegalMove(move, ReasonNoWallsLeft)
	}
	if !core.WallInBounds(w, gs.BoardSize) {
		return core.IllegalMove(move, ReasonWallOutOfBounds)
	}
	if core.ConflictsWithAny(w, gs.Walls) {
		return core.IllegalMove(move, ReasonWallConflict)
	}
	mask := gs.EdgeMask()
	if !KeepsAllPaths(gs, &mask, w) {
		return core.IllegalMove(move, ReasonWallBlocksPath)
	}
	return nil
}

// KeepsAllPaths reports whether adding w to base still leaves every player a route to goal
func KeepsAllPaths(gs *core.GameState, base *core.EdgeMask, w core.Wall) bool {
	tentative := *base
	tentative.Add(w)
	for i := range gs.Players {
		if !ReachesGoal(&tentative, &gs.Players[i]) {
			return false
		}
	}
	return true
}

// CanPlaceWall is the allocation-free legality check used by move generation.
// It skips the wall budget check, which callers do once per player.
func CanPlaceWall(gs *core.GameState, base *core.EdgeMask, w core.Wall) bool {
	if !core.WallInBounds(w, gs.BoardSize) || core.ConflictsWithAny(w, gs.Walls) {
		return false
	}
	return KeepsAllPaths(gs, base, w)
}

// ValidWallPlacements enumerates every legal wall for the player
func ValidWallPlacements(gs *core.GameState, playerID int) []core.Wall {
	p := gs.PlayerByID(playerID)
	if p == nil || p.WallsRemaining <= 0 {
		return nil
	}
	mask := gs.EdgeMask()
	var out []core.Wall
	for _, o := range []core.Orientation{core.Horizontal, core.Vertical} {
		for r := 0; r < gs.BoardSize; r++ {
			for c := 0; c < gs.BoardSize; c++ {
				w := core.NewWall(r, c, o)
				if CanPlaceWall(gs, &mask, w) {
					out = append(out, w)
				}
			}
		}
	}
	return out
}

// ValidateMove checks that move is legal in gs without applying it
func ValidateMove(gs *core.GameState, move core.Move) error {
	if gs.Status != core.StatusPlaying {
		return core.NewMoveError(move, core.ErrGameOver, ReasonNotPlaying)
	}
	cur := gs.CurrentPlayer()
	if cur == nil || cur.ID != move.PlayerID {
		return core.NewMoveError(move, core.ErrNotPlayersTurn, ReasonNotYourTurn)
	}
	switch move.Kind {
	case core.PawnMove:
		if move.From != cur.Pos {
			return core.IllegalMove(move, ReasonWrongOrigin)
		}
		return ValidatePawnMove(gs, move.PlayerID, move.To)
	case core.WallMove:
		return ValidateWallPlacement(gs, move.PlayerID, move.Wall)
	default:
		return core.IllegalMove(move, ReasonUnknownKind)
	}
}
